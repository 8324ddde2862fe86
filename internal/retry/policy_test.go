package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"git.home.luguber.info/inful/plugindocs/internal/config"
	ferrors "git.home.luguber.info/inful/plugindocs/internal/foundation/errors"
)

// TestDefaultPolicy verifies the baseline default values.
func TestDefaultPolicy(t *testing.T) {
	p := DefaultPolicy()
	if p.Mode != config.RetryBackoffLinear { t.Fatalf("expected linear default mode got %s", p.Mode) }
	if p.Initial != time.Second { t.Fatalf("expected initial 1s got %v", p.Initial) }
	if p.Max != 30*time.Second { t.Fatalf("expected max 30s got %v", p.Max) }
	if p.MaxRetries != 2 { t.Fatalf("expected max retries 2 got %d", p.MaxRetries) }
}

// TestNewPolicyOverrides checks override precedence and clamping when initial > max.
func TestNewPolicyOverrides(t *testing.T) {
	p := NewPolicy(config.RetryBackoffFixed, 5*time.Second, 2*time.Second, 5)
	if p.Initial != 2*time.Second { t.Fatalf("expected clamped initial 2s got %v", p.Initial) }
	if p.Max != 2*time.Second { t.Fatalf("expected max 2s got %v", p.Max) }
	if p.Mode != config.RetryBackoffFixed { t.Fatalf("expected fixed mode got %s", p.Mode) }
	if p.MaxRetries != 5 { t.Fatalf("expected maxRetries 5 got %d", p.MaxRetries) }
}

// TestFromConfig maps the settings retry block, keeping defaults for unset fields.
func TestFromConfig(t *testing.T) {
	zero := 0
	p := FromConfig(config.RetryConfig{Mode: "EXPONENTIAL", Initial: 10 * time.Millisecond, MaxRetries: &zero})
	if p.Mode != config.RetryBackoffExponential { t.Fatalf("expected exponential got %s", p.Mode) }
	if p.MaxRetries != 0 { t.Fatalf("expected explicit zero retries got %d", p.MaxRetries) }
	if p.Max != 30*time.Second { t.Fatalf("expected default max got %v", p.Max) }

	p = FromConfig(config.RetryConfig{})
	if p != DefaultPolicy() { t.Fatalf("empty config should yield default policy got %+v", p) }
}

// TestDelayModes ensures fixed, linear, exponential behave and respect cap.
func TestDelayModes(t *testing.T) {
	fixed := NewPolicy(config.RetryBackoffFixed, 100*time.Millisecond, 500*time.Millisecond, 3)
	for i := 1; i <= 3; i++ {
		if d := fixed.Delay(i); d != 100*time.Millisecond {
			t.Fatalf("fixed attempt %d expected 100ms got %v", i, d)
		}
	}

	linear := NewPolicy(config.RetryBackoffLinear, 100*time.Millisecond, 250*time.Millisecond, 5)
	cases := []struct{ attempt int; want time.Duration }{{1, 100 * time.Millisecond}, {2, 200 * time.Millisecond}, {3, 250 * time.Millisecond}}
	for _, c := range cases {
		if got := linear.Delay(c.attempt); got != c.want {
			t.Fatalf("linear attempt %d expected %v got %v", c.attempt, c.want, got)
		}
	}

	exp := NewPolicy(config.RetryBackoffExponential, 50*time.Millisecond, 160*time.Millisecond, 5)
	expCases := []struct{ attempt int; want time.Duration }{{1, 50 * time.Millisecond}, {2, 100 * time.Millisecond}, {3, 160 * time.Millisecond}}
	for _, c := range expCases {
		if got := exp.Delay(c.attempt); got != c.want {
			t.Fatalf("exp attempt %d expected %v got %v", c.attempt, c.want, got)
		}
	}
	if d := exp.Delay(0); d != 0 { t.Fatalf("attempt 0 expected 0 got %v", d) }
}

// TestDoRetriesTransientOnly counts attempts for transient vs permanent failures.
func TestDoRetriesTransientOnly(t *testing.T) {
	p := NewPolicy(config.RetryBackoffFixed, time.Millisecond, time.Millisecond, 2)

	calls := 0
	err := p.Do(context.Background(), func(int) error {
		calls++
		return ferrors.NetworkError("connection reset").Build()
	})
	if err == nil || calls != 3 { t.Fatalf("expected 3 attempts and an error, got %d attempts err=%v", calls, err) }

	calls = 0
	err = p.Do(context.Background(), func(int) error {
		calls++
		return ferrors.ReleaseNotFound("logstash-input-foo", "v1.0.0").Build()
	})
	if !ferrors.IsReleaseNotFound(err) || calls != 1 { t.Fatalf("permanent error must not retry: %d attempts err=%v", calls, err) }

	calls = 0
	err = p.Do(context.Background(), func(attempt int) error {
		calls++
		if attempt == 0 { return ferrors.NetworkError("flaky").Build() }
		return nil
	})
	if err != nil || calls != 2 { t.Fatalf("expected success on second attempt, got %d attempts err=%v", calls, err) }

	calls = 0
	plain := errors.New("plain")
	if err := p.Do(context.Background(), func(int) error { calls++; return plain }); !errors.Is(err, plain) || calls != 1 {
		t.Fatalf("unclassified errors must not retry: %d attempts err=%v", calls, err)
	}
}

// TestDoHonoursCancellation stops waiting once the context is done.
func TestDoHonoursCancellation(t *testing.T) {
	p := NewPolicy(config.RetryBackoffFixed, time.Hour, time.Hour, 3)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	calls := 0
	err := p.Do(ctx, func(int) error { calls++; return ferrors.NetworkError("down").Build() })
	if err == nil || calls != 1 { t.Fatalf("expected single attempt after cancellation, got %d err=%v", calls, err) }
}
