package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyRunID      = "run_id"
	KeyWorker     = "worker"
	KeyPackage    = "package"
	KeyPlugin     = "plugin"
	KeyTag        = "tag"
	KeyVersion    = "version"
	KeyOrigin     = "origin"
	KeyStage      = "stage"
	KeyPath       = "path"
	KeyURL        = "url"
	KeySource     = "source"
	KeyDurationMS = "duration_ms"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func RunID(id string) slog.Attr       { return slog.String(KeyRunID, id) }
func Worker(n int) slog.Attr          { return slog.Int(KeyWorker, n) }
func Package(name string) slog.Attr   { return slog.String(KeyPackage, name) }
func Plugin(name string) slog.Attr    { return slog.String(KeyPlugin, name) }
func Tag(tag string) slog.Attr        { return slog.String(KeyTag, tag) }
func Version(v string) slog.Attr      { return slog.String(KeyVersion, v) }
func Origin(o string) slog.Attr       { return slog.String(KeyOrigin, o) }
func Stage(name string) slog.Attr     { return slog.String(KeyStage, name) }
func Path(p string) slog.Attr         { return slog.String(KeyPath, p) }
func URL(u string) slog.Attr          { return slog.String(KeyURL, u) }
func Source(s string) slog.Attr       { return slog.String(KeySource, s) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
