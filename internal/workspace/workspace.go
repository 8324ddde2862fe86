package workspace

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"git.home.luguber.info/inful/plugindocs/internal/logfields"
)

// Manager handles workspace operations (both temporary and persistent).
type Manager struct {
	baseDir    string
	dir        string
	persistent bool
}

// NewManager creates a workspace manager with an ephemeral directory under baseDir.
func NewManager(baseDir string) *Manager {
	if baseDir == "" {
		baseDir = os.TempDir()
	}
	return &Manager{baseDir: baseDir}
}

// NewPersistentManager creates a workspace manager rooted at dir that is never cleaned up.
func NewPersistentManager(dir string) *Manager {
	return &Manager{baseDir: dir, dir: dir, persistent: true}
}

// Create creates the workspace directory.
func (m *Manager) Create() error {
	if m.persistent {
		if err := os.MkdirAll(m.dir, 0o750); err != nil {
			return fmt.Errorf("failed to create persistent workspace directory: %w", err)
		}
		slog.Debug("Using persistent workspace", logfields.Path(m.dir))
		return nil
	}
	if m.dir != "" {
		return nil
	}
	if err := os.MkdirAll(m.baseDir, 0o750); err != nil {
		return fmt.Errorf("failed to create workspace base directory: %w", err)
	}
	dir, err := os.MkdirTemp(m.baseDir, "plugindocs-")
	if err != nil {
		return fmt.Errorf("failed to create workspace directory: %w", err)
	}
	m.dir = dir
	slog.Debug("Created workspace", logfields.Path(dir))
	return nil
}

// GetPath returns the workspace directory ("" before Create in ephemeral mode).
func (m *Manager) GetPath() string {
	return m.dir
}

// IsPersistent reports whether the workspace survives Cleanup.
func (m *Manager) IsPersistent() bool { return m.persistent }

// Cleanup removes an ephemeral workspace; persistent workspaces are kept.
func (m *Manager) Cleanup() error {
	if m.dir == "" || m.persistent {
		return nil
	}
	if err := os.RemoveAll(m.dir); err != nil {
		return fmt.Errorf("failed to cleanup workspace: %w", err)
	}
	slog.Debug("Cleaned up workspace", logfields.Path(m.dir))
	m.dir = ""
	return nil
}

// Subdir returns the workspace path for the given elements, rejecting any
// element that would escape the workspace. The directory is not created.
func (m *Manager) Subdir(elems ...string) (string, error) {
	if m.dir == "" {
		return "", fmt.Errorf("workspace not created")
	}
	for _, e := range elems {
		if e == "" || !filepath.IsLocal(e) || strings.ContainsAny(e, `/\`) {
			return "", fmt.Errorf("invalid workspace path element %q", e)
		}
	}
	return filepath.Join(append([]string{m.dir}, elems...)...), nil
}
