// Package artifact writes rendered documentation to the output tree.
package artifact

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"

	ferrors "git.home.luguber.info/inful/plugindocs/internal/foundation/errors"
	"git.home.luguber.info/inful/plugindocs/internal/plugintype"
)

// Extension of generated artifacts.
const Extension = ".asciidoc"

// Result is the outcome of a write.
type Result int

const (
	Written Result = iota
	Skipped
)

func (r Result) String() string {
	if r == Skipped {
		return "skipped"
	}
	return "written"
}

// Rendered is an artifact ready to be written.
type Rendered struct {
	OutputPath string
	Content    string
}

var versionLine = regexp.MustCompile(`(?m)^:version: (.*?)\n`)

// Path is the artifact location for a logical plugin under root.
func Path(root string, typ plugintype.Type, name string) string {
	return filepath.Join(root, "docs", "plugins", typ.Dir(), name+Extension)
}

// Writer writes artifacts with whole-file replacement.
type Writer struct {
	perm os.FileMode
}

// NewWriter returns a Writer creating files with mode 0o644.
func NewWriter() *Writer { return &Writer{perm: 0o644} }

// Write stores content at path. With skipIfUnchanged, an existing file whose
// ":version:" line matches the new content's is left untouched.
func (w *Writer) Write(path, content string, skipIfUnchanged bool) (Result, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return Written, ferrors.WriteFailure(path, err).Build()
	}
	if skipIfUnchanged {
		unchanged, err := sameVersion(path, content)
		if err != nil {
			return Written, ferrors.WriteFailure(path, err).Build()
		}
		if unchanged {
			return Skipped, nil
		}
	}
	if err := os.WriteFile(path, []byte(content), w.perm); err != nil {
		return Written, ferrors.WriteFailure(path, err).Build()
	}
	return Written, nil
}

// WriteRendered is Write for a Rendered artifact.
func (w *Writer) WriteRendered(a Rendered, skipIfUnchanged bool) (Result, error) {
	return w.Write(a.OutputPath, a.Content, skipIfUnchanged)
}

// sameVersion reports whether path exists and declares the same version as content.
func sameVersion(path, content string) (bool, error) {
	existing, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	oldVersion, oldOK := ExtractVersion(string(existing))
	newVersion, newOK := ExtractVersion(content)
	return oldOK == newOK && oldVersion == newVersion, nil
}

// ExtractVersion returns the value of the first ":version:" line, if any.
func ExtractVersion(content string) (string, bool) {
	m := versionLine.FindStringSubmatch(content)
	if m == nil {
		return "", false
	}
	return m[1], true
}
