// Package scratch locates the per-run scratch directory where the
// submit pipeline parks artifacts between steps. Paths are keyed by
// session so concurrent runs on one machine never collide.
package scratch

import (
	"fmt"
	"os"
	"path/filepath"
)

// diffName is the artifact holding the filtered diff between the diff
// and describe steps.
const diffName = "diff.patch"

// Space addresses the scratch artifacts of one pipeline run.
type Space struct {
	root string
}

// Option configures a Space.
type Option func(*options)

type options struct {
	base string
}

// WithBaseDir overrides the parent of the session directory, normally
// the system temp dir.
func WithBaseDir(dir string) Option {
	return func(o *options) { o.base = dir }
}

// New returns the Space for a session.
func New(sessionID string, opts ...Option) Space {
	o := options{base: os.TempDir()}
	for _, opt := range opts {
		opt(&o)
	}
	return Space{root: filepath.Join(o.base, "drover-"+sessionID)}
}

// Root returns the session directory. It may not exist yet.
func (s Space) Root() string { return s.root }

// DiffPath returns where the diff artifact lives for this session.
func (s Space) DiffPath() string { return filepath.Join(s.root, diffName) }

// WriteDiff persists the diff artifact and returns its path. The write
// goes through a temp file and rename so a consumer never sees a
// partial artifact.
func (s Space) WriteDiff(content string) (string, error) {
	if err := os.MkdirAll(s.root, 0o700); err != nil {
		return "", fmt.Errorf("failed to create scratch directory: %w", err)
	}

	tmp, err := os.CreateTemp(s.root, "tmp-"+diffName+"-*")
	if err != nil {
		return "", fmt.Errorf("failed to create scratch temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
	}()

	if _, err := tmp.WriteString(content); err != nil {
		return "", fmt.Errorf("failed to write scratch artifact: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("failed to close scratch temp file: %w", err)
	}

	dest := s.DiffPath()
	if err := os.Rename(tmpPath, dest); err != nil {
		return "", fmt.Errorf("failed to move scratch artifact into place: %w", err)
	}
	return dest, nil
}

// ReadDiff returns the diff artifact's contents.
func (s Space) ReadDiff() (string, error) {
	data, err := os.ReadFile(s.DiffPath())
	if err != nil {
		return "", fmt.Errorf("failed to read scratch artifact: %w", err)
	}
	return string(data), nil
}

// Cleanup removes the session directory and everything in it. Removing
// a directory that never existed is fine.
func (s Space) Cleanup() error {
	if err := os.RemoveAll(s.root); err != nil {
		return fmt.Errorf("failed to remove scratch directory: %w", err)
	}
	return nil
}
