// Package fs writes transcripts to the local filesystem.
package fs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fwojciec/scrollback"
)

// Ensure Writer implements scrollback.Publisher at compile time.
var _ scrollback.Publisher = (*Writer)(nil)

// Writer writes a transcript's lines to a single file.
// The file is written to a temporary sibling first and renamed into place,
// so readers never observe a partial transcript.
type Writer struct {
	path string
}

// NewWriter creates a new Writer that writes to path.
func NewWriter(path string) *Writer {
	return &Writer{path: path}
}

// Path returns the destination file path.
func (w *Writer) Path() string {
	return w.path
}

// Publish writes the transcript's lines separated by blank lines.
func (w *Writer) Publish(ctx context.Context, t *scrollback.Transcript) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := t.Validate(); err != nil {
		return err
	}

	dir := filepath.Dir(w.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(w.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.WriteString(scrollback.FormatLines(t.Lines) + "\n"); err != nil {
		tmp.Close()
		return fmt.Errorf("writing transcript: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		return fmt.Errorf("setting permissions: %w", err)
	}
	if err := os.Rename(tmp.Name(), w.path); err != nil {
		return fmt.Errorf("moving transcript into place: %w", err)
	}
	return nil
}
