// Package clipboard copies transcripts to the system clipboard.
package clipboard

import (
	"context"
	"fmt"

	"github.com/atotto/clipboard"
	"github.com/fwojciec/scrollback"
)

// Ensure Writer implements scrollback.Publisher at compile time.
var _ scrollback.Publisher = (*Writer)(nil)

// Writer copies a transcript's text to the system clipboard.
type Writer struct {
	// WriteFn replaces the system clipboard when set.
	WriteFn func(text string) error
}

// NewWriter creates a Writer backed by the system clipboard.
func NewWriter() *Writer {
	return &Writer{}
}

// Publish copies the transcript's lines separated by blank lines.
// Returns EUNAVAILABLE when no clipboard utility is installed.
func (w *Writer) Publish(ctx context.Context, t *scrollback.Transcript) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := t.Validate(); err != nil {
		return err
	}
	if w.WriteFn == nil {
		if clipboard.Unsupported {
			return scrollback.Errorf(scrollback.EUNAVAILABLE, "clipboard is not supported on this system")
		}
		w.WriteFn = clipboard.WriteAll
	}
	if err := w.WriteFn(scrollback.FormatLines(t.Lines)); err != nil {
		return fmt.Errorf("writing clipboard: %w", err)
	}
	return nil
}
