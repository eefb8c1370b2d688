package scroll

import (
	"context"
	"fmt"

	"github.com/fwojciec/scrollback"
)

// Ensure Extractor implements scrollback.Extractor at compile time.
var _ scrollback.Extractor = (*Extractor)(nil)

// Extractor runs the full extraction: locate, scroll, collect, normalize.
type Extractor struct {
	// Wait overrides the driver's settle wait. Used by tests.
	Wait WaitFunc

	// Progress, if set, receives driver progress.
	Progress ProgressFunc
}

// NewExtractor returns a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract locates the transcript in doc, scrolls it to the end, and returns
// the collected lines. Returns EINVALID for an invalid configuration and
// ENOTFOUND when no transcript root or no content can be found.
func (e *Extractor) Extract(ctx context.Context, doc scrollback.Document, cfg scrollback.Config) (*scrollback.Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	root, err := NewLocator(cfg).Locate(ctx, doc)
	if err != nil {
		return nil, err
	}

	driver := NewDriver(cfg)
	driver.Wait = e.Wait
	driver.Progress = e.Progress

	res, err := driver.Run(ctx, root)
	if err != nil {
		if res != nil {
			return res, err
		}
		return nil, fmt.Errorf("scrolling transcript: %w", err)
	}
	if len(res.Lines) == 0 {
		return nil, scrollback.Errorf(scrollback.ENOTFOUND, "no transcript content found after %d iterations", res.Iterations)
	}

	if cfg.Normalize {
		res.Lines = scrollback.Normalize(res.Lines)
	}
	return res, nil
}

// Extract is a convenience wrapper around Extractor.Extract with defaults.
func Extract(ctx context.Context, doc scrollback.Document, cfg scrollback.Config) (*scrollback.Result, error) {
	return NewExtractor().Extract(ctx, doc, cfg)
}
