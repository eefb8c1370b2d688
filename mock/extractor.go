package mock

import (
	"context"

	"github.com/fwojciec/scrollback"
)

var _ scrollback.Extractor = (*Extractor)(nil)

// Extractor is a mock implementation of scrollback.Extractor.
type Extractor struct {
	ExtractFn func(ctx context.Context, doc scrollback.Document, cfg scrollback.Config) (*scrollback.Result, error)
}

func (e *Extractor) Extract(ctx context.Context, doc scrollback.Document, cfg scrollback.Config) (*scrollback.Result, error) {
	return e.ExtractFn(ctx, doc, cfg)
}
