package mock

import (
	"context"

	"github.com/fwojciec/scrollback"
)

// Compile-time interface verification.
var (
	_ scrollback.TranscriptService = (*TranscriptService)(nil)
	_ scrollback.Publisher         = (*Publisher)(nil)
	_ scrollback.Summarizer        = (*Summarizer)(nil)
)

// TranscriptService is a mock implementation of scrollback.TranscriptService.
type TranscriptService struct {
	CreateTranscriptFn   func(ctx context.Context, t *scrollback.Transcript) error
	FindTranscriptByIDFn func(ctx context.Context, id string) (*scrollback.Transcript, error)
	FindTranscriptsFn    func(ctx context.Context, filter scrollback.TranscriptFilter) ([]*scrollback.Transcript, error)
	DeleteTranscriptFn   func(ctx context.Context, id string) error
}

func (s *TranscriptService) CreateTranscript(ctx context.Context, t *scrollback.Transcript) error {
	return s.CreateTranscriptFn(ctx, t)
}

func (s *TranscriptService) FindTranscriptByID(ctx context.Context, id string) (*scrollback.Transcript, error) {
	return s.FindTranscriptByIDFn(ctx, id)
}

func (s *TranscriptService) FindTranscripts(ctx context.Context, filter scrollback.TranscriptFilter) ([]*scrollback.Transcript, error) {
	return s.FindTranscriptsFn(ctx, filter)
}

func (s *TranscriptService) DeleteTranscript(ctx context.Context, id string) error {
	return s.DeleteTranscriptFn(ctx, id)
}

// Publisher is a mock implementation of scrollback.Publisher.
type Publisher struct {
	PublishFn func(ctx context.Context, t *scrollback.Transcript) error
}

func (p *Publisher) Publish(ctx context.Context, t *scrollback.Transcript) error {
	return p.PublishFn(ctx, t)
}

// Summarizer is a mock implementation of scrollback.Summarizer.
type Summarizer struct {
	SummarizeFn func(ctx context.Context, t *scrollback.Transcript) (string, error)
}

func (s *Summarizer) Summarize(ctx context.Context, t *scrollback.Transcript) (string, error) {
	return s.SummarizeFn(ctx, t)
}
