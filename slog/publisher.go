package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/scrollback"
)

// Ensure LoggingPublisher implements scrollback.Publisher.
var _ scrollback.Publisher = (*LoggingPublisher)(nil)

// LoggingPublisher wraps a Publisher with logging under an output name.
type LoggingPublisher struct {
	next   scrollback.Publisher
	output string
	logger *slog.Logger
}

// NewLoggingPublisher creates a new LoggingPublisher.
func NewLoggingPublisher(next scrollback.Publisher, output string, logger *slog.Logger) *LoggingPublisher {
	return &LoggingPublisher{next: next, output: output, logger: logger}
}

// Publish delegates to the wrapped publisher and logs the operation.
func (p *LoggingPublisher) Publish(ctx context.Context, t *scrollback.Transcript) (err error) {
	defer func(begin time.Time) {
		p.logger.Info("publish",
			"output", p.output,
			"lines", len(t.Lines),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return p.next.Publish(ctx, t)
}

// Ensure LoggingSummarizer implements scrollback.Summarizer.
var _ scrollback.Summarizer = (*LoggingSummarizer)(nil)

// LoggingSummarizer wraps a Summarizer with logging.
type LoggingSummarizer struct {
	next   scrollback.Summarizer
	logger *slog.Logger
}

// NewLoggingSummarizer creates a new LoggingSummarizer.
func NewLoggingSummarizer(next scrollback.Summarizer, logger *slog.Logger) *LoggingSummarizer {
	return &LoggingSummarizer{next: next, logger: logger}
}

// Summarize delegates to the wrapped summarizer and logs the operation.
func (s *LoggingSummarizer) Summarize(ctx context.Context, t *scrollback.Transcript) (notes string, err error) {
	defer func(begin time.Time) {
		s.logger.Info("summarize",
			"id", t.ID,
			"lines", len(t.Lines),
			"bytes", len(notes),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Summarize(ctx, t)
}
