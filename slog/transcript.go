package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/scrollback"
)

// Ensure LoggingTranscriptService implements scrollback.TranscriptService.
var _ scrollback.TranscriptService = (*LoggingTranscriptService)(nil)

// LoggingTranscriptService wraps a TranscriptService with logging. Writes are
// logged at INFO and reads at DEBUG.
type LoggingTranscriptService struct {
	next   scrollback.TranscriptService
	logger *slog.Logger
}

// NewLoggingTranscriptService creates a new LoggingTranscriptService.
func NewLoggingTranscriptService(next scrollback.TranscriptService, logger *slog.Logger) *LoggingTranscriptService {
	return &LoggingTranscriptService{next: next, logger: logger}
}

// CreateTranscript delegates to the wrapped service and logs the new ID.
func (s *LoggingTranscriptService) CreateTranscript(ctx context.Context, t *scrollback.Transcript) (err error) {
	defer func(begin time.Time) {
		s.logger.Info("create transcript",
			"id", t.ID,
			"url", t.SourceURL,
			"lines", len(t.Lines),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.CreateTranscript(ctx, t)
}

func (s *LoggingTranscriptService) FindTranscriptByID(ctx context.Context, id string) (t *scrollback.Transcript, err error) {
	defer func(begin time.Time) {
		s.logger.Debug("find transcript",
			"id", id,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.FindTranscriptByID(ctx, id)
}

func (s *LoggingTranscriptService) FindTranscripts(ctx context.Context, filter scrollback.TranscriptFilter) (ts []*scrollback.Transcript, err error) {
	defer func(begin time.Time) {
		s.logger.Debug("find transcripts",
			"count", len(ts),
			"offset", filter.Offset,
			"limit", filter.Limit,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.FindTranscripts(ctx, filter)
}

func (s *LoggingTranscriptService) DeleteTranscript(ctx context.Context, id string) (err error) {
	defer func(begin time.Time) {
		s.logger.Info("delete transcript",
			"id", id,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.DeleteTranscript(ctx, id)
}
