// Package slog decorates scrollback services with structured logging.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/scrollback"
)

// Ensure LoggingExtractor implements scrollback.Extractor.
var _ scrollback.Extractor = (*LoggingExtractor)(nil)

// LoggingExtractor wraps an Extractor with logging. Runs that end without
// converging, or that overwrite indexed rows, are logged at WARN.
type LoggingExtractor struct {
	next   scrollback.Extractor
	logger *slog.Logger
}

// NewLoggingExtractor creates a new LoggingExtractor.
func NewLoggingExtractor(next scrollback.Extractor, logger *slog.Logger) *LoggingExtractor {
	return &LoggingExtractor{next: next, logger: logger}
}

// Extract delegates to the wrapped extractor and logs the outcome.
func (e *LoggingExtractor) Extract(ctx context.Context, doc scrollback.Document, cfg scrollback.Config) (res *scrollback.Result, err error) {
	defer func(begin time.Time) {
		attrs := []any{
			"identity", cfg.Identity,
			"duration", time.Since(begin),
		}
		level := slog.LevelInfo
		if res != nil {
			attrs = append(attrs,
				"lines", len(res.Lines),
				"iterations", res.Iterations,
				"stop", res.Stop,
				"overwrites", res.Overwrites,
			)
			if !res.Converged() || res.Overwrites > 0 {
				level = slog.LevelWarn
			}
		}
		if err != nil {
			attrs = append(attrs, "err", err)
		}
		e.logger.Log(ctx, level, "extract", attrs...)
	}(time.Now())
	return e.next.Extract(ctx, doc, cfg)
}
