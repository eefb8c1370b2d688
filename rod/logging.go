package rod

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/scrollback"
)

// Ensure LoggingPageOpener implements scrollback.PageOpener.
var _ scrollback.PageOpener = (*LoggingPageOpener)(nil)

// LoggingPageOpener wraps a PageOpener with logging.
type LoggingPageOpener struct {
	next   scrollback.PageOpener
	logger *slog.Logger
}

// NewLoggingPageOpener creates a new LoggingPageOpener.
func NewLoggingPageOpener(next scrollback.PageOpener, logger *slog.Logger) *LoggingPageOpener {
	return &LoggingPageOpener{next: next, logger: logger}
}

// Open logs the URL being opened and delegates to the wrapped opener.
func (o *LoggingPageOpener) Open(ctx context.Context, url string, actions []scrollback.Action) (page scrollback.Page, err error) {
	defer func(begin time.Time) {
		o.logger.Info("open",
			"url", url,
			"actions", len(actions),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return o.next.Open(ctx, url, actions)
}

// Close delegates to the wrapped opener.
func (o *LoggingPageOpener) Close() error {
	return o.next.Close()
}
