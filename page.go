package scrollback

import (
	"context"
	"time"
)

// Page is a rendered page open in a browser.
type Page interface {
	Document

	// Title returns the document title.
	Title(ctx context.Context) (string, error)

	// Close releases the page.
	Close() error
}

// Action is a step performed on a page before extraction, such as opening
// the transcript panel.
type Action struct {
	// Click is a selector to click. Empty for wait-only actions.
	Click string

	// WaitFor is a selector to wait for.
	WaitFor string

	// Pause is a fixed wait after the action.
	Pause time.Duration
}

// PageOpener loads URLs into rendered pages.
// Implementations may use browser automation to handle JavaScript-rendered content.
type PageOpener interface {
	// Open navigates to the URL, waits for it to load, performs the actions
	// in order, and returns the rendered page.
	// The context controls timeout and cancellation.
	Open(ctx context.Context, url string, actions []Action) (Page, error)

	// Close releases browser resources.
	// Must be called when the PageOpener is no longer needed.
	Close() error
}
