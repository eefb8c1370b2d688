package rod

import (
	"context"
	"fmt"
	"time"

	"github.com/fwojciec/scrollback"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
)

// Ensure PageOpener implements scrollback.PageOpener at compile time.
var _ scrollback.PageOpener = (*PageOpener)(nil)

// Default timeouts.
const (
	DefaultNavigationTimeout = 60 * time.Second
	DefaultActionTimeout     = 10 * time.Second
)

// PageOpener opens URLs in a Chrome browser and returns live pages for
// extraction. PageOpener is safe for concurrent use by multiple goroutines.
type PageOpener struct {
	manager       *BrowserManager
	stealth       bool
	navTimeout    time.Duration
	actionTimeout time.Duration
}

// Option configures a PageOpener.
type Option func(*openerConfig)

type openerConfig struct {
	manager       []ManagerOption
	stealth       bool
	navTimeout    time.Duration
	actionTimeout time.Duration
}

// WithStealth masks common automation fingerprints such as
// navigator.webdriver before each navigation.
func WithStealth(enabled bool) Option {
	return func(c *openerConfig) {
		c.stealth = enabled
	}
}

// WithNavigationTimeout bounds page navigation and load.
// Defaults to 60 seconds.
func WithNavigationTimeout(d time.Duration) Option {
	return func(c *openerConfig) {
		c.navTimeout = d
	}
}

// WithActionTimeout bounds each pre-extraction action.
// Defaults to 10 seconds.
func WithActionTimeout(d time.Duration) Option {
	return func(c *openerConfig) {
		c.actionTimeout = d
	}
}

// WithBrowser passes options through to the underlying BrowserManager.
func WithBrowser(opts ...ManagerOption) Option {
	return func(c *openerConfig) {
		c.manager = append(c.manager, opts...)
	}
}

// NewPageOpener creates a new PageOpener backed by a managed browser.
// Close must be called when the PageOpener is no longer needed.
//
// Returns an error if Chrome/Chromium cannot be found or launched.
func NewPageOpener(opts ...Option) (*PageOpener, error) {
	cfg := &openerConfig{
		navTimeout:    DefaultNavigationTimeout,
		actionTimeout: DefaultActionTimeout,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	manager, err := NewBrowserManager(cfg.manager...)
	if err != nil {
		return nil, err
	}

	return &PageOpener{
		manager:       manager,
		stealth:       cfg.stealth,
		navTimeout:    cfg.navTimeout,
		actionTimeout: cfg.actionTimeout,
	}, nil
}

// Open navigates to url, waits for the page to load, runs the actions in
// order, and returns the rendered page. The caller must close the page.
func (o *PageOpener) Open(ctx context.Context, url string, actions []scrollback.Action) (scrollback.Page, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if o.manager.Closed() {
		return nil, scrollback.Errorf(scrollback.EINVALID, "page opener is closed")
	}

	page, err := o.manager.Browser().Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, fmt.Errorf("creating page: %w", err)
	}
	o.manager.IncrementPageCount()

	if err := o.load(ctx, page, url, actions); err != nil {
		_ = page.Close()
		return nil, err
	}
	return &Page{page: page}, nil
}

func (o *PageOpener) load(ctx context.Context, page *rod.Page, url string, actions []scrollback.Action) error {
	if o.stealth {
		if _, err := page.EvalOnNewDocument(stealth.JS); err != nil {
			return fmt.Errorf("injecting stealth script: %w", err)
		}
	}

	navCtx, cancel := context.WithTimeout(ctx, o.navTimeout)
	defer cancel()
	p := page.Context(navCtx)

	if err := p.Navigate(url); err != nil {
		return fmt.Errorf("navigating to %s: %w", url, err)
	}
	if err := p.WaitLoad(); err != nil {
		return fmt.Errorf("waiting for %s: %w", url, err)
	}

	for i, action := range actions {
		if err := o.run(ctx, page, action); err != nil {
			return scrollback.Errorf(scrollback.EUNAVAILABLE, "action %d failed: %v", i+1, err)
		}
	}
	return nil
}

// run performs a single action with its own timeout.
func (o *PageOpener) run(ctx context.Context, page *rod.Page, action scrollback.Action) error {
	actionCtx, cancel := context.WithTimeout(ctx, o.actionTimeout)
	defer cancel()
	p := page.Context(actionCtx)

	if action.Click != "" {
		el, err := p.Element(action.Click)
		if err != nil {
			return fmt.Errorf("element %q not found: %w", action.Click, err)
		}
		if err := el.Click(proto.InputMouseButtonLeft, 1); err != nil {
			return fmt.Errorf("clicking %q: %w", action.Click, err)
		}
	}
	if action.WaitFor != "" {
		if err := p.WaitElementsMoreThan(action.WaitFor, 0); err != nil {
			return fmt.Errorf("waiting for %q: %w", action.WaitFor, err)
		}
	}
	if action.Pause > 0 {
		t := time.NewTimer(action.Pause)
		defer t.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
		}
	}
	return nil
}

// Close releases browser resources. Close is safe to call multiple times.
func (o *PageOpener) Close() error {
	return o.manager.Close()
}

// LauncherPID returns the process ID of the browser launcher.
func (o *PageOpener) LauncherPID() int {
	return o.manager.LauncherPID()
}
