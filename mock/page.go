package mock

import (
	"context"

	"github.com/fwojciec/scrollback"
)

// Compile-time interface verification.
var (
	_ scrollback.Page       = (*Page)(nil)
	_ scrollback.PageOpener = (*PageOpener)(nil)
)

// Page is a mock implementation of scrollback.Page.
type Page struct {
	Document

	TitleFn func(ctx context.Context) (string, error)
	CloseFn func() error
}

func (p *Page) Title(ctx context.Context) (string, error) {
	return p.TitleFn(ctx)
}

func (p *Page) Close() error {
	return p.CloseFn()
}

// PageOpener is a mock implementation of scrollback.PageOpener.
type PageOpener struct {
	OpenFn  func(ctx context.Context, url string, actions []scrollback.Action) (scrollback.Page, error)
	CloseFn func() error
}

func (o *PageOpener) Open(ctx context.Context, url string, actions []scrollback.Action) (scrollback.Page, error) {
	return o.OpenFn(ctx, url, actions)
}

func (o *PageOpener) Close() error {
	return o.CloseFn()
}
