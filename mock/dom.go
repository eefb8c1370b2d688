package mock

import (
	"context"

	"github.com/fwojciec/scrollback"
)

// Compile-time interface verification.
var (
	_ scrollback.Element  = (*Element)(nil)
	_ scrollback.Document = (*Document)(nil)
)

// Element is a mock implementation of scrollback.Element.
type Element struct {
	TextFn          func(ctx context.Context) (string, error)
	ParentFn        func(ctx context.Context) (scrollback.Element, error)
	QueryAllFn      func(ctx context.Context, selector string) ([]scrollback.Element, error)
	OverflowYFn     func(ctx context.Context) (string, error)
	ScrollMetricsFn func(ctx context.Context) (scrollback.ScrollMetrics, error)
	ScrollToFn      func(ctx context.Context, offset float64) error
	HarvestFn       func(ctx context.Context, spec scrollback.HarvestSpec) ([]scrollback.Fragment, error)
}

func (e *Element) Text(ctx context.Context) (string, error) {
	return e.TextFn(ctx)
}

func (e *Element) Parent(ctx context.Context) (scrollback.Element, error) {
	return e.ParentFn(ctx)
}

func (e *Element) QueryAll(ctx context.Context, selector string) ([]scrollback.Element, error) {
	return e.QueryAllFn(ctx, selector)
}

func (e *Element) OverflowY(ctx context.Context) (string, error) {
	return e.OverflowYFn(ctx)
}

func (e *Element) ScrollMetrics(ctx context.Context) (scrollback.ScrollMetrics, error) {
	return e.ScrollMetricsFn(ctx)
}

func (e *Element) ScrollTo(ctx context.Context, offset float64) error {
	return e.ScrollToFn(ctx, offset)
}

func (e *Element) Harvest(ctx context.Context, spec scrollback.HarvestSpec) ([]scrollback.Fragment, error) {
	return e.HarvestFn(ctx, spec)
}

// Document is a mock implementation of scrollback.Document.
type Document struct {
	QueryAllFn         func(ctx context.Context, selector string) ([]scrollback.Element, error)
	ScrollingElementFn func(ctx context.Context) (scrollback.Element, error)
}

func (d *Document) QueryAll(ctx context.Context, selector string) ([]scrollback.Element, error) {
	return d.QueryAllFn(ctx, selector)
}

func (d *Document) ScrollingElement(ctx context.Context) (scrollback.Element, error) {
	return d.ScrollingElementFn(ctx)
}
