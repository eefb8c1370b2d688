package rod

import (
	"context"
	"errors"
	"fmt"

	"github.com/fwojciec/scrollback"
	"github.com/go-rod/rod"
	"github.com/ysmood/gson"
)

// Compile-time interface verification.
var (
	_ scrollback.Page    = (*Page)(nil)
	_ scrollback.Element = (*Element)(nil)
)

// Page is a live browser page.
type Page struct {
	page *rod.Page
}

// QueryAll returns elements matching selector in document order.
func (p *Page) QueryAll(ctx context.Context, selector string) ([]scrollback.Element, error) {
	els, err := p.page.Context(ctx).Elements(selector)
	if err != nil {
		return nil, err
	}
	return wrap(els), nil
}

// ScrollingElement returns document.scrollingElement.
func (p *Page) ScrollingElement(ctx context.Context) (scrollback.Element, error) {
	el, err := p.page.Context(ctx).ElementByJS(rod.Eval(`() => document.scrollingElement || document.documentElement`))
	if err != nil {
		return nil, err
	}
	return &Element{el: el}, nil
}

// Title returns the document title.
func (p *Page) Title(ctx context.Context) (string, error) {
	res, err := p.page.Context(ctx).Eval(`() => document.title`)
	if err != nil {
		return "", err
	}
	return res.Value.Str(), nil
}

// Close closes the browser tab.
func (p *Page) Close() error {
	return p.page.Close()
}

// Element is a live reference to a DOM element.
type Element struct {
	el *rod.Element
}

func wrap(els rod.Elements) []scrollback.Element {
	out := make([]scrollback.Element, len(els))
	for i, el := range els {
		out[i] = &Element{el: el}
	}
	return out
}

// Text returns the element's rendered text.
func (e *Element) Text(ctx context.Context) (string, error) {
	return e.el.Context(ctx).Text()
}

// Parent returns the parent element, or nil for the root element.
func (e *Element) Parent(ctx context.Context) (scrollback.Element, error) {
	parent, err := e.el.Context(ctx).Parent()
	if err != nil {
		var notFound *rod.ElementNotFoundError
		if errors.As(err, &notFound) {
			return nil, nil
		}
		return nil, err
	}
	return &Element{el: parent}, nil
}

// QueryAll returns descendants matching selector in document order.
func (e *Element) QueryAll(ctx context.Context, selector string) ([]scrollback.Element, error) {
	els, err := e.el.Context(ctx).Elements(selector)
	if err != nil {
		return nil, err
	}
	return wrap(els), nil
}

// OverflowY returns the computed overflow-y style.
func (e *Element) OverflowY(ctx context.Context) (string, error) {
	res, err := e.el.Context(ctx).Eval(`() => getComputedStyle(this).overflowY`)
	if err != nil {
		return "", err
	}
	return res.Value.Str(), nil
}

// ScrollMetrics returns scrollTop, scrollHeight, and clientHeight.
func (e *Element) ScrollMetrics(ctx context.Context) (scrollback.ScrollMetrics, error) {
	res, err := e.el.Context(ctx).Eval(`() => ({
		offset: this.scrollTop,
		content: this.scrollHeight,
		viewport: this.clientHeight,
	})`)
	if err != nil {
		return scrollback.ScrollMetrics{}, err
	}
	return scrollback.ScrollMetrics{
		Offset:         res.Value.Get("offset").Num(),
		ContentHeight:  res.Value.Get("content").Num(),
		ViewportHeight: res.Value.Get("viewport").Num(),
	}, nil
}

// ScrollTo sets scrollTop.
func (e *Element) ScrollTo(ctx context.Context, offset float64) error {
	_, err := e.el.Context(ctx).Eval(`(y) => { this.scrollTop = y }`, offset)
	return err
}

// harvestJS collects rendered fragments in one round trip. Indexed rows are
// read from their text and label nodes; otherwise every node matching any
// selector contributes its text, each node at most once.
const harvestJS = `(spec) => {
	const text = (n) => n ? (n.innerText || n.textContent || '') : '';
	const out = [];
	if (spec.indexAttribute) {
		for (const row of this.querySelectorAll('[' + spec.indexAttribute + ']')) {
			const body = (spec.textSelector && row.querySelector(spec.textSelector)) || row;
			const label = spec.labelSelector ? row.querySelector(spec.labelSelector) : null;
			out.push({text: text(body), index: row.getAttribute(spec.indexAttribute) || '', label: text(label)});
		}
		return out;
	}
	const seen = new Set();
	for (const sel of spec.selectors || []) {
		for (const n of this.querySelectorAll(sel)) {
			if (seen.has(n)) continue;
			seen.add(n);
			out.push({text: text(n), index: '', label: ''});
		}
	}
	return out;
}`

type harvestParams struct {
	Selectors      []string `json:"selectors"`
	IndexAttribute string   `json:"indexAttribute"`
	TextSelector   string   `json:"textSelector"`
	LabelSelector  string   `json:"labelSelector"`
}

// Harvest returns the fragments currently rendered inside the element.
func (e *Element) Harvest(ctx context.Context, spec scrollback.HarvestSpec) ([]scrollback.Fragment, error) {
	res, err := e.el.Context(ctx).Eval(harvestJS, harvestParams{
		Selectors:      spec.Selectors,
		IndexAttribute: spec.IndexAttribute,
		TextSelector:   spec.TextSelector,
		LabelSelector:  spec.LabelSelector,
	})
	if err != nil {
		return nil, fmt.Errorf("evaluating harvest: %w", err)
	}
	return fragments(res.Value), nil
}

func fragments(v gson.JSON) []scrollback.Fragment {
	items := v.Arr()
	out := make([]scrollback.Fragment, 0, len(items))
	for _, item := range items {
		out = append(out, scrollback.Fragment{
			Text:  item.Get("text").Str(),
			Index: item.Get("index").Str(),
			Label: item.Get("label").Str(),
		})
	}
	return out
}
