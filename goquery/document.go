// Package goquery reads transcripts from saved HTML snapshots.
//
// A snapshot has no layout, so no element reports scroll slack and the
// extraction engine harvests from the document root without scrolling.
// Snapshots of virtualized lists hold only the rows rendered when the page
// was saved.
package goquery

import (
	"context"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/scrollback"
	"golang.org/x/net/html"
)

// Compile-time interface verification.
var (
	_ scrollback.Page    = (*Document)(nil)
	_ scrollback.Element = (*Element)(nil)
)

// Document is a parsed HTML snapshot.
type Document struct {
	doc *goquery.Document
}

// NewDocument parses an HTML snapshot from r.
func NewDocument(r io.Reader) (*Document, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, scrollback.Errorf(scrollback.EINVALID, "failed to parse HTML: %v", err)
	}
	return &Document{doc: doc}, nil
}

// QueryAll returns elements matching selector in document order.
func (d *Document) QueryAll(_ context.Context, selector string) ([]scrollback.Element, error) {
	return wrap(d.doc.Find(selector)), nil
}

// ScrollingElement returns the html element.
func (d *Document) ScrollingElement(_ context.Context) (scrollback.Element, error) {
	root := d.doc.Find("html").First()
	if root.Length() == 0 {
		return nil, nil
	}
	return &Element{sel: root}, nil
}

// Title returns the text of the title element.
func (d *Document) Title(_ context.Context) (string, error) {
	return strings.TrimSpace(d.doc.Find("title").First().Text()), nil
}

// Close is a no-op.
func (d *Document) Close() error {
	return nil
}

// Element is a single node of a snapshot.
type Element struct {
	sel *goquery.Selection
}

func wrap(sel *goquery.Selection) []scrollback.Element {
	out := make([]scrollback.Element, 0, sel.Length())
	sel.Each(func(_ int, s *goquery.Selection) {
		out = append(out, &Element{sel: s})
	})
	return out
}

// Text returns the combined text of the element and its descendants.
func (e *Element) Text(_ context.Context) (string, error) {
	return e.sel.Text(), nil
}

// Parent returns the parent element, or nil for the root element.
func (e *Element) Parent(_ context.Context) (scrollback.Element, error) {
	parent := e.sel.Parent()
	if parent.Length() == 0 {
		return nil, nil
	}
	return &Element{sel: parent}, nil
}

// QueryAll returns descendants matching selector in document order.
func (e *Element) QueryAll(_ context.Context, selector string) ([]scrollback.Element, error) {
	return wrap(e.sel.Find(selector)), nil
}

// OverflowY returns the overflow-y declared in the inline style attribute,
// falling back to the overflow shorthand and then "visible".
func (e *Element) OverflowY(_ context.Context) (string, error) {
	style, _ := e.sel.Attr("style")
	return overflowY(style), nil
}

// ScrollMetrics reports an element with nothing to scroll.
func (e *Element) ScrollMetrics(_ context.Context) (scrollback.ScrollMetrics, error) {
	return scrollback.ScrollMetrics{}, nil
}

// ScrollTo is a no-op.
func (e *Element) ScrollTo(_ context.Context, _ float64) error {
	return nil
}

// Harvest returns the fragments inside the element.
func (e *Element) Harvest(_ context.Context, spec scrollback.HarvestSpec) ([]scrollback.Fragment, error) {
	var out []scrollback.Fragment
	if spec.IndexAttribute != "" {
		e.sel.Find("[" + spec.IndexAttribute + "]").Each(func(_ int, row *goquery.Selection) {
			index, _ := row.Attr(spec.IndexAttribute)
			body := row
			if spec.TextSelector != "" {
				if t := row.Find(spec.TextSelector).First(); t.Length() > 0 {
					body = t
				}
			}
			var label string
			if spec.LabelSelector != "" {
				label = row.Find(spec.LabelSelector).First().Text()
			}
			out = append(out, scrollback.Fragment{Text: body.Text(), Index: index, Label: label})
		})
		return out, nil
	}

	seen := make(map[*html.Node]bool)
	for _, selector := range spec.Selectors {
		e.sel.Find(selector).Each(func(_ int, s *goquery.Selection) {
			n := s.Get(0)
			if seen[n] {
				return
			}
			seen[n] = true
			out = append(out, scrollback.Fragment{Text: s.Text()})
		})
	}
	return out, nil
}

func overflowY(style string) string {
	var overflow, y string
	for _, decl := range strings.Split(style, ";") {
		name, value, ok := strings.Cut(decl, ":")
		if !ok {
			continue
		}
		name = strings.ToLower(strings.TrimSpace(name))
		value = strings.ToLower(strings.TrimSpace(value))
		switch name {
		case "overflow-y":
			y = value
		case "overflow":
			// The two-value form sets overflow-x then overflow-y.
			if fields := strings.Fields(value); len(fields) > 0 {
				overflow = fields[len(fields)-1]
			}
		}
	}
	switch {
	case y != "":
		return y
	case overflow != "":
		return overflow
	default:
		return "visible"
	}
}
