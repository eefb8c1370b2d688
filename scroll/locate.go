package scroll

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/fwojciec/scrollback"
)

// ScrollHintSelector matches descendants of a transcript container that
// commonly own the scrollbar.
const ScrollHintSelector = `[class*="scroll"], [style*="overflow"]`

// Locator finds the element whose scroll position backs a virtualized list.
type Locator struct {
	Classifier *scrollback.Classifier

	// RootSelectors are probed in order for a direct anchor.
	RootSelectors []string

	// AnchorSelector and AnchorMinLength drive heuristic anchor discovery.
	AnchorSelector  string
	AnchorMinLength int

	// MaxHops bounds the ancestor walk.
	MaxHops int

	// MinSlack is the pixel margin that separates real scrollers from
	// sub-pixel rounding.
	MinSlack float64
}

// NewLocator returns a Locator configured from cfg.
func NewLocator(cfg scrollback.Config) *Locator {
	return &Locator{
		Classifier:      cfg.Classifier(),
		RootSelectors:   cfg.RootSelectors,
		AnchorSelector:  cfg.AnchorSelector,
		AnchorMinLength: cfg.AnchorMinLength,
		MaxHops:         cfg.MaxHops,
		MinSlack:        cfg.MinSlack,
	}
}

// Locate returns the scroll root for the transcript in doc.
// Returns ENOTFOUND if no anchor element can be found.
func (l *Locator) Locate(ctx context.Context, doc scrollback.Document) (scrollback.Element, error) {
	anchor, direct, err := l.anchor(ctx, doc)
	if err != nil {
		return nil, err
	}
	if anchor == nil {
		return nil, scrollback.Errorf(scrollback.ENOTFOUND, "no transcript found on page; make sure the transcript panel is open")
	}

	if ok, err := l.scrollable(ctx, anchor); err != nil {
		return nil, err
	} else if ok {
		return anchor, nil
	}

	// A container found by selector usually wraps its scroller.
	if direct {
		inner, err := anchor.QueryAll(ctx, ScrollHintSelector)
		if err != nil {
			return nil, fmt.Errorf("querying scroll hints: %w", err)
		}
		for _, el := range inner {
			if ok, err := l.scrollable(ctx, el); err != nil {
				return nil, err
			} else if ok {
				return el, nil
			}
		}
	}

	el := anchor
	for hop := 0; hop < l.maxHops(); hop++ {
		parent, err := el.Parent(ctx)
		if err != nil {
			return nil, fmt.Errorf("walking ancestors: %w", err)
		}
		if parent == nil {
			break
		}
		if ok, err := l.scrollable(ctx, parent); err != nil {
			return nil, err
		} else if ok {
			return parent, nil
		}
		el = parent
	}

	root, err := doc.ScrollingElement(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading scrolling element: %w", err)
	}
	if root == nil {
		return nil, scrollback.Errorf(scrollback.ENOTFOUND, "no scrollable element found")
	}
	return root, nil
}

// anchor returns the anchor element and whether it came from a root selector.
func (l *Locator) anchor(ctx context.Context, doc scrollback.Document) (scrollback.Element, bool, error) {
	for _, sel := range l.RootSelectors {
		els, err := doc.QueryAll(ctx, sel)
		if err != nil {
			return nil, false, fmt.Errorf("querying %q: %w", sel, err)
		}
		if len(els) > 0 {
			return els[0], true, nil
		}
	}

	if l.AnchorSelector == "" {
		return nil, false, nil
	}
	candidates, err := doc.QueryAll(ctx, l.AnchorSelector)
	if err != nil {
		return nil, false, fmt.Errorf("querying %q: %w", l.AnchorSelector, err)
	}
	for _, el := range candidates {
		text, err := el.Text(ctx)
		if err != nil {
			return nil, false, fmt.Errorf("reading anchor text: %w", err)
		}
		text = strings.TrimSpace(text)
		if utf8.RuneCountInString(text) < l.AnchorMinLength {
			continue
		}
		if l.classifier().Classify(text) == scrollback.ClassContent {
			return el, false, nil
		}
	}
	return nil, false, nil
}

// scrollable reports whether el scrolls vertically with real slack.
func (l *Locator) scrollable(ctx context.Context, el scrollback.Element) (bool, error) {
	overflow, err := el.OverflowY(ctx)
	if err != nil {
		return false, fmt.Errorf("reading overflow: %w", err)
	}
	if overflow != "scroll" && overflow != "auto" {
		return false, nil
	}
	m, err := el.ScrollMetrics(ctx)
	if err != nil {
		return false, fmt.Errorf("reading scroll metrics: %w", err)
	}
	return m.Slack() > l.MinSlack, nil
}

func (l *Locator) maxHops() int {
	if l.MaxHops <= 0 {
		return scrollback.DefaultMaxHops
	}
	return l.MaxHops
}

func (l *Locator) classifier() *scrollback.Classifier {
	if l.Classifier == nil {
		l.Classifier = scrollback.NewClassifier()
	}
	return l.Classifier
}
