package scroll_test

import (
	"context"
	"math"
	"strconv"
	"time"

	"github.com/fwojciec/scrollback"
)

// node is a static in-memory element.
type node struct {
	text     string
	parent   *node
	overflow string
	metrics  scrollback.ScrollMetrics
	queries  map[string][]scrollback.Element
}

func (n *node) Text(_ context.Context) (string, error) { return n.text, nil }

func (n *node) Parent(_ context.Context) (scrollback.Element, error) {
	if n.parent == nil {
		return nil, nil
	}
	return n.parent, nil
}

func (n *node) QueryAll(_ context.Context, selector string) ([]scrollback.Element, error) {
	return n.queries[selector], nil
}

func (n *node) OverflowY(_ context.Context) (string, error) {
	if n.overflow == "" {
		return "visible", nil
	}
	return n.overflow, nil
}

func (n *node) ScrollMetrics(_ context.Context) (scrollback.ScrollMetrics, error) {
	return n.metrics, nil
}

func (n *node) ScrollTo(_ context.Context, offset float64) error {
	n.metrics.Offset = offset
	return nil
}

func (n *node) Harvest(_ context.Context, _ scrollback.HarvestSpec) ([]scrollback.Fragment, error) {
	return nil, nil
}

// scroller returns a node that scrolls with the given slack.
func scroller(slack float64) *node {
	return &node{
		overflow: "auto",
		metrics: scrollback.ScrollMetrics{
			ContentHeight:  500 + slack,
			ViewportHeight: 500,
		},
	}
}

// row is one item of a virtualized list.
type row struct {
	index string
	text  string
	label string
}

// list simulates a virtualized list that renders only the rows intersecting
// its viewport. When batch is set, it starts with loaded rows and appends
// another batch each time it is scrolled to the end.
type list struct {
	node

	rows      []row
	rowHeight float64
	viewport  float64
	offset    float64
	loaded    int
	batch     int

	// growAt, when set, loads every row on that harvest.
	growAt int

	// strict makes ScrollTo fail once its context is done, like a live page.
	strict bool

	scrolls  []float64
	harvests int
}

func newList(texts ...string) *list {
	rows := make([]row, len(texts))
	for i, text := range texts {
		rows[i] = row{index: strconv.Itoa(i), text: text}
	}
	return &list{
		node:      node{overflow: "auto"},
		rows:      rows,
		rowHeight: 20,
		viewport:  100,
		loaded:    len(rows),
	}
}

func (l *list) content() float64 {
	return float64(l.loaded) * l.rowHeight
}

func (l *list) ScrollMetrics(_ context.Context) (scrollback.ScrollMetrics, error) {
	return scrollback.ScrollMetrics{
		Offset:         l.offset,
		ContentHeight:  l.content(),
		ViewportHeight: l.viewport,
	}, nil
}

func (l *list) ScrollTo(ctx context.Context, offset float64) error {
	if l.strict && ctx.Err() != nil {
		return ctx.Err()
	}
	l.scrolls = append(l.scrolls, offset)
	maxOffset := math.Max(0, l.content()-l.viewport)
	l.offset = math.Min(math.Max(0, offset), maxOffset)
	if l.batch > 0 && l.offset >= maxOffset && offset > 0 {
		l.loaded = min(len(l.rows), l.loaded+l.batch)
	}
	return nil
}

func (l *list) Harvest(_ context.Context, spec scrollback.HarvestSpec) ([]scrollback.Fragment, error) {
	l.harvests++
	if l.growAt > 0 && l.harvests == l.growAt {
		l.loaded = len(l.rows)
	}
	first := int(l.offset / l.rowHeight)
	last := min(l.loaded, int(math.Ceil((l.offset+l.viewport)/l.rowHeight)))
	var frags []scrollback.Fragment
	for _, r := range l.rows[first:last] {
		f := scrollback.Fragment{Text: r.text}
		if spec.IndexAttribute != "" {
			f.Index = r.index
			f.Label = r.label
		}
		frags = append(frags, f)
	}
	return frags, nil
}

// document is an in-memory scrollback.Document.
type document struct {
	queries   map[string][]scrollback.Element
	scrolling scrollback.Element
}

func (d *document) QueryAll(_ context.Context, selector string) ([]scrollback.Element, error) {
	return d.queries[selector], nil
}

func (d *document) ScrollingElement(_ context.Context) (scrollback.Element, error) {
	return d.scrolling, nil
}

// sentences returns n distinct content lines.
func sentences(n int) []string {
	lines := make([]string, n)
	for i := range lines {
		lines[i] = "Sentence number " + strconv.Itoa(i) + " is about the topic."
	}
	return lines
}

func noWait(ctx context.Context, _ time.Duration) error {
	return ctx.Err()
}
