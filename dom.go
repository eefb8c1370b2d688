package scrollback

import "context"

// ScrollMetrics describes the scroll state of an element.
type ScrollMetrics struct {
	// Offset is the current vertical scroll offset (scrollTop).
	Offset float64

	// ContentHeight is the total scrollable height (scrollHeight).
	ContentHeight float64

	// ViewportHeight is the visible height (clientHeight).
	ViewportHeight float64
}

// Slack returns how far the content extends beyond the viewport.
func (m ScrollMetrics) Slack() float64 {
	return m.ContentHeight - m.ViewportHeight
}

// AtEnd reports whether the viewport has reached the end of the content,
// allowing tolerance pixels for sub-pixel rounding.
func (m ScrollMetrics) AtEnd(tolerance float64) bool {
	return m.Offset+m.ViewportHeight >= m.ContentHeight-tolerance
}

// Fragment is a unit of text observed during one harvest pass.
type Fragment struct {
	// Text is the raw text content of the node.
	Text string

	// Index is the render index exposed by the virtualization framework.
	// Empty when the framework does not expose one.
	Index string

	// Label is a co-located badge such as a timestamp. Optional.
	Label string
}

// HarvestSpec describes which rendered nodes a harvest pass collects.
type HarvestSpec struct {
	// Selectors match text nodes when no index attribute is configured.
	Selectors []string

	// IndexAttribute names the per-row index attribute (e.g., "data-index").
	// When set, rows carrying the attribute are harvested instead of Selectors.
	IndexAttribute string

	// TextSelector locates the text node within an indexed row.
	// The row itself is used when empty or when nothing matches.
	TextSelector string

	// LabelSelector locates the label node within an indexed row.
	LabelSelector string
}

// Element is a live reference to a node in a rendered document.
// The engine never creates or destroys elements, it only reads them
// and writes their scroll offset.
type Element interface {
	// Text returns the element's text content.
	Text(ctx context.Context) (string, error)

	// Parent returns the parent element, or nil at the top of the tree.
	Parent(ctx context.Context) (Element, error)

	// QueryAll returns descendants matching the CSS selector in document order.
	QueryAll(ctx context.Context, selector string) ([]Element, error)

	// OverflowY returns the computed overflow-y style (e.g., "auto").
	OverflowY(ctx context.Context) (string, error)

	// ScrollMetrics returns the element's current scroll state.
	ScrollMetrics(ctx context.Context) (ScrollMetrics, error)

	// ScrollTo sets the element's vertical scroll offset.
	ScrollTo(ctx context.Context, offset float64) error

	// Harvest returns the fragments currently rendered inside the element.
	Harvest(ctx context.Context, spec HarvestSpec) ([]Fragment, error)
}

// Document is the query capability of a rendered page.
type Document interface {
	// QueryAll returns elements matching the CSS selector in document order.
	QueryAll(ctx context.Context, selector string) ([]Element, error)

	// ScrollingElement returns the element that scrolls the page itself.
	ScrollingElement(ctx context.Context) (Element, error)
}
