package scrollback

import (
	"sort"
	"strconv"
	"strings"
)

// IdentityMode selects how the Collector decides two fragments are the same row.
type IdentityMode string

// Identity modes.
const (
	// IdentityText keys fragments by their trimmed text. First occurrence wins.
	IdentityText IdentityMode = "text"

	// IdentityIndex keys fragments by their render index. Last write wins and
	// the snapshot is ordered by ascending index.
	IdentityIndex IdentityMode = "index"
)

// Collector accumulates harvested fragments into a deduplicated, ordered
// sequence. It is owned by a single extraction run and is not safe for
// concurrent use.
type Collector struct {
	mode       IdentityMode
	joinLabels bool

	entries    []entry
	positions  map[string]int
	overwrites int
}

type entry struct {
	key   string
	text  string
	label string
}

// NewCollector returns an empty Collector. When joinLabels is set, each
// stored line is prefixed with the fragment's label.
func NewCollector(mode IdentityMode, joinLabels bool) *Collector {
	if mode == "" {
		mode = IdentityText
	}
	return &Collector{
		mode:       mode,
		joinLabels: joinLabels,
		positions:  make(map[string]int),
	}
}

// Offer adds a fragment to the sequence. Empty fragments and, in text mode,
// repeats are ignored. Offer reports whether the sequence gained an entry.
func (c *Collector) Offer(f Fragment) bool {
	text := strings.TrimSpace(f.Text)
	if text == "" {
		return false
	}

	key := text
	if c.mode == IdentityIndex {
		key = strings.TrimSpace(f.Index)
		if key == "" {
			return false
		}
	}

	if pos, ok := c.positions[key]; ok {
		if c.mode == IdentityText {
			return false
		}
		prev := c.entries[pos]
		if prev.text != text || prev.label != f.Label {
			c.overwrites++
		}
		c.entries[pos] = entry{key: key, text: text, label: f.Label}
		return false
	}

	c.positions[key] = len(c.entries)
	c.entries = append(c.entries, entry{key: key, text: text, label: f.Label})
	return true
}

// Len returns the number of distinct entries collected.
func (c *Collector) Len() int {
	return len(c.entries)
}

// Overwrites returns how many index-mode writes replaced an entry with
// different text or label. A high count suggests the page recycles indices
// across different rows.
func (c *Collector) Overwrites() int {
	return c.overwrites
}

// Snapshot returns the collected lines in their final order.
func (c *Collector) Snapshot() []string {
	entries := make([]entry, len(c.entries))
	copy(entries, c.entries)

	if c.mode == IdentityIndex {
		sort.SliceStable(entries, func(i, j int) bool {
			return indexLess(entries[i].key, entries[j].key)
		})
	}

	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		if c.joinLabels {
			lines = append(lines, JoinLabel(e.label, e.text))
			continue
		}
		lines = append(lines, e.text)
	}
	return lines
}

// indexLess orders numeric indices numerically, before any non-numeric ones,
// which sort lexicographically.
func indexLess(a, b string) bool {
	na, errA := strconv.ParseFloat(a, 64)
	nb, errB := strconv.ParseFloat(b, 64)
	switch {
	case errA == nil && errB == nil:
		return na < nb
	case errA == nil:
		return true
	case errB == nil:
		return false
	default:
		return a < b
	}
}
