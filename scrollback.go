// Package scrollback extracts the full text of virtualized, lazily rendered
// transcript lists. Only the visible rows of such lists exist in the page at
// any time, so the text is collected by repeatedly scrolling the list,
// harvesting what is rendered, and stopping once nothing new appears.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., rod/, sqlite/, notion/).
package scrollback
