// Package cells defines the output-cell stream a row consumes when it
// is filled: one cell per column, each carrying a character cluster, a
// wide-glyph marker and a text attribute.
package cells

import (
	"github.com/hnimtadd/rowio/terminal/style"
)

// DbcsAttr marks which half of a two-column glyph a cell is. Narrow
// cells are DbcsNone; a wide glyph is produced as a DbcsLeading cell
// followed by a DbcsTrailing cell sharing the same cluster.
type DbcsAttr int

const (
	DbcsNone DbcsAttr = iota
	DbcsLeading
	DbcsTrailing
)

// AttrBehavior describes how a cell's attribute applies to the row.
type AttrBehavior int

const (
	// Store both the text and the attribute.
	AttrBehaviorStored AttrBehavior = iota
	// Write the text but keep the row's current attribute.
	AttrBehaviorCurrent
	// Only the attribute is stored; the cell carries no text.
	AttrBehaviorStoredOnly
)

// Cell is one element of the stream. A cell always covers one column;
// a wide glyph is streamed as two cells.
type Cell struct {
	// Cluster is the UTF-16 code units of the cell's content. For a
	// wide glyph both halves reference the full cluster.
	Cluster  []uint16
	Dbcs     DbcsAttr
	Attr     style.Style
	Behavior AttrBehavior
}
