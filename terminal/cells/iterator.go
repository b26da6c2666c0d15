package cells

import (
	"unicode/utf16"

	dw "github.com/mattn/go-runewidth"

	"github.com/hnimtadd/rowio/terminal/style"
)

// Iterator is a pull-based cell source with single-cell lookahead: the
// fill loop may inspect the current cell, decide not to consume it, and
// retry it against the next column.
type Iterator interface {
	// Valid reports whether a current cell exists.
	Valid() bool
	// Cell returns the current cell without advancing. Only valid
	// while Valid() is true.
	Cell() *Cell
	// Advance moves to the next cell.
	Advance()
}

// SliceIterator iterates over an in-memory cell slice.
type SliceIterator struct {
	cells []Cell
	pos   int
}

func NewSliceIterator(cells []Cell) *SliceIterator {
	return &SliceIterator{cells: cells}
}

func (it *SliceIterator) Valid() bool {
	return it.pos < len(it.cells)
}

func (it *SliceIterator) Cell() *Cell {
	return &it.cells[it.pos]
}

func (it *SliceIterator) Advance() {
	it.pos++
}

// Remaining returns the number of cells not yet consumed.
func (it *SliceIterator) Remaining() int {
	return len(it.cells) - it.pos
}

// FromString builds a cell stream from UTF-8 text. Runes that render
// two columns wide become a leading/trailing cell pair sharing one
// cluster; zero-width runes join the preceding cell's cluster.
func FromString(s string, attr style.Style) *SliceIterator {
	out := make([]Cell, 0, len(s))
	for _, r := range s {
		cluster := utf16.Encode([]rune{r})
		switch width := dw.RuneWidth(r); {
		case width == 0 && len(out) > 0:
			appendToCluster(out, cluster)
		case width == 2:
			out = append(out,
				Cell{Cluster: cluster, Dbcs: DbcsLeading, Attr: attr},
				Cell{Cluster: cluster, Dbcs: DbcsTrailing, Attr: attr},
			)
		default:
			out = append(out, Cell{Cluster: cluster, Attr: attr})
		}
	}
	return NewSliceIterator(out)
}

// ColorOnly builds a stream of n attribute-only cells, used to recolor
// a column range without touching its text.
func ColorOnly(attr style.Style, n int) *SliceIterator {
	out := make([]Cell, n)
	for i := range out {
		out[i] = Cell{Attr: attr, Behavior: AttrBehaviorStoredOnly}
	}
	return NewSliceIterator(out)
}

// appendToCluster grows the last cell's cluster in place. If the last
// cell is the trailing half of a wide pair, the leading half references
// the same cluster and both are updated.
func appendToCluster(out []Cell, units []uint16) {
	last := &out[len(out)-1]
	grown := append(append(make([]uint16, 0, len(last.Cluster)+len(units)), last.Cluster...), units...)
	last.Cluster = grown
	if last.Dbcs == DbcsTrailing && len(out) > 1 {
		out[len(out)-2].Cluster = grown
	}
}
