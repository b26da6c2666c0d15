// Package row implements the storage for a single terminal line: a
// fixed number of display columns backed by a variable-length UTF-16
// store, a per-column offset map and a run-length attribute track.
package row

import (
	"fmt"

	"golang.org/x/text/encoding/unicode"

	"github.com/hnimtadd/rowio/terminal/cells"
	"github.com/hnimtadd/rowio/terminal/rle"
	"github.com/hnimtadd/rowio/terminal/size"
	"github.com/hnimtadd/rowio/terminal/style"
	"github.com/hnimtadd/rowio/terminal/utils"
)

var ErrInvalidArgument = fmt.Errorf("row: invalid argument")

const unicodeSpace uint16 = 0x20

var blankCluster = []uint16{unicodeSpace}

// LineRendition is the whole-row scaling set by DECDWL/DECDHL. The row
// stores it verbatim; interpreting it is the renderer's concern.
type LineRendition int

const (
	LineRenditionSingleWidth LineRendition = iota
	LineRenditionDoubleWidth
	LineRenditionDoubleHeightTop
	LineRenditionDoubleHeightBottom
)

// Row is one terminal line. It is not internally synchronized; the
// buffer that owns the row serializes all access to it.
type Row struct {
	// UTF-16 code units backing the row's text. Exclusively owned,
	// grows by at least 1.5x on overflow and never shrinks.
	chars []uint16

	// cols+1 entries. offsets[c] is the start of column c's cluster in
	// chars; offsets[cols] is the occupied length. Entries are
	// non-decreasing, and equal adjacent entries mark a zero-length
	// column merged into its neighbor's cluster (a blank absorbed by a
	// rewrite, or the continuation column of a wide glyph).
	offsets []uint16

	// Per-column text attributes, run-length compressed. Run lengths
	// always sum to cols.
	attrs *rle.Sequence[style.Style]

	cols size.CellCountInt

	lineRendition LineRendition

	// wrapForced is set when the last column was filled by a stream
	// that continues onto the next row, as opposed to an explicit
	// line break.
	wrapForced bool

	// doubleBytePadded is set when the last column was left blank
	// because a two-column glyph could not fit.
	doubleBytePadded bool
}

// New constructs a blank row of the given width filled with one
// attribute. The width is fixed for the row's lifetime.
func New(cols size.CellCountInt, fill style.Style) *Row {
	r := &Row{
		chars:   make([]uint16, cols),
		offsets: make([]uint16, int(cols)+1),
		attrs:   rle.New(cols, fill),
		cols:    cols,
	}
	for i := range r.chars {
		r.chars[i] = unicodeSpace
	}
	for i := range r.offsets {
		r.offsets[i] = uint16(i)
	}
	return r
}

// Size returns the row's column count.
func (r *Row) Size() size.CellCountInt {
	return r.cols
}

// Reset returns the row to its blank state: every column one space with
// identity offsets, a single attribute run, no wrap state. The column
// count and the backing capacity are preserved.
func (r *Row) Reset(fill style.Style) {
	r.chars = r.chars[:r.cols]
	for i := range r.chars {
		r.chars[i] = unicodeSpace
	}
	for i := range r.offsets {
		r.offsets[i] = uint16(i)
	}
	r.attrs.SetAll(fill)
	r.lineRendition = LineRenditionSingleWidth
	r.wrapForced = false
	r.doubleBytePadded = false
}

func (r *Row) WrapForced() bool           { return r.wrapForced }
func (r *Row) SetWrapForced(v bool)       { r.wrapForced = v }
func (r *Row) DoubleBytePadded() bool     { return r.doubleBytePadded }
func (r *Row) SetDoubleBytePadded(v bool) { r.doubleBytePadded = v }

func (r *Row) LineRendition() LineRendition     { return r.lineRendition }
func (r *Row) SetLineRendition(v LineRendition) { r.lineRendition = v }

// ClearColumn resets a single column to a blank.
func (r *Row) ClearColumn(column size.CellCountInt) error {
	if column >= r.cols {
		return ErrInvalidArgument
	}
	r.clearCell(column)
	return nil
}

func (r *Row) clearCell(column size.CellCountInt) {
	r.Replace(int(column), 1, blankCluster)
}

// AttrAt returns the attribute covering the given column.
func (r *Row) AttrAt(column size.CellCountInt) (style.Style, error) {
	return r.attrs.At(column)
}

// AttrRuns exposes the attribute run list.
func (r *Row) AttrRuns() []rle.Run[style.Style] {
	return r.attrs.Runs()
}

// ClusterAt returns the code units of the cluster covering the given
// column. A continuation column of a wide glyph returns the full
// cluster it shares.
func (r *Row) ClusterAt(column size.CellCountInt) ([]uint16, error) {
	if column >= r.cols {
		return nil, ErrInvalidArgument
	}
	begin := r.offsets[column]
	end := begin
	for c := int(column) + 1; c <= int(r.cols); c++ {
		if e := r.offsets[c]; e != begin {
			end = e
			break
		}
	}
	return r.chars[begin:end], nil
}

// String decodes the occupied portion of the store as UTF-16.
func (r *Row) String() string {
	occupied := r.chars[:r.offsets[r.cols]]
	raw := make([]byte, 0, len(occupied)*2)
	for _, cu := range occupied {
		raw = append(raw, byte(cu), byte(cu>>8))
	}
	decoder := unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewDecoder()
	decoded, err := decoder.Bytes(raw)
	utils.Assert(err == nil, fmt.Sprintf("row: invalid UTF-16 in store: %v", err))
	return string(decoded)
}

// MeasureRight returns the number of columns up to and including the
// last column holding content, i.e. the row width minus trailing
// blanks.
func (r *Row) MeasureRight() size.CellCountInt {
	col := int(r.cols)
	for col > 0 {
		begin := r.offsets[col-1]
		end := r.offsets[col]
		if begin == end {
			// Zero-length filler at the right edge.
			col--
			continue
		}
		if end-begin == 1 && r.chars[begin] == unicodeSpace {
			col--
			continue
		}
		break
	}
	return size.CellCountInt(col)
}

// WriteCells consumes the cell stream into columns
// [index, limitRight], accumulating attribute runs and handling wide
// glyphs split across the fill boundaries. limitRight defaults to the
// last column. wrap == nil leaves the wrap flag alone; otherwise the
// flag is set to *wrap once the limit column has been processed by a
// text write.
//
// The returned iterator holds the cells that did not fit, for the
// caller to continue into the next row.
func (r *Row) WriteCells(
	it cells.Iterator,
	index size.CellCountInt,
	wrap *bool,
	limitRight *size.CellCountInt,
) (cells.Iterator, error) {
	if index >= r.cols {
		return it, ErrInvalidArgument
	}
	if limitRight != nil && *limitRight >= r.cols {
		return it, ErrInvalidArgument
	}

	// If we're given a right-side column limit, use it. Otherwise the
	// write limit is the final column in the row.
	finalColumnInRow := r.cols - 1
	if limitRight != nil {
		finalColumnInRow = *limitRight
	}

	if !it.Valid() {
		return it, nil
	}

	currentColor := it.Cell().Attr
	colorUses := 0
	colorStarts := index
	currentIndex := index

	for it.Valid() && currentIndex <= finalColumnInRow {
		cell := it.Cell()

		// Fill the color if the behavior isn't set to keeping the
		// current color.
		if cell.Behavior != cells.AttrBehaviorCurrent {
			if currentColor.Equals(cell.Attr) {
				// Same color as the run we're on, keep counting.
				colorUses++
			} else {
				// Commit the run we're on and start a new one.
				r.replaceAttrs(colorStarts, currentIndex, currentColor)
				currentColor = cell.Attr
				colorUses = 1
				colorStarts = currentIndex
			}
		}

		// Fill the text if the behavior isn't set to saying there's
		// only a color stored in this cell.
		if cell.Behavior != cells.AttrBehaviorStoredOnly {
			fillingLastColumn := currentIndex == finalColumnInRow

			switch {
			case currentIndex == 0 && cell.Dbcs == cells.DbcsTrailing:
				// A trailing half can't open a row. Pad the column out
				// and retry the same cell at the next one.
				r.clearCell(currentIndex)
			case fillingLastColumn && cell.Dbcs == cells.DbcsLeading:
				// A leading half needs two columns and only one is
				// left. Pad the column out and leave the cell for the
				// caller's next row.
				r.clearCell(currentIndex)
				r.SetDoubleBytePadded(true)
			default:
				r.replaceCell(currentIndex, cell.Dbcs, cell.Cluster)
				it.Advance()
			}

			// wrap == nil --> don't change the wrap value
			// wrap == true --> filling cells as a stream, this wraps
			// wrap == false --> filling cells as a block, unwrap
			if wrap != nil && fillingLastColumn {
				r.SetWrapForced(*wrap)
			}
		} else {
			it.Advance()
		}

		currentIndex++
	}

	// Commit the final color run.
	if colorUses > 0 {
		r.replaceAttrs(colorStarts, currentIndex, currentColor)
	}

	return it, nil
}

// replaceAttrs writes one attribute run; bounds were validated by the
// fill loop.
func (r *Row) replaceAttrs(a, b size.CellCountInt, attr style.Style) {
	err := r.attrs.Replace(a, b, attr)
	utils.Assert(err == nil, fmt.Sprintf("row: attribute run bounds: %v", err))
}

// replaceCell writes one cell's cluster. A wide glyph writes its full
// cluster across the two-column span so that both columns end up
// sharing one start offset; the trailing half's write is then a no-op
// rewrite of the same span. A trailing half whose leading column holds
// unrelated content (its other half fell on the previous row) gets the
// single column it has.
func (r *Row) replaceCell(column size.CellCountInt, dbcs cells.DbcsAttr, cluster []uint16) {
	switch dbcs {
	case cells.DbcsLeading:
		r.Replace(int(column), 2, cluster)
	case cells.DbcsTrailing:
		if column > 0 && r.offsets[column-1] == r.offsets[column] {
			r.Replace(int(column)-1, 2, cluster)
		} else {
			r.Replace(int(column), 1, cluster)
		}
	default:
		r.Replace(int(column), 1, cluster)
	}
}

// Replace rewrites the text occupying columns [x, x+width) with the
// given cluster, whose length need not match the width.
//
// Columns that were merged into the disturbed clusters but fall outside
// the target range are re-established as detached single blanks; the
// target columns all share the cluster's start offset, which is what
// encodes "one cluster spans these columns". Equal-length rewrites
// touch nothing beyond the target range and never reallocate.
func (r *Row) Replace(x, width int, cluster []uint16) {
	cols := int(r.cols)
	new0 := min(max(x, 0), cols)
	new1 := min(new0+max(width, 0), cols)
	old0 := new0
	old1 := new1
	ch0 := int(r.offsets[new0])

	// Absorb any neighbors sharing the same start offset: they are part
	// of the clusters we're about to disturb.
	for old0 != 0 && int(r.offsets[old0-1]) == ch0 {
		old0--
	}
	for old1 < cols && int(r.offsets[old1]) == ch0 {
		old1++
	}
	ch1 := int(r.offsets[old1])

	leadingSpaces := new0 - old0
	trailingSpaces := old1 - new1
	insertedChars := len(cluster) + leadingSpaces + trailingSpaces
	newRhs := ch0 + insertedChars
	diff := newRhs - ch1

	if diff != 0 {
		currentLength := int(r.offsets[cols])
		newLength, overflow := utils.AddWithOverflow(currentLength, diff)
		utils.Assert(!overflow && newLength >= 0,
			"row: store length exceeds offset range")

		if newLength <= cap(r.chars) {
			// Shift the suffix in place. copy handles the overlap.
			if diff > 0 {
				r.chars = r.chars[:newLength]
				copy(r.chars[newRhs:newLength], r.chars[ch1:currentLength])
			} else {
				copy(r.chars[newRhs:newLength], r.chars[ch1:currentLength])
				r.chars = r.chars[:newLength]
			}
		} else {
			// Build the replacement store completely before swapping it
			// in, so a failed allocation leaves the row untouched.
			newCapacity := max(newLength, cap(r.chars)+cap(r.chars)/2)
			grown := make([]uint16, newLength, newCapacity)
			copy(grown, r.chars[:ch0])
			copy(grown[newRhs:], r.chars[ch1:currentLength])
			r.chars = grown
		}

		for i := new1; i <= cols; i++ {
			r.offsets[i] = uint16(int(r.offsets[i]) + diff)
		}
	}

	// Fill the gap: detached leading blanks, the cluster, detached
	// trailing blanks.
	at := ch0
	for n := 0; n < leadingSpaces; n++ {
		r.chars[at] = unicodeSpace
		at++
	}
	at += copy(r.chars[at:], cluster)
	for n := 0; n < trailingSpaces; n++ {
		r.chars[at] = unicodeSpace
		at++
	}

	// Re-establish the per-column offsets across the disturbed region.
	// Detached blanks own one code unit each; the target columns share
	// the cluster start.
	off := ch0
	for col := old0; col < new0; col++ {
		r.offsets[col] = uint16(off)
		off++
	}
	clusterStart := off
	for col := new0; col < new1; col++ {
		r.offsets[col] = uint16(clusterStart)
	}
	off = clusterStart + len(cluster)
	for col := new1; col < old1; col++ {
		r.offsets[col] = uint16(off)
		off++
	}
}
