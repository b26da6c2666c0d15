package row

import (
	"testing"
	"unicode/utf16"

	"github.com/stretchr/testify/assert"

	"github.com/hnimtadd/rowio/terminal/cells"
	"github.com/hnimtadd/rowio/terminal/size"
	"github.com/hnimtadd/rowio/terminal/style"
)

func clusterString(t *testing.T, r *Row, col size.CellCountInt) string {
	t.Helper()
	units, err := r.ClusterAt(col)
	assert.NoError(t, err)
	return string(utf16.Decode(units))
}

func encode(s string) []uint16 {
	return utf16.Encode([]rune(s))
}

func boolPtr(v bool) *bool                          { return &v }
func colPtr(v size.CellCountInt) *size.CellCountInt { return &v }

func TestRow_New(t *testing.T) {
	fill := style.Style{Bold: true}
	r := New(5, fill)

	assert.Equal(t, size.CellCountInt(5), r.Size())
	assert.False(t, r.WrapForced())
	assert.False(t, r.DoubleBytePadded())
	assert.Equal(t, LineRenditionSingleWidth, r.LineRendition())

	for col := size.CellCountInt(0); col < 5; col++ {
		assert.Equal(t, " ", clusterString(t, r, col))
		attr, err := r.AttrAt(col)
		assert.NoError(t, err)
		assert.Equal(t, fill, attr)
	}
	assert.Len(t, r.AttrRuns(), 1)
}

func TestRow_Reset(t *testing.T) {
	r := New(5, style.Style{})
	r.Replace(0, 1, encode("long cluster"))
	r.Replace(2, 2, encode("你"))
	assert.NoError(t, r.ClearColumn(4))
	r.SetWrapForced(true)
	r.SetDoubleBytePadded(true)
	r.SetLineRendition(LineRenditionDoubleWidth)

	reset := style.Style{Italic: true}
	r.Reset(reset)

	assert.Equal(t, size.CellCountInt(5), r.Size())
	assert.False(t, r.WrapForced())
	assert.False(t, r.DoubleBytePadded())
	assert.Equal(t, LineRenditionSingleWidth, r.LineRendition())
	assert.Equal(t, "     ", r.String())
	for col := size.CellCountInt(0); col < 5; col++ {
		assert.Equal(t, " ", clusterString(t, r, col))
		attr, err := r.AttrAt(col)
		assert.NoError(t, err)
		assert.Equal(t, reset, attr)
	}
	assert.Len(t, r.AttrRuns(), 1)
}

func TestRow_ReplaceSingleColumn(t *testing.T) {
	r := New(5, style.Style{})
	r.Replace(2, 1, encode("X"))

	assert.Equal(t, "  X  ", r.String())
	assert.Equal(t, "X", clusterString(t, r, 2))
	assert.Equal(t, " ", clusterString(t, r, 1))
	assert.Equal(t, " ", clusterString(t, r, 3))
}

// A single column may hold a multi-unit cluster without disturbing its
// neighbors or the column count.
func TestRow_ReplaceVariableLengthCluster(t *testing.T) {
	r := New(5, style.Style{})
	r.Replace(1, 1, encode("X"))
	r.Replace(1, 1, encode("AB"))

	assert.Equal(t, "AB", clusterString(t, r, 1))
	assert.Equal(t, " ", clusterString(t, r, 0))
	assert.Equal(t, " ", clusterString(t, r, 2))
	assert.Equal(t, " AB   ", r.String())
	assert.Equal(t, size.CellCountInt(5), r.Size())
}

func TestRow_ReplaceIdempotent(t *testing.T) {
	r := New(5, style.Style{})
	r.Replace(1, 1, encode("AB"))
	once := r.String()
	onceCluster := clusterString(t, r, 1)

	r.Replace(1, 1, encode("AB"))
	assert.Equal(t, once, r.String())
	assert.Equal(t, onceCluster, clusterString(t, r, 1))
}

func TestRow_ReplaceWideCluster(t *testing.T) {
	r := New(5, style.Style{})
	r.Replace(1, 2, encode("你"))

	// Both columns of the span read the full cluster.
	assert.Equal(t, "你", clusterString(t, r, 1))
	assert.Equal(t, "你", clusterString(t, r, 2))
	assert.Equal(t, " ", clusterString(t, r, 0))
	assert.Equal(t, " ", clusterString(t, r, 3))
	assert.Equal(t, " 你  ", r.String())
}

// Overwriting one column of a wide cluster detaches the other column
// into an independent blank.
func TestRow_ReplaceSplitsWideCluster(t *testing.T) {
	r := New(5, style.Style{})
	r.Replace(1, 2, encode("你"))

	r.Replace(1, 1, encode("X"))
	assert.Equal(t, "X", clusterString(t, r, 1))
	assert.Equal(t, " ", clusterString(t, r, 2))
	assert.Equal(t, " X   ", r.String())

	r.Replace(1, 2, encode("好"))
	r.Replace(2, 1, encode("Y"))
	assert.Equal(t, " ", clusterString(t, r, 1))
	assert.Equal(t, "Y", clusterString(t, r, 2))
}

func TestRow_ReplaceUntouchedColumnsSurvive(t *testing.T) {
	r := New(6, style.Style{})
	r.Replace(0, 1, encode("A"))
	r.Replace(5, 1, encode("Z"))
	r.Replace(2, 2, encode("你"))

	assert.Equal(t, "A", clusterString(t, r, 0))
	assert.Equal(t, "Z", clusterString(t, r, 5))
	assert.Equal(t, "你", clusterString(t, r, 2))
	assert.Equal(t, "A 你 Z", r.String())
}

// Repeated growth of one column exercises the store reallocation path.
func TestRow_ReplaceGrowsStore(t *testing.T) {
	r := New(4, style.Style{})
	long := "this cluster is far longer than the row is wide"
	r.Replace(1, 1, encode(long))

	assert.Equal(t, long, clusterString(t, r, 1))

	r.Replace(0, 1, encode("A"))
	assert.Equal(t, "A", clusterString(t, r, 0))
	assert.Equal(t, long, clusterString(t, r, 1))
	assert.Equal(t, " ", clusterString(t, r, 2))

	// Shrink it back down; neighbors still intact.
	r.Replace(1, 1, encode("x"))
	assert.Equal(t, "Ax  ", r.String())
}

func TestRow_ReplaceClampsRange(t *testing.T) {
	r := New(3, style.Style{})
	r.Replace(2, 5, encode("Z"))
	assert.Equal(t, "Z", clusterString(t, r, 2))
	assert.Equal(t, "  Z", r.String())
}

func TestRow_ClearColumn(t *testing.T) {
	r := New(3, style.Style{})
	r.Replace(1, 1, encode("X"))
	assert.NoError(t, r.ClearColumn(1))
	assert.Equal(t, " ", clusterString(t, r, 1))

	assert.ErrorIs(t, r.ClearColumn(3), ErrInvalidArgument)
}

func TestRow_MeasureRight(t *testing.T) {
	r := New(5, style.Style{})
	assert.Equal(t, size.CellCountInt(0), r.MeasureRight())

	r.Replace(1, 1, encode("X"))
	assert.Equal(t, size.CellCountInt(2), r.MeasureRight())

	r.Replace(3, 2, encode("你"))
	assert.Equal(t, size.CellCountInt(5), r.MeasureRight())
}

func TestRow_WriteCells_Hello(t *testing.T) {
	fill := style.Style{}
	r := New(5, fill)
	it := cells.FromString("Hello", fill)

	rem, err := r.WriteCells(it, 0, nil, nil)
	assert.NoError(t, err)
	assert.False(t, rem.Valid())
	assert.Equal(t, "Hello", r.String())
	// No wrap policy given, flag untouched.
	assert.False(t, r.WrapForced())
}

func TestRow_WriteCells_OverflowWraps(t *testing.T) {
	r := New(3, style.Style{})
	it := cells.FromString("abcde", style.Style{})

	rem, err := r.WriteCells(it, 0, boolPtr(true), nil)
	assert.NoError(t, err)
	assert.Equal(t, "abc", r.String())
	assert.True(t, r.WrapForced())

	// Two cells left over for the caller's next row.
	slice, ok := rem.(*cells.SliceIterator)
	assert.True(t, ok)
	assert.Equal(t, 2, slice.Remaining())

	next := New(3, style.Style{})
	rem, err = next.WriteCells(rem, 0, boolPtr(true), nil)
	assert.NoError(t, err)
	assert.False(t, rem.Valid())
	assert.Equal(t, "de ", next.String())
}

func TestRow_WriteCells_BlockUnwraps(t *testing.T) {
	r := New(3, style.Style{})
	r.SetWrapForced(true)

	_, err := r.WriteCells(cells.FromString("xyz", style.Style{}), 0, boolPtr(false), nil)
	assert.NoError(t, err)
	assert.False(t, r.WrapForced())
}

func TestRow_WriteCells_TrailingAtFirstColumn(t *testing.T) {
	r := New(5, style.Style{})
	cluster := encode("你")
	it := cells.NewSliceIterator([]cells.Cell{
		{Cluster: cluster, Dbcs: cells.DbcsTrailing},
		{Cluster: encode("a")},
	})

	rem, err := r.WriteCells(it, 0, nil, nil)
	assert.NoError(t, err)
	assert.False(t, rem.Valid())

	// Column 0 was padded out; the trailing half landed on column 1.
	assert.Equal(t, " ", clusterString(t, r, 0))
	assert.Equal(t, "你", clusterString(t, r, 1))
	assert.Equal(t, "a", clusterString(t, r, 2))
}

func TestRow_WriteCells_LeadingAtLastColumn(t *testing.T) {
	r := New(5, style.Style{})
	it := cells.FromString("abcd你", style.Style{})

	rem, err := r.WriteCells(it, 0, nil, nil)
	assert.NoError(t, err)

	// The wide glyph could not fit in the single remaining column.
	assert.True(t, r.DoubleBytePadded())
	assert.Equal(t, " ", clusterString(t, r, 4))
	assert.Equal(t, "abcd ", r.String())

	// Both halves remain for the next row.
	slice, ok := rem.(*cells.SliceIterator)
	assert.True(t, ok)
	assert.Equal(t, 2, slice.Remaining())

	next := New(5, style.Style{})
	rem, err = next.WriteCells(rem, 0, nil, nil)
	assert.NoError(t, err)
	assert.False(t, rem.Valid())
	assert.Equal(t, "你", clusterString(t, next, 0))
	assert.Equal(t, "你", clusterString(t, next, 1))
}

func TestRow_WriteCells_LeadingAtLimitRight(t *testing.T) {
	r := New(5, style.Style{})
	it := cells.FromString("ab你", style.Style{})

	rem, err := r.WriteCells(it, 0, nil, colPtr(2))
	assert.NoError(t, err)
	assert.True(t, r.DoubleBytePadded())
	assert.Equal(t, " ", clusterString(t, r, 2))
	assert.Equal(t, "ab   ", r.String())
	assert.True(t, rem.Valid())
}

func TestRow_WriteCells_WideGlyphSharesOffsets(t *testing.T) {
	r := New(5, style.Style{})
	it := cells.FromString("a你b", style.Style{})

	rem, err := r.WriteCells(it, 0, nil, nil)
	assert.NoError(t, err)
	assert.False(t, rem.Valid())

	assert.Equal(t, "a", clusterString(t, r, 0))
	assert.Equal(t, "你", clusterString(t, r, 1))
	assert.Equal(t, "你", clusterString(t, r, 2))
	assert.Equal(t, "b", clusterString(t, r, 3))
	assert.Equal(t, "a你b ", r.String())
}

func TestRow_WriteCells_AttributeRuns(t *testing.T) {
	fill := style.Style{}
	red := style.Style{ForegroundColor: style.Color{Type: style.ColorTypePalette, Palette: 1}}
	blue := style.Style{ForegroundColor: style.Color{Type: style.ColorTypePalette, Palette: 4}}

	r := New(6, fill)
	stream := make([]cells.Cell, 0, 6)
	for _, c := range "abc" {
		stream = append(stream, cells.Cell{Cluster: encode(string(c)), Attr: red})
	}
	for _, c := range "def" {
		stream = append(stream, cells.Cell{Cluster: encode(string(c)), Attr: blue})
	}

	rem, err := r.WriteCells(cells.NewSliceIterator(stream), 0, nil, nil)
	assert.NoError(t, err)
	assert.False(t, rem.Valid())
	assert.Equal(t, "abcdef", r.String())

	runs := r.AttrRuns()
	assert.Len(t, runs, 2)
	assert.Equal(t, red, runs[0].Value)
	assert.Equal(t, size.CellCountInt(3), runs[0].Length)
	assert.Equal(t, blue, runs[1].Value)
	assert.Equal(t, size.CellCountInt(3), runs[1].Length)

	var total size.CellCountInt
	for _, run := range runs {
		total += run.Length
	}
	assert.Equal(t, r.Size(), total)
}

func TestRow_WriteCells_KeepCurrentColor(t *testing.T) {
	fill := style.Style{Bold: true}
	r := New(4, fill)
	stream := []cells.Cell{
		{Cluster: encode("a"), Behavior: cells.AttrBehaviorCurrent},
		{Cluster: encode("b"), Behavior: cells.AttrBehaviorCurrent},
	}

	_, err := r.WriteCells(cells.NewSliceIterator(stream), 0, nil, nil)
	assert.NoError(t, err)
	assert.Equal(t, "ab  ", r.String())

	// The row's attributes were left alone.
	for col := size.CellCountInt(0); col < 4; col++ {
		attr, err := r.AttrAt(col)
		assert.NoError(t, err)
		assert.Equal(t, fill, attr)
	}
}

func TestRow_WriteCells_ColorOnly(t *testing.T) {
	fill := style.Style{}
	red := style.Style{ForegroundColor: style.Color{Type: style.ColorTypePalette, Palette: 1}}

	r := New(5, fill)
	r.Replace(1, 1, encode("X"))

	rem, err := r.WriteCells(cells.ColorOnly(red, 3), 1, nil, nil)
	assert.NoError(t, err)
	assert.False(t, rem.Valid())

	// Text untouched, columns 1-3 recolored.
	assert.Equal(t, " X   ", r.String())
	for col := size.CellCountInt(1); col < 4; col++ {
		attr, err := r.AttrAt(col)
		assert.NoError(t, err)
		assert.Equal(t, red, attr, "column %d", col)
	}
	attr, err := r.AttrAt(0)
	assert.NoError(t, err)
	assert.Equal(t, fill, attr)
	attr, err = r.AttrAt(4)
	assert.NoError(t, err)
	assert.Equal(t, fill, attr)
}

func TestRow_WriteCells_InvalidArgument(t *testing.T) {
	r := New(3, style.Style{})
	it := cells.FromString("a", style.Style{})

	_, err := r.WriteCells(it, 3, nil, nil)
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = r.WriteCells(it, 0, nil, colPtr(3))
	assert.ErrorIs(t, err, ErrInvalidArgument)

	// Nothing was written.
	assert.Equal(t, "   ", r.String())
}

func TestRow_WriteCells_EmptySource(t *testing.T) {
	r := New(3, style.Style{})
	rem, err := r.WriteCells(cells.NewSliceIterator(nil), 0, boolPtr(true), nil)
	assert.NoError(t, err)
	assert.False(t, rem.Valid())
	assert.Equal(t, "   ", r.String())
	assert.False(t, r.WrapForced())
}

func TestRow_WriteCells_StartMidRow(t *testing.T) {
	r := New(6, style.Style{})
	rem, err := r.WriteCells(cells.FromString("xy", style.Style{}), 3, nil, nil)
	assert.NoError(t, err)
	assert.False(t, rem.Valid())
	assert.Equal(t, "   xy ", r.String())
}
