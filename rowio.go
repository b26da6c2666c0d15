// Package rowio exposes the row storage engine behind a small writer
// facade: UTF-8 text goes in, a fixed-width terminal row fills up, and
// whatever does not fit is handed back for the next row.
package rowio

import (
	"fmt"

	"github.com/hnimtadd/rowio/logger"
	"github.com/hnimtadd/rowio/terminal/cells"
	"github.com/hnimtadd/rowio/terminal/row"
	"github.com/hnimtadd/rowio/terminal/size"
	"github.com/hnimtadd/rowio/terminal/style"
)

// Writer owns a single row and a cursor into it. It is not safe for
// concurrent use; the caller serializes access the same way a buffer
// serializes access to its rows.
type Writer struct {
	row    *row.Row
	cursor size.CellCountInt

	logger logger.Logger
}

type Options struct {
	Cols int
	// Fill is the attribute blank columns start with.
	Fill   style.Style
	Logger logger.Logger
}

func NewWriter(opts Options) *Writer {
	log := opts.Logger
	if log == nil {
		log = logger.DefaultLogger
	}
	return &Writer{
		row:    row.New(size.CellCountInt(opts.Cols), opts.Fill),
		logger: log,
	}
}

// WriteString encodes s into a cell stream and fills the row from the
// current cursor, marking a forced wrap when the text overflows. The
// returned iterator holds the cells that did not fit, for the caller to
// continue into the next row; it is nil when everything fit.
func (w *Writer) WriteString(s string, attr style.Style) (remaining cells.Iterator, err error) {
	defer func() {
		if r := recover(); r != nil {
			w.logger.Error("panic while filling row",
				"input_len", len(s), "panic", r)
			err = fmt.Errorf("panic while filling row: %v", r)
		}
	}()

	it := cells.FromString(s, attr)
	if !it.Valid() {
		return nil, nil
	}
	if w.cursor >= w.row.Size() {
		return it, nil
	}

	before := it.Remaining()
	wrap := true
	rem, err := w.row.WriteCells(it, w.cursor, &wrap, nil)
	if err != nil {
		return rem, err
	}
	if rem.Valid() {
		w.cursor = w.row.Size()
		return rem, nil
	}

	// Streams built by FromString advance the cursor one column per
	// consumed cell; padded columns only occur when cells are left
	// over, which the branch above covers.
	w.cursor += size.CellCountInt(before)
	return nil, nil
}

// WriteCells fills from the current cursor with an arbitrary cell
// stream, forwarding to the row engine. Cursor tracking assumes the
// stream advances one column per consumed cell; streams that open with
// an orphaned trailing half cost one extra padded column the cursor
// cannot see.
func (w *Writer) WriteCells(it cells.Iterator, wrap *bool) (cells.Iterator, error) {
	if w.cursor >= w.row.Size() {
		return it, nil
	}
	before := -1
	if c, ok := it.(interface{ Remaining() int }); ok {
		before = c.Remaining()
	}
	rem, err := w.row.WriteCells(it, w.cursor, wrap, nil)
	if err != nil {
		return rem, err
	}
	switch {
	case rem.Valid():
		w.cursor = w.row.Size()
	case before >= 0:
		w.cursor += size.CellCountInt(before)
	default:
		w.cursor = w.row.MeasureRight()
	}
	return rem, nil
}

// Reset blanks the row and rewinds the cursor.
func (w *Writer) Reset(fill style.Style) {
	w.row.Reset(fill)
	w.cursor = 0
}

// Row exposes the underlying row for direct engine access.
func (w *Writer) Row() *row.Row {
	return w.row
}

func (w *Writer) Cursor() size.CellCountInt {
	return w.cursor
}

// String decodes the row's current contents.
func (w *Writer) String() string {
	return w.row.String()
}
