// Package rle implements the run-length encoded value track used for
// per-column text attributes of a row.
package rle

import (
	"fmt"

	"github.com/hnimtadd/rowio/terminal/size"
	"github.com/hnimtadd/rowio/terminal/utils"
)

var ErrInvalidArgument = fmt.Errorf("rle: invalid argument")

// Run is one maximal span of equal values.
type Run[T comparable] struct {
	Value  T
	Length size.CellCountInt
}

// Sequence is a fixed-length sequence of values stored as runs. The run
// lengths always sum to the sequence length and no two adjacent runs
// hold equal values.
type Sequence[T comparable] struct {
	runs   []Run[T]
	length size.CellCountInt
}

// New creates a sequence of the given length filled with one value.
// A sequence always holds at least one element so that SetAll and
// Replace behave on degenerate zero-width rows.
func New[T comparable](length size.CellCountInt, fill T) *Sequence[T] {
	length = max(1, length)
	return &Sequence[T]{
		runs:   []Run[T]{{Value: fill, Length: length}},
		length: length,
	}
}

func (s *Sequence[T]) Length() size.CellCountInt {
	return s.length
}

// At returns the value covering the given position.
func (s *Sequence[T]) At(pos size.CellCountInt) (T, error) {
	if pos >= s.length {
		var zero T
		return zero, ErrInvalidArgument
	}
	var covered size.CellCountInt
	for _, run := range s.runs {
		covered += run.Length
		if pos < covered {
			return run.Value, nil
		}
	}
	// Unreachable while the length invariant holds.
	var zero T
	return zero, ErrInvalidArgument
}

// Replace overwrites positions [a, b) with the given value, splitting
// and merging runs so the total length is preserved and adjacent equal
// runs stay coalesced.
func (s *Sequence[T]) Replace(a, b size.CellCountInt, value T) error {
	if a > b || b > s.length {
		return ErrInvalidArgument
	}
	if a == b {
		return nil
	}

	newRuns := make([]Run[T], 0, len(s.runs)+2)
	push := func(v T, n size.CellCountInt) {
		if n == 0 {
			return
		}
		if len(newRuns) > 0 && newRuns[len(newRuns)-1].Value == v {
			newRuns[len(newRuns)-1].Length += n
			return
		}
		newRuns = append(newRuns, Run[T]{Value: v, Length: n})
	}

	// Keep the prefix clipped to [0, a), insert the new run, then keep
	// the suffix clipped to [b, length).
	var pos size.CellCountInt
	for _, run := range s.runs {
		if pos >= a {
			break
		}
		push(run.Value, min(run.Length, a-pos))
		pos += run.Length
	}
	push(value, b-a)
	pos = 0
	for _, run := range s.runs {
		end := pos + run.Length
		if end > b {
			push(run.Value, end-max(pos, b))
		}
		pos = end
	}

	var total size.CellCountInt
	for _, run := range newRuns {
		total += run.Length
	}
	utils.Assert(total == s.length, "rle: replace changed total length")

	s.runs = newRuns
	return nil
}

// SetAll collapses the sequence to a single run of the given value.
func (s *Sequence[T]) SetAll(value T) {
	s.runs = append(s.runs[:0], Run[T]{Value: value, Length: s.length})
}

// Runs exposes the underlying runs. Callers must not mutate them.
func (s *Sequence[T]) Runs() []Run[T] {
	return s.runs
}
