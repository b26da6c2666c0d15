package size

// CellCountInt is the integer type used to count cells (columns or rows)
// on a terminal surface. Terminals are bounded well below 65536 cells per
// axis so u16 is plenty, and keeping it small keeps per-row metadata
// (column offsets, run lengths) compact.
type CellCountInt uint16
