package page

import "github.com/dshills/termcore/internal/screen/style"

// Width describes how a cell participates in a wide character.
type Width uint8

const (
	// WidthNarrow is an ordinary single-column cell.
	WidthNarrow Width = iota
	// WidthWide is the first column of a two-column character.
	WidthWide
	// WidthSpacerTail is the second column of a wide character.
	WidthSpacerTail
	// WidthSpacerHead pads the last column of a row whose wide character
	// wrapped to the next row.
	WidthSpacerHead
)

// CellFlags mark per-cell state.
type CellFlags uint8

const (
	// CellGrapheme means the grapheme table holds extra codepoints.
	CellGrapheme CellFlags = 1 << iota
	// CellHyperlink means the hyperlink table holds a link ID.
	CellHyperlink
	// CellProtected is the DECSCA protection attribute.
	CellProtected
)

// tableFlags are owned by the page and cannot be set through Set.
const tableFlags = CellGrapheme | CellHyperlink

// Cell is one grid position. It is 8 bytes and pointer-free.
type Cell struct {
	Codepoint rune
	Style     style.ID
	Wide      Width
	Flags     CellFlags
}

// IsEmpty reports whether the cell holds nothing: no text, default style,
// no attached metadata.
func (c Cell) IsEmpty() bool {
	return c.Codepoint == 0 && c.Style == style.DefaultID && c.Wide == WidthNarrow && c.Flags&tableFlags == 0
}

// HasText reports whether the cell holds a codepoint.
func (c Cell) HasText() bool {
	return c.Codepoint != 0
}

// IsSpacer reports whether the cell is padding for a wide character.
func (c Cell) IsSpacer() bool {
	return c.Wide == WidthSpacerTail || c.Wide == WidthSpacerHead
}

// RowFlags mark per-row state.
type RowFlags uint16

const (
	// RowWrapped means the logical line continues on the next row.
	RowWrapped RowFlags = 1 << iota
	// RowWrapContinuation means this row continues the previous row.
	RowWrapContinuation
	// RowDirty means the row changed since the flag was last cleared.
	RowDirty
	// RowGrapheme means some cell of the row may have a grapheme entry.
	RowGrapheme
	// RowHyperlink means some cell of the row may have a hyperlink entry.
	RowHyperlink
	// RowStyled means some cell of the row may have a non-default style.
	RowStyled
)

// Row is the per-row header.
type Row struct {
	Flags RowFlags
}

// Wrapped reports whether the logical line continues on the next row.
func (r Row) Wrapped() bool { return r.Flags&RowWrapped != 0 }

// Continuation reports whether the row continues the previous row.
func (r Row) Continuation() bool { return r.Flags&RowWrapContinuation != 0 }

// Size is the used extent of a page.
type Size struct {
	Rows uint16
	Cols uint16
}
