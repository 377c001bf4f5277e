package page

import (
	"fmt"

	"github.com/dshills/termcore/internal/screen/style"
)

// ClearCells resets cells [start, end) of row to empty, releasing their
// styles and removing their grapheme and hyperlink entries.
func (p *Page) ClearCells(row, start, end int) error {
	if err := p.checkCell(row, 0); err != nil {
		return err
	}
	if start < 0 || end > int(p.cap.Cols) || start > end {
		return fmt.Errorf("%w: cols [%d,%d) of %d", ErrOutOfBounds, start, end, p.cap.Cols)
	}
	for col := start; col < end; col++ {
		p.clearCell(p.index(row, col))
	}
	p.rows[row].Flags |= RowDirty
	return nil
}

// ClearRows resets rows [start, end) to blank rows.
func (p *Page) ClearRows(start, end int) error {
	if err := p.checkRows(start, end); err != nil {
		return err
	}
	for y := start; y < end; y++ {
		base := p.index(y, 0)
		for i := base; i < base+uint32(p.cap.Cols); i++ {
			p.clearCell(i)
		}
		p.rows[y] = Row{Flags: RowDirty}
	}
	return nil
}

func (p *Page) clearCell(idx uint32) {
	c := &p.cells[idx]
	if c.Style != style.DefaultID {
		p.unrefStyle(c.Style)
	}
	if c.Flags&CellGrapheme != 0 {
		p.removeGrapheme(idx)
	}
	if c.Flags&CellHyperlink != 0 {
		p.hyperlinks.Remove(idx)
	}
	*c = Cell{}
}

// ShiftRows moves rows [top, bottom) by delta rows, down for a positive
// delta and up for a negative one. Rows pushed past the range are cleared,
// rows uncovered at the other end become blank. Grapheme and hyperlink
// entries move with their cells.
func (p *Page) ShiftRows(top, bottom, delta int) error {
	if err := p.checkRows(top, bottom); err != nil {
		return err
	}
	n := bottom - top
	if delta == 0 || n == 0 {
		return nil
	}
	if delta >= n || -delta >= n {
		return p.ClearRows(top, bottom)
	}

	if delta > 0 {
		if err := p.ClearRows(bottom-delta, bottom); err != nil {
			return err
		}
		for y := bottom - 1; y >= top+delta; y-- {
			if err := p.moveRow(y-delta, y); err != nil {
				return err
			}
		}
		return nil
	}

	d := -delta
	if err := p.ClearRows(top, top+d); err != nil {
		return err
	}
	for y := top; y < bottom-d; y++ {
		if err := p.moveRow(y+d, y); err != nil {
			return err
		}
	}
	return nil
}

// moveRow transfers row src onto the blank row dst, leaving src blank.
// Style references move with the cells unchanged.
func (p *Page) moveRow(src, dst int) error {
	cols := uint32(p.cap.Cols)
	sbase, dbase := p.index(src, 0), p.index(dst, 0)
	for x := range cols {
		c := p.cells[sbase+x]
		if c.Flags&CellGrapheme != 0 {
			if err := rekey(p.graphemes.GetIndex, func(slot uint32) error {
				span := p.graphemes.ValueAt(slot)
				p.graphemes.RemoveAt(slot)
				return putCompacting(p.graphemes, cellContext, p.alloc, dbase+x, span)
			}, sbase+x); err != nil {
				return err
			}
		}
		if c.Flags&CellHyperlink != 0 {
			if err := rekey(p.hyperlinks.GetIndex, func(slot uint32) error {
				id := p.hyperlinks.ValueAt(slot)
				p.hyperlinks.RemoveAt(slot)
				return putCompacting(p.hyperlinks, cellContext, p.alloc, dbase+x, id)
			}, sbase+x); err != nil {
				return err
			}
		}
		p.cells[dbase+x] = c
		p.cells[sbase+x] = Cell{}
	}
	p.rows[dst] = Row{Flags: p.rows[src].Flags | RowDirty}
	p.rows[src] = Row{Flags: RowDirty}
	return nil
}

// rekey moves the table entry of cell idx to a new key using move.
// Removing first frees a slot's worth of load, so the reinsert cannot fail
// once tombstones are reclaimed.
func rekey(lookup func(uint32) (uint32, bool), move func(slot uint32) error, idx uint32) error {
	slot, ok := lookup(idx)
	invariant(ok, "cell %d flagged without table entry", idx)
	if err := move(slot); err != nil {
		return fmt.Errorf("page: move entry of cell %d: %w", idx, err)
	}
	return nil
}
