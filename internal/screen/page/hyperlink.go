package page

import "fmt"

// AttachHyperlink associates a hyperlink ID with the cell at row, col. ID 0
// detaches.
func (p *Page) AttachHyperlink(row, col int, id uint32) error {
	if err := p.checkCell(row, col); err != nil {
		return err
	}
	if id == 0 {
		p.DetachHyperlink(row, col)
		return nil
	}
	idx := p.index(row, col)
	if err := putCompacting(p.hyperlinks, cellContext, p.alloc, idx, id); err != nil {
		return fmt.Errorf("page: attach hyperlink: %w", err)
	}
	p.cells[idx].Flags |= CellHyperlink
	p.rows[row].Flags |= RowHyperlink | RowDirty
	return nil
}

// Hyperlink returns the hyperlink ID of the cell.
func (p *Page) Hyperlink(row, col int) (uint32, bool) {
	if p.checkCell(row, col) != nil {
		return 0, false
	}
	return p.hyperlinks.Get(p.index(row, col))
}

// DetachHyperlink removes the cell's hyperlink, if any.
func (p *Page) DetachHyperlink(row, col int) {
	if p.checkCell(row, col) != nil {
		return
	}
	idx := p.index(row, col)
	p.hyperlinks.Remove(idx)
	p.cells[idx].Flags &^= CellHyperlink
}
