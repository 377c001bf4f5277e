package page

import (
	"fmt"

	"github.com/dshills/termcore/internal/screen/style"
)

// GrowTo builds a new page with capacity c holding this page's content.
// Rows beyond c.Rows and columns beyond c.Cols are dropped, along with a
// wide character whose tail no longer fits. Tables are rehashed into the
// new layout, style IDs remapped and cell keys renumbered for the new
// column count. The receiver is left untouched.
func (p *Page) GrowTo(c Capacity) (*Page, error) {
	np, err := New(c, WithAllocator(p.alloc))
	if err != nil {
		return nil, err
	}
	rows := min(p.size.Rows, c.Rows)
	cols := int(min(p.cap.Cols, c.Cols))
	np.size.Rows = rows

	remap := make([]style.ID, p.styles.Capacity()+1)
	if err := p.styles.CopyInto(np.styles, func(o, n uint32) { remap[o+1] = style.ID(n + 1) }); err != nil {
		return nil, fmt.Errorf("page: grow styles: %w", err)
	}
	// Reference counts are rebuilt from the cells that survive.
	for idx := range np.styles.Capacity() {
		if np.styles.IsLive(idx) {
			*np.styles.ValuePtrAt(idx) = 0
		}
	}

	for y := range int(rows) {
		np.rows[y] = p.rows[y]
		start := int(np.index(y, 0))
		dst := np.cells[start : start+cols]
		copy(dst, p.RowCells(y)[:cols])
		switch last := &dst[cols-1]; {
		case cols < int(p.cap.Cols) && last.Wide == WidthWide:
			*last = Cell{}
		case cols < int(c.Cols) && last.Wide == WidthSpacerHead:
			*last = Cell{}
		}
		for x := range dst {
			if id := dst[x].Style; id != style.DefaultID {
				dst[x].Style = remap[id]
				*np.styleRef(dst[x].Style)++
			}
		}
	}

	git := p.graphemes.Iterator()
	for git.Next() {
		y, x := p.position(git.Key())
		if y >= int(rows) || x >= cols {
			continue
		}
		ni := np.index(y, x)
		if np.cells[ni].Flags&CellGrapheme == 0 {
			continue
		}
		old := git.Value()
		span := Span{Len: old.Len}
		start, ok := np.arena.alloc(span.chunks())
		if !ok {
			return nil, fmt.Errorf("%w: grapheme arena too small for grow", ErrOutOfMemory)
		}
		span.Offset = start
		copy(np.arena.runes(span), p.arena.runes(old))
		if err := np.graphemes.Put(ni, span); err != nil {
			return nil, fmt.Errorf("page: grow graphemes: %w", err)
		}
	}

	hit := p.hyperlinks.Iterator()
	for hit.Next() {
		y, x := p.position(hit.Key())
		if y >= int(rows) || x >= cols {
			continue
		}
		ni := np.index(y, x)
		if np.cells[ni].Flags&CellHyperlink == 0 {
			continue
		}
		if err := np.hyperlinks.Put(ni, hit.Value()); err != nil {
			return nil, fmt.Errorf("page: grow hyperlinks: %w", err)
		}
	}
	return np, nil
}

// CopyCell copies the cell at srcRow, srcCol of src into dst, carrying its
// style, grapheme and hyperlink. On ErrOutOfMemory the destination cell may
// be partially written; grow dst and copy again.
func CopyCell(dst *Page, dstRow, dstCol int, src *Page, srcRow, srcCol int) error {
	if err := src.checkCell(srcRow, srcCol); err != nil {
		return err
	}
	if err := dst.checkCell(dstRow, dstCol); err != nil {
		return err
	}

	c := src.cells[src.index(srcRow, srcCol)]
	if c.Style != style.DefaultID {
		id, err := dst.InternStyle(src.Style(c.Style))
		if err != nil {
			return err
		}
		c.Style = id
	}
	if err := dst.Set(dstRow, dstCol, c); err != nil {
		return err
	}
	if c.Flags&CellGrapheme != 0 {
		if err := dst.AttachGrapheme(dstRow, dstCol, src.Grapheme(srcRow, srcCol)); err != nil {
			return err
		}
	}
	if c.Flags&CellHyperlink != 0 {
		id, _ := src.Hyperlink(srcRow, srcCol)
		if err := dst.AttachHyperlink(dstRow, dstCol, id); err != nil {
			return err
		}
	}
	return nil
}
