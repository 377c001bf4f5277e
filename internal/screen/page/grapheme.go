package page

import "fmt"

// AttachGrapheme stores the extra codepoints of the grapheme cluster that
// starts in the cell at row, col, replacing any previous ones. An empty
// slice detaches.
func (p *Page) AttachGrapheme(row, col int, extra []rune) error {
	if err := p.checkCell(row, col); err != nil {
		return err
	}
	if len(extra) == 0 {
		p.DetachGrapheme(row, col)
		return nil
	}

	idx := p.index(row, col)
	old, had := p.graphemes.Get(idx)
	if had {
		p.arena.free(old.Offset, old.chunks())
	}

	span := Span{Len: uint32(len(extra))}
	start, ok := p.arena.alloc(span.chunks())
	if !ok {
		if had {
			p.arena.mark(old.Offset, old.chunks(), true)
		}
		return fmt.Errorf("%w: grapheme arena full (%d runes)", ErrOutOfMemory, len(extra))
	}
	span.Offset = start
	copy(p.arena.runes(span), extra)

	if err := putCompacting(p.graphemes, cellContext, p.alloc, idx, span); err != nil {
		p.arena.free(span.Offset, span.chunks())
		return fmt.Errorf("page: attach grapheme: %w", err)
	}

	p.cells[idx].Flags |= CellGrapheme
	p.rows[row].Flags |= RowGrapheme | RowDirty
	return nil
}

// AppendGrapheme adds one codepoint to the cell's grapheme cluster.
func (p *Page) AppendGrapheme(row, col int, r rune) error {
	if err := p.checkCell(row, col); err != nil {
		return err
	}
	idx := p.index(row, col)
	sp := p.graphemes.GetPtr(idx)
	if sp == nil {
		return p.AttachGrapheme(row, col, []rune{r})
	}

	if sp.Len < sp.chunks()*chunkRunes {
		p.arena.chunks[sp.Offset*chunkRunes+sp.Len] = r
		sp.Len++
		p.rows[row].Flags |= RowDirty
		return nil
	}

	// The old chunks are released first so the cluster can grow in place
	// when the following chunk is free.
	p.arena.free(sp.Offset, sp.chunks())
	next := Span{Len: sp.Len + 1}
	start, ok := p.arena.alloc(next.chunks())
	if !ok {
		p.arena.mark(sp.Offset, sp.chunks(), true)
		return fmt.Errorf("%w: grapheme arena full", ErrOutOfMemory)
	}
	next.Offset = start
	dst := p.arena.chunks[start*chunkRunes : start*chunkRunes+next.Len]
	copy(dst, p.arena.chunks[sp.Offset*chunkRunes:sp.Offset*chunkRunes+sp.Len])
	dst[sp.Len] = r
	*sp = next
	p.rows[row].Flags |= RowDirty
	return nil
}

// Grapheme returns a copy of the extra codepoints of the cell, or nil.
func (p *Page) Grapheme(row, col int) []rune {
	if p.checkCell(row, col) != nil {
		return nil
	}
	span, ok := p.graphemes.Get(p.index(row, col))
	if !ok {
		return nil
	}
	return append([]rune(nil), p.arena.runes(span)...)
}

// DetachGrapheme removes the cell's extra codepoints, if any.
func (p *Page) DetachGrapheme(row, col int) {
	if p.checkCell(row, col) != nil {
		return
	}
	idx := p.index(row, col)
	p.removeGrapheme(idx)
	p.cells[idx].Flags &^= CellGrapheme
}

func (p *Page) removeGrapheme(idx uint32) {
	slot, ok := p.graphemes.GetIndex(idx)
	if !ok {
		return
	}
	span := p.graphemes.ValueAt(slot)
	p.arena.free(span.Offset, span.chunks())
	p.graphemes.RemoveAt(slot)
}
