package page

import (
	"fmt"

	"github.com/dshills/termcore/internal/screen/style"
)

// Verify checks the page's internal consistency: style references and ref
// counts, grapheme and hyperlink entries against cell flags, arena usage,
// wide character pairing and blank unused rows.
func (p *Page) Verify() error {
	refs := make(map[style.ID]uint32)
	var graphemes, hyperlinks, chunks uint32
	cols := int(p.cap.Cols)

	for y := range int(p.size.Rows) {
		row := p.RowCells(y)
		for x, c := range row {
			idx := p.index(y, x)
			if c.Style != style.DefaultID {
				if !p.styles.IsLive(uint32(c.Style) - 1) {
					return fmt.Errorf("%w: cell (%d,%d) uses missing style %d", ErrCorrupt, y, x, c.Style)
				}
				refs[c.Style]++
			}

			span, hasG := p.graphemes.Get(idx)
			if hasG != (c.Flags&CellGrapheme != 0) {
				return fmt.Errorf("%w: cell (%d,%d) grapheme flag %v, entry %v", ErrCorrupt, y, x, !hasG, hasG)
			}
			if hasG {
				graphemes++
				chunks += span.chunks()
			}
			hasH := p.hyperlinks.Contains(idx)
			if hasH != (c.Flags&CellHyperlink != 0) {
				return fmt.Errorf("%w: cell (%d,%d) hyperlink flag %v, entry %v", ErrCorrupt, y, x, !hasH, hasH)
			}
			if hasH {
				hyperlinks++
			}

			switch c.Wide {
			case WidthWide:
				if x == cols-1 || row[x+1].Wide != WidthSpacerTail {
					return fmt.Errorf("%w: wide cell (%d,%d) without spacer tail", ErrCorrupt, y, x)
				}
			case WidthSpacerTail:
				if x == 0 || row[x-1].Wide != WidthWide {
					return fmt.Errorf("%w: spacer tail (%d,%d) without wide head", ErrCorrupt, y, x)
				}
			case WidthSpacerHead:
				if x != cols-1 {
					return fmt.Errorf("%w: spacer head (%d,%d) not in last column", ErrCorrupt, y, x)
				}
			}
		}
	}

	for i := int(p.size.Rows) * cols; i < len(p.cells); i++ {
		if p.cells[i] != (Cell{}) {
			return fmt.Errorf("%w: unused row %d not blank", ErrCorrupt, i/cols)
		}
	}

	for idx := range p.styles.Capacity() {
		if !p.styles.IsLive(idx) {
			continue
		}
		id := style.ID(idx + 1)
		if got, want := p.styles.ValueAt(idx), refs[id]; got != want {
			return fmt.Errorf("%w: style %d has %d refs, %d cells use it", ErrCorrupt, id, got, want)
		}
	}
	if graphemes != p.graphemes.Count() {
		return fmt.Errorf("%w: %d grapheme entries, %d flagged cells", ErrCorrupt, p.graphemes.Count(), graphemes)
	}
	if hyperlinks != p.hyperlinks.Count() {
		return fmt.Errorf("%w: %d hyperlink entries, %d flagged cells", ErrCorrupt, p.hyperlinks.Count(), hyperlinks)
	}
	if used := uint32(p.arena.usedChunks()); used != chunks {
		return fmt.Errorf("%w: %d arena chunks used, %d referenced", ErrCorrupt, used, chunks)
	}
	return nil
}
