package page

import "strings"

// RowString returns the text of row y. Empty cells read as spaces, spacer
// cells are skipped and trailing empty cells are trimmed.
func (p *Page) RowString(y int) string {
	cells := p.RowCells(y)
	end := len(cells)
	for end > 0 && !cells[end-1].HasText() {
		end--
	}

	var b strings.Builder
	for x, c := range cells[:end] {
		switch {
		case c.IsSpacer():
			continue
		case !c.HasText():
			b.WriteByte(' ')
			continue
		}
		b.WriteRune(c.Codepoint)
		if c.Flags&CellGrapheme != 0 {
			for _, r := range p.Grapheme(y, x) {
				b.WriteRune(r)
			}
		}
	}
	return b.String()
}
