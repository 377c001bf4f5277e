package vt

import "github.com/dshills/termcore/internal/screen/style"

var underlineStyles = [...]style.Underline{
	style.UnderlineNone,
	style.UnderlineSingle,
	style.UnderlineDouble,
	style.UnderlineCurly,
	style.UnderlineDotted,
	style.UnderlineDashed,
}

func (p *Parser) handleSGR() {
	pen := p.w.Pen()
	if len(p.params) == 0 {
		p.w.SetPen(style.Style{})
		return
	}

	for i := 0; i < len(p.params); i++ {
		switch n := p.params[i]; {
		case n == 0:
			pen = style.Style{}
		case n == 1:
			pen.Flags |= style.Bold
		case n == 2:
			pen.Flags |= style.Faint
		case n == 3:
			pen.Flags |= style.Italic
		case n == 4:
			pen.Underline = style.UnderlineSingle
			if p.isSub(i + 1) {
				i++
				if u := p.params[i]; u < len(underlineStyles) {
					pen.Underline = underlineStyles[u]
				}
			}
		case n == 5, n == 6:
			pen.Flags |= style.Blink
		case n == 7:
			pen.Flags |= style.Inverse
		case n == 8:
			pen.Flags |= style.Invisible
		case n == 9:
			pen.Flags |= style.Strikethrough
		case n == 21:
			pen.Underline = style.UnderlineDouble
		case n == 22:
			pen.Flags &^= style.Bold | style.Faint
		case n == 23:
			pen.Flags &^= style.Italic
		case n == 24:
			pen.Underline = style.UnderlineNone
		case n == 25:
			pen.Flags &^= style.Blink
		case n == 27:
			pen.Flags &^= style.Inverse
		case n == 28:
			pen.Flags &^= style.Invisible
		case n == 29:
			pen.Flags &^= style.Strikethrough
		case n >= 30 && n <= 37:
			pen.FG = style.Palette(uint8(n - 30))
		case n == 38:
			pen.FG, i = p.extendedColor(i, pen.FG)
		case n == 39:
			pen.FG = style.Color{}
		case n >= 40 && n <= 47:
			pen.BG = style.Palette(uint8(n - 40))
		case n == 48:
			pen.BG, i = p.extendedColor(i, pen.BG)
		case n == 49:
			pen.BG = style.Color{}
		case n == 53:
			pen.Flags |= style.Overline
		case n == 55:
			pen.Flags &^= style.Overline
		case n == 58:
			pen.UnderlineColor, i = p.extendedColor(i, pen.UnderlineColor)
		case n == 59:
			pen.UnderlineColor = style.Color{}
		case n >= 90 && n <= 97:
			pen.FG = style.Palette(uint8(n - 90 + 8))
		case n >= 100 && n <= 107:
			pen.BG = style.Palette(uint8(n - 100 + 8))
		}
	}
	p.w.SetPen(pen)
}

func (p *Parser) isSub(i int) bool {
	return i < len(p.sub) && p.sub[i]
}

// extendedColor parses the 5;n and 2;r;g;b forms following params[i],
// with either separator. It returns the color, or cur when the form is
// incomplete, and the index of the last consumed parameter.
func (p *Parser) extendedColor(i int, cur style.Color) (style.Color, int) {
	if i+1 >= len(p.params) {
		return cur, i
	}
	switch p.params[i+1] {
	case 5:
		if i+2 < len(p.params) {
			return style.Palette(clampColorValue(p.params[i+2])), i + 2
		}
	case 2:
		if i+4 < len(p.params) {
			return style.RGB(
				clampColorValue(p.params[i+2]),
				clampColorValue(p.params[i+3]),
				clampColorValue(p.params[i+4]),
			), i + 4
		}
	}
	return cur, len(p.params) - 1
}

func clampColorValue(v int) uint8 {
	return uint8(max(0, min(v, 255)))
}
