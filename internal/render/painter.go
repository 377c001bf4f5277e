package render

import (
	"strconv"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/termcore/internal/screen/page"
	"github.com/dshills/termcore/internal/screen/pagelist"
	"github.com/dshills/termcore/internal/screen/style"
)

// Theme holds the colors used for cells with the default color.
type Theme struct {
	Foreground style.Color
	Background style.Color
}

// Cursor is the cursor position in viewport coordinates.
type Cursor struct {
	X, Y    int
	Visible bool
}

// LinkResolver returns the URI of a hyperlink id.
type LinkResolver func(id uint32) (uri string, ok bool)

// Painter draws snapshots into a tcell screen.
type Painter struct {
	screen    tcell.Screen
	theme     Theme
	links     LinkResolver
	trueColor bool
	nearest   map[style.Color]tcell.Color
}

// NewPainter returns a painter for screen. Direct colors are drawn as-is
// when the screen reports more than 256 colors and are mapped to the
// nearest palette entry otherwise.
func NewPainter(screen tcell.Screen, theme Theme) *Painter {
	return &Painter{
		screen:    screen,
		theme:     theme,
		trueColor: screen.Colors() > 256,
		nearest:   make(map[style.Color]tcell.Color),
	}
}

// SetLinkResolver enables OSC 8 output for hyperlinked cells.
func (p *Painter) SetLinkResolver(fn LinkResolver) { p.links = fn }

// SetTrueColor overrides the screen's color capability.
func (p *Painter) SetTrueColor(on bool) { p.trueColor = on }

// Paint draws snap at the top left of the screen and clears everything it
// does not cover. It does not call Show.
func (p *Painter) Paint(snap *pagelist.Snapshot, cur Cursor) {
	width, height := p.screen.Size()
	blank := p.Style(style.Style{})

	for y := range height {
		x := 0
		if y < snap.Rows() {
			x = p.paintRow(snap.Row(y), y, min(width, snap.Cols()))
		}
		for ; x < width; x++ {
			p.screen.SetContent(x, y, ' ', nil, blank)
		}
	}

	if cur.Visible && cur.X < width && cur.Y < height {
		p.screen.ShowCursor(cur.X, cur.Y)
	} else {
		p.screen.HideCursor()
	}
}

// paintRow draws up to width cells of row and returns the first column it
// did not draw.
func (p *Painter) paintRow(row pagelist.SnapshotRow, y, width int) int {
	cells := row.Cells()
	x := 0
	for ; x < width; x++ {
		c := cells[x]
		switch c.Wide {
		case page.WidthSpacerTail:
			// Drawn by the wide cell to its left.
			continue
		case page.WidthSpacerHead:
			p.screen.SetContent(x, y, ' ', nil, p.Style(style.Style{}))
			continue
		}

		cc := row.Content(x)
		st := p.Style(cc.Style)
		if cc.Hyperlink != 0 && p.links != nil {
			if uri, ok := p.links(cc.Hyperlink); ok {
				st = st.Url(uri).UrlId(strconv.FormatUint(uint64(cc.Hyperlink), 10))
			}
		}

		r := cc.Codepoint
		if r == 0 {
			r = ' '
		}
		if c.Wide == page.WidthWide && x == width-1 {
			// The tail is clipped.
			r = ' '
		}
		p.screen.SetContent(x, y, r, cc.Grapheme, st)
	}
	return x
}

// Style converts a cell style to a tcell style.
func (p *Painter) Style(s style.Style) tcell.Style {
	fg := p.Color(s.FG, p.theme.Foreground)
	bg := p.Color(s.BG, p.theme.Background)
	if s.Flags.Has(style.Invisible) {
		fg = bg
	}

	ts := tcell.StyleDefault.Foreground(fg).Background(bg)
	if s.Flags.Has(style.Bold) {
		ts = ts.Bold(true)
	}
	if s.Flags.Has(style.Faint) {
		ts = ts.Dim(true)
	}
	if s.Flags.Has(style.Italic) {
		ts = ts.Italic(true)
	}
	if s.Flags.Has(style.Blink) {
		ts = ts.Blink(true)
	}
	if s.Flags.Has(style.Inverse) {
		ts = ts.Reverse(true)
	}
	if s.Flags.Has(style.Strikethrough) {
		ts = ts.StrikeThrough(true)
	}
	if s.Underline != style.UnderlineNone {
		ts = ts.Underline(underlineStyle(s.Underline))
		if !s.UnderlineColor.IsDefault() {
			ts = ts.Underline(p.Color(s.UnderlineColor, style.Color{}))
		}
	}
	return ts
}

func underlineStyle(u style.Underline) tcell.UnderlineStyle {
	switch u {
	case style.UnderlineDouble:
		return tcell.UnderlineStyleDouble
	case style.UnderlineCurly:
		return tcell.UnderlineStyleCurly
	case style.UnderlineDotted:
		return tcell.UnderlineStyleDotted
	case style.UnderlineDashed:
		return tcell.UnderlineStyleDashed
	default:
		return tcell.UnderlineStyleSolid
	}
}

// Color converts c to a tcell color. The default color becomes def, or the
// screen's default when def is also the default color.
func (p *Painter) Color(c style.Color, def style.Color) tcell.Color {
	switch c.Tag {
	case style.ColorPalette:
		return tcell.PaletteColor(int(c.Index()))
	case style.ColorRGB:
		if p.trueColor {
			return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
		}
		return p.nearestPalette(c)
	default:
		if def.IsDefault() {
			return tcell.ColorDefault
		}
		return p.Color(def, style.Color{})
	}
}

// nearestPalette maps a direct color to the closest of the screen's
// palette colors in Lab space.
func (p *Painter) nearestPalette(c style.Color) tcell.Color {
	if tc, ok := p.nearest[c]; ok {
		return tc
	}
	n := min(max(p.screen.Colors(), 8), 256)
	want := c.Colorful()
	best, bestDist := 0, -1.0
	for i := range n {
		d := want.DistanceLab(style.Palette(uint8(i)).Resolve(style.Color{}).Colorful())
		if bestDist < 0 || d < bestDist {
			best, bestDist = i, d
		}
	}
	tc := tcell.PaletteColor(best)
	p.nearest[c] = tc
	return tc
}
