package vt

import (
	"errors"
	"fmt"

	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"
	"go.uber.org/zap"

	"github.com/dshills/termcore/internal/screen/hyperlink"
	"github.com/dshills/termcore/internal/screen/page"
	"github.com/dshills/termcore/internal/screen/pagelist"
	"github.com/dshills/termcore/internal/screen/style"
)

const tabWidth = 8

// maxGraphemeRunes bounds one cluster; further combining runes are dropped.
const maxGraphemeRunes = 32

// Cursor is a position in active area coordinates.
type Cursor struct {
	X, Y int
}

type savedCursor struct {
	cursor Cursor
	pen    style.Style
	link   uint32
}

// lastPrint remembers the previous printed cell so that combining runes can
// join its grapheme cluster.
type lastPrint struct {
	ok    bool
	row   pagelist.Pin
	col   int
	runes []rune
}

// Writer writes text and control operations into a PageList.
type Writer struct {
	pl    *pagelist.PageList
	links *hyperlink.Registry
	log   *zap.Logger

	cur      *pagelist.Pin // tracked; Col is the cursor column
	pending  bool          // a print at the last column deferred its wrap
	autowrap bool
	pen      style.Style
	link     uint32
	saved    savedCursor
	last     lastPrint
}

// NewWriter returns a writer with the cursor at the top left of the active
// area.
func NewWriter(pl *pagelist.PageList, links *hyperlink.Registry, log *zap.Logger) *Writer {
	if links == nil {
		links = hyperlink.NewRegistry()
	}
	if log == nil {
		log = zap.NewNop()
	}
	home, _ := pl.Pin(pagelist.Point{Tag: pagelist.PointActive})
	return &Writer{
		pl:       pl,
		links:    links,
		log:      log.Named("vt"),
		cur:      pl.TrackPin(home),
		autowrap: true,
	}
}

// PageList returns the list the writer drives.
func (w *Writer) PageList() *pagelist.PageList { return w.pl }

// Links returns the hyperlink registry.
func (w *Writer) Links() *hyperlink.Registry { return w.links }

// Pen returns the style applied to printed cells.
func (w *Writer) Pen() style.Style { return w.pen }

// SetPen replaces the current style.
func (w *Writer) SetPen(s style.Style) { w.pen = s }

// Cursor returns the cursor position.
func (w *Writer) Cursor() Cursor {
	if w.cur == nil {
		return Cursor{}
	}
	pt, ok := w.pl.PointOf(*w.cur, pagelist.PointActive)
	if !ok {
		return Cursor{X: w.cur.Col}
	}
	return Cursor{X: pt.X, Y: pt.Y}
}

// CursorPin returns the pin under the cursor, or the zero Pin once the
// writer is closed.
func (w *Writer) CursorPin() pagelist.Pin {
	if w.cur == nil {
		return pagelist.Pin{}
	}
	return *w.cur
}

// SetAutowrap enables or disables wrapping at the right margin.
func (w *Writer) SetAutowrap(on bool) {
	w.autowrap = on
	w.pending = false
}

// Close releases the cursor pin.
func (w *Writer) Close() {
	if w.cur != nil {
		w.pl.UntrackPin(w.cur)
		w.cur = nil
	}
}

// Print writes one rune at the cursor. Runes that extend the previous
// grapheme cluster are attached to the previous cell instead.
func (w *Writer) Print(r rune) error {
	if w.cur == nil {
		return ErrClosed
	}
	if w.last.ok && w.extends(r) {
		return w.appendGrapheme(r)
	}

	width := runewidth.RuneWidth(r)
	if width == 0 {
		// Zero-width rune with nothing to combine with.
		return nil
	}
	cols := w.pl.Cols()

	if w.pending {
		if err := w.wrap(); err != nil {
			return err
		}
	}
	if width == 2 && w.cur.Col == cols-1 {
		if !w.autowrap {
			return nil
		}
		w.unsplit(w.cur.Col)
		if err := w.set(w.cur.Col, pagelist.CellContent{Wide: page.WidthSpacerHead}); err != nil {
			return err
		}
		if err := w.wrap(); err != nil {
			return err
		}
	}

	x := w.cur.Col
	w.unsplit(x)
	cc := pagelist.CellContent{Codepoint: r, Style: w.pen, Hyperlink: w.link}
	if width == 2 {
		w.unsplit(x + 1)
		cc.Wide = page.WidthWide
		if err := w.set(x, cc); err != nil {
			return err
		}
		tail := pagelist.CellContent{Style: w.pen, Wide: page.WidthSpacerTail}
		if err := w.set(x+1, tail); err != nil {
			return err
		}
	} else if err := w.set(x, cc); err != nil {
		return err
	}

	w.last = lastPrint{ok: true, row: *w.cur, col: x, runes: append(w.last.runes[:0], r)}
	if x+width >= cols {
		w.cur.Col = cols - 1
		w.pending = w.autowrap
	} else {
		w.cur.Col = x + width
	}
	return nil
}

// PrintString prints every rune of s.
func (w *Writer) PrintString(s string) error {
	for _, r := range s {
		if err := w.Print(r); err != nil {
			return err
		}
	}
	return nil
}

func (w *Writer) extends(r rune) bool {
	s := string(append(w.last.runes, r))
	return uniseg.GraphemeClusterCount(s) == 1
}

func (w *Writer) appendGrapheme(r rune) error {
	if len(w.last.runes) >= maxGraphemeRunes {
		return nil
	}
	cc := w.pl.CellContent(w.last.row, w.last.col)
	if cc.Codepoint == 0 {
		w.last.ok = false
		return nil
	}
	cc.Grapheme = append(cc.Grapheme, r)
	if err := w.setAt(w.last.row, w.last.col, cc); err != nil {
		return err
	}
	w.last.runes = append(w.last.runes, r)
	return nil
}

// unsplit clears the other half of a wide character at column x so that
// overwriting x never leaves half a pair behind.
func (w *Writer) unsplit(x int) {
	if x < 0 || x >= w.pl.Cols() {
		return
	}
	switch w.pl.Get(*w.cur, x).Wide {
	case page.WidthWide:
		if x+1 < w.pl.Cols() {
			_ = w.pl.ClearCells(*w.cur, x+1, x+2)
		}
	case page.WidthSpacerTail:
		if x > 0 {
			_ = w.pl.ClearCells(*w.cur, x-1, x)
		}
	}
}

func (w *Writer) set(x int, cc pagelist.CellContent) error {
	return w.setAt(*w.cur, x, cc)
}

// setAt writes a cell, dropping the oldest scrollback page once if the
// write runs out of memory.
func (w *Writer) setAt(row pagelist.Pin, x int, cc pagelist.CellContent) error {
	err := w.pl.Set(row, x, cc)
	if errors.Is(err, page.ErrOutOfMemory) && w.pl.DropOldest() {
		w.log.Warn("out of memory, dropped oldest page", zap.Error(err))
		err = w.pl.Set(row, x, cc)
	}
	if err != nil {
		return fmt.Errorf("vt: write cell %d: %w", x, err)
	}
	return nil
}

// wrap marks the cursor row as wrapped and moves to the start of the next
// row.
func (w *Writer) wrap() error {
	if err := w.pl.SetRowWrapped(*w.cur, true); err != nil {
		return err
	}
	w.CarriageReturn()
	return w.LineFeed()
}

// CarriageReturn moves the cursor to column 0.
func (w *Writer) CarriageReturn() {
	w.cur.Col = 0
	w.pending = false
	w.last.ok = false
}

// LineFeed moves the cursor down one row, scrolling the active area at the
// bottom.
func (w *Writer) LineFeed() error {
	w.pending = false
	w.last.ok = false
	if w.Cursor().Y == w.pl.Rows()-1 {
		if err := w.pl.ScrollActive(1); err != nil {
			return fmt.Errorf("vt: scroll: %w", err)
		}
	}
	next, ok := w.cur.Down(1)
	if !ok {
		return nil
	}
	*w.cur = next
	return nil
}

// Backspace moves the cursor left one column.
func (w *Writer) Backspace() {
	w.pending = false
	w.last.ok = false
	if w.cur.Col > 0 {
		w.cur.Col--
	}
}

// Tab moves the cursor to the next tab stop.
func (w *Writer) Tab() {
	w.pending = false
	w.last.ok = false
	w.cur.Col = min((w.cur.Col/tabWidth+1)*tabWidth, w.pl.Cols()-1)
}

// MoveTo moves the cursor to an active area position, clamped to the area.
func (w *Writer) MoveTo(x, y int) {
	x = max(0, min(x, w.pl.Cols()-1))
	y = max(0, min(y, w.pl.Rows()-1))
	p, ok := w.pl.Pin(pagelist.Point{Tag: pagelist.PointActive, X: x, Y: y})
	if !ok {
		return
	}
	*w.cur = p
	w.pending = false
	w.last.ok = false
}

// MoveBy moves the cursor relative to its position.
func (w *Writer) MoveBy(dx, dy int) {
	c := w.Cursor()
	w.MoveTo(c.X+dx, c.Y+dy)
}

// EraseLine clears part of the cursor row: 0 from the cursor to the end,
// 1 from the start through the cursor, 2 the whole row.
func (w *Writer) EraseLine(mode int) error {
	w.pending = false
	w.last.ok = false
	x, cols := w.cur.Col, w.pl.Cols()
	switch mode {
	case 0:
		return w.clear(*w.cur, x, cols)
	case 1:
		return w.clear(*w.cur, 0, x+1)
	case 2:
		return w.clear(*w.cur, 0, cols)
	}
	return nil
}

// EraseChars clears n cells starting at the cursor.
func (w *Writer) EraseChars(n int) error {
	w.last.ok = false
	return w.clear(*w.cur, w.cur.Col, min(w.cur.Col+n, w.pl.Cols()))
}

// clear clears [start, end) of a row, widening the range so no wide
// character is cut in half.
func (w *Writer) clear(row pagelist.Pin, start, end int) error {
	if start > 0 && w.pl.Get(row, start).Wide == page.WidthSpacerTail {
		start--
	}
	if end < w.pl.Cols() && end > 0 && w.pl.Get(row, end-1).Wide == page.WidthWide {
		end++
	}
	if start >= end {
		return nil
	}
	return w.pl.ClearCells(row, start, end)
}

// EraseDisplay clears part of the active area: 0 from the cursor to the
// end, 1 from the start through the cursor, 2 and 3 all of it.
func (w *Writer) EraseDisplay(mode int) error {
	top, _ := w.pl.Pin(pagelist.Point{Tag: pagelist.PointActive})
	bottom, _ := w.pl.Pin(pagelist.Point{Tag: pagelist.PointActive, Y: w.pl.Rows() - 1})
	y := w.Cursor().Y

	switch mode {
	case 0:
		if err := w.EraseLine(0); err != nil {
			return err
		}
		if y < w.pl.Rows()-1 {
			below, _ := w.cur.Down(1)
			return w.pl.ClearRows(below, bottom)
		}
	case 1:
		if err := w.EraseLine(1); err != nil {
			return err
		}
		if y > 0 {
			above, _ := w.cur.Up(1)
			return w.pl.ClearRows(top, above)
		}
	case 2, 3:
		w.pending = false
		w.last.ok = false
		return w.pl.ClearRows(top, bottom)
	}
	return nil
}

// ScrollUp pushes n blank rows into the active area, moving the top rows
// into scrollback. The cursor keeps its active area position.
func (w *Writer) ScrollUp(n int) error {
	c := w.Cursor()
	if err := w.pl.ScrollActive(n); err != nil {
		return err
	}
	w.MoveTo(c.X, c.Y)
	return nil
}

// SaveCursor remembers the cursor position and pen.
func (w *Writer) SaveCursor() {
	w.saved = savedCursor{cursor: w.Cursor(), pen: w.pen, link: w.link}
}

// RestoreCursor returns to the last saved position and pen.
func (w *Writer) RestoreCursor() {
	w.MoveTo(w.saved.cursor.X, w.saved.cursor.Y)
	w.pen, w.link = w.saved.pen, w.saved.link
}

// StartHyperlink applies a link to subsequently printed cells. An empty
// URI ends the current link.
func (w *Writer) StartHyperlink(id, uri string) error {
	if uri == "" {
		w.link = 0
		return nil
	}
	n, err := w.links.Intern(hyperlink.Link{ID: id, URI: uri})
	if err != nil {
		return fmt.Errorf("vt: hyperlink: %w", err)
	}
	w.link = n
	return nil
}

// Hyperlink returns the ID applied to printed cells, 0 if none.
func (w *Writer) Hyperlink() uint32 { return w.link }

// Reset clears the active area and returns the cursor and pen to their
// initial state.
func (w *Writer) Reset() error {
	w.pen, w.link = style.Style{}, 0
	w.autowrap = true
	w.saved = savedCursor{}
	if err := w.EraseDisplay(2); err != nil {
		return err
	}
	w.MoveTo(0, 0)
	return nil
}

// Resize resizes the list and keeps the cursor inside the active area.
// The cursor follows its cell through reflow.
func (w *Writer) Resize(cols, rows int) error {
	if w.cur == nil {
		return ErrClosed
	}
	if err := w.pl.Resize(cols, rows); err != nil {
		return err
	}
	w.pending = false
	w.last.ok = false
	if _, ok := w.pl.PointOf(*w.cur, pagelist.PointActive); !ok {
		w.MoveTo(w.cur.Col, 0)
	}
	return nil
}
