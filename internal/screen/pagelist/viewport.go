package pagelist

import "github.com/dshills/termcore/internal/screen/page"

type viewportKind uint8

const (
	viewportActive viewportKind = iota
	viewportTop
	viewportPinned
)

type viewport struct {
	kind viewportKind
	pin  *Pin
}

// ScrollKind selects how ScrollViewport moves the viewport.
type ScrollKind uint8

const (
	// ScrollToActive makes the viewport follow the active area.
	ScrollToActive ScrollKind = iota
	// ScrollToTop shows the oldest retained rows.
	ScrollToTop
	// ScrollDelta moves by Delta rows; negative scrolls back in history.
	ScrollDelta
	// ScrollToPin places Pin at the top of the viewport.
	ScrollToPin
)

// Scroll describes a viewport movement.
type Scroll struct {
	Kind  ScrollKind
	Delta int
	Pin   Pin
}

// ViewportPin returns the first row of the viewport.
func (pl *PageList) ViewportPin() Pin {
	switch pl.viewport.kind {
	case viewportTop:
		return Pin{node: pl.head}
	case viewportPinned:
		p := pl.clamp(*pl.viewport.pin)
		active := pl.activeTop()
		py, _ := pl.ScreenY(p)
		ay, _ := pl.ScreenY(active)
		if py > ay {
			return active
		}
		p.Col = 0
		return p
	default:
		return pl.activeTop()
	}
}

// ViewportFollowsActive reports whether the viewport tracks the active area.
func (pl *PageList) ViewportFollowsActive() bool {
	return pl.viewport.kind == viewportActive
}

// ScrollViewport moves the viewport.
func (pl *PageList) ScrollViewport(s Scroll) {
	switch s.Kind {
	case ScrollToActive:
		pl.setViewport(viewportActive, Pin{})
	case ScrollToTop:
		pl.setViewport(viewportTop, Pin{})
	case ScrollDelta:
		cur, _ := pl.ScreenY(pl.ViewportPin())
		pl.scrollTo(cur + s.Delta)
	case ScrollToPin:
		y, ok := pl.ScreenY(s.Pin)
		if !ok {
			y = 0
		}
		pl.scrollTo(y)
	}
}

func (pl *PageList) scrollTo(y int) {
	active, _ := pl.ScreenY(pl.activeTop())
	y = max(0, min(y, active))
	if y == active {
		pl.setViewport(viewportActive, Pin{})
		return
	}
	p, _ := Pin{node: pl.head}.Down(y)
	pl.setViewport(viewportPinned, p)
}

func (pl *PageList) setViewport(kind viewportKind, p Pin) {
	if kind != viewportPinned {
		if pl.viewport.pin != nil {
			pl.UntrackPin(pl.viewport.pin)
		}
		pl.viewport = viewport{kind: kind}
		return
	}
	if pl.viewport.pin == nil {
		pl.viewport.pin = pl.TrackPin(p)
	} else {
		*pl.viewport.pin = pl.clamp(p)
	}
	pl.viewport.kind = viewportPinned
}

// RowView is one row produced by a RowIterator. Cells alias page memory
// and are valid until the next mutation of the list.
type RowView struct {
	Pin   Pin
	Row   page.Row
	Cells []page.Cell
	Page  *page.Page
}

// Text returns the row's text.
func (r RowView) Text() string {
	return r.Page.RowString(r.Pin.Row)
}

// RowIterator walks at most count rows from a start pin. It must not be
// used across mutations of the list.
type RowIterator struct {
	start Pin
	cur   Pin
	count int
	n     int
	ok    bool
}

// Viewport returns an iterator over count rows starting at p. A pin whose
// page was evicted starts at the first retained row.
func (pl *PageList) Viewport(p Pin, count int) *RowIterator {
	start := pl.clamp(p)
	start.Col = 0
	return &RowIterator{start: start, count: count}
}

// Next advances to the next row.
func (it *RowIterator) Next() bool {
	if it.n >= it.count {
		return false
	}
	if it.n == 0 {
		it.cur, it.ok = it.start, it.start.node != nil
	} else {
		it.cur, it.ok = it.cur.Down(1)
	}
	if !it.ok {
		it.n = it.count
		return false
	}
	it.n++
	return true
}

// Row returns the current row.
func (it *RowIterator) Row() RowView {
	p := it.cur.node.page
	return RowView{
		Pin:   it.cur,
		Row:   p.Row(it.cur.Row),
		Cells: p.RowCells(it.cur.Row),
		Page:  p,
	}
}

// Reset rewinds the iterator to its start.
func (it *RowIterator) Reset() {
	it.n = 0
	it.ok = false
}
