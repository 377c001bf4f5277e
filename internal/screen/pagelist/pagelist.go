package pagelist

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/dshills/termcore/internal/screen/page"
	"github.com/dshills/termcore/internal/screen/region"
)

// PageList is the screen plus scrollback as a chain of pages.
type PageList struct {
	cfg  Config
	cap  page.Capacity
	opts options
	log  *zap.Logger

	head, tail *Node
	pages      int
	totalRows  int
	totalBytes int
	serial     uint64

	tracked  map[*Pin]struct{}
	viewport viewport
	pool     *pagePool
}

// New creates a list holding a blank active area.
func New(cfg Config, opts ...Option) (*PageList, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	o := options{
		logger:   zap.NewNop(),
		observer: nopObserver{},
		alloc:    region.DefaultAllocator,
	}
	for _, opt := range opts {
		opt(&o)
	}

	pl := &PageList{
		cfg:     cfg,
		cap:     cfg.capacity(),
		opts:    o,
		log:     o.logger.Named("pagelist"),
		tracked: make(map[*Pin]struct{}),
	}
	pl.pool = newPagePool(pl.cap)
	for range cfg.Rows {
		if _, err := pl.grow(); err != nil {
			return nil, err
		}
	}
	pl.log.Debug("created",
		zap.Int("cols", cfg.Cols),
		zap.Int("rows", cfg.Rows),
		zap.Int("rows_per_page", cfg.RowsPerPage),
		zap.Int("limit", cfg.ScrollbackLimit),
		zap.Stringer("unit", cfg.LimitUnit))
	return pl, nil
}

// Config returns the current configuration.
func (pl *PageList) Config() Config { return pl.cfg }

// Cols returns the width of every row.
func (pl *PageList) Cols() int { return pl.cfg.Cols }

// Rows returns the height of the active area.
func (pl *PageList) Rows() int { return pl.cfg.Rows }

// TotalRows returns the number of retained rows, active area included.
func (pl *PageList) TotalRows() int { return pl.totalRows }

// TotalBytes returns the memory of all retained pages.
func (pl *PageList) TotalBytes() int { return pl.totalBytes }

// PageCount returns the number of pages.
func (pl *PageList) PageCount() int { return pl.pages }

// Head returns the oldest node.
func (pl *PageList) Head() *Node { return pl.head }

// Tail returns the newest node.
func (pl *PageList) Tail() *Node { return pl.tail }

// Stats summarizes the list.
type Stats struct {
	Pages      int
	Rows       int
	Bytes      int
	Cols       int
	ActiveRows int
	Styles     int
	Graphemes  int
	Hyperlinks int
	Limit      int
	LimitUnit  LimitUnit
}

// Stats walks every page and returns totals.
func (pl *PageList) Stats() Stats {
	s := Stats{
		Pages:      pl.pages,
		Rows:       pl.totalRows,
		Bytes:      pl.totalBytes,
		Cols:       pl.cfg.Cols,
		ActiveRows: pl.cfg.Rows,
		Limit:      pl.cfg.ScrollbackLimit,
		LimitUnit:  pl.cfg.LimitUnit,
	}
	for n := pl.head; n != nil; n = n.next {
		s.Styles += n.page.StyleCount()
		s.Graphemes += n.page.GraphemeCount()
		s.Hyperlinks += n.page.HyperlinkCount()
	}
	return s
}

// AppendRow adds a row at the bottom, scrolling the active area by one,
// and writes content into it starting at column 0. Rows beyond the limit
// are evicted afterwards. On error the row is not added.
func (pl *PageList) AppendRow(content []CellContent) (Pin, error) {
	if len(content) > pl.cfg.Cols {
		return Pin{}, fmt.Errorf("%w: %d cells in a %d column row", ErrOutOfBounds, len(content), pl.cfg.Cols)
	}
	pin, err := pl.grow()
	if err != nil {
		return Pin{}, err
	}
	for x, cc := range content {
		if err := pl.writeCell(pin.node, pin.Row, x, cc); err != nil {
			pl.popRow()
			return Pin{}, err
		}
	}
	pl.EvictIfOverLimit()
	return pin, nil
}

// ScrollActive appends n blank rows.
func (pl *PageList) ScrollActive(n int) error {
	for range n {
		if _, err := pl.AppendRow(nil); err != nil {
			return err
		}
	}
	return nil
}

// grow brings one more row into use at the tail, linking a new page when
// the tail is full.
func (pl *PageList) grow() (Pin, error) {
	if pl.tail != nil {
		if y, ok := pl.tail.page.AppendRow(); ok {
			pl.totalRows++
			pin := Pin{node: pl.tail, Row: y}
			pl.markContinuation(pin)
			return pin, nil
		}
	}
	n, err := pl.newNode()
	if err != nil {
		return Pin{}, err
	}
	pl.link(n)
	y, _ := n.page.AppendRow()
	pl.totalRows++
	pin := Pin{node: n, Row: y}
	pl.markContinuation(pin)
	return pin, nil
}

func (pl *PageList) markContinuation(pin Pin) {
	if prev, ok := pin.Up(1); ok && prev.RowFlags()&page.RowWrapped != 0 {
		pin.node.page.SetRowFlags(pin.Row, page.RowWrapContinuation, true)
	}
}

// popRow undoes the last grow.
func (pl *PageList) popRow() {
	n := pl.tail
	n.page.PopRow()
	pl.totalRows--
	if n.rows() == 0 && n != pl.head {
		pl.unlink(n)
		pl.pool.put(n.page)
		n.page = nil
	}
}

func (pl *PageList) newNode() (*Node, error) {
	p := pl.pool.get()
	if p == nil {
		var err error
		p, err = page.New(pl.cap, page.WithAllocator(pl.opts.alloc))
		if err != nil {
			return nil, fmt.Errorf("pagelist: new page: %w", err)
		}
		pl.opts.observer.PageAllocated(p.MemoryBytes())
	}
	pl.serial++
	n := &Node{page: p, serial: pl.serial, list: pl}
	pl.log.Debug("page linked", zap.Uint64("serial", n.serial), zap.Int("bytes", p.MemoryBytes()))
	return n, nil
}

func (pl *PageList) link(n *Node) {
	n.prev = pl.tail
	if pl.tail != nil {
		pl.tail.next = n
	} else {
		pl.head = n
	}
	pl.tail = n
	pl.pages++
	pl.totalBytes += n.page.MemoryBytes()
}

func (pl *PageList) unlink(n *Node) {
	if n.prev != nil {
		n.prev.next = n.next
	} else {
		pl.head = n.next
	}
	if n.next != nil {
		n.next.prev = n.prev
	} else {
		pl.tail = n.prev
	}
	pl.pages--
	pl.totalBytes -= n.page.MemoryBytes()
	n.prev, n.next, n.list = nil, nil, nil
}

func (pl *PageList) owns(p Pin) bool {
	return p.node != nil && p.node.list == pl
}

// clamp returns a valid pin for p: pins into evicted pages move to the
// first row of the head, rows and columns are clamped to the page.
func (pl *PageList) clamp(p Pin) Pin {
	if !pl.owns(p) {
		return Pin{node: pl.head}
	}
	p.Row = max(0, min(p.Row, p.node.rows()-1))
	p.Col = max(0, min(p.Col, pl.cfg.Cols-1))
	return p
}

// activeTop returns the first row of the active area.
func (pl *PageList) activeTop() Pin {
	last := Pin{node: pl.tail, Row: pl.tail.rows() - 1}
	top, ok := last.Up(pl.cfg.Rows - 1)
	invariant(ok, "list of %d rows shorter than the active area %d", pl.totalRows, pl.cfg.Rows)
	return top
}

// ScreenY returns the row of p counted from the oldest retained row.
func (pl *PageList) ScreenY(p Pin) (int, bool) {
	if !pl.owns(p) {
		return 0, false
	}
	y := p.Row
	for n := p.node.prev; n != nil; n = n.prev {
		y += n.rows()
	}
	return y, true
}

// Pin resolves a point to a pin.
func (pl *PageList) Pin(pt Point) (Pin, bool) {
	if pt.X < 0 || pt.X >= pl.cfg.Cols || pt.Y < 0 {
		return Pin{}, false
	}
	var top Pin
	switch pt.Tag {
	case PointActive:
		if pt.Y >= pl.cfg.Rows {
			return Pin{}, false
		}
		top = pl.activeTop()
	case PointViewport:
		if pt.Y >= pl.cfg.Rows {
			return Pin{}, false
		}
		top = pl.ViewportPin()
	default:
		top = Pin{node: pl.head}
	}
	p, ok := top.Down(pt.Y)
	if !ok {
		return Pin{}, false
	}
	p.Col = pt.X
	return p, true
}

// PointOf converts p to a point in the given space. It reports false when
// p is stale or above the space's origin.
func (pl *PageList) PointOf(p Pin, tag PointTag) (Point, bool) {
	y, ok := pl.ScreenY(p)
	if !ok {
		return Point{}, false
	}
	switch tag {
	case PointActive:
		top, _ := pl.ScreenY(pl.activeTop())
		y -= top
	case PointViewport:
		top, _ := pl.ScreenY(pl.ViewportPin())
		y -= top
	}
	if y < 0 {
		return Point{}, false
	}
	return Point{Tag: tag, X: p.Col, Y: y}, true
}

// TrackPin registers a copy of p that the list keeps valid across eviction
// and reflow. Untrack it when no longer needed.
func (pl *PageList) TrackPin(p Pin) *Pin {
	tp := new(Pin)
	*tp = pl.clamp(p)
	pl.tracked[tp] = struct{}{}
	return tp
}

// UntrackPin stops maintaining p.
func (pl *PageList) UntrackPin(p *Pin) {
	delete(pl.tracked, p)
}

// TrackedPins returns the number of tracked pins.
func (pl *PageList) TrackedPins() int { return len(pl.tracked) }

func (pl *PageList) checkPin(p Pin) error {
	if !pl.owns(p) || !p.Valid() {
		return ErrStalePin
	}
	return nil
}

// Set writes cc into column col of the pinned row.
func (pl *PageList) Set(p Pin, col int, cc CellContent) error {
	if err := pl.checkPin(p); err != nil {
		return err
	}
	if col < 0 || col >= pl.cfg.Cols {
		return fmt.Errorf("%w: column %d of %d", ErrOutOfBounds, col, pl.cfg.Cols)
	}
	return pl.writeCell(p.node, p.Row, col, cc)
}

// Get returns the raw cell at column col of the pinned row. Its style ID is
// only meaningful within the pin's page.
func (pl *PageList) Get(p Pin, col int) page.Cell {
	if pl.checkPin(p) != nil || col < 0 || col >= pl.cfg.Cols {
		return page.Cell{}
	}
	return p.node.page.Get(p.Row, col)
}

// CellContent returns the resolved content at column col of the pinned row.
func (pl *PageList) CellContent(p Pin, col int) CellContent {
	if pl.checkPin(p) != nil || col < 0 || col >= pl.cfg.Cols {
		return CellContent{}
	}
	return readContent(p.node.page, p.Row, col)
}

// ClearCells clears columns [start, end) of the pinned row.
func (pl *PageList) ClearCells(p Pin, start, end int) error {
	if err := pl.checkPin(p); err != nil {
		return err
	}
	return p.node.page.ClearCells(p.Row, start, end)
}

// ClearRows clears every row from from through to inclusive.
func (pl *PageList) ClearRows(from, to Pin) error {
	if err := pl.checkPin(from); err != nil {
		return err
	}
	if err := pl.checkPin(to); err != nil {
		return err
	}
	fy, _ := pl.ScreenY(from)
	ty, _ := pl.ScreenY(to)
	if fy > ty {
		return fmt.Errorf("%w: clear range %d..%d is reversed", ErrOutOfBounds, fy, ty)
	}
	for n, row := from.node, from.Row; n != nil; n, row = n.next, 0 {
		end := n.rows()
		if n == to.node {
			end = to.Row + 1
		}
		if row < end {
			if err := n.page.ClearRows(row, end); err != nil {
				return err
			}
		}
		if n == to.node {
			break
		}
	}
	return nil
}

// SetRowWrapped marks whether the pinned row's line continues on the next
// row, keeping the next row's continuation flag in step.
func (pl *PageList) SetRowWrapped(p Pin, wrapped bool) error {
	if err := pl.checkPin(p); err != nil {
		return err
	}
	p.node.page.SetRowFlags(p.Row, page.RowWrapped, wrapped)
	if next, ok := p.Down(1); ok {
		next.node.page.SetRowFlags(next.Row, page.RowWrapContinuation, wrapped)
	}
	return nil
}

func invariant(cond bool, format string, args ...any) {
	if !cond {
		panic("pagelist: " + fmt.Sprintf(format, args...))
	}
}
