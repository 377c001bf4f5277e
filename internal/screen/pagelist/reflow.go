package pagelist

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/dshills/termcore/internal/screen/page"
)

// Reflow rewraps every logical line to cols columns. Cell content, styles,
// graphemes and hyperlinks are preserved and tracked pins follow their
// cells. On error the list is unchanged.
func (pl *PageList) Reflow(cols int) error {
	if cols == pl.cfg.Cols {
		return nil
	}
	cfg := pl.cfg
	cfg.Cols = cols
	if err := cfg.Validate(); err != nil {
		return err
	}
	start := time.Now()

	pins := make(map[*Node][]*Pin)
	for tp := range pl.tracked {
		pins[tp.node] = append(pins[tp.node], tp)
	}

	r := &reflower{pl: pl, cap: cfg.capacity(), cols: cols, pos: make([]Pin, pl.cfg.Cols)}
	for n := pl.head; n != nil; n = n.next {
		for y := range n.rows() {
			if err := r.copyRow(n, y, pins[n]); err != nil {
				return fmt.Errorf("pagelist: reflow to %d columns: %w", cols, err)
			}
		}
	}
	for r.rows < cfg.Rows {
		if err := r.newRow(false); err != nil {
			return fmt.Errorf("pagelist: reflow to %d columns: %w", cols, err)
		}
	}

	for n := pl.head; n != nil; {
		next := n.next
		n.prev, n.next, n.list, n.page = nil, nil, nil, nil
		n = next
	}
	pl.head, pl.tail = r.head, r.tail
	pl.pages, pl.totalRows, pl.totalBytes = r.pages, r.rows, r.bytes
	pl.cfg, pl.cap = cfg, r.cap
	pl.pool = newPagePool(r.cap)
	for _, m := range r.moves {
		*m.pin = m.to
	}
	pl.EvictIfOverLimit()

	elapsed := time.Since(start)
	pl.opts.observer.Reflowed(elapsed, pl.totalRows)
	pl.log.Debug("reflowed",
		zap.Int("cols", cols),
		zap.Int("rows", pl.totalRows),
		zap.Int("pages", pl.pages),
		zap.Duration("elapsed", elapsed))
	return nil
}

// Resize changes the active area to cols by rows, reflowing when the width
// changes. Blank rows below the last content and the last tracked pin are
// dropped first. Shrinking the height moves the top rows into scrollback;
// growing it appends blank rows.
func (pl *PageList) Resize(cols, rows int) error {
	cfg := pl.cfg
	cfg.Rows = rows
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := pl.Reflow(cols); err != nil {
		return err
	}
	pl.trimBlankTail(rows)
	for pl.totalRows < rows {
		if _, err := pl.grow(); err != nil {
			return err
		}
	}
	pl.cfg.Rows = rows
	pl.EvictIfOverLimit()
	return nil
}

// trimBlankTail pops blank rows off the bottom while more than keep rows
// remain.
func (pl *PageList) trimBlankTail(keep int) {
	for pl.totalRows > keep {
		n := pl.tail
		y := n.rows() - 1
		if y < 0 || n.page.Row(y).Flags&(page.RowWrapped|page.RowWrapContinuation) != 0 {
			return
		}
		for _, c := range n.page.RowCells(y) {
			if !c.IsEmpty() {
				return
			}
		}
		for tp := range pl.tracked {
			if tp.node == n && tp.Row == y {
				return
			}
		}
		pl.popRow()
	}
}

type pinMove struct {
	pin *Pin
	to  Pin
}

// reflower builds the new chain for Reflow.
type reflower struct {
	pl   *PageList
	cap  page.Capacity
	cols int

	head, tail *Node
	pages      int
	rows       int
	bytes      int

	cur  Pin // destination row
	x    int // next destination column
	open bool

	pos   []Pin // destination of each source column of the current row
	moves []pinMove
}

func (r *reflower) at() Pin {
	return Pin{node: r.cur.node, Row: r.cur.Row, Col: min(r.x, r.cols-1)}
}

func (r *reflower) newRow(continuation bool) error {
	if r.tail == nil || r.tail.page.IsFull() {
		p, err := page.New(r.cap, page.WithAllocator(r.pl.opts.alloc))
		if err != nil {
			return err
		}
		r.pl.opts.observer.PageAllocated(p.MemoryBytes())
		r.pl.serial++
		n := &Node{page: p, serial: r.pl.serial, list: r.pl, prev: r.tail}
		if r.tail != nil {
			r.tail.next = n
		} else {
			r.head = n
		}
		r.tail = n
		r.pages++
		r.bytes += p.MemoryBytes()
	}

	prev := r.cur
	y, _ := r.tail.page.AppendRow()
	r.rows++
	r.cur = Pin{node: r.tail, Row: y}
	r.x = 0
	r.open = true
	if continuation {
		prev.node.page.SetRowFlags(prev.Row, page.RowWrapped, true)
		r.cur.node.page.SetRowFlags(y, page.RowWrapContinuation, true)
	}
	return nil
}

// wrap continues the current line on a new row, padding the last column
// with a spacer head when a wide character does not fit.
func (r *reflower) wrap() error {
	if r.x == r.cols-1 {
		if err := r.cur.node.page.Set(r.cur.Row, r.x, page.Cell{Wide: page.WidthSpacerHead}); err != nil {
			return err
		}
	}
	return r.newRow(true)
}

func (r *reflower) copyCell(src *page.Page, y, x int) error {
	for attempt := 0; ; attempt++ {
		dst := r.cur.node
		err := page.CopyCell(dst.page, r.cur.Row, r.x, src, y, x)
		if err == nil || !errors.Is(err, page.ErrOutOfMemory) || attempt == maxGrowAttempts {
			return err
		}
		c := dst.page.Capacity()
		np, gerr := dst.page.GrowTo(c.Adjust(c.Cols, c.Rows, true))
		if gerr != nil {
			return gerr
		}
		r.bytes += np.MemoryBytes() - dst.page.MemoryBytes()
		dst.page = np
	}
}

func (r *reflower) copyRow(n *Node, y int, pins []*Pin) error {
	sp := n.page
	row := sp.Row(y)
	cells := sp.RowCells(y)

	end := len(cells)
	if row.Wrapped() {
		if cells[end-1].Wide == page.WidthSpacerHead {
			end--
		}
	} else {
		for end > 0 && cells[end-1].IsEmpty() {
			end--
		}
	}

	if !r.open {
		if err := r.newRow(false); err != nil {
			return err
		}
	}

	for x := 0; x < end; x++ {
		c := cells[x]
		switch c.Wide {
		case page.WidthSpacerTail, page.WidthSpacerHead:
			// Orphaned spacers are dropped; tails are written with their head.
			r.pos[x] = r.at()

		case page.WidthWide:
			if r.x+2 > r.cols {
				if err := r.wrap(); err != nil {
					return err
				}
			}
			r.pos[x] = r.at()
			if err := r.copyCell(sp, y, x); err != nil {
				return err
			}
			r.x++
			if x+1 < len(cells) && cells[x+1].Wide == page.WidthSpacerTail {
				x++
				r.pos[x] = r.at()
				if err := r.copyCell(sp, y, x); err != nil {
					return err
				}
			} else if err := r.cur.node.page.Set(r.cur.Row, r.x, page.Cell{Wide: page.WidthSpacerTail}); err != nil {
				return err
			}
			r.x++

		default:
			if r.x == r.cols {
				if err := r.wrap(); err != nil {
					return err
				}
			}
			r.pos[x] = r.at()
			if err := r.copyCell(sp, y, x); err != nil {
				return err
			}
			r.x++
		}
	}

	// Trimmed columns keep their distance from the end of the content.
	for x := end; x < len(cells); x++ {
		p := r.at()
		p.Col = min(r.x+x-end, r.cols-1)
		r.pos[x] = p
	}
	for _, tp := range pins {
		if tp.Row == y {
			r.moves = append(r.moves, pinMove{pin: tp, to: r.pos[min(tp.Col, len(cells)-1)]})
		}
	}

	r.open = row.Wrapped()
	return nil
}
