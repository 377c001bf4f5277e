package page

import (
	"fmt"
	"unsafe"

	"github.com/dshills/termcore/internal/screen/offsetmap"
	"github.com/dshills/termcore/internal/screen/region"
	"github.com/dshills/termcore/internal/screen/style"
)

// Page is a fixed-capacity grid of cells with its metadata tables, all in
// one memory region.
type Page struct {
	memory []byte
	layout Layout
	cap    Capacity
	size   Size
	alloc  region.Allocator

	// Views over memory, rebuilt by bind.
	rows       []Row
	cells      []Cell
	styles     offsetmap.Unmanaged[style.Style, uint32]
	graphemes  offsetmap.Unmanaged[uint32, Span]
	hyperlinks offsetmap.Unmanaged[uint32, uint32]
	arena      arena
}

// New allocates an empty page. The page starts with no used rows; see
// AppendRow.
func New(c Capacity, opts ...Option) (*Page, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	o := options{alloc: region.DefaultAllocator}
	for _, opt := range opts {
		opt(&o)
	}

	l := LayoutFor(c)
	mem, err := region.Alloc(o.alloc, l.TotalSize)
	if err != nil {
		return nil, fmt.Errorf("page: allocate %d bytes: %w", l.TotalSize, err)
	}

	p := &Page{
		memory: mem,
		layout: l,
		cap:    c,
		alloc:  o.alloc,
	}
	if err := p.format(); err != nil {
		return nil, err
	}
	return p, nil
}

// format initializes the memory as an empty page.
func (p *Page) format() error {
	l, ml := p.layout, p.cap.maxLoad()
	clear(p.memory)
	p.size = Size{Cols: p.cap.Cols}
	if _, err := offsetmap.Init[style.Style, uint32](p.sub(l.StylesStart, l.Styles.TotalSize), l.Styles.Capacity, ml, style.Context{}); err != nil {
		return err
	}
	if _, err := offsetmap.Init[uint32, Span](p.sub(l.GraphemesStart, l.Graphemes.TotalSize), l.Graphemes.Capacity, ml, cellContext); err != nil {
		return err
	}
	if _, err := offsetmap.Init[uint32, uint32](p.sub(l.HyperlinksStart, l.Hyperlinks.TotalSize), l.Hyperlinks.Capacity, ml, cellContext); err != nil {
		return err
	}
	p.bind()
	return nil
}

// Reset empties the page for reuse, keeping its memory and capacity.
func (p *Page) Reset() {
	invariant(p.format() == nil, "reformat failed")
}

var cellContext = offsetmap.IntContext[uint32]{}

func (p *Page) sub(start, size uintptr) []byte {
	return p.memory[start : start+size : start+size]
}

// bind rebuilds the views after the memory slice changed.
func (p *Page) bind() {
	l := p.layout
	p.rows = unsafe.Slice((*Row)(unsafe.Pointer(&p.memory[l.RowsStart])), p.cap.Rows)
	p.cells = unsafe.Slice((*Cell)(unsafe.Pointer(&p.memory[l.CellsStart])), int(p.cap.Rows)*int(p.cap.Cols))
	p.styles = offsetmap.View[style.Style, uint32](p.sub(l.StylesStart, l.Styles.TotalSize), style.Context{})
	p.graphemes = offsetmap.View[uint32, Span](p.sub(l.GraphemesStart, l.Graphemes.TotalSize), cellContext)
	p.hyperlinks = offsetmap.View[uint32, uint32](p.sub(l.HyperlinksStart, l.Hyperlinks.TotalSize), cellContext)
	p.arena = arena{
		bitmap: unsafe.Slice((*uint64)(unsafe.Pointer(&p.memory[l.BitmapStart])), l.BitmapWords),
		chunks: unsafe.Slice((*rune)(unsafe.Pointer(&p.memory[l.ChunksStart])), l.Chunks*chunkRunes),
	}
}

// Clone returns an independent byte-for-byte copy of the page.
func (p *Page) Clone() (*Page, error) {
	mem, err := region.Clone(p.alloc, p.memory)
	if err != nil {
		return nil, fmt.Errorf("page: clone: %w", err)
	}
	c := &Page{memory: mem, layout: p.layout, cap: p.cap, size: p.size, alloc: p.alloc}
	c.bind()
	return c, nil
}

// Size returns the used extent.
func (p *Page) Size() Size { return p.size }

// Capacity returns the capacity the page was built with.
func (p *Page) Capacity() Capacity { return p.cap }

// Layout returns the page's byte layout.
func (p *Page) Layout() Layout { return p.layout }

// MemoryBytes returns the size of the page allocation.
func (p *Page) MemoryBytes() int { return len(p.memory) }

// StyleCount returns the number of interned styles, including unused ones
// not yet collected.
func (p *Page) StyleCount() int { return int(p.styles.Count()) }

// GraphemeCount returns the number of cells with extra codepoints.
func (p *Page) GraphemeCount() int { return int(p.graphemes.Count()) }

// HyperlinkCount returns the number of cells with a hyperlink.
func (p *Page) HyperlinkCount() int { return int(p.hyperlinks.Count()) }

// GraphemeChunksUsed returns the number of arena chunks in use.
func (p *Page) GraphemeChunksUsed() int { return p.arena.usedChunks() }

// IsFull reports whether every row is in use.
func (p *Page) IsFull() bool { return p.size.Rows == p.cap.Rows }

// AppendRow brings the next blank row into use and returns its index.
func (p *Page) AppendRow() (int, bool) {
	if p.IsFull() {
		return 0, false
	}
	y := int(p.size.Rows)
	p.size.Rows++
	return y, true
}

// PopRow clears the last used row and takes it out of use.
func (p *Page) PopRow() bool {
	if p.size.Rows == 0 {
		return false
	}
	y := int(p.size.Rows) - 1
	invariant(p.ClearRows(y, y+1) == nil, "clear row %d", y)
	p.rows[y] = Row{}
	p.size.Rows--
	return true
}

func (p *Page) index(row, col int) uint32 {
	return uint32(row)*uint32(p.cap.Cols) + uint32(col)
}

func (p *Page) position(idx uint32) (row, col int) {
	return int(idx / uint32(p.cap.Cols)), int(idx % uint32(p.cap.Cols))
}

func (p *Page) checkCell(row, col int) error {
	if row < 0 || row >= int(p.size.Rows) || col < 0 || col >= int(p.cap.Cols) {
		return fmt.Errorf("%w: cell (%d,%d) in %dx%d page", ErrOutOfBounds, row, col, p.size.Rows, p.cap.Cols)
	}
	return nil
}

func (p *Page) checkRows(start, end int) error {
	if start < 0 || end > int(p.size.Rows) || start > end {
		return fmt.Errorf("%w: rows [%d,%d) of %d", ErrOutOfBounds, start, end, p.size.Rows)
	}
	return nil
}

// Get returns the cell at row, col. Out-of-range coordinates panic.
func (p *Page) Get(row, col int) Cell {
	invariant(p.checkCell(row, col) == nil, "get (%d,%d) outside %dx%d", row, col, p.size.Rows, p.cap.Cols)
	return p.cells[p.index(row, col)]
}

// Set replaces the cell at row, col. The cell's style reference moves from
// the old style to the new one. Any grapheme or hyperlink attached to the
// old cell is detached; attach new ones after Set.
func (p *Page) Set(row, col int, c Cell) error {
	if err := p.checkCell(row, col); err != nil {
		return err
	}
	idx := p.index(row, col)
	old := &p.cells[idx]

	if c.Style != style.DefaultID {
		*p.styleRef(c.Style)++
	}
	if old.Style != style.DefaultID {
		p.unrefStyle(old.Style)
	}
	if old.Flags&CellGrapheme != 0 {
		p.removeGrapheme(idx)
	}
	if old.Flags&CellHyperlink != 0 {
		p.hyperlinks.Remove(idx)
	}

	c.Flags &^= tableFlags
	*old = c

	r := &p.rows[row]
	r.Flags |= RowDirty
	if c.Style != style.DefaultID {
		r.Flags |= RowStyled
	}
	return nil
}

// Row returns the header of row y.
func (p *Page) Row(y int) Row {
	invariant(y >= 0 && y < int(p.size.Rows), "row %d outside %d", y, p.size.Rows)
	return p.rows[y]
}

// SetRowFlags sets (on) or clears the given flags of row y.
func (p *Page) SetRowFlags(y int, f RowFlags, on bool) {
	invariant(y >= 0 && y < int(p.size.Rows), "row %d outside %d", y, p.size.Rows)
	if on {
		p.rows[y].Flags |= f
	} else {
		p.rows[y].Flags &^= f
	}
}

// RowCells returns the cells of row y. The slice aliases page memory and
// must not be modified or retained across mutations.
func (p *Page) RowCells(y int) []Cell {
	invariant(y >= 0 && y < int(p.size.Rows), "row %d outside %d", y, p.size.Rows)
	start := y * int(p.cap.Cols)
	return p.cells[start : start+int(p.cap.Cols) : start+int(p.cap.Cols)]
}

func invariant(cond bool, format string, args ...any) {
	if !cond {
		panic("page: " + fmt.Sprintf(format, args...))
	}
}
