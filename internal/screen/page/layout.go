package page

import (
	"fmt"
	"unsafe"

	"github.com/dshills/termcore/internal/screen/offsetmap"
	"github.com/dshills/termcore/internal/screen/region"
	"github.com/dshills/termcore/internal/screen/style"
)

const (
	// MaxStyles bounds Capacity.Styles so every style slot fits in a style.ID.
	MaxStyles = 1 << 14

	// chunkRunes is the number of codepoints in one grapheme arena chunk.
	chunkRunes = 4
)

// Capacity sizes every part of a page.
type Capacity struct {
	Cols uint16
	Rows uint16

	// Styles is the number of distinct non-default styles.
	Styles uint16

	// GraphemeBytes is the size of the arena holding extra grapheme
	// codepoints. It also bounds the number of grapheme entries.
	GraphemeBytes uint32

	// Hyperlinks is the number of cells that may carry a hyperlink.
	Hyperlinks uint16

	// MaxLoad is the load factor of every table, in percent. Zero selects
	// offsetmap.DefaultMaxLoadPercentage.
	MaxLoad uint8
}

// StdCapacity is a reasonable default for an 80 column screen.
var StdCapacity = Capacity{
	Cols:          80,
	Rows:          100,
	Styles:        32,
	GraphemeBytes: 1024,
	Hyperlinks:    16,
}

// Validate reports whether c can be laid out.
func (c Capacity) Validate() error {
	switch {
	case c.Cols == 0 || c.Rows == 0:
		return fmt.Errorf("%w: %dx%d grid", ErrInvalidCapacity, c.Cols, c.Rows)
	case c.MaxLoad > 99:
		return fmt.Errorf("%w: max load %d%%", ErrInvalidCapacity, c.MaxLoad)
	case c.Styles > MaxStyles:
		return fmt.Errorf("%w: %d styles > %d", ErrInvalidCapacity, c.Styles, MaxStyles)
	case uint64(c.Cols)*uint64(c.Rows) > 1<<31:
		return fmt.Errorf("%w: %d cells", ErrInvalidCapacity, uint64(c.Cols)*uint64(c.Rows))
	}
	return nil
}

func (c Capacity) maxLoad() uint8 {
	if c.MaxLoad == 0 {
		return offsetmap.DefaultMaxLoadPercentage
	}
	return c.MaxLoad
}

// Adjust returns c with the grid replaced and table capacities doubled
// where grow is set. Used by owners reacting to ErrOutOfMemory.
func (c Capacity) Adjust(cols, rows uint16, grow bool) Capacity {
	c.Cols, c.Rows = cols, rows
	if grow {
		c.Styles = min(max(c.Styles*2, 8), MaxStyles)
		c.GraphemeBytes = max(c.GraphemeBytes*2, chunkRunes*4*64)
		c.Hyperlinks = uint16(min(max(uint32(c.Hyperlinks)*2, 8), 1<<15))
	}
	return c
}

// Layout holds the byte offsets of every part of a page.
type Layout struct {
	RowsStart  uintptr
	CellsStart uintptr

	StylesStart uintptr
	Styles      offsetmap.Layout

	GraphemesStart uintptr
	Graphemes      offsetmap.Layout

	BitmapStart uintptr
	BitmapWords uint32
	ChunksStart uintptr
	Chunks      uint32

	HyperlinksStart uintptr
	Hyperlinks      offsetmap.Layout

	TotalSize uintptr
}

// Span locates a grapheme's extra codepoints in the arena.
type Span struct {
	Offset uint32 // first chunk
	Len    uint32 // codepoints
}

func (s Span) chunks() uint32 {
	return max(1, (s.Len+chunkRunes-1)/chunkRunes)
}

// LayoutFor computes the layout of a page with capacity c.
func LayoutFor(c Capacity) Layout {
	var l Layout
	maxLoad := c.maxLoad()
	cells := uintptr(c.Cols) * uintptr(c.Rows)

	l.RowsStart = 0
	l.CellsStart = region.AlignForward(uintptr(c.Rows)*unsafe.Sizeof(Row{}), unsafe.Alignof(Cell{}))
	end := l.CellsStart + cells*unsafe.Sizeof(Cell{})

	l.Styles = offsetmap.LayoutFor[style.Style, uint32](offsetmap.CapacityForSize(uint32(c.Styles), maxLoad))
	l.StylesStart = region.AlignForward(end, l.Styles.Alignment)
	end = l.StylesStart + l.Styles.TotalSize

	// Every grapheme entry owns at least one chunk, so the chunk count
	// bounds the entry count. Chunks come in whole bitmap words.
	l.BitmapWords = max(1, (c.GraphemeBytes/(chunkRunes*4)+63)/64)
	l.Chunks = l.BitmapWords * 64

	l.Graphemes = offsetmap.LayoutFor[uint32, Span](offsetmap.CapacityForSize(l.Chunks, maxLoad))
	l.GraphemesStart = region.AlignForward(end, l.Graphemes.Alignment)
	end = l.GraphemesStart + l.Graphemes.TotalSize

	l.BitmapStart = region.AlignForward(end, 8)
	l.ChunksStart = l.BitmapStart + uintptr(l.BitmapWords)*8
	end = l.ChunksStart + uintptr(l.Chunks)*chunkRunes*4

	l.Hyperlinks = offsetmap.LayoutFor[uint32, uint32](offsetmap.CapacityForSize(uint32(c.Hyperlinks), maxLoad))
	l.HyperlinksStart = region.AlignForward(end, l.Hyperlinks.Alignment)
	end = l.HyperlinksStart + l.Hyperlinks.TotalSize

	l.TotalSize = region.AlignForward(end, region.Align)
	return l
}
