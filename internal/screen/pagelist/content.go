package pagelist

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/dshills/termcore/internal/screen/page"
	"github.com/dshills/termcore/internal/screen/style"
)

// maxGrowAttempts bounds how often one cell write may grow its page.
const maxGrowAttempts = 4

// CellContent is a cell with its metadata resolved, independent of any page.
type CellContent struct {
	Codepoint rune
	Style     style.Style
	Wide      page.Width
	Grapheme  []rune
	Hyperlink uint32
	Protected bool
}

// Text returns the codepoint followed by the grapheme's extra codepoints.
func (cc CellContent) Text() string {
	if cc.Codepoint == 0 {
		return ""
	}
	return string(append([]rune{cc.Codepoint}, cc.Grapheme...))
}

func writeContent(p *page.Page, y, x int, cc CellContent) error {
	id, err := p.InternStyle(cc.Style)
	if err != nil {
		return err
	}
	c := page.Cell{Codepoint: cc.Codepoint, Style: id, Wide: cc.Wide}
	if cc.Protected {
		c.Flags |= page.CellProtected
	}
	if err := p.Set(y, x, c); err != nil {
		return err
	}
	if len(cc.Grapheme) > 0 {
		if err := p.AttachGrapheme(y, x, cc.Grapheme); err != nil {
			return err
		}
	}
	if cc.Hyperlink != 0 {
		if err := p.AttachHyperlink(y, x, cc.Hyperlink); err != nil {
			return err
		}
	}
	return nil
}

func readContent(p *page.Page, y, x int) CellContent {
	c := p.Get(y, x)
	cc := CellContent{
		Codepoint: c.Codepoint,
		Style:     p.Style(c.Style),
		Wide:      c.Wide,
		Protected: c.Flags&page.CellProtected != 0,
	}
	if c.Flags&page.CellGrapheme != 0 {
		cc.Grapheme = p.Grapheme(y, x)
	}
	if c.Flags&page.CellHyperlink != 0 {
		cc.Hyperlink, _ = p.Hyperlink(y, x)
	}
	return cc
}

// writeCell writes cc, growing the node's page while its tables are full.
// On failure the cell holds its previous content again.
func (pl *PageList) writeCell(n *Node, y, x int, cc CellContent) error {
	prev := readContent(n.page, y, x)
	err := pl.tryWriteCell(n, y, x, cc)
	if err == nil {
		return nil
	}
	// The previous content fit before the write released its entries.
	if rerr := writeContent(n.page, y, x, prev); rerr != nil {
		pl.log.Error("restore cell", zap.Int("row", y), zap.Int("col", x), zap.Error(rerr))
	}
	return err
}

func (pl *PageList) tryWriteCell(n *Node, y, x int, cc CellContent) error {
	for attempt := 0; ; attempt++ {
		err := writeContent(n.page, y, x, cc)
		if err == nil || !errors.Is(err, page.ErrOutOfMemory) || attempt == maxGrowAttempts {
			return err
		}
		if gerr := pl.growPage(n); gerr != nil {
			return gerr
		}
	}
}

// growPage replaces the node's page with one whose tables are twice as
// large. Pins into the node stay valid: the grid is unchanged.
func (pl *PageList) growPage(n *Node) error {
	old := n.page
	c := old.Capacity()
	np, err := old.GrowTo(c.Adjust(c.Cols, c.Rows, true))
	if err != nil {
		return fmt.Errorf("pagelist: grow page %d: %w", n.serial, err)
	}
	n.page = np
	pl.totalBytes += np.MemoryBytes() - old.MemoryBytes()
	pl.opts.observer.PageGrown(old.MemoryBytes(), np.MemoryBytes())
	pl.log.Debug("page grown",
		zap.Uint64("serial", n.serial),
		zap.Int("old_bytes", old.MemoryBytes()),
		zap.Int("new_bytes", np.MemoryBytes()))
	return nil
}
