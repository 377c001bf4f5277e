package pagelist

import (
	"fmt"
	"strings"

	"github.com/dshills/termcore/internal/screen/page"
)

// Snapshot is a window of rows backed by private copies of the pages it
// touches. It is unaffected by later mutations of the list and may be read
// from any goroutine.
type Snapshot struct {
	cols  int
	rows  []SnapshotRow
	pages []*page.Page
}

// SnapshotRow is one row of a Snapshot.
type SnapshotRow struct {
	Page *page.Page
	Y    int
}

// Cells returns the row's cells.
func (r SnapshotRow) Cells() []page.Cell { return r.Page.RowCells(r.Y) }

// Flags returns the row's flags.
func (r SnapshotRow) Flags() page.RowFlags { return r.Page.Row(r.Y).Flags }

// Content returns the resolved content of column x.
func (r SnapshotRow) Content(x int) CellContent { return readContent(r.Page, r.Y, x) }

// Text returns the row's text.
func (r SnapshotRow) Text() string { return r.Page.RowString(r.Y) }

// Snapshot copies count rows starting at p. Each page the window touches
// is cloned once.
func (pl *PageList) Snapshot(p Pin, count int) (*Snapshot, error) {
	s := &Snapshot{cols: pl.cfg.Cols}
	clones := make(map[*Node]*page.Page)
	it := pl.Viewport(p, count)
	for it.Next() {
		pin := it.cur
		c, ok := clones[pin.node]
		if !ok {
			var err error
			if c, err = pin.node.page.Clone(); err != nil {
				return nil, fmt.Errorf("pagelist: snapshot: %w", err)
			}
			clones[pin.node] = c
			s.pages = append(s.pages, c)
		}
		s.rows = append(s.rows, SnapshotRow{Page: c, Y: pin.Row})
	}
	return s, nil
}

// Cols returns the row width.
func (s *Snapshot) Cols() int { return s.cols }

// Rows returns the number of rows.
func (s *Snapshot) Rows() int { return len(s.rows) }

// Row returns row i.
func (s *Snapshot) Row(i int) SnapshotRow { return s.rows[i] }

// Pages returns the number of cloned pages.
func (s *Snapshot) Pages() int { return len(s.pages) }

// Bytes returns the memory held by the cloned pages.
func (s *Snapshot) Bytes() int {
	n := 0
	for _, p := range s.pages {
		n += p.MemoryBytes()
	}
	return n
}

// Text returns the rows' text joined by newlines. Rows that wrap are
// joined without a newline.
func (s *Snapshot) Text() string {
	var b strings.Builder
	for i, r := range s.rows {
		b.WriteString(r.Text())
		if i < len(s.rows)-1 && r.Flags()&page.RowWrapped == 0 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}
