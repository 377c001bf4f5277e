package pagelist

import "github.com/dshills/termcore/internal/screen/page"

// Node is one page in the list.
type Node struct {
	prev, next *Node
	page       *page.Page
	serial     uint64
	list       *PageList
}

// Page returns the node's page, or nil once the node left its list.
func (n *Node) Page() *page.Page { return n.page }

// Next returns the following node, or nil at the tail.
func (n *Node) Next() *Node { return n.next }

// Prev returns the preceding node, or nil at the head.
func (n *Node) Prev() *Node { return n.prev }

// Serial returns a number unique to the node within its list, increasing
// with creation order.
func (n *Node) Serial() uint64 { return n.serial }

func (n *Node) rows() int {
	if n.page == nil {
		return 0
	}
	return int(n.page.Size().Rows)
}

// Pin identifies a cell by node and offsets within the node's page.
type Pin struct {
	node *Node
	Row  int
	Col  int
}

// Node returns the node the pin refers to.
func (p Pin) Node() *Node { return p.node }

// Valid reports whether the pin still refers to a row in a live page.
func (p Pin) Valid() bool {
	return p.node != nil && p.node.list != nil && p.Row >= 0 && p.Row < p.node.rows()
}

// Down returns the pin n rows below p, crossing pages. It reports false if
// the list ends first.
func (p Pin) Down(n int) (Pin, bool) {
	if n < 0 {
		return p.Up(-n)
	}
	node, row := p.node, p.Row+n
	for node != nil && row >= node.rows() {
		row -= node.rows()
		node = node.next
	}
	if node == nil {
		return Pin{}, false
	}
	return Pin{node: node, Row: row, Col: p.Col}, true
}

// Up returns the pin n rows above p, crossing pages.
func (p Pin) Up(n int) (Pin, bool) {
	if n < 0 {
		return p.Down(-n)
	}
	node, row := p.node, p.Row-n
	for node != nil && row < 0 {
		node = node.prev
		if node != nil {
			row += node.rows()
		}
	}
	if node == nil {
		return Pin{}, false
	}
	return Pin{node: node, Row: row, Col: p.Col}, true
}

// Cells returns the cells of the pinned row. The slice aliases page memory.
func (p Pin) Cells() []page.Cell {
	return p.node.page.RowCells(p.Row)
}

// RowFlags returns the header of the pinned row.
func (p Pin) RowFlags() page.RowFlags {
	return p.node.page.Row(p.Row).Flags
}

// PointTag selects the coordinate space of a Point.
type PointTag uint8

const (
	// PointActive counts rows from the top of the active area.
	PointActive PointTag = iota
	// PointViewport counts rows from the top of the viewport.
	PointViewport
	// PointScreen counts rows from the oldest retained row.
	PointScreen
)

// Point is a coordinate in one of the list's coordinate spaces.
type Point struct {
	Tag PointTag
	X   int
	Y   int
}
