// Package page implements the fixed-capacity building block of the screen:
// a grid of cells plus the per-cell metadata that does not fit in a cell.
//
// A Page is a single allocation laid out as
//
//	[rows][cells][style table][grapheme table][grapheme arena][hyperlink table]
//
// where each table is an offsetmap.Unmanaged view over its own slice of the
// page memory. Every cross reference inside a page is an index into that
// memory (a style ID is a style table slot, grapheme and hyperlink entries
// are keyed by cell index, grapheme spans are chunk offsets into the arena),
// so copying the bytes copies the page.
//
// # Capacity
//
// The page never grows in place. When a table or the grapheme arena is full
// the mutating call returns ErrOutOfMemory and the owner builds a larger page
// with GrowTo, which copies the grid and rehashes every table into the new
// layout, renumbering cell keys when the column count changes.
//
// # Styles
//
// Cells refer to interned styles by ID. The style table value is the number
// of cells using the style. Styles whose count drops to zero stay in the
// table so they can be reused cheaply; CollectStyles removes them and runs
// automatically when InternStyle finds the table full. An ID returned by
// InternStyle is therefore only guaranteed valid until the next InternStyle
// call, unless a cell references it.
//
// A Page is not safe for concurrent use.
package page
