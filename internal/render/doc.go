// Package render draws PageList snapshots with tcell.
//
// A Painter converts cells of a pagelist.Snapshot, with their styles,
// graphemes and hyperlinks, into tcell screen content. A View drives a
// Painter from a live terminal: it redraws at most once per frame interval
// after the terminal reports new output, resizes the terminal with the
// screen and encodes keys as xterm input bytes.
package render
