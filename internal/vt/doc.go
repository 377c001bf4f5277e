// Package vt drives a PageList from a byte stream.
//
// Parser is a reduced ANSI/VT state machine: it decodes UTF-8, handles C0
// controls, cursor movement, erase, SGR and the OSC title and hyperlink
// sequences, and forwards everything to a Writer. Writer owns the cursor and
// the current pen and turns printed runes into cells: grapheme clusters are
// joined with uniseg, widths come from go-runewidth, and autowrap marks rows
// as wrapped so that PageList.Reflow can rebuild logical lines.
//
// Neither type is safe for concurrent use; terminal.Terminal serializes
// access.
package vt
