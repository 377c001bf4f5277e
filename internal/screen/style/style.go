package style

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
)

// ID refers to an interned style within one page. ID 0 is the default style
// and is never stored in a style table.
type ID uint16

// DefaultID is the ID of the default style.
const DefaultID ID = 0

// Flags are boolean text attributes.
type Flags uint16

const (
	Bold Flags = 1 << iota
	Italic
	Faint
	Blink
	Inverse
	Invisible
	Strikethrough
	Overline
)

// Has reports whether all of f are set.
func (fl Flags) Has(f Flags) bool {
	return fl&f == f
}

// Underline is the underline rendering style.
type Underline uint8

const (
	UnderlineNone Underline = iota
	UnderlineSingle
	UnderlineDouble
	UnderlineCurly
	UnderlineDotted
	UnderlineDashed
)

// Style is the full attribute set of a cell. The zero value is the default
// style.
type Style struct {
	FG             Color
	BG             Color
	UnderlineColor Color
	Flags          Flags
	Underline      Underline
}

// Default returns the default style.
func Default() Style {
	return Style{}
}

// IsDefault reports whether s carries no attributes.
func (s Style) IsDefault() bool {
	return s == Style{}
}

// pack serializes s into a fixed byte array for hashing.
func (s Style) pack() [16]byte {
	var b [16]byte
	for i, c := range [3]Color{s.FG, s.BG, s.UnderlineColor} {
		b[i*4] = byte(c.Tag)
		b[i*4+1] = c.R
		b[i*4+2] = c.G
		b[i*4+3] = c.B
	}
	binary.LittleEndian.PutUint16(b[12:], uint16(s.Flags))
	b[14] = byte(s.Underline)
	return b
}

// Hash returns a 64-bit hash of the style's attributes.
func (s Style) Hash() uint64 {
	b := s.pack()
	return xxhash.Sum64(b[:])
}

// Context hashes and compares styles for offset hash map tables.
type Context struct{}

// Hash implements offsetmap.Context.
func (Context) Hash(s Style) uint64 { return s.Hash() }

// Eql implements offsetmap.Context.
func (Context) Eql(a, b Style) bool { return a == b }
