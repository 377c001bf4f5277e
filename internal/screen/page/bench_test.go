package page

import (
	"testing"

	"github.com/dshills/termcore/internal/screen/style"
)

func benchPage(b *testing.B) *Page {
	b.Helper()
	p, err := New(StdCapacity)
	if err != nil {
		b.Fatal(err)
	}
	for !p.IsFull() {
		p.AppendRow()
	}
	return p
}

func BenchmarkSet(b *testing.B) {
	p := benchPage(b)
	id, _ := p.InternStyle(style.Style{Flags: style.Bold})
	cols := int(StdCapacity.Cols)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = p.Set((i/cols)%int(StdCapacity.Rows), i%cols, Cell{Codepoint: 'x', Style: id})
	}
}

func BenchmarkInternStyle(b *testing.B) {
	p := benchPage(b)
	styles := make([]style.Style, 16)
	for i := range styles {
		styles[i] = style.Style{FG: style.Palette(uint8(i))}
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = p.InternStyle(styles[i&15])
	}
}

func BenchmarkClone(b *testing.B) {
	p := benchPage(b)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = p.Clone()
	}
}

func BenchmarkShiftRows(b *testing.B) {
	p := benchPage(b)
	for y := range int(StdCapacity.Rows) {
		_ = p.Set(y, 0, Cell{Codepoint: 'a'})
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = p.ShiftRows(0, int(StdCapacity.Rows), -1)
	}
}
