package vt

import (
	"testing"

	"github.com/dshills/termcore/internal/screen/pagelist"
)

func FuzzParser(f *testing.F) {
	f.Add([]byte("hello\r\nworld"))
	f.Add([]byte("\x1b[31;1mred\x1b[0m \xe4\xb8\x96\xe7\x95\x8c"))
	f.Add([]byte("\x1b]8;;http://x\x07link\x1b]8;;\x07"))
	f.Add([]byte("e\xcc\x81\x1b[2J\x1b[5;5H\x1b[K"))

	f.Fuzz(func(t *testing.T, data []byte) {
		cfg := pagelist.DefaultConfig()
		cfg.Cols, cfg.Rows, cfg.RowsPerPage, cfg.ScrollbackLimit = 7, 4, 4, 16
		pl, err := pagelist.New(cfg)
		if err != nil {
			t.Fatal(err)
		}
		p := NewParser(NewWriter(pl, nil, nil))
		if err := p.Parse(data); err != nil {
			t.Fatalf("parse: %v", err)
		}
		for n := pl.Head(); n != nil; n = n.Next() {
			if err := n.Page().Verify(); err != nil {
				t.Fatalf("verify: %v", err)
			}
		}
		if err := pl.Reflow(5); err != nil {
			t.Fatalf("reflow: %v", err)
		}
	})
}

func BenchmarkParsePlainText(b *testing.B) {
	cfg := pagelist.DefaultConfig()
	pl, err := pagelist.New(cfg)
	if err != nil {
		b.Fatal(err)
	}
	p := NewParser(NewWriter(pl, nil, nil))
	line := []byte("the quick brown fox jumps over the lazy dog 0123456789\r\n")
	b.SetBytes(int64(len(line)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := p.Parse(line); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkParseSGR(b *testing.B) {
	pl, err := pagelist.New(pagelist.DefaultConfig())
	if err != nil {
		b.Fatal(err)
	}
	p := NewParser(NewWriter(pl, nil, nil))
	line := []byte("\x1b[1;38;5;196mred\x1b[0m \x1b[48;2;0;0;255mblue\x1b[0m\r\n")
	b.SetBytes(int64(len(line)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := p.Parse(line); err != nil {
			b.Fatal(err)
		}
	}
}
