package pagelist

import (
	"strings"
	"testing"
)

func BenchmarkAppendRow(b *testing.B) {
	cfg := DefaultConfig()
	cfg.ScrollbackLimit = 1000
	pl, err := New(cfg)
	if err != nil {
		b.Fatal(err)
	}
	content := line(strings.Repeat("x", cfg.Cols))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := pl.AppendRow(content); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkReflow(b *testing.B) {
	cfg := DefaultConfig()
	pl, err := New(cfg)
	if err != nil {
		b.Fatal(err)
	}
	content := line(strings.Repeat("y", 60))
	for range 2000 {
		if _, err := pl.AppendRow(content); err != nil {
			b.Fatal(err)
		}
	}
	widths := [2]int{40, 80}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := pl.Reflow(widths[i%2]); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkSnapshotViewport(b *testing.B) {
	pl, err := New(DefaultConfig())
	if err != nil {
		b.Fatal(err)
	}
	for range 200 {
		if _, err := pl.AppendRow(line("snapshot")); err != nil {
			b.Fatal(err)
		}
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := pl.Snapshot(pl.ViewportPin(), pl.Rows()); err != nil {
			b.Fatal(err)
		}
	}
}
