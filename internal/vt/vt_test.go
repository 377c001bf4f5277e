package vt

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/dshills/termcore/internal/screen/page"
	"github.com/dshills/termcore/internal/screen/pagelist"
	"github.com/dshills/termcore/internal/screen/style"
)

type fixture struct {
	pl *pagelist.PageList
	w  *Writer
	p  *Parser
}

func newFixture(t *testing.T, cols, rows int) *fixture {
	t.Helper()
	cfg := pagelist.DefaultConfig()
	cfg.Cols, cfg.Rows, cfg.RowsPerPage = cols, rows, 8
	pl, err := pagelist.New(cfg, pagelist.WithLogger(zaptest.NewLogger(t)))
	require.NoError(t, err)
	w := NewWriter(pl, nil, zaptest.NewLogger(t))
	return &fixture{pl: pl, w: w, p: NewParser(w)}
}

func (f *fixture) feed(t *testing.T, s string) {
	t.Helper()
	require.NoError(t, f.p.ParseString(s))
}

func (f *fixture) lines() []string {
	var out []string
	it := f.pl.Viewport(f.pl.ViewportPin(), f.pl.Rows())
	for it.Next() {
		out = append(out, it.Row().Text())
	}
	return out
}

func (f *fixture) cell(x, y int) pagelist.CellContent {
	pin, _ := f.pl.Pin(pagelist.Point{Tag: pagelist.PointActive, X: x, Y: y})
	return f.pl.CellContent(pin, x)
}

func (f *fixture) raw(x, y int) page.Cell {
	pin, _ := f.pl.Pin(pagelist.Point{Tag: pagelist.PointActive, X: x, Y: y})
	return f.pl.Get(pin, x)
}

func (f *fixture) verify(t *testing.T) {
	t.Helper()
	for n := f.pl.Head(); n != nil; n = n.Next() {
		require.NoError(t, n.Page().Verify())
	}
}

func TestPrintAndNewlines(t *testing.T) {
	f := newFixture(t, 10, 3)
	f.feed(t, "hello\r\nworld")
	assert.Equal(t, []string{"hello", "world", ""}, f.lines())
	assert.Equal(t, Cursor{X: 5, Y: 1}, f.w.Cursor())
}

func TestScrollAtBottom(t *testing.T) {
	f := newFixture(t, 10, 2)
	f.feed(t, "a\r\nb\r\nc")
	assert.Equal(t, []string{"b", "c"}, f.lines())
	assert.Equal(t, 3, f.pl.TotalRows())
	assert.Equal(t, Cursor{X: 1, Y: 1}, f.w.Cursor())
}

func TestAutowrapMarksRows(t *testing.T) {
	f := newFixture(t, 4, 3)
	f.feed(t, "abcdef")
	assert.Equal(t, []string{"abcd", "ef", ""}, f.lines())

	top, _ := f.pl.Pin(pagelist.Point{Tag: pagelist.PointActive})
	assert.NotZero(t, top.RowFlags()&page.RowWrapped)
	next, _ := top.Down(1)
	assert.NotZero(t, next.RowFlags()&page.RowWrapContinuation)

	require.NoError(t, f.pl.Reflow(8))
	assert.Equal(t, "abcdef", f.lines()[0])
}

func TestPendingWrapWaitsForNextPrint(t *testing.T) {
	f := newFixture(t, 4, 3)
	f.feed(t, "abcd")
	assert.Equal(t, Cursor{X: 3, Y: 0}, f.w.Cursor())
	f.feed(t, "\r\n")
	assert.Equal(t, []string{"abcd", "", ""}, f.lines())
	top, _ := f.pl.Pin(pagelist.Point{Tag: pagelist.PointActive})
	assert.Zero(t, top.RowFlags()&page.RowWrapped)
}

func TestAutowrapDisabled(t *testing.T) {
	f := newFixture(t, 4, 2)
	f.feed(t, "\x1b[?7labcdef")
	assert.Equal(t, []string{"abcf", ""}, f.lines())
	f.feed(t, "\x1b[?7h")
	assert.True(t, f.w.autowrap)
}

func TestWideCharacters(t *testing.T) {
	f := newFixture(t, 5, 2)
	f.feed(t, "ab\u4e16")
	assert.Equal(t, page.WidthWide, f.raw(2, 0).Wide)
	assert.Equal(t, page.WidthSpacerTail, f.raw(3, 0).Wide)
	assert.Equal(t, Cursor{X: 4, Y: 0}, f.w.Cursor())

	f.feed(t, "\u754c")
	assert.Equal(t, page.WidthSpacerHead, f.raw(4, 0).Wide)
	assert.Equal(t, '\u754c', f.raw(0, 1).Codepoint)
	assert.Equal(t, []string{"ab\u4e16", "\u754c"}, f.lines())
	f.verify(t)
}

func TestOverwriteHalfOfWideChar(t *testing.T) {
	f := newFixture(t, 6, 2)
	f.feed(t, "\u4e16\x1b[1;2Hx")
	assert.Equal(t, page.Cell{}, f.raw(0, 0))
	assert.Equal(t, 'x', f.raw(1, 0).Codepoint)
	f.verify(t)

	f.feed(t, "\x1b[2;1H\u754c\x1b[2;1Hy")
	assert.Equal(t, 'y', f.raw(0, 1).Codepoint)
	assert.Equal(t, page.Cell{}, f.raw(1, 1))
	f.verify(t)
}

func TestGraphemeClusters(t *testing.T) {
	f := newFixture(t, 10, 2)
	f.feed(t, "e\u0301x")
	assert.Equal(t, "e\u0301", f.cell(0, 0).Text())
	assert.Equal(t, 'x', f.cell(1, 0).Codepoint)
	assert.Equal(t, "e\u0301x", f.lines()[0])

	f.feed(t, "\r\n\U0001F44D\U0001F3FD")
	assert.Equal(t, []rune{0x1F3FD}, f.cell(0, 1).Grapheme)
	f.verify(t)
}

func TestLoneCombiningMarkIsDropped(t *testing.T) {
	f := newFixture(t, 10, 2)
	f.feed(t, "\u0301a")
	assert.Equal(t, "a", f.lines()[0])
}

func TestInvalidUTF8(t *testing.T) {
	f := newFixture(t, 10, 2)
	require.NoError(t, f.p.Parse([]byte{'a', 0xFF, 'b', 0xE4, 'c'}))
	assert.Equal(t, "a\uFFFDb\uFFFDc", f.lines()[0])
}

func TestUTF8SplitAcrossWrites(t *testing.T) {
	f := newFixture(t, 10, 2)
	b := []byte("\u4e16")
	require.NoError(t, f.p.Parse(b[:1]))
	require.NoError(t, f.p.Parse(b[1:]))
	assert.Equal(t, "\u4e16", f.lines()[0])
}

func TestCursorMovement(t *testing.T) {
	f := newFixture(t, 10, 5)
	tests := []struct {
		seq  string
		want Cursor
	}{
		{"\x1b[3;4H", Cursor{X: 3, Y: 2}},
		{"\x1b[A", Cursor{X: 3, Y: 1}},
		{"\x1b[2B", Cursor{X: 3, Y: 3}},
		{"\x1b[3C", Cursor{X: 6, Y: 3}},
		{"\x1b[10D", Cursor{X: 0, Y: 3}},
		{"\x1b[99;99H", Cursor{X: 9, Y: 4}},
		{"\x1b[H", Cursor{}},
		{"\x1b[5G", Cursor{X: 4}},
		{"\x1b[3d", Cursor{X: 4, Y: 2}},
		{"\x1b[E", Cursor{Y: 3}},
		{"\x1b[2F", Cursor{Y: 1}},
		{"\t", Cursor{X: 8, Y: 1}},
		{"\t", Cursor{X: 9, Y: 1}},
		{"\b", Cursor{X: 8, Y: 1}},
		{"\x1bM", Cursor{X: 8}},
		{"\x1b[;3H", Cursor{X: 2}},
	}
	for _, tt := range tests {
		f.feed(t, tt.seq)
		assert.Equal(t, tt.want, f.w.Cursor(), "after %q", tt.seq)
	}
}

func TestSaveRestoreCursor(t *testing.T) {
	f := newFixture(t, 10, 5)
	f.feed(t, "\x1b[2;3H\x1b[1m\x1b7\x1b[H\x1b[0m\x1b8")
	assert.Equal(t, Cursor{X: 2, Y: 1}, f.w.Cursor())
	assert.Equal(t, style.Bold, f.w.Pen().Flags)

	f.feed(t, "\x1b[4;4H\x1b[s\x1b[H\x1b[u")
	assert.Equal(t, Cursor{X: 3, Y: 3}, f.w.Cursor())
}

func TestEraseLine(t *testing.T) {
	tests := []struct {
		seq  string
		want string
	}{
		{"\x1b[K", "abc"},
		{"\x1b[1K", "    efghij"},
		{"\x1b[2K", ""},
		{"\x1b[2X", "abc  fghij"},
	}
	for _, tt := range tests {
		t.Run(tt.seq, func(t *testing.T) {
			f := newFixture(t, 10, 2)
			f.feed(t, "abcdefghij\x1b[1;4H"+tt.seq)
			assert.Equal(t, tt.want, f.lines()[0])
		})
	}
}

func TestEraseKeepsWidePairsWhole(t *testing.T) {
	f := newFixture(t, 6, 2)
	f.feed(t, "a\u4e16b\x1b[1;3H\x1b[K")
	assert.Equal(t, "a", f.lines()[0])
	f.verify(t)
}

func TestEraseDisplay(t *testing.T) {
	tests := []struct {
		seq  string
		want []string
	}{
		{"\x1b[J", []string{"aaa", "b", ""}},
		{"\x1b[1J", []string{"", "  b", "ccc"}},
		{"\x1b[2J", []string{"", "", ""}},
	}
	for _, tt := range tests {
		t.Run(tt.seq, func(t *testing.T) {
			f := newFixture(t, 3, 3)
			f.feed(t, "aaa\r\nbbb\r\nccc\x1b[2;2H"+tt.seq)
			assert.Equal(t, tt.want, f.lines())
		})
	}
}

func TestSGR(t *testing.T) {
	tests := []struct {
		seq  string
		want style.Style
	}{
		{"\x1b[1;3;4m", style.Style{Flags: style.Bold | style.Italic, Underline: style.UnderlineSingle}},
		{"\x1b[4:3m", style.Style{Underline: style.UnderlineCurly}},
		{"\x1b[21m", style.Style{Underline: style.UnderlineDouble}},
		{"\x1b[31;42m", style.Style{FG: style.Palette(1), BG: style.Palette(2)}},
		{"\x1b[91;107m", style.Style{FG: style.Palette(9), BG: style.Palette(15)}},
		{"\x1b[38;5;200m", style.Style{FG: style.Palette(200)}},
		{"\x1b[48;2;10;20;30m", style.Style{BG: style.RGB(10, 20, 30)}},
		{"\x1b[38:2:1:2:3m", style.Style{FG: style.RGB(1, 2, 3)}},
		{"\x1b[58;5;4m", style.Style{UnderlineColor: style.Palette(4)}},
		{"\x1b[38;2;300;0;5m", style.Style{FG: style.RGB(255, 0, 5)}},
		{"\x1b[2;5;7;8;9;53m", style.Style{Flags: style.Faint | style.Blink | style.Inverse | style.Invisible | style.Strikethrough | style.Overline}},
		{"\x1b[1;31m\x1b[22;39m", style.Style{}},
		{"\x1b[1;31m\x1b[m", style.Style{}},
		{"\x1b[38;5m", style.Style{}},
	}
	for _, tt := range tests {
		t.Run(strings.ReplaceAll(tt.seq, "\x1b", "ESC"), func(t *testing.T) {
			f := newFixture(t, 10, 2)
			f.feed(t, tt.seq+"x")
			assert.Equal(t, tt.want, f.w.Pen())
			assert.Equal(t, tt.want, f.cell(0, 0).Style)
		})
	}
}

func TestHyperlinks(t *testing.T) {
	f := newFixture(t, 20, 2)
	f.feed(t, "\x1b]8;id=a;https://example.com\x1b\\link\x1b]8;;\x07 plain")

	id := f.cell(0, 0).Hyperlink
	require.NotZero(t, id)
	assert.Equal(t, id, f.cell(3, 0).Hyperlink)
	assert.Zero(t, f.cell(5, 0).Hyperlink)

	l, ok := f.w.Links().Lookup(id)
	require.True(t, ok)
	assert.Equal(t, "https://example.com", l.URI)
	assert.Equal(t, "a", l.ID)
	assert.Equal(t, "link plain", f.lines()[0])
}

func TestTitleAndOSCCallbacks(t *testing.T) {
	f := newFixture(t, 10, 2)
	var title string
	var osc []int
	f.p.SetTitleCallback(func(s string) { title = s })
	f.p.SetOSCCallback(func(cmd int, _ string) { osc = append(osc, cmd) })

	f.feed(t, "\x1b]2;my title\x07\x1b]52;c;Zm9v\x1b\\x")
	assert.Equal(t, "my title", title)
	assert.Equal(t, []int{52}, osc)
	assert.Equal(t, "x", f.lines()[0])
}

func TestUnknownSequences(t *testing.T) {
	f := newFixture(t, 10, 2)
	var seqs []string
	f.p.SetUnknownCallback(func(s string) { seqs = append(seqs, s) })
	f.feed(t, "\x1b(B\x1b[5;6Z\x1b[?1049h\x1bPq#0\x1b\\ok")
	assert.Equal(t, []string{"ESC (B", "CSI 5;6Z", "CSI ?1049h"}, seqs)
	assert.Equal(t, "ok", f.lines()[0])
}

func TestResetClearsScreen(t *testing.T) {
	f := newFixture(t, 10, 2)
	f.feed(t, "\x1b[1mabc\x1b]8;;http://x\x07\x1bc")
	assert.Equal(t, []string{"", ""}, f.lines())
	assert.Equal(t, Cursor{}, f.w.Cursor())
	assert.Equal(t, style.Style{}, f.w.Pen())
	assert.Zero(t, f.w.Hyperlink())
}

func TestResizeKeepsCursorOnItsCell(t *testing.T) {
	f := newFixture(t, 8, 3)
	f.feed(t, "abcdefgh")
	f.feed(t, "\x1b[1;6H")
	require.NoError(t, f.w.Resize(4, 3))
	pin := f.w.CursorPin()
	assert.Equal(t, 'f', f.pl.CellContent(pin, pin.Col).Codepoint)
	f.verify(t)
}

func TestScrollUp(t *testing.T) {
	f := newFixture(t, 5, 3)
	f.feed(t, "a\r\nb\r\nc\x1b[2;2H\x1b[2S")
	assert.Equal(t, []string{"c", "", ""}, f.lines())
	assert.Equal(t, Cursor{X: 1, Y: 1}, f.w.Cursor())
}

func TestClosedWriter(t *testing.T) {
	f := newFixture(t, 5, 2)
	f.w.Close()
	assert.Zero(t, f.pl.TrackedPins())
	assert.ErrorIs(t, f.w.Print('x'), ErrClosed)
}
