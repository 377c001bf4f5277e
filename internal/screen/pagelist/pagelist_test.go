package pagelist

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/dshills/termcore/internal/screen/page"
	"github.com/dshills/termcore/internal/screen/region"
	"github.com/dshills/termcore/internal/screen/style"
)

func testConfig(cols, rows int) Config {
	cfg := DefaultConfig()
	cfg.Cols, cfg.Rows = cols, rows
	return cfg
}

func newList(t *testing.T, cfg Config, opts ...Option) *PageList {
	t.Helper()
	opts = append([]Option{WithLogger(zaptest.NewLogger(t))}, opts...)
	pl, err := New(cfg, opts...)
	require.NoError(t, err)
	return pl
}

// line converts s to cells, marking East Asian wide runes as wide.
func line(s string) []CellContent {
	var out []CellContent
	for _, r := range s {
		if r >= 0x3000 {
			out = append(out,
				CellContent{Codepoint: r, Wide: page.WidthWide},
				CellContent{Wide: page.WidthSpacerTail})
			continue
		}
		out = append(out, CellContent{Codepoint: r})
	}
	return out
}

func screenText(pl *PageList) []string {
	var out []string
	it := pl.Viewport(Pin{node: pl.Head()}, pl.TotalRows())
	for it.Next() {
		out = append(out, it.Row().Text())
	}
	return out
}

func firstText(t *testing.T, it *RowIterator) string {
	t.Helper()
	require.True(t, it.Next())
	return it.Row().Text()
}

func checkPages(t *testing.T, pl *PageList) {
	t.Helper()
	rows, bytes, pages := 0, 0, 0
	for n := pl.Head(); n != nil; n = n.Next() {
		require.NoError(t, n.Page().Verify())
		rows += int(n.Page().Size().Rows)
		bytes += n.Page().MemoryBytes()
		pages++
	}
	assert.Equal(t, pl.TotalRows(), rows)
	assert.Equal(t, pl.TotalBytes(), bytes)
	assert.Equal(t, pl.PageCount(), pages)
}

type countingObserver struct {
	allocated, evicted, grown, reflowed int
}

func (o *countingObserver) PageAllocated(int)           { o.allocated++ }
func (o *countingObserver) PageEvicted(int, int)        { o.evicted++ }
func (o *countingObserver) PageGrown(int, int)          { o.grown++ }
func (o *countingObserver) Reflowed(time.Duration, int) { o.reflowed++ }

func TestNewCreatesActiveArea(t *testing.T) {
	pl := newList(t, testConfig(10, 5))
	assert.Equal(t, 5, pl.TotalRows())
	assert.Equal(t, 1, pl.PageCount())
	assert.Equal(t, 10, pl.Cols())
	assert.True(t, pl.ViewportFollowsActive())
	checkPages(t, pl)
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	tests := []struct {
		name string
		mod  func(*Config)
	}{
		{"one column", func(c *Config) { c.Cols = 1 }},
		{"no rows", func(c *Config) { c.Rows = 0 }},
		{"no rows per page", func(c *Config) { c.RowsPerPage = 0 }},
		{"negative limit", func(c *Config) { c.ScrollbackLimit = -1 }},
		{"bad unit", func(c *Config) { c.LimitUnit = 9 }},
		{"full load", func(c *Config) { c.MaxLoadPercentage = 100 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mod(&cfg)
			_, err := New(cfg)
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

func TestParseLimitUnit(t *testing.T) {
	u, err := ParseLimitUnit("bytes")
	require.NoError(t, err)
	assert.Equal(t, LimitBytes, u)
	assert.Equal(t, "bytes", u.String())

	u, err = ParseLimitUnit("")
	require.NoError(t, err)
	assert.Equal(t, LimitRows, u)

	_, err = ParseLimitUnit("pages")
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestAppendRowWritesContent(t *testing.T) {
	pl := newList(t, testConfig(10, 3))
	red := style.Style{FG: style.Palette(1)}
	content := line("hi")
	content[0].Style = red

	pin, err := pl.AppendRow(content)
	require.NoError(t, err)
	assert.Equal(t, 4, pl.TotalRows())
	assert.Equal(t, red, pl.CellContent(pin, 0).Style)
	assert.Equal(t, 'i', pl.CellContent(pin, 1).Codepoint)

	last, ok := pl.Pin(Point{Tag: PointActive, Y: 2})
	require.True(t, ok)
	assert.Equal(t, pin.Row, last.Row)
	checkPages(t, pl)
}

func TestAppendRowTooWide(t *testing.T) {
	pl := newList(t, testConfig(4, 2))
	_, err := pl.AppendRow(line("abcde"))
	assert.ErrorIs(t, err, ErrOutOfBounds)
	assert.Equal(t, 2, pl.TotalRows())
}

func TestEvictionClampsPins(t *testing.T) {
	cfg := testConfig(10, 24)
	cfg.RowsPerPage = 100
	cfg.ScrollbackLimit = 300
	obs := &countingObserver{}
	pl := newList(t, cfg, WithObserver(obs))

	for i := range 50 {
		_, err := pl.AppendRow(line(fmt.Sprint(i)))
		require.NoError(t, err)
	}
	pinned, ok := pl.Pin(Point{Tag: PointScreen, Y: 10})
	require.True(t, ok)
	tracked := pl.TrackPin(pinned)
	pl.ScrollViewport(Scroll{Kind: ScrollToPin, Pin: pinned})
	require.False(t, pl.ViewportFollowsActive())

	for i := 50; i < 350; i++ {
		_, err := pl.AppendRow(line(fmt.Sprint(i)))
		require.NoError(t, err)
	}

	assert.LessOrEqual(t, pl.TotalRows(), 300)
	assert.Equal(t, 274, pl.TotalRows())
	assert.Equal(t, 3, pl.PageCount())
	assert.Equal(t, 1, obs.evicted)

	assert.Same(t, pl.Head(), tracked.Node())
	assert.Equal(t, 0, tracked.Row)
	vp := pl.ViewportPin()
	assert.Same(t, pl.Head(), vp.Node())
	assert.Equal(t, 0, vp.Row)

	// The first 100 rows were 24 blank rows and lines 0 through 75.
	head := pl.Viewport(pl.ViewportPin(), 1)
	require.True(t, head.Next())
	assert.Equal(t, "76", head.Row().Text())
	checkPages(t, pl)
}

func TestEvictionKeepsActiveArea(t *testing.T) {
	cfg := testConfig(10, 8)
	cfg.RowsPerPage = 4
	cfg.ScrollbackLimit = 1
	pl := newList(t, cfg)
	for i := range 20 {
		_, err := pl.AppendRow(line(fmt.Sprint(i)))
		require.NoError(t, err)
	}
	assert.GreaterOrEqual(t, pl.TotalRows(), 8)
	assert.Less(t, pl.TotalRows()-int(pl.Head().Page().Size().Rows), 8)

	active, ok := pl.Pin(Point{Tag: PointActive, Y: 7})
	require.True(t, ok)
	assert.Equal(t, "19", firstText(t, pl.Viewport(active, 1)))
}

func TestUnlimitedScrollback(t *testing.T) {
	cfg := testConfig(10, 2)
	cfg.RowsPerPage = 4
	cfg.ScrollbackLimit = 0
	pl := newList(t, cfg)
	require.NoError(t, pl.ScrollActive(30))
	assert.Equal(t, 32, pl.TotalRows())
	assert.Equal(t, 8, pl.PageCount())
}

func TestByteLimit(t *testing.T) {
	cfg := testConfig(10, 2)
	cfg.RowsPerPage = 4
	pl := newList(t, cfg)
	pageBytes := pl.Head().Page().MemoryBytes()
	require.NoError(t, pl.SetScrollbackLimit(3*pageBytes, LimitBytes))

	require.NoError(t, pl.ScrollActive(40))
	assert.LessOrEqual(t, pl.TotalBytes(), 3*pageBytes)
	assert.Equal(t, 3, pl.PageCount())
	checkPages(t, pl)
}

func TestSetScrollbackLimitEvictsImmediately(t *testing.T) {
	cfg := testConfig(10, 2)
	cfg.RowsPerPage = 4
	cfg.ScrollbackLimit = 0
	pl := newList(t, cfg)
	require.NoError(t, pl.ScrollActive(30))

	require.NoError(t, pl.SetScrollbackLimit(10, LimitRows))
	assert.LessOrEqual(t, pl.TotalRows(), 10)
	assert.Error(t, pl.SetScrollbackLimit(-5, LimitRows))
}

func TestDropOldest(t *testing.T) {
	cfg := testConfig(10, 2)
	cfg.RowsPerPage = 2
	cfg.ScrollbackLimit = 0
	pl := newList(t, cfg)
	assert.False(t, pl.DropOldest())

	require.NoError(t, pl.ScrollActive(4))
	assert.True(t, pl.DropOldest())
	assert.Equal(t, 4, pl.TotalRows())
}

func TestStalePinAfterEviction(t *testing.T) {
	cfg := testConfig(10, 2)
	cfg.RowsPerPage = 2
	cfg.ScrollbackLimit = 4
	pl := newList(t, cfg)
	old := Pin{node: pl.Head()}

	require.NoError(t, pl.ScrollActive(10))
	assert.False(t, old.Valid())
	assert.ErrorIs(t, pl.Set(old, 0, CellContent{Codepoint: 'x'}), ErrStalePin)
	assert.Equal(t, CellContent{}, pl.CellContent(old, 0))

	_, ok := pl.ScreenY(old)
	assert.False(t, ok)
}

func TestPointRoundTrip(t *testing.T) {
	cfg := testConfig(10, 4)
	cfg.RowsPerPage = 3
	pl := newList(t, cfg)
	require.NoError(t, pl.ScrollActive(6))

	for _, tag := range []PointTag{PointActive, PointViewport, PointScreen} {
		pt := Point{Tag: tag, X: 3, Y: 2}
		pin, ok := pl.Pin(pt)
		require.True(t, ok)
		back, ok := pl.PointOf(pin, tag)
		require.True(t, ok)
		assert.Equal(t, pt, back)
	}

	_, ok := pl.Pin(Point{Tag: PointActive, Y: 4})
	assert.False(t, ok)
	_, ok = pl.Pin(Point{Tag: PointScreen, X: 10})
	assert.False(t, ok)

	top, _ := pl.Pin(Point{Tag: PointScreen})
	_, ok = pl.PointOf(top, PointActive)
	assert.False(t, ok)
}

func TestViewportScroll(t *testing.T) {
	cfg := testConfig(10, 3)
	cfg.RowsPerPage = 4
	pl := newList(t, cfg)
	for i := range 10 {
		_, err := pl.AppendRow(line(fmt.Sprint(i)))
		require.NoError(t, err)
	}

	pl.ScrollViewport(Scroll{Kind: ScrollDelta, Delta: -2})
	assert.False(t, pl.ViewportFollowsActive())
	assert.Equal(t, "5", firstText(t, pl.Viewport(pl.ViewportPin(), 3)))

	// New output does not move a pinned viewport.
	_, err := pl.AppendRow(line("10"))
	require.NoError(t, err)
	assert.Equal(t, "5", firstText(t, pl.Viewport(pl.ViewportPin(), 3)))

	pl.ScrollViewport(Scroll{Kind: ScrollToTop})
	assert.Equal(t, "", firstText(t, pl.Viewport(pl.ViewportPin(), 3)))

	pl.ScrollViewport(Scroll{Kind: ScrollDelta, Delta: 1000})
	assert.True(t, pl.ViewportFollowsActive())
	assert.Equal(t, "8", firstText(t, pl.Viewport(pl.ViewportPin(), 3)))

	pl.ScrollViewport(Scroll{Kind: ScrollDelta, Delta: -1})
	pl.ScrollViewport(Scroll{Kind: ScrollToActive})
	assert.True(t, pl.ViewportFollowsActive())
	assert.Zero(t, pl.TrackedPins())
}

func TestRowIterator(t *testing.T) {
	cfg := testConfig(10, 2)
	cfg.RowsPerPage = 2
	pl := newList(t, cfg)
	for i := range 5 {
		_, err := pl.AppendRow(line(fmt.Sprint(i)))
		require.NoError(t, err)
	}

	start, _ := pl.Pin(Point{Tag: PointScreen, Y: 2})
	it := pl.Viewport(start, 10)
	var got []string
	for it.Next() {
		got = append(got, it.Row().Text())
	}
	assert.Equal(t, []string{"0", "1", "2", "3", "4"}, got)
	assert.False(t, it.Next())

	it.Reset()
	assert.Equal(t, "0", firstText(t, it))
}

func TestSnapshotIsIsolated(t *testing.T) {
	cfg := testConfig(10, 3)
	cfg.RowsPerPage = 2
	pl := newList(t, cfg)
	for _, s := range []string{"alpha", "beta", "gamma"} {
		_, err := pl.AppendRow(line(s))
		require.NoError(t, err)
	}

	snap, err := pl.Snapshot(pl.ViewportPin(), 3)
	require.NoError(t, err)
	assert.Equal(t, 3, snap.Rows())
	assert.Equal(t, 10, snap.Cols())
	assert.Equal(t, 2, snap.Pages())

	require.NoError(t, pl.Set(pl.ViewportPin(), 0, CellContent{Codepoint: 'A'}))
	require.NoError(t, pl.ScrollActive(5))

	assert.Equal(t, "alpha\nbeta\ngamma", snap.Text())
	assert.Equal(t, 'a', snap.Row(0).Content(0).Codepoint)
}

func TestClearRows(t *testing.T) {
	cfg := testConfig(10, 4)
	cfg.RowsPerPage = 2
	pl := newList(t, cfg)
	for i := range 4 {
		_, err := pl.AppendRow(line(fmt.Sprint(i)))
		require.NoError(t, err)
	}
	from, _ := pl.Pin(Point{Tag: PointActive, Y: 1})
	to, _ := pl.Pin(Point{Tag: PointActive, Y: 2})
	require.NoError(t, pl.ClearRows(from, to))
	assert.Equal(t, []string{"", "", "", "", "0", "", "", "3"}, screenText(pl))

	assert.ErrorIs(t, pl.ClearRows(to, from), ErrOutOfBounds)
	checkPages(t, pl)
}

func TestSetRowWrappedMarksContinuation(t *testing.T) {
	pl := newList(t, testConfig(10, 3))
	top, _ := pl.Pin(Point{Tag: PointActive})
	require.NoError(t, pl.SetRowWrapped(top, true))
	next, _ := top.Down(1)
	assert.NotZero(t, next.RowFlags()&page.RowWrapContinuation)

	require.NoError(t, pl.SetRowWrapped(top, false))
	assert.Zero(t, next.RowFlags()&page.RowWrapContinuation)
}

func TestWriteGrowsFullPage(t *testing.T) {
	obs := &countingObserver{}
	pl := newList(t, testConfig(80, 2), WithObserver(obs))
	content := make([]CellContent, 80)
	for i := range content {
		content[i] = CellContent{
			Codepoint: 'x',
			Style:     style.Style{FG: style.RGB(uint8(i), 0, 0)},
		}
	}
	pin, err := pl.AppendRow(content)
	require.NoError(t, err)
	assert.Positive(t, obs.grown)
	assert.Equal(t, 80, pl.Stats().Styles)
	assert.Equal(t, style.RGB(79, 0, 0), pl.CellContent(pin, 79).Style.FG)
	checkPages(t, pl)
}

func TestAppendRowAtomicOnAllocationFailure(t *testing.T) {
	cfg := testConfig(80, 2)
	cfg.RowsPerPage = 4
	size := page.LayoutFor(cfg.capacity()).TotalSize
	budget := region.Budget(int(region.AlignForward(size, region.Align)))
	pl := newList(t, cfg, WithAllocator(budget))

	content := make([]CellContent, 80)
	for i := range content {
		content[i] = CellContent{Codepoint: 'x', Style: style.Style{BG: style.RGB(0, uint8(i), 0)}}
	}
	_, err := pl.AppendRow(content)
	assert.ErrorIs(t, err, page.ErrOutOfMemory)
	assert.Equal(t, 2, pl.TotalRows())
	checkPages(t, pl)

	_, err = pl.AppendRow(line("ok"))
	require.NoError(t, err)
	assert.Equal(t, 3, pl.TotalRows())
}

func TestSetRestoresCellOnAllocationFailure(t *testing.T) {
	cfg := testConfig(80, 2)
	cfg.RowsPerPage = 4
	size := page.LayoutFor(cfg.capacity()).TotalSize
	budget := region.Budget(int(region.AlignForward(size, region.Align)))
	pl := newList(t, cfg, WithAllocator(budget))

	pin, ok := pl.Pin(Point{Tag: PointActive})
	require.True(t, ok)
	prev := CellContent{
		Codepoint: 'e',
		Style:     style.Style{Flags: style.Italic},
		Grapheme:  []rune{0x301},
		Hyperlink: 7,
	}
	require.NoError(t, pl.Set(pin, 3, prev))

	marks := make([]rune, 300)
	for i := range marks {
		marks[i] = 0x301
	}
	err := pl.Set(pin, 3, CellContent{
		Codepoint: 'x',
		Style:     style.Style{Flags: style.Bold},
		Grapheme:  marks,
	})
	require.ErrorIs(t, err, region.ErrOutOfMemory)

	assert.Equal(t, prev, pl.CellContent(pin, 3))
	assert.Equal(t, CellContent{}, pl.CellContent(pin, 0))
	checkPages(t, pl)
}

func TestPagesAreRecycled(t *testing.T) {
	cfg := testConfig(10, 2)
	cfg.RowsPerPage = 2
	cfg.ScrollbackLimit = 4
	obs := &countingObserver{}
	pl := newList(t, cfg, WithObserver(obs))
	require.NoError(t, pl.ScrollActive(40))
	assert.Positive(t, obs.evicted)
	assert.Less(t, obs.allocated, 21)
	checkPages(t, pl)
}

func TestGraphemeAndHyperlinkContent(t *testing.T) {
	pl := newList(t, testConfig(10, 2))
	pin, err := pl.AppendRow([]CellContent{
		{Codepoint: 'e', Grapheme: []rune{0x301}, Hyperlink: 3},
		{Codepoint: 'x', Protected: true},
	})
	require.NoError(t, err)

	cc := pl.CellContent(pin, 0)
	assert.Equal(t, "é", cc.Text())
	assert.Equal(t, uint32(3), cc.Hyperlink)
	assert.True(t, pl.CellContent(pin, 1).Protected)

	s := pl.Stats()
	assert.Equal(t, 1, s.Graphemes)
	assert.Equal(t, 1, s.Hyperlinks)

	require.NoError(t, pl.ClearCells(pin, 0, 2))
	assert.Zero(t, pl.Stats().Graphemes)
	assert.Equal(t, page.Cell{}, pl.Get(pin, 0))
}

func TestReflowWrapsAndUnwraps(t *testing.T) {
	obs := &countingObserver{}
	pl := newList(t, testConfig(10, 3), WithObserver(obs))
	_, err := pl.AppendRow(line("abcdefghij"))
	require.NoError(t, err)

	require.NoError(t, pl.Reflow(4))
	assert.Equal(t, 4, pl.Cols())
	assert.Equal(t, []string{"", "", "", "abcd", "efgh", "ij"}, screenText(pl))

	first, _ := pl.Pin(Point{Tag: PointScreen, Y: 3})
	assert.True(t, first.node.page.Row(first.Row).Wrapped())
	last, _ := pl.Pin(Point{Tag: PointScreen, Y: 5})
	assert.True(t, last.node.page.Row(last.Row).Continuation())
	assert.False(t, last.node.page.Row(last.Row).Wrapped())
	checkPages(t, pl)

	require.NoError(t, pl.Reflow(10))
	assert.Equal(t, []string{"", "", "", "abcdefghij"}, screenText(pl))
	assert.Equal(t, 2, obs.reflowed)
	checkPages(t, pl)
}

func TestReflowSameWidthIsNoop(t *testing.T) {
	pl := newList(t, testConfig(10, 3))
	head := pl.Head()
	require.NoError(t, pl.Reflow(10))
	assert.Same(t, head, pl.Head())
}

func TestReflowRejectsInvalidWidth(t *testing.T) {
	pl := newList(t, testConfig(10, 3))
	assert.ErrorIs(t, pl.Reflow(1), ErrInvalidConfig)
	assert.Equal(t, 10, pl.Cols())
}

func TestReflowRoundTrip(t *testing.T) {
	cfg := testConfig(20, 4)
	cfg.RowsPerPage = 3
	pl := newList(t, cfg)

	lines := [][]CellContent{
		line("short"),
		line("ab世界"),
		{{Codepoint: 'e', Grapheme: []rune{0x301}, Style: style.Style{Flags: style.Italic}}},
		{{Codepoint: 'l', Hyperlink: 9}, {Codepoint: 'k', Hyperlink: 9}},
		line("0123456789"),
	}
	for _, l := range lines {
		_, err := pl.AppendRow(l)
		require.NoError(t, err)
	}
	before := screenText(pl)
	rows := pl.TotalRows()

	require.NoError(t, pl.Reflow(10))
	require.NoError(t, pl.Reflow(20))

	assert.Equal(t, before, screenText(pl))
	assert.Equal(t, rows, pl.TotalRows())

	third, _ := pl.Pin(Point{Tag: PointActive, Y: 1})
	assert.Equal(t, "é", pl.CellContent(third, 0).Text())
	assert.Equal(t, style.Italic, pl.CellContent(third, 0).Style.Flags)
	fourth, _ := third.Down(1)
	assert.Equal(t, uint32(9), pl.CellContent(fourth, 1).Hyperlink)
	checkPages(t, pl)
}

func TestReflowWideCharAtEdge(t *testing.T) {
	pl := newList(t, testConfig(5, 1))
	pin, err := pl.AppendRow(line("abc世"))
	require.NoError(t, err)
	require.NoError(t, pl.SetRowWrapped(pin, false))

	require.NoError(t, pl.Reflow(4))
	a, _ := pl.Pin(Point{Tag: PointScreen, Y: 1})
	assert.Equal(t, page.WidthSpacerHead, pl.Get(a, 3).Wide)
	assert.True(t, a.RowFlags()&page.RowWrapped != 0)
	b, _ := a.Down(1)
	assert.Equal(t, '世', pl.Get(b, 0).Codepoint)
	assert.Equal(t, page.WidthWide, pl.Get(b, 0).Wide)
	assert.Equal(t, page.WidthSpacerTail, pl.Get(b, 1).Wide)
	checkPages(t, pl)

	require.NoError(t, pl.Reflow(5))
	assert.Equal(t, []string{"", "abc世"}, screenText(pl))
}

func TestReflowMovesTrackedPins(t *testing.T) {
	pl := newList(t, testConfig(10, 2))
	row, err := pl.AppendRow(line("abcdefghij"))
	require.NoError(t, err)
	row.Col = 7
	h := pl.TrackPin(row)
	row.Col = 9
	end := pl.TrackPin(row)

	require.NoError(t, pl.Reflow(4))
	assert.Equal(t, 'h', pl.CellContent(*h, h.Col).Codepoint)
	assert.Equal(t, 3, h.Col)
	assert.Equal(t, 'j', pl.CellContent(*end, end.Col).Codepoint)
	assert.True(t, h.Valid())
}

func TestReflowKeepsViewportPinned(t *testing.T) {
	cfg := testConfig(10, 2)
	cfg.RowsPerPage = 4
	pl := newList(t, cfg)
	for i := range 6 {
		_, err := pl.AppendRow(line(strings.Repeat(fmt.Sprint(i), 8)))
		require.NoError(t, err)
	}
	pl.ScrollViewport(Scroll{Kind: ScrollDelta, Delta: -3})
	require.Equal(t, "11111111", firstText(t, pl.Viewport(pl.ViewportPin(), 1)))

	require.NoError(t, pl.Reflow(4))
	assert.False(t, pl.ViewportFollowsActive())
	assert.Equal(t, "1111", firstText(t, pl.Viewport(pl.ViewportPin(), 1)))
}

func TestReflowFailureLeavesListUnchanged(t *testing.T) {
	cfg := testConfig(10, 2)
	cfg.RowsPerPage = 4
	size := page.LayoutFor(cfg.capacity()).TotalSize
	budget := region.Budget(int(region.AlignForward(size, region.Align)))
	pl := newList(t, cfg, WithAllocator(budget))
	_, err := pl.AppendRow(line("hello"))
	require.NoError(t, err)

	err = pl.Reflow(5)
	assert.ErrorIs(t, err, page.ErrOutOfMemory)
	assert.Equal(t, 10, pl.Cols())
	assert.Equal(t, []string{"", "", "hello"}, screenText(pl))
	checkPages(t, pl)
}

func TestResize(t *testing.T) {
	cfg := testConfig(10, 3)
	cfg.RowsPerPage = 4
	pl := newList(t, cfg)
	_, err := pl.AppendRow(line("abcdefgh"))
	require.NoError(t, err)

	require.NoError(t, pl.Resize(10, 6))
	assert.Equal(t, 6, pl.Rows())
	assert.GreaterOrEqual(t, pl.TotalRows(), 6)

	require.NoError(t, pl.Resize(4, 2))
	assert.Equal(t, 4, pl.Cols())
	assert.Equal(t, 2, pl.Rows())
	assert.Contains(t, screenText(pl), "efgh")

	assert.ErrorIs(t, pl.Resize(10, 0), ErrInvalidConfig)
	checkPages(t, pl)
}
