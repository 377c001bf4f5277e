package style

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStyleDefault(t *testing.T) {
	assert.True(t, Style{}.IsDefault())
	assert.False(t, Style{Flags: Bold}.IsDefault())
	assert.False(t, Style{FG: Palette(0)}.IsDefault())
}

func TestStyleHashDistinguishesFields(t *testing.T) {
	styles := []Style{
		{},
		{Flags: Bold},
		{Flags: Italic},
		{FG: Palette(1)},
		{BG: Palette(1)},
		{UnderlineColor: Palette(1)},
		{Underline: UnderlineCurly},
		{FG: RGB(1, 2, 3)},
		{FG: RGB(3, 2, 1)},
	}
	seen := make(map[uint64]int)
	for i, s := range styles {
		h := s.Hash()
		if j, dup := seen[h]; dup {
			t.Fatalf("styles %d and %d hash equal", i, j)
		}
		seen[h] = i
	}

	a := Style{FG: RGB(10, 20, 30), Flags: Bold | Italic}
	b := a
	assert.Equal(t, a.Hash(), b.Hash())
	assert.True(t, Context{}.Eql(a, b))
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in   string
		want Color
	}{
		{"", Color{}},
		{"default", Color{}},
		{"7", Palette(7)},
		{"255", Palette(255)},
		{"#ff8800", RGB(0xff, 0x88, 0x00)},
		{"#FFF", RGB(0xff, 0xff, 0xff)},
		{"rgb:ff/00/80", RGB(0xff, 0x00, 0x80)},
		{"rgb:ffff/0000/8080", RGB(0xff, 0x00, 0x80)},
		{"rgb:f/0/8", RGB(0xff, 0x00, 0x88)},
	}
	for _, tt := range tests {
		got, err := ParseColor(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	for _, bad := range []string{"256", "#12", "rgb:1/2", "rgb:zz/00/00", "blue-ish"} {
		_, err := ParseColor(bad)
		assert.ErrorIs(t, err, ErrInvalidColor, bad)
	}
}

func TestColorString(t *testing.T) {
	assert.Equal(t, "default", Color{}.String())
	assert.Equal(t, "palette(4)", Palette(4).String())
	assert.Equal(t, "#ff8800", RGB(0xff, 0x88, 0).String())
}

func TestBlend(t *testing.T) {
	black, white := RGB(0, 0, 0), RGB(255, 255, 255)
	assert.Equal(t, black, Blend(black, white, 0))
	assert.Equal(t, white, Blend(black, white, 1))

	mid := Blend(black, white, 0.5)
	assert.Equal(t, ColorRGB, mid.Tag)
	assert.Greater(t, mid.R, uint8(50))
	assert.Less(t, mid.R, uint8(200))

	assert.Equal(t, Color{}, Blend(Color{}, white, 0.5))
	assert.Equal(t, RGB(205, 205, 0), Blend(Palette(3), white, 0))
}

func TestPaletteRGB(t *testing.T) {
	tests := []struct {
		index   uint8
		r, g, b uint8
	}{
		{1, 205, 0, 0},
		{15, 255, 255, 255},
		{16, 0, 0, 0},
		{21, 0, 0, 255},
		{196, 255, 0, 0},
		{232, 8, 8, 8},
		{255, 238, 238, 238},
	}
	for _, tt := range tests {
		r, g, b := PaletteRGB(tt.index)
		assert.Equal(t, [3]uint8{tt.r, tt.g, tt.b}, [3]uint8{r, g, b}, "index %d", tt.index)
	}
}

func TestResolve(t *testing.T) {
	assert.Equal(t, RGB(0, 0, 238), Palette(4).Resolve(Color{}))
	assert.Equal(t, RGB(1, 2, 3), RGB(1, 2, 3).Resolve(Color{}))
	assert.Equal(t, Color{}, Color{}.Resolve(Color{}))
	assert.Equal(t, RGB(255, 255, 255), Color{}.Resolve(Palette(15)))
}
