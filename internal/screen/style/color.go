package style

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// ErrInvalidColor is returned by ParseColor for unrecognized input.
var ErrInvalidColor = errors.New("invalid color")

// ColorTag selects how a Color is interpreted.
type ColorTag uint8

const (
	// ColorNone is the terminal's default color.
	ColorNone ColorTag = iota
	// ColorPalette is an index into the 256-color palette, stored in R.
	ColorPalette
	// ColorRGB is a direct 24-bit color.
	ColorRGB
)

// Color is a terminal color. The zero value is the default color.
type Color struct {
	Tag     ColorTag
	R, G, B uint8
}

// Palette returns a palette color.
func Palette(index uint8) Color {
	return Color{Tag: ColorPalette, R: index}
}

// RGB returns a direct color.
func RGB(r, g, b uint8) Color {
	return Color{Tag: ColorRGB, R: r, G: g, B: b}
}

// IsDefault reports whether c is the default color.
func (c Color) IsDefault() bool {
	return c.Tag == ColorNone
}

// Index returns the palette index of a palette color.
func (c Color) Index() uint8 {
	return c.R
}

// String returns a compact description, e.g. "default", "palette(4)", "#ff8800".
func (c Color) String() string {
	switch c.Tag {
	case ColorPalette:
		return fmt.Sprintf("palette(%d)", c.R)
	case ColorRGB:
		return c.Colorful().Hex()
	default:
		return "default"
	}
}

// Colorful converts a direct color for blending and conversion.
// Palette and default colors convert to black.
func (c Color) Colorful() colorful.Color {
	if c.Tag != ColorRGB {
		return colorful.Color{}
	}
	return colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}
}

// FromColorful converts a colorful color to a direct color.
func FromColorful(cc colorful.Color) Color {
	r, g, b := cc.Clamped().RGB255()
	return RGB(r, g, b)
}

// ParseColor parses "default", a palette index ("0".."255"), "#rgb",
// "#rrggbb" or the X11 form "rgb:rr/gg/bb" used by OSC color queries.
func ParseColor(s string) (Color, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	switch {
	case s == "" || s == "default":
		return Color{}, nil

	case strings.HasPrefix(s, "#"):
		if len(s) == 4 {
			s = "#" + strings.Repeat(s[1:2], 2) + strings.Repeat(s[2:3], 2) + strings.Repeat(s[3:4], 2)
		}
		cc, err := colorful.Hex(s)
		if err != nil {
			return Color{}, fmt.Errorf("%w: %q: %v", ErrInvalidColor, s, err)
		}
		return FromColorful(cc), nil

	case strings.HasPrefix(s, "rgb:"):
		parts := strings.Split(s[4:], "/")
		if len(parts) != 3 {
			return Color{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
		}
		var rgb [3]uint8
		for i, p := range parts {
			if len(p) == 0 || len(p) > 4 {
				return Color{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
			}
			v, err := strconv.ParseUint(p, 16, 16)
			if err != nil {
				return Color{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
			}
			// Scale 1-4 hex digits to 8 bits.
			maxV := uint64(1)<<(4*len(p)) - 1
			rgb[i] = uint8(v * 255 / maxV)
		}
		return RGB(rgb[0], rgb[1], rgb[2]), nil
	}

	n, err := strconv.ParseUint(s, 10, 8)
	if err != nil {
		return Color{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}
	return Palette(uint8(n)), nil
}

// Blend mixes a toward b by t in [0, 1] in a perceptual color space.
// Palette colors are resolved first; if either color is the default color
// a is returned unchanged.
func Blend(a, b Color, t float64) Color {
	a, b = a.Resolve(Color{}), b.Resolve(Color{})
	if a.Tag != ColorRGB || b.Tag != ColorRGB {
		return a
	}
	return FromColorful(a.Colorful().BlendLab(b.Colorful(), t))
}
