package style

// ansi is the standard 16-color palette.
var ansi = [16][3]uint8{
	{0, 0, 0}, {205, 0, 0}, {0, 205, 0}, {205, 205, 0},
	{0, 0, 238}, {205, 0, 205}, {0, 205, 205}, {229, 229, 229},
	{127, 127, 127}, {255, 0, 0}, {0, 255, 0}, {255, 255, 0},
	{92, 92, 255}, {255, 0, 255}, {0, 255, 255}, {255, 255, 255},
}

// PaletteRGB returns the xterm RGB value of a 256-color palette index.
func PaletteRGB(index uint8) (r, g, b uint8) {
	if index < 16 {
		c := ansi[index]
		return c[0], c[1], c[2]
	}

	// 6x6x6 color cube
	if index < 232 {
		i := int(index) - 16
		return uint8((i / 36) * 51), uint8(((i / 6) % 6) * 51), uint8((i % 6) * 51)
	}

	gray := uint8((int(index)-232)*10 + 8)
	return gray, gray, gray
}

// Resolve turns a palette color into the equivalent direct color. Default
// colors resolve to def.
func (c Color) Resolve(def Color) Color {
	switch c.Tag {
	case ColorPalette:
		return RGB(PaletteRGB(c.R))
	case ColorRGB:
		return c
	default:
		if def.Tag == ColorNone {
			return def
		}
		return def.Resolve(Color{})
	}
}
