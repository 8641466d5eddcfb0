// Package palette implements PaletteMapper: the three enumerated,
// dense, duplicate-free RGB palettes MakoCode maps pixel samples through,
// keyed by color_channels c in {1,2,3}. Tables are constant, with no dynamic
// palette negotiation exists at this layer.
package palette

import "github.com/justinbass/makocode/makoerr"

// RGB is a single 8-bit-per-channel color.
type RGB struct {
	R, G, B byte
}

var (
	white   = RGB{255, 255, 255}
	black   = RGB{0, 0, 0}
	red     = RGB{255, 0, 0}
	green   = RGB{0, 255, 0}
	blue    = RGB{0, 0, 255}
	cyan    = RGB{0, 255, 255}
	magenta = RGB{255, 0, 255}
	yellow  = RGB{255, 255, 0}
)

// tables[c-1] is the dense palette for color_channels c.
var tables = [3][]RGB{
	{black, white},                                          // c=1: grayscale
	{white, cyan, magenta, yellow},                           // c=2: CMYW
	{white, black, red, green, blue, cyan, magenta, yellow},  // c=3: 8-color
}

// BitsPerPixel returns bits/pixel for color_channels c.
func BitsPerPixel(c int) int {
	return c
}

// SamplesPerPixel is always 1 for every MakoCode palette: one palette
// index per pixel.
func SamplesPerPixel(c int) int { return 1 }

// Size returns the palette entry count for color_channels c: 1<<BitsPerPixel(c).
func Size(c int) int {
	return 1 << uint(BitsPerPixel(c))
}

// Valid reports whether c is a supported color_channels value.
func Valid(c int) bool {
	return c >= 1 && c <= 3
}

// Table returns the dense palette for color_channels c, or an error if c
// is unsupported.
func Table(c int) ([]RGB, error) {
	if !Valid(c) {
		return nil, makoerr.New(makoerr.UnsupportedConfig, "palette.Table", "color_channels must be 1, 2, or 3")
	}
	return tables[c-1], nil
}

// Encode looks up the RGB for palette index idx under color_channels c.
func Encode(c int, idx int) (RGB, error) {
	t, err := Table(c)
	if err != nil {
		return RGB{}, err
	}
	if idx < 0 || idx >= len(t) {
		return RGB{}, makoerr.New(makoerr.PaletteMismatch, "palette.Encode", "index out of range for palette")
	}
	return t[idx], nil
}

// Decode performs a linear search for rgb in the color_channels c palette,
// returning the first matching index. Decoders must reject any pixel
// whose RGB is not an exact palette entry; tolerances are a
// scan-preprocessing concern, never handled here.
func Decode(c int, rgb RGB) (int, error) {
	t, err := Table(c)
	if err != nil {
		return 0, err
	}
	for i, entry := range t {
		if entry == rgb {
			return i, nil
		}
	}
	return 0, makoerr.New(makoerr.PaletteMismatch, "palette.Decode", "pixel RGB is not an exact palette entry")
}

// FooterColors returns (background, text) for the footer stripe under
// color_channels c.
func FooterColors(c int) (background, text RGB, err error) {
	switch c {
	case 1:
		return white, black, nil
	case 2:
		return white, cyan, nil
	case 3:
		return white, black, nil
	default:
		return RGB{}, RGB{}, makoerr.New(makoerr.UnsupportedConfig, "palette.FooterColors", "color_channels must be 1, 2, or 3")
	}
}
