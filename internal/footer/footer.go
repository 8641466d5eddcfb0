// Package footer renders MakoCode's footer stripe: a centered,
// human-readable title rendered with a 5x7 bitmap font, scaled by
// font_scale, onto the bottom footer_rows of a page. The glyph table
// follows a fixed-size static-table idiom (akin to common.HuffmanTable's
// fixed Bits/Values arrays) and benoitkugler/pdf's PCF bitmap-font reader
// for the shape of a fixed glyph-bitmap table; the glyph bitmaps
// themselves are authored fresh for this alphabet.
package footer

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"

	"github.com/justinbass/makocode/internal/layout"
	"github.com/justinbass/makocode/internal/palette"
	"github.com/justinbass/makocode/makoerr"
)

// Normalize upper-cases ASCII letters and folds compatibility look-alikes
// (e.g. fullwidth Latin forms) down to their ASCII equivalents via NFKC
// before the alphabet check. It is not a general Unicode normalizer:
// MakoCode titles are an ASCII-only barcode band, not free text, so
// anything NFKC can't fold to plain ASCII is rejected below.
func Normalize(title string) (string, error) {
	folded := norm.NFKC.String(title)

	var b strings.Builder
	for _, r := range folded {
		if r >= 'a' && r <= 'z' {
			r = unicode.ToUpper(r)
		}
		if !strings.ContainsRune(Alphabet, r) {
			return "", makoerr.New(makoerr.UnsupportedConfig, "footer.Normalize", "unsupported title character")
		}
		b.WriteRune(r)
	}
	return b.String(), nil
}

// Render paints the footer stripe of a page's pixel buffer. rows is a
// page.HeightPx-length slice of page.WidthPx-length RGB rows; only the
// last page.FooterRows rows are touched.
func Render(page layout.Page, rows [][]palette.RGB) error {
	if page.FooterRows == 0 {
		return nil
	}

	bg, text, err := palette.FooterColors(page.ColorChannels)
	if err != nil {
		return err
	}

	for y := page.DataHeightPx; y < page.HeightPx; y++ {
		row := rows[y]
		for x := range row {
			row[x] = bg
		}
	}

	f := page.Footer
	title := []rune(page.Title)
	left := (page.WidthPx - f.TitleWidthPx) / 2

	for i, r := range title {
		glyph, ok := glyphs[r]
		if !ok {
			return makoerr.New(makoerr.UnsupportedConfig, "footer.Render", "unsupported title character")
		}
		charLeft := left + i*(f.GlyphWidthPx+f.CharSpacingPx)
		paintGlyph(rows, glyph, f.TextTopRow, charLeft, f.Scale, text)
	}
	return nil
}

func paintGlyph(rows [][]palette.RGB, glyph [7]byte, topRow, leftCol, scale int, color palette.RGB) {
	for gy := 0; gy < 7; gy++ {
		rowBits := glyph[gy]
		for sy := 0; sy < scale; sy++ {
			y := topRow + gy*scale + sy
			if y < 0 || y >= len(rows) {
				continue
			}
			out := rows[y]
			for gx := 0; gx < 5; gx++ {
				if rowBits&(1<<uint(4-gx)) == 0 {
					continue
				}
				for sx := 0; sx < scale; sx++ {
					x := leftCol + gx*scale + sx
					if x < 0 || x >= len(out) {
						continue
					}
					out[x] = color
				}
			}
		}
	}
}
