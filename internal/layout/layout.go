// Package layout implements PageLayout: given page dimensions and footer
// configuration, it computes the data-region height, footer geometry,
// and the per-page data-bit capacity.
package layout

import (
	"github.com/justinbass/makocode/internal/palette"
	"github.com/justinbass/makocode/makoerr"
)

// maxPageDimension and maxPagePixels bound the page geometry a caller may
// request, so BitsPerPage (and the pixel buffers paginate.Encode derives
// from it) never grows past what a single allocation should reasonably
// attempt.
const (
	maxPageDimension = 1_000_000
	maxPagePixels    = 50_000_000
)

// Footer holds the geometry of a rendered title band, or the zero value
// (all fields 0) when there is no title.
type Footer struct {
	Scale        int // font_scale s
	GlyphWidthPx int // 5*s
	GlyphHeightPx int // 7*s
	CharSpacingPx int // s
	TitleWidthPx  int // L*glyph_w + (L-1)*char_spacing
	HeightPx      int // glyph_h + 2*s
	TextTopRow    int // data_height_px + s (filled in by Compute)
}

// Page is the immutable per-encode geometry computed from page
// dimensions, color_channels, and an optional title.
type Page struct {
	ColorChannels int
	WidthPx       int
	HeightPx      int
	DataHeightPx  int
	FooterRows    int
	BitsPerPage   int
	Title         string
	Footer        Footer // zero value if Title == ""
}

// Compute validates configuration and derives a Page layout. title must
// already be normalized (uppercased, alphabet-checked) by the caller
// (internal/footer); Compute re-validates the geometry constraints only.
func Compute(colorChannels, widthPx, heightPx int, title string, fontScale int) (Page, error) {
	if !palette.Valid(colorChannels) {
		return Page{}, makoerr.New(makoerr.UnsupportedConfig, "layout.Compute", "color_channels must be 1, 2, or 3")
	}
	if widthPx <= 0 || heightPx <= 0 {
		return Page{}, makoerr.New(makoerr.UnsupportedConfig, "layout.Compute", "page dimensions must be positive")
	}
	if widthPx > maxPageDimension || heightPx > maxPageDimension {
		return Page{}, makoerr.New(makoerr.InputTooLarge, "layout.Compute", "page dimension exceeds maximum")
	}
	if int64(widthPx)*int64(heightPx) > maxPagePixels {
		return Page{}, makoerr.New(makoerr.InputTooLarge, "layout.Compute", "page pixel count exceeds maximum")
	}

	p := Page{
		ColorChannels: colorChannels,
		WidthPx:       widthPx,
		HeightPx:      heightPx,
		Title:         title,
	}

	if title == "" {
		p.DataHeightPx = heightPx
		p.FooterRows = 0
	} else {
		if fontScale < 1 || fontScale > 2048 {
			return Page{}, makoerr.New(makoerr.UnsupportedConfig, "layout.Compute", "title_font out of range [1,2048]")
		}
		f := Footer{
			Scale:         fontScale,
			GlyphWidthPx:  5 * fontScale,
			GlyphHeightPx: 7 * fontScale,
			CharSpacingPx: fontScale,
		}
		l := len([]rune(title))
		f.TitleWidthPx = l*f.GlyphWidthPx + (l-1)*f.CharSpacingPx
		f.HeightPx = f.GlyphHeightPx + 2*fontScale

		if f.TitleWidthPx > widthPx {
			return Page{}, makoerr.New(makoerr.UnsupportedConfig, "layout.Compute", "title does not fit page width")
		}
		if f.HeightPx >= heightPx {
			return Page{}, makoerr.New(makoerr.UnsupportedConfig, "layout.Compute", "footer does not fit page height")
		}

		p.DataHeightPx = heightPx - f.HeightPx
		p.FooterRows = f.HeightPx
		f.TextTopRow = p.DataHeightPx + fontScale
		p.Footer = f
	}

	bitsPerPixel := palette.BitsPerPixel(colorChannels)
	p.BitsPerPage = widthPx * p.DataHeightPx * bitsPerPixel
	if p.BitsPerPage <= 0 {
		return Page{}, makoerr.New(makoerr.UnsupportedConfig, "layout.Compute", "bits_per_page must be positive")
	}

	return p, nil
}
