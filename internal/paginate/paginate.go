// Package paginate implements Pagination: splitting FramedBits into an
// ordered PageSet (with self-describing per-page metadata) on encode,
// and reassembling + validating a supplied PageSet back into FramedBits
// on decode. It is the orchestration layer that drives PageLayout,
// PaletteMapper, FooterRenderer, Diffusion, and PpmCodec together.
package paginate

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/justinbass/makocode/internal/bitio"
	"github.com/justinbass/makocode/internal/diffusion"
	"github.com/justinbass/makocode/internal/footer"
	"github.com/justinbass/makocode/internal/layout"
	"github.com/justinbass/makocode/internal/palette"
	"github.com/justinbass/makocode/internal/paletteregistry"
	"github.com/justinbass/makocode/internal/ppm"
	"github.com/justinbass/makocode/makoerr"
)

// EncodeInput bundles everything Encode needs beyond the frame bits
// themselves.
type EncodeInput struct {
	Layout          layout.Page
	FrameBits       []byte
	FrameBitCount   int
	PayloadBitCount uint64
}

// EncodeOutput is one emitted page plus the filename it should be
// written under.
type EncodeOutput struct {
	Filename string
	Page     ppm.Page
}

// Encode splits in.FrameBits into pages per in.Layout.BitsPerPage,
// applies diffusion for the 8-color palette, renders the footer stripe,
// and stamps every page with its header metadata, including
// MAKOCODE_RUN_ID.
func Encode(in EncodeInput) ([]EncodeOutput, error) {
	bitsPerPage := in.Layout.BitsPerPage
	if bitsPerPage <= 0 {
		return nil, makoerr.New(makoerr.UnsupportedConfig, "paginate.Encode", "bits_per_page must be positive")
	}

	pageCount := 1
	if in.FrameBitCount > 0 {
		pageCount = (in.FrameBitCount + bitsPerPage - 1) / bitsPerPage
		if pageCount < 1 {
			pageCount = 1
		}
	}

	runID := uuid.New().String()
	ts := time.Now().UTC().Format("20060102T150405Z")

	outputs := make([]EncodeOutput, 0, pageCount)
	for i := 0; i < pageCount; i++ {
		offset := i * bitsPerPage
		n := bitsPerPage
		if remaining := in.FrameBitCount - offset; remaining < n {
			if remaining < 0 {
				remaining = 0
			}
			n = remaining
		}

		pageBits := make([]byte, (bitsPerPage+7)/8)
		if n > 0 {
			src := bitio.NewReader(in.FrameBits, in.FrameBitCount)
			// Skip to this page's offset.
			for k := 0; k < offset; k++ {
				src.ReadBit()
			}
			dst := bitio.NewWriter()
			for k := 0; k < n; k++ {
				dst.WriteBit(src.ReadBit())
			}
			copy(pageBits, dst.Bytes())
		}
		// Remaining bits beyond n (short final page) stay zero: pixel
		// index 0.

		if in.Layout.ColorChannels == 3 {
			diffusion.Apply(pageBits)
		}

		page, err := buildPixelPage(in.Layout, pageBits)
		if err != nil {
			return nil, err
		}

		page.Headers = map[string]string{
			"MAKOCODE_COLOR_CHANNELS": fmt.Sprint(in.Layout.ColorChannels),
			"MAKOCODE_BITS":           fmt.Sprint(in.PayloadBitCount),
			"MAKOCODE_PAGE_COUNT":     fmt.Sprint(pageCount),
			"MAKOCODE_PAGE_INDEX":     fmt.Sprint(i + 1),
			"MAKOCODE_PAGE_BITS":      fmt.Sprint(bitsPerPage),
			"MAKOCODE_PAGE_WIDTH_PX":  fmt.Sprint(in.Layout.WidthPx),
			"MAKOCODE_PAGE_HEIGHT_PX": fmt.Sprint(in.Layout.HeightPx),
			"MAKOCODE_RUN_ID":         runID,
		}
		if in.Layout.FooterRows > 0 {
			page.Headers["MAKOCODE_FOOTER_ROWS"] = fmt.Sprint(in.Layout.FooterRows)
			page.Headers["MAKOCODE_TITLE_FONT"] = fmt.Sprint(in.Layout.Footer.Scale)
		}

		outputs = append(outputs, EncodeOutput{
			Filename: filename(ts, i+1, pageCount),
			Page:     page,
		})
	}

	return outputs, nil
}

func filename(ts string, index, count int) string {
	if count <= 1 {
		return ts + ".ppm"
	}
	return fmt.Sprintf("%s_page_%04d.ppm", ts, index)
}

// buildPixelPage maps pageBits through the palette into a full
// width x height pixel grid and renders the footer stripe, returning a
// ppm.Page with Pixels populated (Headers left for the caller to fill).
func buildPixelPage(lay layout.Page, pageBits []byte) (ppm.Page, error) {
	scheme, err := paletteregistry.ForChannels(lay.ColorChannels)
	if err != nil {
		return ppm.Page{}, makoerr.Wrap(makoerr.PaletteMismatch, "paginate.buildPixelPage", err)
	}
	bpp := palette.BitsPerPixel(lay.ColorChannels)

	r := bitio.NewReader(pageBits, len(pageBits)*8)
	rows := make([][]palette.RGB, lay.HeightPx)
	for y := 0; y < lay.DataHeightPx; y++ {
		row := make([]palette.RGB, lay.WidthPx)
		for x := 0; x < lay.WidthPx; x++ {
			idx := int(r.ReadBits(bpp))
			rgb, err := scheme.Encode(idx)
			if err != nil {
				return ppm.Page{}, err
			}
			row[x] = rgb
		}
		rows[y] = row
	}
	for y := lay.DataHeightPx; y < lay.HeightPx; y++ {
		rows[y] = make([]palette.RGB, lay.WidthPx)
	}

	if lay.Title != "" {
		if err := footer.Render(lay, rows); err != nil {
			return ppm.Page{}, err
		}
	}

	pixels := make([]palette.RGB, 0, lay.WidthPx*lay.HeightPx)
	for _, row := range rows {
		pixels = append(pixels, row...)
	}

	return ppm.Page{
		Width:  lay.WidthPx,
		Height: lay.HeightPx,
		Pixels: pixels,
	}, nil
}
