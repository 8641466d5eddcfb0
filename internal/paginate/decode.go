package paginate

import (
	"strconv"

	"github.com/justinbass/makocode/internal/bitio"
	"github.com/justinbass/makocode/internal/diffusion"
	"github.com/justinbass/makocode/internal/palette"
	"github.com/justinbass/makocode/internal/paletteregistry"
	"github.com/justinbass/makocode/internal/ppm"
	"github.com/justinbass/makocode/makoerr"
)

// DecodeResult is the reassembled FramedBits plus the metadata a caller
// needs to finish unwrapping (frame.Unwrap, then lzw12.Decompress).
type DecodeResult struct {
	FrameBits       []byte
	FrameBitCount   int
	PayloadBitCount uint64
	ColorChannels   int
}

// requiredKeys must be present on every page and agree with the value
// established on the first page processed.
var requiredKeys = []string{
	"MAKOCODE_COLOR_CHANNELS",
	"MAKOCODE_BITS",
	"MAKOCODE_PAGE_COUNT",
	"MAKOCODE_PAGE_BITS",
	"MAKOCODE_PAGE_WIDTH_PX",
	"MAKOCODE_PAGE_HEIGHT_PX",
}

// optionalKeys may be absent from some pages, but once any page sets one
// no later page may disagree with it.
var optionalKeys = []string{
	"MAKOCODE_FOOTER_ROWS",
	"MAKOCODE_TITLE_FONT",
	"MAKOCODE_RUN_ID",
}

// Decode reassembles a supplied set of pages (in the order the caller
// supplies them) back into FramedBits, validating cross-page
// metadata and the page_index ordering rule. It does not itself unwrap
// the frame header or decompress; the caller finishes that with
// internal/frame and internal/lzw12.
func Decode(pages []ppm.Page) (DecodeResult, error) {
	if len(pages) == 0 {
		return DecodeResult{}, makoerr.New(makoerr.MetadataConflict, "paginate.Decode", "no pages supplied")
	}

	established := map[string]string{}
	for _, key := range requiredKeys {
		v, ok := pages[0].Headers[key]
		if !ok {
			return DecodeResult{}, makoerr.New(makoerr.MetadataConflict, "paginate.Decode",
				"missing required header "+key+" on first page")
		}
		established[key] = v
	}
	for _, key := range optionalKeys {
		if v, ok := pages[0].Headers[key]; ok {
			established[key] = v
		}
	}

	suspended := false
	seenIndex := make(map[int]bool, len(pages))

	for i, p := range pages {
		for _, key := range requiredKeys {
			v, ok := p.Headers[key]
			if !ok {
				return DecodeResult{}, makoerr.New(makoerr.MetadataConflict, "paginate.Decode",
					"page missing required header "+key)
			}
			if v != established[key] {
				return DecodeResult{}, makoerr.New(makoerr.MetadataConflict, "paginate.Decode",
					"pages disagree on header "+key)
			}
		}
		for _, key := range optionalKeys {
			v, ok := p.Headers[key]
			if !ok {
				continue
			}
			if prev, ok := established[key]; ok {
				if prev != v {
					return DecodeResult{}, makoerr.New(makoerr.MetadataConflict, "paginate.Decode",
						"pages disagree on header "+key)
				}
			} else {
				established[key] = v
			}
		}

		pageIndexStr, ok := p.Headers["MAKOCODE_PAGE_INDEX"]
		if !ok {
			suspended = true
			continue
		}
		pageIndex, err := strconv.Atoi(pageIndexStr)
		if err != nil {
			return DecodeResult{}, makoerr.New(makoerr.MetadataConflict, "paginate.Decode", "non-numeric MAKOCODE_PAGE_INDEX")
		}
		if !suspended {
			if seenIndex[pageIndex] {
				return DecodeResult{}, makoerr.New(makoerr.MetadataConflict, "paginate.Decode", "duplicate MAKOCODE_PAGE_INDEX")
			}
			seenIndex[pageIndex] = true
			if pageIndex != i+1 {
				return DecodeResult{}, makoerr.New(makoerr.MetadataConflict, "paginate.Decode",
					"pages out of order: MAKOCODE_PAGE_INDEX must match supplied order")
			}
		}
	}

	pageCount, err := strconv.Atoi(established["MAKOCODE_PAGE_COUNT"])
	if err != nil || pageCount < 1 {
		return DecodeResult{}, makoerr.New(makoerr.MetadataConflict, "paginate.Decode", "invalid MAKOCODE_PAGE_COUNT")
	}
	if len(pages) != pageCount {
		return DecodeResult{}, makoerr.New(makoerr.MetadataConflict, "paginate.Decode", "supplied page count does not match MAKOCODE_PAGE_COUNT")
	}

	// When page_index is present on every page it has already been
	// checked against the supplied order above, so pages is the
	// reassembly order as-is. When suspended, the caller's order is
	// trusted outright.
	ordered := pages

	colorChannels, err := strconv.Atoi(established["MAKOCODE_COLOR_CHANNELS"])
	if err != nil || !palette.Valid(colorChannels) {
		return DecodeResult{}, makoerr.New(makoerr.MetadataConflict, "paginate.Decode", "invalid MAKOCODE_COLOR_CHANNELS")
	}
	bitsPerPage, err := strconv.Atoi(established["MAKOCODE_PAGE_BITS"])
	if err != nil || bitsPerPage <= 0 {
		return DecodeResult{}, makoerr.New(makoerr.MetadataConflict, "paginate.Decode", "invalid MAKOCODE_PAGE_BITS")
	}
	payloadBits, err := strconv.ParseUint(established["MAKOCODE_BITS"], 10, 64)
	if err != nil {
		return DecodeResult{}, makoerr.New(makoerr.MetadataConflict, "paginate.Decode", "invalid MAKOCODE_BITS")
	}
	pageWidthPx, err := strconv.Atoi(established["MAKOCODE_PAGE_WIDTH_PX"])
	if err != nil || pageWidthPx <= 0 {
		return DecodeResult{}, makoerr.New(makoerr.MetadataConflict, "paginate.Decode", "invalid MAKOCODE_PAGE_WIDTH_PX")
	}
	footerRows := 0
	if v, ok := established["MAKOCODE_FOOTER_ROWS"]; ok {
		footerRows, err = strconv.Atoi(v)
		if err != nil || footerRows < 0 {
			return DecodeResult{}, makoerr.New(makoerr.MetadataConflict, "paginate.Decode", "invalid MAKOCODE_FOOTER_ROWS")
		}
	}

	frame := bitio.NewWriter()
	for _, p := range ordered {
		dataHeightPx := p.Height - footerRows
		if dataHeightPx <= 0 {
			return DecodeResult{}, makoerr.New(makoerr.MetadataConflict, "paginate.Decode", "footer_rows exceeds page height")
		}
		bits, err := extractPageBits(p, colorChannels, pageWidthPx, dataHeightPx, bitsPerPage)
		if err != nil {
			return DecodeResult{}, err
		}
		for i := 0; i < bitsPerPage; i++ {
			frame.WriteBit(bits.ReadBit())
		}
	}

	return DecodeResult{
		FrameBits:       frame.Bytes(),
		FrameBitCount:   pageCount * bitsPerPage,
		PayloadBitCount: payloadBits,
		ColorChannels:   colorChannels,
	}, nil
}

// extractPageBits inverts buildPixelPage: it reads the data region of p
// (excluding footer rows) back into palette indices, re-packs them into
// a bit stream, and reverses diffusion for the 8-color palette, the
// exact mirror of Encode's diffuse-then-map-to-pixels order.
func extractPageBits(p ppm.Page, colorChannels, widthPx, dataHeightPx, bitsPerPage int) (*bitio.Reader, error) {
	scheme, err := paletteregistry.ForChannels(colorChannels)
	if err != nil {
		return nil, makoerr.Wrap(makoerr.PaletteMismatch, "paginate.extractPageBits", err)
	}
	bpp := palette.BitsPerPixel(colorChannels)
	w := bitio.NewWriterSize(bitsPerPage)
	for y := 0; y < dataHeightPx; y++ {
		for x := 0; x < widthPx; x++ {
			rgb := p.Pixels[y*p.Width+x]
			idx, err := scheme.Decode(rgb)
			if err != nil {
				return nil, err
			}
			w.WriteBits(uint64(idx), bpp)
		}
	}
	buf := w.Bytes()
	if colorChannels == 3 {
		diffusion.Reverse(buf)
	}
	return bitio.NewReader(buf, bitsPerPage), nil
}
