// Package makocode implements the encode/decode pipeline of a
// high-density color barcode archival format: payload bytes are LZW
// compressed, length-framed, optionally diffused, palette-packed into
// pixels, and paginated into one or more raster pages; decode reverses
// every step, validating cross-page metadata along the way.
package makocode

import (
	"fmt"
	"io"

	"github.com/justinbass/makocode/internal/footer"
	"github.com/justinbass/makocode/internal/frame"
	"github.com/justinbass/makocode/internal/layout"
	"github.com/justinbass/makocode/internal/lzw12"
	"github.com/justinbass/makocode/internal/paginate"
	"github.com/justinbass/makocode/internal/ppm"
	"github.com/justinbass/makocode/makoerr"
)

// Config is the caller-facing parameter surface for Encode.
type Config struct {
	ColorChannels int    // 1, 2, or 3; default 1 if zero.
	PageWidthPx   int
	PageHeightPx  int
	Title         string // optional, over footer.Alphabet after normalization.
	TitleFont     int    // font_scale; required (and validated) only if Title != "".
}

// Page is one emitted raster page, paired with the filename it should be
// written under.
type Page struct {
	Filename string
	Raster   ppm.Page
}

// Encode compresses payload and splits it across one or more Pages under
// cfg. Page count depends only on payload size and cfg's page geometry.
func Encode(payload []byte, cfg Config) ([]Page, error) {
	colorChannels := cfg.ColorChannels
	if colorChannels == 0 {
		colorChannels = 1
	}

	title := cfg.Title
	if title != "" {
		normalized, err := footer.Normalize(title)
		if err != nil {
			return nil, err
		}
		title = normalized
	}

	lay, err := layout.Compute(colorChannels, cfg.PageWidthPx, cfg.PageHeightPx, title, cfg.TitleFont)
	if err != nil {
		return nil, err
	}

	compressed := lzw12.Compress(payload)
	frameBits, frameBitCount, payloadBitCount := frame.Wrap(compressed)

	outs, err := paginate.Encode(paginate.EncodeInput{
		Layout:          lay,
		FrameBits:       frameBits,
		FrameBitCount:   frameBitCount,
		PayloadBitCount: payloadBitCount,
	})
	if err != nil {
		return nil, err
	}

	pages := make([]Page, len(outs))
	for i, o := range outs {
		pages[i] = Page{Filename: o.Filename, Raster: o.Page}
	}
	return pages, nil
}

// WritePages serializes each page to the writer open returns for its
// Filename, using open as the file-creation hook (so callers can swap in
// os.Create, an in-memory filesystem, or a test double).
func WritePages(pages []Page, open func(name string) (io.WriteCloser, error)) error {
	for _, p := range pages {
		w, err := open(p.Filename)
		if err != nil {
			return makoerr.Wrap(makoerr.AllocationFailure, "makocode.WritePages", err)
		}
		err = ppm.Serialize(w, p.Raster)
		closeErr := w.Close()
		if err != nil {
			return err
		}
		if closeErr != nil {
			return makoerr.Wrap(makoerr.AllocationFailure, "makocode.WritePages", closeErr)
		}
	}
	return nil
}

// Decode reassembles a supplied set of raster pages back into the
// original payload bytes. Pages must be supplied in page order: each
// MAKOCODE_PAGE_INDEX must match the page's position, until the first
// page without one, after which the supplied order is used unchecked.
func Decode(rasters []ppm.Page) ([]byte, error) {
	result, err := paginate.Decode(rasters)
	if err != nil {
		return nil, err
	}

	compressed, err := frame.Unwrap(result.FrameBits, result.FrameBitCount, int64(result.PayloadBitCount))
	if err != nil {
		return nil, err
	}

	payload, err := lzw12.Decompress(compressed)
	if err != nil {
		return nil, err
	}
	return payload, nil
}

// ParsePages parses every reader in order into a raster page, per
// internal/ppm's container format.
func ParsePages(readers []io.Reader) ([]ppm.Page, error) {
	pages := make([]ppm.Page, len(readers))
	for i, r := range readers {
		p, err := ppm.Parse(r)
		if err != nil {
			return nil, fmt.Errorf("makocode.ParsePages[%d]: %w", i, err)
		}
		pages[i] = p
	}
	return pages, nil
}
