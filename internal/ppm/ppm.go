// Package ppm implements PpmCodec: serialization and parsing of
// MakoCode's raster container, a plain-ASCII PPM (P3) with zero or more
// "# KEY VALUE" header comments carrying MakoCode's self-describing page
// metadata.
//
// The parser is a pull-based tokenizer with comment absorption into a
// sticky header-key state, grounded in spakin/netpbm's
// netpbmReader/GetNetpbmHeader pull-tokenizer shape.
package ppm

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/justinbass/makocode/internal/palette"
	"github.com/justinbass/makocode/makoerr"
)

const magic = "P3"
const maxval = 255

// maxDeclaredDimension and maxDeclaredPixels bound the width/height a
// parsed container may declare, before Parse ever allocates the Pixels
// slice those values size.
const (
	maxDeclaredDimension = 1_000_000
	maxDeclaredPixels    = 50_000_000
)

// headerKeyOrder lists the known MakoCode header keys in the order
// Serialize emits them; any unrecognized comment is ignored on parse
// and never emitted on serialize.
var headerKeyOrder = []string{
	"MAKOCODE_COLOR_CHANNELS",
	"MAKOCODE_BITS",
	"MAKOCODE_PAGE_COUNT",
	"MAKOCODE_PAGE_INDEX",
	"MAKOCODE_PAGE_BITS",
	"MAKOCODE_PAGE_WIDTH_PX",
	"MAKOCODE_PAGE_HEIGHT_PX",
	"MAKOCODE_FOOTER_ROWS",
	"MAKOCODE_TITLE_FONT",
	"MAKOCODE_RUN_ID",
}

var knownKeys = func() map[string]bool {
	m := make(map[string]bool, len(headerKeyOrder))
	for _, k := range headerKeyOrder {
		m[k] = true
	}
	return m
}()

// Page is one parsed or to-be-serialized raster page.
type Page struct {
	Width, Height int
	// Headers holds every known header key present on this page, as
	// decimal strings (MAKOCODE_RUN_ID is a UUID string; every other key
	// is an integer, but both round-trip through the same string form).
	Headers map[string]string
	Pixels  []palette.RGB // row-major, len == Width*Height
}

// Serialize writes page in MakoCode's PPM container format.
func Serialize(w io.Writer, page Page) error {
	if page.Width <= 0 || page.Height <= 0 {
		return makoerr.New(makoerr.Container, "ppm.Serialize", "width and height must be positive")
	}
	if len(page.Pixels) != page.Width*page.Height {
		return makoerr.New(makoerr.Container, "ppm.Serialize", "pixel count does not match width*height")
	}

	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, magic)
	for _, key := range headerKeyOrder {
		if v, ok := page.Headers[key]; ok {
			fmt.Fprintf(bw, "# %s %s\n", key, v)
		}
	}
	fmt.Fprintf(bw, "%d %d\n%d\n", page.Width, page.Height, maxval)

	for i, px := range page.Pixels {
		if i > 0 {
			if i%page.Width == 0 {
				bw.WriteByte('\n')
			} else {
				bw.WriteByte(' ')
			}
		}
		fmt.Fprintf(bw, "%d %d %d", px.R, px.G, px.B)
	}
	bw.WriteByte('\n')
	return bw.Flush()
}

// tokenizer pulls whitespace-separated tokens from r, absorbing "#"
// comments (which run to end of line) into headers as a side effect.
type tokenizer struct {
	br      *bufio.Reader
	headers map[string]string
}

func newTokenizer(r io.Reader) *tokenizer {
	return &tokenizer{br: bufio.NewReader(r), headers: map[string]string{}}
}

// next returns the next non-comment token, or ok=false at EOF.
func (t *tokenizer) next() (string, bool, error) {
	for {
		r, _, err := t.br.ReadRune()
		if err == io.EOF {
			return "", false, nil
		}
		if err != nil {
			return "", false, makoerr.Wrap(makoerr.Container, "ppm.next", err)
		}
		if r == '#' {
			line, err := t.br.ReadString('\n')
			if err != nil && err != io.EOF {
				return "", false, makoerr.Wrap(makoerr.Container, "ppm.next", err)
			}
			if err := t.absorbComment(line); err != nil {
				return "", false, err
			}
			continue
		}
		if isSpace(r) {
			continue
		}

		var b strings.Builder
		b.WriteRune(r)
		for {
			r, _, err := t.br.ReadRune()
			if err == io.EOF {
				break
			}
			if err != nil {
				return "", false, makoerr.Wrap(makoerr.Container, "ppm.next", err)
			}
			if isSpace(r) {
				break
			}
			if r == '#' {
				t.br.UnreadRune()
				break
			}
			b.WriteRune(r)
		}
		return b.String(), true, nil
	}
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\r' || r == '\n'
}

// absorbComment parses a comment body of the form "KEY VALUE" (the
// trailing newline already stripped of its own meaning by the caller's
// use of ReadString). Unknown keys are ignored. A key seen twice with
// differing values is a Container error.
func (t *tokenizer) absorbComment(line string) error {
	line = strings.TrimRight(line, "\r\n")
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return nil
	}
	key, value := fields[0], strings.Join(fields[1:], " ")
	if !knownKeys[key] {
		return nil
	}
	if existing, ok := t.headers[key]; ok {
		if existing != value {
			return makoerr.New(makoerr.Container, "ppm.absorbComment",
				fmt.Sprintf("duplicate header key %s with conflicting values", key))
		}
		return nil
	}
	t.headers[key] = value
	return nil
}

func (t *tokenizer) nextInt() (int64, error) {
	tok, ok, err := t.next()
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, makoerr.New(makoerr.Container, "ppm.nextInt", "unexpected end of file")
	}
	n, err := strconv.ParseInt(tok, 10, 64)
	if err != nil {
		return 0, makoerr.New(makoerr.Container, "ppm.nextInt", "non-numeric token: "+tok)
	}
	return n, nil
}

func (t *tokenizer) nextByte() (byte, error) {
	n, err := t.nextInt()
	if err != nil {
		return 0, err
	}
	if n < 0 || n > 255 {
		return 0, makoerr.New(makoerr.Container, "ppm.nextByte", "channel value out of range")
	}
	return byte(n), nil
}

// Parse reads a MakoCode PPM page from r.
func Parse(r io.Reader) (Page, error) {
	t := newTokenizer(r)

	tok, ok, err := t.next()
	if err != nil {
		return Page{}, err
	}
	if !ok || tok != magic {
		return Page{}, makoerr.New(makoerr.Container, "ppm.Parse", "wrong or missing magic number")
	}

	width, err := t.nextInt()
	if err != nil {
		return Page{}, err
	}
	height, err := t.nextInt()
	if err != nil {
		return Page{}, err
	}
	if width <= 0 || height <= 0 {
		return Page{}, makoerr.New(makoerr.Container, "ppm.Parse", "non-positive width or height")
	}
	if width > maxDeclaredDimension || height > maxDeclaredDimension {
		return Page{}, makoerr.New(makoerr.InputTooLarge, "ppm.Parse", "declared dimension exceeds maximum")
	}
	if width*height > maxDeclaredPixels {
		return Page{}, makoerr.New(makoerr.InputTooLarge, "ppm.Parse", "declared pixel count exceeds maximum")
	}

	mv, err := t.nextInt()
	if err != nil {
		return Page{}, err
	}
	if mv != maxval {
		return Page{}, makoerr.New(makoerr.Container, "ppm.Parse", "only maxval 255 is supported")
	}

	n := int(width * height)
	pixels := make([]palette.RGB, n)
	for i := 0; i < n; i++ {
		r8, err := t.nextByte()
		if err != nil {
			return Page{}, makoerr.New(makoerr.Container, "ppm.Parse", "fewer pixels than declared")
		}
		g8, err := t.nextByte()
		if err != nil {
			return Page{}, makoerr.New(makoerr.Container, "ppm.Parse", "fewer pixels than declared")
		}
		b8, err := t.nextByte()
		if err != nil {
			return Page{}, makoerr.New(makoerr.Container, "ppm.Parse", "fewer pixels than declared")
		}
		pixels[i] = palette.RGB{R: r8, G: g8, B: b8}
	}

	return Page{
		Width:   int(width),
		Height:  int(height),
		Headers: t.headers,
		Pixels:  pixels,
	}, nil
}
