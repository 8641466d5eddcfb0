package ppm

import (
	"bytes"
	"strings"
	"testing"

	"github.com/justinbass/makocode/internal/palette"
	"github.com/justinbass/makocode/makoerr"
)

func samplePage() Page {
	return Page{
		Width:  2,
		Height: 2,
		Headers: map[string]string{
			"MAKOCODE_COLOR_CHANNELS": "1",
			"MAKOCODE_BITS":           "8",
		},
		Pixels: []palette.RGB{
			{R: 0, G: 0, B: 0}, {R: 255, G: 255, B: 255},
			{R: 255, G: 255, B: 255}, {R: 0, G: 0, B: 0},
		},
	}
}

func TestSerializeParseRoundTrip(t *testing.T) {
	page := samplePage()
	var buf bytes.Buffer
	if err := Serialize(&buf, page); err != nil {
		t.Fatalf("Serialize: %v", err)
	}

	got, err := Parse(&buf)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got.Width != page.Width || got.Height != page.Height {
		t.Fatalf("dims mismatch: got %dx%d want %dx%d", got.Width, got.Height, page.Width, page.Height)
	}
	for i, px := range page.Pixels {
		if got.Pixels[i] != px {
			t.Fatalf("pixel %d: got %v want %v", i, got.Pixels[i], px)
		}
	}
	if got.Headers["MAKOCODE_COLOR_CHANNELS"] != "1" || got.Headers["MAKOCODE_BITS"] != "8" {
		t.Fatalf("headers not round-tripped: %v", got.Headers)
	}
}

func TestParseRejectsWrongMagic(t *testing.T) {
	_, err := Parse(strings.NewReader("P6\n2 2\n255\n0 0 0 0 0 0 0 0 0 0 0 0\n"))
	if !makoerr.Is(err, makoerr.Container) {
		t.Fatalf("expected Container error, got %v", err)
	}
}

func TestParseRejectsBadMaxval(t *testing.T) {
	_, err := Parse(strings.NewReader("P3\n2 2\n65535\n0 0 0 0 0 0 0 0 0 0 0 0\n"))
	if !makoerr.Is(err, makoerr.Container) {
		t.Fatalf("expected Container error for bad maxval, got %v", err)
	}
}

func TestParseRejectsNonNumericToken(t *testing.T) {
	_, err := Parse(strings.NewReader("P3\n2 2\n255\nred 0 0 0 0 0 0 0 0 0 0 0\n"))
	if !makoerr.Is(err, makoerr.Container) {
		t.Fatalf("expected Container error for non-numeric token, got %v", err)
	}
}

func TestParseRejectsTooFewPixels(t *testing.T) {
	_, err := Parse(strings.NewReader("P3\n2 2\n255\n0 0 0 0 0 0\n"))
	if !makoerr.Is(err, makoerr.Container) {
		t.Fatalf("expected Container error for truncated pixel data, got %v", err)
	}
}

func TestParseRejectsOversizedDimensions(t *testing.T) {
	_, err := Parse(strings.NewReader("P3\n2000000 64\n255\n0 0 0\n"))
	if !makoerr.Is(err, makoerr.InputTooLarge) {
		t.Fatalf("expected InputTooLarge for oversized width, got %v", err)
	}
}

func TestParseRejectsOversizedPixelCount(t *testing.T) {
	_, err := Parse(strings.NewReader("P3\n100000 100000\n255\n0 0 0\n"))
	if !makoerr.Is(err, makoerr.InputTooLarge) {
		t.Fatalf("expected InputTooLarge for oversized pixel count, got %v", err)
	}
}

func TestParseIgnoresUnknownHeaderKeys(t *testing.T) {
	p, err := Parse(strings.NewReader(
		"P3\n# UNKNOWN_KEY 42\n# MAKOCODE_BITS 16\n2 2\n255\n0 0 0 0 0 0 0 0 0 0 0 0\n"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if _, ok := p.Headers["UNKNOWN_KEY"]; ok {
		t.Fatal("unknown header key should be ignored, not stored")
	}
	if p.Headers["MAKOCODE_BITS"] != "16" {
		t.Fatalf("known header key not captured: %v", p.Headers)
	}
}

func TestParseRejectsConflictingDuplicateHeader(t *testing.T) {
	_, err := Parse(strings.NewReader(
		"P3\n# MAKOCODE_BITS 16\n# MAKOCODE_BITS 32\n2 2\n255\n0 0 0 0 0 0 0 0 0 0 0 0\n"))
	if !makoerr.Is(err, makoerr.Container) {
		t.Fatalf("expected Container error for conflicting duplicate header, got %v", err)
	}
}

func TestParseAllowsIdenticalDuplicateHeader(t *testing.T) {
	_, err := Parse(strings.NewReader(
		"P3\n# MAKOCODE_BITS 16\n# MAKOCODE_BITS 16\n2 2\n255\n0 0 0 0 0 0 0 0 0 0 0 0\n"))
	if err != nil {
		t.Fatalf("identical duplicate header should be allowed: %v", err)
	}
}
