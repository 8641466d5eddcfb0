package paginate

import (
	"bytes"
	"testing"

	"github.com/justinbass/makocode/internal/bitio"
	"github.com/justinbass/makocode/internal/layout"
	"github.com/justinbass/makocode/internal/ppm"
	"github.com/justinbass/makocode/makoerr"
)

func framedBits(t *testing.T, payload []byte) ([]byte, int) {
	t.Helper()
	w := bitio.NewWriter()
	for _, b := range payload {
		w.WriteByte(b)
	}
	return w.Bytes(), w.Len()
}

func encodeSample(t *testing.T, colorChannels int, title string) ([]EncodeOutput, int) {
	t.Helper()
	lay, err := layout.Compute(colorChannels, 8, 8, title, 1)
	if err != nil {
		t.Fatalf("layout.Compute: %v", err)
	}
	frameBits, frameBitCount := framedBits(t, []byte("hello makocode, this is a test payload exercising multiple pages"))
	outs, err := Encode(EncodeInput{
		Layout:          lay,
		FrameBits:       frameBits,
		FrameBitCount:   frameBitCount,
		PayloadBitCount: uint64(frameBitCount),
	})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	return outs, frameBitCount
}

func pagesOf(outs []EncodeOutput) []ppm.Page {
	pages := make([]ppm.Page, len(outs))
	for i, o := range outs {
		pages[i] = o.Page
	}
	return pages
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	outs, frameBitCount := encodeSample(t, 1, "")
	res, err := Decode(pagesOf(outs))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if res.FrameBitCount < frameBitCount {
		t.Fatalf("FrameBitCount = %d, want at least %d", res.FrameBitCount, frameBitCount)
	}
	w := bitio.NewWriter()
	for _, b := range []byte("hello makocode, this is a test payload exercising multiple pages") {
		w.WriteByte(b)
	}
	want := w.Bytes()
	got := res.FrameBits
	if len(got) < len(want) || !bytes.Equal(got[:len(want)], want) {
		t.Fatalf("round-tripped bits mismatch")
	}
}

func TestDecodeRejectsSwappedOrder(t *testing.T) {
	outs, _ := encodeSample(t, 1, "")
	if len(outs) < 2 {
		t.Skip("sample payload fits on a single page; order test needs multiple pages")
	}
	pages := pagesOf(outs)
	pages[0], pages[1] = pages[1], pages[0]
	if _, err := Decode(pages); !makoerr.Is(err, makoerr.MetadataConflict) {
		t.Fatalf("expected MetadataConflict for swapped page order, got %v", err)
	}
}

func TestDecodeRejectsDuplicatePageIndex(t *testing.T) {
	outs, _ := encodeSample(t, 1, "")
	if len(outs) < 2 {
		t.Skip("sample payload fits on a single page; duplicate test needs multiple pages")
	}
	pages := pagesOf(outs)
	pages[1] = pages[0]
	if _, err := Decode(pages); !makoerr.Is(err, makoerr.MetadataConflict) {
		t.Fatalf("expected MetadataConflict for duplicate page index, got %v", err)
	}
}

func TestDecodeRejectsSubsetOfPages(t *testing.T) {
	outs, _ := encodeSample(t, 1, "")
	if len(outs) < 2 {
		t.Skip("sample payload fits on a single page; subset test needs multiple pages")
	}
	pages := pagesOf(outs)[:len(outs)-1]
	if _, err := Decode(pages); !makoerr.Is(err, makoerr.MetadataConflict) {
		t.Fatalf("expected MetadataConflict for missing pages, got %v", err)
	}
}

func TestDecodeRejectsRunIDMismatch(t *testing.T) {
	outs, _ := encodeSample(t, 1, "")
	pages := pagesOf(outs)
	pages[0].Headers = cloneHeaders(pages[0].Headers)
	pages[0].Headers["MAKOCODE_RUN_ID"] = "not-the-real-run-id"
	if _, err := Decode(pages); !makoerr.Is(err, makoerr.MetadataConflict) {
		t.Fatalf("expected MetadataConflict for run id mismatch, got %v", err)
	}
}

func cloneHeaders(h map[string]string) map[string]string {
	out := make(map[string]string, len(h))
	for k, v := range h {
		out[k] = v
	}
	return out
}
