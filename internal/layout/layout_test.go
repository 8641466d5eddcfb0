package layout

import "testing"

func TestComputeNoTitle(t *testing.T) {
	p, err := Compute(1, 200, 64, "", 0)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	if p.DataHeightPx != 64 || p.FooterRows != 0 {
		t.Fatalf("no-title layout: DataHeightPx=%d FooterRows=%d", p.DataHeightPx, p.FooterRows)
	}
	want := 200 * 64 * 1
	if p.BitsPerPage != want {
		t.Fatalf("BitsPerPage = %d, want %d", p.BitsPerPage, want)
	}
}

func TestComputeWithTitleFooterRows(t *testing.T) {
	p, err := Compute(1, 700, 800, "MAKOCODE TEST", 2)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	wantFooterRows := 7*2 + 2*2
	if p.FooterRows != wantFooterRows {
		t.Fatalf("FooterRows = %d, want %d", p.FooterRows, wantFooterRows)
	}
	if p.DataHeightPx != 800-wantFooterRows {
		t.Fatalf("DataHeightPx = %d, want %d", p.DataHeightPx, 800-wantFooterRows)
	}
}

func TestComputeRejectsTitleTooWide(t *testing.T) {
	_, err := Compute(1, 10, 64, "THIS TITLE IS WAY TOO LONG TO FIT", 2)
	if err == nil {
		t.Fatal("expected UnsupportedConfig for oversized title")
	}
}

func TestComputeRejectsZeroDimensions(t *testing.T) {
	if _, err := Compute(1, 0, 64, "", 0); err == nil {
		t.Fatal("expected error for zero width")
	}
	if _, err := Compute(1, 64, 0, "", 0); err == nil {
		t.Fatal("expected error for zero height")
	}
}

func TestComputeRejectsBadColorChannels(t *testing.T) {
	if _, err := Compute(4, 64, 64, "", 0); err == nil {
		t.Fatal("expected error for invalid color_channels")
	}
}

func TestComputeRejectsOversizedPage(t *testing.T) {
	if _, err := Compute(1, 2_000_000, 64, "", 0); err == nil {
		t.Fatal("expected InputTooLarge for width past maxPageDimension")
	}
	if _, err := Compute(1, 100_000, 100_000, "", 0); err == nil {
		t.Fatal("expected InputTooLarge for pixel count past maxPagePixels")
	}
}

func TestComputeRejectsFontScaleOutOfRange(t *testing.T) {
	if _, err := Compute(1, 64, 64, "A", 0); err == nil {
		t.Fatal("expected error for font scale 0")
	}
	if _, err := Compute(1, 64, 64, "A", 2049); err == nil {
		t.Fatal("expected error for font scale > 2048")
	}
}
