package diffusion

import (
	"bytes"
	"testing"
)

func TestApplyReverseInvolution(t *testing.T) {
	orig := []byte{0x00, 0x01, 0xFF, 0x80, 0x7F, 0xAA, 0x55, 0x3C}
	buf := append([]byte(nil), orig...)
	Apply(buf)
	if bytes.Equal(buf, orig) {
		t.Fatal("Apply should change bytes with nonzero bits")
	}
	Reverse(buf)
	if !bytes.Equal(buf, orig) {
		t.Fatalf("Reverse(Apply(x)) = %v, want %v", buf, orig)
	}
}

func TestApplyPreservesLength(t *testing.T) {
	buf := make([]byte, 1000)
	for i := range buf {
		buf[i] = byte(i)
	}
	before := len(buf)
	Apply(buf)
	if len(buf) != before {
		t.Fatalf("Apply changed length: %d -> %d", before, len(buf))
	}
}

func TestRotlRotrInverse(t *testing.T) {
	for b := 0; b < 256; b++ {
		for k := uint(0); k < 8; k++ {
			if rotr(rotl(byte(b), k), k) != byte(b) {
				t.Fatalf("rotr(rotl(%d,%d),%d) != %d", b, k, k, b)
			}
		}
	}
}
