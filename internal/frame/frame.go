// Package frame implements FrameCodec: prepending and stripping the
// 64-bit little-endian payload-bit-length header that precedes the
// LZW-compressed bits in every MakoCode frame.
package frame

import (
	"github.com/justinbass/makocode/internal/bitio"
	"github.com/justinbass/makocode/makoerr"
)

const headerBits = 64

// Wrap builds FramedBits from a compressed byte stream: a 64-bit
// little-endian bit count, the compressed bytes written 8 bits at a time
// LSB first, then zero-padded to a byte boundary.
//
// It returns the frame buffer, the total frame bit count (byte-aligned),
// and the payload bit count (the embedded header value).
func Wrap(compressed []byte) (frameBits []byte, frameBitCount int, payloadBitCount uint64) {
	payloadBitCount = bitio.BitsForBytes(uint64(len(compressed)))

	w := bitio.NewWriterSize(headerBits + len(compressed)*8)
	w.WriteBits(payloadBitCount, headerBits)
	for _, b := range compressed {
		w.WriteByte(b)
	}
	w.AlignToByte()
	return w.Bytes(), w.Len(), payloadBitCount
}

// Unwrap reads the 64-bit embedded bit count from frameBits and returns
// the compressed payload bits packed into a byte buffer (zero-padded to a
// byte boundary).
//
// If wantPayloadBitCount is non-negative, it must equal the embedded
// count or Unwrap fails with FrameIntegrity; this is the
// MAKOCODE_BITS-vs-embedded-header cross-check.
func Unwrap(frameBits []byte, frameBitCount int, wantPayloadBitCount int64) ([]byte, error) {
	if frameBitCount < headerBits {
		return nil, makoerr.New(makoerr.FrameIntegrity, "frame.Unwrap", "frame shorter than 64-bit header")
	}

	r := bitio.NewReader(frameBits, frameBitCount)
	embedded := r.ReadBits(headerBits)

	if wantPayloadBitCount >= 0 && uint64(wantPayloadBitCount) != embedded {
		return nil, makoerr.New(makoerr.FrameIntegrity,
			"frame.Unwrap", "MAKOCODE_BITS disagrees with embedded frame header")
	}

	available := uint64(frameBitCount - headerBits)
	if embedded > available {
		return nil, makoerr.New(makoerr.FrameIntegrity,
			"frame.Unwrap", "embedded bit count exceeds available frame bits")
	}

	out := bitio.NewWriterSize(int(embedded))
	for i := uint64(0); i < embedded; i++ {
		out.WriteBit(r.ReadBit())
	}
	out.AlignToByte()
	return out.Bytes(), nil
}
