// Package lzw12 implements the fixed 12-bit-code LZW variant MakoCode
// uses to compress payload bytes: a 256-entry seed dictionary (codes
// 0-255 are single bytes), a 4096-code dictionary cap, and no clear
// code; the dictionary simply stops growing once full and the
// remainder of the input is coded against whatever was learned so far.
//
// The compress-side dictionary is an open-addressed hash table keyed by
// (prefixCode<<8)^byte, grounded in the GIF-LZW lineage's htab/codetab
// hashing scheme, adapted to this format's fixed code width and missing
// clear code.
package lzw12

import (
	"github.com/justinbass/makocode/internal/bitio"
	"github.com/justinbass/makocode/makoerr"
)

const (
	codeBits    = 12
	seedCodes   = 256
	maxDictSize = 1 << codeBits // 4096
	hashSize    = 8192
)

// emptyKey marks an unused hash slot. Valid packed (prefix,byte) keys are
// always >= 0, so -1 is unambiguous.
const emptyKey = -1

// Compress encodes src and returns the 12-bit codes packed LSB-first into
// a byte buffer, zero-padded to a byte boundary. Empty input produces an
// empty buffer.
func Compress(src []byte) []byte {
	if len(src) == 0 {
		return nil
	}

	// keys[h] holds the packed (prefix,byte) owning slot h; codes[h] the
	// code it maps to. Linear probing on collision.
	keys := make([]int32, hashSize)
	codes := make([]int32, hashSize)
	for i := range keys {
		keys[i] = emptyKey
	}

	dictSize := seedCodes

	lookup := func(prefix int32, b byte) (code int32, found bool) {
		h := hashOf(prefix, b)
		for {
			if keys[h] == emptyKey {
				return 0, false
			}
			if keys[h] == packKey(prefix, b) {
				return codes[h], true
			}
			h = (h + 1) % hashSize
		}
	}

	insert := func(prefix int32, b byte, code int32) {
		h := hashOf(prefix, b)
		for keys[h] != emptyKey {
			h = (h + 1) % hashSize
		}
		keys[h] = packKey(prefix, b)
		codes[h] = code
	}

	w := bitio.NewWriterSize(len(src) * codeBits)
	prefix := int32(src[0])

	for i := 1; i < len(src); i++ {
		b := src[i]
		if code, ok := lookup(prefix, b); ok {
			prefix = code
			continue
		}
		w.WriteBits(uint64(prefix), codeBits)
		if dictSize < maxDictSize {
			insert(prefix, b, int32(dictSize))
			dictSize++
		}
		prefix = int32(b)
	}
	w.WriteBits(uint64(prefix), codeBits)
	w.AlignToByte()
	return w.Bytes()
}

func hashOf(prefix int32, b byte) int32 {
	h := (prefix << 8) ^ int32(b)
	h &= 0x7FFFFFFF
	return h % hashSize
}

func packKey(prefix int32, b byte) int32 {
	return (prefix << 8) | int32(b)
}

// Decompress reverses Compress. src holds byte-aligned 12-bit codes; bits
// beyond the last full 12-bit code (the zero-pad) are ignored.
func Decompress(src []byte) ([]byte, error) {
	if len(src) == 0 {
		return nil, nil
	}

	r := bitio.NewReader(src, len(src)*8)

	// entries[code-seedCodes] gives (prefixCode, appendByte) for codes
	// >= seedCodes; codes < seedCodes are literal bytes.
	type entry struct {
		prefix int32
		b      byte
	}
	entries := make([]entry, 0, maxDictSize-seedCodes)
	dictSize := seedCodes

	expand := func(code int32) ([]byte, error) {
		var stack []byte
		for code >= seedCodes {
			idx := int(code) - seedCodes
			if idx < 0 || idx >= len(entries) {
				return nil, makoerr.New(makoerr.CompressionFailure, "lzw12.Decompress", "invalid code")
			}
			stack = append(stack, entries[idx].b)
			code = entries[idx].prefix
		}
		stack = append(stack, byte(code))
		// reverse
		for i, j := 0, len(stack)-1; i < j; i, j = i+1, j-1 {
			stack[i], stack[j] = stack[j], stack[i]
		}
		return stack, nil
	}

	if r.Remaining() < codeBits {
		return nil, makoerr.New(makoerr.CompressionFailure, "lzw12.Decompress", "input too short for a code")
	}

	prevCode := int32(r.ReadBits(codeBits))
	if int(prevCode) >= dictSize {
		return nil, makoerr.New(makoerr.CompressionFailure, "lzw12.Decompress", "invalid first code")
	}
	out := []byte{byte(prevCode)}
	prevFirst := byte(prevCode)

	for r.Remaining() >= codeBits {
		code := int32(r.ReadBits(codeBits))

		var str []byte
		var err error
		switch {
		case int(code) < dictSize:
			str, err = expand(code)
			if err != nil {
				return nil, err
			}
		case int(code) == dictSize:
			str, err = expand(prevCode)
			if err != nil {
				return nil, err
			}
			str = append(str, prevFirst)
		default:
			return nil, makoerr.New(makoerr.CompressionFailure, "lzw12.Decompress", "code exceeds dictionary size")
		}

		out = append(out, str...)

		if dictSize < maxDictSize {
			entries = append(entries, entry{prefix: prevCode, b: str[0]})
			dictSize++
		}

		prevCode = code
		prevFirst = str[0]
	}

	return out, nil
}
