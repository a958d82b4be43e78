// Copyright (c) 2025 Stefano Scafiti
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.
package lzw

import "io"

const (
	maxDictSize = 4096
	noPrefix    = 0xFFFF // marks a root (single-byte) dictionary entry
)

// dictionary is the decoder's code table: parallel arrays indexed by
// code, following the same shape as google-wuffs' extract-giflzw.go
// buildHistogram bookkeeping (prefix chain + cached suffix byte +
// cached chain length), generalized here from histogram counting to
// full output reconstruction.
type dictionary struct {
	prefix [maxDictSize]uint16
	suffix [maxDictSize]byte
	length [maxDictSize]uint16 // total bytes when this code is expanded
}

// Decode translates a GIF LZW code stream read from r (a sub-blocked,
// little-endian-bit-packed stream as produced by a preceding
// image-descriptor sub-block sequence) into exactly len(dst) 8-bit
// color indices, minCodeSize is the value stored alongside the image
// data (2..8); the caller is responsible for validating that range,
// Decode trusts it.
//
// Decode returns a Malformed *Error if the stream contains an
// out-of-range code, a KwK reference to an undefined code, would
// produce more than len(dst) bytes, reaches the end code before dst is
// filled, hits a zero-length sub-block in the middle of a code, or has
// anything but zero padding and the terminating sub-block after the
// end code; it returns a Truncated *Error if the underlying reader
// runs out of bytes first.
func Decode(r io.ByteReader, minCodeSize int, dst []byte) error {
	clearCode := uint32(1) << uint(minCodeSize)
	endCode := clearCode + 1
	firstFree := endCode + 1

	br := newBitReader(newSubblockSource(r))

	var dict dictionary
	codeSize := minCodeSize + 1
	freeCode := firstFree

	resetDict := func() {
		for i := uint32(0); i < clearCode; i++ {
			dict.prefix[i] = noPrefix
			dict.suffix[i] = byte(i)
			dict.length[i] = 1
		}
		codeSize = minCodeSize + 1
		freeCode = firstFree
	}
	resetDict()

	pos := 0
	var prevCode uint32
	havePrev := false

	// emit writes the expansion of code into dst[pos:], walking the
	// prefix chain backwards (so the buffer is filled from the end of
	// the run toward the start) and returns the first byte of the
	// expansion (needed for the KwK case).
	emit := func(code uint32) (firstByte byte, err error) {
		n := int(dict.length[code])
		if pos+n > len(dst) {
			return 0, malformed("decoded output exceeds destination size")
		}
		end := pos + n
		c := code
		for i := end - 1; i >= pos; i-- {
			dst[i] = dict.suffix[c]
			c = uint32(dict.prefix[c])
			if c == noPrefix && i != pos {
				return 0, malformed("corrupt dictionary chain")
			}
		}
		pos = end
		return dst[end-n], nil
	}

	for {
		code, err := br.readCode(codeSize)
		if err != nil {
			return err
		}

		switch {
		case code == clearCode:
			resetDict()
			havePrev = false
			continue
		case code == endCode:
			return finishStream(br, pos, len(dst))
		case code < freeCode:
			first, err := emit(code)
			if err != nil {
				return err
			}
			if havePrev {
				if err := installCode(&dict, &freeCode, prevCode, first); err != nil {
					return err
				}
			}
			prevCode, havePrev = code, true
		case code == freeCode && havePrev:
			// KwK: code refers to the entry about to be created.
			first := dict.suffix[firstRootOf(&dict, prevCode)]
			if err := installCode(&dict, &freeCode, prevCode, first); err != nil {
				return err
			}
			if _, err := emit(code); err != nil {
				return err
			}
			prevCode = code
		default:
			return malformed("code references an undefined dictionary entry")
		}

		if freeCode < maxDictSize && int(freeCode) == 1<<uint(codeSize) && codeSize < 12 {
			codeSize++
		}
	}
}

// installCode appends a new dictionary entry extending prevCode by one
// byte (suffix) and grows freeCode. Once the dictionary is full it is
// a no-op: Encode's deferred-clear behavior keeps emitting codes
// against the full, unchanging dictionary until it sends an explicit
// clear code, so decode must tolerate free_code staying at 4096
// rather than treating it as an error.
func installCode(dict *dictionary, freeCode *uint32, prevCode uint32, suffix byte) error {
	if *freeCode >= maxDictSize {
		return nil
	}
	c := *freeCode
	dict.prefix[c] = uint16(prevCode)
	dict.suffix[c] = suffix
	dict.length[c] = dict.length[prevCode] + 1
	*freeCode++
	return nil
}

// firstRootOf walks code's prefix chain down to its root (single-byte)
// entry and returns that root's code, used to recover the "first
// byte of the previous code's expansion" the KwK case needs without
// re-walking the whole chain through emit.
func firstRootOf(dict *dictionary, code uint32) uint32 {
	for dict.prefix[code] != noPrefix {
		code = uint32(dict.prefix[code])
	}
	return code
}

// finishStream verifies the trailer after an end code: the
// destination buffer must be exactly full, any bits left in the
// partial byte must be zero padding, the current sub-block must be
// exhausted, and the next sub-block must be the zero-length
// terminator.
func finishStream(br *bitReader, pos, want int) error {
	if pos != want {
		return malformed("end code encountered before destination was filled")
	}
	if br.padding() != 0 {
		return malformed("non-zero padding bits after end code")
	}
	if br.src.remaining > 0 {
		return malformed("trailing garbage in sub-block after end code")
	}
	_, atEnd, err := br.src.nextByte()
	if err != nil {
		return truncated("reading terminating sub-block after end code", err)
	}
	if !atEnd {
		return malformed("data follows end code before the terminating sub-block")
	}
	return nil
}
