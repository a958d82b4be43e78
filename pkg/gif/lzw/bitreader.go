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

// subblockSource turns a raw length-prefixed GIF sub-block sequence
// into a flat byte stream, the way google-wuffs/script/extract-giflzw.go's
// buildHistogram reads length-prefixed frame data, generalized here to
// cross sub-block boundaries one byte at a time instead of loading a
// whole frame up front.
type subblockSource struct {
	r         io.ByteReader
	remaining int  // bytes left in the sub-block currently being read
	terminated bool // a zero-length sub-block has been consumed
}

func newSubblockSource(r io.ByteReader) *subblockSource {
	return &subblockSource{r: r}
}

// nextByte returns the next data byte of the sub-block stream. When a
// zero-length (terminating) sub-block is encountered, it returns
// atEnd=true and leaves the source in a state where every subsequent
// call also reports atEnd=true.
func (s *subblockSource) nextByte() (b byte, atEnd bool, err error) {
	if s.terminated {
		return 0, true, nil
	}
	for s.remaining == 0 {
		n, err := s.r.ReadByte()
		if err != nil {
			return 0, false, err
		}
		if n == 0 {
			s.terminated = true
			return 0, true, nil
		}
		s.remaining = int(n)
	}
	b, err = s.r.ReadByte()
	if err != nil {
		return 0, false, err
	}
	s.remaining--
	return b, false, nil
}

// bitReader extracts little-endian-bitwise codes (spec: the first
// code's LSB is the LSB of the first emitted byte) from a
// subblockSource.
type bitReader struct {
	src    *subblockSource
	bitBuf uint32
	nBits  uint
}

func newBitReader(src *subblockSource) *bitReader {
	return &bitReader{src: src}
}

// readCode extracts the next `width` bits as a code. It returns a
// Malformed *Error (not a bare io error) when the sub-block stream
// ends before width bits are available mid-code, per spec.md
// §4.3.2 step 1 ("a sub-block length of zero encountered mid-stream
// is Malformed").
func (r *bitReader) readCode(width int) (uint32, error) {
	for r.nBits < uint(width) {
		b, atEnd, err := r.src.nextByte()
		if err != nil {
			return 0, truncated("code stream truncated", err)
		}
		if atEnd {
			return 0, malformed("code stream truncated")
		}
		r.bitBuf |= uint32(b) << r.nBits
		r.nBits += 8
	}
	code := r.bitBuf & ((uint32(1) << uint(width)) - 1)
	r.bitBuf >>= uint(width)
	r.nBits -= uint(width)
	return code, nil
}

// padding returns the bits left over in the buffer after the last
// readCode call (always < 8 by construction: each refill adds a full
// byte, each extraction removes at most 12 bits, so leftover never
// accumulates past 7 bits between calls).
func (r *bitReader) padding() uint32 { return r.bitBuf }

func (r *bitReader) pendingBits() uint { return r.nBits }
