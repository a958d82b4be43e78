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

// Encode translates an 8-bit index stream (src, each byte < 1<<minCodeSize)
// into a GIF LZW code stream, sub-blocked and written to w. minCodeSize
// must be 2..8; the caller validates that range, Encode trusts it.
//
// Once the 4096-entry dictionary is full, Encode keeps emitting codes
// against it unchanged for as long as each match spans more than one
// byte, and emits the clear code only when a match is a single root
// byte; this deferred clear is the one behavior stdlib compress/lzw
// has no hook for.
func Encode(w io.Writer, minCodeSize int, src []byte) error {
	clearCode := uint32(1) << uint(minCodeSize)
	endCode := clearCode + 1
	firstFree := endCode + 1

	bw := newBitWriter(newBlockWriter(w))

	codeSize := minCodeSize + 1
	freeCode := firstFree
	table := make(map[uint32]uint32, maxDictSize)
	// lengthOf tracks match length only to classify a match as
	// trivial (a bare root byte) vs non-trivial for the deferred-clear
	// decision; it is not needed for correctness of the emitted codes.
	lengthOf := map[uint32]int{}

	resetTable := func() {
		for k := range table {
			delete(table, k)
		}
		for k := range lengthOf {
			delete(lengthOf, k)
		}
		codeSize = minCodeSize + 1
		freeCode = firstFree
	}

	if err := bw.writeCode(clearCode, codeSize); err != nil {
		return err
	}

	haveCur := false
	var curCode uint32
	curLen := 0

	// growIfNeeded widens codeSize at the same point Decode does. decFree
	// is Decode's next free code once it has read the code just emitted:
	// Decode adds no entry for the first code after a clear, so it trails
	// freeCode by one inside the loop and equals it after the last code.
	growIfNeeded := func(decFree uint32) {
		if decFree < maxDictSize && decFree == 1<<uint(codeSize) && codeSize < 12 {
			codeSize++
		}
	}

	for _, b := range src {
		if uint32(b) >= clearCode {
			return malformed("input index exceeds the code size's alphabet")
		}
		if !haveCur {
			curCode, curLen, haveCur = uint32(b), 1, true
			continue
		}
		key := curCode<<8 | uint32(b)
		if next, ok := table[key]; ok {
			curCode, curLen = next, lengthOf[next]
			continue
		}

		switch {
		case freeCode >= maxDictSize && curLen > 1:
			// Non-trivial match against a full table: defer the
			// clear, emit curCode as-is at the current code size.
		case freeCode >= maxDictSize:
			// Trivial match (a bare root byte) against a full table:
			// clear now, at the old code size, before curCode is
			// emitted at the fresh one below, and give the fresh table
			// the same first entry Decode will build from it.
			if err := bw.writeCode(clearCode, codeSize); err != nil {
				return err
			}
			resetTable()
			fallthrough
		default:
			table[key] = freeCode
			lengthOf[freeCode] = curLen + 1
			freeCode++
		}

		if err := bw.writeCode(curCode, codeSize); err != nil {
			return err
		}
		growIfNeeded(freeCode - 1)

		curCode, curLen = uint32(b), 1
	}

	if haveCur {
		if err := bw.writeCode(curCode, codeSize); err != nil {
			return err
		}
		growIfNeeded(freeCode)
	}
	if err := bw.writeCode(endCode, codeSize); err != nil {
		return err
	}
	return bw.flush()
}
