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

// blockWriter accumulates bytes into 255-byte GIF sub-blocks, flushing
// full sub-blocks as they fill and emitting the zero-length terminator
// on Close. Grounded on tenox7-gip/gif.go's blockWriter, which wraps an
// io.Writer the same way to feed stdlib compress/lzw's sub-block-naive
// output through GIF's framing.
type blockWriter struct {
	w   io.Writer
	buf [255]byte
	n   int
}

func newBlockWriter(w io.Writer) *blockWriter {
	return &blockWriter{w: w}
}

func (bw *blockWriter) WriteByte(b byte) error {
	bw.buf[bw.n] = b
	bw.n++
	if bw.n == len(bw.buf) {
		return bw.flush()
	}
	return nil
}

func (bw *blockWriter) flush() error {
	if bw.n == 0 {
		return nil
	}
	if _, err := bw.w.Write([]byte{byte(bw.n)}); err != nil {
		return err
	}
	if _, err := bw.w.Write(bw.buf[:bw.n]); err != nil {
		return err
	}
	bw.n = 0
	return nil
}

// Close flushes any partial sub-block and writes the zero-length
// terminating sub-block.
func (bw *blockWriter) Close() error {
	if err := bw.flush(); err != nil {
		return err
	}
	_, err := bw.w.Write([]byte{0})
	return err
}

// bitWriter packs codes LSB-first into bytes, handing completed bytes
// to a blockWriter.
type bitWriter struct {
	dst    *blockWriter
	bitBuf uint32
	nBits  uint
}

func newBitWriter(dst *blockWriter) *bitWriter {
	return &bitWriter{dst: dst}
}

func (w *bitWriter) writeCode(code uint32, width int) error {
	w.bitBuf |= code << w.nBits
	w.nBits += uint(width)
	for w.nBits >= 8 {
		if err := w.dst.WriteByte(byte(w.bitBuf)); err != nil {
			return err
		}
		w.bitBuf >>= 8
		w.nBits -= 8
	}
	return nil
}

// flush writes out any partial trailing byte, zero-padded, then
// closes the underlying blockWriter (final sub-block + terminator).
func (w *bitWriter) flush() error {
	if w.nBits > 0 {
		if err := w.dst.WriteByte(byte(w.bitBuf)); err != nil {
			return err
		}
		w.bitBuf, w.nBits = 0, 0
	}
	return w.dst.Close()
}
