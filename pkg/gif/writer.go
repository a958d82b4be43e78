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
package gif

import (
	"bufio"
	"encoding/binary"
	"io"

	"github.com/ostafen/giflzw/pkg/gif/lzw"
)

// Writer accepts typed parts in the order Reader would produce them
// and emits their bit-exact wire encoding. It is not safe for
// concurrent use.
type Writer struct {
	w   *bufio.Writer
	dst io.Writer
	cfg config

	phase WPhase
	err   error

	version Version

	globalColorTableSize      int
	pendingColorTableSize     int
	pendingColorTableIsGlobal bool

	extLabel byte

	imgWidth, imgHeight uint16
}

// NewWriter constructs a Writer over w, starting in phase Header.
func NewWriter(w io.Writer, opts ...Option) *Writer {
	cfg := applyOptions(opts)
	return &Writer{
		w:     bufio.NewWriterSize(w, cfg.bufferSize),
		dst:   w,
		cfg:   cfg,
		phase: WPhaseHeader,
	}
}

// Phase reports the operation the Writer expects next.
func (w *Writer) Phase() WPhase { return w.phase }

// Close flushes any buffered output and, if configured with
// WithCloseUnderlying, closes the underlying stream.
func (w *Writer) Close() error {
	if err := w.w.Flush(); err != nil {
		return err
	}
	if w.cfg.closeUnderlying {
		if c, ok := w.dst.(io.Closer); ok {
			return c.Close()
		}
	}
	return nil
}

func (w *Writer) fail(err error) error {
	w.phase = WPhaseError
	w.err = err
	return err
}

func (w *Writer) invalidState(op string) error {
	return invalidState(op, w.phase)
}

func (w *Writer) writeBytes(op string, b []byte) error {
	if _, err := w.w.Write(b); err != nil {
		return w.fail(wrapErr(Io, op, "underlying stream error", err))
	}
	return nil
}

func (w *Writer) writeByte(op string, b byte) error {
	return w.writeBytes(op, []byte{b})
}

// WriteHeader emits the six-byte signature and version.
func (w *Writer) WriteHeader(h Header) error {
	const op = "WriteHeader"
	if w.phase != WPhaseHeader {
		return w.invalidState(op)
	}
	vb, err := h.Version.Bytes()
	if err != nil {
		return newErr(InvalidArgument, op, "version out of encodable range", err)
	}
	buf := append([]byte("GIF"), vb[:]...)
	if err := w.writeBytes(op, buf); err != nil {
		return err
	}
	w.version = h.Version
	w.phase = WPhaseLogicalScreen
	w.cfg.log.Debugf("WriteHeader: version=%s", h.Version)
	return nil
}

// WriteLogicalScreenDescriptor emits the seven-byte logical screen
// descriptor.
func (w *Writer) WriteLogicalScreenDescriptor(lsd LogicalScreenDescriptor) error {
	const op = "WriteLogicalScreenDescriptor"
	if w.phase != WPhaseLogicalScreen {
		return w.invalidState(op)
	}
	if !w.version.AtLeast89a() && (lsd.Sorted || lsd.PixelAspectRatio != 0) {
		return newErr(InvalidArgument, op, "sorted bit or pixel aspect ratio requires version 89a+", nil)
	}
	size := tableSizeField(lsd.GlobalColorTableSize)
	if size < 0 {
		if lsd.HasGlobalColorTable {
			return newErr(InvalidArgument, op, "global color table size is not a supported power of two", nil)
		}
		size = 0
	}
	packed := byte(size)
	if lsd.HasGlobalColorTable {
		packed |= 0x80
	}
	packed |= (lsd.ColorResolution & 0x07) << 4
	if lsd.Sorted {
		packed |= 0x08
	}

	buf := make([]byte, 7)
	binary.LittleEndian.PutUint16(buf[0:2], lsd.Width)
	binary.LittleEndian.PutUint16(buf[2:4], lsd.Height)
	buf[4] = packed
	buf[5] = lsd.BackgroundColorIndex
	buf[6] = lsd.PixelAspectRatio
	if err := w.writeBytes(op, buf); err != nil {
		return err
	}

	if lsd.HasGlobalColorTable {
		w.globalColorTableSize = lsd.GlobalColorTableSize
		w.pendingColorTableSize = lsd.GlobalColorTableSize
		w.pendingColorTableIsGlobal = true
		w.phase = WPhaseGlobalColorTable
	} else {
		w.phase = WPhaseAwaitingBlockLabel
	}
	w.cfg.log.Debugf("WriteLogicalScreenDescriptor: %dx%d, globalColorTable=%v", lsd.Width, lsd.Height, lsd.HasGlobalColorTable)
	return nil
}

// WriteColorTable emits the pending color table (global or local,
// whichever the preceding descriptor declared). A table with fewer
// entries than declared is padded with black; one with more fails
// InvalidArgument without writing anything or advancing the phase.
func (w *Writer) WriteColorTable(colors []Color) error {
	const op = "WriteColorTable"
	if w.phase != WPhaseGlobalColorTable && w.phase != WPhaseLocalColorTable {
		return w.invalidState(op)
	}
	n := w.pendingColorTableSize
	if len(colors) > n {
		return newErr(InvalidArgument, op, "more colors than the declared table size", nil)
	}
	buf := make([]byte, 3*n)
	for i, c := range colors {
		buf[3*i], buf[3*i+1], buf[3*i+2] = c.R, c.G, c.B
	}
	if err := w.writeBytes(op, buf); err != nil {
		return err
	}
	if w.pendingColorTableIsGlobal {
		w.phase = WPhaseAwaitingBlockLabel
	} else {
		w.phase = WPhaseImageData
	}
	w.cfg.log.Debugf("WriteColorTable: %d entries, global=%v", n, w.pendingColorTableIsGlobal)
	return nil
}

// WriteImageDescriptor emits the image separator and nine-byte image
// descriptor.
func (w *Writer) WriteImageDescriptor(id ImageDescriptor) error {
	const op = "WriteImageDescriptor"
	if w.phase != WPhaseAwaitingBlockLabel {
		return w.invalidState(op)
	}
	if !w.version.AtLeast89a() && id.Sorted {
		return newErr(InvalidArgument, op, "sorted bit requires version 89a+", nil)
	}
	size := tableSizeField(id.LocalColorTableSize)
	if size < 0 {
		if id.HasLocalColorTable {
			return newErr(InvalidArgument, op, "local color table size is not a supported power of two", nil)
		}
		size = 0
	}
	packed := byte(size)
	if id.HasLocalColorTable {
		packed |= 0x80
	}
	if id.Interlaced {
		packed |= 0x40
	}
	if id.Sorted {
		packed |= 0x20
	}

	buf := make([]byte, 10)
	buf[0] = introImage
	binary.LittleEndian.PutUint16(buf[1:3], id.Left)
	binary.LittleEndian.PutUint16(buf[3:5], id.Top)
	binary.LittleEndian.PutUint16(buf[5:7], id.Width)
	binary.LittleEndian.PutUint16(buf[7:9], id.Height)
	buf[9] = packed
	if err := w.writeBytes(op, buf); err != nil {
		return err
	}

	w.imgWidth, w.imgHeight = id.Width, id.Height
	if id.HasLocalColorTable {
		w.pendingColorTableSize = id.LocalColorTableSize
		w.pendingColorTableIsGlobal = false
		w.phase = WPhaseLocalColorTable
	} else {
		w.phase = WPhaseImageData
	}
	w.cfg.log.Debugf("WriteImageDescriptor: %dx%d at (%d,%d), localColorTable=%v", id.Width, id.Height, id.Left, id.Top, id.HasLocalColorTable)
	return nil
}

// WriteImageData computes the minimum code size from the highest
// palette index present in pixels, emits it, and LZW-encodes pixels
// in a single call. len(pixels) must equal the declared width*height.
func (w *Writer) WriteImageData(pixels []byte) error {
	const op = "WriteImageData"
	if w.phase != WPhaseImageData {
		return w.invalidState(op)
	}
	if len(pixels) != int(w.imgWidth)*int(w.imgHeight) {
		return newErr(InvalidArgument, op, "pixel buffer length does not match width*height", nil)
	}
	minCodeSize := minCodeSizeFor(pixels)
	if err := w.writeByte(op, byte(minCodeSize)); err != nil {
		return err
	}
	if err := lzw.Encode(w.w, minCodeSize, pixels); err != nil {
		return w.fail(wrapErr(Io, op, "lzw encode", err))
	}
	w.phase = WPhaseAwaitingBlockLabel
	w.cfg.log.Debugf("WriteImageData: encoded %d bytes at min_code_size=%d", len(pixels), minCodeSize)
	return nil
}

// WriteImageDataHeader is the two-phase variant of WriteImageData: it
// emits an explicit min_code_size byte and leaves the Writer in
// Subblock0, expecting the caller to drive WriteSubblock and
// WriteBlockTerminator with an already bit-packed code stream.
func (w *Writer) WriteImageDataHeader(minCodeSize int) error {
	const op = "WriteImageDataHeader"
	if w.phase != WPhaseImageData {
		return w.invalidState(op)
	}
	if minCodeSize < 2 || minCodeSize > 8 {
		return newErr(InvalidArgument, op, "min_code_size out of range 2..8", nil)
	}
	if err := w.writeByte(op, byte(minCodeSize)); err != nil {
		return err
	}
	w.phase = WPhaseSubblock0
	return nil
}

// WriteExtensionLabel emits the extension introducer and label byte,
// advancing to Subblock0 for the generic (comment-style) sub-block
// sequence.
func (w *Writer) WriteExtensionLabel(label byte) error {
	const op = "WriteExtensionLabel"
	if w.phase != WPhaseAwaitingBlockLabel {
		return w.invalidState(op)
	}
	if w.version < Version89a {
		return newErr(InvalidArgument, op, "extensions require version 89a+", nil)
	}
	if !isWellKnownLabel(label) {
		if !w.version.IsFuture() {
			return newErr(InvalidArgument, op, "unknown extension label", nil)
		}
		w.cfg.log.Warnf("WriteExtensionLabel: emitting unknown label 0x%02X for future version %s without payload validation", label, w.version)
	}
	if err := w.writeBytes(op, []byte{introExtension, label}); err != nil {
		return err
	}
	w.extLabel = label
	w.phase = WPhaseSubblock0
	w.cfg.log.Debugf("WriteExtensionLabel: label=0x%02X", label)
	return nil
}

// WriteGraphicControlExtension emits the label, fixed payload, and
// terminator for a graphic control extension in one call.
func (w *Writer) WriteGraphicControlExtension(gce GraphicControlExtension) error {
	const op = "WriteGraphicControlExtension"
	if w.phase != WPhaseAwaitingBlockLabel {
		return w.invalidState(op)
	}
	if w.version < Version89a {
		return newErr(InvalidArgument, op, "graphic control extension requires version 89a+", nil)
	}
	if w.version.AtLeast89a() && !w.version.IsFuture() && gce.DisposalMethod > 3 {
		return newErr(InvalidArgument, op, "disposal method out of range", nil)
	}
	packed := byte(0)
	packed |= (gce.DisposalMethod & 0x07) << 2
	if gce.UserInput {
		packed |= 0x02
	}
	if gce.HasTransparent {
		packed |= 0x01
	}
	buf := []byte{introExtension, LabelGraphicControl, 4, packed, 0, 0, gce.TransparentColorIdx, 0}
	binary.LittleEndian.PutUint16(buf[4:6], gce.DelayTime)
	if err := w.writeBytes(op, buf); err != nil {
		return err
	}
	w.phase = WPhaseAwaitingBlockLabel
	w.cfg.log.Debugf("WriteGraphicControlExtension: disposal=%d transparent=%v", gce.DisposalMethod, gce.HasTransparent)
	return nil
}

// WritePlainTextExtension emits the label and fixed first sub-block
// of a plain text extension, advancing to Subblocks for the rendered
// text.
func (w *Writer) WritePlainTextExtension(pte PlainTextExtension) error {
	const op = "WritePlainTextExtension"
	if w.phase != WPhaseAwaitingBlockLabel {
		return w.invalidState(op)
	}
	if w.version < Version89a {
		return newErr(InvalidArgument, op, "plain text extension requires version 89a+", nil)
	}
	buf := make([]byte, 15)
	buf[0], buf[1] = introExtension, LabelPlainText
	buf[2] = 12
	binary.LittleEndian.PutUint16(buf[3:5], pte.Left)
	binary.LittleEndian.PutUint16(buf[5:7], pte.Top)
	binary.LittleEndian.PutUint16(buf[7:9], pte.Width)
	binary.LittleEndian.PutUint16(buf[9:11], pte.Height)
	buf[11] = pte.CellWidth
	buf[12] = pte.CellHeight
	buf[13] = pte.ForegroundColorIdx
	buf[14] = pte.BackgroundColorIdx
	if err := w.writeBytes(op, buf); err != nil {
		return err
	}
	w.extLabel = LabelPlainText
	w.phase = WPhaseSubblocks
	w.cfg.log.Debugf("WritePlainTextExtension: %dx%d at (%d,%d)", pte.Width, pte.Height, pte.Left, pte.Top)
	return nil
}

// WriteApplicationExtension emits the label and fixed first sub-block
// of an application extension, advancing to Subblocks for the
// application-specific payload.
func (w *Writer) WriteApplicationExtension(ae ApplicationExtension) error {
	const op = "WriteApplicationExtension"
	if w.phase != WPhaseAwaitingBlockLabel {
		return w.invalidState(op)
	}
	if w.version < Version89a {
		return newErr(InvalidArgument, op, "application extension requires version 89a+", nil)
	}
	buf := make([]byte, 14)
	buf[0], buf[1] = introExtension, LabelApplication
	buf[2] = 11
	copy(buf[3:11], ae.Identifier[:])
	copy(buf[11:14], ae.AuthCode[:])
	if err := w.writeBytes(op, buf); err != nil {
		return err
	}
	w.extLabel = LabelApplication
	w.phase = WPhaseSubblocks
	w.cfg.log.Debugf("WriteApplicationExtension: identifier=%q", ae.Identifier[:])
	return nil
}

// WriteSubblock emits one length-prefixed sub-block, 1..255 bytes.
func (w *Writer) WriteSubblock(data []byte) error {
	const op = "WriteSubblock"
	if w.phase != WPhaseSubblock0 && w.phase != WPhaseSubblocks {
		return w.invalidState(op)
	}
	if len(data) == 0 || len(data) > 255 {
		return newErr(InvalidArgument, op, "sub-block length must be 1..255", nil)
	}
	if err := w.writeBytes(op, append([]byte{byte(len(data))}, data...)); err != nil {
		return err
	}
	w.phase = WPhaseSubblocks
	return nil
}

// WriteNetscapeSubblock emits one Netscape 2.0 application sub-block.
func (w *Writer) WriteNetscapeSubblock(ns NetscapeSubblock) error {
	const op = "WriteNetscapeSubblock"
	if w.phase != WPhaseSubblock0 && w.phase != WPhaseSubblocks {
		return w.invalidState(op)
	}
	if w.extLabel != LabelApplication {
		return w.invalidState(op)
	}
	var buf []byte
	switch ns.Kind {
	case NetscapeLooping:
		buf = make([]byte, 4)
		buf[0] = 3
		buf[1] = byte(NetscapeLooping)
		binary.LittleEndian.PutUint16(buf[2:4], ns.LoopCount)
	case NetscapeBuffering:
		buf = make([]byte, 6)
		buf[0] = 5
		buf[1] = byte(NetscapeBuffering)
		binary.LittleEndian.PutUint32(buf[2:6], ns.BufferBytes)
	default:
		return newErr(InvalidArgument, op, "unknown netscape sub-block kind", nil)
	}
	if err := w.writeBytes(op, buf); err != nil {
		return err
	}
	w.phase = WPhaseSubblocks
	return nil
}

// WriteBlockTerminator emits the zero-length terminating sub-block,
// finalizing the current extension.
func (w *Writer) WriteBlockTerminator() error {
	const op = "WriteBlockTerminator"
	if w.phase != WPhaseSubblock0 && w.phase != WPhaseSubblocks {
		return w.invalidState(op)
	}
	if err := w.writeByte(op, 0); err != nil {
		return err
	}
	w.phase = WPhaseAwaitingBlockLabel
	w.cfg.log.Debugf("WriteBlockTerminator: returning to AwaitingBlockLabel")
	return nil
}

// WriteTrailer emits the trailer byte, finishing the stream.
func (w *Writer) WriteTrailer() error {
	const op = "WriteTrailer"
	if w.phase != WPhaseAwaitingBlockLabel {
		return w.invalidState(op)
	}
	if err := w.writeByte(op, introTrailer); err != nil {
		return err
	}
	w.phase = WPhaseDone
	w.cfg.log.Debugf("WriteTrailer: stream complete")
	return nil
}

// tableSizeField converts a color table entry count (2, 4, 8, ..., 256)
// to its 3-bit size field, or -1 if n is not a supported power of two
// in that range.
func tableSizeField(n int) int {
	for size := 0; size <= 7; size++ {
		if (2 << uint(size)) == n {
			return size
		}
	}
	return -1
}

// minCodeSizeFor computes max(2, ceil(log2(max_index + 1))) over pixels,
// treating an all-zero buffer as min_code_size = 2.
func minCodeSizeFor(pixels []byte) int {
	var max byte
	for _, p := range pixels {
		if p > max {
			max = p
		}
	}
	size := 2
	for (1 << uint(size)) <= int(max) {
		size++
	}
	return size
}
