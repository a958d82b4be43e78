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

// Reader pulls one typed part at a time from a GIF byte stream,
// enforcing block ordering and decoding image data to a raw index
// buffer. It is not safe for concurrent use.
type Reader struct {
	r   *bufio.Reader
	src io.Reader
	cfg config

	phase Phase
	err   error

	version Version

	globalColorTableSize int
	pendingColorTableSize int
	pendingColorTableIsGlobal bool

	extLabel byte

	imgWidth, imgHeight uint16
}

// NewReader constructs a Reader over r, starting in phase Header.
func NewReader(r io.Reader, opts ...Option) *Reader {
	cfg := applyOptions(opts)
	return &Reader{
		r:     bufio.NewReaderSize(r, cfg.bufferSize),
		src:   r,
		cfg:   cfg,
		phase: PhaseHeader,
	}
}

// Phase reports the operation the Reader currently expects next.
func (r *Reader) Phase() Phase { return r.phase }

// Close releases the Reader's buffers and, if configured with
// WithCloseUnderlying, closes the underlying stream.
func (r *Reader) Close() error {
	if r.cfg.closeUnderlying {
		if c, ok := r.src.(io.Closer); ok {
			return c.Close()
		}
	}
	return nil
}

func (r *Reader) fail(err error) error {
	r.phase = PhaseError
	r.err = err
	return err
}

func (r *Reader) invalidState(op string) error {
	return invalidState(op, r.phase)
}

func (r *Reader) readExact(op string, n int) ([]byte, error) {
	buf := make([]byte, n)
	if _, err := io.ReadFull(r.r, buf); err != nil {
		return nil, r.fail(ioOrTruncated(op, err))
	}
	return buf, nil
}

func (r *Reader) readByte(op string) (byte, error) {
	b, err := r.r.ReadByte()
	if err != nil {
		return 0, r.fail(ioOrTruncated(op, err))
	}
	return b, nil
}

// PeekPart reports the kind of part the caller must read next. It is
// the sole operation that consumes a byte outside of an explicit
// read_* call: in AwaitingBlockLabel it reads the block-introducer
// byte and advances the phase accordingly; in every other phase it is
// a pure function of the current phase and safe to call repeatedly.
func (r *Reader) PeekPart() (PartKind, error) {
	const op = "PeekPart"
	if r.phase == PhaseError {
		return 0, r.invalidState(op)
	}
	if r.phase == PhaseAwaitingBlockLabel {
		b, err := r.readByte(op)
		if err != nil {
			return 0, err
		}
		switch b {
		case introExtension:
			r.phase = PhaseExtensionLabel
		case introImage:
			r.phase = PhaseImageDescriptor
		case introTrailer:
			r.phase = PhaseDone
			r.cfg.log.Debugf("PeekPart: trailer reached")
		default:
			return 0, r.fail(newErr(Malformed, op, "unknown block introducer byte", nil))
		}
	}
	switch r.phase {
	case PhaseHeader:
		return PartHeader, nil
	case PhaseLogicalScreen:
		return PartLogicalScreenDescriptor, nil
	case PhaseGlobalColorTable:
		return PartGlobalColorTable, nil
	case PhaseExtensionLabel:
		return PartExtensionLabel, nil
	case PhaseImageDescriptor:
		return PartImageDescriptor, nil
	case PhaseLocalColorTable:
		return PartLocalColorTable, nil
	case PhaseImageData:
		return PartImageData, nil
	case PhaseDone:
		return PartTrailer, nil
	case PhaseBlockBody, PhaseSubblockStream:
		return PartSubblock, nil
	default:
		return 0, r.invalidState(op)
	}
}

// ReadHeader reads the six-byte signature and version.
func (r *Reader) ReadHeader() (Header, error) {
	const op = "ReadHeader"
	if r.phase != PhaseHeader {
		return Header{}, r.invalidState(op)
	}
	b, err := r.readExact(op, 6)
	if err != nil {
		return Header{}, err
	}
	if string(b[:3]) != "GIF" {
		return Header{}, r.fail(newErr(Malformed, op, "bad signature, want \"GIF\"", nil))
	}
	var vb [3]byte
	copy(vb[:], b[3:6])
	ver, perr := ParseVersion(vb)
	if perr != nil {
		return Header{}, r.fail(wrapErr(Malformed, op, "invalid version", perr))
	}
	r.version = ver
	r.phase = PhaseLogicalScreen
	r.cfg.log.Debugf("ReadHeader: version=%s", ver)
	return Header{Version: ver}, nil
}

// ReadLogicalScreenDescriptor reads the seven-byte logical screen
// descriptor.
func (r *Reader) ReadLogicalScreenDescriptor() (LogicalScreenDescriptor, error) {
	const op = "ReadLogicalScreenDescriptor"
	if r.phase != PhaseLogicalScreen {
		return LogicalScreenDescriptor{}, r.invalidState(op)
	}
	b, err := r.readExact(op, 7)
	if err != nil {
		return LogicalScreenDescriptor{}, err
	}
	packed := b[4]
	lsd := LogicalScreenDescriptor{
		Width:                binary.LittleEndian.Uint16(b[0:2]),
		Height:               binary.LittleEndian.Uint16(b[2:4]),
		HasGlobalColorTable:  packed&0x80 != 0,
		ColorResolution:      (packed >> 4) & 0x07,
		Sorted:               packed&0x08 != 0,
		GlobalColorTableSize: 2 << uint(packed&0x07),
		BackgroundColorIndex: b[5],
		PixelAspectRatio:     b[6],
	}
	if !r.version.AtLeast89a() && (lsd.Sorted || lsd.PixelAspectRatio != 0) {
		return LogicalScreenDescriptor{}, r.fail(newErr(Malformed, op, "sorted bit or pixel aspect ratio set before version 89a", nil))
	}
	if lsd.HasGlobalColorTable {
		r.globalColorTableSize = lsd.GlobalColorTableSize
		r.pendingColorTableSize = lsd.GlobalColorTableSize
		r.pendingColorTableIsGlobal = true
		r.phase = PhaseGlobalColorTable
	} else {
		r.phase = PhaseAwaitingBlockLabel
	}
	r.cfg.log.Debugf("ReadLogicalScreenDescriptor: %dx%d, globalColorTable=%v", lsd.Width, lsd.Height, lsd.HasGlobalColorTable)
	return lsd, nil
}

// ReadColorTable reads the pending color table (global or local,
// whichever the preceding descriptor declared).
func (r *Reader) ReadColorTable() ([]Color, error) {
	const op = "ReadColorTable"
	if r.phase != PhaseGlobalColorTable && r.phase != PhaseLocalColorTable {
		return nil, r.invalidState(op)
	}
	n := r.pendingColorTableSize
	b, err := r.readExact(op, 3*n)
	if err != nil {
		return nil, err
	}
	colors := make([]Color, n)
	for i := 0; i < n; i++ {
		colors[i] = Color{R: b[3*i], G: b[3*i+1], B: b[3*i+2]}
	}
	if r.pendingColorTableIsGlobal {
		r.phase = PhaseAwaitingBlockLabel
	} else {
		r.phase = PhaseImageData
	}
	r.cfg.log.Debugf("ReadColorTable: %d entries, global=%v", n, r.pendingColorTableIsGlobal)
	return colors, nil
}

// ReadImageDescriptor reads the nine bytes following the image
// separator (already consumed by PeekPart).
func (r *Reader) ReadImageDescriptor() (ImageDescriptor, error) {
	const op = "ReadImageDescriptor"
	if r.phase != PhaseImageDescriptor {
		return ImageDescriptor{}, r.invalidState(op)
	}
	b, err := r.readExact(op, 9)
	if err != nil {
		return ImageDescriptor{}, err
	}
	packed := b[8]
	id := ImageDescriptor{
		Left:                binary.LittleEndian.Uint16(b[0:2]),
		Top:                 binary.LittleEndian.Uint16(b[2:4]),
		Width:               binary.LittleEndian.Uint16(b[4:6]),
		Height:              binary.LittleEndian.Uint16(b[6:8]),
		HasLocalColorTable:  packed&0x80 != 0,
		Interlaced:          packed&0x40 != 0,
		Sorted:              packed&0x20 != 0,
		LocalColorTableSize: 2 << uint(packed&0x07),
	}
	if packed&0x18 != 0 {
		return ImageDescriptor{}, r.fail(newErr(Malformed, op, "reserved bits 3-4 set", nil))
	}
	if !r.version.AtLeast89a() && id.Sorted {
		return ImageDescriptor{}, r.fail(newErr(Malformed, op, "sorted bit set before version 89a", nil))
	}
	r.imgWidth, r.imgHeight = id.Width, id.Height
	if id.HasLocalColorTable {
		r.pendingColorTableSize = id.LocalColorTableSize
		r.pendingColorTableIsGlobal = false
		r.phase = PhaseLocalColorTable
	} else {
		r.phase = PhaseImageData
	}
	r.cfg.log.Debugf("ReadImageDescriptor: %dx%d at (%d,%d), localColorTable=%v", id.Width, id.Height, id.Left, id.Top, id.HasLocalColorTable)
	return id, nil
}

// ReadImageData reads the one-byte min_code_size, LZW-decodes the
// sub-blocked code stream, and returns the linear index buffer of
// length width*height from the most recent image descriptor.
func (r *Reader) ReadImageData() ([]byte, error) {
	const op = "ReadImageData"
	if r.phase != PhaseImageData {
		return nil, r.invalidState(op)
	}
	sizeByte, err := r.readByte(op)
	if err != nil {
		return nil, err
	}
	if sizeByte < 2 || sizeByte > 8 {
		return nil, r.fail(newErr(Malformed, op, "min_code_size out of range 2..8", nil))
	}
	dst := make([]byte, int(r.imgWidth)*int(r.imgHeight))
	if err := lzw.Decode(r.r, int(sizeByte), dst); err != nil {
		return nil, r.fail(classifyLZWErr(op, err))
	}
	r.phase = PhaseAwaitingBlockLabel
	r.cfg.log.Debugf("ReadImageData: decoded %d bytes at min_code_size=%d", len(dst), sizeByte)
	return dst, nil
}

// ReadExtensionLabel reads the one-byte label following the extension
// introducer (already consumed by PeekPart).
func (r *Reader) ReadExtensionLabel() (byte, error) {
	const op = "ReadExtensionLabel"
	if r.phase != PhaseExtensionLabel {
		return 0, r.invalidState(op)
	}
	label, err := r.readByte(op)
	if err != nil {
		return 0, err
	}
	if !isWellKnownLabel(label) {
		if !r.version.IsFuture() {
			return 0, r.fail(newErr(Malformed, op, "unknown extension label", nil))
		}
		r.cfg.log.Warnf("ReadExtensionLabel: accepting unknown label 0x%02X from future version %s without payload validation", label, r.version)
	}
	r.extLabel = label
	r.phase = PhaseBlockBody
	r.cfg.log.Debugf("ReadExtensionLabel: label=0x%02X", label)
	return label, nil
}

// ReadGraphicControlExtension reads the fixed-size graphic control
// payload and its terminator, legal only when the most recently read
// extension label was LabelGraphicControl.
func (r *Reader) ReadGraphicControlExtension() (GraphicControlExtension, error) {
	const op = "ReadGraphicControlExtension"
	if r.phase != PhaseBlockBody || r.extLabel != LabelGraphicControl {
		return GraphicControlExtension{}, r.invalidState(op)
	}
	if !r.version.AtLeast89a() {
		return GraphicControlExtension{}, r.fail(newErr(Malformed, op, "graphic control extension requires version 89a+", nil))
	}
	b, err := r.readExact(op, 5)
	if err != nil {
		return GraphicControlExtension{}, err
	}
	if b[0] != 4 {
		return GraphicControlExtension{}, r.fail(newErr(Malformed, op, "graphic control size byte must be 4", nil))
	}
	packed := b[1]
	gce := GraphicControlExtension{
		DisposalMethod:      (packed >> 2) & 0x07,
		UserInput:           packed&0x02 != 0,
		HasTransparent:      packed&0x01 != 0,
		DelayTime:           binary.LittleEndian.Uint16(b[2:4]),
		TransparentColorIdx: b[4],
	}
	if !r.version.IsFuture() && packed&0xE0 != 0 {
		return GraphicControlExtension{}, r.fail(newErr(Malformed, op, "reserved bits 5-7 set", nil))
	}
	if !r.version.IsFuture() && gce.DisposalMethod > 3 {
		return GraphicControlExtension{}, r.fail(newErr(Malformed, op, "disposal method out of range", nil))
	}
	term, err := r.readByte(op)
	if err != nil {
		return GraphicControlExtension{}, err
	}
	if term != 0 {
		return GraphicControlExtension{}, r.fail(newErr(Malformed, op, "missing block terminator", nil))
	}
	r.phase = PhaseAwaitingBlockLabel
	r.cfg.log.Debugf("ReadGraphicControlExtension: disposal=%d transparent=%v", gce.DisposalMethod, gce.HasTransparent)
	return gce, nil
}

// ReadPlainTextExtension reads the fixed-size first sub-block of a
// plain text extension. The caller continues with ReadSubblock for
// the rendered text.
func (r *Reader) ReadPlainTextExtension() (PlainTextExtension, error) {
	const op = "ReadPlainTextExtension"
	if r.phase != PhaseBlockBody || r.extLabel != LabelPlainText {
		return PlainTextExtension{}, r.invalidState(op)
	}
	if !r.version.AtLeast89a() {
		return PlainTextExtension{}, r.fail(newErr(Malformed, op, "plain text extension requires version 89a+", nil))
	}
	b, err := r.readExact(op, 13)
	if err != nil {
		return PlainTextExtension{}, err
	}
	if b[0] != 12 {
		return PlainTextExtension{}, r.fail(newErr(Malformed, op, "plain text size byte must be 12", nil))
	}
	pte := PlainTextExtension{
		Left:               binary.LittleEndian.Uint16(b[1:3]),
		Top:                binary.LittleEndian.Uint16(b[3:5]),
		Width:              binary.LittleEndian.Uint16(b[5:7]),
		Height:             binary.LittleEndian.Uint16(b[7:9]),
		CellWidth:          b[9],
		CellHeight:         b[10],
		ForegroundColorIdx: b[11],
		BackgroundColorIdx: b[12],
	}
	r.phase = PhaseSubblockStream
	r.cfg.log.Debugf("ReadPlainTextExtension: %dx%d at (%d,%d)", pte.Width, pte.Height, pte.Left, pte.Top)
	return pte, nil
}

// ReadApplicationExtension reads the fixed-size first sub-block of an
// application extension. The caller continues with ReadSubblock or
// ReadNetscapeSubblock for the application-specific payload.
func (r *Reader) ReadApplicationExtension() (ApplicationExtension, error) {
	const op = "ReadApplicationExtension"
	if r.phase != PhaseBlockBody || r.extLabel != LabelApplication {
		return ApplicationExtension{}, r.invalidState(op)
	}
	if !r.version.AtLeast89a() {
		return ApplicationExtension{}, r.fail(newErr(Malformed, op, "application extension requires version 89a+", nil))
	}
	b, err := r.readExact(op, 12)
	if err != nil {
		return ApplicationExtension{}, err
	}
	if b[0] != 11 {
		return ApplicationExtension{}, r.fail(newErr(Malformed, op, "application extension size byte must be 11", nil))
	}
	var ae ApplicationExtension
	copy(ae.Identifier[:], b[1:9])
	copy(ae.AuthCode[:], b[9:12])
	r.phase = PhaseSubblockStream
	r.cfg.log.Debugf("ReadApplicationExtension: identifier=%q", ae.Identifier[:])
	return ae, nil
}

// ReadSubblock reads one length-prefixed sub-block. A nil slice with
// no error marks the block terminator, after which the phase advances
// to AwaitingBlockLabel.
func (r *Reader) ReadSubblock() ([]byte, error) {
	const op = "ReadSubblock"
	if r.phase != PhaseBlockBody && r.phase != PhaseSubblockStream {
		return nil, r.invalidState(op)
	}
	n, err := r.readByte(op)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		r.phase = PhaseAwaitingBlockLabel
		r.cfg.log.Debugf("ReadSubblock: terminator, returning to AwaitingBlockLabel")
		return nil, nil
	}
	data, err := r.readExact(op, int(n))
	if err != nil {
		return nil, err
	}
	r.phase = PhaseSubblockStream
	return data, nil
}

// ReadNetscapeSubblock reads one Netscape 2.0 application sub-block,
// legal only in SubblockStream with the most recent extension label
// being LabelApplication. A nil result marks the block terminator.
func (r *Reader) ReadNetscapeSubblock() (*NetscapeSubblock, error) {
	const op = "ReadNetscapeSubblock"
	if r.phase != PhaseSubblockStream || r.extLabel != LabelApplication {
		return nil, r.invalidState(op)
	}
	n, err := r.readByte(op)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		r.phase = PhaseAwaitingBlockLabel
		return nil, nil
	}
	data, err := r.readExact(op, int(n))
	if err != nil {
		return nil, err
	}
	switch NetscapeSubblockKind(data[0]) {
	case NetscapeLooping:
		if len(data) != 3 {
			return nil, r.fail(newErr(Malformed, op, "looping sub-block must total 3 bytes", nil))
		}
		return &NetscapeSubblock{
			Kind:      NetscapeLooping,
			LoopCount: binary.LittleEndian.Uint16(data[1:3]),
		}, nil
	case NetscapeBuffering:
		if len(data) != 5 {
			return nil, r.fail(newErr(Malformed, op, "buffering sub-block must total 5 bytes", nil))
		}
		return &NetscapeSubblock{
			Kind:        NetscapeBuffering,
			BufferBytes: binary.LittleEndian.Uint32(data[1:5]),
		}, nil
	default:
		return nil, r.fail(newErr(Malformed, op, "unknown netscape sub-block identifier", nil))
	}
}

func classifyLZWErr(op string, err error) error {
	var lzwErr *lzw.Error
	if asLZWError(err, &lzwErr) {
		if lzwErr.Kind == lzw.Truncated {
			return wrapErr(Truncated, op, lzwErr.Msg, lzwErr.Err)
		}
		return wrapErr(Malformed, op, lzwErr.Msg, lzwErr.Err)
	}
	return wrapErr(Io, op, "lzw decode", err)
}

func asLZWError(err error, target **lzw.Error) bool {
	e, ok := err.(*lzw.Error)
	if ok {
		*target = e
	}
	return ok
}
