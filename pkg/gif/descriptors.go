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

// Package gif implements a streaming GIF (87a/89a/forward-compatible)
// reader and writer: a pull-style Reader and a push-style Writer that
// each expose the container as a sequence of typed parts, enforcing
// the format's block ordering and carrying the variable-width LZW
// coder that translates between an 8-bit index stream and the
// sub-blocked, bit-packed code stream.
//
// Rendering, palette manipulation, frame composition, disposal
// effects, and animation timing are out of scope: the Reader returns
// only the raw linear index buffer for each image, never a decoded
// image.Image.
package gif

// Color is one entry of a color table: three bytes, red, green, blue.
type Color struct {
	R, G, B byte
}

// Header is the six-byte file signature plus version.
type Header struct {
	Version Version
}

// LogicalScreenDescriptor is the seven-byte record following the
// header (spec.md §6.1).
type LogicalScreenDescriptor struct {
	Width, Height        uint16
	HasGlobalColorTable  bool
	ColorResolution      uint8 // 3 bits, 0-7; not range-checked (spec.md §9 open question)
	Sorted               bool
	GlobalColorTableSize int // entry count, 2<<size when HasGlobalColorTable
	BackgroundColorIndex byte
	PixelAspectRatio     byte
}

// ImageDescriptor is the ten-byte record (including the 0x2C
// separator) introducing an image (spec.md §6.1).
type ImageDescriptor struct {
	Left, Top, Width, Height uint16
	HasLocalColorTable       bool
	Interlaced               bool
	Sorted                   bool
	LocalColorTableSize      int // entry count, 2<<size when HasLocalColorTable
}

// GraphicControlExtension is the fixed-size graphic control extension
// payload (spec.md §6.1).
type GraphicControlExtension struct {
	DisposalMethod       uint8 // 3 bits, 0-7; values >3 are Malformed/InvalidArgument at exactly 89a, unchecked for later versions
	UserInput            bool
	HasTransparent       bool
	DelayTime            uint16
	TransparentColorIdx  byte
}

// PlainTextExtension is the fixed-size first sub-block of a plain
// text extension (spec.md §6.1). The rendered text itself arrives as
// ordinary sub-blocks read with ReadSubblock/WriteSubblock.
type PlainTextExtension struct {
	Left, Top, Width, Height uint16
	CellWidth, CellHeight    byte
	ForegroundColorIdx       byte
	BackgroundColorIdx       byte
}

// ApplicationExtension is the fixed-size first sub-block of an
// application extension (spec.md §6.1). Application-specific data
// arrives as ordinary or Netscape sub-blocks.
type ApplicationExtension struct {
	Identifier [8]byte
	AuthCode   [3]byte
}

// NetscapeSubblockKind identifies the two well-known Netscape 2.0
// application sub-block identifiers.
type NetscapeSubblockKind byte

const (
	NetscapeLooping   NetscapeSubblockKind = 0x01
	NetscapeBuffering NetscapeSubblockKind = 0x02
)

// NetscapeSubblock is a decoded Netscape 2.0 application sub-block:
// either a loop count (NetscapeLooping) or a buffering size
// (NetscapeBuffering).
type NetscapeSubblock struct {
	Kind        NetscapeSubblockKind
	LoopCount   uint16 // valid when Kind == NetscapeLooping
	BufferBytes uint32 // valid when Kind == NetscapeBuffering
}
