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

// Phase enumerates what a Reader must consume next. It is the
// sum-type replacement for the single bare stage int the teacher
// repository's PNG/GIF scanners use internally: every Reader method
// asserts the current Phase before doing any I/O.
type Phase int

const (
	PhaseHeader Phase = iota
	PhaseLogicalScreen
	PhaseGlobalColorTable
	PhaseAwaitingBlockLabel
	PhaseExtensionLabel
	PhaseImageDescriptor
	PhaseLocalColorTable
	PhaseImageData
	PhaseBlockBody
	PhaseSubblockStream
	PhaseDone
	PhaseError
)

func (p Phase) String() string {
	switch p {
	case PhaseHeader:
		return "Header"
	case PhaseLogicalScreen:
		return "LogicalScreen"
	case PhaseGlobalColorTable:
		return "GlobalColorTable"
	case PhaseAwaitingBlockLabel:
		return "AwaitingBlockLabel"
	case PhaseExtensionLabel:
		return "ExtensionLabel"
	case PhaseImageDescriptor:
		return "ImageDescriptor"
	case PhaseLocalColorTable:
		return "LocalColorTable"
	case PhaseImageData:
		return "ImageData"
	case PhaseBlockBody:
		return "BlockBody"
	case PhaseSubblockStream:
		return "SubblockStream"
	case PhaseDone:
		return "Done"
	case PhaseError:
		return "Error"
	default:
		return "Unknown"
	}
}

// WPhase enumerates what a Writer must produce next. It mirrors
// Phase but collapses the reader's "label read, body not read yet"
// distinction (the typed extension writers emit label and first
// sub-block together; WriteExtensionLabel emits the label alone and
// goes straight to Subblock0) and adds Subblock0/Subblocks so WriteBlockTerminator can
// tell "no sub-block written yet" from "at least one written" for the
// comment-extension wire form.
type WPhase int

const (
	WPhaseHeader WPhase = iota
	WPhaseLogicalScreen
	WPhaseGlobalColorTable
	WPhaseAwaitingBlockLabel
	WPhaseImageDescriptor
	WPhaseLocalColorTable
	WPhaseImageData
	WPhaseSubblock0
	WPhaseSubblocks
	WPhaseDone
	WPhaseError
)

func (p WPhase) String() string {
	switch p {
	case WPhaseHeader:
		return "Header"
	case WPhaseLogicalScreen:
		return "LogicalScreen"
	case WPhaseGlobalColorTable:
		return "GlobalColorTable"
	case WPhaseAwaitingBlockLabel:
		return "AwaitingBlockLabel"
	case WPhaseImageDescriptor:
		return "ImageDescriptor"
	case WPhaseLocalColorTable:
		return "LocalColorTable"
	case WPhaseImageData:
		return "ImageData"
	case WPhaseSubblock0:
		return "Subblock0"
	case WPhaseSubblocks:
		return "Subblocks"
	case WPhaseDone:
		return "Done"
	case WPhaseError:
		return "Error"
	default:
		return "Unknown"
	}
}

// PartKind is the value PeekPart returns: which typed part the
// caller must read next.
type PartKind int

const (
	PartHeader PartKind = iota
	PartLogicalScreenDescriptor
	PartGlobalColorTable
	PartExtensionLabel
	PartImageDescriptor
	PartLocalColorTable
	PartImageData
	PartTrailer
	PartSubblock
)

func (k PartKind) String() string {
	switch k {
	case PartHeader:
		return "Header"
	case PartLogicalScreenDescriptor:
		return "LogicalScreenDescriptor"
	case PartGlobalColorTable:
		return "GlobalColorTable"
	case PartExtensionLabel:
		return "ExtensionLabel"
	case PartImageDescriptor:
		return "ImageDescriptor"
	case PartLocalColorTable:
		return "LocalColorTable"
	case PartImageData:
		return "ImageData"
	case PartTrailer:
		return "Trailer"
	case PartSubblock:
		return "Subblock"
	default:
		return "Unknown"
	}
}

// Extension label byte values (spec.md §6.1).
const (
	LabelPlainText      byte = 0x01
	LabelGraphicControl byte = 0xF9
	LabelComment        byte = 0xFE
	LabelApplication    byte = 0xFF
)

// Block framing bytes.
const (
	introExtension byte = 0x21
	introImage     byte = 0x2C
	introTrailer   byte = 0x3B
)

func isWellKnownLabel(label byte) bool {
	switch label {
	case LabelPlainText, LabelGraphicControl, LabelComment, LabelApplication:
		return true
	default:
		return false
	}
}
