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
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWriteHeaderWrongPhaseFails(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	require.NoError(t, w.WriteHeader(Header{Version: Version89a}))

	err := w.WriteHeader(Header{Version: Version89a})
	require.Error(t, err)
	var ce *CodecError
	require.True(t, errors.As(err, &ce))
	require.Equal(t, InvalidState, ce.Kind)
	require.Equal(t, WPhaseLogicalScreen, w.Phase())
}

// TestGraphicControlExtensionRejectedAt87a mirrors the reader-side
// testable property 7 from the writer's perspective: the same
// extension fails InvalidArgument before any bytes reach the wire.
func TestGraphicControlExtensionRejectedAt87a(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	require.NoError(t, w.WriteHeader(Header{Version: Version87a}))
	require.NoError(t, w.WriteLogicalScreenDescriptor(LogicalScreenDescriptor{}))

	err := w.WriteGraphicControlExtension(GraphicControlExtension{})
	require.Error(t, err)
	var ce *CodecError
	require.True(t, errors.As(err, &ce))
	require.Equal(t, InvalidArgument, ce.Kind)
	require.Equal(t, WPhaseAwaitingBlockLabel, w.Phase())
}

func TestWriteExtensionLabelRejectsUnknownLabelAt89a(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	require.NoError(t, w.WriteHeader(Header{Version: Version89a}))
	require.NoError(t, w.WriteLogicalScreenDescriptor(LogicalScreenDescriptor{}))

	err := w.WriteExtensionLabel(0x42)
	require.Error(t, err)
	var ce *CodecError
	require.True(t, errors.As(err, &ce))
	require.Equal(t, InvalidArgument, ce.Kind)
}

func TestWriteExtensionLabelAllowsUnknownLabelWhenFuture(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	require.NoError(t, w.WriteHeader(Header{Version: Version89a + 1}))
	require.NoError(t, w.WriteLogicalScreenDescriptor(LogicalScreenDescriptor{}))

	require.NoError(t, w.WriteExtensionLabel(0x42))
}

func TestWriteColorTableRejectsOversizedTable(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	require.NoError(t, w.WriteHeader(Header{Version: Version89a}))
	require.NoError(t, w.WriteLogicalScreenDescriptor(LogicalScreenDescriptor{
		HasGlobalColorTable:  true,
		GlobalColorTableSize: 2,
	}))

	err := w.WriteColorTable([]Color{{0, 0, 0}, {1, 1, 1}, {2, 2, 2}})
	require.Error(t, err)
	var ce *CodecError
	require.True(t, errors.As(err, &ce))
	require.Equal(t, InvalidArgument, ce.Kind)
	require.Equal(t, WPhaseGlobalColorTable, w.Phase())
}

func TestWriteColorTablePadsShortTable(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	require.NoError(t, w.WriteHeader(Header{Version: Version89a}))
	require.NoError(t, w.WriteLogicalScreenDescriptor(LogicalScreenDescriptor{
		HasGlobalColorTable:  true,
		GlobalColorTableSize: 4,
	}))
	require.NoError(t, w.WriteColorTable([]Color{{9, 9, 9}}))
	require.NoError(t, w.WriteTrailer())
	require.NoError(t, w.Close())

	r := NewReader(bytes.NewReader(buf.Bytes()))
	_, err := r.ReadHeader()
	require.NoError(t, err)
	_, err = r.ReadLogicalScreenDescriptor()
	require.NoError(t, err)
	colors, err := r.ReadColorTable()
	require.NoError(t, err)
	require.Len(t, colors, 4)
	require.Equal(t, Color{9, 9, 9}, colors[0])
	require.Equal(t, Color{0, 0, 0}, colors[1])
}

func TestWriteImageDataRejectsWrongPixelCount(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	require.NoError(t, w.WriteHeader(Header{Version: Version89a}))
	require.NoError(t, w.WriteLogicalScreenDescriptor(LogicalScreenDescriptor{Width: 2, Height: 2}))
	require.NoError(t, w.WriteImageDescriptor(ImageDescriptor{Width: 2, Height: 2}))

	err := w.WriteImageData([]byte{0, 1, 2})
	require.Error(t, err)
	var ce *CodecError
	require.True(t, errors.As(err, &ce))
	require.Equal(t, InvalidArgument, ce.Kind)
}

func TestTableSizeFieldRejectsNonPowerOfTwo(t *testing.T) {
	require.Equal(t, -1, tableSizeField(3))
	require.Equal(t, -1, tableSizeField(0))
	require.Equal(t, 0, tableSizeField(2))
	require.Equal(t, 7, tableSizeField(256))
}

func TestMinCodeSizeFor(t *testing.T) {
	require.Equal(t, 2, minCodeSizeFor([]byte{0, 0, 0}))
	require.Equal(t, 2, minCodeSizeFor([]byte{0, 1, 2, 3}))
	require.Equal(t, 3, minCodeSizeFor([]byte{0, 4}))
	require.Equal(t, 8, minCodeSizeFor([]byte{255}))
}
