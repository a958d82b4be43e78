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
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestEmptyScreenRoundTrip covers the seed scenario: a header, a
// logical screen descriptor with no global color table, and a
// trailer, nothing else.
func TestEmptyScreenRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	require.NoError(t, w.WriteHeader(Header{Version: Version87a}))
	require.NoError(t, w.WriteLogicalScreenDescriptor(LogicalScreenDescriptor{}))
	require.NoError(t, w.WriteTrailer())
	require.NoError(t, w.Close())

	r := NewReader(bytes.NewReader(buf.Bytes()))

	kind, err := r.PeekPart()
	require.NoError(t, err)
	require.Equal(t, PartHeader, kind)
	hdr, err := r.ReadHeader()
	require.NoError(t, err)
	require.Equal(t, Version87a, hdr.Version)

	kind, err = r.PeekPart()
	require.NoError(t, err)
	require.Equal(t, PartLogicalScreenDescriptor, kind)
	lsd, err := r.ReadLogicalScreenDescriptor()
	require.NoError(t, err)
	require.False(t, lsd.HasGlobalColorTable)

	kind, err = r.PeekPart()
	require.NoError(t, err)
	require.Equal(t, PartTrailer, kind)
	require.Equal(t, PhaseDone, r.Phase())
}

// TestSinglePixelImageRoundTrip mirrors the minimal 1x1-image seed
// scenario: header, screen descriptor, one image with a local color
// table, then trailer.
func TestSinglePixelImageRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	require.NoError(t, w.WriteHeader(Header{Version: Version89a}))
	require.NoError(t, w.WriteLogicalScreenDescriptor(LogicalScreenDescriptor{Width: 1, Height: 1}))
	require.NoError(t, w.WriteImageDescriptor(ImageDescriptor{
		Width: 1, Height: 1,
		HasLocalColorTable:  true,
		LocalColorTableSize: 2,
	}))
	require.NoError(t, w.WriteColorTable([]Color{{0, 0, 0}, {255, 255, 255}}))
	require.NoError(t, w.WriteImageData([]byte{0x00}))
	require.NoError(t, w.WriteTrailer())
	require.NoError(t, w.Close())

	r := NewReader(bytes.NewReader(buf.Bytes()))

	_, err := r.PeekPart()
	require.NoError(t, err)
	_, err = r.ReadHeader()
	require.NoError(t, err)

	_, err = r.PeekPart()
	require.NoError(t, err)
	lsd, err := r.ReadLogicalScreenDescriptor()
	require.NoError(t, err)
	require.False(t, lsd.HasGlobalColorTable)

	kind, err := r.PeekPart()
	require.NoError(t, err)
	require.Equal(t, PartImageDescriptor, kind)
	id, err := r.ReadImageDescriptor()
	require.NoError(t, err)
	require.True(t, id.HasLocalColorTable)

	kind, err = r.PeekPart()
	require.NoError(t, err)
	require.Equal(t, PartLocalColorTable, kind)
	colors, err := r.ReadColorTable()
	require.NoError(t, err)
	require.Len(t, colors, 2)

	kind, err = r.PeekPart()
	require.NoError(t, err)
	require.Equal(t, PartImageData, kind)
	pixels, err := r.ReadImageData()
	require.NoError(t, err)
	require.Equal(t, []byte{0x00}, pixels)

	kind, err = r.PeekPart()
	require.NoError(t, err)
	require.Equal(t, PartTrailer, kind)
}

// TestFullRoundTripRandomImages is the "any valid input stream"
// property from spec.md §8: random width x height, random palette,
// random indices, written then read reproduces the same pixel buffer.
func TestFullRoundTripRandomImages(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for trial := 0; trial < 50; trial++ {
		width := 1 + rng.Intn(64)
		height := 1 + rng.Intn(64)
		paletteSize := 2 << uint(rng.Intn(4)) // 2,4,8,16
		palette := make([]Color, paletteSize)
		for i := range palette {
			palette[i] = Color{R: byte(rng.Intn(256)), G: byte(rng.Intn(256)), B: byte(rng.Intn(256))}
		}
		pixels := make([]byte, width*height)
		for i := range pixels {
			pixels[i] = byte(rng.Intn(paletteSize))
		}

		var buf bytes.Buffer
		w := NewWriter(&buf)
		require.NoError(t, w.WriteHeader(Header{Version: Version89a}))
		require.NoError(t, w.WriteLogicalScreenDescriptor(LogicalScreenDescriptor{
			Width: uint16(width), Height: uint16(height),
		}))
		require.NoError(t, w.WriteImageDescriptor(ImageDescriptor{
			Width: uint16(width), Height: uint16(height),
			HasLocalColorTable:  true,
			LocalColorTableSize: paletteSize,
		}))
		require.NoError(t, w.WriteColorTable(palette))
		require.NoError(t, w.WriteImageData(pixels))
		require.NoError(t, w.WriteTrailer())
		require.NoError(t, w.Close())

		r := NewReader(bytes.NewReader(buf.Bytes()))
		_, err := r.PeekPart()
		require.NoError(t, err)
		_, err = r.ReadHeader()
		require.NoError(t, err)
		_, err = r.PeekPart()
		require.NoError(t, err)
		_, err = r.ReadLogicalScreenDescriptor()
		require.NoError(t, err)
		_, err = r.PeekPart()
		require.NoError(t, err)
		_, err = r.ReadImageDescriptor()
		require.NoError(t, err)
		_, err = r.PeekPart()
		require.NoError(t, err)
		gotColors, err := r.ReadColorTable()
		require.NoError(t, err)
		require.Equal(t, palette, gotColors)
		_, err = r.PeekPart()
		require.NoError(t, err)
		got, err := r.ReadImageData()
		require.NoError(t, err)
		require.Equal(t, pixels, got)
		kind, err := r.PeekPart()
		require.NoError(t, err)
		require.Equal(t, PartTrailer, kind)
	}
}

// TestCommentExtensionRoundTrip is the comment-extension seed
// scenario at version 89a.
func TestCommentExtensionRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	require.NoError(t, w.WriteHeader(Header{Version: Version89a}))
	require.NoError(t, w.WriteLogicalScreenDescriptor(LogicalScreenDescriptor{}))
	require.NoError(t, w.WriteExtensionLabel(LabelComment))
	require.NoError(t, w.WriteSubblock([]byte("hello")))
	require.NoError(t, w.WriteBlockTerminator())
	require.NoError(t, w.WriteTrailer())
	require.NoError(t, w.Close())

	r := NewReader(bytes.NewReader(buf.Bytes()))
	_, err := r.PeekPart()
	require.NoError(t, err)
	_, err = r.ReadHeader()
	require.NoError(t, err)
	_, err = r.PeekPart()
	require.NoError(t, err)
	_, err = r.ReadLogicalScreenDescriptor()
	require.NoError(t, err)

	kind, err := r.PeekPart()
	require.NoError(t, err)
	require.Equal(t, PartExtensionLabel, kind)
	label, err := r.ReadExtensionLabel()
	require.NoError(t, err)
	require.Equal(t, LabelComment, label)

	data, err := r.ReadSubblock()
	require.NoError(t, err)
	require.Equal(t, []byte("hello"), data)

	data, err = r.ReadSubblock()
	require.NoError(t, err)
	require.Nil(t, data)
	require.Equal(t, PhaseAwaitingBlockLabel, r.Phase())

	kind, err = r.PeekPart()
	require.NoError(t, err)
	require.Equal(t, PartTrailer, kind)
}

// TestNetscapeLoopingRoundTrip is the Netscape 2.0 looping seed
// scenario.
func TestNetscapeLoopingRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	require.NoError(t, w.WriteHeader(Header{Version: Version89a}))
	require.NoError(t, w.WriteLogicalScreenDescriptor(LogicalScreenDescriptor{}))

	ae := ApplicationExtension{AuthCode: [3]byte{'2', '.', '0'}}
	copy(ae.Identifier[:], "NETSCAPE")
	require.NoError(t, w.WriteApplicationExtension(ae))
	require.NoError(t, w.WriteNetscapeSubblock(NetscapeSubblock{Kind: NetscapeLooping, LoopCount: 0}))
	require.NoError(t, w.WriteBlockTerminator())
	require.NoError(t, w.WriteTrailer())
	require.NoError(t, w.Close())

	r := NewReader(bytes.NewReader(buf.Bytes()))
	_, err := r.PeekPart()
	require.NoError(t, err)
	_, err = r.ReadHeader()
	require.NoError(t, err)
	_, err = r.PeekPart()
	require.NoError(t, err)
	_, err = r.ReadLogicalScreenDescriptor()
	require.NoError(t, err)

	_, err = r.PeekPart()
	require.NoError(t, err)
	label, err := r.ReadExtensionLabel()
	require.NoError(t, err)
	require.Equal(t, LabelApplication, label)

	gotAE, err := r.ReadApplicationExtension()
	require.NoError(t, err)
	require.Equal(t, ae, gotAE)

	ns, err := r.ReadNetscapeSubblock()
	require.NoError(t, err)
	require.Equal(t, NetscapeLooping, ns.Kind)
	require.EqualValues(t, 0, ns.LoopCount)

	ns, err = r.ReadNetscapeSubblock()
	require.NoError(t, err)
	require.Nil(t, ns)

	kind, err := r.PeekPart()
	require.NoError(t, err)
	require.Equal(t, PartTrailer, kind)
}
