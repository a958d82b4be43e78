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

import (
	"bytes"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRoundTripSinglePixel(t *testing.T) {
	src := []byte{0x00}
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, 2, src))

	dst := make([]byte, 1)
	require.NoError(t, Decode(bytes.NewReader(buf.Bytes()), 2, dst))
	require.Equal(t, src, dst)
}

func TestRoundTrip2x2(t *testing.T) {
	src := []byte{0, 1, 2, 3}
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, 2, src))

	dst := make([]byte, 4)
	require.NoError(t, Decode(bytes.NewReader(buf.Bytes()), 2, dst))
	require.Equal(t, src, dst)
}

func TestRoundTripSmallBuffers(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for trial := 0; trial < 200; trial++ {
		minCodeSize := 2 + rng.Intn(7) // 2..8
		alphabet := 1 << uint(minCodeSize)
		n := rng.Intn(64)
		src := make([]byte, n)
		for i := range src {
			src[i] = byte(rng.Intn(alphabet))
		}

		var buf bytes.Buffer
		require.NoError(t, Encode(&buf, minCodeSize, src))

		dst := make([]byte, n)
		require.NoError(t, Decode(bytes.NewReader(buf.Bytes()), minCodeSize, dst))
		require.Equal(t, src, dst)
	}
}

func TestEncodeDeterministic(t *testing.T) {
	src := []byte{0, 1, 2, 3, 0, 1, 2, 3, 0, 1, 2, 3}
	var a, b bytes.Buffer
	require.NoError(t, Encode(&a, 2, src))
	require.NoError(t, Encode(&b, 2, src))
	require.Equal(t, a.Bytes(), b.Bytes())
}

func TestDecodeRejectsOverflow(t *testing.T) {
	src := bytes.Repeat([]byte{0, 1}, 40)
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, 2, src))

	dst := make([]byte, len(src)-1)
	err := Decode(bytes.NewReader(buf.Bytes()), 2, dst)
	require.Error(t, err)
	var lzwErr *Error
	require.ErrorAs(t, err, &lzwErr)
	require.Equal(t, Malformed, lzwErr.Kind)
}

func TestDecodeRejectsUnderflow(t *testing.T) {
	src := []byte{0, 1, 2, 3}
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, 2, src))

	dst := make([]byte, len(src)+1)
	err := Decode(bytes.NewReader(buf.Bytes()), 2, dst)
	require.Error(t, err)
	var lzwErr *Error
	require.ErrorAs(t, err, &lzwErr)
	require.Equal(t, Malformed, lzwErr.Kind)
}

func TestFullDictionaryStressRoundTrips(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	n := 1087 * 64
	src := make([]byte, n)
	for i := range src {
		src[i] = byte(rng.Intn(4))
	}

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, 2, src))

	dst := make([]byte, n)
	require.NoError(t, Decode(bytes.NewReader(buf.Bytes()), 2, dst))
	require.Equal(t, src, dst)
}
