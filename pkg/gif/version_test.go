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
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestVersionRoundTrip(t *testing.T) {
	for v := 0; v < 100*26; v++ {
		b, err := Version(v).Bytes()
		require.NoError(t, err)
		got, err := ParseVersion(b)
		require.NoError(t, err)
		require.Equal(t, Version(v), got)
	}
}

func TestVersionOutOfRangeIsInvalidArgument(t *testing.T) {
	_, err := Version(-1).Bytes()
	require.Error(t, err)
	_, err = Version(100 * 26).Bytes()
	require.Error(t, err)

	err = NewWriter(io.Discard).WriteHeader(Header{Version: 100 * 26})
	var ce *CodecError
	require.True(t, errors.As(err, &ce))
	require.Equal(t, InvalidArgument, ce.Kind)
}

func TestVersion87aAnd89aConstants(t *testing.T) {
	b, err := Version87a.Bytes()
	require.NoError(t, err)
	require.Equal(t, "87a", string(b[:]))

	b, err = Version89a.Bytes()
	require.NoError(t, err)
	require.Equal(t, "89a", string(b[:]))

	require.False(t, Version87a.AtLeast89a())
	require.True(t, Version89a.AtLeast89a())
	require.False(t, Version89a.IsFuture())
}
