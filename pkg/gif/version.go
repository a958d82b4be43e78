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

import "fmt"

// Version is the three-character suffix after "GIF" in the header,
// encoded as a dense integer so versions are totally ordered.
//
// Encoding: ((d0*10 + d1 + 100 - 87) % 100) * 26 + (d2 - 'a'), where
// d0, d1 are the two decimal digits and d2 the trailing lowercase
// letter. This makes "87a" < "89a" < any later version sort correctly
// without string comparison.
type Version int

const (
	Version87a Version = 0
	Version89a Version = 2 * 26 // (89-87)*26 + ('a'-'a')

	maxVersion = 100 * 26
)

// ParseVersion decodes the three bytes following "GIF" in a header.
// b[0], b[1] must be ASCII decimal digits; b[2] must be a lowercase
// ASCII letter a-z.
func ParseVersion(b [3]byte) (Version, error) {
	if b[0] < '0' || b[0] > '9' || b[1] < '0' || b[1] > '9' {
		return 0, fmt.Errorf("gif: version digits %q are not decimal", b[0:2])
	}
	if b[2] < 'a' || b[2] > 'z' {
		return 0, fmt.Errorf("gif: version letter %q is not lowercase a-z", b[2])
	}
	d0 := int(b[0] - '0')
	d1 := int(b[1] - '0')
	d2 := int(b[2] - 'a')
	return Version(((d0*10+d1+100-87)%100)*26 + d2), nil
}

// Bytes encodes v back into the three ASCII bytes following "GIF".
func (v Version) Bytes() ([3]byte, error) {
	if v < 0 || v >= maxVersion {
		return [3]byte{}, fmt.Errorf("gif: version %d out of encodable range", int(v))
	}
	n := int(v)
	letter := n % 26
	hundred := n / 26
	decimal := (hundred + 87 - 100) // may be negative before the mod below
	decimal = ((decimal % 100) + 100) % 100
	return [3]byte{
		byte('0' + decimal/10),
		byte('0' + decimal%10),
		byte('a' + letter),
	}, nil
}

func (v Version) String() string {
	b, err := v.Bytes()
	if err != nil {
		return fmt.Sprintf("Version(%d)", int(v))
	}
	return "GIF" + string(b[:])
}

// AtLeast89a reports whether v is 89a or newer (including unknown
// future versions).
func (v Version) AtLeast89a() bool { return v >= Version89a }

// IsFuture reports whether v is strictly newer than 89a.
func (v Version) IsFuture() bool { return v > Version89a }
