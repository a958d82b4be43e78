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

// Package lzw implements the GIF-flavored variable-width LZW coder:
// an 8-bit index stream on one side, a sub-blocked, little-endian-bit
// packed code stream on the other. It is deliberately not the stdlib
// compress/lzw package: this format's deferred-clear-on-full-dictionary
// behavior (see Encode) has no expression through that package's
// public API, and its decode bookkeeping (free_code/code_size growth,
// the KwK case) is specific enough to GIF that hand-writing it against
// the format's own rules is clearer than bending a general-purpose
// LZW implementation to match.
package lzw

import "fmt"

// Kind classifies an Error.
type Kind int

const (
	// Malformed means the code stream violates the format: an
	// out-of-range code, trailing garbage after the end code, or
	// output that would overflow the destination buffer.
	Malformed Kind = iota
	// Truncated means the underlying byte source ended before a
	// complete code, or before the expected end code / terminating
	// sub-block, could be read.
	Truncated
)

// Error is returned by Decode and Encode. Kind lets the caller choose
// how to classify it (e.g. the gif package maps Malformed/Truncated
// onto its own error taxonomy); Msg identifies which invariant failed.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("lzw: %s: %v", e.Msg, e.Err)
	}
	return fmt.Sprintf("lzw: %s", e.Msg)
}

func (e *Error) Unwrap() error { return e.Err }

func malformed(msg string) error { return &Error{Kind: Malformed, Msg: msg} }

func truncated(msg string, err error) error { return &Error{Kind: Truncated, Msg: msg, Err: err} }
