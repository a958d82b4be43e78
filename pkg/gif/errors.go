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
	"fmt"
	"io"
)

// Kind classifies a CodecError.
type Kind int

const (
	// InvalidState means the caller invoked an operation that is not
	// legal in the codec's current phase, or any operation after the
	// phase became Error. It never mutates the phase.
	InvalidState Kind = iota
	// InvalidArgument means the caller passed a value outside its
	// documented domain. It never mutates the phase.
	InvalidArgument
	// Truncated means the underlying stream ended before enough bytes
	// could be read. It transitions the phase to Error.
	Truncated
	// Malformed means bytes were read but violate the wire format.
	// It transitions the phase to Error.
	Malformed
	// Io means the underlying stream returned a non-EOF I/O error.
	// It transitions the phase to Error.
	Io
)

func (k Kind) String() string {
	switch k {
	case InvalidState:
		return "InvalidState"
	case InvalidArgument:
		return "InvalidArgument"
	case Truncated:
		return "Truncated"
	case Malformed:
		return "Malformed"
	case Io:
		return "Io"
	default:
		return "Unknown"
	}
}

// CodecError is the error type returned by every Reader and Writer
// operation that fails. Callers should compare against a Kind with
// errors.As, not against a sentinel value.
type CodecError struct {
	Kind Kind
	Op   string // operation name, e.g. "ReadImageData"
	Msg  string // short message identifying which invariant failed
	Err  error  // wrapped cause, if any (e.g. an underlying io error)
}

func (e *CodecError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("gif: %s: %s: %v", e.Op, e.Msg, e.Err)
	}
	return fmt.Sprintf("gif: %s: %s", e.Op, e.Msg)
}

func (e *CodecError) Unwrap() error { return e.Err }

func newErr(kind Kind, op, msg string, err error) error {
	return &CodecError{Kind: kind, Op: op, Msg: msg, Err: err}
}

func wrapErr(kind Kind, op, msg string, err error) error {
	return &CodecError{Kind: kind, Op: op, Msg: msg, Err: err}
}

// invalidState builds the InvalidState error every operation returns
// when called from a phase it does not support.
func invalidState(op string, phase fmt.Stringer) error {
	return newErr(InvalidState, op, fmt.Sprintf("not legal in phase %s", phase), nil)
}

// ioOrTruncated classifies an I/O error from the underlying stream:
// io.EOF (or its ErrUnexpectedEOF sibling) means the stream ended
// early (Truncated); anything else is a genuine Io failure.
func ioOrTruncated(op string, err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return wrapErr(Truncated, op, "unexpected end of stream", err)
	}
	return wrapErr(Io, op, "underlying stream error", err)
}
