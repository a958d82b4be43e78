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

import "github.com/ostafen/giflzw/internal/tracelog"

// config carries the construction-time options shared by Reader and
// Writer. It is built through functional options rather than exposed
// directly, the way the teacher's scanners take variadic Option
// values instead of a config struct literal.
type config struct {
	log             *tracelog.Logger
	closeUnderlying bool
	bufferSize      int
}

func defaultConfig() config {
	return config{
		log:        tracelog.Discard(),
		bufferSize: 4096,
	}
}

// Option configures a Reader or Writer.
type Option func(*config)

// WithLogger traces phase transitions and block boundaries at Debug
// level. The default is a discarding logger.
func WithLogger(l *tracelog.Logger) Option {
	return func(c *config) { c.log = l }
}

// WithCloseUnderlying makes Close also close the underlying stream,
// if it implements io.Closer.
func WithCloseUnderlying(close bool) Option {
	return func(c *config) { c.closeUnderlying = close }
}

// WithBufferSize sets the size of the internal read/write buffer.
// Ignored (no effect) if non-positive.
func WithBufferSize(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.bufferSize = n
		}
	}
}

func applyOptions(opts []Option) config {
	c := defaultConfig()
	for _, opt := range opts {
		opt(&c)
	}
	return c
}
