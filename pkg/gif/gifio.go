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
	"bufio"
	"fmt"
	"os"
)

// EncodeToFile creates (or truncates) path, wraps it in a buffered
// Writer, lets build drive that Writer to completion, and flushes and
// closes the file. If build returns an error or the Writer is left
// before phase Done, the partially written file is still closed but
// the error is returned to the caller.
func EncodeToFile(path string, build func(*Writer) error, opts ...Option) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("gif: create %s: %w", path, err)
	}

	bw := bufio.NewWriterSize(f, 32*1024)
	w := NewWriter(bw, opts...)

	if err := build(w); err != nil {
		f.Close()
		return err
	}
	if w.Phase() != WPhaseDone {
		f.Close()
		return newErr(InvalidState, "EncodeToFile", "build did not reach phase Done", nil)
	}
	if err := w.Close(); err != nil {
		f.Close()
		return fmt.Errorf("gif: flush %s: %w", path, err)
	}
	if err := bw.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("gif: flush %s: %w", path, err)
	}
	return f.Close()
}
