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

// Package mmapfile memory-maps a GIF file read-only so a pkg/gif.Reader
// can be pointed at it without buffering the whole stream into the
// process heap first.
package mmapfile

import (
	"fmt"
	"io"
	"os"
)

// File is a memory-mapped, read-only view of a file, exposed through
// io.Reader/io.Closer so it can sit behind a bufio.Reader the same way
// any other byte source does.
type File struct {
	data []byte
	pos  int64
	f    *os.File
}

// Open memory-maps path for reading. The returned File must be closed
// to release the mapping.
func Open(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("mmapfile: open %s: %w", path, err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("mmapfile: stat %s: %w", path, err)
	}
	if info.Size() == 0 {
		return &File{f: f}, nil
	}
	data, err := mmap(f, info.Size())
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("mmapfile: mmap %s: %w", path, err)
	}
	return &File{data: data, f: f}, nil
}

// Read implements io.Reader over the mapped region.
func (m *File) Read(p []byte) (int, error) {
	if m.pos >= int64(len(m.data)) {
		return 0, io.EOF
	}
	n := copy(p, m.data[m.pos:])
	m.pos += int64(n)
	return n, nil
}

// ReadByte implements io.ByteReader.
func (m *File) ReadByte() (byte, error) {
	if m.pos >= int64(len(m.data)) {
		return 0, io.EOF
	}
	b := m.data[m.pos]
	m.pos++
	return b, nil
}

// ReadAt implements io.ReaderAt over the mapped region.
func (m *File) ReadAt(p []byte, off int64) (int, error) {
	if off < 0 || off >= int64(len(m.data)) {
		return 0, io.EOF
	}
	n := copy(p, m.data[off:])
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

// Close unmaps the region and closes the underlying file.
func (m *File) Close() error {
	if m.data != nil {
		if err := unmap(m.data); err != nil {
			m.f.Close()
			return fmt.Errorf("mmapfile: munmap: %w", err)
		}
	}
	return m.f.Close()
}
