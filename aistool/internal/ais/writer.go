// Copyright 2026 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ais

import (
	"encoding/binary"
	"io"
)

// Writer writes AIS words and raw data to the underlying io.Writer.
type Writer struct {
	w   io.Writer
	n   int64
	buf []byte
}

func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w, buf: make([]byte, 0, 64)}
}

// Words writes the words in little-endian byte order.
func (w *Writer) Words(words ...uint32) error {
	b := w.buf[:0]
	for _, u := range words {
		b = binary.LittleEndian.AppendUint32(b, u)
	}
	w.buf = b[:0]
	_, err := w.Write(b)
	return err
}

func (w *Writer) Write(p []byte) (n int, err error) {
	n, err = w.w.Write(p)
	w.n += int64(n)
	return
}

// Len returns the number of bytes written so far.
func (w *Writer) Len() int64 { return w.n }

// JumpClose writes the JUMP_CLOSE command that terminates the image.
func (w *Writer) JumpClose(entry uint32) error {
	return w.Words(OpJumpClose, entry)
}
