// Copyright 2026 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ais

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/embeddedgo/ais/aistool/internal/section"
)

// ErrTruncated is matched by TruncatedError.
var ErrTruncated = errors.New("truncated input")

// TruncatedError is returned when the input file contains fewer bytes at the
// section offset than the section size.
type TruncatedError struct {
	Section section.Record
	N       int // number of bytes available
}

func (e *TruncatedError) Error() string {
	return fmt.Sprintf(
		"section .%s: %v: %d of %d bytes available at offset %#x",
		e.Section.Name, ErrTruncated, e.N, e.Section.Size, e.Section.Offset,
	)
}

func (e *TruncatedError) Is(target error) bool { return target == ErrTruncated }

var zeros [3]byte

// MaxSectionSize is the largest section size whose padded size fits in the
// 32-bit size word of SECTION_LOAD.
const MaxSectionSize = 0xffff_fffc

// EncodeSection writes the SECTION_LOAD command for the section r followed by
// its data read from in and zero padding to the multiple of 4 bytes. It
// returns the number of padding bytes.
func EncodeSection(w *Writer, in io.ReaderAt, r section.Record) (pad int, err error) {
	if r.Size > MaxSectionSize {
		return 0, fmt.Errorf(
			"section .%s: size %#x exceeds %#x", r.Name, r.Size, MaxSectionSize,
		)
	}
	// The buffer grows with the data actually read, so a bogus size in the
	// section table can't force a huge allocation.
	var data bytes.Buffer
	n, err := io.CopyN(&data, io.NewSectionReader(in, int64(r.Offset), int64(r.Size)), int64(r.Size))
	if err != nil {
		if err == io.EOF {
			return 0, &TruncatedError{r, int(n)}
		}
		return 0, fmt.Errorf("read section .%s: %w", r.Name, err)
	}
	size := Pad4(r.Size)
	if err = w.Words(OpSectionLoad, r.Addr, size); err != nil {
		return
	}
	if _, err = w.Write(data.Bytes()); err != nil {
		return
	}
	pad = int(size - r.Size)
	_, err = w.Write(zeros[:pad])
	return
}
