// Copyright 2026 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ais

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"

	"github.com/embeddedgo/ais/aistool/internal/section"
)

func TestPad4(t *testing.T) {
	t.Parallel()
	for s := uint32(0); s < 64; s++ {
		p := Pad4(s)
		if p%4 != 0 || p < s || p-s > 3 {
			t.Fatalf("Pad4(%d) = %d", s, p)
		}
		if s%4 == 0 && p != s {
			t.Fatalf("Pad4(%d) = %d, want %d", s, p, s)
		}
	}
	if p := Pad4(0xfffffff0); p != 0xfffffff0 {
		t.Fatalf("Pad4(0xfffffff0) = %#x", p)
	}
}

// input returns n bytes of distinct non-zero data.
func input(n int) []byte {
	b := make([]byte, n)
	for i := range b {
		b[i] = byte(i%251 + 1)
	}
	return b
}

func words(b []byte) []uint32 {
	ws := make([]uint32, len(b)/4)
	for i := range ws {
		ws[i] = binary.LittleEndian.Uint32(b[i*4:])
	}
	return ws
}

func TestEncodeSection(t *testing.T) {
	t.Parallel()
	in := input(256)
	for size := uint32(0); size <= 9; size++ {
		r := section.Record{Name: section.Data, Addr: 0xc0000000 + size, Offset: 17, Size: size}
		var buf bytes.Buffer
		w := NewWriter(&buf)
		pad, err := EncodeSection(w, bytes.NewReader(in), r)
		if err != nil {
			t.Fatalf("size %d: %v", size, err)
		}
		padded := Pad4(size)
		if pad != int(padded-size) {
			t.Fatalf("size %d: pad = %d, want %d", size, pad, padded-size)
		}
		out := buf.Bytes()
		if len(out) != 12+int(padded) || w.Len() != int64(len(out)) {
			t.Fatalf("size %d: wrote %d bytes (Len %d)", size, len(out), w.Len())
		}
		hdr := words(out[:12])
		if hdr[0] != OpSectionLoad || hdr[1] != r.Addr || hdr[2] != padded {
			t.Fatalf("size %d: bad header %08x", size, hdr)
		}
		payload := out[12:]
		if !bytes.Equal(payload[:size], in[17:17+size]) {
			t.Fatalf("size %d: payload differs from input", size)
		}
		for _, b := range payload[size:] {
			if b != 0 {
				t.Fatalf("size %d: non-zero padding % x", size, payload[size:])
			}
		}
	}
}

func TestEncodeSectionPadsOneByte(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	r := section.Record{Name: section.ROData, Addr: 0x8000, Offset: 0, Size: 3}
	pad, err := EncodeSection(NewWriter(&buf), bytes.NewReader([]byte{0xaa, 0xbb, 0xcc}), r)
	if err != nil {
		t.Fatal(err)
	}
	want := []byte{
		0x01, 0x59, 0x53, 0x58, // SECTION_LOAD
		0x00, 0x80, 0x00, 0x00,
		0x04, 0x00, 0x00, 0x00,
		0xaa, 0xbb, 0xcc, 0x00,
	}
	if pad != 1 || !bytes.Equal(buf.Bytes(), want) {
		t.Fatalf("pad=%d\ngot  % x\nwant % x", pad, buf.Bytes(), want)
	}
}

func TestEncodeEmptySection(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	r := section.Record{Name: section.Data, Addr: 0x9000, Offset: 1000, Size: 0}
	pad, err := EncodeSection(NewWriter(&buf), bytes.NewReader(nil), r)
	if err != nil {
		t.Fatal(err)
	}
	ws := words(buf.Bytes())
	if pad != 0 || buf.Len() != 12 || ws[0] != OpSectionLoad || ws[1] != 0x9000 || ws[2] != 0 {
		t.Fatalf("pad=%d got % x", pad, buf.Bytes())
	}
}

func TestEncodeTruncated(t *testing.T) {
	t.Parallel()
	in := input(32)
	for _, r := range []section.Record{
		{Name: section.Text, Offset: 30, Size: 4},
		{Name: section.Text, Offset: 40, Size: 1},
	} {
		var buf bytes.Buffer
		_, err := EncodeSection(NewWriter(&buf), bytes.NewReader(in), r)
		var te *TruncatedError
		if !errors.As(err, &te) || !errors.Is(err, ErrTruncated) {
			t.Fatalf("%v: got %v, want TruncatedError", r, err)
		}
		if r.Offset == 30 && te.N != 2 {
			t.Fatalf("available bytes: got %d, want 2", te.N)
		}
		if buf.Len() != 0 {
			t.Fatalf("%v: %d bytes written before the error", r, buf.Len())
		}
	}
}

func TestEncodeBogusSize(t *testing.T) {
	t.Parallel()
	in := input(32)
	var buf bytes.Buffer
	r := section.Record{Name: section.Data, Offset: 0, Size: 0xf000_0000}
	_, err := EncodeSection(NewWriter(&buf), bytes.NewReader(in), r)
	var te *TruncatedError
	if !errors.As(err, &te) || te.N != 32 {
		t.Fatalf("got %v, want TruncatedError with 32 bytes available", err)
	}
	for _, size := range []uint32{0xffff_fffd, 0xffff_ffff} {
		r := section.Record{Name: section.Data, Size: size}
		_, err := EncodeSection(NewWriter(&buf), bytes.NewReader(in), r)
		if err == nil || errors.Is(err, ErrTruncated) {
			t.Fatalf("size %#x: got %v, want size error", size, err)
		}
	}
	if buf.Len() != 0 {
		t.Fatalf("%d bytes written before the error", buf.Len())
	}
	if p := Pad4(MaxSectionSize); p != MaxSectionSize {
		t.Fatalf("Pad4(MaxSectionSize) = %#x", p)
	}
}
