// Copyright 2026 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package testelf writes minimal 32-bit little-endian ARM ELF files for tests.
package testelf

import (
	"bytes"
	"debug/elf"
	"encoding/binary"
	"os"
)

type Section struct {
	Name string
	Type elf.SectionType
	Addr uint32
	Data []byte
	Size uint32 // used instead of len(Data) for SHT_NOBITS
}

// Offsets returns the file offsets of the section data in the file written by
// Write.
func Offsets(ss []Section) []uint32 {
	offs := make([]uint32, len(ss))
	off := uint32(binary.Size(elf.Header32{}))
	for i, s := range ss {
		offs[i] = off
		if s.Type != elf.SHT_NOBITS {
			off += uint32(len(s.Data))
		}
	}
	return offs
}

// Write writes the ELF file with the given sections, in order, followed by
// the section name string table.
func Write(name string, entry uint32, ss []Section) error {
	var buf bytes.Buffer
	le := binary.LittleEndian
	offs := Offsets(ss)

	shstr := []byte{0}
	nameOff := make([]uint32, len(ss)+1)
	for i, s := range ss {
		nameOff[i] = uint32(len(shstr))
		shstr = append(append(shstr, s.Name...), 0)
	}
	nameOff[len(ss)] = uint32(len(shstr))
	shstr = append(shstr, ".shstrtab\x00"...)

	hdrSize := binary.Size(elf.Header32{})
	dataEnd := uint32(hdrSize)
	for _, s := range ss {
		if s.Type != elf.SHT_NOBITS {
			dataEnd += uint32(len(s.Data))
		}
	}
	strOff := dataEnd
	shoff := (strOff + uint32(len(shstr)) + 3) &^ 3

	h := elf.Header32{
		Type:      uint16(elf.ET_EXEC),
		Machine:   uint16(elf.EM_ARM),
		Version:   uint32(elf.EV_CURRENT),
		Entry:     entry,
		Shoff:     shoff,
		Ehsize:    uint16(hdrSize),
		Shentsize: uint16(binary.Size(elf.Section32{})),
		Shnum:     uint16(len(ss) + 2),
		Shstrndx:  uint16(len(ss) + 1),
	}
	copy(h.Ident[:], elf.ELFMAG)
	h.Ident[elf.EI_CLASS] = byte(elf.ELFCLASS32)
	h.Ident[elf.EI_DATA] = byte(elf.ELFDATA2LSB)
	h.Ident[elf.EI_VERSION] = byte(elf.EV_CURRENT)
	binary.Write(&buf, le, &h)

	for _, s := range ss {
		if s.Type != elf.SHT_NOBITS {
			buf.Write(s.Data)
		}
	}
	buf.Write(shstr)
	for uint32(buf.Len()) < shoff {
		buf.WriteByte(0)
	}

	binary.Write(&buf, le, &elf.Section32{})
	for i, s := range ss {
		size := uint32(len(s.Data))
		flags := uint32(elf.SHF_ALLOC)
		if s.Type == elf.SHT_NOBITS {
			size = s.Size
			flags |= uint32(elf.SHF_WRITE)
		}
		binary.Write(&buf, le, &elf.Section32{
			Name:      nameOff[i],
			Type:      uint32(s.Type),
			Flags:     flags,
			Addr:      s.Addr,
			Off:       offs[i],
			Size:      size,
			Addralign: 1,
		})
	}
	binary.Write(&buf, le, &elf.Section32{
		Name:      nameOff[len(ss)],
		Type:      uint32(elf.SHT_STRTAB),
		Off:       strOff,
		Size:      uint32(len(shstr)),
		Addralign: 1,
	})
	return os.WriteFile(name, buf.Bytes(), 0o644)
}
