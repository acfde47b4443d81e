// Copyright 2026 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package section obtains the loadable sections of a firmware ELF file that
// are to be placed in the boot image.
package section

import (
	"errors"
	"fmt"
)

// Names of the recognized sections (without the leading dot). The text
// section determines the entry address of the program.
const (
	Text     = "text"
	ROData   = "rodata"
	Data     = "data"
	UBootCmd = "u_boot_cmd"
)

// Record describes a single section of the input ELF file.
type Record struct {
	Name   string // section name without the leading dot
	Addr   uint32 // load address
	Offset uint32 // offset in the ELF file to the beginning of the section data
	Size   uint32 // size of the section data
}

func (r Record) String() string {
	return fmt.Sprintf("%s %x %x %x", r.Name, r.Addr, r.Offset, r.Size)
}

// Table is the list of sections in the order they appear in the section
// header table.
type Table []Record

// Entry returns the address of the last text section in t or 0 if t contains
// no text section.
func (t Table) Entry() uint32 {
	var entry uint32
	for _, r := range t {
		if r.Name == Text {
			entry = r.Addr
		}
	}
	return entry
}

// Source is a provider of the section table.
type Source interface {
	Sections() (Table, error)
}

func recognized(name string) bool {
	switch name {
	case Text, ROData, Data, UBootCmd:
		return true
	}
	return false
}

// NewSource returns the Source of the given kind: "readelf" runs the tool
// command, "elf" reads the ELF file directly.
func NewSource(kind, tool, path string) (Source, error) {
	switch kind {
	case "", "readelf":
		if tool == "" {
			return nil, errors.New("no section listing tool configured")
		}
		return &Readelf{Command: tool, Path: path}, nil
	case "elf":
		return &ELF{Path: path}, nil
	}
	return nil, fmt.Errorf("unknown section source: %s", kind)
}
