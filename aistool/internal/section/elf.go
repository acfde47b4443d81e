// Copyright 2026 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package section

import (
	"debug/elf"
	"fmt"
	"os"
	"strings"
)

// ELF is a Source that reads the section header table of the ELF file
// directly, without any external tool.
type ELF struct {
	Path string
}

func (e *ELF) Sections() (Table, error) {
	r, err := os.Open(e.Path)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	f, err := elf.NewFile(r)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var t Table
	for _, s := range f.Sections {
		if s.Type != elf.SHT_PROGBITS {
			continue
		}
		i := strings.LastIndexByte(s.Name, '.')
		if i < 0 || !recognized(s.Name[i+1:]) {
			continue
		}
		name := s.Name[i+1:]
		if s.Addr > 0xffff_ffff || s.Offset > 0xffff_ffff || s.Size > 0xffff_ffff {
			return nil, fmt.Errorf(
				"%s: section %s doesn't fit in 32-bit address space",
				e.Path, s.Name,
			)
		}
		t = append(t, Record{name, uint32(s.Addr), uint32(s.Offset), uint32(s.Size)})
	}
	return t, nil
}
