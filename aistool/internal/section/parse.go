// Copyright 2026 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package section

import (
	"fmt"
	"regexp"
	"strconv"
)

// lineRE matches a readelf -S line describing one of the recognized sections:
//
//	[ 1] .text             PROGBITS        c1080000 008000 02a5d4 00  AX  0   0 32
//
// Only the last component of the section name is matched, so .init.text is
// a text section and .init.data is a data section.
var lineRE = regexp.MustCompile(
	`\.(text|rodata|data|u_boot_cmd)\s+PROGBITS\s+` +
		`([0-9a-fA-F]+)\s+([0-9a-fA-F]+)\s+([0-9a-fA-F]+)(?:\s|$)`,
)

// ParseError is returned when a line that looks like a section description
// contains a field that cannot be parsed as a 32-bit hexadecimal number.
type ParseError struct {
	Line  string
	Field string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("bad %s in %q: %v", e.Field, e.Line, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// ParseLine parses a single line of the section table. It reports false if
// the line does not describe any of the recognized sections.
func ParseLine(line string) (r Record, ok bool, err error) {
	m := lineRE.FindStringSubmatch(line)
	if m == nil {
		return
	}
	r.Name = m[1]
	fields := [...]struct {
		name string
		dst  *uint32
	}{
		{"address", &r.Addr},
		{"offset", &r.Offset},
		{"size", &r.Size},
	}
	for i, f := range fields {
		u, err := strconv.ParseUint(m[i+2], 16, 32)
		if err != nil {
			return Record{}, false, &ParseError{line, f.name, err}
		}
		*f.dst = uint32(u)
	}
	return r, true, nil
}

// Parse parses the section table lines. The lines that do not describe any
// of the recognized sections are skipped.
func Parse(lines []string) (Table, error) {
	var t Table
	for _, line := range lines {
		r, ok, err := ParseLine(line)
		if err != nil {
			return nil, err
		}
		if ok {
			t = append(t, r)
		}
	}
	return t, nil
}
