// Copyright 2026 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package section

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// ToolError is returned when the section listing tool cannot be run or exits
// with a non-zero status.
type ToolError struct {
	Command string
	Stderr  string
	Err     error
}

func (e *ToolError) Error() string {
	s := fmt.Sprintf("%s: %v", e.Command, e.Err)
	if e.Stderr != "" {
		s += ": " + e.Stderr
	}
	return s
}

func (e *ToolError) Unwrap() error { return e.Err }

// Extract runs the shell command line with the ELF file name appended as the
// last argument and returns its standard output split into lines.
func Extract(command, elf string) ([]string, error) {
	cmd := exec.Command("sh", "-c", command+` "$@"`, "sh", elf)
	out, err := cmd.Output()
	if err != nil {
		te := &ToolError{Command: command + " " + elf, Err: err}
		var ee *exec.ExitError
		if errors.As(err, &ee) {
			te.Stderr = strings.TrimSpace(string(ee.Stderr))
		}
		return nil, te
	}
	var lines []string
	sc := bufio.NewScanner(bytes.NewReader(out))
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read %s output: %w", command, err)
	}
	return lines, nil
}

// Readelf is a Source that parses the output of an external readelf-like
// tool.
type Readelf struct {
	Command string // tool with its options, e.g. "arm-linux-readelf -S"
	Path    string // ELF file
}

func (r *Readelf) Sections() (Table, error) {
	lines, err := Extract(r.Command, r.Path)
	if err != nil {
		return nil, err
	}
	return Parse(lines)
}
