// Copyright 2026 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ais

import (
	"io"

	"github.com/embeddedgo/ais/aistool/internal/section"
)

// Target is a destination of a boot image.
type Target struct {
	Preamble Preamble
	W        io.Writer
}

// Report receives the progress of WriteImages. Nil fields are ignored.
type Report struct {
	// Section is called before the section data is read.
	Section func(r section.Record)
	// Padding is called after the section was written to all targets.
	Padding func(r section.Record, pad int)
}

// WriteImages writes a boot image to every target. Each image consists of the
// target's preamble, one SECTION_LOAD command per section in t (the data is
// read from in) and the JUMP_CLOSE command with the t.Entry() address.
// Every section is read and encoded once and the same bytes go to all
// targets, so the images differ only in their preambles.
func WriteImages(in io.ReaderAt, t section.Table, report *Report, targets ...Target) error {
	ws := make([]io.Writer, len(targets))
	for i, tg := range targets {
		if err := NewWriter(tg.W).Words(tg.Preamble...); err != nil {
			return err
		}
		ws[i] = tg.W
	}
	w := NewWriter(io.MultiWriter(ws...))
	if report == nil {
		report = new(Report)
	}
	for _, r := range t {
		if report.Section != nil {
			report.Section(r)
		}
		pad, err := EncodeSection(w, in, r)
		if err != nil {
			return err
		}
		if report.Padding != nil {
			report.Padding(r, pad)
		}
	}
	return w.JumpClose(t.Entry())
}

// Assemble writes a single boot image to w.
func Assemble(w io.Writer, p Preamble, t section.Table, in io.ReaderAt) error {
	return WriteImages(in, t, nil, Target{p, w})
}
