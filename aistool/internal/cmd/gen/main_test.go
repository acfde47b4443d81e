// Copyright 2026 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gen

import (
	"bytes"
	"context"
	"debug/elf"
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/urfave/cli/v3"

	"github.com/embeddedgo/ais/aistool/internal/ais"
	"github.com/embeddedgo/ais/aistool/internal/board"
	"github.com/embeddedgo/ais/aistool/internal/section"
	"github.com/embeddedgo/ais/aistool/internal/testelf"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

// setup returns the configuration with all files placed in a temporary
// directory and a fake readelf that prints the listing.
func setup(t *testing.T, listing string, input []byte) *board.Config {
	t.Helper()
	dir := t.TempDir()
	cfg := board.Default()
	cfg.Input = filepath.Join(dir, "u-boot")
	cfg.NAND.Output = filepath.Join(dir, "u-boot_nand.ais")
	cfg.UART.Output = filepath.Join(dir, "u-boot_uart.ais")
	lst := filepath.Join(dir, "listing.txt")
	if err := os.WriteFile(lst, []byte(listing), 0o644); err != nil {
		t.Fatal(err)
	}
	tool := filepath.Join(dir, "readelf")
	script := "#!/bin/sh\ncat '" + lst + "'\n"
	if err := os.WriteFile(tool, []byte(script), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg.Tool = "sh " + tool
	if err := os.WriteFile(cfg.Input, input, 0o644); err != nil {
		t.Fatal(err)
	}
	return &cfg
}

func data(n int) []byte {
	b := make([]byte, n)
	for i := range b {
		b[i] = byte(i*7 + 1)
	}
	return b
}

func preambleBytes(ws board.Words) []byte {
	var buf bytes.Buffer
	ais.NewWriter(&buf).Words(ws.Preamble()...)
	return buf.Bytes()
}

func readImages(t *testing.T, cfg *board.Config) (nandBody, uartBody []byte) {
	t.Helper()
	nand, err := os.ReadFile(cfg.NAND.Output)
	if err != nil {
		t.Fatal(err)
	}
	uart, err := os.ReadFile(cfg.UART.Output)
	if err != nil {
		t.Fatal(err)
	}
	np, up := preambleBytes(cfg.NAND.Preamble), preambleBytes(cfg.UART.Preamble)
	if !bytes.HasPrefix(nand, np) || !bytes.HasPrefix(uart, up) {
		t.Fatal("images don't start with their preambles")
	}
	return nand[len(np):], uart[len(up):]
}

func TestRunReadelf(t *testing.T) {
	t.Parallel()
	in := data(0x1100)
	cfg := setup(t, "  [ 1] .text             PROGBITS        00008000 001000 000010 00  AX  0   0 32\n", in)
	src, err := section.NewSource("readelf", cfg.Tool, cfg.Input)
	if err != nil {
		t.Fatal(err)
	}
	var report bytes.Buffer
	if err := Run(discard, &report, cfg, src, false); err != nil {
		t.Fatal(err)
	}
	nand, uart := readImages(t, cfg)
	if !bytes.Equal(nand, uart) {
		t.Fatal("NAND and UART bodies differ")
	}
	var want bytes.Buffer
	w := ais.NewWriter(&want)
	w.Words(ais.OpSectionLoad, 0x8000, 0x10)
	w.Write(in[0x1000:0x1010])
	w.JumpClose(0x8000)
	if !bytes.Equal(nand, want.Bytes()) {
		t.Fatalf("body\ngot  % x\nwant % x", nand, want.Bytes())
	}
	rep := report.String()
	if !strings.Contains(rep, "text 8000 1000 10\n") || !strings.Contains(rep, "padding 0 for section .text\n") {
		t.Fatalf("unexpected report:\n%s", rep)
	}
}

func TestRunNoSections(t *testing.T) {
	t.Parallel()
	cfg := setup(t, "Section Headers:\n  [ 1] .bss NOBITS 00008000 001000 000010\n", data(16))
	src := &section.Readelf{Command: cfg.Tool, Path: cfg.Input}
	if err := Run(discard, nil, cfg, src, false); err != nil {
		t.Fatal(err)
	}
	nand, uart := readImages(t, cfg)
	want := []byte{0x06, 0x59, 0x53, 0x58, 0, 0, 0, 0}
	if !bytes.Equal(nand, want) || !bytes.Equal(uart, want) {
		t.Fatalf("got % x and % x, want % x", nand, uart, want)
	}
}

func TestRunELF(t *testing.T) {
	t.Parallel()
	ss := []testelf.Section{
		{Name: ".text", Type: elf.SHT_PROGBITS, Addr: 0xc1080000, Data: data(0x25)},
		{Name: ".rodata", Type: elf.SHT_PROGBITS, Addr: 0xc1080028, Data: data(3)},
		{Name: ".data", Type: elf.SHT_PROGBITS, Addr: 0xc108002c, Data: data(8)},
		{Name: ".u_boot_cmd", Type: elf.SHT_PROGBITS, Addr: 0xc1080034},
		{Name: ".bss", Type: elf.SHT_NOBITS, Addr: 0xc1080040, Size: 0x400},
	}
	cfg := setup(t, "", nil)
	if err := testelf.Write(cfg.Input, 0xc1080000, ss); err != nil {
		t.Fatal(err)
	}
	if err := Run(discard, nil, cfg, &section.ELF{Path: cfg.Input}, false); err != nil {
		t.Fatal(err)
	}
	nand, err := os.Open(cfg.NAND.Output)
	if err != nil {
		t.Fatal(err)
	}
	defer nand.Close()
	cmds, err := ais.Decode(nand)
	if err != nil {
		t.Fatal(err)
	}
	var loads []ais.Cmd
	for _, c := range cmds {
		if c.Op == ais.OpSectionLoad {
			loads = append(loads, c)
		}
	}
	if len(loads) != 4 {
		t.Fatalf("got %d SECTION_LOAD commands, want 4", len(loads))
	}
	for i, s := range ss[:4] {
		c := loads[i]
		n := uint32(len(s.Data))
		if c.Addr != s.Addr || c.Size != ais.Pad4(n) || !bytes.Equal(c.Data[:n], s.Data) {
			t.Fatalf("section %s: got %v", s.Name, &c)
		}
	}
	if last := cmds[len(cmds)-1]; last.Addr != 0xc1080000 {
		t.Fatalf("entry: got %#x", last.Addr)
	}
}

func TestRunTruncated(t *testing.T) {
	t.Parallel()
	listing := ".text PROGBITS 00008000 00000000 00000010\n.data PROGBITS 00009000 00000010 00000010\n"
	for _, direct := range []bool{false, true} {
		cfg := setup(t, listing, data(0x18))
		src := &section.Readelf{Command: cfg.Tool, Path: cfg.Input}
		var report bytes.Buffer
		err := Run(discard, &report, cfg, src, direct)
		if !errors.Is(err, ais.ErrTruncated) {
			t.Fatalf("direct=%v: got %v, want ErrTruncated", direct, err)
		}
		rep := report.String()
		if !strings.HasSuffix(rep, "data 9000 10 10\n") || strings.Contains(rep, "section .data") {
			t.Fatalf("direct=%v: the failed section isn't the last line of the report:\n%s", direct, rep)
		}
		for _, name := range []string{cfg.NAND.Output, cfg.UART.Output} {
			b, err := os.ReadFile(name)
			if !direct {
				if !errors.Is(err, fs.ErrNotExist) {
					t.Fatalf("%s exists after a failed run", name)
				}
				continue
			}
			if err != nil {
				t.Fatal(err)
			}
			if bytes.Contains(b, []byte{0x06, 0x59, 0x53, 0x58}) {
				t.Fatalf("%s: partial image contains JUMP_CLOSE", name)
			}
		}
		if es, _ := os.ReadDir(filepath.Dir(cfg.Input)); !direct && len(es) != 3 {
			t.Fatalf("unexpected files left: %v", es)
		}
	}
}

func TestRunToolFailure(t *testing.T) {
	t.Parallel()
	cfg := setup(t, "", data(4))
	src := &section.Readelf{Command: "false", Path: cfg.Input}
	err := Run(discard, nil, cfg, src, true)
	var te *section.ToolError
	if !errors.As(err, &te) {
		t.Fatalf("got %v, want ToolError", err)
	}
	if !strings.HasPrefix(err.Error(), "section table: ") {
		t.Fatalf("error doesn't name the step: %v", err)
	}
	if _, err := os.Stat(cfg.NAND.Output); !errors.Is(err, fs.ErrNotExist) {
		t.Fatal("output created although the section table could not be read")
	}
}

func TestCommand(t *testing.T) {
	t.Parallel()
	in := data(0x40)
	cfg := setup(t, ".text PROGBITS c0000000 00000000 00000023\n", in)
	bf := filepath.Join(filepath.Dir(cfg.Input), "board.yaml")
	if err := os.WriteFile(bf, []byte("tool: "+cfg.Tool+"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	var out bytes.Buffer
	app := &cli.Command{
		Name:     "aistool",
		Writer:   &out,
		Commands: []*cli.Command{Command()},
	}
	err := app.Run(context.Background(), []string{
		"aistool", "gen",
		"--config", bf,
		"--nand", cfg.NAND.Output,
		"--uart", cfg.UART.Output,
		cfg.Input,
	})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "padding 1 for section .text") {
		t.Fatalf("unexpected report:\n%s", out.String())
	}
	nand, uart := readImages(t, cfg)
	if !bytes.Equal(nand, uart) || len(nand) != 12+0x24+8 {
		t.Fatalf("unexpected bodies: %d and %d bytes", len(nand), len(uart))
	}
}
