// Copyright 2026 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package board describes the target board: the input and output files and
// the hardware initialization preambles of the NAND and UART boot images.
package board

import (
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/embeddedgo/ais/aistool/internal/ais"
)

// Word is a 32-bit word of a preamble. In a board file it is written as
// a hexadecimal number with or without the 0x prefix.
type Word uint32

func (w *Word) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: preamble word must be a scalar", n.Line)
	}
	s := strings.TrimPrefix(strings.TrimPrefix(n.Value, "0x"), "0X")
	u, err := strconv.ParseUint(strings.ReplaceAll(s, "_", ""), 16, 32)
	if err != nil {
		return fmt.Errorf("line %d: bad preamble word %q", n.Line, n.Value)
	}
	*w = Word(u)
	return nil
}

func (w Word) MarshalYAML() (any, error) {
	return fmt.Sprintf("0x%08x", uint32(w)), nil
}

type Words []Word

func (ws Words) Preamble() ais.Preamble {
	p := make(ais.Preamble, len(ws))
	for i, w := range ws {
		p[i] = uint32(w)
	}
	return p
}

func words(p ais.Preamble) Words {
	ws := make(Words, len(p))
	for i, u := range p {
		ws[i] = Word(u)
	}
	return ws
}

// Medium describes the boot image for one boot medium.
type Medium struct {
	Output   string `yaml:"output"`
	Preamble Words  `yaml:"preamble"`
}

// Config is the board configuration.
type Config struct {
	Tool  string `yaml:"tool"`  // section listing command, the ELF path is appended
	Input string `yaml:"input"` // ELF file
	NAND  Medium `yaml:"nand"`
	UART  Medium `yaml:"uart"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Tool:  "arm-linux-readelf -S",
		Input: "u-boot",
		NAND:  Medium{"u-boot_nand.ais", words(nandPreamble)},
		UART:  Medium{"u-boot_uart.ais", words(uartPreamble)},
	}
}

// Load reads the board file. The settings missing in the file keep their
// default values.
func Load(name string) (Config, error) {
	cfg := Default()
	f, err := os.Open(name)
	if err != nil {
		return cfg, err
	}
	defer f.Close()
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err = dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return cfg, fmt.Errorf("%s: %w", name, err)
	}
	return cfg, nil
}

// Write writes cfg to w in the board file format.
func (cfg *Config) Write(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return err
	}
	return enc.Close()
}

// Validate checks that cfg describes two distinct outputs with valid
// preambles.
func (cfg *Config) Validate() error {
	if cfg.Input == "" {
		return errors.New("no input file")
	}
	for _, m := range [...]struct {
		name string
		*Medium
	}{{"nand", &cfg.NAND}, {"uart", &cfg.UART}} {
		if m.Output == "" {
			return fmt.Errorf("%s: no output file", m.name)
		}
		if err := m.Preamble.Preamble().Validate(); err != nil {
			return fmt.Errorf("%s: %w", m.name, err)
		}
	}
	if cfg.NAND.Output == cfg.UART.Output {
		return fmt.Errorf("nand and uart use the same output file %s", cfg.NAND.Output)
	}
	if slices.Contains([]string{cfg.NAND.Output, cfg.UART.Output}, cfg.Input) {
		return fmt.Errorf("output overwrites the input file %s", cfg.Input)
	}
	return nil
}

// FromFile returns Load(name) or the default configuration if name is empty.
func FromFile(name string) (Config, error) {
	if name == "" {
		return Default(), nil
	}
	return Load(name)
}
