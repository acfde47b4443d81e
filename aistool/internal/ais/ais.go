// Copyright 2026 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package ais implements the Application Image Script (AIS) boot image format
// understood by the ROM bootloader of the TI OMAP-L1x/AM1x/DA8xx processors.
//
// An AIS image is a sequence of little-endian 32-bit words. The first word is
// the Magic number, followed by commands. Every command starts with its
// opcode and has a fixed number of argument words, except SECTION_LOAD which
// is followed by the section data padded to a multiple of 4 bytes and
// FUNCTION_EXECUTE which carries its argument count in the first argument.
package ais

import (
	"errors"
	"fmt"
	"strings"
)

const Magic uint32 = 0x41504954

// Opcodes
const (
	OpSectionLoad     uint32 = 0x58535901
	OpRequestCRC      uint32 = 0x58535902
	OpEnableCRC       uint32 = 0x58535903
	OpDisableCRC      uint32 = 0x58535904
	OpJump            uint32 = 0x58535905
	OpJumpClose       uint32 = 0x58535906
	OpSet             uint32 = 0x58535907
	OpStartOver       uint32 = 0x58535908
	OpSectionFill     uint32 = 0x5853590a
	OpFunctionExecute uint32 = 0x5853590d
	OpSeqReadEnable   uint32 = 0x58535963
)

var opNames = map[uint32]string{
	OpSectionLoad:     "SECTION_LOAD",
	OpRequestCRC:      "REQUEST_CRC",
	OpEnableCRC:       "ENABLE_CRC",
	OpDisableCRC:      "DISABLE_CRC",
	OpJump:            "JUMP",
	OpJumpClose:       "JUMP_CLOSE",
	OpSet:             "SET",
	OpStartOver:       "START_OVER",
	OpSectionFill:     "SECTION_FILL",
	OpFunctionExecute: "FUNCTION_EXECUTE",
	OpSeqReadEnable:   "SEQ_READ_ENABLE",
}

// OpName returns the mnemonic of the opcode.
func OpName(op uint32) string {
	if s, ok := opNames[op]; ok {
		return s
	}
	return fmt.Sprintf("OP_%08X", op)
}

// ROM functions callable by FUNCTION_EXECUTE
var funcNames = [...]string{
	0: "PLL0",
	1: "PLL1",
	2: "CLOCK",
	3: "MDDR_DDR2",
	4: "EMIFA_SDRAM",
	5: "EMIFA_ASYNC",
	6: "PLL_CLOCK",
	7: "PSC",
	8: "PINMUX",
}

// FuncName returns the name of the ROM function with the given index.
func FuncName(index uint32) string {
	if int(index) < len(funcNames) {
		return funcNames[index]
	}
	return fmt.Sprintf("FUNC_%d", index)
}

// Preamble is a board specific sequence of words written at the beginning of
// the image: the Magic number followed by the hardware initialization
// commands. Its content is opaque to the image encoder.
type Preamble []uint32

// Validate checks that p starts with the Magic number and that the commands
// that can be decoded are complete and don't include JUMP_CLOSE.
func (p Preamble) Validate() error {
	_, err := p.Commands()
	return err
}

// Commands decodes the commands that follow the Magic number. Decoding stops
// at the first unknown opcode: the last returned command then holds this
// opcode and all the remaining words as its Args.
func (p Preamble) Commands() ([]Cmd, error) {
	if len(p) == 0 || p[0] != Magic {
		return nil, fmt.Errorf("preamble doesn't start with the magic number %#08x", Magic)
	}
	cmds, err := decodeWords(p[1:])
	for _, c := range cmds {
		if c.Op == OpJumpClose {
			return cmds, errors.New("preamble contains JUMP_CLOSE")
		}
	}
	return cmds, err
}

func (p Preamble) String() string {
	var sb strings.Builder
	for i, w := range p {
		if i != 0 {
			sb.WriteByte(' ')
		}
		fmt.Fprintf(&sb, "%08x", w)
	}
	return sb.String()
}

// Pad4 returns size rounded up to the next multiple of 4. The result wraps
// around for sizes greater than MaxSectionSize.
func Pad4(size uint32) uint32 {
	return size + (4-size%4)%4
}
