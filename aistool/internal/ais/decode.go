// Copyright 2026 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ais

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Cmd is a decoded AIS command.
type Cmd struct {
	Offset int64    // offset of the opcode in the image
	Op     uint32   // opcode
	Addr   uint32   // SECTION_LOAD, SECTION_FILL, SET, JUMP, JUMP_CLOSE
	Size   uint32   // SECTION_LOAD, SECTION_FILL
	Func   uint32   // FUNCTION_EXECUTE: index of the ROM function
	Args   []uint32 // remaining arguments
	Data   []byte   // SECTION_LOAD: section data
}

func (c *Cmd) String() string {
	name := OpName(c.Op)
	switch c.Op {
	case OpSectionLoad:
		return fmt.Sprintf("%s addr=0x%08x size=%#x", name, c.Addr, c.Size)
	case OpSectionFill:
		return fmt.Sprintf(
			"%s addr=0x%08x size=%#x type=%d pattern=0x%08x",
			name, c.Addr, c.Size, c.Args[0], c.Args[1],
		)
	case OpSet:
		return fmt.Sprintf(
			"%s type=%d addr=0x%08x data=0x%08x sleep=%d",
			name, c.Args[0], c.Addr, c.Args[1], c.Args[2],
		)
	case OpJump, OpJumpClose:
		return fmt.Sprintf("%s addr=0x%08x", name, c.Addr)
	case OpRequestCRC:
		return fmt.Sprintf("%s crc=0x%08x seek=%d", name, c.Args[0], int32(c.Args[1]))
	case OpFunctionExecute:
		return fmt.Sprintf("%s %s args=[%s]", name, FuncName(c.Func), hexWords(c.Args))
	}
	if len(c.Args) != 0 {
		return fmt.Sprintf("%s raw=[%s]", name, hexWords(c.Args))
	}
	return name
}

func hexWords(ws []uint32) string {
	var sb strings.Builder
	for i, w := range ws {
		if i != 0 {
			sb.WriteByte(' ')
		}
		fmt.Fprintf(&sb, "%08x", w)
	}
	return sb.String()
}

type decoder struct {
	r   io.Reader
	off int64
	buf [4]byte
}

func (d *decoder) word() (uint32, error) {
	n, err := io.ReadFull(d.r, d.buf[:])
	d.off += int64(n)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(d.buf[:]), nil
}

func (d *decoder) words(n int) ([]uint32, error) {
	ws := make([]uint32, n)
	for i := range ws {
		w, err := d.word()
		if err != nil {
			return nil, noEOF(err)
		}
		ws[i] = w
	}
	return ws, nil
}

// noEOF reports io.EOF in the middle of a command as io.ErrUnexpectedEOF.
func noEOF(err error) error {
	if err == io.EOF {
		return io.ErrUnexpectedEOF
	}
	return err
}

// cmd decodes the next command. It returns io.EOF if there is no more data.
func (d *decoder) cmd() (c Cmd, err error) {
	c.Offset = d.off
	if c.Op, err = d.word(); err != nil {
		return
	}
	var args []uint32
	switch c.Op {
	case OpSectionLoad:
		if args, err = d.words(2); err != nil {
			break
		}
		c.Addr, c.Size = args[0], args[1]
		c.Data = make([]byte, Pad4(c.Size))
		var n int
		n, err = io.ReadFull(d.r, c.Data)
		d.off += int64(n)
		c.Data = c.Data[:c.Size]
		err = noEOF(err)
	case OpSectionFill:
		if args, err = d.words(4); err != nil {
			break
		}
		c.Addr, c.Size, c.Args = args[0], args[1], args[2:]
	case OpSet:
		if args, err = d.words(4); err != nil {
			break
		}
		c.Addr = args[1]
		c.Args = []uint32{args[0], args[2], args[3]}
	case OpJump, OpJumpClose:
		if args, err = d.words(1); err != nil {
			break
		}
		c.Addr = args[0]
	case OpRequestCRC:
		c.Args, err = d.words(2)
	case OpEnableCRC, OpDisableCRC, OpStartOver, OpSeqReadEnable:
	case OpFunctionExecute:
		if args, err = d.words(1); err != nil {
			break
		}
		c.Func = args[0] & 0xffff
		c.Args, err = d.words(int(args[0] >> 16))
	default:
		err = fmt.Errorf("%w %#08x", errUnknownOp, c.Op)
	}
	if err != nil {
		err = fmt.Errorf("%s at offset %#x: %w", OpName(c.Op), c.Offset, err)
	}
	return
}

var errUnknownOp = errors.New("unknown opcode")

// ErrNoJumpClose is returned by Decode if the image ends without the
// JUMP_CLOSE command.
var ErrNoJumpClose = errors.New("image ends without JUMP_CLOSE")

// Decode decodes the AIS image read from r. Decoding stops after the
// JUMP_CLOSE command.
func Decode(r io.Reader) ([]Cmd, error) {
	d := &decoder{r: r}
	magic, err := d.word()
	if err != nil {
		return nil, fmt.Errorf("read magic: %w", noEOF(err))
	}
	if magic != Magic {
		return nil, fmt.Errorf("bad magic number %#08x", magic)
	}
	var cmds []Cmd
	for {
		c, err := d.cmd()
		if err == io.EOF {
			return cmds, ErrNoJumpClose
		}
		if err != nil {
			return cmds, err
		}
		cmds = append(cmds, c)
		if c.Op == OpJumpClose {
			return cmds, nil
		}
	}
}

// decodeWords decodes the complete commands stored in words. An unknown
// opcode ends decoding and is returned with the rest of words as its Args.
func decodeWords(words []uint32) ([]Cmd, error) {
	buf := make([]byte, 0, len(words)*4)
	for _, w := range words {
		buf = binary.LittleEndian.AppendUint32(buf, w)
	}
	d := &decoder{r: bytes.NewReader(buf)}
	var cmds []Cmd
	for {
		c, err := d.cmd()
		if err == io.EOF {
			return cmds, nil
		}
		if errors.Is(err, errUnknownOp) {
			i := c.Offset / 4
			c.Args = words[i+1:]
			return append(cmds, c), nil
		}
		if err != nil {
			return cmds, err
		}
		cmds = append(cmds, c)
	}
}
