// Copyright 2026 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package hex

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/marcinbor85/gohex"
	"github.com/urfave/cli/v3"

	"github.com/embeddedgo/ais/aistool/internal/ais"
	"github.com/embeddedgo/ais/aistool/internal/util"
)

const Descr = "convert an AIS boot image to the Intel HEX format"

func Command() *cli.Command {
	var base string
	return &cli.Command{
		Name:      "hex",
		Usage:     Descr,
		ArgsUsage: "AIS [HEX]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "base",
				Usage:       "`ADDRESS` of the image in the target memory",
				Value:       "0",
				Destination: &base,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if n := cmd.NArg(); n < 1 || n > 2 {
				return errors.New("hex: expected AIS [HEX]")
			}
			addr, err := strconv.ParseUint(base, 0, 32)
			if err != nil {
				return fmt.Errorf("hex: bad base address: %w", err)
			}
			in := cmd.Args().Get(0)
			out := util.OutFile(in, ".ais", cmd.Args().Get(1), ".hex")
			return Convert(in, out, uint32(addr))
		},
	}
}

// Convert writes the AIS image read from the in file to the out file in the
// Intel HEX format, placing it at the base address.
func Convert(in, out string, base uint32) error {
	img, err := os.ReadFile(in)
	if err != nil {
		return err
	}
	if _, err := ais.Decode(bytes.NewReader(img)); err != nil {
		return fmt.Errorf("%s: %w", in, err)
	}
	if uint64(base)+uint64(len(img)) > 1<<32 {
		return fmt.Errorf("%s: image at %#x exceeds 32-bit address space", in, base)
	}
	mem := gohex.NewMemory()
	if err := mem.AddBinary(base, img); err != nil {
		return err
	}
	of, err := os.Create(out)
	if err != nil {
		return err
	}
	if err = mem.DumpIntelHex(of, 16); err != nil {
		of.Close()
		return fmt.Errorf("dumpintelhex: %w", err)
	}
	return of.Close()
}
