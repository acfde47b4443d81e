// Copyright 2026 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package board

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/embeddedgo/ais/aistool/internal/ais"
	"github.com/embeddedgo/ais/aistool/internal/board"
)

const Descr = "print the board configuration in the board file format"

func Command() *cli.Command {
	var (
		configFile string
		decode     bool
	)
	return &cli.Command{
		Name:  "board",
		Usage: Descr,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "board `FILE` (YAML), the built-in board if not set",
				Destination: &configFile,
			},
			&cli.BoolFlag{
				Name:        "decode",
				Usage:       "list the preamble commands instead",
				Destination: &decode,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := board.FromFile(configFile)
			if err != nil {
				return fmt.Errorf("board: %w", err)
			}
			w := cmd.Root().Writer
			if !decode {
				return cfg.Write(w)
			}
			for _, m := range [...]struct {
				name string
				p    ais.Preamble
			}{
				{"nand", cfg.NAND.Preamble.Preamble()},
				{"uart", cfg.UART.Preamble.Preamble()},
			} {
				fmt.Fprintf(w, "%s:\n", m.name)
				cmds, err := m.p.Commands()
				for i := range cmds {
					fmt.Fprintf(w, "  %v\n", &cmds[i])
				}
				if err != nil {
					return fmt.Errorf("%s: %w", m.name, err)
				}
			}
			return nil
		},
	}
}
