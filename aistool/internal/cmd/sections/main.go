// Copyright 2026 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sections

import (
	"context"
	"errors"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/embeddedgo/ais/aistool/internal/board"
	"github.com/embeddedgo/ais/aistool/internal/section"
)

const Descr = "print the sections of an ELF file that go to the boot images"

func Command() *cli.Command {
	var configFile, tool, source string
	return &cli.Command{
		Name:      "sections",
		Usage:     Descr,
		ArgsUsage: "[ELF]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "board `FILE` (YAML)",
				Destination: &configFile,
			},
			&cli.StringFlag{
				Name:        "tool",
				Usage:       "section listing `COMMAND`, the ELF path is appended",
				Destination: &tool,
			},
			&cli.StringFlag{
				Name:        "source",
				Usage:       "section table source: readelf or elf",
				Value:       "readelf",
				Destination: &source,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.NArg() > 1 {
				return errors.New("sections: too many arguments")
			}
			cfg, err := board.FromFile(configFile)
			if err != nil {
				return fmt.Errorf("board: %w", err)
			}
			if cmd.IsSet("tool") {
				cfg.Tool = tool
			}
			if elf := cmd.Args().First(); elf != "" {
				cfg.Input = elf
			}
			src, err := section.NewSource(source, cfg.Tool, cfg.Input)
			if err != nil {
				return err
			}
			t, err := src.Sections()
			if err != nil {
				return fmt.Errorf("section table: %w", err)
			}
			w := cmd.Root().Writer
			for i, r := range t {
				fmt.Fprintf(
					w, "%d: .%-10s addr: %#08x offset: %#x size: %d\n",
					i, r.Name, r.Addr, r.Offset, r.Size,
				)
			}
			fmt.Fprintf(w, "entry: %#08x\n", t.Entry())
			return nil
		},
	}
}
