// Copyright 2026 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gen

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/embeddedgo/ais/aistool/internal/ais"
	"github.com/embeddedgo/ais/aistool/internal/board"
	"github.com/embeddedgo/ais/aistool/internal/logger"
	"github.com/embeddedgo/ais/aistool/internal/section"
	"github.com/embeddedgo/ais/aistool/internal/util"
)

const Descr = "generate the NAND and UART boot images from an ELF file"

func Command() *cli.Command {
	var (
		configFile, tool, source, nand, uart string
		direct, quiet                        bool
	)
	return &cli.Command{
		Name:      "gen",
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
				Usage:       "section table source: readelf (run the tool) or elf (read the ELF file)",
				Value:       "readelf",
				Destination: &source,
			},
			&cli.StringFlag{
				Name:        "nand",
				Usage:       "NAND boot image `FILE`",
				Destination: &nand,
			},
			&cli.StringFlag{
				Name:        "uart",
				Usage:       "UART boot image `FILE`",
				Destination: &uart,
			},
			&cli.BoolFlag{
				Name:        "direct",
				Usage:       "write directly to the output files instead of renaming complete temporary files",
				Destination: &direct,
			},
			&cli.BoolFlag{
				Name:        "quiet",
				Aliases:     []string{"q"},
				Usage:       "do not print the section report",
				Destination: &quiet,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.NArg() > 1 {
				return errors.New("gen: too many arguments")
			}
			cfg, err := board.FromFile(configFile)
			if err != nil {
				return fmt.Errorf("board: %w", err)
			}
			if cmd.IsSet("tool") {
				cfg.Tool = tool
			}
			if cmd.IsSet("nand") {
				cfg.NAND.Output = nand
			}
			if cmd.IsSet("uart") {
				cfg.UART.Output = uart
			}
			if elf := cmd.Args().First(); elf != "" {
				cfg.Input = elf
			}
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("board: %w", err)
			}
			src, err := section.NewSource(source, cfg.Tool, cfg.Input)
			if err != nil {
				return err
			}
			var report io.Writer
			if !quiet {
				report = cmd.Root().Writer
			}
			return Run(logger.FromContext(ctx), report, &cfg, src, direct)
		},
	}
}

// Run reads the section table from src and writes the NAND and UART boot
// images described by cfg. If report is not nil the encoded sections are
// listed there.
func Run(log *slog.Logger, report io.Writer, cfg *board.Config, src section.Source, direct bool) error {
	log.Debug("reading section table", "input", cfg.Input, "tool", cfg.Tool)
	table, err := src.Sections()
	if err != nil {
		return fmt.Errorf("section table: %w", err)
	}
	entry := table.Entry()
	if entry == 0 {
		log.Warn("no text section, the entry address is 0", "input", cfg.Input)
	}
	in, err := os.Open(cfg.Input)
	if err != nil {
		return fmt.Errorf("input: %w", err)
	}
	defer in.Close()

	nand, err := util.CreateOutput(cfg.NAND.Output, direct)
	if err != nil {
		return fmt.Errorf("nand: %w", err)
	}
	defer nand.Close()
	uart, err := util.CreateOutput(cfg.UART.Output, direct)
	if err != nil {
		return fmt.Errorf("uart: %w", err)
	}
	defer uart.Close()

	var rep *ais.Report
	if report != nil {
		rep = &ais.Report{
			Section: func(r section.Record) { fmt.Fprintln(report, r) },
			Padding: func(r section.Record, pad int) {
				fmt.Fprintf(report, "padding %d for section .%s\n", pad, r.Name)
			},
		}
	}
	err = ais.WriteImages(
		in, table, rep,
		ais.Target{Preamble: cfg.NAND.Preamble.Preamble(), W: nand},
		ais.Target{Preamble: cfg.UART.Preamble.Preamble(), W: uart},
	)
	if err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	for _, o := range [...]*util.Output{nand, uart} {
		if err := o.Commit(); err != nil {
			return fmt.Errorf("commit: %w", err)
		}
		log.Info("boot image written", "file", o.Name(), "sections", len(table), "entry", fmt.Sprintf("%#x", entry))
	}
	return nil
}
