// Copyright 2026 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/embeddedgo/ais/aistool/internal/cmd/board"
	"github.com/embeddedgo/ais/aistool/internal/cmd/dump"
	"github.com/embeddedgo/ais/aistool/internal/cmd/gen"
	"github.com/embeddedgo/ais/aistool/internal/cmd/hex"
	"github.com/embeddedgo/ais/aistool/internal/cmd/sections"
	"github.com/embeddedgo/ais/aistool/internal/logger"
	"github.com/embeddedgo/ais/aistool/internal/util"
)

func main() {
	var logLevel, logFormat string
	app := &cli.Command{
		Name:  "aistool",
		Usage: "build and inspect TI AIS boot images",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "log-level",
				Usage:       "log level (debug, info, warn, error)",
				Value:       "warn",
				Destination: &logLevel,
			},
			&cli.StringFlag{
				Name:        "log-format",
				Usage:       "log format (text, json)",
				Value:       "text",
				Destination: &logFormat,
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			level, err := logger.ParseLevel(logLevel)
			if err != nil {
				return ctx, err
			}
			log, err := logger.New(os.Stderr, level, logFormat)
			if err != nil {
				return ctx, err
			}
			return logger.WithContext(ctx, log), nil
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return cli.ShowAppHelp(cmd)
		},
		Commands: []*cli.Command{
			gen.Command(),
			sections.Command(),
			dump.Command(),
			hex.Command(),
			board.Command(),
		},
	}
	util.FatalErr("aistool", app.Run(context.Background(), os.Args))
}
