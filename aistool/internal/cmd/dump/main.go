// Copyright 2026 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dump

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/goccy/go-json"
	"github.com/urfave/cli/v3"

	"github.com/embeddedgo/ais/aistool/internal/ais"
	"github.com/embeddedgo/ais/aistool/internal/logger"
)

const Descr = "list the commands of an AIS boot image"

type jsonCmd struct {
	Offset int64    `json:"offset"`
	Op     string   `json:"op"`
	Addr   *uint32  `json:"addr,omitempty"`
	Size   *uint32  `json:"size,omitempty"`
	Func   string   `json:"func,omitempty"`
	Args   []uint32 `json:"args,omitempty"`
}

func toJSON(c *ais.Cmd) jsonCmd {
	j := jsonCmd{Offset: c.Offset, Op: ais.OpName(c.Op), Args: c.Args}
	switch c.Op {
	case ais.OpSectionLoad, ais.OpSectionFill:
		j.Addr, j.Size = &c.Addr, &c.Size
	case ais.OpSet, ais.OpJump, ais.OpJumpClose:
		j.Addr = &c.Addr
	case ais.OpFunctionExecute:
		j.Func = ais.FuncName(c.Func)
	}
	return j
}

func Command() *cli.Command {
	var (
		asJSON  bool
		dataDir string
	)
	return &cli.Command{
		Name:      "dump",
		Usage:     Descr,
		ArgsUsage: "AIS",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "print the commands as a JSON array",
				Destination: &asJSON,
			},
			&cli.StringFlag{
				Name:        "data",
				Usage:       "write the data of every SECTION_LOAD command to a file in `DIR`",
				Destination: &dataDir,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.NArg() != 1 {
				return errors.New("dump: exactly one AIS file expected")
			}
			f, err := os.Open(cmd.Args().First())
			if err != nil {
				return err
			}
			defer f.Close()
			cmds, derr := ais.Decode(bufio.NewReader(f))
			w := cmd.Root().Writer
			if asJSON {
				err = writeJSON(w, cmds)
			} else {
				for i := range cmds {
					fmt.Fprintf(w, "%08x  %v\n", cmds[i].Offset, &cmds[i])
				}
			}
			if err == nil && dataDir != "" {
				err = writeData(ctx, dataDir, cmds)
			}
			if derr != nil {
				return fmt.Errorf("decode: %w", derr)
			}
			return err
		},
	}
}

func writeJSON(w io.Writer, cmds []ais.Cmd) error {
	js := make([]jsonCmd, len(cmds))
	for i := range cmds {
		js[i] = toJSON(&cmds[i])
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(js)
}

func writeData(ctx context.Context, dir string, cmds []ais.Cmd) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	log := logger.FromContext(ctx)
	for _, c := range cmds {
		if c.Op != ais.OpSectionLoad {
			continue
		}
		name := filepath.Join(dir, fmt.Sprintf("%08x.bin", c.Addr))
		if err := os.WriteFile(name, c.Data, 0o644); err != nil {
			return err
		}
		log.Info("section data written", "file", name, "size", len(c.Data))
	}
	return nil
}
