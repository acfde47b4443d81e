// Copyright 2026 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package util

import (
	"bufio"
	"errors"
	"os"
	"path/filepath"
)

// Output is a buffered output file. By default it is written to a temporary
// file in the destination directory and renamed to its final name by Commit,
// so a failed run never leaves a partially written file under the final name.
// In the direct mode the file is created under its final name immediately.
type Output struct {
	f      *os.File
	w      *bufio.Writer
	name   string
	direct bool
	closed bool
}

// CreateOutput creates the output file.
func CreateOutput(name string, direct bool) (*Output, error) {
	var (
		f   *os.File
		err error
	)
	if direct {
		f, err = os.Create(name)
	} else {
		f, err = os.CreateTemp(filepath.Dir(name), "."+filepath.Base(name)+".*")
	}
	if err != nil {
		return nil, err
	}
	return &Output{f: f, w: bufio.NewWriter(f), name: name, direct: direct}, nil
}

// Name returns the final name of the file.
func (o *Output) Name() string { return o.name }

func (o *Output) Write(p []byte) (int, error) {
	return o.w.Write(p)
}

// Commit flushes the buffered data, closes the file and moves it to its final
// name.
func (o *Output) Commit() error {
	if o.closed {
		return errors.New("output: " + o.name + ": already closed")
	}
	o.closed = true
	err := o.w.Flush()
	if !o.direct && err == nil {
		err = o.f.Chmod(0o644)
	}
	if cerr := o.f.Close(); err == nil {
		err = cerr
	}
	if o.direct {
		return err
	}
	if err == nil {
		err = os.Rename(o.f.Name(), o.name)
	}
	if err != nil {
		os.Remove(o.f.Name())
	}
	return err
}

// Close releases the file if it was not committed. The temporary file is
// removed. In the direct mode the data written so far is flushed and left on
// the disk.
func (o *Output) Close() error {
	if o.closed {
		return nil
	}
	o.closed = true
	if o.direct {
		err := o.w.Flush()
		if cerr := o.f.Close(); err == nil {
			err = cerr
		}
		return err
	}
	err := o.f.Close()
	os.Remove(o.f.Name())
	return err
}
