// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package logsink

import (
	"errors"
	"fmt"
	"io"
	"os"
)

// ErrStoreOpen marks a store that could not be opened for appending.
var ErrStoreOpen = errors.New("store open failed")

// Store is an append-only sink of text lines.
type Store interface {
	Append(line string) error
}

// FileStore appends to a text file, opening and closing it for every
// line so nothing is held open between cycles.
type FileStore struct {
	Path string
}

// appendFile is the part of *os.File used by FileStore.
type appendFile interface {
	io.StringWriter
	io.Closer
	Stat() (os.FileInfo, error)
	Truncate(size int64) error
}

var openAppend = func(path string) (appendFile, error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, err
	}
	return f, nil
}

// Append writes line and a line terminator. A failed write is rolled
// back so the caller can retry the same line without duplicating bytes.
func (s FileStore) Append(line string) error {
	f, err := openAppend(s.Path)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrStoreOpen, s.Path, err)
	}

	fi, err := f.Stat()
	if err != nil {
		f.Close()
		return fmt.Errorf("store: stat %s: %w", s.Path, err)
	}

	if _, err := f.WriteString(line + "\n"); err != nil {
		if terr := f.Truncate(fi.Size()); terr != nil {
			err = errors.Join(err, fmt.Errorf("rollback: %w", terr))
		}
		f.Close()
		return fmt.Errorf("store: write %s: %w", s.Path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("store: close %s: %w", s.Path, err)
	}
	return nil
}

// String names the file for diagnostics.
func (s FileStore) String() string {
	return s.Path
}

// Disabled accepts every line without persisting it.
type Disabled struct{}

func (Disabled) Append(string) error { return nil }
func (Disabled) String() string      { return "disabled" }
