// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package logsink

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/relabs-tech/gps_datalogger/internal/record"
)

// Mirror receives every persisted line.
type Mirror interface {
	Publish(line string) error
}

// Sink persists one record per call to Flush.
type Sink struct {
	store   Store
	mirrors []Mirror
	diag    io.Writer
	log     *slog.Logger
}

// New returns a sink writing to store. A nil diag discards diagnostics.
func New(store Store, diag io.Writer, logger *slog.Logger, mirrors ...Mirror) *Sink {
	if diag == nil {
		diag = io.Discard
	}
	return &Sink{
		store:   store,
		mirrors: mirrors,
		diag:    diag,
		log:     logger.With("component", "store"),
	}
}

// Flush appends the line to the store and empties it. On failure the
// line is left untouched so the next cycle appends to it and the data
// is written with the next successful flush.
func (s *Sink) Flush(line *record.Line) error {
	text := line.String()

	if err := s.store.Append(text); err != nil {
		if errors.Is(err, ErrStoreOpen) {
			fmt.Fprintf(s.diag, "error opening %v\n", s.store)
		} else {
			fmt.Fprintf(s.diag, "error writing %v\n", s.store)
		}
		s.log.Error("record not persisted, keeping it for the next cycle", "err", err, "pending_bytes", len(text))
		return err
	}

	fmt.Fprintln(s.diag, text)

	for _, m := range s.mirrors {
		if err := m.Publish(text); err != nil {
			s.log.Warn("record mirror failed", "err", err)
		}
	}

	line.Reset()
	return nil
}
