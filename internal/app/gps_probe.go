// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/relabs-tech/gps_datalogger/internal/config"
	"github.com/relabs-tech/gps_datalogger/internal/gps"
	"github.com/relabs-tech/gps_datalogger/internal/schedule"
)

// RunGPSProbe feeds the decoder from the receiver and prints its state
// once a second, for checking the receiver wiring without logging.
func RunGPSProbe(ctx context.Context, cfg *config.Config, out io.Writer, log *slog.Logger) error {
	src, err := openReceiver(cfg, log.With("component", "gps"))
	if err != nil {
		return err
	}
	defer src.Close()

	dec := gps.NewDecoder()
	waiter := schedule.NewWaiter(schedule.SystemClock{}, schedule.NewFeeder(src, dec), cfg.Poll())

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-src.Done():
			return fmt.Errorf("gps: receiver stopped delivering data")
		default:
		}

		waiter.WaitAndDrain(time.Second)
		fmt.Fprintln(out, describeState(dec.Snapshot(), src.Overflows()))
	}
}

func describeState(st gps.State, overflows uint64) string {
	date, clock, pos, alt := "----", "----", "----", "----"
	if st.Date.Valid {
		date = fmt.Sprintf("%04d-%02d-%02d", st.Date.Year, st.Date.Month, st.Date.Day)
	}
	if st.Time.Valid {
		clock = fmt.Sprintf("%02d:%02d:%02d", st.Time.Hour, st.Time.Minute, st.Time.Second)
	}
	if st.Location.Valid {
		pos = fmt.Sprintf("%.6f,%.6f", st.Location.Lat, st.Location.Lon)
	}
	if st.Altitude.Valid {
		alt = fmt.Sprintf("%.1fm", st.Altitude.Meters)
	}
	return fmt.Sprintf(
		"[GPS ]  date=%s time=%s pos=%s alt=%s chars=%d fix=%d parsed=%d rejected=%d overflow=%d",
		date, clock, pos, alt, st.CharsProcessed, st.FixSentences, st.Parsed, st.Rejected, overflows,
	)
}
