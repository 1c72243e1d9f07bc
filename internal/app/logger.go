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
	"github.com/relabs-tech/gps_datalogger/internal/display"
	"github.com/relabs-tech/gps_datalogger/internal/env"
	"github.com/relabs-tech/gps_datalogger/internal/gps"
	"github.com/relabs-tech/gps_datalogger/internal/logsink"
	"github.com/relabs-tech/gps_datalogger/internal/record"
	"github.com/relabs-tech/gps_datalogger/internal/schedule"
	"github.com/relabs-tech/gps_datalogger/internal/sensors"
)

// NoDataWarning is printed when the receiver stayed silent after start.
const NoDataWarning = "No GPS data received: check wiring"

// Position is the decoder as seen by the loop.
type Position interface {
	Snapshot() gps.State
	CharsProcessed() uint64
}

// Options are the loop's feature toggles and timings.
type Options struct {
	Debug          bool // diagnostics console + display
	CycleInterval  time.Duration
	NoDataTimeout  time.Duration
	NoDataMinChars uint64
}

// OptionsFromConfig extracts the loop options.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		Debug:          cfg.Debug,
		CycleInterval:  cfg.Cycle(),
		NoDataTimeout:  cfg.NoData(),
		NoDataMinChars: uint64(max(cfg.NoDataMinChars, 0)),
	}
}

// Deps are the collaborators of the loop.
type Deps struct {
	GPS     Position
	Sensor  sensors.Reader
	Waiter  *schedule.Waiter
	Display display.Text
	Console io.Writer
	Store   logsink.Store
	Mirrors []logsink.Mirror
	Log     *slog.Logger
}

// Logger is the acquisition loop. It owns the record line and is driven
// from a single goroutine.
type Logger struct {
	opts    Options
	gps     Position
	sensor  sensors.Reader
	waiter  *schedule.Waiter
	display display.Text
	sink    *logsink.Sink
	diag    io.Writer
	log     *slog.Logger

	line   record.Line
	format *record.Formatter
	start  time.Time
	cycles uint64
}

// NewLogger wires the loop. With Debug off diagnostics and the display
// are discarded.
func NewLogger(opts Options, d Deps) *Logger {
	log := d.Log.With("component", "logger")

	var diag io.Writer = io.Discard
	var disp display.Text = display.Discard{}
	if opts.Debug {
		if d.Display != nil {
			disp = d.Display
		}
		diag = &diagnostics{console: d.Console, display: disp, log: log}
	}

	var sensor sensors.Reader = sensors.Missing{}
	if d.Sensor != nil {
		sensor = d.Sensor
	}

	l := &Logger{
		opts:    opts,
		gps:     d.GPS,
		sensor:  sensor,
		waiter:  d.Waiter,
		display: disp,
		sink:    logsink.New(d.Store, diag, d.Log, d.Mirrors...),
		diag:    diag,
		log:     log,
	}
	l.format = record.NewFormatter(&l.line, diag, func() { l.waiter.WaitAndDrain(0) })
	return l
}

// Setup marks the start time and writes the reset marker as the first
// record of this run.
func (l *Logger) Setup() {
	l.start = l.waiter.Now()
	l.line.Seed(record.ResetMarker)
	if err := l.sink.Flush(&l.line); err != nil {
		l.log.Warn("reset marker kept for the next cycle", "err", err)
	}
	l.log.Info("logger ready", "cycle", l.opts.CycleInterval, "debug", l.opts.Debug)
}

// Cycle formats every field, persists one record, waits the cycle
// interval while feeding the decoder and clears the display.
func (l *Logger) Cycle() {
	fix := l.gps.Snapshot()

	l.format.DateTime(fix.Date, fix.Time)
	l.format.Float("Lat:", fix.Location.Lat, fix.Location.Valid, 11, 6)
	l.format.Float("Lon:", fix.Location.Lon, fix.Location.Valid, 12, 6)
	l.format.Float("Alt:", fix.Altitude.Meters, fix.Altitude.Valid, 7, 2)

	sample, err := l.sensor.Read()
	if err != nil {
		l.log.Warn("sensor read failed", "err", err)
	}
	l.format.Float("T:", sample.Temperature, env.Valid(sample.Temperature), 7, 2)
	l.format.Float("H:", sample.Humidity, env.Valid(sample.Humidity), 7, 2)
	l.format.Float("P:", sample.Pressure, env.Valid(sample.Pressure), 8, 2)

	fmt.Fprintln(l.diag)

	// TODO: measure silence since the last decoded byte instead of since start
	chars := l.gps.CharsProcessed()
	if l.waiter.Since(l.start) > l.opts.NoDataTimeout && chars < l.opts.NoDataMinChars {
		fmt.Fprintln(l.diag, NoDataWarning)
		l.log.Warn("no GPS data", "chars", chars, "since_start", l.waiter.Since(l.start))
	}

	if err := l.sink.Flush(&l.line); err == nil {
		l.log.Debug("record persisted",
			"cycle", l.cycles,
			"chars", chars,
			"fix_sentences", fix.FixSentences,
			"rejected", fix.Rejected,
		)
	}

	l.waiter.WaitAndDrain(l.opts.CycleInterval)

	if err := l.display.Clear(); err != nil {
		l.log.Debug("display clear failed", "err", err)
	}
	l.cycles++
}

// Run calls Setup and then runs cycles until ctx is done. A cycle in
// progress always completes.
func (l *Logger) Run(ctx context.Context) error {
	l.Setup()
	for {
		select {
		case <-ctx.Done():
			l.log.Info("stopping", "cycles", l.cycles, "pending_bytes", l.line.Len())
			return nil
		default:
		}
		l.Cycle()
	}
}

// Cycles returns the number of completed cycles.
func (l *Logger) Cycles() uint64 {
	return l.cycles
}

// diagnostics copies text to the console and the display. Output errors
// never interrupt a cycle.
type diagnostics struct {
	console io.Writer
	display display.Text
	log     *slog.Logger
}

func (d *diagnostics) Write(p []byte) (int, error) {
	if d.console != nil {
		if _, err := d.console.Write(p); err != nil {
			d.log.Debug("console write failed", "err", err)
		}
	}
	if _, err := d.display.Write(p); err != nil {
		d.log.Debug("display write failed", "err", err)
	}
	return len(p), nil
}
