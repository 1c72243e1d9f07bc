// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package record

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/relabs-tech/gps_datalogger/internal/gps"
)

// Formatter projects measurements into a Line and into the diagnostics
// writer. drain is called after every field so slow diagnostics output
// does not starve the positioning decoder.
type Formatter struct {
	line  *Line
	diag  io.Writer
	drain func()
}

// NewFormatter returns a formatter appending to line. A nil diag discards
// diagnostics, a nil drain is a no-op.
func NewFormatter(line *Line, diag io.Writer, drain func()) *Formatter {
	if diag == nil {
		diag = io.Discard
	}
	if drain == nil {
		drain = func() {}
	}
	return &Formatter{line: line, diag: diag, drain: drain}
}

// Float formats one numeric measurement with prec fractional digits.
// The label occupies the first width character slots (space padded or
// truncated) and the value is padded with trailing spaces up to width.
func (f *Formatter) Float(label string, v float64, valid bool, width, prec int) {
	defer f.drain()

	if !valid {
		fmt.Fprint(f.diag, Sentinel+" ")
		f.line.AppendSentinel()
		return
	}

	value := strconv.FormatFloat(v, 'f', prec, 64)

	var sb strings.Builder
	sb.WriteString(fitLabel(label, width))
	sb.WriteString(value)
	for i := renderedLen(v, prec); i < width; i++ {
		sb.WriteByte(' ')
	}
	fmt.Fprint(f.diag, sb.String())

	f.line.AppendField(value)
}

// DateTime formats the fix date as YY-MM-DD and time as HH:MM:SS. Each
// half is checked for validity on its own.
func (f *Formatter) DateTime(d gps.Date, t gps.TimeOfDay) {
	defer f.drain()

	if !d.Valid {
		fmt.Fprint(f.diag, Sentinel+Separator+" ")
		f.line.AppendSentinel()
	} else {
		s := fmt.Sprintf("%02d-%02d-%02d", d.Year%100, d.Month, d.Day)
		fmt.Fprint(f.diag, s+" ")
		f.line.AppendField(s)
	}

	if !t.Valid {
		fmt.Fprint(f.diag, Sentinel+Separator+" ")
		f.line.AppendSentinel()
	} else {
		s := fmt.Sprintf("%02d:%02d:%02d", t.Hour, t.Minute, t.Second)
		fmt.Fprint(f.diag, s+" ")
		f.line.AppendField(s)
	}
}

// fitLabel writes label into exactly width slots.
func fitLabel(label string, width int) string {
	if width <= 0 {
		return ""
	}
	if len(label) >= width {
		return label[:width]
	}
	return label + strings.Repeat(" ", width-len(label))
}

// renderedLen approximates the printed length of v: sign, up to four
// integer digits, decimal point and prec fractional digits.
func renderedLen(v float64, prec int) int {
	n := prec + 1
	if v < 0 {
		n++
	}
	vi := math.Abs(math.Trunc(v))
	switch {
	case vi >= 1000:
		n += 4
	case vi >= 100:
		n += 3
	case vi >= 10:
		n += 2
	default:
		n++
	}
	return n
}
