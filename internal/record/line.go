// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package record builds the semicolon-delimited log line of one cycle and
// the human-readable projection of the same fields.
package record

import "strings"

const (
	// Sentinel replaces the value of an invalid field.
	Sentinel = "NULL"
	// Separator terminates every field.
	Separator = ";"
	// ResetMarker is the first record after every initialization.
	ResetMarker = "-------------- DeviceReset -- New Measurement ---------------"
)

// Line accumulates the fields of the current record. It is owned by a
// single loop and is not safe for concurrent use.
type Line struct {
	b strings.Builder
}

// AppendField adds value followed by the separator.
func (l *Line) AppendField(value string) {
	l.b.WriteString(value)
	l.b.WriteString(Separator)
}

// AppendSentinel adds the invalid-field token.
func (l *Line) AppendSentinel() {
	l.AppendField(Sentinel)
}

// Seed adds raw text without a separator.
func (l *Line) Seed(text string) {
	l.b.WriteString(text)
}

// String returns the accumulated text.
func (l *Line) String() string {
	return l.b.String()
}

// Len returns the accumulated length in bytes.
func (l *Line) Len() int {
	return l.b.Len()
}

// Reset empties the line.
func (l *Line) Reset() {
	l.b.Reset()
}
