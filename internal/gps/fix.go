// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package gps

// Date is the UTC date of the last fix.
type Date struct {
	Valid bool
	Year  int // four digits
	Month int
	Day   int
}

// TimeOfDay is the UTC time of the last fix.
type TimeOfDay struct {
	Valid  bool
	Hour   int
	Minute int
	Second int
}

// Location is the last known position in decimal degrees.
type Location struct {
	Valid bool
	Lat   float64
	Lon   float64
}

// Altitude is the last known height above mean sea level.
type Altitude struct {
	Valid  bool
	Meters float64
}

// State is a read-only copy of everything the decoder knows.
type State struct {
	Date     Date
	Time     TimeOfDay
	Location Location
	Altitude Altitude

	CharsProcessed   uint64 // every byte handed to Encode
	FixSentences     uint64 // RMC and GGA sentences carrying a fix
	Parsed           uint64 // sentences accepted by the parser
	Rejected         uint64 // bad checksum, unsupported or malformed sentences
}
