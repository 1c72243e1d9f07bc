// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package gps

import (
	nmea "github.com/adrianmo/go-nmea"
)

// maxSentenceLen is larger than any NMEA 0183 sentence (82 chars) with
// room for vendor extensions. Longer input is line noise.
const maxSentenceLen = 120

// Decoder incrementally parses an NMEA byte stream. Validity of each
// field is sticky: once acquired it keeps the last known value.
//
// A Decoder is not safe for concurrent use.
type Decoder struct {
	buf        []byte
	inSentence bool

	state State
}

// NewDecoder returns an empty decoder.
func NewDecoder() *Decoder {
	return &Decoder{buf: make([]byte, 0, maxSentenceLen)}
}

// Encode feeds one byte to the decoder. It reports whether a complete
// sentence was parsed and applied.
func (d *Decoder) Encode(c byte) bool {
	d.state.CharsProcessed++

	switch c {
	case '$':
		d.buf = append(d.buf[:0], c)
		d.inSentence = true
		return false

	case '\r', '\n':
		if !d.inSentence {
			return false
		}
		d.inSentence = false
		return d.commit(string(d.buf))

	default:
		if !d.inSentence {
			return false
		}
		if len(d.buf) >= maxSentenceLen {
			d.inSentence = false
			d.state.Rejected++
			return false
		}
		d.buf = append(d.buf, c)
		return false
	}
}

// Snapshot returns a copy of the current state.
func (d *Decoder) Snapshot() State {
	return d.state
}

// CharsProcessed returns the number of bytes fed so far.
func (d *Decoder) CharsProcessed() uint64 {
	return d.state.CharsProcessed
}

func (d *Decoder) commit(line string) bool {
	sentence, err := nmea.Parse(line)
	if err != nil {
		// noisy receiver, partial sentences or types we do not decode
		d.state.Rejected++
		return false
	}
	d.state.Parsed++

	switch sentence.DataType() {
	case nmea.TypeRMC:
		m := sentence.(nmea.RMC)
		d.applyTime(m.Time)
		if m.Date.Valid {
			d.state.Date = Date{
				Valid: true,
				Year:  2000 + m.Date.YY,
				Month: m.Date.MM,
				Day:   m.Date.DD,
			}
		}
		if m.Validity == nmea.ValidRMC {
			d.state.Location = Location{Valid: true, Lat: m.Latitude, Lon: m.Longitude}
			d.state.FixSentences++
		}

	case nmea.TypeGGA:
		m := sentence.(nmea.GGA)
		d.applyTime(m.Time)
		if m.FixQuality != "" && m.FixQuality != nmea.Invalid {
			d.state.Location = Location{Valid: true, Lat: m.Latitude, Lon: m.Longitude}
			d.state.Altitude = Altitude{Valid: true, Meters: m.Altitude}
			d.state.FixSentences++
		}

	default:
		// GSV, GSA, VTG and friends carry nothing the logger records
	}
	return true
}

func (d *Decoder) applyTime(t nmea.Time) {
	if !t.Valid {
		return
	}
	d.state.Time = TimeOfDay{
		Valid:  true,
		Hour:   t.Hour,
		Minute: t.Minute,
		Second: t.Second,
	}
}
