// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package gps

import (
	"fmt"
	"io"
	"math"
	"sync"
	"time"
)

// SimPort is the GPS_SERIAL_PORT value selecting the simulated receiver.
const SimPort = "sim"

// SimReceiver emits one RMC and one GGA sentence per interval describing
// a position that drifts smoothly around a base point. It stands in for
// the serial port on a bench without a receiver.
type SimReceiver struct {
	baseLat, baseLon float64
	interval         time.Duration
	start            time.Time

	pending   []byte
	closed    chan struct{}
	closeOnce sync.Once
}

// NewSimReceiver creates a simulated receiver around lat/lon.
func NewSimReceiver(lat, lon float64, interval time.Duration) *SimReceiver {
	return &SimReceiver{
		baseLat:  lat,
		baseLon:  lon,
		interval: interval,
		start:    time.Now(),
		closed:   make(chan struct{}),
	}
}

// Read blocks until the next burst of sentences is due.
func (s *SimReceiver) Read(p []byte) (int, error) {
	if len(s.pending) == 0 {
		select {
		case <-s.closed:
			return 0, io.EOF
		case <-time.After(s.interval):
		}
		now := time.Now()
		s.pending = s.Sentences(now.UTC(), now.Sub(s.start))
	}
	n := copy(p, s.pending)
	s.pending = s.pending[n:]
	return n, nil
}

// Close stops the receiver.
func (s *SimReceiver) Close() error {
	s.closeOnce.Do(func() { close(s.closed) })
	return nil
}

// Sentences renders the burst for wall time t, elapsed after start.
func (s *SimReceiver) Sentences(t time.Time, elapsed time.Duration) []byte {
	e := elapsed.Seconds()
	lat := s.baseLat + 0.001*math.Sin(e/60)
	lon := s.baseLon + 0.001*math.Cos(e/60*0.7)
	alt := 34.5 + 2*math.Sin(e/30)

	latStr, ns := nmeaCoord(lat, 2, "N", "S")
	lonStr, ew := nmeaCoord(lon, 3, "E", "W")
	hms := t.Format("150405") + ".00"

	rmc := fmt.Sprintf("GPRMC,%s,A,%s,%s,%s,%s,0.0,0.0,%s,003.1,W",
		hms, latStr, ns, lonStr, ew, t.Format("020106"))
	gga := fmt.Sprintf("GPGGA,%s,%s,%s,%s,%s,1,08,0.9,%.1f,M,46.9,M,,",
		hms, latStr, ns, lonStr, ew, alt)

	return []byte(frame(rmc) + frame(gga))
}

// nmeaCoord renders decimal degrees as (d)ddmm.mmmmm plus hemisphere.
func nmeaCoord(v float64, degDigits int, pos, neg string) (string, string) {
	hemi := pos
	if v < 0 {
		hemi = neg
		v = -v
	}
	// round once in 1e-5 minute units so 59.999995' carries into the degrees
	const perDegree = 60 * 100000
	units := int64(math.Round(v * perDegree))
	deg, rem := units/perDegree, units%perDegree
	return fmt.Sprintf("%0*d%02d.%05d", degDigits, deg, rem/100000, rem%100000), hemi
}

// frame adds the leading '$', checksum and line terminator.
func frame(payload string) string {
	ck := byte(0)
	for i := 0; i < len(payload); i++ {
		ck ^= payload[i]
	}
	return fmt.Sprintf("$%s*%02X\r\n", payload, ck)
}
