// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package gps

import (
	"fmt"
	"math"
	"strings"
	"testing"
)

func nmeaLine(payload string) string {
	ck := byte(0)
	for i := 0; i < len(payload); i++ {
		ck ^= payload[i]
	}
	return fmt.Sprintf("$%s*%02X\r\n", payload, ck)
}

func feed(d *Decoder, s string) int {
	applied := 0
	for i := 0; i < len(s); i++ {
		if d.Encode(s[i]) {
			applied++
		}
	}
	return applied
}

const (
	rmcFix   = "GPRMC,081530.00,A,5231.20048,N,01324.29724,E,0.1,0.0,190221,003.1,W"
	rmcNoFix = "GPRMC,123456.00,V,5231.20048,N,01324.29724,E,0.0,0.0,,003.1,W"
	ggaFix   = "GPGGA,081530.00,5231.20048,N,01324.29724,E,1,08,0.9,34.5,M,46.9,M,,"
)

func TestDecoder_RMCAndGGA(t *testing.T) {
	d := NewDecoder()
	input := nmeaLine(rmcFix) + nmeaLine(ggaFix)
	if n := feed(d, input); n != 2 {
		t.Fatalf("expected 2 applied sentences, got %d", n)
	}
	st := d.Snapshot()

	if !st.Date.Valid || st.Date.Year != 2021 || st.Date.Month != 2 || st.Date.Day != 19 {
		t.Fatalf("date=%+v", st.Date)
	}
	if !st.Time.Valid || st.Time.Hour != 8 || st.Time.Minute != 15 || st.Time.Second != 30 {
		t.Fatalf("time=%+v", st.Time)
	}
	if !st.Location.Valid {
		t.Fatalf("expected valid location")
	}
	if math.Abs(st.Location.Lat-52.520008) > 1e-6 || math.Abs(st.Location.Lon-13.404954) > 1e-6 {
		t.Fatalf("location=%+v", st.Location)
	}
	if !st.Altitude.Valid || st.Altitude.Meters != 34.5 {
		t.Fatalf("altitude=%+v", st.Altitude)
	}
	if st.CharsProcessed != uint64(len(input)) {
		t.Fatalf("chars=%d want %d", st.CharsProcessed, len(input))
	}
	if st.FixSentences != 2 || st.Parsed != 2 || st.Rejected != 0 {
		t.Fatalf("counters=%+v", st)
	}
}

func TestDecoder_NoFixKeepsFieldsIndependent(t *testing.T) {
	d := NewDecoder()
	feed(d, nmeaLine(rmcNoFix))
	st := d.Snapshot()

	if st.Date.Valid {
		t.Fatalf("expected invalid date, got %+v", st.Date)
	}
	if !st.Time.Valid || st.Time.Hour != 12 || st.Time.Minute != 34 || st.Time.Second != 56 {
		t.Fatalf("time=%+v", st.Time)
	}
	if st.Location.Valid || st.Altitude.Valid {
		t.Fatalf("expected no position, got %+v %+v", st.Location, st.Altitude)
	}
}

func TestDecoder_ValidityIsSticky(t *testing.T) {
	d := NewDecoder()
	feed(d, nmeaLine(rmcFix))
	feed(d, nmeaLine(rmcNoFix))
	st := d.Snapshot()

	if !st.Location.Valid || math.Abs(st.Location.Lat-52.520008) > 1e-6 {
		t.Fatalf("expected last known location, got %+v", st.Location)
	}
	if !st.Date.Valid || st.Date.Day != 19 {
		t.Fatalf("expected last known date, got %+v", st.Date)
	}
	if st.Time.Hour != 12 {
		t.Fatalf("expected time from latest sentence, got %+v", st.Time)
	}
}

func TestDecoder_RejectsBadChecksum(t *testing.T) {
	d := NewDecoder()
	good := nmeaLine(rmcFix)
	bad := strings.Replace(good, "*", "0*", 1)
	if n := feed(d, bad); n != 0 {
		t.Fatalf("expected nothing applied")
	}
	st := d.Snapshot()
	if st.Rejected != 1 || st.Location.Valid {
		t.Fatalf("state=%+v", st)
	}
}

func TestDecoder_IgnoresNoiseAndOverlongLines(t *testing.T) {
	d := NewDecoder()
	noise := "garbage\r\n" + "$" + strings.Repeat("A", 2*maxSentenceLen) + "\r\n"
	if n := feed(d, noise); n != 0 {
		t.Fatalf("expected nothing applied")
	}
	if d.CharsProcessed() != uint64(len(noise)) {
		t.Fatalf("chars=%d", d.CharsProcessed())
	}
	if d.Snapshot().Rejected != 1 {
		t.Fatalf("expected the overlong sentence to be rejected once, got %d", d.Snapshot().Rejected)
	}

	// Decoding resumes on the next '$'.
	if n := feed(d, nmeaLine(rmcFix)); n != 1 {
		t.Fatalf("expected recovery, got %d", n)
	}
}

func TestDecoder_SentenceSplitAcrossFeeds(t *testing.T) {
	d := NewDecoder()
	line := nmeaLine(ggaFix)
	half := len(line) / 2
	if n := feed(d, line[:half]); n != 0 {
		t.Fatalf("partial sentence applied")
	}
	if n := feed(d, line[half:]); n != 1 {
		t.Fatalf("expected completion on second feed")
	}
	if !d.Snapshot().Altitude.Valid {
		t.Fatalf("expected altitude")
	}
}
