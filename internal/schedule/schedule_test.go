// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package schedule

import (
	"errors"
	"testing"
	"time"
)

type fakeClock struct {
	now    time.Time
	sleeps int
	// onSleep runs after each advance; used to trickle in bytes.
	onSleep func()
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Sleep(d time.Duration) {
	c.now = c.now.Add(d)
	c.sleeps++
	if c.onSleep != nil {
		c.onSleep()
	}
}

type fakeSource struct {
	data []byte
}

func (s *fakeSource) Available() int { return len(s.data) }

func (s *fakeSource) ReadByte() (byte, error) {
	if len(s.data) == 0 {
		return 0, errors.New("empty")
	}
	b := s.data[0]
	s.data = s.data[1:]
	return b, nil
}

type recordingDecoder struct {
	got []byte
}

func (d *recordingDecoder) Encode(c byte) bool {
	d.got = append(d.got, c)
	return false
}

func TestFeeder_DrainsEverything(t *testing.T) {
	src := &fakeSource{data: []byte("$GPRMC")}
	dec := &recordingDecoder{}
	f := NewFeeder(src, dec)

	if n := f.Drain(); n != 6 {
		t.Fatalf("drained %d", n)
	}
	if string(dec.got) != "$GPRMC" {
		t.Fatalf("decoder got %q", dec.got)
	}
	if n := f.Drain(); n != 0 {
		t.Fatalf("empty source drained %d", n)
	}
}

func TestFeeder_NilSource(t *testing.T) {
	f := NewFeeder(nil, &recordingDecoder{})
	if n := f.Drain(); n != 0 {
		t.Fatalf("drained %d", n)
	}
}

func TestWaiter_ZeroDurationDrainsOnce(t *testing.T) {
	clk := &fakeClock{now: time.Unix(0, 0)}
	src := &fakeSource{data: []byte("abc")}
	dec := &recordingDecoder{}
	w := NewWaiter(clk, NewFeeder(src, dec), time.Millisecond)

	w.WaitAndDrain(0)

	if clk.sleeps != 0 {
		t.Fatalf("zero wait slept %d times", clk.sleeps)
	}
	if string(dec.got) != "abc" {
		t.Fatalf("decoder got %q", dec.got)
	}
}

func TestWaiter_FeedsThroughoutWait(t *testing.T) {
	clk := &fakeClock{now: time.Unix(0, 0)}
	src := &fakeSource{}
	dec := &recordingDecoder{}
	clk.onSleep = func() { src.data = append(src.data, 'x') }
	w := NewWaiter(clk, NewFeeder(src, dec), time.Millisecond)

	start := clk.Now()
	w.WaitAndDrain(3 * time.Second)

	if elapsed := w.Since(start); elapsed < 3*time.Second {
		t.Fatalf("returned after %v", elapsed)
	}
	if clk.sleeps != 3000 {
		t.Fatalf("sleeps=%d", clk.sleeps)
	}
	// Every byte that arrived during the wait reached the decoder.
	if len(dec.got) != 3000 || src.Available() != 0 {
		t.Fatalf("decoded %d, left %d", len(dec.got), src.Available())
	}
}
