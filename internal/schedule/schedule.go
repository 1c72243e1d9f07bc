// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package schedule keeps the positioning decoder fed while the logger
// waits. Every pause in the acquisition loop goes through a Waiter so the
// receiver's bounded buffer is drained every few milliseconds.
package schedule

import "time"

// ByteSource is a non-blocking byte stream.
type ByteSource interface {
	Available() int
	ReadByte() (byte, error)
}

// Decoder consumes one byte at a time.
type Decoder interface {
	Encode(c byte) bool
}

// Clock is the monotonic time base of the loop.
type Clock interface {
	Now() time.Time
	Sleep(d time.Duration)
}

// SystemClock is the wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time        { return time.Now() }
func (SystemClock) Sleep(d time.Duration) { time.Sleep(d) }

// Feeder moves every available byte from a source into a decoder.
type Feeder struct {
	src ByteSource
	dec Decoder
}

// NewFeeder returns a feeder. A nil source makes Drain a no-op.
func NewFeeder(src ByteSource, dec Decoder) *Feeder {
	return &Feeder{src: src, dec: dec}
}

// Drain hands all currently buffered bytes to the decoder and returns how
// many were moved. An empty source is normal.
func (f *Feeder) Drain() int {
	if f == nil || f.src == nil {
		return 0
	}
	n := 0
	for f.src.Available() > 0 {
		c, err := f.src.ReadByte()
		if err != nil {
			break
		}
		f.dec.Encode(c)
		n++
	}
	return n
}

// Waiter blocks for a duration while draining a Feeder.
type Waiter struct {
	clock  Clock
	feeder *Feeder
	poll   time.Duration
}

// NewWaiter returns a waiter polling the feeder every poll interval.
func NewWaiter(clock Clock, feeder *Feeder, poll time.Duration) *Waiter {
	return &Waiter{clock: clock, feeder: feeder, poll: poll}
}

// WaitAndDrain returns once at least d has elapsed on the clock. The
// decoder is fed before the first check and after every poll, so d <= 0
// is a single drain.
func (w *Waiter) WaitAndDrain(d time.Duration) {
	start := w.clock.Now()
	w.feeder.Drain()
	for w.clock.Now().Sub(start) < d {
		if w.poll > 0 {
			w.clock.Sleep(w.poll)
		}
		w.feeder.Drain()
	}
}

// Since returns the time elapsed on the waiter's clock.
func (w *Waiter) Since(t time.Time) time.Duration {
	return w.clock.Now().Sub(t)
}

// Now returns the waiter's clock reading.
func (w *Waiter) Now() time.Time {
	return w.clock.Now()
}
