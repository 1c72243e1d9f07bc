// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package gps

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"

	serial "github.com/jacobsa/go-serial/serial"
)

// ErrNoData is returned by ReadByte when the receive buffer is empty.
var ErrNoData = errors.New("gps: no data available")

// SerialSource buffers bytes arriving from the receiver in a bounded
// receive buffer. Bytes arriving while the buffer is full are dropped,
// so the buffer has to be drained every few milliseconds.
type SerialSource struct {
	port io.ReadCloser
	rx   chan byte
	log  *slog.Logger

	overflows atomic.Uint64
	done      chan struct{}
	closeOnce sync.Once
}

// OpenSerial opens the receiver's serial port (8N1) and starts buffering.
func OpenSerial(portName string, baudRate, rxBuffer int, logger *slog.Logger) (*SerialSource, error) {
	// NOTE: /dev/serial0, /dev/ttyAMA0, /dev/ttyUSB0, etc. depending on wiring
	opts := serial.OpenOptions{
		PortName:              portName,
		BaudRate:              uint(baudRate),
		DataBits:              8,
		StopBits:              1,
		MinimumReadSize:       1,
		ParityMode:            serial.PARITY_NONE,
		InterCharacterTimeout: 0,
	}

	port, err := serial.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("gps: open %s: %w", portName, err)
	}
	logger.Info("serial port opened", "port", portName, "baud", baudRate, "rx_buffer", rxBuffer)

	return NewSource(port, rxBuffer, logger), nil
}

// NewSource starts buffering bytes read from r.
func NewSource(r io.ReadCloser, rxBuffer int, logger *slog.Logger) *SerialSource {
	s := &SerialSource{
		port: r,
		rx:   make(chan byte, rxBuffer),
		log:  logger,
		done: make(chan struct{}),
	}
	go s.receive()
	return s
}

func (s *SerialSource) receive() {
	defer close(s.done)

	chunk := make([]byte, 64)
	for {
		n, err := s.port.Read(chunk)
		for _, b := range chunk[:n] {
			select {
			case s.rx <- b:
			default:
				s.overflows.Add(1)
			}
		}
		if err != nil {
			if !errors.Is(err, io.EOF) {
				s.log.Warn("serial read stopped", "err", err)
			}
			return
		}
	}
}

// Available returns the number of buffered bytes.
func (s *SerialSource) Available() int {
	return len(s.rx)
}

// ReadByte returns the next buffered byte without blocking.
func (s *SerialSource) ReadByte() (byte, error) {
	select {
	case b := <-s.rx:
		return b, nil
	default:
		return 0, ErrNoData
	}
}

// Overflows returns the number of bytes lost to a full receive buffer.
func (s *SerialSource) Overflows() uint64 {
	return s.overflows.Load()
}

// Done is closed once the port stops delivering data.
func (s *SerialSource) Done() <-chan struct{} {
	return s.done
}

// Close closes the port.
func (s *SerialSource) Close() error {
	var err error
	s.closeOnce.Do(func() {
		err = s.port.Close()
	})
	return err
}
