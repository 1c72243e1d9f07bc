// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"context"
	"log/slog"
	"os"
	"time"

	"periph.io/x/host/v3"

	"github.com/relabs-tech/gps_datalogger/internal/config"
	"github.com/relabs-tech/gps_datalogger/internal/display"
	"github.com/relabs-tech/gps_datalogger/internal/gps"
	"github.com/relabs-tech/gps_datalogger/internal/logsink"
	"github.com/relabs-tech/gps_datalogger/internal/schedule"
	"github.com/relabs-tech/gps_datalogger/internal/sensors"
)

// Bench position of the simulated receiver.
const (
	simLat = 52.520008
	simLon = 13.404954
)

// openReceiver opens the positioning receiver, or the simulated one when
// GPS_SERIAL_PORT=sim.
func openReceiver(cfg *config.Config, log *slog.Logger) (*gps.SerialSource, error) {
	if cfg.GPSSerialPort == gps.SimPort {
		log.Info("using simulated GPS receiver")
		return gps.NewSource(gps.NewSimReceiver(simLat, simLon, time.Second), cfg.GPSRxBuffer, log), nil
	}
	return gps.OpenSerial(cfg.GPSSerialPort, cfg.GPSBaudRate, cfg.GPSRxBuffer, log)
}

// RunDataLogger initializes the hardware and runs the acquisition loop
// until ctx is cancelled. Only a receiver that cannot be opened is fatal;
// a missing sensor, display or broker degrades to NULL fields or no output.
func RunDataLogger(ctx context.Context, cfg *config.Config, log *slog.Logger) error {
	// ---- 1) Positioning receiver ----
	gpsLog := log.With("component", "gps")
	src, err := openReceiver(cfg, gpsLog)
	if err != nil {
		return err
	}
	defer src.Close()
	dec := gps.NewDecoder()

	// ---- 2) I2C peripherals ----
	hostOK := true
	if _, err := host.Init(); err != nil {
		log.Warn("periph host init failed, running without I2C devices", "err", err)
		hostOK = false
	}

	var sensor sensors.Reader = sensors.Missing{}
	if cfg.SensorEnabled && hostOK {
		sensorLog := log.With("component", "sensor")
		bme, err := sensors.OpenBME280(cfg.SensorI2CBus, cfg.SensorI2CAddr, sensorLog)
		if err != nil {
			sensorLog.Warn("environmental sensor unavailable, logging NULL", "err", err)
		} else {
			defer bme.Close()
			sensor = bme
		}
	}

	var disp display.Text = display.Discard{}
	if cfg.Debug && hostOK {
		displayLog := log.With("component", "display")
		oled, err := display.OpenOLED(cfg.DisplayI2CBus, displayLog)
		if err != nil {
			displayLog.Warn("display unavailable", "err", err)
		} else {
			defer oled.Close()
			if err := oled.Splash("GPS Logger", "starting"); err != nil {
				displayLog.Warn("splash failed", "err", err)
			}
			disp = oled
		}
	}

	// ---- 3) Store and mirror ----
	var store logsink.Store = logsink.Disabled{}
	if cfg.EnableLog {
		store = logsink.FileStore{Path: cfg.LogFile}
		log.Info("logging records", "file", cfg.LogFile)
	}

	var mirrors []logsink.Mirror
	if cfg.MQTTBroker != "" {
		m, err := logsink.ConnectMQTT(cfg.MQTTBroker, cfg.MQTTClientID, cfg.TopicRecord, log.With("component", "mqtt"))
		if err != nil {
			log.Warn("record mirror disabled", "err", err)
		} else {
			defer m.Close()
			mirrors = append(mirrors, m)
		}
	}

	// ---- 4) Loop ----
	waiter := schedule.NewWaiter(schedule.SystemClock{}, schedule.NewFeeder(src, dec), cfg.Poll())
	logger := NewLogger(OptionsFromConfig(cfg), Deps{
		GPS:     dec,
		Sensor:  sensor,
		Waiter:  waiter,
		Display: disp,
		Console: os.Stdout,
		Store:   store,
		Mirrors: mirrors,
		Log:     log,
	})

	err = logger.Run(ctx)
	if n := src.Overflows(); n > 0 {
		gpsLog.Warn("receive buffer overflowed during run", "lost_bytes", n)
	}
	return err
}
