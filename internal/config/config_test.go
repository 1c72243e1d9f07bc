// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestParse_OverridesDefaults(t *testing.T) {
	in := `
# logger settings
DEBUG=false
ENLOG=true
LOG_FILE=/data/log.txt
GPS_SERIAL_PORT=/dev/ttyUSB0
GPS_BAUD_RATE=38400
SENSOR_I2C_ADDR=0x77
DISPLAY_I2C_ADDR=60
CYCLE_INTERVAL=1000
MQTT_BROKER=tcp://localhost:1883
LOG_LEVEL=DEBUG
`
	cfg, err := Parse(strings.NewReader(in))
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if cfg.Debug {
		t.Fatalf("expected Debug=false")
	}
	if cfg.LogFile != "/data/log.txt" {
		t.Fatalf("LogFile=%q", cfg.LogFile)
	}
	if cfg.GPSSerialPort != "/dev/ttyUSB0" || cfg.GPSBaudRate != 38400 {
		t.Fatalf("gps=%q@%d", cfg.GPSSerialPort, cfg.GPSBaudRate)
	}
	if cfg.SensorI2CAddr != 0x77 {
		t.Fatalf("SensorI2CAddr=0x%02X", cfg.SensorI2CAddr)
	}
	if cfg.DisplayI2CAddr != 0x3C {
		t.Fatalf("DisplayI2CAddr=0x%02X", cfg.DisplayI2CAddr)
	}
	if cfg.Cycle() != time.Second {
		t.Fatalf("Cycle=%v", cfg.Cycle())
	}
	if cfg.LogLevel != "debug" {
		t.Fatalf("LogLevel=%q", cfg.LogLevel)
	}
	// Untouched keys keep their defaults.
	if cfg.NoData() != 5*time.Second || cfg.NoDataMinChars != 10 {
		t.Fatalf("no-data defaults changed: %v %d", cfg.NoData(), cfg.NoDataMinChars)
	}
	if cfg.TopicRecord != "datalogger/record" {
		t.Fatalf("TopicRecord=%q", cfg.TopicRecord)
	}
}

func TestParse_Errors(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"unknown key", "FOO=1", "unknown config key"},
		{"missing equals", "DEBUG", "invalid config line 1"},
		{"bad bool", "ENLOG=maybe", "invalid ENLOG"},
		{"bad int", "GPS_BAUD_RATE=fast", "invalid GPS_BAUD_RATE"},
		{"zero baud", "GPS_BAUD_RATE=0", "GPS_BAUD_RATE must be positive"},
		{"wide address", "SENSOR_I2C_ADDR=0x1FF", "7-bit"},
		{"display address", "DISPLAY_I2C_ADDR=0x3D", "DISPLAY_I2C_ADDR must be 0x3C"},
		{"empty log file", "LOG_FILE=", "LOG_FILE is required"},
		{"bad level", "LOG_LEVEL=loud", "LOG_LEVEL"},
		{"line number", "DEBUG=true\n\nCYCLE_INTERVAL=x", "config line 3"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tc.in))
			if err == nil {
				t.Fatalf("expected error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("error %q does not mention %q", err, tc.want)
			}
		})
	}
}

func TestLoadOrDefault_MissingFile(t *testing.T) {
	cfg, err := LoadOrDefault(filepath.Join(t.TempDir(), "absent.txt"))
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if cfg.GPSBaudRate != 9600 || !cfg.EnableLog || !cfg.Debug {
		t.Fatalf("expected defaults, got %+v", cfg)
	}
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.txt")
	if err := os.WriteFile(path, []byte("ENLOG=false\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if cfg.EnableLog {
		t.Fatalf("expected EnableLog=false")
	}
}

func TestLoad_ExampleFile(t *testing.T) {
	cfg, err := Load(filepath.Join("..", "..", "datalogger_config.example.txt"))
	if err != nil {
		t.Fatalf("example config does not load: %v", err)
	}
	if cfg.GPSBaudRate != 9600 || cfg.DisplayI2CAddr != 0x3C || cfg.MQTTBroker != "" {
		t.Fatalf("unexpected example values: %+v", cfg)
	}
}
