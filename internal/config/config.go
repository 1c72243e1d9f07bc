// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package config

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration values.
type Config struct {
	// Feature toggles
	Debug     bool // diagnostics console + display output
	EnableLog bool // persistent log file

	// Store
	LogFile string

	// GPS
	GPSSerialPort string
	GPSBaudRate   int
	GPSRxBuffer   int // bytes held between two drains before data is lost

	// Environmental sensor (BME280)
	SensorEnabled bool
	SensorI2CBus  string
	SensorI2CAddr uint16

	// Display (SSD1306)
	DisplayI2CBus  string
	DisplayI2CAddr uint16

	// Timing, all in milliseconds
	CycleInterval int
	NoDataTimeout int
	PollInterval  int

	// Liveness heuristic: below this many decoded characters after
	// NoDataTimeout the receiver is reported as silent.
	NoDataMinChars int

	// MQTT record mirror, disabled when MQTTBroker is empty
	MQTTBroker   string
	MQTTClientID string
	TopicRecord  string

	// Logging
	LogLevel  string
	LogFormat string
}

// Default returns the configuration the logger runs with when no file overrides it.
func Default() *Config {
	return &Config{
		Debug:     true,
		EnableLog: true,

		LogFile: "datalog.txt",

		GPSSerialPort: "/dev/serial0",
		GPSBaudRate:   9600,
		GPSRxBuffer:   64,

		SensorEnabled: true,
		SensorI2CBus:  "",
		SensorI2CAddr: 0x76,

		DisplayI2CBus:  "",
		DisplayI2CAddr: displayAddr,

		CycleInterval:  3000,
		NoDataTimeout:  5000,
		PollInterval:   1,
		NoDataMinChars: 10,

		MQTTClientID: "gps-datalogger",
		TopicRecord:  "datalogger/record",

		LogLevel:  "info",
		LogFormat: "text",
	}
}

// Load reads the configuration file on top of Default and returns the result.
func Load(configPath string) (*Config, error) {
	file, err := os.Open(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer file.Close()

	return Parse(file)
}

// LoadOrDefault behaves like Load but returns Default when the file does not exist.
func LoadOrDefault(configPath string) (*Config, error) {
	cfg, err := Load(configPath)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

// Parse reads KEY=VALUE lines from r.
func Parse(r io.Reader) (*Config, error) {
	cfg := Default()
	scanner := bufio.NewScanner(r)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid config line %d: %q", lineNum, line)
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		if err := cfg.setValue(key, value); err != nil {
			return nil, fmt.Errorf("config line %d: %w", lineNum, err)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// setValue sets a config value based on the key.
func (c *Config) setValue(key, value string) error {
	var err error
	switch key {
	// Feature toggles
	case "DEBUG":
		c.Debug, err = parseBool(key, value)
	case "ENLOG":
		c.EnableLog, err = parseBool(key, value)

	// Store
	case "LOG_FILE":
		c.LogFile = value

	// GPS
	case "GPS_SERIAL_PORT":
		c.GPSSerialPort = value
	case "GPS_BAUD_RATE":
		c.GPSBaudRate, err = parseInt(key, value)
	case "GPS_RX_BUFFER":
		c.GPSRxBuffer, err = parseInt(key, value)

	// Sensor
	case "SENSOR_ENABLED":
		c.SensorEnabled, err = parseBool(key, value)
	case "SENSOR_I2C_BUS":
		c.SensorI2CBus = value
	case "SENSOR_I2C_ADDR":
		c.SensorI2CAddr, err = parseI2CAddr(key, value)

	// Display
	case "DISPLAY_I2C_BUS":
		c.DisplayI2CBus = value
	case "DISPLAY_I2C_ADDR":
		c.DisplayI2CAddr, err = parseI2CAddr(key, value)

	// Timing
	case "CYCLE_INTERVAL":
		c.CycleInterval, err = parseInt(key, value)
	case "NO_DATA_TIMEOUT":
		c.NoDataTimeout, err = parseInt(key, value)
	case "NO_DATA_MIN_CHARS":
		c.NoDataMinChars, err = parseInt(key, value)
	case "POLL_INTERVAL":
		c.PollInterval, err = parseInt(key, value)

	// MQTT
	case "MQTT_BROKER":
		c.MQTTBroker = value
	case "MQTT_CLIENT_ID":
		c.MQTTClientID = value
	case "TOPIC_RECORD":
		c.TopicRecord = value

	// Logging
	case "LOG_LEVEL":
		c.LogLevel = strings.ToLower(value)
	case "LOG_FORMAT":
		c.LogFormat = strings.ToLower(value)

	default:
		return fmt.Errorf("unknown config key: %q", key)
	}

	return err
}

func parseBool(key, value string) (bool, error) {
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	return b, nil
}

func parseInt(key, value string) (int, error) {
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	return n, nil
}

func parseI2CAddr(key, value string) (uint16, error) {
	addr, err := strconv.ParseUint(value, 0, 16)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	if addr > 0x7F {
		return 0, fmt.Errorf("%s must be a 7-bit I2C address, got 0x%02X", key, addr)
	}
	return uint16(addr), nil
}

// validate checks that all required fields are set.
func (c *Config) validate() error {
	if c.EnableLog && c.LogFile == "" {
		return fmt.Errorf("LOG_FILE is required when ENLOG is set")
	}
	if c.GPSBaudRate <= 0 {
		return fmt.Errorf("GPS_BAUD_RATE must be positive, got %d", c.GPSBaudRate)
	}
	if c.GPSRxBuffer <= 0 {
		return fmt.Errorf("GPS_RX_BUFFER must be positive, got %d", c.GPSRxBuffer)
	}
	if c.DisplayI2CAddr != displayAddr {
		return fmt.Errorf("DISPLAY_I2C_ADDR must be 0x%02X, the ssd1306 driver address, got 0x%02X", displayAddr, c.DisplayI2CAddr)
	}
	if c.CycleInterval <= 0 {
		return fmt.Errorf("CYCLE_INTERVAL must be positive, got %d", c.CycleInterval)
	}
	if c.NoDataTimeout < 0 {
		return fmt.Errorf("NO_DATA_TIMEOUT must not be negative, got %d", c.NoDataTimeout)
	}
	if c.PollInterval < 0 {
		return fmt.Errorf("POLL_INTERVAL must not be negative, got %d", c.PollInterval)
	}
	if c.MQTTBroker != "" && c.TopicRecord == "" {
		return fmt.Errorf("TOPIC_RECORD is required when MQTT_BROKER is set")
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("LOG_LEVEL must be one of debug, info, warn, error, got %q", c.LogLevel)
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("LOG_FORMAT must be text or json, got %q", c.LogFormat)
	}
	return nil
}

// SSD1306 panels are only reachable at their factory address.
const displayAddr = 0x3C

// Cycle returns the pause between two acquisition cycles.
func (c *Config) Cycle() time.Duration {
	return time.Duration(c.CycleInterval) * time.Millisecond
}

// NoData returns how long after start the receiver may stay silent.
func (c *Config) NoData() time.Duration {
	return time.Duration(c.NoDataTimeout) * time.Millisecond
}

// Poll returns the pause between two drains while waiting.
func (c *Config) Poll() time.Duration {
	return time.Duration(c.PollInterval) * time.Millisecond
}
