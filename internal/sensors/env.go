package sensors

import (
	"fmt"
	"log/slog"

	"github.com/relabs-tech/gps_datalogger/internal/env"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/devices/v3/bmxx80"
)

// Reader provides environmental samples.
type Reader interface {
	Read() (env.Sample, error)
}

// Sensor is the subset of bmxx80.Dev used here.
type Sensor interface {
	Sense(e *physic.Env) error
	Halt() error
}

// BME280 reads temperature, humidity and pressure.
type BME280 struct {
	dev Sensor
	bus i2c.BusCloser
}

// OpenBME280 opens the I2C bus and initializes the sensor.
// periph host.Init must have been called.
func OpenBME280(busName string, addr uint16, logger *slog.Logger) (*BME280, error) {
	bus, err := i2creg.Open(busName)
	if err != nil {
		return nil, fmt.Errorf("sensor: I2C open %q: %w", busName, err)
	}

	dev, err := bmxx80.NewI2C(bus, addr, &bmxx80.DefaultOpts)
	if err != nil {
		bus.Close()
		return nil, fmt.Errorf("sensor: init at 0x%02X: %w", addr, err)
	}
	logger.Info("environmental sensor initialized", "device", dev.String(), "addr", fmt.Sprintf("0x%02X", addr))

	return &BME280{dev: dev, bus: bus}, nil
}

// NewBME280 wraps an already initialized device.
func NewBME280(dev Sensor) *BME280 {
	return &BME280{dev: dev}
}

// Read senses once. Fields the device does not measure are NaN.
func (b *BME280) Read() (env.Sample, error) {
	var e physic.Env
	if err := b.dev.Sense(&e); err != nil {
		return env.Invalid(), fmt.Errorf("sensor: sense: %w", err)
	}

	s := env.Invalid()
	s.Temperature = e.Temperature.Celsius()
	pressurePa := float64(e.Pressure) / float64(physic.Pascal)
	s.Pressure = pressurePa / 100.0 // 1 hPa = 100 Pa
	// BMP280 has no humidity channel and reports zero.
	if e.Humidity != 0 {
		s.Humidity = float64(e.Humidity) / float64(physic.PercentRH)
	}
	return s, nil
}

// Close halts the device and releases the bus.
func (b *BME280) Close() error {
	err := b.dev.Halt()
	if b.bus != nil {
		if cerr := b.bus.Close(); err == nil {
			err = cerr
		}
	}
	return err
}

// Missing stands in for a sensor that failed to initialize.
type Missing struct{}

// Read always returns an invalid sample.
func (Missing) Read() (env.Sample, error) {
	return env.Invalid(), nil
}
