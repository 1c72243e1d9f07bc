// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package display

import (
	"fmt"
	"image"
	"io"
	"log/slog"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/devices/v3/ssd1306"
	"periph.io/x/devices/v3/ssd1306/image1bit"
)

// basicfont.Face7x13 cell size
const (
	glyphWidth  = 7
	glyphHeight = 13
)

// Text is a text-only display cleared at the end of every cycle.
type Text interface {
	io.Writer
	Clear() error
}

// Panel is the subset of ssd1306.Dev used to draw.
type Panel interface {
	Bounds() image.Rectangle
	Draw(r image.Rectangle, src image.Image, sp image.Point) error
	Halt() error
}

// OLED renders written text as a scrolling character grid.
type OLED struct {
	panel  Panel
	bus    i2c.BusCloser
	screen *Screen
}

// PanelAddr is the I2C address the ssd1306 driver talks to.
const PanelAddr = 0x3C

// OpenOLED opens the I2C bus and initializes an SSD1306 panel at PanelAddr.
// periph host.Init must have been called.
func OpenOLED(busName string, logger *slog.Logger) (*OLED, error) {
	bus, err := i2creg.Open(busName)
	if err != nil {
		return nil, fmt.Errorf("display: I2C open %q: %w", busName, err)
	}

	o, err := newOLEDOnBus(bus)
	if err != nil {
		bus.Close()
		return nil, err
	}
	logger.Info("display initialized", "bus", bus.String(), "addr", fmt.Sprintf("0x%02X", PanelAddr))

	o.bus = bus
	return o, nil
}

// newOLEDOnBus sends the ssd1306 init sequence over bus.
func newOLEDOnBus(bus i2c.Bus) (*OLED, error) {
	dev, err := ssd1306.NewI2C(bus, &ssd1306.DefaultOpts)
	if err != nil {
		return nil, fmt.Errorf("display: init at 0x%02X: %w", PanelAddr, err)
	}
	return NewOLED(dev), nil
}

// NewOLED wraps an initialized panel.
func NewOLED(panel Panel) *OLED {
	b := panel.Bounds()
	return &OLED{
		panel:  panel,
		screen: NewScreen(b.Dx()/glyphWidth, b.Dy()/glyphHeight),
	}
}

// Write appends text at the cursor and redraws.
func (o *OLED) Write(p []byte) (int, error) {
	o.screen.Write(p)
	if err := o.render(); err != nil {
		return 0, err
	}
	return len(p), nil
}

// Clear blanks the panel and homes the cursor.
func (o *OLED) Clear() error {
	o.screen.Reset()
	return o.render()
}

// Splash shows a two line start screen.
func (o *OLED) Splash(title, subtitle string) error {
	o.screen.Reset()
	o.screen.Write([]byte(title + "\n" + subtitle))
	return o.render()
}

// Close blanks the panel and releases the bus.
func (o *OLED) Close() error {
	err := o.panel.Halt()
	if o.bus != nil {
		if cerr := o.bus.Close(); err == nil {
			err = cerr
		}
	}
	return err
}

func (o *OLED) render() error {
	img := image1bit.NewVerticalLSB(o.panel.Bounds())

	drawer := &font.Drawer{
		Dst:  img,
		Src:  &image.Uniform{image1bit.On},
		Face: basicfont.Face7x13,
	}

	for row, line := range o.screen.Lines() {
		drawer.Dot = fixed.P(0, (row+1)*glyphHeight)
		drawer.DrawBytes([]byte(line))
	}

	return o.panel.Draw(o.panel.Bounds(), img, image.Point{})
}

// Discard is the display used when diagnostics are off or no panel answered.
type Discard struct{}

func (Discard) Write(p []byte) (int, error) { return len(p), nil }
func (Discard) Clear() error                { return nil }
