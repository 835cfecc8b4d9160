package oled

import (
	"fmt"

	"tinygo.org/x/drivers"
)

// DefaultAddress is the usual SSD1306 I2C address.
const DefaultAddress = 0x3C

// Control bytes prefixing every transfer: one command byte follows, or a
// stream of display data.
const (
	ctrlCommand = 0x80
	ctrlData    = 0x40
)

// SSD1306 command set, the subset this driver uses.
const (
	cmdSetMemMode    = 0x20
	cmdSetColAddr    = 0x21
	cmdSetPageAddr   = 0x22
	cmdScrollOff     = 0x2E
	cmdSetStartLine  = 0x40
	cmdSetContrast   = 0x81
	cmdSetChargePump = 0x8D
	cmdSegRemap      = 0xA1
	cmdEntireOn      = 0xA4
	cmdNormalDisp    = 0xA6
	cmdSetMuxRatio   = 0xA8
	cmdDispOff       = 0xAE
	cmdDispOn        = 0xAF
	cmdComOutDir     = 0xC8
	cmdSetDispOffset = 0xD3
	cmdSetClkDiv     = 0xD5
	cmdSetPrecharge  = 0xD9
	cmdSetComPins    = 0xDA
	cmdSetVComDesel  = 0xDB
)

// Device is an SSD1306 driver over any bus satisfying drivers.I2C, which
// covers machine.I2C on the board and the periph.io bridge on a host.
type Device struct {
	bus  drivers.I2C
	addr uint8
	tx   []byte // reused data-stream buffer, ctrlData plus payload
}

// NewDevice binds the driver to a bus and panel address.
func NewDevice(bus drivers.I2C, addr uint8) *Device {
	if addr == 0 {
		addr = DefaultAddress
	}
	return &Device{bus: bus, addr: addr}
}

// Configure runs the power-up sequence for a 128x64 panel with the
// internal charge pump and leaves the display on.
func (d *Device) Configure() error {
	sequence := []byte{
		cmdDispOff,
		cmdSetMemMode, 0x00, // horizontal addressing
		cmdSetStartLine,
		cmdSegRemap,
		cmdSetMuxRatio, Height - 1,
		cmdComOutDir,
		cmdSetDispOffset, 0x00,
		cmdSetComPins, 0x12,
		cmdSetClkDiv, 0x80,
		cmdSetPrecharge, 0xF1,
		cmdSetVComDesel, 0x30,
		cmdSetContrast, 0xFF,
		cmdEntireOn,
		cmdNormalDisp,
		cmdSetChargePump, 0x14,
		cmdScrollOff,
		cmdDispOn,
	}

	for _, c := range sequence {
		if err := d.Command(c); err != nil {
			return fmt.Errorf("display init: %w", err)
		}
	}
	return nil
}

// Command sends a single command byte.
func (d *Device) Command(c byte) error {
	return d.bus.Tx(uint16(d.addr), []byte{ctrlCommand, c}, nil)
}

// Push sets the panel's column and page window to the frame's area and
// streams the frame bytes into it.
func (d *Device) Push(f *Frame) error {
	area := f.Area()
	buf := f.Bytes()
	if len(buf) != area.BufferLength() {
		return fmt.Errorf("frame is %d bytes, area needs %d", len(buf), area.BufferLength())
	}

	window := []byte{
		cmdSetColAddr, area.StartCol, area.EndCol,
		cmdSetPageAddr, area.StartPage, area.EndPage,
	}
	for _, c := range window {
		if err := d.Command(c); err != nil {
			return fmt.Errorf("set window: %w", err)
		}
	}

	if cap(d.tx) < len(buf)+1 {
		d.tx = make([]byte, len(buf)+1)
	}
	tx := d.tx[:len(buf)+1]
	tx[0] = ctrlData
	copy(tx[1:], buf)

	return d.bus.Tx(uint16(d.addr), tx, nil)
}
