package oled

import (
	"periph.io/x/conn/v3/i2c"
	"tinygo.org/x/drivers"
)

// Ensure the bridge satisfies the bus contract the Device consumes.
var _ drivers.I2C = (*PeriphBus)(nil)

// PeriphBus adapts a periph.io I2C bus to drivers.I2C, so the same
// Device can drive a physical panel from a Linux host.
type PeriphBus struct {
	bus i2c.Bus
}

// NewPeriphBus wraps an opened periph.io bus.
func NewPeriphBus(bus i2c.Bus) *PeriphBus {
	return &PeriphBus{bus: bus}
}

// Tx passes a write/read transaction straight through.
func (p *PeriphBus) Tx(addr uint16, w, r []byte) error {
	return p.bus.Tx(addr, w, r)
}

// ReadRegister selects reg, then reads into buf.
func (p *PeriphBus) ReadRegister(addr uint8, reg uint8, buf []byte) error {
	return p.bus.Tx(uint16(addr), []byte{reg}, buf)
}

// WriteRegister writes reg followed by buf in one transaction.
func (p *PeriphBus) WriteRegister(addr uint8, reg uint8, buf []byte) error {
	w := make([]byte, len(buf)+1)
	w[0] = reg
	copy(w[1:], buf)
	return p.bus.Tx(uint16(addr), w, nil)
}
