package oled

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type txRecord struct {
	addr uint16
	w    []byte
}

// fakeBus records every transaction for inspection.
type fakeBus struct {
	txs []txRecord
	err error
}

func (b *fakeBus) Tx(addr uint16, w, r []byte) error {
	if b.err != nil {
		return b.err
	}
	cp := make([]byte, len(w))
	copy(cp, w)
	b.txs = append(b.txs, txRecord{addr: addr, w: cp})
	return nil
}

func (b *fakeBus) ReadRegister(addr uint8, reg uint8, buf []byte) error  { return nil }
func (b *fakeBus) WriteRegister(addr uint8, reg uint8, buf []byte) error { return nil }

func TestNewDevice_DefaultAddress(t *testing.T) {
	bus := &fakeBus{}
	dev := NewDevice(bus, 0)

	require.NoError(t, dev.Command(cmdNormalDisp))
	require.Len(t, bus.txs, 1)
	assert.Equal(t, uint16(DefaultAddress), bus.txs[0].addr)
}

func TestDevice_Configure(t *testing.T) {
	bus := &fakeBus{}
	dev := NewDevice(bus, DefaultAddress)

	require.NoError(t, dev.Configure())
	require.Len(t, bus.txs, 26)

	for i, tx := range bus.txs {
		require.Len(t, tx.w, 2, "transaction %d", i)
		require.Equal(t, byte(ctrlCommand), tx.w[0], "transaction %d control byte", i)
		require.Equal(t, uint16(DefaultAddress), tx.addr, "transaction %d address", i)
	}

	assert.Equal(t, byte(cmdDispOff), bus.txs[0].w[1], "panel goes dark before reprogramming")
	assert.Equal(t, byte(cmdDispOn), bus.txs[len(bus.txs)-1].w[1], "panel comes on last")
}

func TestDevice_ConfigureBusError(t *testing.T) {
	bus := &fakeBus{err: errors.New("nak")}
	dev := NewDevice(bus, DefaultAddress)

	err := dev.Configure()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "display init")
}

func TestDevice_Push(t *testing.T) {
	bus := &fakeBus{}
	dev := NewDevice(bus, DefaultAddress)

	f := NewFrame(FullScreen())
	f.SetPixel(0, 0, on)

	require.NoError(t, dev.Push(f))
	require.Len(t, bus.txs, 7, "six window command bytes plus one data stream")

	window := make([]byte, 0, 6)
	for _, tx := range bus.txs[:6] {
		require.Equal(t, byte(ctrlCommand), tx.w[0])
		window = append(window, tx.w[1])
	}
	assert.Equal(t, []byte{cmdSetColAddr, 0, 127, cmdSetPageAddr, 0, 7}, window)

	data := bus.txs[6]
	require.Len(t, data.w, 1025)
	assert.Equal(t, byte(ctrlData), data.w[0])
	assert.Equal(t, byte(0x01), data.w[1], "frame bytes follow the control byte unchanged")
	assert.Equal(t, f.Bytes(), data.w[1:])
}

func TestDevice_PushPartialArea(t *testing.T) {
	bus := &fakeBus{}
	dev := NewDevice(bus, DefaultAddress)

	area := Area{StartCol: 10, EndCol: 21, StartPage: 2, EndPage: 3}
	f := NewFrame(area)

	require.NoError(t, dev.Push(f))
	require.Len(t, bus.txs, 7)

	window := make([]byte, 0, 6)
	for _, tx := range bus.txs[:6] {
		window = append(window, tx.w[1])
	}
	assert.Equal(t, []byte{cmdSetColAddr, 10, 21, cmdSetPageAddr, 2, 3}, window)
	assert.Len(t, bus.txs[6].w, area.BufferLength()+1)
}

func TestDevice_PushLengthMismatch(t *testing.T) {
	bus := &fakeBus{}
	dev := NewDevice(bus, DefaultAddress)

	broken := &Frame{area: FullScreen(), buf: make([]byte, 10)}
	assert.Error(t, dev.Push(broken))
	assert.Empty(t, bus.txs, "nothing reaches the bus on a bad frame")
}

func TestDevice_PushBusError(t *testing.T) {
	bus := &fakeBus{err: errors.New("bus stuck")}
	dev := NewDevice(bus, DefaultAddress)

	assert.Error(t, dev.Push(NewFrame(FullScreen())))
}
