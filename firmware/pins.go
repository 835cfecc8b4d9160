//go:build rp2040

package main

import "machine"

const (
	// Sampling configuration
	NUM_SAMPLES       = 100 // ADC conversions per burst, averaged into one reading
	CYCLE_INTERVAL_MS = 500 // Measurement cycle period in milliseconds

	// Display pins (I2C1)
	PIN_OLED_SDA = machine.GP14
	PIN_OLED_SCL = machine.GP15
	OLED_ADDRESS = 0x3C

	// I2C bus speed
	// Frame push calculation: 128x64 @ 1bpp = 1024 data bytes + 6 window bytes
	// I2C overhead ~9 bits/byte = ~9,270 bits per frame
	// At 400 kHz: ~23 ms per push, one push per 500 ms cycle = ~5% bus duty
	I2C_FREQUENCY = 400 * machine.KHz

	// DMA channel for ADC FIFO drains. Nothing else in this image uses DMA,
	// so the claim is static.
	DMA_CHANNEL = 0
)
