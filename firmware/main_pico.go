//go:build rp2040

package main

import (
	"context"
	"machine"
	"os"
	"time"

	"github.com/itohio/picotemp/pkg/acquire"
	"github.com/itohio/picotemp/pkg/cycle"
	"github.com/itohio/picotemp/pkg/oled"
	"github.com/itohio/picotemp/pkg/screen"
)

func main() {
	// Configure I2C1 for the display
	err := machine.I2C1.Configure(machine.I2CConfig{
		SDA:       PIN_OLED_SDA,
		SCL:       PIN_OLED_SCL,
		Frequency: I2C_FREQUENCY,
	})
	if err != nil {
		println("i2c init failed, error:", err.Error())
		blinkForever()
	}

	display := oled.NewDevice(machine.I2C1, OLED_ADDRESS)
	if err := display.Configure(); err != nil {
		println("display init failed, error:", err.Error())
		blinkForever()
	}

	// Acquisition: temperature sensor bursts drained by DMA
	unit := acquire.NewUnit(newADCSource(), newBurstDMA(DMA_CHANNEL), NUM_SAMPLES)

	// Presentation: render to the OLED, mirror the feed over USB serial
	sink := screen.NewSink(oled.NewFrame(oled.FullScreen()), display, os.Stdout)

	ctrl := cycle.NewController(cycle.NewTickerAlarm(), unit, sink, CYCLE_INTERVAL_MS*time.Millisecond)
	if err := ctrl.Run(context.Background()); err != nil {
		println("cycle stopped, error:", err.Error())
		blinkForever()
	}
}

// blinkForever signals an unrecoverable init failure on the onboard LED.
func blinkForever() {
	machine.LED.Configure(machine.PinConfig{Mode: machine.PinOutput})
	for {
		machine.LED.High()
		time.Sleep(250 * time.Millisecond)
		machine.LED.Low()
		time.Sleep(250 * time.Millisecond)
	}
}
