package main

import (
	"context"
	"io"
	"os"
	"os/signal"

	"github.com/rs/zerolog/log"

	"github.com/itohio/picotemp/pkg/config"
	"github.com/itohio/picotemp/pkg/oled"
	"github.com/itohio/picotemp/pkg/pico"
	"github.com/itohio/picotemp/pkg/screen"
)

// runHeadless pumps readings to the configured outputs without the GUI.
// Intended for unattended boxes: a Pi logging to MQTT, optionally with a
// panel of its own repeating the station's screen.
func runHeadless(cfg *config.Config, useMock bool) {
	var device pico.Device
	if useMock {
		device = pico.NewMock(&cfg.Mock)
	} else {
		device = pico.New(cfg.Serial.Port, cfg.Serial.Baud, pico.DefaultBufferSize)
	}

	if err := device.Connect(); err != nil {
		log.Fatal().Err(err).Str("port", cfg.Serial.Port).Msg("failed to connect")
	}
	defer device.Close()

	outs := buildOutputs(cfg)
	defer closeOutputs(outs)

	var sink *screen.Sink
	if cfg.Mirror.Enabled {
		dev, closer, err := openMirror(&cfg.Mirror)
		if err != nil {
			log.Warn().Err(err).Msg("panel mirror unavailable")
		} else {
			defer closer.Close()
			sink = screen.NewSink(oled.NewFrame(oled.FullScreen()), dev, io.Discard)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	log.Info().Bool("mock", useMock).Int("outputs", len(outs)).Msg("monitor running")

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("shutting down")
			return
		case r, ok := <-device.Readings():
			if !ok {
				log.Info().Msg("feed closed")
				return
			}
			publishReading(outs, r)
			if sink != nil {
				sink.Present(r.Celsius)
			}
		}
	}
}
