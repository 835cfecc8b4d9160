package main

import (
	"github.com/rs/zerolog/log"

	"github.com/itohio/picotemp/pkg/config"
	"github.com/itohio/picotemp/pkg/output"
	"github.com/itohio/picotemp/pkg/output/console"
	"github.com/itohio/picotemp/pkg/output/mqtt"
	"github.com/itohio/picotemp/pkg/pico"
)

// buildOutputs constructs the enabled fan-out targets. A target that
// fails to come up is skipped so the remaining ones keep working.
func buildOutputs(cfg *config.Config) []output.Output {
	var outs []output.Output

	if cfg.Outputs.Console {
		outs = append(outs, console.NewConsole())
	}

	if cfg.Outputs.MQTT.Enabled {
		mq, err := mqtt.NewMQTT(cfg.Outputs.MQTT)
		if err != nil {
			log.Warn().Err(err).Str("broker", cfg.Outputs.MQTT.Broker).Msg("mqtt output unavailable")
		} else {
			outs = append(outs, mq)
		}
	}

	return outs
}

// publishReading fans one reading out to every target.
func publishReading(outs []output.Output, r pico.Reading) {
	for _, out := range outs {
		if err := out.Publish([]pico.Reading{r}); err != nil {
			log.Warn().Err(err).Msg("failed to publish reading")
		}
	}
}

// closeOutputs releases every target.
func closeOutputs(outs []output.Output) {
	for _, out := range outs {
		if err := out.Close(); err != nil {
			log.Warn().Err(err).Msg("failed to close output")
		}
	}
}
