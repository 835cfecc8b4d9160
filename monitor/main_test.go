package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/itohio/picotemp/pkg/config"
	"github.com/itohio/picotemp/pkg/pico"
)

func TestFanOut_BothBranchesSeeFullFeed(t *testing.T) {
	in := make(chan pico.Reading, 10)
	now := time.Now()
	for i := 0; i < 5; i++ {
		in <- pico.Reading{Time: now.Add(time.Duration(i) * time.Second), Celsius: 24.0 + float64(i)}
	}
	close(in)

	a, b := fanOut(in)

	collect := func(ch <-chan pico.Reading) []pico.Reading {
		var got []pico.Reading
		for r := range ch {
			got = append(got, r)
		}
		return got
	}

	gotA := collect(a)
	gotB := collect(b)

	require.Len(t, gotA, 5)
	require.Len(t, gotB, 5)
	for i := range gotA {
		assert.Equal(t, 24.0+float64(i), gotA[i].Celsius)
		assert.Equal(t, gotA[i], gotB[i])
	}
}

func TestFanOut_ClosePropagates(t *testing.T) {
	in := make(chan pico.Reading)
	close(in)

	a, b := fanOut(in)

	_, okA := <-a
	_, okB := <-b
	assert.False(t, okA)
	assert.False(t, okB)
}

func TestBuildOutputs_ConsoleOnly(t *testing.T) {
	cfg := config.Default()
	cfg.Outputs.Console = true
	cfg.Outputs.MQTT.Enabled = false

	outs := buildOutputs(cfg)
	require.Len(t, outs, 1)
}

func TestBuildOutputs_NoneEnabled(t *testing.T) {
	cfg := config.Default()
	cfg.Outputs.Console = false
	cfg.Outputs.MQTT.Enabled = false

	outs := buildOutputs(cfg)
	assert.Empty(t, outs)
}

func TestWindowDuration(t *testing.T) {
	cfg := config.Default()
	cfg.Trend.WindowSeconds = 300

	assert.Equal(t, 5*time.Minute, windowDuration(cfg))
}
