package pico

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/itohio/picotemp/pkg/acquire"
	"github.com/itohio/picotemp/pkg/config"
	"github.com/itohio/picotemp/pkg/therm"
)

// Mock simulates a station for testing and development. It runs the
// simulated acquisition pipeline and reports burst averages the same
// way the firmware loop does.
type Mock struct {
	cfg *config.MockConfig

	unit      *acquire.Unit
	readings  chan Reading
	mu        sync.RWMutex
	ctx       context.Context
	cancel    context.CancelFunc
	connected bool
}

// NewMock creates a new mocked station instance.
func NewMock(cfg *config.MockConfig) *Mock {
	if cfg == nil {
		def := config.Default().Mock
		cfg = &def
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Mock{
		cfg:       cfg,
		unit:      acquire.NewUnit(&acquire.SimSource{}, acquire.NewSimEngine(cfg.BiasC, cfg.NoiseC), acquire.DefaultBurstLen),
		readings:  make(chan Reading, DefaultBufferSize),
		ctx:       ctx,
		cancel:    cancel,
		connected: false,
	}
}

// Connect simulates connecting to the station.
func (m *Mock) Connect() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.connected {
		return fmt.Errorf("already connected")
	}

	m.connected = true

	// Start generating readings
	go m.generateReadings()

	return nil
}

// Close stops the mocked station.
func (m *Mock) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.connected {
		return nil
	}

	m.cancel()
	m.connected = false
	close(m.readings)

	return nil
}

// Readings returns the channel for reading the feed.
func (m *Mock) Readings() <-chan Reading {
	return m.readings
}

// IsConnected returns whether the device is currently connected.
func (m *Mock) IsConnected() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.connected
}

// generateReadings produces one burst average per period, pacing the
// simulated pipeline the way the firmware's cycle alarm does.
func (m *Mock) generateReadings() {
	ticker := time.NewTicker(m.cfg.Period)
	defer ticker.Stop()

	for {
		select {
		case <-m.ctx.Done():
			return
		case <-ticker.C:
			reading := Reading{
				Time:    time.Now(),
				Celsius: therm.Average(m.unit.AcquireBurst()),
			}
			select {
			case m.readings <- reading:
			case <-m.ctx.Done():
				return
			default:
				// Channel full, skip
			}
		}
	}
}
