package main

import (
	"fmt"
	"io"
	"sync"

	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
	"github.com/rs/zerolog/log"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"

	"github.com/itohio/picotemp/pkg/config"
	"github.com/itohio/picotemp/pkg/oled"
	"github.com/itohio/picotemp/pkg/screen"
)

// mirrorPusher forwards rendered frames to an optional panel on a host
// I2C bus. With no panel attached it drops frames, so the on-screen
// mirror keeps working without hardware.
type mirrorPusher struct {
	mu     sync.Mutex
	dev    *oled.Device
	closer io.Closer
}

var _ screen.Pusher = (*mirrorPusher)(nil)

func (m *mirrorPusher) Push(f *oled.Frame) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.dev == nil {
		return nil
	}
	return m.dev.Push(f)
}

func (m *mirrorPusher) enable(cfg *config.MirrorConfig) error {
	dev, closer, err := openMirror(cfg)
	if err != nil {
		return err
	}

	m.mu.Lock()
	m.dev = dev
	m.closer = closer
	m.mu.Unlock()
	return nil
}

func (m *mirrorPusher) disable() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closer != nil {
		if err := m.closer.Close(); err != nil {
			log.Warn().Err(err).Msg("failed to close mirror bus")
		}
	}
	m.dev = nil
	m.closer = nil
}

func (m *mirrorPusher) enabled() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.dev != nil
}

// openMirror brings up the host driver stack and configures the panel.
// The returned closer releases the I2C bus.
func openMirror(cfg *config.MirrorConfig) (*oled.Device, io.Closer, error) {
	if _, err := host.Init(); err != nil {
		return nil, nil, fmt.Errorf("failed to initialize host drivers: %w", err)
	}

	bus, err := i2creg.Open(cfg.Bus)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open i2c bus %q: %w", cfg.Bus, err)
	}

	dev := oled.NewDevice(oled.NewPeriphBus(bus), cfg.Address)
	if err := dev.Configure(); err != nil {
		bus.Close()
		return nil, nil, fmt.Errorf("failed to configure panel at %#02x: %w", cfg.Address, err)
	}

	return dev, bus, nil
}

// handleMirrorToggle handles the panel mirror button click.
func handleMirrorToggle(state *appState) {
	if state.mirror.enabled() {
		state.mirror.disable()
		updateMirrorButton(state.mirrorBtn, false)
		log.Info().Msg("panel mirror off")
		return
	}

	if err := state.mirror.enable(&state.cfg.Mirror); err != nil {
		dialog.ShowError(fmt.Errorf("failed to enable panel mirror: %w", err), state.window)
		return
	}
	updateMirrorButton(state.mirrorBtn, true)
	log.Info().Str("bus", state.cfg.Mirror.Bus).Msg("panel mirror on")
}

// updateMirrorButton updates the mirror button's visual state.
func updateMirrorButton(btn *widget.Button, isOn bool) {
	if isOn {
		btn.Importance = widget.HighImportance
	} else {
		btn.Importance = widget.MediumImportance
	}
	btn.Refresh()
}
