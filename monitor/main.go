package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/itohio/picotemp/pkg/config"
	"github.com/itohio/picotemp/pkg/oled"
	"github.com/itohio/picotemp/pkg/output"
	"github.com/itohio/picotemp/pkg/pico"
	"github.com/itohio/picotemp/pkg/screen"
	"github.com/itohio/picotemp/pkg/trend"
)

func main() {
	var (
		portFlag     = flag.String("p", "", "Serial port override (e.g., COM3 or /dev/ttyACM0)")
		configFlag   = flag.String("config", "config.yaml", "Configuration file path")
		mockFlag     = flag.Bool("mock", false, "Use a simulated station instead of a serial port")
		headlessFlag = flag.Bool("headless", false, "Run without the GUI, pumping readings to the configured outputs")
	)
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	// Load configuration
	cfg, err := config.Load(*configFlag)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	// Override serial port if provided via command line
	if *portFlag != "" {
		cfg.Serial.Port = *portFlag
	}

	if *headlessFlag {
		runHeadless(cfg, *mockFlag)
		return
	}

	// Create Fyne application
	application := app.NewWithID("com.itohio.picotemp")

	// Create main window
	window := application.NewWindow("Pico Temperature")
	window.Resize(fyne.NewSize(800, 600))
	window.CenterOnScreen()

	// Create application state
	state := &appState{
		cfg:     cfg,
		device:  nil,
		history: trend.New(windowDuration(cfg)),
		window:  window,
		useMock: *mockFlag,
		mirror:  &mirrorPusher{},
	}
	state.view = newTempView(cfg.Trend.MaxPoints)
	state.sink = screen.NewSink(oled.NewFrame(oled.FullScreen()), state.mirror, io.Discard)

	// Create toolbar
	toolbar := createToolbar(state)

	// Create border layout with toolbar at top and the reading view as content
	container := container.NewBorder(
		toolbar,
		nil,
		nil,
		nil,
		state.view.content(),
	)

	window.SetContent(container)
	window.ShowAndRun()
}

// windowDuration converts the configured trend window to a duration.
func windowDuration(cfg *config.Config) time.Duration {
	return time.Duration(cfg.Trend.WindowSeconds * float64(time.Second))
}

// readChain tracks the components of the reading chain for graceful shutdown.
type readChain struct {
	device           pico.Device
	outputsGoroutine chan struct{} // Closed when the output pump exits
	trendGoroutine   chan struct{} // Closed when the trend goroutine exits
}

// appState holds the application state.
type appState struct {
	cfg        *config.Config
	device     pico.Device
	history    *trend.Trend
	view       *tempView
	sink       *screen.Sink
	mirror     *mirrorPusher
	window     fyne.Window
	connectBtn *widget.Button
	mirrorBtn  *widget.Button
	useMock    bool
	outputs    []output.Output
	chain      *readChain // Current reading chain (nil if not connected)

	// Throttling for view updates
	lastUpdateTime time.Time
	updateMu       sync.Mutex
}

// createToolbar creates the application toolbar with Connect, Settings and
// panel mirror buttons.
func createToolbar(state *appState) fyne.CanvasObject {
	// Connect button with icon
	connectBtn := widget.NewButtonWithIcon("", theme.LoginIcon(), func() {
		handleConnect(state)
	})
	state.connectBtn = connectBtn

	// Settings button with icon
	settingsBtn := widget.NewButtonWithIcon("", theme.SettingsIcon(), func() {
		showSettingsDialog(state)
	})

	// Panel mirror toggle. Independent of the station connection: the
	// panel hangs off the monitor host, not the station.
	mirrorBtn := widget.NewButtonWithIcon("", theme.ComputerIcon(), func() {
		handleMirrorToggle(state)
	})
	state.mirrorBtn = mirrorBtn

	return container.NewBorder(
		nil, // top
		nil, // bottom
		container.NewHBox(connectBtn, settingsBtn), // left
		container.NewHBox(mirrorBtn),               // right
		nil, // center (spacer)
	)
}

// closeReadChain gracefully closes the reading chain.
// Waits for all goroutines to finish and channels to drain.
func closeReadChain(chain *readChain) {
	if chain == nil {
		return
	}

	// Close device - this will close the readings channel
	if chain.device != nil {
		chain.device.Close()
	}

	// Wait for the output pump to finish
	if chain.outputsGoroutine != nil {
		<-chain.outputsGoroutine
	}

	// Wait for the trend goroutine to finish.
	// It exits when its branch of the fan-out closes, which happens when
	// the readings channel drains.
	if chain.trendGoroutine != nil {
		<-chain.trendGoroutine
	}
}

// handleConnect handles the connect/disconnect button click.
func handleConnect(state *appState) {
	if state.device != nil && state.device.IsConnected() {
		// Disconnect - gracefully close the reading chain
		closeReadChain(state.chain)
		state.chain = nil
		state.device = nil

		closeOutputs(state.outputs)
		state.outputs = nil

		if state.useMock {
			log.Info().Msg("disconnected from simulated station")
		} else {
			log.Info().Str("port", state.cfg.Serial.Port).Msg("disconnected from station")
		}
	} else {
		// Connect
		var device pico.Device
		if state.useMock {
			device = pico.NewMock(&state.cfg.Mock)
		} else {
			device = pico.New(state.cfg.Serial.Port, state.cfg.Serial.Baud, pico.DefaultBufferSize)
		}

		if err := device.Connect(); err != nil {
			if state.useMock {
				dialog.ShowError(fmt.Errorf("failed to connect to simulated station: %w", err), state.window)
			} else {
				dialog.ShowError(fmt.Errorf("failed to connect to %s: %w", state.cfg.Serial.Port, err), state.window)
			}
			return
		}
		state.device = device
		if state.useMock {
			log.Info().Msg("connected to simulated station")
		} else {
			log.Info().Str("port", state.cfg.Serial.Port).Msg("connected to station")
		}

		// Fan-out targets rebuild on every connect so settings changes apply
		state.outputs = buildOutputs(state.cfg)

		// Reset trend shutdown flag for the new chain
		state.history.ResetShutdown()

		// Register callback with the trend window to update the view.
		// This must be done before starting the reading chain.
		// Throttle updates to ~60 FPS to keep the UI smooth if the feed
		// ever runs faster than the station's cycle.
		const updateInterval = 16 * time.Millisecond
		state.history.OnUpdate(func(readings []pico.Reading) {
			if len(readings) == 0 {
				return
			}

			state.updateMu.Lock()
			now := time.Now()
			tooSoon := now.Sub(state.lastUpdateTime) < updateInterval
			if !tooSoon {
				state.lastUpdateTime = now
			}
			state.updateMu.Unlock()

			// Skip update if too soon since last update
			if tooSoon {
				return
			}

			latest := readings[len(readings)-1].Celsius

			// Render off the UI thread: repaint the station frame (and the
			// panel mirror behind it), rasterize the sparkline, then hand
			// the finished images over.
			state.sink.Present(latest)
			mirror := state.sink.Frame().Image()
			spark := state.view.renderSpark(readings)

			// Update the view on the main thread
			fyne.Do(func() {
				state.view.update(latest, spark, mirror)
			})
		})

		// Fan the feed out: one branch for the output pump, one for the
		// trend window. Both see every reading.
		readings, readingsForTrend := fanOut(device.Readings())

		// Track goroutines for graceful shutdown
		outputsDone := make(chan struct{})
		trendDone := make(chan struct{})

		go func() {
			defer close(outputsDone)
			for r := range readings {
				publishReading(state.outputs, r)
			}
		}()

		go func() {
			defer close(trendDone)
			state.history.Process(readingsForTrend)
		}()

		// Store chain for graceful shutdown
		state.chain = &readChain{
			device:           device,
			outputsGoroutine: outputsDone,
			trendGoroutine:   trendDone,
		}
	}
}

// fanOut forwards every reading from in to two derived channels, so the
// output pump and the trend window each see the full feed. Both derived
// channels close when in closes.
func fanOut(in <-chan pico.Reading) (<-chan pico.Reading, <-chan pico.Reading) {
	a := make(chan pico.Reading, 100)
	b := make(chan pico.Reading, 100)

	go func() {
		defer close(a)
		defer close(b)
		for r := range in {
			a <- r
			b <- r
		}
	}()

	return a, b
}
