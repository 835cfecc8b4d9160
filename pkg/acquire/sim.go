package acquire

import (
	"math"
	"time"

	"github.com/itohio/picotemp/pkg/therm"
)

// Ensure the simulated drivers implement the acquisition contracts.
var _ AnalogSource = (*SimSource)(nil)
var _ BurstEngine = (*SimEngine)(nil)

// SimSource implements AnalogSource with plain state, for the host build
// of the firmware and for tests.
type SimSource struct {
	Inited  bool
	Sensor  bool
	Input   uint8
	Running bool
	FIFO    FIFOConfig
}

func (s *SimSource) Init()                        { s.Inited = true }
func (s *SimSource) EnableTempSensor(on bool)     { s.Sensor = on }
func (s *SimSource) SelectInput(input uint8)      { s.Input = input }
func (s *SimSource) ConfigureFIFO(cfg FIFOConfig) { s.FIFO = cfg }
func (s *SimSource) DrainFIFO()                   {}
func (s *SimSource) SetRunning(on bool)           { s.Running = on }

// SimEngine implements BurstEngine by synthesizing conversion results.
// The codes follow a slow drift around Bias plus deterministic noise,
// pushed through the inverse transfer function so the rest of the
// pipeline sees realistic raw values.
type SimEngine struct {
	Bias  float64 // steady-state temperature (°C)
	Noise float64 // peak sample noise (°C)

	start time.Time
	dst   []uint16
	armed bool
}

// NewSimEngine creates an engine idling at the given temperature.
func NewSimEngine(bias, noise float64) *SimEngine {
	return &SimEngine{
		Bias:  bias,
		Noise: noise,
		start: time.Now(),
	}
}

// Start arms the engine over dst. The destination is only written
// between Start and the completion of Wait.
func (e *SimEngine) Start(dst []uint16) {
	e.dst = dst
	e.armed = true
}

// Wait fills the armed destination and completes the transfer.
func (e *SimEngine) Wait() {
	if !e.armed {
		return
	}

	elapsed := time.Since(e.start).Seconds()
	drift := math.Sin(elapsed*0.05) * 1.5

	for i := range e.dst {
		noise := math.Sin(elapsed*37.0+float64(i)*0.7) * e.Noise
		e.dst[i] = therm.Raw(e.Bias + drift + noise)
	}

	e.armed = false
}
