package acquire

const (
	// TempSensorInput is the converter input wired to the on-die sensor.
	TempSensorInput = 4
	// DefaultBurstLen is the number of conversions averaged per cycle.
	DefaultBurstLen = 100
)

// AnalogSource is the conversion side of the acquisition hardware. On the
// RP2040 this is the ADC block; the host build implements the same
// contract in software.
type AnalogSource interface {
	// Init powers the converter up and leaves it idle.
	Init()
	// EnableTempSensor switches the on-die temperature sensor bias on or off.
	EnableTempSensor(on bool)
	// SelectInput routes the given analog input to the converter.
	SelectInput(input uint8)
	// ConfigureFIFO prepares the result queue for a burst capture.
	ConfigureFIFO(cfg FIFOConfig)
	// DrainFIFO discards any queued stale results.
	DrainFIFO()
	// SetRunning starts or halts free-running conversion.
	SetRunning(on bool)
}

// FIFOConfig mirrors the converter's result-queue knobs.
type FIFOConfig struct {
	Enable     bool  // route results through the FIFO
	PaceEngine bool  // assert the transfer request line per result
	Threshold  uint8 // FIFO level that asserts the request
	ErrInValue bool  // tag conversion errors in the result word
	ByteShift  bool  // narrow results to 8 bits
}

// BurstEngine moves conversion results out of the source's FIFO without
// CPU involvement. On hardware this is a DMA channel reading a fixed
// FIFO register into an incrementing buffer, paced by the converter's
// data-ready request.
type BurstEngine interface {
	// Start arms the engine for len(dst) 16-bit transfers and begins
	// immediately.
	Start(dst []uint16)
	// Wait blocks until the transfer armed by Start has moved every
	// element. There is no timeout: the pacing hardware is trusted to
	// keep delivering results.
	Wait()
}

// Unit owns one pre-allocated burst buffer and runs the acquisition
// sequence against a source and an engine. Not safe for concurrent use;
// the cycle loop is the only caller and the returned slice is valid only
// until the next AcquireBurst.
type Unit struct {
	src AnalogSource
	eng BurstEngine
	buf []uint16
}

// NewUnit allocates the burst buffer once and brings the source up with
// the temperature sensor selected.
func NewUnit(src AnalogSource, eng BurstEngine, burstLen int) *Unit {
	if burstLen <= 0 {
		burstLen = DefaultBurstLen
	}

	src.Init()
	src.EnableTempSensor(true)
	src.SelectInput(TempSensorInput)

	return &Unit{
		src: src,
		eng: eng,
		buf: make([]uint16, burstLen),
	}
}

// BurstLen returns the fixed number of samples captured per call.
func (u *Unit) BurstLen() int {
	return len(u.buf)
}

// AcquireBurst captures one burst: flush stale results, halt conversion,
// rearm the FIFO for paced draining, restart conversion, stream exactly
// len(buf) results through the engine, halt again. Every element of the
// returned buffer is overwritten on every call.
func (u *Unit) AcquireBurst() []uint16 {
	u.src.DrainFIFO()
	u.src.SetRunning(false)

	u.src.ConfigureFIFO(FIFOConfig{
		Enable:     true,
		PaceEngine: true,
		Threshold:  1,
	})
	u.src.SetRunning(true)

	u.eng.Start(u.buf)
	u.eng.Wait()

	u.src.SetRunning(false)

	return u.buf
}
