//go:build rp2040

package main

import (
	"device/rp"
	"machine"
	"runtime/volatile"
	"unsafe"

	"github.com/itohio/picotemp/pkg/acquire"
)

const (
	// DREQ_ADC is the transfer request line the ADC asserts per FIFO entry
	// (RP2040 datasheet, DREQ table in the DMA chapter).
	DREQ_ADC = 36

	// CTRL_TRIG.DATA_SIZE encoding for 16-bit transfers.
	DMA_SIZE_16 = 1
)

// adcSource drives the RP2040 ADC block directly. The machine package
// only exposes one-shot reads; burst capture needs the FIFO and its
// transfer request line, which live behind the CS and FCS registers.
type adcSource struct{}

var _ acquire.AnalogSource = (*adcSource)(nil)

func newADCSource() *adcSource {
	return &adcSource{}
}

// Init brings the converter out of reset, enables it and waits until it
// is ready. machine.InitADC does all three.
func (*adcSource) Init() {
	machine.InitADC()
}

func (*adcSource) EnableTempSensor(on bool) {
	if on {
		rp.ADC.CS.SetBits(rp.ADC_CS_TS_EN_Msk)
	} else {
		rp.ADC.CS.ClearBits(rp.ADC_CS_TS_EN_Msk)
	}
}

func (*adcSource) SelectInput(input uint8) {
	rp.ADC.CS.ReplaceBits(uint32(input), rp.ADC_CS_AINSEL_Msk>>rp.ADC_CS_AINSEL_Pos, rp.ADC_CS_AINSEL_Pos)
}

func (*adcSource) ConfigureFIFO(cfg acquire.FIFOConfig) {
	var fcs uint32
	if cfg.Enable {
		fcs |= rp.ADC_FCS_EN_Msk
	}
	if cfg.ByteShift {
		fcs |= rp.ADC_FCS_SHIFT_Msk
	}
	if cfg.ErrInValue {
		fcs |= rp.ADC_FCS_ERR_Msk
	}
	if cfg.PaceEngine {
		fcs |= rp.ADC_FCS_DREQ_EN_Msk
	}
	fcs |= uint32(cfg.Threshold) << rp.ADC_FCS_THRESH_Pos
	rp.ADC.FCS.Set(fcs)
}

func (*adcSource) DrainFIFO() {
	for !rp.ADC.FCS.HasBits(rp.ADC_FCS_EMPTY_Msk) {
		rp.ADC.FIFO.Get()
	}
}

func (*adcSource) SetRunning(on bool) {
	if on {
		rp.ADC.CS.SetBits(rp.ADC_CS_START_MANY_Msk)
	} else {
		rp.ADC.CS.ClearBits(rp.ADC_CS_START_MANY_Msk)
	}
}

// dmaChannel is the register window of one DMA channel. Each channel
// occupies 0x40 bytes: the four canonical registers followed by the
// aliased views, which this driver does not use.
type dmaChannel struct {
	readAddr   volatile.Register32
	writeAddr  volatile.Register32
	transCount volatile.Register32
	ctrlTrig   volatile.Register32
	_          [12]volatile.Register32
}

// dmaChannels overlays the RP2040's 12 channels on the DMA block base.
var dmaChannels = (*[12]dmaChannel)(unsafe.Pointer(rp.DMA))

// burstDMA streams conversion results from the fixed ADC FIFO register
// into an incrementing RAM buffer, one halfword per transfer request.
type burstDMA struct {
	ch    *dmaChannel
	index uint32
}

var _ acquire.BurstEngine = (*burstDMA)(nil)

func newBurstDMA(channel int) *burstDMA {
	return &burstDMA{
		ch:    &dmaChannels[channel],
		index: uint32(channel),
	}
}

// Start arms the channel and triggers it. Writing CTRL_TRIG last starts
// the transfer; the DREQ pacing then holds it to the conversion rate.
// CHAIN_TO pointing at the channel itself disables chaining.
func (d *burstDMA) Start(dst []uint16) {
	d.ch.readAddr.Set(uint32(uintptr(unsafe.Pointer(&rp.ADC.FIFO.Reg))))
	d.ch.writeAddr.Set(uint32(uintptr(unsafe.Pointer(&dst[0]))))
	d.ch.transCount.Set(uint32(len(dst)))

	d.ch.ctrlTrig.Set(rp.DMA_CH0_CTRL_TRIG_EN_Msk |
		DMA_SIZE_16<<rp.DMA_CH0_CTRL_TRIG_DATA_SIZE_Pos |
		rp.DMA_CH0_CTRL_TRIG_INCR_WRITE_Msk |
		d.index<<rp.DMA_CH0_CTRL_TRIG_CHAIN_TO_Pos |
		DREQ_ADC<<rp.DMA_CH0_CTRL_TRIG_TREQ_SEL_Pos)
}

// Wait busy-polls the channel's BUSY flag. The wait is bounded by the
// conversion rate: a 100-transfer burst completes in ~200 µs.
func (d *burstDMA) Wait() {
	for d.ch.ctrlTrig.HasBits(rp.DMA_CH0_CTRL_TRIG_BUSY_Msk) {
	}
}
