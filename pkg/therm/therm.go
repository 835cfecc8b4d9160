package therm

// RP2040 datasheet calibration for the internal temperature sensor:
// 0.706 V at 27 °C, falling 1.721 mV per °C.
const (
	VRef  = 3.3  // ADC reference voltage (V)
	Steps = 4096 // 12-bit conversion range

	calibTemp    = 27.0     // calibration temperature (°C)
	calibVoltage = 0.706    // sensor voltage at the calibration temperature (V)
	slope        = 0.001721 // sensor slope magnitude (V/°C)
)

// Celsius converts a raw 12-bit conversion result from the internal
// temperature sensor to degrees Celsius. Pure and total: every 16-bit
// value maps to a temperature, out-of-range codes simply produce
// physically meaningless results.
func Celsius(raw uint16) float64 {
	voltage := float64(raw) * VRef / Steps
	return calibTemp - (voltage-calibVoltage)/slope
}

// Average converts every raw code in buf to Celsius and returns the mean.
// The caller guarantees a non-empty buffer; burst sizes are compile-time
// constants on the acquisition side.
func Average(buf []uint16) float64 {
	var sum float64
	for _, raw := range buf {
		sum += Celsius(raw)
	}
	return sum / float64(len(buf))
}

// Raw inverts the transfer function, returning the conversion code the
// sensor would produce at the given temperature, rounded to nearest and
// clamped to the 12-bit range. Used by the simulated acquisition path.
func Raw(celsius float64) uint16 {
	voltage := calibVoltage - (celsius-calibTemp)*slope
	code := voltage*Steps/VRef + 0.5 // Round to nearest
	if code < 0 {
		return 0
	}
	if code > 4095 {
		return 4095
	}
	return uint16(code)
}
