package trend

import "github.com/itohio/picotemp/pkg/pico"

// Downsample decimates readings to at most maxPoints for display.
// Destination-based: reuses dst if it has sufficient capacity, otherwise
// allocates. Returns the destination slice. If len(readings) <= maxPoints
// the readings are copied through unchanged.
func Downsample(dst []pico.Reading, readings []pico.Reading, maxPoints int) []pico.Reading {
	if len(readings) <= maxPoints {
		if cap(dst) >= len(readings) {
			dst = dst[:len(readings)]
			copy(dst, readings)
			return dst
		}
		// dst too small, allocate new
		result := make([]pico.Reading, len(readings))
		copy(result, readings)
		return result
	}

	if cap(dst) >= maxPoints {
		dst = dst[:0] // Reset length but keep capacity
	} else {
		dst = make([]pico.Reading, 0, maxPoints)
	}

	// Calculate step size for decimation
	step := float64(len(readings)) / float64(maxPoints)

	for i := 0; i < maxPoints; i++ {
		idx := int(float64(i) * step)
		if idx < len(readings) {
			dst = append(dst, readings[idx])
		}
	}

	return dst
}
