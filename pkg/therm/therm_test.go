package therm

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCelsius(t *testing.T) {
	tests := []struct {
		name string
		raw  uint16
		want float64
	}{
		{
			name: "zero code",
			raw:  0,
			want: 437.2266, // 27 + 0.706/0.001721
		},
		{
			name: "near calibration point",
			raw:  876, // 876*3.3/4096 ≈ 0.7058 V, just under 0.706 V
			want: 27.1385,
		},
		{
			name: "room temperature",
			raw:  871,
			want: 29.4791,
		},
		{
			name: "mid scale",
			raw:  2048, // exactly 1.65 V
			want: -521.5183,
		},
		{
			name: "full scale",
			raw:  4095,
			want: -1479.7951,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Celsius(tt.raw)
			assert.InDelta(t, tt.want, got, 0.001, "Celsius(%d) = %f, want %f", tt.raw, got, tt.want)
		})
	}
}

func TestCelsius_MatchesClosedForm(t *testing.T) {
	// Sweep the full 12-bit input range against the conversion written out
	// longhand. Catches any drift in the constants or their grouping.
	for raw := 0; raw < 4096; raw++ {
		want := 27.0 - ((float64(raw)*3.3/4096.0)-0.706)/0.001721
		got := Celsius(uint16(raw))
		assert.InDelta(t, want, got, 1e-4, "Celsius(%d) = %f, want %f", raw, got, want)
	}
}

func TestCelsius_Deterministic(t *testing.T) {
	for _, raw := range []uint16{0, 708, 871, 2048, 4095} {
		assert.Equal(t, Celsius(raw), Celsius(raw), "Celsius(%d) must be repeatable", raw)
	}
}

func TestAverage_ConstantBuffer(t *testing.T) {
	tests := []struct {
		name string
		raw  uint16
		n    int
	}{
		{name: "single sample", raw: 871, n: 1},
		{name: "full burst", raw: 871, n: 100},
		{name: "full burst at zero", raw: 0, n: 100},
		{name: "full burst at full scale", raw: 4095, n: 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := make([]uint16, tt.n)
			for i := range buf {
				buf[i] = tt.raw
			}

			got := Average(buf)
			assert.InDelta(t, Celsius(tt.raw), got, 1e-9, "Average of %d identical codes must equal Celsius(%d)", tt.n, tt.raw)
		})
	}
}

func TestAverage_PermutationInvariant(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	buf := make([]uint16, 100)
	for i := range buf {
		buf[i] = uint16(rng.Intn(4096))
	}

	shuffled := make([]uint16, len(buf))
	copy(shuffled, buf)
	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	assert.InDelta(t, Average(buf), Average(shuffled), 1e-9, "summation order must not change the mean beyond float tolerance")
}

func TestAverage_MidpointOfTwoCodes(t *testing.T) {
	// The conversion is affine, so the mean temperature of two codes is the
	// temperature halfway between their conversions.
	got := Average([]uint16{800, 900})
	want := (Celsius(800) + Celsius(900)) / 2
	assert.InDelta(t, want, got, 1e-9)
}

func TestRaw_RoundTrip(t *testing.T) {
	// One conversion step is about 0.47 °C, so a round trip may move the
	// temperature by up to half a step.
	for _, celsius := range []float64{-10.0, 0.0, 20.0, 27.0, 35.5, 60.0, 100.0} {
		raw := Raw(celsius)
		assert.InDelta(t, celsius, Celsius(raw), 0.3, "Raw/Celsius round trip at %f", celsius)
	}
}

func TestRaw_Clamped(t *testing.T) {
	tests := []struct {
		name    string
		celsius float64
		want    uint16
	}{
		{name: "far below scale", celsius: 5000.0, want: 0},
		{name: "far above scale", celsius: -5000.0, want: 4095},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Raw(tt.celsius))
		})
	}
}
