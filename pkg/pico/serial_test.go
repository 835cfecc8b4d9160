package pico

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/itohio/picotemp/pkg/oled"
	"github.com/itohio/picotemp/pkg/screen"
)

func TestParseLine(t *testing.T) {
	tests := []struct {
		name    string
		line    string
		want    Reading
		wantErr bool
	}{
		{
			name: "valid reading",
			line: "temp,1234567890123,29.48",
			want: Reading{
				Time:    time.Unix(0, 1234567890123*1000),
				Celsius: 29.48,
			},
			wantErr: false,
		},
		{
			name: "valid negative temperature",
			line: "temp,1234567890123,-12.50",
			want: Reading{
				Time:    time.Unix(0, 1234567890123*1000),
				Celsius: -12.50,
			},
			wantErr: false,
		},
		{
			name: "valid integer temperature",
			line: "temp,99,34",
			want: Reading{
				Time:    time.Unix(0, 99*1000),
				Celsius: 34.0,
			},
			wantErr: false,
		},
		{
			name: "valid near code zero",
			line: "temp,1234567890123,437.22",
			want: Reading{
				Time:    time.Unix(0, 1234567890123*1000),
				Celsius: 437.22,
			},
			wantErr: false,
		},
		{
			name: "valid near full scale",
			line: "temp,1234567890123,-1479.79",
			want: Reading{
				Time:    time.Unix(0, 1234567890123*1000),
				Celsius: -1479.79,
			},
			wantErr: false,
		},
		{
			name:    "invalid - wrong number of fields",
			line:    "temp,1234567890123",
			wantErr: true,
		},
		{
			name:    "invalid - too many fields",
			line:    "temp,1234567890123,29.48,extra",
			wantErr: true,
		},
		{
			name:    "invalid - wrong tag",
			line:    "tmp,1234567890123,29.48",
			wantErr: true,
		},
		{
			name:    "invalid - non-numeric timestamp",
			line:    "temp,abc,29.48",
			wantErr: true,
		},
		{
			name:    "invalid - non-numeric temperature",
			line:    "temp,1234567890123,warm",
			wantErr: true,
		},
		{
			name:    "invalid - hotter than code zero",
			line:    "temp,1234567890123,437.23",
			wantErr: true,
		},
		{
			name:    "invalid - colder than full scale",
			line:    "temp,1234567890123,-1479.80",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseLine(tt.line)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.want.Time.UnixNano(), got.Time.UnixNano())
				assert.Equal(t, tt.want.Celsius, got.Celsius)
			}
		})
	}
}

// The serial feed writer and this parser deliberately share no code: the
// writer compiles into the firmware image, this side pulls in host-only
// dependencies. This pins the two ends to the same wire format.
func TestParseLine_AcceptsStationFeed(t *testing.T) {
	var feed bytes.Buffer
	sink := screen.NewSink(oled.NewFrame(oled.FullScreen()), screen.NopPusher{}, &feed)

	before := time.Now().Truncate(time.Microsecond)
	sink.Present(29.4791)
	after := time.Now()

	got, err := parseLine(strings.TrimSpace(feed.String()))
	require.NoError(t, err)
	assert.Equal(t, 29.48, got.Celsius) // feed carries two decimals
	assert.False(t, got.Time.Before(before), "parsed time %v before %v", got.Time, before)
	assert.False(t, got.Time.After(after), "parsed time %v after %v", got.Time, after)
}

func TestNew(t *testing.T) {
	dev := New("/dev/ttyACM0", 115200, 100)
	assert.NotNil(t, dev)
	assert.Equal(t, "/dev/ttyACM0", dev.port)
	assert.Equal(t, 115200, dev.baudRate)
	assert.Equal(t, 100, dev.bufSize)
	assert.NotNil(t, dev.readings)
	assert.False(t, dev.IsConnected())
}

func TestNew_Defaults(t *testing.T) {
	dev := New("/dev/ttyACM0", 0, 0)
	assert.NotNil(t, dev)
	assert.Equal(t, DefaultBaudRate, dev.baudRate)
	assert.Equal(t, DefaultBufferSize, dev.bufSize)
}

func TestSerial_IsConnected(t *testing.T) {
	dev := New("/dev/ttyACM0", 115200, 100)
	assert.False(t, dev.IsConnected())
}
