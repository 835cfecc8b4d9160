package pico

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"go.bug.st/serial"

	"github.com/itohio/picotemp/pkg/therm"
)

const (
	// DefaultBaudRate matches the station firmware's USB serial configuration.
	DefaultBaudRate = 115200
	// DefaultBufferSize is the default size for the readings channel buffer.
	DefaultBufferSize = 100

	lineTag = "temp"
)

// Port represents a serial port.
type Port struct {
	Name        string
	Description string
}

// Serial reads the temperature feed the station mirrors to its serial port.
type Serial struct {
	port     string
	baudRate int
	bufSize  int

	conn      serial.Port
	readings  chan Reading
	mu        sync.RWMutex
	ctx       context.Context
	cancel    context.CancelFunc
	connected bool
}

// New creates a Serial device for the given port, baud rate, and buffer size.
func New(port string, baudRate int, bufSize int) *Serial {
	if baudRate == 0 {
		baudRate = DefaultBaudRate
	}
	if bufSize == 0 {
		bufSize = DefaultBufferSize
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Serial{
		port:      port,
		baudRate:  baudRate,
		bufSize:   bufSize,
		readings:  make(chan Reading, bufSize),
		ctx:       ctx,
		cancel:    cancel,
		connected: false,
	}
}

// Ports returns a list of available serial ports.
func Ports() ([]Port, error) {
	ports, err := serial.GetPortsList()
	if err != nil {
		return nil, fmt.Errorf("failed to list serial ports: %w", err)
	}

	result := make([]Port, 0, len(ports))
	for _, name := range ports {
		result = append(result, Port{
			Name:        name,
			Description: name,
		})
	}

	return result, nil
}

// Connect connects to the serial port and starts reading the feed.
func (d *Serial) Connect() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.connected {
		return fmt.Errorf("already connected")
	}

	mode := &serial.Mode{
		BaudRate: d.baudRate,
	}

	port, err := serial.Open(d.port, mode)
	if err != nil {
		return fmt.Errorf("failed to open serial port %s: %w", d.port, err)
	}

	d.conn = port
	d.connected = true

	// Start reading the feed in a goroutine
	go d.readFeed()

	return nil
}

// Close closes the connection and stops reading the feed.
func (d *Serial) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.connected {
		return nil
	}

	// Cancel context to stop reading goroutine
	d.cancel()

	// Close serial port
	if d.conn != nil {
		if err := d.conn.Close(); err != nil {
			log.Warn().Err(err).Msg("error closing serial port")
		}
		d.conn = nil
	}

	d.connected = false

	// Close readings channel
	close(d.readings)

	return nil
}

// Readings returns the channel for reading the feed.
func (d *Serial) Readings() <-chan Reading {
	return d.readings
}

// IsConnected returns whether the device is currently connected.
func (d *Serial) IsConnected() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.connected
}

// readFeed reads lines from the serial port and parses them into Readings.
func (d *Serial) readFeed() {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("panic in readFeed")
		}
	}()

	scanner := bufio.NewScanner(d.conn)
	for {
		select {
		case <-d.ctx.Done():
			return
		default:
			if !scanner.Scan() {
				// Scanner stopped (EOF or error)
				if err := scanner.Err(); err != nil {
					if err != io.EOF {
						log.Error().Err(err).Msg("error reading from serial port")
					}
				}
				return
			}

			line := strings.TrimSpace(scanner.Text())
			if line == "" {
				continue
			}

			reading, err := parseLine(line)
			if err != nil {
				log.Warn().Str("line", line).Err(err).Msg("failed to parse line")
				continue
			}

			// Send reading to channel (non-blocking)
			select {
			case d.readings <- reading:
			case <-d.ctx.Done():
				return
			default:
				// Channel full, log and skip
				log.Warn().Msg("readings channel full, dropping reading")
			}
		}
	}
}

// parseLine parses a feed line from the station into a Reading.
// Format: temp,unix_micros,celsius
// Example: temp,1234567890123,29.48
func parseLine(line string) (Reading, error) {
	parts := strings.Split(line, ",")
	if len(parts) != 3 {
		return Reading{}, fmt.Errorf("invalid line format: expected 3 comma-separated values, got %d", len(parts))
	}

	if parts[0] != lineTag {
		return Reading{}, fmt.Errorf("invalid line tag: %q", parts[0])
	}

	// Parse timestamp (unix microseconds)
	timestampMicros, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return Reading{}, fmt.Errorf("invalid timestamp: %w", err)
	}
	timestamp := time.Unix(0, timestampMicros*1000) // Convert microseconds to nanoseconds

	// Parse temperature and bound it by what a 12-bit conversion can produce
	celsius, err := strconv.ParseFloat(parts[2], 64)
	if err != nil {
		return Reading{}, fmt.Errorf("invalid temperature: %w", err)
	}
	if celsius > therm.Celsius(0) || celsius < therm.Celsius(therm.Steps-1) {
		return Reading{}, fmt.Errorf("temperature out of range: %g", celsius)
	}

	return Reading{
		Time:    timestamp,
		Celsius: celsius,
	}, nil
}
