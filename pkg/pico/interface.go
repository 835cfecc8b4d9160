package pico

import "time"

// Reading is one averaged temperature reported by the station.
type Reading struct {
	Time    time.Time
	Celsius float64
}

// Device is a source of station readings, real or mocked.
type Device interface {
	Connect() error
	Close() error
	Readings() <-chan Reading
	IsConnected() bool
}

// Ensure Serial implements Device.
var _ Device = (*Serial)(nil)

// Ensure Mock implements Device.
var _ Device = (*Mock)(nil)
