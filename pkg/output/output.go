package output

import "github.com/itohio/picotemp/pkg/pico"

// Output fans station readings out of the monitor.
type Output interface {
	Publish([]pico.Reading) error
	Close() error
}

// helper constructors are in subpackages
