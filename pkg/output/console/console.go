package console

import (
	"fmt"
	"time"

	"github.com/itohio/picotemp/pkg/output"
	"github.com/itohio/picotemp/pkg/pico"
)

type ConsoleOutput struct{}

func NewConsole() output.Output { return &ConsoleOutput{} }

func (c *ConsoleOutput) Publish(readings []pico.Reading) error {
	for _, r := range readings {
		fmt.Printf("%s temp=%.2f\n", r.Time.Format(time.RFC3339), r.Celsius)
	}
	return nil
}

func (c *ConsoleOutput) Close() error { return nil }
