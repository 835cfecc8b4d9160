package console

import (
	"bytes"
	"io"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/itohio/picotemp/pkg/pico"
)

func captureStdout(f func()) string {
	r, w, _ := os.Pipe()
	stdout := os.Stdout
	os.Stdout = w
	outC := make(chan string)
	go func() {
		var buf bytes.Buffer
		_, _ = io.Copy(&buf, r)
		outC <- buf.String()
	}()
	f()
	_ = w.Close()
	os.Stdout = stdout
	return <-outC
}

func TestConsolePublish(t *testing.T) {
	c := NewConsole()
	ts := time.Date(2025, 9, 19, 14, 41, 54, 0, time.UTC)
	readings := []pico.Reading{{Time: ts, Celsius: 29.4791}}

	out := captureStdout(func() { _ = c.Publish(readings) })

	assert.Equal(t, "2025-09-19T14:41:54Z temp=29.48\n", out)
}

func TestConsolePublish_Multiple(t *testing.T) {
	c := NewConsole()
	ts := time.Date(2025, 9, 19, 14, 41, 54, 0, time.UTC)
	readings := []pico.Reading{
		{Time: ts, Celsius: 24.0},
		{Time: ts.Add(500 * time.Millisecond), Celsius: 24.47},
	}

	out := captureStdout(func() { _ = c.Publish(readings) })

	assert.Equal(t, "2025-09-19T14:41:54Z temp=24.00\n2025-09-19T14:41:54Z temp=24.47\n", out)
}

func TestConsoleClose(t *testing.T) {
	c := NewConsole()
	assert.NoError(t, c.Close())
}
