package cycle

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/itohio/picotemp/pkg/therm"
)

// manualAlarm lets a test drive cycle fires by hand.
type manualAlarm struct {
	onFire  atomic.Value // func()
	stopped atomic.Bool
	err     error
}

func (m *manualAlarm) Start(_ time.Duration, onFire func()) error {
	if m.err != nil {
		return m.err
	}
	m.onFire.Store(onFire)
	return nil
}

func (m *manualAlarm) Stop() { m.stopped.Store(true) }

func (m *manualAlarm) fire(t *testing.T) {
	t.Helper()
	fn, ok := m.onFire.Load().(func())
	require.True(t, ok, "alarm was never started")
	fn()
}

type fakeAcq struct {
	value  uint16
	bursts atomic.Int32
}

func (f *fakeAcq) AcquireBurst() []uint16 {
	f.bursts.Add(1)
	buf := make([]uint16, 4)
	for i := range buf {
		buf[i] = f.value
	}
	return buf
}

type fakeSink struct {
	mu      sync.Mutex
	got     []float64
	entered chan struct{} // signalled when Present is entered, if set
	release chan struct{} // Present blocks on this until closed, if set
}

func (f *fakeSink) Present(celsius float64) {
	if f.entered != nil {
		f.entered <- struct{}{}
	}
	if f.release != nil {
		<-f.release
	}
	f.mu.Lock()
	f.got = append(f.got, celsius)
	f.mu.Unlock()
}

func (f *fakeSink) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.got)
}

func (f *fakeSink) last() float64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.got[len(f.got)-1]
}

func TestController_OneCyclePerFire(t *testing.T) {
	alarm := &manualAlarm{}
	acq := &fakeAcq{value: 871}
	sink := &fakeSink{}
	ctrl := NewController(alarm, acq, sink, time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- ctrl.Run(ctx) }()

	assert.Eventually(t, func() bool { return alarm.onFire.Load() != nil },
		time.Second, time.Millisecond, "Run must start the alarm")

	alarm.fire(t)
	assert.Eventually(t, func() bool { return sink.count() == 1 },
		time.Second, time.Millisecond)
	assert.InDelta(t, therm.Celsius(871), sink.last(), 1e-9,
		"the presented value is the burst average")

	alarm.fire(t)
	assert.Eventually(t, func() bool { return sink.count() == 2 },
		time.Second, time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancellation")
	}
	assert.True(t, alarm.stopped.Load(), "Run must stop the alarm on the way out")
}

func TestController_CoalescesFiresDuringCycle(t *testing.T) {
	alarm := &manualAlarm{}
	acq := &fakeAcq{value: 2048}
	sink := &fakeSink{
		entered: make(chan struct{}, 8),
		release: make(chan struct{}),
	}
	ctrl := NewController(alarm, acq, sink, time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- ctrl.Run(ctx) }()

	assert.Eventually(t, func() bool { return alarm.onFire.Load() != nil },
		time.Second, time.Millisecond)

	// First fire enters Present and blocks there.
	alarm.fire(t)
	<-sink.entered

	// Fires landing mid-cycle must collapse into exactly one more cycle.
	alarm.fire(t)
	alarm.fire(t)
	alarm.fire(t)

	close(sink.release)
	<-sink.entered // the single coalesced follow-up cycle

	assert.Eventually(t, func() bool { return sink.count() == 2 },
		time.Second, time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, 2, sink.count(), "three pending fires produced one cycle")
	assert.Equal(t, int32(2), acq.bursts.Load())

	cancel()
	<-done
}

func TestController_AlarmStartError(t *testing.T) {
	alarm := &manualAlarm{err: errors.New("no timer slots")}
	ctrl := NewController(alarm, &fakeAcq{}, &fakeSink{}, time.Second)

	err := ctrl.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "start cycle alarm")
}

func TestNewController_DefaultInterval(t *testing.T) {
	ctrl := NewController(&manualAlarm{}, &fakeAcq{}, &fakeSink{}, 0)
	assert.Equal(t, DefaultInterval, ctrl.interval)
}
