package ledger_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github/chapool/ledger-signer/internal/ledger"
)

// stepClock fires every timer immediately and advances its own time by the requested duration.
type stepClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *stepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *stepClock) After(d time.Duration) <-chan time.Time {
	c.mu.Lock()
	c.now = c.now.Add(d)
	now := c.now
	c.mu.Unlock()

	ch := make(chan time.Time, 1)
	ch <- now
	return ch
}

func getAddress(ctx context.Context, device ledger.Device) (string, error) {
	return device.GetAddress(ctx, ledger.DefaultPath)
}

func newExecutor(device *fakeDevice, opts ...ledger.Option) *ledger.Executor {
	session := ledger.NewSession(ledger.TransportFunc(func(context.Context) (ledger.Device, error) {
		return device, nil
	}))
	return ledger.NewExecutor(session, opts...)
}

func TestDoSucceedsImmediately(t *testing.T) {
	device := &fakeDevice{}
	exec := newExecutor(device)

	address, err := ledger.Do(t.Context(), exec, "get_address", getAddress, 0)
	require.NoError(t, err)
	assert.Equal(t, "0xABCD000000000000000000000000000000001234", address)
	assert.Equal(t, 1, device.Calls())
}

func TestDoRetryBound(t *testing.T) {
	device := &fakeDevice{responses: []error{ledger.ErrDeviceLocked}}
	clock := &stepClock{now: time.Unix(0, 0)}
	exec := newExecutor(device, ledger.WithClock(clock))

	start := clock.Now()
	_, err := ledger.Do(t.Context(), exec, "get_address", getAddress, 0)
	require.Error(t, err)
	assert.ErrorIs(t, err, ledger.ErrTimeout)
	assert.Equal(t, ledger.DefaultAttempts, device.Calls())
	assert.GreaterOrEqual(t, clock.Now().Sub(start), 4900*time.Millisecond)
}

func TestDoEarlySuccess(t *testing.T) {
	const locked = 7

	responses := make([]error, 0, locked+1)
	for range locked {
		responses = append(responses, ledger.ErrDeviceLocked)
	}
	responses = append(responses, nil)

	device := &fakeDevice{responses: responses}
	clock := &stepClock{now: time.Unix(0, 0)}
	exec := newExecutor(device, ledger.WithClock(clock))

	_, err := ledger.Do(t.Context(), exec, "get_address", getAddress, 0)
	require.NoError(t, err)
	assert.Equal(t, locked+1, device.Calls())
	assert.Equal(t, locked*ledger.DefaultDelay, clock.Now().Sub(time.Unix(0, 0)))
}

func TestDoDoesNotRetryDeviceErrors(t *testing.T) {
	rejected := ledger.ErrDevice
	device := &fakeDevice{responses: []error{ledger.ErrDeviceLocked, rejected}}
	exec := newExecutor(device, ledger.WithClock(&stepClock{}))

	_, err := ledger.Do(t.Context(), exec, "get_address", getAddress, 0)
	require.ErrorIs(t, err, ledger.ErrDevice)
	assert.NotErrorIs(t, err, ledger.ErrTimeout)
	assert.Equal(t, 2, device.Calls())
}

func TestDoDeadlinePrecedence(t *testing.T) {
	device := &fakeDevice{responses: []error{ledger.ErrDeviceLocked}}
	exec := newExecutor(device)

	timeout := 300 * time.Millisecond
	start := time.Now()
	_, err := ledger.Do(t.Context(), exec, "get_address", getAddress, timeout)
	elapsed := time.Since(start)

	require.ErrorIs(t, err, ledger.ErrTimeout)
	assert.GreaterOrEqual(t, elapsed, timeout)
	assert.Less(t, elapsed, 2*time.Second)
	assert.Less(t, device.Calls(), ledger.DefaultAttempts)
}

func TestDoCustomAttempts(t *testing.T) {
	device := &fakeDevice{responses: []error{ledger.ErrDeviceLocked}}
	exec := newExecutor(device, ledger.WithAttempts(3), ledger.WithClock(&stepClock{}))

	_, err := ledger.Do(t.Context(), exec, "get_address", getAddress, 0)
	require.ErrorIs(t, err, ledger.ErrTimeout)
	assert.Equal(t, 3, device.Calls())
}

func TestDoPropagatesInitError(t *testing.T) {
	session := ledger.NewSession(ledger.TransportFunc(func(context.Context) (ledger.Device, error) {
		return nil, assert.AnError
	}))
	exec := ledger.NewExecutor(session)

	_, err := ledger.Do(t.Context(), exec, "get_address", getAddress, time.Second)
	require.ErrorIs(t, err, ledger.ErrTransportInit)
	require.ErrorIs(t, err, assert.AnError)
}

func TestDoCancelledWhileLocked(t *testing.T) {
	device := &fakeDevice{responses: []error{ledger.ErrDeviceLocked}}
	exec := newExecutor(device, ledger.WithDelay(time.Hour))

	ctx, cancel := context.WithTimeout(t.Context(), 50*time.Millisecond)
	defer cancel()

	_, err := ledger.Do(ctx, exec, "get_address", getAddress, 0)
	require.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, 1, device.Calls())
}
