package ledger_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github/chapool/ledger-signer/internal/ledger"
)

type fakeDevice struct {
	versionErr error
	versions   atomic.Int32

	mu        sync.Mutex
	responses []error
	calls     int
}

func (d *fakeDevice) GetVersion(_ context.Context) (string, error) {
	d.versions.Add(1)
	if d.versionErr != nil {
		return "", d.versionErr
	}
	return "1.0.4", nil
}

// GetAddress pops the next scripted error, nil meaning success.
func (d *fakeDevice) GetAddress(_ context.Context, _ string) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.calls++
	if len(d.responses) == 0 {
		return "0xABCD000000000000000000000000000000001234", nil
	}
	err := d.responses[0]
	if len(d.responses) > 1 {
		d.responses = d.responses[1:]
	}
	if err != nil {
		return "", err
	}
	return "0xABCD000000000000000000000000000000001234", nil
}

func (d *fakeDevice) SignTransaction(_ context.Context, _, _ uint32, _ string) (*ledger.Signature, error) {
	return nil, ledger.ErrUnsupported
}

func (d *fakeDevice) Calls() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.calls
}

type countingTransport struct {
	device  *fakeDevice
	openErr error
	opens   atomic.Int32
	gate    chan struct{}
}

//nolint:ireturn
func (t *countingTransport) Open(ctx context.Context) (ledger.Device, error) {
	t.opens.Add(1)
	if t.gate != nil {
		<-t.gate
	}
	if t.openErr != nil {
		return nil, t.openErr
	}
	return t.device, nil
}

func TestSessionAcquireOnce(t *testing.T) {
	device := &fakeDevice{}
	transport := &countingTransport{device: device, gate: make(chan struct{})}
	session := ledger.NewSession(transport)

	assert.Equal(t, ledger.StateUninitialized, session.State())

	const callers = 16
	var wg sync.WaitGroup
	results := make([]ledger.Device, callers)
	errs := make([]error, callers)

	for i := range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i], errs[i] = session.Acquire(t.Context())
		}()
	}

	close(transport.gate)
	wg.Wait()

	for i := range callers {
		require.NoError(t, errs[i])
		assert.Same(t, device, results[i])
	}

	assert.Equal(t, int32(1), transport.opens.Load())
	assert.Equal(t, int32(1), device.versions.Load())
	assert.Equal(t, ledger.StateReady, session.State())
	assert.Equal(t, "1.0.4", session.Version())

	_, err := session.Acquire(t.Context())
	require.NoError(t, err)
	assert.Equal(t, int32(1), transport.opens.Load())
}

func TestSessionOpenFailureIsCached(t *testing.T) {
	cause := errors.New("no device")
	transport := &countingTransport{openErr: cause}
	session := ledger.NewSession(transport)

	_, err := session.Acquire(t.Context())
	require.Error(t, err)
	assert.ErrorIs(t, err, ledger.ErrTransportInit)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, ledger.StateFailed, session.State())

	_, err = session.Acquire(t.Context())
	assert.ErrorIs(t, err, ledger.ErrTransportInit)
	assert.Equal(t, int32(1), transport.opens.Load())
	assert.Empty(t, session.Version())
}

func TestSessionHandshakeFailure(t *testing.T) {
	cause := errors.New("wrong app")
	device := &fakeDevice{versionErr: cause}
	session := ledger.NewSession(&countingTransport{device: device})

	_, err := session.Acquire(t.Context())
	require.Error(t, err)
	assert.ErrorIs(t, err, ledger.ErrTransportInit)
	assert.ErrorIs(t, err, cause)

	var initErr *ledger.InitError
	require.ErrorAs(t, err, &initErr)
	assert.Equal(t, "handshake", initErr.Stage)
}

func TestSessionAcquireCancelledWaiter(t *testing.T) {
	transport := &countingTransport{device: &fakeDevice{}, gate: make(chan struct{})}
	session := ledger.NewSession(transport)

	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	_, err := session.Acquire(ctx)
	require.ErrorIs(t, err, context.Canceled)

	// initialization keeps going for later callers
	close(transport.gate)
	_, err = session.Acquire(t.Context())
	require.NoError(t, err)
	assert.Equal(t, int32(1), transport.opens.Load())
}
