package synth

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// fakeStream records whether Close was called.
type fakeStream struct {
	closed bool
}

func (s *fakeStream) Close() error {
	s.closed = true

	return nil
}

// fakeOutput hands out fakeStreams and remembers them in order.
type fakeOutput struct {
	streams []*fakeStream
	sources []io.Reader
	fail    bool
}

func (o *fakeOutput) Open(src io.Reader) (Stream, error) {
	if o.fail {
		return nil, errors.New("device busy")
	}

	s := &fakeStream{}
	o.streams = append(o.streams, s)
	o.sources = append(o.sources, src)

	return s, nil
}

// TestEngineExclusiveStreams verifies that starting a new pattern or preview
// tears down the previous stream first, so output streams never overlap.
func TestEngineExclusiveStreams(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	output := &fakeOutput{}
	engine := NewEngine(output, 8000)

	chime, err := Profile(SoundChime)
	require.NoError(t, err)

	require.NoError(t, engine.Start(ctx, chime, 0.3))
	require.True(t, engine.Playing())
	require.Len(t, output.streams, 1)

	// Restart at a higher volume: old stream closed, new one opened.
	require.NoError(t, engine.Start(ctx, chime, 0.5))
	require.Len(t, output.streams, 2)
	require.True(t, output.streams[0].closed)
	require.False(t, output.streams[1].closed)

	// A preview also claims the single resource.
	require.NoError(t, engine.Preview(ctx, SoundClassic))
	require.Len(t, output.streams, 3)
	require.True(t, output.streams[1].closed)

	// The replaced renderer no longer produces output.
	n, err := output.sources[1].Read(make([]byte, 64))
	require.Zero(t, n)
	require.ErrorIs(t, err, io.EOF)
}

// TestEngineStopIdempotent verifies Stop releases the stream and that
// repeated stops are silent no-ops.
func TestEngineStopIdempotent(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	output := &fakeOutput{}
	engine := NewEngine(output, 8000)

	classic, err := Profile(SoundClassic)
	require.NoError(t, err)

	require.NoError(t, engine.Start(ctx, classic, 0.8))

	engine.Stop(ctx)
	require.False(t, engine.Playing())
	require.True(t, output.streams[0].closed)

	engine.Stop(ctx)
	engine.Stop(ctx)
	require.False(t, engine.Playing())
}

// TestEngineOutputFailure verifies an unavailable device surfaces as an
// error the caller can ignore to continue silently.
func TestEngineOutputFailure(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	engine := NewEngine(&fakeOutput{fail: true}, 0)

	classic, err := Profile(SoundClassic)
	require.NoError(t, err)

	require.Error(t, engine.Start(ctx, classic, 0.3))
	require.False(t, engine.Playing())

	// Engine state stays consistent: stopping after a failed start is fine.
	engine.Stop(ctx)
}

// TestEngineRejectsMalformedProfile verifies profile shapes the renderer
// cannot handle are refused up front instead of reaching the device
// callback, and that the active stream survives the rejection.
func TestEngineRejectsMalformedProfile(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	output := &fakeOutput{}
	engine := NewEngine(output, 8000)

	classic, err := Profile(SoundClassic)
	require.NoError(t, err)
	require.NoError(t, engine.Start(ctx, classic, 0.3))

	// A sweep needs a start and an end pitch.
	lopsided := ToneProfile{
		Frequencies:    []float64{440.0},
		BurstDuration:  100 * time.Millisecond,
		BurstsPerCycle: 1,
		Sweep:          true,
	}

	require.ErrorIs(t, engine.Start(ctx, lopsided, 0.3), ErrInvalidProfile)
	require.True(t, engine.Playing())
	require.Len(t, output.streams, 1)
	require.False(t, output.streams[0].closed)

	require.ErrorIs(t, engine.Start(ctx, ToneProfile{}, 0.3), ErrInvalidProfile)
	require.ErrorIs(t, engine.Start(ctx, ToneProfile{
		Frequencies: []float64{1, 2, 3, 4, 5},
	}, 0.3), ErrInvalidProfile)
}

// TestBuiltinProfilesValidate verifies every registered sound passes the
// shape check the engine enforces.
func TestBuiltinProfilesValidate(t *testing.T) {
	t.Parallel()

	for _, id := range SoundIDs() {
		profile, err := Profile(id)
		require.NoError(t, err)
		require.NoError(t, profile.Validate(), "sound %q", id)
	}
}

// TestEnginePreviewUnknownSound verifies lookup failures surface the
// sentinel error.
func TestEnginePreviewUnknownSound(t *testing.T) {
	t.Parallel()

	engine := NewEngine(&fakeOutput{}, 8000)

	err := engine.Preview(context.Background(), "vuvuzela")
	require.ErrorIs(t, err, ErrUnknownSound)
}
