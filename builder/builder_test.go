package builder

import (
	"testing"
	"time"

	"github.com/sgostarter/i/commerr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sgostarter/libtemporal/temporal"
)

func TestParseConfig(t *testing.T) {
	cfg, err := ParseConfig([]byte(`
max_gap: 30m
max_instants: 100
interpolation: step
`))
	require.Nil(t, err)
	assert.Equal(t, 30*time.Minute, cfg.MaxGap)
	assert.Equal(t, 100, cfg.MaxInstants)
	assert.Equal(t, "step", cfg.Interpolation)
	assert.Equal(t, DefaultIdleExpiry, cfg.IdleExpiry)

	cfg, err = ParseConfig(nil)
	require.Nil(t, err)
	assert.Equal(t, DefaultMaxGap, cfg.MaxGap)
	assert.Equal(t, DefaultMaxInstants, cfg.MaxInstants)
}

func TestBuilderAssemble(t *testing.T) {
	b, err := NewBuilder[temporal.Float](Config{}, nil)
	require.Nil(t, err)

	defer func() {
		b.TriggerStop()
		b.Wait()
	}()

	start := time.Date(2020, 6, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		err = b.Push(227002000, temporal.Float(float64(i)), start.Add(time.Duration(i)*time.Minute))
		assert.Nil(t, err)
	}

	track, err := b.Finish(227002000)
	require.Nil(t, err)
	assert.Equal(t, "227002000", track.Key)
	assert.NotEmpty(t, track.ID)
	assert.Equal(t, 1, track.Set.NumSequences())
	assert.Equal(t, 5, track.Set.NumInstants())
	assert.Equal(t, temporal.InterpLinear, track.Set.Interpolation())

	_, err = b.Finish(227002000)
	assert.ErrorIs(t, err, commerr.ErrNotFound)
}

func TestBuilderGapSplitsSequences(t *testing.T) {
	b, err := NewBuilder[temporal.Float](Config{MaxGap: 10 * time.Minute}, nil)
	require.Nil(t, err)

	defer func() {
		b.TriggerStop()
		b.Wait()
	}()

	start := time.Date(2020, 6, 1, 0, 0, 0, 0, time.UTC)

	assert.Nil(t, b.Push("v1", temporal.Float(1), start))
	assert.Nil(t, b.Push("v1", temporal.Float(2), start.Add(time.Minute)))
	assert.Nil(t, b.Push("v1", temporal.Float(3), start.Add(time.Hour)))

	track, err := b.Finish("v1")
	require.Nil(t, err)
	assert.Equal(t, 2, track.Set.NumSequences())
}

func TestBuilderRejectsOutOfOrder(t *testing.T) {
	b, err := NewBuilder[temporal.Int](Config{Interpolation: "step"}, nil)
	require.Nil(t, err)

	defer func() {
		b.TriggerStop()
		b.Wait()
	}()

	start := time.Date(2020, 6, 1, 0, 0, 0, 0, time.UTC)

	assert.Nil(t, b.Push("k", temporal.Int(1), start.Add(time.Minute)))
	assert.ErrorIs(t, b.Push("k", temporal.Int(2), start), ErrOutOfOrderSample)
	assert.ErrorIs(t, b.Push("k", temporal.Int(2), start.Add(time.Minute)), ErrOutOfOrderSample)

	track, err := b.Finish("k")
	require.Nil(t, err)
	assert.Equal(t, 1, track.Set.NumInstants())
}

func TestBuilderMaxInstants(t *testing.T) {
	b, err := NewBuilder[temporal.Float](Config{MaxInstants: 3}, nil)
	require.Nil(t, err)

	defer func() {
		b.TriggerStop()
		b.Wait()
	}()

	start := time.Date(2020, 6, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 7; i++ {
		assert.Nil(t, b.Push("k", temporal.Float(float64(i)), start.Add(time.Duration(i)*time.Second)))
	}

	track, err := b.Finish("k")
	require.Nil(t, err)
	assert.Equal(t, 3, track.Set.NumSequences())
	assert.Equal(t, 7, track.Set.NumInstants())
}

func TestBuilderLinearNeedsCapableDomain(t *testing.T) {
	_, err := NewBuilder[temporal.Bool](Config{Interpolation: "linear"}, nil)
	assert.ErrorIs(t, err, ErrLinearNotAllowed)

	// nonsense interpolation names are rejected
	_, err = NewBuilder[temporal.Float](Config{Interpolation: "cubic"}, nil)
	assert.ErrorIs(t, err, temporal.ErrIncompatibleInterpolation)

	// bool defaults to step
	b, err := NewBuilder[temporal.Bool](Config{}, nil)
	require.Nil(t, err)

	defer func() {
		b.TriggerStop()
		b.Wait()
	}()

	start := time.Date(2020, 6, 1, 0, 0, 0, 0, time.UTC)

	assert.Nil(t, b.Push("k", temporal.Bool(true), start))
	assert.Nil(t, b.Push("k", temporal.Bool(false), start.Add(time.Minute)))

	track, err := b.Finish("k")
	require.Nil(t, err)
	assert.Equal(t, temporal.InterpStep, track.Set.Interpolation())
}

func TestBuilderFinishAll(t *testing.T) {
	b, err := NewBuilder[temporal.Float](Config{}, nil)
	require.Nil(t, err)

	defer func() {
		b.TriggerStop()
		b.Wait()
	}()

	start := time.Date(2020, 6, 1, 0, 0, 0, 0, time.UTC)

	assert.Nil(t, b.Push("a", temporal.Float(1), start))
	assert.Nil(t, b.Push("b", temporal.Float(2), start))
	assert.Nil(t, b.Push("b", temporal.Float(3), start.Add(time.Minute)))

	tracks := b.FinishAll()
	assert.Equal(t, 2, len(tracks))

	_, err = b.Finish("a")
	assert.ErrorIs(t, err, commerr.ErrNotFound)
}

func TestBuilderKeepsSamplesAcrossIdleExpiry(t *testing.T) {
	b, err := NewBuilder[temporal.Float](Config{IdleExpiry: 50 * time.Millisecond}, nil)
	require.Nil(t, err)

	defer func() {
		b.TriggerStop()
		b.Wait()
	}()

	start := time.Date(2020, 6, 1, 0, 0, 0, 0, time.UTC)

	assert.Nil(t, b.Push("k", temporal.Float(1), start))
	assert.Nil(t, b.Push("k", temporal.Float(2), start.Add(time.Minute)))

	// let the entry expire, whether or not the sweep has run yet
	time.Sleep(80 * time.Millisecond)

	assert.Nil(t, b.Push("k", temporal.Float(3), start.Add(2*time.Minute)))

	track, err := b.Finish("k")
	require.Nil(t, err)
	assert.Equal(t, 3, track.Set.NumInstants())
}

func TestBuilderFinishAfterIdleExpiry(t *testing.T) {
	b, err := NewBuilder[temporal.Float](Config{IdleExpiry: 50 * time.Millisecond}, nil)
	require.Nil(t, err)

	defer func() {
		b.TriggerStop()
		b.Wait()
	}()

	start := time.Date(2020, 6, 1, 0, 0, 0, 0, time.UTC)

	assert.Nil(t, b.Push("k", temporal.Float(1), start))
	assert.Nil(t, b.Push("k", temporal.Float(2), start.Add(time.Minute)))

	time.Sleep(80 * time.Millisecond)

	track, err := b.Finish("k")
	require.Nil(t, err)
	assert.Equal(t, 2, track.Set.NumInstants())
}

func TestBuilderUnknownKey(t *testing.T) {
	b, err := NewBuilder[temporal.Float](Config{}, nil)
	require.Nil(t, err)

	defer func() {
		b.TriggerStop()
		b.Wait()
	}()

	_, err = b.Finish("nobody")
	assert.ErrorIs(t, err, commerr.ErrNotFound)
}
