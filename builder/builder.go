package builder

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/godruoyi/go-snowflake"
	"github.com/patrickmn/go-cache"
	"github.com/sgostarter/i/commerr"
	"github.com/sgostarter/i/l"
	"github.com/sgostarter/libeasygo/routineman"
	"github.com/sgostarter/libtemporal/temporal"
	"github.com/spf13/cast"
)

// Track is a sealed per-key observation stream.
type Track[V temporal.Value] struct {
	ID  string
	Key string
	Set temporal.SequenceSet[V]
}

type trackState[V temporal.Value] struct {
	key     string
	run     []temporal.Instant[V]
	sealed  []temporal.Sequence[V]
	dropped int
}

// Builder assembles keyed (value, time) observations into sequence sets.
// Samples within a key must arrive in timestamp order; a gap larger than
// MaxGap or a run reaching MaxInstants closes the current sequence. Keys
// idle longer than IdleExpiry are sealed in the background.
type Builder[V temporal.Value] struct {
	logger l.Wrapper

	cfg    Config
	interp temporal.Interp

	routineMan routineman.RoutineMan

	tracksLock sync.Mutex
	tracks     *cache.Cache

	finishedLock sync.Mutex
	finished     map[string]*Track[V]
}

func NewBuilder[V temporal.Value](cfg Config, logger l.Wrapper) (*Builder[V], error) {
	if logger == nil {
		logger = l.NewNopLoggerWrapper()
	}

	cfg.applyDefaults()

	var zero V

	interp := temporal.InterpLinear
	if !zero.Domain().LinearCapable() {
		interp = temporal.InterpStep
	}

	if cfg.Interpolation != "" {
		i, ok := temporal.ParseInterp(cfg.Interpolation)
		if !ok {
			logger.Error("unknown interpolation:", cfg.Interpolation)

			return nil, temporal.ErrIncompatibleInterpolation
		}

		if i == temporal.InterpLinear && !zero.Domain().LinearCapable() {
			return nil, ErrLinearNotAllowed
		}

		interp = i
	}

	impl := &Builder[V]{
		logger:     logger.WithFields(l.StringField(l.ClsKey, "builder")),
		cfg:        cfg,
		interp:     interp,
		routineMan: routineman.NewRoutineMan(context.Background(), logger),
		tracks:     cache.New(cfg.IdleExpiry, 0),
		finished:   make(map[string]*Track[V]),
	}

	impl.tracks.OnEvicted(func(key string, v any) {
		state, ok := v.(*trackState[V])
		if !ok {
			return
		}

		impl.sealToFinished(state)
	})

	impl.routineMan.StartRoutine(impl.sweepRoutine, "sweepRoutine")

	return impl, nil
}

func (impl *Builder[V]) TriggerStop() {
	impl.routineMan.TriggerStop()
}

func (impl *Builder[V]) Wait() {
	impl.routineMan.Wait()
}

// Push records one observation. The key may be any scalar and is
// normalized to its string form.
func (impl *Builder[V]) Push(key any, v V, t time.Time) error {
	k := cast.ToString(key)
	ts := temporal.TimestampOf(t)

	impl.tracksLock.Lock()
	defer impl.tracksLock.Unlock()

	var state *trackState[V]

	if i, ok := impl.tracks.Get(k); ok {
		state, _ = i.(*trackState[V])
	} else {
		// the entry may have expired before the sweep ran; Delete still
		// fires the eviction hook, sealing those samples instead of
		// letting Set overwrite them
		impl.tracks.Delete(k)
	}

	if state == nil {
		state = &trackState[V]{key: k}
	}

	if n := len(state.run); n > 0 {
		last := state.run[n-1].Timestamp()

		if !last.Before(ts) {
			state.dropped++

			impl.logger.WithFields(l.StringField("key", k)).Warn("out of order sample dropped")
			impl.tracks.Set(k, state, cache.DefaultExpiration)

			return ErrOutOfOrderSample
		}

		if ts.Sub(last) > impl.cfg.MaxGap || n >= impl.cfg.MaxInstants {
			impl.sealRun(state)
		}
	}

	state.run = append(state.run, temporal.NewInstantAt(v, ts))
	impl.tracks.Set(k, state, cache.DefaultExpiration)

	return nil
}

// Finish seals and returns the track for the key, removing it from the
// builder. Keys never pushed report commerr.ErrNotFound.
func (impl *Builder[V]) Finish(key any) (*Track[V], error) {
	k := cast.ToString(key)

	impl.tracksLock.Lock()

	if i, ok := impl.tracks.Get(k); ok {
		if state, ok := i.(*trackState[V]); ok {
			impl.sealToFinished(state)
		}
	}

	// always fires the eviction hook: a no-op on a drained state, a seal
	// for an entry that expired before the sweep
	impl.tracks.Delete(k)

	impl.tracksLock.Unlock()

	impl.finishedLock.Lock()
	defer impl.finishedLock.Unlock()

	track, ok := impl.finished[k]
	if !ok {
		return nil, commerr.ErrNotFound
	}

	delete(impl.finished, k)

	return track, nil
}

// FinishAll seals every live and already expired track.
func (impl *Builder[V]) FinishAll() []*Track[V] {
	impl.tracksLock.Lock()

	// seal entries that expired before the sweep; Items skips them
	impl.tracks.DeleteExpired()

	for k, item := range impl.tracks.Items() {
		if state, ok := item.Object.(*trackState[V]); ok {
			impl.sealToFinished(state)
		}

		impl.tracks.Delete(k)
	}

	impl.tracksLock.Unlock()

	impl.finishedLock.Lock()
	defer impl.finishedLock.Unlock()

	tracks := make([]*Track[V], 0, len(impl.finished))

	for _, track := range impl.finished {
		tracks = append(tracks, track)
	}

	impl.finished = make(map[string]*Track[V])

	return tracks
}

func (impl *Builder[V]) sealRun(state *trackState[V]) {
	if len(state.run) == 0 {
		return
	}

	seq, err := temporal.NewSequence(impl.interp, state.run)
	if err != nil {
		impl.logger.WithFields(l.ErrorField(err), l.StringField("key", state.key)).Error("seal run failed")

		state.run = nil

		return
	}

	state.sealed = append(state.sealed, seq)
	state.run = nil
}

func (impl *Builder[V]) sealToFinished(state *trackState[V]) {
	impl.sealRun(state)

	if len(state.sealed) == 0 {
		return
	}

	impl.finishedLock.Lock()
	defer impl.finishedLock.Unlock()

	seqs := state.sealed
	id := strconv.FormatUint(snowflake.ID(), 36)

	// a key sealed earlier, e.g. by idle expiry, keeps accumulating
	if prev, ok := impl.finished[state.key]; ok {
		seqs = append(prev.Set.Sequences(), seqs...)
		id = prev.ID
	}

	set, err := temporal.NewSequenceSet(seqs)
	if err != nil {
		impl.logger.WithFields(l.ErrorField(err), l.StringField("key", state.key)).Error("assemble track failed")

		return
	}

	state.sealed = nil

	impl.finished[state.key] = &Track[V]{
		ID:  id,
		Key: state.key,
		Set: set,
	}
}

func (impl *Builder[V]) sweepRoutine(ctx context.Context, _ func() bool) {
	sleepDuration := impl.cfg.IdleExpiry / 2
	if sleepDuration > time.Second*10 {
		sleepDuration = time.Second * 10
	}

	loop := true

	for loop {
		select {
		case <-ctx.Done():
			loop = false

			continue
		case <-time.After(sleepDuration):
			impl.tracksLock.Lock()
			impl.tracks.DeleteExpired()
			impl.tracksLock.Unlock()
		}
	}
}
