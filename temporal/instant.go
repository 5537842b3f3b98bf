package temporal

import (
	"time"

	"github.com/sgostarter/libtemporal/span"
)

// An Instant is a single timestamped value sample, the atomic building
// block of every temporal value.
type Instant[V Value] struct {
	val V
	ts  Timestamp
}

func NewInstant[V Value](v V, t time.Time) Instant[V] {
	return Instant[V]{val: v, ts: TimestampOf(t)}
}

func NewInstantAt[V Value](v V, ts Timestamp) Instant[V] {
	return Instant[V]{val: v, ts: ts}
}

func (in Instant[V]) Value() V {
	return in.val
}

func (in Instant[V]) Timestamp() Timestamp {
	return in.ts
}

func (in Instant[V]) Time() time.Time {
	return in.ts.Time()
}

// BoundingBox returns the degenerate time span [ts, ts].
func (in Instant[V]) BoundingBox() TimeSpan {
	return span.NewInstant(in.ts)
}

func (in Instant[V]) Equal(o Instant[V]) bool {
	return in.ts == o.ts && in.val.Equal(o.val)
}

// Compare orders instants by (value, timestamp).
func (in Instant[V]) Compare(o Instant[V]) int {
	if c := compareValue(in.val, o.val); c != 0 {
		return c
	}

	switch {
	case in.ts < o.ts:
		return -1
	case in.ts > o.ts:
		return 1
	default:
		return 0
	}
}

// Shift returns a copy of the instant moved by delta.
func (in Instant[V]) Shift(delta time.Duration) Instant[V] {
	in.ts = in.ts.Add(delta)

	return in
}

func (in Instant[V]) String() string {
	return in.val.String() + "@" + in.ts.String()
}
