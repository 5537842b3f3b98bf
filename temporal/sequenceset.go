package temporal

import (
	"sort"
	"strings"
	"time"

	"github.com/sgostarter/libtemporal/span"
)

// A SequenceSet is an ordered collection of time-disjoint sequences
// sharing one interpolation mode, forming one logical trajectory with
// gaps. The zero value is the empty set.
type SequenceSet[V Value] struct {
	seqs   []Sequence[V]
	interp Interp
}

// NewSequenceSet builds a set from sequences, sorting them by start time.
// It fails with ErrIncompatibleInterpolation when the components mix
// interpolation modes, and with ErrOverlappingSequences when two component
// time spans share a point.
func NewSequenceSet[V Value](seqs []Sequence[V]) (SequenceSet[V], error) {
	if len(seqs) == 0 {
		return SequenceSet[V]{}, nil
	}

	own := make([]Sequence[V], len(seqs))
	copy(own, seqs)

	interp := own[0].interp

	for _, q := range own[1:] {
		if q.interp != interp {
			return SequenceSet[V]{}, ErrIncompatibleInterpolation
		}
	}

	sort.Slice(own, func(i, j int) bool {
		return own[i].StartTimestamp() < own[j].StartTimestamp()
	})

	for i := 1; i < len(own); i++ {
		if own[i-1].BoundingBox().Overlaps(own[i].BoundingBox()) {
			return SequenceSet[V]{}, ErrOverlappingSequences
		}
	}

	return SequenceSet[V]{seqs: own, interp: interp}, nil
}

// sequenceSetTrusted wraps sequences already known to be sorted, disjoint
// and mode-consistent.
func sequenceSetTrusted[V Value](seqs []Sequence[V]) SequenceSet[V] {
	if len(seqs) == 0 {
		return SequenceSet[V]{}
	}

	return SequenceSet[V]{seqs: seqs, interp: seqs[0].interp}
}

func (ss SequenceSet[V]) IsEmpty() bool {
	return len(ss.seqs) == 0
}

func (ss SequenceSet[V]) Interpolation() Interp {
	return ss.interp
}

func (ss SequenceSet[V]) NumSequences() int {
	return len(ss.seqs)
}

// SequenceN returns the n-th component sequence, 0-based.
func (ss SequenceSet[V]) SequenceN(n int) (Sequence[V], bool) {
	if n < 0 || n >= len(ss.seqs) {
		return Sequence[V]{}, false
	}

	return ss.seqs[n], true
}

// Sequences returns a copy of the component list.
func (ss SequenceSet[V]) Sequences() []Sequence[V] {
	out := make([]Sequence[V], len(ss.seqs))
	copy(out, ss.seqs)

	return out
}

func (ss SequenceSet[V]) StartSequence() (Sequence[V], bool) {
	return ss.SequenceN(0)
}

func (ss SequenceSet[V]) EndSequence() (Sequence[V], bool) {
	return ss.SequenceN(len(ss.seqs) - 1)
}

func (ss SequenceSet[V]) NumInstants() int {
	total := 0

	for _, q := range ss.seqs {
		total += len(q.instants)
	}

	return total
}

// Instants returns all component instants in time order.
func (ss SequenceSet[V]) Instants() []Instant[V] {
	out := make([]Instant[V], 0, ss.NumInstants())

	for _, q := range ss.seqs {
		out = append(out, q.instants...)
	}

	return out
}

// BoundingBox returns the minimal time span enclosing every component.
func (ss SequenceSet[V]) BoundingBox() TimeSpan {
	if len(ss.seqs) == 0 {
		return TimeSpan{}
	}

	first := ss.seqs[0].BoundingBox()
	last := ss.seqs[len(ss.seqs)-1].BoundingBox()

	if first.Lower() == last.Upper() {
		return span.NewInstant(first.Lower())
	}

	box, _ := span.New(first.Lower(), last.Upper(), first.IsLowerInclusive(), last.IsUpperInclusive())

	return box
}

// TimeSpans returns the set of component time spans.
func (ss SequenceSet[V]) TimeSpans() TimeSpanSet {
	spans := make([]TimeSpan, len(ss.seqs))

	for i, q := range ss.seqs {
		spans[i] = q.BoundingBox()
	}

	return span.NewSpanSet(spans...)
}

// ValueAt delegates to the unique component containing t.
func (ss SequenceSet[V]) ValueAt(t Timestamp) (V, error) {
	for _, q := range ss.seqs {
		if q.BoundingBox().Contains(t) {
			return q.ValueAt(t)
		}

		if q.StartTimestamp() > t {
			break
		}
	}

	var zero V

	return zero, ErrNoValueAtTimestamp
}

// Duration returns the summed duration of the components, or the width of
// the whole extent when ignoreGaps is false.
func (ss SequenceSet[V]) Duration(ignoreGaps bool) time.Duration {
	if len(ss.seqs) == 0 {
		return 0
	}

	if !ignoreGaps {
		return SpanDuration(ss.BoundingBox())
	}

	var total time.Duration

	for _, q := range ss.seqs {
		total += q.Duration()
	}

	return total
}

// Length sums the trajectory length of the components.
func (ss SequenceSet[V]) Length() float64 {
	return ss.LengthWith(PlanarMetric{})
}

func (ss SequenceSet[V]) LengthWith(m Metric) float64 {
	var total float64

	for _, q := range ss.seqs {
		total += q.LengthWith(m)
	}

	return total
}

// TimeWeightedAverage integrates across the components, weighting each by
// its contributed duration. A set of instantaneous components degrades to
// the plain mean of their values.
func (ss SequenceSet[V]) TimeWeightedAverage() (float64, error) {
	if len(ss.seqs) == 0 {
		return 0, ErrEmptySequence
	}

	var integral, total float64

	for _, q := range ss.seqs {
		avg, err := q.TimeWeightedAverage()
		if err != nil {
			return 0, err
		}

		dur := float64(q.EndTimestamp() - q.StartTimestamp())
		integral += avg * dur
		total += dur
	}

	if total == 0 {
		var sum float64

		for _, q := range ss.seqs {
			v, _ := numericValue(q.StartValue())
			sum += v
		}

		return sum / float64(len(ss.seqs)), nil
	}

	return integral / total, nil
}

// AtValue restricts every component to the periods where it equals v.
func (ss SequenceSet[V]) AtValue(v V) SequenceSet[V] {
	var out []Sequence[V]

	for _, q := range ss.seqs {
		out = append(out, q.AtValue(v).seqs...)
	}

	return sequenceSetTrusted(out)
}

// MinusValue restricts every component to the periods where it differs
// from v.
func (ss SequenceSet[V]) MinusValue(v V) SequenceSet[V] {
	var out []Sequence[V]

	for _, q := range ss.seqs {
		out = append(out, q.MinusValue(v).seqs...)
	}

	return sequenceSetTrusted(out)
}

// Shift returns a copy of the set moved by delta.
func (ss SequenceSet[V]) Shift(delta time.Duration) SequenceSet[V] {
	out := make([]Sequence[V], len(ss.seqs))

	for i, q := range ss.seqs {
		out[i] = q.Shift(delta)
	}

	return SequenceSet[V]{seqs: out, interp: ss.interp}
}

func (ss SequenceSet[V]) Equal(o SequenceSet[V]) bool {
	if len(ss.seqs) != len(o.seqs) {
		return false
	}

	for i := range ss.seqs {
		if !ss.seqs[i].Equal(o.seqs[i]) {
			return false
		}
	}

	return true
}

// String renders the set in its text form, with a single leading
// interpolation marker applying to all components.
func (ss SequenceSet[V]) String() string {
	var sb strings.Builder

	if ss.interp == InterpStep {
		sb.WriteString("Interp=Step;")
	}

	sb.WriteByte('{')

	for i, q := range ss.seqs {
		if i > 0 {
			sb.WriteString(", ")
		}

		sb.WriteString(q.body())
	}

	sb.WriteByte('}')

	return sb.String()
}
