package temporal

import (
	"sort"
	"strings"
	"time"

	"github.com/sgostarter/libtemporal/span"
)

// A Sequence is a time-ordered run of instants sharing one interpolation
// mode and bound-inclusivity flags. It owns its instants; every transform
// returns a new sequence.
type Sequence[V Value] struct {
	instants []Instant[V]
	interp   Interp
	lowerInc bool
	upperInc bool
}

// NewSequence creates a sequence with the default bounds: inclusive lower,
// and inclusive upper for discrete or instantaneous sequences, exclusive
// otherwise.
func NewSequence[V Value](interp Interp, instants []Instant[V]) (Sequence[V], error) {
	upperInc := interp == InterpDiscrete || len(instants) == 1

	return NewSequenceWithBounds(interp, true, upperInc, instants)
}

// NewSequenceWithBounds creates a sequence with explicit bound inclusivity.
// Instants must be strictly increasing by timestamp. Discrete sequences
// require both bounds inclusive; a single instant forces them.
func NewSequenceWithBounds[V Value](interp Interp, lowerInc, upperInc bool, instants []Instant[V]) (Sequence[V], error) {
	if len(instants) == 0 {
		return Sequence[V]{}, ErrEmptySequence
	}

	if interp == InterpLinear && !domainOf[V]().LinearCapable() {
		return Sequence[V]{}, ErrIncompatibleInterpolation
	}

	if interp == InterpDiscrete && (!lowerInc || !upperInc) {
		return Sequence[V]{}, ErrIncompatibleInterpolation
	}

	if len(instants) == 1 {
		lowerInc, upperInc = true, true
	}

	for i := 1; i < len(instants); i++ {
		switch {
		case instants[i].ts == instants[i-1].ts:
			return Sequence[V]{}, ErrDuplicateTimestamp
		case instants[i].ts < instants[i-1].ts:
			return Sequence[V]{}, ErrUnorderedInstants
		}
	}

	own := make([]Instant[V], len(instants))
	copy(own, instants)

	return Sequence[V]{
		instants: own,
		interp:   interp,
		lowerInc: lowerInc,
		upperInc: upperInc,
	}, nil
}

func (s Sequence[V]) Interpolation() Interp {
	return s.interp
}

func (s Sequence[V]) IsLowerInclusive() bool {
	return s.lowerInc
}

func (s Sequence[V]) IsUpperInclusive() bool {
	return s.upperInc
}

func (s Sequence[V]) NumInstants() int {
	return len(s.instants)
}

// InstantN returns the n-th instant, 0-based.
func (s Sequence[V]) InstantN(n int) (Instant[V], bool) {
	if n < 0 || n >= len(s.instants) {
		return Instant[V]{}, false
	}

	return s.instants[n], true
}

// Instants returns a copy of the instant list.
func (s Sequence[V]) Instants() []Instant[V] {
	out := make([]Instant[V], len(s.instants))
	copy(out, s.instants)

	return out
}

func (s Sequence[V]) StartInstant() Instant[V] {
	if len(s.instants) == 0 {
		return Instant[V]{}
	}

	return s.instants[0]
}

func (s Sequence[V]) EndInstant() Instant[V] {
	if len(s.instants) == 0 {
		return Instant[V]{}
	}

	return s.instants[len(s.instants)-1]
}

func (s Sequence[V]) StartValue() V {
	return s.StartInstant().val
}

func (s Sequence[V]) EndValue() V {
	return s.EndInstant().val
}

func (s Sequence[V]) StartTimestamp() Timestamp {
	return s.StartInstant().ts
}

func (s Sequence[V]) EndTimestamp() Timestamp {
	return s.EndInstant().ts
}

func (s Sequence[V]) Values() []V {
	out := make([]V, len(s.instants))

	for i, in := range s.instants {
		out[i] = in.val
	}

	return out
}

func (s Sequence[V]) Timestamps() []Timestamp {
	out := make([]Timestamp, len(s.instants))

	for i, in := range s.instants {
		out[i] = in.ts
	}

	return out
}

// MinValue returns the smallest value taken by the sequence, using the
// natural order of the domain.
func (s Sequence[V]) MinValue() (V, bool) {
	if len(s.instants) == 0 {
		var zero V

		return zero, false
	}

	best := s.instants[0].val

	for _, in := range s.instants[1:] {
		if compareValue(in.val, best) < 0 {
			best = in.val
		}
	}

	return best, true
}

// MaxValue returns the largest value taken by the sequence.
func (s Sequence[V]) MaxValue() (V, bool) {
	if len(s.instants) == 0 {
		var zero V

		return zero, false
	}

	best := s.instants[0].val

	for _, in := range s.instants[1:] {
		if compareValue(in.val, best) > 0 {
			best = in.val
		}
	}

	return best, true
}

// BoundingBox returns the time span covered by the sequence, carrying the
// sequence's own inclusivity flags.
func (s Sequence[V]) BoundingBox() TimeSpan {
	if len(s.instants) == 0 {
		return TimeSpan{}
	}

	if len(s.instants) == 1 {
		return span.NewInstant(s.instants[0].ts)
	}

	box, _ := span.New(s.instants[0].ts, s.instants[len(s.instants)-1].ts, s.lowerInc, s.upperInc)

	return box
}

// Duration returns the elapsed time between the first and last instants.
func (s Sequence[V]) Duration() time.Duration {
	if len(s.instants) < 2 {
		return 0
	}

	return s.EndTimestamp().Sub(s.StartTimestamp())
}

// ValueAt computes the value of the continuum at t, honoring bound
// inclusivity. Times between samples of a discrete sequence, and times
// outside the sequence span, fail with ErrNoValueAtTimestamp.
func (s Sequence[V]) ValueAt(t Timestamp) (V, error) {
	var zero V

	n := len(s.instants)
	if n == 0 {
		return zero, ErrNoValueAtTimestamp
	}

	first, last := s.instants[0].ts, s.instants[n-1].ts

	if t < first || t > last {
		return zero, ErrNoValueAtTimestamp
	}

	if t == first && !s.lowerInc {
		return zero, ErrNoValueAtTimestamp
	}

	if t == last && !s.upperInc && n > 1 {
		return zero, ErrNoValueAtTimestamp
	}

	return s.valueAtClamped(t)
}

// valueAtClamped is ValueAt without the bound-inclusivity checks. The
// caller guarantees first <= t <= last.
func (s Sequence[V]) valueAtClamped(t Timestamp) (V, error) {
	var zero V

	n := len(s.instants)

	idx := sort.Search(n, func(i int) bool { return s.instants[i].ts >= t })

	if idx < n && s.instants[idx].ts == t {
		return s.instants[idx].val, nil
	}

	if s.interp == InterpDiscrete || idx == 0 || idx == n {
		return zero, ErrNoValueAtTimestamp
	}

	i0, i1 := s.instants[idx-1], s.instants[idx]

	return valueAtSegment(i0.val, i1.val, i0.ts, i1.ts, t, s.interp, idx == n-1 && s.upperInc)
}

// At restricts the sequence to a time span, interpolating synthetic
// boundary instants where the span cuts through a segment. The second
// return value is false when the restriction is empty.
func (s Sequence[V]) At(sp TimeSpan) (Sequence[V], bool) {
	var zero Sequence[V]

	if len(s.instants) == 0 {
		return zero, false
	}

	cut, ok := s.BoundingBox().Intersection(sp)
	if !ok {
		return zero, false
	}

	if s.interp == InterpDiscrete {
		var picked []Instant[V]

		for _, in := range s.instants {
			if cut.Contains(in.ts) {
				picked = append(picked, in)
			}
		}

		if len(picked) == 0 {
			return zero, false
		}

		seq, err := NewSequenceWithBounds(InterpDiscrete, true, true, picked)

		return seq, err == nil
	}

	lo, hi := cut.Lower(), cut.Upper()

	if lo == hi {
		v, err := s.valueAtClamped(lo)
		if err != nil {
			return zero, false
		}

		seq, err := NewSequenceWithBounds(s.interp, true, true, []Instant[V]{NewInstantAt(v, lo)})

		return seq, err == nil
	}

	var picked []Instant[V]

	for _, in := range s.instants {
		if in.ts >= lo && in.ts <= hi {
			picked = append(picked, in)
		}
	}

	if len(picked) == 0 || picked[0].ts > lo {
		v, err := s.valueAtClamped(lo)
		if err != nil {
			return zero, false
		}

		picked = append([]Instant[V]{NewInstantAt(v, lo)}, picked...)
	}

	if picked[len(picked)-1].ts < hi {
		v, err := s.valueAtClamped(hi)
		if err != nil {
			return zero, false
		}

		picked = append(picked, NewInstantAt(v, hi))
	}

	seq, err := NewSequenceWithBounds(s.interp, cut.IsLowerInclusive(), cut.IsUpperInclusive(), picked)

	return seq, err == nil
}

// AtValue restricts the sequence to the sub-periods where the continuum
// equals v. Under linear interpolation this solves for the exact crossing
// times, inserting synthetic instants. The result may be empty.
func (s Sequence[V]) AtValue(v V) SequenceSet[V] {
	switch s.interp {
	case InterpDiscrete:
		var picked []Instant[V]

		for _, in := range s.instants {
			if in.val.Equal(v) {
				picked = append(picked, in)
			}
		}

		if len(picked) == 0 {
			return SequenceSet[V]{}
		}

		seq, _ := NewSequenceWithBounds(InterpDiscrete, true, true, picked)

		return sequenceSetTrusted([]Sequence[V]{seq})
	case InterpStep:
		return s.atValueStep(v)
	default:
		return s.atValueLinear(v)
	}
}

func (s Sequence[V]) atValueStep(v V) SequenceSet[V] {
	var out []Sequence[V]

	n := len(s.instants)

	for i := 0; i < n; {
		if !s.instants[i].val.Equal(v) {
			i++

			continue
		}

		j := i
		for j+1 < n && s.instants[j+1].val.Equal(v) {
			j++
		}

		// a lone match at an excluded final bound carries no period
		if i == j && j == n-1 && !s.upperInc && n > 1 {
			break
		}

		run := make([]Instant[V], 0, j-i+2)
		run = append(run, s.instants[i:j+1]...)

		loInc := true
		if i == 0 {
			loInc = s.lowerInc
		}

		hiInc := false

		if j == n-1 {
			hiInc = s.upperInc
		} else {
			// the value holds until the next change point
			run = append(run, NewInstantAt(v, s.instants[j+1].ts))
		}

		if seq, err := NewSequenceWithBounds(InterpStep, loInc, hiInc, run); err == nil {
			out = append(out, seq)
		}

		i = j + 1
	}

	return sequenceSetTrusted(out)
}

func (s Sequence[V]) atValueLinear(v V) SequenceSet[V] {
	var out []Sequence[V]

	n := len(s.instants)

	for i := 0; i < n; {
		in := s.instants[i]

		if in.val.Equal(v) {
			j := i
			for j+1 < n && s.instants[j+1].val.Equal(v) {
				j++
			}

			if j > i {
				loInc := true
				if i == 0 {
					loInc = s.lowerInc
				}

				hiInc := true
				if j == n-1 {
					hiInc = s.upperInc
				}

				if seq, err := NewSequenceWithBounds(InterpLinear, loInc, hiInc, s.instants[i:j+1]); err == nil {
					out = append(out, seq)
				}
			} else {
				excluded := (i == 0 && !s.lowerInc && n > 1) ||
					(i == n-1 && !s.upperInc && n > 1)

				if !excluded {
					seq, _ := NewSequenceWithBounds(InterpLinear, true, true, []Instant[V]{in})
					out = append(out, seq)
				}
			}

			i = j + 1

			continue
		}

		if i+1 < n && !s.instants[i+1].val.Equal(v) {
			if tc, ok := crossingTime(in, s.instants[i+1], v); ok {
				seq, _ := NewSequenceWithBounds(InterpLinear, true, true, []Instant[V]{NewInstantAt(v, tc)})
				out = append(out, seq)
			}
		}

		i++
	}

	return sequenceSetTrusted(out)
}

// crossingTime solves for the time within the open segment (a, b) where
// the linear interpolation passes exactly through v.
func crossingTime[V Value](a, b Instant[V], v V) (Timestamp, bool) {
	var f float64

	switch av := any(a.val).(type) {
	case Float:
		bv, _ := any(b.val).(Float)
		tv, _ := any(v).(Float)

		if bv == av {
			return 0, false
		}

		f = float64((tv - av) / (bv - av))
	case Point:
		bp, _ := any(b.val).(Point)
		tp, _ := any(v).(Point)

		dx, dy := bp.X-av.X, bp.Y-av.Y

		switch {
		case dx != 0:
			f = (tp.X - av.X) / dx
		case dy != 0:
			f = (tp.Y - av.Y) / dy
		default:
			return 0, false
		}

		if av.X+dx*f != tp.X || av.Y+dy*f != tp.Y {
			return 0, false
		}
	default:
		return 0, false
	}

	if f <= 0 || f >= 1 {
		return 0, false
	}

	return a.ts + Timestamp(float64(b.ts-a.ts)*f), true
}

// MinusValue restricts the sequence to the sub-periods where the continuum
// differs from v.
func (s Sequence[V]) MinusValue(v V) SequenceSet[V] {
	if s.interp == InterpDiscrete {
		var picked []Instant[V]

		for _, in := range s.instants {
			if !in.val.Equal(v) {
				picked = append(picked, in)
			}
		}

		if len(picked) == 0 {
			return SequenceSet[V]{}
		}

		seq, _ := NewSequenceWithBounds(InterpDiscrete, true, true, picked)

		return sequenceSetTrusted([]Sequence[V]{seq})
	}

	at := s.AtValue(v)

	cuts := make([]TimeSpan, 0, at.NumSequences())

	for _, q := range at.seqs {
		cuts = append(cuts, q.BoundingBox())
	}

	remain := s.BoundingBox().ToSpanSet().Minus(span.NewSpanSet(cuts...))

	var out []Sequence[V]

	for _, sp := range remain.Spans() {
		if piece, ok := s.At(sp); ok {
			out = append(out, piece)
		}
	}

	return sequenceSetTrusted(out)
}

// Length returns the cumulative planar distance traveled by a point-valued
// linear sequence. Step and discrete sequences have zero length.
func (s Sequence[V]) Length() float64 {
	return s.LengthWith(PlanarMetric{})
}

// LengthWith measures the trajectory with a caller-supplied metric.
func (s Sequence[V]) LengthWith(m Metric) float64 {
	if s.interp != InterpLinear {
		return 0
	}

	var total float64

	for i := 0; i+1 < len(s.instants); i++ {
		a, ok := any(s.instants[i].val).(Point)
		if !ok {
			return 0
		}

		b, _ := any(s.instants[i+1].val).(Point)

		total += m.Distance(a, b)
	}

	return total
}

// TimeWeightedAverage integrates the interpolated function over elapsed
// time and divides by the total duration. Defined for numeric sequences
// under step or linear interpolation.
func (s Sequence[V]) TimeWeightedAverage() (float64, error) {
	if d := domainOf[V](); d != DomainInt && d != DomainFloat {
		return 0, ErrIncompatibleInterpolation
	}

	if s.interp == InterpDiscrete {
		return 0, ErrUndefinedForDiscrete
	}

	n := len(s.instants)
	if n == 0 {
		return 0, ErrEmptySequence
	}

	if n == 1 {
		v, _ := numericValue(s.instants[0].val)

		return v, nil
	}

	var integral float64

	for i := 0; i+1 < n; i++ {
		v0, _ := numericValue(s.instants[i].val)
		v1, _ := numericValue(s.instants[i+1].val)
		dt := float64(s.instants[i+1].ts - s.instants[i].ts)

		if s.interp == InterpLinear {
			integral += (v0 + v1) / 2 * dt
		} else {
			integral += v0 * dt
		}
	}

	total := float64(s.instants[n-1].ts - s.instants[0].ts)

	return integral / total, nil
}

// Merge combines two sequences whose spans meet without a gap into one.
// The receiver must end where o starts, with the shared instant present on
// at least one side, and both must use the same interpolation.
func (s Sequence[V]) Merge(o Sequence[V]) (Sequence[V], error) {
	if s.interp != o.interp {
		return Sequence[V]{}, ErrIncompatibleInterpolation
	}

	if len(s.instants) == 0 || len(o.instants) == 0 {
		return Sequence[V]{}, ErrEmptySequence
	}

	last, first := s.EndInstant(), o.StartInstant()

	if s.interp == InterpDiscrete {
		if last.ts >= first.ts {
			return Sequence[V]{}, ErrOverlappingSequences
		}

		return NewSequenceWithBounds(InterpDiscrete, true, true, append(s.Instants(), o.instants...))
	}

	switch {
	case last.ts > first.ts:
		return Sequence[V]{}, ErrOverlappingSequences
	case last.ts < first.ts:
		return Sequence[V]{}, ErrDisjointSequences
	}

	if !last.val.Equal(first.val) {
		return Sequence[V]{}, ErrDuplicateTimestamp
	}

	merged := append(s.Instants(), o.instants[1:]...)

	return NewSequenceWithBounds(s.interp, s.lowerInc, o.upperInc, merged)
}

// Shift returns a copy of the sequence moved by delta.
func (s Sequence[V]) Shift(delta time.Duration) Sequence[V] {
	out := make([]Instant[V], len(s.instants))

	for i, in := range s.instants {
		out[i] = in.Shift(delta)
	}

	return Sequence[V]{
		instants: out,
		interp:   s.interp,
		lowerInc: s.lowerInc,
		upperInc: s.upperInc,
	}
}

func (s Sequence[V]) Equal(o Sequence[V]) bool {
	if s.interp != o.interp || s.lowerInc != o.lowerInc || s.upperInc != o.upperInc {
		return false
	}

	if len(s.instants) != len(o.instants) {
		return false
	}

	for i := range s.instants {
		if !s.instants[i].Equal(o.instants[i]) {
			return false
		}
	}

	return true
}

// String renders the sequence in its text form, with an Interp=Step;
// marker for step sequences.
func (s Sequence[V]) String() string {
	if s.interp == InterpStep {
		return "Interp=Step;" + s.body()
	}

	return s.body()
}

// body renders the bracketed instant list without the interpolation marker.
func (s Sequence[V]) body() string {
	var sb strings.Builder

	open, closing := "[", ")"

	if s.interp == InterpDiscrete {
		open, closing = "{", "}"
	} else {
		if !s.lowerInc {
			open = "("
		}

		if s.upperInc {
			closing = "]"
		}
	}

	sb.WriteString(open)

	for i, in := range s.instants {
		if i > 0 {
			sb.WriteString(", ")
		}

		sb.WriteString(in.String())
	}

	sb.WriteString(closing)

	return sb.String()
}
