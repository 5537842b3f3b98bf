package span

import (
	"sort"
	"strings"
)

// A SpanSet is a normalized collection of spans: sorted by lower bound,
// pairwise disjoint and non-adjacent. The zero value is the empty set.
type SpanSet[T Scalar] struct {
	spans []Span[T]
}

// NewSpanSet builds a span set from arbitrary spans, sorting them and
// merging any pair that overlaps or is adjacent. Invalid (zero-value) spans
// are ignored.
func NewSpanSet[T Scalar](spans ...Span[T]) SpanSet[T] {
	valid := make([]Span[T], 0, len(spans))

	for _, s := range spans {
		if s.IsValid() {
			valid = append(valid, s)
		}
	}

	if len(valid) == 0 {
		return SpanSet[T]{}
	}

	sort.Slice(valid, func(i, j int) bool {
		return valid[i].Compare(valid[j]) < 0
	})

	merged := valid[:1]

	for _, s := range valid[1:] {
		last := &merged[len(merged)-1]

		if m, ok := last.merge(s); ok {
			*last = m
		} else {
			merged = append(merged, s)
		}
	}

	out := make([]Span[T], len(merged))
	copy(out, merged)

	return SpanSet[T]{spans: out}
}

func (ss SpanSet[T]) IsEmpty() bool {
	return len(ss.spans) == 0
}

func (ss SpanSet[T]) NumSpans() int {
	return len(ss.spans)
}

// Spans returns a copy of the member spans in order.
func (ss SpanSet[T]) Spans() []Span[T] {
	out := make([]Span[T], len(ss.spans))
	copy(out, ss.spans)

	return out
}

// SpanN returns the n-th member span, 0-based.
func (ss SpanSet[T]) SpanN(n int) (Span[T], bool) {
	if n < 0 || n >= len(ss.spans) {
		return Span[T]{}, false
	}

	return ss.spans[n], true
}

func (ss SpanSet[T]) StartSpan() (Span[T], bool) {
	return ss.SpanN(0)
}

func (ss SpanSet[T]) EndSpan() (Span[T], bool) {
	return ss.SpanN(len(ss.spans) - 1)
}

// Extent returns the minimal span covering the whole set.
func (ss SpanSet[T]) Extent() (Span[T], bool) {
	if len(ss.spans) == 0 {
		return Span[T]{}, false
	}

	first, last := ss.spans[0], ss.spans[len(ss.spans)-1]

	return Span[T]{
		lower:    first.lower,
		upper:    last.upper,
		lowerInc: first.lowerInc,
		upperInc: last.upperInc,
	}, true
}

// Contains reports whether any member span contains v.
func (ss SpanSet[T]) Contains(v T) bool {
	n := sort.Search(len(ss.spans), func(i int) bool {
		return ss.spans[i].upper >= v
	})

	for ; n < len(ss.spans) && ss.spans[n].lower <= v; n++ {
		if ss.spans[n].Contains(v) {
			return true
		}
	}

	return false
}

// ContainsSpan reports whether some member span fully contains o.
func (ss SpanSet[T]) ContainsSpan(o Span[T]) bool {
	for _, s := range ss.spans {
		if s.ContainsSpan(o) {
			return true
		}

		if s.lower > o.upper {
			break
		}
	}

	return false
}

// OverlapsSpan reports whether any member span shares a point with o.
func (ss SpanSet[T]) OverlapsSpan(o Span[T]) bool {
	for _, s := range ss.spans {
		if s.Overlaps(o) {
			return true
		}

		if s.lower > o.upper {
			break
		}
	}

	return false
}

// Overlaps reports whether the two sets share at least one point.
func (ss SpanSet[T]) Overlaps(o SpanSet[T]) bool {
	i, j := 0, 0

	for i < len(ss.spans) && j < len(o.spans) {
		if ss.spans[i].Overlaps(o.spans[j]) {
			return true
		}

		if ss.spans[i].upper < o.spans[j].upper {
			i++
		} else {
			j++
		}
	}

	return false
}

// Intersection returns the normalized set of pairwise intersections. The
// result is empty when the sets are disjoint.
func (ss SpanSet[T]) Intersection(o SpanSet[T]) SpanSet[T] {
	var parts []Span[T]

	i, j := 0, 0

	for i < len(ss.spans) && j < len(o.spans) {
		if p, ok := ss.spans[i].Intersection(o.spans[j]); ok {
			parts = append(parts, p)
		}

		if ss.spans[i].upper < o.spans[j].upper {
			i++
		} else {
			j++
		}
	}

	return NewSpanSet(parts...)
}

// IntersectionSpan restricts the set to the given span.
func (ss SpanSet[T]) IntersectionSpan(o Span[T]) SpanSet[T] {
	return ss.Intersection(o.ToSpanSet())
}

// Union returns the normalized union of both sets.
func (ss SpanSet[T]) Union(o SpanSet[T]) SpanSet[T] {
	all := make([]Span[T], 0, len(ss.spans)+len(o.spans))
	all = append(all, ss.spans...)
	all = append(all, o.spans...)

	return NewSpanSet(all...)
}

// UnionSpan adds a single span to the set.
func (ss SpanSet[T]) UnionSpan(o Span[T]) SpanSet[T] {
	return ss.Union(o.ToSpanSet())
}

// Minus returns the points of ss not covered by o, as a normalized set.
func (ss SpanSet[T]) Minus(o SpanSet[T]) SpanSet[T] {
	var parts []Span[T]

	for _, s := range ss.spans {
		remainder := []Span[T]{s}

		for _, cut := range o.spans {
			var next []Span[T]

			for _, r := range remainder {
				next = append(next, subtract(r, cut)...)
			}

			remainder = next
		}

		parts = append(parts, remainder...)
	}

	return NewSpanSet(parts...)
}

// subtract returns the at most two pieces of s not covered by cut.
func subtract[T Scalar](s, cut Span[T]) []Span[T] {
	if !s.Overlaps(cut) {
		return []Span[T]{s}
	}

	var out []Span[T]

	if s.lower < cut.lower || (s.lower == cut.lower && s.lowerInc && !cut.lowerInc) {
		if left, err := New(s.lower, cut.lower, s.lowerInc, !cut.lowerInc); err == nil {
			out = append(out, left)
		}
	}

	if cut.upper < s.upper || (cut.upper == s.upper && s.upperInc && !cut.upperInc) {
		if right, err := New(cut.upper, s.upper, !cut.upperInc, s.upperInc); err == nil {
			out = append(out, right)
		}
	}

	return out
}

// Width returns the summed width of the member spans when ignoreGaps is
// true, otherwise the distance from the first lower bound to the last
// upper bound.
func (ss SpanSet[T]) Width(ignoreGaps bool) T {
	if len(ss.spans) == 0 {
		return 0
	}

	if !ignoreGaps {
		return ss.spans[len(ss.spans)-1].upper - ss.spans[0].lower
	}

	var total T

	for _, s := range ss.spans {
		total += s.Width()
	}

	return total
}

// Shift returns a copy of the set with every span shifted by delta.
func (ss SpanSet[T]) Shift(delta T) SpanSet[T] {
	out := make([]Span[T], len(ss.spans))

	for i, s := range ss.spans {
		out[i] = s.Shift(delta)
	}

	return SpanSet[T]{spans: out}
}

// Scale returns a copy of the set rescaled so that the extent width is
// width, anchored on the extent start. Member bounds move proportionally.
func (ss SpanSet[T]) Scale(width T) (SpanSet[T], error) {
	if width < 0 {
		return SpanSet[T]{}, ErrInvalidSpan
	}

	if len(ss.spans) == 0 {
		return SpanSet[T]{}, nil
	}

	start := ss.spans[0].lower
	old := ss.spans[len(ss.spans)-1].upper - start

	if old == 0 {
		return ss, nil
	}

	factor := float64(width) / float64(old)

	out := make([]Span[T], len(ss.spans))

	for i, s := range ss.spans {
		out[i] = Span[T]{
			lower:    start + T(float64(s.lower-start)*factor),
			upper:    start + T(float64(s.upper-start)*factor),
			lowerInc: s.lowerInc,
			upperInc: s.upperInc,
		}
	}

	return NewSpanSet(out...), nil
}

// ShiftScale shifts the set by delta, then rescales it to width.
func (ss SpanSet[T]) ShiftScale(delta, width T) (SpanSet[T], error) {
	return ss.Shift(delta).Scale(width)
}

// IsLeft and friends compare the extents of the two sets.

func (ss SpanSet[T]) IsLeft(o SpanSet[T]) bool {
	a, ok1 := ss.Extent()
	b, ok2 := o.Extent()

	return ok1 && ok2 && a.IsLeft(b)
}

func (ss SpanSet[T]) IsRight(o SpanSet[T]) bool {
	a, ok1 := ss.Extent()
	b, ok2 := o.Extent()

	return ok1 && ok2 && a.IsRight(b)
}

func (ss SpanSet[T]) IsOverOrLeft(o SpanSet[T]) bool {
	a, ok1 := ss.Extent()
	b, ok2 := o.Extent()

	return ok1 && ok2 && a.IsOverOrLeft(b)
}

func (ss SpanSet[T]) IsOverOrRight(o SpanSet[T]) bool {
	a, ok1 := ss.Extent()
	b, ok2 := o.Extent()

	return ok1 && ok2 && a.IsOverOrRight(b)
}

// DistanceToValue returns the minimum distance from any member span to v.
func (ss SpanSet[T]) DistanceToValue(v T) T {
	var best T

	for i, s := range ss.spans {
		d := s.DistanceToValue(v)
		if i == 0 || d < best {
			best = d
		}
	}

	return best
}

// DistanceToSpan returns the minimum distance from any member span to o.
func (ss SpanSet[T]) DistanceToSpan(o Span[T]) T {
	var best T

	for i, s := range ss.spans {
		d := s.DistanceToSpan(o)
		if i == 0 || d < best {
			best = d
		}
	}

	return best
}

// DistanceToSpanSet returns the minimum distance between members of the
// two sets.
func (ss SpanSet[T]) DistanceToSpanSet(o SpanSet[T]) T {
	var best T

	for i, s := range o.spans {
		d := ss.DistanceToSpan(s)
		if i == 0 || d < best {
			best = d
		}
	}

	return best
}

// Equal reports structural equality of the normalized sets.
func (ss SpanSet[T]) Equal(o SpanSet[T]) bool {
	if len(ss.spans) != len(o.spans) {
		return false
	}

	for i := range ss.spans {
		if ss.spans[i] != o.spans[i] {
			return false
		}
	}

	return true
}

func (ss SpanSet[T]) String() string {
	var sb strings.Builder

	sb.WriteByte('{')

	for i, s := range ss.spans {
		if i > 0 {
			sb.WriteString(", ")
		}

		sb.WriteString(s.String())
	}

	sb.WriteByte('}')

	return sb.String()
}
