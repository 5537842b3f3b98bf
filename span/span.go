package span

import (
	"fmt"
	"strconv"
)

// Scalar is the set of ordered domains a span can range over. Timestamps
// participate through any defined type whose underlying type is int64.
type Scalar interface {
	~int64 | ~float64
}

// A Span is an immutable interval over an ordered scalar domain, with
// explicit bound inclusivity. The zero value is not a valid span; use New.
type Span[T Scalar] struct {
	lower    T
	upper    T
	lowerInc bool
	upperInc bool
}

// New creates a span from its bounds and inclusivity flags. It fails with
// ErrInvalidSpan if lower > upper, or if lower == upper with a non-inclusive
// bound.
func New[T Scalar](lower, upper T, lowerInc, upperInc bool) (Span[T], error) {
	if lower > upper {
		return Span[T]{}, ErrInvalidSpan
	}

	if lower == upper && (!lowerInc || !upperInc) {
		return Span[T]{}, ErrInvalidSpan
	}

	return Span[T]{
		lower:    lower,
		upper:    upper,
		lowerInc: lowerInc,
		upperInc: upperInc,
	}, nil
}

// NewClosedOpen creates a span of the form [lower, upper).
func NewClosedOpen[T Scalar](lower, upper T) (Span[T], error) {
	return New(lower, upper, true, false)
}

// NewInstant creates the degenerate span [v, v].
func NewInstant[T Scalar](v T) Span[T] {
	return Span[T]{lower: v, upper: v, lowerInc: true, upperInc: true}
}

func (s Span[T]) Lower() T {
	return s.lower
}

func (s Span[T]) Upper() T {
	return s.upper
}

func (s Span[T]) IsLowerInclusive() bool {
	return s.lowerInc
}

func (s Span[T]) IsUpperInclusive() bool {
	return s.upperInc
}

// Width returns upper - lower, in the units of the domain.
func (s Span[T]) Width() T {
	return s.upper - s.lower
}

// IsValid reports whether s satisfies the span invariant. Only the zero
// value or hand-built literals can be invalid; New never returns one.
func (s Span[T]) IsValid() bool {
	if s.lower > s.upper {
		return false
	}

	return s.lower != s.upper || (s.lowerInc && s.upperInc)
}

// Contains reports whether v lies inside the span, honoring inclusivity.
func (s Span[T]) Contains(v T) bool {
	if v < s.lower || v > s.upper {
		return false
	}

	if v == s.lower && !s.lowerInc {
		return false
	}

	if v == s.upper && !s.upperInc {
		return false
	}

	return true
}

// ContainsSpan reports whether every point of o lies inside s.
func (s Span[T]) ContainsSpan(o Span[T]) bool {
	if s.lower > o.lower || (s.lower == o.lower && !s.lowerInc && o.lowerInc) {
		return false
	}

	if s.upper < o.upper || (s.upper == o.upper && !s.upperInc && o.upperInc) {
		return false
	}

	return true
}

// Overlaps reports whether s and o share at least one point.
func (s Span[T]) Overlaps(o Span[T]) bool {
	if s.lower > o.upper || (s.lower == o.upper && !(s.lowerInc && o.upperInc)) {
		return false
	}

	if o.lower > s.upper || (o.lower == s.upper && !(o.lowerInc && s.upperInc)) {
		return false
	}

	return true
}

// IsLeft reports whether s lies strictly before o.
func (s Span[T]) IsLeft(o Span[T]) bool {
	return s.upper < o.lower || (s.upper == o.lower && !(s.upperInc && o.lowerInc))
}

// IsRight reports whether s lies strictly after o.
func (s Span[T]) IsRight(o Span[T]) bool {
	return o.IsLeft(s)
}

// IsOverOrLeft reports whether s does not extend to the right of o.
func (s Span[T]) IsOverOrLeft(o Span[T]) bool {
	return s.upper < o.upper || (s.upper == o.upper && (o.upperInc || !s.upperInc))
}

// IsOverOrRight reports whether s does not extend to the left of o.
func (s Span[T]) IsOverOrRight(o Span[T]) bool {
	return s.lower > o.lower || (s.lower == o.lower && (o.lowerInc || !s.lowerInc))
}

// IsAdjacent reports whether the spans touch at a bound with complementary
// inclusivity, e.g. [a,b) and [b,c).
func (s Span[T]) IsAdjacent(o Span[T]) bool {
	if s.upper == o.lower && s.upperInc != o.lowerInc {
		return true
	}

	return o.upper == s.lower && o.upperInc != s.lowerInc
}

// Intersection returns the common sub-span of s and o. The second return
// value is false when the spans are disjoint.
func (s Span[T]) Intersection(o Span[T]) (Span[T], bool) {
	if !s.Overlaps(o) {
		return Span[T]{}, false
	}

	r := s

	if o.lower > r.lower {
		r.lower, r.lowerInc = o.lower, o.lowerInc
	} else if o.lower == r.lower {
		r.lowerInc = r.lowerInc && o.lowerInc
	}

	if o.upper < r.upper {
		r.upper, r.upperInc = o.upper, o.upperInc
	} else if o.upper == r.upper {
		r.upperInc = r.upperInc && o.upperInc
	}

	return r, true
}

// merge returns the contiguous union of s and o. The second return value is
// false when the spans neither overlap nor are adjacent.
func (s Span[T]) merge(o Span[T]) (Span[T], bool) {
	if !s.Overlaps(o) && !s.IsAdjacent(o) {
		return Span[T]{}, false
	}

	r := s

	if o.lower < r.lower {
		r.lower, r.lowerInc = o.lower, o.lowerInc
	} else if o.lower == r.lower {
		r.lowerInc = r.lowerInc || o.lowerInc
	}

	if o.upper > r.upper {
		r.upper, r.upperInc = o.upper, o.upperInc
	} else if o.upper == r.upper {
		r.upperInc = r.upperInc || o.upperInc
	}

	return r, true
}

// Union returns the union of s and o as a span set. When strict is true the
// operation fails if the result would not be one contiguous span.
func (s Span[T]) Union(o Span[T], strict bool) (SpanSet[T], bool) {
	if m, ok := s.merge(o); ok {
		return SpanSet[T]{spans: []Span[T]{m}}, true
	}

	if strict {
		return SpanSet[T]{}, false
	}

	return NewSpanSet(s, o), true
}

// Shift returns a copy of s with both bounds shifted by delta.
func (s Span[T]) Shift(delta T) Span[T] {
	s.lower += delta
	s.upper += delta

	return s
}

// Scale returns a copy of s stretched so that its width is width, keeping
// the lower bound and the inclusivity flags.
func (s Span[T]) Scale(width T) (Span[T], error) {
	if width < 0 {
		return Span[T]{}, ErrInvalidSpan
	}

	return New(s.lower, s.lower+width, s.lowerInc, s.upperInc)
}

// ShiftScale returns a copy of s with its midpoint shifted by delta and its
// width set to width, anchored on the midpoint. Inclusivity is preserved.
func (s Span[T]) ShiftScale(delta, width T) (Span[T], error) {
	if width < 0 {
		return Span[T]{}, ErrInvalidSpan
	}

	mid := (s.lower+s.upper)/2 + delta
	half := width / 2

	return New(mid-half, mid-half+width, s.lowerInc, s.upperInc)
}

// DistanceToValue returns the distance from the span to v, 0 if contained.
func (s Span[T]) DistanceToValue(v T) T {
	if v < s.lower {
		return s.lower - v
	}

	if v > s.upper {
		return v - s.upper
	}

	return 0
}

// DistanceToSpan returns the distance between the closest points of s and o,
// 0 if they overlap or touch.
func (s Span[T]) DistanceToSpan(o Span[T]) T {
	if s.Overlaps(o) {
		return 0
	}

	if s.IsLeft(o) {
		return o.lower - s.upper
	}

	return s.lower - o.upper
}

// Compare orders spans lexicographically: lower bound first (an exclusive
// lower bound sorts after an inclusive one at the same value), then upper
// bound, then upper inclusivity.
func (s Span[T]) Compare(o Span[T]) int {
	if s.lower != o.lower {
		if s.lower < o.lower {
			return -1
		}

		return 1
	}

	if s.lowerInc != o.lowerInc {
		if s.lowerInc {
			return -1
		}

		return 1
	}

	if s.upper != o.upper {
		if s.upper < o.upper {
			return -1
		}

		return 1
	}

	if s.upperInc != o.upperInc {
		if o.upperInc {
			return -1
		}

		return 1
	}

	return 0
}

// Equal reports structural equality: same bounds and same inclusivity.
func (s Span[T]) Equal(o Span[T]) bool {
	return s == o
}

// ToSpanSet promotes the span to a single-member span set.
func (s Span[T]) ToSpanSet() SpanSet[T] {
	return SpanSet[T]{spans: []Span[T]{s}}
}

func (s Span[T]) String() string {
	lb, rb := "(", ")"
	if s.lowerInc {
		lb = "["
	}

	if s.upperInc {
		rb = "]"
	}

	return lb + formatScalar(s.lower) + ", " + formatScalar(s.upper) + rb
}

func formatScalar[T Scalar](v T) string {
	switch x := any(v).(type) {
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	case int64:
		return strconv.FormatInt(x, 10)
	default:
		if str, ok := any(v).(fmt.Stringer); ok {
			return str.String()
		}

		return fmt.Sprint(v)
	}
}
