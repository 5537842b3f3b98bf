package temporal

import (
	"strconv"
	"time"

	"github.com/sgostarter/libtemporal/span"
)

// ValueSpan is a span over the numeric value domain.
type ValueSpan = span.Span[float64]

// A TBox bounds a numeric temporal: the closed span of values it takes,
// paired with the time span it covers. The zero value is the empty box.
type TBox struct {
	value ValueSpan
	time  TimeSpan
}

// NewTBox pairs a value extent with a time extent.
func NewTBox(value ValueSpan, t TimeSpan) TBox {
	return TBox{value: value, time: t}
}

func (b TBox) ValueSpan() ValueSpan {
	return b.value
}

func (b TBox) TimeSpan() TimeSpan {
	return b.time
}

func (b TBox) ValueMin() float64 {
	return b.value.Lower()
}

func (b TBox) ValueMax() float64 {
	return b.value.Upper()
}

func (b TBox) TMin() Timestamp {
	return b.time.Lower()
}

func (b TBox) TMax() Timestamp {
	return b.time.Upper()
}

func (b TBox) IsEmpty() bool {
	return !b.value.IsValid() || !b.time.IsValid()
}

// ExpandValue widens the value extent by d on both sides.
func (b TBox) ExpandValue(d float64) TBox {
	v, err := span.New(b.value.Lower()-d, b.value.Upper()+d,
		b.value.IsLowerInclusive(), b.value.IsUpperInclusive())
	if err != nil {
		return b
	}

	b.value = v

	return b
}

// ExpandTime widens the time extent by d on both sides.
func (b TBox) ExpandTime(d time.Duration) TBox {
	delta := Timestamp(d.Microseconds())

	t, err := span.New(b.time.Lower()-delta, b.time.Upper()+delta,
		b.time.IsLowerInclusive(), b.time.IsUpperInclusive())
	if err != nil {
		return b
	}

	b.time = t

	return b
}

// Union returns the smallest box enclosing both operands.
func (b TBox) Union(o TBox) TBox {
	if b.IsEmpty() {
		return o
	}

	if o.IsEmpty() {
		return b
	}

	return TBox{
		value: hullSpan(b.value, o.value),
		time:  hullSpan(b.time, o.time),
	}
}

// Intersection returns the common sub-box. The second return value is
// false when the boxes are disjoint on either axis.
func (b TBox) Intersection(o TBox) (TBox, bool) {
	v, ok := b.value.Intersection(o.value)
	if !ok {
		return TBox{}, false
	}

	t, ok := b.time.Intersection(o.time)
	if !ok {
		return TBox{}, false
	}

	return TBox{value: v, time: t}, true
}

// Contains reports whether the point (v, t) lies inside the box.
func (b TBox) Contains(v float64, t Timestamp) bool {
	return b.value.Contains(v) && b.time.Contains(t)
}

// ContainsBox reports whether every point of o lies inside b.
func (b TBox) ContainsBox(o TBox) bool {
	return b.value.ContainsSpan(o.value) && b.time.ContainsSpan(o.time)
}

func (b TBox) Equal(o TBox) bool {
	return b.value.Equal(o.value) && b.time.Equal(o.time)
}

func (b TBox) String() string {
	return "TBOX XT(" + b.value.String() + "," + b.time.String() + ")"
}

// An STBox bounds a point temporal: the planar extent of its positions,
// paired with the time span it covers. The zero value is the empty box.
type STBox struct {
	x    ValueSpan
	y    ValueSpan
	time TimeSpan
}

// NewSTBox pairs a planar extent with a time extent.
func NewSTBox(x, y ValueSpan, t TimeSpan) STBox {
	return STBox{x: x, y: y, time: t}
}

func (b STBox) XSpan() ValueSpan {
	return b.x
}

func (b STBox) YSpan() ValueSpan {
	return b.y
}

func (b STBox) TimeSpan() TimeSpan {
	return b.time
}

func (b STBox) XMin() float64 {
	return b.x.Lower()
}

func (b STBox) XMax() float64 {
	return b.x.Upper()
}

func (b STBox) YMin() float64 {
	return b.y.Lower()
}

func (b STBox) YMax() float64 {
	return b.y.Upper()
}

func (b STBox) TMin() Timestamp {
	return b.time.Lower()
}

func (b STBox) TMax() Timestamp {
	return b.time.Upper()
}

func (b STBox) IsEmpty() bool {
	return !b.x.IsValid() || !b.y.IsValid() || !b.time.IsValid()
}

// ExpandSpace widens both planar extents by d on every side.
func (b STBox) ExpandSpace(d float64) STBox {
	x, errX := span.New(b.x.Lower()-d, b.x.Upper()+d,
		b.x.IsLowerInclusive(), b.x.IsUpperInclusive())
	y, errY := span.New(b.y.Lower()-d, b.y.Upper()+d,
		b.y.IsLowerInclusive(), b.y.IsUpperInclusive())

	if errX != nil || errY != nil {
		return b
	}

	b.x, b.y = x, y

	return b
}

// ExpandTime widens the time extent by d on both sides.
func (b STBox) ExpandTime(d time.Duration) STBox {
	delta := Timestamp(d.Microseconds())

	t, err := span.New(b.time.Lower()-delta, b.time.Upper()+delta,
		b.time.IsLowerInclusive(), b.time.IsUpperInclusive())
	if err != nil {
		return b
	}

	b.time = t

	return b
}

// Union returns the smallest box enclosing both operands.
func (b STBox) Union(o STBox) STBox {
	if b.IsEmpty() {
		return o
	}

	if o.IsEmpty() {
		return b
	}

	return STBox{
		x:    hullSpan(b.x, o.x),
		y:    hullSpan(b.y, o.y),
		time: hullSpan(b.time, o.time),
	}
}

// Intersection returns the common sub-box. The second return value is
// false when the boxes are disjoint on any axis.
func (b STBox) Intersection(o STBox) (STBox, bool) {
	x, ok := b.x.Intersection(o.x)
	if !ok {
		return STBox{}, false
	}

	y, ok := b.y.Intersection(o.y)
	if !ok {
		return STBox{}, false
	}

	t, ok := b.time.Intersection(o.time)
	if !ok {
		return STBox{}, false
	}

	return STBox{x: x, y: y, time: t}, true
}

// Contains reports whether the position p at time t lies inside the box.
func (b STBox) Contains(p Point, t Timestamp) bool {
	return b.x.Contains(p.X) && b.y.Contains(p.Y) && b.time.Contains(t)
}

// ContainsBox reports whether every point of o lies inside b.
func (b STBox) ContainsBox(o STBox) bool {
	return b.x.ContainsSpan(o.x) && b.y.ContainsSpan(o.y) && b.time.ContainsSpan(o.time)
}

// NearestDistance returns the planar distance between the closest points
// of the two extents, 0 when they overlap or touch.
func (b STBox) NearestDistance(o STBox) float64 {
	dx := b.x.DistanceToSpan(o.x)
	dy := b.y.DistanceToSpan(o.y)

	return PlanarMetric{}.Distance(Point{}, Point{X: dx, Y: dy})
}

func (b STBox) Equal(o STBox) bool {
	return b.x.Equal(o.x) && b.y.Equal(o.y) && b.time.Equal(o.time)
}

func (b STBox) String() string {
	f := func(v float64) string {
		return strconv.FormatFloat(v, 'g', -1, 64)
	}

	return "STBOX XT(((" + f(b.x.Lower()) + "," + f(b.y.Lower()) + "),(" +
		f(b.x.Upper()) + "," + f(b.y.Upper()) + "))," + b.time.String() + ")"
}

// hullSpan returns the smallest span covering both operands, whether or
// not they overlap.
func hullSpan[T span.Scalar](a, b span.Span[T]) span.Span[T] {
	lo, loInc := a.Lower(), a.IsLowerInclusive()

	switch {
	case b.Lower() < lo:
		lo, loInc = b.Lower(), b.IsLowerInclusive()
	case b.Lower() == lo:
		loInc = loInc || b.IsLowerInclusive()
	}

	hi, hiInc := a.Upper(), a.IsUpperInclusive()

	switch {
	case b.Upper() > hi:
		hi, hiInc = b.Upper(), b.IsUpperInclusive()
	case b.Upper() == hi:
		hiInc = hiInc || b.IsUpperInclusive()
	}

	out, _ := span.New(lo, hi, loInc, hiInc)

	return out
}

// ValueBox returns the bounding box of a numeric instant. The second
// return value is false for non-numeric domains.
func (in Instant[V]) ValueBox() (TBox, bool) {
	v, ok := numericValue(in.val)
	if !ok {
		return TBox{}, false
	}

	return TBox{value: span.NewInstant(v), time: in.BoundingBox()}, true
}

// SpatialBox returns the bounding box of a point instant. The second
// return value is false for non-point domains.
func (in Instant[V]) SpatialBox() (STBox, bool) {
	p, ok := any(in.val).(Point)
	if !ok {
		return STBox{}, false
	}

	return STBox{
		x:    span.NewInstant(p.X),
		y:    span.NewInstant(p.Y),
		time: in.BoundingBox(),
	}, true
}

// ValueBox returns the bounding box of a numeric sequence: the closed
// span of its values paired with its time span. The second return value
// is false for non-numeric domains and empty sequences.
func (s Sequence[V]) ValueBox() (TBox, bool) {
	if len(s.instants) == 0 {
		return TBox{}, false
	}

	minV, _ := s.MinValue()

	lo, ok := numericValue(minV)
	if !ok {
		return TBox{}, false
	}

	maxV, _ := s.MaxValue()
	hi, _ := numericValue(maxV)

	value, err := span.New(lo, hi, true, true)
	if err != nil {
		return TBox{}, false
	}

	return TBox{value: value, time: s.BoundingBox()}, true
}

// SpatialBox returns the bounding box of a point sequence. Linear
// segments never leave the hull of their endpoints, so scanning the
// instants is exact. The second return value is false for non-point
// domains and empty sequences.
func (s Sequence[V]) SpatialBox() (STBox, bool) {
	if len(s.instants) == 0 {
		return STBox{}, false
	}

	p0, ok := any(s.instants[0].val).(Point)
	if !ok {
		return STBox{}, false
	}

	xmin, xmax := p0.X, p0.X
	ymin, ymax := p0.Y, p0.Y

	for _, in := range s.instants[1:] {
		p, _ := any(in.val).(Point)

		if p.X < xmin {
			xmin = p.X
		}

		if p.X > xmax {
			xmax = p.X
		}

		if p.Y < ymin {
			ymin = p.Y
		}

		if p.Y > ymax {
			ymax = p.Y
		}
	}

	x, errX := span.New(xmin, xmax, true, true)
	y, errY := span.New(ymin, ymax, true, true)

	if errX != nil || errY != nil {
		return STBox{}, false
	}

	return STBox{x: x, y: y, time: s.BoundingBox()}, true
}

// ValueBox returns the bounding box enclosing every component sequence.
func (ss SequenceSet[V]) ValueBox() (TBox, bool) {
	var out TBox

	for _, q := range ss.seqs {
		b, ok := q.ValueBox()
		if !ok {
			return TBox{}, false
		}

		out = out.Union(b)
	}

	if out.IsEmpty() {
		return TBox{}, false
	}

	return out, true
}

// SpatialBox returns the bounding box enclosing every component sequence.
func (ss SequenceSet[V]) SpatialBox() (STBox, bool) {
	var out STBox

	for _, q := range ss.seqs {
		b, ok := q.SpatialBox()
		if !ok {
			return STBox{}, false
		}

		out = out.Union(b)
	}

	if out.IsEmpty() {
		return STBox{}, false
	}

	return out, true
}
