package span

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func closedOpen(t *testing.T, lower, upper float64) Span[float64] {
	t.Helper()

	s, err := NewClosedOpen(lower, upper)
	require.Nil(t, err)

	return s
}

func TestSpanSetNormalization(t *testing.T) {
	ss := NewSpanSet(
		closedOpen(t, 19.5, 20.5),
		closedOpen(t, 17.5, 18.5),
		closedOpen(t, 18.0, 19.0),
	)

	assert.Equal(t, 2, ss.NumSpans())
	assert.Equal(t, "{[17.5, 19), [19.5, 20.5)}", ss.String())

	again := NewSpanSet(ss.Spans()...)
	assert.True(t, ss.Equal(again))
}

func TestSpanSetUnion(t *testing.T) {
	a := NewSpanSet(closedOpen(t, 17.5, 18.5), closedOpen(t, 19.5, 20.5))
	b := NewSpanSet(closedOpen(t, 19.5, 23.5), closedOpen(t, 45.5, 67.5))

	got := a.Union(b)

	want := NewSpanSet(
		closedOpen(t, 17.5, 18.5),
		closedOpen(t, 19.5, 23.5),
		closedOpen(t, 45.5, 67.5),
	)
	assert.True(t, got.Equal(want))

	// commutative, idempotent
	assert.True(t, b.Union(a).Equal(want))
	assert.True(t, a.Union(a).Equal(a))
}

func TestSpanSetIntersection(t *testing.T) {
	a := NewSpanSet(closedOpen(t, 0, 10), closedOpen(t, 20, 30))
	b := NewSpanSet(closedOpen(t, 5, 25))

	got := a.Intersection(b)
	want := NewSpanSet(closedOpen(t, 5, 10), closedOpen(t, 20, 25))
	assert.True(t, got.Equal(want))
	assert.True(t, b.Intersection(a).Equal(want))

	c := NewSpanSet(closedOpen(t, 100, 200))
	assert.True(t, a.Intersection(c).IsEmpty())
}

func TestSpanSetMinus(t *testing.T) {
	a := NewSpanSet(closedOpen(t, 0, 10))
	b := NewSpanSet(closedOpen(t, 3, 5), closedOpen(t, 7, 20))

	got := a.Minus(b)

	require.Equal(t, 2, got.NumSpans())

	first, _ := got.StartSpan()
	assert.EqualValues(t, 0, first.Lower())
	assert.EqualValues(t, 3, first.Upper())
	assert.True(t, first.IsLowerInclusive())
	assert.False(t, first.IsUpperInclusive())

	second, _ := got.EndSpan()
	assert.EqualValues(t, 5, second.Lower())
	assert.EqualValues(t, 7, second.Upper())
	assert.True(t, second.IsLowerInclusive())
	assert.False(t, second.IsUpperInclusive())
}

func TestSpanSetMinusInner(t *testing.T) {
	a := NewSpanSet(mustSpan(t, 0, 10, true, true))
	cut := NewSpanSet(mustSpan(t, 4, 6, false, false))

	got := a.Minus(cut)
	require.Equal(t, 2, got.NumSpans())

	first, _ := got.StartSpan()
	assert.Equal(t, "[0, 4]", first.String())

	second, _ := got.EndSpan()
	assert.Equal(t, "[6, 10]", second.String())
}

func TestSpanSetContains(t *testing.T) {
	ss := NewSpanSet(closedOpen(t, 0, 1), closedOpen(t, 2, 3))

	assert.True(t, ss.Contains(0))
	assert.True(t, ss.Contains(0.5))
	assert.False(t, ss.Contains(1))
	assert.True(t, ss.Contains(2))
	assert.False(t, ss.Contains(3))
	assert.False(t, ss.Contains(1.5))
}

func TestSpanSetWidth(t *testing.T) {
	ss := NewSpanSet(closedOpen(t, 0, 2), closedOpen(t, 10, 13))

	assert.EqualValues(t, 5, ss.Width(true))
	assert.EqualValues(t, 13, ss.Width(false))
}

func TestSpanSetDistance(t *testing.T) {
	ss := NewSpanSet(closedOpen(t, 0, 1), closedOpen(t, 10, 11))

	assert.EqualValues(t, 0, ss.DistanceToValue(0.5))
	assert.EqualValues(t, 4, ss.DistanceToValue(5))

	other := NewSpanSet(closedOpen(t, 3, 4))
	assert.EqualValues(t, 2, ss.DistanceToSpanSet(other))
}

func TestSpanSetShiftScale(t *testing.T) {
	ss := NewSpanSet(closedOpen(t, 0, 2), closedOpen(t, 4, 6))

	shifted := ss.Shift(10)
	assert.Equal(t, "{[10, 12), [14, 16)}", shifted.String())

	scaled, err := ss.Scale(12)
	assert.Nil(t, err)

	extent, ok := scaled.Extent()
	require.True(t, ok)
	assert.EqualValues(t, 0, extent.Lower())
	assert.EqualValues(t, 12, extent.Upper())
}

func TestSpanSetExtentEmpty(t *testing.T) {
	var ss SpanSet[int64]

	assert.True(t, ss.IsEmpty())

	_, ok := ss.Extent()
	assert.False(t, ok)
}
