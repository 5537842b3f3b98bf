package span

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewSpan(t *testing.T) {
	s, err := New[float64](1, 2, true, false)
	assert.Nil(t, err)
	assert.EqualValues(t, 1, s.Lower())
	assert.EqualValues(t, 2, s.Upper())
	assert.True(t, s.IsLowerInclusive())
	assert.False(t, s.IsUpperInclusive())

	_, err = New[float64](2, 1, true, true)
	assert.ErrorIs(t, err, ErrInvalidSpan)

	_, err = New[float64](1, 1, true, false)
	assert.ErrorIs(t, err, ErrInvalidSpan)

	s, err = New[float64](1, 1, true, true)
	assert.Nil(t, err)
	assert.EqualValues(t, 0, s.Width())
}

func TestSpanContainsBounds(t *testing.T) {
	for _, inc := range [][2]bool{{true, true}, {true, false}, {false, true}, {false, false}} {
		s, err := New[int64](10, 20, inc[0], inc[1])
		assert.Nil(t, err)

		assert.Equal(t, inc[0], s.Contains(10))
		assert.Equal(t, inc[1], s.Contains(20))
		assert.True(t, s.Contains(15))
		assert.False(t, s.Contains(9))
		assert.False(t, s.Contains(21))
	}
}

func TestSpanIntersection(t *testing.T) {
	a, _ := NewClosedOpen[float64](17.5, 18.5)
	b, _ := NewClosedOpen[float64](18.0, 20.0)

	got, ok := a.Intersection(b)
	assert.True(t, ok)

	want, _ := NewClosedOpen[float64](18.0, 18.5)
	assert.True(t, got.Equal(want))

	c, _ := NewClosedOpen[float64](19.0, 20.0)

	_, ok = a.Intersection(c)
	assert.False(t, ok)
}

func TestSpanPositional(t *testing.T) {
	tests := []struct {
		name              string
		a, b              Span[int64]
		left, right       bool
		overLeft, overRgt bool
	}{
		{"disjoint", mustSpan(t, 1, 2, true, false), mustSpan(t, 3, 4, true, false), true, false, true, false},
		{"touching", mustSpan(t, 1, 2, true, false), mustSpan(t, 2, 4, true, false), true, false, true, false},
		{"overlap", mustSpan(t, 1, 3, true, false), mustSpan(t, 2, 4, true, false), false, false, true, false},
		{"after", mustSpan(t, 5, 6, true, false), mustSpan(t, 1, 2, true, false), false, true, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.left, tt.a.IsLeft(tt.b))
			assert.Equal(t, tt.right, tt.a.IsRight(tt.b))
			assert.Equal(t, tt.overLeft, tt.a.IsOverOrLeft(tt.b))
			assert.Equal(t, tt.overRgt, tt.a.IsOverOrRight(tt.b))
		})
	}
}

func mustSpan(t *testing.T, lower, upper int64, lowerInc, upperInc bool) Span[int64] {
	t.Helper()

	s, err := New(lower, upper, lowerInc, upperInc)
	assert.Nil(t, err)

	return s
}

func TestSpanAdjacent(t *testing.T) {
	a, _ := NewClosedOpen[int64](1, 2)
	b, _ := NewClosedOpen[int64](2, 3)

	assert.True(t, a.IsAdjacent(b))
	assert.True(t, b.IsAdjacent(a))

	c, _ := New[int64](2, 3, false, false)
	assert.False(t, a.IsAdjacent(c))

	d, _ := New[int64](1, 2, true, true)
	assert.False(t, d.IsAdjacent(b))
	assert.False(t, a.IsAdjacent(a))
}

func TestSpanUnionStrict(t *testing.T) {
	a, _ := NewClosedOpen[int64](1, 2)
	b, _ := NewClosedOpen[int64](2, 3)
	c, _ := NewClosedOpen[int64](5, 6)

	got, ok := a.Union(b, true)
	assert.True(t, ok)
	assert.Equal(t, 1, got.NumSpans())

	merged, _ := got.StartSpan()
	assert.EqualValues(t, 1, merged.Lower())
	assert.EqualValues(t, 3, merged.Upper())

	_, ok = a.Union(c, true)
	assert.False(t, ok)

	got, ok = a.Union(c, false)
	assert.True(t, ok)
	assert.Equal(t, 2, got.NumSpans())
}

func TestSpanShiftScale(t *testing.T) {
	s, _ := NewClosedOpen[float64](10, 20)

	shifted := s.Shift(5)
	assert.EqualValues(t, 15, shifted.Lower())
	assert.EqualValues(t, 25, shifted.Upper())
	assert.True(t, shifted.IsLowerInclusive())
	assert.False(t, shifted.IsUpperInclusive())

	scaled, err := s.Scale(5)
	assert.Nil(t, err)
	assert.EqualValues(t, 10, scaled.Lower())
	assert.EqualValues(t, 15, scaled.Upper())

	_, err = s.Scale(-1)
	assert.ErrorIs(t, err, ErrInvalidSpan)
}

func TestSpanCompare(t *testing.T) {
	a, _ := New[int64](1, 5, true, false)
	b, _ := New[int64](1, 5, false, false)
	c, _ := New[int64](1, 6, true, false)
	d, _ := New[int64](2, 3, true, false)

	assert.True(t, a.Compare(b) < 0)
	assert.True(t, a.Compare(c) < 0)
	assert.True(t, a.Compare(d) < 0)
	assert.True(t, d.Compare(a) > 0)
	assert.Equal(t, 0, a.Compare(a))
}

func TestSpanString(t *testing.T) {
	a, _ := NewClosedOpen[float64](17.5, 18.5)
	assert.Equal(t, "[17.5, 18.5)", a.String())

	b, _ := New[int64](1, 2, true, true)
	assert.Equal(t, "[1, 2]", b.String())
}
