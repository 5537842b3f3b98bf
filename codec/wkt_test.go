package codec

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sgostarter/libtemporal/temporal"
)

func TestParseSpanRoundTrip(t *testing.T) {
	sp, err := ParseSpan[float64]("[17.5, 18.5)")
	require.Nil(t, err)
	assert.EqualValues(t, 17.5, sp.Lower())
	assert.EqualValues(t, 18.5, sp.Upper())
	assert.True(t, sp.IsLowerInclusive())
	assert.False(t, sp.IsUpperInclusive())

	back, err := ParseSpan[float64](sp.String())
	require.Nil(t, err)
	assert.True(t, sp.Equal(back))

	isp, err := ParseSpan[int64]("(3, 9]")
	require.Nil(t, err)
	assert.Equal(t, "(3, 9]", isp.String())
}

func TestParseTimeSpan(t *testing.T) {
	sp, err := ParseSpan[temporal.Timestamp]("[2000-01-01, 2000-01-02)")
	require.Nil(t, err)

	want, _ := temporal.ParseTimestamp("2000-01-01")
	assert.Equal(t, want, sp.Lower())

	back, err := ParseSpan[temporal.Timestamp](sp.String())
	require.Nil(t, err)
	assert.True(t, sp.Equal(back))
}

func TestParseSpanErrors(t *testing.T) {
	_, err := ParseSpan[float64]("17.5, 18.5")
	assertParseError(t, err, formatWKT)

	_, err = ParseSpan[float64]("[18.5, 17.5)")
	assertParseError(t, err, formatWKT)

	_, err = ParseSpan[float64]("[a, b)")
	assertParseError(t, err, formatWKT)
}

func assertParseError(t *testing.T, err error, format string) {
	t.Helper()

	require.NotNil(t, err)

	pe, ok := err.(*ParseError)
	require.True(t, ok)
	assert.Equal(t, format, pe.Format)
}

func TestParseSpanSetRoundTrip(t *testing.T) {
	ss, err := ParseSpanSet[float64]("{[17.5, 18.5), [19.5, 20.5)}")
	require.Nil(t, err)
	assert.Equal(t, 2, ss.NumSpans())

	back, err := ParseSpanSet[float64](ss.String())
	require.Nil(t, err)
	assert.True(t, ss.Equal(back))

	empty, err := ParseSpanSet[float64]("{}")
	require.Nil(t, err)
	assert.True(t, empty.IsEmpty())
}

func TestParseInstantRoundTrip(t *testing.T) {
	in, err := ParseInstant[temporal.Float]("2.5@2000-01-01 12:00:00+00")
	require.Nil(t, err)
	assert.EqualValues(t, 2.5, in.Value())

	back, err := ParseInstant[temporal.Float](in.String())
	require.Nil(t, err)
	assert.True(t, in.Equal(back))

	pin, err := ParseInstant[temporal.Point]("POINT(1.5 -2)@2000-01-01")
	require.Nil(t, err)
	assert.True(t, pin.Value().Equal(temporal.Point{X: 1.5, Y: -2}))

	_, err = ParseInstant[temporal.Float]("no timestamp here")
	assertParseError(t, err, formatWKT)
}

func TestParsePointSequenceScenario(t *testing.T) {
	seq, err := ParseSequence[temporal.Point]("[POINT(1 1)@2000-01-01, POINT(2 2)@2000-01-02]")
	require.Nil(t, err)

	assert.Equal(t, temporal.InterpLinear, seq.Interpolation())
	assert.Equal(t, 2, seq.NumInstants())

	box := seq.BoundingBox()
	lo, _ := temporal.ParseTimestamp("2000-01-01")
	hi, _ := temporal.ParseTimestamp("2000-01-02")
	assert.Equal(t, lo, box.Lower())
	assert.Equal(t, hi, box.Upper())

	assert.InDelta(t, math.Sqrt2, seq.Length(), 1e-12)
}

func TestParseDiscreteSequenceScenario(t *testing.T) {
	seq, err := ParseSequence[temporal.Point]("{POINT(1 1)@2000-01-01, POINT(2 2)@2000-01-02}")
	require.Nil(t, err)

	assert.Equal(t, temporal.InterpDiscrete, seq.Interpolation())

	mid, _ := temporal.ParseTimestamp("2000-01-01T12:00:00")
	_, err = seq.ValueAt(mid)
	assert.ErrorIs(t, err, temporal.ErrNoValueAtTimestamp)
}

func TestParseStepSequence(t *testing.T) {
	seq, err := ParseSequence[temporal.Int]("Interp=Step;[1@2000-01-01, 2@2000-01-02]")
	require.Nil(t, err)
	assert.Equal(t, temporal.InterpStep, seq.Interpolation())
	assert.True(t, seq.IsUpperInclusive())

	back, err := ParseSequence[temporal.Int](seq.String())
	require.Nil(t, err)
	assert.True(t, seq.Equal(back))

	// discrete marker over a bracket body conflicts
	_, err = ParseSequence[temporal.Int]("Interp=Discrete;[1@2000-01-01, 2@2000-01-02]")
	assertParseError(t, err, formatWKT)
}

func TestSequenceTextRoundTrip(t *testing.T) {
	inputs := []string{
		"[POINT(1 1)@2000-01-01, POINT(2 2)@2000-01-02)",
		"(0.5@2000-01-01, 2.25@2000-01-02]",
		"Interp=Step;[t@2000-01-01, f@2000-01-02]",
	}

	seq0, err := ParseSequence[temporal.Point](inputs[0])
	require.Nil(t, err)
	back0, err := ParseSequence[temporal.Point](seq0.String())
	require.Nil(t, err)
	assert.True(t, seq0.Equal(back0))

	seq1, err := ParseSequence[temporal.Float](inputs[1])
	require.Nil(t, err)
	back1, err := ParseSequence[temporal.Float](seq1.String())
	require.Nil(t, err)
	assert.True(t, seq1.Equal(back1))

	seq2, err := ParseSequence[temporal.Bool](inputs[2])
	require.Nil(t, err)
	back2, err := ParseSequence[temporal.Bool](seq2.String())
	require.Nil(t, err)
	assert.True(t, seq2.Equal(back2))
}

func TestParseSequenceSet(t *testing.T) {
	ss, err := ParseSequenceSet[temporal.Float]("{[1@2000-01-01, 2@2000-01-02), [5@2000-01-03, 6@2000-01-04)}")
	require.Nil(t, err)
	assert.Equal(t, 2, ss.NumSequences())
	assert.Equal(t, temporal.InterpLinear, ss.Interpolation())

	back, err := ParseSequenceSet[temporal.Float](ss.String())
	require.Nil(t, err)
	assert.True(t, ss.Equal(back))

	step, err := ParseSequenceSet[temporal.Text](`Interp=Step;{["a"@2000-01-01, "b"@2000-01-02), ["c"@2000-01-03, "d"@2000-01-04)}`)
	require.Nil(t, err)
	assert.Equal(t, temporal.InterpStep, step.Interpolation())

	empty, err := ParseSequenceSet[temporal.Float]("{}")
	require.Nil(t, err)
	assert.True(t, empty.IsEmpty())
}

func TestParseSequenceSetRejectsOverlap(t *testing.T) {
	_, err := ParseSequenceSet[temporal.Float]("{[1@2000-01-01, 2@2000-01-03), [5@2000-01-02, 6@2000-01-04)}")
	assert.ErrorIs(t, err, temporal.ErrOverlappingSequences)
}

func TestParseQuotedText(t *testing.T) {
	seq, err := ParseSequence[temporal.Text](`Interp=Step;["hello, world"@2000-01-01, "bye"@2000-01-02]`)
	require.Nil(t, err)
	assert.Equal(t, 2, seq.NumInstants())
	assert.True(t, seq.StartValue().Equal(temporal.Text("hello, world")))
}
