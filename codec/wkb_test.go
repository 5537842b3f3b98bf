package codec

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sgostarter/libtemporal/span"
	"github.com/sgostarter/libtemporal/temporal"
)

func TestSpanWKBRoundTrip(t *testing.T) {
	sp, err := span.NewClosedOpen[float64](17.5, 18.5)
	require.Nil(t, err)

	b := EncodeSpanWKB(sp)

	back, err := DecodeSpanWKB[float64](b)
	require.Nil(t, err)
	assert.True(t, sp.Equal(back))

	// domain tag protects against decoding with the wrong scalar type
	_, err = DecodeSpanWKB[int64](b)
	assertParseError(t, err, formatWKB)
}

func TestSpanWKBExtended(t *testing.T) {
	sp, err := span.New[int64](1, 9, true, true)
	require.Nil(t, err)

	plain := EncodeSpanWKB(sp)
	ext := EncodeSpanWKB(sp, ExtendedWKBOption())

	assert.Equal(t, len(plain)+2, len(ext))

	back, err := DecodeSpanWKB[int64](ext)
	require.Nil(t, err)
	assert.True(t, sp.Equal(back))
}

func TestSpanSetWKBRoundTrip(t *testing.T) {
	a, _ := span.NewClosedOpen[float64](17.5, 18.5)
	b, _ := span.NewClosedOpen[float64](19.5, 20.5)
	ss := span.NewSpanSet(a, b)

	back, err := DecodeSpanSetWKB[float64](EncodeSpanSetWKB(ss))
	require.Nil(t, err)
	assert.True(t, ss.Equal(back))
}

func TestInstantWKBRoundTrip(t *testing.T) {
	in := temporal.NewInstant(temporal.Point{X: 1.5, Y: -2.25}, time.Date(2020, 6, 1, 12, 0, 0, 0, time.UTC))

	back, err := DecodeInstantWKB[temporal.Point](EncodeInstantWKB(in))
	require.Nil(t, err)
	assert.True(t, in.Equal(back))

	tin := temporal.NewInstant(temporal.Text("hello"), time.Date(2020, 6, 1, 12, 0, 0, 0, time.UTC))

	tback, err := DecodeInstantWKB[temporal.Text](EncodeInstantWKB(tin))
	require.Nil(t, err)
	assert.True(t, tin.Equal(tback))
}

func TestSequenceWKBRoundTrip(t *testing.T) {
	t0, _ := temporal.ParseTimestamp("2000-01-01")

	seq, err := temporal.NewSequenceWithBounds(temporal.InterpStep, true, false, []temporal.Instant[temporal.Int]{
		temporal.NewInstantAt[temporal.Int](1, t0),
		temporal.NewInstantAt[temporal.Int](2, t0.Add(time.Hour)),
		temporal.NewInstantAt[temporal.Int](3, t0.Add(2*time.Hour)),
	})
	require.Nil(t, err)

	back, err := DecodeSequenceWKB[temporal.Int](EncodeSequenceWKB(seq))
	require.Nil(t, err)
	assert.True(t, seq.Equal(back))
}

func TestSequenceSetWKBRoundTrip(t *testing.T) {
	t0, _ := temporal.ParseTimestamp("2000-01-01")

	a, err := temporal.NewSequence(temporal.InterpLinear, []temporal.Instant[temporal.Float]{
		temporal.NewInstantAt[temporal.Float](1, t0),
		temporal.NewInstantAt[temporal.Float](2, t0.Add(time.Hour)),
	})
	require.Nil(t, err)

	b, err := temporal.NewSequence(temporal.InterpLinear, []temporal.Instant[temporal.Float]{
		temporal.NewInstantAt[temporal.Float](5, t0.Add(3*time.Hour)),
		temporal.NewInstantAt[temporal.Float](6, t0.Add(4*time.Hour)),
	})
	require.Nil(t, err)

	ss, err := temporal.NewSequenceSet([]temporal.Sequence[temporal.Float]{a, b})
	require.Nil(t, err)

	back, err := DecodeSequenceSetWKB[temporal.Float](EncodeSequenceSetWKB(ss))
	require.Nil(t, err)
	assert.True(t, ss.Equal(back))
}

func TestWKBDecodeDispatch(t *testing.T) {
	sp, _ := span.NewClosedOpen[float64](1, 2)

	v, err := Decode(EncodeSpanWKB(sp))
	require.Nil(t, err)

	got, ok := v.(span.Span[float64])
	require.True(t, ok)
	assert.True(t, sp.Equal(got))

	t0, _ := temporal.ParseTimestamp("2000-01-01")

	seq, err := temporal.NewSequence(temporal.InterpLinear, []temporal.Instant[temporal.Float]{
		temporal.NewInstantAt[temporal.Float](1, t0),
		temporal.NewInstantAt[temporal.Float](2, t0.Add(time.Hour)),
	})
	require.Nil(t, err)

	v, err = Decode(EncodeSequenceWKB(seq))
	require.Nil(t, err)

	gotSeq, ok := v.(temporal.Sequence[temporal.Float])
	require.True(t, ok)
	assert.True(t, seq.Equal(gotSeq))
}

func TestWKBTruncatedInput(t *testing.T) {
	sp, _ := span.NewClosedOpen[float64](1, 2)
	b := EncodeSpanWKB(sp)

	for _, n := range []int{0, 1, 4, 8, len(b) - 1} {
		_, err := DecodeSpanWKB[float64](b[:n])
		assertParseError(t, err, formatWKB)
	}
}

func TestWKBHex(t *testing.T) {
	sp, _ := span.NewClosedOpen[temporal.Timestamp](0, 1000000)
	b := EncodeSpanWKB(sp)

	h := ToHex(b)

	back, err := FromHex(h)
	require.Nil(t, err)
	assert.Equal(t, b, back)

	_, err = FromHex("zz")
	assertParseError(t, err, formatWKB)

	decoded, err := DecodeSpanWKB[temporal.Timestamp](back)
	require.Nil(t, err)
	assert.True(t, sp.Equal(decoded))
}
