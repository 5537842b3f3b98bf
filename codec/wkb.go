package codec

import (
	"encoding/binary"
	"encoding/hex"
	"math"

	"github.com/sgostarter/libtemporal/span"
	"github.com/sgostarter/libtemporal/temporal"
)

// Binary layout: [type:u8][interp:u8][domain:u8][flags:u8][count:u32]
// followed by the packed elements, all multi-byte integers little-endian.
// The extended variant prefixes [0xFF][version].
const (
	wkbTagSpan byte = iota + 1
	wkbTagSpanSet
	wkbTagInstant
	wkbTagSequence
	wkbTagSequenceSet
)

const (
	wkbDomBool byte = iota + 1
	wkbDomInt
	wkbDomFloat
	wkbDomText
	wkbDomPoint
	wkbDomTimestamp
)

const (
	wkbFlagLowerInc byte = 1 << iota
	wkbFlagUpperInc
)

const (
	wkbExtendedMarker byte = 0xFF
	wkbVersion        byte = 1
)

// ToHex renders binary output as a hexadecimal string.
func ToHex(b []byte) string {
	return hex.EncodeToString(b)
}

// FromHex decodes a hexadecimal rendering back to bytes.
func FromHex(s string) ([]byte, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, parseErr(formatWKB, 0, "invalid hex encoding")
	}

	return b, nil
}

type wkbWriter struct {
	buf []byte
}

func (w *wkbWriter) u8(v byte) {
	w.buf = append(w.buf, v)
}

func (w *wkbWriter) u32(v uint32) {
	var b [4]byte

	binary.LittleEndian.PutUint32(b[:], v)
	w.buf = append(w.buf, b[:]...)
}

func (w *wkbWriter) i64(v int64) {
	var b [8]byte

	binary.LittleEndian.PutUint64(b[:], uint64(v))
	w.buf = append(w.buf, b[:]...)
}

func (w *wkbWriter) f64(v float64) {
	var b [8]byte

	binary.LittleEndian.PutUint64(b[:], math.Float64bits(v))
	w.buf = append(w.buf, b[:]...)
}

func (w *wkbWriter) header(tag, interp, domain, flags byte, count int, opts *Options) {
	if opts.extended {
		w.u8(wkbExtendedMarker)
		w.u8(wkbVersion)
	}

	w.u8(tag)
	w.u8(interp)
	w.u8(domain)
	w.u8(flags)
	w.u32(uint32(count))
}

type wkbReader struct {
	buf []byte
	pos int
}

func (r *wkbReader) u8() (byte, error) {
	if r.pos >= len(r.buf) {
		return 0, parseErr(formatWKB, r.pos, "truncated input")
	}

	v := r.buf[r.pos]
	r.pos++

	return v, nil
}

func (r *wkbReader) u32() (uint32, error) {
	if r.pos+4 > len(r.buf) {
		return 0, parseErr(formatWKB, r.pos, "truncated input")
	}

	v := binary.LittleEndian.Uint32(r.buf[r.pos:])
	r.pos += 4

	return v, nil
}

func (r *wkbReader) i64() (int64, error) {
	if r.pos+8 > len(r.buf) {
		return 0, parseErr(formatWKB, r.pos, "truncated input")
	}

	v := int64(binary.LittleEndian.Uint64(r.buf[r.pos:]))
	r.pos += 8

	return v, nil
}

func (r *wkbReader) f64() (float64, error) {
	if r.pos+8 > len(r.buf) {
		return 0, parseErr(formatWKB, r.pos, "truncated input")
	}

	v := math.Float64frombits(binary.LittleEndian.Uint64(r.buf[r.pos:]))
	r.pos += 8

	return v, nil
}

func (r *wkbReader) bytes(n int) ([]byte, error) {
	if n < 0 || r.pos+n > len(r.buf) {
		return nil, parseErr(formatWKB, r.pos, "truncated input")
	}

	b := r.buf[r.pos : r.pos+n]
	r.pos += n

	return b, nil
}

// header reads the fixed preamble, transparently handling the extended
// variant, and verifies the type tag.
func (r *wkbReader) header(wantTag byte) (interp, domain, flags byte, count int, err error) {
	tag, err := r.u8()
	if err != nil {
		return
	}

	if tag == wkbExtendedMarker {
		var ver byte

		ver, err = r.u8()
		if err != nil {
			return
		}

		if ver != wkbVersion {
			err = parseErr(formatWKB, r.pos-1, "unsupported version")

			return
		}

		tag, err = r.u8()
		if err != nil {
			return
		}
	}

	if tag != wantTag {
		err = parseErr(formatWKB, 0, "unexpected type tag")

		return
	}

	if interp, err = r.u8(); err != nil {
		return
	}

	if domain, err = r.u8(); err != nil {
		return
	}

	if flags, err = r.u8(); err != nil {
		return
	}

	n, err := r.u32()
	if err != nil {
		return
	}

	count = int(n)

	return
}

func scalarDomainTag[T span.Scalar]() byte {
	var zero T

	switch any(zero).(type) {
	case float64:
		return wkbDomFloat
	case temporal.Timestamp:
		return wkbDomTimestamp
	default:
		return wkbDomInt
	}
}

func valueDomainTag[V temporal.Value]() byte {
	var zero V

	switch zero.Domain() {
	case temporal.DomainBool:
		return wkbDomBool
	case temporal.DomainInt:
		return wkbDomInt
	case temporal.DomainFloat:
		return wkbDomFloat
	case temporal.DomainText:
		return wkbDomText
	default:
		return wkbDomPoint
	}
}

func writeScalar[T span.Scalar](w *wkbWriter, v T) {
	switch any(v).(type) {
	case float64:
		w.f64(float64(v))
	default:
		w.i64(int64(v))
	}
}

func readScalar[T span.Scalar](r *wkbReader) (T, error) {
	var zero T

	if _, ok := any(zero).(float64); ok {
		f, err := r.f64()

		return T(f), err
	}

	i, err := r.i64()

	return T(i), err
}

func writeValue[V temporal.Value](w *wkbWriter, v V) {
	switch x := any(v).(type) {
	case temporal.Bool:
		if x {
			w.u8(1)
		} else {
			w.u8(0)
		}
	case temporal.Int:
		w.i64(int64(x))
	case temporal.Float:
		w.f64(float64(x))
	case temporal.Text:
		w.u32(uint32(len(x)))
		w.buf = append(w.buf, x...)
	case temporal.Point:
		w.f64(x.X)
		w.f64(x.Y)
	}
}

func readValue[V temporal.Value](r *wkbReader) (V, error) {
	var zero V

	switch zero.Domain() {
	case temporal.DomainBool:
		b, err := r.u8()
		if err != nil {
			return zero, err
		}

		return any(temporal.Bool(b != 0)).(V), nil
	case temporal.DomainInt:
		i, err := r.i64()
		if err != nil {
			return zero, err
		}

		return any(temporal.Int(i)).(V), nil
	case temporal.DomainFloat:
		f, err := r.f64()
		if err != nil {
			return zero, err
		}

		return any(temporal.Float(f)).(V), nil
	case temporal.DomainText:
		n, err := r.u32()
		if err != nil {
			return zero, err
		}

		b, err := r.bytes(int(n))
		if err != nil {
			return zero, err
		}

		return any(temporal.Text(b)).(V), nil
	default:
		x, err := r.f64()
		if err != nil {
			return zero, err
		}

		y, err := r.f64()
		if err != nil {
			return zero, err
		}

		return any(temporal.Point{X: x, Y: y}).(V), nil
	}
}

func boundFlags(lowerInc, upperInc bool) byte {
	var f byte

	if lowerInc {
		f |= wkbFlagLowerInc
	}

	if upperInc {
		f |= wkbFlagUpperInc
	}

	return f
}

// EncodeSpanWKB renders a span in the binary form.
func EncodeSpanWKB[T span.Scalar](s span.Span[T], option ...Option) []byte {
	opts := optionNew(option...)

	var w wkbWriter

	w.header(wkbTagSpan, 0, scalarDomainTag[T](), boundFlags(s.IsLowerInclusive(), s.IsUpperInclusive()), 1, opts)
	writeScalar(&w, s.Lower())
	writeScalar(&w, s.Upper())

	return w.buf
}

// DecodeSpanWKB parses the binary form of a span, verifying the embedded
// domain tag against T.
func DecodeSpanWKB[T span.Scalar](b []byte) (span.Span[T], error) {
	var zero span.Span[T]

	r := wkbReader{buf: b}

	_, domain, flags, _, err := r.header(wkbTagSpan)
	if err != nil {
		return zero, err
	}

	if domain != scalarDomainTag[T]() {
		return zero, parseErr(formatWKB, 0, "domain tag mismatch")
	}

	lower, err := readScalar[T](&r)
	if err != nil {
		return zero, err
	}

	upper, err := readScalar[T](&r)
	if err != nil {
		return zero, err
	}

	sp, err := span.New(lower, upper, flags&wkbFlagLowerInc != 0, flags&wkbFlagUpperInc != 0)
	if err != nil {
		return zero, parseErr(formatWKB, 0, "bounds do not form a valid span")
	}

	return sp, nil
}

// EncodeSpanSetWKB renders a span set in the binary form.
func EncodeSpanSetWKB[T span.Scalar](ss span.SpanSet[T], option ...Option) []byte {
	opts := optionNew(option...)

	var w wkbWriter

	w.header(wkbTagSpanSet, 0, scalarDomainTag[T](), 0, ss.NumSpans(), opts)

	for _, s := range ss.Spans() {
		w.u8(boundFlags(s.IsLowerInclusive(), s.IsUpperInclusive()))
		writeScalar(&w, s.Lower())
		writeScalar(&w, s.Upper())
	}

	return w.buf
}

// DecodeSpanSetWKB parses the binary form of a span set.
func DecodeSpanSetWKB[T span.Scalar](b []byte) (span.SpanSet[T], error) {
	var zero span.SpanSet[T]

	r := wkbReader{buf: b}

	_, domain, _, count, err := r.header(wkbTagSpanSet)
	if err != nil {
		return zero, err
	}

	if domain != scalarDomainTag[T]() {
		return zero, parseErr(formatWKB, 0, "domain tag mismatch")
	}

	spans := make([]span.Span[T], 0, count)

	for i := 0; i < count; i++ {
		flags, err := r.u8()
		if err != nil {
			return zero, err
		}

		lower, err := readScalar[T](&r)
		if err != nil {
			return zero, err
		}

		upper, err := readScalar[T](&r)
		if err != nil {
			return zero, err
		}

		sp, err := span.New(lower, upper, flags&wkbFlagLowerInc != 0, flags&wkbFlagUpperInc != 0)
		if err != nil {
			return zero, parseErr(formatWKB, 0, "bounds do not form a valid span")
		}

		spans = append(spans, sp)
	}

	return span.NewSpanSet(spans...), nil
}

// EncodeInstantWKB renders an instant in the binary form.
func EncodeInstantWKB[V temporal.Value](in temporal.Instant[V], option ...Option) []byte {
	opts := optionNew(option...)

	var w wkbWriter

	w.header(wkbTagInstant, 0, valueDomainTag[V](), boundFlags(true, true), 1, opts)
	writeValue(&w, in.Value())
	w.i64(int64(in.Timestamp()))

	return w.buf
}

// DecodeInstantWKB parses the binary form of an instant.
func DecodeInstantWKB[V temporal.Value](b []byte) (temporal.Instant[V], error) {
	var zero temporal.Instant[V]

	r := wkbReader{buf: b}

	_, domain, _, _, err := r.header(wkbTagInstant)
	if err != nil {
		return zero, err
	}

	if domain != valueDomainTag[V]() {
		return zero, parseErr(formatWKB, 0, "domain tag mismatch")
	}

	v, err := readValue[V](&r)
	if err != nil {
		return zero, err
	}

	ts, err := r.i64()
	if err != nil {
		return zero, err
	}

	return temporal.NewInstantAt(v, temporal.Timestamp(ts)), nil
}

func interpTag(i temporal.Interp) byte {
	return byte(i)
}

func interpFromTag(t byte) (temporal.Interp, bool) {
	switch temporal.Interp(t) {
	case temporal.InterpDiscrete, temporal.InterpStep, temporal.InterpLinear:
		return temporal.Interp(t), true
	default:
		return 0, false
	}
}

// EncodeSequenceWKB renders a sequence in the binary form.
func EncodeSequenceWKB[V temporal.Value](s temporal.Sequence[V], option ...Option) []byte {
	opts := optionNew(option...)

	var w wkbWriter

	w.header(wkbTagSequence, interpTag(s.Interpolation()), valueDomainTag[V](),
		boundFlags(s.IsLowerInclusive(), s.IsUpperInclusive()), s.NumInstants(), opts)

	for _, in := range s.Instants() {
		writeValue(&w, in.Value())
		w.i64(int64(in.Timestamp()))
	}

	return w.buf
}

// DecodeSequenceWKB parses the binary form of a sequence.
func DecodeSequenceWKB[V temporal.Value](b []byte) (temporal.Sequence[V], error) {
	var zero temporal.Sequence[V]

	r := wkbReader{buf: b}

	interpB, domain, flags, count, err := r.header(wkbTagSequence)
	if err != nil {
		return zero, err
	}

	if domain != valueDomainTag[V]() {
		return zero, parseErr(formatWKB, 0, "domain tag mismatch")
	}

	interp, ok := interpFromTag(interpB)
	if !ok {
		return zero, parseErr(formatWKB, 0, "unknown interpolation tag")
	}

	insts, err := readInstants[V](&r, count)
	if err != nil {
		return zero, err
	}

	return temporal.NewSequenceWithBounds(interp, flags&wkbFlagLowerInc != 0, flags&wkbFlagUpperInc != 0, insts)
}

func readInstants[V temporal.Value](r *wkbReader, count int) ([]temporal.Instant[V], error) {
	if count < 0 || count > len(r.buf) {
		return nil, parseErr(formatWKB, r.pos, "implausible element count")
	}

	insts := make([]temporal.Instant[V], 0, count)

	for i := 0; i < count; i++ {
		v, err := readValue[V](r)
		if err != nil {
			return nil, err
		}

		ts, err := r.i64()
		if err != nil {
			return nil, err
		}

		insts = append(insts, temporal.NewInstantAt(v, temporal.Timestamp(ts)))
	}

	return insts, nil
}

// EncodeSequenceSetWKB renders a sequence set in the binary form.
func EncodeSequenceSetWKB[V temporal.Value](ss temporal.SequenceSet[V], option ...Option) []byte {
	opts := optionNew(option...)

	var w wkbWriter

	w.header(wkbTagSequenceSet, interpTag(ss.Interpolation()), valueDomainTag[V](), 0, ss.NumSequences(), opts)

	for _, s := range ss.Sequences() {
		w.u8(boundFlags(s.IsLowerInclusive(), s.IsUpperInclusive()))
		w.u32(uint32(s.NumInstants()))

		for _, in := range s.Instants() {
			writeValue(&w, in.Value())
			w.i64(int64(in.Timestamp()))
		}
	}

	return w.buf
}

// DecodeSequenceSetWKB parses the binary form of a sequence set.
func DecodeSequenceSetWKB[V temporal.Value](b []byte) (temporal.SequenceSet[V], error) {
	var zero temporal.SequenceSet[V]

	r := wkbReader{buf: b}

	interpB, domain, _, count, err := r.header(wkbTagSequenceSet)
	if err != nil {
		return zero, err
	}

	if domain != valueDomainTag[V]() {
		return zero, parseErr(formatWKB, 0, "domain tag mismatch")
	}

	if count == 0 {
		return temporal.NewSequenceSet[V](nil)
	}

	interp, ok := interpFromTag(interpB)
	if !ok {
		return zero, parseErr(formatWKB, 0, "unknown interpolation tag")
	}

	seqs := make([]temporal.Sequence[V], 0, count)

	for i := 0; i < count; i++ {
		flags, err := r.u8()
		if err != nil {
			return zero, err
		}

		n, err := r.u32()
		if err != nil {
			return zero, err
		}

		insts, err := readInstants[V](&r, int(n))
		if err != nil {
			return zero, err
		}

		seq, err := temporal.NewSequenceWithBounds(interp, flags&wkbFlagLowerInc != 0, flags&wkbFlagUpperInc != 0, insts)
		if err != nil {
			return zero, err
		}

		seqs = append(seqs, seq)
	}

	return temporal.NewSequenceSet(seqs)
}

// Decode dispatches on the embedded type and domain tags, for
// self-describing streams where the caller does not know the concrete
// type up front.
func Decode(b []byte) (any, error) {
	r := wkbReader{buf: b}

	tag, err := r.u8()
	if err != nil {
		return nil, err
	}

	if tag == wkbExtendedMarker {
		if _, err = r.u8(); err != nil {
			return nil, err
		}

		if tag, err = r.u8(); err != nil {
			return nil, err
		}
	}

	if _, err = r.u8(); err != nil {
		return nil, err
	}

	domain, err := r.u8()
	if err != nil {
		return nil, err
	}

	switch tag {
	case wkbTagSpan:
		switch domain {
		case wkbDomInt:
			return DecodeSpanWKB[int64](b)
		case wkbDomFloat:
			return DecodeSpanWKB[float64](b)
		case wkbDomTimestamp:
			return DecodeSpanWKB[temporal.Timestamp](b)
		}
	case wkbTagSpanSet:
		switch domain {
		case wkbDomInt:
			return DecodeSpanSetWKB[int64](b)
		case wkbDomFloat:
			return DecodeSpanSetWKB[float64](b)
		case wkbDomTimestamp:
			return DecodeSpanSetWKB[temporal.Timestamp](b)
		}
	case wkbTagInstant:
		return decodeAnyTemporal(domain, func() (any, error) { return DecodeInstantWKB[temporal.Bool](b) },
			func() (any, error) { return DecodeInstantWKB[temporal.Int](b) },
			func() (any, error) { return DecodeInstantWKB[temporal.Float](b) },
			func() (any, error) { return DecodeInstantWKB[temporal.Text](b) },
			func() (any, error) { return DecodeInstantWKB[temporal.Point](b) })
	case wkbTagSequence:
		return decodeAnyTemporal(domain, func() (any, error) { return DecodeSequenceWKB[temporal.Bool](b) },
			func() (any, error) { return DecodeSequenceWKB[temporal.Int](b) },
			func() (any, error) { return DecodeSequenceWKB[temporal.Float](b) },
			func() (any, error) { return DecodeSequenceWKB[temporal.Text](b) },
			func() (any, error) { return DecodeSequenceWKB[temporal.Point](b) })
	case wkbTagSequenceSet:
		return decodeAnyTemporal(domain, func() (any, error) { return DecodeSequenceSetWKB[temporal.Bool](b) },
			func() (any, error) { return DecodeSequenceSetWKB[temporal.Int](b) },
			func() (any, error) { return DecodeSequenceSetWKB[temporal.Float](b) },
			func() (any, error) { return DecodeSequenceSetWKB[temporal.Text](b) },
			func() (any, error) { return DecodeSequenceSetWKB[temporal.Point](b) })
	}

	return nil, parseErr(formatWKB, 0, "unknown type tag")
}

func decodeAnyTemporal(domain byte, boolFn, intFn, floatFn, textFn, pointFn func() (any, error)) (any, error) {
	switch domain {
	case wkbDomBool:
		return boolFn()
	case wkbDomInt:
		return intFn()
	case wkbDomFloat:
		return floatFn()
	case wkbDomText:
		return textFn()
	case wkbDomPoint:
		return pointFn()
	default:
		return nil, parseErr(formatWKB, 0, "unknown domain tag")
	}
}
