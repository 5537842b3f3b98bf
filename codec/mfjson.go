package codec

import (
	"encoding/json"
	"math"
	"time"

	"github.com/spf13/cast"

	"github.com/sgostarter/libtemporal/temporal"
)

const (
	mfTypeBool  = "MovingBoolean"
	mfTypeInt   = "MovingInteger"
	mfTypeFloat = "MovingFloat"
	mfTypeText  = "MovingText"
	mfTypePoint = "MovingPoint"
)

const mfDatetimeLayout = "2006-01-02T15:04:05.999999Z07:00"

var mfDatetimeLayouts = []string{
	mfDatetimeLayout,
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05",
}

type mfJSONCRSProperties struct {
	Name string `json:"name"`
}

type mfJSONCRS struct {
	Type       string              `json:"type"`
	Properties mfJSONCRSProperties `json:"properties"`
}

type mfJSONSeq struct {
	Values        []any       `json:"values,omitempty"`
	Coordinates   [][]float64 `json:"coordinates,omitempty"`
	Datetimes     []string    `json:"datetimes"`
	LowerInc      *bool       `json:"lower_inc,omitempty"`
	UpperInc      *bool       `json:"upper_inc,omitempty"`
	Interpolation string      `json:"interpolation,omitempty"`
}

type mfJSON struct {
	Type          string      `json:"type"`
	CRS           *mfJSONCRS  `json:"crs,omitempty"`
	Values        []any       `json:"values,omitempty"`
	Coordinates   [][]float64 `json:"coordinates,omitempty"`
	Datetimes     []string    `json:"datetimes,omitempty"`
	LowerInc      *bool       `json:"lower_inc,omitempty"`
	UpperInc      *bool       `json:"upper_inc,omitempty"`
	Interpolation string      `json:"interpolation,omitempty"`
	Sequences     []mfJSONSeq `json:"sequences,omitempty"`
}

func mfTypeName(d temporal.Domain) string {
	switch d {
	case temporal.DomainBool:
		return mfTypeBool
	case temporal.DomainInt:
		return mfTypeInt
	case temporal.DomainFloat:
		return mfTypeFloat
	case temporal.DomainText:
		return mfTypeText
	default:
		return mfTypePoint
	}
}

func roundTo(f float64, precision int) float64 {
	pow := math.Pow10(precision)

	return math.Round(f*pow) / pow
}

func mfDatetime(ts temporal.Timestamp) string {
	return ts.Time().UTC().Format(mfDatetimeLayout)
}

func parseMFDatetime(s string) (temporal.Timestamp, error) {
	for _, layout := range mfDatetimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return temporal.TimestampOf(t), nil
		}
	}

	return 0, parseErr(formatMFJSON, 0, "unparseable datetime "+s)
}

func mfValuesOf[V temporal.Value](vals []V, opts *Options) (values []any, coords [][]float64) {
	var zero V

	if zero.Domain() == temporal.DomainPoint {
		coords = make([][]float64, 0, len(vals))

		for _, v := range vals {
			p, _ := any(v).(temporal.Point)
			coords = append(coords, []float64{roundTo(p.X, opts.precision), roundTo(p.Y, opts.precision)})
		}

		return
	}

	values = make([]any, 0, len(vals))

	for _, v := range vals {
		switch x := any(v).(type) {
		case temporal.Bool:
			values = append(values, bool(x))
		case temporal.Int:
			values = append(values, int64(x))
		case temporal.Float:
			// precision applies to coordinates only; float values keep
			// their full resolution so they survive a round trip
			values = append(values, float64(x))
		case temporal.Text:
			values = append(values, string(x))
		}
	}

	return
}

func mfValueAt[V temporal.Value](doc *mfJSONSeq, domain temporal.Domain, idx int) (V, error) {
	var zero V

	if domain == temporal.DomainPoint {
		if idx >= len(doc.Coordinates) || len(doc.Coordinates[idx]) < 2 {
			return zero, parseErr(formatMFJSON, 0, "coordinates and datetimes differ in length")
		}

		c := doc.Coordinates[idx]

		return any(temporal.Point{X: c[0], Y: c[1]}).(V), nil
	}

	if idx >= len(doc.Values) {
		return zero, parseErr(formatMFJSON, 0, "values and datetimes differ in length")
	}

	raw := doc.Values[idx]

	switch domain {
	case temporal.DomainBool:
		b, err := cast.ToBoolE(raw)
		if err != nil {
			return zero, parseErr(formatMFJSON, 0, "value is not a boolean")
		}

		return any(temporal.Bool(b)).(V), nil
	case temporal.DomainInt:
		i, err := cast.ToInt64E(raw)
		if err != nil {
			return zero, parseErr(formatMFJSON, 0, "value is not an integer")
		}

		return any(temporal.Int(i)).(V), nil
	case temporal.DomainFloat:
		f, err := cast.ToFloat64E(raw)
		if err != nil {
			return zero, parseErr(formatMFJSON, 0, "value is not a number")
		}

		return any(temporal.Float(f)).(V), nil
	default:
		s, err := cast.ToStringE(raw)
		if err != nil {
			return zero, parseErr(formatMFJSON, 0, "value is not a string")
		}

		return any(temporal.Text(s)).(V), nil
	}
}

func mfCRS[V temporal.Value](opts *Options) *mfJSONCRS {
	var zero V

	if zero.Domain() != temporal.DomainPoint {
		return nil
	}

	return &mfJSONCRS{
		Type: "Name",
		Properties: mfJSONCRSProperties{
			Name: opts.srs,
		},
	}
}

func mfRender(doc *mfJSON, opts *Options) ([]byte, error) {
	if opts.pretty {
		return json.MarshalIndent(doc, "", "  ")
	}

	return json.Marshal(doc)
}

func mfUnmarshal[V temporal.Value](b []byte) (*mfJSON, error) {
	var doc mfJSON

	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, parseErr(formatMFJSON, 0, "malformed document")
	}

	var zero V

	if doc.Type != mfTypeName(zero.Domain()) {
		return nil, parseErr(formatMFJSON, 0, "unexpected type "+doc.Type)
	}

	return &doc, nil
}

// EncodeInstantMFJSON renders an instant as a one element moving value
// document. No interpolation key is emitted for instants.
func EncodeInstantMFJSON[V temporal.Value](in temporal.Instant[V], option ...Option) ([]byte, error) {
	opts := optionNew(option...)

	values, coords := mfValuesOf([]V{in.Value()}, opts)

	var zero V

	doc := mfJSON{
		Type:        mfTypeName(zero.Domain()),
		CRS:         mfCRS[V](opts),
		Values:      values,
		Coordinates: coords,
		Datetimes:   []string{mfDatetime(in.Timestamp())},
	}

	return mfRender(&doc, opts)
}

// DecodeInstantMFJSON parses a one element moving value document back to
// an instant.
func DecodeInstantMFJSON[V temporal.Value](b []byte) (temporal.Instant[V], error) {
	var zero temporal.Instant[V]

	doc, err := mfUnmarshal[V](b)
	if err != nil {
		return zero, err
	}

	if len(doc.Datetimes) != 1 {
		return zero, parseErr(formatMFJSON, 0, "expected exactly one datetime")
	}

	var zeroV V

	seq := mfJSONSeq{Values: doc.Values, Coordinates: doc.Coordinates}

	v, err := mfValueAt[V](&seq, zeroV.Domain(), 0)
	if err != nil {
		return zero, err
	}

	ts, err := parseMFDatetime(doc.Datetimes[0])
	if err != nil {
		return zero, err
	}

	return temporal.NewInstantAt(v, ts), nil
}

func mfSeqOf[V temporal.Value](s temporal.Sequence[V], opts *Options, withInterp bool) mfJSONSeq {
	values, coords := mfValuesOf(s.Values(), opts)

	datetimes := make([]string, 0, s.NumInstants())

	for _, ts := range s.Timestamps() {
		datetimes = append(datetimes, mfDatetime(ts))
	}

	lowerInc := s.IsLowerInclusive()
	upperInc := s.IsUpperInclusive()

	seq := mfJSONSeq{
		Values:      values,
		Coordinates: coords,
		Datetimes:   datetimes,
		LowerInc:    &lowerInc,
		UpperInc:    &upperInc,
	}

	if withInterp {
		seq.Interpolation = s.Interpolation().String()
	}

	return seq
}

func mfSeqTo[V temporal.Value](doc *mfJSONSeq, interp temporal.Interp) (temporal.Sequence[V], error) {
	var (
		zero  temporal.Sequence[V]
		zeroV V
	)

	insts := make([]temporal.Instant[V], 0, len(doc.Datetimes))

	for i, dt := range doc.Datetimes {
		v, err := mfValueAt[V](doc, zeroV.Domain(), i)
		if err != nil {
			return zero, err
		}

		ts, err := parseMFDatetime(dt)
		if err != nil {
			return zero, err
		}

		insts = append(insts, temporal.NewInstantAt(v, ts))
	}

	lowerInc := true
	if doc.LowerInc != nil {
		lowerInc = *doc.LowerInc
	}

	upperInc := interp == temporal.InterpDiscrete || len(insts) == 1
	if doc.UpperInc != nil {
		upperInc = *doc.UpperInc
	}

	return temporal.NewSequenceWithBounds(interp, lowerInc, upperInc, insts)
}

// EncodeSequenceMFJSON renders a sequence as a moving value document.
func EncodeSequenceMFJSON[V temporal.Value](s temporal.Sequence[V], option ...Option) ([]byte, error) {
	opts := optionNew(option...)

	seq := mfSeqOf(s, opts, false)

	var zero V

	doc := mfJSON{
		Type:          mfTypeName(zero.Domain()),
		CRS:           mfCRS[V](opts),
		Values:        seq.Values,
		Coordinates:   seq.Coordinates,
		Datetimes:     seq.Datetimes,
		LowerInc:      seq.LowerInc,
		UpperInc:      seq.UpperInc,
		Interpolation: s.Interpolation().String(),
	}

	return mfRender(&doc, opts)
}

// DecodeSequenceMFJSON parses a moving value document back to a sequence.
func DecodeSequenceMFJSON[V temporal.Value](b []byte) (temporal.Sequence[V], error) {
	var zero temporal.Sequence[V]

	doc, err := mfUnmarshal[V](b)
	if err != nil {
		return zero, err
	}

	interp, ok := temporal.ParseInterp(doc.Interpolation)
	if !ok {
		return zero, parseErr(formatMFJSON, 0, "unknown interpolation "+doc.Interpolation)
	}

	seq := mfJSONSeq{
		Values:      doc.Values,
		Coordinates: doc.Coordinates,
		Datetimes:   doc.Datetimes,
		LowerInc:    doc.LowerInc,
		UpperInc:    doc.UpperInc,
	}

	return mfSeqTo[V](&seq, interp)
}

// EncodeSequenceSetMFJSON renders a sequence set as a moving value
// document with a nested sequences array.
func EncodeSequenceSetMFJSON[V temporal.Value](ss temporal.SequenceSet[V], option ...Option) ([]byte, error) {
	opts := optionNew(option...)

	seqs := make([]mfJSONSeq, 0, ss.NumSequences())

	for _, s := range ss.Sequences() {
		seqs = append(seqs, mfSeqOf(s, opts, false))
	}

	var zero V

	doc := mfJSON{
		Type:          mfTypeName(zero.Domain()),
		CRS:           mfCRS[V](opts),
		Interpolation: ss.Interpolation().String(),
		Sequences:     seqs,
	}

	return mfRender(&doc, opts)
}

// DecodeSequenceSetMFJSON parses a moving value document with nested
// sequences back to a sequence set.
func DecodeSequenceSetMFJSON[V temporal.Value](b []byte) (temporal.SequenceSet[V], error) {
	var zero temporal.SequenceSet[V]

	doc, err := mfUnmarshal[V](b)
	if err != nil {
		return zero, err
	}

	interp, ok := temporal.ParseInterp(doc.Interpolation)
	if !ok {
		return zero, parseErr(formatMFJSON, 0, "unknown interpolation "+doc.Interpolation)
	}

	seqs := make([]temporal.Sequence[V], 0, len(doc.Sequences))

	for i := range doc.Sequences {
		s, err := mfSeqTo[V](&doc.Sequences[i], interp)
		if err != nil {
			return zero, err
		}

		seqs = append(seqs, s)
	}

	return temporal.NewSequenceSet(seqs)
}
