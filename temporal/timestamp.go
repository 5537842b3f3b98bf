package temporal

import (
	"time"

	"github.com/sgostarter/libtemporal/span"
)

// Timestamp is a point in time with microsecond resolution, stored as
// microseconds since the Unix epoch, UTC. Being an int64 it slots into the
// generic span algebra, so time spans share the numeric span code.
type Timestamp int64

// TimeSpan is a span over the time domain.
type TimeSpan = span.Span[Timestamp]

// TimeSpanSet is a normalized set of disjoint time spans.
type TimeSpanSet = span.SpanSet[Timestamp]

func TimestampOf(t time.Time) Timestamp {
	return Timestamp(t.UnixMicro())
}

func (ts Timestamp) Time() time.Time {
	return time.UnixMicro(int64(ts)).UTC()
}

func (ts Timestamp) Add(d time.Duration) Timestamp {
	return ts + Timestamp(d.Microseconds())
}

// Sub returns the duration ts - o.
func (ts Timestamp) Sub(o Timestamp) time.Duration {
	return time.Duration(ts-o) * time.Microsecond
}

func (ts Timestamp) Before(o Timestamp) bool {
	return ts < o
}

func (ts Timestamp) After(o Timestamp) bool {
	return ts > o
}

func (ts Timestamp) String() string {
	return ts.Time().Format("2006-01-02 15:04:05.999999-07")
}

// timestampLayouts are tried in order when parsing. A missing zone means
// UTC, fractional seconds are optional.
var timestampLayouts = []string{
	"2006-01-02 15:04:05.999999-07:00",
	"2006-01-02 15:04:05.999999-07",
	"2006-01-02 15:04:05.999999",
	"2006-01-02T15:04:05.999999-07:00",
	"2006-01-02T15:04:05.999999Z",
	"2006-01-02T15:04:05.999999",
	"2006-01-02",
}

// ParseTimestamp parses the textual timestamp forms used by the text codec.
func ParseTimestamp(s string) (Timestamp, error) {
	var lastErr error

	for _, layout := range timestampLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return TimestampOf(t), nil
		}

		lastErr = err
	}

	return 0, lastErr
}

// NewTimeSpan creates a time span from two times with the given bound
// inclusivity.
func NewTimeSpan(start, end time.Time, lowerInc, upperInc bool) (TimeSpan, error) {
	return span.New(TimestampOf(start), TimestampOf(end), lowerInc, upperInc)
}

// SpanDuration returns the width of a time span as a duration.
func SpanDuration(s TimeSpan) time.Duration {
	return time.Duration(s.Width()) * time.Microsecond
}
