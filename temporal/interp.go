package temporal

// Interp is the policy for computing a value between two samples.
type Interp uint8

const (
	InterpDiscrete Interp = iota + 1
	InterpStep
	InterpLinear
)

func (i Interp) String() string {
	switch i {
	case InterpDiscrete:
		return "Discrete"
	case InterpStep:
		return "Step"
	case InterpLinear:
		return "Linear"
	default:
		return "Unknown"
	}
}

// ParseInterp recognizes the textual interpolation names, case-insensitive.
// "stepwise" is accepted as an alias for Step.
func ParseInterp(s string) (Interp, bool) {
	switch lower(s) {
	case "discrete":
		return InterpDiscrete, true
	case "step", "stepwise":
		return InterpStep, true
	case "linear":
		return InterpLinear, true
	default:
		return 0, false
	}
}

func lower(s string) string {
	b := []byte(s)

	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + 'a' - 'A'
		}
	}

	return string(b)
}

// lerp computes the affine interpolation between two values of a
// linear-capable domain at fraction f in [0, 1].
func lerp[V Value](v0, v1 V, f float64) (V, error) {
	var zero V

	switch a := any(v0).(type) {
	case Float:
		b, _ := any(v1).(Float)
		r := a + (b-a)*Float(f)

		return any(r).(V), nil
	case Point:
		b, _ := any(v1).(Point)
		r := a.Add(b.Sub(a).Scale(f))

		return any(r).(V), nil
	default:
		return zero, ErrIncompatibleInterpolation
	}
}

// valueAtSegment evaluates the interpolation of a single segment
// (v0@t0, v1@t1) at time t, with t0 <= t <= t1. finalInclusive tells
// whether t1 is the inclusive end of the whole continuum, which decides
// the Step value at the right edge.
func valueAtSegment[V Value](v0, v1 V, t0, t1, t Timestamp, interp Interp, finalInclusive bool) (V, error) {
	var zero V

	if t0 == t1 {
		return zero, ErrDuplicateTimestamp
	}

	if t == t0 {
		return v0, nil
	}

	switch interp {
	case InterpDiscrete:
		if t == t1 {
			return v1, nil
		}

		return zero, ErrNoValueAtTimestamp
	case InterpStep:
		if t == t1 && finalInclusive {
			return v1, nil
		}

		return v0, nil
	case InterpLinear:
		if t == t1 {
			return v1, nil
		}

		f := float64(t-t0) / float64(t1-t0)

		return lerp(v0, v1, f)
	default:
		return zero, ErrIncompatibleInterpolation
	}
}
