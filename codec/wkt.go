package codec

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/sgostarter/libtemporal/span"
	"github.com/sgostarter/libtemporal/temporal"
)

// ParseSpan parses the text form of a span, e.g. "[17.5, 18.5)". The
// reverse direction is Span.String.
func ParseSpan[T span.Scalar](input string) (span.Span[T], error) {
	var zero span.Span[T]

	s := strings.TrimSpace(input)
	if len(s) < 2 {
		return zero, parseErr(formatWKT, 0, "span too short")
	}

	var lowerInc, upperInc bool

	switch s[0] {
	case '[':
		lowerInc = true
	case '(':
	default:
		return zero, parseErr(formatWKT, 0, "expected '[' or '('")
	}

	switch s[len(s)-1] {
	case ']':
		upperInc = true
	case ')':
	default:
		return zero, parseErr(formatWKT, len(s)-1, "expected ']' or ')'")
	}

	parts := strings.Split(s[1:len(s)-1], ",")
	if len(parts) != 2 {
		return zero, parseErr(formatWKT, 1, "expected two bounds")
	}

	lower, err := parseScalar[T](strings.TrimSpace(parts[0]))
	if err != nil {
		return zero, parseErr(formatWKT, 1, err.Error())
	}

	upper, err := parseScalar[T](strings.TrimSpace(parts[1]))
	if err != nil {
		return zero, parseErr(formatWKT, 1+len(parts[0]), err.Error())
	}

	sp, err := span.New(lower, upper, lowerInc, upperInc)
	if err != nil {
		return zero, parseErr(formatWKT, 0, "bounds do not form a valid span")
	}

	return sp, nil
}

// ParseSpanSet parses the text form of a span set, e.g.
// "{[17.5, 18.5), [19.5, 20.5)}".
func ParseSpanSet[T span.Scalar](input string) (span.SpanSet[T], error) {
	var zero span.SpanSet[T]

	s := strings.TrimSpace(input)
	if len(s) < 2 || s[0] != '{' || s[len(s)-1] != '}' {
		return zero, parseErr(formatWKT, 0, "expected '{...}'")
	}

	inner := strings.TrimSpace(s[1 : len(s)-1])
	if inner == "" {
		return span.NewSpanSet[T](), nil
	}

	groups, offs, err := bracketGroups(inner)
	if err != nil {
		return zero, err
	}

	spans := make([]span.Span[T], 0, len(groups))

	for i, g := range groups {
		sp, err := ParseSpan[T](g)
		if err != nil {
			if pe, ok := err.(*ParseError); ok {
				pe.Pos += offs[i] + 1
			}

			return zero, err
		}

		spans = append(spans, sp)
	}

	return span.NewSpanSet(spans...), nil
}

// ParseInstant parses "value@timestamp".
func ParseInstant[V temporal.Value](input string) (temporal.Instant[V], error) {
	in, err := parseInstant[V](strings.TrimSpace(input))
	if err != nil {
		return temporal.Instant[V]{}, parseErr(formatWKT, 0, err.Error())
	}

	return in, nil
}

// ParseSequence parses a temporal sequence: "{...}" for discrete,
// "[...]" or "(...)" for continuous, with an optional leading
// "Interp=Step;" marker.
func ParseSequence[V temporal.Value](input string) (temporal.Sequence[V], error) {
	var zero temporal.Sequence[V]

	rest, marked, hasMark, err := stripInterpMarker(strings.TrimSpace(input))
	if err != nil {
		return zero, err
	}

	if rest == "" {
		return zero, parseErr(formatWKT, 0, "empty sequence")
	}

	switch rest[0] {
	case '{':
		if hasMark && marked != temporal.InterpDiscrete {
			return zero, parseErr(formatWKT, 0, "interpolation marker conflicts with a discrete body")
		}

		return parseSequenceBody[V](rest, temporal.InterpDiscrete)
	case '[', '(':
		interp := temporal.InterpLinear
		if hasMark {
			interp = marked
		}

		if interp == temporal.InterpDiscrete {
			return zero, parseErr(formatWKT, 0, "discrete sequences use braces")
		}

		return parseSequenceBody[V](rest, interp)
	default:
		return zero, parseErr(formatWKT, 0, "expected a sequence body")
	}
}

// ParseSequenceSet parses "{seq, seq, ...}" where each component is a
// bracketed sequence body. The optional interpolation marker applies to
// all components.
func ParseSequenceSet[V temporal.Value](input string) (temporal.SequenceSet[V], error) {
	var zero temporal.SequenceSet[V]

	rest, marked, hasMark, err := stripInterpMarker(strings.TrimSpace(input))
	if err != nil {
		return zero, err
	}

	if len(rest) < 2 || rest[0] != '{' || rest[len(rest)-1] != '}' {
		return zero, parseErr(formatWKT, 0, "expected '{...}'")
	}

	inner := strings.TrimSpace(rest[1 : len(rest)-1])
	if inner == "" {
		return temporal.NewSequenceSet[V](nil)
	}

	groups, offs, err := bracketGroups(inner)
	if err != nil {
		return zero, err
	}

	seqs := make([]temporal.Sequence[V], 0, len(groups))

	for i, g := range groups {
		interp := temporal.InterpLinear
		if hasMark {
			interp = marked
		}

		if g[0] == '{' {
			if hasMark && marked != temporal.InterpDiscrete {
				return zero, parseErr(formatWKT, offs[i], "interpolation marker conflicts with a discrete component")
			}

			interp = temporal.InterpDiscrete
		}

		seq, err := parseSequenceBody[V](g, interp)
		if err != nil {
			if pe, ok := err.(*ParseError); ok {
				pe.Pos += offs[i] + 1
			}

			return zero, err
		}

		seqs = append(seqs, seq)
	}

	return temporal.NewSequenceSet(seqs)
}

func parseSequenceBody[V temporal.Value](body string, interp temporal.Interp) (temporal.Sequence[V], error) {
	var zero temporal.Sequence[V]

	if len(body) < 2 {
		return zero, parseErr(formatWKT, 0, "sequence body too short")
	}

	var lowerInc, upperInc bool

	switch body[0] {
	case '{':
		if body[len(body)-1] != '}' {
			return zero, parseErr(formatWKT, len(body)-1, "expected '}'")
		}

		lowerInc, upperInc = true, true
	case '[', '(':
		lowerInc = body[0] == '['

		switch body[len(body)-1] {
		case ']':
			upperInc = true
		case ')':
		default:
			return zero, parseErr(formatWKT, len(body)-1, "expected ']' or ')'")
		}
	default:
		return zero, parseErr(formatWKT, 0, "expected a sequence body")
	}

	inner := strings.TrimSpace(body[1 : len(body)-1])
	if inner == "" {
		return zero, parseErr(formatWKT, 1, "empty sequence")
	}

	parts := splitTop(inner)

	insts := make([]temporal.Instant[V], 0, len(parts))

	for _, p := range parts {
		in, err := parseInstant[V](strings.TrimSpace(p))
		if err != nil {
			return zero, parseErr(formatWKT, 1, err.Error())
		}

		insts = append(insts, in)
	}

	return temporal.NewSequenceWithBounds(interp, lowerInc, upperInc, insts)
}

func parseInstant[V temporal.Value](tok string) (temporal.Instant[V], error) {
	var zero temporal.Instant[V]

	at := strings.LastIndexByte(tok, '@')
	if at < 0 {
		return zero, fmt.Errorf("missing '@' in instant %q", tok)
	}

	v, err := parseValue[V](tok[:at])
	if err != nil {
		return zero, err
	}

	ts, err := temporal.ParseTimestamp(strings.TrimSpace(tok[at+1:]))
	if err != nil {
		return zero, fmt.Errorf("invalid timestamp %q", strings.TrimSpace(tok[at+1:]))
	}

	return temporal.NewInstantAt(v, ts), nil
}

func parseValue[V temporal.Value](tok string) (V, error) {
	var zero V

	tok = strings.TrimSpace(tok)

	switch zero.Domain() {
	case temporal.DomainBool:
		switch strings.ToLower(tok) {
		case "t", "true":
			return any(temporal.Bool(true)).(V), nil
		case "f", "false":
			return any(temporal.Bool(false)).(V), nil
		default:
			return zero, fmt.Errorf("invalid bool literal %q", tok)
		}
	case temporal.DomainInt:
		i, err := strconv.ParseInt(tok, 10, 64)
		if err != nil {
			return zero, fmt.Errorf("invalid int literal %q", tok)
		}

		return any(temporal.Int(i)).(V), nil
	case temporal.DomainFloat:
		f, err := strconv.ParseFloat(tok, 64)
		if err != nil {
			return zero, fmt.Errorf("invalid float literal %q", tok)
		}

		return any(temporal.Float(f)).(V), nil
	case temporal.DomainText:
		if strings.HasPrefix(tok, `"`) {
			u, err := strconv.Unquote(tok)
			if err != nil {
				return zero, fmt.Errorf("invalid text literal %s", tok)
			}

			return any(temporal.Text(u)).(V), nil
		}

		return any(temporal.Text(tok)).(V), nil
	case temporal.DomainPoint:
		if !strings.HasPrefix(strings.ToUpper(tok), "POINT") {
			return zero, fmt.Errorf("invalid point literal %q", tok)
		}

		rest := strings.TrimSpace(tok[len("POINT"):])
		if !strings.HasPrefix(rest, "(") || !strings.HasSuffix(rest, ")") {
			return zero, fmt.Errorf("invalid point literal %q", tok)
		}

		fields := strings.Fields(rest[1 : len(rest)-1])
		if len(fields) != 2 {
			return zero, fmt.Errorf("point literal %q needs two coordinates", tok)
		}

		x, errX := strconv.ParseFloat(fields[0], 64)
		y, errY := strconv.ParseFloat(fields[1], 64)

		if errX != nil || errY != nil {
			return zero, fmt.Errorf("invalid point coordinates %q", tok)
		}

		return any(temporal.Point{X: x, Y: y}).(V), nil
	default:
		return zero, fmt.Errorf("unsupported value domain")
	}
}

func parseScalar[T span.Scalar](tok string) (T, error) {
	var zero T

	switch any(zero).(type) {
	case float64:
		f, err := strconv.ParseFloat(tok, 64)
		if err != nil {
			return zero, fmt.Errorf("invalid float bound %q", tok)
		}

		return T(f), nil
	case temporal.Timestamp:
		ts, err := temporal.ParseTimestamp(tok)
		if err != nil {
			return zero, fmt.Errorf("invalid timestamp bound %q", tok)
		}

		return T(ts), nil
	default:
		i, err := strconv.ParseInt(tok, 10, 64)
		if err != nil {
			return zero, fmt.Errorf("invalid int bound %q", tok)
		}

		return T(i), nil
	}
}

// stripInterpMarker removes an optional leading "Interp=<name>;" marker.
func stripInterpMarker(s string) (string, temporal.Interp, bool, error) {
	if !strings.HasPrefix(strings.ToLower(s), "interp=") {
		return s, 0, false, nil
	}

	idx := strings.IndexByte(s, ';')
	if idx < 0 {
		return "", 0, false, parseErr(formatWKT, 0, "unterminated interpolation marker")
	}

	name := strings.TrimSpace(s[len("Interp="):idx])

	interp, ok := temporal.ParseInterp(name)
	if !ok {
		return "", 0, false, parseErr(formatWKT, len("Interp="), "unknown interpolation "+strconv.Quote(name))
	}

	return strings.TrimSpace(s[idx+1:]), interp, true, nil
}

// bracketGroups extracts the top-level bracketed substrings of s and the
// offset each starts at. Nested parentheses (point literals) and quoted
// text are skipped over.
func bracketGroups(s string) ([]string, []int, error) {
	var (
		groups []string
		offs   []int
	)

	i := 0

	for i < len(s) {
		c := s[i]

		if c == ' ' || c == ',' || c == '\t' || c == '\n' {
			i++

			continue
		}

		if c != '[' && c != '(' && c != '{' {
			return nil, nil, parseErr(formatWKT, i, "expected an opening bracket")
		}

		depth := 0
		inQuote := false
		j := i

		for ; j < len(s); j++ {
			ch := s[j]

			if inQuote {
				if ch == '"' && s[j-1] != '\\' {
					inQuote = false
				}

				continue
			}

			switch ch {
			case '"':
				inQuote = true
			case '[', '(', '{':
				depth++
			case ']', ')', '}':
				depth--
			}

			if depth == 0 {
				break
			}
		}

		if j == len(s) {
			return nil, nil, parseErr(formatWKT, i, "unterminated group")
		}

		groups = append(groups, s[i:j+1])
		offs = append(offs, i)
		i = j + 1
	}

	return groups, offs, nil
}

// splitTop splits s on commas at bracket depth zero, respecting quoted
// text.
func splitTop(s string) []string {
	var parts []string

	depth := 0
	inQuote := false
	start := 0

	for i := 0; i < len(s); i++ {
		ch := s[i]

		if inQuote {
			if ch == '"' && s[i-1] != '\\' {
				inQuote = false
			}

			continue
		}

		switch ch {
		case '"':
			inQuote = true
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			depth--
		case ',':
			if depth == 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}

	return append(parts, s[start:])
}
