package codec

import "fmt"

// ParseError reports malformed text, binary or JSON input, with the codec
// format and the approximate byte offset of the failure.
type ParseError struct {
	Format string
	Pos    int
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: parse error at offset %d: %s", e.Format, e.Pos, e.Reason)
}

func parseErr(format string, pos int, reason string) *ParseError {
	return &ParseError{Format: format, Pos: pos, Reason: reason}
}

const (
	formatWKT    = "wkt"
	formatWKB    = "wkb"
	formatMFJSON = "mfjson"
)
