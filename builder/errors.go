package builder

import "errors"

var (
	ErrOutOfOrderSample = errors.New("out of order sample")
	ErrLinearNotAllowed = errors.New("linear interpolation not allowed for this value domain")
)
