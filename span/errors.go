package span

import "errors"

var (
	ErrInvalidSpan = errors.New("invalid span")
)
