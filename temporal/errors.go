package temporal

import "errors"

var (
	ErrEmptySequence             = errors.New("empty sequence")
	ErrUnorderedInstants         = errors.New("unordered instants")
	ErrDuplicateTimestamp        = errors.New("duplicate timestamp")
	ErrIncompatibleInterpolation = errors.New("incompatible interpolation")
	ErrNoValueAtTimestamp        = errors.New("no value at timestamp")
	ErrUndefinedForDiscrete      = errors.New("undefined for discrete interpolation")
	ErrOverlappingSequences      = errors.New("overlapping sequences")
	ErrDisjointSequences         = errors.New("sequences do not meet")
)
