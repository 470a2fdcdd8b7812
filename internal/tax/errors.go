package tax

import "errors"

var (
	ErrUnknownCategory     = errors.New("unknown weight category")
	ErrMissingMonth        = errors.New("vehicle has no usable first-used month")
	ErrInconsistentSummary = errors.New("category summary has zero count with non-zero tax")
)
