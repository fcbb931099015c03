package units

import "errors"

var (
	ErrInvalidUnit = errors.New("invalid unit")
)
