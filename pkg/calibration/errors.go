package calibration

import "errors"

var (
	// ErrNoSamples is returned when there is nothing to fit.
	ErrNoSamples = errors.New("no calibration samples")

	// ErrLengthMismatch is returned when voltages and glucose values are not paired.
	ErrLengthMismatch = errors.New("voltage and glucose sample counts differ")

	// ErrInvalidSample is returned when a sample is not a finite number.
	ErrInvalidSample = errors.New("invalid calibration sample")

	// ErrZeroVariance is returned when all voltages are identical, so no slope exists.
	ErrZeroVariance = errors.New("voltage samples have zero variance")
)
