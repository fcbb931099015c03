// Package calibration fits the linear PPG model
//
//	glucose = a*v + b
//
// from paired (voltage, reference glucose) samples by ordinary least squares.
// It contains:
//
//   - Sample: one paired reading used as fit input
//   - Result: the fitted slope, intercept and coefficient of determination
//   - Fit / FitSamples: the least-squares fit itself
//   - ReadSamples: a CSV loader for sample files
//
// A Result has no lifecycle beyond the call that produced it. Callers decide
// whether to keep the coefficients, e.g. by passing Result.Options to
// estimator.FromPPG.
package calibration
