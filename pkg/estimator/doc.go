// Package estimator contains the closed-form glucose estimators:
//
//   - FromSpO2: a linear mapping from peripheral oxygen saturation
//   - FromPPG: a linear mapping from IR/PPG sensor voltage, plus an optional
//     additive fuzzy-logic correction term computed elsewhere
//
// Inputs are not range-checked. Out-of-range readings produce out-of-range
// estimates. Every estimate is rounded to 2 decimal places.
package estimator
