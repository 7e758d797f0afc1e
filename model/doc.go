// Package model defines the core value-level types shared by every rvec package.
//
// # Element Types
//
//   - ElementType: the type tag of a vector (logical, integer, double, complex,
//     character, raw, list)
//   - Logical: the three-valued logical element (FALSE, TRUE, NA)
//
// # Missing Values
//
// Every element type except raw and list reserves one bit pattern as the
// missing-value sentinel (NA). Use IsNA and NA to test for and produce it
// generically:
//
//	if model.IsNA(x) { ... }
//	v := model.NA[float64]()
//
// Note that the double NA is a specific NaN payload: IsNA(math.NaN()) is false,
// IsNaOrNaN(math.NaN()) is true.
//
// # Sharing
//
// Sharing is the three-state copy-on-write classification of a container.
// Transitions are monotonic: Temporary -> SharedTransient -> SharedPermanent.
//
// # Failures
//
// Contract violations (writing to a read-only store, duplicating an unsupported
// value) are raised as panics carrying *ContractError. Catch converts them, and
// any other error-valued panic raised by this module, back into an error.
package model
