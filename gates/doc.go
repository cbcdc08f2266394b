// Package gates implements the base-conversion and lane-rotation
// arithmetization of the Keccak permutation as gadgets over
// [github.com/consensys/gnark/frontend.API].
//
// A 64-bit Keccak lane is held simultaneously in three numeral bases: binary,
// base-9 and base-13, so that the boolean non-linear step of the permutation
// becomes low-degree field arithmetic. The gadgets here force an honest
// prover to have performed a correct base-13 to base-9 conversion of a lane:
// the lane is partitioned into chunks aligned to its rotation offset, each
// chunk's base-13 coefficient is mapped through a precomputed lookup table,
// and running-sum accumulators reconstruct the full lane value in both bases.
// Digit well-formedness is implied by the lookup index bound and by a
// block-count accumulation checked against a small legal set with a zero-set
// polynomial.
//
// Constraint construction is single-threaded and purely structural; a bad
// witness never surfaces as a Go error, it fails proof generation or
// verification in the host proving system.
package gates
