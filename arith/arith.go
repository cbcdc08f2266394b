// Package arith implements the numeral-base codec of the Keccak
// arithmetization: conversions of 64-bit lanes between their binary, base-9
// and base-13 weighted representations, the digit-level reduction realizing
// the boolean non-linear step as field arithmetic, and the block-count
// function the conversion tables are generated from.
//
// The codec works on big integers and is independent of any proving field;
// callers are responsible for picking a field large enough to hold a base-13
// weighted lane (13^64 < 2^237, so any 240+ bit scalar field fits).
package arith

import (
	"fmt"
	"math/big"
)

const (
	// B2, B9 and B13 are the numeral bases a lane is simultaneously
	// represented in.
	B2  = 2
	B9  = 9
	B13 = 13

	// LaneSize is the number of bits in a Keccak lane.
	LaneSize = 64

	// BaseChunkSize is the default chunk step. Chunks shrink below it only so
	// that the rotation pivot and the lane end fall on chunk boundaries.
	BaseChunkSize = 4

	// Step2Bound and Step3Bound are the inclusive upper bounds of the legal
	// sets of the two block-count channels.
	Step2Bound = 12
	Step3Bound = 13 * 13
)

// ConvertB2ToB13 returns the base-13 weighted value of a binary lane,
// sum_i bit_i * 13^i.
func ConvertB2ToB13(lane uint64) *big.Int {
	return convertB2(lane, B13)
}

// ConvertB2ToB9 returns the base-9 weighted value of a binary lane,
// sum_i bit_i * 9^i.
func ConvertB2ToB9(lane uint64) *big.Int {
	return convertB2(lane, B9)
}

func convertB2(lane uint64, base uint64) *big.Int {
	v := new(big.Int)
	w := big.NewInt(1)
	b := new(big.Int).SetUint64(base)
	for i := 0; i < LaneSize; i++ {
		if (lane>>i)&1 == 1 {
			v.Add(v, w)
		}
		w.Mul(w, b)
	}
	return v
}

// Digits decomposes x into its n little-endian digits in the given base. It
// errors when x does not fit in n digits.
func Digits(x *big.Int, base uint64, n int) ([]uint64, error) {
	if x.Sign() < 0 {
		return nil, fmt.Errorf("negative value %s has no digit decomposition", x)
	}
	digits := make([]uint64, n)
	rest := new(big.Int).Set(x)
	b := new(big.Int).SetUint64(base)
	d := new(big.Int)
	for i := 0; i < n; i++ {
		rest.QuoRem(rest, b, d)
		digits[i] = d.Uint64()
	}
	if rest.Sign() != 0 {
		return nil, fmt.Errorf("value %s exceeds %d digits in base %d", x, n, base)
	}
	return digits, nil
}

// PackDigits is the inverse of Digits: sum_i digits[i] * base^i.
func PackDigits(digits []uint64, base uint64) *big.Int {
	v := new(big.Int)
	w := big.NewInt(1)
	b := new(big.Int).SetUint64(base)
	d := new(big.Int)
	for _, digit := range digits {
		v.Add(v, d.Mul(w, d.SetUint64(digit)))
		w.Mul(w, b)
	}
	return v
}

// ConvertB13Digit reduces a base-13 digit to the binary bit it carries. A
// base-13 digit accumulates a sum of lane bits, and the bit it represents is
// that sum's parity. Panics on an out-of-range digit: tables are generated
// from in-range digits only, so this is a construction-time defect.
func ConvertB13Digit(d uint64) uint64 {
	if d >= B13 {
		panic(fmt.Sprintf("base-13 digit %d out of range", d))
	}
	return d & 1
}

// BlockCount returns the block count of a chunk given its step and base-13
// digits: the number of active (non-zero) digits for the special step-2 and
// step-3 chunks, zero for step-1 and the non-special step-4 chunks. Panics
// when step and digits disagree or step is not in 1..4.
func BlockCount(step int, digits []uint64) uint64 {
	if step < 1 || step > BaseChunkSize {
		panic(fmt.Sprintf("chunk step %d out of range [1, %d]", step, BaseChunkSize))
	}
	if len(digits) != step {
		panic(fmt.Sprintf("chunk of step %d with %d digits", step, len(digits)))
	}
	if step != 2 && step != 3 {
		return 0
	}
	var count uint64
	for _, d := range digits {
		if d >= B13 {
			panic(fmt.Sprintf("base-13 digit %d out of range", d))
		}
		if d != 0 {
			count++
		}
	}
	return count
}
