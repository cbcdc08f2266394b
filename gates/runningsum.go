package gates

import (
	"fmt"
	"math/big"

	"github.com/consensys/gnark/frontend"

	"github.com/zkworks/keccak-arith/arith"
)

// RunningSumRow is one row of a running-sum accumulator: the digit extracted
// at the row's chunk, the chunk's positional weight, and the remaining
// weighted value.
//
//	| coef | slice | accumulator |
//	|------|-------|-------------|
//	| 5    | 10**2 |       30500 | (step = 2)
//	| 3    | 10**4 |       30000 |
type RunningSumRow struct {
	Coef  frontend.Variable
	Slice frontend.Variable
	Acc   frontend.Variable
}

// RunningSum verifies that a sequence of digit slices and their positional
// weights reconstruct a full lane value in a fixed base, through a
// telescoping multiply-accumulate chain that must land exactly on zero.
//
// The chain is only relative: callers bind the first row's Slice to the
// base's weight at the first chunk and the first row's Acc to the value being
// reconstructed.
type RunningSum struct {
	api  frontend.API
	base uint64
}

// NewRunningSum returns a running-sum accumulator for the given base.
func NewRunningSum(api frontend.API, base uint64) *RunningSum {
	return &RunningSum{api: api, base: base}
}

// ConstrainStep ties the successor row to the current one for a chunk of the
// given step:
//
//	next.Acc   = cur.Acc − cur.Coef · cur.Slice
//	next.Slice = cur.Slice · base^step
func (rs *RunningSum) ConstrainStep(cur, next RunningSumRow, step int) {
	if step < 1 || step > arith.BaseChunkSize {
		panic(fmt.Sprintf("running sum: chunk step %d out of range [1, %d]", step, arith.BaseChunkSize))
	}
	rs.api.AssertIsEqual(next.Acc, rs.api.Sub(cur.Acc, rs.api.Mul(cur.Coef, cur.Slice)))
	multiplier := new(big.Int).Exp(
		new(big.Int).SetUint64(rs.base),
		big.NewInt(int64(step)),
		nil,
	)
	rs.api.AssertIsEqual(next.Slice, rs.api.Mul(cur.Slice, multiplier))
}

// ConstrainFinal enforces the terminal reconstruction at the last row of the
// chain: subtracting the final chunk's term must hit exactly zero.
func (rs *RunningSum) ConstrainFinal(cur RunningSumRow) {
	rs.api.AssertIsEqual(rs.api.Sub(cur.Acc, rs.api.Mul(cur.Coef, cur.Slice)), 0)
}
