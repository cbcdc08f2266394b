package gates

import (
	"github.com/consensys/gnark/frontend"

	"github.com/zkworks/keccak-arith/arith"
)

// ChunkRotateConversion validates the conversion of a single chunk: one
// conversion-table lookup, one base-13 running-sum step, one base-9
// running-sum step and one block-count step, all over the same row of the
// lane columns.
type ChunkRotateConversion struct {
	step  int
	final bool
	table *Base13toBase9Table
	b13   *RunningSum
	b9    *RunningSum
}

// NewChunkRotateConversion wires a chunk unit of the given step. final marks
// the last chunk of the lane, whose running-sum rows carry the terminal
// reconstruction constraint instead of a successor link.
func NewChunkRotateConversion(step int, final bool, table *Base13toBase9Table, b13, b9 *RunningSum) *ChunkRotateConversion {
	return &ChunkRotateConversion{step: step, final: final, table: table, b13: b13, b9: b9}
}

// Constrain emits the chunk's constraints at row i of the lane columns.
func (c *ChunkRotateConversion) Constrain(api frontend.API, cols LaneColumns, i int) {
	b9Coef, blockCount := c.table.Lookup(cols.B13.Coef[i])
	api.AssertIsEqual(cols.B9.Coef[i], b9Coef)
	api.AssertIsEqual(cols.BlockCount.Count[i], blockCount)

	curB13 := RunningSumRow{Coef: cols.B13.Coef[i], Slice: cols.B13.Slice[i], Acc: cols.B13.Acc[i]}
	curB9 := RunningSumRow{Coef: cols.B9.Coef[i], Slice: cols.B9.Slice[i], Acc: cols.B9.Acc[i]}
	if c.final {
		c.b13.ConstrainFinal(curB13)
		c.b9.ConstrainFinal(curB9)
	} else {
		nextB13 := RunningSumRow{Coef: cols.B13.Coef[i+1], Slice: cols.B13.Slice[i+1], Acc: cols.B13.Acc[i+1]}
		nextB9 := RunningSumRow{Coef: cols.B9.Coef[i+1], Slice: cols.B9.Slice[i+1], Acc: cols.B9.Acc[i+1]}
		c.b13.ConstrainStep(curB13, nextB13, c.step)
		c.b9.ConstrainStep(curB9, nextB9, c.step)
	}

	// Non-special chunks carry no block count, so they accumulate under the
	// step-1 rule; the accumulator itself only ever sees steps 1..3.
	bcStep := c.step
	if bcStep == arith.BaseChunkSize {
		bcStep = 1
	}
	cur := BlockCountRow{
		Count:    cols.BlockCount.Count[i],
		Step2Acc: cols.BlockCount.Step2Acc[i],
		Step3Acc: cols.BlockCount.Step3Acc[i],
	}
	next := BlockCountRow{
		Step2Acc: cols.BlockCount.Step2Acc[i+1],
		Step3Acc: cols.BlockCount.Step3Acc[i+1],
	}
	ConstrainBlockCountStep(api, bcStep, cur, next)
}
