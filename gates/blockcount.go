package gates

import (
	"fmt"

	"github.com/consensys/gnark/frontend"

	"github.com/zkworks/keccak-arith/arith"
)

// BlockCountRow is one row of the block-count columns: the chunk's own block
// count and the two channel running totals, one fed by step-2 chunks and one
// by step-3 chunks.
type BlockCountRow struct {
	Count    frontend.Variable
	Step2Acc frontend.Variable
	Step3Acc frontend.Variable
}

// ConstrainBlockCountStep accumulates one chunk's block count into the
// channel selected by the chunk's step:
//
//	step 1: count = 0, both channel deltas = 0
//	step 2: step-2 delta = count, step-3 delta = 0
//	step 3: step-2 delta = 0, step-3 delta = count
//
// next.Count is not read. Any other step is a construction-time defect: the
// scheduler must never feed a chunk of step 0 or ≥ 4 to this accumulator.
func ConstrainBlockCountStep(api frontend.API, step int, cur, next BlockCountRow) {
	if step < 1 || step > 3 {
		panic(fmt.Sprintf("block count accumulator: step %d, expected 1, 2 or 3", step))
	}
	delta2 := api.Sub(next.Step2Acc, cur.Step2Acc)
	delta3 := api.Sub(next.Step3Acc, cur.Step3Acc)
	switch step {
	case 1:
		api.AssertIsEqual(cur.Count, 0)
		api.AssertIsEqual(delta2, 0)
		api.AssertIsEqual(delta3, 0)
	case 2:
		api.AssertIsEqual(delta2, cur.Count)
		api.AssertIsEqual(delta3, 0)
	case 3:
		api.AssertIsEqual(delta2, 0)
		api.AssertIsEqual(delta3, cur.Count)
	}
}

// ConstrainBlockCountFinal enforces, at the designated final row of a lane,
// that the step-2 channel total lies in {0, …, 12} and the step-3 total in
// {0, …, 169}: the zero-set product Π(total − v) over the legal set must
// vanish. The product grows linearly with the bound, so this does not
// generalize to large ranges.
func ConstrainBlockCountFinal(api frontend.API, final BlockCountRow) {
	assertInRootSet(api, final.Step2Acc, arith.Step2Bound)
	assertInRootSet(api, final.Step3Acc, arith.Step3Bound)
}

func assertInRootSet(api frontend.API, v frontend.Variable, bound int) {
	product := frontend.Variable(1)
	for x := 0; x <= bound; x++ {
		product = api.Mul(product, api.Sub(v, x))
	}
	api.AssertIsEqual(product, 0)
}
