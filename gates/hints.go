package gates

import (
	"fmt"
	"math/big"

	"github.com/consensys/gnark/constraint/solver"
)

func init() {
	solver.RegisterHint(GetHints()...)
}

// GetHints returns all hints used in the package.
func GetHints() []solver.Hint {
	return []solver.Hint{laneColumnsHint}
}

func hintOutputCount(nbChunks int) int {
	// d0, then per chunk: b13 coef and acc, b9 coef and acc, block count,
	// then the two totals columns with their extra row
	return 1 + 5*nbChunks + 2*(nbChunks+1)
}

// laneColumnsHint fills a lane's witness columns from its base-13 weighted
// value. Inputs: rotation, lane value. Outputs, in order: the bit-0 digit,
// the base-13 coefficient and accumulator columns, the base-9 coefficient and
// accumulator columns, the block-count column, and the two totals columns.
// Slice columns are schedule constants and not part of the hint.
func laneColumnsHint(_ *big.Int, inputs, outputs []*big.Int) error {
	if len(inputs) != 2 {
		return fmt.Errorf("expected 2 inputs, got %d", len(inputs))
	}
	if !inputs[0].IsInt64() {
		return fmt.Errorf("rotation %s is not an integer", inputs[0])
	}
	a, err := AssignLane(int(inputs[0].Int64()), inputs[1])
	if err != nil {
		return err
	}
	if want := hintOutputCount(len(a.B13Coef)); len(outputs) != want {
		return fmt.Errorf("expected %d outputs, got %d", want, len(outputs))
	}
	i := 0
	emit := func(vals ...*big.Int) {
		for _, v := range vals {
			outputs[i].Set(v)
			i++
		}
	}
	emit(a.D0)
	emit(a.B13Coef...)
	emit(a.B13Acc...)
	emit(a.B9Coef...)
	emit(a.B9Acc...)
	emit(a.Count...)
	emit(a.Step2Acc...)
	emit(a.Step3Acc...)
	return nil
}
