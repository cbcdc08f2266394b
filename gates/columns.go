package gates

import (
	"fmt"

	"github.com/consensys/gnark/frontend"
)

// RunningSumColumns are the coefficient, slice and accumulator columns of one
// base, with one row per chunk of the lane.
type RunningSumColumns struct {
	Coef  []frontend.Variable
	Slice []frontend.Variable
	Acc   []frontend.Variable
}

// BlockCountColumns are the per-chunk block-count column and the two channel
// totals. The totals carry one extra row: row i holds the total before chunk
// i, so the last row is the lane's accumulated total and is where the final
// check applies.
type BlockCountColumns struct {
	Count    []frontend.Variable
	Step2Acc []frontend.Variable
	Step3Acc []frontend.Variable
}

// LaneColumns is the witness layout of one lane: three base-13 columns, three
// base-9 columns and three block-count columns, shared by all chunk units of
// the lane so the running sums telescope across it.
type LaneColumns struct {
	B13        RunningSumColumns
	B9         RunningSumColumns
	BlockCount BlockCountColumns
}

func (cols *LaneColumns) validate(nbChunks int) {
	for _, c := range []struct {
		name string
		n    int
	}{
		{"b13 coef", len(cols.B13.Coef)},
		{"b13 slice", len(cols.B13.Slice)},
		{"b13 acc", len(cols.B13.Acc)},
		{"b9 coef", len(cols.B9.Coef)},
		{"b9 slice", len(cols.B9.Slice)},
		{"b9 acc", len(cols.B9.Acc)},
		{"block count", len(cols.BlockCount.Count)},
	} {
		if c.n != nbChunks {
			panic(fmt.Sprintf("lane columns: %s has %d rows, expected %d", c.name, c.n, nbChunks))
		}
	}
	if len(cols.BlockCount.Step2Acc) != nbChunks+1 || len(cols.BlockCount.Step3Acc) != nbChunks+1 {
		panic(fmt.Sprintf("lane columns: block count totals need %d rows", nbChunks+1))
	}
}
