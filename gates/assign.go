package gates

import (
	"fmt"
	"math/big"

	"golang.org/x/sync/errgroup"

	"github.com/zkworks/keccak-arith/arith"
)

// LaneAssignment holds the concrete witness values of one lane's columns,
// computed in scheduling order: later running-sum rows depend on earlier
// ones, so a lane is always assigned in a single pass.
type LaneAssignment struct {
	// the special bit-0 digit in both bases
	D0   *big.Int
	B9D0 *big.Int

	B13Coef, B13Slice, B13Acc []*big.Int
	B9Coef, B9Slice, B9Acc    []*big.Int

	Count              []*big.Int
	Step2Acc, Step3Acc []*big.Int

	// LaneB9 is the base-9 weighted value of the full lane, including bit 0.
	LaneB9 *big.Int
}

// AssignLane computes the witness of one lane from its base-13 weighted
// value: per-chunk coefficients in both bases, positional weights,
// telescoping accumulators and block-count totals. It errors when laneB13
// does not decompose into 64 base-13 digits. Panics on an invalid rotation,
// which is a circuit-shape defect rather than bad witness data.
func AssignLane(rotation int, laneB13 *big.Int) (*LaneAssignment, error) {
	steps := ChunkSteps(rotation)
	offsets := chunkOffsets(steps)
	digits, err := arith.Digits(laneB13, arith.B13, arith.LaneSize)
	if err != nil {
		return nil, fmt.Errorf("assign lane: %w", err)
	}

	n := len(steps)
	a := &LaneAssignment{
		D0:       new(big.Int).SetUint64(digits[0]),
		B9D0:     new(big.Int).SetUint64(arith.ConvertB13Digit(digits[0])),
		B13Coef:  make([]*big.Int, n),
		B13Slice: make([]*big.Int, n),
		B13Acc:   make([]*big.Int, n),
		B9Coef:   make([]*big.Int, n),
		B9Slice:  make([]*big.Int, n),
		B9Acc:    make([]*big.Int, n),
		Count:    make([]*big.Int, n),
		Step2Acc: make([]*big.Int, n+1),
		Step3Acc: make([]*big.Int, n+1),
	}

	b13 := big.NewInt(arith.B13)
	b9 := big.NewInt(arith.B9)
	w13 := new(big.Int).Set(b13) // weight at bit index 1
	w9 := new(big.Int).Set(b9)
	for k, step := range steps {
		chunkDigits := digits[offsets[k] : offsets[k]+step]
		b9Digits := make([]uint64, step)
		for j, d := range chunkDigits {
			b9Digits[j] = arith.ConvertB13Digit(d)
		}
		a.B13Coef[k] = arith.PackDigits(chunkDigits, arith.B13)
		a.B9Coef[k] = arith.PackDigits(b9Digits, arith.B9)
		a.B13Slice[k] = new(big.Int).Set(w13)
		a.B9Slice[k] = new(big.Int).Set(w9)
		a.Count[k] = new(big.Int).SetUint64(arith.BlockCount(step, chunkDigits))
		for j := 0; j < step; j++ {
			w13.Mul(w13, b13)
			w9.Mul(w9, b9)
		}
	}

	// accumulators start at the weighted value of bits [1, 64) and telescope
	// down to the last chunk's own term
	a.B13Acc[0] = new(big.Int).Sub(laneB13, a.D0)
	a.B9Acc[0] = new(big.Int)
	for k := range steps {
		a.B9Acc[0].Add(a.B9Acc[0], new(big.Int).Mul(a.B9Coef[k], a.B9Slice[k]))
	}
	for k := 0; k+1 < n; k++ {
		a.B13Acc[k+1] = new(big.Int).Sub(a.B13Acc[k], new(big.Int).Mul(a.B13Coef[k], a.B13Slice[k]))
		a.B9Acc[k+1] = new(big.Int).Sub(a.B9Acc[k], new(big.Int).Mul(a.B9Coef[k], a.B9Slice[k]))
	}

	a.Step2Acc[0] = new(big.Int)
	a.Step3Acc[0] = new(big.Int)
	for k, step := range steps {
		a.Step2Acc[k+1] = new(big.Int).Set(a.Step2Acc[k])
		a.Step3Acc[k+1] = new(big.Int).Set(a.Step3Acc[k])
		switch step {
		case 2:
			a.Step2Acc[k+1].Add(a.Step2Acc[k+1], a.Count[k])
		case 3:
			a.Step3Acc[k+1].Add(a.Step3Acc[k+1], a.Count[k])
		}
	}

	a.LaneB9 = new(big.Int).Add(a.B9Acc[0], a.B9D0)
	return a, nil
}

// AssignLanes assigns several independent lanes concurrently. Lanes share no
// witness state, so this is purely a convenience for witness-generation
// drivers; correctness never depends on it.
func AssignLanes(rotations []int, lanes []*big.Int) ([]*LaneAssignment, error) {
	if len(rotations) != len(lanes) {
		return nil, fmt.Errorf("%d rotations for %d lanes", len(rotations), len(lanes))
	}
	assignments := make([]*LaneAssignment, len(lanes))
	var g errgroup.Group
	for i := range lanes {
		g.Go(func() error {
			a, err := AssignLane(rotations[i], lanes[i])
			if err != nil {
				return fmt.Errorf("lane %d: %w", i, err)
			}
			assignments[i] = a
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return assignments, nil
}
