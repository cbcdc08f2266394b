package gates

import (
	"fmt"
	"math/big"

	"github.com/bits-and-blooms/bitset"
	"github.com/consensys/gnark/frontend"

	"github.com/zkworks/keccak-arith/arith"
)

// stepSize returns the chunk step at chunkIdx for a lane rotated by rotation.
// The default step is 4; it shrinks so that the rotation pivot and the lane
// end fall exactly on chunk boundaries. Digits on opposite sides of the pivot
// must not share a table row, which is why the pivot forces a boundary.
func stepSize(chunkIdx, rotation int) int {
	// near the rotation pivot
	if chunkIdx < rotation && rotation < chunkIdx+arith.BaseChunkSize {
		return rotation - chunkIdx
	}
	// near the end of the lane
	if chunkIdx < arith.LaneSize && arith.LaneSize < chunkIdx+arith.BaseChunkSize {
		return arith.LaneSize - chunkIdx
	}
	return arith.BaseChunkSize
}

// ChunkSteps returns the chunk step schedule of a lane with the given
// rotation, scanning from bit index 1 upward. The schedule tiles bit indices
// [1, 64) exactly; bit 0 belongs to the special chunk, which the lane unit
// converts through the step-1 table outside both running sums. The schedule
// is deterministic and fixed for the lifetime of the circuit.
//
// Panics on a rotation outside [0, 64) or on any tiling defect; a circuit
// whose chunks do not tile the lane has the wrong shape and there is nothing
// to recover.
func ChunkSteps(rotation int) []int {
	if rotation < 0 || rotation >= arith.LaneSize {
		panic(fmt.Sprintf("rotation %d out of range [0, %d)", rotation, arith.LaneSize))
	}
	covered := bitset.New(arith.LaneSize)
	var steps []int
	for chunkIdx := 1; chunkIdx < arith.LaneSize; {
		step := stepSize(chunkIdx, rotation)
		if step < 1 || chunkIdx+step > arith.LaneSize {
			panic(fmt.Sprintf("chunk of step %d at bit %d runs past the lane", step, chunkIdx))
		}
		for j := 0; j < step; j++ {
			if covered.Test(uint(chunkIdx + j)) {
				panic(fmt.Sprintf("chunk at bit %d overlaps an earlier chunk", chunkIdx))
			}
			covered.Set(uint(chunkIdx + j))
		}
		steps = append(steps, step)
		chunkIdx += step
	}
	if covered.Count() != arith.LaneSize-1 {
		panic("chunk schedule does not tile the lane")
	}
	return steps
}

func chunkOffsets(steps []int) []int {
	offsets := make([]int, len(steps))
	idx := 1
	for i, step := range steps {
		offsets[i] = idx
		idx += step
	}
	return offsets
}

// LaneRotateConversion validates the base-13 to base-9 conversion of one
// 64-bit lane. It owns the chunk schedule, one chunk unit per scheduled
// chunk, and one conversion table per distinct step size, threading the
// shared lane columns through all of them. Built once during circuit setup
// and immutable thereafter.
type LaneRotateConversion struct {
	api      frontend.API
	rotation int
	steps    []int
	chunks   []*ChunkRotateConversion
	tables   map[int]*Base13toBase9Table
	opts     []Option
}

// NewLaneRotateConversion schedules the chunks of a lane with the given
// rotation and wires one chunk unit per chunk. Panics on an invalid rotation.
func NewLaneRotateConversion(api frontend.API, rotation int, opts ...Option) *LaneRotateConversion {
	cfg := newConfig(opts...)
	l := &LaneRotateConversion{
		api:      api,
		rotation: rotation,
		steps:    ChunkSteps(rotation),
		tables:   make(map[int]*Base13toBase9Table),
		opts:     opts,
	}
	b13 := NewRunningSum(api, arith.B13)
	b9 := NewRunningSum(api, arith.B9)
	for i, step := range l.steps {
		final := i == len(l.steps)-1
		l.chunks = append(l.chunks, NewChunkRotateConversion(step, final, l.tableFor(step), b13, b9))
	}
	cfg.log.Debug().Int("rotation", rotation).Ints("steps", l.steps).Msg("lane chunk schedule")
	return l
}

// NbChunks returns the number of scheduled chunks, i.e. the number of rows of
// the lane columns.
func (l *LaneRotateConversion) NbChunks() int {
	return len(l.steps)
}

// Steps returns a copy of the chunk step schedule.
func (l *LaneRotateConversion) Steps() []int {
	steps := make([]int, len(l.steps))
	copy(steps, l.steps)
	return steps
}

func (l *LaneRotateConversion) tableFor(step int) *Base13toBase9Table {
	if t, ok := l.tables[step]; ok {
		return t
	}
	t := NewBase13toBase9Table(l.api, step, l.opts...)
	l.tables[step] = t
	return t
}

// Constrain emits the constraints of every chunk unit over the given columns
// and the block-count final check on the totals row. The chain constraints
// are relative: the caller binds B13.Slice[0] to 13, B9.Slice[0] to 9,
// B13.Acc[0] and B9.Acc[0] to the weighted values being reconstructed, and
// the first totals row to zero. Convert performs those bindings; callers
// managing their own columns must do the same. Panics on mis-sized columns.
func (l *LaneRotateConversion) Constrain(cols LaneColumns) {
	cols.validate(len(l.chunks))
	for i, chunk := range l.chunks {
		chunk.Constrain(l.api, cols, i)
	}
	n := len(l.chunks)
	ConstrainBlockCountFinal(l.api, BlockCountRow{
		Step2Acc: cols.BlockCount.Step2Acc[n],
		Step3Acc: cols.BlockCount.Step3Acc[n],
	})
}

// Convert validates the conversion of a full lane: given the base-13 weighted
// lane value it returns the base-9 weighted value carrying the same bits. The
// column witness is produced by a solver hint and pinned by Constrain; the
// special bit-0 digit goes through the step-1 table and stays outside both
// running sums. The proving field must hold 13^64, i.e. be at least 237 bits.
func (l *LaneRotateConversion) Convert(laneB13 frontend.Variable) (frontend.Variable, error) {
	n := len(l.steps)
	outs, err := l.api.Compiler().NewHint(laneColumnsHint, hintOutputCount(n), l.rotation, laneB13)
	if err != nil {
		return nil, fmt.Errorf("lane columns hint: %w", err)
	}
	cols, d0 := l.columnsFromHint(outs)

	// chain heads: everything else is pinned relatively by Constrain
	l.api.AssertIsEqual(l.api.Add(cols.B13.Acc[0], d0), laneB13)
	l.api.AssertIsEqual(cols.BlockCount.Step2Acc[0], 0)
	l.api.AssertIsEqual(cols.BlockCount.Step3Acc[0], 0)

	l.Constrain(cols)

	b9D0, _ := l.tableFor(1).Lookup(d0)
	return l.api.Add(cols.B9.Acc[0], b9D0), nil
}

// columnsFromHint lays the hint outputs into lane columns. Slice columns are
// positional weights, fixed by the schedule, so they are constants rather
// than hint outputs; the running-sum slice constraints then hold by
// construction.
func (l *LaneRotateConversion) columnsFromHint(outs []frontend.Variable) (LaneColumns, frontend.Variable) {
	n := len(l.steps)
	d0 := outs[0]
	rest := outs[1:]
	take := func(m int) []frontend.Variable {
		s := rest[:m]
		rest = rest[m:]
		return s
	}
	var cols LaneColumns
	cols.B13.Coef = take(n)
	cols.B13.Acc = take(n)
	cols.B13.Slice = weightColumn(arith.B13, l.steps)
	cols.B9.Coef = take(n)
	cols.B9.Acc = take(n)
	cols.B9.Slice = weightColumn(arith.B9, l.steps)
	cols.BlockCount.Count = take(n)
	cols.BlockCount.Step2Acc = take(n + 1)
	cols.BlockCount.Step3Acc = take(n + 1)
	return cols, d0
}

func weightColumn(base uint64, steps []int) []frontend.Variable {
	weights := make([]frontend.Variable, len(steps))
	b := new(big.Int).SetUint64(base)
	w := new(big.Int).SetUint64(base) // weight of the first chunk, at bit index 1
	for i, step := range steps {
		weights[i] = new(big.Int).Set(w)
		for j := 0; j < step; j++ {
			w.Mul(w, b)
		}
	}
	return weights
}
