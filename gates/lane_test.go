package gates_test

import (
	"encoding/binary"
	"fmt"
	"math/big"
	"testing"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark/backend"
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/test"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/sha3"

	"github.com/zkworks/keccak-arith/arith"
	"github.com/zkworks/keccak-arith/gates"
)

// randomLanes derives deterministic pseudo-random test lanes from a Keccak
// digest chain.
func randomLanes(n int) []uint64 {
	h := sha3.NewLegacyKeccak256()
	h.Write([]byte("lane rotate conversion test vectors"))
	lanes := make([]uint64, 0, n)
	for len(lanes) < n {
		sum := h.Sum(nil)
		for i := 0; i+8 <= len(sum) && len(lanes) < n; i += 8 {
			lanes = append(lanes, binary.BigEndian.Uint64(sum[i:i+8]))
		}
		h.Write(sum)
	}
	return lanes
}

type laneConvertCircuit struct {
	LaneB13 frontend.Variable
	LaneB9  frontend.Variable `gnark:",public"`

	rotation int
}

func (c *laneConvertCircuit) Define(api frontend.API) error {
	lane := gates.NewLaneRotateConversion(api, c.rotation)
	b9, err := lane.Convert(c.LaneB13)
	if err != nil {
		return err
	}
	api.AssertIsEqual(b9, c.LaneB9)
	return nil
}

func convertWitness(rotation int, lane uint64) *laneConvertCircuit {
	return &laneConvertCircuit{
		LaneB13:  arith.ConvertB2ToB13(lane),
		LaneB9:   arith.ConvertB2ToB9(lane),
		rotation: rotation,
	}
}

func TestLaneConvert(t *testing.T) {
	assert := test.NewAssert(t)

	for _, rotation := range []int{0, 2, 63} {
		rotation := rotation
		assert.Run(func(assert *test.Assert) {
			lanes := append([]uint64{0, ^uint64(0), 1}, randomLanes(2)...)
			if rotation >= 2 {
				// bits on both sides of the pivot
				lanes = append(lanes, uint64(1)<<(rotation-1)|uint64(1)<<rotation)
			}
			opts := []test.TestingOption{
				test.WithCurves(ecc.BN254),
				test.WithBackends(backend.GROTH16),
			}
			for _, lane := range lanes {
				opts = append(opts, test.WithValidAssignment(convertWitness(rotation, lane)))
			}
			bad := convertWitness(rotation, 5)
			bad.LaneB9 = new(big.Int).Add(arith.ConvertB2ToB9(5), big.NewInt(1))
			opts = append(opts, test.WithInvalidAssignment(bad))

			assert.CheckCircuit(&laneConvertCircuit{rotation: rotation}, opts...)
		}, fmt.Sprintf("rotation=%d", rotation))
	}
}

func TestLaneAssignmentRoundTrip(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 300

	properties := gopter.NewProperties(parameters)
	properties.Property("base-9 reconstruction matches direct conversion", prop.ForAll(
		func(lane uint64, r uint8) bool {
			rotation := int(r) % arith.LaneSize
			a, err := gates.AssignLane(rotation, arith.ConvertB2ToB13(lane))
			if err != nil {
				return false
			}
			if a.LaneB9.Cmp(arith.ConvertB2ToB9(lane)) != 0 {
				return false
			}
			// both accumulators telescope exactly to zero
			last := len(a.B13Coef) - 1
			z13 := new(big.Int).Sub(a.B13Acc[last], new(big.Int).Mul(a.B13Coef[last], a.B13Slice[last]))
			z9 := new(big.Int).Sub(a.B9Acc[last], new(big.Int).Mul(a.B9Coef[last], a.B9Slice[last]))
			if z13.Sign() != 0 || z9.Sign() != 0 {
				return false
			}
			// channel totals land in their legal sets
			return a.Step2Acc[last+1].Uint64() <= arith.Step2Bound &&
				a.Step3Acc[last+1].Uint64() <= arith.Step3Bound
		},
		gen.UInt64(), gen.UInt8(),
	))
	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestLaneAssignmentBoundaryVectors(t *testing.T) {
	require := require.New(t)
	vectors := []uint64{0, ^uint64(0)}
	for i := 0; i < arith.LaneSize; i++ {
		vectors = append(vectors, uint64(1)<<i)
	}
	for _, rotation := range []int{0, 1, 2, 28, 63} {
		for _, lane := range vectors {
			a, err := gates.AssignLane(rotation, arith.ConvertB2ToB13(lane))
			require.NoError(err)
			require.Zero(a.LaneB9.Cmp(arith.ConvertB2ToB9(lane)),
				"lane %#x rotation %d", lane, rotation)
			require.Zero(new(big.Int).Add(a.B13Acc[0], a.D0).Cmp(arith.ConvertB2ToB13(lane)),
				"lane %#x rotation %d: accumulator head", lane, rotation)
		}
	}
}

type laneColumnsCircuit struct {
	B13Coef  []frontend.Variable
	B13Slice []frontend.Variable
	B13Acc   []frontend.Variable
	B9Coef   []frontend.Variable
	B9Slice  []frontend.Variable
	B9Acc    []frontend.Variable
	Count    []frontend.Variable
	Step2Acc []frontend.Variable
	Step3Acc []frontend.Variable

	rotation int
}

func newLaneColumnsCircuit(rotation int) *laneColumnsCircuit {
	n := len(gates.ChunkSteps(rotation))
	return &laneColumnsCircuit{
		B13Coef:  make([]frontend.Variable, n),
		B13Slice: make([]frontend.Variable, n),
		B13Acc:   make([]frontend.Variable, n),
		B9Coef:   make([]frontend.Variable, n),
		B9Slice:  make([]frontend.Variable, n),
		B9Acc:    make([]frontend.Variable, n),
		Count:    make([]frontend.Variable, n),
		Step2Acc: make([]frontend.Variable, n+1),
		Step3Acc: make([]frontend.Variable, n+1),
		rotation: rotation,
	}
}

func (c *laneColumnsCircuit) Define(api frontend.API) error {
	lane := gates.NewLaneRotateConversion(api, c.rotation)
	lane.Constrain(gates.LaneColumns{
		B13:        gates.RunningSumColumns{Coef: c.B13Coef, Slice: c.B13Slice, Acc: c.B13Acc},
		B9:         gates.RunningSumColumns{Coef: c.B9Coef, Slice: c.B9Slice, Acc: c.B9Acc},
		BlockCount: gates.BlockCountColumns{Count: c.Count, Step2Acc: c.Step2Acc, Step3Acc: c.Step3Acc},
	})
	return nil
}

func laneColumnsWitness(t *testing.T, rotation int, lane uint64) *laneColumnsCircuit {
	t.Helper()
	a, err := gates.AssignLane(rotation, arith.ConvertB2ToB13(lane))
	require.NoError(t, err)

	w := newLaneColumnsCircuit(rotation)
	for i := range w.B13Coef {
		w.B13Coef[i] = a.B13Coef[i]
		w.B13Slice[i] = a.B13Slice[i]
		w.B13Acc[i] = a.B13Acc[i]
		w.B9Coef[i] = a.B9Coef[i]
		w.B9Slice[i] = a.B9Slice[i]
		w.B9Acc[i] = a.B9Acc[i]
		w.Count[i] = a.Count[i]
	}
	for i := range w.Step2Acc {
		w.Step2Acc[i] = a.Step2Acc[i]
		w.Step3Acc[i] = a.Step3Acc[i]
	}
	return w
}

func TestLaneColumnsCorruption(t *testing.T) {
	assert := test.NewAssert(t)
	// rotation 63 schedules one step-2 and one step-1 special chunk
	const rotation = 63
	const lane = 0xdeadbeef12345678

	n := len(gates.ChunkSteps(rotation))

	// step-2 channel total forced to 13: every delta stays legal, so only the
	// final zero-set check trips
	total13 := laneColumnsWitness(t, rotation, lane)
	shift := new(big.Int).Sub(big.NewInt(arith.Step2Bound+1), total13.Step2Acc[n].(*big.Int))
	for i := range total13.Step2Acc {
		total13.Step2Acc[i] = new(big.Int).Add(total13.Step2Acc[i].(*big.Int), shift)
	}

	// base-9 coefficient that is not the table image of its base-13 twin
	badCoef := laneColumnsWitness(t, rotation, lane)
	badCoef.B9Coef[0] = new(big.Int).Add(badCoef.B9Coef[0].(*big.Int), big.NewInt(1))

	// broken telescoping on the base-13 side
	badAcc := laneColumnsWitness(t, rotation, lane)
	badAcc.B13Acc[1] = new(big.Int).Add(badAcc.B13Acc[1].(*big.Int), big.NewInt(1))

	assert.CheckCircuit(newLaneColumnsCircuit(rotation),
		test.WithValidAssignment(laneColumnsWitness(t, rotation, lane)),
		test.WithInvalidAssignment(total13),
		test.WithInvalidAssignment(badCoef),
		test.WithInvalidAssignment(badAcc),
		test.WithCurves(ecc.BN254),
		test.WithBackends(backend.GROTH16),
	)
}
