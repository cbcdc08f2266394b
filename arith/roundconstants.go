package arith

import (
	"fmt"
	"math/big"
)

// NbRounds is the number of rounds of the Keccak-f[1600] permutation.
const NbRounds = 24

var roundConstants = [NbRounds]uint64{
	0x0000000000000001, 0x0000000000008082, 0x800000000000808A,
	0x8000000080008000, 0x000000000000808B, 0x0000000080000001,
	0x8000000080008081, 0x8000000000008009, 0x000000000000008A,
	0x0000000000000088, 0x0000000080008009, 0x000000008000000A,
	0x000000008000808B, 0x800000000000008B, 0x8000000000008089,
	0x8000000000008003, 0x8000000000008002, 0x8000000000000080,
	0x000000000000800A, 0x800000008000000A, 0x8000000080008081,
	0x8000000000008080, 0x0000000080000001, 0x8000000080008008,
}

// The iota inputs of the surrounding round circuit are fixed, so both
// weighted forms are converted once at package init.
var (
	roundConstantsB9  [NbRounds]*big.Int
	roundConstantsB13 [NbRounds]*big.Int
)

func init() {
	for i, rc := range roundConstants {
		roundConstantsB9[i] = ConvertB2ToB9(rc)
		roundConstantsB13[i] = ConvertB2ToB13(rc)
	}
}

// RoundConstant returns the binary round constant of the given Keccak-f
// round. Panics on a round outside [0, NbRounds).
func RoundConstant(round int) uint64 {
	checkRound(round)
	return roundConstants[round]
}

// RoundConstantB9 returns the base-9 weighted form of a round constant.
func RoundConstantB9(round int) *big.Int {
	checkRound(round)
	return new(big.Int).Set(roundConstantsB9[round])
}

// RoundConstantB13 returns the base-13 weighted form of a round constant.
func RoundConstantB13(round int) *big.Int {
	checkRound(round)
	return new(big.Int).Set(roundConstantsB13[round])
}

func checkRound(round int) {
	if round < 0 || round >= NbRounds {
		panic(fmt.Sprintf("round %d out of range [0, %d)", round, NbRounds))
	}
}
