package gates

import (
	"fmt"

	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/std/lookup/logderivlookup"

	"github.com/zkworks/keccak-arith/arith"
)

// TableEntry is one row of the base-13 to base-9 conversion table for a fixed
// chunk step: the chunk's base-13 coefficient, the base-9 coefficient
// carrying the same bits, and the block count the chunk contributes.
type TableEntry struct {
	B13        uint64
	B9         uint64
	BlockCount uint64
}

// Base13toBase9Entries returns the full conversion table for chunks of the
// given step, in coefficient order. Entry c covers the chunk whose base-13
// digits are the base-13 decomposition of c, so the table has 13^step rows
// and the coefficient doubles as the row index. The base-9 digit of each
// position is the parity of the base-13 digit, which is how the boolean
// combination rule of chi survives the conversion.
func Base13toBase9Entries(step int) []TableEntry {
	if step < 1 || step > arith.BaseChunkSize {
		panic(fmt.Sprintf("conversion table: chunk step %d out of range [1, %d]", step, arith.BaseChunkSize))
	}
	nbEntries := 1
	for i := 0; i < step; i++ {
		nbEntries *= arith.B13
	}
	entries := make([]TableEntry, nbEntries)
	digits := make([]uint64, step)
	b9Digits := make([]uint64, step)
	for c := range entries {
		rest := c
		for j := 0; j < step; j++ {
			digits[j] = uint64(rest % arith.B13)
			b9Digits[j] = arith.ConvertB13Digit(digits[j])
			rest /= arith.B13
		}
		entries[c] = TableEntry{
			B13:        uint64(c),
			B9:         arith.PackDigits(b9Digits, arith.B9).Uint64(),
			BlockCount: arith.BlockCount(step, digits),
		}
	}
	return entries
}

// Base13toBase9Table is the lookup-argument form of the conversion table: it
// constrains a (base-13 coefficient, base-9 coefficient, block count) triple
// to appear verbatim as one of its rows. The coefficient is the lookup index,
// so a successful lookup also bounds every base-13 digit of the chunk; no
// separate range check exists or is needed.
type Base13toBase9Table struct {
	step  int
	b9    logderivlookup.Table
	count logderivlookup.Table
}

// NewBase13toBase9Table builds the conversion table for chunks of the given
// step. The content is fixed at construction time; a witness triple missing
// from it fails the lookup argument at proof time.
func NewBase13toBase9Table(api frontend.API, step int, opts ...Option) *Base13toBase9Table {
	cfg := newConfig(opts...)
	t := &Base13toBase9Table{
		step:  step,
		b9:    logderivlookup.New(api),
		count: logderivlookup.New(api),
	}
	entries := Base13toBase9Entries(step)
	for _, e := range entries {
		t.b9.Insert(e.B9)
		t.count.Insert(e.BlockCount)
	}
	cfg.log.Debug().Int("step", step).Int("entries", len(entries)).Msg("base13→base9 conversion table")
	return t
}

// Step returns the chunk step the table was built for.
func (t *Base13toBase9Table) Step() int {
	return t.step
}

// Lookup returns the base-9 coefficient and block count of the chunk whose
// base-13 coefficient is b13Coef.
func (t *Base13toBase9Table) Lookup(b13Coef frontend.Variable) (b9Coef, blockCount frontend.Variable) {
	return t.b9.Lookup(b13Coef)[0], t.count.Lookup(b13Coef)[0]
}
