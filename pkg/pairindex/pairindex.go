// Package pairindex implements Case A of the dual-case index: the
// substitution-only branch. A 15-symbol word is split into 5 blocks of
// 3 symbols; by pigeonhole, any word within Hamming distance 3 of a
// query shares at least 2 of the 5 blocks, so indexing every unordered
// pair of blocks yields a superset of the true positives with no false
// negatives.
package pairindex

import (
	"github.com/nibblematch/levdex/pkg/csr"
)

// BlockLen is the width of each of the 5 blocks a keyword splits into.
const BlockLen = 3

// NumBlocks is B: the number of blocks a keyword splits into.
const NumBlocks = 5

// PairCount is P = C(5,2): the number of unordered block pairs.
const PairCount = 10

// KeySpace is KA: the number of distinct 6-symbol pair keys.
const KeySpace = 1_000_000

// Slots is the total slot space spanning all 10 pair tables.
const Slots = PairCount * KeySpace

// pairSpec names the two block indices a pair slot is keyed on.
type pairSpec struct{ alpha, beta int }

// pairs is the fixed table of (alpha, beta) block-index pairs, in the
// fixed order.
var pairs = [PairCount]pairSpec{
	{0, 1}, {0, 2}, {0, 3}, {0, 4},
	{1, 2}, {1, 3}, {1, 4},
	{2, 3}, {2, 4},
	{3, 4},
}

// base10Key6 interprets a 6-byte slice over {A..J} as a base-10
// integer, least-significant digit first.
func base10Key6(b []byte) uint32 {
	var v, mul uint32 = 0, 1
	for i := 0; i < 6; i++ {
		v += (uint32(b[i]-'A') & 0xF) * mul
		mul *= 10
	}
	return v
}

// Slot returns the dense pair slot for word w and pair index p.
func Slot(w []byte, p int) uint32 {
	spec := pairs[p]
	var key [6]byte
	copy(key[:3], w[spec.alpha*BlockLen:spec.alpha*BlockLen+BlockLen])
	copy(key[3:], w[spec.beta*BlockLen:spec.beta*BlockLen+BlockLen])
	return base10Key6(key[:]) + uint32(p)*KeySpace
}

// Slots10 fills out with the PairCount slots for word w, one per pair.
func Slots10(w []byte, out *[PairCount]uint32) {
	for p := 0; p < PairCount; p++ {
		out[p] = Slot(w, p)
	}
}

// Build constructs the CSR table over all PairCount*KeySpace slots from
// `words`, where words[i] is the raw KeywordLen-byte word for keyword
// id i. Exactly PairCount postings reference each id.
func Build(words [][]byte) *csr.Table {
	return csr.Build(Slots, func(yield func(slot, payload uint32)) {
		for id, w := range words {
			for p := 0; p < PairCount; p++ {
				yield(Slot(w, p), uint32(id))
			}
		}
	})
}
