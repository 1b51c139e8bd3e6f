// Package delindex implements Case B of the dual-case index: the
// single-indel branch. Deleting one symbol from both query and word
// reduces an edit distance of indel=1 (one insertion, one deletion,
// optionally one substitution) to 2 plus the Hamming distance of the
// two resulting 14-symbol strings. Splitting the 14 symbols into a left
// and a right 7-symbol half and indexing both halves under the same key
// space recovers w whenever the two deleted strings still agree on one
// half, which leaves a known shift-pattern gap documented in DESIGN.md.
package delindex

import (
	"github.com/nibblematch/levdex/pkg/codec"
	"github.com/nibblematch/levdex/pkg/csr"
)

// HalfLen is the width of each half of a post-deletion 14-symbol string.
const HalfLen = 7

// KeySpace is KB: the number of distinct 7-symbol keys.
const KeySpace = 10_000_000

// MaxID is the largest keyword id the 20-bit id field can hold.
const MaxID = 1<<20 - 1

// base10Key7 interprets a 7-byte slice over {A..J} as a base-10
// integer, least-significant digit first.
func base10Key7(b []byte) uint32 {
	var v, mul uint32 = 0, 1
	for i := 0; i < HalfLen; i++ {
		v += (uint32(b[i]-'A') & 0xF) * mul
		mul *= 10
	}
	return v
}

// Pack combines a keyword id and a deletion position into the 24-bit
// payload this index stores: id occupies bits [0,20), pos bits [20,24).
func Pack(id uint32, pos int) uint32 {
	return (id & 0xFFFFF) | (uint32(pos) << 20)
}

// Unpack splits a packed payload back into its id and deletion position.
func Unpack(v uint32) (id uint32, pos int) {
	return v & 0xFFFFF, int((v >> 20) & 0xF)
}

// Halves returns the left and right 7-symbol keys of the 14-symbol
// string obtained by deleting w[pos].
func Halves(w []byte, pos int) (left, right [HalfLen]byte) {
	var buf [codec.KeywordLen - 1]byte
	k := 0
	for i := 0; i < codec.KeywordLen; i++ {
		if i == pos {
			continue
		}
		buf[k] = w[i]
		k++
	}
	copy(left[:], buf[:HalfLen])
	copy(right[:], buf[HalfLen:])
	return left, right
}

// Slots returns the left and right dense slots for word w with symbol
// pos deleted.
func Slots(w []byte, pos int) (left, right uint32) {
	l, r := Halves(w, pos)
	return base10Key7(l[:]), base10Key7(r[:])
}

// Build constructs the CSR table over KeySpace slots from `words`,
// where words[i] is the raw KeywordLen-byte word for keyword id i.
// Every (word, deletion position) pair emits a posting into both its
// left-7 and right-7 slot, so exactly 2*KeywordLen postings reference
// each id.
func Build(words [][]byte) *csr.Table {
	return csr.Build(KeySpace, func(yield func(slot, payload uint32)) {
		for id, w := range words {
			for pos := 0; pos < codec.KeywordLen; pos++ {
				left, right := Slots(w, pos)
				packed := Pack(uint32(id), pos)
				yield(left, packed)
				yield(right, packed)
			}
		}
	})
}
