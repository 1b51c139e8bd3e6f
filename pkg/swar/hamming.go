// Package swar computes Hamming distance between nibble-packed codes
// using SIMD-within-a-register bit tricks instead of a per-symbol loop.
package swar

import "math/bits"

// mask15 has bit 0 of every nibble set, matching a KeywordLen=15 packed
// code: the codes being compared are guaranteed zero above bit 60, so
// the mask's 16th nibble never contributes a set bit.
const mask15 = 0x1111111111111111

// mask14 has bit 0 of each of the low 14 nibbles set (56 bits used),
// matching a packed code produced by codec.Delete.
const mask14 = 0x11111111111111

// Nibbles15 and Nibbles14 select the mask HammingNib applies; they
// exist only so callers can't transpose a 15-symbol and a 14-symbol
// comparison by passing a bare int.
type Nibbles int

const (
	Nibbles15 Nibbles = 15
	Nibbles14 Nibbles = 14
)

// HammingNib returns the number of differing nibbles between a and b,
// restricted to the low `n` nibbles. Both inputs must already be zero
// above bit 4*n; codec.Encode and codec.Delete guarantee this.
func HammingNib(a, b uint64, n Nibbles) int {
	x := a ^ b
	x |= x >> 1
	x |= x >> 2
	switch n {
	case Nibbles14:
		x &= mask14
	default:
		x &= mask15
	}
	return bits.OnesCount64(x)
}
