// Package fuzzyindex is the top-level dual-case index: it owns the raw
// keyword bytes, their nibble codes, and the pair and deletion CSR
// tables that together answer approximate membership queries. An Index
// is either Collecting (accepting Insert calls) or Finalized
// (immutable, searchable).
package fuzzyindex

import (
	"golang.org/x/sync/errgroup"

	"github.com/nibblematch/levdex/pkg/codec"
	"github.com/nibblematch/levdex/pkg/csr"
	"github.com/nibblematch/levdex/pkg/delindex"
	"github.com/nibblematch/levdex/pkg/pairindex"
)

const initCapacity = 1024

// State distinguishes a mutable, insert-only index from an immutable,
// searchable one.
type State int

const (
	Collecting State = iota
	Finalized
)

// Index is the dual-case approximate-membership structure. The zero
// value is not usable; construct one with Create or Deserialize.
type Index struct {
	state State

	words [][]byte // each codec.KeywordLen bytes, no NUL; owned, append-only while Collecting
	codes []uint64 // codes[i] = codec.Encode(words[i])

	Pair *csr.Table // Case A: nil until Finalize
	Del  *csr.Table // Case B: nil until Finalize
}

// Create returns a new Collecting index with room for at least
// `capacity` keywords (minimum 1024, matching the reference's initial
// allocation).
func Create(capacity int) *Index {
	if capacity < initCapacity {
		capacity = initCapacity
	}
	return &Index{
		state: Collecting,
		words: make([][]byte, 0, capacity),
		codes: make([]uint64, 0, capacity),
	}
}

// Insert appends a keyword, assigning it the next dense id in insertion
// order. Called only while Collecting; a nil or wrong-length word is
// silently ignored, leaving length filtering to the caller. Inserting
// after Finalize is caller misuse and its effect is unspecified; this
// implementation still records the word but leaves Pair/Del stale,
// matching the reference's "silently accepts and breaks invariants"
// policy.
func (idx *Index) Insert(w []byte) {
	if len(w) != codec.KeywordLen {
		return
	}
	word := make([]byte, codec.KeywordLen)
	copy(word, w)
	idx.words = append(idx.words, word)
	idx.codes = append(idx.codes, codec.Encode(word))
}

// Len returns N, the number of keywords inserted so far.
func (idx *Index) Len() int {
	return len(idx.words)
}

// State reports whether the index still accepts Insert calls.
func (idx *Index) State() State {
	return idx.state
}

// Word returns the raw keyword bytes for id.
func (idx *Index) Word(id uint32) []byte {
	return idx.words[id]
}

// Code returns the packed nibble code for id.
func (idx *Index) Code(id uint32) uint64 {
	return idx.codes[id]
}

// Finalize transitions a Collecting index to Finalized, building the
// pair index and deletion index. The two tables read the same
// immutable words slice and write disjoint CSR tables, so they build
// concurrently; errgroup.Group carries no error here (the builders are
// pure and allocation failure is left to the Go runtime to surface),
// but keeps the shape for a future fallible builder.
func (idx *Index) Finalize() {
	if idx.state == Finalized {
		return
	}
	var g errgroup.Group
	g.Go(func() error {
		idx.Pair = pairindex.Build(idx.words)
		return nil
	})
	g.Go(func() error {
		idx.Del = delindex.Build(idx.words)
		return nil
	})
	_ = g.Wait()
	idx.state = Finalized
}
