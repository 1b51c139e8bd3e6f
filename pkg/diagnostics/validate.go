// Package diagnostics checks the structural invariants of a
// fuzzyindex.Index that must hold after Finalize but are never touched
// by the search hot path: every keyword id appears exactly PairCount
// times across the pair index and exactly 2*KeywordLen times across
// the deletion index, and the on-disk payload never references an id
// outside [0, N). Validate is for build-time and CI checks, not
// search; it is allowed to allocate and walk every slot.
package diagnostics

import (
	"fmt"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/nibblematch/levdex/pkg/codec"
	"github.com/nibblematch/levdex/pkg/csr"
	"github.com/nibblematch/levdex/pkg/delindex"
	"github.com/nibblematch/levdex/pkg/pairindex"
)

// Report summarizes a Validate run. A zero-value Report (empty
// BadPairCoverage/BadDelCoverage, no OutOfRange) means the index is
// structurally sound.
type Report struct {
	KeywordCount int

	// Covered is the set of in-range ids reachable from at least one
	// pair-index or deletion-index slot, as a bitmap rather than a bool slice: the reference's own
	// dual-mode posting lists switch to a roaring bitmap once a set
	// grows past a few hundred entries, and a validation pass over a
	// real index is exactly that regime.
	Covered *roaring.Bitmap

	// BadPairCoverage holds ids whose pair-index posting count is not
	// exactly pairindex.PairCount.
	BadPairCoverage []uint32

	// BadDelCoverage holds ids whose deletion-index posting count is
	// not exactly 2*codec.KeywordLen.
	BadDelCoverage []uint32

	// OutOfRange holds raw payload values seen in either table whose
	// decoded id falls outside [0, KeywordCount).
	OutOfRange []uint32
}

// OK reports whether the index passed every check.
func (r *Report) OK() bool {
	return len(r.BadPairCoverage) == 0 && len(r.BadDelCoverage) == 0 && len(r.OutOfRange) == 0
}

// Validate walks pair and del's postings and tallies per-id coverage
// against keywordCount, the number of keywords the index claims to hold.
func Validate(keywordCount int, pair, del *csr.Table) *Report {
	r := &Report{
		KeywordCount: keywordCount,
		Covered:      roaring.New(),
	}

	pairCounts := make([]int, keywordCount)
	for s := 0; s < pair.Slots; s++ {
		for _, id := range pair.Postings(uint32(s)) {
			if int(id) >= keywordCount {
				r.OutOfRange = append(r.OutOfRange, id)
				continue
			}
			pairCounts[id]++
			r.Covered.Add(id)
		}
	}
	for id, c := range pairCounts {
		if c != pairindex.PairCount {
			r.BadPairCoverage = append(r.BadPairCoverage, uint32(id))
		}
	}

	delCounts := make([]int, keywordCount)
	for s := 0; s < del.Slots; s++ {
		for _, v := range del.Postings(uint32(s)) {
			id, _ := delindex.Unpack(v)
			if int(id) >= keywordCount {
				r.OutOfRange = append(r.OutOfRange, v)
				continue
			}
			delCounts[id]++
			r.Covered.Add(id)
		}
	}
	for id, c := range delCounts {
		if c != 2*codec.KeywordLen {
			r.BadDelCoverage = append(r.BadDelCoverage, uint32(id))
		}
	}

	return r
}

// Summary renders a one-line human-readable result, suitable for a CLI
// driver's stderr output.
func (r *Report) Summary() string {
	if r.OK() {
		return fmt.Sprintf("ok: %d keywords, %d covered", r.KeywordCount, r.Covered.GetCardinality())
	}
	return fmt.Sprintf("FAILED: %d keywords, %d covered, %d bad-pair, %d bad-del, %d out-of-range",
		r.KeywordCount, r.Covered.GetCardinality(), len(r.BadPairCoverage), len(r.BadDelCoverage), len(r.OutOfRange))
}
