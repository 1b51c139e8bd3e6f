package search

import (
	"sort"

	"github.com/nibblematch/levdex/pkg/codec"
	"github.com/nibblematch/levdex/pkg/delindex"
	"github.com/nibblematch/levdex/pkg/fuzzyindex"
	"github.com/nibblematch/levdex/pkg/pairindex"
	"github.com/nibblematch/levdex/pkg/swar"
)

// Search reports whether idx contains a keyword within edit distance k
// (k<=3) of query. A query whose length isn't codec.KeywordLen can
// never match and is rejected outright; query is otherwise assumed to
// be over the {A..J} alphabet, same as fuzzyindex.Insert assumes for
// indexed words.
//
// Phase A probes the 10 pair slots query falls into, in ascending
// posting-length order so a short, unlikely-to-match slot never stalls
// behind a long one; any candidate found within Hamming<=k of query
// answers the whole query (Case A is exact: Hamming<=3 implies
// edit-distance<=3). Phase B then tries all 15 single-symbol deletions
// of query against the deletion index's matching halves, each
// candidate needing only a 14-symbol Hamming check plus the fixed
// 2-edit cost of the two deletions that produced it. Phase A marks every
// id it touches in ctx, so a candidate reachable through more than one
// pair slot is scored only once; Phase B marks an id only when it
// matches, so a candidate that misses at one deletion position is
// scored again at the others.
func Search(ctx *Context, idx *fuzzyindex.Index, query []byte, k int) bool {
	if len(query) != codec.KeywordLen {
		return false
	}
	ctx.ensure(idx.Len())
	qcode := codec.Encode(query)

	if searchCaseA(ctx, idx, query, qcode, k) {
		return true
	}
	return searchCaseB(ctx, idx, query, qcode, k)
}

type pairCandidate struct {
	slot uint32
	len  int
}

func searchCaseA(ctx *Context, idx *fuzzyindex.Index, query []byte, qcode uint64, k int) bool {
	ctx.nextGen()

	var slots [pairindex.PairCount]uint32
	pairindex.Slots10(query, &slots)

	cands := make([]pairCandidate, pairindex.PairCount)
	for p, s := range slots {
		cands[p] = pairCandidate{slot: s, len: idx.Pair.Len(s)}
	}
	sort.Slice(cands, func(i, j int) bool { return cands[i].len < cands[j].len })

	for _, c := range cands {
		if c.len == 0 {
			continue
		}
		for _, id := range idx.Pair.Postings(c.slot) {
			if ctx.markIfUnseen(id) {
				continue
			}
			hd := swar.HammingNib(qcode, idx.Code(id), swar.Nibbles15)
			if hd <= k {
				return true
			}
		}
	}
	return false
}

func searchCaseB(ctx *Context, idx *fuzzyindex.Index, query []byte, qcode uint64, k int) bool {
	ctx.nextGen()

	for pos := 0; pos < codec.KeywordLen; pos++ {
		qdelCode := codec.Delete(qcode, pos)
		left, right := delindex.Slots(query, pos)

		if searchHalf(ctx, idx, idx.Del.Postings(left), qdelCode, k) {
			return true
		}
		if searchHalf(ctx, idx, idx.Del.Postings(right), qdelCode, k) {
			return true
		}
	}
	return false
}

func searchHalf(ctx *Context, idx *fuzzyindex.Index, postings []uint32, qdelCode uint64, k int) bool {
	for _, v := range postings {
		id, delPos := delindex.Unpack(v)
		if ctx.seen(id) {
			continue
		}
		kwdelCode := codec.Delete(idx.Code(id), delPos)
		hd14 := swar.HammingNib(qdelCode, kwdelCode, swar.Nibbles14)
		if 2+hd14 <= k {
			ctx.mark(id)
			return true
		}
	}
	return false
}
