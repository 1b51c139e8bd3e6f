package diagnostics

import (
	"testing"

	"github.com/nibblematch/levdex/pkg/delindex"
	"github.com/nibblematch/levdex/pkg/pairindex"
)

func TestValidateSoundIndex(t *testing.T) {
	words := [][]byte{
		[]byte("ABCDEFGHIJABCDE"),
		[]byte("BBBBBBBBBBBBBBB"),
		[]byte("CCCCCCCCCCCCCCC"),
	}
	pair := pairindex.Build(words)
	del := delindex.Build(words)

	r := Validate(len(words), pair, del)
	if !r.OK() {
		t.Fatalf("Validate reported failures on a sound index: %s", r.Summary())
	}
	if int(r.Covered.GetCardinality()) != len(words) {
		t.Errorf("Covered cardinality = %d, want %d", r.Covered.GetCardinality(), len(words))
	}
}

func TestValidateDetectsOutOfRangePayload(t *testing.T) {
	words := [][]byte{[]byte("ABCDEFGHIJABCDE")}
	pair := pairindex.Build(words)
	del := delindex.Build(words)

	// Corrupt one pair-index posting to reference a nonexistent id.
	pair.Payload[0] = 999999

	r := Validate(len(words), pair, del)
	if r.OK() {
		t.Fatal("Validate did not detect an out-of-range payload entry")
	}
	if len(r.OutOfRange) != 1 || r.OutOfRange[0] != 999999 {
		t.Errorf("OutOfRange = %v, want [999999]", r.OutOfRange)
	}
	if len(r.BadPairCoverage) == 0 {
		t.Error("BadPairCoverage empty, want id 0 flagged for its missing posting")
	}
}
