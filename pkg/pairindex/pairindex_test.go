package pairindex

import "testing"

func TestSlotWithinKeySpace(t *testing.T) {
	w := []byte("ABCDEFGHIJABCDE")
	for p := 0; p < PairCount; p++ {
		s := Slot(w, p)
		if s < uint32(p)*KeySpace || s >= uint32(p+1)*KeySpace {
			t.Errorf("pair %d: slot %d outside its key-space band", p, s)
		}
	}
}

func TestSlotDeterministic(t *testing.T) {
	w := []byte("ABCDEFGHIJABCDE")
	for p := 0; p < PairCount; p++ {
		if Slot(w, p) != Slot(append([]byte{}, w...), p) {
			t.Errorf("pair %d: slot not deterministic", p)
		}
	}
}

func TestBuildCoverage(t *testing.T) {
	words := [][]byte{
		[]byte("ABCDEFGHIJABCDE"),
		[]byte("BBBBBBBBBBBBBBB"),
		[]byte("CCCCCCCCCCCCCCC"),
	}
	tbl := Build(words)

	counts := make(map[uint32]int)
	for id, w := range words {
		for p := 0; p < PairCount; p++ {
			counts[uint32(id)]++
			_ = w
		}
	}

	seen := make(map[uint32]int)
	for s := 0; s < tbl.Slots; s++ {
		for _, id := range tbl.Postings(uint32(s)) {
			seen[id]++
		}
	}
	for id, want := range counts {
		if seen[id] != want {
			t.Errorf("id %d: got %d postings, want %d", id, seen[id], want)
		}
	}
}

func TestBase10KeyOrdering(t *testing.T) {
	// Least-significant digit is position 0: "BAAAAA" -> digit0='B'=1.
	v := base10Key6([]byte("BAAAAA"))
	if v != 1 {
		t.Errorf("base10Key6(BAAAAA) = %d, want 1", v)
	}
	// "ABAAAA" -> digit1='B'=1 -> value 10.
	v = base10Key6([]byte("ABAAAA"))
	if v != 10 {
		t.Errorf("base10Key6(ABAAAA) = %d, want 10", v)
	}
}
