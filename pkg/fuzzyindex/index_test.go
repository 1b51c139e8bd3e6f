package fuzzyindex

import "testing"

func TestCreateMinimumCapacity(t *testing.T) {
	idx := Create(4)
	if cap(idx.words) < initCapacity {
		t.Errorf("Create(4) gave capacity %d, want at least %d", cap(idx.words), initCapacity)
	}
}

func TestInsertRejectsWrongLength(t *testing.T) {
	idx := Create(0)
	idx.Insert([]byte("TOOSHORT"))
	if idx.Len() != 0 {
		t.Errorf("Insert accepted a wrong-length word, Len() = %d", idx.Len())
	}
}

func TestInsertAssignsDenseIDs(t *testing.T) {
	idx := Create(0)
	words := []string{
		"ABCDEFGHIJABCDE",
		"BBBBBBBBBBBBBBB",
		"CCCCCCCCCCCCCCC",
	}
	for _, w := range words {
		idx.Insert([]byte(w))
	}
	if idx.Len() != len(words) {
		t.Fatalf("Len() = %d, want %d", idx.Len(), len(words))
	}
	for id, w := range words {
		if string(idx.Word(uint32(id))) != w {
			t.Errorf("Word(%d) = %q, want %q", id, idx.Word(uint32(id)), w)
		}
	}
}

func TestFinalizeBuildsBothTables(t *testing.T) {
	idx := Create(0)
	idx.Insert([]byte("ABCDEFGHIJABCDE"))
	idx.Insert([]byte("BBBBBBBBBBBBBBB"))
	idx.Finalize()

	if idx.State() != Finalized {
		t.Fatalf("State() = %v, want Finalized", idx.State())
	}
	if idx.Pair == nil || idx.Del == nil {
		t.Fatal("Finalize left Pair or Del nil")
	}

	var sawPair, sawDel bool
	for s := 0; s < idx.Pair.Slots; s++ {
		if idx.Pair.Len(uint32(s)) > 0 {
			sawPair = true
			break
		}
	}
	for s := 0; s < idx.Del.Slots; s++ {
		if idx.Del.Len(uint32(s)) > 0 {
			sawDel = true
			break
		}
	}
	if !sawPair || !sawDel {
		t.Errorf("Finalize produced empty tables: pair=%v del=%v", sawPair, sawDel)
	}
}

func TestFinalizeIsIdempotent(t *testing.T) {
	idx := Create(0)
	idx.Insert([]byte("ABCDEFGHIJABCDE"))
	idx.Finalize()
	pair := idx.Pair
	idx.Finalize()
	if idx.Pair != pair {
		t.Error("second Finalize rebuilt Pair")
	}
}
