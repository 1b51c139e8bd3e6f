package csr

import "testing"

func TestBuildConsistency(t *testing.T) {
	// 5 slots, postings: slot0={10,11}, slot2={20}, slot4={30,31,32}
	postings := []struct{ slot, payload uint32 }{
		{0, 10}, {0, 11}, {2, 20}, {4, 30}, {4, 31}, {4, 32},
	}
	tbl := Build(5, func(yield func(slot, payload uint32)) {
		for _, p := range postings {
			yield(p.slot, p.payload)
		}
	})

	if tbl.Offsets[0] != 0 {
		t.Fatalf("Offsets[0] = %d, want 0", tbl.Offsets[0])
	}
	if got := tbl.Offsets[tbl.Slots]; int(got) != len(postings) {
		t.Fatalf("Offsets[slots] = %d, want %d", got, len(postings))
	}

	want := map[uint32][]uint32{
		0: {10, 11},
		1: {},
		2: {20},
		3: {},
		4: {30, 31, 32},
	}
	for slot, exp := range want {
		got := tbl.Postings(slot)
		if len(got) != len(exp) {
			t.Fatalf("slot %d: got %v, want %v", slot, got, exp)
		}
		for i := range exp {
			if got[i] != exp[i] {
				t.Fatalf("slot %d: got %v, want %v", slot, got, exp)
			}
		}
	}
}

func TestFromCountsMatchesBuild(t *testing.T) {
	postings := []struct{ slot, payload uint32 }{
		{1, 100}, {1, 101}, {3, 200},
	}
	built := Build(4, func(yield func(slot, payload uint32)) {
		for _, p := range postings {
			yield(p.slot, p.payload)
		}
	})

	rebuilt := FromCounts(built.Counts, built.Payload)
	for i := range built.Offsets {
		if built.Offsets[i] != rebuilt.Offsets[i] {
			t.Fatalf("offset %d: got %d, want %d", i, rebuilt.Offsets[i], built.Offsets[i])
		}
	}
}

func TestMaxCount(t *testing.T) {
	tbl := Build(3, func(yield func(slot, payload uint32)) {
		yield(0, 1)
		yield(0, 2)
		yield(0, 3)
		yield(2, 9)
	})
	if tbl.MaxCount() != 3 {
		t.Errorf("MaxCount() = %d, want 3", tbl.MaxCount())
	}
}
