package delindex

import "testing"

func TestPackUnpackRoundTrip(t *testing.T) {
	cases := []struct {
		id  uint32
		pos int
	}{
		{0, 0}, {1, 14}, {999999, 7}, {MaxID, 3},
	}
	for _, c := range cases {
		packed := Pack(c.id, c.pos)
		id, pos := Unpack(packed)
		if id != c.id || pos != c.pos {
			t.Errorf("Pack/Unpack(%d,%d) round-tripped to (%d,%d)", c.id, c.pos, id, pos)
		}
	}
}

func TestHalvesSplit(t *testing.T) {
	w := []byte("ABCDEFGHIJABCDE")
	left, right := Halves(w, 7) // delete 'H' at index 7
	want14 := "ABCDEFGIJABCDE"
	if string(left[:]) != want14[:7] {
		t.Errorf("left = %q, want %q", left, want14[:7])
	}
	if string(right[:]) != want14[7:] {
		t.Errorf("right = %q, want %q", right, want14[7:])
	}
}

func TestSlotsWithinKeySpace(t *testing.T) {
	w := []byte("ABCDEFGHIJABCDE")
	for pos := 0; pos < 15; pos++ {
		l, r := Slots(w, pos)
		if l >= KeySpace || r >= KeySpace {
			t.Errorf("pos %d: slot out of range: left=%d right=%d", pos, l, r)
		}
	}
}

func TestBuildCoverage(t *testing.T) {
	words := [][]byte{
		[]byte("ABCDEFGHIJABCDE"),
		[]byte("BBBBBBBBBBBBBBB"),
	}
	tbl := Build(words)

	seen := make(map[uint32]int)
	delPosSeen := make(map[uint32]map[int]int)
	for s := 0; s < tbl.Slots; s++ {
		for _, v := range tbl.Postings(uint32(s)) {
			id, pos := Unpack(v)
			seen[id]++
			if delPosSeen[id] == nil {
				delPosSeen[id] = make(map[int]int)
			}
			delPosSeen[id][pos]++
		}
	}

	for id := range words {
		if seen[uint32(id)] != 30 { // 2*KeywordLen
			t.Errorf("id %d: got %d postings, want 30", id, seen[uint32(id)])
		}
		for pos := 0; pos < 15; pos++ {
			if delPosSeen[uint32(id)][pos] != 2 {
				t.Errorf("id %d pos %d: got %d occurrences, want 2", id, pos, delPosSeen[uint32(id)][pos])
			}
		}
	}
}
