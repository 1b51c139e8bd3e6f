// Package csr implements a compressed-sparse-row posting table: a dense
// slot space where each slot's postings occupy a contiguous run of a
// shared payload array, addressed by an offsets array. This is the
// storage primitive both the pair index and the deletion index layer on.
package csr

// Table is an immutable CSR posting table over `Slots` dense slots.
type Table struct {
	Slots int

	// Offsets has length Slots+1. Offsets[s] and Offsets[s+1] delimit
	// the payload run for slot s; the +1 sentinel makes Range O(1).
	Offsets []uint32

	// Counts has length Slots and equals Offsets[s+1]-Offsets[s]. It is
	// redundant with Offsets but is retained (rather than recomputed)
	// because the serializer needs per-slot counts to decide between a
	// 16-bit and 32-bit on-disk width, and recomputing them from
	// Offsets on every save would mean re-diffing the whole array.
	Counts []uint32

	// Payload holds every slot's postings concatenated in slot order.
	Payload []uint32
}

// Range returns the payload slice bounds [begin, end) for slot s.
func (t *Table) Range(s uint32) (begin, end uint32) {
	return t.Offsets[s], t.Offsets[s+1]
}

// Postings returns the payload run for slot s.
func (t *Table) Postings(s uint32) []uint32 {
	b, e := t.Range(s)
	return t.Payload[b:e]
}

// Len returns the number of postings in slot s without slicing.
func (t *Table) Len(s uint32) int {
	return int(t.Offsets[s+1] - t.Offsets[s])
}

// Build constructs a Table over `slots` slots from a stream of
// (slot, payload) postings. `emit` is called twice: first to tally
// per-slot counts, then to scatter postings into their slot's run
// using a scratch cursor copy of Offsets. The cursor is local to this
// call and never escapes it, so Table carries no rebuild state.
func Build(slots int, emit func(yield func(slot, payload uint32))) *Table {
	counts := make([]uint32, slots)
	emit(func(slot, _ uint32) {
		counts[slot]++
	})

	offsets := make([]uint32, slots+1)
	for i, c := range counts {
		offsets[i+1] = offsets[i] + c
	}

	cursor := make([]uint32, slots)
	copy(cursor, offsets[:slots])

	payload := make([]uint32, offsets[slots])
	emit(func(slot, p uint32) {
		payload[cursor[slot]] = p
		cursor[slot]++
	})

	return &Table{
		Slots:   slots,
		Offsets: offsets,
		Counts:  counts,
		Payload: payload,
	}
}

// FromCounts reconstructs a Table's Offsets from a Counts array already
// read from disk, without re-deriving it from a posting stream. Used by
// the deserializer, which stores Counts but not Offsets.
func FromCounts(counts []uint32, payload []uint32) *Table {
	slots := len(counts)
	offsets := make([]uint32, slots+1)
	for i, c := range counts {
		offsets[i+1] = offsets[i] + c
	}
	return &Table{
		Slots:   slots,
		Offsets: offsets,
		Counts:  counts,
		Payload: payload,
	}
}

// MaxCount returns the largest per-slot count, used by the serializer
// to decide between a 16-bit and 32-bit count width.
func (t *Table) MaxCount() uint32 {
	var max uint32
	for _, c := range t.Counts {
		if c > max {
			max = c
		}
	}
	return max
}
