// Package search implements dual-case approximate membership queries
// against a fuzzyindex.Index: Case A (substitution-only, Hamming<=3)
// via the pair index, and Case B (one indel) via the deletion index.
package search

// Context holds the per-query visited-id bookkeeping a Search call
// needs, reused across calls so repeated queries against the same
// index amortize the cost of allocating a fresh mark array. A
// generation counter avoids clearing that array between queries: a
// slot is "visited this phase" exactly when visited[id] equals the
// current generation. This is an explicit, caller-owned value rather
// than process-wide static state, so concurrent searches against the
// same index can each carry their own visited set.
type Context struct {
	visited []uint32
	gen     uint32
}

// NewContext returns a Context sized for an index with `keywordCount`
// entries. Passing a Context sized for a smaller index to Search on a
// larger one is handled by Search itself by growing the buffer.
func NewContext(keywordCount int) *Context {
	return &Context{
		visited: make([]uint32, keywordCount),
		gen:     1,
	}
}

// ensure grows visited to cover at least n ids, starting a fresh
// generation rather than preserving stale marks across a resize.
func (c *Context) ensure(n int) {
	if n <= len(c.visited) {
		return
	}
	c.visited = make([]uint32, n)
	c.gen = 1
}

// nextGen advances to a new generation, resetting the mark array on
// the rare wraparound of the uint32 counter.
func (c *Context) nextGen() uint32 {
	c.gen++
	if c.gen == 0 {
		for i := range c.visited {
			c.visited[i] = 0
		}
		c.gen = 1
	}
	return c.gen
}

// markIfUnseen reports whether id has already been marked in the
// current generation, marking it as seen if not. Used by Case A, which
// marks every candidate it touches before scoring it so a candidate
// reachable through two of the ten pair slots is scored once.
func (c *Context) markIfUnseen(id uint32) bool {
	if c.visited[id] == c.gen {
		return true
	}
	c.visited[id] = c.gen
	return false
}

// seen reports whether id is marked in the current generation, without
// marking it.
func (c *Context) seen(id uint32) bool {
	return c.visited[id] == c.gen
}

// mark marks id in the current generation.
func (c *Context) mark(id uint32) {
	c.visited[id] = c.gen
}
