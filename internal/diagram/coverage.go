package diagram

import "sort"

type span struct {
	start int
	end   int
}

// Coverage records the byte ranges of a document claimed by fences.
// It is filled during the fence pass and only queried afterwards.
type Coverage struct {
	spans []span
}

// Claim marks [start, end) as covered. Claimed ranges must not overlap each
// other, which holds for fences.
func (c *Coverage) Claim(start, end int) {
	if start >= end {
		return
	}

	idx := sort.Search(len(c.spans), func(i int) bool { return c.spans[i].start >= start })

	c.spans = append(c.spans, span{})
	copy(c.spans[idx+1:], c.spans[idx:])
	c.spans[idx] = span{start: start, end: end}
}

// Overlaps reports whether any offset of [start, end) is covered.
func (c *Coverage) Overlaps(start, end int) bool {
	if c == nil || start >= end {
		return false
	}

	idx := sort.Search(len(c.spans), func(i int) bool { return c.spans[i].end > start })

	return idx < len(c.spans) && c.spans[idx].start < end
}

// Covered reports whether offset is covered.
func (c *Coverage) Covered(offset int) bool {
	return c.Overlaps(offset, offset+1)
}
