package alloc

import "fmt"

const (
	numPages = SpaceSize / PageSize // one bit per 32KB page
	wordSize = 64
	numWords = numPages / wordSize
)

// pageset is a bitset with one bit per page of the address space. Zero value
// is an empty set (all pages free).
type pageset struct {
	words [numWords]uint64
}

func (b *pageset) set(i uint) {
	b.words[i/wordSize] |= 1 << (i % wordSize)
}

func (b *pageset) test(i uint) bool {
	return (b.words[i/wordSize] & (1 << (i % wordSize))) != 0
}

// rangeMask returns the mask of bits [lo, hi] within a single word.
func rangeMask(lo, hi uint) uint64 {
	return ((uint64(1) << (hi - lo + 1)) - 1) << lo
}

// forRange calls fn for each word covering the half-open interval
// [start, end), with the mask of the bits of that word in the interval.
// It stops as soon as fn returns false.
func forRange(start, end uint, fn func(w uint, mask uint64) bool) {
	if start >= end || end > numPages {
		panic(fmt.Sprintf("invalid page range [%d, %d)", start, end))
	}
	startWord, endWord := start/wordSize, (end-1)/wordSize
	startBit, endBit := start%wordSize, (end-1)%wordSize

	if startWord == endWord {
		fn(startWord, rangeMask(startBit, endBit))
		return
	}
	if !fn(startWord, ^uint64(0)<<startBit) {
		return
	}
	for i := startWord + 1; i < endWord; i++ {
		if !fn(i, ^uint64(0)) {
			return
		}
	}
	fn(endWord, rangeMask(0, endBit))
}

// setRange sets all bits in the half-open interval [start, end).
func (b *pageset) setRange(start, end uint) {
	forRange(start, end, func(w uint, mask uint64) bool {
		b.words[w] |= mask
		return true
	})
}

// anyInRange reports whether any bit in [start, end) is set.
func (b *pageset) anyInRange(start, end uint) bool {
	found := false
	forRange(start, end, func(w uint, mask uint64) bool {
		found = b.words[w]&mask != 0
		return !found
	})
	return found
}

// count returns the number of set bits.
func (b *pageset) count() int {
	n := 0
	for _, w := range b.words {
		for ; w != 0; w &= w - 1 {
			n++
		}
	}
	return n
}
