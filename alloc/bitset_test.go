package alloc

import (
	"math/rand/v2"
	"testing"
)

func TestPagesetRanges(t *testing.T) {
	var b pageset

	for range 10000 {
		start := rand.UintN(numPages)
		end := rand.UintN(numPages)
		if start > end {
			start, end = end, start
		}
		if start == end {
			if start == 0 {
				end++
			} else {
				start--
			}
		}

		b = pageset{}
		b.setRange(start, end)
		for i := range uint(numPages) {
			inRange := i >= start && i < end
			if b.test(i) != inRange {
				t.Fatalf("[%d, %d): bit %d = %t", start, end, i, b.test(i))
			}
		}
		if got := b.count(); got != int(end-start) {
			t.Fatalf("[%d, %d): count() = %d", start, end, got)
		}
		if start > 0 && b.anyInRange(0, start) {
			t.Fatalf("[%d, %d): anyInRange(0, %d) = true", start, end, start)
		}
		if !b.anyInRange(start, start+1) || !b.anyInRange(end-1, numPages) {
			t.Fatalf("[%d, %d): anyInRange misses set bits", start, end)
		}
	}
}

func TestSpaceOccupy(t *testing.T) {
	var s Space
	if !s.Free(0x200000, 0x200000) {
		t.Fatalf("empty space not free")
	}
	s.Occupy(0x300000, 0x8000)
	if s.Free(0x200000, 0x200000) {
		t.Errorf("Free() = true on a region containing a used page")
	}
	if !s.Free(0x308000, 0x8000) || !s.Free(0x2F8000, 0x8000) {
		t.Errorf("neighbour pages should be free")
	}
	s.Reserve(0, 0x4001)
	if s.Free(0, 0x8000) || !s.Free(0x8000, 0x8000) {
		t.Errorf("Reserve() should round up to one page")
	}
	if s.Used() != 0x10000 {
		t.Errorf("Used() = 0x%X, want 0x10000", s.Used())
	}
}
