// Package alloc places modules into the 32MB multicart address space.
//
// A module is always placed at an offset that is a multiple of its own size,
// and each 2MB bank can host at most one module that uses a save slot, since
// the cartridge maps one 32KB save slot per bank.
package alloc

import (
	"bytes"
	"fmt"
)

const (
	SpaceSize = 0x2000000 // 32MB
	BankSize  = 0x200000  // 2MB
	NumBanks  = SpaceSize / BankSize
	PageSize  = 0x8000 // smallest module size, and occupancy granularity
	Fill      = 0xFF
)

// Space tracks which parts of the address space are used.
type Space struct {
	pages    pageset
	saveUsed [NumBanks]bool
}

// checkRegion panics if [off, off+size) isn't a page-aligned region inside
// the address space.
func checkRegion(off, size uint32) {
	if size == 0 || off%PageSize != 0 || size%PageSize != 0 || uint64(off)+uint64(size) > SpaceSize {
		panic(fmt.Sprintf("invalid region 0x%X+0x%X", off, size))
	}
}

// Fits reports whether [off, off+size) lies inside the address space.
func Fits(off, size uint32) bool {
	return uint64(off)+uint64(size) <= SpaceSize
}

// Free reports whether no page of [off, off+size) is occupied.
func (s *Space) Free(off, size uint32) bool {
	checkRegion(off, size)
	return !s.pages.anyInRange(uint(off/PageSize), uint((off+size)/PageSize))
}

// Occupy marks [off, off+size) as used.
func (s *Space) Occupy(off, size uint32) {
	checkRegion(off, size)
	s.pages.setRange(uint(off/PageSize), uint((off+size)/PageSize))
}

// Reserve marks the region holding n bytes at off as used, rounding n up
// to a whole number of pages.
func (s *Space) Reserve(off uint32, n int) {
	size := (uint32(n) + PageSize - 1) &^ (PageSize - 1)
	s.Occupy(off, size)
}

// SaveUsed reports whether bank already hosts a module with a save slot.
func (s *Space) SaveUsed(bank int) bool { return s.saveUsed[bank] }

func (s *Space) useSave(bank int) { s.saveUsed[bank] = true }

// Used returns the number of occupied bytes.
func (s *Space) Used() int {
	return s.pages.count() * PageSize
}

// BankOf returns the index of the bank containing off.
func BankOf(off uint32) int {
	return int(off / BankSize)
}

// FillFree is the legacy free-region test: a region is free if all of its
// bytes still hold the fill value. It gives false positives on images ending
// with whole pages of fill bytes; Space is authoritative.
func FillFree(buf []byte, off, size uint32) bool {
	if !Fits(off, size) || int(off+size) > len(buf) {
		return false
	}
	region := buf[off : off+size]
	return bytes.Count(region, []byte{Fill}) == len(region)
}
