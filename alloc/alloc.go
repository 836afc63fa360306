package alloc

import (
	"cmp"
	"slices"

	"multirom/log"
	"multirom/romset"
)

// Reason tells why a module could not be placed.
type Reason int

const (
	ReasonNone Reason = iota
	ReasonNoSaveBank
	ReasonSpaceExhausted
)

func (r Reason) String() string {
	switch r {
	case ReasonNoSaveBank:
		return "no eligible save bank"
	case ReasonSpaceExhausted:
		return "address space exhausted"
	}
	return "none"
}

// NoBank is the bank of placements without a save slot.
const NoBank = -1

type Placement struct {
	Module *romset.Module
	Offset uint32
	Bank   int // save slot bank, or NoBank
}

type Rejection struct {
	Module *romset.Module
	Reason Reason
}

type Result struct {
	Placed   []Placement // in placement order
	Rejected []Rejection
}

// ByIndex returns the placements ordered by module discovery index.
func (r *Result) ByIndex() []Placement {
	ps := slices.Clone(r.Placed)
	slices.SortFunc(ps, func(a, b Placement) int {
		return cmp.Compare(a.Module.Index, b.Module.Index)
	})
	return ps
}

// Allocate places mods into space, smallest first (ties broken by discovery
// index), modules with a save slot before all the others. Modules are never
// modified; the ones that can't be placed are returned as rejections.
func Allocate(space *Space, mods []*romset.Module) Result {
	sorted := slices.Clone(mods)
	slices.SortFunc(sorted, func(a, b *romset.Module) int {
		if c := cmp.Compare(a.Size, b.Size); c != 0 {
			return c
		}
		return cmp.Compare(a.Index, b.Index)
	})

	var res Result
	for _, m := range sorted {
		if !m.HasSave() {
			continue
		}
		if p, ok := placeSave(space, m); ok {
			res.Placed = append(res.Placed, p)
		} else {
			res.reject(m, ReasonNoSaveBank)
		}
	}
	for _, m := range sorted {
		if m.HasSave() {
			continue
		}
		if p, ok := placePlain(space, m); ok {
			res.Placed = append(res.Placed, p)
		} else {
			res.reject(m, ReasonSpaceExhausted)
		}
	}
	return res
}

func (res *Result) reject(m *romset.Module, r Reason) {
	log.ModAlloc.WarnZ("can't place module").
		String("title", m.Title).
		Stringer("size", m.Size).
		Stringer("reason", r).
		End()
	res.Rejected = append(res.Rejected, Rejection{Module: m, Reason: r})
}

// saveCandidates returns the offsets tried for a module with a save slot:
// the base of each bank, except the first one which is the module size
// itself since offset 0 holds the menu.
func saveCandidates(size uint32) [NumBanks]uint32 {
	var cands [NumBanks]uint32
	for i := range cands {
		cands[i] = uint32(i) * BankSize
	}
	cands[0] = size
	return cands
}

func placeSave(space *Space, m *romset.Module) (Placement, bool) {
	size := uint32(m.Size)
	for _, pos := range saveCandidates(size) {
		bank := BankOf(pos)
		if space.SaveUsed(bank) {
			continue
		}
		if pos%size != 0 {
			continue
		}
		if !Fits(pos, size) || !space.Free(pos, size) {
			continue
		}

		space.Occupy(pos, size)
		space.useSave(bank)
		log.ModAlloc.DebugZ("placed save module").
			String("title", m.Title).
			Hex32("off", pos).
			Int("bank", bank).
			End()
		return Placement{Module: m, Offset: pos, Bank: bank}, true
	}
	return Placement{}, false
}

func placePlain(space *Space, m *romset.Module) (Placement, bool) {
	size := uint32(m.Size)
	for pos := size; Fits(pos, size); pos += size {
		if !space.Free(pos, size) {
			continue
		}

		space.Occupy(pos, size)
		log.ModAlloc.DebugZ("placed module").
			String("title", m.Title).
			Hex32("off", pos).
			End()
		return Placement{Module: m, Offset: pos, Bank: NoBank}, true
	}
	return Placement{}, false
}
