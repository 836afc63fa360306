package menu

import (
	"fmt"

	"multirom/dirent"
	"multirom/log"
)

// Item is a directory entry to write.
type Item struct {
	Title string
	Param dirent.Param
	Meta  *dirent.Meta // only for entries using a save slot
}

// WriteDirectory writes the title and parameter tables, the metadata block
// and the item and page counters. Items are written in order; there must be
// at most Layout.MaxItems of them and at most Layout.MetaSlots with metadata.
func (t *Template) WriteDirectory(items []Item) error {
	l := &t.Layout
	if len(items) > l.MaxItems {
		return fmt.Errorf("directory full: %d items, capacity %d", len(items), l.MaxItems)
	}

	nmeta := 0
	for slot, it := range items {
		title := dirent.EncodeTitle(it.Title)
		copy(t.Data[l.Titles+slot*dirent.TitleLen:], title[:])
		copy(t.Data[l.Params+slot*dirent.ParamLen:], it.Param[:])

		if it.Meta == nil {
			continue
		}
		if nmeta >= l.MetaSlots {
			return fmt.Errorf("metadata block full: capacity %d", l.MetaSlots)
		}
		buf, err := it.Meta.MarshalBinary()
		if err != nil {
			return err
		}
		copy(t.Data[l.MetaBase+nmeta*dirent.MetaLen:], buf)
		nmeta++
	}

	n := len(items)
	pages := (n + l.ItemsPerPage - 1) / l.ItemsPerPage
	t.Data[l.NumItems] = uint8(n)
	t.Data[l.NumPages] = uint8(pages - 1)
	return nil
}

// Listed is a directory entry read back from a compilation.
type Listed struct {
	Slot  int
	Title string
	Param dirent.Param
	dirent.Entry
}

// SlotError reports a directory entry that couldn't be decoded.
type SlotError struct {
	Slot  int
	Title string
	Err   error
}

func (e *SlotError) Error() string {
	return fmt.Sprintf("entry #%d (%s): %v", e.Slot+1, e.Title, e.Err)
}

func (e *SlotError) Unwrap() error { return e.Err }

// ReadDirectory decodes the directory of a compilation. The scan stops at the
// item count or at the first all-0xFF title, whichever comes first. Entries
// that can't be decoded are skipped and reported as *SlotError.
func ReadDirectory(img []byte, l Layout) ([]Listed, []error) {
	if err := l.Validate(); err != nil {
		return nil, []error{err}
	}

	var (
		entries []Listed
		errs    []error
	)
	count := min(int(img[l.NumItems]), l.MaxItems)
	for slot := range count {
		off := l.Titles + slot*dirent.TitleLen
		rec := img[off : off+dirent.TitleLen]
		if dirent.IsEnd(rec) {
			break
		}

		var p dirent.Param
		copy(p[:], img[l.Params+slot*dirent.ParamLen:])
		title := dirent.DecodeTitle(rec)

		e, err := p.Decode()
		if err != nil {
			log.ModDir.WarnZ("skipping directory entry").Int("slot", slot).Error("err", err).End()
			errs = append(errs, &SlotError{Slot: slot, Title: title, Err: err})
			continue
		}
		if !p.Consistent() {
			log.ModDir.DebugZ("inconsistent legacy block byte").Int("slot", slot).Stringer("param", p).End()
		}
		entries = append(entries, Listed{Slot: slot, Title: title, Param: p, Entry: e})
	}
	return entries, errs
}

// ReadMeta decodes the metadata block, stopping at the first empty slot.
func ReadMeta(img []byte, l Layout) []dirent.Meta {
	var metas []dirent.Meta
	for i := range l.MetaSlots {
		off := l.MetaBase + i*dirent.MetaLen
		var m dirent.Meta
		if err := m.UnmarshalBinary(img[off : off+dirent.MetaLen]); err != nil || m.Size == 0 || m.Size == 0xFFFFFFFF {
			break
		}
		metas = append(metas, m)
	}
	return metas
}
