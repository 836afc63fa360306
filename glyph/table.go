package glyph

import (
	"multirom/log"
)

// Space is the id of the blank glyph every table starts with.
const Space = 1

// Table is the deduplicated glyph set of a menu. Ids are 1-based positions.
type Table struct {
	max    int
	glyphs []Glyph
	ids    map[Glyph]uint8
}

// NewTable returns a table holding at most capacity glyphs, including the
// blank glyph it starts with.
func NewTable(capacity int) *Table {
	t := &Table{max: capacity, ids: make(map[Glyph]uint8)}
	t.Add(Glyph{})
	return t
}

// Add returns the id of g, adding it if needed. It returns false when the
// table is full.
func (t *Table) Add(g Glyph) (uint8, bool) {
	if id, ok := t.ids[g]; ok {
		return id, true
	}
	if len(t.glyphs) >= t.max {
		return 0, false
	}
	t.glyphs = append(t.glyphs, g)
	id := uint8(len(t.glyphs))
	t.ids[g] = id
	return id, true
}

// AddAll adds gs and returns their ids. Glyphs that don't fit are dropped.
func (t *Table) AddAll(gs []Glyph) []byte {
	ids := make([]byte, 0, len(gs))
	for i, g := range gs {
		id, ok := t.Add(g)
		if !ok {
			log.ModGlyph.WarnZ("no space left for subtitle glyph").Int("pos", i).Int("capacity", t.max).End()
			continue
		}
		ids = append(ids, id)
	}
	return ids
}

// Len returns the number of glyphs in the table.
func (t *Table) Len() int { return len(t.glyphs) }

// Bytes returns the concatenated glyph bitmaps.
func (t *Table) Bytes() []byte {
	buf := make([]byte, 0, len(t.glyphs)*Bytes)
	for i := range t.glyphs {
		buf = append(buf, t.glyphs[i][:]...)
	}
	return buf
}

// Pack lays out the glyph id strings of the directory slots: one length per
// slot and the concatenated ids. A slot that doesn't fit in maxChars falls
// back to a single blank glyph, or to nothing when even that doesn't fit.
// It returns the slots that were replaced.
func Pack(slots [][]byte, maxChars int) (lengths, chars []byte, replaced []int) {
	lengths = make([]byte, len(slots))
	for i, ids := range slots {
		if len(chars)+len(ids) > maxChars {
			replaced = append(replaced, i)
			ids = nil
			if len(chars) < maxChars {
				ids = []byte{Space}
			}
		}
		lengths[i] = uint8(len(ids))
		chars = append(chars, ids...)
	}
	return lengths, chars, replaced
}
