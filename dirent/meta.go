package dirent

import (
	"encoding/binary"
	"fmt"
)

// Meta is the metadata record kept for each listed module using a save slot.
// The menu doesn't read it; it identifies the module owning each slot.
type Meta struct {
	Index    uint16 // discovery index
	Offset   uint32
	Size     uint32
	SaveSize uint32
	Bank     uint16
	Hash     [16]byte // truncated content hash
}

// MarshalBinary encodes m as a 32-byte little-endian record.
func (m *Meta) MarshalBinary() ([]byte, error) {
	buf := make([]byte, MetaLen)
	binary.LittleEndian.PutUint16(buf[0:2], m.Index)
	binary.LittleEndian.PutUint32(buf[2:6], m.Offset)
	binary.LittleEndian.PutUint32(buf[6:10], m.Size)
	binary.LittleEndian.PutUint32(buf[10:14], m.SaveSize)
	binary.LittleEndian.PutUint16(buf[14:16], m.Bank)
	copy(buf[16:32], m.Hash[:])
	return buf, nil
}

// UnmarshalBinary decodes a record written by MarshalBinary.
func (m *Meta) UnmarshalBinary(buf []byte) error {
	if len(buf) < MetaLen {
		return fmt.Errorf("metadata record too short: %d bytes", len(buf))
	}
	m.Index = binary.LittleEndian.Uint16(buf[0:2])
	m.Offset = binary.LittleEndian.Uint32(buf[2:6])
	m.Size = binary.LittleEndian.Uint32(buf[6:10])
	m.SaveSize = binary.LittleEndian.Uint32(buf[10:14])
	m.Bank = binary.LittleEndian.Uint16(buf[14:16])
	copy(m.Hash[:], buf[16:32])
	return nil
}
