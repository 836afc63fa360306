// Package dirent encodes and decodes the records of the menu directory: the
// 4-byte mapper parameters and 16-byte title of each entry, and the 32-byte
// metadata record of each entry using a save slot.
//
// The parameter record holds the values the menu writes to the multicart
// mapper registers before starting the selected program:
//
//	byte 0: legacy copy of the 8MB block number, 0x00, 0x01, 0x10 or 0x11
//	byte 1: type tag in the high nibble (0x9 save, 0xF plain), 8MB block
//	        number in the low bits
//	byte 2: size mask, 0x00 for 8MB up to 0xFF for 32KB
//	byte 3: 32KB page number within the 8MB block
package dirent

import (
	"errors"
	"fmt"
)

const (
	ParamLen = 4
	TitleLen = 16
	MetaLen  = 32

	pageSize  = 0x8000
	blockSize = 0x800000
	maxOffset = 4 * blockSize

	tagSave  = 0x90
	tagPlain = 0xF0
)

var (
	ErrUnsupportedSize = errors.New("unsupported module size")
	ErrBadOffset       = errors.New("offset not addressable")
	ErrUnknownSizeCode = errors.New("corrupt or foreign directory entry: unknown size code")
	ErrUnknownTypeTag  = errors.New("corrupt or foreign directory entry: unknown type tag")
)

var sizeCodes = map[uint32]uint8{
	0x800000: 0x00,
	0x400000: 0x80,
	0x200000: 0xC0,
	0x100000: 0xE0,
	0x80000:  0xF0,
	0x40000:  0xF8,
	0x20000:  0xFC,
	0x10000:  0xFE,
	0x8000:   0xFF,
}

var codeSizes = func() map[uint8]uint32 {
	m := make(map[uint8]uint32, len(sizeCodes))
	for size, code := range sizeCodes {
		m[code] = size
	}
	return m
}()

// SizeCode returns the size mask of a module of the given size.
func SizeCode(size uint32) (uint8, error) {
	code, ok := sizeCodes[size]
	if !ok {
		return 0, fmt.Errorf("%w: 0x%X", ErrUnsupportedSize, size)
	}
	return code, nil
}

// Param is a packed parameter record.
type Param [ParamLen]byte

// Entry is the decoded form of a parameter record.
type Entry struct {
	Offset uint32
	Size   uint32
	Save   bool
}

// legacyBlock returns the byte 0 encoding of an 8MB block number.
func legacyBlock(block uint8) uint8 {
	return (block>>1)<<4 | block&1
}

// EncodeParam packs the location of a module into a parameter record.
func EncodeParam(e Entry) (Param, error) {
	code, err := SizeCode(e.Size)
	if err != nil {
		return Param{}, err
	}
	if e.Offset%pageSize != 0 || e.Offset >= maxOffset {
		return Param{}, fmt.Errorf("%w: 0x%X", ErrBadOffset, e.Offset)
	}

	page := e.Offset / pageSize
	block := uint8(page >> 8)

	var p Param
	p[0] = legacyBlock(block)
	if e.Save {
		p[1] = tagSave + block
	} else {
		p[1] = tagPlain + block
	}
	p[2] = code
	p[3] = uint8(page)
	return p, nil
}

// Decode unpacks a parameter record. Byte 0 is not needed for that, see
// Consistent.
func (p Param) Decode() (Entry, error) {
	size, ok := codeSizes[p[2]]
	if !ok {
		return Entry{}, fmt.Errorf("%w: 0x%02X", ErrUnknownSizeCode, p[2])
	}

	var save bool
	switch p[1] & 0xF0 {
	case tagSave:
		save = true
	case tagPlain:
	default:
		return Entry{}, fmt.Errorf("%w: 0x%02X", ErrUnknownTypeTag, p[1])
	}

	return Entry{
		Offset: uint32(p[3])*pageSize + uint32(p[1]&0x03)*blockSize,
		Size:   size,
		Save:   save,
	}, nil
}

// Consistent reports whether byte 0 agrees with the block number of byte 1.
func (p Param) Consistent() bool {
	return p[0] == legacyBlock(p[1]&0x03)
}

func (p Param) String() string {
	return fmt.Sprintf("%02X:%02X:%02X:%02X", p[3], p[2], p[1], p[0])
}
