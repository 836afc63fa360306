package romset

import "fmt"

// Size is the size of a module image once padded. Only powers of two from
// 32KB to 8MB can be addressed by the multicart mapper.
type Size uint32

const (
	MinSize Size = 0x8000
	MaxSize Size = 0x800000
)

// Sizes lists all supported sizes, smallest first.
var Sizes = [...]Size{
	0x8000, 0x10000, 0x20000, 0x40000, 0x80000,
	0x100000, 0x200000, 0x400000, 0x800000,
}

func ispow2(n uint32) bool {
	return n != 0 && n&(n-1) == 0
}

// Valid reports whether s is one of the supported sizes.
func (s Size) Valid() bool {
	return s >= MinSize && s <= MaxSize && ispow2(uint32(s))
}

func (s Size) String() string {
	if s >= 0x100000 {
		return fmt.Sprintf("%dMB", s>>20)
	}
	return fmt.Sprintf("%dKB", s>>10)
}

// RoundSize returns the smallest supported size that can hold n bytes.
func RoundSize(n int) (Size, error) {
	if n <= 0 || n > int(MaxSize) {
		return 0, fmt.Errorf("unsupported image size 0x%X", n)
	}
	sz := MinSize
	for int(sz) < n {
		sz <<= 1
	}
	return sz, nil
}
