package dirent

import (
	"bytes"
	"strings"
)

// EncodeTitle returns the title record of s, left-aligned and padded with
// spaces. s must be ASCII; longer titles are truncated.
func EncodeTitle(s string) [TitleLen]byte {
	var rec [TitleLen]byte
	copy(rec[:], strings.Repeat(" ", TitleLen))
	copy(rec[:], s)
	return rec
}

// CenterTitle returns s centered in a title record, extra space going to the
// right.
func CenterTitle(s string) [TitleLen]byte {
	if len(s) > TitleLen {
		s = s[:TitleLen]
	}
	left := (TitleLen - len(s)) / 2
	return EncodeTitle(strings.Repeat(" ", left) + s)
}

// DecodeTitle returns the title stored in rec, non-ASCII bytes dropped and
// trimmed of padding.
func DecodeTitle(rec []byte) string {
	ascii := bytes.Map(func(r rune) rune {
		if r >= 0x80 || r == 0 {
			return -1
		}
		return r
	}, rec)
	return strings.TrimSpace(string(ascii))
}

// IsEnd reports whether rec is the all-0xFF record that ends a directory.
func IsEnd(rec []byte) bool {
	return len(rec) == TitleLen && bytes.Count(rec, []byte{0xFF}) == TitleLen
}
