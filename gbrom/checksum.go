package gbrom

// ComputeHeaderChecksum returns the checksum of the 25 header bytes from the
// title to the mask rom version, as verified by the boot rom.
func ComputeHeaderChecksum(p []byte) uint8 {
	var sum uint8
	for _, b := range p[TitleStart:HeaderChecksum] {
		sum = sum - b - 1
	}
	return sum
}

// ComputeGlobalChecksum returns the 16-bit sum of all bytes of p, the global
// checksum field itself being counted as zero.
func ComputeGlobalChecksum(p []byte) uint16 {
	var sum uint16
	for i, b := range p {
		if i == GlobalChecksum || i == GlobalChecksum+1 {
			continue
		}
		sum += uint16(b)
	}
	return sum
}

// FixChecksums writes both header checksums of p in place. It must be called
// again after any change to p.
func FixChecksums(p []byte) {
	p[HeaderChecksum] = ComputeHeaderChecksum(p)
	sum := ComputeGlobalChecksum(p)
	p[GlobalChecksum] = uint8(sum >> 8)
	p[GlobalChecksum+1] = uint8(sum)
}

// ValidChecksums reports whether both checksums stored in p are correct.
func ValidChecksums(p []byte) bool {
	if len(p) < HeaderEnd {
		return false
	}
	sum := ComputeGlobalChecksum(p)
	return p[HeaderChecksum] == ComputeHeaderChecksum(p) &&
		p[GlobalChecksum] == uint8(sum>>8) &&
		p[GlobalChecksum+1] == uint8(sum)
}
