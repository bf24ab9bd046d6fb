package rhd2164

// DuplicateBits expands an 8-bit value so every bit appears twice, LSB first:
// 0b01010011 becomes 0b0011001100001111. The chip samples its command input
// on both clock edges; duplicating each bit lets a single-edge transport
// drive that link at twice the word width instead.
func DuplicateBits(val byte) uint16 {
	var out uint16
	for i := 0; i < 8; i++ {
		b := uint16(val>>i) & 1
		out |= (b<<1 | b) << (2 * i)
	}
	return out
}

// Unsplit de-interleaves a received DDR word into its two component streams.
// Bit pair 2i/2i+1 of the word carries bit i of streams b and a respectively;
// on the RHD2164 the two streams are the two dies' data, flip-flopped one bit
// at a time by the output stage.
//
// Unsplit is not the inverse of DuplicateBits: DuplicateBits encodes one
// stream for transmission, Unsplit decodes two distinct received streams.
func Unsplit(data uint16) (a, b byte) {
	da := data >> 1
	for i := 0; i < 8; i++ {
		a |= byte((da >> i) & (1 << i))
		b |= byte((data >> i) & (1 << i))
	}
	return a, b
}
