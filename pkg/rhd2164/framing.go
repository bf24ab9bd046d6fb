package rhd2164

// framing is the mode-dependent physical encoding of one logical exchange.
// It is chosen once at construction so the codec and the sequencer never
// re-check the mode flag per call.
type framing interface {
	// words is the transfer length of one logical exchange.
	words() int
	// encodeAccess frames a register access command into tx.
	encodeAccess(tx []uint16, cmd, val byte)
	// decodeReply extracts the logical reply byte from a received exchange.
	decodeReply(rx []uint16) byte
	// encodeChannelSelect frames a bare channel convert command into tx.
	encodeChannelSelect(tx []uint16, ch byte)
	// decodeSample reassembles the raw conversion value(s) of an exchange.
	decodeSample(rx []uint16) (a, b uint16)
}

// singleFraming is the 1x-rate link: one 16-bit word per access, command in
// the high byte, payload in the low byte.
type singleFraming struct{}

func (singleFraming) words() int { return 1 }

func (singleFraming) encodeAccess(tx []uint16, cmd, val byte) {
	tx[0] = uint16(cmd)<<8 | uint16(val)
}

func (singleFraming) decodeReply(rx []uint16) byte { return byte(rx[0]) }

func (singleFraming) encodeChannelSelect(tx []uint16, ch byte) {
	tx[0] = uint16(ch) << 8
}

func (singleFraming) decodeSample(rx []uint16) (uint16, uint16) {
	return rx[0], 0
}

// doubleFraming emulates the chip's DDR link on a single-edge transport:
// every logical byte goes out as one duplicated-bit word, so a register
// access takes two consecutive words (command, then payload).
type doubleFraming struct{}

func (doubleFraming) words() int { return 2 }

func (doubleFraming) encodeAccess(tx []uint16, cmd, val byte) {
	tx[0] = DuplicateBits(cmd)
	tx[1] = DuplicateBits(val)
}

// decodeReply keeps only the second received word: the first corresponds to
// the command phase and trails the chip's one-transfer reply latency.
func (doubleFraming) decodeReply(rx []uint16) byte {
	a, _ := Unsplit(rx[1])
	return a
}

func (doubleFraming) encodeChannelSelect(tx []uint16, ch byte) {
	tx[0] = DuplicateBits(ch)
	tx[1] = 0
}

// decodeSample rebuilds both dies' 16-bit conversions from a two-word
// exchange. The first word carries the high bytes, the second the low bytes;
// bit 0 is forced set on both values as a validity marker.
func (doubleFraming) decodeSample(rx []uint16) (a, b uint16) {
	ahi, bhi := Unsplit(rx[0])
	alo, blo := Unsplit(rx[1])
	a = uint16(ahi)<<8 | uint16(alo) | 1
	b = uint16(bhi)<<8 | uint16(blo) | 1
	return a, b
}

// send performs one framed exchange and returns the logical reply byte.
func (d *Device) send(cmd, val byte) byte {
	var tx, rx [2]uint16
	n := d.fr.words()
	d.fr.encodeAccess(tx[:n], cmd, val)
	d.bus.Transfer(tx[:n], rx[:n])
	return d.fr.decodeReply(rx[:n])
}

// Read reads a register. The address is masked to 6 bits before the read
// opcode is applied, so upper bits of reg are ignored.
func (d *Device) Read(reg Register) byte {
	return d.send(byte(reg)&regMask|opRead, 0)
}

// Write writes val to a register and returns whatever the chip echoed.
// The echo is stale pipeline data; callers must not treat it as a read-back.
func (d *Device) Write(reg Register, val byte) byte {
	return d.send(byte(reg)&regMask|opWrite, val)
}

// ReadForce reads reg three times and keeps only the last reply, flushing
// any result still in the chip's read pipeline from a prior access.
func (d *Device) ReadForce(reg Register) byte {
	for i := 0; i < 2; i++ {
		d.Read(reg)
	}
	return d.Read(reg)
}
