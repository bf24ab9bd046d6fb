package rhd2164

// ChipMock emulates the chip's register file and link framing behind the
// Transport interface, so Device code and host acquisition logic can be
// exercised without hardware. It understands both framing modes, dispatches
// on the command opcode the way the chip does, and answers reads from its
// Registers array (pre-loaded with the identity signature and RHD2164 chip
// information).
type ChipMock struct {
	Mode      Mode
	Registers [64]byte

	// Channel supplies conversion data for channel-select requests. When
	// nil both dies read back zero.
	Channel func(ch byte) (even, odd uint16)

	// Calibrations and Clears count received calibrate / clear commands.
	Calibrations int
	Clears       int
}

// NewChipMock returns a mock pre-loaded with a healthy RHD2164 register
// file for the given framing mode.
func NewChipMock(mode Mode) *ChipMock {
	m := &ChipMock{Mode: mode}
	copy(m.Registers[RegIntan0:], identity)
	m.Registers[RegDieRevision] = 1
	m.Registers[RegAmpCount] = 64
	m.Registers[RegChipID] = 4
	return m
}

// Transfer implements Transport.
func (m *ChipMock) Transfer(tx, rx []uint16) {
	var cmd, val byte
	if m.Mode == ModeDouble {
		cmd, _ = Unsplit(tx[0])
		if len(tx) > 1 {
			val, _ = Unsplit(tx[1])
		}
	} else {
		cmd = byte(tx[0] >> 8)
		val = byte(tx[0])
	}

	switch cmd >> 6 {
	case 0b11: // read
		m.reply(rx, m.Registers[cmd&regMask])
	case 0b10: // write
		m.Registers[cmd&regMask] = val
	case 0b01: // calibrate / clear
		switch cmd {
		case cmdCalibrate:
			m.Calibrations++
		case cmdClearCal:
			m.Clears++
		}
	default: // convert
		var even, odd uint16
		if m.Channel != nil {
			even, odd = m.Channel(cmd & regMask)
		}
		m.sample(rx, even, odd)
	}
}

func (m *ChipMock) reply(rx []uint16, data byte) {
	if m.Mode == ModeDouble {
		// command-phase word stays zero; the reply trails by one transfer
		rx[1] = weave(data, data)
		return
	}
	rx[0] = uint16(data)
}

func (m *ChipMock) sample(rx []uint16, even, odd uint16) {
	if m.Mode == ModeDouble {
		rx[0] = weave(byte(even>>8), byte(odd>>8))
		rx[1] = weave(byte(even), byte(odd))
		return
	}
	rx[0] = even
}

// weave interleaves two streams one bit pair at a time, the way the chip's
// output stage time-multiplexes its dies: bit 2i carries b, bit 2i+1
// carries a. It is the encoding that Unsplit decodes.
func weave(a, b byte) uint16 {
	var w uint16
	for i := 0; i < 8; i++ {
		w |= uint16(b>>i&1) << (2 * i)
		w |= uint16(a>>i&1) << (2*i + 1)
	}
	return w
}
