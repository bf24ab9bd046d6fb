package rhd2164

// Sample issues a bare channel-select command and returns the raw conversion
// word. This is the single-rate acquisition path; on the dual-die part use
// SampleDual to get both dies.
//
// The chip pipelines conversions: the value returned here belongs to the
// previously requested channel. SampleAll compensates for that; callers of
// Sample must do their own bookkeeping.
func (d *Device) Sample(ch byte) uint16 {
	var tx, rx [2]uint16
	n := d.fr.words()
	d.fr.encodeChannelSelect(tx[:n], ch)
	d.bus.Transfer(tx[:n], rx[:n])
	a, _ := d.fr.decodeSample(rx[:n])
	return a
}

// SampleDual issues a channel-select command and returns the raw conversion
// of both dies. In double mode each value is reassembled from two received
// words with bit 0 forced set as a validity marker; in single mode the odd
// die is not reachable and reads back zero.
func (d *Device) SampleDual(ch byte) (even, odd uint16) {
	var tx, rx [2]uint16
	n := d.fr.words()
	d.fr.encodeChannelSelect(tx[:n], ch)
	d.bus.Transfer(tx[:n], rx[:n])
	return d.fr.decodeSample(rx[:n])
}

// SampleAll acquires one full frame, walking all 32 channel indices in
// multiplex order. frame must hold FrameSize slots in double mode and
// ChannelsPerDie slots in single mode.
//
// In double mode the one-conversion pipeline latency is compensated by a
// fixed remap: the replies to requests 0 and 1 are the previous sweep's
// trailing samples and land in slots 31 and 30; every later request ch
// lands in slot ch-2, with the odd die's value at slot+32. After the sweep
// the low bit of slot 0 is cleared: the dual-die chip's first sample after
// a sweep boundary carries this link framing artifact, and downstream
// consumers rely on seeing it.
func (d *Device) SampleAll(frame []uint16) {
	if d.mode == ModeSingle {
		for ch := 0; ch < ChannelsPerDie; ch++ {
			frame[ch] = d.Sample(byte(ch))
		}
		return
	}

	for ch := 0; ch < ChannelsPerDie; ch++ {
		even, odd := d.SampleDual(byte(ch))
		slot := ch - 2
		if ch < 2 {
			slot = ChannelsPerDie - 1 - ch
		}
		frame[slot] = even
		frame[slot+ChannelsPerDie] = odd
	}

	frame[0] &^= 1
}
