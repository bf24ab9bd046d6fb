package rhd2164

import "testing"

func TestSampleDualSetsValidityBit(t *testing.T) {
	chip := NewChipMock(ModeDouble)
	chip.Channel = func(ch byte) (uint16, uint16) {
		return 0x2000, 0x4000
	}
	dev := New(ModeDouble, chip)

	even, odd := dev.SampleDual(3)
	if even != 0x2001 {
		t.Errorf("even die = %#04x, want 0x2001", even)
	}
	if odd != 0x4001 {
		t.Errorf("odd die = %#04x, want 0x4001", odd)
	}
}

func TestSampleChannelSelectFraming(t *testing.T) {
	var words []uint16
	dev := New(ModeSingle, TransferFunc(func(tx, rx []uint16) {
		words = append(words, tx...)
	}))

	dev.Sample(17)
	if len(words) != 1 {
		t.Fatalf("expected 1 word, got %d", len(words))
	}
	if words[0] != 17<<8 {
		t.Errorf("channel select word = %#04x, want %#04x", words[0], uint16(17)<<8)
	}
}

// A dual-die sweep must land the reply to request ch in slot ch-2, with
// requests 0 and 1 wrapping to slots 31 and 30, the odd die offset by 32,
// and slot 0's low bit cleared after the sweep.
func TestSampleAllDualRemap(t *testing.T) {
	chip := NewChipMock(ModeDouble)
	chip.Channel = func(ch byte) (uint16, uint16) {
		v := uint16(ch) << 4
		return v, v
	}
	dev := New(ModeDouble, chip)

	frame := make([]uint16, FrameSize)
	dev.SampleAll(frame)

	for ch := 0; ch < ChannelsPerDie; ch++ {
		slot := ch - 2
		if ch < 2 {
			slot = 31 - ch
		}
		want := uint16(ch)<<4 | 1
		if slot == 0 {
			want &^= 1
		}
		if frame[slot] != want {
			t.Errorf("slot %d = %#04x, want %#04x (request ch %d)", slot, frame[slot], want, ch)
		}
		wantOdd := uint16(ch)<<4 | 1
		if frame[slot+32] != wantOdd {
			t.Errorf("slot %d = %#04x, want %#04x (odd die, request ch %d)",
				slot+32, frame[slot+32], wantOdd, ch)
		}
	}

	if frame[0]&1 != 0 {
		t.Error("slot 0 low bit must be cleared after a sweep")
	}
}

// The forced-clear of slot 0 applies even when the die data carries a set
// low bit.
func TestSampleAllClearsSlotZeroBit(t *testing.T) {
	chip := NewChipMock(ModeDouble)
	chip.Channel = func(ch byte) (uint16, uint16) {
		return 0xFFFF, 0xFFFF
	}
	dev := New(ModeDouble, chip)

	frame := make([]uint16, FrameSize)
	dev.SampleAll(frame)

	if frame[0] != 0xFFFE {
		t.Errorf("slot 0 = %#04x, want 0xFFFE", frame[0])
	}
	if frame[1] != 0xFFFF {
		t.Errorf("slot 1 = %#04x, want 0xFFFF", frame[1])
	}
	if frame[32] != 0xFFFF {
		t.Errorf("slot 32 = %#04x, want 0xFFFF", frame[32])
	}
}

func TestSampleAllSingleDirect(t *testing.T) {
	chip := NewChipMock(ModeSingle)
	chip.Channel = func(ch byte) (uint16, uint16) {
		return 0x0100 + uint16(ch), 0
	}
	dev := New(ModeSingle, chip)

	frame := make([]uint16, ChannelsPerDie)
	dev.SampleAll(frame)

	for ch := 0; ch < ChannelsPerDie; ch++ {
		if frame[ch] != 0x0100+uint16(ch) {
			t.Errorf("slot %d = %#04x, want %#04x", ch, frame[ch], 0x0100+uint16(ch))
		}
	}
}
