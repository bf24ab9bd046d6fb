package rhd2164

import "testing"

// captureWords returns a single-mode device whose transport records every
// transmitted word.
func captureWords(mode Mode) (*Device, *[]uint16) {
	words := new([]uint16)
	dev := New(mode, TransferFunc(func(tx, rx []uint16) {
		*words = append(*words, tx...)
	}))
	return dev, words
}

func TestWriteOpcode(t *testing.T) {
	dev, words := captureWords(ModeSingle)
	dev.Write(RegMuxBias, 0x28)

	if len(*words) != 1 {
		t.Fatalf("expected 1 transfer word, got %d", len(*words))
	}
	w := (*words)[0]
	if byte(w>>8)>>6 != 0b10 {
		t.Errorf("write command byte %#02x: opcode bits != 10", byte(w>>8))
	}
	if byte(w>>8)&regMask != byte(RegMuxBias) {
		t.Errorf("write command byte %#02x: wrong address", byte(w>>8))
	}
	if byte(w) != 0x28 {
		t.Errorf("payload byte = %#02x, want 0x28", byte(w))
	}
}

func TestReadOpcode(t *testing.T) {
	dev, words := captureWords(ModeSingle)
	dev.Read(RegChipID)

	w := (*words)[0]
	if byte(w>>8)>>6 != 0b11 {
		t.Errorf("read command byte %#02x: opcode bits != 11", byte(w>>8))
	}
	if byte(w) != 0 {
		t.Errorf("read payload = %#02x, want 0", byte(w))
	}
}

// Address masking is idempotent: stray upper bits of the register value must
// not change the framed command.
func TestAddressMasking(t *testing.T) {
	dev, words := captureWords(ModeSingle)
	dev.Read(RegChipID)
	dev.Read(RegChipID | 0xC0)
	if (*words)[0] != (*words)[1] {
		t.Errorf("read framing not idempotent: %#04x vs %#04x", (*words)[0], (*words)[1])
	}

	dev2, words2 := captureWords(ModeSingle)
	dev2.Write(RegMuxBias, 1)
	dev2.Write(RegMuxBias|0xC0, 1)
	if (*words2)[0] != (*words2)[1] {
		t.Errorf("write framing not idempotent: %#04x vs %#04x", (*words2)[0], (*words2)[1])
	}
}

func TestDoubleModeAccessFraming(t *testing.T) {
	dev, words := captureWords(ModeDouble)
	dev.Write(RegMuxBias, 0x28)

	if len(*words) != 2 {
		t.Fatalf("double-mode access must frame 2 words, got %d", len(*words))
	}
	if (*words)[0] != DuplicateBits(opWrite|byte(RegMuxBias)) {
		t.Errorf("command word = %#04x", (*words)[0])
	}
	if (*words)[1] != DuplicateBits(0x28) {
		t.Errorf("payload word = %#04x", (*words)[1])
	}
}

// The reply to a double-mode access sits in the second received word; the
// first belongs to the command phase and must be discarded.
func TestDoubleModeReplyDecode(t *testing.T) {
	dev := New(ModeDouble, TransferFunc(func(tx, rx []uint16) {
		rx[0] = weave(0x55, 0x55) // stale command-phase word
		rx[1] = weave(0xAB, 0x12)
	}))
	if got := dev.Read(RegChipID); got != 0xAB {
		t.Errorf("Read = %#02x, want 0xAB", got)
	}
}

func TestReadForceIssuesThreeReads(t *testing.T) {
	dev, words := captureWords(ModeSingle)
	dev.ReadForce(RegIntan0)
	if len(*words) != 3 {
		t.Fatalf("ReadForce issued %d transfers, want 3", len(*words))
	}
	for i, w := range *words {
		if byte(w>>8) != opRead|byte(RegIntan0) {
			t.Errorf("transfer %d = %#04x, want read of register %d", i, w, RegIntan0)
		}
	}
}
