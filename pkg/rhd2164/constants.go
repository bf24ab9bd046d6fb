package rhd2164

// Register addresses from the RHD2000 series datasheet. The map is shared by
// the whole family; the dual-die RHD2164 exposes the same file on both dies.
type Register byte

const (
	// RegADCConfig is ADC configuration and amplifier fast settle
	RegADCConfig Register = 0
	// RegADCBufferBias is supply sensor and ADC buffer bias current
	RegADCBufferBias Register = 1
	// RegMuxBias is MUX bias current
	RegMuxBias Register = 2
	// RegMuxLoad is MUX load, temperature sensor and auxiliary digital output
	RegMuxLoad Register = 3
	// RegOutputFormat is ADC output format and DSP offset removal
	RegOutputFormat Register = 4
	// RegImpCheckControl is impedance check control
	RegImpCheckControl Register = 5
	// RegImpCheckDAC is the impedance check DAC value
	RegImpCheckDAC Register = 6
	// RegImpCheckAmp is impedance check amplifier select
	RegImpCheckAmp Register = 7

	// RegBandwidthRH1DAC1 through RegBandwidthRLDAC23 select the on-chip
	// amplifier bandwidth. RL DAC2 and DAC3 share one register.
	RegBandwidthRH1DAC1 Register = 8
	RegBandwidthRH1DAC2 Register = 9
	RegBandwidthRH2DAC1 Register = 10
	RegBandwidthRH2DAC2 Register = 11
	RegBandwidthRLDAC1  Register = 12
	RegBandwidthRLDAC23 Register = 13

	// RegAmpPower0 is the first of eight individual amplifier power
	// registers, one power bit per amplifier.
	RegAmpPower0 Register = 14

	// RegIntan0 is the first of five read-only registers holding the
	// ASCII identity signature "INTAN".
	RegIntan0 Register = 40

	// RegDieRevision through RegChipID are read-only chip information.
	RegDieRevision Register = 60
	RegUnipolar    Register = 61
	RegAmpCount    Register = 62
	RegChipID      Register = 63
)

// Physical command bytes carry a 2-bit opcode in bits 7:6 over the 6-bit
// register or channel address: 00 convert, 01 calibrate/clear, 10 write,
// 11 read.
const (
	opRead  = 0xC0
	opWrite = 0x80
	regMask = 0x3F

	cmdCalibrate = 0b01010101
	cmdClearCal  = 0b01101010
)

// Bits of RegOutputFormat.
const (
	fmtWeakMISO  = 1 << 7
	fmtTwosComp  = 1 << 6
	fmtAbsMode   = 1 << 5
	fmtDSPEnable = 1 << 4

	dspCutoffMax = 0x0F // the cutoff select field is 4 bits wide
)

const (
	// ChannelsPerDie is the amplifier count of a single die. The RHD2164
	// carries two dies behind one channel index.
	ChannelsPerDie = 32

	// FrameSize is the slot count of a full dual-die acquisition sweep.
	FrameSize = 2 * ChannelsPerDie
)

// identity is the signature read back by SanityCheck.
const identity = "INTAN"
