// Package rhd2164 drives Intan RHD2000-family multiplexed amplifier chips
// over a half-duplex 16-bit serial link. It covers the RHD2164 dual-die part
// in its DDR-emulated "double" framing as well as single-rate RHD2000 links.
//
// The package is a protocol and configuration core: the physical transfer
// primitive is injected as a Transport, and the host owns all policy around
// it (timeouts, retries, scheduling). Every operation blocks on exactly one
// transfer and performs no locking; a Device must not be used from more than
// one goroutine without external synchronization.
package rhd2164

import "fmt"

// Mode selects the link framing, fixed at construction.
type Mode uint8

const (
	// ModeSingle frames one transfer word per register access. Used with
	// chips whose output toggles on a single clock edge.
	ModeSingle Mode = iota
	// ModeDouble duplicates every command bit and de-interleaves replies,
	// emulating the RHD2164's double-data-rate link on a transport that
	// cannot toggle on both clock edges.
	ModeDouble
)

// Transport performs synchronous full-duplex exchanges of 16-bit words.
// Implementations must exchange len(tx) words in order, writing received
// words into rx. The core has no error path for transport failure: a failing
// transport yields garbage bytes here, detectable later via SanityCheck,
// and should report the fault through its own channel.
type Transport interface {
	Transfer(tx, rx []uint16)
}

// TransferFunc adapts a plain function to the Transport interface.
type TransferFunc func(tx, rx []uint16)

func (f TransferFunc) Transfer(tx, rx []uint16) { f(tx, rx) }

// Device is a handle to one chip behind one transport. Both fields are
// immutable after New; the chip itself is the source of truth for all
// configuration state.
type Device struct {
	mode Mode
	fr   framing
	bus  Transport
}

// New constructs a Device in the given framing mode. The transport is held
// by reference and remains owned by the caller.
func New(mode Mode, bus Transport) *Device {
	d := &Device{mode: mode, bus: bus}
	if mode == ModeDouble {
		d.fr = doubleFraming{}
	} else {
		d.fr = singleFraming{}
	}
	return d
}

// Mode reports the framing mode the Device was constructed with.
func (d *Device) Mode() Mode { return d.mode }

// Init verifies the link by reading back the chip's identity signature.
// Call it once after power-up, before Setup.
func (d *Device) Init() error {
	return d.SanityCheck()
}

// Config holds the analog front-end parameters applied by Setup. All values
// are mapped to the nearest supported hardware bias code; the chip does not
// accept continuous values.
type Config struct {
	SampleRate float64 // per-channel sampling rate, Hz
	LowCutoff  float64 // amplifier lower corner, Hz
	HighCutoff float64 // amplifier upper corner, Hz
	DSP        bool    // DSP offset-removal high-pass filter
	DSPCutoff  float64 // DSP filter corner, Hz
}

// DefaultConfig is a conservative EMG-style starting point.
func DefaultConfig() Config {
	return Config{
		SampleRate: 2000,
		LowCutoff:  20,
		HighCutoff: 300,
		DSP:        true,
		DSPCutoff:  20,
	}
}

// Setup programs the full power-up configuration: ADC reference and
// comparator setup, impedance check disabled, sample rate bias, DSP offset
// removal, all amplifiers powered, bandwidth DACs, then ADC calibration.
// It finishes with a sanity check and returns its result.
func (d *Device) Setup(cfg Config) error {
	// link warm-up
	d.Read(RegChipID)
	d.Read(RegChipID)

	// 1.225V reference, ADC comparator bias 3, comparator select 2
	d.Write(RegADCConfig, 0b11011110)
	d.Write(RegMuxLoad, 0)

	d.Write(RegImpCheckControl, 0)
	d.Write(RegImpCheckDAC, 0)
	d.Write(RegImpCheckAmp, 0)

	d.ConfigureSampleRate(cfg.SampleRate, ChannelsPerDie)
	if err := d.ConfigureDSP(cfg.DSP, cfg.DSPCutoff, cfg.SampleRate); err != nil {
		return err
	}
	d.ConfigureChannels(0xFFFFFFFF, 0xFFFFFFFF)
	d.ConfigureBandwidth(cfg.LowCutoff, cfg.HighCutoff)

	d.Calibrate()

	return d.SanityCheck()
}

// Calibrate runs the ADC self-calibration command, then issues the nine
// throwaway reads the chip requires before conversion results are valid.
// The returned byte is the last echo, useful only for diagnostics.
func (d *Device) Calibrate() byte {
	ret := d.send(cmdCalibrate, 0)
	for i := 0; i < 9; i++ {
		ret = d.Read(RegChipID)
	}
	return ret
}

// ClearCalibration cancels a pending calibration.
func (d *Device) ClearCalibration() byte {
	return d.send(cmdClearCal, 0)
}

// IdentityError reports the first identity register whose read-back did not
// match the chip's fixed ASCII signature.
type IdentityError struct {
	Register Register
	Want     byte
	Got      byte
}

func (e *IdentityError) Error() string {
	return fmt.Sprintf("rhd2164: identity register %d read 0x%02X, want %q",
		e.Register, e.Got, e.Want)
}

// SanityCheck reads the five identity registers and compares them against
// the "INTAN" signature. A nil return means the chip is present and the
// link is in sync; an *IdentityError names the first mismatching register,
// signaling an absent, unpowered or miswired chip, or a desynchronized link.
func (d *Device) SanityCheck() error {
	for i := 0; i < len(identity); i++ {
		reg := RegIntan0 + Register(i)
		got := d.ReadForce(reg)
		if got != identity[i] {
			return &IdentityError{Register: reg, Want: identity[i], Got: got}
		}
	}
	return nil
}

// ChipInfo is the chip's read-only self-description.
type ChipInfo struct {
	DieRevision byte
	Unipolar    bool
	Amplifiers  int
	ChipID      byte
}

// ChipInfo reads the chip information registers.
func (d *Device) ChipInfo() ChipInfo {
	return ChipInfo{
		DieRevision: d.Read(RegDieRevision),
		Unipolar:    d.Read(RegUnipolar) != 0,
		Amplifiers:  int(d.Read(RegAmpCount)),
		ChipID:      d.Read(RegChipID),
	}
}
