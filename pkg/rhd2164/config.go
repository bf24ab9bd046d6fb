package rhd2164

import "errors"

// ErrDSPCutoffRange is returned when the requested DSP cutoff is below the
// lowest ratio the chip supports (about 4.9e-6 times the sampling rate).
// The cutoff select field is 4 bits; a smaller request would silently wrap
// into the neighboring bits, so it is rejected instead.
var ErrDSPCutoffRange = errors.New("rhd2164: dsp cutoff below supported range")

// Calibration tables, taken from the chip's characterization data. Each
// entry bundles the threshold with its codes so the columns cannot drift
// out of step. The selection loops must keep their exact boundary behavior:
// downstream electrical behavior depends on which side of a threshold wins.

// sampleRateBias maps total ADC throughput (per-channel rate times active
// channels) to the ADC buffer and MUX bias currents.
var sampleRateBias = [...]struct {
	throughput    float64
	adcBufferBias byte
	muxBias       byte
}{
	{120000, 32, 40},
	{140000, 16, 40},
	{175000, 8, 40},
	{220000, 8, 32},
	{280000, 8, 26},
	{350000, 4, 18},
	{440000, 3, 16},
	{525000, 3, 7},
	{700000, 2, 4},
}

// sampleRateIndex selects the largest entry whose threshold is strictly
// below the requested throughput, clamped to the table on both ends.
func sampleRateIndex(throughput float64) int {
	i := 0
	for j, e := range sampleRateBias {
		if throughput <= e.throughput {
			break
		}
		i = j
	}
	return i
}

// ConfigureSampleRate programs the ADC buffer and MUX bias currents for the
// given per-channel rate and active channel count. Out-of-range requests
// clamp to the nearest supported throughput.
func (d *Device) ConfigureSampleRate(fs float64, channels int) {
	e := sampleRateBias[sampleRateIndex(fs*float64(channels))]
	d.Write(RegADCBufferBias, e.adcBufferBias)
	d.Write(RegMuxBias, e.muxBias)
}

// highCutoff maps the upper bandwidth corner to the RH1/RH2 DAC pair codes.
// Thresholds descend; selection takes the first entry at or below the
// request, falling back to the weakest (last) setting.
var highCutoff = [...]struct {
	hz               float64
	rh1DAC1, rh1DAC2 byte
	rh2DAC1, rh2DAC2 byte
}{
	{20000, 8, 0, 4, 0},
	{15000, 11, 0, 8, 0},
	{10000, 17, 0, 16, 0},
	{7500, 22, 0, 23, 0},
	{5000, 33, 0, 37, 0},
	{3000, 3, 1, 13, 1},
	{2500, 13, 1, 25, 1},
	{2000, 27, 1, 44, 1},
	{1500, 1, 2, 23, 2},
	{1000, 46, 2, 30, 3},
	{750, 41, 3, 36, 4},
	{500, 30, 5, 43, 6},
	{300, 6, 9, 2, 11},
	{250, 42, 10, 5, 13},
	{200, 24, 13, 7, 16},
	{150, 44, 17, 8, 21},
	{100, 38, 26, 5, 31},
}

func highCutoffIndex(fh float64) int {
	i := 0
	for _, e := range highCutoff {
		if fh >= e.hz {
			break
		}
		i++
	}
	if i >= len(highCutoff) {
		i = len(highCutoff) - 1
	}
	return i
}

// lowCutoff maps the lower bandwidth corner to the RL DAC triple. Thresholds
// ascend; selection takes the first entry at or above the request, falling
// back to the highest (last) setting.
var lowCutoff = [...]struct {
	hz                     float64
	rlDAC1, rlDAC2, rlDAC3 byte
}{
	{0.1, 16, 60, 1},
	{0.25, 56, 54, 0},
	{0.3, 1, 40, 0},
	{0.5, 35, 17, 0},
	{0.75, 49, 9, 0},
	{1.0, 44, 6, 0},
	{1.5, 9, 4, 0},
	{2.0, 8, 3, 0},
	{2.5, 42, 2, 0},
	{3.0, 20, 2, 0},
	{5.0, 40, 1, 0},
	{7.5, 18, 1, 0},
	{10, 5, 1, 0},
	{15, 62, 0, 0},
	{20, 54, 0, 0},
	{25, 48, 0, 0},
	{30, 44, 0, 0},
	{50, 34, 0, 0},
	{75, 28, 0, 0},
	{100, 25, 0, 0},
	{150, 21, 0, 0},
	{200, 18, 0, 0},
	{250, 17, 0, 0},
	{300, 15, 0, 0},
	{500, 13, 0, 0},
}

func lowCutoffIndex(fl float64) int {
	i := 0
	for _, e := range lowCutoff {
		if fl <= e.hz {
			break
		}
		i++
	}
	if i >= len(lowCutoff) {
		i = len(lowCutoff) - 1
	}
	return i
}

// ConfigureBandwidth programs the six amplifier bandwidth DAC registers for
// the requested lower and upper corners. RL DAC3 and DAC2 pack into one
// register.
func (d *Device) ConfigureBandwidth(fl, fh float64) {
	h := highCutoff[highCutoffIndex(fh)]
	l := lowCutoff[lowCutoffIndex(fl)]

	d.Write(RegBandwidthRH1DAC1, h.rh1DAC1)
	d.Write(RegBandwidthRH1DAC2, h.rh1DAC2)
	d.Write(RegBandwidthRH2DAC1, h.rh2DAC1)
	d.Write(RegBandwidthRH2DAC2, h.rh2DAC2)
	d.Write(RegBandwidthRLDAC1, l.rlDAC1)
	d.Write(RegBandwidthRLDAC23, l.rlDAC3<<6|l.rlDAC2)
}

// dspCutoffRatio holds the DSP filter's cutoff-to-sample-rate ratios in
// descending order. The cutoff select code is the count of entries at or
// above the requested ratio.
var dspCutoffRatio = [...]float64{
	0.99, 0.1103, 0.04579, 0.02125,
	0.01027, 0.005053, 0.002506, 0.001248,
	0.0006229, 0.0003112, 0.0001555, 0.00007773,
	0.00003886, 0.00001943, 0.000009714, 0.000004857,
}

func dspCutoffCode(k float64) (byte, error) {
	n := 0
	for _, r := range dspCutoffRatio {
		if k > r {
			break
		}
		n++
	}
	if n > dspCutoffMax {
		return 0, ErrDSPCutoffRange
	}
	return byte(n), nil
}

// ConfigureDSP programs the DSP offset-removal high-pass filter with the
// chip's usual output format (two's complement, no absolute value mode).
// When enable is false the filter is switched off and the cutoff field
// zeroed. A cutoff below the supported ratio range returns
// ErrDSPCutoffRange without writing anything.
func (d *Device) ConfigureDSP(enable bool, fdsp, fs float64) error {
	return d.ConfigureFormat(true, false, enable, fdsp, fs)
}

// ConfigureFormat programs the full ADC output format register: two's
// complement output, absolute value mode and the DSP offset-removal filter.
func (d *Device) ConfigureFormat(twosComp, absMode, dsp bool, fdsp, fs float64) error {
	var cut byte
	if dsp {
		var err error
		if cut, err = dspCutoffCode(fdsp / fs); err != nil {
			return err
		}
	}

	val := byte(fmtWeakMISO)
	if twosComp {
		val |= fmtTwosComp
	}
	if absMode {
		val |= fmtAbsMode
	}
	if dsp {
		val |= fmtDSPEnable
	}
	d.Write(RegOutputFormat, val|cut)
	return nil
}

// ConfigureChannels programs the per-amplifier power masks, one bit per
// channel: low covers channels 0-31, high covers 32-63 on the dual-die
// part. Bytes go out in ascending register order, least significant first.
func (d *Device) ConfigureChannels(low, high uint32) {
	mask := uint64(high)<<32 | uint64(low)
	for i := 0; i < 8; i++ {
		d.Write(RegAmpPower0+Register(i), byte(mask>>(8*i)))
	}
}
