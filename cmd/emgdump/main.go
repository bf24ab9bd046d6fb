// emgdump is a bench bring-up tool: it connects to an RHD2000-family chip
// over spidev or an FT232H bridge, runs the power-up configuration, and
// dumps a handful of acquisition frames.
package main

import (
	"flag"
	"os"
	"time"

	"github.com/l0nax/go-spew/spew"
	"github.com/rs/zerolog"
	"periph.io/x/conn/v3/physic"
	spimode "periph.io/x/conn/v3/spi"

	"github.com/emglab/rhd2164/pkg/ftdi"
	"github.com/emglab/rhd2164/pkg/rhd2164"
	"github.com/emglab/rhd2164/pkg/spi"
)

var log zerolog.Logger

func init() {
	cw := zerolog.ConsoleWriter{Out: os.Stdout}
	log = zerolog.New(cw).With().Timestamp().Logger()
}

type options struct {
	spiDev  string
	ftIndex int
	hz      int
	single  bool
	fs      float64
	fl      float64
	fh      float64
	dsp     bool
	fdsp    float64
	frames  int
}

func flags() options {
	var o options
	flag.StringVar(&o.spiDev, "spi", "", "spidev port (e.g. /dev/spidev0.0); empty uses FT232H")
	flag.IntVar(&o.ftIndex, "FT232H", 0, "FT232H index (used when -spi is empty)")
	flag.IntVar(&o.hz, "hz", 1400000, "SPI clock, Hz")
	flag.BoolVar(&o.single, "single", false, "single-rate framing (RHD2000 link)")
	flag.Float64Var(&o.fs, "fs", 2000, "per-channel sampling rate, Hz")
	flag.Float64Var(&o.fl, "fl", 20, "amplifier low cutoff, Hz")
	flag.Float64Var(&o.fh, "fh", 300, "amplifier high cutoff, Hz")
	flag.BoolVar(&o.dsp, "dsp", true, "enable DSP offset removal")
	flag.Float64Var(&o.fdsp, "fdsp", 20, "DSP cutoff, Hz")
	flag.IntVar(&o.frames, "frames", 10, "number of frames to acquire")
	flag.Parse()
	return o
}

// faultable is the error side-channel both transports expose; the driver
// core itself has no transport error path.
type faultable interface {
	Err() error
}

func connect(o options) (rhd2164.Transport, func() error) {
	if o.spiDev != "" {
		bus, err := spi.Open(o.spiDev, physic.Frequency(o.hz)*physic.Hertz, spimode.Mode0)
		if err != nil {
			log.Fatal().Err(err).Str("port", o.spiDev).Msg("failed to open spi port")
		}
		log.Info().Str("port", o.spiDev).Int("hz", o.hz).Msg("connected via spidev")
		return bus, bus.Close
	}

	bus, err := ftdi.Connect(ftdi.ByIndex(o.ftIndex))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to FT232H")
	}
	log.Info().Str("bridge", bus.String()).Msg("connected via FT232H")
	return bus, bus.Close
}

func main() {
	o := flags()

	bus, closeBus := connect(o)
	defer func() {
		if err := closeBus(); err != nil {
			log.Error().Err(err).Msg("failed to close transport")
		}
	}()

	mode := rhd2164.ModeDouble
	if o.single {
		mode = rhd2164.ModeSingle
	}
	dev := rhd2164.New(mode, bus)

	if err := dev.Init(); err != nil {
		log.Fatal().Err(err).Msg("identity check failed; chip absent or link desynchronized")
	}
	if f, ok := bus.(faultable); ok {
		if err := f.Err(); err != nil {
			log.Fatal().Err(err).Msg("transport fault during init")
		}
	}

	log.Info().Msg("chip identified")
	log.Debug().Msg(spew.Sdump(dev.ChipInfo()))

	cfg := rhd2164.Config{
		SampleRate: o.fs,
		LowCutoff:  o.fl,
		HighCutoff: o.fh,
		DSP:        o.dsp,
		DSPCutoff:  o.fdsp,
	}
	if err := dev.Setup(cfg); err != nil {
		log.Fatal().Err(err).Msg("setup failed")
	}
	log.Info().Float64("fs", o.fs).Float64("fl", o.fl).Float64("fh", o.fh).
		Msg("configured and calibrated")

	frame := make([]uint16, rhd2164.FrameSize)
	if mode == rhd2164.ModeSingle {
		frame = frame[:rhd2164.ChannelsPerDie]
	}

	tick := time.Duration(float64(time.Second) / o.fs)
	for i := 0; i < o.frames; i++ {
		dev.SampleAll(frame)
		log.Info().Int("frame", i).Msg(spew.Sdump(frame))
		time.Sleep(tick)
	}

	if f, ok := bus.(faultable); ok {
		if err := f.Err(); err != nil {
			log.Error().Err(err).Msg("transport fault during acquisition")
		}
	}
}
