// Package ftdi adapts an FT232H USB bridge to the driver's word-level
// transport. It is meant for bench bring-up and diagnostics; for deployed
// acquisition prefer a true full-duplex SPI port (see pkg/spi).
package ftdi

import (
	"encoding/binary"
	"fmt"
	"strconv"

	"github.com/yunginnanet/ft232h"
)

// Descriptor uniquely identifies an FT232H device for connection.
type Descriptor struct {
	Index  int
	Serial string
	mask   *ft232h.Mask
}

var ErrBadDescriptor = fmt.Errorf("invalid FT232H descriptor provided")

// ByIndex selects a device by enumeration index.
func ByIndex(index int) Descriptor {
	return Descriptor{Index: index}
}

// BySerial selects a device by serial number.
func BySerial(serial string) Descriptor {
	return Descriptor{Serial: serial, Index: -1}
}

// ByMask selects a device by an arbitrary ft232h match mask.
func ByMask(mask *ft232h.Mask) Descriptor {
	return Descriptor{mask: mask, Index: -1}
}

func emptyMask(mask *ft232h.Mask) bool {
	return mask == nil || (mask.Serial == "" && mask.PID == "" && mask.VID == "" &&
		mask.Desc == "" && mask.Index == "")
}

// Validate checks that the Descriptor can match a device at all.
func (d Descriptor) Validate() error {
	if d.Index < 0 && d.Serial == "" && emptyMask(d.mask) {
		return ErrBadDescriptor
	}
	return nil
}

// Mask returns the ft232h match mask for the Descriptor.
func (d Descriptor) Mask() *ft232h.Mask {
	if d.mask == nil {
		d.mask = new(ft232h.Mask)
	}
	if d.Serial != "" {
		d.mask.Serial = d.Serial
	}
	if d.Index >= 0 {
		d.mask.Index = strconv.Itoa(d.Index)
	}
	return d.mask
}

func (d Descriptor) String() string {
	return fmt.Sprintf("Descriptor{Index:%d, Serial:%s, mask:%v}", d.Index, d.Serial, d.mask)
}

// Bus is an FT232H SPI connection carrying 16-bit transfer words.
type Bus struct {
	*ft232h.FT232H
	mask *ft232h.Mask
	err  error
}

// Connect opens an FT232H, optionally selected by a Descriptor, and
// initializes its SPI engine.
func Connect(choice ...Descriptor) (*Bus, error) {
	b := &Bus{}
	var err error

	switch len(choice) {
	case 0:
		b.FT232H, err = ft232h.New()
	case 1:
		if err = choice[0].Validate(); err != nil {
			return nil, ErrBadDescriptor
		}
		b.mask = choice[0].Mask()
		b.FT232H, err = ft232h.OpenMask(b.mask)
	default:
		return nil, fmt.Errorf("invalid number of arguments")
	}
	if err != nil {
		return nil, fmt.Errorf("could not open FT232H: %w", err)
	}

	if err = b.SPI.Init(); err != nil {
		return nil, fmt.Errorf("could not init FT232H SPI engine: %w", err)
	}
	return b, nil
}

// Transfer implements rhd2164.Transport. The MPSSE engine cannot shift both
// directions in one pass, so the exchange is serialized: all transmit words
// go out first, then the same number of words is clocked back in. Failures
// are latched and surfaced via Err, per the transport contract.
func (b *Bus) Transfer(tx, rx []uint16) {
	out := make([]byte, 2*len(tx))
	for i, w := range tx {
		binary.BigEndian.PutUint16(out[2*i:], w)
	}
	if _, err := b.SPI.Write(out, true, false); err != nil {
		b.err = fmt.Errorf("spi write: %w", err)
		return
	}

	in, err := b.SPI.Read(uint(2*len(rx)), false, true)
	if err != nil {
		b.err = fmt.Errorf("spi read: %w", err)
		return
	}
	for i := range rx {
		rx[i] = binary.BigEndian.Uint16(in[2*i:])
	}
}

// Err returns the first transfer fault since the last call and clears it.
func (b *Bus) Err() error {
	err := b.err
	b.err = nil
	return err
}

// Close shuts down the SPI engine.
func (b *Bus) Close() error {
	return b.SPI.Close()
}

func (b *Bus) String() string {
	return fmt.Sprintf("FT232H[%v]", b.mask)
}
