package device

// --------------------------------------------------------------------------
//
//	Gurux Ltd
//
// Filename:        $HeadURL$
//
// Version:         $Revision$,
//
//	$Date$
//	$Author$
//
// # Copyright (c) Gurux Ltd
//
// ---------------------------------------------------------------------------
//
//	DESCRIPTION
//
// This file is a part of Gurux Device Framework.
//
// Gurux Device Framework is Open Source software; you can redistribute it
// and/or modify it under the terms of the GNU General Public License
// as published by the Free Software Foundation; version 2 of the License.
// Gurux Device Framework is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.
// See the GNU General Public License for more details.
//
// More information of Gurux products: https://www.gurux.org
//
// This code is licensed under the GNU General Public License v2.
// Full text may be retrieved at http://www.gnu.org/licenses/gpl-2.0.txt
// ---------------------------------------------------------------------------

import (
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"
)

// spiHeaderLen is the UCI header clocked in before the payload.
const spiHeaderLen = 4

// SPIConfig selects the spidev bus and the GPIO lines of the chip.
type SPIConfig struct {
	// Bus is the spidev port name, e.g. "/dev/spidev0.0".
	// The path given to the opener takes precedence.
	Bus string
	// ClockHz defaults to 8 MHz.
	ClockHz int64
	// IrqPin goes high while the chip has a packet to read, e.g. "GPIO24".
	IrqPin string
	// EnablePin powers the chip, e.g. "GPIO25".
	EnablePin string
	// PollInterval bounds each wait for the IRQ edge.
	PollInterval time.Duration
}

// SPIDev talks UCI over a raw spidev bus with an IRQ line for read ready.
type SPIDev struct {
	cfg  SPIConfig
	port spi.PortCloser
	conn spi.Conn
	irq  gpio.PinIO
	en   gpio.PinIO

	// tx serializes bus transactions between reader and writer.
	tx      sync.Mutex
	aborted atomic.Bool
	closed  atomic.Bool
}

// SPIOpener returns an Opener for the spidev backend.
func SPIOpener(cfg SPIConfig) Opener {
	return func(path string) (Device, error) {
		c := cfg
		if path != "" {
			c.Bus = path
		}
		return OpenSPI(c)
	}
}

// OpenSPI opens the bus and claims the GPIO lines.
func OpenSPI(cfg SPIConfig) (*SPIDev, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize periph.io host: %w", err)
	}
	if cfg.Bus == "" {
		cfg.Bus = "/dev/spidev0.0"
	}
	if cfg.ClockHz == 0 {
		cfg.ClockHz = 8000000
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 100 * time.Millisecond
	}
	p, err := spireg.Open(cfg.Bus)
	if err != nil {
		return nil, fmt.Errorf("failed to open SPI port %s: %w", cfg.Bus, err)
	}
	conn, err := p.Connect(physic.Frequency(cfg.ClockHz)*physic.Hertz, spi.Mode0, 8)
	if err != nil {
		p.Close()
		return nil, fmt.Errorf("failed to create SPI connection: %w", err)
	}
	irq := gpioreg.ByName(cfg.IrqPin)
	if irq == nil {
		p.Close()
		return nil, fmt.Errorf("failed to open IRQ pin %q", cfg.IrqPin)
	}
	if err := irq.In(gpio.PullDown, gpio.RisingEdge); err != nil {
		p.Close()
		return nil, fmt.Errorf("failed to configure IRQ pin %s: %w", cfg.IrqPin, err)
	}
	var en gpio.PinIO
	if cfg.EnablePin != "" {
		if en = gpioreg.ByName(cfg.EnablePin); en == nil {
			p.Close()
			return nil, fmt.Errorf("failed to open enable pin %q", cfg.EnablePin)
		}
		if err := en.Out(gpio.High); err != nil {
			p.Close()
			return nil, fmt.Errorf("failed to drive enable pin %s: %w", cfg.EnablePin, err)
		}
	}
	return &SPIDev{cfg: cfg, port: p, conn: conn, irq: irq, en: en}, nil
}

func (d *SPIDev) check() error {
	if d.closed.Load() {
		return ErrClosed
	}
	if d.aborted.CompareAndSwap(true, false) {
		return ErrAborted
	}
	return nil
}

// Read waits for the IRQ line, clocks in the header and then the payload
// length the header declares.
func (d *SPIDev) Read(p []byte) (int, error) {
	for {
		if err := d.check(); err != nil {
			return 0, err
		}
		if d.irq.Read() == gpio.High {
			break
		}
		d.irq.WaitForEdge(d.cfg.PollInterval)
	}
	d.tx.Lock()
	defer d.tx.Unlock()
	hdr := make([]byte, spiHeaderLen)
	if err := d.conn.Tx(make([]byte, spiHeaderLen), hdr); err != nil {
		return 0, fmt.Errorf("spi header read: %w", err)
	}
	n := int(hdr[3])
	if hdr[1]&0x80 != 0 {
		n |= int(hdr[2]) << 8
	}
	total := spiHeaderLen + n
	if total > len(p) {
		// Drain the payload so the next packet starts on a header.
		if n > 0 {
			_ = d.conn.Tx(make([]byte, n), make([]byte, n))
		}
		return 0, fmt.Errorf("spi packet of %d bytes: %w", total, io.ErrShortBuffer)
	}
	copy(p, hdr)
	if n > 0 {
		if err := d.conn.Tx(make([]byte, n), p[spiHeaderLen:total]); err != nil {
			return 0, fmt.Errorf("spi payload read: %w", err)
		}
	}
	return total, nil
}

// Write clocks p out in one transaction.
func (d *SPIDev) Write(p []byte) (int, error) {
	if d.closed.Load() {
		return 0, ErrClosed
	}
	d.tx.Lock()
	defer d.tx.Unlock()
	if err := d.conn.Tx(p, make([]byte, len(p))); err != nil {
		return 0, fmt.Errorf("spi write: %w", err)
	}
	return len(p), nil
}

// Control drives the enable pin for power and wakes a pending read on
// AbortReadPending. Suspend, resume and firmware download need the kernel
// driver and are not supported here.
func (d *SPIDev) Control(code ControlCode, value int) error {
	if d.closed.Load() {
		return ErrClosed
	}
	if code != ControlSetPower {
		return fmt.Errorf("%w: %s on spidev", ErrUnsupported, code)
	}
	switch value {
	case PowerDisable, PowerEnable:
		if d.en == nil {
			return nil
		}
		level := gpio.Low
		if value == PowerEnable {
			level = gpio.High
		}
		return d.en.Out(level)
	case AbortReadPending:
		d.aborted.Store(true)
		return d.irq.Halt()
	default:
		return fmt.Errorf("%w: power %s on spidev", ErrUnsupported, PowerName(value))
	}
}

// Close releases the bus and the IRQ watch.
func (d *SPIDev) Close() error {
	if !d.closed.CompareAndSwap(false, true) {
		return ErrClosed
	}
	_ = d.irq.Halt()
	return d.port.Close()
}

// String returns the bus name.
func (d *SPIDev) String() string {
	return d.cfg.Bus
}
