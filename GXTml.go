package gxuwb

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
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Gurux/gxcommon-go"
	"github.com/Gurux/gxuwb-go/device"
	"github.com/Gurux/gxuwb-go/logging"
	"github.com/Gurux/gxuwb-go/msgqueue"
	"github.com/Gurux/gxuwb-go/status"
	"github.com/Gurux/gxuwb-go/uci"
	"github.com/rs/zerolog"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Transport defaults.
const (
	DefaultWriteWaitTimeout = time.Second
	DefaultChipResetDelay   = time.Millisecond
	DefaultReadErrorLimit   = 5
)

// TransactInfo is passed to a completion callback.
type TransactInfo struct {
	Status status.Status
	// Buffer is the caller's buffer of the transaction.
	Buffer []byte
	// Length is the number of bytes read or written.
	Length int
}

// CompletionFunc is called on the client goroutine when a read or write
// completes. ctx is the value given to Write or StartRead.
type CompletionFunc func(ctx any, info TransactInfo)

// TraceEventHandler receives trace events.
type TraceEventHandler func(t *GXTml, e gxcommon.TraceEventArgs)

// ErrorEventHandler receives errors from the reader and writer goroutines.
type ErrorEventHandler func(t *GXTml, err error)

// StateEventHandler receives media state changes.
type StateEventHandler func(t *GXTml, e gxcommon.MediaStateEventArgs)

type transaction struct {
	buf    []byte
	length int
	cb     CompletionFunc
	ctx    any
}

// GXTml is the transport mapping layer between the UCI stack and the UWB
// device. Completions are delivered as deferred calls through the client
// message queue given to Init.
type GXTml struct {
	// WriteWaitTimeout bounds how long a read waits for the completion of a
	// write in progress.
	WriteWaitTimeout time.Duration
	// ChipResetDelay is the power off time of ChipReset.
	ChipResetDelay time.Duration
	// ReadErrorLimit is the number of consecutive device read errors that
	// stop the reader.
	ReadErrorLimit int

	opener device.Opener

	mu         sync.Mutex
	state      TmlState
	path       string
	dev        device.Device
	queue      *msgqueue.Queue
	postCtx    context.Context
	postCancel context.CancelFunc
	readErr    error

	// Writer. The pending transaction travels through txSignal.
	txSignal   chan transaction
	writerStop chan struct{}
	writerWg   sync.WaitGroup
	writeBusy  atomic.Bool

	// Reader.
	rxSignal      chan struct{}
	readerStop    atomic.Bool
	readerRunning atomic.Bool
	readerWg      sync.WaitGroup

	// Write/read ordering. writerCbFlag is false while a write is in the
	// device. A reader holding a response sets waitBusy and waits on
	// writeDone.
	orderMu      sync.Mutex
	writerCbFlag bool
	waitBusy     bool
	writeDone    chan struct{}

	bytesSent     atomic.Uint64
	bytesReceived atomic.Uint64

	hmu        sync.RWMutex
	traceLevel gxcommon.TraceLevel
	onTrace    TraceEventHandler
	onErr      ErrorEventHandler
	onState    StateEventHandler

	log zerolog.Logger
	// Printer for localized messages.
	p *message.Printer
}

// NewGXTml creates a transport that opens its device through opener.
func NewGXTml(opener device.Opener) *GXTml {
	g := &GXTml{
		WriteWaitTimeout: DefaultWriteWaitTimeout,
		ChipResetDelay:   DefaultChipResetDelay,
		ReadErrorLimit:   DefaultReadErrorLimit,
		opener:           opener,
		log:              logging.Logger("tml"),
	}
	g.Localize(language.AmericanEnglish)
	return g
}

// String returns the device path and the state.
func (g *GXTml) String() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return fmt.Sprintf("%s (%s)", g.path, g.state)
}

// State returns the lifecycle state.
func (g *GXTml) State() TmlState {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// Init opens and configures the device at devicePath and starts the writer
// goroutine. Completions are posted to q.
func (g *GXTml) Init(devicePath string, q *msgqueue.Queue) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.state != TmlStateUninitialized {
		return status.ErrAlreadyInitialized
	}
	if devicePath == "" || q == nil || g.opener == nil {
		return status.ErrInvalidParameter
	}
	g.statef(gxcommon.MediaStateOpening)
	g.trace(gxcommon.TraceTypesInfo, g.p.Sprintf("msg.opening_device", devicePath))
	dev, err := g.opener(devicePath)
	if err == nil && dev == nil {
		err = errors.New("opener returned no device")
	}
	if err != nil {
		g.cleanUp(dev)
		g.trace(gxcommon.TraceTypesError, g.p.Sprintf("msg.open_failed", devicePath, err))
		g.errorf(err)
		g.statef(gxcommon.MediaStateClosed)
		return fmt.Errorf("%w: %w", status.ErrInvalidDevice, err)
	}
	g.path = devicePath
	g.dev = dev
	g.queue = q
	g.postCtx, g.postCancel = context.WithCancel(context.Background())
	g.readErr = nil
	g.txSignal = make(chan transaction, 1)
	g.writerStop = make(chan struct{})
	g.rxSignal = make(chan struct{}, 1)
	g.writeDone = make(chan struct{}, 1)
	g.writeBusy.Store(false)
	g.orderMu.Lock()
	g.writerCbFlag = true
	g.waitBusy = false
	g.orderMu.Unlock()

	g.writerWg.Add(1)
	go g.writer(dev, g.txSignal, g.writerStop)

	g.state = TmlStateInitialized
	g.log.Info().Str("path", devicePath).Msg("transport initialized")
	g.trace(gxcommon.TraceTypesInfo, g.p.Sprintf("msg.device_opened", devicePath))
	g.statef(gxcommon.MediaStateOpen)
	return nil
}

// Write hands buf to the writer goroutine. A nil return means the write is
// pending and cb will be called with the outcome. buf must stay untouched
// until then.
func (g *GXTml) Write(buf []byte, cb CompletionFunc, ctx any) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.ready() {
		return status.ErrNotInitialized
	}
	if len(buf) == 0 || cb == nil {
		return status.ErrInvalidParameter
	}
	if !g.writeBusy.CompareAndSwap(false, true) {
		return status.ErrBusy
	}
	g.txSignal <- transaction{buf: buf, length: len(buf), cb: cb, ctx: ctx}
	return nil
}

// StartRead starts the reader goroutine. Every packet is copied into buf
// and cb is called on the client goroutine; the next read starts after cb
// returns.
func (g *GXTml) StartRead(buf []byte, cb CompletionFunc, ctx any) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.ready() {
		return status.ErrNotInitialized
	}
	if len(buf) < 1 || cb == nil {
		return status.ErrInvalidParameter
	}
	if g.readerRunning.Load() {
		return status.ErrBusy
	}
	rt := transaction{buf: buf, length: len(buf), cb: cb, ctx: ctx}
	g.readErr = nil
	select {
	case <-g.rxSignal:
	default:
	}
	g.readerStop.Store(false)
	g.readerRunning.Store(true)
	g.signalRead()
	g.readerWg.Add(1)
	go g.reader(g.dev, rt)
	g.state = TmlStateReading
	g.trace(gxcommon.TraceTypesInfo, g.p.Sprintf("msg.reader_started"))
	return nil
}

// StopRead stops the reader goroutine and waits for it. A read blocked in
// the device is woken with AbortReadPending.
func (g *GXTml) StopRead() {
	g.mu.Lock()
	dev := g.dev
	g.mu.Unlock()
	g.readerStop.Store(true)
	if dev != nil && g.readerRunning.Load() {
		if err := dev.Control(device.ControlSetPower, device.AbortReadPending); err != nil {
			g.log.Warn().Err(err).Msg("abort read pending failed")
		}
		g.signalRead()
	}
	g.readerWg.Wait()
	g.mu.Lock()
	if g.state == TmlStateReading {
		g.state = TmlStateInitialized
	}
	g.mu.Unlock()
}

// Shutdown stops both goroutines, powers the device down and closes it.
func (g *GXTml) Shutdown() error {
	g.mu.Lock()
	if g.state == TmlStateUninitialized || g.state == TmlStateShuttingDown {
		g.mu.Unlock()
		return status.ErrNotInitialized
	}
	g.state = TmlStateShuttingDown
	dev := g.dev
	cancel := g.postCancel
	path := g.path
	g.mu.Unlock()

	g.trace(gxcommon.TraceTypesInfo, g.p.Sprintf("msg.shutting_down", path))
	g.statef(gxcommon.MediaStateClosing)
	cancel()
	g.StopRead()
	g.stopWriter()
	g.cleanUp(dev)

	g.mu.Lock()
	g.dev = nil
	g.queue = nil
	g.path = ""
	g.state = TmlStateUninitialized
	g.mu.Unlock()
	g.log.Info().Str("path", path).Msg("transport shut down")
	g.trace(gxcommon.TraceTypesInfo, g.p.Sprintf("msg.device_closed", path))
	g.statef(gxcommon.MediaStateClosed)
	return nil
}

// ChipReset power cycles the chip.
func (g *GXTml) ChipReset() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.dev == nil {
		return status.ErrNotInitialized
	}
	g.trace(gxcommon.TraceTypesInfo, g.p.Sprintf("msg.chip_reset"))
	errOff := g.control(device.PowerDisable)
	time.Sleep(g.ChipResetDelay)
	errOn := g.control(device.PowerEnable)
	return errors.Join(errOff, errOn)
}

// Suspend puts the chip into low power mode.
func (g *GXTml) Suspend() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.dev == nil {
		return status.ErrNotInitialized
	}
	g.log.Debug().Msg("suspend")
	return g.control(device.PowerSuspend)
}

// Resume wakes the chip from low power mode.
func (g *GXTml) Resume() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.dev == nil {
		return status.ErrNotInitialized
	}
	g.log.Debug().Msg("resume")
	return g.control(device.PowerResume)
}

// ReadError returns the error that stopped the reader, if any.
func (g *GXTml) ReadError() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.readErr
}

// GetBytesSent returns the number of bytes written to the device.
func (g *GXTml) GetBytesSent() uint64 {
	return g.bytesSent.Load()
}

// GetBytesReceived returns the number of bytes read from the device.
func (g *GXTml) GetBytesReceived() uint64 {
	return g.bytesReceived.Load()
}

// ResetByteCounters resets the sent and received byte counters.
func (g *GXTml) ResetByteCounters() {
	g.bytesSent.Store(0)
	g.bytesReceived.Store(0)
}

// GetTrace returns the trace level.
func (g *GXTml) GetTrace() gxcommon.TraceLevel {
	g.hmu.RLock()
	defer g.hmu.RUnlock()
	return g.traceLevel
}

// SetTrace sets the trace level.
func (g *GXTml) SetTrace(traceLevel gxcommon.TraceLevel) error {
	g.hmu.Lock()
	g.traceLevel = traceLevel
	g.hmu.Unlock()
	return nil
}

// SetOnTrace sets the trace handler.
func (g *GXTml) SetOnTrace(value TraceEventHandler) {
	g.hmu.Lock()
	g.onTrace = value
	g.hmu.Unlock()
}

// SetOnError sets the error handler.
func (g *GXTml) SetOnError(value ErrorEventHandler) {
	g.hmu.Lock()
	g.onErr = value
	g.hmu.Unlock()
}

// SetOnStateChange sets the media state handler.
func (g *GXTml) SetOnStateChange(value StateEventHandler) {
	g.hmu.Lock()
	g.onState = value
	g.hmu.Unlock()
}

func (g *GXTml) ready() bool {
	return g.dev != nil && (g.state == TmlStateInitialized || g.state == TmlStateReading)
}

func (g *GXTml) control(value int) error {
	if err := g.dev.Control(device.ControlSetPower, value); err != nil {
		g.log.Error().Err(err).Str("power", device.PowerName(value)).Msg("set power failed")
		return fmt.Errorf("%w: %w", status.ErrIoFailure, err)
	}
	return nil
}

func (g *GXTml) cleanUp(dev device.Device) {
	if dev == nil {
		return
	}
	if err := dev.Control(device.ControlSetPower, device.PowerDisable); err != nil {
		g.log.Warn().Err(err).Msg("power down failed")
	}
	if err := dev.Close(); err != nil {
		g.log.Warn().Err(err).Msg("close failed")
	}
}

func (g *GXTml) stopWriter() {
	g.writeBusy.Store(false)
	close(g.writerStop)
	g.writerWg.Wait()
}

func (g *GXTml) signalRead() {
	select {
	case g.rxSignal <- struct{}{}:
	default:
	}
}

// post hands fn to the client goroutine. It fails once Shutdown has begun.
func (g *GXTml) post(name string, fn func()) error {
	g.mu.Lock()
	q, ctx := g.queue, g.postCtx
	g.mu.Unlock()
	if q == nil {
		return status.ErrNotInitialized
	}
	return q.SendContext(ctx, msgqueue.DeferredCall{Name: name, Fn: fn})
}

func (g *GXTml) writer(dev device.Device, txSignal <-chan transaction, stop <-chan struct{}) {
	defer g.writerWg.Done()
	g.log.Debug().Msg("writer started")
	defer g.log.Debug().Msg("writer stopped")
	for {
		var tx transaction
		select {
		case <-stop:
			select {
			case tx = <-txSignal:
				g.abandon(tx)
			default:
			}
			return
		case tx = <-txSignal:
		}
		data := tx.buf[:tx.length]
		g.orderMu.Lock()
		g.writerCbFlag = false
		n, err := dev.Write(data)
		g.orderMu.Unlock()
		if err == nil && n != len(data) {
			err = fmt.Errorf("short write %d of %d bytes: %w", n, len(data), io.ErrShortWrite)
		}
		info := TransactInfo{Status: status.Success, Buffer: tx.buf, Length: n}
		if err != nil {
			info.Status = status.Failed
			info.Length = 0
			g.log.Error().Err(err).Msg("device write failed")
			g.trace(gxcommon.TraceTypesError, g.p.Sprintf("msg.write_failed", err))
			g.errorf(err)
		} else {
			g.bytesSent.Add(uint64(n))
			g.tracePacket(gxcommon.TraceTypesSent, "TX", uci.DirectionHostToDevice, data)
		}
		perr := g.post("tml-write", func() {
			g.writeBusy.Store(false)
			tx.cb(tx.ctx, info)
		})
		if perr != nil {
			g.log.Debug().Err(perr).Msg("write completion dropped")
		}
		if err == nil {
			g.orderMu.Lock()
			g.writerCbFlag = true
			if g.waitBusy {
				g.waitBusy = false
				select {
				case g.writeDone <- struct{}{}:
				default:
				}
			}
			g.orderMu.Unlock()
		}
	}
}

// abandon fails a write accepted just before the writer was stopped.
// Posting uses its own deadline since Shutdown has already cancelled the
// posting context.
func (g *GXTml) abandon(tx transaction) {
	g.log.Warn().Int("len", tx.length).Msg("pending write dropped on shutdown")
	g.mu.Lock()
	q := g.queue
	g.mu.Unlock()
	if q == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), g.WriteWaitTimeout)
	defer cancel()
	info := TransactInfo{Status: status.Failed, Buffer: tx.buf}
	err := q.SendContext(ctx, msgqueue.DeferredCall{Name: "tml-write", Fn: func() {
		tx.cb(tx.ctx, info)
	}})
	if err != nil {
		g.log.Debug().Err(err).Msg("write completion dropped")
	}
}

func (g *GXTml) reader(dev device.Device, rt transaction) {
	defer g.readerWg.Done()
	defer g.readerRunning.Store(false)
	g.log.Debug().Msg("reader started")
	defer g.log.Debug().Msg("reader stopped")
	scratch := make([]byte, uci.MaxDataLen)
	limit := g.ReadErrorLimit
	if limit < 1 {
		limit = DefaultReadErrorLimit
	}
	failures := 0
	for !g.readerStop.Load() {
		<-g.rxSignal
		if g.readerStop.Load() {
			return
		}
		n, err := dev.Read(scratch)
		if g.readerStop.Load() {
			return
		}
		if err != nil {
			if errors.Is(err, io.ErrShortBuffer) {
				g.log.Error().Err(err).Msg("packet exceeds the read buffer")
				g.trace(gxcommon.TraceTypesError, g.p.Sprintf("msg.oversize", len(scratch)))
				g.signalRead()
				continue
			}
			if errors.Is(err, device.ErrAborted) {
				// Abort left over from an earlier StopRead.
				g.log.Debug().Msg("stale read abort ignored")
				g.signalRead()
				continue
			}
			failures++
			if errors.Is(err, device.ErrClosed) || failures >= limit {
				g.readFailed(err)
				return
			}
			g.log.Warn().Err(err).Int("failures", failures).Msg("device read failed")
			g.trace(gxcommon.TraceTypesError, g.p.Sprintf("msg.read_failed", err))
			g.signalRead()
			continue
		}
		failures = 0
		if n == 0 {
			g.log.Debug().Msg("empty packet read, ignored")
			g.signalRead()
			continue
		}
		if n > len(scratch) || n > len(rt.buf) {
			g.log.Error().Int("len", n).Int("cap", len(rt.buf)).Msg("packet exceeds the read buffer")
			g.trace(gxcommon.TraceTypesError, g.p.Sprintf("msg.oversize", n))
			g.signalRead()
			continue
		}
		copy(rt.buf, scratch[:n])
		g.bytesReceived.Add(uint64(n))
		g.tracePacket(gxcommon.TraceTypesReceived, "RX", uci.DirectionDeviceToHost, rt.buf[:n])
		g.waitWriteComplete(rt.buf[0])
		info := TransactInfo{Status: status.Success, Buffer: rt.buf, Length: n}
		err = g.post("tml-read", func() {
			rt.cb(rt.ctx, info)
			g.signalRead()
		})
		if err != nil {
			g.log.Debug().Err(err).Msg("read completion dropped")
			return
		}
	}
}

// waitWriteComplete holds back a packet that is not a notification while
// a write is still in the device.
func (g *GXTml) waitWriteComplete(b0 byte) {
	g.orderMu.Lock()
	if g.writerCbFlag || uci.IsNotificationFirstByte(b0) {
		g.orderMu.Unlock()
		return
	}
	g.waitBusy = true
	select {
	case <-g.writeDone:
	default:
	}
	g.orderMu.Unlock()

	t := time.NewTimer(g.WriteWaitTimeout)
	defer t.Stop()
	select {
	case <-g.writeDone:
	case <-t.C:
		g.log.Warn().Dur("timeout", g.WriteWaitTimeout).Msg("write completion wait timed out")
	}
	g.orderMu.Lock()
	g.waitBusy = false
	g.orderMu.Unlock()
}

func (g *GXTml) readFailed(err error) {
	g.log.Error().Err(err).Msg("reader stopped on device error")
	g.trace(gxcommon.TraceTypesError, g.p.Sprintf("msg.read_failed", err))
	g.mu.Lock()
	g.readErr = fmt.Errorf("%w: %w", status.ErrIoFailure, err)
	if g.state == TmlStateReading {
		g.state = TmlStateInitialized
	}
	g.mu.Unlock()
	g.errorf(err)
}

func (g *GXTml) tracePacket(traceType gxcommon.TraceTypes, prefix string, dir uci.Direction, data []byte) {
	if logging.Enabled(zerolog.DebugLevel) {
		g.log.Debug().Msg(uci.FormatPacket(dir, data))
	}
	str, err := gxcommon.ToString(data)
	if err != nil {
		g.tracef(gxcommon.TraceTypesError, "%s failed: %v", prefix, err)
		return
	}
	g.tracef(traceType, "%s: %s", prefix, str)
}

func (g *GXTml) errorf(err error) {
	g.hmu.RLock()
	cb := g.onErr
	g.hmu.RUnlock()
	if cb != nil {
		cb(g, err)
	}
}

func (g *GXTml) tracef(traceType gxcommon.TraceTypes, fmtStr string, a ...any) {
	g.trace(traceType, fmt.Sprintf(fmtStr, a...))
}

func (g *GXTml) trace(traceType gxcommon.TraceTypes, message string) {
	g.hmu.RLock()
	trace := !(int(g.traceLevel) < int(traceType))
	cb := g.onTrace
	g.hmu.RUnlock()
	if cb != nil && trace {
		p := gxcommon.NewTraceEventArgs(traceType, message, "")
		cb(g, *p)
	}
}

func (g *GXTml) statef(state gxcommon.MediaState) {
	g.hmu.RLock()
	cb := g.onState
	g.hmu.RUnlock()
	if cb != nil {
		cb(g, *gxcommon.NewMediaStateEventArgs(state))
	}
}

// Localize messages for the specified language.
// No errors is returned if language is not supported.
func (g *GXTml) Localize(language language.Tag) {
	g.p = message.NewPrinter(language)
}

//nolint:errcheck
func init() {
	// --- English (default) ---
	message.SetString(language.AmericanEnglish, "msg.opening_device", "Opening UWB device %s")
	message.SetString(language.AmericanEnglish, "msg.open_failed", "Opening UWB device %s failed: %v")
	message.SetString(language.AmericanEnglish, "msg.device_opened", "UWB device %s opened")
	message.SetString(language.AmericanEnglish, "msg.shutting_down", "Closing UWB device %s")
	message.SetString(language.AmericanEnglish, "msg.device_closed", "UWB device %s closed")
	message.SetString(language.AmericanEnglish, "msg.reader_started", "Reader started")
	message.SetString(language.AmericanEnglish, "msg.write_failed", "Write failed: %v")
	message.SetString(language.AmericanEnglish, "msg.read_failed", "Read failed: %v")
	message.SetString(language.AmericanEnglish, "msg.oversize", "Packet of %d bytes does not fit the read buffer")
	message.SetString(language.AmericanEnglish, "msg.chip_reset", "Resetting the UWB chip")

	// --- German (de) ---
	message.SetString(language.German, "msg.opening_device", "UWB-Gerät %s wird geöffnet")
	message.SetString(language.German, "msg.open_failed", "Öffnen des UWB-Geräts %s fehlgeschlagen: %v")
	message.SetString(language.German, "msg.device_opened", "UWB-Gerät %s geöffnet")
	message.SetString(language.German, "msg.shutting_down", "UWB-Gerät %s wird geschlossen")
	message.SetString(language.German, "msg.device_closed", "UWB-Gerät %s geschlossen")
	message.SetString(language.German, "msg.reader_started", "Leser gestartet")
	message.SetString(language.German, "msg.write_failed", "Schreiben fehlgeschlagen: %v")
	message.SetString(language.German, "msg.read_failed", "Lesen fehlgeschlagen: %v")
	message.SetString(language.German, "msg.oversize", "Paket mit %d Bytes passt nicht in den Lesepuffer")
	message.SetString(language.German, "msg.chip_reset", "UWB-Chip wird zurückgesetzt")

	// --- Finnish (fi) ---
	message.SetString(language.Finnish, "msg.opening_device", "Avataan UWB-laite %s")
	message.SetString(language.Finnish, "msg.open_failed", "UWB-laitteen %s avaaminen epäonnistui: %v")
	message.SetString(language.Finnish, "msg.device_opened", "UWB-laite %s avattu")
	message.SetString(language.Finnish, "msg.shutting_down", "Suljetaan UWB-laite %s")
	message.SetString(language.Finnish, "msg.device_closed", "UWB-laite %s suljettu")
	message.SetString(language.Finnish, "msg.reader_started", "Lukija käynnistetty")
	message.SetString(language.Finnish, "msg.write_failed", "Kirjoitus epäonnistui: %v")
	message.SetString(language.Finnish, "msg.read_failed", "Luku epäonnistui: %v")
	message.SetString(language.Finnish, "msg.oversize", "%d tavun paketti ei mahdu lukupuskuriin")
	message.SetString(language.Finnish, "msg.chip_reset", "UWB-piiri nollataan")

	// --- Swedish (sv) ---
	message.SetString(language.Swedish, "msg.opening_device", "Öppnar UWB-enhet %s")
	message.SetString(language.Swedish, "msg.open_failed", "Det gick inte att öppna UWB-enhet %s: %v")
	message.SetString(language.Swedish, "msg.device_opened", "UWB-enhet %s öppnad")
	message.SetString(language.Swedish, "msg.shutting_down", "Stänger UWB-enhet %s")
	message.SetString(language.Swedish, "msg.device_closed", "UWB-enhet %s stängd")
	message.SetString(language.Swedish, "msg.reader_started", "Läsaren startad")
	message.SetString(language.Swedish, "msg.write_failed", "Skrivning misslyckades: %v")
	message.SetString(language.Swedish, "msg.read_failed", "Läsning misslyckades: %v")
	message.SetString(language.Swedish, "msg.oversize", "Paket på %d byte ryms inte i läsbufferten")
	message.SetString(language.Swedish, "msg.chip_reset", "Återställer UWB-kretsen")

	// --- Spanish (es) ---
	message.SetString(language.Spanish, "msg.opening_device", "Abriendo el dispositivo UWB %s")
	message.SetString(language.Spanish, "msg.open_failed", "Error al abrir el dispositivo UWB %s: %v")
	message.SetString(language.Spanish, "msg.device_opened", "Dispositivo UWB %s abierto")
	message.SetString(language.Spanish, "msg.shutting_down", "Cerrando el dispositivo UWB %s")
	message.SetString(language.Spanish, "msg.device_closed", "Dispositivo UWB %s cerrado")
	message.SetString(language.Spanish, "msg.reader_started", "Lector iniciado")
	message.SetString(language.Spanish, "msg.write_failed", "Error de escritura: %v")
	message.SetString(language.Spanish, "msg.read_failed", "Error de lectura: %v")
	message.SetString(language.Spanish, "msg.oversize", "El paquete de %d bytes no cabe en el búfer de lectura")
	message.SetString(language.Spanish, "msg.chip_reset", "Reiniciando el chip UWB")

	// --- Estonian (et) ---
	message.SetString(language.Estonian, "msg.opening_device", "Avatakse UWB-seade %s")
	message.SetString(language.Estonian, "msg.open_failed", "UWB-seadme %s avamine ebaõnnestus: %v")
	message.SetString(language.Estonian, "msg.device_opened", "UWB-seade %s avatud")
	message.SetString(language.Estonian, "msg.shutting_down", "Suletakse UWB-seade %s")
	message.SetString(language.Estonian, "msg.device_closed", "UWB-seade %s suletud")
	message.SetString(language.Estonian, "msg.reader_started", "Lugeja käivitatud")
	message.SetString(language.Estonian, "msg.write_failed", "Kirjutamine ebaõnnestus: %v")
	message.SetString(language.Estonian, "msg.read_failed", "Lugemine ebaõnnestus: %v")
	message.SetString(language.Estonian, "msg.oversize", "%d-baidine pakett ei mahu lugemispuhvrisse")
	message.SetString(language.Estonian, "msg.chip_reset", "UWB-kiip lähtestatakse")
}
