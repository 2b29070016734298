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
	"fmt"
	"sync"
	"time"

	"github.com/Gurux/gxcommon-go"
	"github.com/Gurux/gxuwb-go/logging"
	"github.com/Gurux/gxuwb-go/monitor"
	"github.com/Gurux/gxuwb-go/status"
	"github.com/Gurux/gxuwb-go/uci"
	"github.com/rs/zerolog"
)

// DefaultCommandTimeout bounds each wait of SendCommand.
const DefaultCommandTimeout = 2 * time.Second

// NotificationHandler receives notifications and data messages. It runs on
// the client goroutine.
type NotificationHandler func(u *GXUci, msg *uci.Message)

type pendingCommand struct {
	gid uint8
	oid uint8
	cb  *monitor.CallbackData
	rsp []byte
}

// GXUci issues UCI commands over a GXTml and routes what the device sends
// back.
//
// SendCommand blocks until the response arrives. It must not be called from
// the client goroutine that runs the message queue, since the response is
// delivered there.
type GXUci struct {
	// Timeout is used when SendCommand is given no timeout.
	Timeout time.Duration

	tml   *GXTml
	mon   *monitor.Monitor
	rxBuf []byte
	// Only touched on the client goroutine.
	reassembler uci.Reassembler

	mu      sync.Mutex
	pending *pendingCommand
	onNtf   NotificationHandler

	log zerolog.Logger
}

// NewGXUci returns a command issuer bound to tml. Waits are tracked by mon.
func NewGXUci(tml *GXTml, mon *monitor.Monitor) *GXUci {
	return &GXUci{
		Timeout: DefaultCommandTimeout,
		tml:     tml,
		mon:     mon,
		rxBuf:   make([]byte, uci.MaxDataLen),
		log:     logging.Logger("uci"),
	}
}

// SetOnNotification sets the notification handler.
func (u *GXUci) SetOnNotification(value NotificationHandler) {
	u.mu.Lock()
	u.onNtf = value
	u.mu.Unlock()
}

// Start begins reading from the transport.
func (u *GXUci) Start() error {
	u.reassembler.Reset()
	return u.tml.StartRead(u.rxBuf, u.onRead, nil)
}

// Stop stops reading and wakes every pending wait with status.Failed.
func (u *GXUci) Stop() {
	u.tml.StopRead()
	u.mon.ReleaseAll()
}

// SendCommand sends a command and returns the complete response packet,
// header included. Payloads longer than one packet are fragmented.
func (u *GXUci) SendCommand(gid, oid uint8, payload []byte, timeout time.Duration) ([]byte, error) {
	if timeout <= 0 {
		timeout = u.Timeout
	}
	pkts, err := uci.Fragment(uci.MessageTypeCommand, gid, oid, payload, uci.MaxShortPayloadLen)
	if err != nil {
		return nil, fmt.Errorf("uci: command gid=0x%02X oid=0x%02X: %w", gid, oid, err)
	}
	u.mon.LockConcurrency()
	defer u.mon.UnlockConcurrency()

	rsp := &monitor.CallbackData{}
	if err = u.mon.RegisterCall(rsp, nil); err != nil {
		return nil, err
	}
	defer u.mon.UnregisterCall(rsp)
	pc := &pendingCommand{gid: gid, oid: oid, cb: rsp}
	u.mu.Lock()
	u.pending = pc
	u.mu.Unlock()
	defer func() {
		u.mu.Lock()
		u.pending = nil
		u.mu.Unlock()
	}()

	for _, pkt := range pkts {
		if err = u.writePacket(pkt, timeout); err != nil {
			return nil, fmt.Errorf("uci: command gid=0x%02X oid=0x%02X: %w", gid, oid, err)
		}
	}
	if err = u.mon.WaitWithTimeout(rsp, timeout); err != nil {
		return nil, fmt.Errorf("uci: response gid=0x%02X oid=0x%02X: %w", gid, oid, err)
	}
	if st := rsp.Status(); st != status.Success {
		return nil, fmt.Errorf("uci: response gid=0x%02X oid=0x%02X: %w", gid, oid, st.Err())
	}
	u.mu.Lock()
	defer u.mu.Unlock()
	return pc.rsp, nil
}

func (u *GXUci) writePacket(pkt []byte, timeout time.Duration) error {
	wcb := &monitor.CallbackData{}
	if err := u.mon.RegisterCall(wcb, nil); err != nil {
		return err
	}
	defer u.mon.UnregisterCall(wcb)
	err := u.tml.Write(pkt, func(ctx any, info TransactInfo) {
		ctx.(*monitor.CallbackData).Post(info.Status)
	}, wcb)
	if err != nil {
		return err
	}
	if err = u.mon.WaitWithTimeout(wcb, timeout); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	if st := wcb.Status(); st != status.Success {
		return fmt.Errorf("write: %w", st.Err())
	}
	return nil
}

func (u *GXUci) onRead(_ any, info TransactInfo) {
	if info.Status != status.Success {
		return
	}
	msg, err := u.reassembler.Push(info.Buffer[:info.Length])
	if err != nil {
		u.log.Warn().Err(err).Msg("partial message dropped")
	}
	if msg == nil {
		return
	}
	switch msg.MessageType {
	case uci.MessageTypeResponse:
		u.onResponse(msg)
	case uci.MessageTypeNotification, uci.MessageTypeData:
		if msg.MessageType == uci.MessageTypeNotification &&
			msg.GroupID == uci.GroupCore && msg.OpcodeID == uci.OidCoreDeviceStatusNtf &&
			len(msg.Payload) != 0 && msg.Payload[0] == uci.DeviceStateError {
			u.log.Error().Msg("device reported error state")
			u.mon.EmergencyRecovery("device status error")
		}
		u.mu.Lock()
		cb := u.onNtf
		u.mu.Unlock()
		if cb != nil {
			cb(u, msg)
		}
	default:
		u.log.Warn().Stringer("msg", msg).Msg("unexpected message dropped")
	}
}

func (u *GXUci) onResponse(msg *uci.Message) {
	pkt, err := msg.Packet()
	if err != nil {
		u.log.Warn().Err(err).Stringer("msg", msg).Msg("response dropped")
		return
	}
	u.mu.Lock()
	pc := u.pending
	match := pc != nil && pc.rsp == nil && pc.gid == msg.GroupID && pc.oid == msg.OpcodeID
	if match {
		pc.rsp = pkt
	}
	u.mu.Unlock()
	if !match {
		u.log.Warn().Stringer("msg", msg).Msg("response without pending command dropped")
		u.tml.tracef(gxcommon.TraceTypesInfo, "unsolicited %s", msg.String())
		return
	}
	pc.cb.Post(status.Success)
}
