package uci

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

	"github.com/Gurux/gxuwb-go/status"
)

// Fragment splits payload into packets of at most maxFragment payload bytes.
// Every packet but the last has PBF set. An empty payload yields one packet.
func Fragment(mt MessageType, gid, oid uint8, payload []byte, maxFragment int) ([][]byte, error) {
	if maxFragment <= 0 || maxFragment > MaxShortPayloadLen {
		maxFragment = MaxShortPayloadLen
	}
	var out [][]byte
	for {
		n := min(len(payload), maxFragment)
		more := n < len(payload)
		pkt, err := buildPacket(mt, more, false, gid, oid, payload[:n])
		if err != nil {
			return nil, err
		}
		out = append(out, pkt)
		payload = payload[n:]
		if !more {
			return out, nil
		}
	}
}

// Message is a reassembled logical UCI message.
type Message struct {
	MessageType MessageType
	GroupID     uint8
	OpcodeID    uint8
	Payload     []byte
}

// Packet returns the message as a single unfragmented packet, using the
// extended length form when the payload needs it.
func (m *Message) Packet() ([]byte, error) {
	if len(m.Payload) > MaxShortPayloadLen {
		return BuildExtendedPacket(m.MessageType, m.GroupID, m.OpcodeID, m.Payload)
	}
	return BuildPacket(m.MessageType, m.GroupID, m.OpcodeID, m.Payload)
}

// String implements fmt.Stringer.
func (m *Message) String() string {
	return fmt.Sprintf("%s gid=0x%02X oid=0x%02X len=%d", m.MessageType, m.GroupID, m.OpcodeID, len(m.Payload))
}

// Reassembler joins fragmented packets back into messages.
// It is not safe for concurrent use.
type Reassembler struct {
	active  bool
	current Message
	// skipping is set while the tail of a dropped run is still arriving.
	skipping bool
	skip     Message
}

func (m *Message) matches(h Header) bool {
	return h.MessageType == m.MessageType && h.GroupID == m.GroupID && h.OpcodeID == m.OpcodeID
}

// Push feeds one packet. It returns a message when a packet with PBF clear
// completes the run.
//
// A packet that does not continue the current run drops the partial message
// and Push reports it with an error wrapping status.ErrMalformedFrame. The
// interrupting packet is not lost: it starts a new run, and when it is a
// complete packet its message is returned together with the error. The
// remaining fragments of the dropped run are discarded up to and including
// its last fragment.
func (r *Reassembler) Push(pkt []byte) (*Message, error) {
	h, err := DecodeHeader(pkt)
	if err != nil {
		r.Reset()
		return nil, err
	}
	payload, err := Payload(pkt)
	if err != nil {
		r.Reset()
		return nil, err
	}
	if r.skipping && r.skip.matches(h) {
		if !h.PBF {
			r.skipping = false
		}
		return nil, nil
	}
	var dropped error
	if r.active && !r.current.matches(h) {
		dropped = fmt.Errorf("uci: fragment %s gid=0x%02X oid=0x%02X interrupts %s: %w",
			h.MessageType, h.GroupID, h.OpcodeID, r.current.String(), status.ErrMalformedFrame)
		r.skip = Message{MessageType: r.current.MessageType, GroupID: r.current.GroupID, OpcodeID: r.current.OpcodeID}
		r.skipping = true
		r.active = false
	}
	if !r.active {
		r.active = true
		r.current = Message{MessageType: h.MessageType, GroupID: h.GroupID, OpcodeID: h.OpcodeID}
	}
	r.current.Payload = append(r.current.Payload, payload...)
	if h.PBF {
		return nil, dropped
	}
	msg := r.current
	r.active = false
	r.current = Message{}
	return &msg, dropped
}

// Pending reports whether a partial message is buffered.
func (r *Reassembler) Pending() bool {
	return r.active
}

// Reset drops any partial message and stops discarding the tail of a
// dropped run.
func (r *Reassembler) Reset() {
	r.active = false
	r.current = Message{}
	r.skipping = false
	r.skip = Message{}
}
