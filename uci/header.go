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
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/Gurux/gxuwb-go/status"
)

// ErrPayloadTooLarge is returned when a payload does not fit the packet
// length field.
var ErrPayloadTooLarge = errors.New("uci: payload too large")

// Header is the decoded 4 byte UCI packet header.
type Header struct {
	MessageType MessageType
	// PBF is set when more packets of the same message follow.
	PBF      bool
	GroupID  uint8
	OpcodeID uint8
	// Extended is set when the payload length uses bytes 2 and 3.
	Extended   bool
	PayloadLen uint16
}

// EncodeHeader writes the header into a new 4 byte slice.
// Fields wider than their bit widths are masked. Without Extended only the
// low byte of PayloadLen is written and byte 2 is zero.
func EncodeHeader(h Header) []byte {
	b := make([]byte, HeaderLen)
	putHeader(b, h)
	return b
}

func putHeader(b []byte, h Header) {
	b[0] = (uint8(h.MessageType)<<mtShift)&mtMask | h.GroupID&gidMask
	if h.PBF {
		b[0] |= pbfMask
	}
	b[1] = h.OpcodeID & oidMask
	if h.Extended {
		b[1] |= extendedLenIndicatorMask
		b[extendedLenOffset] = byte(h.PayloadLen >> 8)
	} else {
		b[extendedLenOffset] = 0
	}
	b[normalLenOffset] = byte(h.PayloadLen)
}

// DecodeHeader parses the first 4 bytes of b.
func DecodeHeader(b []byte) (Header, error) {
	if len(b) < HeaderLen {
		return Header{}, fmt.Errorf("uci: short header (%d bytes): %w", len(b), status.ErrMalformedFrame)
	}
	h := Header{
		MessageType: MessageType((b[0] & mtMask) >> mtShift),
		PBF:         (b[0]&pbfMask)>>pbfShift == 1,
		GroupID:     b[0] & gidMask,
		OpcodeID:    b[1] & oidMask,
		Extended:    b[extendedLenIndicatorOffset]&extendedLenIndicatorMask != 0,
	}
	if h.Extended {
		h.PayloadLen = uint16(b[extendedLenOffset])<<8 | uint16(b[normalLenOffset])
	} else {
		h.PayloadLen = uint16(b[normalLenOffset])
	}
	return h, nil
}

// PacketLen returns the total packet length declared by the header in b.
func PacketLen(b []byte) (int, error) {
	h, err := DecodeHeader(b)
	if err != nil {
		return 0, err
	}
	return HeaderLen + int(h.PayloadLen), nil
}

// BuildPacket builds a single packet with PBF clear and the one byte length
// form. Larger payloads need BuildExtendedPacket or Fragment.
func BuildPacket(mt MessageType, gid, oid uint8, payload []byte) ([]byte, error) {
	if len(payload) > MaxShortPayloadLen {
		return nil, fmt.Errorf("%w: %d bytes, use the extended form", ErrPayloadTooLarge, len(payload))
	}
	return buildPacket(mt, false, false, gid, oid, payload)
}

// BuildExtendedPacket builds a single packet with the extended length
// indicator set and the length in bytes 2 and 3.
func BuildExtendedPacket(mt MessageType, gid, oid uint8, payload []byte) ([]byte, error) {
	return buildPacket(mt, false, true, gid, oid, payload)
}

func buildPacket(mt MessageType, pbf, extended bool, gid, oid uint8, payload []byte) ([]byte, error) {
	if len(payload) > MaxPayloadLen {
		return nil, fmt.Errorf("%w: %d bytes", ErrPayloadTooLarge, len(payload))
	}
	h := Header{
		MessageType: mt,
		PBF:         pbf,
		GroupID:     gid,
		OpcodeID:    oid,
		Extended:    extended,
		PayloadLen:  uint16(len(payload)),
	}
	b := make([]byte, HeaderLen+len(payload))
	putHeader(b, h)
	copy(b[HeaderLen:], payload)
	return b, nil
}

// Payload returns the payload of a packet, bounded by the declared length.
func Payload(pkt []byte) ([]byte, error) {
	n, err := PacketLen(pkt)
	if err != nil {
		return nil, err
	}
	if n > len(pkt) {
		return nil, fmt.Errorf("uci: declared %d bytes, have %d: %w", n, len(pkt), status.ErrMalformedFrame)
	}
	return pkt[HeaderLen:n], nil
}

// ResponseStatus returns the status byte of a response packet.
func ResponseStatus(pkt []byte) (StatusCode, bool) {
	if len(pkt) <= ResponseStatusOffset {
		return 0, false
	}
	return StatusCode(pkt[ResponseStatusOffset]), true
}

// IsNotificationFirstByte reports whether a packet starting with b0 may be
// delivered before the completion of a preceding write.
//
// TODO: confirm the 0x60 mask with the vendor protocol documentation. It
// also matches message type 7 and ignores the PBF bit.
func IsNotificationFirstByte(b0 byte) bool {
	return b0&notificationBypassMask == notificationBypassMask
}

// Direction tells which way a packet travelled.
type Direction int

const (
	// DirectionHostToDevice is a command written to the device.
	DirectionHostToDevice Direction = iota
	// DirectionDeviceToHost is a response, notification or data packet
	// read from the device.
	DirectionDeviceToHost
	// DirectionFwDownloadToDevice is a firmware download command.
	DirectionFwDownloadToDevice
	// DirectionFwDownloadFromDevice is a firmware download response.
	DirectionFwDownloadFromDevice
)

// FormatPacket renders a packet for tracing.
func FormatPacket(dir Direction, data []byte) string {
	hexStr := strings.ToUpper(hex.EncodeToString(data))
	switch dir {
	case DirectionHostToDevice:
		return fmt.Sprintf("len = %3d > %s", len(data), hexStr)
	case DirectionFwDownloadToDevice:
		return fmt.Sprintf("len = %3d > (FW)%s", len(data), hexStr)
	case DirectionFwDownloadFromDevice:
		return fmt.Sprintf("len = %3d < (FW)%s", len(data), hexStr)
	default:
		return fmt.Sprintf("len = %3d < %s", len(data), hexStr)
	}
}
