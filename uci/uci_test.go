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
	"bytes"
	"testing"

	"github.com/Gurux/gxcommon-go"
	"github.com/Gurux/gxuwb-go/status"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeCoreDeviceInfoCommand(t *testing.T) {
	h, err := DecodeHeader([]byte{0x20, 0x02, 0x00, 0x00})
	require.NoError(t, err)
	assert.Equal(t, MessageTypeCommand, h.MessageType)
	assert.False(t, h.PBF)
	assert.Equal(t, GroupCore, h.GroupID)
	assert.Equal(t, OidCoreDeviceInfo, h.OpcodeID)
	assert.False(t, h.Extended)
	assert.Equal(t, uint16(0), h.PayloadLen)
}

func TestHeaderRoundTrip(t *testing.T) {
	for mt := MessageTypeData; mt <= MessageTypeNotification; mt++ {
		for _, pbf := range []bool{false, true} {
			for gid := uint8(0); gid <= 0x0F; gid++ {
				for oid := uint8(0); oid <= 0x3F; oid++ {
					h := Header{MessageType: mt, PBF: pbf, GroupID: gid, OpcodeID: oid, PayloadLen: uint16(oid) * 3}
					got, err := DecodeHeader(EncodeHeader(h))
					require.NoError(t, err)
					require.Equal(t, h, got)
				}
			}
		}
	}
}

func TestExtendedLength(t *testing.T) {
	payload := bytes.Repeat([]byte{0xAB}, 0x123)
	pkt, err := BuildExtendedPacket(MessageTypeResponse, GroupProprietary, OidReadCalibData, payload)
	require.NoError(t, err)
	assert.Equal(t, byte(0x80|OidReadCalibData), pkt[1])
	assert.Equal(t, byte(0x01), pkt[2])
	assert.Equal(t, byte(0x23), pkt[3])

	n, err := PacketLen(pkt)
	require.NoError(t, err)
	assert.Equal(t, HeaderLen+0x123, n)

	got, err := Payload(pkt)
	require.NoError(t, err)
	assert.Equal(t, payload, got)
}

func TestBuildPacketLimits(t *testing.T) {
	_, err := BuildPacket(MessageTypeCommand, GroupCore, OidCoreSetConfig, make([]byte, MaxShortPayloadLen+1))
	assert.ErrorIs(t, err, ErrPayloadTooLarge)

	_, err = BuildExtendedPacket(MessageTypeCommand, GroupCore, OidCoreSetConfig, make([]byte, MaxPayloadLen+1))
	assert.ErrorIs(t, err, ErrPayloadTooLarge)

	pkt, err := BuildPacket(MessageTypeCommand, GroupCore, OidCoreSetConfig, []byte{1, 2, 3})
	require.NoError(t, err)
	assert.Equal(t, []byte{0x20, 0x04, 0x00, 0x03, 1, 2, 3}, pkt)
}

func TestShortHeaderIsMalformed(t *testing.T) {
	_, err := DecodeHeader([]byte{0x20, 0x02, 0x00})
	assert.ErrorIs(t, err, status.ErrMalformedFrame)

	_, err = Payload([]byte{0x40, 0x02, 0x00, 0x05, 0x00})
	assert.ErrorIs(t, err, status.ErrMalformedFrame)
}

func TestResponseStatus(t *testing.T) {
	st, ok := ResponseStatus([]byte{0x40, 0x02, 0x00, 0x01, 0x55})
	require.True(t, ok)
	assert.Equal(t, StatusFeatureNotSupported, st)
	assert.Equal(t, "FEATURE_NOT_SUPPORTED", st.String())

	_, ok = ResponseStatus([]byte{0x40, 0x02, 0x00, 0x00})
	assert.False(t, ok)
	assert.Equal(t, "0x77", StatusCode(0x77).String())
}

func TestIsNotificationFirstByte(t *testing.T) {
	tests := []struct {
		b0   byte
		want bool
	}{
		{0x60, true},  // NTF, GID 0
		{0x70, true},  // NTF with PBF
		{0x6E, true},  // NTF, proprietary group
		{0xE0, true},  // MT 7 also matches
		{0x40, false}, // RSP
		{0x20, false}, // CMD
		{0x00, false}, // DATA
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, IsNotificationFirstByte(tt.b0), "0x%02X", tt.b0)
	}
}

func TestMessageTypeParse(t *testing.T) {
	mt, err := MessageTypeParse("ntf")
	require.NoError(t, err)
	assert.Equal(t, MessageTypeNotification, mt)
	assert.Equal(t, "NTF", mt.String())

	_, err = MessageTypeParse("bogus")
	assert.ErrorIs(t, err, gxcommon.ErrUnknownEnum)
	assert.Equal(t, "MT(5)", MessageType(5).String())
}

func TestFormatPacket(t *testing.T) {
	assert.Equal(t, "len =   4 > 20020000", FormatPacket(DirectionHostToDevice, []byte{0x20, 0x02, 0x00, 0x00}))
	assert.Equal(t, "len =   5 < 4002000100", FormatPacket(DirectionDeviceToHost, []byte{0x40, 0x02, 0x00, 0x01, 0x00}))
	assert.Equal(t, "len =   1 > (FW)AB", FormatPacket(DirectionFwDownloadToDevice, []byte{0xAB}))
}

func TestFragmentAndReassemble(t *testing.T) {
	payload := make([]byte, 600)
	for i := range payload {
		payload[i] = byte(i)
	}
	pkts, err := Fragment(MessageTypeCommand, GroupSessionManage, OidSessionSetAppConfig, payload, 255)
	require.NoError(t, err)
	require.Len(t, pkts, 3)
	for i, p := range pkts {
		h, err := DecodeHeader(p)
		require.NoError(t, err)
		assert.Equal(t, i < len(pkts)-1, h.PBF, "packet %d", i)
	}

	var r Reassembler
	var msg *Message
	for _, p := range pkts {
		msg, err = r.Push(p)
		require.NoError(t, err)
	}
	require.NotNil(t, msg)
	assert.False(t, r.Pending())
	assert.Equal(t, MessageTypeCommand, msg.MessageType)
	assert.Equal(t, GroupSessionManage, msg.GroupID)
	assert.Equal(t, OidSessionSetAppConfig, msg.OpcodeID)
	assert.Equal(t, payload, msg.Payload)

	single, err := msg.Packet()
	require.NoError(t, err)
	h, err := DecodeHeader(single)
	require.NoError(t, err)
	assert.True(t, h.Extended)
	assert.Equal(t, uint16(600), h.PayloadLen)
}

func TestFragmentEmptyPayload(t *testing.T) {
	pkts, err := Fragment(MessageTypeCommand, GroupCore, OidCoreGetCapsInfo, nil, 0)
	require.NoError(t, err)
	require.Len(t, pkts, 1)
	assert.Equal(t, []byte{0x20, 0x03, 0x00, 0x00}, pkts[0])
}

func TestReassemblerRejectsInterleavedRun(t *testing.T) {
	first, err := Fragment(MessageTypeResponse, GroupProprietary, OidReadCalibData, make([]byte, 20), 10)
	require.NoError(t, err)
	require.Len(t, first, 2)
	other, err := BuildPacket(MessageTypeNotification, GroupCore, OidCoreDeviceStatusNtf, []byte{0x01})
	require.NoError(t, err)

	var r Reassembler
	msg, err := r.Push(first[0])
	require.NoError(t, err)
	assert.Nil(t, msg)
	assert.True(t, r.Pending())

	msg, err = r.Push(other)
	assert.ErrorIs(t, err, status.ErrMalformedFrame)
	require.NotNil(t, msg)
	assert.Equal(t, []byte{0x01}, msg.Payload)
	assert.False(t, r.Pending())

	// Tail of the dropped run.
	msg, err = r.Push(first[1])
	require.NoError(t, err)
	assert.Nil(t, msg)
	assert.False(t, r.Pending())

	msg, err = r.Push(other)
	require.NoError(t, err)
	require.NotNil(t, msg)
	assert.Equal(t, []byte{0x01}, msg.Payload)
}

func TestReassemblerKeepsDataPacketInsideNotificationRun(t *testing.T) {
	ntf, err := Fragment(MessageTypeNotification, GroupSessionManage, OidSessionSetAppConfig, []byte{1, 2, 3, 4, 5, 6}, 2)
	require.NoError(t, err)
	require.Len(t, ntf, 3)
	data, err := BuildPacket(MessageTypeData, 0x01, 0x00, []byte{0xDA})
	require.NoError(t, err)

	var r Reassembler
	msg, err := r.Push(ntf[0])
	require.NoError(t, err)
	assert.Nil(t, msg)

	msg, err = r.Push(data)
	assert.ErrorIs(t, err, status.ErrMalformedFrame)
	require.NotNil(t, msg)
	assert.Equal(t, MessageTypeData, msg.MessageType)
	assert.Equal(t, []byte{0xDA}, msg.Payload)

	for _, p := range ntf[1:] {
		msg, err = r.Push(p)
		require.NoError(t, err)
		assert.Nil(t, msg, "truncated notification delivered")
	}

	full, err := BuildPacket(MessageTypeNotification, GroupSessionManage, OidSessionSetAppConfig, []byte{7})
	require.NoError(t, err)
	msg, err = r.Push(full)
	require.NoError(t, err)
	require.NotNil(t, msg)
	assert.Equal(t, []byte{7}, msg.Payload)
}

func TestReassemblerInterruptedByNewRun(t *testing.T) {
	a, err := Fragment(MessageTypeNotification, GroupRangeManage, OidRangeDataNtf, []byte{1, 2, 3, 4}, 2)
	require.NoError(t, err)
	b, err := Fragment(MessageTypeNotification, GroupCore, OidCoreGenericErrorNtf, []byte{9, 8, 7, 6}, 2)
	require.NoError(t, err)

	var r Reassembler
	_, err = r.Push(a[0])
	require.NoError(t, err)
	msg, err := r.Push(b[0])
	assert.ErrorIs(t, err, status.ErrMalformedFrame)
	assert.Nil(t, msg)
	assert.True(t, r.Pending())

	msg, err = r.Push(a[1])
	require.NoError(t, err)
	assert.Nil(t, msg)

	msg, err = r.Push(b[1])
	require.NoError(t, err)
	require.NotNil(t, msg)
	assert.Equal(t, OidCoreGenericErrorNtf, msg.OpcodeID)
	assert.Equal(t, []byte{9, 8, 7, 6}, msg.Payload)
}
