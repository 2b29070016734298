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
	"strings"

	"github.com/Gurux/gxcommon-go"
)

// Packet sizes.
const (
	// HeaderLen is the size of the UCI packet header.
	HeaderLen = 4
	// MaxDataLen is the largest packet the transport reads in one go,
	// header included.
	MaxDataLen = 4200
	// MaxPayloadLen is the largest payload of a single packet.
	MaxPayloadLen = 4200
	// MaxShortPayloadLen is the largest payload that fits the one byte
	// length field.
	MaxShortPayloadLen = 0xFF
	// ResponseStatusOffset is the offset of the status byte in a response.
	ResponseStatusOffset = 4
)

// Header bit layout.
const (
	mtMask   = 0xE0
	mtShift  = 5
	pbfMask  = 0x10
	pbfShift = 4
	gidMask  = 0x0F
	oidMask  = 0x3F

	extendedLenIndicatorOffset = 1
	extendedLenIndicatorMask   = 0x80
	extendedLenOffset          = 2
	normalLenOffset            = 3

	// notificationBypassMask is compared against the first header byte by
	// the reader before it waits for a write completion.
	notificationBypassMask = 0x60
)

// MessageType is the 3-bit UCI message type.
type MessageType uint8

const (
	// MessageTypeData is a data packet.
	MessageTypeData MessageType = iota
	// MessageTypeCommand is a command sent to the device.
	MessageTypeCommand
	// MessageTypeResponse is a response to a command.
	MessageTypeResponse
	// MessageTypeNotification is an unsolicited notification.
	MessageTypeNotification
)

// MessageTypeParse converts the given string into a MessageType value.
func MessageTypeParse(value string) (MessageType, error) {
	var ret MessageType
	var err error
	switch strings.ToUpper(value) {
	case "DATA":
		ret = MessageTypeData
	case "CMD", "COMMAND":
		ret = MessageTypeCommand
	case "RSP", "RESPONSE":
		ret = MessageTypeResponse
	case "NTF", "NOTIFICATION":
		ret = MessageTypeNotification
	default:
		err = fmt.Errorf("%w: %q", gxcommon.ErrUnknownEnum, value)
	}
	return ret, err
}

// String returns the canonical name of the message type.
func (m MessageType) String() string {
	switch m {
	case MessageTypeData:
		return "DATA"
	case MessageTypeCommand:
		return "CMD"
	case MessageTypeResponse:
		return "RSP"
	case MessageTypeNotification:
		return "NTF"
	default:
		return fmt.Sprintf("MT(%d)", uint8(m))
	}
}

// Group identifiers.
const (
	GroupCore          uint8 = 0x00
	GroupSessionManage uint8 = 0x01
	GroupRangeManage   uint8 = 0x02
	GroupProprietary0A uint8 = 0x0A
	GroupInternal      uint8 = 0x0B
	GroupAndroid       uint8 = 0x0C
	GroupProprietary   uint8 = 0x0E
	GroupProprietary0F uint8 = 0x0F
)

// Core group opcodes.
const (
	OidCoreDeviceStatusNtf uint8 = 0x01
	OidCoreDeviceInfo      uint8 = 0x02
	OidCoreGetCapsInfo     uint8 = 0x03
	OidCoreSetConfig       uint8 = 0x04
	OidCoreGenericErrorNtf uint8 = 0x07
)

// Device states carried by the first payload byte of
// CORE_DEVICE_STATUS_NTF.
const (
	DeviceStateInit    uint8 = 0x00
	DeviceStateReady   uint8 = 0x01
	DeviceStateActive  uint8 = 0x02
	DeviceStateUnknown uint8 = 0xA0
	DeviceStateError   uint8 = 0xFF
)

// Session and range group opcodes.
const (
	OidSessionStatusNtf      uint8 = 0x02
	OidSessionSetAppConfig   uint8 = 0x03
	OidSessionQueryDataSize  uint8 = 0x0B
	OidRangeDataNtf          uint8 = 0x00
	OidAndroidSetCountryCode uint8 = 0x01
)

// Proprietary group opcodes.
const (
	OidWriteCalibData       uint8 = 0x00
	OidReadCalibData        uint8 = 0x01
	OidBindingStatusNtf     uint8 = 0x06
	OidSetDeviceCalibration uint8 = 0x21
	OidGetDeviceCalibration uint8 = 0x22
	OidEseBindingNtf        uint8 = 0x31
	OidEseBindingCheckNtf   uint8 = 0x32
)

// StatusCode is the status byte carried by responses and some
// notifications. The transport passes it through without interpreting it.
type StatusCode uint8

// UCI status codes.
const (
	StatusOK                        StatusCode = 0x00
	StatusFailed                    StatusCode = 0x02
	StatusSyntaxError               StatusCode = 0x03
	StatusInvalidParam              StatusCode = 0x04
	StatusInvalidMsgSize            StatusCode = 0x06
	StatusCommandRetry              StatusCode = 0x0A
	StatusUnknown                   StatusCode = 0x0B
	StatusRegulationUwbOff          StatusCode = 0x53
	StatusThermalRunaway            StatusCode = 0x54
	StatusFeatureNotSupported       StatusCode = 0x55
	StatusCountryCodeBlockedChannel StatusCode = 0x56
	StatusLowVbat                   StatusCode = 0x59
	StatusHwReset                   StatusCode = 0xFE
)

// String returns the name of the status code.
func (s StatusCode) String() string {
	switch s {
	case StatusOK:
		return "OK"
	case StatusFailed:
		return "FAILED"
	case StatusSyntaxError:
		return "SYNTAX_ERROR"
	case StatusInvalidParam:
		return "INVALID_PARAM"
	case StatusInvalidMsgSize:
		return "INVALID_MSG_SIZE"
	case StatusCommandRetry:
		return "COMMAND_RETRY"
	case StatusUnknown:
		return "UNKNOWN"
	case StatusRegulationUwbOff:
		return "REGULATION_UWB_OFF"
	case StatusThermalRunaway:
		return "THERMAL_RUNAWAY"
	case StatusFeatureNotSupported:
		return "FEATURE_NOT_SUPPORTED"
	case StatusCountryCodeBlockedChannel:
		return "COUNTRY_CODE_BLOCKED_CHANNEL"
	case StatusLowVbat:
		return "LOW_VBAT"
	case StatusHwReset:
		return "HW_RESET"
	default:
		return fmt.Sprintf("0x%02X", uint8(s))
	}
}
