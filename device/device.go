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
	"errors"
	"fmt"
	"strings"

	"github.com/Gurux/gxcommon-go"
)

var (
	// ErrClosed is returned by operations on a closed device.
	ErrClosed = errors.New("device: closed")
	// ErrAborted is returned by a read woken by AbortReadPending.
	ErrAborted = errors.New("device: read aborted")
	// ErrUnsupported is returned for control actions the backend lacks.
	ErrUnsupported = errors.New("device: unsupported")
)

// Device is the byte stream boundary to the UWB chip.
//
// Read blocks until one whole packet is available and returns its length.
// A packet that does not fit p is reported with an error wrapping
// io.ErrShortBuffer. Control with ControlSetPower and AbortReadPending must
// wake a blocked Read, which then returns ErrAborted.
type Device interface {
	Read(p []byte) (int, error)
	Write(p []byte) (int, error)
	Control(code ControlCode, value int) error
	Close() error
}

// Opener opens and configures the device at path.
type Opener func(path string) (Device, error)

// ControlCode selects a device control action.
type ControlCode int

const (
	// ControlSetPower takes one of the Power values.
	ControlSetPower ControlCode = iota
	// ControlSetFwDownload enables (1) or disables (0) firmware download mode.
	ControlSetFwDownload
)

// ControlCodeParse converts the given string into a ControlCode value.
func ControlCodeParse(value string) (ControlCode, error) {
	var ret ControlCode
	var err error
	switch strings.ToUpper(value) {
	case "SETPOWER":
		ret = ControlSetPower
	case "SETFWDOWNLOAD":
		ret = ControlSetFwDownload
	default:
		err = fmt.Errorf("%w: %q", gxcommon.ErrUnknownEnum, value)
	}
	return ret, err
}

// String returns the canonical name of the control code.
func (c ControlCode) String() string {
	switch c {
	case ControlSetPower:
		return "SetPower"
	case ControlSetFwDownload:
		return "SetFwDownload"
	default:
		return fmt.Sprintf("ControlCode(%d)", int(c))
	}
}

// Values for ControlSetPower.
const (
	PowerDisable     = 0
	PowerEnable      = 1
	AbortReadPending = 2
	PowerSuspend     = 3
	PowerResume      = 4
)

// PowerName returns the name of a ControlSetPower value.
func PowerName(value int) string {
	switch value {
	case PowerDisable:
		return "Disable"
	case PowerEnable:
		return "Enable"
	case AbortReadPending:
		return "AbortReadPending"
	case PowerSuspend:
		return "Suspend"
	case PowerResume:
		return "Resume"
	default:
		return fmt.Sprintf("Power(%d)", value)
	}
}
