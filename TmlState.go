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
	"strings"

	"github.com/Gurux/gxcommon-go"
)

// TmlState is the lifecycle state of the transport.
type TmlState int

const (
	// TmlStateUninitialized means Init has not been called or Shutdown has
	// completed.
	TmlStateUninitialized TmlState = iota
	// TmlStateInitialized means the device is open and the writer runs.
	TmlStateInitialized
	// TmlStateReading means the reader goroutine runs as well.
	TmlStateReading
	// TmlStateShuttingDown means Shutdown is stopping the goroutines.
	TmlStateShuttingDown
)

// TmlStateParse converts the given string into a TmlState value.
//
// It returns the corresponding TmlState constant if the string matches
// a known state name, or an error if the input is invalid.
func TmlStateParse(value string) (TmlState, error) {
	var ret TmlState
	var err error
	switch strings.ToUpper(value) {
	case "UNINITIALIZED":
		ret = TmlStateUninitialized
	case "INITIALIZED":
		ret = TmlStateInitialized
	case "READING":
		ret = TmlStateReading
	case "SHUTTINGDOWN":
		ret = TmlStateShuttingDown
	default:
		err = fmt.Errorf("%w: %q", gxcommon.ErrUnknownEnum, value)
	}
	return ret, err
}

// String returns the canonical name of the state.
// It satisfies fmt.Stringer.
func (g TmlState) String() string {
	var ret string
	switch g {
	case TmlStateUninitialized:
		ret = "Uninitialized"
	case TmlStateInitialized:
		ret = "Initialized"
	case TmlStateReading:
		ret = "Reading"
	case TmlStateShuttingDown:
		ret = "ShuttingDown"
	}
	return ret
}
