package status

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

// Transport and registry errors.
var (
	// ErrAlreadyInitialized is returned when Init is called on an initialized transport.
	ErrAlreadyInitialized = errors.New("already initialized")

	// ErrNotInitialized is returned when the transport has not been initialized.
	ErrNotInitialized = errors.New("not initialized")

	// ErrInvalidParameter indicates an invalid or missing argument.
	ErrInvalidParameter = errors.New("invalid parameter")

	// ErrBusy indicates that a transaction of the same kind is in flight.
	ErrBusy = errors.New("busy")

	// ErrIoFailure indicates a device read or write failure.
	ErrIoFailure = errors.New("i/o failure")

	// ErrTimeout indicates that a wait ended without a response.
	ErrTimeout = errors.New("response timeout")

	// ErrMalformedFrame indicates a header or TLV that cannot be decoded.
	ErrMalformedFrame = errors.New("malformed frame")

	// ErrFailed is a generic failure.
	ErrFailed = errors.New("failed")

	// ErrInvalidDevice indicates that the device could not be opened or configured.
	ErrInvalidDevice = errors.New("invalid device")
)

// Status is the completion status carried by transaction callbacks and
// callback data records.
type Status int

const (
	// Success means the operation completed.
	Success Status = iota
	// Failed is a generic failure. It is also the default status of a
	// registered callback data record.
	Failed
	// InvalidParameter means an argument was rejected.
	InvalidParameter
	// NotInitialized means the transport is not initialized.
	NotInitialized
	// AlreadyInitialized means the transport is already initialized.
	AlreadyInitialized
	// Busy means a transaction is already in flight.
	Busy
	// Pending means the request was accepted and completes asynchronously.
	Pending
	// ResponseTimeout means no response arrived before the deadline.
	ResponseTimeout
	// InvalidDevice means the device could not be opened.
	InvalidDevice
	// IoFailure means the device transfer failed.
	IoFailure
	// MalformedFrame means the received bytes could not be decoded.
	MalformedFrame
)

// StatusParse converts the given string into a Status value.
func StatusParse(value string) (Status, error) {
	var ret Status
	var err error
	switch strings.ToUpper(value) {
	case "SUCCESS":
		ret = Success
	case "FAILED":
		ret = Failed
	case "INVALIDPARAMETER":
		ret = InvalidParameter
	case "NOTINITIALIZED":
		ret = NotInitialized
	case "ALREADYINITIALIZED":
		ret = AlreadyInitialized
	case "BUSY":
		ret = Busy
	case "PENDING":
		ret = Pending
	case "RESPONSETIMEOUT":
		ret = ResponseTimeout
	case "INVALIDDEVICE":
		ret = InvalidDevice
	case "IOFAILURE":
		ret = IoFailure
	case "MALFORMEDFRAME":
		ret = MalformedFrame
	default:
		err = fmt.Errorf("%w: %q", gxcommon.ErrUnknownEnum, value)
	}
	return ret, err
}

// String returns the canonical name of the status.
// It satisfies fmt.Stringer.
func (s Status) String() string {
	switch s {
	case Success:
		return "Success"
	case Failed:
		return "Failed"
	case InvalidParameter:
		return "InvalidParameter"
	case NotInitialized:
		return "NotInitialized"
	case AlreadyInitialized:
		return "AlreadyInitialized"
	case Busy:
		return "Busy"
	case Pending:
		return "Pending"
	case ResponseTimeout:
		return "ResponseTimeout"
	case InvalidDevice:
		return "InvalidDevice"
	case IoFailure:
		return "IoFailure"
	case MalformedFrame:
		return "MalformedFrame"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// Err returns the error matching the status. Success and Pending return nil.
func (s Status) Err() error {
	switch s {
	case Success, Pending:
		return nil
	case InvalidParameter:
		return ErrInvalidParameter
	case NotInitialized:
		return ErrNotInitialized
	case AlreadyInitialized:
		return ErrAlreadyInitialized
	case Busy:
		return ErrBusy
	case ResponseTimeout:
		return ErrTimeout
	case InvalidDevice:
		return ErrInvalidDevice
	case IoFailure:
		return ErrIoFailure
	case MalformedFrame:
		return ErrMalformedFrame
	default:
		return ErrFailed
	}
}

// FromError maps an error back to a Status. A nil error is Success and an
// error outside the taxonomy is Failed.
func FromError(err error) Status {
	switch {
	case err == nil:
		return Success
	case errors.Is(err, ErrInvalidParameter):
		return InvalidParameter
	case errors.Is(err, ErrNotInitialized):
		return NotInitialized
	case errors.Is(err, ErrAlreadyInitialized):
		return AlreadyInitialized
	case errors.Is(err, ErrBusy):
		return Busy
	case errors.Is(err, ErrTimeout):
		return ResponseTimeout
	case errors.Is(err, ErrInvalidDevice):
		return InvalidDevice
	case errors.Is(err, ErrIoFailure):
		return IoFailure
	case errors.Is(err, ErrMalformedFrame):
		return MalformedFrame
	default:
		return Failed
	}
}
