// Package gxuwb provides the transport mapping layer (TML) and a UCI command
// issuer for UWB controllers attached through a kernel character device or
// an SPI bus.
//
// Features
//
//   - Transport: one reader and one writer goroutine per device.
//   - Ordering: a response is never delivered before the completion of the
//     write that caused it. Notifications are not held back.
//   - Completions: read and write callbacks run as deferred calls on the
//     client goroutine that runs the msgqueue.Queue.
//   - Tracing: configurable trace level for sent/received/error/info.
//   - Events: Error, Trace and MediaState callbacks.
//
// # Construction
//
// Use NewGXTml with a device.Opener. The device is opened by Init.
//
// Example
//
//	q := msgqueue.NewQueue(msgqueue.DefaultSize)
//	go q.Run(ctx)
//
//	tml := gxuwb.NewGXTml(device.OpenCharDev)
//	if err := tml.Init("/dev/srxxx", q); err != nil {
//	    // handle open error
//	}
//	defer tml.Shutdown()
//
//	u := gxuwb.NewGXUci(tml, monitor.InitMonitor())
//	u.SetOnNotification(func(u *gxuwb.GXUci, msg *uci.Message) {
//	    // handle msg
//	})
//	_ = u.Start()
//	rsp, err := u.SendCommand(uci.GroupCore, uci.OidCoreDeviceInfo, nil, 0)
//
// # Errors
//
// Errors wrap the sentinels of the status package. Use errors.Is.
//
// # Notes
//
// The zero value of GXTml is not ready for use; always construct via
// NewGXTml. Handlers run on the client goroutine and block the delivery of
// the next packet until they return. Never call GXUci.SendCommand from a
// handler.
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

