//go:build linux

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
	"fmt"
	"sync"
	"unsafe"

	"golang.org/x/sys/unix"
)

// Kernel driver ioctl magic.
const iocMagic = 0xEA

// iow encodes _IOW(iocMagic, nr, long).
func iow(nr uint) uint {
	const (
		iocWrite     = 1
		iocNrBits    = 8
		iocTypeBits  = 8
		iocSizeBits  = 14
		iocTypeShift = iocNrBits
		iocSizeShift = iocTypeShift + iocTypeBits
		iocDirShift  = iocSizeShift + iocSizeBits
	)
	size := uint(unsafe.Sizeof(int(0)))
	return iocWrite<<iocDirShift | size<<iocSizeShift | iocMagic<<iocTypeShift | nr
}

var (
	ioctlSetPower      = iow(0x01)
	ioctlSetFwDownload = iow(0x02)
)

// CharDev is the kernel driver node, for example /dev/srxxx.
type CharDev struct {
	path string

	mu sync.RWMutex
	fd int
}

// OpenCharDev opens the driver node for blocking reads and writes.
// It satisfies Opener.
func OpenCharDev(path string) (Device, error) {
	fd, err := unix.Open(path, unix.O_RDWR|unix.O_CLOEXEC, 0)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return &CharDev{path: path, fd: fd}, nil
}

func (d *CharDev) handle() (int, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.fd < 0 {
		return -1, ErrClosed
	}
	return d.fd, nil
}

// Read blocks in the driver until a packet is available.
func (d *CharDev) Read(p []byte) (int, error) {
	fd, err := d.handle()
	if err != nil {
		return 0, err
	}
	for {
		n, err := unix.Read(fd, p)
		if err == unix.EINTR {
			continue
		}
		if err != nil {
			if _, cerr := d.handle(); cerr != nil {
				return 0, cerr
			}
			return 0, fmt.Errorf("read %s: %w", d.path, err)
		}
		return n, nil
	}
}

// Write sends one packet to the driver.
func (d *CharDev) Write(p []byte) (int, error) {
	fd, err := d.handle()
	if err != nil {
		return 0, err
	}
	for {
		n, err := unix.Write(fd, p)
		if err == unix.EINTR {
			continue
		}
		if err != nil {
			return n, fmt.Errorf("write %s: %w", d.path, err)
		}
		return n, nil
	}
}

// Control issues the driver ioctl for code. The value is passed by value.
func (d *CharDev) Control(code ControlCode, value int) error {
	fd, err := d.handle()
	if err != nil {
		return err
	}
	var req uint
	switch code {
	case ControlSetPower:
		req = ioctlSetPower
	case ControlSetFwDownload:
		req = ioctlSetFwDownload
	default:
		return fmt.Errorf("%w: %s", ErrUnsupported, code)
	}
	if err := unix.IoctlSetInt(fd, req, value); err != nil {
		return fmt.Errorf("ioctl %s(%d) on %s: %w", code, value, d.path, err)
	}
	return nil
}

// Close closes the node. Reads blocked in the driver return once the
// driver releases them.
func (d *CharDev) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.fd < 0 {
		return ErrClosed
	}
	err := unix.Close(d.fd)
	d.fd = -1
	return err
}

// String returns the node path.
func (d *CharDev) String() string {
	return d.path
}
