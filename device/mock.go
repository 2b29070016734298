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
	"io"
	"slices"
	"sync"
)

// ControlCall is one recorded Control invocation.
type ControlCall struct {
	Code  ControlCode
	Value int
}

// Mock is an in-memory Device for tests. Reads block until a packet or an
// error is injected, AbortReadPending is issued or the mock is closed.
type Mock struct {
	rx    chan readResult
	abort chan struct{}
	done  chan struct{}

	// Configuration
	openErr    error
	writeErr   error
	controlErr error
	onWrite    func(p []byte)

	mu        sync.Mutex
	closed    bool
	path      string
	writes    [][]byte
	controls  []ControlCall
	closeCall int
}

type readResult struct {
	data []byte
	err  error
}

// MockOption configures a Mock.
type MockOption func(*Mock)

// WithOpenError makes the opener fail with err.
func WithOpenError(err error) MockOption {
	return func(m *Mock) {
		m.openErr = err
	}
}

// WithWriteError makes every Write fail with err.
func WithWriteError(err error) MockOption {
	return func(m *Mock) {
		m.writeErr = err
	}
}

// WithControlError makes every Control fail with err after recording it.
func WithControlError(err error) MockOption {
	return func(m *Mock) {
		m.controlErr = err
	}
}

// WithOnWrite calls fn with a copy of every written packet, after it has
// been recorded. Tests use it to inject the response to a command.
func WithOnWrite(fn func(p []byte)) MockOption {
	return func(m *Mock) {
		m.onWrite = fn
	}
}

// NewMock returns a mock with room for 64 queued reads.
func NewMock(opts ...MockOption) *Mock {
	m := &Mock{
		rx:    make(chan readResult, 64),
		abort: make(chan struct{}, 1),
		done:  make(chan struct{}),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Opener returns an Opener handing out this mock.
func (m *Mock) Opener() Opener {
	return func(path string) (Device, error) {
		if m.openErr != nil {
			return nil, m.openErr
		}
		m.mu.Lock()
		m.path = path
		m.mu.Unlock()
		return m, nil
	}
}

// Inject queues a packet for Read.
func (m *Mock) Inject(pkt []byte) {
	m.rx <- readResult{data: slices.Clone(pkt)}
}

// InjectError makes the next Read fail with err.
func (m *Mock) InjectError(err error) {
	m.rx <- readResult{err: err}
}

// Read implements Device.
func (m *Mock) Read(p []byte) (int, error) {
	select {
	case <-m.done:
		return 0, ErrClosed
	default:
	}
	select {
	case r := <-m.rx:
		if r.err != nil {
			return 0, r.err
		}
		if len(r.data) > len(p) {
			return 0, fmt.Errorf("mock packet of %d bytes: %w", len(r.data), io.ErrShortBuffer)
		}
		return copy(p, r.data), nil
	case <-m.abort:
		return 0, ErrAborted
	case <-m.done:
		return 0, ErrClosed
	}
}

// Write implements Device.
func (m *Mock) Write(p []byte) (int, error) {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return 0, ErrClosed
	}
	if m.writeErr != nil {
		m.mu.Unlock()
		return 0, m.writeErr
	}
	pkt := slices.Clone(p)
	m.writes = append(m.writes, pkt)
	cb := m.onWrite
	m.mu.Unlock()
	if cb != nil {
		cb(slices.Clone(pkt))
	}
	return len(p), nil
}

// Control implements Device. AbortReadPending wakes one blocked Read.
func (m *Mock) Control(code ControlCode, value int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}
	m.controls = append(m.controls, ControlCall{Code: code, Value: value})
	if m.controlErr != nil {
		return m.controlErr
	}
	if code == ControlSetPower && value == AbortReadPending {
		select {
		case m.abort <- struct{}{}:
		default:
		}
	}
	return nil
}

// Close implements Device.
func (m *Mock) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closeCall++
	if m.closed {
		return ErrClosed
	}
	m.closed = true
	close(m.done)
	return nil
}

// Path returns the path the opener was called with.
func (m *Mock) Path() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.path
}

// Writes returns the recorded packets.
func (m *Mock) Writes() [][]byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.writes)
}

// Controls returns the recorded control calls.
func (m *Mock) Controls() []ControlCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.controls)
}

// Closed reports whether Close was called.
func (m *Mock) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}
