package monitor

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
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Gurux/gxuwb-go/logging"
	"github.com/Gurux/gxuwb-go/status"
	"github.com/rs/zerolog"
)

// semDepth bounds how many posts a CallbackData can hold before Post drops.
const semDepth = 16

// ErrEmergencyRecovery is wrapped by the panic value of the default
// recovery handler.
var ErrEmergencyRecovery = errors.New("emergency recovery")

// EmergencyError is raised when there is no way to continue.
type EmergencyError struct {
	Reason string
}

func (e *EmergencyError) Error() string {
	return fmt.Sprintf("%v: %s", ErrEmergencyRecovery, e.Reason)
}

func (e *EmergencyError) Unwrap() error {
	return ErrEmergencyRecovery
}

// RecoveryHandler is called by EmergencyRecovery.
type RecoveryHandler func(reason string)

// CallbackData connects a command issuer waiting for a result to the
// goroutine that produces it.
type CallbackData struct {
	// Context is caller supplied and opaque to the monitor.
	Context any

	mu     sync.Mutex
	status status.Status
	sem    chan struct{}
}

// Status returns the last posted status. It is status.Failed until
// something is posted.
func (c *CallbackData) Status() status.Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

// Post stores st and wakes the waiter. Posts to an unregistered record are
// dropped and report false.
func (c *CallbackData) Post(st status.Status) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.sem == nil {
		return false
	}
	c.status = st
	select {
	case c.sem <- struct{}{}:
	default:
	}
	return true
}

func (c *CallbackData) signal() <-chan struct{} {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sem
}

func (c *CallbackData) setStatus(st status.Status) {
	c.mu.Lock()
	c.status = st
	c.mu.Unlock()
}

// Monitor tracks the callback data records that have a waiter and holds
// the guards command issuers serialize on.
type Monitor struct {
	reentrance  sync.Mutex
	concurrency sync.Mutex
	list        List[*CallbackData]
	log         zerolog.Logger

	mu       sync.RWMutex
	recovery RecoveryHandler
}

var (
	singletonMu sync.Mutex
	singleton   *Monitor
)

// New returns a monitor owned by the caller.
func New() *Monitor {
	return &Monitor{log: logging.Logger("monitor")}
}

// InitMonitor returns the process wide monitor, creating it on first use.
func InitMonitor() *Monitor {
	singletonMu.Lock()
	defer singletonMu.Unlock()
	if singleton == nil {
		singleton = New()
	}
	return singleton
}

// GetMonitor returns the process wide monitor or nil before InitMonitor.
func GetMonitor() *Monitor {
	singletonMu.Lock()
	defer singletonMu.Unlock()
	if singleton == nil {
		l := logging.Logger("monitor")
		l.Error().Msg("monitor is not initialized")
	}
	return singleton
}

// CleanupMonitor wakes every waiter of the process wide monitor with
// status.Failed and drops it.
func CleanupMonitor() {
	singletonMu.Lock()
	m := singleton
	singleton = nil
	singletonMu.Unlock()
	if m != nil {
		m.ReleaseAll()
	}
}

// LockReentrance takes the guard against reentrant HAL entry.
func (m *Monitor) LockReentrance() {
	m.reentrance.Lock()
}

// UnlockReentrance releases the reentrance guard.
func (m *Monitor) UnlockReentrance() {
	m.reentrance.Unlock()
}

// LockConcurrency takes the one command in flight guard.
func (m *Monitor) LockConcurrency() {
	m.concurrency.Lock()
}

// UnlockConcurrency releases the one command in flight guard.
func (m *Monitor) UnlockConcurrency() {
	m.concurrency.Unlock()
}

// RegisterCall prepares cb for a wait: an empty semaphore, status Failed
// and ctx stored as the context. The record is tracked until
// UnregisterCall or ReleaseAll.
func (m *Monitor) RegisterCall(cb *CallbackData, ctx any) error {
	if cb == nil {
		return fmt.Errorf("register: nil callback data: %w", status.ErrInvalidParameter)
	}
	if m.list.Contains(cb) {
		return fmt.Errorf("register: callback data already registered: %w", status.ErrBusy)
	}
	cb.mu.Lock()
	cb.sem = make(chan struct{}, semDepth)
	cb.status = status.Failed
	cb.Context = ctx
	cb.mu.Unlock()
	m.list.Add(cb)
	return nil
}

// UnregisterCall destroys the semaphore of cb and stops tracking it.
func (m *Monitor) UnregisterCall(cb *CallbackData) {
	if cb == nil {
		return
	}
	cb.mu.Lock()
	cb.sem = nil
	cb.mu.Unlock()
	if !m.list.Remove(cb) {
		m.log.Error().Msgf("unregister: callback data %p is not tracked", cb)
	}
}

// WaitWithTimeout blocks until cb is posted or d elapses. On timeout the
// status becomes status.ResponseTimeout and status.ErrTimeout is returned.
func (m *Monitor) WaitWithTimeout(cb *CallbackData, d time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), d)
	defer cancel()
	err := m.WaitContext(ctx, cb)
	if errors.Is(err, context.DeadlineExceeded) {
		return status.ErrTimeout
	}
	return err
}

// WaitContext blocks until cb is posted or ctx ends. When ctx ends the
// status becomes status.ResponseTimeout and ctx.Err() is returned.
func (m *Monitor) WaitContext(ctx context.Context, cb *CallbackData) error {
	if cb == nil {
		return status.ErrInvalidParameter
	}
	sem := cb.signal()
	if sem == nil {
		return fmt.Errorf("wait: callback data not registered: %w", status.ErrNotInitialized)
	}
	select {
	case <-sem:
		return nil
	case <-ctx.Done():
		cb.setStatus(status.ResponseTimeout)
		m.log.Error().Err(ctx.Err()).Msg("wait semaphore timed out")
		return ctx.Err()
	}
}

// ReleaseAll untracks every record and wakes its waiter with status.Failed.
func (m *Monitor) ReleaseAll() {
	for {
		cb, ok := m.list.PopFront()
		if !ok {
			return
		}
		cb.Post(status.Failed)
	}
}

// Pending returns the number of tracked records.
func (m *Monitor) Pending() int {
	return m.list.Len()
}

// SetRecoveryHandler replaces the handler EmergencyRecovery calls.
// A nil handler restores the default, which panics.
func (m *Monitor) SetRecoveryHandler(value RecoveryHandler) {
	m.mu.Lock()
	m.recovery = value
	m.mu.Unlock()
}

// EmergencyRecovery is the last resort when the device cannot continue.
func (m *Monitor) EmergencyRecovery(reason string) {
	m.log.Error().Str("reason", reason).Msg("emergency recovery")
	m.mu.RLock()
	h := m.recovery
	m.mu.RUnlock()
	if h == nil {
		panic(&EmergencyError{Reason: reason})
	}
	h(reason)
}
