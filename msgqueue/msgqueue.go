package msgqueue

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

	"github.com/Gurux/gxuwb-go/logging"
	"github.com/Gurux/gxuwb-go/status"
)

// DefaultSize is the queue depth used when NewQueue is given zero.
const DefaultSize = 32

// ErrClosed is returned when sending to or receiving from a closed queue.
var ErrClosed = errors.New("msgqueue: closed")

// Message is a unit of work delivered to the client goroutine.
type Message interface {
	isMessage()
}

// DeferredCall runs Fn on the client goroutine.
type DeferredCall struct {
	// Name is used in logs only.
	Name string
	Fn   func()
}

func (DeferredCall) isMessage() {}

// EventCode identifies a HAL event.
type EventCode uint16

const (
	EventOpenComplete  EventCode = 0x411
	EventCloseComplete EventCode = 0x412
	EventInitComplete  EventCode = 0x413
	EventHwReset       EventCode = 0x414
	EventError         EventCode = 0x415
)

// String returns the name of the event code.
func (c EventCode) String() string {
	switch c {
	case EventOpenComplete:
		return "OpenComplete"
	case EventCloseComplete:
		return "CloseComplete"
	case EventInitComplete:
		return "InitComplete"
	case EventHwReset:
		return "HwReset"
	case EventError:
		return "Error"
	default:
		return fmt.Sprintf("Event(0x%03X)", uint16(c))
	}
}

// Event is a HAL event with its status.
type Event struct {
	Code   EventCode
	Status status.Status
}

func (Event) isMessage() {}

// EventHandler receives events dispatched by Run.
type EventHandler func(Event)

// Queue is a FIFO of messages for one client goroutine. Any number of
// goroutines may send. Close never closes the channel itself, so a late
// sender gets ErrClosed instead of a panic.
type Queue struct {
	ch        chan Message
	done      chan struct{}
	closeOnce sync.Once

	mu      sync.RWMutex
	onEvent EventHandler
}

// NewQueue returns a queue holding up to size messages.
func NewQueue(size int) *Queue {
	if size <= 0 {
		size = DefaultSize
	}
	return &Queue{ch: make(chan Message, size), done: make(chan struct{})}
}

// SetOnEvent sets the handler Run calls for Event messages.
func (q *Queue) SetOnEvent(value EventHandler) {
	q.mu.Lock()
	q.onEvent = value
	q.mu.Unlock()
}

// Send posts m, blocking while the queue is full.
func (q *Queue) Send(m Message) error {
	return q.SendContext(context.Background(), m)
}

// SendContext posts m, giving up when ctx ends or the queue is closed.
func (q *Queue) SendContext(ctx context.Context, m Message) error {
	if m == nil {
		return status.ErrInvalidParameter
	}
	select {
	case <-q.done:
		return ErrClosed
	default:
	}
	select {
	case q.ch <- m:
		return nil
	case <-q.done:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Receive returns the next message.
func (q *Queue) Receive(ctx context.Context) (Message, error) {
	select {
	case m := <-q.ch:
		return m, nil
	case <-q.done:
		return nil, ErrClosed
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Len returns the number of queued messages.
func (q *Queue) Len() int {
	return len(q.ch)
}

// Run dispatches messages on the calling goroutine until ctx ends or the
// queue is closed. Deferred calls are executed, events go to the handler.
func (q *Queue) Run(ctx context.Context) error {
	log := logging.Logger("msgqueue")
	for {
		m, err := q.Receive(ctx)
		if err != nil {
			if errors.Is(err, ErrClosed) {
				return nil
			}
			return err
		}
		switch v := m.(type) {
		case DeferredCall:
			if v.Fn != nil {
				v.Fn()
			}
		case Event:
			q.mu.RLock()
			cb := q.onEvent
			q.mu.RUnlock()
			if cb != nil {
				cb(v)
			} else {
				log.Debug().Stringer("event", v.Code).Stringer("status", v.Status).Msg("event dropped, no handler")
			}
		default:
			log.Warn().Str("type", fmt.Sprintf("%T", m)).Msg("unknown message")
		}
	}
}

// Close stops Run and rejects further sends. Queued messages are dropped.
func (q *Queue) Close() {
	q.closeOnce.Do(func() { close(q.done) })
}
