// Copyright (c) 2026 - The Event Horizon authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package domainevents dispatches domain events to listeners, either directly,
// deferred until the outcome of an operation is known, or bound to the commit
// phases of a unit of work.
package domainevents

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/looplab/conduit"
)

var (
	// ErrMissingEventType is when a listener is registered without an event type.
	ErrMissingEventType = errors.New("missing event type")
	// ErrMissingListener is when a nil listener is registered.
	ErrMissingListener = errors.New("missing listener")
	// ErrConflictingTiming is when a listener is marked to run both before and
	// after commit.
	ErrConflictingTiming = errors.New("listener can not run both before and after commit")
)

// BeforeCommitListener is a listener that runs inside the transaction of a
// unit of work, before it commits.
type BeforeCommitListener interface {
	conduit.DomainEventListener
	DispatchBeforeCommit()
}

// AfterCommitListener is a listener that runs once a unit of work has
// committed.
type AfterCommitListener interface {
	conduit.DomainEventListener
	DispatchAfterCommit()
}

// EventDispatcher dispatches domain events.
type EventDispatcher interface {
	// Dispatch dispatches a domain event to its listeners.
	Dispatch(ctx context.Context, event conduit.DomainEvent) error
}

// Error is an error from a listener, with the event that caused it.
type Error struct {
	// Err is the error.
	Err error
	// Event is the event that the listener failed to handle.
	Event conduit.DomainEvent
}

// Error implements the Error method of the errors.Error interface.
func (e *Error) Error() string {
	str := "domain event"
	if e.Event != nil {
		str += " '" + e.Event.EventType().String() + "'"
	}

	if e.Err != nil {
		str += ": " + e.Err.Error()
	}

	return str
}

// Unwrap implements the errors.Unwrap method.
func (e *Error) Unwrap() error {
	return e.Err
}

// Cause implements the github.com/pkg/errors Unwrap method.
func (e *Error) Cause() error {
	return e.Unwrap()
}

// Dispatcher is a synchronous EventDispatcher. Listeners run in the order they
// were registered and the first error stops the dispatch. Listeners are meant
// to be registered at startup; lookups are safe for concurrent use.
type Dispatcher struct {
	listeners   map[conduit.EventType][]conduit.DomainEventListener
	listenersMu sync.RWMutex
}

// NewDispatcher creates a Dispatcher.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{
		listeners: map[conduit.EventType][]conduit.DomainEventListener{},
	}
}

// Listen registers listeners for an event type.
func (d *Dispatcher) Listen(eventType conduit.EventType, listeners ...conduit.DomainEventListener) error {
	if eventType == "" {
		return ErrMissingEventType
	}

	for _, l := range listeners {
		if l == nil {
			return fmt.Errorf("%w for event type '%s'", ErrMissingListener, eventType)
		}

		if err := checkTiming(l); err != nil {
			return err
		}
	}

	d.listenersMu.Lock()
	defer d.listenersMu.Unlock()

	d.listeners[eventType] = append(d.listeners[eventType], listeners...)

	return nil
}

// Listeners returns the listeners of an event type.
func (d *Dispatcher) Listeners(eventType conduit.EventType) []conduit.DomainEventListener {
	d.listenersMu.RLock()
	defer d.listenersMu.RUnlock()

	listeners := make([]conduit.DomainEventListener, len(d.listeners[eventType]))
	copy(listeners, d.listeners[eventType])

	return listeners
}

// Dispatch implements the Dispatch method of the EventDispatcher interface.
func (d *Dispatcher) Dispatch(ctx context.Context, event conduit.DomainEvent) error {
	return handle(ctx, event, d.Listeners(event.EventType()))
}

func checkTiming(l conduit.DomainEventListener) error {
	_, before := l.(BeforeCommitListener)
	_, after := l.(AfterCommitListener)

	if before && after {
		return fmt.Errorf("%w: %T", ErrConflictingTiming, l)
	}

	return nil
}
