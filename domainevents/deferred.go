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

package domainevents

import (
	"context"
	"errors"
	"sync"

	"github.com/looplab/conduit"
)

// ErrMissingDispatcher is when a deferred dispatcher is created without a
// dispatcher to flush to.
var ErrMissingDispatcher = errors.New("missing dispatcher")

// DeferredDispatcher buffers domain events until Flush or Forget is called.
// Immediate events bypass the buffer. A DeferredDispatcher is scoped to one
// logical operation.
type DeferredDispatcher struct {
	dispatcher EventDispatcher
	events     []conduit.DomainEvent
	eventsMu   sync.Mutex
}

// NewDeferredDispatcher creates a DeferredDispatcher flushing to the dispatcher.
func NewDeferredDispatcher(dispatcher EventDispatcher) (*DeferredDispatcher, error) {
	if dispatcher == nil {
		return nil, ErrMissingDispatcher
	}

	return &DeferredDispatcher{
		dispatcher: dispatcher,
	}, nil
}

// Dispatch implements the Dispatch method of the EventDispatcher interface.
// Immediate events are dispatched at once, others are buffered.
func (d *DeferredDispatcher) Dispatch(ctx context.Context, event conduit.DomainEvent) error {
	if conduit.IsImmediate(event) {
		return d.dispatcher.Dispatch(ctx, event)
	}

	d.eventsMu.Lock()
	defer d.eventsMu.Unlock()

	d.events = append(d.events, event)

	return nil
}

// Flush dispatches the buffered events in the order they were raised. Events
// raised by listeners while flushing are dispatched before Flush returns. If a
// listener fails the remaining events are discarded and the error returned.
func (d *DeferredDispatcher) Flush(ctx context.Context) error {
	for {
		event, ok := d.pop()
		if !ok {
			return nil
		}

		if err := d.dispatcher.Dispatch(ctx, event); err != nil {
			d.Forget()

			return err
		}
	}
}

// Forget discards the buffered events.
func (d *DeferredDispatcher) Forget() {
	d.eventsMu.Lock()
	defer d.eventsMu.Unlock()

	d.events = nil
}

// Len returns the number of buffered events.
func (d *DeferredDispatcher) Len() int {
	d.eventsMu.Lock()
	defer d.eventsMu.Unlock()

	return len(d.events)
}

// The lock is not held while dispatching so listeners can raise new events.
func (d *DeferredDispatcher) pop() (conduit.DomainEvent, bool) {
	d.eventsMu.Lock()
	defer d.eventsMu.Unlock()

	if len(d.events) == 0 {
		return nil, false
	}

	event := d.events[0]
	d.events = d.events[1:]

	return event, true
}
