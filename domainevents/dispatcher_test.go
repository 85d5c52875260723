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
	"reflect"
	"testing"

	"github.com/kr/pretty"

	"github.com/looplab/conduit"
	"github.com/looplab/conduit/mocks"
)

func TestDispatcher_Listen(t *testing.T) {
	d := NewDispatcher()

	if err := d.Listen("", &mocks.DomainEventListener{}); !errors.Is(err, ErrMissingEventType) {
		t.Error("there should be a missing event type error:", err)
	}

	if err := d.Listen(mocks.EventType, nil); !errors.Is(err, ErrMissingListener) {
		t.Error("there should be a missing listener error:", err)
	}

	if err := d.Listen(mocks.EventType, &mocks.ConflictingListener{}); !errors.Is(err, ErrConflictingTiming) {
		t.Error("there should be a conflicting timing error:", err)
	}

	if len(d.Listeners(mocks.EventType)) != 0 {
		t.Error("no listeners should have been registered")
	}
}

func TestDispatcher_Dispatch(t *testing.T) {
	ctx := context.Background()

	var log []string

	d := NewDispatcher()
	if err := d.Listen(mocks.EventType,
		&mocks.DomainEventListener{Name: "a", Log: &log},
		&mocks.DomainEventListener{Name: "b", Log: &log},
	); err != nil {
		t.Fatal("there should be no error:", err)
	}

	if err := d.Dispatch(ctx, mocks.DomainEvent{Content: "1"}); err != nil {
		t.Error("there should be no error:", err)
	}

	// No listeners for the type.
	if err := d.Dispatch(ctx, mocks.ImmediateEvent{Content: "2"}); err != nil {
		t.Error("there should be no error:", err)
	}

	if expected := []string{"a:1", "b:1"}; !reflect.DeepEqual(log, expected) {
		t.Error("the listeners should run in order:")
		t.Log(pretty.Diff(log, expected))
	}
}

func TestDispatcher_DispatchError(t *testing.T) {
	var log []string

	errListener := errors.New("listener")
	d := NewDispatcher()
	if err := d.Listen(mocks.EventType,
		&mocks.DomainEventListener{Name: "a", Log: &log, Err: errListener},
		&mocks.DomainEventListener{Name: "b", Log: &log},
	); err != nil {
		t.Fatal("there should be no error:", err)
	}

	err := d.Dispatch(context.Background(), mocks.DomainEvent{Content: "1"})

	var dErr *Error
	if !errors.As(err, &dErr) || !errors.Is(err, errListener) {
		t.Fatal("there should be a listener error:", err)
	}

	if dErr.Error() != "domain event 'Event': listener" {
		t.Error("the error message should be correct:", dErr.Error())
	}

	if expected := []string{"a:1"}; !reflect.DeepEqual(log, expected) {
		t.Error("the first error should stop the dispatch:", log)
	}
}

func TestDeferredDispatcher_Flush(t *testing.T) {
	ctx := context.Background()

	var log []string

	inner := NewDispatcher()
	if err := inner.Listen(mocks.EventType, &mocks.DomainEventListener{Name: "l", Log: &log}); err != nil {
		t.Fatal("there should be no error:", err)
	}

	d, err := NewDeferredDispatcher(inner)
	if err != nil {
		t.Fatal("there should be no error:", err)
	}

	for _, c := range []string{"1", "2", "3"} {
		if err := d.Dispatch(ctx, mocks.DomainEvent{Content: c}); err != nil {
			t.Error("there should be no error:", err)
		}
	}

	if len(log) != 0 {
		t.Error("no events should be dispatched before flushing:", log)
	}

	if d.Len() != 3 {
		t.Error("there should be 3 buffered events:", d.Len())
	}

	if err := d.Flush(ctx); err != nil {
		t.Error("there should be no error:", err)
	}

	if expected := []string{"l:1", "l:2", "l:3"}; !reflect.DeepEqual(log, expected) {
		t.Error("the events should be dispatched in order:")
		t.Log(pretty.Diff(log, expected))
	}

	if d.Len() != 0 {
		t.Error("the buffer should be empty:", d.Len())
	}

	// Flushing again dispatches nothing.
	if err := d.Flush(ctx); err != nil {
		t.Error("there should be no error:", err)
	}

	if len(log) != 3 {
		t.Error("no more events should be dispatched:", log)
	}
}

func TestDeferredDispatcher_Forget(t *testing.T) {
	ctx := context.Background()

	listener := &mocks.DomainEventListener{}
	inner := NewDispatcher()
	if err := inner.Listen(mocks.EventType, listener); err != nil {
		t.Fatal("there should be no error:", err)
	}

	d, _ := NewDeferredDispatcher(inner)

	for _, c := range []string{"1", "2", "3"} {
		_ = d.Dispatch(ctx, mocks.DomainEvent{Content: c})
	}

	d.Forget()

	if d.Len() != 0 {
		t.Error("the buffer should be empty:", d.Len())
	}

	if err := d.Flush(ctx); err != nil {
		t.Error("there should be no error:", err)
	}

	if len(listener.Events) != 0 {
		t.Error("no events should be dispatched:", listener.Events)
	}
}

func TestDeferredDispatcher_Immediate(t *testing.T) {
	ctx := context.Background()

	listener := &mocks.DomainEventListener{}
	inner := NewDispatcher()
	if err := inner.Listen(mocks.EventOtherType, listener); err != nil {
		t.Fatal("there should be no error:", err)
	}

	d, _ := NewDeferredDispatcher(inner)
	_ = d.Dispatch(ctx, mocks.DomainEvent{Content: "buffered"})

	if err := d.Dispatch(ctx, mocks.ImmediateEvent{Content: "now"}); err != nil {
		t.Error("there should be no error:", err)
	}

	if expected := []conduit.DomainEvent{mocks.ImmediateEvent{Content: "now"}}; !reflect.DeepEqual(listener.Events, expected) {
		t.Error("the immediate event should be dispatched at once:", listener.Events)
	}

	if d.Len() != 1 {
		t.Error("the buffered event should stay buffered:", d.Len())
	}
}

func TestDeferredDispatcher_FlushRecursive(t *testing.T) {
	ctx := context.Background()

	var log []string

	inner := NewDispatcher()
	d, _ := NewDeferredDispatcher(inner)

	if err := inner.Listen(mocks.EventType, conduit.DomainEventListenerFunc(
		func(ctx context.Context, e conduit.DomainEvent) error {
			c := e.(mocks.DomainEvent).Content
			log = append(log, c)

			if len(c) < 3 {
				return d.Dispatch(ctx, mocks.DomainEvent{Content: c + "+"})
			}

			return nil
		}),
	); err != nil {
		t.Fatal("there should be no error:", err)
	}

	_ = d.Dispatch(ctx, mocks.DomainEvent{Content: "a"})
	_ = d.Dispatch(ctx, mocks.DomainEvent{Content: "b"})

	if err := d.Flush(ctx); err != nil {
		t.Error("there should be no error:", err)
	}

	if expected := []string{"a", "b", "a+", "b+", "a++", "b++"}; !reflect.DeepEqual(log, expected) {
		t.Error("events raised while flushing should also be flushed:")
		t.Log(pretty.Diff(log, expected))
	}

	if d.Len() != 0 {
		t.Error("the buffer should be empty:", d.Len())
	}
}

func TestDeferredDispatcher_FlushError(t *testing.T) {
	ctx := context.Background()

	errListener := errors.New("listener")
	listener := &mocks.DomainEventListener{Err: errListener}
	inner := NewDispatcher()
	_ = inner.Listen(mocks.EventType, listener)

	d, _ := NewDeferredDispatcher(inner)
	_ = d.Dispatch(ctx, mocks.DomainEvent{Content: "1"})
	_ = d.Dispatch(ctx, mocks.DomainEvent{Content: "2"})

	if err := d.Flush(ctx); !errors.Is(err, errListener) {
		t.Error("there should be a listener error:", err)
	}

	if len(listener.Events) != 1 {
		t.Error("only the failing event should be dispatched:", listener.Events)
	}

	if d.Len() != 0 {
		t.Error("the remaining events should be discarded:", d.Len())
	}
}

func TestNewDeferredDispatcher(t *testing.T) {
	if _, err := NewDeferredDispatcher(nil); !errors.Is(err, ErrMissingDispatcher) {
		t.Error("there should be a missing dispatcher error:", err)
	}
}
