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

	"github.com/looplab/conduit"
	"github.com/looplab/conduit/unitofwork"
)

// ErrMissingCommitHooks is when a unit of work aware dispatcher is created
// without commit hooks.
var ErrMissingCommitHooks = errors.New("missing commit hooks")

// CommitHooks are the commit phases of a unit of work, as provided by
// *unitofwork.Manager.
type CommitHooks interface {
	Active() bool
	Committed() bool
	BeforeCommit(cb unitofwork.Callback) error
	AfterCommit(cb unitofwork.Callback) error
}

// UnitOfWorkAwareDispatcher binds the listeners of a Dispatcher to the commit
// phases of the active unit of work:
//
//   - non-immediate events are dispatched before commit, inside the
//     transaction
//   - listeners marked with DispatchAfterCommit run after the commit
//   - for immediate events, plain listeners run at once and listeners marked
//     with DispatchBeforeCommit run before commit
//
// Outside a unit of work, or once it has committed, events are dispatched at
// once to all listeners.
type UnitOfWorkAwareDispatcher struct {
	listeners *Dispatcher
	hooks     CommitHooks
}

// NewUnitOfWorkAwareDispatcher creates a UnitOfWorkAwareDispatcher.
func NewUnitOfWorkAwareDispatcher(listeners *Dispatcher, hooks CommitHooks) (*UnitOfWorkAwareDispatcher, error) {
	if listeners == nil {
		return nil, ErrMissingDispatcher
	}

	if hooks == nil {
		return nil, ErrMissingCommitHooks
	}

	return &UnitOfWorkAwareDispatcher{
		listeners: listeners,
		hooks:     hooks,
	}, nil
}

// Dispatch implements the Dispatch method of the EventDispatcher interface.
func (d *UnitOfWorkAwareDispatcher) Dispatch(ctx context.Context, event conduit.DomainEvent) error {
	listeners := d.listeners.Listeners(event.EventType())

	for _, l := range listeners {
		if err := checkTiming(l); err != nil {
			return err
		}
	}

	if !d.hooks.Active() || d.hooks.Committed() {
		return handle(ctx, event, listeners)
	}

	if conduit.IsImmediate(event) {
		for _, l := range listeners {
			switch l.(type) {
			case BeforeCommitListener:
				if err := d.hooks.BeforeCommit(callback(l, event)); err != nil {
					return err
				}
			case AfterCommitListener:
				if err := d.hooks.AfterCommit(callback(l, event)); err != nil {
					return err
				}
			default:
				if err := handle(ctx, event, []conduit.DomainEventListener{l}); err != nil {
					return err
				}
			}
		}

		return nil
	}

	return d.hooks.BeforeCommit(func(ctx context.Context) error {
		for _, l := range listeners {
			if _, ok := l.(AfterCommitListener); ok {
				if err := d.hooks.AfterCommit(callback(l, event)); err != nil {
					return err
				}

				continue
			}

			if err := handle(ctx, event, []conduit.DomainEventListener{l}); err != nil {
				return err
			}
		}

		return nil
	})
}

func callback(l conduit.DomainEventListener, event conduit.DomainEvent) unitofwork.Callback {
	return func(ctx context.Context) error {
		return handle(ctx, event, []conduit.DomainEventListener{l})
	}
}

func handle(ctx context.Context, event conduit.DomainEvent, listeners []conduit.DomainEventListener) error {
	for _, l := range listeners {
		if err := l.HandleDomainEvent(ctx, event); err != nil {
			return &Error{Err: err, Event: event}
		}
	}

	return nil
}
