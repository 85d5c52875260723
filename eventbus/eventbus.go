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

// Package eventbus dispatches inbound integration events to their handlers and
// publishes outbound integration events, both through pipelines of pipes.
package eventbus

import (
	"context"
	"errors"
	"fmt"

	"github.com/looplab/conduit"
	"github.com/looplab/conduit/pipeline"
	"github.com/looplab/conduit/registry"
)

var (
	// ErrMissingHandlers is when a dispatcher is created without handlers.
	ErrMissingHandlers = errors.New("missing event handlers")
	// ErrMissingPublisher is when a publisher is created without a port.
	ErrMissingPublisher = errors.New("missing event publisher")
	// ErrMissingEvent is when a nil event is dispatched or published.
	ErrMissingEvent = errors.New("missing event")
)

// Pipe is a stage of an event pipeline, inline or named. Event pipelines have
// no result, only an error.
type Pipe = pipeline.Pipe[conduit.IntegrationEvent, struct{}]

// Stage is an inline stage of an event pipeline.
type Stage = pipeline.Stage[conduit.IntegrationEvent, struct{}]

// Next is the continuation given to a Stage.
type Next = pipeline.Next[conduit.IntegrationEvent, struct{}]

// PipeContainer is a container of named event stages.
type PipeContainer = pipeline.Container[conduit.IntegrationEvent, struct{}]

// Func returns a Pipe of an inline stage.
func Func(stage Stage) Pipe {
	return pipeline.Func(stage)
}

// Named returns a Pipe resolved by name from the pipe container.
func Named(name string) Pipe {
	return pipeline.Named[conduit.IntegrationEvent, struct{}](name)
}

// MiddlewareProvider is a handler with its own middleware.
type MiddlewareProvider interface {
	Middleware() []Pipe
}

// HandlerContainer resolves the handler of an event type.
type HandlerContainer interface {
	Get(conduit.EventType) (conduit.IntegrationEventHandler, error)
}

// NewHandlers creates a handler registry usable as a HandlerContainer.
func NewHandlers() *registry.Registry[conduit.EventType, conduit.IntegrationEventHandler] {
	return registry.New[conduit.EventType, conduit.IntegrationEventHandler]()
}

// The global pipes shared by Dispatcher and Publisher.
type stack struct {
	pipes      PipeContainer
	middleware []Pipe
}

// Option is an option setter used to configure creation of a Dispatcher or
// a Publisher.
type Option func(*stack) error

// WithPipes resolves named pipes from the container.
func WithPipes(c PipeContainer) Option {
	return func(s *stack) error {
		if c == nil {
			return fmt.Errorf("missing pipe container")
		}

		s.pipes = c

		return nil
	}
}

// WithMiddleware adds global pipes.
func WithMiddleware(pipes ...Pipe) Option {
	return func(s *stack) error {
		s.middleware = append(s.middleware, pipes...)

		return nil
	}
}

func (s *stack) apply(options []Option) error {
	for _, option := range options {
		if err := option(s); err != nil {
			return fmt.Errorf("error while applying option: %w", err)
		}
	}

	return nil
}

func (s *stack) run(ctx context.Context, event conduit.IntegrationEvent, terminal Next, local ...Pipe) error {
	p, err := pipeline.NewBuilder(s.pipes).
		Through(s.middleware...).
		Through(local...).
		Build(pipeline.NewMiddlewareProcessor(terminal))
	if err != nil {
		return err
	}

	_, err = p.Process(ctx, event)

	return err
}

// Dispatcher dispatches inbound integration events to handlers.
type Dispatcher struct {
	stack
	handlers HandlerContainer
}

// NewDispatcher creates a Dispatcher.
func NewDispatcher(handlers HandlerContainer, options ...Option) (*Dispatcher, error) {
	if handlers == nil {
		return nil, ErrMissingHandlers
	}

	d := &Dispatcher{
		handlers: handlers,
	}

	if err := d.apply(options); err != nil {
		return nil, err
	}

	return d, nil
}

// Through replaces the global pipes.
func (d *Dispatcher) Through(pipes ...Pipe) *Dispatcher {
	d.middleware = append([]Pipe(nil), pipes...)

	return d
}

// Dispatch dispatches an event to its handler. The handler is resolved before
// any pipe runs.
func (d *Dispatcher) Dispatch(ctx context.Context, event conduit.IntegrationEvent) error {
	if event == nil {
		return ErrMissingEvent
	}

	h, err := d.handlers.Get(event.EventType())
	if err != nil {
		return err
	}

	var local []Pipe
	if mp, ok := h.(MiddlewareProvider); ok {
		local = mp.Middleware()
	}

	return d.run(ctx, event, func(ctx context.Context, event conduit.IntegrationEvent) (struct{}, error) {
		return struct{}{}, h.HandleEvent(ctx, event)
	}, local...)
}

// HandleEvent implements the HandleEvent method of the
// conduit.IntegrationEventHandler interface, so that a Dispatcher can be
// used as the handler of a transport subscription.
func (d *Dispatcher) HandleEvent(ctx context.Context, event conduit.IntegrationEvent) error {
	return d.Dispatch(ctx, event)
}

// Publisher publishes outbound integration events through the global pipes to
// a conduit.EventPublisher.
type Publisher struct {
	stack
	publisher conduit.EventPublisher
}

// NewPublisher creates a Publisher.
func NewPublisher(publisher conduit.EventPublisher, options ...Option) (*Publisher, error) {
	if publisher == nil {
		return nil, ErrMissingPublisher
	}

	p := &Publisher{
		publisher: publisher,
	}

	if err := p.apply(options); err != nil {
		return nil, err
	}

	return p, nil
}

// Publish implements the Publish method of the conduit.EventPublisher
// interface.
func (p *Publisher) Publish(ctx context.Context, event conduit.IntegrationEvent) error {
	if event == nil {
		return ErrMissingEvent
	}

	return p.run(ctx, event, func(ctx context.Context, event conduit.IntegrationEvent) (struct{}, error) {
		return struct{}{}, p.publisher.Publish(ctx, event)
	})
}
