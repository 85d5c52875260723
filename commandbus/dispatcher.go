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

// Package commandbus dispatches commands to their handlers through a pipeline
// of global pipes followed by the middleware of the handler.
package commandbus

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
	ErrMissingHandlers = errors.New("missing command handlers")
	// ErrMissingCommand is when a nil command is dispatched.
	ErrMissingCommand = errors.New("missing command")
	// ErrMissingQueue is when commands are queued without a queue.
	ErrMissingQueue = errors.New("missing command queue")
)

// Pipe is a stage of the command pipeline, inline or named.
type Pipe = pipeline.Pipe[conduit.Command, conduit.Result]

// Stage is an inline stage of the command pipeline.
type Stage = pipeline.Stage[conduit.Command, conduit.Result]

// Next is the continuation given to a Stage.
type Next = pipeline.Next[conduit.Command, conduit.Result]

// PipeContainer is a container of named command stages.
type PipeContainer = pipeline.Container[conduit.Command, conduit.Result]

// Func returns a Pipe of an inline stage.
func Func(stage Stage) Pipe {
	return pipeline.Func(stage)
}

// Named returns a Pipe resolved by name from the pipe container of the
// dispatcher.
func Named(name string) Pipe {
	return pipeline.Named[conduit.Command, conduit.Result](name)
}

// MiddlewareProvider is a handler with its own middleware, which runs inside
// the global pipes, closest to the handler.
type MiddlewareProvider interface {
	Middleware() []Pipe
}

// HandlerContainer resolves the handler of a command type.
type HandlerContainer interface {
	Get(conduit.CommandType) (conduit.CommandHandler, error)
}

// NewHandlers creates a handler registry usable as a HandlerContainer.
func NewHandlers() *registry.Registry[conduit.CommandType, conduit.CommandHandler] {
	return registry.New[conduit.CommandType, conduit.CommandHandler]()
}

// Dispatcher dispatches commands to handlers. The global pipes are meant to be
// configured at startup; dispatching is safe for concurrent use as long as the
// handlers and pipes are.
type Dispatcher struct {
	handlers   HandlerContainer
	pipes      PipeContainer
	middleware []Pipe
	queue      conduit.Queue
}

// Option is an option setter used to configure creation.
type Option func(*Dispatcher) error

// WithPipes resolves named pipes from the container.
func WithPipes(c PipeContainer) Option {
	return func(d *Dispatcher) error {
		if c == nil {
			return fmt.Errorf("missing pipe container")
		}

		d.pipes = c

		return nil
	}
}

// WithMiddleware adds global pipes that wrap every dispatch.
func WithMiddleware(pipes ...Pipe) Option {
	return func(d *Dispatcher) error {
		d.middleware = append(d.middleware, pipes...)

		return nil
	}
}

// WithQueue uses the queue for Dispatcher.Queue.
func WithQueue(q conduit.Queue) Option {
	return func(d *Dispatcher) error {
		if q == nil {
			return ErrMissingQueue
		}

		d.queue = q

		return nil
	}
}

// NewDispatcher creates a Dispatcher.
func NewDispatcher(handlers HandlerContainer, options ...Option) (*Dispatcher, error) {
	if handlers == nil {
		return nil, ErrMissingHandlers
	}

	d := &Dispatcher{
		handlers: handlers,
	}

	for _, option := range options {
		if err := option(d); err != nil {
			return nil, fmt.Errorf("error while applying option: %w", err)
		}
	}

	return d, nil
}

// Through replaces the global pipes.
func (d *Dispatcher) Through(pipes ...Pipe) *Dispatcher {
	d.middleware = append([]Pipe(nil), pipes...)

	return d
}

// Dispatch dispatches a command to its handler. The handler is resolved before
// any pipe runs, so a command without a handler fails without side effects.
func (d *Dispatcher) Dispatch(ctx context.Context, cmd conduit.Command) (conduit.Result, error) {
	if cmd == nil {
		return conduit.Result{}, ErrMissingCommand
	}

	h, err := d.handlers.Get(cmd.CommandType())
	if err != nil {
		return conduit.Result{}, err
	}

	b := pipeline.NewBuilder(d.pipes).Through(d.middleware...)
	if mp, ok := h.(MiddlewareProvider); ok {
		b.Through(mp.Middleware()...)
	}

	p, err := b.Build(pipeline.NewMiddlewareProcessor[conduit.Command, conduit.Result](h.HandleCommand))
	if err != nil {
		return conduit.Result{}, err
	}

	return p.Process(ctx, cmd)
}

// Queue pushes commands to the queue, to be dispatched later.
func (d *Dispatcher) Queue(ctx context.Context, cmds ...conduit.Command) error {
	if d.queue == nil {
		return ErrMissingQueue
	}

	for _, cmd := range cmds {
		if cmd == nil {
			return ErrMissingCommand
		}
	}

	return d.queue.Push(ctx, cmds...)
}
