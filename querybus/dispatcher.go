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

// Package querybus dispatches queries to their handlers. The global pipes wrap
// the resolution of the handler, which then runs inside its own pipeline of
// handler middleware.
package querybus

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
	ErrMissingHandlers = errors.New("missing query handlers")
	// ErrMissingQuery is when a nil query is dispatched.
	ErrMissingQuery = errors.New("missing query")
)

// Pipe is a stage of the query pipeline, inline or named.
type Pipe = pipeline.Pipe[conduit.Query, conduit.Result]

// Stage is an inline stage of the query pipeline.
type Stage = pipeline.Stage[conduit.Query, conduit.Result]

// Next is the continuation given to a Stage.
type Next = pipeline.Next[conduit.Query, conduit.Result]

// PipeContainer is a container of named query stages.
type PipeContainer = pipeline.Container[conduit.Query, conduit.Result]

// Func returns a Pipe of an inline stage.
func Func(stage Stage) Pipe {
	return pipeline.Func(stage)
}

// Named returns a Pipe resolved by name from the pipe container of the
// dispatcher.
func Named(name string) Pipe {
	return pipeline.Named[conduit.Query, conduit.Result](name)
}

// MiddlewareProvider is a handler with its own middleware.
type MiddlewareProvider interface {
	Middleware() []Pipe
}

// HandlerContainer resolves the handler of a query type.
type HandlerContainer interface {
	Get(conduit.QueryType) (conduit.QueryHandler, error)
}

// NewHandlers creates a handler registry usable as a HandlerContainer.
func NewHandlers() *registry.Registry[conduit.QueryType, conduit.QueryHandler] {
	return registry.New[conduit.QueryType, conduit.QueryHandler]()
}

// Dispatcher dispatches queries to handlers.
type Dispatcher struct {
	handlers   HandlerContainer
	pipes      PipeContainer
	middleware []Pipe
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

// WithMiddleware adds global pipes that wrap every dispatch, including the
// resolution of the handler.
func WithMiddleware(pipes ...Pipe) Option {
	return func(d *Dispatcher) error {
		d.middleware = append(d.middleware, pipes...)

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

// Dispatch dispatches a query to its handler.
func (d *Dispatcher) Dispatch(ctx context.Context, q conduit.Query) (conduit.Result, error) {
	if q == nil {
		return conduit.Result{}, ErrMissingQuery
	}

	p, err := pipeline.NewBuilder(d.pipes).
		Through(d.middleware...).
		Build(pipeline.NewMiddlewareProcessor[conduit.Query, conduit.Result](d.handle))
	if err != nil {
		return conduit.Result{}, err
	}

	return p.Process(ctx, q)
}

// Terminal of the outer pipeline.
func (d *Dispatcher) handle(ctx context.Context, q conduit.Query) (conduit.Result, error) {
	// A global stage may have replaced the query.
	if q == nil {
		return conduit.Result{}, ErrMissingQuery
	}

	h, err := d.handlers.Get(q.QueryType())
	if err != nil {
		return conduit.Result{}, err
	}

	b := pipeline.NewBuilder(d.pipes)
	if mp, ok := h.(MiddlewareProvider); ok {
		b.Through(mp.Middleware()...)
	}

	p, err := b.Build(pipeline.NewMiddlewareProcessor[conduit.Query, conduit.Result](h.HandleQuery))
	if err != nil {
		return conduit.Result{}, err
	}

	return p.Process(ctx, q)
}
