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

package configure

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/looplab/conduit"
	"github.com/looplab/conduit/commandbus"
	"github.com/looplab/conduit/eventbus"
	"github.com/looplab/conduit/querybus"
	"github.com/looplab/conduit/registry"
)

var (
	// ErrMissingFactory is when a config has no handler factory.
	ErrMissingFactory = errors.New("missing handler factory")
	// ErrMissingTypes is when a config has no message types.
	ErrMissingTypes = errors.New("missing message types")
)

// Container registers handler configs in the registries used by the
// dispatchers.
type Container struct {
	commands *registry.Registry[conduit.CommandType, conduit.CommandHandler]
	queries  *registry.Registry[conduit.QueryType, conduit.QueryHandler]
	events   *registry.Registry[conduit.EventType, conduit.IntegrationEventHandler]
}

// NewContainer creates a new Container with empty registries.
func NewContainer() *Container {
	return &Container{
		commands: commandbus.NewHandlers(),
		queries:  querybus.NewHandlers(),
		events:   eventbus.NewHandlers(),
	}
}

// Commands returns the command handlers, for use with commandbus.NewDispatcher.
func (c *Container) Commands() *registry.Registry[conduit.CommandType, conduit.CommandHandler] {
	return c.commands
}

// Queries returns the query handlers, for use with querybus.NewDispatcher.
func (c *Container) Queries() *registry.Registry[conduit.QueryType, conduit.QueryHandler] {
	return c.queries
}

// Events returns the event handlers, for use with eventbus.NewDispatcher.
func (c *Container) Events() *registry.Registry[conduit.EventType, conduit.IntegrationEventHandler] {
	return c.events
}

// RegisterCommands registers command configs. Registration stops at the
// first invalid config or already bound type. The configured middleware runs
// outside the middleware the handler itself provides, if any.
func (c *Container) RegisterCommands(cfgs ...*CommandConfig) error {
	for _, cfg := range cfgs {
		cfg := cfg // per-iteration copy: wrap runs lazily, after the loop

		if err := register(c.commands, cfg, func(h conduit.CommandHandler) conduit.CommandHandler {
			mw := slices.Clip(cfg.Middleware())
			if p, ok := h.(commandbus.MiddlewareProvider); ok {
				mw = append(mw, p.Middleware()...)
			}

			return &commandHandler{CommandHandler: h, middleware: mw}
		}); err != nil {
			return fmt.Errorf("could not register command handler: %w", err)
		}
	}

	return nil
}

// RegisterQueries registers query configs. Registration stops at the first
// invalid config or already bound type.
func (c *Container) RegisterQueries(cfgs ...*QueryConfig) error {
	for _, cfg := range cfgs {
		cfg := cfg // per-iteration copy: wrap runs lazily, after the loop

		if err := register(c.queries, cfg, func(h conduit.QueryHandler) conduit.QueryHandler {
			mw := slices.Clip(cfg.Middleware())
			if p, ok := h.(querybus.MiddlewareProvider); ok {
				mw = append(mw, p.Middleware()...)
			}

			return &queryHandler{QueryHandler: h, middleware: mw}
		}); err != nil {
			return fmt.Errorf("could not register query handler: %w", err)
		}
	}

	return nil
}

// RegisterEvents registers inbound integration event configs. Registration
// stops at the first invalid config or already bound type.
func (c *Container) RegisterEvents(cfgs ...*EventConfig) error {
	for _, cfg := range cfgs {
		cfg := cfg // per-iteration copy: wrap runs lazily, after the loop

		if err := register(c.events, cfg, func(h conduit.IntegrationEventHandler) conduit.IntegrationEventHandler {
			mw := slices.Clip(cfg.Middleware())
			if p, ok := h.(eventbus.MiddlewareProvider); ok {
				mw = append(mw, p.Middleware()...)
			}

			return &eventHandler{IntegrationEventHandler: h, middleware: mw}
		}); err != nil {
			return fmt.Errorf("could not register event handler: %w", err)
		}
	}

	return nil
}

// Binds every type of a config to one shared wrapped handler, created on
// first use. No type is bound if any of them is already bound.
func register[K ~string, H any, P any](r *registry.Registry[K, H], cfg *Config[K, H, P], wrap func(H) H) error {
	if cfg.Factory() == nil {
		return ErrMissingFactory
	}

	if len(cfg.Types()) == 0 {
		return ErrMissingTypes
	}

	seen := make(map[K]struct{}, len(cfg.Types()))
	for _, t := range cfg.Types() {
		if _, ok := seen[t]; ok || r.Has(t) {
			return fmt.Errorf("%w: %s", registry.ErrHandlerAlreadyBound, t)
		}

		seen[t] = struct{}{}
	}

	factory := cfg.Factory()
	resolve := sync.OnceValue(func() H {
		// Nil handlers are left unwrapped for the registry to reject.
		h := factory()
		if registry.IsNil(h) {
			return h
		}

		return wrap(h)
	})

	for _, t := range cfg.Types() {
		if err := r.Bind(t, resolve); err != nil {
			return err
		}
	}

	return nil
}

type commandHandler struct {
	conduit.CommandHandler
	middleware []commandbus.Pipe
}

// Middleware implements the Middleware method of commandbus.MiddlewareProvider.
func (h *commandHandler) Middleware() []commandbus.Pipe {
	return h.middleware
}

type queryHandler struct {
	conduit.QueryHandler
	middleware []querybus.Pipe
}

// Middleware implements the Middleware method of querybus.MiddlewareProvider.
func (h *queryHandler) Middleware() []querybus.Pipe {
	return h.middleware
}

type eventHandler struct {
	conduit.IntegrationEventHandler
	middleware []eventbus.Pipe
}

// Middleware implements the Middleware method of eventbus.MiddlewareProvider.
func (h *eventHandler) Middleware() []eventbus.Pipe {
	return h.middleware
}
