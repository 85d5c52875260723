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
	"github.com/looplab/conduit"
	"github.com/looplab/conduit/commandbus"
	"github.com/looplab/conduit/eventbus"
	"github.com/looplab/conduit/querybus"
)

// Config collects a handler factory, the message types it handles and the
// middleware to run around it.
type Config[K ~string, H any, P any] struct {
	factory    func() H
	types      []K
	middleware []P
}

// CommandConfig is the configuration of a command handler.
type CommandConfig = Config[conduit.CommandType, conduit.CommandHandler, commandbus.Pipe]

// QueryConfig is the configuration of a query handler.
type QueryConfig = Config[conduit.QueryType, conduit.QueryHandler, querybus.Pipe]

// EventConfig is the configuration of an inbound integration event handler.
type EventConfig = Config[conduit.EventType, conduit.IntegrationEventHandler, eventbus.Pipe]

// NewCommandConfig creates a new CommandConfig.
func NewCommandConfig() *CommandConfig {
	return &CommandConfig{}
}

// NewQueryConfig creates a new QueryConfig.
func NewQueryConfig() *QueryConfig {
	return &QueryConfig{}
}

// NewEventConfig creates a new EventConfig.
func NewEventConfig() *EventConfig {
	return &EventConfig{}
}

// SetFactory sets the handler factory. It is called at most once, on the
// first dispatch of any of the configured types.
func (c *Config[K, H, P]) SetFactory(factory func() H) *Config[K, H, P] {
	c.factory = factory

	return c
}

// AddType adds message types to be handled.
func (c *Config[K, H, P]) AddType(types ...K) *Config[K, H, P] {
	c.types = append(c.types, types...)

	return c
}

// AddMiddleware adds middleware to run around the handler, outermost first.
func (c *Config[K, H, P]) AddMiddleware(middleware ...P) *Config[K, H, P] {
	c.middleware = append(c.middleware, middleware...)

	return c
}

// Factory returns the handler factory.
func (c *Config[K, H, P]) Factory() func() H {
	return c.factory
}

// Types returns the message types.
func (c *Config[K, H, P]) Types() []K {
	return c.types
}

// Middleware returns the middleware.
func (c *Config[K, H, P]) Middleware() []P {
	return c.middleware
}
