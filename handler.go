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

package conduit

import (
	"context"
)

// CommandHandler is a handler of commands.
type CommandHandler interface {
	// HandleCommand handles a command. A failed Result is returned for
	// business failures, an error for infrastructure failures.
	HandleCommand(context.Context, Command) (Result, error)
}

// CommandHandlerFunc is a function that can be used as a command handler.
type CommandHandlerFunc func(context.Context, Command) (Result, error)

// HandleCommand implements the HandleCommand method of the CommandHandler interface.
func (h CommandHandlerFunc) HandleCommand(ctx context.Context, cmd Command) (Result, error) {
	return h(ctx, cmd)
}

// QueryHandler is a handler of queries.
type QueryHandler interface {
	// HandleQuery handles a query.
	HandleQuery(context.Context, Query) (Result, error)
}

// QueryHandlerFunc is a function that can be used as a query handler.
type QueryHandlerFunc func(context.Context, Query) (Result, error)

// HandleQuery implements the HandleQuery method of the QueryHandler interface.
func (h QueryHandlerFunc) HandleQuery(ctx context.Context, q Query) (Result, error) {
	return h(ctx, q)
}

// IntegrationEventHandler is a handler of inbound integration events.
type IntegrationEventHandler interface {
	// HandleEvent handles an integration event.
	HandleEvent(context.Context, IntegrationEvent) error
}

// IntegrationEventHandlerFunc is a function that can be used as an
// integration event handler.
type IntegrationEventHandlerFunc func(context.Context, IntegrationEvent) error

// HandleEvent implements the HandleEvent method of the IntegrationEventHandler interface.
func (h IntegrationEventHandlerFunc) HandleEvent(ctx context.Context, e IntegrationEvent) error {
	return h(ctx, e)
}

// DomainEventListener is a listener of domain events.
type DomainEventListener interface {
	// HandleDomainEvent handles a domain event.
	HandleDomainEvent(context.Context, DomainEvent) error
}

// DomainEventListenerFunc is a function that can be used as a domain event listener.
type DomainEventListenerFunc func(context.Context, DomainEvent) error

// HandleDomainEvent implements the HandleDomainEvent method of the DomainEventListener interface.
func (l DomainEventListenerFunc) HandleDomainEvent(ctx context.Context, e DomainEvent) error {
	return l(ctx, e)
}
