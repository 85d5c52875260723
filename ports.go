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

// UnitOfWork is a transactional boundary provided by a storage adapter.
type UnitOfWork interface {
	// Execute begins a transaction, calls fn exactly once with a context
	// carrying the transaction, and commits if fn returns nil or rolls back
	// if it returns an error. Execute must never retry fn; retries are the
	// concern of the unit of work manager.
	Execute(ctx context.Context, fn func(context.Context) error) error
}

// ErrorReporter is a sink for errors that are handled and swallowed, for
// example failed attempts of a unit of work that is retried.
type ErrorReporter interface {
	// Report reports an error. It must not panic.
	Report(error)
}

// ErrorReporterFunc is a function that can be used as an error reporter.
type ErrorReporterFunc func(error)

// Report implements the Report method of the ErrorReporter interface.
func (f ErrorReporterFunc) Report(err error) {
	f(err)
}

// Queue is a queue of commands to be dispatched later, usually by another
// process. Pushing is synchronous: it returns when the commands are enqueued.
type Queue interface {
	// Push enqueues one or more commands.
	Push(ctx context.Context, cmds ...Command) error
}

// EventPublisher publishes outbound integration events to other bounded
// contexts.
type EventPublisher interface {
	// Publish publishes an integration event.
	Publish(ctx context.Context, event IntegrationEvent) error
}
