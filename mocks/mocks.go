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

package mocks

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/looplab/conduit"
)

const (
	// CommandType is the type for Command.
	CommandType conduit.CommandType = "Command"
	// CommandOtherType is the type for CommandOther.
	CommandOtherType conduit.CommandType = "CommandOther"

	// QueryType is the type for Query.
	QueryType conduit.QueryType = "Query"
	// QueryOtherType is the type for QueryOther.
	QueryOtherType conduit.QueryType = "QueryOther"

	// EventType is the type for Event and DomainEvent.
	EventType conduit.EventType = "Event"
	// EventOtherType is the type for EventOther and ImmediateEvent.
	EventOtherType conduit.EventType = "EventOther"
)

// Command is a mocked conduit.Command, useful in testing.
type Command struct {
	ID      uuid.UUID
	Content string
}

func (c Command) CommandType() conduit.CommandType { return CommandType }

// CommandOther is a mocked conduit.Command, useful in testing.
type CommandOther struct {
	Content string
}

func (c CommandOther) CommandType() conduit.CommandType { return CommandOtherType }

// Query is a mocked conduit.Query, useful in testing.
type Query struct {
	Content string
}

func (q Query) QueryType() conduit.QueryType { return QueryType }

// QueryOther is a mocked conduit.Query, useful in testing.
type QueryOther struct {
	Content string
}

func (q QueryOther) QueryType() conduit.QueryType { return QueryOtherType }

// Event is a mocked conduit.IntegrationEvent, useful in testing.
type Event struct {
	ID      uuid.UUID
	Content string
	Time    time.Time
}

// NewEvent creates a new Event with a random ID.
func NewEvent(content string) *Event {
	return &Event{
		ID:      uuid.New(),
		Content: content,
		Time:    time.Now().UTC(),
	}
}

func (e *Event) EventType() conduit.EventType { return EventType }
func (e *Event) EventID() uuid.UUID           { return e.ID }
func (e *Event) OccurredAt() time.Time        { return e.Time }

// DomainEvent is a mocked conduit.DomainEvent, useful in testing.
type DomainEvent struct {
	Content string
}

func (e DomainEvent) EventType() conduit.EventType { return EventType }

// ImmediateEvent is a mocked conduit.ImmediateEvent, useful in testing.
type ImmediateEvent struct {
	Content string
}

func (e ImmediateEvent) EventType() conduit.EventType { return EventOtherType }
func (e ImmediateEvent) OccursImmediately()            {}

// CommandHandler is a mocked conduit.CommandHandler, useful in testing.
type CommandHandler struct {
	Commands []conduit.Command
	Context  context.Context
	// Result is returned from HandleCommand, defaults to a successful result.
	Result *conduit.Result
	// Used to simulate errors in HandleCommand.
	Err error
}

// HandleCommand implements the HandleCommand method of the conduit.CommandHandler interface.
func (h *CommandHandler) HandleCommand(ctx context.Context, cmd conduit.Command) (conduit.Result, error) {
	h.Commands = append(h.Commands, cmd)
	h.Context = ctx

	if h.Err != nil {
		return conduit.Result{}, h.Err
	}

	if h.Result != nil {
		return *h.Result, nil
	}

	return conduit.Ok(nil), nil
}

// QueryHandler is a mocked conduit.QueryHandler, useful in testing.
type QueryHandler struct {
	Queries []conduit.Query
	Context context.Context
	// Value is the value of the successful result.
	Value any
	// Used to simulate errors in HandleQuery.
	Err error
}

// HandleQuery implements the HandleQuery method of the conduit.QueryHandler interface.
func (h *QueryHandler) HandleQuery(ctx context.Context, q conduit.Query) (conduit.Result, error) {
	h.Queries = append(h.Queries, q)
	h.Context = ctx

	if h.Err != nil {
		return conduit.Result{}, h.Err
	}

	return conduit.Ok(h.Value), nil
}

// EventHandler is a mocked conduit.IntegrationEventHandler, useful in testing.
type EventHandler struct {
	Events  []conduit.IntegrationEvent
	Context context.Context
	// Used to simulate errors in HandleEvent.
	Err error
}

// HandleEvent implements the HandleEvent method of the conduit.IntegrationEventHandler interface.
func (h *EventHandler) HandleEvent(ctx context.Context, e conduit.IntegrationEvent) error {
	h.Events = append(h.Events, e)
	h.Context = ctx

	return h.Err
}

// DomainEventListener is a mocked conduit.DomainEventListener, useful in testing.
type DomainEventListener struct {
	Events []conduit.DomainEvent
	// Log is appended with "<Name>:<event content>" if set.
	Log  *[]string
	Name string
	// Used to simulate errors in HandleDomainEvent.
	Err error
}

// HandleDomainEvent implements the HandleDomainEvent method of the conduit.DomainEventListener interface.
func (l *DomainEventListener) HandleDomainEvent(ctx context.Context, e conduit.DomainEvent) error {
	l.Events = append(l.Events, e)

	if l.Log != nil {
		*l.Log = append(*l.Log, fmt.Sprintf("%s:%s", l.Name, content(e)))
	}

	return l.Err
}

// BeforeCommitListener is a DomainEventListener that runs before commit.
type BeforeCommitListener struct {
	DomainEventListener
}

// DispatchBeforeCommit marks the listener to run before commit.
func (l *BeforeCommitListener) DispatchBeforeCommit() {}

// AfterCommitListener is a DomainEventListener that runs after commit.
type AfterCommitListener struct {
	DomainEventListener
}

// DispatchAfterCommit marks the listener to run after commit.
func (l *AfterCommitListener) DispatchAfterCommit() {}

// ConflictingListener is a listener marked to run both before and after commit.
type ConflictingListener struct {
	DomainEventListener
}

func (l *ConflictingListener) DispatchBeforeCommit() {}
func (l *ConflictingListener) DispatchAfterCommit()  {}

func content(e conduit.DomainEvent) string {
	switch e := e.(type) {
	case DomainEvent:
		return e.Content
	case ImmediateEvent:
		return e.Content
	default:
		return e.EventType().String()
	}
}

// UnitOfWork is a mocked conduit.UnitOfWork, useful in testing. It records
// "attempt:N", "commit:N" and "rollback:N" in its log.
type UnitOfWork struct {
	Log      []string
	Attempts int
	// Used to simulate errors when committing.
	CommitErr error
	mu        sync.Mutex
}

type txKey struct{}

// Execute implements the Execute method of the conduit.UnitOfWork interface.
func (u *UnitOfWork) Execute(ctx context.Context, fn func(context.Context) error) error {
	u.Attempts++
	attempt := u.Attempts
	u.Record(fmt.Sprintf("attempt:%d", attempt))

	if err := fn(context.WithValue(ctx, txKey{}, attempt)); err != nil {
		u.Record(fmt.Sprintf("rollback:%d", attempt))

		return err
	}

	if u.CommitErr != nil {
		u.Record(fmt.Sprintf("rollback:%d", attempt))

		return u.CommitErr
	}

	u.Record(fmt.Sprintf("commit:%d", attempt))

	return nil
}

// Record appends an entry to the log.
func (u *UnitOfWork) Record(entry string) {
	u.mu.Lock()
	defer u.mu.Unlock()

	u.Log = append(u.Log, entry)
}

// InTransaction returns true if the context was created by the UnitOfWork.
func InTransaction(ctx context.Context) bool {
	_, ok := ctx.Value(txKey{}).(int)

	return ok
}

// ErrorReporter is a mocked conduit.ErrorReporter, useful in testing.
type ErrorReporter struct {
	Errors []error
}

// Report implements the Report method of the conduit.ErrorReporter interface.
func (r *ErrorReporter) Report(err error) {
	r.Errors = append(r.Errors, err)
}

// Queue is a mocked conduit.Queue, useful in testing.
type Queue struct {
	Commands []conduit.Command
	Context  context.Context
	// Used to simulate errors in Push.
	Err error
}

// Push implements the Push method of the conduit.Queue interface.
func (q *Queue) Push(ctx context.Context, cmds ...conduit.Command) error {
	if q.Err != nil {
		return q.Err
	}

	q.Commands = append(q.Commands, cmds...)
	q.Context = ctx

	return nil
}

// EventPublisher is a mocked conduit.EventPublisher, useful in testing.
type EventPublisher struct {
	Events  []conduit.IntegrationEvent
	Context context.Context
	// Used to simulate errors in Publish.
	Err error
}

// Publish implements the Publish method of the conduit.EventPublisher interface.
func (p *EventPublisher) Publish(ctx context.Context, e conduit.IntegrationEvent) error {
	if p.Err != nil {
		return p.Err
	}

	p.Events = append(p.Events, e)
	p.Context = ctx

	return nil
}
