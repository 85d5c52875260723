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
	"time"

	"github.com/google/uuid"
)

// Command is an input message that is routed to exactly one handler, which
// changes state and returns a Result.
type Command interface {
	// CommandType returns the type of the command, used to find its handler.
	CommandType() CommandType
}

// CommandType is the type of a command, used as its handler key.
type CommandType string

// String returns the string representation of a command type.
func (ct CommandType) String() string {
	return string(ct)
}

// Query is an input message that is routed to exactly one handler, which
// reads state and returns a Result.
type Query interface {
	// QueryType returns the type of the query, used to find its handler.
	QueryType() QueryType
}

// QueryType is the type of a query, used as its handler key.
type QueryType string

// String returns the string representation of a query type.
func (qt QueryType) String() string {
	return string(qt)
}

// EventType is the type of an event, used as its handler or listener key.
type EventType string

// String returns the string representation of an event type.
func (et EventType) String() string {
	return string(et)
}

// IntegrationEvent is an event that crosses a bounded context boundary, either
// received from another context (inbound) or published to them (outbound).
type IntegrationEvent interface {
	// EventType returns the type of the event.
	EventType() EventType
	// EventID returns the unique ID of this occurrence of the event.
	EventID() uuid.UUID
	// OccurredAt returns the time the event happened.
	OccurredAt() time.Time
}

// DomainEvent is an event raised inside a bounded context. Domain events are
// deferred until the outcome of the surrounding operation is known, unless
// they are an ImmediateEvent.
type DomainEvent interface {
	// EventType returns the type of the event.
	EventType() EventType
}

// ImmediateEvent is a domain event that is dispatched as soon as it is raised,
// bypassing any deferral.
type ImmediateEvent interface {
	DomainEvent

	// OccursImmediately marks the event as immediate.
	OccursImmediately()
}

// IsImmediate returns true if the event must bypass deferral.
func IsImmediate(e DomainEvent) bool {
	_, ok := e.(ImmediateEvent)

	return ok
}
