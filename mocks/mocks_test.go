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
	"testing"

	"github.com/looplab/conduit"
)

func TestMocks(t *testing.T) {
	var cmd interface{}
	cmd = Command{}
	if _, ok := cmd.(conduit.Command); !ok {
		t.Error("the mocked command is incorrect")
	}
	cmd = CommandOther{}
	if _, ok := cmd.(conduit.Command); !ok {
		t.Error("the mocked command other is incorrect")
	}

	var query interface{}
	query = Query{}
	if _, ok := query.(conduit.Query); !ok {
		t.Error("the mocked query is incorrect")
	}

	var event interface{}
	event = NewEvent("content")
	if _, ok := event.(conduit.IntegrationEvent); !ok {
		t.Error("the mocked event is incorrect")
	}

	if conduit.IsImmediate(DomainEvent{}) {
		t.Error("the mocked domain event should not be immediate")
	}
	if !conduit.IsImmediate(ImmediateEvent{}) {
		t.Error("the mocked immediate event should be immediate")
	}

	var commandHandler interface{}
	commandHandler = &CommandHandler{}
	if _, ok := commandHandler.(conduit.CommandHandler); !ok {
		t.Error("the mocked command handler is incorrect")
	}

	var queryHandler interface{}
	queryHandler = &QueryHandler{}
	if _, ok := queryHandler.(conduit.QueryHandler); !ok {
		t.Error("the mocked query handler is incorrect")
	}

	var eventHandler interface{}
	eventHandler = &EventHandler{}
	if _, ok := eventHandler.(conduit.IntegrationEventHandler); !ok {
		t.Error("the mocked event handler is incorrect")
	}

	var listener interface{}
	listener = &BeforeCommitListener{}
	if _, ok := listener.(conduit.DomainEventListener); !ok {
		t.Error("the mocked listener is incorrect")
	}

	var uow interface{}
	uow = &UnitOfWork{}
	if _, ok := uow.(conduit.UnitOfWork); !ok {
		t.Error("the mocked unit of work is incorrect")
	}

	var reporter interface{}
	reporter = &ErrorReporter{}
	if _, ok := reporter.(conduit.ErrorReporter); !ok {
		t.Error("the mocked error reporter is incorrect")
	}

	var queue interface{}
	queue = &Queue{}
	if _, ok := queue.(conduit.Queue); !ok {
		t.Error("the mocked queue is incorrect")
	}

	var publisher interface{}
	publisher = &EventPublisher{}
	if _, ok := publisher.(conduit.EventPublisher); !ok {
		t.Error("the mocked event publisher is incorrect")
	}

	e := NewEvent("a")
	if !EqualEvents([]conduit.IntegrationEvent{e}, []conduit.IntegrationEvent{e}) {
		t.Error("the events should be equal")
	}
	if EqualEvents([]conduit.IntegrationEvent{e}, []conduit.IntegrationEvent{NewEvent("a")}) {
		t.Error("the events should not be equal")
	}
}
