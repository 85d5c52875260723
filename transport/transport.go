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

// Package transport holds what the broker publishers share. Each publisher
// implements both conduit.Queue, for commands, and conduit.EventPublisher, for
// outbound integration events, on top of one broker client.
package transport

import (
	"context"
	"errors"

	"github.com/looplab/conduit"
	"github.com/looplab/conduit/middleware/tracing"
)

// Header keys set on every message, next to the tracing headers.
const (
	KindHeader = "conduit_kind"
	TypeHeader = "conduit_type"
	IDHeader   = "conduit_id"
)

// Message kinds.
const (
	KindCommand = "command"
	KindEvent   = "event"
)

var (
	// ErrMissingClient is when creating a publisher without a broker client.
	ErrMissingClient = errors.New("missing broker client")
	// ErrMissingCommand is when pushing a nil command.
	ErrMissingCommand = errors.New("missing command")
	// ErrMissingEvent is when publishing a nil event.
	ErrMissingEvent = errors.New("missing event")
)

// Publisher is a broker publisher of commands and integration events.
type Publisher interface {
	conduit.Queue
	conduit.EventPublisher
}

// CommandHeaders returns the headers of a command message.
func CommandHeaders(ctx context.Context, cmd conduit.Command) map[string]string {
	h := map[string]string{
		KindHeader: KindCommand,
		TypeHeader: cmd.CommandType().String(),
	}
	tracing.Inject(ctx, h)

	return h
}

// EventHeaders returns the headers of an event message.
func EventHeaders(ctx context.Context, event conduit.IntegrationEvent) map[string]string {
	h := map[string]string{
		KindHeader: KindEvent,
		TypeHeader: event.EventType().String(),
		IDHeader:   event.EventID().String(),
	}
	tracing.Inject(ctx, h)

	return h
}

// CheckCommands returns ErrMissingCommand if any of the commands is nil.
func CheckCommands(cmds []conduit.Command) error {
	for _, cmd := range cmds {
		if cmd == nil {
			return ErrMissingCommand
		}
	}

	return nil
}
