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

package json

import (
	"github.com/looplab/conduit"
)

// EventCodec marshals integration events to and from JSON envelopes. The
// envelope carries the ID and time of the event.
type EventCodec struct {
	factories *factories[conduit.EventType, conduit.IntegrationEvent]
}

// NewEventCodec creates a new EventCodec.
func NewEventCodec() *EventCodec {
	return &EventCodec{
		factories: newFactories(func(e conduit.IntegrationEvent) conduit.EventType {
			return e.EventType()
		}),
	}
}

// Register registers a factory for the type of the event it creates.
func (c *EventCodec) Register(factory func() conduit.IntegrationEvent) error {
	return c.factories.register(factory)
}

// Marshal marshals an event into a JSON envelope.
func (c *EventCodec) Marshal(event conduit.IntegrationEvent) ([]byte, error) {
	if event == nil {
		return nil, ErrMissingMessage
	}

	return marshal(event.EventType().String(), event.EventID(), event.OccurredAt().UTC(), event)
}

// Unmarshal unmarshals an event from a JSON envelope.
func (c *EventCodec) Unmarshal(b []byte) (conduit.IntegrationEvent, error) {
	return unmarshal(c.factories, b)
}
