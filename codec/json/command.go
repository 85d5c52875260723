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
	"time"

	"github.com/google/uuid"

	"github.com/looplab/conduit"
)

// CommandCodec marshals commands to and from JSON envelopes. The envelope of
// a command gets a new ID and the current time when marshaled.
type CommandCodec struct {
	factories *factories[conduit.CommandType, conduit.Command]
}

// NewCommandCodec creates a new CommandCodec.
func NewCommandCodec() *CommandCodec {
	return &CommandCodec{
		factories: newFactories(func(cmd conduit.Command) conduit.CommandType {
			return cmd.CommandType()
		}),
	}
}

// Register registers a factory for the type of the command it creates.
func (c *CommandCodec) Register(factory func() conduit.Command) error {
	return c.factories.register(factory)
}

// Marshal marshals a command into a JSON envelope.
func (c *CommandCodec) Marshal(cmd conduit.Command) ([]byte, error) {
	if cmd == nil {
		return nil, ErrMissingMessage
	}

	return marshal(cmd.CommandType().String(), uuid.New(), time.Now().UTC(), cmd)
}

// Unmarshal unmarshals a command from a JSON envelope.
func (c *CommandCodec) Unmarshal(b []byte) (conduit.Command, error) {
	return unmarshal(c.factories, b)
}
