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

// Package json marshals commands and integration events to and from JSON
// envelopes, for transports to carry.
//
// The envelope is {"type", "id", "created_at", "data"}, where data is the
// message marshaled with encoding/json. Message types must be registered with
// a factory that returns a pointer, which the data is unmarshaled into.
package json

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrMissingFactory is when registering a nil factory.
	ErrMissingFactory = errors.New("missing factory")
	// ErrEmptyType is when registering a factory of a message with an empty type.
	ErrEmptyType = errors.New("attempt to register empty type")
	// ErrAlreadyRegistered is when registering a type twice.
	ErrAlreadyRegistered = errors.New("type is already registered")
	// ErrNotRegistered is when unmarshaling a type that is not registered.
	ErrNotRegistered = errors.New("type is not registered")
	// ErrMissingMessage is when marshaling a nil message.
	ErrMissingMessage = errors.New("missing message")
)

// Envelope is the wire format of a message.
type Envelope struct {
	Type      string          `json:"type"`
	ID        uuid.UUID       `json:"id"`
	CreatedAt time.Time       `json:"created_at"`
	Data      json.RawMessage `json:"data"`
}

// Factories of messages by type.
type factories[K ~string, M any] struct {
	typeOf func(M) K
	byType map[K]func() M
	mu     sync.RWMutex
}

func newFactories[K ~string, M any](typeOf func(M) K) *factories[K, M] {
	return &factories[K, M]{
		typeOf: typeOf,
		byType: map[K]func() M{},
	}
}

func (f *factories[K, M]) register(factory func() M) error {
	if factory == nil {
		return ErrMissingFactory
	}

	t := f.typeOf(factory())
	if t == "" {
		return ErrEmptyType
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.byType[t]; ok {
		return fmt.Errorf("%w: %s", ErrAlreadyRegistered, t)
	}

	f.byType[t] = factory

	return nil
}

func (f *factories[K, M]) create(t K) (M, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	factory, ok := f.byType[t]
	if !ok {
		var zero M

		return zero, fmt.Errorf("%w: %s", ErrNotRegistered, t)
	}

	return factory(), nil
}

func marshal(t string, id uuid.UUID, createdAt time.Time, msg any) ([]byte, error) {
	e := Envelope{
		Type:      t,
		ID:        id,
		CreatedAt: createdAt,
	}

	var err error
	if e.Data, err = json.Marshal(msg); err != nil {
		return nil, fmt.Errorf("could not marshal data: %w", err)
	}

	b, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("could not marshal envelope: %w", err)
	}

	return b, nil
}

func unmarshal[K ~string, M any](f *factories[K, M], b []byte) (M, error) {
	var zero M

	var e Envelope
	if err := json.Unmarshal(b, &e); err != nil {
		return zero, fmt.Errorf("could not unmarshal envelope: %w", err)
	}

	msg, err := f.create(K(e.Type))
	if err != nil {
		return zero, err
	}

	if len(e.Data) > 0 {
		if err := json.Unmarshal(e.Data, &msg); err != nil {
			return zero, fmt.Errorf("could not unmarshal data: %w", err)
		}
	}

	return msg, nil
}
