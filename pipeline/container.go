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

package pipeline

import (
	"fmt"
	"sync"
)

// Container resolves named stages.
type Container[T, R any] interface {
	// Get returns the stage bound to the name, or a *PipeError wrapping
	// ErrPipeNotBound.
	Get(name string) (Stage[T, R], error)
}

// PipeContainer is a Container of stage factories. It is meant to be populated
// at startup and is safe for concurrent lookups.
type PipeContainer[T, R any] struct {
	factories   map[string]func() Stage[T, R]
	factoriesMu sync.RWMutex
}

// NewPipeContainer creates a PipeContainer.
func NewPipeContainer[T, R any]() *PipeContainer[T, R] {
	return &PipeContainer[T, R]{
		factories: map[string]func() Stage[T, R]{},
	}
}

// Bind binds a stage factory to a name. The factory is called every time the
// name is resolved. It panics on an empty name, a nil factory or a name that is
// already bound.
func (c *PipeContainer[T, R]) Bind(name string, factory func() Stage[T, R]) {
	if name == "" {
		panic("conduit: attempt to bind pipe with empty name")
	}

	if factory == nil {
		panic(fmt.Sprintf("conduit: attempt to bind nil factory for pipe %q", name))
	}

	c.factoriesMu.Lock()
	defer c.factoriesMu.Unlock()

	if _, ok := c.factories[name]; ok {
		panic(fmt.Sprintf("conduit: binding duplicate pipe %q", name))
	}

	c.factories[name] = factory
}

// Get implements the Get method of the Container interface.
func (c *PipeContainer[T, R]) Get(name string) (Stage[T, R], error) {
	c.factoriesMu.RLock()
	factory, ok := c.factories[name]
	c.factoriesMu.RUnlock()

	if !ok {
		return nil, &PipeError{Name: name, Err: ErrPipeNotBound}
	}

	stage := factory()
	if stage == nil {
		return nil, &PipeError{Name: name, Err: ErrNilStage}
	}

	return stage, nil
}
