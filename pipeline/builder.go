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
	"context"
	"fmt"
)

// Pipe is a stage given to a Builder, either inline or by a name that is
// resolved from a Container each time the stage runs.
type Pipe[T, R any] struct {
	stage Stage[T, R]
	name  string
	named bool
}

// Func returns a Pipe of an inline stage.
func Func[T, R any](stage Stage[T, R]) Pipe[T, R] {
	return Pipe[T, R]{stage: stage}
}

// Named returns a Pipe that is resolved by name from a Container.
func Named[T, R any](name string) Pipe[T, R] {
	return Pipe[T, R]{name: name, named: true}
}

// Name returns the name of a named pipe, or an empty string for inline pipes.
func (p Pipe[T, R]) Name() string {
	return p.name
}

// Builder accumulates pipes and builds a Pipeline of them.
type Builder[T, R any] struct {
	container Container[T, R]
	pipes     []Pipe[T, R]
}

// NewBuilder creates a Builder that resolves named pipes from the container.
// The container can be nil if no named pipes are used; a named pipe with a nil
// container fails when it runs, not when the pipeline is built.
func NewBuilder[T, R any](container Container[T, R]) *Builder[T, R] {
	return &Builder[T, R]{
		container: container,
	}
}

// Add adds a pipe as the innermost stage so far.
func (b *Builder[T, R]) Add(pipe Pipe[T, R]) *Builder[T, R] {
	b.pipes = append(b.pipes, pipe)

	return b
}

// Through adds the pipes in order.
func (b *Builder[T, R]) Through(pipes ...Pipe[T, R]) *Builder[T, R] {
	b.pipes = append(b.pipes, pipes...)

	return b
}

// Build builds a Pipeline of the added pipes, run by the processor. An inline
// pipe without a stage is an error.
func (b *Builder[T, R]) Build(processor Processor[T, R]) (*Pipeline[T, R], error) {
	if processor == nil {
		return nil, ErrMissingProcessor
	}

	stages := make([]Stage[T, R], 0, len(b.pipes))

	for i, p := range b.pipes {
		if p.named {
			stages = append(stages, Lazy(b.container, p.name))

			continue
		}

		if p.stage == nil {
			return nil, fmt.Errorf("%w: pipe %d", ErrMissingStage, i)
		}

		stages = append(stages, p.stage)
	}

	return New(processor, stages...), nil
}

// Lazy returns a stage that looks up the named stage in the container each
// time it runs and delegates to it.
func Lazy[T, R any](container Container[T, R], name string) Stage[T, R] {
	return func(ctx context.Context, payload T, next Next[T, R]) (R, error) {
		if name == "" {
			var zero R

			return zero, &PipeError{Name: name, Err: ErrMissingName}
		}

		if container == nil {
			var zero R

			return zero, &PipeError{Name: name, Err: ErrMissingContainer}
		}

		stage, err := container.Get(name)
		if err != nil {
			var zero R

			return zero, err
		}

		return stage(ctx, payload, next)
	}
}
