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

// Package pipeline composes stages around a terminal destination in the
// onion model: the first stage added is the outermost layer, it runs first
// and its code after calling next runs last.
package pipeline

import (
	"context"
)

// Next is the continuation passed to a stage, invoking the rest of the
// pipeline with a payload.
type Next[T, R any] func(ctx context.Context, payload T) (R, error)

// Stage is a single layer of a pipeline. It can short-circuit by not calling
// next, replace the payload before calling next, or inspect and replace the
// outcome after next returns.
type Stage[T, R any] func(ctx context.Context, payload T, next Next[T, R]) (R, error)

// Processor is a strategy for running the stages of a pipeline.
type Processor[T, R any] interface {
	// Process runs the stages with the payload.
	Process(ctx context.Context, payload T, stages ...Stage[T, R]) (R, error)
}

// Pipeline is an immutable sequence of stages bound to a processor.
type Pipeline[T, R any] struct {
	processor Processor[T, R]
	stages    []Stage[T, R]
}

// New creates a Pipeline of the stages, run by the processor.
func New[T, R any](processor Processor[T, R], stages ...Stage[T, R]) *Pipeline[T, R] {
	s := make([]Stage[T, R], len(stages))
	copy(s, stages)

	return &Pipeline[T, R]{
		processor: processor,
		stages:    s,
	}
}

// Pipe returns a new Pipeline with the stage appended. The original pipeline
// is left unchanged.
func (p *Pipeline[T, R]) Pipe(stage Stage[T, R]) *Pipeline[T, R] {
	stages := make([]Stage[T, R], len(p.stages), len(p.stages)+1)
	copy(stages, p.stages)

	return &Pipeline[T, R]{
		processor: p.processor,
		stages:    append(stages, stage),
	}
}

// Len returns the number of stages in the pipeline.
func (p *Pipeline[T, R]) Len() int {
	return len(p.stages)
}

// Process runs the payload through the pipeline.
func (p *Pipeline[T, R]) Process(ctx context.Context, payload T) (R, error) {
	if p.processor == nil {
		var zero R

		return zero, ErrMissingProcessor
	}

	return p.processor.Process(ctx, payload, p.stages...)
}
