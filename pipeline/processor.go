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
)

// MiddlewareProcessor is a Processor that nests the stages around a
// destination, each stage receiving the next inner layer as its next.
type MiddlewareProcessor[T, R any] struct {
	destination Next[T, R]
}

// NewMiddlewareProcessor creates a MiddlewareProcessor that ends in the
// destination.
func NewMiddlewareProcessor[T, R any](destination Next[T, R]) *MiddlewareProcessor[T, R] {
	return &MiddlewareProcessor[T, R]{
		destination: destination,
	}
}

// Process implements the Process method of the Processor interface.
func (p *MiddlewareProcessor[T, R]) Process(ctx context.Context, payload T, stages ...Stage[T, R]) (R, error) {
	if p.destination == nil {
		var zero R

		return zero, ErrMissingDestination
	}

	return Chain(p.destination, stages...)(ctx, payload)
}

// Chain folds the stages right to left onto the destination, returning the
// continuation of the outermost stage. With no stages the destination itself
// is returned.
func Chain[T, R any](destination Next[T, R], stages ...Stage[T, R]) Next[T, R] {
	next := destination

	// Apply in reverse order.
	for i := len(stages) - 1; i >= 0; i-- {
		next = wrap(stages[i], next)
	}

	return next
}

func wrap[T, R any](stage Stage[T, R], next Next[T, R]) Next[T, R] {
	return func(ctx context.Context, payload T) (R, error) {
		return stage(ctx, payload, next)
	}
}
