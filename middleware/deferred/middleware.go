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

// Package deferred flushes deferred domain events when the rest of the
// pipeline succeeds and forgets them when it fails.
package deferred

import (
	"context"

	"github.com/looplab/conduit"
	"github.com/looplab/conduit/pipeline"
)

// Buffer is a buffer of deferred domain events, as
// *domainevents.DeferredDispatcher is.
type Buffer interface {
	Flush(ctx context.Context) error
	Forget()
}

// NewMiddleware returns a stage that flushes the buffer after a successful
// Result. A failed Result, an error or a panic forgets the buffered events;
// panics continue to unwind unchanged.
func NewMiddleware[M any](b Buffer) pipeline.Stage[M, conduit.Result] {
	return func(ctx context.Context, msg M, next pipeline.Next[M, conduit.Result]) (conduit.Result, error) {
		flushed := false

		defer func() {
			if !flushed {
				b.Forget()
			}
		}()

		r, err := next(ctx, msg)
		if err != nil || r.Failed() {
			return r, err
		}

		flushed = true

		if err := b.Flush(ctx); err != nil {
			return conduit.Result{}, err
		}

		return r, nil
	}
}

// NewHandlerMiddleware returns a stage for error only pipelines that flushes
// the buffer when the rest of the pipeline returns no error, and forgets it
// otherwise.
func NewHandlerMiddleware[M, R any](b Buffer) pipeline.Stage[M, R] {
	return func(ctx context.Context, msg M, next pipeline.Next[M, R]) (R, error) {
		flushed := false

		defer func() {
			if !flushed {
				b.Forget()
			}
		}()

		r, err := next(ctx, msg)
		if err != nil {
			return r, err
		}

		flushed = true

		if err := b.Flush(ctx); err != nil {
			var zero R

			return zero, err
		}

		return r, nil
	}
}
