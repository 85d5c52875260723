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

// Package setup runs setup and teardown functions around a dispatch.
package setup

import (
	"context"
	"fmt"

	"github.com/looplab/conduit/pipeline"
)

// Error is an error from a setup function.
type Error struct {
	Err error
}

// Error implements the Error method of the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("could not set up dispatch: %s", e.Err)
}

// Unwrap implements the errors.Unwrap method.
func (e *Error) Unwrap() error {
	return e.Err
}

// Cause implements the github.com/pkg/errors Unwrap method.
func (e *Error) Cause() error {
	return e.Unwrap()
}

// SetupFunc prepares a dispatch of msg. The returned teardown, if not nil,
// runs after the rest of the pipeline on every path, panics included.
type SetupFunc[M any] func(ctx context.Context, msg M) (teardown func(), err error)

// SetupBeforeDispatch returns a stage that calls setup before the rest of the
// pipeline. A setup error is returned wrapped in an *Error and the rest of
// the pipeline is not called.
func SetupBeforeDispatch[M, R any](setup SetupFunc[M]) pipeline.Stage[M, R] {
	return func(ctx context.Context, msg M, next pipeline.Next[M, R]) (R, error) {
		teardown, err := setup(ctx, msg)
		if err != nil {
			var zero R

			return zero, &Error{Err: err}
		}

		if teardown != nil {
			defer teardown()
		}

		return next(ctx, msg)
	}
}

// TearDownAfterDispatch returns a stage that calls teardown after the rest of
// the pipeline, whatever its outcome.
func TearDownAfterDispatch[M, R any](teardown func(ctx context.Context, msg M)) pipeline.Stage[M, R] {
	return func(ctx context.Context, msg M, next pipeline.Next[M, R]) (R, error) {
		defer teardown(ctx, msg)

		return next(ctx, msg)
	}
}
