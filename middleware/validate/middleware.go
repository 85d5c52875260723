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

// Package validate short-circuits commands and queries that fail validation
// with a failed conduit.Result.
package validate

import (
	"context"

	"github.com/looplab/conduit"
	"github.com/looplab/conduit/pipeline"
)

// Validator validates a message and returns its validation errors, if any.
type Validator[M any] func(ctx context.Context, msg M) []error

// Validatable is a message with its own validation method.
type Validatable interface {
	// Validate returns the errors when validating the message.
	Validate() []error
}

// NewMiddleware returns a stage that runs the validators in order and
// accumulates their errors. When there are errors a failed Result is returned
// without calling next.
func NewMiddleware[M any](validators ...Validator[M]) pipeline.Stage[M, conduit.Result] {
	return func(ctx context.Context, msg M, next pipeline.Next[M, conduit.Result]) (conduit.Result, error) {
		var errs []error

		for _, v := range validators {
			for _, err := range v(ctx, msg) {
				if err != nil {
					errs = append(errs, err)
				}
			}
		}

		if len(errs) > 0 {
			return conduit.Fail(errs...), nil
		}

		return next(ctx, msg)
	}
}

// Self returns a stage that validates messages with their own Validate
// method. Messages without the method are not validated.
func Self[M any]() pipeline.Stage[M, conduit.Result] {
	return NewMiddleware[M](func(ctx context.Context, msg M) []error {
		if v, ok := any(msg).(Validatable); ok {
			return v.Validate()
		}

		return nil
	})
}

// CommandWithValidation returns a wrapped command with a validation method.
func CommandWithValidation(cmd conduit.Command, v func() []error) conduit.Command {
	return &command{Command: cmd, validate: v}
}

// private implementation to wrap ordinary commands and add a validation method.
type command struct {
	conduit.Command
	validate func() []error
}

// Validate implements the Validate method of the Validatable interface.
func (c *command) Validate() []error {
	return c.validate()
}
