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

// Package transaction runs the rest of a pipeline inside a unit of work.
package transaction

import (
	"context"
	"errors"

	"github.com/looplab/conduit"
	"github.com/looplab/conduit/eventbus"
	"github.com/looplab/conduit/pipeline"
	"github.com/looplab/conduit/unitofwork"
)

// Executor runs a callback in a unit of work, as *unitofwork.Manager does.
type Executor interface {
	Execute(ctx context.Context, attempts int, fn func(ctx context.Context) error) error
}

// CommitHooks queue callbacks on the commit of the active unit of work, as
// *unitofwork.Manager does.
type CommitHooks interface {
	Active() bool
	Committed() bool
	AfterCommit(cb unitofwork.Callback) error
}

// Signals the rollback of a unit of work for a failed Result. It is marked as
// permanent so that the manager neither retries nor reports it.
type rollback struct {
	result conduit.Result
}

func (r *rollback) Error() string {
	return "rolled back for failed result"
}

// ExecuteInUnitOfWork returns a stage that runs the rest of the pipeline in a
// unit of work, trying up to attempts times. A failed Result rolls the unit of
// work back and is returned as is, without an error and without retrying.
func ExecuteInUnitOfWork[M any](uow Executor, attempts int) pipeline.Stage[M, conduit.Result] {
	return func(ctx context.Context, msg M, next pipeline.Next[M, conduit.Result]) (conduit.Result, error) {
		var result conduit.Result

		err := uow.Execute(ctx, attempts, func(ctx context.Context) error {
			r, err := next(ctx, msg)
			if err != nil {
				return err
			}

			if r.Failed() {
				return unitofwork.Permanent(&rollback{result: r})
			}

			result = r

			return nil
		})

		var rb *rollback
		if errors.As(err, &rb) {
			return rb.result, nil
		}

		if err != nil {
			return conduit.Result{}, err
		}

		return result, nil
	}
}

// HandleInUnitOfWork returns a stage that runs the rest of an error only
// pipeline in a unit of work, trying up to attempts times.
func HandleInUnitOfWork[M, R any](uow Executor, attempts int) pipeline.Stage[M, R] {
	return func(ctx context.Context, msg M, next pipeline.Next[M, R]) (R, error) {
		var result R

		err := uow.Execute(ctx, attempts, func(ctx context.Context) error {
			r, err := next(ctx, msg)
			if err != nil {
				return err
			}

			result = r

			return nil
		})
		if err != nil {
			var zero R

			return zero, err
		}

		return result, nil
	}
}

// PublishAfterCommit returns an outbound event stage that holds back
// publishing until the active unit of work has committed. Events published
// outside a unit of work, or after the commit, are published at once. Errors
// from publishing after the commit are returned by the unit of work.
func PublishAfterCommit(hooks CommitHooks) eventbus.Stage {
	return func(ctx context.Context, event conduit.IntegrationEvent, next eventbus.Next) (struct{}, error) {
		if !hooks.Active() || hooks.Committed() {
			return next(ctx, event)
		}

		return struct{}{}, hooks.AfterCommit(func(ctx context.Context) error {
			_, err := next(ctx, event)

			return err
		})
	}
}
