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

package lock

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/looplab/conduit/pipeline"
)

// Error is when the lock for a dispatch could not be taken.
type Error struct {
	Err error
	Key string
}

// Error implements the Error method of the errors.Error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("could not lock %s: %s", e.Key, e.Err)
}

// Unwrap implements the errors.Unwrap method.
func (e *Error) Unwrap() error {
	return e.Err
}

// Cause implements the github.com/pkg/errors Unwrap method.
func (e *Error) Cause() error {
	return e.Unwrap()
}

// KeyFunc returns the lock key of a message.
type KeyFunc[M any] func(msg M) string

// NewMiddleware returns a stage that holds the lock for the key of the message
// while the rest of the pipeline runs. A dispatch with a key that is already
// locked fails at once with an *Error wrapping ErrLockExists.
func NewMiddleware[M, R any](l Lock, key KeyFunc[M]) pipeline.Stage[M, R] {
	return func(ctx context.Context, msg M, next pipeline.Next[M, R]) (R, error) {
		k := key(msg)
		if err := l.Lock(k); err != nil {
			var zero R

			return zero, &Error{Err: err, Key: k}
		}

		defer func() {
			if err := l.Unlock(k); err != nil {
				slog.Warn("conduit: could not unlock dispatch", "key", k, "error", err)
			}
		}()

		return next(ctx, msg)
	}
}

// Global returns a key func that locks every message with the same key, which
// serializes all dispatches through the stage.
func Global[M any]() KeyFunc[M] {
	return func(M) string { return "global" }
}
