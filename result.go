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

package conduit

import (
	"errors"
)

// ErrResultFailed is the error of a failed Result created without errors.
var ErrResultFailed = errors.New("result failed")

// Result is the outcome of handling a command or a query. A failed Result is a
// normal return value, for example for validation errors, and is not the same
// as a returned error, which signals an infrastructure or programmer error.
type Result struct {
	value  any
	errs   []error
	failed bool
}

// Ok returns a successful Result carrying an optional value.
func Ok(value any) Result {
	return Result{value: value}
}

// Fail returns a failed Result with the errors that caused the failure.
func Fail(errs ...error) Result {
	r := Result{failed: true}

	for _, err := range errs {
		if err != nil {
			r.errs = append(r.errs, err)
		}
	}

	return r
}

// Succeeded returns true if the Result is successful.
func (r Result) Succeeded() bool {
	return !r.failed
}

// Failed returns true if the Result is failed.
func (r Result) Failed() bool {
	return r.failed
}

// Value returns the value of a successful Result.
func (r Result) Value() any {
	return r.value
}

// Errors returns a copy of the errors of a failed Result.
func (r Result) Errors() []error {
	if len(r.errs) == 0 {
		return nil
	}

	errs := make([]error, len(r.errs))
	copy(errs, r.errs)

	return errs
}

// Err returns the errors of a failed Result joined as one error, or nil if the
// Result is successful.
func (r Result) Err() error {
	if !r.failed {
		return nil
	}

	if len(r.errs) == 0 {
		return ErrResultFailed
	}

	return errors.Join(r.errs...)
}
