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

package unitofwork

import (
	"errors"
)

// PermanentError is an error that rolls back the unit of work without being
// retried or reported.
type PermanentError struct {
	Err error
}

// Permanent marks an error as permanent.
func Permanent(err error) error {
	if err == nil {
		return nil
	}

	return &PermanentError{Err: err}
}

// Error implements the Error method of the errors.Error interface.
func (e *PermanentError) Error() string {
	if e.Err == nil {
		return "permanent error"
	}

	return e.Err.Error()
}

// Permanent implements the permanent marker checked by IsPermanent.
func (e *PermanentError) Permanent() bool {
	return true
}

// Unwrap implements the errors.Unwrap method.
func (e *PermanentError) Unwrap() error {
	return e.Err
}

// Cause implements the github.com/pkg/errors Unwrap method.
func (e *PermanentError) Cause() error {
	return e.Unwrap()
}

// IsPermanent returns true if any error in the chain reports itself as
// permanent with a `Permanent() bool` method.
func IsPermanent(err error) bool {
	var p interface{ Permanent() bool }

	return errors.As(err, &p) && p.Permanent()
}
