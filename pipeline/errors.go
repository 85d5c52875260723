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
	"errors"
)

var (
	// ErrMissingProcessor is when a pipeline is built or run without a processor.
	ErrMissingProcessor = errors.New("missing processor")
	// ErrMissingDestination is when a middleware processor has no destination.
	ErrMissingDestination = errors.New("missing destination")
	// ErrMissingContainer is when a named pipe runs without a container.
	ErrMissingContainer = errors.New("no container to resolve named pipe")
	// ErrPipeNotBound is when no stage is bound to a name.
	ErrPipeNotBound = errors.New("pipe not bound")
	// ErrMissingName is when a named pipe has an empty name.
	ErrMissingName = errors.New("missing pipe name")
	// ErrMissingStage is when an inline pipe has no stage.
	ErrMissingStage = errors.New("missing inline stage")
	// ErrNilStage is when a stage factory returns nil.
	ErrNilStage = errors.New("pipe factory returned nil stage")
)

// PipeError is an error when resolving a named pipe.
type PipeError struct {
	// Name is the name of the pipe.
	Name string
	// Err is the error.
	Err error
}

// Error implements the Error method of the errors.Error interface.
func (e *PipeError) Error() string {
	str := "pipe '" + e.Name + "': "

	if e.Err != nil {
		str += e.Err.Error()
	} else {
		str += "unknown error"
	}

	return str
}

// Unwrap implements the errors.Unwrap method.
func (e *PipeError) Unwrap() error {
	return e.Err
}

// Cause implements the github.com/pkg/errors Unwrap method.
func (e *PipeError) Cause() error {
	return e.Unwrap()
}
