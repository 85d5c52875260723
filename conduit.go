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

// Package conduit is an in-process message dispatch and transactional
// coordination toolkit. Commands, queries and integration events are routed to
// their handlers through pipelines of middleware, and handlers run inside a
// retryable unit of work that defers domain events until the outcome of the
// operation is known.
//
// This package holds the message, handler and port interfaces. The
// implementations live in the subpackages: pipeline, registry, commandbus,
// querybus, eventbus, unitofwork, domainevents and middleware.
package conduit
