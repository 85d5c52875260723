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

// Package unitofwork coordinates the execution of a callback inside a
// transaction supplied by a conduit.UnitOfWork, with bounded retries and
// queues of callbacks to run before and after the commit.
package unitofwork

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jpillora/backoff"

	"github.com/looplab/conduit"
)

var (
	// ErrMissingUnitOfWork is when a manager is created without a unit of work.
	ErrMissingUnitOfWork = errors.New("missing unit of work")
	// ErrAlreadyActive is when a unit of work is started while one is active.
	ErrAlreadyActive = errors.New("unit of work is already active")
	// ErrInvalidAttempts is when the number of attempts is less than one.
	ErrInvalidAttempts = errors.New("attempts must be at least one")
	// ErrNotActive is when a callback is registered outside a unit of work.
	ErrNotActive = errors.New("no unit of work is active")
	// ErrAlreadyCommitted is when a before commit callback is registered
	// after the unit of work has committed.
	ErrAlreadyCommitted = errors.New("unit of work is already committed")
)

// Callback is a callback run before or after a commit. Before commit
// callbacks receive the context of the open transaction.
type Callback func(ctx context.Context) error

// Manager runs callbacks in a unit of work. Only one unit of work can be active
// per manager at a time, which makes a manager instance scoped to one logical
// operation; it is not safe for concurrent use.
type Manager struct {
	uow      conduit.UnitOfWork
	reporter conduit.ErrorReporter
	backoff  *backoff.Backoff
	logger   *slog.Logger

	active       bool
	committed    bool
	beforeCommit []Callback
	afterCommit  []Callback
}

// Option is an option setter used to configure creation.
type Option func(*Manager) error

// WithReporter reports the errors of every failed attempt.
func WithReporter(r conduit.ErrorReporter) Option {
	return func(m *Manager) error {
		if r == nil {
			return fmt.Errorf("missing reporter")
		}

		m.reporter = r

		return nil
	}
}

// WithBackoff waits between attempts according to the backoff.
func WithBackoff(b *backoff.Backoff) Option {
	return func(m *Manager) error {
		if b == nil {
			return fmt.Errorf("missing backoff")
		}

		m.backoff = b

		return nil
	}
}

// WithLogger uses the logger instead of the default slog logger.
func WithLogger(l *slog.Logger) Option {
	return func(m *Manager) error {
		if l == nil {
			return fmt.Errorf("missing logger")
		}

		m.logger = l

		return nil
	}
}

// NewManager creates a Manager using the unit of work for transactions.
func NewManager(uow conduit.UnitOfWork, options ...Option) (*Manager, error) {
	if uow == nil {
		return nil, ErrMissingUnitOfWork
	}

	m := &Manager{
		uow:    uow,
		logger: slog.Default(),
	}

	for _, option := range options {
		if option == nil {
			continue
		}

		if err := option(m); err != nil {
			return nil, fmt.Errorf("error while applying option: %w", err)
		}
	}

	return m, nil
}

// Execute runs fn in a unit of work, trying up to attempts times. Before commit
// callbacks run inside the transaction after fn, after commit callbacks run
// once it has committed. The error of every failed attempt is reported, and
// the error of the last attempt is returned, joined with the context error if
// the context is done while waiting to retry. Errors marked as permanent are
// returned without retrying.
func (m *Manager) Execute(ctx context.Context, attempts int, fn func(ctx context.Context) error) error {
	if m.active {
		return ErrAlreadyActive
	}

	if attempts < 1 {
		return fmt.Errorf("%w: %d", ErrInvalidAttempts, attempts)
	}

	if m.backoff != nil {
		defer m.backoff.Reset()
	}

	for attempt := 1; ; attempt++ {
		err := m.attempt(ctx, fn)
		if err == nil {
			return nil
		}

		if IsPermanent(err) || isMisuse(err) {
			return err
		}

		m.report(err)

		if attempt >= attempts {
			return err
		}

		m.logger.Debug("conduit: retrying unit of work",
			"attempt", attempt,
			"attempts", attempts,
			"error", err,
		)

		if waitErr := m.wait(ctx); waitErr != nil {
			return errors.Join(err, waitErr)
		}
	}
}

func (m *Manager) attempt(ctx context.Context, fn func(ctx context.Context) error) error {
	m.active = true

	// Queue state never leaks into the next attempt or operation.
	defer m.reset()

	if err := m.uow.Execute(ctx, func(txCtx context.Context) error {
		m.active = true

		if err := fn(txCtx); err != nil {
			return err
		}

		return drain(txCtx, &m.beforeCommit)
	}); err != nil {
		return err
	}

	m.committed = true

	return drain(ctx, &m.afterCommit)
}

// Runs and removes the callbacks in order, including callbacks that are
// queued while draining.
func drain(ctx context.Context, queue *[]Callback) error {
	for len(*queue) > 0 {
		cb := (*queue)[0]
		*queue = (*queue)[1:]

		if err := cb(ctx); err != nil {
			return err
		}
	}

	return nil
}

// Programmer errors are never retried.
func isMisuse(err error) bool {
	return errors.Is(err, ErrAlreadyActive) ||
		errors.Is(err, ErrInvalidAttempts) ||
		errors.Is(err, ErrNotActive) ||
		errors.Is(err, ErrAlreadyCommitted)
}

func (m *Manager) reset() {
	m.active = false
	m.committed = false
	m.beforeCommit = nil
	m.afterCommit = nil
}

func (m *Manager) report(err error) {
	if m.reporter != nil {
		m.reporter.Report(err)
	}
}

func (m *Manager) wait(ctx context.Context) error {
	if m.backoff == nil {
		return nil
	}

	select {
	case <-time.After(m.backoff.Duration()):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// BeforeCommit queues a callback to run inside the active transaction, before
// it commits.
func (m *Manager) BeforeCommit(cb Callback) error {
	if !m.active {
		return ErrNotActive
	}

	if m.committed {
		return ErrAlreadyCommitted
	}

	m.beforeCommit = append(m.beforeCommit, cb)

	return nil
}

// AfterCommit queues a callback to run after the active transaction commits.
// It can be called both before and after the commit, as long as the unit of
// work is active.
func (m *Manager) AfterCommit(cb Callback) error {
	if !m.active {
		return ErrNotActive
	}

	m.afterCommit = append(m.afterCommit, cb)

	return nil
}

// Active returns true while a unit of work is active.
func (m *Manager) Active() bool {
	return m.active
}

// Committed returns true if the active unit of work has committed.
func (m *Manager) Committed() bool {
	return m.committed
}

// ExecuteValue runs fn in a unit of work like Manager.Execute and returns the
// value of the successful attempt.
func ExecuteValue[T any](ctx context.Context, m *Manager, attempts int, fn func(ctx context.Context) (T, error)) (T, error) {
	var value T

	err := m.Execute(ctx, attempts, func(ctx context.Context) error {
		v, err := fn(ctx)
		if err != nil {
			return err
		}

		value = v

		return nil
	})
	if err != nil {
		var zero T

		return zero, err
	}

	return value, nil
}
