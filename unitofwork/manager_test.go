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
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/jpillora/backoff"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/looplab/conduit/mocks"
)

func newManager(t *testing.T, options ...Option) (*Manager, *mocks.UnitOfWork, *mocks.ErrorReporter) {
	t.Helper()

	uow := &mocks.UnitOfWork{}
	reporter := &mocks.ErrorReporter{}

	m, err := NewManager(uow, append([]Option{WithReporter(reporter)}, options...)...)
	require.NoError(t, err)

	return m, uow, reporter
}

func TestNewManager(t *testing.T) {
	if _, err := NewManager(nil); !errors.Is(err, ErrMissingUnitOfWork) {
		t.Error("there should be a missing unit of work error:", err)
	}

	if _, err := NewManager(&mocks.UnitOfWork{}, WithReporter(nil)); err == nil {
		t.Error("there should be an option error")
	}
}

func TestManager_RetriesAndReports(t *testing.T) {
	m, uow, reporter := newManager(t)

	value, err := ExecuteValue(context.Background(), m, 3, func(ctx context.Context) (string, error) {
		if uow.Attempts < 3 {
			return "", fmt.Errorf("attempt %d failed", uow.Attempts)
		}

		return "done", nil
	})
	require.NoError(t, err)

	assert.Equal(t, "done", value)
	assert.Len(t, reporter.Errors, 2)
	assert.Equal(t, []string{
		"attempt:1", "rollback:1",
		"attempt:2", "rollback:2",
		"attempt:3", "commit:3",
	}, uow.Log)
	assert.False(t, m.Active())
}

func TestManager_ExhaustedAttempts(t *testing.T) {
	m, uow, reporter := newManager(t)

	err := m.Execute(context.Background(), 2, func(ctx context.Context) error {
		return fmt.Errorf("attempt %d failed", uow.Attempts)
	})

	assert.EqualError(t, err, "attempt 2 failed")
	require.Len(t, reporter.Errors, 2)
	assert.EqualError(t, reporter.Errors[0], "attempt 1 failed")
	assert.EqualError(t, reporter.Errors[1], "attempt 2 failed")
	assert.Equal(t, 2, uow.Attempts)
}

func TestManager_InvalidAttempts(t *testing.T) {
	m, uow, _ := newManager(t)

	err := m.Execute(context.Background(), 0, func(ctx context.Context) error {
		return nil
	})

	assert.ErrorIs(t, err, ErrInvalidAttempts)
	assert.Zero(t, uow.Attempts)
}

func TestManager_NotReentrant(t *testing.T) {
	m, uow, reporter := newManager(t)

	var nested error

	err := m.Execute(context.Background(), 3, func(ctx context.Context) error {
		nested = m.Execute(ctx, 1, func(ctx context.Context) error {
			return nil
		})

		return nested
	})

	assert.ErrorIs(t, nested, ErrAlreadyActive)
	assert.ErrorIs(t, err, ErrAlreadyActive)
	assert.Equal(t, 1, uow.Attempts, "misuse should not be retried")
	assert.Empty(t, reporter.Errors)
}

func TestManager_PermanentError(t *testing.T) {
	m, uow, reporter := newManager(t)

	errFatal := errors.New("fatal")

	err := m.Execute(context.Background(), 3, func(ctx context.Context) error {
		return Permanent(errFatal)
	})

	assert.ErrorIs(t, err, errFatal)
	assert.True(t, IsPermanent(err))
	assert.Equal(t, 1, uow.Attempts)
	assert.Empty(t, reporter.Errors)
	assert.Equal(t, []string{"attempt:1", "rollback:1"}, uow.Log)
}

func TestManager_CommitOrdering(t *testing.T) {
	m, uow, _ := newManager(t)

	err := m.Execute(context.Background(), 1, func(ctx context.Context) error {
		uow.Record("handler")

		require.NoError(t, m.AfterCommit(func(ctx context.Context) error {
			assert.True(t, m.Committed())
			assert.False(t, mocks.InTransaction(ctx))
			uow.Record("after:1")

			// Queued while draining, still runs in this unit of work.
			return m.AfterCommit(func(ctx context.Context) error {
				uow.Record("after:2")

				return nil
			})
		}))

		require.NoError(t, m.BeforeCommit(func(ctx context.Context) error {
			assert.False(t, m.Committed())
			assert.True(t, mocks.InTransaction(ctx))
			uow.Record("before:1")

			return nil
		}))

		return m.BeforeCommit(func(ctx context.Context) error {
			uow.Record("before:2")

			return nil
		})
	})
	require.NoError(t, err)

	assert.Equal(t, []string{
		"attempt:1",
		"handler",
		"before:1",
		"before:2",
		"commit:1",
		"after:1",
		"after:2",
	}, uow.Log)
}

func TestManager_BeforeCommitAfterCommitted(t *testing.T) {
	m, uow, reporter := newManager(t)

	var late error

	err := m.Execute(context.Background(), 3, func(ctx context.Context) error {
		return m.AfterCommit(func(ctx context.Context) error {
			late = m.BeforeCommit(func(ctx context.Context) error {
				return nil
			})

			return late
		})
	})

	assert.ErrorIs(t, late, ErrAlreadyCommitted)
	assert.ErrorIs(t, err, ErrAlreadyCommitted)
	assert.Equal(t, 1, uow.Attempts)
	assert.Empty(t, reporter.Errors)
}

func TestManager_CallbacksOutsideUnitOfWork(t *testing.T) {
	m, _, _ := newManager(t)

	noop := func(ctx context.Context) error { return nil }

	assert.ErrorIs(t, m.BeforeCommit(noop), ErrNotActive)
	assert.ErrorIs(t, m.AfterCommit(noop), ErrNotActive)
}

func TestManager_QueuesResetBetweenAttempts(t *testing.T) {
	m, uow, reporter := newManager(t)

	var calls int

	err := m.Execute(context.Background(), 2, func(ctx context.Context) error {
		if err := m.AfterCommit(func(ctx context.Context) error {
			calls++

			return nil
		}); err != nil {
			return err
		}

		if uow.Attempts == 1 {
			return errors.New("conflict")
		}

		return nil
	})
	require.NoError(t, err)

	assert.Equal(t, 1, calls, "only the callback of the committed attempt should run")
	assert.Len(t, reporter.Errors, 1)
	assert.False(t, m.Active())
	assert.False(t, m.Committed())
}

func TestManager_BeforeCommitErrorRollsBack(t *testing.T) {
	m, uow, _ := newManager(t)

	errHook := errors.New("hook")

	err := m.Execute(context.Background(), 1, func(ctx context.Context) error {
		return m.BeforeCommit(func(ctx context.Context) error {
			return errHook
		})
	})

	assert.ErrorIs(t, err, errHook)
	assert.Equal(t, []string{"attempt:1", "rollback:1"}, uow.Log)
}

func TestManager_CommitError(t *testing.T) {
	m, uow, reporter := newManager(t)

	uow.CommitErr = errors.New("commit")

	var after bool

	err := m.Execute(context.Background(), 1, func(ctx context.Context) error {
		return m.AfterCommit(func(ctx context.Context) error {
			after = true

			return nil
		})
	})

	assert.EqualError(t, err, "commit")
	assert.False(t, after, "after commit callbacks should not run when the commit fails")
	assert.Len(t, reporter.Errors, 1)
}

func TestManager_Backoff(t *testing.T) {
	b := &backoff.Backoff{Min: time.Millisecond, Max: 2 * time.Millisecond}
	m, uow, _ := newManager(t, WithBackoff(b))

	err := m.Execute(context.Background(), 3, func(ctx context.Context) error {
		if uow.Attempts < 3 {
			return errors.New("conflict")
		}

		return nil
	})
	require.NoError(t, err)

	assert.Equal(t, 3, uow.Attempts)
	assert.Zero(t, b.Attempt(), "the backoff should be reset after executing")
}

func TestManager_BackoffCanceled(t *testing.T) {
	b := &backoff.Backoff{Min: time.Hour, Max: time.Hour}
	m, uow, _ := newManager(t, WithBackoff(b))

	ctx, cancel := context.WithCancel(context.Background())

	errConflict := errors.New("conflict")
	err := m.Execute(ctx, 3, func(ctx context.Context) error {
		cancel()

		return errConflict
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, err, errConflict, "the error of the last attempt should be kept")
	assert.Equal(t, 1, uow.Attempts)
}

func TestPermanent(t *testing.T) {
	if Permanent(nil) != nil {
		t.Error("a nil error should stay nil")
	}

	errBase := errors.New("base")
	err := fmt.Errorf("wrapped: %w", Permanent(errBase))

	if !IsPermanent(err) {
		t.Error("the wrapped error should be permanent")
	}

	if !errors.Is(err, errBase) {
		t.Error("the permanent error should unwrap to the base error")
	}

	if IsPermanent(errBase) {
		t.Error("the base error should not be permanent")
	}
}
