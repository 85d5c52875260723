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

// Package sqldb is a conduit.UnitOfWork for database/sql. The open transaction
// is carried in the context given to the callback; repositories get it with
// TxFromContext or Conn.
package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// ErrNestedTransaction is when Execute is called with a context that already
// carries a transaction.
var ErrNestedTransaction = errors.New("transaction already open in context")

// Error is an error in the unit of work, with the operation that failed.
type Error struct {
	// Err is the error.
	Err error
	// Op is the operation for the error.
	Op string
}

// Operations of a transaction.
const (
	OpBegin    = "begin"
	OpCommit   = "commit"
	OpRollback = "rollback"
)

// Error implements the Error method of the errors.Error interface.
func (e *Error) Error() string {
	return "sql unit of work: " + e.Op + ": " + e.Err.Error()
}

// Unwrap implements the errors.Unwrap method.
func (e *Error) Unwrap() error {
	return e.Err
}

// Cause implements the github.com/pkg/errors Unwrap method.
func (e *Error) Cause() error {
	return e.Unwrap()
}

// UnitOfWork is a conduit.UnitOfWork running each callback in a sql.Tx.
type UnitOfWork struct {
	db        *sql.DB
	txOptions *sql.TxOptions
}

// Option is an option setter used to configure creation.
type Option func(*UnitOfWork) error

// WithTxOptions uses the options when beginning transactions, for example to
// set the isolation level.
func WithTxOptions(opts *sql.TxOptions) Option {
	return func(u *UnitOfWork) error {
		u.txOptions = opts

		return nil
	}
}

// NewUnitOfWork creates a UnitOfWork for the DB.
func NewUnitOfWork(db *sql.DB, options ...Option) (*UnitOfWork, error) {
	if db == nil {
		return nil, fmt.Errorf("missing DB")
	}

	u := &UnitOfWork{
		db: db,
	}

	for _, option := range options {
		if err := option(u); err != nil {
			return nil, fmt.Errorf("error while applying option: %w", err)
		}
	}

	return u, nil
}

// Execute implements the Execute method of the conduit.UnitOfWork interface.
// The error of fn is returned as is, joined with the rollback error if that
// fails too.
func (u *UnitOfWork) Execute(ctx context.Context, fn func(context.Context) error) error {
	if _, ok := TxFromContext(ctx); ok {
		return ErrNestedTransaction
	}

	tx, err := u.db.BeginTx(ctx, u.txOptions)
	if err != nil {
		return &Error{Err: err, Op: OpBegin}
	}

	defer func() {
		if r := recover(); r != nil {
			_ = tx.Rollback()

			panic(r)
		}
	}()

	if err := fn(NewContextWithTx(ctx, tx)); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			return errors.Join(err, &Error{Err: rbErr, Op: OpRollback})
		}

		return err
	}

	if err := tx.Commit(); err != nil {
		return &Error{Err: err, Op: OpCommit}
	}

	return nil
}

type txKey struct{}

// NewContextWithTx returns a context carrying the transaction.
func NewContextWithTx(ctx context.Context, tx *sql.Tx) context.Context {
	return context.WithValue(ctx, txKey{}, tx)
}

// TxFromContext returns the transaction of the context, if any.
func TxFromContext(ctx context.Context) (*sql.Tx, bool) {
	tx, ok := ctx.Value(txKey{}).(*sql.Tx)

	return tx, ok && tx != nil
}

// Querier is the query surface shared by sql.DB and sql.Tx.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Conn returns the transaction of the context, or the DB when no unit of work
// is open.
func Conn(ctx context.Context, db *sql.DB) Querier {
	if tx, ok := TxFromContext(ctx); ok {
		return tx
	}

	return db
}
