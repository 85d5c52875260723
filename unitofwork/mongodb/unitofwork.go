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

// Package mongodb is a conduit.UnitOfWork for MongoDB multi-document
// transactions. It requires a replica set or a sharded cluster.
package mongodb

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readconcern"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
	"go.mongodb.org/mongo-driver/v2/mongo/writeconcern"
)

// Error is an error in the unit of work, with the operation that failed.
type Error struct {
	// Err is the error.
	Err error
	// Op is the operation for the error.
	Op string
}

// Operations of a transaction.
const (
	OpStartSession     = "start session"
	OpStartTransaction = "start transaction"
	OpCommit           = "commit"
	OpAbort            = "abort"
)

// Error implements the Error method of the errors.Error interface.
func (e *Error) Error() string {
	return "mongodb unit of work: " + e.Op + ": " + e.Err.Error()
}

// Unwrap implements the errors.Unwrap method.
func (e *Error) Unwrap() error {
	return e.Err
}

// Cause implements the github.com/pkg/errors Unwrap method.
func (e *Error) Cause() error {
	return e.Unwrap()
}

// UnitOfWork is a conduit.UnitOfWork running each callback in a session with
// an open transaction. Session.WithTransaction is not used because it retries
// the callback by itself.
type UnitOfWork struct {
	client    *mongo.Client
	txOptions *options.TransactionOptionsBuilder
}

// Option is an option setter used to configure creation.
type Option func(*UnitOfWork) error

// WithTransactionOptions uses the options for every transaction.
func WithTransactionOptions(opts *options.TransactionOptionsBuilder) Option {
	return func(u *UnitOfWork) error {
		if opts == nil {
			return fmt.Errorf("missing transaction options")
		}

		u.txOptions = opts

		return nil
	}
}

// NewUnitOfWork creates a new UnitOfWork with a URI:
// `mongodb://hostname`
func NewUnitOfWork(uri string, options ...Option) (*UnitOfWork, error) {
	opts := mongoOptions(uri)

	client, err := mongo.Connect(opts)
	if err != nil {
		return nil, fmt.Errorf("could not connect to DB: %w", err)
	}

	return NewUnitOfWorkWithClient(client, options...)
}

func mongoOptions(uri string) *options.ClientOptions {
	return options.Client().
		ApplyURI(uri).
		SetWriteConcern(writeconcern.Majority()).
		SetReadConcern(readconcern.Majority()).
		SetReadPreference(readpref.Primary())
}

// NewUnitOfWorkWithClient creates a new UnitOfWork with a client.
func NewUnitOfWorkWithClient(client *mongo.Client, options ...Option) (*UnitOfWork, error) {
	if client == nil {
		return nil, fmt.Errorf("missing DB client")
	}

	u := &UnitOfWork{
		client: client,
	}

	for _, option := range options {
		if err := option(u); err != nil {
			return nil, fmt.Errorf("error while applying option: %w", err)
		}
	}

	return u, nil
}

// Client returns the MongoDB client.
func (u *UnitOfWork) Client() *mongo.Client {
	return u.client
}

// Execute implements the Execute method of the conduit.UnitOfWork interface.
// Operations inside fn must use the given context to take part in the
// transaction.
func (u *UnitOfWork) Execute(ctx context.Context, fn func(context.Context) error) error {
	sess, err := u.client.StartSession()
	if err != nil {
		return &Error{Err: err, Op: OpStartSession}
	}

	defer sess.EndSession(ctx)

	var txOpts []options.Lister[options.TransactionOptions]
	if u.txOptions != nil {
		txOpts = append(txOpts, u.txOptions)
	}

	if err := sess.StartTransaction(txOpts...); err != nil {
		return &Error{Err: err, Op: OpStartTransaction}
	}

	txCtx := mongo.NewSessionContext(ctx, sess)

	defer func() {
		if r := recover(); r != nil {
			_ = sess.AbortTransaction(context.WithoutCancel(ctx))

			panic(r)
		}
	}()

	if err := fn(txCtx); err != nil {
		if abortErr := sess.AbortTransaction(context.WithoutCancel(ctx)); abortErr != nil {
			return errors.Join(err, &Error{Err: abortErr, Op: OpAbort})
		}

		return err
	}

	if err := sess.CommitTransaction(ctx); err != nil {
		return &Error{Err: err, Op: OpCommit}
	}

	return nil
}

// Close closes the client.
func (u *UnitOfWork) Close(ctx context.Context) error {
	return u.client.Disconnect(ctx)
}
