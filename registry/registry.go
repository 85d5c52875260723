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

// Package registry is a container of lazily created handlers keyed by message
// type.
package registry

import (
	"errors"
	"fmt"
	"reflect"
	"sync"
)

var (
	// ErrHandlerNotBound is when no handler is bound for a key.
	ErrHandlerNotBound = errors.New("no handler bound")
	// ErrHandlerAlreadyBound is when a handler is already bound for a key.
	ErrHandlerAlreadyBound = errors.New("handler is already bound")
	// ErrMissingFactory is when binding a nil factory.
	ErrMissingFactory = errors.New("missing handler factory")
	// ErrMissingKey is when binding an empty key.
	ErrMissingKey = errors.New("missing handler key")
	// ErrNilHandler is when a factory returns a nil handler.
	ErrNilHandler = errors.New("handler factory returned nil")
)

// NotBoundError is when no handler is bound for a key.
type NotBoundError struct {
	// Key is the message type that was looked up.
	Key string
}

// Error implements the Error method of the errors.Error interface.
func (e *NotBoundError) Error() string {
	return fmt.Sprintf("no handler bound for %s", e.Key)
}

// Unwrap implements the errors.Unwrap method.
func (e *NotBoundError) Unwrap() error {
	return ErrHandlerNotBound
}

// Cause implements the github.com/pkg/errors Unwrap method.
func (e *NotBoundError) Cause() error {
	return e.Unwrap()
}

// Registry binds handler factories to message types. Factories are called on
// the first lookup of their key and the handler is reused after that. Binding
// is meant to happen at startup, lookups are safe for concurrent use.
type Registry[K ~string, H any] struct {
	factories map[K]func() H
	handlers  map[K]H
	mu        sync.RWMutex
}

// New creates a Registry.
func New[K ~string, H any]() *Registry[K, H] {
	return &Registry[K, H]{
		factories: map[K]func() H{},
		handlers:  map[K]H{},
	}
}

// Bind binds a handler factory to a key.
func (r *Registry[K, H]) Bind(key K, factory func() H) error {
	if key == "" {
		return ErrMissingKey
	}

	if factory == nil {
		return ErrMissingFactory
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.factories[key]; ok {
		return fmt.Errorf("%w: %s", ErrHandlerAlreadyBound, key)
	}

	r.factories[key] = factory

	return nil
}

// Has returns true if a handler is bound for the key.
func (r *Registry[K, H]) Has(key K) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.factories[key]

	return ok
}

// Get returns the handler for the key, creating it on first use.
func (r *Registry[K, H]) Get(key K) (H, error) {
	r.mu.RLock()
	h, ok := r.handlers[key]
	r.mu.RUnlock()

	if ok {
		return h, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	// Created by another lookup while waiting for the lock.
	if h, ok := r.handlers[key]; ok {
		return h, nil
	}

	var zero H

	factory, ok := r.factories[key]
	if !ok {
		return zero, &NotBoundError{Key: string(key)}
	}

	h = factory()
	if IsNil(h) {
		return zero, fmt.Errorf("%w: %s", ErrNilHandler, key)
	}

	r.handlers[key] = h

	return h, nil
}

// IsNil returns true if the handler is nil, including a nil pointer, func, map,
// slice, channel or interface held in a non-nil interface value.
func IsNil(h any) bool {
	if h == nil {
		return true
	}

	switch v := reflect.ValueOf(h); v.Kind() {
	case reflect.Pointer, reflect.Func, reflect.Map, reflect.Slice, reflect.Chan, reflect.Interface:
		return v.IsNil()
	default:
		return false
	}
}
