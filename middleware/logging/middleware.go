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

// Package logging logs dispatches with log/slog.
//
// Each dispatch is logged twice, before and after the rest of the pipeline,
// with the type of the message and a random dispatch ID shared by both
// records. Messages that implement slog.LogValuer add their own context.
package logging

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/looplab/conduit"
	"github.com/looplab/conduit/pipeline"
)

// Attribute keys.
const (
	KeyDispatchID = "dispatch_id"
	KeyType       = "type"
	KeyContext    = "context"
	KeyOutcome    = "outcome"
	KeyDuration   = "duration"
	KeyError      = "error"
)

// Commands returns a stage that logs command dispatches. A nil logger uses
// slog.Default().
func Commands(logger *slog.Logger) pipeline.Stage[conduit.Command, conduit.Result] {
	return stage(logger, "command",
		func(cmd conduit.Command) string { return cmd.CommandType().String() },
		resultOutcome,
	)
}

// Queries returns a stage that logs query dispatches. A nil logger uses
// slog.Default().
func Queries(logger *slog.Logger) pipeline.Stage[conduit.Query, conduit.Result] {
	return stage(logger, "query",
		func(q conduit.Query) string { return q.QueryType().String() },
		resultOutcome,
	)
}

// InboundEvents returns a stage that logs handling of integration events. A
// nil logger uses slog.Default().
func InboundEvents(logger *slog.Logger) pipeline.Stage[conduit.IntegrationEvent, struct{}] {
	return stage(logger, "inbound event", eventType, handled)
}

// OutboundEvents returns a stage that logs publishing of integration events.
// A nil logger uses slog.Default().
func OutboundEvents(logger *slog.Logger) pipeline.Stage[conduit.IntegrationEvent, struct{}] {
	return stage(logger, "outbound event", eventType, handled)
}

func eventType(e conduit.IntegrationEvent) string {
	return e.EventType().String()
}

func resultOutcome(r conduit.Result) string {
	if r.Failed() {
		return "failed"
	}

	return "succeeded"
}

func handled(struct{}) string {
	return "handled"
}

func stage[M, R any](logger *slog.Logger, kind string, typeOf func(M) string, outcome func(R) string) pipeline.Stage[M, R] {
	return func(ctx context.Context, msg M, next pipeline.Next[M, R]) (R, error) {
		l := logger
		if l == nil {
			l = slog.Default()
		}

		attrs := []slog.Attr{
			slog.String(KeyDispatchID, uuid.NewString()),
			slog.String(KeyType, typeOf(msg)),
		}
		if attr, ok := messageContext(msg); ok {
			attrs = append(attrs, attr)
		}

		l.LogAttrs(ctx, slog.LevelDebug, "conduit: dispatching "+kind, attrs...)

		start := time.Now()
		r, err := next(ctx, msg)

		attrs = append(attrs, slog.Duration(KeyDuration, time.Since(start)))

		if err != nil {
			attrs = append(attrs, slog.Any(KeyError, err))
			l.LogAttrs(ctx, slog.LevelError, "conduit: could not dispatch "+kind, attrs...)

			return r, err
		}

		attrs = append(attrs, slog.String(KeyOutcome, outcome(r)))
		l.LogAttrs(ctx, slog.LevelInfo, "conduit: dispatched "+kind, attrs...)

		return r, nil
	}
}

// Resolves the context of a message implementing slog.LogValuer. A panic in
// LogValue is logged in place of the context.
func messageContext(msg any) (attr slog.Attr, ok bool) {
	lv, ok := msg.(slog.LogValuer)
	if !ok {
		return slog.Attr{}, false
	}

	defer func() {
		if r := recover(); r != nil {
			attr = slog.String(KeyContext, fmt.Sprintf("could not resolve context: %v", r))
			ok = true
		}
	}()

	return slog.Attr{Key: KeyContext, Value: lv.LogValue().Resolve()}, true
}
