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

// Package tracing adds opentracing spans to dispatches. Spans are started
// with the global tracer.
package tracing

import (
	"context"
	"fmt"

	"github.com/opentracing/opentracing-go"
	"github.com/opentracing/opentracing-go/ext"

	"github.com/looplab/conduit"
	"github.com/looplab/conduit/pipeline"
)

// Span tags.
const (
	TagCommandType = "conduit.command_type"
	TagQueryType   = "conduit.query_type"
	TagEventType   = "conduit.event_type"
	TagEventID     = "conduit.event_id"
	TagResult      = "conduit.result"
)

// Commands returns a stage that traces command dispatches in a
// "Command(<type>)" span.
func Commands() pipeline.Stage[conduit.Command, conduit.Result] {
	return func(ctx context.Context, cmd conduit.Command, next pipeline.Next[conduit.Command, conduit.Result]) (conduit.Result, error) {
		sp, ctx := opentracing.StartSpanFromContext(ctx, fmt.Sprintf("Command(%s)", cmd.CommandType()))
		defer sp.Finish()

		sp.SetTag(TagCommandType, cmd.CommandType().String())

		r, err := next(ctx, cmd)
		finishResult(sp, r, err)

		return r, err
	}
}

// Queries returns a stage that traces query dispatches in a "Query(<type>)"
// span.
func Queries() pipeline.Stage[conduit.Query, conduit.Result] {
	return func(ctx context.Context, q conduit.Query, next pipeline.Next[conduit.Query, conduit.Result]) (conduit.Result, error) {
		sp, ctx := opentracing.StartSpanFromContext(ctx, fmt.Sprintf("Query(%s)", q.QueryType()))
		defer sp.Finish()

		sp.SetTag(TagQueryType, q.QueryType().String())

		r, err := next(ctx, q)
		finishResult(sp, r, err)

		return r, err
	}
}

// InboundEvents returns a stage that traces handling of integration events
// in an "Event(<type>)" consumer span.
func InboundEvents() pipeline.Stage[conduit.IntegrationEvent, struct{}] {
	return events(ext.SpanKindConsumer)
}

// OutboundEvents returns a stage that traces publishing of integration events
// in an "Event(<type>)" producer span.
func OutboundEvents() pipeline.Stage[conduit.IntegrationEvent, struct{}] {
	return events(ext.SpanKindProducer)
}

func events(kind opentracing.Tag) pipeline.Stage[conduit.IntegrationEvent, struct{}] {
	return func(ctx context.Context, event conduit.IntegrationEvent, next pipeline.Next[conduit.IntegrationEvent, struct{}]) (struct{}, error) {
		sp, ctx := opentracing.StartSpanFromContext(ctx, fmt.Sprintf("Event(%s)", event.EventType()), kind)
		defer sp.Finish()

		sp.SetTag(TagEventType, event.EventType().String())
		sp.SetTag(TagEventID, event.EventID().String())

		r, err := next(ctx, event)
		if err != nil {
			ext.LogError(sp, err)
		}

		return r, err
	}
}

func finishResult(sp opentracing.Span, r conduit.Result, err error) {
	switch {
	case err != nil:
		ext.LogError(sp, err)
	case r.Failed():
		sp.SetTag(TagResult, "failed")
		sp.LogKV("result.error", r.Err().Error())
	default:
		sp.SetTag(TagResult, "succeeded")
	}
}
