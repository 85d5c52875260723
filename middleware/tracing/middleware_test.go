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

package tracing

import (
	"context"
	"errors"
	"testing"

	"github.com/opentracing/opentracing-go"
	"github.com/opentracing/opentracing-go/ext"
	"github.com/opentracing/opentracing-go/mocktracer"

	"github.com/looplab/conduit"
	"github.com/looplab/conduit/mocks"
	"github.com/looplab/conduit/pipeline"
)

func newTracer(t *testing.T) *mocktracer.MockTracer {
	t.Helper()

	tracer := mocktracer.New()
	previous := opentracing.GlobalTracer()
	opentracing.SetGlobalTracer(tracer)
	t.Cleanup(func() { opentracing.SetGlobalTracer(previous) })

	return tracer
}

func TestCommands(t *testing.T) {
	tracer := newTracer(t)

	var inner opentracing.Span

	h := pipeline.Chain(func(ctx context.Context, cmd conduit.Command) (conduit.Result, error) {
		inner = opentracing.SpanFromContext(ctx)

		return conduit.Ok(nil), nil
	}, Commands())

	if _, err := h(context.Background(), mocks.Command{}); err != nil {
		t.Error("there should be no error:", err)
	}

	spans := tracer.FinishedSpans()
	if len(spans) != 1 {
		t.Fatal("there should be one span:", len(spans))
	}

	sp := spans[0]
	if sp.OperationName != "Command(Command)" {
		t.Error("the operation name should be correct:", sp.OperationName)
	}

	if sp.Tag(TagCommandType) != "Command" || sp.Tag(TagResult) != "succeeded" {
		t.Error("the tags should be correct:", sp.Tags())
	}

	if inner == nil {
		t.Error("the span should be in the handler context")
	}
}

func TestCommands_Failed(t *testing.T) {
	tracer := newTracer(t)

	h := pipeline.Chain(func(ctx context.Context, cmd conduit.Command) (conduit.Result, error) {
		return conduit.Fail(errors.New("invalid")), nil
	}, Commands())

	if _, err := h(context.Background(), mocks.Command{}); err != nil {
		t.Error("there should be no error:", err)
	}

	sp := tracer.FinishedSpans()[0]
	if sp.Tag(TagResult) != "failed" {
		t.Error("the result tag should be failed:", sp.Tags())
	}

	if sp.Tag(string(ext.Error)) != nil {
		t.Error("a failed result should not be tagged as an error:", sp.Tags())
	}

	if len(sp.Logs()) != 1 {
		t.Error("the failure should be logged:", sp.Logs())
	}
}

func TestQueries_Error(t *testing.T) {
	tracer := newTracer(t)
	errHandler := errors.New("handler")

	h := pipeline.Chain(func(ctx context.Context, q conduit.Query) (conduit.Result, error) {
		return conduit.Result{}, errHandler
	}, Queries())

	if _, err := h(context.Background(), mocks.Query{}); !errors.Is(err, errHandler) {
		t.Error("there should be a handler error:", err)
	}

	sp := tracer.FinishedSpans()[0]
	if sp.OperationName != "Query(Query)" || sp.Tag(TagQueryType) != "Query" {
		t.Error("the span should be correct:", sp.OperationName, sp.Tags())
	}

	if sp.Tag(string(ext.Error)) != true {
		t.Error("the span should be tagged as an error:", sp.Tags())
	}
}

func TestEvents(t *testing.T) {
	tracer := newTracer(t)
	event := mocks.NewEvent("e")

	for _, stage := range []pipeline.Stage[conduit.IntegrationEvent, struct{}]{InboundEvents(), OutboundEvents()} {
		h := pipeline.Chain(func(ctx context.Context, e conduit.IntegrationEvent) (struct{}, error) {
			return struct{}{}, nil
		}, stage)

		if _, err := h(context.Background(), event); err != nil {
			t.Error("there should be no error:", err)
		}
	}

	spans := tracer.FinishedSpans()
	if len(spans) != 2 {
		t.Fatal("there should be two spans:", len(spans))
	}

	for _, sp := range spans {
		if sp.OperationName != "Event(Event)" || sp.Tag(TagEventID) != event.ID.String() {
			t.Error("the span should be correct:", sp.OperationName, sp.Tags())
		}
	}

	if spans[0].Tag(string(ext.SpanKind)) != ext.SpanKindConsumerEnum {
		t.Error("the inbound span should be a consumer:", spans[0].Tags())
	}

	if spans[1].Tag(string(ext.SpanKind)) != ext.SpanKindProducerEnum {
		t.Error("the outbound span should be a producer:", spans[1].Tags())
	}
}

func TestInjectExtract(t *testing.T) {
	tracer := newTracer(t)

	parent, ctx := opentracing.StartSpanFromContext(context.Background(), "parent")

	carrier := map[string]string{}
	Inject(ctx, carrier)

	if len(carrier) == 0 {
		t.Fatal("the span should be injected")
	}

	child, ctx := Extract(context.Background(), carrier, "child")
	if opentracing.SpanFromContext(ctx) != child {
		t.Error("the child span should be in the context")
	}

	child.Finish()
	parent.Finish()

	spans := tracer.FinishedSpans()
	if len(spans) != 2 {
		t.Fatal("there should be two spans:", len(spans))
	}

	if spans[0].ParentID != spans[1].SpanContext.SpanID {
		t.Error("the extracted span should be a child of the injected span")
	}

	carrier = map[string]string{}
	Inject(context.Background(), carrier)

	if len(carrier) != 0 {
		t.Error("nothing should be injected without a span:", carrier)
	}

	root, _ := Extract(context.Background(), carrier, "root")
	root.Finish()

	if sp := tracer.FinishedSpans()[2]; sp.ParentID != 0 {
		t.Error("the span should be a root:", sp.ParentID)
	}
}
