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
	"log/slog"

	"github.com/opentracing/opentracing-go"
	"github.com/opentracing/opentracing-go/ext"
)

// Inject writes the span of the context, if any, to a carrier of message
// headers. This enables propagation of spans through transports for tracers
// that support it.
func Inject(ctx context.Context, carrier map[string]string) {
	span := opentracing.SpanFromContext(ctx)
	if span == nil {
		return
	}

	if err := opentracing.GlobalTracer().Inject(span.Context(), opentracing.TextMap, opentracing.TextMapCarrier(carrier)); err != nil {
		slog.WarnContext(ctx, "conduit: could not inject tracing span", slog.Any("error", err))
	}
}

// Extract starts a span named opName as a child of the span in a carrier of
// message headers and returns a context carrying it. The caller must finish
// the returned span. Without a span in the carrier the new span is a root.
func Extract(ctx context.Context, carrier map[string]string, opName string) (opentracing.Span, context.Context) {
	tracer := opentracing.GlobalTracer()

	parent, err := tracer.Extract(opentracing.TextMap, opentracing.TextMapCarrier(carrier))
	if err != nil && !errors.Is(err, opentracing.ErrSpanContextNotFound) {
		slog.WarnContext(ctx, "conduit: could not extract tracing span", slog.Any("error", err))
	}

	span := tracer.StartSpan(opName, ext.RPCServerOption(parent))

	return span, opentracing.ContextWithSpan(ctx, span)
}
