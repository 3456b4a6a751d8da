/*
   Copyright 2025 The DIRPX Authors.

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

// Package tracing wires OpenTelemetry spans around dispatch and preload.
package tracing

import (
	"context"
	"fmt"
	"io"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

// TracerName is the instrumentation scope of every autoload span.
const TracerName = "dirpx.dev/autoload"

// Span attribute keys.
const (
	AttrSymbol  = attribute.Key("autoload.symbol")
	AttrAlias   = attribute.Key("autoload.alias")
	AttrPath    = attribute.Key("autoload.path")
	AttrLoaded  = attribute.Key("autoload.loaded")
	AttrHooks   = attribute.Key("autoload.hooks")
	AttrSymbols = attribute.Key("autoload.symbols")
)

// Tracer returns the autoload tracer from the global provider. Without a
// configured provider spans are no-ops.
func Tracer() trace.Tracer {
	return otel.Tracer(TracerName)
}

// Fail records err on span and marks it failed. A nil err is ignored.
func Fail(span trace.Span, err error) {
	if err == nil {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

// SetupStdout installs a global tracer provider that writes finished spans
// to w as JSON. The returned func flushes and shuts the provider down.
func SetupStdout(w io.Writer) (func(context.Context) error, error) {
	exp, err := stdouttrace.New(
		stdouttrace.WithWriter(w),
		stdouttrace.WithPrettyPrint(),
	)
	if err != nil {
		return nil, fmt.Errorf("creating stdout trace exporter: %w", err)
	}

	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exp))
	otel.SetTracerProvider(tp)
	return tp.Shutdown, nil
}
