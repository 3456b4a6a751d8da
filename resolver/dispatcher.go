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

// Package resolver dispatches an unresolved symbol through the hooks of the
// dispatch queue and runs its post-load hook.
package resolver

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/trace"

	"dirpx.dev/autoload/apis"
	"dirpx.dev/autoload/internal/ctxlog"
	"dirpx.dev/autoload/internal/tracing"
	"dirpx.dev/autoload/utils/symbol"
)

// dispatcher tries queued hooks in order until one loads a unit for the
// symbol. It holds no mutable state and is safe for concurrent use as long
// as the queue and table are.
type dispatcher struct {
	cfg    apis.Config
	q      apis.Queue
	t      apis.SymbolTable
	tracer trace.Tracer
}

// Option configures a dispatcher.
type Option func(*dispatcher)

// WithTracer sets the tracer used for dispatch spans.
func WithTracer(tr trace.Tracer) Option {
	return func(d *dispatcher) {
		if tr != nil {
			d.tracer = tr
		}
	}
}

// New constructs an apis.Dispatcher over q that checks definitions in t.
func New(cfg apis.Config, q apis.Queue, t apis.SymbolTable, opts ...Option) apis.Dispatcher {
	d := &dispatcher{
		cfg:    cfg,
		q:      q,
		t:      t,
		tracer: tracing.Tracer(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Dispatch runs the queued hooks for raw in order and stops at the first one
// that loads a unit, or as soon as the symbol is defined. Hooks that decline
// are skipped silently, and no hook loading anything is not an error: the
// caller decides whether an undefined symbol is a failure.
//
// Afterwards, if the symbol is defined as an apis.LoadHooker, its OnLoad is
// invoked exactly once with ctx. A failing or panicking OnLoad yields an
// *InvalidHookError.
func (d *dispatcher) Dispatch(ctx context.Context, raw string) (err error) {
	ctx, span := d.start(ctx, raw)
	defer func() {
		tracing.Fail(span, err)
		span.End()
	}()

	name, err := d.walk(ctx, span, raw)
	if err != nil {
		return err
	}
	return d.PostLoad(ctx, name)
}

// Walk is Dispatch without the post-load hook. It returns the classified
// name so the caller can run PostLoad once it is ready to.
func (d *dispatcher) Walk(ctx context.Context, raw string) (name symbol.Name, err error) {
	ctx, span := d.start(ctx, raw)
	defer func() {
		tracing.Fail(span, err)
		span.End()
	}()
	return d.walk(ctx, span, raw)
}

func (d *dispatcher) start(ctx context.Context, raw string) (context.Context, trace.Span) {
	return d.tracer.Start(ctx, "autoload.dispatch",
		trace.WithAttributes(tracing.AttrSymbol.String(raw)))
}

func (d *dispatcher) walk(ctx context.Context, span trace.Span, raw string) (symbol.Name, error) {
	name, err := symbol.Parse(raw, d.cfg.Separator)
	if err != nil {
		return symbol.Name{}, err
	}

	logger := ctxlog.FromContext(ctx).With("symbol", name.Full())
	hooks := d.q.Hooks()
	span.SetAttributes(tracing.AttrHooks.Int(len(hooks)))

	for _, h := range hooks {
		if d.defined(name) {
			break
		}
		loaded, err := h.Load(ctx, name)
		if err != nil {
			return name, err
		}
		if loaded {
			logger.Debug("Symbol loaded.", "alias", h.Alias)
			span.SetAttributes(tracing.AttrAlias.String(h.Alias), tracing.AttrLoaded.Bool(true))
			break
		}
	}
	return name, nil
}

// defined reports whether name is in the symbol table.
func (d *dispatcher) defined(name symbol.Name) bool {
	_, ok := d.t.Lookup(name.Full())
	return ok
}

// PostLoad invokes OnLoad of the value defined for name, if it has one.
// An undefined name is not an error.
func (d *dispatcher) PostLoad(ctx context.Context, name symbol.Name) (err error) {
	v, ok := d.t.Lookup(name.Full())
	if !ok {
		return nil
	}
	h, ok := v.(apis.LoadHooker)
	if !ok {
		return nil
	}

	defer func() {
		if r := recover(); r != nil {
			err = &InvalidHookError{Symbol: name.Full(), Err: fmt.Errorf("panic: %v", r)}
		}
	}()
	if err := h.OnLoad(ctx); err != nil {
		return &InvalidHookError{Symbol: name.Full(), Err: err}
	}
	return nil
}
