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

// Package preload loads a fixed list of symbols in order at bootstrap.
// Unlike dispatch there is no declining: every symbol must load.
package preload

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	"go.opentelemetry.io/otel/trace"

	"dirpx.dev/autoload/apis"
	"dirpx.dev/autoload/internal/ctxlog"
	"dirpx.dev/autoload/internal/tracing"
	"dirpx.dev/autoload/strategy"
	"dirpx.dev/autoload/utils/symbol"
)

var (
	// ErrPreloadFailure is matched by every *FailureError.
	ErrPreloadFailure = errors.New("autoload(preload): preload failed")
	// ErrNoPath is returned when the path function yields "".
	ErrNoPath = errors.New("autoload(preload): no path for symbol")
)

// FailureError names the symbol that stopped a preload.
type FailureError struct {
	// Symbol is the symbol that could not be loaded.
	Symbol string
	// Err is the cause.
	Err error
}

// Error implements error.
func (e *FailureError) Error() string {
	return fmt.Sprintf("%v: %q: %v", ErrPreloadFailure, e.Symbol, e.Err)
}

// Unwrap returns the cause.
func (e *FailureError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrPreloadFailure.
func (e *FailureError) Is(target error) bool {
	return target == ErrPreloadFailure
}

// PathFunc computes the source path of a preloaded symbol.
type PathFunc = apis.PathFunc

// RootPaths returns the bootstrap path rule: the symbol, split on sep, is
// mapped under root with ext appended, exactly like a Root strategy.
func RootPaths(root, ext, sep string) PathFunc {
	return func(raw string) (string, error) {
		name, err := symbol.Parse(raw, sep)
		if err != nil {
			return "", err
		}
		return strategy.RootPath(root, ext, name), nil
	}
}

// runner loads symbols one after the other.
type runner struct {
	fs     apis.FileSystem
	loader apis.UnitLoader
	tracer trace.Tracer
}

// Option configures a runner.
type Option func(*runner)

// WithTracer sets the tracer used for preload spans.
func WithTracer(tr trace.Tracer) Option {
	return func(r *runner) {
		if tr != nil {
			r.tracer = tr
		}
	}
}

// New creates an apis.Preloader that checks paths on fs and loads them
// with loader.
func New(fs apis.FileSystem, loader apis.UnitLoader, opts ...Option) apis.Preloader {
	r := &runner{fs: fs, loader: loader, tracer: tracing.Tracer()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Include loads symbols in order. The first symbol whose path cannot be
// computed, does not name a regular file, or fails to load stops the run
// with a *FailureError; later symbols are not attempted.
func (r *runner) Include(ctx context.Context, symbols []string, pathFor PathFunc) (err error) {
	ctx, span := r.tracer.Start(ctx, "autoload.preload",
		trace.WithAttributes(tracing.AttrSymbols.Int(len(symbols))))
	defer func() {
		tracing.Fail(span, err)
		span.End()
	}()

	logger := ctxlog.FromContext(ctx)
	for _, s := range symbols {
		if err := r.include(ctx, s, pathFor); err != nil {
			span.SetAttributes(tracing.AttrSymbol.String(s))
			return &FailureError{Symbol: s, Err: err}
		}
		logger.Debug("Preloaded symbol.", "symbol", s)
	}
	return nil
}

func (r *runner) include(ctx context.Context, s string, pathFor PathFunc) error {
	if pathFor == nil {
		return ErrNoPath
	}
	path, err := pathFor(s)
	if err != nil {
		return err
	}
	if path == "" {
		return ErrNoPath
	}
	if !r.fs.IsRegularFile(path) {
		return fmt.Errorf("%w: %s", fs.ErrNotExist, path)
	}
	_, err = r.loader.LoadUnit(ctx, path)
	return err
}
