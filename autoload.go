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

package autoload

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/spf13/afero"
	"go.opentelemetry.io/otel/trace"

	"dirpx.dev/autoload/apis"
	"dirpx.dev/autoload/builder"
	"dirpx.dev/autoload/config"
	"dirpx.dev/autoload/host"
	"dirpx.dev/autoload/internal/ctxlog"
	"dirpx.dev/autoload/internal/tracing"
	"dirpx.dev/autoload/preload"
	"dirpx.dev/autoload/registry"
	"dirpx.dev/autoload/resolver"
	"dirpx.dev/autoload/unit"
	"dirpx.dev/autoload/utils/fsys"
	"dirpx.dev/autoload/utils/symbol"
)

// Autoloader composes the strategy registry, the dispatcher, the preload
// runner and the host runtime they operate on. Create one with New.
type Autoloader struct {
	cfg    apis.Config
	logger *slog.Logger

	afs   afero.Fs
	files apis.FileSystem
	cache *fsys.StatCache

	rt     *host.Runtime
	loader *unit.Loader
	reg    apis.Registry
	disp   apis.Dispatcher
	pre    apis.Preloader

	// mu serialises dispatch and preload. Nested loads triggered from
	// inside a held section pass through via the context.
	mu sync.Mutex
}

// Option configures an Autoloader.
type Option func(*options)

type options struct {
	cfg      apis.Config
	fs       afero.Fs
	logger   *slog.Logger
	bindings *unit.Bindings
	tracer   trace.Tracer
}

// WithConfig sets the resolution configuration.
func WithConfig(cfg apis.Config) Option {
	return func(o *options) {
		o.cfg = cfg
	}
}

// WithFs sets the file system source units are read from.
func WithFs(fs afero.Fs) Option {
	return func(o *options) {
		if fs != nil {
			o.fs = fs
		}
	}
}

// WithLogger sets the logger used when the context carries none.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithBindings sets the binding table used by source units.
func WithBindings(b *unit.Bindings) Option {
	return func(o *options) {
		if b != nil {
			o.bindings = b
		}
	}
}

// WithTracer sets the tracer for dispatch and preload spans.
func WithTracer(tr trace.Tracer) Option {
	return func(o *options) {
		if tr != nil {
			o.tracer = tr
		}
	}
}

// New creates an Autoloader with an empty registry and installs it as the
// runtime's missing-symbol handler.
func New(opts ...Option) *Autoloader {
	o := options{
		cfg:      config.DefaultConfig(),
		fs:       afero.NewOsFs(),
		logger:   slog.Default(),
		bindings: unit.NewBindings(),
		tracer:   tracing.Tracer(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	cfg := config.NewConfig(
		config.WithSeparator(o.cfg.Separator),
		config.WithExtension(o.cfg.Extension),
		config.WithMaxHooks(o.cfg.MaxHooks),
		config.WithStatCacheTTL(o.cfg.StatCacheTTL),
	)

	a := &Autoloader{
		cfg:    cfg,
		logger: o.logger,
		afs:    o.fs,
		rt:     host.New(host.WithMaxHooks(cfg.MaxHooks)),
	}

	a.files = fsys.New(o.fs)
	if cfg.StatCacheTTL > 0 {
		a.cache = fsys.NewStatCache(a.files, cfg.StatCacheTTL)
		a.files = a.cache
	}

	a.loader = unit.NewLoader(o.fs, a.rt,
		unit.WithBindings(o.bindings),
		unit.WithSeparator(cfg.Separator),
	)
	a.reg = registry.New(a.rt.Queue(), builder.New(a.files, a.loader))
	a.disp = resolver.New(cfg, a.rt.Queue(), a.rt, resolver.WithTracer(o.tracer))
	a.pre = preload.New(a.files, a.loader, preload.WithTracer(o.tracer))

	a.rt.OnMissing(a.Load)
	return a
}

// Config returns the effective configuration.
func (a *Autoloader) Config() apis.Config {
	return a.cfg
}

// Register adds strategy s under alias, in front of all others when
// prepend is set.
func (a *Autoloader) Register(alias string, s apis.Strategy, prepend bool) error {
	if err := a.reg.Register(alias, s, prepend); err != nil {
		return err
	}
	a.logger.Debug("Registered strategy.", "alias", alias, "prepend", prepend)
	return nil
}

// Append registers s after all existing strategies.
func (a *Autoloader) Append(alias string, s apis.Strategy) error {
	return a.Register(alias, s, false)
}

// Prepend registers s before all existing strategies.
func (a *Autoloader) Prepend(alias string, s apis.Strategy) error {
	return a.Register(alias, s, true)
}

// Unregister removes the strategy registered under alias.
func (a *Autoloader) Unregister(alias string) bool {
	ok := a.reg.Unregister(alias)
	if ok {
		a.logger.Debug("Unregistered strategy.", "alias", alias)
	}
	return ok
}

// Implementations returns the registered (alias, hook) pairs in dispatch order.
func (a *Autoloader) Implementations() []apis.Implementation {
	return a.reg.Implementations()
}

// Load dispatches name through the registered strategies. It is also
// what the runtime calls for a symbol that is not defined. A symbol that
// no strategy could load is not an error here.
//
// Post-load hooks run once the outermost Load or Include has released the
// dispatch lock, in the order their symbols were dispatched.
func (a *Autoloader) Load(ctx context.Context, name string) error {
	ctx = a.withLogger(ctx)
	held, s, outer := a.lock(ctx)

	n, err := a.disp.Walk(held, name)
	if !n.IsZero() {
		s.queue(n)
	}
	if !outer {
		return err
	}
	return a.release(ctx, s, err)
}

// Include preloads symbols in order, stopping at the first failure.
func (a *Autoloader) Include(ctx context.Context, symbols []string, pathFor preload.PathFunc) error {
	ctx = a.withLogger(ctx)
	held, s, outer := a.lock(ctx)

	err := a.pre.Include(held, symbols, pathFor)
	if outer {
		err = a.release(ctx, s, err)
	}
	if err != nil {
		return err
	}
	ctxlog.FromContext(ctx).Info("Preload complete.", "symbols", len(symbols))
	return nil
}

// Require returns the value of symbol, autoloading it if needed.
func (a *Autoloader) Require(ctx context.Context, raw string) (any, error) {
	name, err := symbol.Parse(raw, a.cfg.Separator)
	if err != nil {
		return nil, err
	}
	return a.rt.Require(a.withLogger(ctx), name.Full())
}

// Runtime returns the symbol table the autoloader defines into.
func (a *Autoloader) Runtime() *host.Runtime {
	return a.rt
}

// Bind registers a Go constructor for units that use binding name.
func (a *Autoloader) Bind(name string, fn unit.BindFunc) error {
	return a.loader.Bindings().Bind(name, fn)
}

// Units returns the paths of loaded source units in load order.
func (a *Autoloader) Units() []string {
	return a.loader.Loaded()
}

// StatCache returns the file check cache, or nil when caching is disabled.
func (a *Autoloader) StatCache() *fsys.StatCache {
	return a.cache
}

// Fs returns the file system source units are read from.
func (a *Autoloader) Fs() afero.Fs {
	return a.afs
}

// heldKey marks a context whose call chain holds an Autoloader's lock.
type heldKey struct{}

// section is the state of one held dispatch lock.
type section struct {
	a *Autoloader

	mu sync.Mutex
	// pending are the symbols whose post-load hook waits for the release.
	pending  []symbol.Name
	released bool
}

func (s *section) queue(n symbol.Name) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = append(s.pending, n)
}

func (s *section) isReleased() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.released
}

// lock acquires a.mu unless ctx shows it is already held by this call
// chain. It returns the context to dispatch with and whether this call
// owns the lock and must release it.
func (a *Autoloader) lock(ctx context.Context) (context.Context, *section, bool) {
	if s, _ := ctx.Value(heldKey{}).(*section); s != nil && s.a == a && !s.isReleased() {
		return ctx, s, false
	}
	a.mu.Lock()
	s := &section{a: a}
	return context.WithValue(ctx, heldKey{}, s), s, true
}

// release unlocks a.mu and then runs the post-load hooks queued in s with
// ctx, which must not carry the lock marker. Hooks are free to call back
// into the Autoloader with any context. Their errors are joined with err.
func (a *Autoloader) release(ctx context.Context, s *section, err error) error {
	s.mu.Lock()
	pending := s.pending
	s.pending = nil
	s.released = true
	s.mu.Unlock()
	a.mu.Unlock()

	var hookErrs []error
	for _, n := range pending {
		if herr := a.disp.PostLoad(ctx, n); herr != nil {
			hookErrs = append(hookErrs, herr)
		}
	}
	if len(hookErrs) == 0 {
		return err
	}
	return errors.Join(append([]error{err}, hookErrs...)...)
}

// withLogger attaches the autoloader's logger unless ctx has one.
func (a *Autoloader) withLogger(ctx context.Context) context.Context {
	if _, ok := ctxlog.Lookup(ctx); ok {
		return ctx
	}
	return ctxlog.WithLogger(ctx, a.logger)
}
