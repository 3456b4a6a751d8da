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

package host

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"dirpx.dev/autoload/apis"
)

var (
	// ErrSymbolNotFound is returned by Require when a symbol stays undefined
	// after the missing-symbol handler ran.
	ErrSymbolNotFound = errors.New("autoload(host): symbol not found")
	// ErrAlreadyDefined is returned when a symbol is defined twice.
	ErrAlreadyDefined = errors.New("autoload(host): symbol already defined")
	// ErrCircularRequire is returned when resolving a symbol requires itself.
	ErrCircularRequire = errors.New("autoload(host): circular require")
	// ErrEmptySymbol is returned when defining or requiring "".
	ErrEmptySymbol = errors.New("autoload(host): empty symbol")
)

// MissingFunc is called by Require for a symbol that is not defined yet.
// It is expected to define the symbol as a side effect; its error is
// returned to the caller of Require.
type MissingFunc func(ctx context.Context, symbol string) error

// Runtime holds defined symbols and the dispatch queue.
type Runtime struct {
	mu      sync.RWMutex
	symbols map[string]any
	missing MissingFunc
	queue   *Queue
}

// Ensure Runtime implements apis.SymbolTable.
var _ apis.SymbolTable = (*Runtime)(nil)

// Option configures a Runtime.
type Option func(*Runtime)

// WithMaxHooks caps the dispatch queue (0 means unlimited).
func WithMaxHooks(max int) Option {
	return func(r *Runtime) {
		r.queue = NewQueue(max)
	}
}

// New creates an empty runtime with an inactive queue.
func New(opts ...Option) *Runtime {
	r := &Runtime{
		symbols: make(map[string]any),
		queue:   NewQueue(0),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Queue returns the runtime's dispatch queue.
func (r *Runtime) Queue() *Queue {
	return r.queue
}

// OnMissing installs the handler Require calls for undefined symbols.
func (r *Runtime) OnMissing(fn MissingFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.missing = fn
}

// Define binds symbol to v.
func (r *Runtime) Define(symbol string, v any) error {
	if symbol == "" {
		return ErrEmptySymbol
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.symbols[symbol]; exists {
		return fmt.Errorf("%w: %q", ErrAlreadyDefined, symbol)
	}
	r.symbols[symbol] = v
	return nil
}

// Lookup returns the value defined for symbol without triggering any
// handler.
func (r *Runtime) Lookup(symbol string) (any, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.symbols[symbol]
	return v, ok
}

// Defined returns the defined symbols in lexical order.
func (r *Runtime) Defined() []string {
	r.mu.RLock()
	out := make([]string, 0, len(r.symbols))
	for s := range r.symbols {
		out = append(out, s)
	}
	r.mu.RUnlock()

	slices.Sort(out)
	return out
}

// Require returns the value of symbol, running the missing-symbol handler
// once if it is not defined yet. A symbol that is still undefined afterwards
// yields ErrSymbolNotFound. Requiring a symbol from inside its own
// resolution (through ctx) yields ErrCircularRequire.
func (r *Runtime) Require(ctx context.Context, symbol string) (any, error) {
	if symbol == "" {
		return nil, ErrEmptySymbol
	}
	if v, ok := r.Lookup(symbol); ok {
		return v, nil
	}

	if chain := requiring(ctx); slices.Contains(chain, symbol) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrCircularRequire, strings.Join(chain, " -> "), symbol)
	}

	r.mu.RLock()
	missing := r.missing
	r.mu.RUnlock()

	if missing != nil {
		if err := missing(withRequiring(ctx, symbol), symbol); err != nil {
			return nil, err
		}
	}

	if v, ok := r.Lookup(symbol); ok {
		return v, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrSymbolNotFound, symbol)
}

// requiringKey carries the chain of symbols being required.
type requiringKey struct{}

func requiring(ctx context.Context) []string {
	chain, _ := ctx.Value(requiringKey{}).([]string)
	return chain
}

func withRequiring(ctx context.Context, symbol string) context.Context {
	chain := requiring(ctx)
	next := make([]string, len(chain), len(chain)+1)
	copy(next, chain)
	return context.WithValue(ctx, requiringKey{}, append(next, symbol))
}
