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

package registry

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"dirpx.dev/autoload/apis"
)

var (
	// ErrEmptyAlias is returned when an empty alias is provided.
	ErrEmptyAlias = errors.New("autoload(registry): empty alias provided")
	// ErrDuplicateAlias is returned when the alias is already registered.
	ErrDuplicateAlias = errors.New("autoload(registry): duplicate alias")
	// ErrRegistration is returned when the dispatch queue refuses the hook.
	ErrRegistration = errors.New("autoload(registry): dispatch queue refused hook")
	// ErrNilStrategy is returned when a nil strategy is provided.
	ErrNilStrategy = errors.New("autoload(registry): nil strategy provided")
)

// New constructs an apis.Registry that places hooks built by b into q.
func New(q apis.Queue, b apis.Builder) apis.Registry {
	return &registry{
		q:     q,
		b:     b,
		hooks: make(map[string]*apis.Hook),
	}
}

// registry is the mutex-guarded apis.Registry. It is safe for concurrent use.
type registry struct {
	// q is the host dispatch queue.
	q apis.Queue
	// b builds a hook for each registered strategy.
	b apis.Builder
	// mu guards hooks and order.
	mu sync.Mutex
	// hooks maps alias to its live hook.
	hooks map[string]*apis.Hook
	// order lists aliases in dispatch order.
	order []string
}

// Register builds a hook for s and inserts it at the head of the dispatch
// queue when prepend is set, at the tail otherwise. On any failure the
// registry is left as it was.
func (r *registry) Register(alias string, s apis.Strategy, prepend bool) error {
	if alias == "" {
		return ErrEmptyAlias
	}
	if s == nil {
		return fmt.Errorf("%w: %q", ErrNilStrategy, alias)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.hooks[alias]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateAlias, alias)
	}

	h := r.b.BuildHook(alias, s)
	r.hooks[alias] = h
	if !r.q.RegisterHook(h, prepend) {
		delete(r.hooks, alias)
		return fmt.Errorf("%w: %q", ErrRegistration, alias)
	}

	if prepend {
		r.order = slices.Insert(r.order, 0, alias)
	} else {
		r.order = append(r.order, alias)
	}
	return nil
}

// Append registers s after every existing strategy.
func (r *registry) Append(alias string, s apis.Strategy) error {
	return r.Register(alias, s, false)
}

// Prepend registers s before every existing strategy.
func (r *registry) Prepend(alias string, s apis.Strategy) error {
	return r.Register(alias, s, true)
}

// Unregister removes the hook of alias from the dispatch queue and then the
// alias itself. It returns false, leaving the registry untouched, when the
// alias is unknown or the queue does not hold its hook.
func (r *registry) Unregister(alias string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	h, ok := r.hooks[alias]
	if !ok {
		return false
	}
	if !r.q.RemoveHook(h) {
		return false
	}

	delete(r.hooks, alias)
	if i := slices.Index(r.order, alias); i >= 0 {
		r.order = slices.Delete(r.order, i, i+1)
	}
	return true
}

// Implementations returns a snapshot of (alias, hook) pairs in dispatch order.
func (r *registry) Implementations() []apis.Implementation {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]apis.Implementation, 0, len(r.order))
	for _, alias := range r.order {
		out = append(out, apis.Implementation{Alias: alias, Hook: r.hooks[alias]})
	}
	return out
}

// Lookup returns the hook registered under alias.
func (r *registry) Lookup(alias string) (*apis.Hook, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	h, ok := r.hooks[alias]
	return h, ok
}

// Aliases returns the registered aliases in dispatch order.
func (r *registry) Aliases() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.order)
}

// Len returns the number of registered strategies.
func (r *registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.order)
}
