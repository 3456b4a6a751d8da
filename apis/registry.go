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

package apis

import (
	"context"

	"dirpx.dev/autoload/utils/symbol"
)

// LoadFunc is the body of a Hook. It reports whether it loaded a source unit
// for name; declining is (false, nil).
type LoadFunc func(ctx context.Context, name symbol.Name) (loaded bool, err error)

// Hook is one entry of the dispatch queue. Hooks are compared by identity.
type Hook struct {
	// ID is a unique identifier, stable for the lifetime of the hook.
	ID string
	// Alias is the registry alias the hook was built for.
	Alias string
	// Load runs the strategy for a symbol.
	Load LoadFunc
}

// Queue is the host's ordered dispatch queue.
type Queue interface {
	// RegisterHook inserts h at the head (prepend) or tail of the queue.
	// It returns false if the queue refuses the hook.
	RegisterHook(h *Hook, prepend bool) bool
	// RemoveHook removes h. It returns false if h is not in the queue.
	RemoveHook(h *Hook) bool
	// Hooks returns the hooks in dispatch order. The slice is a copy.
	Hooks() []*Hook
	// Active reports whether the queue currently holds any hook.
	Active() bool
}

// Implementation is a single (alias, hook) pair in a registry snapshot.
type Implementation struct {
	// Alias is the unique registry alias.
	Alias string
	// Hook is the live hook in the dispatch queue.
	Hook *Hook
}

// Registry is an ordered alias -> hook mapping kept in lock-step with the
// dispatch queue.
type Registry interface {
	// Register builds a hook for s and queues it at the head when prepend
	// is set, at the tail otherwise.
	Register(alias string, s Strategy, prepend bool) error
	// Append registers s after all existing strategies.
	Append(alias string, s Strategy) error
	// Prepend registers s before all existing strategies.
	Prepend(alias string, s Strategy) error
	// Unregister removes the hook of alias. It reports whether it did.
	Unregister(alias string) bool
	// Implementations returns the (alias, hook) pairs in dispatch order.
	Implementations() []Implementation
	// Lookup returns the hook registered under alias.
	Lookup(alias string) (*Hook, bool)
	// Aliases returns the registered aliases in dispatch order.
	Aliases() []string
	// Len returns the number of registered strategies.
	Len() int
}
