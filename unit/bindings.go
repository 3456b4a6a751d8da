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

package unit

import (
	"fmt"
	"sync"
)

// BindFunc builds the Go value a declaration is defined as.
type BindFunc func(c *Class) (any, error)

// Bindings maps binding names used in units to Go constructors.
type Bindings struct {
	mu sync.RWMutex
	m  map[string]BindFunc
}

// NewBindings creates an empty binding table.
func NewBindings() *Bindings {
	return &Bindings{m: make(map[string]BindFunc)}
}

// Bind registers fn under name.
func (b *Bindings) Bind(name string, fn BindFunc) error {
	if name == "" {
		return ErrEmptyBinding
	}
	if fn == nil {
		return fmt.Errorf("%w: %q has a nil constructor", ErrEmptyBinding, name)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if _, exists := b.m[name]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateBinding, name)
	}
	b.m[name] = fn
	return nil
}

// Lookup returns the constructor registered under name.
func (b *Bindings) Lookup(name string) (BindFunc, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	fn, ok := b.m[name]
	return fn, ok
}
