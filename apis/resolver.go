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

// SymbolTable answers whether a symbol is currently defined.
type SymbolTable interface {
	// Lookup returns the value defined for symbol, if any.
	Lookup(symbol string) (v any, ok bool)
}

// FileSystem is the existence check used before loading a source unit.
type FileSystem interface {
	// IsRegularFile reports whether path names an existing regular file.
	IsRegularFile(path string) bool
}

// UnitLoader loads (executes) the source unit at path.
type UnitLoader interface {
	// LoadUnit loads path or returns an error. It is synchronous. loaded
	// is false when path had already been loaded and nothing was done.
	LoadUnit(ctx context.Context, path string) (loaded bool, err error)
}

// LoadHooker is implemented by loaded values that want to run an
// initializer right after their source unit has been loaded.
type LoadHooker interface {
	// OnLoad is invoked once per dispatch of the symbol. ctx is the
	// context of the dispatch; calls back into the autoloader may use it.
	OnLoad(ctx context.Context) error
}

// Dispatcher walks the dispatch queue for one unresolved symbol.
type Dispatcher interface {
	// Dispatch runs the hooks for raw and then its post-load hook.
	Dispatch(ctx context.Context, raw string) error
	// Walk runs the hooks for raw without the post-load hook.
	Walk(ctx context.Context, raw string) (symbol.Name, error)
	// PostLoad runs the post-load hook of name, if it is defined with one.
	PostLoad(ctx context.Context, name symbol.Name) error
}

// PathFunc computes the source path of a preloaded symbol.
type PathFunc func(symbol string) (string, error)

// Preloader loads a fixed list of symbols in order.
type Preloader interface {
	// Include loads symbols in order and stops at the first failure.
	Include(ctx context.Context, symbols []string, pathFor PathFunc) error
}
