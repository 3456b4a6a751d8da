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
	"fmt"

	"dirpx.dev/autoload/apis"
	"dirpx.dev/autoload/config"
	"dirpx.dev/autoload/preload"
	"dirpx.dev/autoload/strategy"
)

// StrategyFor builds the strategy described by spec. Paths get ext
// appended.
func StrategyFor(spec config.StrategySpec, ext string) apis.Strategy {
	if spec.Prefix != "" {
		return strategy.Namespace(spec.Prefix, spec.Root, ext)
	}
	return strategy.Root(spec.Root, ext)
}

// Bootstrap creates an Autoloader from f: it registers the configured
// strategies in order and then runs the preload list. A failing preload
// aborts the bootstrap. opts are applied after the configuration of f.
func Bootstrap(ctx context.Context, f config.File, opts ...Option) (*Autoloader, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}

	a := New(append([]Option{WithConfig(f.Config())}, opts...)...)
	cfg := a.Config()

	for _, spec := range f.Strategies {
		if err := a.Register(spec.Alias, StrategyFor(spec, cfg.Extension), spec.Prepend); err != nil {
			return nil, fmt.Errorf("bootstrap: %w", err)
		}
	}

	if len(f.Preload.Symbols) > 0 {
		pathFor := preload.RootPaths(f.Preload.Root, cfg.Extension, cfg.Separator)
		if err := a.Include(ctx, f.Preload.Symbols, pathFor); err != nil {
			return nil, fmt.Errorf("bootstrap: %w", err)
		}
	}
	return a, nil
}
