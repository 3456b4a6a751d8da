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

package builder

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"dirpx.dev/autoload/apis"
	"dirpx.dev/autoload/internal/ctxlog"
	"dirpx.dev/autoload/utils/symbol"
)

// New creates and returns a new instance of an apis.Builder. Hooks built by
// it check candidate paths on fs and load them with loader.
func New(fs apis.FileSystem, loader apis.UnitLoader) apis.Builder {
	return &builder{fs: fs, loader: loader}
}

// builder turns strategies into queue hooks.
type builder struct {
	// fs answers whether a candidate path is a loadable file.
	fs apis.FileSystem
	// loader loads the unit a strategy resolved to.
	loader apis.UnitLoader
}

// BuildHook returns a hook that resolves the symbol with s, and loads the
// resulting path if it names a regular file. A declined resolution, a
// missing file or a unit loaded earlier makes the hook decline. Load errors
// are returned wrapped with the alias and path.
func (b *builder) BuildHook(alias string, s apis.Strategy) *apis.Hook {
	return &apis.Hook{
		ID:    uuid.NewString(),
		Alias: alias,
		Load: func(ctx context.Context, name symbol.Name) (bool, error) {
			logger := ctxlog.FromContext(ctx).With("alias", alias, "symbol", name.Full())

			path, ok := s.Resolve(name).Path()
			if !ok {
				logger.Debug("Strategy declined.")
				return false, nil
			}

			if !b.fs.IsRegularFile(path) {
				logger.Debug("Candidate is not a file.", "path", path)
				return false, nil
			}

			loaded, err := b.loader.LoadUnit(ctx, path)
			if err != nil {
				return false, fmt.Errorf("%s: loading %s: %w", alias, path, err)
			}
			if !loaded {
				logger.Debug("Unit already loaded.", "path", path)
				return false, nil
			}
			logger.Debug("Loaded unit.", "path", path)
			return true, nil
		},
	}
}
