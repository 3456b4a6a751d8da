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

package strategy

import (
	"path/filepath"

	"dirpx.dev/autoload/apis"
	"dirpx.dev/autoload/utils/symbol"
)

// Root creates an apis.Strategy that maps every symbol to
// root/<Full symbol as path><ext>. It never declines.
func Root(root, ext string) apis.Strategy {
	return rootStrategy{root: root, ext: ext}
}

// rootStrategy is the fixed root-path mode.
type rootStrategy struct {
	root string
	ext  string
}

// Ensure rootStrategy implements apis.Strategy.
var _ apis.Strategy = rootStrategy{}

// Resolve returns the root path for name. The class suffix is not applied.
func (s rootStrategy) Resolve(name symbol.Name) apis.Resolution {
	return apis.Found(RootPath(s.root, s.ext, name))
}

// RootPath joins root with the symbol's levels (case preserved) and
// appends ext.
func RootPath(root, ext string, name symbol.Name) string {
	return filepath.Join(root, filepath.FromSlash(name.Path())) + ext
}
