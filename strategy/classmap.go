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
	"maps"

	"dirpx.dev/autoload/apis"
	"dirpx.dev/autoload/utils/symbol"
)

// Classmap creates an apis.Strategy backed by an explicit symbol -> path
// table. Symbols missing from the table are declined. Paths are used as
// given; the class suffix is not applied. The table is copied.
func Classmap(paths map[string]string) apis.Strategy {
	return classmapStrategy{paths: maps.Clone(paths)}
}

// classmapStrategy is a reflection-free lookup.
type classmapStrategy struct {
	paths map[string]string
}

// Ensure classmapStrategy implements apis.Strategy.
var _ apis.Strategy = classmapStrategy{}

// Resolve looks up the full symbol.
func (s classmapStrategy) Resolve(name symbol.Name) apis.Resolution {
	if p, ok := s.paths[name.Full()]; ok && p != "" {
		return apis.Found(p)
	}
	return apis.Declined()
}
