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

import "dirpx.dev/autoload/utils/symbol"

// Strategy is a pluggable path resolution rule. A registry keeps several
// strategies in order; the dispatcher tries them until one loads a unit.
type Strategy interface {
	// Resolve computes the candidate source path for name, or declines.
	Resolve(name symbol.Name) Resolution
}

// Resolution is the outcome of Strategy.Resolve: either a found path or
// a decline. The zero value is a decline.
type Resolution struct {
	path  string
	found bool
}

// Found returns a Resolution that carries path.
func Found(path string) Resolution {
	return Resolution{path: path, found: true}
}

// Declined returns a Resolution meaning "not mine, try the next strategy".
func Declined() Resolution {
	return Resolution{}
}

// Path returns the resolved path and true, or ("", false) on decline.
func (r Resolution) Path() (string, bool) {
	return r.path, r.found
}

// Declined reports whether the strategy declined.
func (r Resolution) Declined() bool {
	return !r.found
}

// String implements fmt.Stringer.
func (r Resolution) String() string {
	if !r.found {
		return "declined"
	}
	return "found(" + r.path + ")"
}
