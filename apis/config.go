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

import "time"

// Config carries read-only resolution knobs shared by all components.
// It is passed by value and should be treated as immutable by implementations.
type Config struct {
	// Separator delimits the levels of a symbol name ("Vendor/Module/Class").
	Separator string

	// Extension is appended to paths computed by root-path strategies and
	// by the bootstrap preload rule (e.g. ".hcl").
	Extension string

	// MaxHooks caps the number of hooks the dispatch queue accepts.
	// Zero means unlimited.
	MaxHooks int

	// StatCacheTTL enables caching of regular-file checks for the given
	// duration. Zero disables the cache.
	StatCacheTTL time.Duration
}
