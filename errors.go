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
	"dirpx.dev/autoload/host"
	"dirpx.dev/autoload/preload"
	"dirpx.dev/autoload/registry"
	"dirpx.dev/autoload/resolver"
	"dirpx.dev/autoload/unit"
	"dirpx.dev/autoload/utils/symbol"
)

var (
	// ErrEmptyAlias is returned when registering an empty alias.
	ErrEmptyAlias = registry.ErrEmptyAlias
	// ErrDuplicateAlias is returned when registering a taken alias.
	ErrDuplicateAlias = registry.ErrDuplicateAlias
	// ErrRegistration is returned when the dispatch queue refuses a hook.
	ErrRegistration = registry.ErrRegistration
	// ErrInvalidHook is matched by every *InvalidHookError.
	ErrInvalidHook = resolver.ErrInvalidHook
	// ErrPreloadFailure is matched by every *PreloadFailureError.
	ErrPreloadFailure = preload.ErrPreloadFailure
	// ErrSymbolNotFound is returned by Require for a symbol no strategy loaded.
	ErrSymbolNotFound = host.ErrSymbolNotFound
	// ErrCircularRequire is returned when a symbol requires itself while loading.
	ErrCircularRequire = host.ErrCircularRequire
	// ErrTooFewLevels is returned for single-level symbol names.
	ErrTooFewLevels = symbol.ErrTooFewLevels
	// ErrUnknownBinding is returned when a unit uses an unbound name.
	ErrUnknownBinding = unit.ErrUnknownBinding
)

type (
	// InvalidHookError reports a failing or panicking OnLoad.
	InvalidHookError = resolver.InvalidHookError
	// PreloadFailureError names the symbol that stopped a preload.
	PreloadFailureError = preload.FailureError
)
