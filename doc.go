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

// Package autoload resolves symbol names to source units and loads them on
// first use.
//
// A symbol is a hierarchical name such as "Vendor/Shop/Cart". When the
// host runtime is asked for a symbol that is not defined yet, the
// Autoloader tries an ordered list of strategies, each turning the symbol
// into a candidate file path. The first candidate that names an existing
// file is loaded as a source unit (an HCL file declaring classes and
// interfaces), which defines the symbol.
//
// # Design
//
// An Autoloader owns four collaborators:
//
//   - Registry: an ordered alias -> hook mapping. Every registered
//     strategy becomes a hook in the runtime's dispatch queue, and the
//     registry is kept in lock-step with that queue: a hook the queue
//     refuses is never recorded, and an alias is only forgotten after its
//     hook was removed.
//
//   - Dispatcher: walks the queue for one symbol and stops at the first
//     hook that loaded a unit (or once the symbol is defined). Hooks that
//     decline are skipped silently. After the walk, a defined value
//     implementing apis.LoadHooker gets its OnLoad called exactly once.
//
//   - Preload runner: loads a fixed list of symbols in order at bootstrap.
//     There is no declining here; the first failure aborts the run with a
//     *PreloadFailureError.
//
//   - Runtime: the symbol table. Require on an undefined symbol calls
//     back into the Autoloader, so loading a unit whose classes extend
//     other classes autoloads those too.
//
// # Strategies
//
// Two strategy modes exist (see package strategy):
//
//   - Func strategies call a function with the lower-cased namespace and
//     the class base name, and may decline. An underscore suffix of the
//     class ("Request_Interface") is applied to the returned file name
//     ("Request.interface.hcl").
//
//   - Root strategies map the whole symbol, case preserved, under a
//     directory and append the configured extension. They never decline
//     and never apply the suffix.
//
// The asymmetry between the two is deliberate and covered by tests.
//
// # Usage
//
//	a := autoload.New(autoload.WithFs(afero.NewOsFs()))
//	_ = a.Append("app", strategy.Root("src", ".hcl"))
//	_ = a.Prepend("vendor", strategy.Namespace("vendor", "third_party", ".hcl"))
//
//	v, err := a.Require(ctx, "Vendor/Shop/Cart")
//
// Bootstrap does the same from a config.File and runs its preload list.
//
// # Concurrency model
//
// Registration is guarded by the registry's own lock and may happen at any
// time. Dispatch and preload are serialised by a single lock per
// Autoloader. Nested loads (a unit requiring its parent) carry the held
// lock in their context and pass through it. A binding constructor runs
// while the lock is held, so it must use the context it was given when it
// calls back into the Autoloader.
//
// OnLoad hooks run after the outermost Load or Include has released the
// lock, in dispatch order, so a dependency's hook runs before the hook of
// the symbol that needed it. They may call back into the Autoloader with
// any context.
//
// # Errors
//
// Declining is never an error. Registration fails with ErrEmptyAlias,
// ErrDuplicateAlias or ErrRegistration. Dispatch propagates unit load
// errors and reports *InvalidHookError for a failing OnLoad; a symbol no
// strategy could load is reported by Require as ErrSymbolNotFound, not by
// Load.
package autoload
