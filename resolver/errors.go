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

package resolver

import (
	"errors"
	"fmt"
)

// ErrInvalidHook is matched by every *InvalidHookError.
var ErrInvalidHook = errors.New("autoload(resolver): invalid post-load hook")

// InvalidHookError reports a post-load hook that failed or panicked.
type InvalidHookError struct {
	// Symbol is the symbol whose hook failed.
	Symbol string
	// Err is the returned error, or the recovered panic.
	Err error
}

// Error implements error.
func (e *InvalidHookError) Error() string {
	return fmt.Sprintf("%v: %q: %v", ErrInvalidHook, e.Symbol, e.Err)
}

// Unwrap returns the underlying error.
func (e *InvalidHookError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrInvalidHook.
func (e *InvalidHookError) Is(target error) bool {
	return target == ErrInvalidHook
}
