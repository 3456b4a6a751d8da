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

// Package strategy provides the path resolution rules a registry can hold.
//
// Two modes exist. A Func strategy delegates to a caller-supplied function
// that receives the lower-cased namespace and the class base name and may
// decline. A Root strategy maps the full symbol under a fixed directory and
// never declines. Only Func strategies apply the class underscore suffix to
// the file name; Root strategies use the symbol as written.
package strategy

import (
	"dirpx.dev/autoload/apis"
	"dirpx.dev/autoload/utils/symbol"
)

// PathFunc computes a source path for a symbol, or declines.
// namespace is lower-cased and "/"-joined; class is the class base name
// with any underscore suffix removed.
type PathFunc func(namespace, class string) apis.Resolution

// Func creates an apis.Strategy backed by fn. A nil fn always declines.
func Func(fn PathFunc) apis.Strategy {
	return funcStrategy{fn: fn}
}

// funcStrategy calls a PathFunc and applies the class suffix to what it finds.
type funcStrategy struct {
	fn PathFunc
}

// Ensure funcStrategy implements apis.Strategy.
var _ apis.Strategy = funcStrategy{}

// Resolve invokes fn with the namespace and class base of name.
func (s funcStrategy) Resolve(name symbol.Name) apis.Resolution {
	if s.fn == nil || name.IsZero() {
		return apis.Declined()
	}
	res := s.fn(name.Namespace(), name.Base())
	path, ok := res.Path()
	if !ok {
		return res
	}
	return apis.Found(symbol.ApplySuffix(path, name.Suffix()))
}
