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
	"strings"

	"dirpx.dev/autoload/apis"
)

// Namespace creates a Func strategy that only handles symbols whose
// namespace equals prefix or lies below it. The rest of the namespace is
// mapped under dir, followed by class+ext. Everything else is declined.
//
// prefix is compared against the lower-cased namespace, so it should be
// given in lower case with "/" between levels ("vendor/shop").
func Namespace(prefix, dir, ext string) apis.Strategy {
	prefix = strings.Trim(strings.ToLower(prefix), "/")
	return Func(func(namespace, class string) apis.Resolution {
		rest, ok := underPrefix(namespace, prefix)
		if !ok {
			return apis.Declined()
		}
		return apis.Found(filepath.Join(dir, filepath.FromSlash(rest), class+ext))
	})
}

// underPrefix returns the part of namespace below prefix.
func underPrefix(namespace, prefix string) (string, bool) {
	switch {
	case prefix == "":
		return namespace, true
	case namespace == prefix:
		return "", true
	case strings.HasPrefix(namespace, prefix+"/"):
		return namespace[len(prefix)+1:], true
	default:
		return "", false
	}
}
