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

package symbol

import (
	"path/filepath"
	"strings"
)

// SplitSuffix splits a class name at its first underscore:
// "Request_Interface" -> ("Request", "interface").
//
// An underscore at index 0 does not split, and an empty suffix is dropped,
// so "_Private" and "Trailing_" come back unchanged with no suffix.
func SplitSuffix(class string) (base, suffix string) {
	i := strings.IndexByte(class, '_')
	if i <= 0 {
		return class, ""
	}
	suffix = strings.ToLower(class[i+1:])
	if suffix == "" {
		return class, ""
	}
	return class[:i], suffix
}

// ApplySuffix inserts ".suffix" in front of the file extension of path:
// ("lib/Request.hcl", "interface") -> "lib/Request.interface.hcl".
// Paths without an extension get the suffix appended. An empty suffix
// returns path unchanged.
func ApplySuffix(path, suffix string) string {
	if suffix == "" {
		return path
	}
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + "." + suffix + ext
}
