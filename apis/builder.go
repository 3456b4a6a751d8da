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

// Builder turns a registered Strategy into the Hook that is placed in the
// dispatch queue. Implementations decide how candidate paths are checked
// and how source units are loaded.
type Builder interface {
	// BuildHook constructs the queue hook for strategy s registered under alias.
	BuildHook(alias string, s Strategy) *Hook
}
