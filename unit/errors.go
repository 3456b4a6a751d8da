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

package unit

import "errors"

var (
	// ErrEmptyBinding is returned when binding an empty name or nil func.
	ErrEmptyBinding = errors.New("autoload(unit): empty binding")
	// ErrDuplicateBinding is returned when a binding name is taken.
	ErrDuplicateBinding = errors.New("autoload(unit): duplicate binding")
	// ErrUnknownBinding is returned when a unit references an unbound name.
	ErrUnknownBinding = errors.New("autoload(unit): unknown binding")
	// ErrNilBinding is returned when a binding constructs a nil value.
	ErrNilBinding = errors.New("autoload(unit): binding returned nil")
	// ErrDuplicateDeclaration is returned when a unit declares a symbol twice.
	ErrDuplicateDeclaration = errors.New("autoload(unit): duplicate declaration")
	// ErrInheritanceCycle is returned for cycles between declarations of
	// the same unit.
	ErrInheritanceCycle = errors.New("autoload(unit): inheritance cycle")
	// ErrKindMismatch is returned when a class extends an interface,
	// implements a class, and the like.
	ErrKindMismatch = errors.New("autoload(unit): kind mismatch")
	// ErrInvalidConstants is returned when constants is not an object.
	ErrInvalidConstants = errors.New("autoload(unit): constants must be an object")
	// ErrUnknownConstant is returned by Class.DecodeConstant.
	ErrUnknownConstant = errors.New("autoload(unit): unknown constant")
)
