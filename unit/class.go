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

// Package unit loads source units: HCL files that declare classes and
// interfaces into a symbol table.
//
// A unit looks like this:
//
//	class "Vendor/Shop/Cart" {
//	  extends    = "Vendor/Shop/Base"
//	  implements = ["Vendor/Shop/Countable"]
//	  binding    = "cart"
//	  constants  = { max_items = 50, currency = upper("eur") }
//	}
//
//	interface "Vendor/Shop/Countable" {}
//
// Parents and interfaces are required through the table before the
// declaration is defined, so loading a unit may autoload others. A
// declaration with a binding is defined as whatever the bound Go function
// returns for it; everything else is defined as a *Class.
package unit

import (
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/gocty"
)

// Kind is the kind of a declaration.
type Kind string

const (
	// KindClass is a "class" block.
	KindClass Kind = "class"
	// KindInterface is an "interface" block.
	KindInterface Kind = "interface"
)

// Class is a loaded declaration.
type Class struct {
	// Name is the fully-qualified symbol.
	Name string
	// Kind is class or interface.
	Kind Kind
	// Parent is the extended symbol, or "".
	Parent string
	// Interfaces lists implemented interfaces in declaration order.
	Interfaces []string
	// Constants holds the evaluated constants block.
	Constants map[string]cty.Value
	// Source is the path of the unit that declared it.
	Source string
}

// Constant returns the named constant.
func (c *Class) Constant(name string) (cty.Value, bool) {
	v, ok := c.Constants[name]
	return v, ok
}

// DecodeConstant converts the named constant into dst, which must be a
// pointer to a Go value compatible with the constant's type.
func (c *Class) DecodeConstant(name string, dst any) error {
	v, ok := c.Constants[name]
	if !ok {
		return ErrUnknownConstant
	}
	return gocty.FromCtyValue(v, dst)
}
