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

package strategy_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dirpx.dev/autoload/apis"
	"dirpx.dev/autoload/strategy"
	"dirpx.dev/autoload/utils/symbol"
)

func name(raw string) symbol.Name {
	return symbol.MustParse(raw, "/")
}

func TestFunc_PassesNamespaceAndBase(t *testing.T) {
	var gotNS, gotClass string
	s := strategy.Func(func(namespace, class string) apis.Resolution {
		gotNS, gotClass = namespace, class
		return apis.Found("lib/" + namespace + "/" + class + ".hcl")
	})

	res := s.Resolve(name("Vendor/Module/ClassName"))
	path, ok := res.Path()
	require.True(t, ok)
	assert.Equal(t, "vendor/module", gotNS)
	assert.Equal(t, "ClassName", gotClass)
	assert.Equal(t, "lib/vendor/module/ClassName.hcl", path)
}

func TestFunc_Declines(t *testing.T) {
	s := strategy.Func(func(string, string) apis.Resolution { return apis.Declined() })
	assert.True(t, s.Resolve(name("A/B")).Declined())

	assert.True(t, strategy.Func(nil).Resolve(name("A/B")).Declined(), "nil func declines")
	assert.True(t, s.Resolve(symbol.Name{}).Declined(), "zero name declines")
}

func TestFunc_AppliesSuffix(t *testing.T) {
	s := strategy.Func(func(namespace, class string) apis.Resolution {
		return apis.Found("lib/" + class + ".hcl")
	})

	path, ok := s.Resolve(name("Vendor/Http/Request_Interface")).Path()
	require.True(t, ok)
	assert.Equal(t, "lib/Request.interface.hcl", path)
}

func TestRoot_UsesFullSymbol(t *testing.T) {
	s := strategy.Root("/srv/lib", ".hcl")

	path, ok := s.Resolve(name("Vendor/Module/ClassName")).Path()
	require.True(t, ok)
	assert.Equal(t, filepath.Join("/srv/lib", "Vendor", "Module", "ClassName")+".hcl", path)
}

func TestRoot_NeverDeclines(t *testing.T) {
	s := strategy.Root("", "")
	res := s.Resolve(name("Nobody/Knows/This"))
	assert.False(t, res.Declined())
}

// The two modes treat the class suffix differently: Func applies it, Root
// keeps the symbol verbatim. Both behaviors are intentional.
func TestSuffixAsymmetry_FuncVersusRoot(t *testing.T) {
	n := name("Vendor/Http/Request_Interface")

	fn := strategy.Func(func(namespace, class string) apis.Resolution {
		return apis.Found(filepath.Join("/lib", namespace, class) + ".hcl")
	})
	root := strategy.Root("/lib", ".hcl")

	fnPath, _ := fn.Resolve(n).Path()
	rootPath, _ := root.Resolve(n).Path()

	assert.Equal(t, filepath.Join("/lib", "vendor", "http", "Request")+".interface.hcl", fnPath)
	assert.Equal(t, filepath.Join("/lib", "Vendor", "Http", "Request_Interface")+".hcl", rootPath)
}

func TestRootPath_CustomSeparator(t *testing.T) {
	n := symbol.MustParse(`Vendor\Pkg\Thing`, `\`)
	assert.Equal(t, filepath.Join("root", "Vendor", "Pkg", "Thing")+".src", strategy.RootPath("root", ".src", n))
}

func TestNamespace(t *testing.T) {
	s := strategy.Namespace("Vendor/Shop", "/srv/shop", ".hcl")

	cases := []struct {
		symbol   string
		want     string
		declined bool
	}{
		{"Vendor/Shop/Cart", filepath.Join("/srv/shop", "Cart.hcl"), false},
		{"Vendor/Shop/Model/Order", filepath.Join("/srv/shop", "model", "Order.hcl"), false},
		{"Vendor/Shop/Model/Order_Abstract", filepath.Join("/srv/shop", "model", "Order.abstract.hcl"), false},
		{"Vendor/Shopping/Cart", "", true},
		{"Other/Shop/Cart", "", true},
	}

	for _, tc := range cases {
		t.Run(tc.symbol, func(t *testing.T) {
			res := s.Resolve(name(tc.symbol))
			if tc.declined {
				assert.True(t, res.Declined())
				return
			}
			path, ok := res.Path()
			require.True(t, ok)
			assert.Equal(t, tc.want, path)
		})
	}
}

func TestNamespace_EmptyPrefixMatchesAll(t *testing.T) {
	s := strategy.Namespace("", "/lib", ".hcl")
	path, ok := s.Resolve(name("A/B/C")).Path()
	require.True(t, ok)
	assert.Equal(t, filepath.Join("/lib", "a", "b", "C.hcl"), path)
}

func TestResolution_String(t *testing.T) {
	assert.Equal(t, "declined", apis.Declined().String())
	assert.Equal(t, "found(x.hcl)", apis.Found("x.hcl").String())

	var zero apis.Resolution
	assert.True(t, zero.Declined())
}

func TestClassmap(t *testing.T) {
	paths := map[string]string{
		"Vendor/Http/Request_Interface": "/lib/request.hcl",
		"Vendor/Empty":                  "",
	}
	s := strategy.Classmap(paths)
	paths["Vendor/Late"] = "/late.hcl"

	path, ok := s.Resolve(name("Vendor/Http/Request_Interface")).Path()
	require.True(t, ok)
	assert.Equal(t, "/lib/request.hcl", path, "no suffix transform")

	assert.True(t, s.Resolve(name("Vendor/Unknown")).Declined())
	assert.True(t, s.Resolve(name("Vendor/Empty")).Declined(), "empty path declines")
	assert.True(t, s.Resolve(name("Vendor/Late")).Declined(), "table is copied")
}
