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

package autoload_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dirpx.dev/autoload"
	"dirpx.dev/autoload/apis"
	"dirpx.dev/autoload/config"
	"dirpx.dev/autoload/preload"
	"dirpx.dev/autoload/strategy"
	"dirpx.dev/autoload/unit"
)

func memFS(t *testing.T, files map[string]string) afero.Fs {
	t.Helper()
	fs := afero.NewMemMapFs()
	for path, src := range files {
		require.NoError(t, afero.WriteFile(fs, path, []byte(src), 0o644))
	}
	return fs
}

func aliases(impls []apis.Implementation) []string {
	out := make([]string, 0, len(impls))
	for _, i := range impls {
		out = append(out, i.Alias)
	}
	return out
}

func TestAutoloader_RegistrationOrder(t *testing.T) {
	a := autoload.New(autoload.WithFs(afero.NewMemMapFs()))

	require.NoError(t, a.Append("A", strategy.Root("/a", ".hcl")))
	require.NoError(t, a.Append("B", strategy.Root("/b", ".hcl")))
	require.NoError(t, a.Prepend("C", strategy.Root("/c", ".hcl")))
	assert.Equal(t, []string{"C", "A", "B"}, aliases(a.Implementations()))

	require.ErrorIs(t, a.Append("A", strategy.Root("/x", "")), autoload.ErrDuplicateAlias)
	require.ErrorIs(t, a.Append("", strategy.Root("/x", "")), autoload.ErrEmptyAlias)
	assert.Len(t, a.Implementations(), 3)

	assert.False(t, a.Unregister("nope"))
	assert.Equal(t, []string{"C", "A", "B"}, aliases(a.Implementations()))

	require.True(t, a.Unregister("A"))
	require.NoError(t, a.Append("A", strategy.Root("/a", ".hcl")), "re-register after unregister")
	assert.Equal(t, []string{"C", "B", "A"}, aliases(a.Implementations()))
}

func TestAutoloader_RegistrationRefused(t *testing.T) {
	a := autoload.New(
		autoload.WithFs(afero.NewMemMapFs()),
		autoload.WithConfig(config.NewConfig(config.WithMaxHooks(1))),
	)

	require.NoError(t, a.Append("A", strategy.Root("/a", "")))
	require.ErrorIs(t, a.Append("B", strategy.Root("/b", "")), autoload.ErrRegistration)
	assert.Equal(t, []string{"A"}, aliases(a.Implementations()))
}

func TestAutoloader_RequireAutoloadsParents(t *testing.T) {
	fs := memFS(t, map[string]string{
		"/src/Shop/Cart.hcl":      `class "Shop/Cart" { extends = "Shop/Base" }`,
		"/src/Shop/Base.hcl":      `class "Shop/Base" { implements = ["Shop/Countable"] }`,
		"/src/Shop/Countable.hcl": `interface "Shop/Countable" {}`,
	})
	a := autoload.New(autoload.WithFs(fs))
	require.NoError(t, a.Append("src", strategy.Root("/src", ".hcl")))

	v, err := a.Require(context.Background(), "Shop/Cart")
	require.NoError(t, err)

	cart := v.(*unit.Class)
	assert.Equal(t, "Shop/Base", cart.Parent)
	assert.Equal(t, []string{"Shop/Base", "Shop/Cart", "Shop/Countable"}, a.Runtime().Defined())
	assert.Equal(t, []string{"/src/Shop/Cart.hcl", "/src/Shop/Base.hcl", "/src/Shop/Countable.hcl"}, a.Units())
}

func TestAutoloader_RequireLeadingSeparator(t *testing.T) {
	fs := memFS(t, map[string]string{"/src/Shop/Cart.hcl": `class "Shop/Cart" {}`})
	a := autoload.New(autoload.WithFs(fs))
	require.NoError(t, a.Append("src", strategy.Root("/src", ".hcl")))

	_, err := a.Require(context.Background(), "/Shop/Cart")
	require.NoError(t, err)
}

func TestAutoloader_SuffixAsymmetry(t *testing.T) {
	fs := memFS(t, map[string]string{
		"/lib/http/Request.interface.hcl":  `interface "Http/Request_Interface" {}`,
		"/root/Http/Response_Abstract.hcl": `class "Http/Response_Abstract" {}`,
	})
	a := autoload.New(autoload.WithFs(fs))

	lib := strategy.Func(func(namespace, class string) apis.Resolution {
		return apis.Found(filepath.Join("/lib", namespace, class+".hcl"))
	})
	require.NoError(t, a.Append("lib", lib))
	require.NoError(t, a.Append("root", strategy.Root("/root", ".hcl")))

	// Func strategy: the suffix moves into the file name.
	_, err := a.Require(context.Background(), "Http/Request_Interface")
	require.NoError(t, err)

	// Root strategy: the symbol is used as written.
	_, err = a.Require(context.Background(), "Http/Response_Abstract")
	require.NoError(t, err)

	assert.Equal(t, []string{"/lib/http/Request.interface.hcl", "/root/Http/Response_Abstract.hcl"}, a.Units())
}

func TestAutoloader_DeclinesFallThrough(t *testing.T) {
	fs := memFS(t, map[string]string{"/app/Shop/Cart.hcl": `class "Shop/Cart" {}`})
	a := autoload.New(autoload.WithFs(fs))

	require.NoError(t, a.Append("vendor", strategy.Namespace("vendor", "/vendor", ".hcl")))
	require.NoError(t, a.Append("missing", strategy.Root("/nowhere", ".hcl")))
	require.NoError(t, a.Append("app", strategy.Root("/app", ".hcl")))

	_, err := a.Require(context.Background(), "Shop/Cart")
	require.NoError(t, err)
	assert.Equal(t, []string{"/app/Shop/Cart.hcl"}, a.Units())
}

func TestAutoloader_NotFound(t *testing.T) {
	a := autoload.New(autoload.WithFs(afero.NewMemMapFs()))
	require.NoError(t, a.Append("src", strategy.Root("/src", ".hcl")))

	require.NoError(t, a.Load(context.Background(), "Shop/Gone"), "dispatch does not report missing symbols")

	_, err := a.Require(context.Background(), "Shop/Gone")
	require.ErrorIs(t, err, autoload.ErrSymbolNotFound)
	assert.Empty(t, a.Units())
}

func TestAutoloader_SingleLevelSymbol(t *testing.T) {
	a := autoload.New(autoload.WithFs(afero.NewMemMapFs()))

	require.ErrorIs(t, a.Load(context.Background(), "Kernel"), autoload.ErrTooFewLevels)
	_, err := a.Require(context.Background(), "Kernel")
	require.ErrorIs(t, err, autoload.ErrTooFewLevels)
}

func TestAutoloader_CircularRequire(t *testing.T) {
	fs := memFS(t, map[string]string{
		"/src/Pkg/A.hcl": `class "Pkg/A" { extends = "Pkg/B" }`,
		"/src/Pkg/B.hcl": `class "Pkg/B" { extends = "Pkg/A" }`,
	})
	a := autoload.New(autoload.WithFs(fs))
	require.NoError(t, a.Append("src", strategy.Root("/src", ".hcl")))

	_, err := a.Require(context.Background(), "Pkg/A")
	require.ErrorIs(t, err, autoload.ErrCircularRequire)
}

func TestAutoloader_UnitErrorsPropagate(t *testing.T) {
	fs := memFS(t, map[string]string{"/src/Pkg/A.hcl": `class "Pkg/A" {`})
	a := autoload.New(autoload.WithFs(fs))
	require.NoError(t, a.Append("src", strategy.Root("/src", ".hcl")))

	err := a.Load(context.Background(), "Pkg/A")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "src")
	assert.Contains(t, err.Error(), "/src/Pkg/A.hcl")
}

// service counts OnLoad calls.
type service struct {
	name  string
	calls int
	fail  error
}

func (s *service) OnLoad(context.Context) error {
	s.calls++
	return s.fail
}

func TestAutoloader_OnLoadRunsOnce(t *testing.T) {
	fs := memFS(t, map[string]string{"/src/Pkg/Svc.hcl": `class "Pkg/Svc" { binding = "svc" }`})
	a := autoload.New(autoload.WithFs(fs))
	require.NoError(t, a.Append("src", strategy.Root("/src", ".hcl")))

	svc := &service{}
	require.NoError(t, a.Bind("svc", func(c *unit.Class) (any, error) {
		svc.name = c.Name
		return svc, nil
	}))

	for i := 0; i < 3; i++ {
		v, err := a.Require(context.Background(), "Pkg/Svc")
		require.NoError(t, err)
		assert.Same(t, svc, v)
	}
	assert.Equal(t, "Pkg/Svc", svc.name)
	assert.Equal(t, 1, svc.calls)
}

// initializer is a bound value whose OnLoad runs fn.
type initializer struct {
	fn func(ctx context.Context) error
}

func (i *initializer) OnLoad(ctx context.Context) error {
	return i.fn(ctx)
}

func TestAutoloader_OnLoadMayRequireOtherSymbols(t *testing.T) {
	fs := memFS(t, map[string]string{
		"/src/Shop/Main.hcl": `class "Shop/Main" { binding = "main" }`,
		"/src/Shop/Dep.hcl":  `class "Shop/Dep" {}`,
	})
	a := autoload.New(autoload.WithFs(fs))
	require.NoError(t, a.Append("src", strategy.Root("/src", ".hcl")))

	var dep any
	require.NoError(t, a.Bind("main", func(*unit.Class) (any, error) {
		return &initializer{fn: func(context.Context) error {
			v, err := a.Require(context.Background(), "Shop/Dep")
			dep = v
			return err
		}}, nil
	}))

	done := make(chan error, 1)
	go func() {
		_, err := a.Require(context.Background(), "Shop/Main")
		done <- err
	}()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Require(Shop/Main) did not return")
	}
	require.IsType(t, &unit.Class{}, dep)
	assert.Equal(t, "Shop/Dep", dep.(*unit.Class).Name)
}

func TestAutoloader_OnLoadRunsDependenciesFirst(t *testing.T) {
	fs := memFS(t, map[string]string{
		"/src/Shop/Cart.hcl": `class "Shop/Cart" {
  extends = "Shop/Base"
  binding = "init"
}`,
		"/src/Shop/Base.hcl": `class "Shop/Base" { binding = "init" }`,
	})
	a := autoload.New(autoload.WithFs(fs))
	require.NoError(t, a.Append("src", strategy.Root("/src", ".hcl")))

	var order []string
	require.NoError(t, a.Bind("init", func(c *unit.Class) (any, error) {
		return &initializer{fn: func(ctx context.Context) error {
			require.NotNil(t, ctx)
			order = append(order, c.Name)
			return nil
		}}, nil
	}))

	_, err := a.Require(context.Background(), "Shop/Cart")
	require.NoError(t, err)
	assert.Equal(t, []string{"Shop/Base", "Shop/Cart"}, order)
}

func TestAutoloader_LoadedUnitDoesNotStopDispatch(t *testing.T) {
	fs := memFS(t, map[string]string{
		"/lib/bundle.hcl":   `class "Ns/Pkg/A" {}`,
		"/src/Ns/Pkg/B.hcl": `class "Ns/Pkg/B" {}`,
	})
	a := autoload.New(autoload.WithFs(fs))
	bundle := strategy.Func(func(namespace, _ string) apis.Resolution {
		if namespace == "ns/pkg" {
			return apis.Found("/lib/bundle.hcl")
		}
		return apis.Declined()
	})
	require.NoError(t, a.Append("bundle", bundle))
	require.NoError(t, a.Append("src", strategy.Root("/src", ".hcl")))
	ctx := context.Background()

	_, err := a.Require(ctx, "Ns/Pkg/A")
	require.NoError(t, err)

	v, err := a.Require(ctx, "Ns/Pkg/B")
	require.NoError(t, err)
	assert.Equal(t, "/src/Ns/Pkg/B.hcl", v.(*unit.Class).Source)
	assert.Equal(t, []string{"/lib/bundle.hcl", "/src/Ns/Pkg/B.hcl"}, a.Units())
}

func TestAutoloader_PartiallyDefinedUnitStaysLoaded(t *testing.T) {
	fs := memFS(t, map[string]string{
		"/lib/pair.hcl": `class "Shop/First" {}
class "Shop/Second" { binding = "missing" }`,
	})
	a := autoload.New(autoload.WithFs(fs))
	require.NoError(t, a.Append("pair", strategy.Classmap(map[string]string{
		"Shop/First":  "/lib/pair.hcl",
		"Shop/Second": "/lib/pair.hcl",
	})))
	ctx := context.Background()

	_, err := a.Require(ctx, "Shop/Second")
	require.ErrorIs(t, err, autoload.ErrUnknownBinding)

	_, err = a.Require(ctx, "Shop/First")
	require.NoError(t, err, "declarations before the failure stay defined")

	_, err = a.Require(ctx, "Shop/Second")
	require.ErrorIs(t, err, autoload.ErrSymbolNotFound, "the unit is not loaded again")
	assert.Equal(t, []string{"/lib/pair.hcl"}, a.Units())
}

func TestAutoloader_InvalidHook(t *testing.T) {
	fs := memFS(t, map[string]string{"/src/Pkg/Svc.hcl": `class "Pkg/Svc" { binding = "svc" }`})
	bindings := unit.NewBindings()
	require.NoError(t, bindings.Bind("svc", func(*unit.Class) (any, error) {
		return &service{fail: errors.New("not ready")}, nil
	}))

	a := autoload.New(autoload.WithFs(fs), autoload.WithBindings(bindings))
	require.NoError(t, a.Append("src", strategy.Root("/src", ".hcl")))

	_, err := a.Require(context.Background(), "Pkg/Svc")
	require.ErrorIs(t, err, autoload.ErrInvalidHook)

	var ih *autoload.InvalidHookError
	require.ErrorAs(t, err, &ih)
	assert.Equal(t, "Pkg/Svc", ih.Symbol)
}

func TestAutoloader_UnknownBinding(t *testing.T) {
	fs := memFS(t, map[string]string{"/src/Pkg/Svc.hcl": `class "Pkg/Svc" { binding = "svc" }`})
	a := autoload.New(autoload.WithFs(fs))
	require.NoError(t, a.Append("src", strategy.Root("/src", ".hcl")))

	_, err := a.Require(context.Background(), "Pkg/Svc")
	require.ErrorIs(t, err, autoload.ErrUnknownBinding)
}

func TestAutoloader_Include(t *testing.T) {
	fs := memFS(t, map[string]string{
		"/boot/Ns/Fortnightly/A.hcl": `class "Ns/Fortnightly/A" {}`,
		"/boot/Ns/Fortnightly/C.hcl": `class "Ns/Fortnightly/C" {}`,
	})
	a := autoload.New(autoload.WithFs(fs))

	err := a.Include(context.Background(),
		[]string{"Ns/Fortnightly/A", "Ns/Fortnightly/B", "Ns/Fortnightly/C"},
		preload.RootPaths("/boot", ".hcl", "/"))

	var pf *autoload.PreloadFailureError
	require.ErrorAs(t, err, &pf)
	require.ErrorIs(t, err, autoload.ErrPreloadFailure)
	assert.Equal(t, "Ns/Fortnightly/B", pf.Symbol)
	assert.Equal(t, []string{"Ns/Fortnightly/A"}, a.Runtime().Defined())
}

func TestAutoloader_IncludeAutoloadsDependencies(t *testing.T) {
	fs := memFS(t, map[string]string{
		"/boot/Core/Kernel.hcl": `class "Core/Kernel" { extends = "Core/Base" }`,
		"/src/Core/Base.hcl":    `class "Core/Base" {}`,
	})
	a := autoload.New(autoload.WithFs(fs))
	require.NoError(t, a.Append("src", strategy.Root("/src", ".hcl")))

	require.NoError(t, a.Include(context.Background(), []string{"Core/Kernel"}, preload.RootPaths("/boot", ".hcl", "/")))
	assert.Equal(t, []string{"Core/Base", "Core/Kernel"}, a.Runtime().Defined())
}

func TestAutoloader_StatCache(t *testing.T) {
	off := autoload.New(autoload.WithFs(afero.NewMemMapFs()))
	assert.Nil(t, off.StatCache())

	fs := afero.NewMemMapFs()
	on := autoload.New(
		autoload.WithFs(fs),
		autoload.WithConfig(config.NewConfig(config.WithStatCacheTTL(time.Minute))),
	)
	require.NotNil(t, on.StatCache())
	require.NoError(t, on.Append("src", strategy.Root("/src", ".hcl")))

	_, err := on.Require(context.Background(), "Pkg/A")
	require.ErrorIs(t, err, autoload.ErrSymbolNotFound)

	// The negative check is cached until forgotten.
	require.NoError(t, afero.WriteFile(fs, "/src/Pkg/A.hcl", []byte(`class "Pkg/A" {}`), 0o644))
	_, err = on.Require(context.Background(), "Pkg/A")
	require.ErrorIs(t, err, autoload.ErrSymbolNotFound)

	on.StatCache().Forget("/src/Pkg/A.hcl")
	_, err = on.Require(context.Background(), "Pkg/A")
	require.NoError(t, err)
}

func TestAutoloader_LogsThroughConfiguredLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	fs := memFS(t, map[string]string{"/src/Pkg/A.hcl": `class "Pkg/A" {}`})

	a := autoload.New(autoload.WithFs(fs), autoload.WithLogger(logger))
	require.NoError(t, a.Append("src", strategy.Root("/src", ".hcl")))
	_, err := a.Require(context.Background(), "Pkg/A")
	require.NoError(t, err)

	assert.Contains(t, buf.String(), "Registered strategy.")
	assert.Contains(t, buf.String(), "Symbol loaded.")
	assert.Contains(t, buf.String(), "alias=src")
}

func TestAutoloader_ConcurrentRequire(t *testing.T) {
	files := make(map[string]string)
	for i := 0; i < 20; i++ {
		files[fmt.Sprintf("/src/Pkg/C%d.hcl", i)] = fmt.Sprintf(`class "Pkg/C%d" { extends = "Pkg/Base" }`, i)
	}
	files["/src/Pkg/Base.hcl"] = `class "Pkg/Base" {}`

	a := autoload.New(autoload.WithFs(memFS(t, files)))
	require.NoError(t, a.Append("src", strategy.Root("/src", ".hcl")))

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if _, err := a.Require(context.Background(), fmt.Sprintf("Pkg/C%d", i)); err != nil {
				t.Errorf("require Pkg/C%d: %v", i, err)
			}
		}(i)
	}
	wg.Wait()

	assert.Len(t, a.Runtime().Defined(), 21)
	assert.Len(t, a.Units(), 21, "every unit loaded once")
}

func TestAutoloader_ClassmapTakesPrecedence(t *testing.T) {
	fs := memFS(t, map[string]string{
		"/src/Shop/Cart.hcl": `class "Shop/Cart" { constants = { from = "src" } }`,
		"/patches/cart.hcl":  `class "Shop/Cart" { constants = { from = "patch" } }`,
	})
	a := autoload.New(autoload.WithFs(fs))
	require.NoError(t, a.Append("src", strategy.Root("/src", ".hcl")))
	require.NoError(t, a.Prepend("patches", strategy.Classmap(map[string]string{"Shop/Cart": "/patches/cart.hcl"})))

	v, err := a.Require(context.Background(), "Shop/Cart")
	require.NoError(t, err)

	var from string
	require.NoError(t, v.(*unit.Class).DecodeConstant("from", &from))
	assert.Equal(t, "patch", from)
}
