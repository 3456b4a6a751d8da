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

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"sync"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/spf13/afero"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
	"github.com/zclconf/go-cty/cty/function/stdlib"

	"dirpx.dev/autoload/apis"
	"dirpx.dev/autoload/internal/ctxlog"
	"dirpx.dev/autoload/utils/symbol"
)

// Table is the symbol table a Loader defines into and requires from.
type Table interface {
	Define(symbol string, v any) error
	Require(ctx context.Context, symbol string) (any, error)
}

// Loader reads, decodes and defines source units. Each path is loaded at
// most once; later calls for the same path are no-ops.
type Loader struct {
	fs       afero.Fs
	table    Table
	bindings *Bindings
	sep      string

	mu     sync.Mutex
	loaded map[string]struct{}
	order  []string
}

// Ensure Loader implements apis.UnitLoader.
var _ apis.UnitLoader = (*Loader)(nil)

// Option configures a Loader.
type Option func(*Loader)

// WithBindings sets the binding table used for "binding" attributes.
func WithBindings(b *Bindings) Option {
	return func(l *Loader) {
		if b != nil {
			l.bindings = b
		}
	}
}

// WithSeparator sets the symbol level separator used to validate names.
func WithSeparator(sep string) Option {
	return func(l *Loader) {
		if sep != "" {
			l.sep = sep
		}
	}
}

// NewLoader creates a loader reading from fs (nil means the OS file
// system) and defining into table.
func NewLoader(fs afero.Fs, table Table, opts ...Option) *Loader {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	l := &Loader{
		fs:       fs,
		table:    table,
		bindings: NewBindings(),
		sep:      symbol.DefaultSeparator,
		loaded:   make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Bindings returns the loader's binding table.
func (l *Loader) Bindings() *Bindings {
	return l.bindings
}

// Loaded returns the loaded unit paths in load order.
func (l *Loader) Loaded() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return slices.Clone(l.order)
}

// unitBody is the HCL schema of a source unit.
type unitBody struct {
	Classes    []declBlock `hcl:"class,block"`
	Interfaces []declBlock `hcl:"interface,block"`
}

// declBlock is one class or interface block.
type declBlock struct {
	Name       string    `hcl:"name,label"`
	Extends    string    `hcl:"extends,optional"`
	Implements []string  `hcl:"implements,optional"`
	Binding    string    `hcl:"binding,optional"`
	Constants  cty.Value `hcl:"constants,optional"`
}

// decl is a validated declaration waiting to be defined.
type decl struct {
	kind       Kind
	name       string
	parent     string
	interfaces []string
	binding    string
	constants  map[string]cty.Value
	defined    bool
}

// LoadUnit loads the unit at path. It reports false without error when
// path was loaded before.
//
// A unit that fails while parsing may be loaded again. A unit that fails
// while defining stays loaded: declarations defined before the failure
// remain, the rest stay undefined.
func (l *Loader) LoadUnit(ctx context.Context, path string) (bool, error) {
	logger := ctxlog.FromContext(ctx)
	path = filepath.Clean(path)

	if !l.claim(path) {
		logger.Debug("Unit already loaded.", "path", path)
		return false, nil
	}

	decls, err := l.parse(path)
	if err != nil {
		l.release(path)
		return false, err
	}

	local := make(map[string]*decl, len(decls))
	for _, d := range decls {
		local[d.name] = d
	}
	for _, d := range decls {
		if err := l.define(ctx, path, d, local, map[string]bool{}); err != nil {
			return true, fmt.Errorf("unit %s: %w", path, err)
		}
	}

	logger.Debug("Unit loaded.", "path", path, "declarations", len(decls))
	return true, nil
}

// claim marks path as loaded and reports whether the caller should load it.
func (l *Loader) claim(path string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, done := l.loaded[path]; done {
		return false
	}
	l.loaded[path] = struct{}{}
	l.order = append(l.order, path)
	return true
}

// release undoes claim for a unit that failed before defining anything.
func (l *Loader) release(path string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.loaded, path)
	if i := slices.Index(l.order, path); i >= 0 {
		l.order = slices.Delete(l.order, i, i+1)
	}
}

// parse reads and decodes path into validated declarations, classes first,
// each kind in file order.
func (l *Loader) parse(path string) ([]*decl, error) {
	src, err := afero.ReadFile(l.fs, path)
	if err != nil {
		return nil, fmt.Errorf("reading unit %s: %w", path, err)
	}

	file, diags := hclparse.NewParser().ParseHCL(src, path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("parsing unit %s: %w", path, diags)
	}

	var body unitBody
	if diags := gohcl.DecodeBody(file.Body, evalContext(path), &body); diags.HasErrors() {
		return nil, fmt.Errorf("decoding unit %s: %w", path, diags)
	}

	seen := make(map[string]struct{})
	decls := make([]*decl, 0, len(body.Classes)+len(body.Interfaces))
	for _, group := range []struct {
		kind   Kind
		blocks []declBlock
	}{
		{KindClass, body.Classes},
		{KindInterface, body.Interfaces},
	} {
		for _, b := range group.blocks {
			d, err := l.validate(group.kind, b)
			if err != nil {
				return nil, fmt.Errorf("unit %s: %w", path, err)
			}
			if _, dup := seen[d.name]; dup {
				return nil, fmt.Errorf("unit %s: %w: %q", path, ErrDuplicateDeclaration, d.name)
			}
			seen[d.name] = struct{}{}
			decls = append(decls, d)
		}
	}
	return decls, nil
}

// validate normalizes the names of a block and evaluates its constants.
func (l *Loader) validate(kind Kind, b declBlock) (*decl, error) {
	name, err := symbol.Parse(b.Name, l.sep)
	if err != nil {
		return nil, fmt.Errorf("%s name: %w", kind, err)
	}
	d := &decl{kind: kind, name: name.Full(), binding: b.Binding}

	if b.Extends != "" {
		parent, err := symbol.Parse(b.Extends, l.sep)
		if err != nil {
			return nil, fmt.Errorf("%s %q extends: %w", kind, d.name, err)
		}
		d.parent = parent.Full()
	}
	for _, raw := range b.Implements {
		iface, err := symbol.Parse(raw, l.sep)
		if err != nil {
			return nil, fmt.Errorf("%s %q implements: %w", kind, d.name, err)
		}
		d.interfaces = append(d.interfaces, iface.Full())
	}
	if kind == KindInterface && len(d.interfaces) > 0 {
		return nil, fmt.Errorf("%w: interface %q cannot implement, use extends", ErrKindMismatch, d.name)
	}

	d.constants, err = constants(b.Constants)
	if err != nil {
		return nil, fmt.Errorf("%s %q: %w", kind, d.name, err)
	}
	return d, nil
}

// define requires the dependencies of d, then defines it. Dependencies
// declared in the same unit are defined first.
func (l *Loader) define(ctx context.Context, path string, d *decl, local map[string]*decl, visiting map[string]bool) error {
	if d.defined {
		return nil
	}
	if visiting[d.name] {
		return fmt.Errorf("%w: %q", ErrInheritanceCycle, d.name)
	}
	visiting[d.name] = true
	defer delete(visiting, d.name)

	if d.parent != "" {
		if err := l.dependency(ctx, path, d, d.parent, d.kind, local, visiting); err != nil {
			return err
		}
	}
	for _, iface := range d.interfaces {
		if err := l.dependency(ctx, path, d, iface, KindInterface, local, visiting); err != nil {
			return err
		}
	}

	value, err := l.build(path, d)
	if err != nil {
		return err
	}
	if err := l.table.Define(d.name, value); err != nil {
		return err
	}
	d.defined = true
	return nil
}

// dependency makes sure dep is defined and, when it is a *Class, of kind want.
func (l *Loader) dependency(ctx context.Context, path string, d *decl, dep string, want Kind, local map[string]*decl, visiting map[string]bool) error {
	if ld, ok := local[dep]; ok {
		if ld.kind != want {
			return fmt.Errorf("%w: %s %q depends on %s %q, want %s", ErrKindMismatch, d.kind, d.name, ld.kind, dep, want)
		}
		return l.define(ctx, path, ld, local, visiting)
	}

	v, err := l.table.Require(ctx, dep)
	if err != nil {
		return fmt.Errorf("%s %q: requiring %q: %w", d.kind, d.name, dep, err)
	}
	if c, ok := v.(*Class); ok && c.Kind != want {
		return fmt.Errorf("%w: %s %q depends on %s %q, want %s", ErrKindMismatch, d.kind, d.name, c.Kind, dep, want)
	}
	return nil
}

// build creates the value d is defined as.
func (l *Loader) build(path string, d *decl) (any, error) {
	c := &Class{
		Name:       d.name,
		Kind:       d.kind,
		Parent:     d.parent,
		Interfaces: d.interfaces,
		Constants:  d.constants,
		Source:     path,
	}
	if d.binding == "" {
		return c, nil
	}

	fn, ok := l.bindings.Lookup(d.binding)
	if !ok {
		return nil, fmt.Errorf("%w: %s %q uses %q", ErrUnknownBinding, d.kind, d.name, d.binding)
	}
	v, err := fn(c)
	if err != nil {
		return nil, fmt.Errorf("binding %q for %q: %w", d.binding, d.name, err)
	}
	if v == nil {
		return nil, fmt.Errorf("%w: %q for %q", ErrNilBinding, d.binding, d.name)
	}
	return v, nil
}

// constants turns the constants attribute into a map.
func constants(v cty.Value) (map[string]cty.Value, error) {
	if v.IsNull() {
		return nil, nil
	}
	ty := v.Type()
	if !ty.IsObjectType() && !ty.IsMapType() {
		return nil, fmt.Errorf("%w, got %s", ErrInvalidConstants, ty.FriendlyName())
	}
	if !v.IsWhollyKnown() {
		return nil, fmt.Errorf("%w: contains unknown values", ErrInvalidConstants)
	}
	return v.AsValueMap(), nil
}

// evalContext exposes the unit's own location and a few string functions
// to expressions.
func evalContext(path string) *hcl.EvalContext {
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"unit": cty.ObjectVal(map[string]cty.Value{
				"path": cty.StringVal(path),
				"dir":  cty.StringVal(filepath.Dir(path)),
			}),
		},
		Functions: map[string]function.Function{
			"upper":  stdlib.UpperFunc,
			"lower":  stdlib.LowerFunc,
			"format": stdlib.FormatFunc,
			"join":   stdlib.JoinFunc,
		},
	}
}
