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

// Package symbol classifies fully-qualified symbol names
// ("Vendor/Module/ClassName") into the pieces path strategies work with.
package symbol

import (
	"errors"
	"fmt"
	"strings"
)

// DefaultSeparator is the level delimiter used when none is configured.
const DefaultSeparator = "/"

var (
	// ErrEmptySymbol is returned when the symbol name is empty.
	ErrEmptySymbol = errors.New("autoload(symbol): empty symbol name")
	// ErrTooFewLevels is returned when the symbol has less than two levels.
	ErrTooFewLevels = errors.New("autoload(symbol): symbol needs at least two levels")
	// ErrEmptyLevel is returned when one of the levels is empty ("A//B").
	ErrEmptyLevel = errors.New("autoload(symbol): empty level in symbol")
)

// Name is a classified symbol name. The zero value is not valid; use Parse.
type Name struct {
	full   string
	sep    string
	levels []string
	base   string
	suffix string
}

// Parse splits raw on sep into namespace levels and a class name.
// Leading separators are ignored. An empty sep means DefaultSeparator.
func Parse(raw, sep string) (Name, error) {
	if sep == "" {
		sep = DefaultSeparator
	}
	full := raw
	for strings.HasPrefix(full, sep) {
		full = full[len(sep):]
	}
	if full == "" {
		return Name{}, fmt.Errorf("%w: %q", ErrEmptySymbol, raw)
	}

	levels := strings.Split(full, sep)
	if len(levels) < 2 {
		return Name{}, fmt.Errorf("%w: %q", ErrTooFewLevels, raw)
	}
	for _, l := range levels {
		if l == "" {
			return Name{}, fmt.Errorf("%w: %q", ErrEmptyLevel, raw)
		}
	}

	base, suffix := SplitSuffix(levels[len(levels)-1])
	return Name{
		full:   full,
		sep:    sep,
		levels: levels,
		base:   base,
		suffix: suffix,
	}, nil
}

// MustParse is like Parse but panics on error. Meant for tests and
// package-level tables.
func MustParse(raw, sep string) Name {
	n, err := Parse(raw, sep)
	if err != nil {
		panic(err)
	}
	return n
}

// Full returns the symbol without leading separators, case preserved.
func (n Name) Full() string { return n.full }

// String implements fmt.Stringer.
func (n Name) String() string { return n.full }

// Separator returns the level delimiter the name was parsed with.
func (n Name) Separator() string { return n.sep }

// Levels returns a copy of all levels, class name included.
func (n Name) Levels() []string {
	out := make([]string, len(n.levels))
	copy(out, n.levels)
	return out
}

// Namespace returns every level but the last, lower-cased and joined with "/".
func (n Name) Namespace() string {
	if len(n.levels) < 2 {
		return ""
	}
	return strings.ToLower(strings.Join(n.levels[:len(n.levels)-1], "/"))
}

// Class returns the last level with its case preserved.
func (n Name) Class() string {
	if len(n.levels) == 0 {
		return ""
	}
	return n.levels[len(n.levels)-1]
}

// Base returns the class name without its underscore suffix.
func (n Name) Base() string { return n.base }

// Suffix returns the lower-cased underscore suffix of the class, or "".
func (n Name) Suffix() string { return n.suffix }

// Path returns the full name with levels joined by "/", case preserved.
func (n Name) Path() string { return strings.Join(n.levels, "/") }

// IsZero reports whether n was never parsed.
func (n Name) IsZero() bool { return n.full == "" }
