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

package config

import (
	"time"

	"dirpx.dev/autoload/apis"
	"dirpx.dev/autoload/utils/symbol"
)

const (
	// DefaultSeparator represents the default for Separator.
	DefaultSeparator = symbol.DefaultSeparator
	// DefaultExtension represents the default for Extension.
	// Source units are HCL files.
	DefaultExtension = ".hcl"
	// DefaultMaxHooks represents the default for MaxHooks (unlimited).
	DefaultMaxHooks = 0
	// DefaultStatCacheTTL represents the default for StatCacheTTL (disabled).
	DefaultStatCacheTTL time.Duration = 0
)

// NewConfig constructs an apis.Config from the given options.
func NewConfig(opts ...Option) apis.Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	// Ensure knobs are valid.
	if cfg.Separator == "" {
		cfg.Separator = DefaultSeparator
	}
	if cfg.MaxHooks < 0 {
		cfg.MaxHooks = DefaultMaxHooks
	}
	if cfg.StatCacheTTL < 0 {
		cfg.StatCacheTTL = DefaultStatCacheTTL
	}
	return cfg
}

// DefaultConfig is the default configuration used when none is provided.
func DefaultConfig() apis.Config {
	return apis.Config{
		Separator:    DefaultSeparator,
		Extension:    DefaultExtension,
		MaxHooks:     DefaultMaxHooks,
		StatCacheTTL: DefaultStatCacheTTL,
	}
}

// Option is a functional option that mutates an apis.Config during construction.
type Option func(*apis.Config)

// WithSeparator sets the Separator option.
// An empty separator resets to the default.
func WithSeparator(sep string) Option {
	return func(c *apis.Config) {
		if sep == "" {
			c.Separator = DefaultSeparator
			return
		}
		c.Separator = sep
	}
}

// WithExtension sets the Extension option. An empty extension is allowed
// and means root paths are used as computed.
func WithExtension(ext string) Option {
	return func(c *apis.Config) {
		c.Extension = ext
	}
}

// WithMaxHooks sets the MaxHooks option.
// A negative value resets to the default.
func WithMaxHooks(max int) Option {
	return func(c *apis.Config) {
		if max < 0 {
			c.MaxHooks = DefaultMaxHooks
			return
		}
		c.MaxHooks = max
	}
}

// WithStatCacheTTL sets the StatCacheTTL option.
// A negative value resets to the default.
func WithStatCacheTTL(ttl time.Duration) Option {
	return func(c *apis.Config) {
		if ttl < 0 {
			c.StatCacheTTL = DefaultStatCacheTTL
			return
		}
		c.StatCacheTTL = ttl
	}
}
