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
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"dirpx.dev/autoload/apis"
)

// EnvPrefix is the prefix of environment overrides (AUTOLOAD_LOG_LEVEL, ...).
const EnvPrefix = "AUTOLOAD"

const (
	// DefaultLogLevel is the log level used when the file sets none.
	DefaultLogLevel = "info"
	// DefaultLogFormat is the log format used when the file sets none.
	DefaultLogFormat = "text"
)

var (
	// ErrInvalidFile is wrapped by every File.Validate failure.
	ErrInvalidFile = errors.New("autoload(config): invalid configuration file")
)

// File is the on-disk bootstrap configuration: core knobs, the strategies
// to register (in order) and the preload list.
type File struct {
	Separator    string         `mapstructure:"separator"`
	Extension    string         `mapstructure:"extension"`
	MaxHooks     int            `mapstructure:"max_hooks"`
	StatCacheTTL time.Duration  `mapstructure:"stat_cache_ttl"`
	Strategies   []StrategySpec `mapstructure:"strategies"`
	Preload      PreloadSpec    `mapstructure:"preload"`
	Log          LogSpec        `mapstructure:"log"`
}

// StrategySpec describes one strategy to register.
//
// With only Root set the strategy is a root-path strategy that never
// declines. With Prefix set it is a namespace strategy that declines every
// symbol outside Prefix.
type StrategySpec struct {
	Alias   string `mapstructure:"alias" yaml:"alias"`
	Root    string `mapstructure:"root" yaml:"root"`
	Prefix  string `mapstructure:"prefix" yaml:"prefix,omitempty"`
	Prepend bool   `mapstructure:"prepend" yaml:"prepend,omitempty"`
}

// PreloadSpec lists symbols loaded eagerly at bootstrap, in order, from Root.
type PreloadSpec struct {
	Root    string   `mapstructure:"root" yaml:"root,omitempty"`
	Symbols []string `mapstructure:"symbols" yaml:"symbols,omitempty"`
}

// LogSpec configures the process logger.
type LogSpec struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// Defaults returns the File used when no configuration file exists.
func Defaults() File {
	return File{
		Separator: DefaultSeparator,
		Extension: DefaultExtension,
		MaxHooks:  DefaultMaxHooks,
		Log: LogSpec{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}
}

// Load reads the configuration file at path into a File. Values missing
// from the file fall back to Defaults, and AUTOLOAD_* environment variables
// override both. If v is nil a fresh viper instance is used; passing one in
// lets callers bind command-line flags beforehand.
func Load(v *viper.Viper, path string) (File, error) {
	if v == nil {
		v = viper.New()
	}

	defaults := Defaults()
	v.SetDefault("separator", defaults.Separator)
	v.SetDefault("extension", defaults.Extension)
	v.SetDefault("max_hooks", defaults.MaxHooks)
	v.SetDefault("stat_cache_ttl", defaults.StatCacheTTL)
	v.SetDefault("log.level", defaults.Log.Level)
	v.SetDefault("log.format", defaults.Log.Format)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return File{}, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	var f File
	if err := v.Unmarshal(&f); err != nil {
		return File{}, fmt.Errorf("decoding config: %w", err)
	}
	if err := f.Validate(); err != nil {
		return File{}, err
	}
	return f, nil
}

// Validate checks strategy aliases and shapes, the preload section and the
// log settings.
func (f File) Validate() error {
	seen := make(map[string]struct{}, len(f.Strategies))
	for i, s := range f.Strategies {
		if s.Alias == "" {
			return fmt.Errorf("%w: strategies[%d]: alias is required", ErrInvalidFile, i)
		}
		if _, dup := seen[s.Alias]; dup {
			return fmt.Errorf("%w: strategies[%d]: duplicate alias %q", ErrInvalidFile, i, s.Alias)
		}
		seen[s.Alias] = struct{}{}
		if s.Root == "" {
			return fmt.Errorf("%w: strategy %q: root is required", ErrInvalidFile, s.Alias)
		}
	}

	if len(f.Preload.Symbols) > 0 && f.Preload.Root == "" {
		return fmt.Errorf("%w: preload: root is required when symbols are listed", ErrInvalidFile)
	}

	switch f.Log.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: log.level %q", ErrInvalidFile, f.Log.Level)
	}
	switch f.Log.Format {
	case "", "text", "json":
	default:
		return fmt.Errorf("%w: log.format %q", ErrInvalidFile, f.Log.Format)
	}
	return nil
}

// Config converts the core knobs of f into an apis.Config.
func (f File) Config() apis.Config {
	return NewConfig(
		WithSeparator(f.Separator),
		WithExtension(f.Extension),
		WithMaxHooks(f.MaxHooks),
		WithStatCacheTTL(f.StatCacheTTL),
	)
}
