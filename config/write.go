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
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// fileYAML is the YAML shape of File. Durations are written in their
// string form so viper can read them back.
type fileYAML struct {
	Separator    string         `yaml:"separator"`
	Extension    string         `yaml:"extension"`
	MaxHooks     int            `yaml:"max_hooks,omitempty"`
	StatCacheTTL string         `yaml:"stat_cache_ttl,omitempty"`
	Strategies   []StrategySpec `yaml:"strategies"`
	Preload      PreloadSpec    `yaml:"preload,omitempty"`
	Log          LogSpec        `yaml:"log"`
}

// Write encodes f as YAML to w.
func Write(w io.Writer, f File) error {
	out := fileYAML{
		Separator:  f.Separator,
		Extension:  f.Extension,
		MaxHooks:   f.MaxHooks,
		Strategies: f.Strategies,
		Preload:    f.Preload,
		Log:        f.Log,
	}
	if f.StatCacheTTL > 0 {
		out.StatCacheTTL = f.StatCacheTTL.String()
	}
	if out.Strategies == nil {
		out.Strategies = []StrategySpec{}
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	return enc.Close()
}

// WriteDefault writes a starter configuration to path, creating parent
// directories. It refuses to overwrite an existing file.
func WriteDefault(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config %s already exists", path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	f := Defaults()
	f.Strategies = []StrategySpec{{Alias: "app", Root: "src"}}

	fh, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644) //nolint:gosec // G304: path is user supplied
	if err != nil {
		return fmt.Errorf("creating config %s: %w", path, err)
	}
	if err := Write(fh, f); err != nil {
		_ = fh.Close()
		return err
	}
	return fh.Close()
}
