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

package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"dirpx.dev/autoload/config"
)

// strategyView is one line of the strategies listing.
type strategyView struct {
	Alias  string `yaml:"alias"`
	ID     string `yaml:"id"`
	Mode   string `yaml:"mode"`
	Root   string `yaml:"root"`
	Prefix string `yaml:"prefix,omitempty"`
}

func newStrategiesCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "strategies",
		Short: "List the configured strategies in dispatch order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			// Preload is not needed to list strategies.
			f := c.file
			f.Preload = config.PreloadSpec{}

			a, err := c.bootstrap(c.context(cmd.Context()), f)
			if err != nil {
				return err
			}

			specs := make(map[string]config.StrategySpec, len(f.Strategies))
			for _, s := range f.Strategies {
				specs[s.Alias] = s
			}

			views := make([]strategyView, 0, len(specs))
			for _, impl := range a.Implementations() {
				s := specs[impl.Alias]
				mode := "root"
				if s.Prefix != "" {
					mode = "namespace"
				}
				views = append(views, strategyView{
					Alias:  impl.Alias,
					ID:     impl.Hook.ID,
					Mode:   mode,
					Root:   s.Root,
					Prefix: s.Prefix,
				})
			}

			enc := yaml.NewEncoder(c.outW)
			enc.SetIndent(2)
			if err := enc.Encode(views); err != nil {
				return fmt.Errorf("encoding strategies: %w", err)
			}
			return enc.Close()
		},
	}
}
