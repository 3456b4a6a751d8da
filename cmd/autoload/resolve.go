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

	"dirpx.dev/autoload/unit"
)

func newResolveCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "resolve SYMBOL...",
		Short: "Load symbols and report where they came from",
		Long: `Bootstrap the autoloader, then require every symbol in order.

For each symbol one tab-separated line is printed: the symbol, its kind
and the source unit that declared it. The first symbol that cannot be
loaded stops the command with an error.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := c.context(cmd.Context())
			a, err := c.bootstrap(ctx, c.file)
			if err != nil {
				return err
			}

			for _, s := range args {
				v, err := a.Require(ctx, s)
				if err != nil {
					return fmt.Errorf("resolving %s: %w", s, err)
				}
				kind, source := describe(v)
				fmt.Fprintf(c.outW, "%s\t%s\t%s\n", s, kind, source)
			}
			return nil
		},
	}
}

// describe returns the kind and source unit of a loaded value.
func describe(v any) (kind, source string) {
	if c, ok := v.(*unit.Class); ok {
		return string(c.Kind), c.Source
	}
	return fmt.Sprintf("%T", v), "-"
}
