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

	"dirpx.dev/autoload/config"
)

func newInitCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "init [path]",
		Short: "Write a starter configuration file",
		Long: `Write a starter configuration file with one root strategy.

The file is written to ./` + DefaultConfigFile + ` unless a path is given.
An existing file is never overwritten.`,
		Args:        cobra.MaximumNArgs(1),
		Annotations: map[string]string{skipConfig: ""},
		RunE: func(cmd *cobra.Command, args []string) error {
			path := DefaultConfigFile
			if len(args) == 1 {
				path = args[0]
			}
			if err := config.WriteDefault(path); err != nil {
				return err
			}
			fmt.Fprintf(c.outW, "wrote %s\n", path)
			return nil
		},
	}
}
