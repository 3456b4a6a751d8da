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

// Command autoload bootstraps an autoloader from a configuration file and
// resolves symbols with it.
//
//	autoload init                      # write ./autoload.yaml
//	autoload strategies                # list strategies in dispatch order
//	autoload resolve Shop/Cart         # load a symbol and report its unit
//	autoload watch                     # keep the stat cache fresh
package main

import (
	"context"
	"fmt"
	"io"
	"os"
)

// main is the entrypoint of the autoload command.
func main() {
	if err := run(context.Background(), os.Stdout, os.Stderr, os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run executes the command line args for easier testing.
func run(ctx context.Context, outW, errW io.Writer, args []string) error {
	cmd := newRootCmd(outW, errW)
	cmd.SetArgs(args)
	return cmd.ExecuteContext(ctx)
}
