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
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"dirpx.dev/autoload/utils/fsys"
)

// DefaultWatchTTL is the stat cache TTL used by watch when the
// configuration leaves caching off.
const DefaultWatchTTL = 10 * time.Minute

func newWatchCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Watch strategy roots and invalidate cached file checks",
		Long: `Bootstrap the autoloader with its stat cache enabled and watch every
strategy root. Created, removed and renamed files are dropped from the
cache as they change. Runs until interrupted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(c.context(cmd.Context()), os.Interrupt, syscall.SIGTERM)
			defer stop()

			f := c.file
			if f.StatCacheTTL <= 0 {
				f.StatCacheTTL = DefaultWatchTTL
			}
			a, err := c.bootstrap(ctx, f)
			if err != nil {
				return err
			}

			w, err := fsys.NewWatcher(a.StatCache())
			if err != nil {
				return err
			}
			defer func() { _ = w.Close() }()

			for _, s := range f.Strategies {
				if err := w.Add(s.Root); err != nil {
					c.logger.Warn("Cannot watch strategy root.", "alias", s.Alias, "root", s.Root, "error", err)
					continue
				}
				c.logger.Info("Watching strategy root.", "alias", s.Alias, "root", s.Root)
			}

			err = w.Run(ctx, func(path string, op fsnotify.Op) {
				c.logger.Info("Invalidated cached file check.", "path", path, "op", op.String())
			})
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil
			}
			return err
		},
	}
}
