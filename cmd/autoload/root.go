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
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"dirpx.dev/autoload"
	"dirpx.dev/autoload/config"
	"dirpx.dev/autoload/internal/ctxlog"
	"dirpx.dev/autoload/internal/logging"
	"dirpx.dev/autoload/internal/tracing"
)

// DefaultConfigFile is read when --config is not given and it exists.
const DefaultConfigFile = "autoload.yaml"

// skipConfig marks commands that run without loading the configuration.
const skipConfig = "skip-config"

var version = "dev"

// cli is the state shared by all subcommands of one invocation.
type cli struct {
	outW io.Writer
	errW io.Writer
	v    *viper.Viper

	cfgFile string
	trace   bool

	file     config.File
	logger   *slog.Logger
	shutdown func(context.Context) error
}

func newRootCmd(outW, errW io.Writer) *cobra.Command {
	c := &cli{outW: outW, errW: errW, v: viper.New()}

	cmd := &cobra.Command{
		Use:   "autoload",
		Short: "Resolve and load symbols from HCL source units",
		Long: `autoload maps hierarchical symbol names (Vendor/Shop/Cart) to HCL source
units through an ordered list of strategies and loads them on demand.`,
		Version:            version,
		SilenceUsage:       true,
		SilenceErrors:      true,
		PersistentPreRunE:  c.setup,
		PersistentPostRunE: c.teardown,
	}
	cmd.SetOut(outW)
	cmd.SetErr(errW)

	pf := cmd.PersistentFlags()
	pf.StringVarP(&c.cfgFile, "config", "c", "",
		"config file (default: ./"+DefaultConfigFile+" if present)")
	pf.String("log-level", config.DefaultLogLevel, "log level (debug, info, warn, error)")
	pf.String("log-format", config.DefaultLogFormat, "log format (text, json)")
	pf.BoolVar(&c.trace, "trace", false, "write trace spans to stderr")

	// Bind flags to viper
	_ = c.v.BindPFlag("log.level", pf.Lookup("log-level"))
	_ = c.v.BindPFlag("log.format", pf.Lookup("log-format"))

	cmd.AddCommand(
		newInitCmd(c),
		newStrategiesCmd(c),
		newResolveCmd(c),
		newWatchCmd(c),
	)
	return cmd
}

// setup loads the configuration and builds the logger and tracer.
func (c *cli) setup(cmd *cobra.Command, _ []string) error {
	if _, skip := cmd.Annotations[skipConfig]; skip {
		c.logger = logging.New(config.DefaultLogLevel, config.DefaultLogFormat, c.errW)
		return nil
	}

	path := c.cfgFile
	if path == "" {
		if _, err := os.Stat(DefaultConfigFile); err == nil {
			path = DefaultConfigFile
		}
	}

	f, err := config.Load(c.v, path)
	if err != nil {
		return err
	}
	c.file = f
	c.logger = logging.New(f.Log.Level, f.Log.Format, c.errW)
	if path != "" {
		c.logger.Debug("Loaded configuration.", "path", path, "strategies", len(f.Strategies))
	}

	if c.trace {
		shutdown, err := tracing.SetupStdout(c.errW)
		if err != nil {
			return err
		}
		c.shutdown = shutdown
	}
	return nil
}

// teardown flushes pending spans.
func (c *cli) teardown(cmd *cobra.Command, _ []string) error {
	if c.shutdown == nil {
		return nil
	}
	return c.shutdown(cmd.Context())
}

// context returns ctx carrying the command logger.
func (c *cli) context(ctx context.Context) context.Context {
	return ctxlog.WithLogger(ctx, c.logger)
}

// bootstrap builds an autoloader from the loaded configuration.
func (c *cli) bootstrap(ctx context.Context, f config.File, opts ...autoload.Option) (*autoload.Autoloader, error) {
	a, err := autoload.Bootstrap(ctx, f, append([]autoload.Option{autoload.WithLogger(c.logger)}, opts...)...)
	if err != nil {
		var pf *autoload.PreloadFailureError
		if errors.As(err, &pf) {
			return nil, fmt.Errorf("preload of %s failed, refusing to start: %w", pf.Symbol, err)
		}
		return nil, err
	}
	return a, nil
}
