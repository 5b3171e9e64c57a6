// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"io"
	"os"

	"github.com/jar2native/jar2native/internal/bundle"
	"github.com/jar2native/jar2native/internal/config"
	"github.com/jar2native/jar2native/internal/packager"
	"github.com/jar2native/jar2native/internal/toolchain"

	"github.com/charmbracelet/log"
)

const logPrefix = "jar2native"

type (
	// App wires CLI services and shared dependencies. Every command handler
	// receives an App and reaches configuration, output and the packaging
	// pipeline through it.
	App struct {
		Config  config.Provider
		stdout  io.Writer
		stderr  io.Writer
		locator packager.Locator
		bundler bundle.Bundler
	}

	// Dependencies defines the injection points for building an App. Nil
	// fields are replaced with production defaults by NewApp.
	Dependencies struct {
		Config config.Provider
		Stdout io.Writer
		Stderr io.Writer
		// Locator replaces JDK discovery.
		Locator packager.Locator
		// Bundler replaces the self-extracting bundler.
		Bundler bundle.Bundler
	}
)

// NewApp creates an App, filling unset dependencies with defaults.
func NewApp(deps Dependencies) *App {
	app := &App{
		Config:  deps.Config,
		stdout:  deps.Stdout,
		stderr:  deps.Stderr,
		locator: deps.Locator,
		bundler: deps.Bundler,
	}
	if app.Config == nil {
		app.Config = config.NewProvider()
	}
	if app.stdout == nil {
		app.stdout = os.Stdout
	}
	if app.stderr == nil {
		app.stderr = os.Stderr
	}
	return app
}

// newLogger creates the run logger writing to stderr.
func (a *App) newLogger(verbose bool) *log.Logger {
	level := log.InfoLevel
	if verbose {
		level = log.DebugLevel
	}
	return log.NewWithOptions(a.stderr, log.Options{
		Prefix: logPrefix,
		Level:  level,
	})
}

// locate returns the toolchain locator for inspect options.
func (a *App) locate(inspect toolchain.InspectOptions) packager.Locator {
	if a.locator != nil {
		return a.locator
	}
	return packager.DefaultLocator(inspect)
}

// packagerOptions returns the orchestrator options derived from the App.
func (a *App) packagerOptions(logger *log.Logger, inspect toolchain.InspectOptions) []packager.Option {
	opts := []packager.Option{
		packager.WithLogger(logger),
		packager.WithLocator(a.locate(inspect)),
	}
	if a.bundler != nil {
		opts = append(opts, packager.WithBundler(a.bundler))
	}
	return opts
}

// loadConfig loads the configuration selected by the --config flag.
func (a *App) loadConfig(ctx context.Context, cfgFile string) (*config.Config, string, error) {
	return a.Config.Load(ctx, config.LoadOptions{ConfigFilePath: cfgFile})
}
