// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/jar2native/jar2native/internal/config"
	"github.com/jar2native/jar2native/internal/image"
	"github.com/jar2native/jar2native/internal/packager"
	"github.com/jar2native/jar2native/internal/report"
	"github.com/jar2native/jar2native/internal/toolchain"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
	"golang.org/x/exp/slices"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

// rootOptions holds flag values shared by the root command and its
// subcommands.
type rootOptions struct {
	verbose      bool
	cfgFile      string
	jdkPath      string
	extraModules []string
	allModules   bool
	outputDir    string
	report       string
}

// NewRootCommand builds the command tree around app.
func NewRootCommand(app *App) *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "jar2native [flags] <archive>",
		Short: "Package a Java application into a single executable",
		Long: TitleStyle.Render("jar2native") + SubtitleStyle.Render(" - Java archive to self-contained executable") + `

jar2native finds the JDK modules a JAR or WAR needs, links a trimmed
runtime containing only those modules, and bundles runtime, archive and
launcher into one executable file.

` + SubtitleStyle.Render("Examples:") + `
  jar2native app.jar                          Package app.jar into dist/app
  jar2native --extra-modules jdk.crypto.ec app.jar
  jar2native --all-modules --output-dir out app.war
  jar2native modules app.jar                  Print the resolved module set
  jar2native config show                      Show current configuration`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPackage(cmd, app, opts, args[0])
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.BoolVarP(&opts.verbose, "verbose", "v", false, "enable verbose output")
	pf.StringVar(&opts.cfgFile, "config", "", "config file (default is $XDG_CONFIG_HOME/jar2native/config.cue)")
	pf.StringVar(&opts.jdkPath, "jdk-path", "", "JDK installation root (default: $JAVA_HOME, then java on PATH)")
	pf.StringSliceVar(&opts.extraModules, "extra-modules", nil, "additional modules to include (repeatable, comma-separated)")
	pf.BoolVar(&opts.allModules, "all-modules", false, "include every installed module instead of analyzing the archive")

	f := rootCmd.Flags()
	f.StringVarP(&opts.outputDir, "output-dir", "o", config.DefaultOutputDir.String(), "directory receiving the executable")
	f.StringVar(&opts.report, "report", "", "write a build report (.json, .toml, .yaml)")

	rootCmd.AddCommand(newModulesCommand(app, opts))
	rootCmd.AddCommand(newConfigCommand(app, opts))

	return rootCmd
}

// Execute runs the CLI. It is called by main.main().
func Execute() {
	rootCmd := NewRootCommand(NewApp(Dependencies{}))
	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(int(exitErr.Code))
		}
		os.Exit(1)
	}
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

func runPackage(cmd *cobra.Command, app *App, opts *rootOptions, archivePath string) error {
	ctx := cmd.Context()

	cfg, _, err := app.loadConfig(ctx, opts.cfgFile)
	if err != nil {
		return app.fail(cmd, err, opts.verbose, config.ColorSchemeAuto)
	}
	verbose := opts.verbose || cfg.UI.Verbose
	logger := app.newLogger(verbose)

	popts := opts.packagerOptions(cmd, cfg)
	orch := packager.New(popts, app.packagerOptions(logger, popts.Inspect)...)

	res, err := orch.Package(ctx, archivePath)
	if err != nil {
		return app.fail(cmd, err, verbose, cfg.UI.ColorScheme)
	}

	if opts.report != "" {
		if err := report.Write(opts.report, report.FromResult(res)); err != nil {
			return app.fail(cmd, err, verbose, cfg.UI.ColorScheme)
		}
		logger.Info("Build report written", "path", opts.report)
	}

	fmt.Fprintf(app.stdout, "%s %s\n", SuccessStyle.Render("✓"), res.Artifact)
	return nil
}

// packagerOptions merges configuration with the flags set on cmd. Flags
// win; extra modules from both sources are combined.
func (o *rootOptions) packagerOptions(cmd *cobra.Command, cfg *config.Config) packager.Options {
	p := packager.Options{
		JDKPath:      cfg.JDKPath.String(),
		ExtraModules: append(slices.Clone(cfg.ExtraModules), o.extraModules...),
		AllModules:   cfg.AllModules,
		OutputDir:    cfg.OutputDir.String(),
		WorkRoot:     cfg.WorkRoot.String(),
		Image: image.Options{
			StripDebug: cfg.Image.StripDebug,
			Compress:   cfg.Image.Compress.String(),
		},
		Inspect: toolchain.InspectOptions{
			MultiRelease:      cfg.Inspector.MultiRelease.String(),
			IgnoreMissingDeps: cfg.Inspector.IgnoreMissingDeps,
		},
	}

	flags := cmd.Flags()
	if flags.Changed("jdk-path") {
		p.JDKPath = o.jdkPath
	}
	if flags.Changed("all-modules") {
		p.AllModules = o.allModules
	}
	if flags.Changed("output-dir") {
		p.OutputDir = o.outputDir
	}
	return p
}
