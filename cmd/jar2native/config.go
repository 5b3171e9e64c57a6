// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"strings"

	"github.com/jar2native/jar2native/internal/config"

	"github.com/spf13/cobra"
)

// newConfigCommand creates the `jar2native config` command tree.
func newConfigCommand(app *App, opts *rootOptions) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage jar2native configuration",
		Long: `Manage jar2native configuration.

Configuration is stored in:
  - Linux: ~/.config/jar2native/config.cue
  - macOS: ~/Library/Application Support/jar2native/config.cue
  - Windows: %APPDATA%\jar2native\config.cue

A config.cue in the current directory is used when none exists there.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, path, err := app.loadConfig(cmd.Context(), opts.cfgFile)
			if err != nil {
				return app.fail(cmd, err, opts.verbose, config.ColorSchemeAuto)
			}
			showConfig(app, cfg, path)
			return nil
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Create default configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, created, err := config.CreateDefaultConfig("")
			if err != nil {
				return fmt.Errorf("failed to create config: %w", err)
			}
			if !created {
				fmt.Fprintf(app.stdout, "%s Configuration already exists at %s\n", WarningStyle.Render("!"), path)
				return nil
			}
			fmt.Fprintf(app.stdout, "%s Created default configuration at %s\n", SuccessStyle.Render("✓"), path)
			return nil
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration file path",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgDir, err := config.ConfigDir()
			if err != nil {
				return err
			}
			fmt.Fprintf(app.stdout, "Config directory: %s\n", cfgDir)
			fmt.Fprintf(app.stdout, "Config file: %s\n", config.FilePath(cfgDir))
			return nil
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "dump",
		Short: "Output effective configuration as CUE",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := app.loadConfig(cmd.Context(), opts.cfgFile)
			if err != nil {
				return app.fail(cmd, err, opts.verbose, config.ColorSchemeAuto)
			}
			fmt.Fprint(app.stdout, config.GenerateCUE(cfg))
			return nil
		},
	})

	return cfgCmd
}

func showConfig(app *App, cfg *config.Config, path string) {
	w := app.stdout
	value := func(v any) string { return SuccessStyle.Render(fmt.Sprint(v)) }
	unset := SubtitleStyle.Render("(not set)")
	orUnset := func(s string) string {
		if s == "" {
			return unset
		}
		return value(s)
	}

	fmt.Fprintln(w, TitleStyle.Render("Current Configuration"))
	fmt.Fprintln(w)
	if path == "" {
		fmt.Fprintf(w, "%s: %s\n", KeyStyle.Render("Config file"), SubtitleStyle.Render("(using defaults)"))
	} else {
		fmt.Fprintf(w, "%s: %s\n", KeyStyle.Render("Config file"), path)
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "%s: %s\n", KeyStyle.Render("jdk_path"), orUnset(cfg.JDKPath.String()))
	fmt.Fprintf(w, "%s: %s\n", KeyStyle.Render("extra_modules"), orUnset(strings.Join(cfg.ExtraModules, ", ")))
	fmt.Fprintf(w, "%s: %s\n", KeyStyle.Render("all_modules"), value(cfg.AllModules))
	fmt.Fprintf(w, "%s: %s\n", KeyStyle.Render("output_dir"), value(cfg.OutputDir))
	fmt.Fprintf(w, "%s: %s\n", KeyStyle.Render("work_root"), orUnset(cfg.WorkRoot.String()))

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s:\n", KeyStyle.Render("inspector"))
	fmt.Fprintf(w, "  multi_release: %s\n", orUnset(cfg.Inspector.MultiRelease.String()))
	fmt.Fprintf(w, "  ignore_missing_deps: %s\n", value(cfg.Inspector.IgnoreMissingDeps))

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s:\n", KeyStyle.Render("image"))
	fmt.Fprintf(w, "  strip_debug: %s\n", value(cfg.Image.StripDebug))
	fmt.Fprintf(w, "  compress: %s\n", orUnset(cfg.Image.Compress.String()))

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s:\n", KeyStyle.Render("ui"))
	fmt.Fprintf(w, "  color_scheme: %s\n", value(cfg.UI.ColorScheme))
	fmt.Fprintf(w, "  verbose: %s\n", value(cfg.UI.Verbose))
}
