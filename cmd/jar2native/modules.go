// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/jar2native/jar2native/internal/archive"
	"github.com/jar2native/jar2native/internal/config"
	"github.com/jar2native/jar2native/internal/modules"

	"github.com/spf13/cobra"
)

// newModulesCommand creates `jar2native modules <archive>`, which runs
// validation and module resolution only.
func newModulesCommand(app *App, opts *rootOptions) *cobra.Command {
	var csv bool

	modulesCmd := &cobra.Command{
		Use:   "modules <archive>",
		Short: "Print the runtime modules an archive needs",
		Long: `Analyze a JAR or WAR and print the module set that would be linked into
its runtime image, one module per line. --extra-modules and --all-modules
are honored exactly as when packaging.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			cfg, _, err := app.loadConfig(ctx, opts.cfgFile)
			if err != nil {
				return app.fail(cmd, err, opts.verbose, config.ColorSchemeAuto)
			}
			verbose := opts.verbose || cfg.UI.Verbose
			logger := app.newLogger(verbose)
			popts := opts.packagerOptions(cmd, cfg)

			a, err := archive.Open(args[0])
			if err != nil {
				return app.fail(cmd, err, verbose, cfg.UI.ColorScheme)
			}
			tc, err := app.locate(popts.Inspect)(ctx, popts.JDKPath)
			if err != nil {
				return app.fail(cmd, err, verbose, cfg.UI.ColorScheme)
			}

			resolver := modules.NewResolver(tc, tc,
				modules.WithScratchRoot(popts.WorkRoot),
				modules.WithLogger(logger),
			)
			set, err := resolver.Resolve(ctx, a, popts.AllModules, popts.ExtraModules)
			if err != nil {
				return app.fail(cmd, err, verbose, cfg.UI.ColorScheme)
			}

			if csv {
				fmt.Fprintln(app.stdout, set.String())
				return nil
			}
			for _, name := range set.Sorted() {
				fmt.Fprintln(app.stdout, name)
			}
			return nil
		},
	}
	modulesCmd.Flags().BoolVar(&csv, "csv", false, "print a single comma-separated line (jlink --add-modules syntax)")

	return modulesCmd
}
