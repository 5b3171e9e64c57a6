// SPDX-License-Identifier: MPL-2.0

// Package cmd contains the jar2native command line interface.
//
// The root command packages one archive; the modules subcommand stops after
// module resolution and the config subcommands manage the configuration
// file.
package cmd
