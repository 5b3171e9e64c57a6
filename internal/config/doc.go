// SPDX-License-Identifier: MPL-2.0

// Package config handles application configuration using Viper with CUE as the file format.
//
// Configuration is loaded from ~/.config/jar2native/config.cue (or the XDG
// equivalent on Linux, ~/Library/Application Support/jar2native/config.cue on
// macOS, %APPDATA%\jar2native\config.cue on Windows), falling back to
// ./config.cue. The file is validated against an embedded CUE schema
// (config_schema.cue) before its values are merged over the built-in
// defaults. Command-line flags override configuration values.
package config
