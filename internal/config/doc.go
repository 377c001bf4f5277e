// Package config loads termcore settings.
//
// Settings come from three sources, each overriding the one before:
//
//  1. Built-in defaults (Default)
//  2. A TOML or YAML file, chosen by extension
//  3. TERMCORE_* environment variables, e.g. TERMCORE_SCREEN_COLS or
//     TERMCORE_SCROLLBACK_LIMIT
//
// A file only needs the settings it changes:
//
//	[screen]
//	cols = 132
//
//	[scrollback]
//	limit = 5000000
//	unit = "bytes"
//
// A Watcher reloads the file when it changes and hands the new Config to
// its handlers.
package config
