// Package cmd implements the command-line interface for elide, the
// hardware lock elision toolkit.
//
// The package is organized into subpackages:
//
//   - bench: Micro-benchmarks comparing elided and plain critical sections
//   - util: Shared utilities for command-line processing and logging (internal use)
//
// See elide -help for a list of all commands.
package cmd
