// Package cli assembles the pressctl root command with its configuration
// loading, structured logging, and maintenance subcommands.
package cli
