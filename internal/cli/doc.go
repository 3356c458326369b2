// Package cli wires together the Cobra command tree for the codelens binary.
//
// It defines the root command and its subcommands (serve, optimize, pr,
// models, config, version), binds flags, loads configuration, and maps
// failures to exit codes: 2 for usage and configuration problems, 3 for
// rejected or missing credentials, 4 for runtime failures.
package cli
