// Package cli holds the plumbing shared by the command-line tools: exit
// codes, configuration and logger setup, and batch file validation.
//
// Commands keep human-readable output on stdout and write structured slog
// records to stderr.
package cli
