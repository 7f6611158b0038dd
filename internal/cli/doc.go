// Package cli implements the shelf command: one-shot subcommands for
// listing, creating and deleting novels and changing covers, plus an
// interactive REPL over the same actions.
//
// Every command loads configuration (defaults, then --config file, then
// flags), opens the configured record store once and drives a
// projection.Synchronizer. Output is plain text or, with --format json,
// a {"status": ..., "data"|"error": ...} envelope per result.
package cli
