// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package cli provides the command-line framework for safekey.
//
// The central type is [Command], which represents a named subcommand with
// optional nested [Command.Subcommands], a [pflag.FlagSet] factory, and a
// Run function. Commands are assembled into a tree in cmd/safekey and
// dispatched via [Command.Execute], which handles flag parsing,
// subcommand routing, and help output with examples.
//
// When a user types an unknown subcommand or flag, the framework suggests
// the closest known name by Levenshtein distance (at most 3).
//
// [NewCommandLogger] builds the slog logger commands report through, and
// [ExitError] lets a command choose its exit status without an error
// message, which `safekey compare` uses to report "not equal".
package cli
