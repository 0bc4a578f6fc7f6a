// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli implements the chatcompose command line.
//
// # Commands
//
//   - chatcompose: full-screen compose view (Bubble Tea)
//   - repl: line-mode composer with Tab completion (liner)
//   - complete: print or apply suggestions for a draft, for scripts
//   - config show|path|init: inspect or create the TOML config
//   - workspace init|check: create or validate the workspace YAML
//
// Global flags pick the config and workspace files and the destination
// (--stream/--topic or --to). Errors map onto exit codes with GetExitCode.
package cli
