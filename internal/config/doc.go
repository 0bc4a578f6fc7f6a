// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for chatcompose.
//
// # Key Types
//
//   - Config: Main configuration structure with all settings
//   - ComposeConfig: Typeahead cap, enter-sends and code block settings
//   - RealmConfig: Organization permissions consulted by mention suggestions
//   - StorageConfig: SQLite location and topic fetch throttling
//
// # Configuration Precedence
//
//   - Environment variables (CHATCOMPOSE_*), plus a .env file if present
//   - ~/.chatcompose/config.toml
//   - Built-in defaults
//
// # Usage
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	limit := cfg.Compose.MaxItems
package config
