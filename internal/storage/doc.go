// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage keeps the composer's local history in SQLite.
//
// # Key Types
//
//   - Store: topic history per stream and emoji usage counts
//   - HistoryFetcher: loads a stream's topics in the background the first
//     time the composer asks for them
//
// # Usage
//
//	store, err := storage.Open(cfg.Storage.DatabasePath)
//	fetcher := storage.NewHistoryFetcher(store, source, storage.FetcherOptions{})
//	topics := fetcher.Topics(streamID) // may be empty until the fetch lands
//
// # Storage Location
//
// The database lives at ~/.chatcompose/compose.db unless configured otherwise.
package storage
