// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

// SchemaVersion tracks the database schema version for migrations.
const SchemaVersion = 1

// Schema is applied on every open.
const Schema = `
CREATE TABLE IF NOT EXISTS metadata (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL
) WITHOUT ROWID;

-- Topics seen per stream. last_message_id orders them by recency.
CREATE TABLE IF NOT EXISTS topic_history (
    stream_id INTEGER NOT NULL,
    topic TEXT NOT NULL,
    last_message_id INTEGER NOT NULL DEFAULT 0,
    PRIMARY KEY (stream_id, topic)
) WITHOUT ROWID;

CREATE INDEX IF NOT EXISTS idx_topic_history_recent
    ON topic_history(stream_id, last_message_id DESC);

-- How often the local user has sent each emoji.
CREATE TABLE IF NOT EXISTS emoji_usage (
    name TEXT PRIMARY KEY,
    count INTEGER NOT NULL DEFAULT 0,
    last_used INTEGER NOT NULL DEFAULT 0
) WITHOUT ROWID;
`

// InitMetadata seeds the metadata table.
const InitMetadata = `
INSERT OR IGNORE INTO metadata (key, value) VALUES ('schema_version', '1');
`
