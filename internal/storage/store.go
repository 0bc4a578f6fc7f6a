// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/jeranaias/chatcompose/internal/roster"
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	ErrClosed      = errors.New("store is closed")
	ErrInvalidPath = errors.New("invalid database path")
)

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

// =============================================================================
// STORE
// =============================================================================

// Store persists topic history and emoji usage.
type Store struct {
	db *sql.DB

	// Emoji usage is read on every keystroke in emoji mode, so it is
	// mirrored in memory and only written through to the database.
	mu     sync.RWMutex
	usage  map[string]int
	closed bool
}

// Open opens (creating if needed) the database at path.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, ErrInvalidPath
	}
	if path != MemoryPath {
		if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// One connection: SQLite has a single writer and :memory: databases are
	// per-connection.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA temp_store=MEMORY",
		"PRAGMA busy_timeout=5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set pragma: %w", err)
		}
	}

	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	if _, err := db.Exec(InitMetadata); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	s := &Store{db: db, usage: make(map[string]int)}
	if err := s.loadUsage(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the database.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.db.Close()
}

func (s *Store) isClosed() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.closed
}

// =============================================================================
// TOPIC HISTORY
// =============================================================================

// MergeTopics records topics for a stream, keeping the highest message ID
// seen for each.
func (s *Store) MergeTopics(ctx context.Context, streamID int, topics []roster.Topic) error {
	if s.isClosed() {
		return ErrClosed
	}
	if len(topics) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO topic_history (stream_id, topic, last_message_id) VALUES (?, ?, ?)
		ON CONFLICT(stream_id, topic) DO UPDATE
		SET last_message_id = max(last_message_id, excluded.last_message_id)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, t := range topics {
		name := strings.TrimSpace(t.Name)
		if name == "" {
			continue
		}
		if _, err := stmt.ExecContext(ctx, streamID, name, t.LastMessageID); err != nil {
			return fmt.Errorf("failed to merge topic %q: %w", name, err)
		}
	}
	return tx.Commit()
}

// RecentTopics returns up to limit topic names for a stream, most recent
// first. limit <= 0 means no limit.
func (s *Store) RecentTopics(ctx context.Context, streamID, limit int) ([]string, error) {
	if s.isClosed() {
		return nil, ErrClosed
	}
	if limit <= 0 {
		limit = -1
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT topic FROM topic_history
		WHERE stream_id = ?
		ORDER BY last_message_id DESC, topic ASC
		LIMIT ?
	`, streamID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var topics []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		topics = append(topics, name)
	}
	return topics, rows.Err()
}

// =============================================================================
// EMOJI USAGE
// =============================================================================

func (s *Store) loadUsage() error {
	rows, err := s.db.Query("SELECT name, count FROM emoji_usage")
	if err != nil {
		return fmt.Errorf("failed to load emoji usage: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var name string
		var count int
		if err := rows.Scan(&name, &count); err != nil {
			return err
		}
		s.usage[name] = count
	}
	return rows.Err()
}

// RecordEmojiUsage bumps the usage count of each named emoji once per call
// per occurrence.
func (s *Store) RecordEmojiUsage(ctx context.Context, names []string) error {
	if s.isClosed() {
		return ErrClosed
	}
	if len(names) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	now := time.Now().Unix()
	for _, name := range names {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO emoji_usage (name, count, last_used) VALUES (?, 1, ?)
			ON CONFLICT(name) DO UPDATE SET count = count + 1, last_used = excluded.last_used
		`, name, now)
		if err != nil {
			return fmt.Errorf("failed to record emoji usage: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}

	s.mu.Lock()
	for _, name := range names {
		s.usage[name]++
	}
	s.mu.Unlock()
	return nil
}

// EmojiUsage returns how often an emoji has been sent.
func (s *Store) EmojiUsage(name string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.usage[name]
}
