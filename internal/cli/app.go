// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// app.go - Wiring of the workspace, store, fetcher and typeahead engine.

package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jeranaias/chatcompose/internal/config"
	"github.com/jeranaias/chatcompose/internal/languages"
	"github.com/jeranaias/chatcompose/internal/roster"
	"github.com/jeranaias/chatcompose/internal/storage"
	"github.com/jeranaias/chatcompose/internal/typeahead"
	"github.com/jeranaias/chatcompose/internal/ui/chat"
)

// App holds the long-lived pieces one compose session needs.
type App struct {
	Config    *config.Config
	Logger    *zap.Logger
	Directory *roster.Directory
	Store     *storage.Store
	Fetcher   *storage.HistoryFetcher
	Engine    *typeahead.Engine
	SessionID string

	watcher *roster.Watcher

	// notify forwards background events to the running program, once
	// there is one.
	notifyMu sync.Mutex
	notify   func(tea.Msg)
}

// NewApp loads the workspace and opens the store.
func NewApp(cfg *config.Config, logger *zap.Logger) (*App, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	if _, err := os.Stat(cfg.Workspace.Path); errors.Is(err, os.ErrNotExist) {
		logger.Warn("workspace file not found; completing against an empty workspace",
			zap.String("path", cfg.Workspace.Path))
	}
	dir, err := roster.LoadFile(cfg.Workspace.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to load workspace %s: %w", cfg.Workspace.Path, err)
	}

	store, err := storage.Open(cfg.Storage.DatabasePath)
	if err != nil {
		return nil, err
	}

	a := &App{
		Config:    cfg,
		Logger:    logger,
		Directory: dir,
		Store:     store,
		SessionID: uuid.NewString(),
	}
	a.Fetcher = storage.NewHistoryFetcher(store, storage.DirectorySource{Dir: dir}, storage.FetcherOptions{
		PerSecond: cfg.Storage.TopicFetchPerSecond,
		Burst:     cfg.Storage.TopicFetchBurst,
		Limit:     cfg.Storage.RecentTopicLimit,
		Logger:    logger,
		OnLoaded: func(streamID int) {
			a.send(chat.TopicsLoadedMsg{StreamID: streamID})
		},
	})
	a.Engine = a.NewEngine(a.Fetcher)

	logger.Debug("session started",
		zap.String("session_id", a.SessionID),
		zap.String("workspace", cfg.Workspace.Path),
		zap.String("database", cfg.Storage.DatabasePath))
	return a, nil
}

// NewEngine creates a typeahead engine over the workspace with the given
// topic source.
func (a *App) NewEngine(topics typeahead.TopicSource) *typeahead.Engine {
	return typeahead.NewEngine(typeahead.Sources{
		Directory: a.Directory,
		Topics:    topics,
		Usage:     a.Store,
		Languages: languages.Default(),
	}, typeahead.Options{
		Compose: a.Config.Compose,
		Realm:   a.Config.Realm,
		Logger:  a.Logger,
	})
}

// waitingTopics answers topic lookups only after the stream's history has
// loaded, for one-shot commands that cannot refresh later.
type waitingTopics struct {
	ctx     context.Context
	fetcher *storage.HistoryFetcher
	logger  *zap.Logger
}

func (w waitingTopics) Topics(streamID int) []string {
	if err := w.fetcher.Wait(w.ctx, streamID); err != nil {
		w.logger.Warn("topic history unavailable", zap.Int("stream_id", streamID), zap.Error(err))
	}
	return w.fetcher.Topics(streamID)
}

// ComposeContext resolves the destination from the flags and config.
// Direct message recipients win over a stream.
func (a *App) ComposeContext(f rootFlags) (typeahead.ComposeContext, error) {
	if len(f.to) > 0 && f.stream != "" {
		return typeahead.ComposeContext{}, NewValidationErrorWithExample(
			"destination", f.stream, "--stream and --to are mutually exclusive", "--to 3,7")
	}

	if len(f.to) > 0 {
		for _, id := range f.to {
			if _, ok := a.Directory.UserByID(id); !ok {
				return typeahead.ComposeContext{}, NewNotFoundError("user", strconv.Itoa(id))
			}
		}
		return typeahead.ComposeContext{
			MessageType: typeahead.MessagePrivate,
			Recipients:  append([]int(nil), f.to...),
		}, nil
	}

	ctx := typeahead.ComposeContext{MessageType: typeahead.MessageStream, Topic: a.Config.Workspace.Topic}
	switch {
	case f.stream != "":
		stream, ok := a.Directory.StreamByName(f.stream)
		if !ok {
			return typeahead.ComposeContext{}, NewNotFoundError("stream", f.stream)
		}
		ctx.StreamID = stream.ID
	case a.Config.Workspace.StreamID != 0:
		if _, ok := a.Directory.StreamByID(a.Config.Workspace.StreamID); !ok {
			return typeahead.ComposeContext{}, NewNotFoundError("stream", strconv.Itoa(a.Config.Workspace.StreamID))
		}
		ctx.StreamID = a.Config.Workspace.StreamID
	}
	if ctx.StreamID != 0 {
		// Warm the topic history before the first # completion.
		a.Fetcher.Request(ctx.StreamID)
	}
	return ctx, nil
}

// Watch reloads the workspace when its file changes. A watcher that
// cannot start is logged and skipped.
func (a *App) Watch() {
	if !a.Config.Workspace.Watch {
		return
	}
	w, err := roster.NewWatcher(a.Directory, a.Config.Workspace.Path, roster.DefaultDebounce, a.Logger, func(err error) {
		a.send(chat.WorkspaceReloadedMsg{Err: err})
	})
	if err == nil {
		if err = w.Watch(); err != nil {
			_ = w.Close()
		}
	}
	if err != nil {
		a.Logger.Warn("workspace watch disabled", zap.Error(err))
		return
	}
	a.watcher = w
}

// SetNotify routes background events to fn, typically program.Send.
func (a *App) SetNotify(fn func(tea.Msg)) {
	a.notifyMu.Lock()
	a.notify = fn
	a.notifyMu.Unlock()
}

func (a *App) send(msg tea.Msg) {
	a.notifyMu.Lock()
	fn := a.notify
	a.notifyMu.Unlock()
	if fn != nil {
		fn(msg)
	}
}

// Close stops the background work and closes the store.
func (a *App) Close() error {
	a.SetNotify(nil)
	if a.watcher != nil {
		_ = a.watcher.Close()
	}
	a.Fetcher.Close()
	return a.Store.Close()
}
