// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"context"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"

	"github.com/jeranaias/chatcompose/internal/roster"
)

// TopicSource supplies the topics of a stream, typically from a server.
type TopicSource interface {
	FetchTopics(ctx context.Context, streamID int) ([]roster.Topic, error)
}

// DirectorySource serves topics from the workspace file.
type DirectorySource struct {
	Dir *roster.Directory
}

// FetchTopics implements TopicSource.
func (s DirectorySource) FetchTopics(_ context.Context, streamID int) ([]roster.Topic, error) {
	return s.Dir.SeedTopics(streamID)
}

// FetcherOptions tunes a HistoryFetcher.
type FetcherOptions struct {
	// PerSecond and Burst throttle calls to the source. Zero PerSecond
	// disables throttling.
	PerSecond float64
	Burst     int
	// Limit caps how many topics Topics returns.
	Limit   int
	Timeout time.Duration
	Logger  *zap.Logger
	// OnLoaded is called from the fetch goroutine after a stream's topics
	// have been merged into the store.
	OnLoaded func(streamID int)
}

// HistoryFetcher answers topic lookups from the store and fetches a
// stream's history in the background the first time it is asked for.
type HistoryFetcher struct {
	store   *Store
	source  TopicSource
	limiter *rate.Limiter
	group   singleflight.Group
	opts    FetcherOptions
	logger  *zap.Logger

	mu     sync.Mutex
	loaded map[int]bool
	closed bool

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewHistoryFetcher creates a fetcher.
func NewHistoryFetcher(store *Store, source TopicSource, opts FetcherOptions) *HistoryFetcher {
	limit := rate.Inf
	if opts.PerSecond > 0 {
		limit = rate.Limit(opts.PerSecond)
	}
	burst := opts.Burst
	if burst <= 0 {
		burst = 1
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &HistoryFetcher{
		store:   store,
		source:  source,
		limiter: rate.NewLimiter(limit, burst),
		opts:    opts,
		logger:  logger,
		loaded:  make(map[int]bool),
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Topics returns the known topics of a stream, most recent first, and
// starts a background fetch if the stream has not been loaded yet.
func (f *HistoryFetcher) Topics(streamID int) []string {
	f.Request(streamID)

	topics, err := f.store.RecentTopics(context.Background(), streamID, f.opts.Limit)
	if err != nil {
		f.logger.Warn("reading topic history failed", zap.Int("stream_id", streamID), zap.Error(err))
		return nil
	}
	return topics
}

// Request starts a background fetch for streamID unless one already
// completed. Concurrent requests share one fetch.
func (f *HistoryFetcher) Request(streamID int) {
	// Close takes the same lock before waiting.
	f.mu.Lock()
	if f.loaded[streamID] || f.closed {
		f.mu.Unlock()
		return
	}
	f.wg.Add(1)
	f.mu.Unlock()

	go func() {
		defer f.wg.Done()
		_, _, _ = f.group.Do(strconv.Itoa(streamID), func() (any, error) {
			return nil, f.fetch(streamID)
		})
	}()
}

// Wait blocks until the fetch for streamID has completed or ctx ends.
func (f *HistoryFetcher) Wait(ctx context.Context, streamID int) error {
	ch := f.group.DoChan(strconv.Itoa(streamID), func() (any, error) {
		if f.Loaded(streamID) {
			return nil, nil
		}
		return nil, f.fetch(streamID)
	})
	select {
	case res := <-ch:
		return res.Err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Loaded reports whether the stream's history has been fetched.
func (f *HistoryFetcher) Loaded(streamID int) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.loaded[streamID]
}

func (f *HistoryFetcher) fetch(streamID int) error {
	if f.Loaded(streamID) {
		return nil
	}

	ctx, cancel := context.WithTimeout(f.ctx, f.opts.Timeout)
	defer cancel()

	if err := f.limiter.Wait(ctx); err != nil {
		return err
	}

	topics, err := f.source.FetchTopics(ctx, streamID)
	if err != nil {
		f.logger.Warn("topic fetch failed", zap.Int("stream_id", streamID), zap.Error(err))
		return err
	}
	if err := f.store.MergeTopics(ctx, streamID, topics); err != nil {
		f.logger.Error("merging topic history failed", zap.Int("stream_id", streamID), zap.Error(err))
		return err
	}

	f.mu.Lock()
	f.loaded[streamID] = true
	f.mu.Unlock()

	f.logger.Debug("topic history loaded", zap.Int("stream_id", streamID), zap.Int("topics", len(topics)))
	if f.opts.OnLoaded != nil {
		f.opts.OnLoaded(streamID)
	}
	return nil
}

// Close cancels outstanding fetches and waits for them to return.
func (f *HistoryFetcher) Close() {
	f.mu.Lock()
	f.closed = true
	f.mu.Unlock()

	f.cancel()
	f.wg.Wait()
}
