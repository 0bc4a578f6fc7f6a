// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/chatcompose/internal/roster"
)

type fakeSource struct {
	calls   atomic.Int32
	release chan struct{}
	topics  map[int][]roster.Topic
	err     error
}

func (f *fakeSource) FetchTopics(ctx context.Context, streamID int) ([]roster.Topic, error) {
	f.calls.Add(1)
	if f.release != nil {
		select {
		case <-f.release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.topics[streamID], nil
}

func TestHistoryFetcher_LoadsInBackground(t *testing.T) {
	store := openMemory(t)
	src := &fakeSource{topics: map[int][]roster.Topic{
		7: {{Name: "lunch", LastMessageID: 1}, {Name: "deploys", LastMessageID: 2}},
	}}

	loaded := make(chan int, 1)
	f := NewHistoryFetcher(store, src, FetcherOptions{OnLoaded: func(id int) { loaded <- id }})
	defer f.Close()

	f.Topics(7)
	select {
	case id := <-loaded:
		assert.Equal(t, 7, id)
	case <-time.After(5 * time.Second):
		t.Fatal("history was not loaded")
	}
	assert.True(t, f.Loaded(7))
	assert.Equal(t, []string{"deploys", "lunch"}, f.Topics(7))

	f.Topics(7)
	assert.Equal(t, int32(1), src.calls.Load(), "loaded streams are not fetched again")
}

func TestHistoryFetcher_DeduplicatesConcurrentFetches(t *testing.T) {
	store := openMemory(t)
	src := &fakeSource{release: make(chan struct{}), topics: map[int][]roster.Topic{
		3: {{Name: "a", LastMessageID: 1}},
	}}
	f := NewHistoryFetcher(store, src, FetcherOptions{})
	defer f.Close()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			f.Request(3)
		}()
	}
	wg.Wait()

	assert.Eventually(t, func() bool { return src.calls.Load() >= 1 }, time.Second, 5*time.Millisecond)
	close(src.release)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, f.Wait(ctx, 3))
	f.Close()

	assert.LessOrEqual(t, src.calls.Load(), int32(2))
	assert.Equal(t, []string{"a"}, f.Topics(3))
}

func TestHistoryFetcher_ErrorLeavesStreamUnloaded(t *testing.T) {
	store := openMemory(t)
	src := &fakeSource{err: errors.New("boom")}
	f := NewHistoryFetcher(store, src, FetcherOptions{})
	defer f.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.Error(t, f.Wait(ctx, 1))
	assert.False(t, f.Loaded(1))
}

func TestHistoryFetcher_CloseCancelsPending(t *testing.T) {
	store := openMemory(t)
	src := &fakeSource{release: make(chan struct{})}
	f := NewHistoryFetcher(store, src, FetcherOptions{PerSecond: 1, Burst: 1})

	f.Request(1)
	f.Request(2)
	f.Close()

	assert.False(t, f.Loaded(1))
	f.Request(3)
	assert.Equal(t, []string(nil), f.Topics(3))
}

func TestHistoryFetcher_RequestRacingClose(t *testing.T) {
	store := openMemory(t)
	src := &fakeSource{topics: map[int][]roster.Topic{}}
	f := NewHistoryFetcher(store, src, FetcherOptions{})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				f.Request(id*100 + j)
			}
		}(i)
	}
	f.Close()
	wg.Wait()

	calls := src.calls.Load()
	f.Request(9999)
	f.Close()
	assert.Equal(t, calls, src.calls.Load(), "no fetch starts after Close")
	assert.False(t, f.Loaded(9999))
}

func TestDirectorySource(t *testing.T) {
	dir, err := roster.NewDirectory(roster.Workspace{
		Streams: []roster.Stream{{ID: 1, Name: "general", Topics: []roster.Topic{{Name: "lunch"}}}},
	})
	require.NoError(t, err)

	topics, err := DirectorySource{Dir: dir}.FetchTopics(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, []roster.Topic{{Name: "lunch"}}, topics)

	_, err = DirectorySource{Dir: dir}.FetchTopics(context.Background(), 2)
	assert.ErrorIs(t, err, roster.ErrUnknownStream)
}
