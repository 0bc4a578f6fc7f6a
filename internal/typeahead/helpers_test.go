// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package typeahead

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jeranaias/chatcompose/internal/config"
	"github.com/jeranaias/chatcompose/internal/languages"
	"github.com/jeranaias/chatcompose/internal/roster"
)

const (
	idIago     = 1
	idOthello  = 2
	idCordelia = 3
	idHamlet   = 4
	idJose     = 6
	idAlice    = 7
	idAlice2   = 8
	idMuted    = 9
	idHarry    = 10
	idHidden   = 11

	streamGeneral  = 100
	streamDesign   = 101
	streamDevHelp  = 102
	streamSecret   = 103
	streamBroken   = 104
	streamGenetics = 105
)

var fixedNow = time.Date(2025, 6, 1, 13, 45, 12, 0, time.UTC)

func testWorkspace() roster.Workspace {
	return roster.Workspace{
		CurrentUserID: idIago,
		Users: []roster.User{
			{ID: idIago, FullName: "Iago", Email: "iago@zulip.com"},
			{ID: idOthello, FullName: "Othello Lane", Email: "othello@zulip.com"},
			{ID: idCordelia, FullName: "Cordelia Lear", Email: "cordelia@zulip.com"},
			{ID: idHamlet, FullName: "Hamlet", Email: "hamlet@zulip.com"},
			{ID: idJose, FullName: "José Martí", Email: "jose@zulip.com"},
			{ID: idAlice, FullName: "Alice Smith", Email: "alice@zulip.com"},
			{ID: idAlice2, FullName: "Alice Smith", Email: "alice2@zulip.com"},
			{ID: idMuted, FullName: "Mute Person", Email: "mute@zulip.com"},
			{ID: idHarry, FullName: "Harry Potter", Email: "hp@zulip.com"},
			{ID: idHidden, FullName: "Hidden User", Email: "hidden@zulip.com", Inaccessible: true},
		},
		Groups: []roster.Group{
			{ID: 20, Name: "backend", Description: "Backend team", Members: []int{idIago, idOthello}},
			{ID: 21, Name: "hamletcharacters", Description: "Characters of Hamlet", Members: []int{idHamlet}},
			{ID: 22, Name: "admins", Description: "Administrators", Members: []int{idOthello}, MentionRestricted: true},
			{ID: 23, Name: "secretgroup", Description: "Hush", Members: []int{idHidden}},
			{ID: 24, Name: "role:everyone", Members: []int{idIago}, IsSystem: true},
		},
		Streams: []roster.Stream{
			{ID: streamGeneral, Name: "general", Description: "General talk", Subscribed: true,
				Subscribers: []int{idIago, idOthello, idCordelia, idHarry}},
			{ID: streamDesign, Name: "design", Description: "Design and UX", Subscribers: []int{idCordelia}},
			{ID: streamDevHelp, Name: "dev help", Description: "Ask for help", Subscribed: true,
				Subscribers: []int{idIago}},
			{ID: streamSecret, Name: "secret", Description: "Private", InviteOnly: true, Subscribed: true,
				Subscribers: []int{idIago}},
			{ID: streamBroken, Name: "a*b", Description: "Odd name", Subscribed: true},
			{ID: streamGenetics, Name: "Genetics", Description: "Science"},
		},
		Emoji: []roster.Emoji{
			{Name: "thumbs_up", Code: "1f44d", Aliases: []string{"+1", "like", "thumbsup"}},
			{Name: "tada", Code: "1f389"},
			{Name: "heart", Code: "2764"},
			{Name: "octopus", Code: "1f419"},
			{Name: "thinking", Code: "1f914"},
			{Name: "heart_eyes", Code: "1f60d"},
			{Name: "zulip", IsRealm: true, URL: "/static/zulip.png"},
		},
		MutedUsers:    []int{idMuted},
		RecentSenders: []int{idHamlet, idOthello, idCordelia},
		TopicSenders: []roster.TopicSenders{
			{StreamID: streamGeneral, Topic: "lunch", UserIDs: []int{idCordelia}},
		},
	}
}

type fakeTopics map[int][]string

func (f fakeTopics) Topics(streamID int) []string {
	return append([]string(nil), f[streamID]...)
}

type fakeUsage map[string]int

func (f fakeUsage) EmojiUsage(name string) int {
	return f[name]
}

func testOptions() Options {
	cfg := config.Default()
	return Options{
		Compose: cfg.Compose,
		Realm:   cfg.Realm,
		Now:     func() time.Time { return fixedNow },
	}
}

func newTestEngine(t *testing.T, mutate ...func(*Sources, *Options)) *Engine {
	t.Helper()
	dir, err := roster.NewDirectory(testWorkspace())
	require.NoError(t, err)

	src := Sources{
		Directory: dir,
		Topics: fakeTopics{
			streamGeneral: {"lunch", "release planning", "a*b"},
		},
		Usage:     fakeUsage{},
		Languages: languages.New([]string{"python", "py", "pycon", "cpython", "javascript", "go"}),
	}
	opts := testOptions()
	for _, m := range mutate {
		m(&src, &opts)
	}
	return NewEngine(src, opts)
}

func streamCtx(id int, topic string) ComposeContext {
	return ComposeContext{MessageType: MessageStream, StreamID: id, Topic: topic}
}

func dmCtx(recipients ...int) ComposeContext {
	return ComposeContext{MessageType: MessagePrivate, Recipients: recipients}
}

// primaries lists the display text of each suggestion.
func primaries(items []Suggestion) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = item.Primary()
	}
	return out
}

// candidatesAtEnd runs Candidates with the cursor at the end of text.
func candidatesAtEnd(e *Engine, text string, ctx ComposeContext) []Suggestion {
	return e.Candidates(text, runeLen(text), ctx)
}
