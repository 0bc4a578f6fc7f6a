// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package typeahead

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/chatcompose/internal/roster"
)

// =============================================================================
// GENERAL
// =============================================================================

func TestCandidates_NoToken(t *testing.T) {
	e := newTestEngine(t)
	assert.Empty(t, candidatesAtEnd(e, "", streamCtx(streamGeneral, "")))
	assert.Empty(t, candidatesAtEnd(e, "plain text", streamCtx(streamGeneral, "")))
	assert.Equal(t, ModeNone, e.Mode())
}

func TestCandidates_CursorInsideWord(t *testing.T) {
	e := newTestEngine(t)
	text := "hello @alice"
	assert.Empty(t, e.Candidates(text, len("hello @ali"), streamCtx(streamGeneral, "")))

	text = "hello @ali there"
	assert.NotEmpty(t, e.Candidates(text, len("hello @ali"), streamCtx(streamGeneral, "")))
}

func TestCandidates_RespectsCap(t *testing.T) {
	inputs := []string{"@", "#g", ":t", "/", "```p", "#**general>"}
	for _, limit := range []int{1, 2, 3} {
		e := newTestEngine(t, func(_ *Sources, o *Options) { o.Compose.MaxItems = limit })
		e.SetDevelopmentEnvironment(true)
		for _, in := range inputs {
			items := candidatesAtEnd(e, in, streamCtx(streamGeneral, ""))
			assert.LessOrEqual(t, len(items), limit, in)
		}
	}
}

func TestDescribe(t *testing.T) {
	e := newTestEngine(t)
	got := Describe(candidatesAtEnd(e, "/po", streamCtx(streamGeneral, "")))
	want := []Item{{Kind: KindSlash, Primary: "/poll", Secondary: "Create a poll"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Describe mismatch (-want +got):\n%s", diff)
	}
}

// =============================================================================
// MENTIONS
// =============================================================================

func TestMention_Basic(t *testing.T) {
	e := newTestEngine(t)

	items := candidatesAtEnd(e, "hello @ali", streamCtx(streamGeneral, ""))
	assert.Equal(t, []string{"Alice Smith", "Alice Smith"}, primaries(items))
	assert.Equal(t, ModeMention, e.Mode())
	assert.Equal(t, "ali", e.Token())
	assert.Empty(t, e.HeaderTip())
}

func TestMention_StarsStripped(t *testing.T) {
	e := newTestEngine(t)

	for _, in := range []string{"@**oth", "@*oth", "@oth"} {
		items := candidatesAtEnd(e, in, streamCtx(streamGeneral, ""))
		assert.Equal(t, []string{"Othello Lane"}, primaries(items), in)
		assert.Equal(t, "oth", e.Token(), in)
	}
}

func TestMention_Rejected(t *testing.T) {
	e := newTestEngine(t)

	for _, in := range []string{"@ oth", "@**a*b", "@mute"} {
		assert.Empty(t, candidatesAtEnd(e, in, streamCtx(streamGeneral, "")), in)
	}
	candidatesAtEnd(e, "@ oth", streamCtx(streamGeneral, ""))
	assert.Equal(t, ModeNone, e.Mode())
}

func TestMention_Silent(t *testing.T) {
	e := newTestEngine(t)

	items := candidatesAtEnd(e, "@_al", streamCtx(streamGeneral, ""))
	assert.Equal(t, ModeSilentMention, e.Mode())
	assert.Equal(t, tipSilentMention, e.HeaderTip())
	for _, item := range items {
		assert.NotEqual(t, KindBroadcast, item.Kind(), "silent mentions never offer broadcasts")
		if u, ok := item.(UserSuggestion); ok {
			assert.True(t, u.Silent)
		}
	}
}

func TestMention_Broadcasts(t *testing.T) {
	e := newTestEngine(t, func(_ *Sources, o *Options) { o.Compose.MaxItems = 5 })

	items := candidatesAtEnd(e, "@", streamCtx(streamGeneral, ""))
	assert.Equal(t, []string{"all", "everyone", "stream", "channel", "topic"}, primaries(items))
	assert.Equal(t, "Notify channel", items[0].Secondary())
	assert.Equal(t, "Notify topic", items[4].Secondary())

	items = candidatesAtEnd(e, "@", dmCtx(idOthello))
	require.GreaterOrEqual(t, len(items), 2)
	assert.Equal(t, []string{"all", "everyone"}, primaries(items[:2]))
	assert.Equal(t, "Notify recipients", items[0].Secondary())
	assert.NotEqual(t, KindBroadcast, items[2].Kind())
}

func TestMention_BroadcastPermissions(t *testing.T) {
	e := newTestEngine(t, func(_ *Sources, o *Options) {
		o.Realm.StreamWildcardMentionAllowed = false
	})
	items := candidatesAtEnd(e, "@to", streamCtx(streamGeneral, ""))
	assert.Equal(t, []string{"topic"}, primaries(items))

	items = candidatesAtEnd(e, "@al", streamCtx(streamGeneral, ""))
	assert.Equal(t, []string{"Alice Smith", "Alice Smith"}, primaries(items))

	e = newTestEngine(t, func(_ *Sources, o *Options) {
		o.Realm.StreamWildcardMentionAllowed = false
		o.Realm.TopicWildcardMentionAllowed = false
	})
	assert.Empty(t, candidatesAtEnd(e, "@to", streamCtx(streamGeneral, "")))
}

func TestMention_BroadcastSortsAbovePeople(t *testing.T) {
	e := newTestEngine(t)
	items := candidatesAtEnd(e, "@al", streamCtx(streamGeneral, ""))
	assert.Equal(t, []string{"all", "Alice Smith", "Alice Smith"}, primaries(items))
}

func TestMention_SubscribersThenRecency(t *testing.T) {
	e := newTestEngine(t)

	items := candidatesAtEnd(e, "@ha", streamCtx(streamGeneral, ""))
	assert.Equal(t, []string{"Harry Potter", "Hamlet", "hamletcharacters"}, primaries(items))

	items = candidatesAtEnd(e, "@ha", streamCtx(streamDesign, ""))
	assert.Equal(t, []string{"Hamlet", "Harry Potter", "hamletcharacters"}, primaries(items))
}

func TestMention_TopicSendersFirst(t *testing.T) {
	e := newTestEngine(t)

	items := candidatesAtEnd(e, "@l", streamCtx(streamGeneral, "lunch"))
	assert.Equal(t, []string{"Cordelia Lear", "Othello Lane"}, primaries(items))

	items = candidatesAtEnd(e, "@l", streamCtx(streamGeneral, "other"))
	assert.Equal(t, []string{"Othello Lane", "Cordelia Lear"}, primaries(items))
}

func TestMention_WidensToAllUsers(t *testing.T) {
	e := newTestEngine(t)

	for _, in := range []string{"@jos", "@josé", "@mart"} {
		items := candidatesAtEnd(e, in, streamCtx(streamGeneral, ""))
		assert.Equal(t, []string{"José Martí"}, primaries(items), in)
	}
}

func TestMention_Email(t *testing.T) {
	e := newTestEngine(t)
	assert.Equal(t, []string{"Harry Potter"}, primaries(candidatesAtEnd(e, "@hp", streamCtx(streamGeneral, ""))))

	e = newTestEngine(t, func(_ *Sources, o *Options) { o.Realm.EmailsVisible = false })
	assert.Empty(t, candidatesAtEnd(e, "@hp", streamCtx(streamGeneral, "")))
}

func TestMention_Groups(t *testing.T) {
	e := newTestEngine(t)

	items := candidatesAtEnd(e, "@back", streamCtx(streamGeneral, ""))
	require.Len(t, items, 1)
	assert.Equal(t, KindGroup, items[0].Kind())

	assert.Empty(t, candidatesAtEnd(e, "@adm", streamCtx(streamGeneral, "")),
		"restricted groups are not offered to non-members")
	assert.Equal(t, []string{"admins"}, primaries(candidatesAtEnd(e, "@_adm", streamCtx(streamGeneral, ""))))
	assert.Empty(t, candidatesAtEnd(e, "@role", streamCtx(streamGeneral, "")), "system groups are hidden")
}

// =============================================================================
// STREAMS AND TOPICS
// =============================================================================

func TestStream_Candidates(t *testing.T) {
	e := newTestEngine(t)

	items := candidatesAtEnd(e, "#gen", streamCtx(streamGeneral, ""))
	assert.Equal(t, []string{"general", "Genetics"}, primaries(items))
	assert.Equal(t, ModeStream, e.Mode())
	assert.Equal(t, tipStream, e.HeaderTip())
	assert.True(t, e.TriggersSelection(">"))
	assert.False(t, e.TriggersSelection("a"))

	items = candidatesAtEnd(e, "#**gen", streamCtx(streamGeneral, ""))
	assert.Equal(t, []string{"general", "Genetics"}, primaries(items))

	items = candidatesAtEnd(e, "#help", streamCtx(streamGeneral, ""))
	assert.Equal(t, []string{"dev help"}, primaries(items))
}

func TestStream_SubscribedFirst(t *testing.T) {
	e := newTestEngine(t)
	items := candidatesAtEnd(e, "#d", streamCtx(streamGeneral, ""))
	assert.Equal(t, []string{"dev help", "design"}, primaries(items))
}

func TestStream_Rejected(t *testing.T) {
	e := newTestEngine(t)
	assert.Empty(t, candidatesAtEnd(e, "#", streamCtx(streamGeneral, "")))
	assert.Empty(t, candidatesAtEnd(e, "# gen", streamCtx(streamGeneral, "")))
	assert.False(t, e.TriggersSelection(">"))
}

func TestTopicJump(t *testing.T) {
	e := newTestEngine(t)

	for _, in := range []string{"#**general** >", "#**general**>"} {
		items := candidatesAtEnd(e, in, streamCtx(streamGeneral, ""))
		require.Len(t, items, 1, in)
		assert.Equal(t, KindTopicJump, items[0].Kind())
		assert.Equal(t, ModeTopicJump, e.Mode())
		assert.True(t, e.AutomatedSelection())
	}

	candidatesAtEnd(e, "#gen", streamCtx(streamGeneral, ""))
	assert.False(t, e.AutomatedSelection())
}

func TestTopicList(t *testing.T) {
	e := newTestEngine(t)

	items := candidatesAtEnd(e, "#**general>lu", streamCtx(streamGeneral, ""))
	assert.Equal(t, []string{"lu", "lunch"}, primaries(items))
	assert.Equal(t, "New", items[0].Secondary())
	assert.Equal(t, ModeTopicList, e.Mode())

	items = candidatesAtEnd(e, "#**general>lunch", streamCtx(streamGeneral, ""))
	assert.Equal(t, []string{"lunch"}, primaries(items))

	items = candidatesAtEnd(e, "#**general>", streamCtx(streamGeneral, ""))
	assert.Equal(t, []string{"lunch", "release planning", "a*b"}, primaries(items))

	items = candidatesAtEnd(e, "#**nowhere>foo", streamCtx(streamGeneral, ""))
	assert.Equal(t, []string{"foo"}, primaries(items))

	assert.Empty(t, candidatesAtEnd(e, "#**general> lu", streamCtx(streamGeneral, "")))
}

func TestTopicFieldCandidates(t *testing.T) {
	e := newTestEngine(t)

	assert.Equal(t, []string{"lu", "lunch"}, primaries(e.TopicFieldCandidates(streamGeneral, "lu")))
	assert.Equal(t, []string{"lunch"}, primaries(e.TopicFieldCandidates(streamGeneral, "lunch")))
	assert.Empty(t, e.TopicFieldCandidates(streamGeneral, "zzz"))
	assert.Len(t, e.TopicFieldCandidates(streamGeneral, ""), 3)

	assert.True(t, e.IsNewTopic(streamGeneral, "dinner"))
	assert.False(t, e.IsNewTopic(streamGeneral, "LUNCH"))
	assert.False(t, e.IsNewTopic(streamGeneral, "  "))
}

// =============================================================================
// EMOJI
// =============================================================================

func TestEmoji_Rejected(t *testing.T) {
	e := newTestEngine(t)
	for _, in := range []string{":", ":)", ":-)", ":-", ":P", ": tada", "x :", ":é", ":❤"} {
		assert.Empty(t, candidatesAtEnd(e, in, streamCtx(streamGeneral, "")), in)
	}
}

func TestEmoji_Ordering(t *testing.T) {
	e := newTestEngine(t)

	items := candidatesAtEnd(e, ":t", streamCtx(streamGeneral, ""))
	assert.Equal(t, []string{":thumbs_up:", ":tada:", ":thinking:"}, primaries(items))
	assert.Equal(t, ModeEmoji, e.Mode())

	items = candidatesAtEnd(e, ":heart", streamCtx(streamGeneral, ""))
	assert.Equal(t, []string{":heart:", ":heart_eyes:"}, primaries(items))

	items = candidatesAtEnd(e, ":eyes", streamCtx(streamGeneral, ""))
	assert.Equal(t, []string{":heart_eyes:"}, primaries(items))
}

func TestEmoji_NamePrefixBeforeWordPrefix(t *testing.T) {
	ws := testWorkspace()
	ws.Emoji = []roster.Emoji{
		{Name: "big_smile", Code: "1f604"},
		{Name: "smile_cat", Code: "1f638"},
	}
	dir, err := roster.NewDirectory(ws)
	require.NoError(t, err)
	e := newTestEngine(t, func(s *Sources, _ *Options) { s.Directory = dir })

	items := candidatesAtEnd(e, ":smi", streamCtx(streamGeneral, ""))
	assert.Equal(t, []string{":smile_cat:", ":big_smile:"}, primaries(items))
}

func TestEmoji_UsageBreaksTies(t *testing.T) {
	e := newTestEngine(t, func(s *Sources, _ *Options) {
		s.Usage = fakeUsage{"tada": 5}
	})
	items := candidatesAtEnd(e, ":t", streamCtx(streamGeneral, ""))
	assert.Equal(t, []string{":tada:", ":thumbs_up:", ":thinking:"}, primaries(items))
}

func TestEmoji_AliasesAndLiterals(t *testing.T) {
	e := newTestEngine(t)

	items := candidatesAtEnd(e, ":+1", streamCtx(streamGeneral, ""))
	assert.Equal(t, []string{":+1:"}, primaries(items))

	items = candidatesAtEnd(e, ":thumbs", streamCtx(streamGeneral, ""))
	assert.Equal(t, []string{":thumbs_up:"}, primaries(items), "one alias per codepoint")

	items = candidatesAtEnd(e, ":👍", streamCtx(streamGeneral, ""))
	require.Len(t, items, 1)
	assert.Equal(t, "👍", items[0].Secondary())

	items = candidatesAtEnd(e, ":zul", streamCtx(streamGeneral, ""))
	assert.Equal(t, []string{":zulip:"}, primaries(items))
}

// =============================================================================
// SLASH COMMANDS
// =============================================================================

func TestSlash(t *testing.T) {
	e := newTestEngine(t)

	assert.Equal(t, []string{"/me", "/poll", "/todo"}, primaries(candidatesAtEnd(e, "/", streamCtx(streamGeneral, ""))))
	assert.Equal(t, ModeSlash, e.Mode())
	assert.Equal(t, []string{"/poll"}, primaries(candidatesAtEnd(e, "/p", streamCtx(streamGeneral, ""))))
	assert.Empty(t, candidatesAtEnd(e, "/dar", streamCtx(streamGeneral, "")))
	assert.Empty(t, candidatesAtEnd(e, "hi /p", streamCtx(streamGeneral, "")))

	e.SetDevelopmentEnvironment(true)
	assert.Equal(t, []string{"/dark", "/light", "/me", "/poll", "/todo"},
		primaries(candidatesAtEnd(e, "/", streamCtx(streamGeneral, ""))))
	assert.Equal(t, []string{"/dark"}, primaries(candidatesAtEnd(e, "/ni", streamCtx(streamGeneral, ""))))
}

// =============================================================================
// SYNTAX
// =============================================================================

func TestSyntax(t *testing.T) {
	e := newTestEngine(t)

	items := candidatesAtEnd(e, "```py", streamCtx(streamGeneral, ""))
	assert.Equal(t, []string{"py", "python", "pycon", "cpython"}, primaries(items))
	assert.Equal(t, ModeSyntax, e.Mode())
	assert.Equal(t, "py", e.Token())

	items = candidatesAtEnd(e, "text\n~~~ py", streamCtx(streamGeneral, ""))
	assert.Equal(t, "py", e.Token())
	assert.Len(t, items, 4)

	assert.Empty(t, candidatesAtEnd(e, "```", streamCtx(streamGeneral, "")))
	assert.Empty(t, candidatesAtEnd(e, "``` ", streamCtx(streamGeneral, "")))
}

func TestSyntax_CodeFormattingButton(t *testing.T) {
	e := newTestEngine(t)

	e.SetCodeFormattingButton(true)
	items := candidatesAtEnd(e, "```", streamCtx(streamGeneral, ""))
	require.NotEmpty(t, items)
	assert.Equal(t, "", items[0].Primary(), "blank entry first")
	assert.Equal(t, "quote", items[1].Primary())

	assert.Empty(t, candidatesAtEnd(e, "```", streamCtx(streamGeneral, "")), "flag is consumed")

	e.SetCodeFormattingButton(true)
	assert.Empty(t, candidatesAtEnd(e, "``` ", streamCtx(streamGeneral, "")))
	assert.Empty(t, candidatesAtEnd(e, "```", streamCtx(streamGeneral, "")))
}

func TestSyntax_HeaderTip(t *testing.T) {
	e := newTestEngine(t, func(_ *Sources, o *Options) { o.Compose.DefaultCodeBlockLanguage = "python" })
	candidatesAtEnd(e, "```py", streamCtx(streamGeneral, ""))
	assert.Equal(t, "Default is python. Use 'text' to disable highlighting.", e.HeaderTip())

	e = newTestEngine(t)
	candidatesAtEnd(e, "```py", streamCtx(streamGeneral, ""))
	assert.Empty(t, e.HeaderTip())
}

// =============================================================================
// TIME JUMP
// =============================================================================

func TestTimeJump(t *testing.T) {
	e := newTestEngine(t)

	for _, in := range []string{"meet <time", "<time:", "<time:2024-03-05T10:00:00Z", "<time:2024-03-05T10:00:00Z>"} {
		items := candidatesAtEnd(e, in, streamCtx(streamGeneral, ""))
		require.Len(t, items, 1, in)
		assert.Equal(t, KindTimeJump, items[0].Kind())
		assert.Equal(t, "Mention a time-zone-aware time", items[0].Primary())
		assert.Equal(t, ModeTimeJump, e.Mode())
	}
}

// =============================================================================
// DIRECT MESSAGE RECIPIENTS
// =============================================================================

func TestRecipientCandidates(t *testing.T) {
	e := newTestEngine(t)

	items := e.RecipientCandidates("", nil, dmCtx())
	for _, item := range items {
		assert.NotEqual(t, KindBroadcast, item.Kind())
	}
	assert.Contains(t, primaries(items), "Iago")

	items = e.RecipientCandidates("", []int{idOthello}, dmCtx())
	assert.NotContains(t, primaries(items), "Othello Lane")
	assert.NotContains(t, primaries(items), "Iago", "current user is dropped once someone is chosen")

	assert.Equal(t, []string{"secretgroup"}, primaries(e.RecipientCandidates("secr", nil, dmCtx())))
	assert.Equal(t, []string{"admins"}, primaries(e.RecipientCandidates("adm", nil, dmCtx())))
}

func TestExpandGroupRecipients(t *testing.T) {
	e := newTestEngine(t)

	backend := roster.Group{ID: 20, Name: "backend", Members: []int{idIago, idOthello}}
	assert.Equal(t, []int{idOthello}, e.ExpandGroupRecipients(backend, nil))
	assert.Empty(t, e.ExpandGroupRecipients(backend, []int{idOthello}))

	mixed := roster.Group{ID: 30, Name: "mixed", Members: []int{
		idIago, idOthello, idHidden, 999, idCordelia, idCordelia, idHamlet,
	}}
	got := e.ExpandGroupRecipients(mixed, []int{idOthello})
	if diff := cmp.Diff([]int{idCordelia, idHamlet}, got); diff != "" {
		t.Errorf("expanded members mismatch (-want +got):\n%s", diff)
	}
}

func TestExpandGroupRecipients_SkipsDeactivated(t *testing.T) {
	ws := testWorkspace()
	for i := range ws.Users {
		if ws.Users[i].ID == idHamlet {
			ws.Users[i].Deactivated = true
		}
	}
	dir, err := roster.NewDirectory(ws)
	require.NoError(t, err)
	e := newTestEngine(t, func(s *Sources, _ *Options) { s.Directory = dir })

	chars := roster.Group{ID: 21, Name: "hamletcharacters", Members: []int{idHamlet, idCordelia}}
	assert.Equal(t, []int{idCordelia}, e.ExpandGroupRecipients(chars, nil))
}

func TestRecipientCandidates_Guest(t *testing.T) {
	e := newTestEngine(t, func(_ *Sources, o *Options) {
		o.Realm.IsGuest = true
		o.Realm.CanAccessAllUsers = false
	})
	assert.Empty(t, e.RecipientCandidates("secr", nil, dmCtx()))
	assert.Equal(t, []string{"backend"}, primaries(e.RecipientCandidates("back", nil, dmCtx())))
}
