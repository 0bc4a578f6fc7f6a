// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package typeahead

import (
	"slices"
	"strings"
)

// =============================================================================
// TRIAGE
// =============================================================================

// triaged splits items by how their key matches a query.
type triaged[T any] struct {
	exact             []T
	beginsSensitive   []T
	beginsInsensitive []T
	rest              []T
}

// matches returns the exact and prefix matches, best first.
func (t triaged[T]) matches() []T {
	out := make([]T, 0, len(t.exact)+len(t.beginsSensitive)+len(t.beginsInsensitive))
	out = append(out, t.exact...)
	out = append(out, t.beginsSensitive...)
	return append(out, t.beginsInsensitive...)
}

// triage puts each item in the first tier its key qualifies for: equal to
// the query ignoring case, starting with the query, starting with the query
// ignoring case, or none of these. cmp, if non-nil, orders each tier.
func triage[T any](query string, items []T, key func(T) string, cmp func(a, b T) int) triaged[T] {
	var t triaged[T]
	lowerQuery := strings.ToLower(query)
	for _, item := range items {
		k := key(item)
		lowerKey := strings.ToLower(k)
		switch {
		case lowerKey == lowerQuery:
			t.exact = append(t.exact, item)
		case strings.HasPrefix(k, query):
			t.beginsSensitive = append(t.beginsSensitive, item)
		case strings.HasPrefix(lowerKey, lowerQuery):
			t.beginsInsensitive = append(t.beginsInsensitive, item)
		default:
			t.rest = append(t.rest, item)
		}
	}
	if cmp != nil {
		slices.SortStableFunc(t.exact, cmp)
		slices.SortStableFunc(t.beginsSensitive, cmp)
		slices.SortStableFunc(t.beginsInsensitive, cmp)
		slices.SortStableFunc(t.rest, cmp)
	}
	return t
}

// sortByTriage orders items by match quality only.
func sortByTriage[T any](query string, items []T, key func(T) string, cmp func(a, b T) int) []T {
	t := triage(query, items, key, cmp)
	return append(t.matches(), t.rest...)
}

func compareFold(a, b string) int {
	if c := strings.Compare(strings.ToLower(a), strings.ToLower(b)); c != 0 {
		return c
	}
	return strings.Compare(a, b)
}

// =============================================================================
// MODE-SPECIFIC ORDERING
// =============================================================================

func (e *Engine) sortLanguages(items []LanguageSuggestion, query string) []LanguageSuggestion {
	return sortByTriage(query, items,
		func(s LanguageSuggestion) string { return s.Language },
		func(a, b LanguageSuggestion) int { return e.src.Languages.Compare(a.Language, b.Language) })
}

func sortSlashCommands(items []SlashSuggestion, query string) []SlashSuggestion {
	return sortByTriage(query, items,
		func(s SlashSuggestion) string { return s.Command.Name },
		func(a, b SlashSuggestion) int { return strings.Compare(a.Command.Name, b.Command.Name) })
}

func sortTopics(items []TopicSuggestion, query string) []TopicSuggestion {
	return sortByTriage(query, items, func(s TopicSuggestion) string { return s.Topic }, nil)
}

// sortStreams ranks by name, then by description; within a tier,
// subscribed streams come first, then alphabetical.
func sortStreams(items []StreamSuggestion, query string) []StreamSuggestion {
	cmp := func(a, b StreamSuggestion) int {
		if a.Stream.Subscribed != b.Stream.Subscribed {
			if a.Stream.Subscribed {
				return -1
			}
			return 1
		}
		return compareFold(a.Stream.Name, b.Stream.Name)
	}
	byName := triage(query, items, func(s StreamSuggestion) string { return s.Stream.Name }, cmp)
	byDesc := triage(query, byName.rest, func(s StreamSuggestion) string { return s.Stream.Description }, cmp)

	out := byName.matches()
	out = append(out, byDesc.matches()...)
	return append(out, byDesc.rest...)
}

// sortEmoji ranks a literal character match first, then exact names,
// popular emoji with a word matching the query, other names starting with
// the query and the rest. Ties go to the most used. Only the best alias of each unicode
// emoji is kept.
func (e *Engine) sortEmoji(items []EmojiSuggestion, query string) []EmojiSuggestion {
	literal := query
	query = strings.ToLower(strings.ReplaceAll(query, " ", "_"))

	popular := make(map[string]bool, len(e.opts.Compose.PopularEmojis))
	for _, code := range e.opts.Compose.PopularEmojis {
		popular[code] = true
	}
	wordMatch := func(name string) bool {
		for _, piece := range strings.Split(strings.ToLower(name), "_") {
			if strings.HasPrefix(piece, query) {
				return true
			}
		}
		return false
	}

	var tiers [5][]EmojiSuggestion
	for _, item := range items {
		name := strings.ToLower(item.Name)
		switch {
		case item.Glyph() != "" && item.Glyph() == literal:
			tiers[0] = append(tiers[0], item)
		case name == query:
			tiers[1] = append(tiers[1], item)
		case popular[item.Code] && wordMatch(name):
			tiers[2] = append(tiers[2], item)
		case strings.HasPrefix(name, query):
			tiers[3] = append(tiers[3], item)
		default:
			tiers[4] = append(tiers[4], item)
		}
	}

	byUsage := func(a, b EmojiSuggestion) int {
		return e.emojiUsage(b.Name) - e.emojiUsage(a.Name)
	}
	seen := make(map[string]bool)
	out := make([]EmojiSuggestion, 0, len(items))
	for _, tier := range tiers {
		slices.SortStableFunc(tier, byUsage)
		for _, item := range tier {
			if item.Code != "" && !item.IsRealm {
				if seen[item.Code] {
					continue
				}
				seen[item.Code] = true
			}
			out = append(out, item)
		}
	}
	return out
}

func (e *Engine) emojiUsage(name string) int {
	if e.src.Usage == nil {
		return 0
	}
	return e.src.Usage.EmojiUsage(name)
}

// =============================================================================
// PEOPLE
// =============================================================================

// personKey is the name a person-like suggestion sorts by.
func personName(s Suggestion) string {
	switch v := s.(type) {
	case UserSuggestion:
		return v.User.FullName
	case BroadcastSuggestion:
		return v.Name
	}
	return ""
}

func personEmail(s Suggestion) string {
	switch v := s.(type) {
	case UserSuggestion:
		return v.User.Email
	case BroadcastSuggestion:
		return v.Name
	}
	return ""
}

// comparePeople orders broadcasts first by their fixed index, then people
// subscribed to the current stream, recent senders in the current topic,
// recent senders overall and finally by name.
func (e *Engine) comparePeople(ctx ComposeContext, recency map[int]int) func(a, b Suggestion) int {
	var topicRank map[int]int
	if ctx.IsStream() && ctx.Topic != "" {
		senders := e.src.Directory.RecentTopicSenders(ctx.StreamID, ctx.Topic)
		topicRank = make(map[int]int, len(senders))
		for i, id := range senders {
			topicRank[id] = i
		}
	}

	return func(a, b Suggestion) int {
		ba, aIsBroadcast := a.(BroadcastSuggestion)
		bb, bIsBroadcast := b.(BroadcastSuggestion)
		switch {
		case aIsBroadcast && bIsBroadcast:
			return ba.Index - bb.Index
		case aIsBroadcast:
			return -1
		case bIsBroadcast:
			return 1
		}

		ua := a.(UserSuggestion).User
		ub := b.(UserSuggestion).User

		if ctx.IsStream() {
			sa := e.src.Directory.IsSubscribed(ctx.StreamID, ua.ID)
			sb := e.src.Directory.IsSubscribed(ctx.StreamID, ub.ID)
			if sa != sb {
				if sa {
					return -1
				}
				return 1
			}
		}

		if c := compareRank(topicRank, ua.ID, ub.ID); c != 0 {
			return c
		}
		if c := compareRank(recency, ua.ID, ub.ID); c != 0 {
			return c
		}
		return compareFold(ua.FullName, ub.FullName)
	}
}

// compareRank puts ranked IDs before unranked ones and lower ranks first.
func compareRank(rank map[int]int, a, b int) int {
	ra, okA := rank[a]
	rb, okB := rank[b]
	switch {
	case okA && okB:
		return ra - rb
	case okA:
		return -1
	case okB:
		return 1
	}
	return 0
}

// sortRecipients ranks people by name, then groups by name, then people by
// email, then the remaining people and groups. Lists are only built until
// limit entries are collected.
func (e *Engine) sortRecipients(query string, people []Suggestion, groups []GroupSuggestion, ctx ComposeContext, limit int) []Suggestion {
	recency := make(map[int]int)
	for i, u := range e.src.Directory.ActiveMessagePeople() {
		recency[u.ID] = i
	}
	relevance := e.comparePeople(ctx, recency)
	byGroupName := func(a, b GroupSuggestion) int { return compareFold(a.Group.Name, b.Group.Name) }

	names := triage(query, people, personName, relevance)
	emails := triage(query, names.rest, personEmail, relevance)
	groupTiers := triage(query, groups, func(g GroupSuggestion) string { return g.Group.Name }, byGroupName)

	getters := []func() []Suggestion{
		names.matches,
		func() []Suggestion { return groupsAsSuggestions(groupTiers.matches()) },
		emails.matches,
		func() []Suggestion { return emails.rest },
		func() []Suggestion { return groupsAsSuggestions(groupTiers.rest) },
	}

	var out []Suggestion
	for _, get := range getters {
		if limit > 0 && len(out) >= limit {
			break
		}
		out = append(out, get()...)
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

func groupsAsSuggestions(groups []GroupSuggestion) []Suggestion {
	out := make([]Suggestion, len(groups))
	for i, g := range groups {
		out[i] = g
	}
	return out
}
