// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package typeahead

import (
	"strconv"
	"strings"

	"github.com/jeranaias/chatcompose/internal/commands"
	"github.com/jeranaias/chatcompose/internal/roster"
)

// Kind identifies a Suggestion variant.
type Kind string

const (
	KindUser      Kind = "user"
	KindBroadcast Kind = "broadcast"
	KindGroup     Kind = "user_group"
	KindStream    Kind = "stream"
	KindEmoji     Kind = "emoji"
	KindSlash     Kind = "slash"
	KindTopic     Kind = "topic_list"
	KindLanguage  Kind = "syntax"
	KindTimeJump  Kind = "time_jump"
	KindTopicJump Kind = "topic_jump"
)

// Suggestion is one entry in the popup.
type Suggestion interface {
	Kind() Kind
	// Primary is the main display text.
	Primary() string
	// Secondary is shown dimmed next to Primary; may be empty.
	Secondary() string
}

// UserSuggestion is a person.
type UserSuggestion struct {
	User   roster.User
	Silent bool
}

func (s UserSuggestion) Kind() Kind        { return KindUser }
func (s UserSuggestion) Primary() string   { return s.User.FullName }
func (s UserSuggestion) Secondary() string { return s.User.Email }

// BroadcastSuggestion is a wildcard mention such as @all.
type BroadcastSuggestion struct {
	Name        string
	Description string
	// Index fixes the order among broadcasts.
	Index  int
	Silent bool
}

func (s BroadcastSuggestion) Kind() Kind        { return KindBroadcast }
func (s BroadcastSuggestion) Primary() string   { return s.Name }
func (s BroadcastSuggestion) Secondary() string { return s.Description }

// GroupSuggestion is a user group.
type GroupSuggestion struct {
	Group  roster.Group
	Silent bool
}

func (s GroupSuggestion) Kind() Kind        { return KindGroup }
func (s GroupSuggestion) Primary() string   { return s.Group.Name }
func (s GroupSuggestion) Secondary() string { return s.Group.Description }

// StreamSuggestion is a channel.
type StreamSuggestion struct {
	Stream roster.Stream
}

func (s StreamSuggestion) Kind() Kind        { return KindStream }
func (s StreamSuggestion) Primary() string   { return s.Stream.Name }
func (s StreamSuggestion) Secondary() string { return s.Stream.Description }

// EmojiSuggestion is one emoji name. Unicode emoji appear once per alias.
type EmojiSuggestion struct {
	Name    string
	Code    string
	IsRealm bool
	URL     string
}

func (s EmojiSuggestion) Kind() Kind      { return KindEmoji }
func (s EmojiSuggestion) Primary() string { return ":" + s.Name + ":" }
func (s EmojiSuggestion) Secondary() string {
	return s.Glyph()
}

// Glyph renders the emoji code as text; realm emoji have none.
func (s EmojiSuggestion) Glyph() string {
	return EmojiGlyph(s.Code)
}

// EmojiGlyph converts a code such as "1f44d" or "1f468-200d-1f469" into
// the characters it names. Malformed codes yield "".
func EmojiGlyph(code string) string {
	if code == "" {
		return ""
	}
	var b strings.Builder
	for _, part := range strings.Split(code, "-") {
		n, err := strconv.ParseUint(part, 16, 32)
		if err != nil {
			return ""
		}
		b.WriteRune(rune(n))
	}
	return b.String()
}

// SlashSuggestion is a slash command.
type SlashSuggestion struct {
	Command *commands.Command
}

func (s SlashSuggestion) Kind() Kind        { return KindSlash }
func (s SlashSuggestion) Primary() string   { return s.Command.Text() }
func (s SlashSuggestion) Secondary() string { return s.Command.Info }

// TopicSuggestion is a topic of the stream being linked, or a topic typed
// by the user that does not exist yet.
type TopicSuggestion struct {
	Topic string
	New   bool
}

func (s TopicSuggestion) Kind() Kind      { return KindTopic }
func (s TopicSuggestion) Primary() string { return s.Topic }
func (s TopicSuggestion) Secondary() string {
	if s.New {
		return "New"
	}
	return ""
}

// LanguageSuggestion is a code block language; "" is the plain fence.
type LanguageSuggestion struct {
	Language string
}

func (s LanguageSuggestion) Kind() Kind        { return KindLanguage }
func (s LanguageSuggestion) Primary() string   { return s.Language }
func (s LanguageSuggestion) Secondary() string { return "" }

// TimeJumpSuggestion opens the time picker.
type TimeJumpSuggestion struct {
	Message string
}

func (s TimeJumpSuggestion) Kind() Kind        { return KindTimeJump }
func (s TimeJumpSuggestion) Primary() string   { return s.Message }
func (s TimeJumpSuggestion) Secondary() string { return "" }

// TopicJumpSuggestion moves the cursor into a finished stream link.
type TopicJumpSuggestion struct{}

func (s TopicJumpSuggestion) Kind() Kind        { return KindTopicJump }
func (s TopicJumpSuggestion) Primary() string   { return "" }
func (s TopicJumpSuggestion) Secondary() string { return "" }

// Item is the serializable view of a Suggestion.
type Item struct {
	Kind      Kind   `json:"kind"`
	Primary   string `json:"primary"`
	Secondary string `json:"secondary,omitempty"`
}

// Describe converts suggestions for display or JSON output.
func Describe(items []Suggestion) []Item {
	out := make([]Item, len(items))
	for i, s := range items {
		out[i] = Item{Kind: s.Kind(), Primary: s.Primary(), Secondary: s.Secondary()}
	}
	return out
}
