// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package typeahead

import (
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/jeranaias/chatcompose/internal/commands"
	"github.com/jeranaias/chatcompose/internal/config"
	"github.com/jeranaias/chatcompose/internal/languages"
	"github.com/jeranaias/chatcompose/internal/roster"
)

// DefaultMaxItems caps candidate lists when no limit is configured.
const DefaultMaxItems = 50

// timeJumpMessage labels the time picker entry.
const timeJumpMessage = "Mention a time-zone-aware time"

var (
	// "#**stream** >" right before the cursor
	topicJumpRe = regexp.MustCompile(`#\*\*([^*>]+)\*\*\s?>$`)
	// "#**stream>partial topic" right before the cursor
	topicListRe = regexp.MustCompile(`#\*\*([^*>]+)>([^*]*)$`)
	timeJumpRe  = regexp.MustCompile(`<time(:([^>]*?)>?)?$`)
	// Emoticons such as ":-)" are not emoji queries.
	emoticonRe = regexp.MustCompile(`^:-.?$`)
)

// =============================================================================
// SOURCES
// =============================================================================

// Directory is the workspace data the engine completes against.
// *roster.Directory implements it.
type Directory interface {
	CurrentUserID() int
	UserByID(id int) (roster.User, bool)
	RealmUsers() []roster.User
	ActiveMessagePeople() []roster.User
	IsMuted(id int) bool
	IsDuplicateFullName(name string) bool
	IsSubscribed(streamID, userID int) bool
	RecentTopicSenders(streamID int, topic string) []int
	Groups() []roster.Group
	MentionableGroups() []roster.Group
	Streams() []roster.Stream
	StreamByID(id int) (roster.Stream, bool)
	StreamByName(name string) (roster.Stream, bool)
	Emoji() []roster.Emoji
}

// TopicSource lists the known topics of a stream, most recent first. It
// may fetch more in the background for later calls.
type TopicSource interface {
	Topics(streamID int) []string
}

// UsageSource reports how often the user has sent an emoji.
type UsageSource interface {
	EmojiUsage(name string) int
}

// Sources bundles the engine's data. Topics and Usage are optional.
type Sources struct {
	Directory Directory
	Topics    TopicSource
	Usage     UsageSource
	Languages *languages.Catalogue
	Commands  *commands.Registry
}

// Options configures an Engine.
type Options struct {
	Compose config.ComposeConfig
	Realm   config.RealmConfig
	Logger  *zap.Logger
	// Now is used to seed the time picker; defaults to time.Now.
	Now func() time.Time
}

// =============================================================================
// COMPOSE CONTEXT
// =============================================================================

// MessageType is the kind of message being composed.
type MessageType string

const (
	MessageStream  MessageType = "stream"
	MessagePrivate MessageType = "private"
)

// ComposeContext describes where the message goes.
type ComposeContext struct {
	MessageType MessageType
	StreamID    int
	Topic       string
	// Recipients are the direct message recipients.
	Recipients []int
}

// IsStream reports whether the message goes to a known stream.
func (c ComposeContext) IsStream() bool {
	return c.MessageType == MessageStream && c.StreamID != 0
}

// IsPrivate reports whether the message is a direct message.
func (c ComposeContext) IsPrivate() bool {
	return c.MessageType == MessagePrivate
}

// =============================================================================
// ENGINE
// =============================================================================

// Engine produces and applies suggestions for one input box.
type Engine struct {
	src    Sources
	opts   Options
	logger *zap.Logger

	mode       Mode
	token      string
	codeButton bool
}

// NewEngine creates an engine. Missing languages or commands fall back to
// the built-in catalogues.
func NewEngine(src Sources, opts Options) *Engine {
	if src.Languages == nil {
		src.Languages = languages.Default()
	}
	if src.Commands == nil {
		src.Commands = commands.NewRegistry()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{src: src, opts: opts, logger: logger}
}

// MaxItems is the cap applied to every candidate list.
func (e *Engine) MaxItems() int {
	if e.opts.Compose.MaxItems > 0 {
		return e.opts.Compose.MaxItems
	}
	return DefaultMaxItems
}

// SetDevelopmentEnvironment toggles the dev-only slash commands.
func (e *Engine) SetDevelopmentEnvironment(on bool) {
	e.opts.Compose.DevelopmentEnvironment = on
}

// Candidates lists the suggestions for the token before the cursor and
// records the completion mode. Anything that is not a completable token
// yields no suggestions.
func (e *Engine) Candidates(text string, cursor int, ctx ComposeContext) []Suggestion {
	items := e.candidates(text, cursor, ctx)
	if limit := e.MaxItems(); len(items) > limit {
		items = items[:limit]
	}
	return items
}

func (e *Engine) candidates(text string, cursor int, ctx ComposeContext) []Suggestion {
	e.Reset()

	before, after := SplitAtCursor(text, cursor)
	token := TokenizeComposeStr(before)
	if token == "" {
		return nil
	}
	if inWord(after) {
		return nil
	}

	if strings.HasPrefix(token, "```") || strings.HasPrefix(token, "~~~") {
		return e.syntaxCandidates(token)
	}
	if strings.HasPrefix(token, ":") {
		return e.emojiCandidates(token)
	}
	if strings.HasPrefix(token, "@") {
		return e.mentionCandidates(token, ctx)
	}
	if strings.HasPrefix(token, "/") {
		return e.slashCandidates(token)
	}

	if topicJumpRe.MatchString(before) {
		e.mode = ModeTopicJump
		e.token = ">"
		return []Suggestion{TopicJumpSuggestion{}}
	}
	if m := topicListRe.FindStringSubmatch(before); m != nil && m[1] != "" {
		return e.topicListCandidates(m[1], m[2])
	}

	if strings.HasPrefix(token, "#") {
		return e.streamCandidates(token)
	}

	if timeJumpRe.MatchString(before) {
		e.mode = ModeTimeJump
		return []Suggestion{TimeJumpSuggestion{Message: timeJumpMessage}}
	}
	return nil
}

// =============================================================================
// PER-MODE CANDIDATES
// =============================================================================

func (e *Engine) syntaxCandidates(token string) []Suggestion {
	if token == "```" || token == "~~~" {
		if !e.codeButton {
			return nil
		}
	}

	query := token[3:]
	if query == " " {
		e.codeButton = false
		return nil
	}
	query = strings.TrimPrefix(query, " ")

	e.mode = ModeSyntax
	e.token = query

	names := e.src.Languages.Names()
	if e.codeButton {
		names = append([]string{""}, names...)
	}
	e.codeButton = false

	var matches []LanguageSuggestion
	for _, name := range names {
		if matchesLanguage(query, name) {
			matches = append(matches, LanguageSuggestion{Language: name})
		}
	}
	return toSuggestions(e.sortLanguages(matches, query))
}

// isEmojiQuery rejects ":" alone, emoticons like ":-)" or ":P", and a
// space after the colon.
func isEmojiQuery(token string) bool {
	if emoticonRe.MatchString(token) {
		return false
	}
	r := []rune(token)
	if len(r) == 1 {
		return false
	}
	// A single character other than "+" or a lowercase letter is not a
	// query, except emoji outside the BMP typed as glyphs.
	if len(r) == 2 && r[1] <= 0xFFFF && r[1] != '+' && (r[1] < 'a' || r[1] > 'z') {
		return false
	}
	return r[1] != ' '
}

func (e *Engine) emojiCandidates(token string) []Suggestion {
	if !isEmojiQuery(token) {
		return nil
	}
	e.mode = ModeEmoji
	e.token = token[1:]

	var matches []EmojiSuggestion
	for _, item := range e.emojiCollection() {
		if matchesEmoji(e.token, item) {
			matches = append(matches, item)
		}
	}
	return toSuggestions(e.sortEmoji(matches, e.token))
}

// emojiCollection expands unicode emoji into one entry per name.
func (e *Engine) emojiCollection() []EmojiSuggestion {
	var out []EmojiSuggestion
	for _, em := range e.src.Directory.Emoji() {
		if em.IsRealm {
			out = append(out, EmojiSuggestion{Name: em.Name, IsRealm: true, URL: em.URL})
			continue
		}
		out = append(out, EmojiSuggestion{Name: em.Name, Code: em.Code})
		for _, alias := range em.Aliases {
			if alias != em.Name {
				out = append(out, EmojiSuggestion{Name: alias, Code: em.Code})
			}
		}
	}
	return out
}

// filterMentionName strips the ** or * that starts a mention. A further
// '*' or a leading space means nothing is being typed.
func filterMentionName(token string) (string, bool) {
	if strings.HasPrefix(token, "**") {
		token = token[2:]
	} else if strings.HasPrefix(token, "*") {
		token = token[1:]
	}
	if strings.Contains(token, "*") || strings.HasPrefix(token, " ") {
		return "", false
	}
	return token, true
}

func (e *Engine) mentionCandidates(token string, ctx ComposeContext) []Suggestion {
	token = token[1:]
	silent := strings.HasPrefix(token, "_")
	if silent {
		token = token[1:]
	}
	query, ok := filterMentionName(token)
	if !ok {
		return nil
	}

	e.mode = ModeMention
	if silent {
		e.mode = ModeSilentMention
	}
	e.token = query

	items := e.personSuggestions(query, personOptions{
		wantBroadcast:    !silent,
		groupsForMention: !silent,
		silent:           silent,
	}, ctx)
	return items
}

func (e *Engine) slashCandidates(token string) []Suggestion {
	e.mode = ModeSlash
	e.token = token[1:]
	query := CleanQueryLowercase(e.token)

	var matches []SlashSuggestion
	for _, cmd := range e.src.Commands.Available(e.opts.Compose.DevelopmentEnvironment) {
		if QueryMatchesStringInOrder(query, cmd.Name, " ") ||
			QueryMatchesStringInOrder(query, strings.Join(cmd.Aliases, " "), " ") {
			matches = append(matches, SlashSuggestion{Command: cmd})
		}
	}
	return toSuggestions(sortSlashCommands(matches, e.token))
}

func (e *Engine) topicListCandidates(streamName, query string) []Suggestion {
	e.mode = ModeTopicList
	e.token = query
	if strings.HasPrefix(query, " ") {
		return nil
	}

	var topics []string
	if s, ok := e.src.Directory.StreamByName(streamName); ok {
		topics = e.topicsFor(s.ID)
	}

	var items []TopicSuggestion
	for _, t := range topics {
		items = append(items, TopicSuggestion{Topic: t})
	}
	if showCustomQuery(query, topics) {
		items = append(items, TopicSuggestion{Topic: query, New: true})
	}

	cleaned := CleanQueryLowercase(query)
	var matches []TopicSuggestion
	for _, item := range items {
		if QueryMatchesStringInOrder(cleaned, item.Topic, " ") {
			matches = append(matches, item)
		}
	}
	return toSuggestions(sortTopics(matches, query))
}

// showCustomQuery reports whether a typed topic is not among the known
// ones.
func showCustomQuery(query string, topics []string) bool {
	if query == "" {
		return false
	}
	for _, t := range topics {
		if strings.EqualFold(t, query) {
			return false
		}
	}
	return true
}

func (e *Engine) topicsFor(streamID int) []string {
	if e.src.Topics == nil || streamID == 0 {
		return nil
	}
	return e.src.Topics.Topics(streamID)
}

func (e *Engine) streamCandidates(token string) []Suggestion {
	if token == "#" {
		return nil
	}
	token = strings.TrimPrefix(token[1:], "**")
	if strings.HasPrefix(token, " ") {
		return nil
	}

	e.mode = ModeStream
	e.token = token
	query := CleanQueryLowercase(token)

	var matches []StreamSuggestion
	for _, s := range e.src.Directory.Streams() {
		if QueryMatchesStringInOrder(query, s.Name, " ") {
			matches = append(matches, StreamSuggestion{Stream: s})
		}
	}
	return toSuggestions(sortStreams(matches, token))
}

// =============================================================================
// PEOPLE AND GROUPS
// =============================================================================

type personOptions struct {
	wantBroadcast    bool
	groupsForMention bool
	groupsForGuests  bool
	silent           bool
	taken            map[int]bool
}

// BroadcastMentions lists the wildcard mentions allowed in ctx.
func (e *Engine) BroadcastMentions(ctx ComposeContext) []BroadcastSuggestion {
	var names []string
	switch {
	case ctx.IsPrivate():
		names = []string{"all", "everyone"}
	case e.opts.Realm.StreamWildcardMentionAllowed:
		names = []string{"all", "everyone", "stream", "channel", "topic"}
	case e.opts.Realm.TopicWildcardMentionAllowed:
		names = []string{"topic"}
	}

	out := make([]BroadcastSuggestion, len(names))
	for i, name := range names {
		desc := "Notify channel"
		switch {
		case ctx.IsPrivate():
			desc = "Notify recipients"
		case name == "topic":
			desc = "Notify topic"
		}
		out[i] = BroadcastSuggestion{Name: name, Description: desc, Index: i}
	}
	return out
}

func (e *Engine) matchesPerson(query string, u roster.User) bool {
	if QueryMatchesStringInOrder(query, u.FullName, " ") {
		return true
	}
	return e.opts.Realm.EmailsVisible && u.Email != "" &&
		strings.HasPrefix(strings.ToLower(u.Email), query)
}

func (e *Engine) personSuggestions(query string, o personOptions, ctx ComposeContext) []Suggestion {
	query = CleanQueryLowercase(query)

	filterPeople := func(users []roster.User) []Suggestion {
		var out []Suggestion
		for _, u := range users {
			if o.taken[u.ID] || e.src.Directory.IsMuted(u.ID) {
				continue
			}
			if e.matchesPerson(query, u) {
				out = append(out, UserSuggestion{User: u, Silent: o.silent})
			}
		}
		if o.wantBroadcast {
			for _, b := range e.BroadcastMentions(ctx) {
				if QueryMatchesStringInOrder(query, b.Name, " ") {
					b.Silent = o.silent
					out = append(out, b)
				}
			}
		}
		return out
	}

	var groups []roster.Group
	switch {
	case o.groupsForMention:
		groups = e.src.Directory.MentionableGroups()
	case o.groupsForGuests && !e.opts.Realm.CanAccessAllUsers:
		for _, g := range e.src.Directory.Groups() {
			if e.allMembersVisible(g) {
				groups = append(groups, g)
			}
		}
	default:
		groups = e.src.Directory.Groups()
	}

	var groupItems []GroupSuggestion
	for _, g := range groups {
		if QueryMatchesStringInOrder(query, g.Name, " ") {
			groupItems = append(groupItems, GroupSuggestion{Group: g, Silent: o.silent})
		}
	}

	// Recent senders are more selective; widen to everyone only when
	// they do not fill the list.
	cutoff := e.MaxItems()
	people := filterPeople(e.src.Directory.ActiveMessagePeople())
	if len(people) < cutoff {
		people = filterPeople(e.src.Directory.RealmUsers())
	}

	return e.sortRecipients(query, people, groupItems, ctx, cutoff)
}

func (e *Engine) allMembersVisible(g roster.Group) bool {
	for _, id := range g.Members {
		u, ok := e.src.Directory.UserByID(id)
		if !ok || u.Inaccessible {
			return false
		}
	}
	return true
}

// RecipientCandidates lists people and groups for the direct message
// recipient field. taken are the recipients already chosen; the current
// user is left out once anyone is chosen.
func (e *Engine) RecipientCandidates(query string, taken []int, ctx ComposeContext) []Suggestion {
	takenSet := make(map[int]bool, len(taken))
	for _, id := range taken {
		takenSet[id] = true
	}

	items := e.personSuggestions(query, personOptions{
		groupsForGuests: true,
		taken:           takenSet,
	}, ctx)

	me := e.src.Directory.CurrentUserID()
	out := items[:0]
	for _, item := range items {
		if u, ok := item.(UserSuggestion); ok && u.User.ID == me && len(taken) > 0 {
			continue
		}
		if _, ok := item.(BroadcastSuggestion); ok {
			e.logger.Error("broadcast mention offered as a recipient", zap.String("query", query))
			continue
		}
		out = append(out, item)
	}
	return out
}

// ExpandGroupRecipients returns the members of g to add when the group is
// picked in the recipient field. Deactivated and inaccessible members,
// the current user, and anyone already in taken are left out.
func (e *Engine) ExpandGroupRecipients(g roster.Group, taken []int) []int {
	seen := make(map[int]bool, len(taken)+1)
	for _, id := range taken {
		seen[id] = true
	}
	seen[e.src.Directory.CurrentUserID()] = true

	var out []int
	for _, id := range g.Members {
		if seen[id] {
			continue
		}
		u, ok := e.src.Directory.UserByID(id)
		if !ok || u.Deactivated || u.Inaccessible {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

// TopicFieldCandidates lists topics for the topic input of a stream
// message. The typed topic is offered first when it is not an existing
// one.
func (e *Engine) TopicFieldCandidates(streamID int, query string) []Suggestion {
	topics := e.topicsFor(streamID)

	lower := strings.ToLower(query)
	var items []TopicSuggestion
	for _, t := range topics {
		if strings.Contains(strings.ToLower(t), lower) {
			items = append(items, TopicSuggestion{Topic: t})
		}
	}
	sorted := sortTopics(items, query)

	if len(sorted) > 0 && query != "" {
		found := false
		for _, t := range sorted {
			if t.Topic == query {
				found = true
				break
			}
		}
		if !found {
			sorted = append([]TopicSuggestion{{Topic: query, New: true}}, sorted...)
		}
	}

	out := toSuggestions(sorted)
	if limit := e.MaxItems(); len(out) > limit {
		out = out[:limit]
	}
	return out
}

// IsNewTopic reports whether topic does not exist yet in the stream.
func (e *Engine) IsNewTopic(streamID int, topic string) bool {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return false
	}
	for _, t := range e.topicsFor(streamID) {
		if strings.EqualFold(t, topic) {
			return false
		}
	}
	return true
}

func toSuggestions[T Suggestion](items []T) []Suggestion {
	out := make([]Suggestion, len(items))
	for i, item := range items {
		out[i] = item
	}
	return out
}
