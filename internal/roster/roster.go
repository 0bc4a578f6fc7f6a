// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package roster holds the workspace directory the composer completes
// against: people, user groups, streams, custom emoji and who sent what
// recently.
package roster

import (
	"errors"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	ErrUnknownUser   = errors.New("unknown user")
	ErrUnknownStream = errors.New("unknown stream")
	ErrBadWorkspace  = errors.New("invalid workspace")
)

// =============================================================================
// DIRECTORY ENTRIES
// =============================================================================

// User is a member of the organization.
type User struct {
	ID          int    `yaml:"id"`
	FullName    string `yaml:"full_name"`
	Email       string `yaml:"email"`
	IsBot       bool   `yaml:"is_bot,omitempty"`
	Deactivated bool   `yaml:"deactivated,omitempty"`
	// Inaccessible users are known only by ID to guests.
	Inaccessible bool      `yaml:"inaccessible,omitempty"`
	LastActive   time.Time `yaml:"last_active,omitempty"`
}

// Group is a user group that can be mentioned as @*name*.
type Group struct {
	ID          int    `yaml:"id"`
	Name        string `yaml:"name"`
	Description string `yaml:"description,omitempty"`
	Members     []int  `yaml:"members"`
	// System groups (role groups) never appear in typeaheads.
	IsSystem    bool `yaml:"is_system,omitempty"`
	Deactivated bool `yaml:"deactivated,omitempty"`
	// MentionRestricted groups can only be mentioned by their own members.
	MentionRestricted bool `yaml:"mention_restricted,omitempty"`
}

// Topic is a conversation inside a stream.
type Topic struct {
	Name          string `yaml:"name"`
	LastMessageID int64  `yaml:"last_message_id"`
}

// Stream is a channel.
type Stream struct {
	ID            int     `yaml:"id"`
	Name          string  `yaml:"name"`
	Description   string  `yaml:"description,omitempty"`
	InviteOnly    bool    `yaml:"invite_only,omitempty"`
	Subscribed    bool    `yaml:"subscribed,omitempty"`
	Subscribers   []int   `yaml:"subscribers,omitempty"`
	WeeklyTraffic int     `yaml:"weekly_traffic,omitempty"`
	Topics        []Topic `yaml:"topics,omitempty"`
}

// Emoji is a unicode emoji (with all its aliases) or a custom realm emoji.
type Emoji struct {
	Name    string   `yaml:"name"`
	Code    string   `yaml:"code,omitempty"`
	Aliases []string `yaml:"aliases,omitempty"`
	IsRealm bool     `yaml:"is_realm,omitempty"`
	URL     string   `yaml:"url,omitempty"`
}

// TopicSenders lists who wrote in a topic, most recent first.
type TopicSenders struct {
	StreamID int    `yaml:"stream_id"`
	Topic    string `yaml:"topic"`
	UserIDs  []int  `yaml:"user_ids"`
}

// Workspace is the serialized form of a Directory.
type Workspace struct {
	CurrentUserID int            `yaml:"current_user_id"`
	Users         []User         `yaml:"users"`
	Groups        []Group        `yaml:"groups,omitempty"`
	Streams       []Stream       `yaml:"streams,omitempty"`
	Emoji         []Emoji        `yaml:"emoji,omitempty"`
	MutedUsers    []int          `yaml:"muted_users,omitempty"`
	RecentSenders []int          `yaml:"recent_senders,omitempty"`
	TopicSenders  []TopicSenders `yaml:"topic_senders,omitempty"`
}

// =============================================================================
// DIRECTORY
// =============================================================================

// Directory is an indexed, reloadable view of a Workspace. It is safe for
// concurrent use: the file watcher replaces its contents while the UI reads.
type Directory struct {
	mu sync.RWMutex

	ws        Workspace
	users     map[int]User
	streams   map[int]Stream
	byName    map[string]int
	nameCount map[string]int
	muted     map[int]bool
	subs      map[int]map[int]bool
	senders   map[string][]int
}

// NewDirectory indexes ws.
func NewDirectory(ws Workspace) (*Directory, error) {
	d := &Directory{}
	if err := d.Replace(ws); err != nil {
		return nil, err
	}
	return d, nil
}

// Replace swaps in a new workspace after validating it.
func (d *Directory) Replace(ws Workspace) error {
	if err := validate(ws); err != nil {
		return err
	}

	users := make(map[int]User, len(ws.Users))
	nameCount := make(map[string]int)
	for _, u := range ws.Users {
		users[u.ID] = u
		if !u.Deactivated {
			nameCount[strings.ToLower(u.FullName)]++
		}
	}

	streams := make(map[int]Stream, len(ws.Streams))
	byName := make(map[string]int, len(ws.Streams))
	subs := make(map[int]map[int]bool, len(ws.Streams))
	for _, s := range ws.Streams {
		streams[s.ID] = s
		byName[strings.ToLower(s.Name)] = s.ID
		set := make(map[int]bool, len(s.Subscribers))
		for _, id := range s.Subscribers {
			set[id] = true
		}
		subs[s.ID] = set
	}

	muted := make(map[int]bool, len(ws.MutedUsers))
	for _, id := range ws.MutedUsers {
		muted[id] = true
	}

	senders := make(map[string][]int, len(ws.TopicSenders))
	for _, ts := range ws.TopicSenders {
		senders[topicKey(ts.StreamID, ts.Topic)] = ts.UserIDs
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	d.ws = ws
	d.users = users
	d.streams = streams
	d.byName = byName
	d.nameCount = nameCount
	d.muted = muted
	d.subs = subs
	d.senders = senders
	return nil
}

func validate(ws Workspace) error {
	seen := make(map[int]bool, len(ws.Users))
	for _, u := range ws.Users {
		if u.ID <= 0 {
			return errors.Join(ErrBadWorkspace, errors.New("user ids must be positive"))
		}
		if seen[u.ID] {
			return errors.Join(ErrBadWorkspace, errors.New("duplicate user id"))
		}
		if strings.TrimSpace(u.FullName) == "" {
			return errors.Join(ErrBadWorkspace, errors.New("user without full_name"))
		}
		seen[u.ID] = true
	}
	streamIDs := make(map[int]bool, len(ws.Streams))
	for _, s := range ws.Streams {
		if s.ID <= 0 || strings.TrimSpace(s.Name) == "" {
			return errors.Join(ErrBadWorkspace, errors.New("streams need an id and a name"))
		}
		if streamIDs[s.ID] {
			return errors.Join(ErrBadWorkspace, errors.New("duplicate stream id"))
		}
		streamIDs[s.ID] = true
	}
	return nil
}

func topicKey(streamID int, topic string) string {
	return strings.ToLower(topic) + "\x00" + strconv.Itoa(streamID)
}

// Snapshot returns a copy of the underlying workspace.
func (d *Directory) Snapshot() Workspace {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.ws
}

// =============================================================================
// PEOPLE
// =============================================================================

// CurrentUserID returns the ID of the person composing.
func (d *Directory) CurrentUserID() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.ws.CurrentUserID
}

// UserByID looks up a user.
func (d *Directory) UserByID(id int) (User, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	u, ok := d.users[id]
	return u, ok
}

// RealmUsers returns every active user.
func (d *Directory) RealmUsers() []User {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]User, 0, len(d.ws.Users))
	for _, u := range d.ws.Users {
		if !u.Deactivated {
			out = append(out, u)
		}
	}
	return out
}

// ActiveMessagePeople returns the active users who sent messages recently,
// most recent first.
func (d *Directory) ActiveMessagePeople() []User {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]User, 0, len(d.ws.RecentSenders))
	for _, id := range d.ws.RecentSenders {
		if u, ok := d.users[id]; ok && !u.Deactivated {
			out = append(out, u)
		}
	}
	return out
}

// IsMuted reports whether the current user muted id.
func (d *Directory) IsMuted(id int) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.muted[id]
}

// IsActive reports whether id belongs to an active user.
func (d *Directory) IsActive(id int) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	u, ok := d.users[id]
	return ok && !u.Deactivated
}

// IsDuplicateFullName reports whether more than one active user shares name.
func (d *Directory) IsDuplicateFullName(name string) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.nameCount[strings.ToLower(name)] > 1
}

// RecentTopicSenders returns who wrote in the topic, most recent first.
func (d *Directory) RecentTopicSenders(streamID int, topic string) []int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.senders[topicKey(streamID, topic)]
}

// =============================================================================
// GROUPS
// =============================================================================

// Groups returns the active non-system user groups.
func (d *Directory) Groups() []Group {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]Group, 0, len(d.ws.Groups))
	for _, g := range d.ws.Groups {
		if !g.IsSystem && !g.Deactivated {
			out = append(out, g)
		}
	}
	return out
}

// MentionableGroups returns the groups the current user may mention.
func (d *Directory) MentionableGroups() []Group {
	me := d.CurrentUserID()
	groups := d.Groups()
	out := groups[:0]
	for _, g := range groups {
		if !g.MentionRestricted || containsInt(g.Members, me) {
			out = append(out, g)
		}
	}
	return out
}

func containsInt(list []int, v int) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}

// =============================================================================
// STREAMS
// =============================================================================

// Streams returns every stream the current user can see, by name.
func (d *Directory) Streams() []Stream {
	d.mu.RLock()
	out := make([]Stream, len(d.ws.Streams))
	copy(out, d.ws.Streams)
	d.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name)
	})
	return out
}

// StreamByID looks up a stream.
func (d *Directory) StreamByID(id int) (Stream, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	s, ok := d.streams[id]
	return s, ok
}

// StreamByName looks up a stream by case-insensitive name.
func (d *Directory) StreamByName(name string) (Stream, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	id, ok := d.byName[strings.ToLower(name)]
	if !ok {
		return Stream{}, false
	}
	return d.streams[id], true
}

// IsSubscribed reports whether userID is subscribed to streamID.
func (d *Directory) IsSubscribed(streamID, userID int) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.subs[streamID][userID]
}

// SeedTopics returns the topics recorded for a stream in the workspace file.
func (d *Directory) SeedTopics(streamID int) ([]Topic, error) {
	s, ok := d.StreamByID(streamID)
	if !ok {
		return nil, ErrUnknownStream
	}
	out := make([]Topic, len(s.Topics))
	copy(out, s.Topics)
	return out, nil
}

// =============================================================================
// EMOJI
// =============================================================================

// Emoji returns the emoji set.
func (d *Directory) Emoji() []Emoji {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]Emoji, len(d.ws.Emoji))
	copy(out, d.ws.Emoji)
	return out
}
