// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// This file defines the Bubble Tea message types of the compose view and
// the commands that produce them.
package chat

import (
	"context"
	"regexp"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/chatcompose/internal/commands"
	"github.com/jeranaias/chatcompose/internal/typeahead"
)

// =============================================================================
// DATA MESSAGES
// =============================================================================

// TopicsLoadedMsg signals that a stream's topic history finished loading.
type TopicsLoadedMsg struct {
	StreamID int
}

// WorkspaceReloadedMsg signals that the workspace file was reloaded.
type WorkspaceReloadedMsg struct {
	Err error
}

// UsageRecordedMsg reports the result of saving emoji usage.
type UsageRecordedMsg struct {
	Names []string
	Err   error
}

// =============================================================================
// SENT MESSAGES
// =============================================================================

// SentMessage is a message the user sent in this session.
type SentMessage struct {
	ID      string
	Kind    commands.OutcomeKind
	Body    string
	Options []string
	Context typeahead.ComposeContext
	Time    time.Time
}

// KindLabel names the message kind for display.
func (s SentMessage) KindLabel() string {
	switch s.Kind {
	case commands.OutcomeAction:
		return "action"
	case commands.OutcomePoll:
		return "poll"
	case commands.OutcomeTodo:
		return "to-do list"
	}
	return ""
}

// =============================================================================
// COMMAND CREATORS
// =============================================================================

// UsageRecorder persists emoji usage counts.
type UsageRecorder interface {
	RecordEmojiUsage(ctx context.Context, names []string) error
}

const usageTimeout = 5 * time.Second

var emojiPattern = regexp.MustCompile(`(?:^|[\s(]):([a-z0-9_+\-]+):`)

// EmojiNames returns the emoji names used in text, in order.
func EmojiNames(text string) []string {
	var names []string
	for _, m := range emojiPattern.FindAllStringSubmatch(text, -1) {
		names = append(names, m[1])
	}
	return names
}

// RecordUsageCmd saves the emoji used in a sent message.
func RecordUsageCmd(rec UsageRecorder, names []string) tea.Cmd {
	if rec == nil || len(names) == 0 {
		return nil
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), usageTimeout)
		defer cancel()
		return UsageRecordedMsg{Names: names, Err: rec.RecordEmojiUsage(ctx, names)}
	}
}
