// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package typeahead

// Mode is the kind of completion in progress. It is set by
// Engine.Candidates and read by the rest of the engine.
type Mode string

const (
	ModeNone          Mode = ""
	ModeMention       Mode = "mention"
	ModeSilentMention Mode = "silent_mention"
	ModeEmoji         Mode = "emoji"
	ModeStream        Mode = "stream"
	ModeSlash         Mode = "slash"
	ModeSyntax        Mode = "syntax"
	ModeTopicJump     Mode = "topic_jump"
	ModeTopicList     Mode = "topic_list"
	ModeTimeJump      Mode = "time_jump"
)

// Header tips shown above the popup.
const (
	tipStream        = "Press > for list of topics"
	tipSilentMention = "Silent mentions do not trigger notifications."
)

// HeaderTip returns the hint shown above the suggestions for the current
// mode, or "" when there is none.
func (e *Engine) HeaderTip() string {
	switch e.mode {
	case ModeStream:
		return tipStream
	case ModeSilentMention:
		return tipSilentMention
	case ModeSyntax:
		if lang := e.opts.Compose.DefaultCodeBlockLanguage; lang != "" {
			return "Default is " + lang + ". Use 'text' to disable highlighting."
		}
	}
	return ""
}

// Mode returns the completion mode set by the last Candidates call.
func (e *Engine) Mode() Mode {
	return e.mode
}

// Token returns the query extracted by the last Candidates call.
func (e *Engine) Token() string {
	return e.token
}

// AutomatedSelection reports whether the single suggestion should be
// accepted without user action. This is the case right after '>' follows a
// completed stream link, which moves the cursor inside the link.
func (e *Engine) AutomatedSelection() bool {
	return e.mode == ModeTopicJump
}

// TriggersSelection reports whether key accepts the highlighted suggestion
// in addition to Tab and Enter. Typing '>' on a stream suggestion completes
// the stream and starts the topic list.
func (e *Engine) TriggersSelection(key string) bool {
	return e.mode == ModeStream && key == ">"
}

// SetCodeFormattingButton records that a code fence was inserted by the
// code formatting command, so an empty fence still offers languages.
func (e *Engine) SetCodeFormattingButton(on bool) {
	e.codeButton = on
}

// Reset clears the completion state, e.g. when the popup is dismissed.
func (e *Engine) Reset() {
	e.mode = ModeNone
	e.token = ""
}
