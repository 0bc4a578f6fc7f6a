// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package typeahead

import (
	"regexp"
	"strconv"
	"strings"
)

// brokenLinkChars cannot appear inside #**stream>topic** syntax.
var brokenLinkChars = regexp.MustCompile("[`>*&\\[\\]]|(\\$\\$)")

var linkEscapes = map[string]string{
	"`":  "&#96;",
	">":  "&gt;",
	"*":  "&#42;",
	"&":  "&amp;",
	"$$": "&#36;&#36;",
	"[":  "&#91;",
	"]":  "&#93;",
}

// WillProduceBrokenLink reports whether name cannot be written with the
// #**...** syntax.
func WillProduceBrokenLink(name string) bool {
	return brokenLinkChars.MatchString(name)
}

func escapeLinkText(text string) string {
	return brokenLinkChars.ReplaceAllStringFunc(text, func(m string) string {
		return linkEscapes[m]
	})
}

// encodeHashComponent percent-encodes like a browser's
// encodeURIComponent, then swaps '%' for '.' and escapes the characters
// that are special in narrow URLs.
func encodeHashComponent(s string) string {
	const hex = "0123456789ABCDEF"
	var b strings.Builder
	for _, c := range []byte(s) {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9',
			strings.IndexByte("-_!~*'", c) >= 0:
			b.WriteByte(c)
		case c == '(':
			b.WriteString(".28")
		case c == ')':
			b.WriteString(".29")
		case c == '.':
			b.WriteString(".2E")
		default:
			b.WriteByte('.')
			b.WriteByte(hex[c>>4])
			b.WriteByte(hex[c&0x0f])
		}
	}
	return b.String()
}

// StreamURL is the narrow fragment for a stream.
func StreamURL(streamID int, name string) string {
	slug := strings.ReplaceAll(name, " ", "-")
	return "#narrow/channel/" + encodeHashComponent(strconv.Itoa(streamID)+"-"+slug)
}

// StreamTopicURL is the narrow fragment for a topic.
func StreamTopicURL(streamID int, stream, topic string) string {
	return StreamURL(streamID, stream) + "/topic/" + encodeHashComponent(topic)
}

// FallbackStreamLink is a markdown link to a stream whose name would break
// the #**...** syntax.
func FallbackStreamLink(streamID int, name string) string {
	return "[#" + escapeLinkText(name) + "](" + StreamURL(streamID, name) + ")"
}

// FallbackTopicLink is a markdown link to a topic.
func FallbackTopicLink(streamID int, stream, topic string) string {
	return "[#" + escapeLinkText(stream) + " > " + escapeLinkText(topic) + "](" +
		StreamTopicURL(streamID, stream, topic) + ")"
}

// streamTopicLink writes the link for stream>topic, falling back to a
// markdown link when either name cannot be written in #** syntax.
func (e *Engine) streamTopicLink(stream, topic string) string {
	if WillProduceBrokenLink(stream) || WillProduceBrokenLink(topic) {
		id := 0
		if s, ok := e.src.Directory.StreamByName(stream); ok {
			id = s.ID
		}
		return FallbackTopicLink(id, stream, topic)
	}
	return "#**" + stream + ">" + topic + "**"
}

// =============================================================================
// MENTIONS
// =============================================================================

// wildcardNames are the broadcast mentions. A person with one of these as
// a full name is always mentioned with their ID.
var wildcardNames = []string{"all", "everyone", "stream", "channel", "topic"}

func isWildcardName(name string) bool {
	for _, w := range wildcardNames {
		if name == w {
			return true
		}
	}
	return false
}

// MentionSyntax returns @**name** (or @_**name** when silent). userID 0
// means a broadcast, where "stream" is written as "channel". People whose
// names are ambiguous get a |id suffix.
func MentionSyntax(fullName string, userID int, silent, duplicate bool) string {
	var b strings.Builder
	if silent {
		b.WriteString("@_**")
	} else {
		b.WriteString("@**")
	}

	wildcard := isWildcardName(fullName)
	if wildcard && userID == 0 && fullName == "stream" {
		b.WriteString("channel")
	} else {
		b.WriteString(fullName)
	}
	if userID != 0 && (duplicate || wildcard) {
		b.WriteString("|")
		b.WriteString(strconv.Itoa(userID))
	}
	b.WriteString("**")
	return b.String()
}

// GroupMentionSyntax returns @*name* or @_*name*.
func GroupMentionSyntax(name string, silent bool) string {
	if silent {
		return "@_*" + name + "*"
	}
	return "@*" + name + "*"
}
