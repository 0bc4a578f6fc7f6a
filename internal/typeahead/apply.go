// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package typeahead

import (
	"strings"
	"time"

	"go.uber.org/zap"
)

// spoilerPlaceholder is selected after completing a spoiler fence.
const spoilerPlaceholder = "Header"

// Range is a span of characters (runes), end exclusive.
type Range struct {
	Start int
	End   int
}

// TimePickerRequest asks the UI to let the user pick a time. The chosen
// value is written with ApplyTimestamp.
type TimePickerRequest struct {
	Initial time.Time
}

// Result is the outcome of accepting a suggestion.
type Result struct {
	Text string
	// Cursor is the new cursor position in characters.
	Cursor int
	// Highlight, if set, is placeholder text to select so typing
	// replaces it.
	Highlight *Range
	// Warnings are shown to the user but do not block the edit.
	Warnings []string
	// TimePicker is set for time jumps; Text is then unchanged.
	TimePicker *TimePickerRequest
}

// ApplyOptions carries the context of an accepted suggestion.
type ApplyOptions struct {
	// Key is the key that accepted the suggestion, if not Tab or Enter.
	Key     string
	Context ComposeContext
}

// Apply replaces the token before the cursor with the syntax for item.
// It relies on the mode and token recorded by the preceding Candidates
// call on the same text.
func (e *Engine) Apply(item Suggestion, text string, cursor int, opts ApplyOptions) Result {
	beginning, rest := SplitAtCursor(text, cursor)
	tokenLen := runeLen(e.token)

	var res Result

	if e.mode == ModeTopicJump {
		item = TopicJumpSuggestion{}
	}

	switch v := item.(type) {
	case EmojiSuggestion:
		idx := strings.LastIndex(beginning, ":")
		prefix := dropLastRunes(beginning, tokenLen+1)
		if idx == 0 || (idx > 0 && (beginning[idx-1] == ' ' || beginning[idx-1] == '\n')) {
			beginning = prefix + ":" + v.Name + ": "
		} else {
			beginning = prefix + " :" + v.Name + ": "
		}

	case UserSuggestion, BroadcastSuggestion, GroupSuggestion:
		beginning = trimMentionStart(dropLastRunes(beginning, tokenLen+1))
		beginning += e.mentionText(item, opts.Context, &res)

	case SlashSuggestion:
		beginning = dropLastRunes(beginning, tokenLen+1) + "/" + v.Command.Name + " "
		if ph := v.Command.Placeholder; ph != "" {
			start := runeLen(beginning)
			beginning += ph
			res.Highlight = &Range{Start: start, End: start + runeLen(ph)}
		}

	case StreamSuggestion:
		beginning = strings.TrimSuffix(dropLastRunes(beginning, tokenLen+1), "#*")
		name := v.Stream.Name
		switch {
		case opts.Key == ">":
			// The topic link is checked once the topic is chosen.
			beginning += "#**" + name + ">"
		case WillProduceBrokenLink(name):
			beginning += FallbackStreamLink(v.Stream.ID, name)
		default:
			beginning += "#**" + name + "** "
		}
		if w := e.privateStreamWarning(v, opts.Context); w != "" {
			res.Warnings = append(res.Warnings, w)
		}

	case LanguageSuggestion:
		r := []rune(beginning)
		fenceEnd := len(r) - tokenLen
		if fenceEnd < 0 {
			e.logger.Error("syntax token longer than text", zap.String("token", e.token))
			return Result{Text: text, Cursor: clampCursor(cursor, runeLen(text))}
		}
		beginning = string(r[:fenceEnd]) + v.Language
		if v.Language == "spoiler" {
			start := runeLen(beginning) + 1
			beginning += " " + spoilerPlaceholder
			res.Highlight = &Range{Start: start, End: start + runeLen(spoilerPlaceholder)}
		}
		if rest == "" {
			beginning += "\n"
			fenceStart := fenceEnd - 4
			if fenceStart < 0 {
				fenceStart = 0
			}
			fence := strings.TrimSpace(string([]rune(beginning)[fenceStart:fenceEnd]))
			rest = "\n" + fence
		}

	case TopicJumpSuggestion:
		if idx := strings.LastIndex(beginning, "**"); idx != -1 {
			beginning = beginning[:idx] + ">"
		}

	case TopicSuggestion:
		start := strings.LastIndex(beginning, "#**")
		typed := beginning[max(start, 0):]
		sep := strings.LastIndex(typed, ">")
		if start == -1 || sep < 3 {
			e.logger.Error("topic accepted without a stream link before the cursor",
				zap.String("text", beginning))
			return Result{Text: text, Cursor: clampCursor(cursor, runeLen(text))}
		}
		beginning = beginning[:start] + e.streamTopicLink(typed[3:sep], v.Topic) + " "

	case TimeJumpSuggestion:
		return Result{
			Text:       text,
			Cursor:     runeLen(beginning),
			TimePicker: &TimePickerRequest{Initial: TimestampForPicker(timeString(beginning), e.opts.Now())},
		}

	default:
		e.logger.Error("unknown suggestion type", zap.Any("item", item))
		return Result{Text: text, Cursor: clampCursor(cursor, runeLen(text))}
	}

	res.Text = beginning + rest
	res.Cursor = runeLen(beginning)
	return res
}

// trimMentionStart removes what is left of the mention sigil once the
// query has been cut off.
func trimMentionStart(s string) string {
	switch {
	case strings.HasSuffix(s, "@_*"):
		return s[:len(s)-3]
	case strings.HasSuffix(s, "@*"), strings.HasSuffix(s, "@_"):
		return s[:len(s)-2]
	case strings.HasSuffix(s, "@"):
		return s[:len(s)-1]
	}
	return s
}

func (e *Engine) mentionText(item Suggestion, ctx ComposeContext, res *Result) string {
	switch v := item.(type) {
	case GroupSuggestion:
		return GroupMentionSyntax(v.Group.Name, v.Silent) + " "

	case BroadcastSuggestion:
		return MentionSyntax(v.Name, 0, v.Silent, false) + " "

	case UserSuggestion:
		u := v.User
		dup := e.src.Directory.IsDuplicateFullName(u.FullName)
		text := MentionSyntax(u.FullName, u.ID, v.Silent, dup)
		if !v.Silent {
			if ctx.IsStream() && !e.src.Directory.IsSubscribed(ctx.StreamID, u.ID) {
				res.Warnings = append(res.Warnings,
					u.FullName+" will not be notified unless you subscribe them to this channel.")
			}
			// Mentioning the only recipient of a direct message notifies
			// nobody new.
			if ctx.IsPrivate() && len(ctx.Recipients) == 1 && ctx.Recipients[0] == u.ID {
				text = MentionSyntax(u.FullName, u.ID, true, dup)
			}
		}
		return text + " "
	}
	return ""
}

// privateStreamWarning warns when linking a private stream that some
// recipients of the current stream cannot see.
func (e *Engine) privateStreamWarning(linked StreamSuggestion, ctx ComposeContext) string {
	if !ctx.IsStream() || !linked.Stream.InviteOnly {
		return ""
	}
	current, ok := e.src.Directory.StreamByID(ctx.StreamID)
	if !ok || current.ID == linked.Stream.ID {
		return ""
	}
	for _, id := range current.Subscribers {
		if !e.src.Directory.IsSubscribed(linked.Stream.ID, id) {
			return "Some recipients may not be able to see #" + linked.Stream.Name +
				", because it is a private channel."
		}
	}
	return ""
}

// =============================================================================
// TIME JUMPS
// =============================================================================

// timeString extracts the value of the <time:...> marker before the cursor.
func timeString(beginning string) string {
	idx := strings.LastIndex(beginning, "<time:")
	if idx < 0 {
		return ""
	}
	s := strings.TrimPrefix(beginning[idx:], "<time:")
	return strings.TrimSuffix(s, ">")
}

var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// TimestampForPicker parses an ISO 8601 time. Anything else yields now,
// rounded down to the hour.
func TimestampForPicker(value string, now time.Time) time.Time {
	value = strings.TrimSpace(value)
	for _, layout := range timeLayouts {
		if t, err := time.ParseInLocation(layout, value, now.Location()); err == nil {
			return t
		}
	}
	return time.Date(now.Year(), now.Month(), now.Day(), now.Hour(), 0, 0, 0, now.Location())
}

// FormatTimestamp renders a picked time for a <time:...> marker.
func FormatTimestamp(t time.Time) string {
	return t.Format(time.RFC3339)
}

// ApplyTimestamp writes the picked time over the <time marker before the
// cursor, consuming a '>' right after the cursor.
func (e *Engine) ApplyTimestamp(text string, cursor int, value string) Result {
	beginning, rest := SplitAtCursor(text, cursor)
	idx := strings.LastIndex(beginning, "<time")
	if idx < 0 {
		e.logger.Error("timestamp picked without a <time marker", zap.String("text", beginning))
		idx = len(beginning)
	}
	beginning = beginning[:idx] + "<time:" + value + "> "
	rest = strings.TrimPrefix(rest, ">")
	return Result{Text: beginning + rest, Cursor: runeLen(beginning)}
}
