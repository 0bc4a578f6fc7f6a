// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// complete.go - Non-interactive completion for scripts and editors.

package cli

import (
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/spf13/cobra"

	"github.com/jeranaias/chatcompose/internal/typeahead"
)

const (
	fieldMessage   = "message"
	fieldRecipient = "recipient"
	fieldTopic     = "topic"
)

type completeFlags struct {
	field    string
	cursor   int
	selected int
	json     bool
}

func newCompleteCmd(s *session) *cobra.Command {
	var f completeFlags
	cmd := &cobra.Command{
		Use:   "complete [text]",
		Short: "Print suggestions for the text before the cursor",
		Long: `Print the typeahead suggestions for a draft message.

The draft is the argument, or standard input when the argument is "-".
--select N accepts the Nth suggestion and prints the resulting text.

--field recipient completes the direct message recipient input; picking a
group adds its members. --field topic completes the topic input of the
stream given by --stream.`,
		Example: `  chatcompose complete "hello @cor"
  chatcompose complete --select 1 "#gen"
  chatcompose complete --field recipient --to 2 --select 1 cor
  chatcompose complete --field topic --stream general gr
  echo "see :tad" | chatcompose complete --json -`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text := args[0]
			if text == "-" {
				data, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("failed to read draft: %w", err)
				}
				text = strings.TrimSuffix(string(data), "\n")
			}
			return runComplete(cmd, s, text, f)
		},
	}
	cmd.Flags().StringVar(&f.field, "field", fieldMessage, "input to complete: message, recipient or topic")
	cmd.Flags().IntVarP(&f.cursor, "cursor", "c", -1, "cursor position in characters (-1 for the end)")
	cmd.Flags().IntVar(&f.selected, "select", 0, "accept the Nth suggestion (1-based)")
	cmd.Flags().BoolVar(&f.json, "json", false, "output JSON")
	return cmd
}

func runComplete(cmd *cobra.Command, s *session, text string, f completeFlags) error {
	switch f.field {
	case fieldMessage, fieldRecipient, fieldTopic:
	default:
		return NewValidationErrorWithExample("field", f.field,
			"must be message, recipient or topic", "--field recipient")
	}

	length := utf8.RuneCountInString(text)
	cursor := f.cursor
	if cursor < 0 {
		cursor = length
	}
	if cursor > length {
		return NewValidationError("cursor", strconv.Itoa(f.cursor),
			fmt.Sprintf("past the end of the %d character draft", length))
	}

	app, err := NewApp(s.cfg, s.logger)
	if err != nil {
		return err
	}
	defer app.Close()

	composeCtx, err := app.ComposeContext(s.flags)
	if err != nil {
		return err
	}

	engine := app.NewEngine(waitingTopics{ctx: cmd.Context(), fetcher: app.Fetcher, logger: app.Logger})

	switch f.field {
	case fieldRecipient:
		return runCompleteRecipient(s, engine, text, composeCtx, f)
	case fieldTopic:
		return runCompleteTopic(s, engine, text, composeCtx, f)
	}

	items := engine.Candidates(text, cursor, composeCtx)

	data := CompleteData{
		Field:       fieldMessage,
		Mode:        engine.Mode(),
		Token:       engine.Token(),
		Tip:         engine.HeaderTip(),
		Suggestions: typeahead.Describe(items),
	}

	if f.selected != 0 {
		item, err := pick(items, f.selected)
		if err != nil {
			return err
		}
		res := engine.Apply(item, text, cursor, typeahead.ApplyOptions{Context: composeCtx})
		data.Applied = appliedData(f.selected, res)
	}

	return writeComplete(s, data, f.json)
}

// runCompleteRecipient completes the direct message recipient input. The
// recipients already chosen come from --to.
func runCompleteRecipient(s *session, engine *typeahead.Engine, query string, composeCtx typeahead.ComposeContext, f completeFlags) error {
	items := engine.RecipientCandidates(query, composeCtx.Recipients, composeCtx)
	data := CompleteData{
		Field:       fieldRecipient,
		Token:       query,
		Suggestions: typeahead.Describe(items),
	}

	if f.selected != 0 {
		item, err := pick(items, f.selected)
		if err != nil {
			return err
		}
		recipients := append([]int(nil), composeCtx.Recipients...)
		switch it := item.(type) {
		case typeahead.UserSuggestion:
			if !slices.Contains(recipients, it.User.ID) {
				recipients = append(recipients, it.User.ID)
			}
		case typeahead.GroupSuggestion:
			recipients = append(recipients, engine.ExpandGroupRecipients(it.Group, recipients)...)
		}
		data.Applied = &AppliedData{
			Index:      f.selected,
			Text:       item.Primary(),
			Recipients: recipients,
		}
	}
	return writeComplete(s, data, f.json)
}

// runCompleteTopic completes the topic input of the selected stream.
func runCompleteTopic(s *session, engine *typeahead.Engine, query string, composeCtx typeahead.ComposeContext, f completeFlags) error {
	if composeCtx.StreamID == 0 {
		return NewValidationErrorWithExample("stream", "",
			"topic completion needs a stream", "--field topic --stream general")
	}

	items := engine.TopicFieldCandidates(composeCtx.StreamID, query)
	data := CompleteData{
		Field:       fieldTopic,
		Token:       query,
		Suggestions: typeahead.Describe(items),
	}

	if f.selected != 0 {
		item, err := pick(items, f.selected)
		if err != nil {
			return err
		}
		topic := item.Primary()
		if t, ok := item.(typeahead.TopicSuggestion); ok {
			topic = t.Topic
		}
		data.Applied = &AppliedData{
			Index:    f.selected,
			Text:     topic,
			Cursor:   utf8.RuneCountInString(topic),
			NewTopic: engine.IsNewTopic(composeCtx.StreamID, topic),
		}
	}
	return writeComplete(s, data, f.json)
}

func pick(items []typeahead.Suggestion, n int) (typeahead.Suggestion, error) {
	if n < 1 || n > len(items) {
		return nil, NewValidationError("select", strconv.Itoa(n),
			fmt.Sprintf("there are %d suggestions", len(items)))
	}
	return items[n-1], nil
}

func writeComplete(s *session, data CompleteData, jsonMode bool) error {
	if jsonMode {
		return NewJSONResponse("complete", data).Print(s.out)
	}
	printComplete(s.out, data)
	return nil
}

func appliedData(index int, res typeahead.Result) *AppliedData {
	a := &AppliedData{
		Index:    index,
		Text:     res.Text,
		Cursor:   res.Cursor,
		Warnings: res.Warnings,
	}
	if res.Highlight != nil {
		start, end := res.Highlight.Start, res.Highlight.End
		a.HighlightStart = &start
		a.HighlightEnd = &end
	}
	if res.TimePicker != nil {
		a.TimePicker = typeahead.FormatTimestamp(res.TimePicker.Initial)
	}
	return a
}

func printComplete(w io.Writer, data CompleteData) {
	switch {
	case data.Field != fieldMessage && len(data.Suggestions) == 0:
		fmt.Fprintln(w, DimStyle.Render("No "+data.Field+" matches."))
	case data.Field == fieldMessage && data.Mode == typeahead.ModeNone:
		fmt.Fprintln(w, DimStyle.Render("No completion at the cursor."))
	default:
		if data.Field == fieldMessage {
			fmt.Fprintf(w, "%s %s\n", RenderLabel("Mode"), string(data.Mode))
		} else {
			fmt.Fprintf(w, "%s %s\n", RenderLabel("Field"), data.Field)
		}
		fmt.Fprintf(w, "%s %q\n", RenderLabel("Token"), data.Token)
		if data.Tip != "" {
			fmt.Fprintf(w, "%s %s\n", RenderLabel("Tip"), data.Tip)
		}
		for i, item := range data.Suggestions {
			line := fmt.Sprintf("%3d  %s", i+1, item.Primary)
			if item.Secondary != "" {
				line += "  " + DimStyle.Render(item.Secondary)
			}
			fmt.Fprintln(w, line)
		}
	}

	if data.Applied == nil {
		return
	}
	fmt.Fprintln(w, RenderSeparator(40))
	if data.Applied.TimePicker != "" {
		fmt.Fprintf(w, "%s %s\n", RenderLabel("Pick a time"), data.Applied.TimePicker)
		return
	}
	fmt.Fprintln(w, data.Applied.Text)
	switch data.Field {
	case fieldRecipient:
		fmt.Fprintf(w, "%s %s\n", RenderLabel("Recipients"), formatIDs(data.Applied.Recipients))
		return
	case fieldTopic:
		if data.Applied.NewTopic {
			fmt.Fprintln(w, DimStyle.Render("new topic"))
		}
		return
	}
	fmt.Fprintf(w, "%s %d\n", RenderLabel("Cursor"), data.Applied.Cursor)
	for _, warning := range data.Applied.Warnings {
		fmt.Fprintln(w, WarningStyle.Render("! "+warning))
	}
}

func formatIDs(ids []int) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.Itoa(id)
	}
	return strings.Join(parts, ",")
}
