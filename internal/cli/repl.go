// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// repl.go - Line-mode composer with Tab completion.
//
// The repl is for terminals where the full-screen view is unwanted. It
// uses liner for history and line editing and completes the word under
// the cursor with the same engine as the compose view.

package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/peterh/liner"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jeranaias/chatcompose/internal/commands"
	"github.com/jeranaias/chatcompose/internal/config"
	"github.com/jeranaias/chatcompose/internal/typeahead"
	"github.com/jeranaias/chatcompose/internal/ui/chat"
)

const historyFileName = "compose_history"

func newReplCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Compose messages one line at a time",
		Long: `Compose messages in line mode. Tab completes mentions, streams,
topics, emoji and commands. Type \n for a line break, "exit" to quit.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRepl(cmd.Context(), s)
		},
	}
}

// =============================================================================
// LINE EDITOR
// =============================================================================

// LineEditor wraps liner with a persistent history file.
type LineEditor struct {
	line        *liner.State
	historyFile string
}

// NewLineEditor creates a line editor whose Tab key calls complete.
func NewLineEditor(complete liner.WordCompleter) *LineEditor {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)
	line.SetTabCompletionStyle(liner.TabPrints)
	line.SetWordCompleter(complete)

	configDir, err := config.ConfigDir()
	if err != nil {
		configDir = os.TempDir()
	}

	e := &LineEditor{
		line:        line,
		historyFile: filepath.Join(configDir, historyFileName),
	}
	e.LoadHistory()
	return e
}

// LoadHistory loads input history from file.
func (e *LineEditor) LoadHistory() {
	if f, err := os.Open(e.historyFile); err == nil {
		_, _ = e.line.ReadHistory(f)
		f.Close()
	}
}

// ReadInput reads a line. Non-empty input is added to the history.
func (e *LineEditor) ReadInput(prompt string) (string, error) {
	input, err := e.line.Prompt(prompt)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(input) != "" {
		e.line.AppendHistory(input)
	}
	return input, nil
}

// SaveHistory writes the history file, owner read/write only.
func (e *LineEditor) SaveHistory() {
	if err := os.MkdirAll(filepath.Dir(e.historyFile), 0o700); err != nil {
		return
	}
	f, err := os.OpenFile(e.historyFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return
	}
	defer f.Close()
	_, _ = e.line.WriteHistory(f)
}

// Close saves history and restores the terminal.
func (e *LineEditor) Close() {
	e.SaveHistory()
	e.line.Close()
}

// =============================================================================
// COMPLETION
// =============================================================================

// completeWord adapts the typeahead engine to liner's word completer.
// Each completion is the text before the cursor after accepting one
// suggestion. Suggestions that need a picker or rewrite the text after the
// cursor cannot be expressed and are skipped.
func completeWord(engine *typeahead.Engine, ctx typeahead.ComposeContext, line string, pos int) (string, []string, string) {
	items := engine.Candidates(line, pos, ctx)
	_, tail := typeahead.SplitAtCursor(line, pos)

	var completions []string
	for _, item := range items {
		res := engine.Apply(item, line, pos, typeahead.ApplyOptions{Context: ctx})
		if res.TimePicker != nil {
			continue
		}
		head, rest := typeahead.SplitAtCursor(res.Text, res.Cursor)
		if rest != tail {
			continue
		}
		completions = append(completions, head)
	}
	return "", completions, tail
}

// =============================================================================
// REPL SESSION
// =============================================================================

// replSession sends lines typed at the prompt.
type replSession struct {
	app      *App
	context  typeahead.ComposeContext
	parser   *commands.Parser
	devMode  bool
	style    string
	renderer *glamour.TermRenderer
	out      io.Writer
	errOut   io.Writer
	sent     int
	logger   *zap.Logger
}

func newReplSession(app *App, composeCtx typeahead.ComposeContext, out, errOut io.Writer) *replSession {
	r := &replSession{
		app:     app,
		context: composeCtx,
		parser:  commands.NewParser(commands.NewRegistry()),
		devMode: app.Config.Compose.DevelopmentEnvironment,
		out:     out,
		errOut:  errOut,
		logger:  app.Logger.With(zap.String("session", app.SessionID)),
	}
	r.setStyle(app.Config.UI.Theme)
	return r
}

func runRepl(ctx context.Context, s *session) error {
	if err := RequiresTTY("start the repl"); err != nil {
		return err
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

	r := newReplSession(app, composeCtx, s.out, s.errOut)
	editor := NewLineEditor(func(line string, pos int) (string, []string, string) {
		return completeWord(app.Engine, r.context, line, pos)
	})
	defer editor.Close()

	fmt.Fprintln(r.out, TitleStyle.Render("chatcompose")+" "+DimStyle.Render(chat.Destination(app.Directory, composeCtx)))
	fmt.Fprintln(r.out, DimStyle.Render(`Tab completes. \n breaks the line. "exit" quits.`))

	for {
		if ctx.Err() != nil {
			return nil
		}
		input, err := editor.ReadInput(PromptStyle.Render("> "))
		if err != nil {
			// Ctrl+C, Ctrl+D or a closed terminal all end the session.
			if err != liner.ErrPromptAborted && err != io.EOF {
				r.logger.Warn("repl input failed", zap.Error(err))
			}
			fmt.Fprintln(r.out)
			r.printSummary()
			return nil
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		if strings.EqualFold(input, "exit") || strings.EqualFold(input, "quit") {
			r.printSummary()
			return nil
		}

		if err := r.processLine(ctx, input); err != nil {
			fmt.Fprintf(r.errOut, "%s %v\n", ErrorStyle.Render("[Error]"), err)
		}
	}
}

// setStyle switches the glamour style used to echo sent messages.
func (r *replSession) setStyle(style string) {
	if style != "light" {
		style = "dark"
	}
	if style == r.style && r.renderer != nil {
		return
	}
	renderer, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(GetTerminalWidth()-4),
	)
	if err != nil {
		r.logger.Warn("markdown renderer unavailable", zap.Error(err))
		renderer = nil
	}
	r.style = style
	r.renderer = renderer
}

// processLine sends one line, or applies it if it is a command.
func (r *replSession) processLine(ctx context.Context, input string) error {
	text := strings.ReplaceAll(input, `\n`, "\n")
	outcome := r.parser.Execute(text, r.devMode)

	switch outcome.Kind {
	case commands.OutcomeUnknown:
		fmt.Fprintln(r.out, WarningStyle.Render(outcome.Hint))
		return nil
	case commands.OutcomeDarkTheme:
		r.setStyle("dark")
		fmt.Fprintln(r.out, DimStyle.Render("Switched to the dark theme."))
		return nil
	case commands.OutcomeLightTheme:
		r.setStyle("light")
		fmt.Fprintln(r.out, DimStyle.Render("Switched to the light theme."))
		return nil
	}

	r.sent++
	r.printSent(outcome)
	r.logger.Info("message sent",
		zap.Int("kind", int(outcome.Kind)),
		zap.Int("stream_id", r.context.StreamID),
		zap.String("topic", r.context.Topic),
		zap.Ints("recipients", r.context.Recipients))

	names := chat.EmojiNames(text)
	if len(names) == 0 {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := r.app.Store.RecordEmojiUsage(ctx, names); err != nil {
		return fmt.Errorf("failed to record emoji usage: %w", err)
	}
	return nil
}

// printSent echoes a sent message.
func (r *replSession) printSent(outcome commands.Outcome) {
	header := SuccessStyle.Render("Sent") + " " + DimStyle.Render(chat.Destination(r.app.Directory, r.context))
	label := chat.SentMessage{Kind: outcome.Kind}.KindLabel()
	if label != "" {
		header += " " + DimStyle.Render("("+label+")")
	}
	fmt.Fprintln(r.out, header)

	body := outcome.Body
	for _, opt := range outcome.Options {
		body += "\n- " + opt
	}
	if r.renderer != nil {
		if rendered, err := r.renderer.Render(body); err == nil {
			fmt.Fprint(r.out, rendered)
			return
		}
	}
	fmt.Fprintln(r.out, body)
}

func (r *replSession) printSummary() {
	fmt.Fprintln(r.out, DimStyle.Render(fmt.Sprintf("%d message(s) sent.", r.sent)))
}
