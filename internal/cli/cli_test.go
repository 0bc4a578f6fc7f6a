// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jeranaias/chatcompose/internal/config"
	"github.com/jeranaias/chatcompose/internal/roster"
	"github.com/jeranaias/chatcompose/internal/storage"
	"github.com/jeranaias/chatcompose/internal/typeahead"
)

// =============================================================================
// HELPERS
// =============================================================================

// setupHome points HOME at a temp dir holding the sample workspace.
func setupHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("NO_COLOR", "1")
	for _, name := range []string{"CHATCOMPOSE_WORKSPACE", "CHATCOMPOSE_DB", "CHATCOMPOSE_LOG_FILE", "CHATCOMPOSE_DEV"} {
		t.Setenv(name, "")
	}

	data, err := roster.Marshal(SampleWorkspace())
	require.NoError(t, err)
	dir := filepath.Join(home, ".chatcompose")
	require.NoError(t, os.MkdirAll(dir, 0o700))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "workspace.yaml"), data, 0o600))
	return home
}

func runCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

type completeResponse struct {
	Success bool         `json:"success"`
	Command string       `json:"command"`
	Data    CompleteData `json:"data"`
}

func primaries(items []typeahead.Item) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = item.Primary
	}
	return out
}

// newTestApp opens an App on an in-memory store.
func newTestApp(t *testing.T) *App {
	t.Helper()
	home := setupHome(t)
	cfg := config.Default()
	cfg.SetDefaults()
	cfg.Workspace.Path = filepath.Join(home, ".chatcompose", "workspace.yaml")
	cfg.Storage.DatabasePath = storage.MemoryPath
	cfg.Storage.TopicFetchPerSecond = 0

	app, err := NewApp(cfg, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.Close() })
	return app
}

// =============================================================================
// COMPLETE COMMAND
// =============================================================================

func TestComplete_MentionText(t *testing.T) {
	setupHome(t)

	out, err := runCmd(t, "complete", "hi @cor")
	require.NoError(t, err)
	assert.Contains(t, out, "mention")
	assert.Contains(t, out, "Cordelia Lear")
	assert.Contains(t, out, "cordelia@example.com")
}

func TestComplete_SelectJSON(t *testing.T) {
	setupHome(t)

	out, err := runCmd(t, "complete", "--json", "--select", "1", "hi @cor")
	require.NoError(t, err)

	var resp completeResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "complete", resp.Command)
	assert.Equal(t, typeahead.ModeMention, resp.Data.Mode)
	assert.Equal(t, "cor", resp.Data.Token)
	require.NotEmpty(t, resp.Data.Suggestions)
	assert.Equal(t, "Cordelia Lear", resp.Data.Suggestions[0].Primary)

	require.NotNil(t, resp.Data.Applied)
	assert.Equal(t, 1, resp.Data.Applied.Index)
	assert.True(t, strings.HasPrefix(resp.Data.Applied.Text, "hi @**Cordelia Lear**"), resp.Data.Applied.Text)
	assert.Equal(t, len([]rune(resp.Data.Applied.Text)), resp.Data.Applied.Cursor)
}

func TestComplete_CursorInsideText(t *testing.T) {
	setupHome(t)

	out, err := runCmd(t, "complete", "--json", "--cursor", "4", "see :tad later")
	require.NoError(t, err)

	var resp completeResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, typeahead.ModeNone, resp.Data.Mode)
	assert.Empty(t, resp.Data.Suggestions)
}

func TestComplete_Emoji(t *testing.T) {
	setupHome(t)

	out, err := runCmd(t, "complete", "--json", "--select", "1", "see :tad")
	require.NoError(t, err)

	var resp completeResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, typeahead.ModeEmoji, resp.Data.Mode)
	require.NotNil(t, resp.Data.Applied)
	assert.Equal(t, "see :tada: ", resp.Data.Applied.Text)
}

func TestComplete_TopicsWaitForHistory(t *testing.T) {
	setupHome(t)

	out, err := runCmd(t, "complete", "--json", "#**general>gr")
	require.NoError(t, err)

	var resp completeResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, typeahead.ModeTopicList, resp.Data.Mode)
	assert.Contains(t, primaries(resp.Data.Suggestions), "greetings")
}

func TestComplete_ReadsStdin(t *testing.T) {
	setupHome(t)

	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})
	root.SetIn(strings.NewReader("ping @oth\n"))
	root.SetArgs([]string{"complete", "--json", "-"})
	require.NoError(t, root.ExecuteContext(context.Background()))

	var resp completeResponse
	require.NoError(t, json.Unmarshal(out.Bytes(), &resp))
	assert.Equal(t, "oth", resp.Data.Token)
	assert.Contains(t, primaries(resp.Data.Suggestions), "Othello Moor")
}

func TestComplete_RecipientField(t *testing.T) {
	setupHome(t)

	out, err := runCmd(t, "complete", "--json", "--field", "recipient", "--to", "2", "--select", "1", "cor")
	require.NoError(t, err)

	var resp completeResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "recipient", resp.Data.Field)
	require.NotEmpty(t, resp.Data.Suggestions)
	assert.Equal(t, "Cordelia Lear", resp.Data.Suggestions[0].Primary)
	require.NotNil(t, resp.Data.Applied)
	assert.Equal(t, []int{2, 3}, resp.Data.Applied.Recipients)
}

func TestComplete_RecipientFieldExpandsGroup(t *testing.T) {
	setupHome(t)

	out, err := runCmd(t, "complete", "--json", "--field", "recipient", "--select", "1", "backend")
	require.NoError(t, err)

	var resp completeResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.NotEmpty(t, resp.Data.Suggestions)
	assert.Equal(t, "backend", resp.Data.Suggestions[0].Primary)
	require.NotNil(t, resp.Data.Applied)
	assert.Equal(t, []int{2}, resp.Data.Applied.Recipients, "the current user is not added")
}

func TestComplete_TopicField(t *testing.T) {
	setupHome(t)

	out, err := runCmd(t, "complete", "--json", "--field", "topic", "--stream", "general", "gr")
	require.NoError(t, err)

	var resp completeResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "topic", resp.Data.Field)
	assert.Contains(t, primaries(resp.Data.Suggestions), "greetings")

	out, err = runCmd(t, "complete", "--json", "--field", "topic", "--stream", "general", "--select", "1", "greetings")
	require.NoError(t, err)
	resp = completeResponse{}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.NotNil(t, resp.Data.Applied)
	assert.Equal(t, "greetings", resp.Data.Applied.Text)
	assert.False(t, resp.Data.Applied.NewTopic)
}

func TestComplete_TopicFieldText(t *testing.T) {
	setupHome(t)

	out, err := runCmd(t, "complete", "--field", "topic", "--stream", "general", "--select", "1", "greet")
	require.NoError(t, err)
	assert.Contains(t, out, "greetings")
	assert.Contains(t, out, "greet\n")
	assert.Contains(t, out, "new topic")
}

func TestComplete_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		code int
	}{
		{"cursor past end", []string{"complete", "--cursor", "99", "hi"}, ExitUsageError},
		{"select out of range", []string{"complete", "--select", "5", "hi @cor"}, ExitUsageError},
		{"unknown stream", []string{"complete", "--stream", "nope", "hi"}, ExitNotFoundError},
		{"unknown recipient", []string{"complete", "--to", "42", "hi"}, ExitNotFoundError},
		{"stream and recipients", []string{"complete", "--stream", "general", "--to", "2", "hi"}, ExitUsageError},
		{"unknown field", []string{"complete", "--field", "subject", "hi"}, ExitUsageError},
		{"topic without stream", []string{"complete", "--field", "topic", "gr"}, ExitUsageError},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			setupHome(t)
			_, err := runCmd(t, tc.args...)
			require.Error(t, err)
			assert.Equal(t, tc.code, GetExitCode(err))
		})
	}
}

func TestComplete_BadWorkspaceIsConfigError(t *testing.T) {
	home := setupHome(t)
	path := filepath.Join(home, ".chatcompose", "workspace.yaml")
	require.NoError(t, os.WriteFile(path, []byte("users:\n  - id: 0\n    full_name: Nobody\n"), 0o600))

	_, err := runCmd(t, "complete", "hi")
	require.Error(t, err)
	assert.Equal(t, ExitConfigError, GetExitCode(err))
}

// =============================================================================
// CONFIG AND WORKSPACE COMMANDS
// =============================================================================

func TestConfigPath_JSON(t *testing.T) {
	home := setupHome(t)

	out, err := runCmd(t, "config", "path", "--json")
	require.NoError(t, err)

	var resp struct {
		Data ConfigData `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	dir := filepath.Join(home, ".chatcompose")
	assert.Equal(t, ConfigData{
		ConfigPath:    filepath.Join(dir, "config.toml"),
		WorkspacePath: filepath.Join(dir, "workspace.yaml"),
		DatabasePath:  filepath.Join(dir, "compose.db"),
		LogFile:       filepath.Join(dir, "chatcompose.log"),
	}, resp.Data)
}

func TestConfigInit_RefusesOverwrite(t *testing.T) {
	home := setupHome(t)
	path := filepath.Join(home, ".chatcompose", "config.toml")

	out, err := runCmd(t, "config", "init")
	require.NoError(t, err)
	assert.Contains(t, out, path)
	assert.FileExists(t, path)

	_, err = runCmd(t, "config", "init")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	_, err = runCmd(t, "config", "init", "--force")
	require.NoError(t, err)
}

func TestConfigShow_AppliesFlags(t *testing.T) {
	setupHome(t)

	out, err := runCmd(t, "config", "show", "--dev", "--topic", "lunch")
	require.NoError(t, err)
	assert.Contains(t, out, "max_items = 50")
	assert.Contains(t, out, "development_environment = true")
	assert.Contains(t, out, `topic = "lunch"`)
}

func TestConfig_InvalidFileIsConfigError(t *testing.T) {
	home := setupHome(t)
	path := filepath.Join(home, "bad.toml")
	require.NoError(t, os.WriteFile(path, []byte("[compose]\nmax_items = 0\n[ui]\ntheme = \"neon\"\n"), 0o600))

	_, err := runCmd(t, "--config", path, "config", "show")
	require.Error(t, err)
	assert.Equal(t, ExitConfigError, GetExitCode(err))
}

func TestWorkspaceInitAndCheck(t *testing.T) {
	home := setupHome(t)
	path := filepath.Join(home, "team.yaml")

	_, err := runCmd(t, "--workspace", path, "workspace", "init")
	require.NoError(t, err)

	out, err := runCmd(t, "--workspace", path, "workspace", "check")
	require.NoError(t, err)
	assert.Contains(t, out, "Users")
	assert.Contains(t, out, "4")
	assert.Contains(t, out, "OK")

	ws, err := roster.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, SampleWorkspace().Users, ws.Users)
}

// =============================================================================
// APP
// =============================================================================

func TestApp_ComposeContext(t *testing.T) {
	app := newTestApp(t)

	ctx, err := app.ComposeContext(rootFlags{stream: "general"})
	require.NoError(t, err)
	assert.Equal(t, typeahead.MessageStream, ctx.MessageType)
	assert.Equal(t, 100, ctx.StreamID)

	ctx, err = app.ComposeContext(rootFlags{to: []int{2, 3}})
	require.NoError(t, err)
	assert.True(t, ctx.IsPrivate())
	assert.Equal(t, []int{2, 3}, ctx.Recipients)

	app.Config.Workspace.StreamID = 101
	app.Config.Workspace.Topic = "mockups"
	ctx, err = app.ComposeContext(rootFlags{})
	require.NoError(t, err)
	assert.Equal(t, 101, ctx.StreamID)
	assert.Equal(t, "mockups", ctx.Topic)

	app.Config.Workspace.StreamID = 999
	_, err = app.ComposeContext(rootFlags{})
	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "stream", nf.Resource)
}

func TestCompleteWord(t *testing.T) {
	app := newTestApp(t)
	ctx := typeahead.ComposeContext{MessageType: typeahead.MessageStream, StreamID: 100}

	head, completions, tail := completeWord(app.Engine, ctx, "great :tad", 10)
	assert.Equal(t, "", head)
	assert.Equal(t, []string{"great :tada: "}, completions)
	assert.Equal(t, "", tail)

	// Text after the cursor is kept.
	_, completions, tail = completeWord(app.Engine, ctx, "ask @cor now", 8)
	assert.Equal(t, " now", tail)
	require.NotEmpty(t, completions)
	assert.True(t, strings.HasPrefix(completions[0], "ask @**Cordelia Lear**"), completions[0])

	_, completions, _ = completeWord(app.Engine, ctx, "plain words", 11)
	assert.Empty(t, completions)
}

func TestCompleteWord_SkipsTimePicker(t *testing.T) {
	app := newTestApp(t)
	ctx := typeahead.ComposeContext{MessageType: typeahead.MessageStream, StreamID: 100}

	_, completions, _ := completeWord(app.Engine, ctx, "meet <time", 10)
	assert.Empty(t, completions)
}

// =============================================================================
// REPL
// =============================================================================

func newTestRepl(t *testing.T) (*replSession, *bytes.Buffer) {
	t.Helper()
	app := newTestApp(t)
	var out bytes.Buffer
	r := newReplSession(app, typeahead.ComposeContext{MessageType: typeahead.MessageStream, StreamID: 100, Topic: "greetings"}, &out, &out)
	r.renderer = nil
	return r, &out
}

func TestRepl_SendRecordsEmojiUsage(t *testing.T) {
	r, out := newTestRepl(t)

	require.NoError(t, r.processLine(context.Background(), "ship it :tada: :tada:"))
	assert.Equal(t, 1, r.sent)
	assert.Equal(t, 2, r.app.Store.EmojiUsage("tada"))
	assert.Contains(t, out.String(), "#general > greetings")
	assert.Contains(t, out.String(), "ship it :tada: :tada:")
}

func TestRepl_Poll(t *testing.T) {
	r, out := newTestRepl(t)

	require.NoError(t, r.processLine(context.Background(), `/poll Lunch?\nPizza\nTacos`))
	assert.Equal(t, 1, r.sent)
	assert.Contains(t, out.String(), "(poll)")
	assert.Contains(t, out.String(), "- Pizza")
	assert.Contains(t, out.String(), "- Tacos")
}

func TestRepl_UnknownCommandNotSent(t *testing.T) {
	r, out := newTestRepl(t)

	require.NoError(t, r.processLine(context.Background(), "/frobnicate now"))
	assert.Equal(t, 0, r.sent)
	assert.NotEmpty(t, strings.TrimSpace(out.String()))
}

func TestRepl_ThemeCommands(t *testing.T) {
	r, _ := newTestRepl(t)
	r.devMode = true

	require.NoError(t, r.processLine(context.Background(), "/light"))
	assert.Equal(t, "light", r.style)
	require.NoError(t, r.processLine(context.Background(), "/dark"))
	assert.Equal(t, "dark", r.style)
	assert.Equal(t, 0, r.sent)
}

func TestRepl_RendersMarkdown(t *testing.T) {
	r, out := newTestRepl(t)
	r.setStyle("dark")
	require.NotNil(t, r.renderer)

	require.NoError(t, r.processLine(context.Background(), "**bold** move"))
	assert.Contains(t, out.String(), "bold")
	assert.NotContains(t, out.String(), "**bold**")
}

// =============================================================================
// ERRORS AND JSON
// =============================================================================

func TestGetExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitSuccess},
		{"validation", NewValidationError("cursor", "9", "too far"), ExitUsageError},
		{"not found", NewNotFoundError("stream", "x"), ExitNotFoundError},
		{"wrapped not found", fmt.Errorf("resolve: %w", NewNotFoundError("user", "3")), ExitNotFoundError},
		{"config", fmt.Errorf("%w: bad", config.ErrInvalidConfig), ExitConfigError},
		{"workspace", errors.Join(roster.ErrBadWorkspace, errors.New("dup")), ExitConfigError},
		{"other", errors.New("boom"), ExitGeneralError},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, GetExitCode(tc.err))
		})
	}
}

func TestDisplayError(t *testing.T) {
	var buf bytes.Buffer
	DisplayError(&buf, NewValidationErrorWithExample("select", "7", "there are 2 suggestions", "--select 1"), true)

	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, false, got["success"])
	assert.Equal(t, "validation_error", got["error_type"])
	assert.Equal(t, "select", got["field"])
	assert.Equal(t, "--select 1", got["example"])

	buf.Reset()
	DisplayError(&buf, errors.New("plain"), false)
	assert.Contains(t, buf.String(), "plain")

	buf.Reset()
	DisplayError(&buf, nil, false)
	assert.Empty(t, buf.String())
}

func TestJSONErrorResponse(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewJSONErrorResponse("complete", errors.New("nope")).Print(&buf))

	var got JSONResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.False(t, got.Success)
	require.NotNil(t, got.Error)
	assert.Equal(t, "nope", *got.Error)
	assert.Nil(t, got.Data)
}

func TestRepl_ActionAndTodo(t *testing.T) {
	r, out := newTestRepl(t)
	for _, line := range []string{"/me waves", `/todo\nwrite docs\nship`} {
		require.NoError(t, r.processLine(context.Background(), line))
	}
	assert.Equal(t, 2, r.sent)
	assert.Contains(t, out.String(), "(action)")
	assert.Contains(t, out.String(), "(to-do list)")
	assert.Contains(t, out.String(), "- ship")
}
