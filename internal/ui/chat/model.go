// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/jeranaias/chatcompose/internal/commands"
	"github.com/jeranaias/chatcompose/internal/compose"
	"github.com/jeranaias/chatcompose/internal/config"
	"github.com/jeranaias/chatcompose/internal/roster"
	"github.com/jeranaias/chatcompose/internal/typeahead"
	"github.com/jeranaias/chatcompose/internal/ui/components"
	"github.com/jeranaias/chatcompose/internal/ui/styles"
)

// Directory resolves the names shown in the header.
type Directory interface {
	StreamByID(id int) (roster.Stream, bool)
	UserByID(id int) (roster.User, bool)
}

// Options configures New. Theme, Config and Engine are required.
type Options struct {
	Theme     *styles.Theme
	Config    *config.Config
	Engine    *typeahead.Engine
	Directory Directory
	Context   typeahead.ComposeContext
	Usage     UsageRecorder
	Logger    *zap.Logger
	SessionID string
	// Now stamps sent messages; defaults to time.Now.
	Now func() time.Time
	// NewID names sent messages; defaults to a counter.
	NewID func() string
}

// =============================================================================
// CHAT MODEL
// =============================================================================

// Model is the Bubble Tea model for the compose view.
type Model struct {
	// Styling
	theme *styles.Theme
	keys  KeyMap
	help  help.Model

	// Dimensions
	width  int
	height int

	// Compose state
	cfg      *config.Config
	engine   *typeahead.Engine
	parser   *commands.Parser
	dir      Directory
	context  typeahead.ComposeContext
	buffer   *compose.Buffer
	warnings []string

	// dismissed hides the popup until the next edit.
	dismissed bool

	// pickerCursor is where the picked time goes.
	pickerCursor int

	// newTopic is set when the topic does not exist in the stream yet.
	newTopic bool

	// UI Components
	popup    *components.SuggestionPopup
	composer *components.Composer
	picker   *components.TimePicker
	preview  *components.Preview
	status   *components.StatusBar
	viewport viewport.Model

	showPreview bool
	showHelp    bool

	// Session
	sent      []SentMessage
	usage     UsageRecorder
	logger    *zap.Logger
	sessionID string
	now       func() time.Time
	newID     func() string
	nextID    int
}

// New creates a compose view.
func New(opts Options) Model {
	theme := opts.Theme
	cfg := opts.Config
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	buffer := compose.NewBuffer()
	popup := components.NewSuggestionPopup(theme)
	popup.SetMaxVisible(cfg.UI.PopupRows)
	status := components.NewStatusBar(theme)
	status.EnterSends = cfg.Compose.EnterSends

	vp := viewport.New(80, 10)

	m := Model{
		theme:       theme,
		keys:        DefaultKeyMap(cfg.Compose.EnterSends),
		help:        help.New(),
		cfg:         cfg,
		engine:      opts.Engine,
		parser:      commands.NewParser(commands.NewRegistry()),
		dir:         opts.Directory,
		context:     opts.Context,
		buffer:      buffer,
		popup:       popup,
		composer:    components.NewComposer(buffer, theme),
		picker:      components.NewTimePicker(theme, cfg.Compose.TwentyFourHourTime),
		preview:     components.NewPreview(theme.Name),
		status:      status,
		viewport:    vp,
		showPreview: cfg.UI.Preview,
		usage:       opts.Usage,
		logger:      logger.With(zap.String("session", opts.SessionID)),
		sessionID:   opts.SessionID,
		now:         now,
		newID:       opts.NewID,
	}
	m.checkTopic()
	m.updateViewport()
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// checkTopic refreshes the "new topic" label. Looking the topic up also
// starts the stream's history fetch.
func (m *Model) checkTopic() {
	m.newTopic = m.context.IsStream() && m.engine.IsNewTopic(m.context.StreamID, m.context.Topic)
}

// =============================================================================
// UPDATE
// =============================================================================

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)

	case TopicsLoadedMsg:
		if msg.StreamID == m.context.StreamID {
			m.checkTopic()
		}
		m.refreshSuggestions()
		return m, nil

	case WorkspaceReloadedMsg:
		if msg.Err != nil {
			m.status.Message = m.theme.RenderError("Workspace reload failed: " + msg.Err.Error())
		} else {
			m.status.Message = "Workspace reloaded"
			m.refreshSuggestions()
		}
		return m, nil

	case UsageRecordedMsg:
		if msg.Err != nil {
			m.logger.Warn("recording emoji usage failed", zap.Strings("names", msg.Names), zap.Error(msg.Err))
		}
		return m, nil
	}

	if m.picker.IsOpen() {
		return m, m.picker.Update(msg)
	}
	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	return m.renderChat()
}

func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height
	m.theme.SetSize(msg.Width, msg.Height)

	m.popup.SetWidth(msg.Width)
	m.composer.SetWidth(msg.Width)
	m.status.Width = msg.Width
	m.preview.SetWidth(msg.Width - 4)
	m.help.Width = msg.Width

	m.viewport.Width = msg.Width
	m.layout()
	m.updateViewport()
	return m, nil
}

// layout gives the sent-message viewport whatever height the rest of the
// view leaves.
func (m *Model) layout() {
	if m.height == 0 {
		return
	}
	h := m.height - m.fixedHeight()
	if h < 1 {
		h = 1
	}
	m.viewport.Height = h
}

// =============================================================================
// ACCESSORS
// =============================================================================

// Value returns the text in the message box.
func (m Model) Value() string {
	return m.buffer.Value()
}

// Cursor returns the cursor position in characters.
func (m Model) Cursor() int {
	return m.buffer.Cursor()
}

// Sent returns the messages sent in this session.
func (m Model) Sent() []SentMessage {
	return m.sent
}

// Warnings returns the warnings from the last accepted suggestion.
func (m Model) Warnings() []string {
	return m.warnings
}

// Suggestions returns the suggestions in the popup.
func (m Model) Suggestions() []typeahead.Suggestion {
	return m.popup.Items()
}

// StatusMessage returns the status bar message.
func (m Model) StatusMessage() string {
	return m.status.Message
}

// PickerOpen reports whether the time picker is shown.
func (m Model) PickerOpen() bool {
	return m.picker.IsOpen()
}

// Theme returns the active theme.
func (m Model) Theme() *styles.Theme {
	return m.theme
}

// SetContext changes where the message goes.
func (m *Model) SetContext(ctx typeahead.ComposeContext) {
	m.context = ctx
	m.checkTopic()
	m.refreshSuggestions()
}
