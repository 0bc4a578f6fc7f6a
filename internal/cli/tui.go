// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// tui.go - Full-screen compose session.

package cli

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jeranaias/chatcompose/internal/ui/chat"
	"github.com/jeranaias/chatcompose/internal/ui/styles"
)

// runTUI starts the Bubble Tea compose view.
func runTUI(ctx context.Context, s *session) error {
	if err := RequiresTTY("start the compose view"); err != nil {
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

	m := chat.New(chat.Options{
		Theme:     styles.NewTheme(s.cfg.UI.Theme),
		Config:    s.cfg,
		Engine:    app.Engine,
		Directory: app.Directory,
		Context:   composeCtx,
		Usage:     app.Store,
		Logger:    s.logger,
		SessionID: app.SessionID,
		NewID:     uuid.NewString,
	})

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))

	// Background fetches and workspace reloads report through the program.
	app.SetNotify(p.Send)
	app.Watch()

	final, err := p.Run()
	if err != nil {
		return fmt.Errorf("compose view failed: %w", err)
	}
	if fm, ok := final.(chat.Model); ok {
		s.logger.Info("session ended",
			zap.String("session_id", app.SessionID),
			zap.Int("sent", len(fm.Sent())))
	}
	return nil
}
