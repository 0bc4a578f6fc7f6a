// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// workspace_cmd.go - Creating and checking workspace files.

package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jeranaias/chatcompose/internal/roster"
	"github.com/jeranaias/chatcompose/internal/util"
)

func newWorkspaceCmd(s *session) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "workspace",
		Short: "Create or check the workspace file",
	}

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write a sample workspace file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := s.cfg.Workspace.Path
			data, err := roster.Marshal(SampleWorkspace())
			if err != nil {
				return err
			}
			if err := util.WriteNewFile(path, data, 0o600, force); err != nil {
				return err
			}
			fmt.Fprintf(s.out, "%s %s\n", SuccessStyle.Render("Wrote"), path)
			return nil
		},
	}
	initCmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing file")

	check := &cobra.Command{
		Use:   "check",
		Short: "Validate the workspace file and summarize it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := s.cfg.Workspace.Path
			ws, err := roster.ReadFile(path)
			if err != nil {
				return err
			}
			if _, err := roster.NewDirectory(ws); err != nil {
				return err
			}
			fmt.Fprintf(s.out, "%s %s\n", RenderLabel("Workspace"), path)
			fmt.Fprintf(s.out, "%s %d\n", RenderLabel("Users"), len(ws.Users))
			fmt.Fprintf(s.out, "%s %d\n", RenderLabel("Groups"), len(ws.Groups))
			fmt.Fprintf(s.out, "%s %d\n", RenderLabel("Streams"), len(ws.Streams))
			fmt.Fprintf(s.out, "%s %d\n", RenderLabel("Custom emoji"), len(ws.Emoji))
			fmt.Fprintln(s.out, SuccessStyle.Render("OK"))
			return nil
		},
	}

	cmd.AddCommand(initCmd, check)
	return cmd
}

// SampleWorkspace is a small organization to start from.
func SampleWorkspace() roster.Workspace {
	return roster.Workspace{
		CurrentUserID: 1,
		Users: []roster.User{
			{ID: 1, FullName: "Iago", Email: "iago@example.com"},
			{ID: 2, FullName: "Othello Moor", Email: "othello@example.com"},
			{ID: 3, FullName: "Cordelia Lear", Email: "cordelia@example.com"},
			{ID: 4, FullName: "Welcome Bot", Email: "welcome-bot@example.com", IsBot: true},
		},
		Groups: []roster.Group{
			{ID: 10, Name: "backend", Description: "Backend team", Members: []int{1, 2}},
		},
		Streams: []roster.Stream{
			{
				ID: 100, Name: "general", Description: "Everyone talks here",
				Subscribed: true, Subscribers: []int{1, 2, 3},
				Topics: []roster.Topic{{Name: "greetings", LastMessageID: 1}},
			},
			{ID: 101, Name: "design", Description: "UI and UX discussion", Subscribers: []int{3}},
		},
		Emoji: []roster.Emoji{
			{Name: "thumbs_up", Code: "1f44d", Aliases: []string{"+1", "like"}},
			{Name: "tada", Code: "1f389"},
			{Name: "heart", Code: "2764"},
			{Name: "octopus", Code: "1f419"},
		},
		RecentSenders: []int{2, 3},
	}
}
