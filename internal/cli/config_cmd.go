// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// config_cmd.go - The config command and its subcommands.

package cli

import (
	"fmt"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/jeranaias/chatcompose/internal/config"
	"github.com/jeranaias/chatcompose/internal/util"
)

func newConfigCmd(s *session) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or create the configuration",
	}

	var showJSON bool
	show := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if showJSON {
				return NewJSONResponse("config show", s.cfg).Print(s.out)
			}
			return toml.NewEncoder(s.out).Encode(s.cfg)
		},
	}
	show.Flags().BoolVar(&showJSON, "json", false, "output JSON")

	var pathJSON bool
	path := &cobra.Command{
		Use:   "path",
		Short: "Print the file locations in use",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath, err := s.configPath()
			if err != nil {
				return err
			}
			data := ConfigData{
				ConfigPath:    configPath,
				WorkspacePath: s.cfg.Workspace.Path,
				DatabasePath:  s.cfg.Storage.DatabasePath,
				LogFile:       s.cfg.Logging.File,
			}
			if pathJSON {
				return NewJSONResponse("config path", data).Print(s.out)
			}
			fmt.Fprintf(s.out, "%s %s\n", RenderLabel("Config"), data.ConfigPath)
			fmt.Fprintf(s.out, "%s %s\n", RenderLabel("Workspace"), data.WorkspacePath)
			fmt.Fprintf(s.out, "%s %s\n", RenderLabel("Database"), data.DatabasePath)
			fmt.Fprintf(s.out, "%s %s\n", RenderLabel("Log file"), data.LogFile)
			return nil
		},
	}
	path.Flags().BoolVar(&pathJSON, "json", false, "output JSON")

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default config file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath, err := s.configPath()
			if err != nil {
				return err
			}
			data, err := config.Encode(config.Default())
			if err != nil {
				return err
			}
			if err := util.WriteNewFile(configPath, data, 0o600, force); err != nil {
				return err
			}
			fmt.Fprintf(s.out, "%s %s\n", SuccessStyle.Render("Wrote"), configPath)
			return nil
		},
	}
	initCmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing file")

	cmd.AddCommand(show, path, initCmd)
	return cmd
}

// configPath is the --config flag or the default location.
func (s *session) configPath() (string, error) {
	if s.flags.configPath != "" {
		return s.flags.configPath, nil
	}
	return config.ConfigPath()
}
