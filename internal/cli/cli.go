// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// cli.go - Root command, global flags and per-invocation setup.

package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jeranaias/chatcompose/internal/config"
	"github.com/jeranaias/chatcompose/internal/logging"
)

// Version information, set at build time via -ldflags.
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// =============================================================================
// GLOBAL FLAGS
// =============================================================================

// rootFlags are the persistent flags shared by every command.
type rootFlags struct {
	configPath string
	workspace  string
	stream     string
	topic      string
	to         []int
	dev        bool
	noColor    bool
	verbose    bool
}

// session carries what PersistentPreRunE prepares to the command that runs.
type session struct {
	flags  rootFlags
	cfg    *config.Config
	logger *zap.Logger

	out    io.Writer
	errOut io.Writer
}

// =============================================================================
// ROOT COMMAND
// =============================================================================

// NewRootCmd builds the chatcompose command tree.
func NewRootCmd() *cobra.Command {
	s := &session{out: os.Stdout, errOut: os.Stderr}

	root := &cobra.Command{
		Use:   "chatcompose",
		Short: "Compose team chat messages with typeahead",
		Long: `chatcompose is a terminal message composer for team chat.

Type @ for people and groups, # for streams and topics, : for emoji,
/ for commands and ` + "```" + ` for code block languages. Tab or Enter accepts
a suggestion.

Users, groups, streams and emoji come from a workspace YAML file
(see "chatcompose workspace init").`,
		Version:       fmt.Sprintf("%s (commit %s, built %s)", Version, GitCommit, BuildDate),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			s.out = cmd.OutOrStdout()
			s.errOut = cmd.ErrOrStderr()
			return s.setup()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if s.logger != nil {
				_ = s.logger.Sync()
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd.Context(), s)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&s.flags.configPath, "config", "", "config file (default ~/.chatcompose/config.toml)")
	pf.StringVarP(&s.flags.workspace, "workspace", "w", "", "workspace YAML file")
	pf.StringVarP(&s.flags.stream, "stream", "s", "", "compose to this stream (by name)")
	pf.StringVarP(&s.flags.topic, "topic", "t", "", "topic within the stream")
	pf.IntSliceVar(&s.flags.to, "to", nil, "compose a direct message to these user IDs")
	pf.BoolVar(&s.flags.dev, "dev", false, "enable development-only commands")
	pf.BoolVar(&s.flags.noColor, "no-color", false, "disable colored output")
	pf.BoolVarP(&s.flags.verbose, "verbose", "v", false, "log at debug level")

	root.AddCommand(
		newReplCmd(s),
		newCompleteCmd(s),
		newConfigCmd(s),
		newWorkspaceCmd(s),
	)
	return root
}

// setup loads the configuration, applies the flags and builds the logger.
func (s *session) setup() error {
	var (
		cfg *config.Config
		err error
	)
	if s.flags.configPath != "" {
		cfg, err = config.LoadFromPath(s.flags.configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return err
	}

	s.applyFlags(cfg)
	config.SetGlobal(cfg)
	ApplyColorProfile(cfg.UI.NoColor)

	logger, err := logging.New(cfg.Logging)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	s.cfg = cfg
	s.logger = logger
	return nil
}

func (s *session) applyFlags(cfg *config.Config) {
	if s.flags.workspace != "" {
		cfg.Workspace.Path = s.flags.workspace
	}
	if s.flags.topic != "" {
		cfg.Workspace.Topic = s.flags.topic
	}
	if s.flags.dev {
		cfg.Compose.DevelopmentEnvironment = true
	}
	if s.flags.noColor {
		cfg.UI.NoColor = true
	}
	if s.flags.verbose {
		cfg.Logging.Level = "debug"
	}
}

// Execute runs the command line and exits with a code matching the error.
func Execute() {
	root := NewRootCmd()
	cmd, err := root.ExecuteC()
	if err != nil {
		jsonMode := false
		if f := cmd.Flags().Lookup("json"); f != nil {
			jsonMode = f.Value.String() == "true"
		}
		DisplayError(os.Stderr, err, jsonMode)
		os.Exit(GetExitCode(err))
	}
}
