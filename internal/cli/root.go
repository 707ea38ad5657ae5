// Package cli provides the command-line interface for devopswatch.
package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/waabox/devopswatch/internal/logging"
)

// BuildInfo contains version information set at build time via ldflags.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// session carries what PersistentPreRunE resolved to the subcommands.
type session struct {
	flags     GlobalFlags
	logger    zerolog.Logger
	logCloser io.Closer
}

// newRootCmd creates the root command. s is filled in before any subcommand runs.
func newRootCmd(s *session, info BuildInfo) *cobra.Command {
	v := viper.New()
	flags := &GlobalFlags{}

	cmd := &cobra.Command{
		Use:   "devopswatch",
		Short: "Watch CI workflow statuses across DevOps systems",
		Long: `devopswatch fetches the latest workflow runs of every configured repository
from GitHub Actions or GitLab CI and reduces them to one status per workflow.

Every configured automation always gets a status: when a backend cannot be
reached, answers with an error or has no runs, the automation is reported as
unknown.`,
		Version: formatVersion(info),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := BindGlobalFlags(v, cmd); err != nil {
				return fmt.Errorf("failed to bind flags: %w", err)
			}
			s.flags = resolveGlobalFlags(v)
			if !IsValidOutputFormat(s.flags.Output) {
				return fmt.Errorf("%w: %q must be one of %v", ErrInvalidOutputFormat, s.flags.Output, ValidOutputFormats())
			}
			logger, closer, err := logging.New(logging.Options{
				Verbose: s.flags.Verbose,
				Quiet:   s.flags.Quiet,
				File:    s.flags.LogFile,
				Writer:  cmd.ErrOrStderr(),
			})
			if err != nil {
				return fmt.Errorf("failed to initialize logging: %w", err)
			}
			s.logger = logger
			s.logCloser = closer
			return nil
		},
		PersistentPostRunE: func(_ *cobra.Command, _ []string) error {
			return s.close()
		},
		SilenceUsage: true,
	}

	AddGlobalFlags(cmd, flags)

	cmd.AddCommand(
		newStatusCmd(s),
		newWatchCmd(s),
		newServeCmd(s),
		newInitCmd(s),
	)
	return cmd
}

func (s *session) close() error {
	if s.logCloser == nil {
		return nil
	}
	err := s.logCloser.Close()
	s.logCloser = nil
	return err
}

func formatVersion(info BuildInfo) string {
	if info.Version == "" {
		info.Version = "dev"
	}
	if info.Commit == "" {
		info.Commit = "none"
	}
	if info.Date == "" {
		info.Date = "unknown"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", info.Version, info.Commit, info.Date)
}

// Execute runs the root command with the provided context and build info.
func Execute(ctx context.Context, info BuildInfo) error {
	s := &session{}
	cmd := newRootCmd(s, info)
	err := cmd.ExecuteContext(ctx)
	_ = s.close()
	return err
}
