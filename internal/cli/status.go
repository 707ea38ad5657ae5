package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/waabox/devopswatch/internal/domain"
	"github.com/waabox/devopswatch/internal/git"
	"github.com/waabox/devopswatch/internal/poller"
)

// hereSystemID identifies the ad-hoc system built by status --here. Its token
// is resolved like any other system's (DEVOPSWATCH_TOKEN_HERE or [secrets] "here").
const hereSystemID = "here"

func newStatusCmd(s *session) *cobra.Command {
	var (
		systemID string
		here     bool
		branch   string
	)
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Fetch the current status of every observed automation once",
		Example: `  devopswatch status
  devopswatch status --system 3f0c... -o json
  devopswatch status --here`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := s.loadRuntime()
			if err != nil {
				return err
			}

			systems := rt.cfg.DevOpsSystems()
			switch {
			case here:
				sys, err := hereSystem(branch)
				if err != nil {
					return err
				}
				systems = []domain.DevOpsSystem{sys}
			case systemID != "":
				sys, ok := rt.cfg.System(systemID)
				if !ok {
					return fmt.Errorf("unknown system %q", systemID)
				}
				systems = []domain.DevOpsSystem{sys}
			}

			p := poller.New(rt.registry, systems, poller.Options{Logger: rt.logger})
			snapshots := p.PollOnce(cmd.Context())
			if err := cmd.Context().Err(); err != nil {
				return err
			}
			return writeSnapshots(cmd.OutOrStdout(), s.flags.Output, snapshots)
		},
	}
	cmd.Flags().StringVarP(&systemID, "system", "s", "", "only fetch the system with this id")
	cmd.Flags().BoolVar(&here, "here", false, "fetch the repository checked out in the current directory")
	cmd.Flags().StringVarP(&branch, "branch", "b", "", "branch to report with --here (default: checked-out branch)")
	cmd.MarkFlagsMutuallyExclusive("system", "here")
	return cmd
}

func hereSystem(branch string) (domain.DevOpsSystem, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return domain.DevOpsSystem{}, fmt.Errorf("error getting current directory: %w", err)
	}
	remote, err := git.DetectRepository(cwd)
	if err != nil {
		return domain.DevOpsSystem{}, fmt.Errorf("error detecting git remote: %w", err)
	}
	if branch == "" {
		if branch, err = git.CurrentBranch(cwd); err != nil {
			return domain.DevOpsSystem{}, err
		}
	}
	return remote.System(hereSystemID, branch), nil
}
