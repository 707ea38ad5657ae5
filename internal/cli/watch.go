package cli

import (
	"github.com/spf13/cobra"

	"github.com/waabox/devopswatch/internal/poller"
	"github.com/waabox/devopswatch/internal/tui"
)

func newWatchCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Open a terminal dashboard that refreshes every poll interval",
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := s.loadRuntime()
			if err != nil {
				return err
			}
			p := poller.New(rt.registry, rt.cfg.DevOpsSystems(), poller.Options{Logger: rt.logger})
			return tui.Run(cmd.Context(), p, rt.cfg.PollIntervalOrDefault())
		},
	}
}
