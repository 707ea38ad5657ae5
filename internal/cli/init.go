package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/waabox/devopswatch/internal/config"
	"github.com/waabox/devopswatch/internal/secret"
)

func newInitCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Write a starter configuration file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			path := s.flags.Config
			if path == "" {
				path = config.DefaultConfigPath()
			}
			if err := config.WriteTemplate(path, secret.EnvPrefix); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
			return nil
		},
	}
}
