package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/waabox/devopswatch/internal/api"
	"github.com/waabox/devopswatch/internal/config"
	"github.com/waabox/devopswatch/internal/poller"
	"github.com/waabox/devopswatch/internal/publish"
)

func newServeCmd(s *session) *cobra.Command {
	var listen string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Poll continuously, serve results over HTTP and publish snapshots",
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := s.loadRuntime()
			if err != nil {
				return err
			}
			publishers, err := newPublishers(rt.cfg)
			if err != nil {
				return err
			}
			defer publishers.Close()

			if listen == "" {
				listen = rt.cfg.ListenOrDefault()
			}
			systems := rt.cfg.DevOpsSystems()
			p := poller.New(rt.registry, systems, poller.Options{
				Interval:  rt.cfg.PollIntervalOrDefault(),
				Publisher: publishers,
				Logger:    rt.logger,
			})
			server := api.NewServer(systems, p.Store(), p, rt.logger)

			g, ctx := errgroup.WithContext(cmd.Context())
			g.Go(func() error { return p.Run(ctx) })
			g.Go(func() error { return server.Listen(ctx, listen) })
			if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&listen, "listen", "", "HTTP listen address (default from config, or :8080)")
	return cmd
}

// newPublishers builds the snapshot sinks enabled in the [publish] section.
func newPublishers(cfg config.Config) (publish.Multi, error) {
	var pubs publish.Multi
	if cfg.Publish.RedisURL != "" {
		p, err := publish.NewRedisPublisher(cfg.Publish.RedisURL, cfg.RedisTTLOrDefault())
		if err != nil {
			return nil, fmt.Errorf("redis publisher: %w", err)
		}
		pubs = append(pubs, p)
	}
	if len(cfg.Publish.KafkaBrokers) > 0 {
		p, err := publish.NewKafkaPublisher(cfg.Publish.KafkaBrokers, cfg.KafkaTopicOrDefault())
		if err != nil {
			_ = pubs.Close()
			return nil, fmt.Errorf("kafka publisher: %w", err)
		}
		pubs = append(pubs, p)
	}
	return pubs, nil
}
