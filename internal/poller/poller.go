// Package poller periodically fetches every configured DevOps system and
// keeps the latest results.
package poller

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/waabox/devopswatch/internal/domain"
	"github.com/waabox/devopswatch/internal/provider"
	"github.com/waabox/devopswatch/internal/publish"
)

const defaultInterval = time.Minute

// Options configure a Poller.
type Options struct {
	Interval  time.Duration
	Publisher publish.Publisher
	Store     *SnapshotStore
	Logger    zerolog.Logger
	// Now is used to stamp snapshots. Defaults to time.Now.
	Now func() time.Time
}

// Poller fetches systems through a provider registry.
type Poller struct {
	registry  *provider.Registry
	systems   []domain.DevOpsSystem
	interval  time.Duration
	publisher publish.Publisher
	store     *SnapshotStore
	logger    zerolog.Logger
	now       func() time.Time
}

// New creates a Poller for the given systems.
func New(registry *provider.Registry, systems []domain.DevOpsSystem, opts Options) *Poller {
	if opts.Interval <= 0 {
		opts.Interval = defaultInterval
	}
	if opts.Store == nil {
		opts.Store = NewSnapshotStore()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Poller{
		registry:  registry,
		systems:   systems,
		interval:  opts.Interval,
		publisher: opts.Publisher,
		store:     opts.Store,
		logger:    opts.Logger,
		now:       opts.Now,
	}
}

// Store returns the store holding the latest snapshots.
func (p *Poller) Store() *SnapshotStore {
	return p.store
}

// Systems returns the polled systems.
func (p *Poller) Systems() []domain.DevOpsSystem {
	return p.systems
}

// PollOnce fetches every system concurrently and returns one snapshot per
// system, in configuration order. Snapshots are stored and published before
// PollOnce returns; publish failures are logged and never fail the poll.
// If ctx is cancelled, systems not fetched before cancellation are omitted.
func (p *Poller) PollOnce(ctx context.Context) []domain.Snapshot {
	slots := make([]*domain.Snapshot, len(p.systems))

	g := new(errgroup.Group)
	for i, system := range p.systems {
		g.Go(func() error {
			if _, err := p.registry.Lookup(system.Kind); err != nil {
				p.logger.Warn().Err(err).Str("system", system.ID).Msg("no provider for system kind")
			}
			statuses := p.registry.FetchStatuses(ctx, system)
			if ctx.Err() != nil {
				return nil
			}
			snap := domain.Snapshot{
				SystemID:  system.ID,
				Kind:      system.Kind,
				FetchedAt: p.now().UTC(),
				Statuses:  statuses,
			}
			slots[i] = &snap
			return nil
		})
	}
	_ = g.Wait()

	snapshots := make([]domain.Snapshot, 0, len(slots))
	for _, snap := range slots {
		if snap == nil {
			continue
		}
		p.store.Put(*snap)
		p.publish(ctx, *snap)
		snapshots = append(snapshots, *snap)
	}
	p.logger.Debug().Int("systems", len(snapshots)).Msg("poll complete")
	return snapshots
}

func (p *Poller) publish(ctx context.Context, snap domain.Snapshot) {
	if p.publisher == nil {
		return
	}
	if err := p.publisher.Publish(ctx, snap); err != nil {
		p.logger.Warn().Err(err).Str("system", snap.SystemID).Msg("publish failed")
	}
}

// Run polls immediately and then on every interval tick until ctx is cancelled.
func (p *Poller) Run(ctx context.Context) error {
	p.logger.Info().Dur("interval", p.interval).Int("systems", len(p.systems)).Msg("poller started")
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.PollOnce(ctx)
	for {
		select {
		case <-ticker.C:
			p.PollOnce(ctx)
		case <-ctx.Done():
			p.logger.Info().Msg("poller stopped")
			if errors.Is(ctx.Err(), context.Canceled) {
				return nil
			}
			return ctx.Err()
		}
	}
}
