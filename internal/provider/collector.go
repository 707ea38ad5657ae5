package provider

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/waabox/devopswatch/internal/domain"
	"github.com/waabox/devopswatch/internal/logging"
)

// FetchFunc retrieves the records of a single automation with one backend request.
// Any returned error sends the automation to its Unknown record.
type FetchFunc func(ctx context.Context, system domain.DevOpsSystem, automation domain.ObservedAutomation) ([]domain.StatusInformation, error)

// Collector runs a FetchFunc for every automation of a system through a bounded
// worker pool and contains each automation's failure to that automation.
type Collector struct {
	serverType  string
	fetch       FetchFunc
	concurrency int
	timeout     time.Duration
	logger      zerolog.Logger
}

// NewCollector creates a Collector. serverType tags the Unknown records it synthesizes.
func NewCollector(serverType string, fetch FetchFunc, opts Options) *Collector {
	opts = opts.WithDefaults()
	return &Collector{
		serverType:  serverType,
		fetch:       fetch,
		concurrency: opts.Concurrency,
		timeout:     opts.RequestTimeout,
		logger:      opts.Logger,
	}
}

// Collect returns at least one record per automation, grouped in automation order.
//
// If ctx is cancelled, automations not yet finished are dropped and only the
// records already collected are returned. Cancellation is not an automation failure.
func (c *Collector) Collect(ctx context.Context, system domain.DevOpsSystem) []domain.StatusInformation {
	automations := system.ObservedAutomations
	slots := make([][]domain.StatusInformation, len(automations))

	g := new(errgroup.Group)
	g.SetLimit(c.concurrency)
	for i, automation := range automations {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			slots[i] = c.collectOne(ctx, system, automation)
			return nil
		})
	}
	_ = g.Wait()

	result := make([]domain.StatusInformation, 0, len(automations))
	for _, records := range slots {
		result = append(result, records...)
	}
	return result
}

func (c *Collector) collectOne(ctx context.Context, system domain.DevOpsSystem, automation domain.ObservedAutomation) (records []domain.StatusInformation) {
	if ctx.Err() != nil {
		return nil
	}
	defer func() {
		if r := recover(); r != nil {
			records = c.fallback(system, automation, fmt.Errorf("panic: %v", r))
		}
	}()

	reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	fetched, err := c.fetch(reqCtx, system, automation)
	if err != nil && ctx.Err() != nil {
		return nil
	}
	if err == nil && len(fetched) == 0 {
		err = domain.ErrNoRuns
	}
	if err != nil {
		return c.fallback(system, automation, err)
	}

	for i := range fetched {
		fetched[i].Alias = automation.Alias
		if fetched[i].RepositoryName == "" {
			fetched[i].RepositoryName = automation.RepositoryName
		}
	}
	return fetched
}

func (c *Collector) fallback(system domain.DevOpsSystem, automation domain.ObservedAutomation, reason error) []domain.StatusInformation {
	event := c.logger.Debug().
		Str("system", system.ID).
		Str("repository", automation.RepositoryName).
		Str("alias", automation.Alias).
		Str(zerolog.ErrorFieldName, logging.Redact(reason.Error()))
	if errors.Is(reason, context.DeadlineExceeded) {
		event = event.Bool("timeout", true)
	}
	event.Msg("status unavailable, reporting unknown")
	return []domain.StatusInformation{UnknownStatus(c.serverType, automation)}
}
