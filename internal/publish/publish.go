// Package publish hands poll snapshots to external sinks.
package publish

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/waabox/devopswatch/internal/domain"
)

// Publisher delivers a snapshot to a sink.
type Publisher interface {
	Publish(ctx context.Context, snap domain.Snapshot) error
}

// PublisherFunc adapts a function to Publisher.
type PublisherFunc func(ctx context.Context, snap domain.Snapshot) error

// Publish implements Publisher.
func (f PublisherFunc) Publish(ctx context.Context, snap domain.Snapshot) error {
	return f(ctx, snap)
}

// Multi publishes to every publisher in order. A failing publisher does not
// stop the others; all errors are joined.
type Multi []Publisher

var _ Publisher = Multi(nil)

// Publish implements Publisher.
func (m Multi) Publish(ctx context.Context, snap domain.Snapshot) error {
	var errs []error
	for _, p := range m {
		if err := p.Publish(ctx, snap); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Close closes every publisher that holds resources.
func (m Multi) Close() error {
	var errs []error
	for _, p := range m {
		if c, ok := p.(io.Closer); ok {
			if err := c.Close(); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}

func encode(snap domain.Snapshot) ([]byte, error) {
	payload, err := json.Marshal(snap)
	if err != nil {
		return nil, fmt.Errorf("encoding snapshot %s: %w", snap.SystemID, err)
	}
	return payload, nil
}
