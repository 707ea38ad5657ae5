package publish

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/gomodule/redigo/redis"

	"github.com/waabox/devopswatch/internal/domain"
)

// KeyPrefix prefixes the Redis key holding a system's latest snapshot.
const KeyPrefix = "devopswatch:snapshot:"

// ErrSnapshotNotFound is returned by Latest when no snapshot is stored.
var ErrSnapshotNotFound = errors.New("snapshot not found")

// RedisPublisher stores the latest snapshot of each system as JSON under
// KeyPrefix+<system id>. Older snapshots are overwritten.
type RedisPublisher struct {
	pool *redis.Pool
	ttl  time.Duration
}

var _ Publisher = (*RedisPublisher)(nil)

// NewRedisPublisher creates a publisher for a redis:// URL. Keys expire after
// ttl; a non-positive ttl keeps them forever. No connection is made until the
// first publish.
func NewRedisPublisher(rawURL string, ttl time.Duration) (*RedisPublisher, error) {
	if rawURL == "" {
		return nil, fmt.Errorf("redis url is required")
	}
	pool := &redis.Pool{
		MaxIdle:     2,
		IdleTimeout: 5 * time.Minute,
		DialContext: func(ctx context.Context) (redis.Conn, error) {
			return redis.DialURLContext(ctx, rawURL)
		},
	}
	return &RedisPublisher{pool: pool, ttl: ttl}, nil
}

// Publish implements Publisher.
func (p *RedisPublisher) Publish(ctx context.Context, snap domain.Snapshot) error {
	payload, err := encode(snap)
	if err != nil {
		return err
	}
	conn, err := p.pool.GetContext(ctx)
	if err != nil {
		return fmt.Errorf("redis connect: %w", err)
	}
	defer conn.Close()

	args := redis.Args{}.Add(KeyPrefix+snap.SystemID, payload)
	if p.ttl > 0 {
		args = args.Add("PX", p.ttl.Milliseconds())
	}
	if _, err := redis.String(redis.DoContext(conn, ctx, "SET", args...)); err != nil {
		return fmt.Errorf("redis set %s: %w", snap.SystemID, err)
	}
	return nil
}

// Latest reads back the stored snapshot of a system.
func (p *RedisPublisher) Latest(ctx context.Context, systemID string) (domain.Snapshot, error) {
	conn, err := p.pool.GetContext(ctx)
	if err != nil {
		return domain.Snapshot{}, fmt.Errorf("redis connect: %w", err)
	}
	defer conn.Close()

	payload, err := redis.Bytes(redis.DoContext(conn, ctx, "GET", KeyPrefix+systemID))
	if errors.Is(err, redis.ErrNil) {
		return domain.Snapshot{}, fmt.Errorf("%w: %s", ErrSnapshotNotFound, systemID)
	}
	if err != nil {
		return domain.Snapshot{}, fmt.Errorf("redis get %s: %w", systemID, err)
	}
	var snap domain.Snapshot
	if err := json.Unmarshal(payload, &snap); err != nil {
		return domain.Snapshot{}, fmt.Errorf("decoding snapshot %s: %w", systemID, err)
	}
	return snap, nil
}

// Close releases pooled connections.
func (p *RedisPublisher) Close() error {
	return p.pool.Close()
}
