// Package rediscache implements the statistics-snapshot cache on Redis.
// Snapshots are stored as JSON blobs with a TTL derived from the snapshot's
// expiry; staleness policy beyond the TTL is the caller's concern.
package rediscache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	apperrors "seasonpulse/internal/errors"
	"seasonpulse/internal/persistence"
	"seasonpulse/pkg/contracts/domain"
)

// SnapshotCache implements persistence.SnapshotCache on a Redis client.
type SnapshotCache struct {
	client *redis.Client
	logger *slog.Logger
}

// New creates a snapshot cache over the given Redis client.
func New(client *redis.Client, logger *slog.Logger) *SnapshotCache {
	if logger == nil {
		logger = slog.Default()
	}
	return &SnapshotCache{client: client, logger: logger}
}

var _ persistence.SnapshotCache = (*SnapshotCache)(nil)

// Connect dials Redis and verifies the connection.
func Connect(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connect redis: %w", err)
	}
	return client, nil
}

// PutSnapshot stores the snapshot until its ExpiresAt. An already-expired
// snapshot is stored with a minimal TTL so a racing reader can still see it.
func (c *SnapshotCache) PutSnapshot(ctx context.Context, snapshot *domain.StatisticsSnapshot) error {
	payload, err := json.Marshal(snapshot)
	if err != nil {
		return apperrors.NewCacheError("marshal snapshot", err)
	}

	ttl := time.Until(snapshot.ExpiresAt)
	if ttl <= 0 {
		ttl = time.Second
	}

	key := snapshotKey(snapshot.Symbol, snapshot.Timeframe, snapshot.AnalysisType)
	if err := c.client.Set(ctx, key, payload, ttl).Err(); err != nil {
		return apperrors.NewCacheError("store snapshot", err).WithContext("key", key)
	}

	c.logger.DebugContext(ctx, "cached statistics snapshot",
		slog.String("key", key),
		slog.Duration("ttl", ttl))
	return nil
}

// GetSnapshot returns the cached snapshot, or nil when absent or expired.
// A cache miss is not an error.
func (c *SnapshotCache) GetSnapshot(ctx context.Context, symbol string, tf domain.Timeframe, analysisType string) (*domain.StatisticsSnapshot, error) {
	key := snapshotKey(symbol, tf, analysisType)

	payload, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.NewCacheError("read snapshot", err).WithContext("key", key)
	}

	var snapshot domain.StatisticsSnapshot
	if err := json.Unmarshal(payload, &snapshot); err != nil {
		return nil, apperrors.NewCacheError("decode snapshot", err).WithContext("key", key)
	}
	return &snapshot, nil
}

func snapshotKey(symbol string, tf domain.Timeframe, analysisType string) string {
	return fmt.Sprintf("seasonpulse:stats:%s:%s:%s", symbol, tf, analysisType)
}
