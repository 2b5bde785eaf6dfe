package cache

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/andresuchdata/stockguard/internal/config"
	"github.com/redis/go-redis/v9"
)

const (
	resultKeyPrefix = "stockguard:result"
	scanBatchSize   = 100
)

// Result kinds cached per snapshot version.
const (
	KindSuggestions = "suggestions"
	KindOrders      = "orders"
	KindDashboard   = "dashboard"
)

// ResultCache stores computed engine results. Keys include the snapshot
// version, so a refreshed snapshot never reads results of an older one.
type ResultCache interface {
	Get(ctx context.Context, kind, version string, params map[string]string, dest any) (bool, error)
	Set(ctx context.Context, kind, version string, params map[string]string, value any) error
	InvalidateAll(ctx context.Context) error
}

type redisResultCache struct {
	client *redis.Client
	ttl    time.Duration
}

type noopResultCache struct{}

// NewResultCache connects to redis when caching is enabled and returns a
// no-op cache otherwise.
func NewResultCache(cfg config.CacheConfig) (ResultCache, error) {
	if !cfg.Enabled {
		return &noopResultCache{}, nil
	}

	client, ttl, err := newRedisClient(cfg)
	if err != nil {
		return nil, err
	}

	return &redisResultCache{
		client: client,
		ttl:    ttl,
	}, nil
}

func NewNoopResultCache() ResultCache {
	return &noopResultCache{}
}

func (c *redisResultCache) Get(ctx context.Context, kind, version string, params map[string]string, dest any) (bool, error) {
	key := buildResultKey(kind, version, params)

	payload, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("redis get failed: %w", err)
	}

	if err := json.Unmarshal(payload, dest); err != nil {
		return false, fmt.Errorf("decode %s cache: %w", kind, err)
	}

	return true, nil
}

func (c *redisResultCache) Set(ctx context.Context, kind, version string, params map[string]string, value any) error {
	key := buildResultKey(kind, version, params)
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s cache: %w", kind, err)
	}

	if err := c.client.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}

	return nil
}

func (c *redisResultCache) InvalidateAll(ctx context.Context) error {
	return deleteKeysWithPrefix(ctx, c.client, resultKeyPrefix, scanBatchSize)
}

func (n *noopResultCache) Get(ctx context.Context, kind, version string, params map[string]string, dest any) (bool, error) {
	return false, nil
}

func (n *noopResultCache) Set(ctx context.Context, kind, version string, params map[string]string, value any) error {
	return nil
}

func (n *noopResultCache) InvalidateAll(ctx context.Context) error {
	return nil
}

func buildResultKey(kind, version string, params map[string]string) string {
	base := fmt.Sprintf("%s:%s:%s", resultKeyPrefix, kind, version)
	if len(params) == 0 {
		return base + ":default"
	}

	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+"="+strings.TrimSpace(params[k]))
	}

	raw := strings.Join(parts, "|")
	hash := sha1.Sum([]byte(raw))
	return fmt.Sprintf("%s:%s", base, hex.EncodeToString(hash[:]))
}
