package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"

	"resume-screener/internal/domain/ports/adapter"
)

// AnalysisCache stores finished engine results keyed by job description and
// document content so re-submitting the same resume against the same
// description skips the engine call entirely.
type AnalysisCache struct {
	client RedisClient
	ttl    time.Duration
}

func NewAnalysisCache(client RedisClient, ttl time.Duration) *AnalysisCache {
	return &AnalysisCache{
		client: client,
		ttl:    ttl,
	}
}

// Get returns (nil, nil) on a cache miss.
func (c *AnalysisCache) Get(ctx context.Context, key string) (*adapter.EngineResult, error) {
	data, err := c.client.Get(ctx, "analysis:"+key)
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var res adapter.EngineResult
	if err := json.Unmarshal([]byte(data), &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *AnalysisCache) Store(ctx context.Context, key string, res *adapter.EngineResult) error {
	data, err := json.Marshal(res)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, "analysis:"+key, data, c.ttl)
}
