package flight

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/farescout/flight-scraper-service/internal/app/dto"
)

type RedisClient interface {
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Get(ctx context.Context, key string) *redis.StringCmd
}

// ResultCache stores assembled FlightResult records keyed on the search
// request, so grid and batch runs that repeat a combination skip the
// browser entirely. Scraping one combination takes tens of seconds; the
// SetNX lock keeps concurrent identical requests from racing the fill.
type ResultCache struct {
	redis RedisClient
}

func NewResultCache(redis RedisClient) *ResultCache {
	return &ResultCache{
		redis: redis,
	}
}

func (c *ResultCache) GetLockKey(req dto.SearchRequest) string {
	return fmt.Sprintf("scrape:lock:%s:%s:%s:%s:%s",
		req.DepartureCode, req.ArrivalCode, req.StartDate, req.EndDate, req.SeatClass)
}

func (c *ResultCache) GetCacheKey(req dto.SearchRequest) string {
	return fmt.Sprintf("scrape:cache:%s:%s:%s:%s:%s",
		req.DepartureCode, req.ArrivalCode, req.StartDate, req.EndDate, req.SeatClass)
}

func (c *ResultCache) AcquireLock(ctx context.Context, key string, timeout time.Duration) (bool, error) {
	return c.redis.SetNX(ctx, key, "1", timeout).Result()
}

func (c *ResultCache) ReleaseLock(ctx context.Context, key string) error {
	return c.redis.Del(ctx, key).Err()
}

func (c *ResultCache) SetResult(ctx context.Context,
	key string,
	result dto.FlightResult,
	expiration time.Duration,
) error {
	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal flight result: %w", err)
	}

	if err := c.redis.Set(ctx, key, data, expiration).Err(); err != nil {
		return fmt.Errorf("failed to set flight result: %w", err)
	}

	return nil
}

func (c *ResultCache) GetResult(ctx context.Context, key string) (dto.FlightResult, error) {
	data, err := c.redis.Get(ctx, key).Bytes()
	if err != nil {
		return dto.FlightResult{}, err
	}

	var result dto.FlightResult
	if err := json.Unmarshal(data, &result); err != nil {
		return dto.FlightResult{}, err
	}

	return result, nil
}
