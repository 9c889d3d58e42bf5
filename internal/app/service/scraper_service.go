package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/farescout/flight-scraper-service/internal/app/dto"
	"github.com/farescout/flight-scraper-service/internal/pkg/scraper"
)

// ResultCacher abstracts the redis result cache.
type ResultCacher interface {
	GetLockKey(req dto.SearchRequest) string
	GetCacheKey(req dto.SearchRequest) string
	AcquireLock(ctx context.Context, key string, timeout time.Duration) (bool, error)
	ReleaseLock(ctx context.Context, key string) error
	GetResult(ctx context.Context, key string) (dto.FlightResult, error)
	SetResult(ctx context.Context, key string, result dto.FlightResult, expiration time.Duration) error
}

// FlightScraper is the single route/date primitive.
type FlightScraper interface {
	ScrapeFlight(ctx context.Context, req dto.SearchRequest) (dto.FlightResult, error)
}

// ScraperService fronts the extraction engine with a result cache and
// exposes the three search modes. Batch and grid expansion route every
// combination back through ScrapeFlight, so repeated combinations in a
// grid hit the cache instead of a browser.
type ScraperService struct {
	Engine          FlightScraper
	Cache           ResultCacher
	CacheExpiration time.Duration
	LockTimeout     time.Duration

	expander *scraper.BatchExpander
}

func NewScraperService(engine FlightScraper, cache ResultCacher,
	cacheExpiration, lockTimeout time.Duration,
	maxConcurrency int, startJitter time.Duration,
) *ScraperService {
	s := &ScraperService{
		Engine:          engine,
		Cache:           cache,
		CacheExpiration: cacheExpiration,
		LockTimeout:     lockTimeout,
	}

	s.expander = scraper.NewBatchExpander(s, maxConcurrency, startJitter)

	return s
}

// ScrapeFlight runs one route/date query, consulting the cache first.
// Failed queries are never cached.
func (s *ScraperService) ScrapeFlight(ctx context.Context, req dto.SearchRequest) (dto.FlightResult, error) {
	cacheKey := s.Cache.GetCacheKey(req)

	cached, err := s.Cache.GetResult(ctx, cacheKey)
	if err == nil {
		slog.DebugContext(ctx, "scrape cache hit", slog.String("key", cacheKey))

		cached.CacheHit = true

		return cached, nil
	}

	result, err := s.Engine.ScrapeFlight(ctx, req)
	if err != nil {
		return result, fmt.Errorf("scrape flight: %w", err)
	}

	if result.FailureReason != "" {
		// Empty-but-successful results are not cached: a sold-out route may
		// refill within the cache window.
		return result, nil
	}

	lockKey := s.Cache.GetLockKey(req)

	acquired, err := s.Cache.AcquireLock(ctx, lockKey, s.LockTimeout)
	if err != nil {
		slog.WarnContext(ctx, "failed to acquire cache-fill lock", slog.String("error", err.Error()))
		return result, nil
	}
	defer s.Cache.ReleaseLock(ctx, lockKey)

	if acquired {
		if err := s.Cache.SetResult(ctx, cacheKey, result, s.CacheExpiration); err != nil {
			slog.WarnContext(ctx, "failed to cache scrape result", slog.String("error", err.Error()))
		}
	}

	return result, nil
}

// ScrapeRoutes runs one query per route tuple, output order preserved and
// per-entry failures isolated.
func (s *ScraperService) ScrapeRoutes(ctx context.Context, req dto.RoutesRequest) (dto.BatchResult, error) {
	if len(req.Routes) == 0 {
		return dto.BatchResult{}, ErrEmptyBatch
	}

	return s.expander.ScrapeRoutes(ctx, req.Routes), nil
}

// ScrapeDateGrid expands the window into every (start, end) pair and runs
// one query per pair.
func (s *ScraperService) ScrapeDateGrid(ctx context.Context, req dto.DateGridRequest) (dto.BatchResult, error) {
	result, err := s.expander.ScrapeDateGrid(ctx, req)
	if err != nil {
		return dto.BatchResult{}, fmt.Errorf("expand date grid: %w", err)
	}

	if result.Metadata.TotalCombinations == 0 {
		return dto.BatchResult{}, ErrEmptyBatch
	}

	return result, nil
}
