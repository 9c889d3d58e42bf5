package scraper

import (
	"context"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/farescout/flight-scraper-service/internal/app/dto"
	"github.com/farescout/flight-scraper-service/internal/pkg/logger"
)

// SingleScraper is the one-route/one-date primitive the expander drives.
type SingleScraper interface {
	ScrapeFlight(ctx context.Context, req dto.SearchRequest) (dto.FlightResult, error)
}

// BatchExpander turns the single-query primitive into the route-list and
// date-grid search modes. Queries run on a bounded worker pool, each owning
// its own browser session; results are indexed, never appended, so output
// order always matches input order. One failing combination never aborts
// the batch.
type BatchExpander struct {
	Scraper        SingleScraper
	MaxConcurrency int
	StartJitter    time.Duration
}

// NewBatchExpander applies defaults for unset fields.
func NewBatchExpander(scraper SingleScraper, maxConcurrency int, startJitter time.Duration) *BatchExpander {
	if maxConcurrency <= 0 {
		maxConcurrency = 1
	}

	if startJitter < 0 {
		startJitter = 0
	}

	return &BatchExpander{
		Scraper:        scraper,
		MaxConcurrency: maxConcurrency,
		StartJitter:    startJitter,
	}
}

// ScrapeRoutes runs one query per route tuple, output order preserved.
func (b *BatchExpander) ScrapeRoutes(ctx context.Context, routes []dto.SearchRequest) dto.BatchResult {
	return b.run(ctx, routes)
}

// ScrapeDateGrid runs one query per (start, end) pair with start < end
// drawn from the inclusive window, ascending start then ascending end.
func (b *BatchExpander) ScrapeDateGrid(ctx context.Context, req dto.DateGridRequest) (dto.BatchResult, error) {
	pairs, err := ExpandDateGrid(req.WindowStart, req.WindowEnd)
	if err != nil {
		return dto.BatchResult{}, err
	}

	routes := make([]dto.SearchRequest, len(pairs))
	for i, pair := range pairs {
		routes[i] = dto.SearchRequest{
			DepartureCode: req.DepartureCode,
			ArrivalCode:   req.ArrivalCode,
			StartDate:     pair[0],
			EndDate:       pair[1],
			SeatClass:     req.SeatClass,
		}
	}

	return b.run(ctx, routes), nil
}

// ExpandDateGrid enumerates every (start, end) combination with start < end
// inside the inclusive window. A window of N days yields N*(N-1)/2 pairs.
func ExpandDateGrid(windowStart, windowEnd string) ([][2]string, error) {
	start, err := time.Parse(dto.DateLayout, windowStart)
	if err != nil {
		return nil, dto.ValidateDateRange(windowStart, windowEnd, time.Now())
	}

	end, err := time.Parse(dto.DateLayout, windowEnd)
	if err != nil {
		return nil, dto.ValidateDateRange(windowStart, windowEnd, time.Now())
	}

	var pairs [][2]string

	for depart := start; depart.Before(end); depart = depart.AddDate(0, 0, 1) {
		for ret := depart.AddDate(0, 0, 1); !ret.After(end); ret = ret.AddDate(0, 0, 1) {
			pairs = append(pairs, [2]string{
				depart.Format(dto.DateLayout),
				ret.Format(dto.DateLayout),
			})
		}
	}

	return pairs, nil
}

func (b *BatchExpander) run(ctx context.Context, routes []dto.SearchRequest) dto.BatchResult {
	startTime := time.Now()

	results := make([]dto.FlightResult, len(routes))
	failures := make([]bool, len(routes))

	concurrency := b.MaxConcurrency
	if concurrency <= 0 {
		concurrency = 1
	}

	semaphore := make(chan struct{}, concurrency)

	var waitGroup sync.WaitGroup

	waitGroup.Add(len(routes))
	for i, route := range routes {
		go func(i int, route dto.SearchRequest) {
			defer waitGroup.Done()

			// Stagger starts so workers do not hit the source in one burst.
			if b.StartJitter > 0 {
				select {
				case <-time.After(time.Duration(rand.Int63n(int64(b.StartJitter)))):
				case <-ctx.Done():
				}
			}

			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			result, err := b.Scraper.ScrapeFlight(ctx, route)
			if err != nil {
				slog.WarnContext(ctx, "batch entry failed",
					logger.RouteAttr(route.DepartureCode, route.ArrivalCode, route.StartDate, route.EndDate),
					slog.String("error", err.Error()))

				if result.FailureReason == "" {
					result.FailureReason = err.Error()
				}

				// Inputs stay populated on failed entries, never dropped.
				if result.Inputs.DepartureAirport == "" {
					result.Inputs = dto.SearchInputs{
						DepartureAirport: route.DepartureCode,
						ArrivalAirport:   route.ArrivalCode,
						DepartureDate:    route.StartDate,
						ReturnDate:       route.EndDate,
						SeatClass:        route.SeatClass,
					}
				}

				if result.PriceRelativity == "" {
					result.PriceRelativity = dto.PriceRelativityNA
				}

				failures[i] = true
			}

			results[i] = result
		}(i, route)
	}

	waitGroup.Wait()

	failed := 0
	for _, wasFailure := range failures {
		if wasFailure {
			failed++
		}
	}

	cacheHits := 0
	for _, result := range results {
		if result.CacheHit {
			cacheHits++
		}
	}

	return dto.BatchResult{
		Metadata: dto.BatchMetadata{
			TotalCombinations: len(routes),
			Succeeded:         len(routes) - failed,
			Failed:            failed,
			SearchTimeMs:      int(time.Since(startTime).Milliseconds()),
			CacheHits:         cacheHits,
		},
		Results: results,
	}
}
