//go:build unit

package scraper

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/farescout/flight-scraper-service/internal/app/dto"
)

// stubScraper echoes each route back, failing the ones listed and delaying
// the ones listed so completion order differs from input order.
type stubScraper struct {
	mu     sync.Mutex
	fail   map[string]error
	delay  map[string]time.Duration
	calls  int
	cached map[string]bool
}

func (s *stubScraper) ScrapeFlight(ctx context.Context, req dto.SearchRequest) (dto.FlightResult, error) {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()

	if d, ok := s.delay[req.DepartureCode]; ok {
		select {
		case <-time.After(d):
		case <-ctx.Done():
			return dto.FlightResult{}, ctx.Err()
		}
	}

	result := dto.FlightResult{
		Inputs: dto.SearchInputs{
			DepartureAirport: req.DepartureCode,
			ArrivalAirport:   req.ArrivalCode,
			DepartureDate:    req.StartDate,
			ReturnDate:       req.EndDate,
			SeatClass:        req.SeatClass,
		},
		PriceRelativity: dto.PriceRelativityNA,
		CacheHit:        s.cached[req.DepartureCode],
	}

	if err, ok := s.fail[req.DepartureCode]; ok {
		return dto.FlightResult{}, err
	}

	return result, nil
}

func route(departure string) dto.SearchRequest {
	return dto.SearchRequest{
		DepartureCode: departure,
		ArrivalCode:   "JFK",
		StartDate:     "2027-03-15",
		EndDate:       "2027-03-22",
		SeatClass:     "business",
	}
}

func TestExpandDateGrid(t *testing.T) {
	t.Run("four_day_window", func(t *testing.T) {
		pairs, err := ExpandDateGrid("2027-03-10", "2027-03-13")
		require.NoError(t, err)

		// A window of N days yields N*(N-1)/2 combinations.
		require.Len(t, pairs, 6)

		assert.Equal(t, [2]string{"2027-03-10", "2027-03-11"}, pairs[0])
		assert.Equal(t, [2]string{"2027-03-10", "2027-03-12"}, pairs[1])
		assert.Equal(t, [2]string{"2027-03-10", "2027-03-13"}, pairs[2])
		assert.Equal(t, [2]string{"2027-03-11", "2027-03-12"}, pairs[3])
		assert.Equal(t, [2]string{"2027-03-11", "2027-03-13"}, pairs[4])
		assert.Equal(t, [2]string{"2027-03-12", "2027-03-13"}, pairs[5])
	})

	t.Run("single_day_window", func(t *testing.T) {
		pairs, err := ExpandDateGrid("2027-03-10", "2027-03-10")
		require.NoError(t, err)
		assert.Empty(t, pairs)
	})

	t.Run("bad_date", func(t *testing.T) {
		_, err := ExpandDateGrid("not-a-date", "2027-03-10")
		assert.Error(t, err)
	})
}

func TestBatchExpander_OrderPreserved(t *testing.T) {
	// The first route finishes last; output order must not care.
	scraper := &stubScraper{
		delay: map[string]time.Duration{"LAX": 30 * time.Millisecond},
	}

	expander := NewBatchExpander(scraper, 3, 0)

	batch := expander.ScrapeRoutes(context.Background(),
		[]dto.SearchRequest{route("LAX"), route("SEA"), route("ORD")})

	require.Len(t, batch.Results, 3)
	assert.Equal(t, "LAX", batch.Results[0].Inputs.DepartureAirport)
	assert.Equal(t, "SEA", batch.Results[1].Inputs.DepartureAirport)
	assert.Equal(t, "ORD", batch.Results[2].Inputs.DepartureAirport)

	assert.Equal(t, 3, batch.Metadata.TotalCombinations)
	assert.Equal(t, 3, batch.Metadata.Succeeded)
	assert.Equal(t, 0, batch.Metadata.Failed)
}

func TestBatchExpander_FailureIsolation(t *testing.T) {
	scraper := &stubScraper{
		fail: map[string]error{"SEA": ErrExtractionTimeout},
	}

	expander := NewBatchExpander(scraper, 2, 0)

	batch := expander.ScrapeRoutes(context.Background(),
		[]dto.SearchRequest{route("LAX"), route("SEA"), route("ORD")})

	require.Len(t, batch.Results, 3)
	assert.Equal(t, 2, batch.Metadata.Succeeded)
	assert.Equal(t, 1, batch.Metadata.Failed)

	failed := batch.Results[1]
	assert.Contains(t, failed.FailureReason, "timed out")

	// Failed entries still carry their inputs and the relativity sentinel.
	assert.Equal(t, "SEA", failed.Inputs.DepartureAirport)
	assert.Equal(t, dto.PriceRelativityNA, failed.PriceRelativity)

	assert.Empty(t, batch.Results[0].FailureReason)
	assert.Empty(t, batch.Results[2].FailureReason)
}

func TestBatchExpander_CacheHitsCounted(t *testing.T) {
	scraper := &stubScraper{
		cached: map[string]bool{"LAX": true, "ORD": true},
	}

	expander := NewBatchExpander(scraper, 2, 0)

	batch := expander.ScrapeRoutes(context.Background(),
		[]dto.SearchRequest{route("LAX"), route("SEA"), route("ORD")})

	assert.Equal(t, 2, batch.Metadata.CacheHits)
}

func TestBatchExpander_ScrapeDateGrid(t *testing.T) {
	scraper := &stubScraper{}
	expander := NewBatchExpander(scraper, 4, 0)

	batch, err := expander.ScrapeDateGrid(context.Background(), dto.DateGridRequest{
		DepartureCode: "LAX",
		ArrivalCode:   "JFK",
		SeatClass:     "business",
		WindowStart:   "2027-03-10",
		WindowEnd:     "2027-03-13",
	})
	require.NoError(t, err)

	assert.Equal(t, 6, batch.Metadata.TotalCombinations)
	assert.Equal(t, 6, scraper.calls)

	// Grid entries come back in ascending (start, end) order.
	assert.Equal(t, "2027-03-10", batch.Results[0].Inputs.DepartureDate)
	assert.Equal(t, "2027-03-11", batch.Results[0].Inputs.ReturnDate)
	assert.Equal(t, "2027-03-12", batch.Results[5].Inputs.DepartureDate)
	assert.Equal(t, "2027-03-13", batch.Results[5].Inputs.ReturnDate)
}

func TestBatchExpander_Cancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	scraper := &stubScraper{
		delay: map[string]time.Duration{"LAX": time.Second, "SEA": time.Second},
	}

	expander := NewBatchExpander(scraper, 1, 0)

	start := time.Now()
	batch := expander.ScrapeRoutes(ctx, []dto.SearchRequest{route("LAX"), route("SEA")})

	assert.Less(t, time.Since(start), 500*time.Millisecond)
	assert.Equal(t, 2, batch.Metadata.Failed)
	assert.Equal(t, "LAX", batch.Results[0].Inputs.DepartureAirport)
}
