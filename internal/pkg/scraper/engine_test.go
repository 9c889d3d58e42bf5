//go:build unit

package scraper

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/farescout/flight-scraper-service/internal/app/dto"
	"github.com/farescout/flight-scraper-service/internal/pkg/airports"
	"github.com/farescout/flight-scraper-service/internal/pkg/exception"
)

const engineTableCSV = `IATA,City,Country
JFK,New York,United States of America
LAX,Los Angeles,United States of America
LHR,London,United Kingdom
`

const returnLegDescription = "From 312 US dollars round trip total. " +
	"Nonstop flight with United. " +
	"Leaves John F Kennedy International Airport at 9:30 AM on Monday, March 22 " +
	"and arrives at Los Angeles International Airport at 12:55 PM on Monday, March 22. " +
	"Total duration 6 hr 25 min."

const insightPage = `<html><body><div role="main">` +
	`<div><div>$57 cheaper than usual for your search</div></div>` +
	`<ul role="list"><li><div aria-label="` + returnLegDescription + `"></div></li></ul>` +
	`</div></body></html>`

// phasedSession serves one page per interaction phase; Click advances to
// the next phase, which is how the real page moves from departure list to
// return list to trip summary.
type phasedSession struct {
	phases   []string
	phase    int
	clickErr error
	clicks   int
	closed   bool
}

func (s *phasedSession) Open(_ context.Context, _ string) error { return nil }

func (s *phasedSession) HTML(_ context.Context, _ string) (string, error) {
	idx := s.phase
	if idx >= len(s.phases) {
		idx = len(s.phases) - 1
	}

	return s.phases[idx], nil
}

func (s *phasedSession) Click(_ context.Context, _ string) error {
	if s.clickErr != nil {
		return s.clickErr
	}

	s.clicks++
	if s.phase < len(s.phases)-1 {
		s.phase++
	}

	return nil
}

func (s *phasedSession) Close() { s.closed = true }

func engineTable(t *testing.T) *airports.Table {
	t.Helper()

	table, err := airports.ParseTable(strings.NewReader(engineTableCSV))
	require.NoError(t, err)

	return table
}

func newTestEngine(t *testing.T, session Session) *RouteQueryEngine {
	t.Helper()

	factory := func(_ context.Context) (Session, error) {
		return session, nil
	}

	return NewRouteQueryEngine(engineTable(t), factory, fastWaiter(0),
		"https://example.test/flights", nil, 0)
}

func validRequest() dto.SearchRequest {
	return dto.SearchRequest{
		DepartureCode: "LAX",
		ArrivalCode:   "JFK",
		StartDate:     "2027-03-15",
		EndDate:       "2027-03-22",
		SeatClass:     "economy (include basic)",
	}
}

func TestRouteQueryEngine_ScrapeFlight(t *testing.T) {
	session := &phasedSession{
		phases: []string{
			resultsPage(nonstopDescription),
			resultsPage(returnLegDescription),
			insightPage,
		},
	}

	result, err := newTestEngine(t, session).ScrapeFlight(context.Background(), validRequest())
	require.NoError(t, err)

	assert.Equal(t, "LAX", result.Inputs.DepartureAirport)
	assert.Equal(t, "United States of America", result.Inputs.DepartureCountry)
	assert.Equal(t, "United States of America", result.Inputs.ArrivalCountry)

	require.NotNil(t, result.DepartureFlight)
	assert.Equal(t, "Delta", result.DepartureFlight.Airline)
	assert.Equal(t, "$209", result.DepartureFlight.Price)

	require.NotNil(t, result.ReturnFlight)
	assert.Equal(t, "United", result.ReturnFlight.Airline)

	require.NotNil(t, result.TotalPrice)
	assert.Equal(t, "$521", *result.TotalPrice)

	assert.Equal(t, "$57", result.PriceRelativity)
	assert.Empty(t, result.FailureReason)

	assert.Equal(t, 2, session.clicks)
	assert.True(t, session.closed)
}

func TestRouteQueryEngine_ValidationBeforeSession(t *testing.T) {
	run := func(mutate func(req *dto.SearchRequest), wantMessage string) func(t *testing.T) {
		return func(t *testing.T) {
			req := validRequest()
			mutate(&req)

			factoryCalled := false
			factory := func(_ context.Context) (Session, error) {
				factoryCalled = true
				return nil, errors.New("must not be reached")
			}

			engine := NewRouteQueryEngine(engineTable(t), factory, fastWaiter(0),
				"https://example.test/flights", nil, 0)

			result, err := engine.ScrapeFlight(context.Background(), req)

			require.Error(t, err)
			assert.False(t, factoryCalled, "no session may open before validation passes")

			var appErr exception.ApplicationError
			require.True(t, errors.As(err, &appErr))
			assert.Equal(t, http.StatusBadRequest, appErr.StatusCode)
			assert.Contains(t, appErr.Message, wantMessage)

			assert.NotEmpty(t, result.FailureReason)
			assert.Nil(t, result.DepartureFlight)
			assert.Equal(t, dto.PriceRelativityNA, result.PriceRelativity)
		}
	}

	t.Run("unknown_airport", run(func(req *dto.SearchRequest) {
		req.ArrivalCode = "ZZZ"
	}, "invalid airport code"))

	t.Run("seat_class_wrong_vocabulary", run(func(req *dto.SearchRequest) {
		// The basic-economy split only exists on domestic US searches.
		req.ArrivalCode = "LHR"
	}, "invalid seat class"))

	t.Run("return_before_departure", run(func(req *dto.SearchRequest) {
		req.StartDate = "2027-03-22"
		req.EndDate = "2027-03-15"
	}, "must be after"))
}

func TestRouteQueryEngine_EmptyResults(t *testing.T) {
	session := &phasedSession{phases: []string{settledEmptyPage}}

	result, err := newTestEngine(t, session).ScrapeFlight(context.Background(), validRequest())
	require.NoError(t, err)

	assert.Nil(t, result.DepartureFlight)
	assert.Nil(t, result.ReturnFlight)
	assert.Nil(t, result.TotalPrice)
	assert.Equal(t, dto.PriceRelativityNA, result.PriceRelativity)
	assert.Contains(t, result.FailureReason, "no itineraries")
	assert.True(t, session.closed)
}

func TestRouteQueryEngine_ReturnLegSelectionFails(t *testing.T) {
	session := &phasedSession{
		phases:   []string{resultsPage(nonstopDescription)},
		clickErr: ErrStaleSnapshot,
	}

	result, err := newTestEngine(t, session).ScrapeFlight(context.Background(), validRequest())
	require.NoError(t, err)

	// A result lacking the return leg is still usable.
	require.NotNil(t, result.DepartureFlight)
	assert.Nil(t, result.ReturnFlight)

	require.NotNil(t, result.TotalPrice)
	assert.Equal(t, "$209", *result.TotalPrice)

	assert.Equal(t, dto.PriceRelativityNA, result.PriceRelativity)
	assert.True(t, session.closed)
}

func TestRouteQueryEngine_TimeoutTearsDownSession(t *testing.T) {
	session := &phasedSession{phases: []string{loadingPage}}

	result, err := newTestEngine(t, session).ScrapeFlight(context.Background(), validRequest())

	assert.ErrorIs(t, err, ErrExtractionTimeout)
	assert.NotEmpty(t, result.FailureReason)
	assert.True(t, session.closed, "session must be released on every exit path")
}

func TestRouteQueryEngine_SessionFactoryFailure(t *testing.T) {
	factory := func(_ context.Context) (Session, error) {
		return nil, errors.New("browser binary missing")
	}

	engine := NewRouteQueryEngine(engineTable(t), factory, fastWaiter(0),
		"https://example.test/flights", nil, 0)

	result, err := engine.ScrapeFlight(context.Background(), validRequest())

	require.Error(t, err)

	var appErr exception.ApplicationError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, http.StatusBadGateway, appErr.StatusCode)

	assert.Contains(t, result.FailureReason, "navigate")
}

func TestRouteQueryEngine_SearchURL(t *testing.T) {
	engine := newTestEngine(t, &phasedSession{phases: []string{settledEmptyPage}})

	url := engine.searchURL(validRequest(),
		airports.Airport{IATA: "LAX"}, airports.Airport{IATA: "JFK"})

	assert.Contains(t, url, "https://example.test/flights?q=")
	assert.Contains(t, url, "LAX+to+JFK")
	assert.Contains(t, url, "curr=USD")
}
