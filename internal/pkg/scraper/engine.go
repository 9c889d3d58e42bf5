package scraper

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/go-redis/redis_rate/v10"

	"github.com/farescout/flight-scraper-service/internal/app/dto"
	"github.com/farescout/flight-scraper-service/internal/pkg/airports"
	"github.com/farescout/flight-scraper-service/internal/pkg/logger"
)

// queryState tracks one query through its lifecycle. closed is reachable
// from every state: session teardown is unconditional.
type queryState string

const (
	stateValidated   queryState = "validated"
	stateSessionOpen queryState = "session_open"
	stateWaiting     queryState = "waiting"
	stateExtracting  queryState = "extracting"
	stateResolved    queryState = "resolved"
	stateClosed      queryState = "closed"
)

const rateLimitKey = "limit:flight-source"

// RouteQueryEngine composes validation, session management, wait/retry,
// extraction, and price resolution into the single route/date primitive.
type RouteQueryEngine struct {
	Airports     *airports.Table
	Sessions     Factory
	Waiter       *WaitRetryController
	BaseURL      string
	Limiter      *redis_rate.Limiter
	RateLimitRPS int
}

// NewRouteQueryEngine wires the engine. Limiter may be nil, in which case
// queries are not throttled.
func NewRouteQueryEngine(table *airports.Table, sessions Factory, waiter *WaitRetryController,
	baseURL string, limiter *redis_rate.Limiter, rateLimitRPS int) *RouteQueryEngine {
	return &RouteQueryEngine{
		Airports:     table,
		Sessions:     sessions,
		Waiter:       waiter,
		BaseURL:      baseURL,
		Limiter:      limiter,
		RateLimitRPS: rateLimitRPS,
	}
}

// ScrapeFlight runs one round-trip query. The returned FlightResult always
// echoes the request in its inputs block; on failure the legs stay absent
// and the failure reason is attached alongside the returned error.
func (e *RouteQueryEngine) ScrapeFlight(ctx context.Context, req dto.SearchRequest) (dto.FlightResult, error) {
	result := dto.FlightResult{
		Inputs: dto.SearchInputs{
			DepartureAirport: airports.NormalizeCode(req.DepartureCode),
			ArrivalAirport:   airports.NormalizeCode(req.ArrivalCode),
			DepartureDate:    req.StartDate,
			ReturnDate:       req.EndDate,
			SeatClass:        req.SeatClass,
		},
		PriceRelativity: dto.PriceRelativityNA,
	}

	// Fail fast: no browser session exists until every input checks out.
	departure, arrival, domestic, err := e.Airports.ValidatePair(req.DepartureCode, req.ArrivalCode)
	if err != nil {
		return e.failed(&result, err), err
	}

	result.Inputs.DepartureCountry = departure.Country
	result.Inputs.ArrivalCountry = arrival.Country

	if err := airports.ValidateSeatClass(req.SeatClass, domestic); err != nil {
		return e.failed(&result, err), err
	}

	if err := dto.ValidateDateRange(req.StartDate, req.EndDate, time.Now()); err != nil {
		return e.failed(&result, err), err
	}

	e.logState(ctx, stateValidated, req)

	if err := e.throttle(ctx); err != nil {
		return e.failed(&result, err), err
	}

	session, err := e.Sessions(ctx)
	if err != nil {
		navErr := ErrNavigation
		navErr.Cause = err

		return e.failed(&result, navErr), navErr
	}
	defer func() {
		session.Close()
		e.logState(ctx, stateClosed, req)
	}()

	e.logState(ctx, stateSessionOpen, req)

	searchURL := e.searchURL(req, departure, arrival)

	e.logState(ctx, stateWaiting, req)

	doc, err := e.Waiter.AwaitStableResults(ctx, session, searchURL)
	if err != nil {
		return e.failed(&result, err), err
	}

	e.logState(ctx, stateExtracting, req)

	departureLeg, err := ExtractBestItinerary(ctx, doc)
	if err != nil {
		return e.failed(&result, err), err
	}

	if departureLeg == nil {
		// Rendered fine, legitimately nothing on offer. Normal empty
		// result, not a fault.
		result.FailureReason = "no itineraries rendered for this route and date"
		return result, nil
	}

	result.DepartureFlight = departureLeg

	returnLeg := e.extractReturnLeg(ctx, session, req)
	result.ReturnFlight = returnLeg

	result.TotalPrice = SumLegPrices(departureLeg, returnLeg)

	// The baseline indicator renders after both legs are chosen; without a
	// total there is nothing to relate it to.
	if result.TotalPrice != nil && returnLeg != nil {
		result.PriceRelativity = e.resolveRelativity(ctx, session)
	}

	e.logState(ctx, stateResolved, req)

	return result, nil
}

// extractReturnLeg selects the best departure card and reads the return
// itinerary list the selection reveals. Failures leave the leg absent: a
// result lacking one leg is still usable.
func (e *RouteQueryEngine) extractReturnLeg(ctx context.Context, session Session, req dto.SearchRequest) *dto.FlightLeg {
	if err := session.Click(ctx, bestCardClickSelector); err != nil {
		slog.WarnContext(ctx, "failed to select best departure itinerary",
			logger.RouteAttr(req.DepartureCode, req.ArrivalCode, req.StartDate, req.EndDate),
			slog.String("error", err.Error()))

		return nil
	}

	doc, err := e.Waiter.AwaitSettled(ctx, session)
	if err != nil {
		slog.WarnContext(ctx, "return itinerary list never stabilized",
			logger.RouteAttr(req.DepartureCode, req.ArrivalCode, req.StartDate, req.EndDate),
			slog.String("error", err.Error()))

		return nil
	}

	leg, err := ExtractBestItinerary(ctx, doc)
	if err != nil {
		slog.WarnContext(ctx, "return itinerary extraction failed",
			logger.RouteAttr(req.DepartureCode, req.ArrivalCode, req.StartDate, req.EndDate),
			slog.String("error", err.Error()))

		return nil
	}

	return leg
}

// resolveRelativity selects the best return card and reads the price
// insight badge from the summary state, if the source rendered one.
func (e *RouteQueryEngine) resolveRelativity(ctx context.Context, session Session) string {
	if err := session.Click(ctx, bestCardClickSelector); err != nil {
		return dto.PriceRelativityNA
	}

	doc, err := e.Waiter.AwaitSettled(ctx, session)
	if err != nil {
		return dto.PriceRelativityNA
	}

	insight, ok := FindPriceInsight(doc)
	if !ok {
		return dto.PriceRelativityNA
	}

	return ResolveRelativity(insight)
}

// searchURL builds the deep link the source resolves into a filled
// round-trip search.
func (e *RouteQueryEngine) searchURL(req dto.SearchRequest, departure, arrival airports.Airport) string {
	query := fmt.Sprintf("flights from %s to %s on %s through %s %s class",
		departure.IATA, arrival.IATA, req.StartDate, req.EndDate, req.SeatClass)

	return fmt.Sprintf("%s?q=%s&curr=USD&hl=en", e.BaseURL, url.QueryEscape(query))
}

// throttle respects the source's implicit rate tolerance. With no limiter
// configured queries pass straight through.
func (e *RouteQueryEngine) throttle(ctx context.Context) error {
	if e.Limiter == nil || e.RateLimitRPS <= 0 {
		return nil
	}

	for {
		res, err := e.Limiter.Allow(ctx, rateLimitKey, redis_rate.PerSecond(e.RateLimitRPS))
		if err != nil {
			return fmt.Errorf("failed to rate limit: %w", err)
		}

		if res.Allowed > 0 {
			return nil
		}

		select {
		case <-time.After(res.RetryAfter):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (e *RouteQueryEngine) failed(result *dto.FlightResult, err error) dto.FlightResult {
	result.FailureReason = err.Error()
	return *result
}

func (e *RouteQueryEngine) logState(ctx context.Context, state queryState, req dto.SearchRequest) {
	slog.DebugContext(ctx, "query state transition",
		slog.String("state", string(state)),
		logger.RouteAttr(req.DepartureCode, req.ArrivalCode, req.StartDate, req.EndDate))
}
