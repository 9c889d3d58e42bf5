package dto

import (
	"fmt"
	"net/http"
	"time"

	"github.com/farescout/flight-scraper-service/internal/pkg/exception"
)

// DateLayout is the wire format for all calendar dates.
const DateLayout = "2006-01-02"

// PriceRelativityNA is the sentinel used when the source renders no
// baseline price indicator.
const PriceRelativityNA = "NA"

// SearchRequest is one route/date query. Immutable once validated; invalid
// combinations are rejected before any browser session is created.
type SearchRequest struct {
	DepartureCode string `json:"departure_code" validate:"required,min=3"`
	ArrivalCode   string `json:"arrival_code" validate:"required,min=3"`
	StartDate     string `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate       string `json:"end_date" validate:"required,datetime=2006-01-02"`
	SeatClass     string `json:"seat_class" validate:"required"`
}

func (s *SearchRequest) Bind(r *http.Request) error {
	if err := s.Validate(); err != nil {
		return fmt.Errorf("error validate request: %w", err)
	}

	return nil
}

func (s *SearchRequest) Validate() error {
	if err := ValidateSingleError(s); err != nil {
		return exception.ApplicationError{
			StatusCode: http.StatusBadRequest,
			Message:    err.Error(),
		}
	}

	return ValidateDateRange(s.StartDate, s.EndDate, time.Now())
}

// ValidateDateRange enforces start < end with both dates in the future
// relative to now. Formats were already checked by the struct validator.
func ValidateDateRange(startDate, endDate string, now time.Time) error {
	start, err := time.Parse(DateLayout, startDate)
	if err != nil {
		return invalidDateRange(fmt.Sprintf("invalid start date: %s", startDate))
	}

	end, err := time.Parse(DateLayout, endDate)
	if err != nil {
		return invalidDateRange(fmt.Sprintf("invalid end date: %s", endDate))
	}

	if !end.After(start) {
		return invalidDateRange(fmt.Sprintf("return date (%s) must be after departure date (%s)",
			endDate, startDate))
	}

	today := now.Truncate(24 * time.Hour)
	if start.Before(today) {
		return invalidDateRange(fmt.Sprintf("departure date (%s) must be in the future", startDate))
	}

	return nil
}

func invalidDateRange(message string) error {
	return exception.ApplicationError{
		StatusCode: http.StatusBadRequest,
		Message:    message,
	}
}

// RoutesRequest drives one query per route tuple, output order preserved.
type RoutesRequest struct {
	Routes []SearchRequest `json:"routes" validate:"required,min=1,dive"`
}

func (r *RoutesRequest) Bind(_ *http.Request) error {
	if err := ValidateSingleError(r); err != nil {
		return exception.ApplicationError{
			StatusCode: http.StatusBadRequest,
			Message:    err.Error(),
		}
	}

	// Per-route date validation happens per entry inside the batch so a bad
	// tuple fails its own entry, not the whole call shape.
	return nil
}

// DateGridRequest drives one query per (start, end) pair with start < end
// drawn from the inclusive window, ascending start then ascending end.
type DateGridRequest struct {
	DepartureCode string `json:"departure_code" validate:"required,min=3"`
	ArrivalCode   string `json:"arrival_code" validate:"required,min=3"`
	SeatClass     string `json:"seat_class" validate:"required"`
	WindowStart   string `json:"window_start" validate:"required,datetime=2006-01-02"`
	WindowEnd     string `json:"window_end" validate:"required,datetime=2006-01-02"`
}

func (g *DateGridRequest) Bind(_ *http.Request) error {
	if err := ValidateSingleError(g); err != nil {
		return exception.ApplicationError{
			StatusCode: http.StatusBadRequest,
			Message:    err.Error(),
		}
	}

	return ValidateDateRange(g.WindowStart, g.WindowEnd, time.Now())
}

// SearchInputs echoes the originating request in every result record.
// Countries are resolved from the reference table, not caller input.
type SearchInputs struct {
	DepartureAirport string `json:"departure_airport"`
	DepartureCountry string `json:"departure_country"`
	ArrivalAirport   string `json:"arrival_airport"`
	ArrivalCountry   string `json:"arrival_country"`
	DepartureDate    string `json:"departure_date"`
	ReturnDate       string `json:"return_date"`
	SeatClass        string `json:"seat_class"`
}

// FlightLeg is one direction of a round trip. Duration, time, and price
// strings are verbatim source text. ConnectionAirports and LayoverDurations
// are always length-aligned; both are empty for nonstop legs.
type FlightLeg struct {
	Airline            string   `json:"airline"`
	DepartureTime      string   `json:"departure_time"`
	ArrivalTime        string   `json:"arrival_time"`
	TotalDuration      string   `json:"total_duration"`
	NumStops           int      `json:"num_stops"`
	ConnectionAirports []string `json:"connection_airports"`
	LayoverDurations   []string `json:"layover_durations"`
	Price              string   `json:"price"`
}

// FlightResult is the assembled record for one route/date query. Absent
// legs serialize as null, never as omitted keys.
type FlightResult struct {
	Inputs          SearchInputs `json:"inputs"`
	DepartureFlight *FlightLeg   `json:"departure_flight"`
	ReturnFlight    *FlightLeg   `json:"return_flight"`
	TotalPrice      *string      `json:"total_price"`
	PriceRelativity string       `json:"price_relativity"`
	FailureReason   string       `json:"failure_reason,omitempty"`

	// CacheHit is bookkeeping for batch metadata, never serialized.
	CacheHit bool `json:"-"`
}

// BatchMetadata summarizes one batch or grid call.
type BatchMetadata struct {
	TotalCombinations int  `json:"total_combinations"`
	Succeeded         int  `json:"succeeded"`
	Failed            int  `json:"failed"`
	SearchTimeMs      int  `json:"search_time_ms"`
	CacheHits         int  `json:"cache_hits"`
}

// BatchResult holds one entry per input combination, in input order.
type BatchResult struct {
	Metadata BatchMetadata  `json:"metadata"`
	Results  []FlightResult `json:"results"`
}
