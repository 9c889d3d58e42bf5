package scraper

import (
	"net/http"

	"github.com/farescout/flight-scraper-service/internal/pkg/exception"
)

// ErrExtractionTimeout is returned when no stable result set was observed
// within the per-attempt wait time across the full retry budget.
var ErrExtractionTimeout = exception.ApplicationError{
	StatusCode: http.StatusGatewayTimeout,
	Message:    "timed out waiting for a stable itinerary list",
}

// ErrPageStructureChanged is terminal: the page settled but no known
// selector variant matched, which means the source layout changed and
// retrying cannot help. Requires operator attention.
var ErrPageStructureChanged = exception.ApplicationError{
	StatusCode: http.StatusBadGateway,
	Message:    "source page structure changed: no known itinerary list selector matched",
}

// ErrNavigation covers failures reaching or loading the search page.
// Transient up to the retry budget, then promoted to ErrExtractionTimeout.
var ErrNavigation = exception.ApplicationError{
	StatusCode: http.StatusBadGateway,
	Message:    "failed to navigate to search page",
	Transient:  true,
}

// ErrStaleSnapshot covers mid-render reads that produced unusable markup.
var ErrStaleSnapshot = exception.ApplicationError{
	StatusCode: http.StatusBadGateway,
	Message:    "page snapshot unreadable mid-render",
	Transient:  true,
}

// ErrExtractionFieldMismatch is returned only when the itinerary list
// anchor is present but zero cards yield any field.
var ErrExtractionFieldMismatch = exception.ApplicationError{
	StatusCode: http.StatusBadGateway,
	Message:    "itinerary cards rendered but none could be parsed",
}

// ErrSessionClosed guards operations on a released browser session.
var ErrSessionClosed = exception.ApplicationError{
	StatusCode: http.StatusInternalServerError,
	Message:    "browser session already closed",
}
