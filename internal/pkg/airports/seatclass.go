package airports

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/farescout/flight-scraper-service/internal/pkg/exception"
)

// Seat classes accepted by the source site. Domestic US searches expose the
// basic-economy split; international searches do not.
var (
	domesticSeatClasses = map[string]struct{}{
		"economy (include basic)": {},
		"economy (exclude basic)": {},
		"premium economy":         {},
		"business":                {},
		"first":                   {},
	}

	internationalSeatClasses = map[string]struct{}{
		"economy":         {},
		"premium economy": {},
		"business":        {},
		"first":           {},
	}
)

// ValidateSeatClass checks seatClass against the vocabulary legal for the
// route classification. Matching is case-insensitive.
func ValidateSeatClass(seatClass string, domestic bool) error {
	vocabulary := internationalSeatClasses
	kind := "international"

	if domestic {
		vocabulary = domesticSeatClasses
		kind = "domestic US"
	}

	if _, ok := vocabulary[strings.ToLower(strings.TrimSpace(seatClass))]; !ok {
		return exception.ApplicationError{
			StatusCode: http.StatusBadRequest,
			Message:    fmt.Sprintf("invalid seat class for %s flight: %s", kind, seatClass),
		}
	}

	return nil
}
