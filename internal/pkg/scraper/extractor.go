package scraper

import (
	"context"
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/farescout/flight-scraper-service/internal/app/dto"
)

// The source exposes one long accessible description per itinerary card.
// All field extraction works off that text: the page's visual markup has no
// schema contract, but the description grammar has been stable.
var (
	airlineRe   = regexp.MustCompile(`flight with ([^.]+)`)
	departureRe = regexp.MustCompile(`Leaves (.*?) at (\d{1,2}:\d{2}\s?[AP]M) on ([A-Za-z]+, [A-Za-z]+ \d{1,2})`)
	arrivalRe   = regexp.MustCompile(`arrives at (.*?) at (\d{1,2}:\d{2}\s?[AP]M) on ([A-Za-z]+, [A-Za-z]+ \d{1,2})`)
	durationRe  = regexp.MustCompile(`Total duration (\d+ hr \d+ min|\d+ hr|\d+ min)`)
	stopsRe     = regexp.MustCompile(`(\d+) stops?`)
	priceRe     = regexp.MustCompile(`From ([\d,]+) US dollars`)

	// "Layover (1 of 2) is a 1 hr 35 min layover at ...". The duration group
	// is optional: same-terminal quick connections sometimes render without one.
	layoverAtRe = regexp.MustCompile(`Layover \(\d+ of \d+\) is a ((?:\d+ hr)?(?: ?\d+ min)?)(?: overnight)? layover at ([^.]+?)(?: in [^.]+)?\.`)
	layoverInRe = regexp.MustCompile(`Layover \(\d+ of \d+\) is a ((?:\d+ hr)?(?: ?\d+ min)?)(?: overnight)? layover in ([^.]+?)\.`)
)

// ExtractBestItinerary maps the first-ranked itinerary card of a stable
// page into a FlightLeg. Returns (nil, nil) when the list rendered but is
// legitimately empty, and ErrExtractionFieldMismatch only when cards are
// present but none yields a single field. Partial records are preferred
// over hard failure.
func ExtractBestItinerary(ctx context.Context, doc *goquery.Document) (*dto.FlightLeg, error) {
	list, found := findResultsList(doc)
	if !found {
		// Leg section absent entirely (one-way rendering fallback). The
		// caller decides whether a result lacking one leg is still usable.
		return nil, nil
	}

	cards := list.Find(cardSelector)
	if cards.Length() == 0 {
		return nil, nil
	}

	var (
		leg       *dto.FlightLeg
		anyParsed bool
	)

	cards.EachWithBreak(func(_ int, card *goquery.Selection) bool {
		label, ok := card.Find(cardDescriptionSelector).Attr("aria-label")
		if !ok {
			return true
		}

		parsed, fields := parseCardDescription(ctx, label)
		if fields == 0 {
			return true
		}

		leg = parsed
		anyParsed = true

		// First card that parses wins: the source's own ranking is trusted
		// and source order is preserved on ties.
		return false
	})

	if !anyParsed {
		return nil, ErrExtractionFieldMismatch
	}

	return leg, nil
}

// parseCardDescription extracts every field best-effort, returning the leg
// and how many fields matched. Duration, time, and price strings are kept
// verbatim.
func parseCardDescription(ctx context.Context, description string) (*dto.FlightLeg, int) {
	description = cleanDescription(description)

	leg := &dto.FlightLeg{
		ConnectionAirports: []string{},
		LayoverDurations:   []string{},
	}
	fields := 0

	if m := airlineRe.FindStringSubmatch(description); m != nil {
		leg.Airline = strings.TrimSpace(m[1])
		fields++
	}

	if m := departureRe.FindStringSubmatch(description); m != nil {
		leg.DepartureTime = strings.TrimSpace(m[2])
		fields++
	}

	if m := arrivalRe.FindStringSubmatch(description); m != nil {
		leg.ArrivalTime = strings.TrimSpace(m[2])
		fields++
	}

	if m := durationRe.FindStringSubmatch(description); m != nil {
		leg.TotalDuration = strings.TrimSpace(m[1])
		fields++
	}

	if m := priceRe.FindStringSubmatch(description); m != nil {
		leg.Price = "$" + m[1]
		fields++
	}

	connections, layovers := extractLayovers(description)
	leg.ConnectionAirports = connections
	leg.LayoverDurations = layovers

	// num_stops comes from the structural connection count; the displayed
	// stops label is the less reliable signal.
	leg.NumStops = len(connections)
	if len(connections) > 0 {
		fields++
	}

	if labelStops, ok := labeledStops(description); ok {
		fields++

		if labelStops != leg.NumStops {
			slog.WarnContext(ctx, "stops label disagrees with structural layover count",
				slog.Int("label", labelStops), slog.Int("structural", leg.NumStops))
		}
	}

	return leg, fields
}

func cleanDescription(description string) string {
	description = strings.ReplaceAll(description, " ", " ")
	return strings.ReplaceAll(description, " ", " ")
}

// extractLayovers returns positionally aligned connection airports and
// layover durations. A missing duration is recorded as an empty string at
// its position, preserving alignment.
func extractLayovers(description string) (connections, layovers []string) {
	connections = []string{}
	layovers = []string{}

	matches := layoverAtRe.FindAllStringSubmatch(description, -1)
	matches = append(matches, layoverInRe.FindAllStringSubmatch(description, -1)...)

	seen := map[string]struct{}{}

	for _, m := range matches {
		airport := strings.TrimSpace(m[2])
		if _, dup := seen[airport]; dup {
			continue
		}
		seen[airport] = struct{}{}

		connections = append(connections, airport)
		layovers = append(layovers, strings.TrimSpace(m[1]))
	}

	return connections, layovers
}

func labeledStops(description string) (int, bool) {
	if strings.Contains(description, "Nonstop") {
		return 0, true
	}

	if m := stopsRe.FindStringSubmatch(description); m != nil {
		n, err := strconv.Atoi(m[1])
		if err == nil {
			return n, true
		}
	}

	return 0, false
}
