package airports

import (
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/jszwec/csvutil"

	"github.com/farescout/flight-scraper-service/internal/pkg/exception"
)

const domesticCountry = "United States of America"

// Airport is one row of the reference table. The CSV header must match the
// csv tags exactly.
type Airport struct {
	IATA    string `csv:"IATA"`
	City    string `csv:"City"`
	Country string `csv:"Country"`
}

// Table is the in-memory airport reference table, loaded once at construction.
type Table struct {
	byCode map[string]Airport
	byCity map[string]Airport
}

// LoadTable reads the reference table from a CSV file.
func LoadTable(path string) (*Table, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open airport codes file: %w", err)
	}
	defer file.Close()

	return ParseTable(file)
}

// ParseTable decodes airport rows from an io.Reader containing CSV data.
func ParseTable(reader io.Reader) (*Table, error) {
	decoder, err := csvutil.NewDecoder(csv.NewReader(reader))
	if err != nil {
		return nil, fmt.Errorf("failed to create CSV decoder for airport codes: %w", err)
	}

	var rows []Airport
	if err := decoder.Decode(&rows); err != nil {
		return nil, fmt.Errorf("failed to decode airport codes CSV data: %w", err)
	}

	table := &Table{
		byCode: make(map[string]Airport, len(rows)),
		byCity: make(map[string]Airport, len(rows)),
	}

	for _, row := range rows {
		table.byCode[NormalizeCode(row.IATA)] = row
		table.byCity[strings.ToUpper(strings.TrimSpace(row.City))] = row
	}

	return table, nil
}

// NormalizeCode converts 4-letter US ICAO codes (e.g. "KJFK") to 3-letter
// codes ("JFK"). Other codes are returned as is. Converts to uppercase.
func NormalizeCode(code string) string {
	upperCode := strings.ToUpper(strings.TrimSpace(code))
	if len(upperCode) == 4 && strings.HasPrefix(upperCode, "K") {
		return upperCode[1:]
	}
	return upperCode
}

// Lookup resolves an IATA code or city name to its reference row.
func (t *Table) Lookup(code string) (Airport, error) {
	if airport, ok := t.byCode[NormalizeCode(code)]; ok {
		return airport, nil
	}

	if airport, ok := t.byCity[strings.ToUpper(strings.TrimSpace(code))]; ok {
		return airport, nil
	}

	return Airport{}, InvalidAirportCode(code)
}

// ValidatePair resolves both endpoints of a route and reports whether the
// trip is domestic US. The classification gates the legal seat classes.
func (t *Table) ValidatePair(departureCode, arrivalCode string) (departure, arrival Airport, domestic bool, err error) {
	departure, err = t.Lookup(departureCode)
	if err != nil {
		return Airport{}, Airport{}, false, err
	}

	arrival, err = t.Lookup(arrivalCode)
	if err != nil {
		return Airport{}, Airport{}, false, err
	}

	domestic = strings.EqualFold(departure.Country, domesticCountry) &&
		strings.EqualFold(arrival.Country, domesticCountry)

	return departure, arrival, domestic, nil
}

// InvalidAirportCode builds the validation error naming the offending code.
func InvalidAirportCode(code string) error {
	return exception.ApplicationError{
		StatusCode: http.StatusBadRequest,
		Message:    fmt.Sprintf("invalid airport code: %s", code),
	}
}
