package scraper

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/farescout/flight-scraper-service/internal/app/dto"
)

// The source's own price insight badge, when rendered, reads like
// "$57 cheaper than usual", "Prices are currently typical", or
// "... are high for your search". Only the current page is consulted, never
// history: without the badge there is no baseline.
var (
	cheaperAmountRe = regexp.MustCompile(`\$([\d,]+)\s*cheaper`)
	legPriceRe      = regexp.MustCompile(`^\$([\d,]+)$`)
)

// FindPriceInsight locates the insight badge text on a settled page.
func FindPriceInsight(doc *goquery.Document) (string, bool) {
	var insight string

	doc.Find("div").EachWithBreak(func(_ int, div *goquery.Selection) bool {
		text := div.Text()

		if strings.Contains(text, "cheaper") ||
			strings.Contains(text, "typical ") ||
			strings.Contains(text, "high ") ||
			strings.Contains(text, "low ") {
			// Narrow to the innermost matching element.
			if div.Children().Length() == 0 {
				insight = text
				return false
			}
		}

		return true
	})

	return insight, insight != ""
}

// ResolveRelativity derives the relative-price field from the insight text:
// a currency difference for cheaper-than-typical, "$0" when the source
// calls the price typical or high, "NA" when no baseline is shown.
func ResolveRelativity(insight string) string {
	switch {
	case strings.Contains(insight, "cheaper"):
		if m := cheaperAmountRe.FindStringSubmatch(insight); m != nil {
			return "$" + m[1]
		}

		return dto.PriceRelativityNA
	case strings.Contains(insight, "typical"), strings.Contains(insight, "high "):
		return "$0"
	default:
		return dto.PriceRelativityNA
	}
}

// SumLegPrices assembles total_price: the sum of both leg prices when both
// are present, the single available price otherwise, nil when neither is.
// Both prices must carry the same currency symbol.
func SumLegPrices(departure, ret *dto.FlightLeg) *string {
	depAmount, depOK := parseLegPrice(departure)
	retAmount, retOK := parseLegPrice(ret)

	switch {
	case depOK && retOK:
		total := formatUSD(depAmount + retAmount)
		return &total
	case depOK:
		total := formatUSD(depAmount)
		return &total
	case retOK:
		total := formatUSD(retAmount)
		return &total
	default:
		return nil
	}
}

func parseLegPrice(leg *dto.FlightLeg) (int64, bool) {
	if leg == nil {
		return 0, false
	}

	m := legPriceRe.FindStringSubmatch(strings.TrimSpace(leg.Price))
	if m == nil {
		return 0, false
	}

	amount, err := strconv.ParseInt(strings.ReplaceAll(m[1], ",", ""), 10, 64)
	if err != nil {
		return 0, false
	}

	return amount, true
}

// formatUSD renders an amount with thousands separators, matching the leg
// price formatting.
func formatUSD(amount int64) string {
	if amount == 0 {
		return "$0"
	}

	str := strconv.FormatInt(amount, 10)

	var result []byte
	count := 0
	for i := len(str) - 1; i >= 0; i-- {
		result = append([]byte{str[i]}, result...)
		count++
		if count%3 == 0 && i != 0 {
			result = append([]byte{','}, result...)
		}
	}

	return "$" + string(result)
}
