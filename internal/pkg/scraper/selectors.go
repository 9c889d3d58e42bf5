package scraper

// CSS selectors used across the scraper. The source page carries no schema
// contract; everything here targets ARIA attributes, which have survived
// layout churn far longer than the obfuscated class names.
const (
	// Results page
	progressBarSelector = "div[role='progressbar']"
	mainContentSelector = "[role='main']"
	cardSelector        = "li"

	// Each itinerary card carries its full accessible description here.
	cardDescriptionSelector = "div[aria-label^='From ']"

	// First-ranked card of the active itinerary list. The source's own
	// ranking is trusted; source order is preserved on ties.
	bestCardClickSelector = "ul[role='list'] li div[aria-label^='From ']"

	// Navigation readiness
	bodySelector = "body"
)

// Known variants of the itinerary list anchor. A settled page matching none
// of these is a structural fault, not a timeout.
var resultsListVariants = []string{
	"ul[role='list']",
	"[role='main'] ul",
	"ul[aria-label*='flights']",
}
