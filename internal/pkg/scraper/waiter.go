package scraper

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/farescout/flight-scraper-service/internal/pkg/exception"
)

// errAttemptTimeout is internal to the controller: one polling attempt ran
// out of wait time. It consumes one slot of the retry budget.
var errAttemptTimeout = errors.New("polling attempt timed out")

// WaitRetryController polls a session until the itinerary list is rendered
// and stable, re-navigating up to MaxRetries times on transient failure.
//
// "Stable" means two consecutive polls observe an identical count and
// ordering of candidate card fingerprints; this guards against reading a
// mid-render DOM. Transient faults are swallowed and counted against the
// retry budget. Structural faults (no known selector variant matches a
// settled page) are terminal and fail immediately. A stable but empty list
// is a normal result, never a fault.
type WaitRetryController struct {
	WaitTime     time.Duration
	PollInterval time.Duration
	MaxRetries   int
}

// NewWaitRetryController applies defaults for unset fields.
func NewWaitRetryController(waitTime, pollInterval time.Duration, maxRetries int) *WaitRetryController {
	if waitTime <= 0 {
		waitTime = 10 * time.Second
	}

	if pollInterval <= 0 {
		pollInterval = 100 * time.Millisecond
	}

	if maxRetries < 0 {
		maxRetries = 0
	}

	return &WaitRetryController{
		WaitTime:     waitTime,
		PollInterval: pollInterval,
		MaxRetries:   maxRetries,
	}
}

// AwaitStableResults navigates the session to url and polls until the
// itinerary list stabilizes, returning the parsed page. Each retry cycle
// re-navigates before polling again.
func (w *WaitRetryController) AwaitStableResults(ctx context.Context, session Session, url string) (*goquery.Document, error) {
	for attempt := 0; attempt <= w.MaxRetries; attempt++ {
		if attempt > 0 {
			slog.DebugContext(ctx, "retrying with full re-navigation",
				slog.Int("attempt", attempt+1), slog.Int("max_retries", w.MaxRetries))
		}

		if err := session.Open(ctx, url); err != nil {
			if exception.IsTransient(err) {
				slog.WarnContext(ctx, "navigation failed, counting against retry budget",
					slog.Int("attempt", attempt+1), slog.String("error", err.Error()))
				continue
			}

			return nil, err
		}

		doc, err := w.pollUntilStable(ctx, session)
		if err == nil {
			return doc, nil
		}

		if errors.Is(err, errAttemptTimeout) {
			continue
		}

		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("wait cancelled: %w", ctxErr)
		}

		// Terminal fault: no retry helps.
		return nil, err
	}

	return nil, ErrExtractionTimeout
}

// AwaitSettled polls until the page's progress indicator is gone and the
// card fingerprints repeat, without any retry cycle. Used for follow-up
// page states inside an already-open query (leg selection, price insight).
func (w *WaitRetryController) AwaitSettled(ctx context.Context, session Session) (*goquery.Document, error) {
	doc, err := w.pollUntilStable(ctx, session)
	if err != nil {
		if errors.Is(err, errAttemptTimeout) {
			return nil, ErrExtractionTimeout
		}

		return nil, err
	}

	return doc, nil
}

func (w *WaitRetryController) pollUntilStable(ctx context.Context, session Session) (*goquery.Document, error) {
	deadline := time.Now().Add(w.WaitTime)

	var (
		previous  []string
		firstRead = true
	)

	for {
		if time.Now().After(deadline) {
			return nil, errAttemptTimeout
		}

		if err := ctx.Err(); err != nil {
			return nil, err
		}

		html, err := session.HTML(ctx, bodySelector)
		if err != nil {
			if !exception.IsTransient(err) {
				return nil, err
			}

			// Mid-render read: reset and keep polling.
			previous, firstRead = nil, true
			if err := w.sleep(ctx); err != nil {
				return nil, err
			}
			continue
		}

		doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
		if err != nil {
			previous, firstRead = nil, true
			if err := w.sleep(ctx); err != nil {
				return nil, err
			}
			continue
		}

		list, found := findResultsList(doc)
		if !found {
			if pageSettled(doc) {
				// Page finished rendering with none of the known anchors.
				return nil, ErrPageStructureChanged
			}

			previous, firstRead = nil, true
			if err := w.sleep(ctx); err != nil {
				return nil, err
			}
			continue
		}

		current := cardFingerprints(list)

		if !firstRead && fingerprintsEqual(previous, current) && pageSettled(doc) {
			return doc, nil
		}

		previous, firstRead = current, false

		if err := w.sleep(ctx); err != nil {
			return nil, err
		}
	}
}

func (w *WaitRetryController) sleep(ctx context.Context) error {
	select {
	case <-time.After(w.PollInterval):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// findResultsList locates the itinerary list by trying each known selector
// variant, preferring a list that actually contains card descriptions.
func findResultsList(doc *goquery.Document) (*goquery.Selection, bool) {
	var fallback *goquery.Selection

	for _, variant := range resultsListVariants {
		lists := doc.Find(variant)
		if lists.Length() == 0 {
			continue
		}

		var withCards *goquery.Selection

		lists.EachWithBreak(func(_ int, list *goquery.Selection) bool {
			if list.Find(cardDescriptionSelector).Length() > 0 {
				withCards = list
				return false
			}
			return true
		})

		if withCards != nil {
			return withCards, true
		}

		if fallback == nil {
			fallback = lists.First()
		}
	}

	if fallback != nil {
		// Anchor present but no cards yet (still rendering, or legitimately
		// empty). The stability check decides which.
		return fallback, true
	}

	return nil, false
}

// cardFingerprints captures the count and ordering of candidate cards.
func cardFingerprints(list *goquery.Selection) []string {
	var prints []string

	list.Find(cardSelector).Each(func(_ int, card *goquery.Selection) {
		label, ok := card.Find(cardDescriptionSelector).Attr("aria-label")
		if !ok {
			return
		}

		prints = append(prints, label)
	})

	return prints
}

func fingerprintsEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}

	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}

	return true
}

// pageSettled reports whether the progressive render has finished.
func pageSettled(doc *goquery.Document) bool {
	if doc.Find(progressBarSelector).Length() > 0 {
		return false
	}

	return doc.Find(mainContentSelector).Length() > 0
}
