//go:build unit

package scraper

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const loadingPage = `<html><body>` +
	`<div role="progressbar"></div>` +
	`<div role="main"><ul role="list"></ul></div>` +
	`</body></html>`

const settledEmptyPage = `<html><body>` +
	`<div role="main"><ul role="list"></ul></div>` +
	`</body></html>`

const unrecognizedPage = `<html><body>` +
	`<div role="main"><p>redesigned layout</p></div>` +
	`</body></html>`

// fakeSession scripts the page states a polling cycle observes. HTML
// returns pages in order, repeating the last one.
type fakeSession struct {
	openErrs []error
	pages    []string
	opens    int
	reads    int
	clicks   int
	closed   bool
}

func (s *fakeSession) Open(_ context.Context, _ string) error {
	s.opens++

	if s.opens <= len(s.openErrs) {
		return s.openErrs[s.opens-1]
	}

	return nil
}

func (s *fakeSession) HTML(_ context.Context, _ string) (string, error) {
	if len(s.pages) == 0 {
		return "", ErrStaleSnapshot
	}

	idx := s.reads
	if idx >= len(s.pages) {
		idx = len(s.pages) - 1
	}
	s.reads++

	return s.pages[idx], nil
}

func (s *fakeSession) Click(_ context.Context, _ string) error {
	s.clicks++
	return nil
}

func (s *fakeSession) Close() {
	s.closed = true
}

func fastWaiter(maxRetries int) *WaitRetryController {
	return NewWaitRetryController(50*time.Millisecond, time.Millisecond, maxRetries)
}

func TestAwaitStableResults_StabilizesAfterRender(t *testing.T) {
	session := &fakeSession{
		pages: []string{
			loadingPage,
			resultsPage(nonstopDescription),
			resultsPage(nonstopDescription, oneStopDescription),
			resultsPage(nonstopDescription, oneStopDescription),
		},
	}

	doc, err := fastWaiter(0).AwaitStableResults(context.Background(), session, "https://example.test")
	require.NoError(t, err)
	require.NotNil(t, doc)

	assert.Equal(t, 1, session.opens)

	list, found := findResultsList(doc)
	require.True(t, found)
	assert.Len(t, cardFingerprints(list), 2)
}

func TestAwaitStableResults_EmptyStableListIsSuccess(t *testing.T) {
	session := &fakeSession{pages: []string{settledEmptyPage}}

	doc, err := fastWaiter(0).AwaitStableResults(context.Background(), session, "https://example.test")
	require.NoError(t, err)
	require.NotNil(t, doc)

	list, found := findResultsList(doc)
	require.True(t, found)
	assert.Empty(t, cardFingerprints(list))
}

func TestAwaitStableResults_RetriesThenTimesOut(t *testing.T) {
	session := &fakeSession{pages: []string{loadingPage}}

	_, err := fastWaiter(2).AwaitStableResults(context.Background(), session, "https://example.test")
	assert.ErrorIs(t, err, ErrExtractionTimeout)

	// Each retry re-navigates from scratch.
	assert.Equal(t, 3, session.opens)
}

func TestAwaitStableResults_StructureChangeIsTerminal(t *testing.T) {
	session := &fakeSession{pages: []string{unrecognizedPage}}

	_, err := fastWaiter(3).AwaitStableResults(context.Background(), session, "https://example.test")
	assert.ErrorIs(t, err, ErrPageStructureChanged)

	// No retry can help a changed layout.
	assert.Equal(t, 1, session.opens)
}

func TestAwaitStableResults_NavigationFailuresConsumeBudget(t *testing.T) {
	session := &fakeSession{
		openErrs: []error{ErrNavigation, ErrNavigation, ErrNavigation},
		pages:    []string{resultsPage(nonstopDescription)},
	}

	_, err := fastWaiter(2).AwaitStableResults(context.Background(), session, "https://example.test")
	assert.ErrorIs(t, err, ErrExtractionTimeout)
	assert.Equal(t, 3, session.opens)
}

func TestAwaitStableResults_RecoversAfterTransientNavigation(t *testing.T) {
	session := &fakeSession{
		openErrs: []error{ErrNavigation},
		pages:    []string{resultsPage(nonstopDescription)},
	}

	doc, err := fastWaiter(2).AwaitStableResults(context.Background(), session, "https://example.test")
	require.NoError(t, err)
	require.NotNil(t, doc)

	assert.Equal(t, 2, session.opens)
}

func TestAwaitStableResults_TerminalOpenError(t *testing.T) {
	session := &fakeSession{
		openErrs: []error{ErrSessionClosed},
	}

	_, err := fastWaiter(3).AwaitStableResults(context.Background(), session, "https://example.test")
	assert.ErrorIs(t, err, ErrSessionClosed)
	assert.Equal(t, 1, session.opens)
}

func TestAwaitStableResults_Cancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	session := &fakeSession{pages: []string{loadingPage}}

	_, err := fastWaiter(3).AwaitStableResults(ctx, session, "https://example.test")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestAwaitSettled(t *testing.T) {
	t.Run("settles", func(t *testing.T) {
		session := &fakeSession{pages: []string{resultsPage(oneStopDescription)}}

		doc, err := fastWaiter(0).AwaitSettled(context.Background(), session)
		require.NoError(t, err)
		assert.NotNil(t, doc)
	})

	t.Run("never_settles", func(t *testing.T) {
		session := &fakeSession{pages: []string{loadingPage}}

		_, err := fastWaiter(0).AwaitSettled(context.Background(), session)
		assert.ErrorIs(t, err, ErrExtractionTimeout)
	})
}
