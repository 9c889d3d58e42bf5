package scraper

import (
	"context"
	"time"

	"github.com/chromedp/chromedp"
)

// Session is one browser-automation session. It is a thin capability
// surface: no retry logic lives here, the wait/retry controller drives it.
// Close must be invoked on every exit path.
type Session interface {
	Open(ctx context.Context, url string) error
	HTML(ctx context.Context, selector string) (string, error)
	Click(ctx context.Context, selector string) error
	Close()
}

// Factory builds a fresh Session bound to ctx. Cancelling ctx tears the
// session down, so batch cancellation closes every still-open session.
type Factory func(ctx context.Context) (Session, error)

// BrowserConfig holds the chromedp launch options.
type BrowserConfig struct {
	Headless   bool
	NavTimeout time.Duration
	UserAgent  string
}

const defaultUserAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/126.0.0.0 Safari/537.36"

// NewBrowserFactory returns a Factory producing headless-Chrome sessions.
func NewBrowserFactory(cfg BrowserConfig) Factory {
	if cfg.UserAgent == "" {
		cfg.UserAgent = defaultUserAgent
	}

	if cfg.NavTimeout <= 0 {
		cfg.NavTimeout = 30 * time.Second
	}

	return func(ctx context.Context) (Session, error) {
		opts := append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("headless", cfg.Headless),
			chromedp.Flag("no-sandbox", true),
			chromedp.Flag("disable-dev-shm-usage", true),
			chromedp.Flag("disable-blink-features", "AutomationControlled"),
			chromedp.Flag("disable-gpu", true),
			chromedp.UserAgent(cfg.UserAgent),
		)

		allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
		browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)

		return &browserSession{
			browserCtx:    browserCtx,
			cancelBrowser: cancelBrowser,
			cancelAlloc:   cancelAlloc,
			navTimeout:    cfg.NavTimeout,
		}, nil
	}
}

type browserSession struct {
	browserCtx    context.Context
	cancelBrowser context.CancelFunc
	cancelAlloc   context.CancelFunc
	navTimeout    time.Duration
	closed        bool
}

func (s *browserSession) Open(ctx context.Context, url string) error {
	if s.closed {
		return ErrSessionClosed
	}

	runCtx, cancel := context.WithTimeout(s.browserCtx, s.navTimeout)
	defer cancel()

	err := chromedp.Run(runCtx,
		chromedp.Navigate(url),
		chromedp.WaitReady(bodySelector, chromedp.ByQuery),
	)
	if err != nil {
		navErr := ErrNavigation
		navErr.Cause = err

		return navErr
	}

	return nil
}

func (s *browserSession) HTML(ctx context.Context, selector string) (string, error) {
	if s.closed {
		return "", ErrSessionClosed
	}

	if err := ctx.Err(); err != nil {
		return "", err
	}

	runCtx, cancel := context.WithTimeout(s.browserCtx, s.navTimeout)
	defer cancel()

	var html string
	if err := chromedp.Run(runCtx, chromedp.OuterHTML(selector, &html, chromedp.ByQuery)); err != nil {
		staleErr := ErrStaleSnapshot
		staleErr.Cause = err

		return "", staleErr
	}

	return html, nil
}

func (s *browserSession) Click(ctx context.Context, selector string) error {
	if s.closed {
		return ErrSessionClosed
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	runCtx, cancel := context.WithTimeout(s.browserCtx, s.navTimeout)
	defer cancel()

	if err := chromedp.Run(runCtx, chromedp.Click(selector, chromedp.ByQuery)); err != nil {
		staleErr := ErrStaleSnapshot
		staleErr.Cause = err

		return staleErr
	}

	return nil
}

func (s *browserSession) Close() {
	if s.closed {
		return
	}

	s.closed = true
	s.cancelBrowser()
	s.cancelAlloc()
}
