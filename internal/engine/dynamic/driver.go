// internal/engine/dynamic/driver.go
package dynamic

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/law-makers/pagesift/internal/proxy"
	"github.com/law-makers/pagesift/internal/reqctx"
	"github.com/law-makers/pagesift/internal/rules"
	"github.com/law-makers/pagesift/pkg/models"
	"github.com/rs/zerolog"
)

// TimeoutMessage is reported when rendering runs out of time
const TimeoutMessage = "Timeout during JS rendering"

// ErrTimeout replaces any deadline error that aborts a render
var ErrTimeout = errors.New(TimeoutMessage)

const (
	maxTabClicks      = 3
	maxLoadMoreClicks = 3
	paginationRounds  = 3
	scrollRounds      = 4
)

// Timings holds every timeout and pause used while rendering. A zero value
// means no timeout or no pause.
type Timings struct {
	Navigation time.Duration
	Settle     time.Duration

	// Probe bounds count and visibility checks, Script bounds plain
	// evaluations such as scroll height and markup capture
	Probe  time.Duration
	Script time.Duration

	TabClick        time.Duration
	TabPause        time.Duration
	LoadMoreClick   time.Duration
	LoadMorePause   time.Duration
	PaginationClick time.Duration
	PaginationPause time.Duration
	ScrollPause     time.Duration
}

// DefaultTimings returns the production timings
func DefaultTimings() Timings {
	return Timings{
		Navigation:      60 * time.Second,
		Settle:          1500 * time.Millisecond,
		Probe:           2 * time.Second,
		Script:          10 * time.Second,
		TabClick:        2 * time.Second,
		TabPause:        700 * time.Millisecond,
		LoadMoreClick:   3 * time.Second,
		LoadMorePause:   1200 * time.Millisecond,
		PaginationClick: 5 * time.Second,
		PaginationPause: 1200 * time.Millisecond,
		ScrollPause:     1800 * time.Millisecond,
	}
}

// Driver renders a page in a browser and simulates the user actions that
// reveal client-side content.
type Driver struct {
	launcher Launcher
	rules    *rules.Rules
	proxies  *proxy.Pool
	timings  Timings
}

// New creates a Driver
func New(l Launcher, r *rules.Rules, proxies *proxy.Pool, t Timings) *Driver {
	if r == nil {
		r = rules.Default()
	}
	return &Driver{
		launcher: l,
		rules:    r,
		proxies:  proxies,
		timings:  t,
	}
}

// Name returns the name of this driver
func (d *Driver) Name() string {
	return "DynamicDriver"
}

// Render opens a fresh session for url, runs every interaction pass and
// returns the final markup. On a fatal error the markup is empty and the
// interactions gathered so far are returned with the browser's own error,
// or ErrTimeout when a deadline expired.
func (d *Driver) Render(ctx context.Context, url string) (string, models.Interactions, error) {
	logger := reqctx.Logger(ctx).With().Str("driver", d.Name()).Logger()
	start := time.Now()
	in := models.NewInteractions(url)

	p := d.proxies.GetNext()
	page, closeSession, err := d.launcher.Launch(ctx, p)
	if err != nil {
		return "", in, timeoutOr(err)
	}
	defer closeSession()

	html, err := d.render(ctx, logger, page, url, &in)
	if err != nil {
		logger.Warn().Err(err).Msg("Render failed")
		if p != "" && isProxyError(err) {
			d.proxies.MarkFailed(p)
		}
		return "", in, timeoutOr(err)
	}

	logger.Debug().
		Int("clicks", len(in.Clicks)).
		Int("scrolls", in.Scrolls).
		Int("pages", len(in.Pages)).
		Int64("render_time_ms", time.Since(start).Milliseconds()).
		Msg("Render completed")
	return html, in, nil
}

func (d *Driver) render(ctx context.Context, logger zerolog.Logger, page Page, url string, in *models.Interactions) (string, error) {
	navCtx, cancel := bounded(ctx, d.timings.Navigation)
	err := page.Navigate(navCtx, url)
	cancel()
	if err != nil {
		return "", err
	}
	if err := pause(ctx, d.timings.Settle); err != nil {
		return "", err
	}

	d.removeNoise(ctx, logger, page)
	d.activateTabs(ctx, logger, page, in)
	d.expandLoadMore(ctx, logger, page, in)
	d.followPagination(ctx, logger, page, in)

	if err := d.triggerScroll(ctx, page, url, in); err != nil {
		return "", err
	}

	capCtx, cancel := bounded(ctx, d.timings.Script)
	defer cancel()
	return page.HTML(capCtx)
}

func (d *Driver) removeNoise(ctx context.Context, logger zerolog.Logger, page Page) {
	c, cancel := bounded(ctx, d.timings.Script)
	defer cancel()
	n, err := page.RemoveNoise(c, d.rules.Noise)
	if err != nil {
		logger.Debug().Err(err).Msg("In-page noise removal failed")
		return
	}
	logger.Debug().Int("removed", n).Msg("Removed in-page noise")
}

// activateTabs clicks through the first tab group found. A group needs more
// than one match to count.
func (d *Driver) activateTabs(ctx context.Context, logger zerolog.Logger, page Page, in *models.Interactions) {
	for _, sel := range d.rules.Tabs {
		c, cancel := bounded(ctx, d.timings.Probe)
		n, err := page.Count(c, sel)
		cancel()
		if err != nil {
			logger.Debug().Err(err).Str("selector", sel.String()).Msg("Tab selector failed")
			continue
		}
		if n <= 1 {
			continue
		}

		for i := 0; i < min(n, maxTabClicks); i++ {
			if err := d.click(ctx, page, sel, i, d.timings.TabClick); err != nil {
				logger.Debug().Err(err).Str("selector", sel.String()).Int("index", i).Msg("Tab click failed")
				continue
			}
			in.Clicks = append(in.Clicks, fmt.Sprintf("%s[%d]", sel, i))
			pause(ctx, d.timings.TabPause)
		}
		return
	}
}

// expandLoadMore presses the first visible "load more" control until it
// stops responding or the click budget is spent.
func (d *Driver) expandLoadMore(ctx context.Context, logger zerolog.Logger, page Page, in *models.Interactions) {
	for _, sel := range d.rules.LoadMore {
		if !d.visible(ctx, page, sel) {
			continue
		}

		for i := 0; i < maxLoadMoreClicks; i++ {
			if err := d.click(ctx, page, sel, 0, d.timings.LoadMoreClick); err != nil {
				logger.Debug().Err(err).Str("selector", sel.String()).Msg("Load more click failed")
				break
			}
			in.Clicks = append(in.Clicks, sel.String())
			pause(ctx, d.timings.LoadMorePause)
		}
		return
	}
}

// followPagination clicks "next" controls for a bounded number of rounds.
// Only clicks that change the URL are recorded.
func (d *Driver) followPagination(ctx context.Context, logger zerolog.Logger, page Page, in *models.Interactions) {
	current := d.location(ctx, page, in.Pages[0])

	for round := 0; round < paginationRounds; round++ {
		clicked := false
		for _, sel := range d.rules.Pagination {
			if !d.visible(ctx, page, sel) {
				continue
			}
			if err := d.click(ctx, page, sel, 0, d.timings.PaginationClick); err != nil {
				logger.Debug().Err(err).Str("selector", sel.String()).Msg("Pagination click failed")
				continue
			}
			clicked = true

			c, cancel := bounded(ctx, d.timings.PaginationClick)
			if err := page.WaitReady(c); err != nil {
				logger.Debug().Err(err).Msg("Page not ready after pagination click")
			}
			cancel()
			pause(ctx, d.timings.PaginationPause)

			if now := d.location(ctx, page, current); now != current {
				current = now
				in.Pages = append(in.Pages, now)
				in.Clicks = append(in.Clicks, fmt.Sprintf("pagination[%s]", sel))
			}
			break
		}
		if !clicked {
			return
		}
	}
}

// triggerScroll scrolls to the bottom until the document stops growing.
// Failing to read the height is fatal.
func (d *Driver) triggerScroll(ctx context.Context, page Page, url string, in *models.Interactions) error {
	prev, err := d.scrollHeight(ctx, page)
	if err != nil {
		return err
	}

	for i := 1; i <= scrollRounds; i++ {
		c, cancel := bounded(ctx, d.timings.Script)
		err := page.ScrollToBottom(c)
		cancel()
		if err != nil {
			return err
		}
		if err := pause(ctx, d.timings.ScrollPause); err != nil {
			return err
		}

		h, err := d.scrollHeight(ctx, page)
		if err != nil {
			return err
		}
		if h <= prev {
			return nil
		}
		in.Scrolls++
		in.Pages = append(in.Pages, fmt.Sprintf("%s#scroll-%d", url, i))
		prev = h
	}
	return nil
}

func (d *Driver) scrollHeight(ctx context.Context, page Page) (int64, error) {
	c, cancel := bounded(ctx, d.timings.Script)
	defer cancel()
	return page.ScrollHeight(c)
}

func (d *Driver) click(ctx context.Context, page Page, sel rules.Selector, index int, timeout time.Duration) error {
	c, cancel := bounded(ctx, timeout)
	defer cancel()
	return page.Click(c, sel, index)
}

// visible treats any probe error as not visible
func (d *Driver) visible(ctx context.Context, page Page, sel rules.Selector) bool {
	c, cancel := bounded(ctx, d.timings.Probe)
	defer cancel()
	ok, err := page.Visible(c, sel)
	return err == nil && ok
}

func (d *Driver) location(ctx context.Context, page Page, fallback string) string {
	c, cancel := bounded(ctx, d.timings.Probe)
	defer cancel()
	u, err := page.URL(c)
	if err != nil || u == "" {
		return fallback
	}
	return u
}

func bounded(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}

// pause sleeps for d unless ctx ends first
func pause(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// proxyErrorCodes are the Chrome net errors that blame the proxy rather
// than the page or the browser
var proxyErrorCodes = []string{
	"ERR_PROXY_CONNECTION_FAILED",
	"ERR_TUNNEL_CONNECTION_FAILED",
	"ERR_PROXY_AUTH_UNSUPPORTED",
	"ERR_PROXY_CERTIFICATE_INVALID",
	"ERR_NO_SUPPORTED_PROXIES",
}

func isProxyError(err error) bool {
	msg := err.Error()
	for _, code := range proxyErrorCodes {
		if strings.Contains(msg, code) {
			return true
		}
	}
	return false
}

func timeoutOr(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrTimeout
	}
	return err
}
