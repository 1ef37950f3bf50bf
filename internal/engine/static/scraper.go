// internal/engine/static/scraper.go
package static

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/law-makers/pagesift/internal/engine/extract"
	"github.com/law-makers/pagesift/internal/engine/metadata"
	"github.com/law-makers/pagesift/internal/proxy"
	"github.com/law-makers/pagesift/internal/ratelimit"
	"github.com/law-makers/pagesift/internal/reqctx"
	"github.com/law-makers/pagesift/pkg/models"
	"golang.org/x/net/html/charset"
)

// MaxBodySize caps how much of a response body is read
const MaxBodySize = 10 << 20

// DefaultUserAgent identifies the fetcher to servers
const DefaultUserAgent = "Mozilla/5.0 (compatible; pagesift/1.0; +https://github.com/law-makers/pagesift)"

// Fetcher retrieves a page with a single GET and segments it without
// executing any scripts.
type Fetcher struct {
	client    *http.Client
	limiter   ratelimit.RateLimiter
	proxies   *proxy.Pool
	noise     []string
	timeout   time.Duration
	userAgent string
	headers   map[string]string
}

// New creates a Fetcher. The client's transport should route through
// proxy.FromRequest for the proxy pool to take effect.
func New(client *http.Client, lim ratelimit.RateLimiter, proxies *proxy.Pool, noise []string, timeout time.Duration, ua string) *Fetcher {
	if client == nil {
		client = &http.Client{}
	}
	if lim == nil {
		lim = ratelimit.Unlimited{}
	}
	if ua == "" {
		ua = DefaultUserAgent
	}
	return &Fetcher{
		client:    client,
		limiter:   lim,
		proxies:   proxies,
		noise:     noise,
		timeout:   timeout,
		userAgent: ua,
	}
}

// SetHeaders adds request headers sent with every fetch. They override the
// defaults, User-Agent included.
func (f *Fetcher) SetHeaders(h map[string]string) {
	f.headers = h
}

// Name returns the name of this fetcher
func (f *Fetcher) Name() string {
	return "StaticFetcher"
}

// Fetch downloads url and returns its metadata and sections. Any HTTP status
// is parsed. On transport failure it returns default metadata, no sections
// and the error.
func (f *Fetcher) Fetch(ctx context.Context, url string) (models.PageMeta, []models.Section, error) {
	logger := reqctx.Logger(ctx)
	start := time.Now()

	doc, status, err := f.get(ctx, url)
	if err != nil {
		logger.Warn().Err(err).Str("fetcher", f.Name()).Msg("Static fetch failed")
		return models.DefaultPageMeta(), []models.Section{}, err
	}

	extract.RemoveNoise(doc, f.noise)
	meta := metadata.ExtractPageMeta(doc, url)
	sections := extract.Segment(doc, url, extract.StaticLimits)

	logger.Debug().
		Int("status", status).
		Int64("response_time_ms", time.Since(start).Milliseconds()).
		Int("sections", len(sections)).
		Msg("Static fetch completed")

	return meta, sections, nil
}

func (f *Fetcher) get(ctx context.Context, url string) (*goquery.Document, int, error) {
	if f.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.timeout)
		defer cancel()
	}

	if err := f.limiter.Wait(ctx, url); err != nil {
		return nil, 0, fmt.Errorf("rate limit wait: %w", err)
	}

	p := f.proxies.GetNext()
	ctx = proxy.WithProxy(ctx, p)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	for k, v := range f.headers {
		req.Header.Set(k, v)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		if p != "" && !errors.Is(err, context.Canceled) {
			f.proxies.MarkFailed(p)
		}
		return nil, 0, fmt.Errorf("failed to fetch URL: %w", err)
	}
	defer resp.Body.Close()
	f.proxies.MarkHealthy(p)

	if resp.StatusCode >= 400 {
		logger := reqctx.Logger(ctx)
		logger.Warn().Int("status", resp.StatusCode).Msg("Parsing error response body")
	}

	body, err := charset.NewReader(io.LimitReader(resp.Body, MaxBodySize), resp.Header.Get("Content-Type"))
	if err != nil {
		return nil, 0, fmt.Errorf("failed to decode body: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to parse HTML: %w", err)
	}
	return doc, resp.StatusCode, nil
}
