package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/law-makers/pagesift/internal/reqctx"
	"github.com/law-makers/pagesift/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeScraper struct {
	urls []string
	ids  []string
}

func (f *fakeScraper) Scrape(ctx context.Context, url string) *models.ScrapeResult {
	f.urls = append(f.urls, url)
	f.ids = append(f.ids, reqctx.GetRequestContext(ctx).RequestID)
	return &models.ScrapeResult{
		URL:          url,
		ScrapedAt:    time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
		Meta:         models.DefaultPageMeta(),
		Sections:     []models.Section{models.FallbackSection(url)},
		Interactions: models.NewInteractions(url),
		Errors:       []models.ExtractionError{},
	}
}

func do(t *testing.T, sc Scraper, method, path, body string, header map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range header {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	NewRouter(sc).ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	w := do(t, &fakeScraper{}, http.MethodGet, "/healthz", "", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))
}

func TestIndex(t *testing.T) {
	w := do(t, &fakeScraper{}, http.MethodGet, "/", "", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, w.Body.String(), `fetch("/scrape"`)
}

func TestScrape(t *testing.T) {
	sc := &fakeScraper{}
	w := do(t, sc, http.MethodPost, "/scrape", `{"url":"https://example.com"}`,
		map[string]string{RequestIDHeader: "req-42"})

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"https://example.com"}, sc.urls)
	assert.Equal(t, []string{"req-42"}, sc.ids)
	assert.Equal(t, "req-42", w.Header().Get(RequestIDHeader))

	var res models.ScrapeResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Equal(t, "fallback-0", res.Sections[0].ID)
	assert.Contains(t, w.Body.String(), `"scrapedAt":"2024-05-01T12:00:00Z"`)
}

func TestScrape_BadRequests(t *testing.T) {
	cases := map[string]string{
		"malformed":   `{"url":`,
		"missing url": `{}`,
		"relative":    `{"url":"/just/a/path"}`,
		"bad scheme":  `{"url":"ftp://example.com"}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			sc := &fakeScraper{}
			w := do(t, sc, http.MethodPost, "/scrape", body, nil)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Empty(t, sc.urls)

			var resp ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.NotEmpty(t, resp.Error)
		})
	}
}
