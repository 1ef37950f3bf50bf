package engine

import (
	"context"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/law-makers/pagesift/internal/engine/extract"
	"github.com/law-makers/pagesift/internal/engine/hybrid"
	"github.com/law-makers/pagesift/internal/engine/metadata"
	"github.com/law-makers/pagesift/internal/reqctx"
	"github.com/law-makers/pagesift/internal/rules"
	"github.com/law-makers/pagesift/pkg/models"
)

// Fetcher is the static phase: one plain HTTP fetch, no scripts
type Fetcher interface {
	Fetch(ctx context.Context, url string) (models.PageMeta, []models.Section, error)
	Name() string
}

// Renderer is the dynamic phase: a browser session with simulated user
// actions, returning the final markup
type Renderer interface {
	Render(ctx context.Context, url string) (string, models.Interactions, error)
	Name() string
}

// Engine runs the adaptive extraction pipeline
type Engine struct {
	static  Fetcher
	dynamic Renderer
	rules   *rules.Rules
	now     func() time.Time
}

// New creates an Engine. A nil renderer disables the dynamic phase.
func New(static Fetcher, dynamic Renderer, r *rules.Rules) *Engine {
	if r == nil {
		r = rules.Default()
	}
	return &Engine{
		static:  static,
		dynamic: dynamic,
		rules:   r,
		now:     time.Now,
	}
}

// Scrape extracts url. It never fails: phase errors are listed in the
// result, and the result always holds at least one section.
func (e *Engine) Scrape(ctx context.Context, url string) *models.ScrapeResult {
	ctx = reqctx.WithRequestContext(ctx, url)
	logger := reqctx.Logger(ctx)

	result := &models.ScrapeResult{
		URL:          url,
		ScrapedAt:    e.now().UTC(),
		Interactions: models.NewInteractions(url),
		Errors:       []models.ExtractionError{},
	}

	meta, sections, err := e.static.Fetch(ctx, url)
	staticOK := err == nil
	if err != nil {
		result.Errors = append(result.Errors, NewFetchError(err).ToExtractionError())
	}
	result.Meta = meta
	result.Sections = sections

	decision := hybrid.Decide(url, sections, e.rules.JSHeavyDomains)
	logger.Debug().
		Str("strategy", decision.Strategy.String()).
		Str("reason", string(decision.Reason)).
		Int("static_sections", len(sections)).
		Msg("Strategy selected")

	if decision.Strategy == hybrid.StrategyDynamic {
		e.renderInto(ctx, result, staticOK)
	}

	if len(result.Sections) == 0 {
		result.Sections = []models.Section{models.FallbackSection(url)}
	}

	logger.Info().
		Int("sections", len(result.Sections)).
		Int("errors", len(result.Errors)).
		Dur("elapsed", reqctx.Elapsed(ctx)).
		Msg("Scrape completed")
	return result
}

// renderInto runs the dynamic phase. On success its sections and
// interactions replace the static ones; on failure the static result stays.
func (e *Engine) renderInto(ctx context.Context, result *models.ScrapeResult, staticOK bool) {
	if e.dynamic == nil {
		logger := reqctx.Logger(ctx)
		logger.Debug().Msg("Rendering disabled, keeping static result")
		return
	}

	html, interactions, err := e.dynamic.Render(ctx, result.URL)
	if err != nil {
		result.Errors = append(result.Errors, NewRenderError(err).ToExtractionError())
		return
	}

	meta, sections := Analyze(html, result.URL, e.rules.Noise)
	result.Sections = sections
	result.Interactions = interactions
	if !staticOK {
		result.Meta = meta
	}
}

// Analyze segments rendered markup the same way the static phase does, with
// the larger render limits.
func Analyze(html, url string, noise []string) (models.PageMeta, []models.Section) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return models.DefaultPageMeta(), []models.Section{}
	}
	extract.RemoveNoise(doc, noise)
	return metadata.ExtractPageMeta(doc, url), extract.Segment(doc, url, extract.RenderLimits)
}
