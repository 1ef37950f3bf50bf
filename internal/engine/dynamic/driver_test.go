package dynamic

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/law-makers/pagesift/internal/proxy"
	"github.com/law-makers/pagesift/internal/rules"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const pageURL = "https://example.com/feed"

// fakePage scripts browser answers per selector
type fakePage struct {
	navErr    error
	url       string
	counts    map[string]int
	countErrs map[string]error
	visible   map[string]bool
	clickErrs map[string]error
	onClick   func(p *fakePage, sel rules.Selector, index int)
	heights   []int64
	heightErr error
	html      string

	attempts     []string
	scrollCalls  int
	noiseRemoved []string
}

func (p *fakePage) Navigate(ctx context.Context, url string) error {
	if p.navErr != nil {
		return p.navErr
	}
	if p.url == "" {
		p.url = url
	}
	return nil
}

func (p *fakePage) WaitReady(ctx context.Context) error { return nil }

func (p *fakePage) URL(ctx context.Context) (string, error) { return p.url, nil }

func (p *fakePage) RemoveNoise(ctx context.Context, selectors []string) (int, error) {
	p.noiseRemoved = selectors
	return len(selectors), nil
}

func (p *fakePage) Count(ctx context.Context, sel rules.Selector) (int, error) {
	if err := p.countErrs[sel.String()]; err != nil {
		return 0, err
	}
	return p.counts[sel.String()], nil
}

func (p *fakePage) Visible(ctx context.Context, sel rules.Selector) (bool, error) {
	return p.visible[sel.String()], nil
}

func (p *fakePage) Click(ctx context.Context, sel rules.Selector, index int) error {
	key := fmt.Sprintf("%s[%d]", sel, index)
	p.attempts = append(p.attempts, key)
	if err := p.clickErrs[key]; err != nil {
		return err
	}
	if p.onClick != nil {
		p.onClick(p, sel, index)
	}
	return nil
}

func (p *fakePage) ScrollHeight(ctx context.Context) (int64, error) {
	if p.heightErr != nil {
		return 0, p.heightErr
	}
	if len(p.heights) == 0 {
		return 1000, nil
	}
	h := p.heights[0]
	if len(p.heights) > 1 {
		p.heights = p.heights[1:]
	}
	return h, nil
}

func (p *fakePage) ScrollToBottom(ctx context.Context) error {
	p.scrollCalls++
	return nil
}

func (p *fakePage) HTML(ctx context.Context) (string, error) { return p.html, nil }

type fakeLauncher struct {
	page   *fakePage
	err    error
	closed int
	proxy  string
}

func (l *fakeLauncher) Launch(ctx context.Context, proxy string) (Page, func(), error) {
	l.proxy = proxy
	if l.err != nil {
		return nil, nil, l.err
	}
	return l.page, func() { l.closed++ }, nil
}

func render(t *testing.T, page *fakePage) (string, []string, int, []string, *fakeLauncher, error) {
	t.Helper()
	l := &fakeLauncher{page: page}
	d := New(l, rules.Default(), nil, Timings{})
	html, in, err := d.Render(context.Background(), pageURL)
	require.NotNil(t, in.Clicks)
	require.NotEmpty(t, in.Pages)
	assert.Equal(t, pageURL, in.Pages[0])
	return html, in.Clicks, in.Scrolls, in.Pages, l, err
}

func TestRender_CapturesMarkup(t *testing.T) {
	page := &fakePage{html: "<html><body>done</body></html>"}

	html, clicks, scrolls, pages, l, err := render(t, page)

	require.NoError(t, err)
	assert.Equal(t, "<html><body>done</body></html>", html)
	assert.Empty(t, clicks)
	assert.Zero(t, scrolls)
	assert.Equal(t, []string{pageURL}, pages)
	assert.Equal(t, rules.Default().Noise, page.noiseRemoved)
	assert.Equal(t, 1, l.closed)
}

func TestRender_ScrollStopsWhenHeightStopsGrowing(t *testing.T) {
	page := &fakePage{heights: []int64{1000, 2000, 3000, 3000, 4000}}

	_, _, scrolls, pages, _, err := render(t, page)

	require.NoError(t, err)
	assert.Equal(t, 2, scrolls)
	assert.Equal(t, []string{pageURL, pageURL + "#scroll-1", pageURL + "#scroll-2"}, pages)
	assert.Equal(t, 3, page.scrollCalls, "rounds after the first non-growth must not run")
}

func TestRender_ScrollUsesAllRounds(t *testing.T) {
	page := &fakePage{heights: []int64{1, 2, 3, 4, 5, 6}}

	_, _, scrolls, pages, _, err := render(t, page)

	require.NoError(t, err)
	assert.Equal(t, 4, scrolls)
	assert.Len(t, pages, 5)
}

func TestRender_PaginationUnchangedURL(t *testing.T) {
	page := &fakePage{visible: map[string]bool{"a[rel='next']": true}}

	_, clicks, _, pages, _, err := render(t, page)

	require.NoError(t, err)
	assert.Equal(t, []string{pageURL}, pages)
	assert.Empty(t, clicks)
	assert.Equal(t, []string{"a[rel='next'][0]", "a[rel='next'][0]", "a[rel='next'][0]"}, page.attempts)
}

func TestRender_PaginationFollowsNewPages(t *testing.T) {
	n := 1
	page := &fakePage{
		visible: map[string]bool{"a.morelink": true},
		onClick: func(p *fakePage, sel rules.Selector, index int) {
			n++
			p.url = fmt.Sprintf("%s?p=%d", pageURL, n)
		},
	}

	_, clicks, _, pages, _, err := render(t, page)

	require.NoError(t, err)
	assert.Equal(t, []string{pageURL, pageURL + "?p=2", pageURL + "?p=3", pageURL + "?p=4"}, pages)
	assert.Equal(t, []string{"pagination[a.morelink]", "pagination[a.morelink]", "pagination[a.morelink]"}, clicks)
}

func TestRender_PaginationStopsWhenNothingClickable(t *testing.T) {
	page := &fakePage{
		visible:   map[string]bool{"a[rel='next']": true},
		clickErrs: map[string]error{"a[rel='next'][0]": errors.New("detached")},
	}

	_, clicks, _, pages, _, err := render(t, page)

	require.NoError(t, err)
	assert.Empty(t, clicks)
	assert.Equal(t, []string{pageURL}, pages)
	assert.Len(t, page.attempts, 1, "a round without a successful click ends the traversal")
}

func TestRender_Tabs(t *testing.T) {
	page := &fakePage{
		counts:    map[string]int{"[role='tab']": 1, ".tab": 5, "[data-tab]": 4},
		countErrs: map[string]error{"button[aria-selected]": errors.New("boom")},
		clickErrs: map[string]error{".tab[1]": errors.New("not clickable")},
	}

	_, clicks, _, _, _, err := render(t, page)

	require.NoError(t, err)
	assert.Equal(t, []string{".tab[0]", ".tab[2]"}, clicks)
	assert.Equal(t, []string{".tab[0]", ".tab[1]", ".tab[2]"}, page.attempts)
}

func TestRender_LoadMore(t *testing.T) {
	showMore := "button:has-text('Show more')"
	page := &fakePage{
		visible: map[string]bool{
			showMore:     true,
			".load-more": true,
		},
		clickErrs: map[string]error{},
	}
	calls := 0
	page.onClick = func(p *fakePage, sel rules.Selector, index int) {
		calls++
		if calls == 2 {
			p.clickErrs[showMore+"[0]"] = errors.New("gone")
		}
	}

	_, clicks, _, _, _, err := render(t, page)

	require.NoError(t, err)
	assert.Equal(t, []string{showMore, showMore}, clicks)
	assert.Equal(t, []string{showMore + "[0]", showMore + "[0]", showMore + "[0]"}, page.attempts)
}

func TestRender_NavigationTimeout(t *testing.T) {
	page := &fakePage{navErr: fmt.Errorf("navigate: %w", context.DeadlineExceeded)}

	html, clicks, _, pages, l, err := render(t, page)

	assert.ErrorIs(t, err, ErrTimeout)
	assert.Equal(t, TimeoutMessage, err.Error())
	assert.Empty(t, html)
	assert.Empty(t, clicks)
	assert.Equal(t, []string{pageURL}, pages)
	assert.Equal(t, 1, l.closed)
}

func TestRender_RawErrorMessage(t *testing.T) {
	page := &fakePage{navErr: errors.New("net::ERR_NAME_NOT_RESOLVED")}

	_, _, _, _, l, err := render(t, page)

	require.Error(t, err)
	assert.Equal(t, "net::ERR_NAME_NOT_RESOLVED", err.Error())
	assert.Equal(t, 1, l.closed)
}

func TestRender_HeightErrorKeepsInteractions(t *testing.T) {
	page := &fakePage{
		counts:    map[string]int{"[role='tab']": 2},
		heightErr: errors.New("document.body is null"),
	}

	html, clicks, _, _, l, err := render(t, page)

	require.Error(t, err)
	assert.Empty(t, html)
	assert.Equal(t, []string{"[role='tab'][0]", "[role='tab'][1]"}, clicks)
	assert.Equal(t, 1, l.closed)
}

func TestRender_LaunchFailure(t *testing.T) {
	l := &fakeLauncher{err: errors.New("chrome not found")}
	d := New(l, nil, nil, Timings{})

	html, in, err := d.Render(context.Background(), pageURL)

	assert.EqualError(t, err, "chrome not found")
	assert.Empty(t, html)
	assert.Equal(t, []string{pageURL}, in.Pages)
	assert.Zero(t, l.closed)
}

func TestRender_ProxyCooldown(t *testing.T) {
	tests := []struct {
		name      string
		launchErr error
		navErr    error
		next      []string
	}{
		{"browser missing keeps proxy", errors.New("chrome not found"), nil, []string{"http://p2:8080", "http://p1:8080"}},
		{"page error keeps proxy", nil, errors.New("net::ERR_NAME_NOT_RESOLVED"), []string{"http://p2:8080", "http://p1:8080"}},
		{"proxy refused cools proxy", nil, errors.New("net::ERR_PROXY_CONNECTION_FAILED"), []string{"http://p2:8080", "http://p2:8080"}},
		{"tunnel failure cools proxy", nil, errors.New("net::ERR_TUNNEL_CONNECTION_FAILED"), []string{"http://p2:8080", "http://p2:8080"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pool := proxy.NewPool([]string{"http://p1:8080", "http://p2:8080"})
			l := &fakeLauncher{page: &fakePage{navErr: tt.navErr}, err: tt.launchErr}
			d := New(l, nil, pool, Timings{})

			_, _, err := d.Render(context.Background(), pageURL)

			require.Error(t, err)
			assert.Equal(t, "http://p1:8080", l.proxy)
			assert.Equal(t, tt.next, []string{pool.GetNext(), pool.GetNext()})
		})
	}
}

func TestPause_RespectsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, pause(ctx, DefaultTimings().ScrollPause), context.Canceled)
	assert.NoError(t, pause(context.Background(), 0))
}
