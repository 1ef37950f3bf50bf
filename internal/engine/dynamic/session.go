// internal/engine/dynamic/session.go
package dynamic

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/chromedp/cdproto/network"
	cdppage "github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/law-makers/pagesift/internal/rules"
	"github.com/rs/zerolog/log"
)

// ChromeLauncher starts a fresh headless Chrome for every session. Sessions
// are never pooled.
type ChromeLauncher struct {
	ExecPath  string
	Headless  bool
	UserAgent string
}

// Launch starts Chrome and opens one tab. The browser process lives until
// the returned close func runs or ctx is cancelled.
func (l *ChromeLauncher) Launch(ctx context.Context, proxy string) (Page, func(), error) {
	allocOpts := []chromedp.ExecAllocatorOption{
		chromedp.NoFirstRun,
		chromedp.NoDefaultBrowserCheck,
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("disable-background-networking", true),
		chromedp.Flag("disable-breakpad", true),
		chromedp.Flag("disable-default-apps", true),
		chromedp.Flag("disable-hang-monitor", true),
		chromedp.Flag("disable-prompt-on-repost", true),
		chromedp.Flag("disable-renderer-backgrounding", true),
		chromedp.Flag("disable-sync", true),
		chromedp.Flag("disable-translate", true),
		chromedp.Flag("metrics-recording-only", true),
		chromedp.Flag("mute-audio", true),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.Flag("window-size", "1920,1080"),
	}
	if l.Headless {
		allocOpts = append(allocOpts, chromedp.Flag("headless", "new"))
	}

	path := FindChrome(l.ExecPath)
	if path != "" {
		allocOpts = append([]chromedp.ExecAllocatorOption{chromedp.ExecPath(path)}, allocOpts...)
	}
	if l.UserAgent != "" {
		allocOpts = append(allocOpts, chromedp.UserAgent(l.UserAgent))
	}
	if proxy != "" {
		allocOpts = append(allocOpts, chromedp.ProxyServer(proxy))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, allocOpts...)
	tabCtx, tabCancel := chromedp.NewContext(allocCtx)
	closeFn := func() {
		tabCancel()
		allocCancel()
	}

	p := &chromePage{ctx: tabCtx}
	chromedp.ListenTarget(tabCtx, p.onEvent)

	// The first Run starts the browser; it must use the tab context itself
	// so that no per-step timeout can tear the process down.
	if err := chromedp.Run(tabCtx, network.Enable(), cdppage.Enable()); err != nil {
		closeFn()
		return nil, nil, fmt.Errorf("failed to start browser: %w", err)
	}

	log.Debug().Str("chrome", path).Str("proxy", proxy).Msg("Browser session started")
	return p, closeFn, nil
}

// chromePage implements Page on one chromedp tab
type chromePage struct {
	ctx context.Context
}

func (p *chromePage) onEvent(ev interface{}) {
	switch ev := ev.(type) {
	case *network.EventResponseReceived:
		if ev.Type == network.ResourceTypeDocument {
			log.Debug().
				Str("url", ev.Response.URL).
				Int64("status", ev.Response.Status).
				Msg("Document response")
		}
	case *cdppage.EventJavascriptDialogOpening:
		// A pending dialog blocks every further command on the tab
		log.Debug().Str("type", string(ev.Type)).Str("message", ev.Message).Msg("Dismissing dialog")
		go func() {
			if err := chromedp.Run(p.ctx, cdppage.HandleJavaScriptDialog(false)); err != nil {
				log.Debug().Err(err).Msg("Failed to dismiss dialog")
			}
		}()
	}
}

// run executes actions on the tab, bounded by ctx's deadline and
// cancellation. Cancelling a context derived from the tab aborts the actions
// without closing the tab.
func (p *chromePage) run(ctx context.Context, actions ...chromedp.Action) error {
	runCtx, cancel := context.WithCancel(p.ctx)
	defer cancel()
	if deadline, ok := ctx.Deadline(); ok {
		var cancelDeadline context.CancelFunc
		runCtx, cancelDeadline = context.WithDeadline(runCtx, deadline)
		defer cancelDeadline()
	}
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	return chromedp.Run(runCtx, actions...)
}

func (p *chromePage) Navigate(ctx context.Context, url string) error {
	return p.run(ctx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
	)
}

func (p *chromePage) WaitReady(ctx context.Context) error {
	return p.run(ctx, chromedp.WaitReady("body", chromedp.ByQuery))
}

func (p *chromePage) URL(ctx context.Context) (string, error) {
	var u string
	err := p.run(ctx, chromedp.Location(&u))
	return u, err
}

// findJS returns the elements matching a CSS selector whose text contains
// a case-insensitive needle. Invalid CSS throws.
const findJS = `function(css, text) {
	let els = Array.from(document.querySelectorAll(css));
	if (text) {
		const needle = text.toLowerCase();
		els = els.filter(el => (el.innerText || el.textContent || '').toLowerCase().includes(needle));
	}
	return els;
}`

func selectorCall(sel rules.Selector, body string) string {
	css, _ := json.Marshal(sel.CSS)
	text, _ := json.Marshal(sel.Text)
	return fmt.Sprintf(`(function() { const els = (%s)(%s, %s); %s })()`, findJS, css, text, body)
}

func (p *chromePage) RemoveNoise(ctx context.Context, selectors []string) (int, error) {
	list, err := json.Marshal(selectors)
	if err != nil {
		return 0, err
	}
	var removed int
	err = p.run(ctx, chromedp.Evaluate(fmt.Sprintf(`(function(sels) {
		let n = 0;
		for (const s of sels) {
			try { document.querySelectorAll(s).forEach(el => { el.remove(); n++; }); } catch (e) {}
		}
		return n;
	})(%s)`, list), &removed))
	return removed, err
}

func (p *chromePage) Count(ctx context.Context, sel rules.Selector) (int, error) {
	var n int
	err := p.run(ctx, chromedp.Evaluate(selectorCall(sel, `return els.length;`), &n))
	return n, err
}

func (p *chromePage) Visible(ctx context.Context, sel rules.Selector) (bool, error) {
	var visible bool
	err := p.run(ctx, chromedp.Evaluate(selectorCall(sel, `
		if (!els.length) return false;
		const r = els[0].getBoundingClientRect();
		return r.width > 0 && r.height > 0 && getComputedStyle(els[0]).visibility !== 'hidden';`), &visible))
	return visible, err
}

func (p *chromePage) Click(ctx context.Context, sel rules.Selector, index int) error {
	return p.run(ctx, chromedp.Evaluate(selectorCall(sel, fmt.Sprintf(`
		const el = els[%d];
		if (!el) throw new Error('no element at index %d');
		el.scrollIntoView({block: 'center'});
		el.click();
		return true;`, index, index)), nil))
}

func (p *chromePage) ScrollHeight(ctx context.Context) (int64, error) {
	var h float64
	err := p.run(ctx, chromedp.Evaluate(`document.body.scrollHeight`, &h))
	return int64(h), err
}

func (p *chromePage) ScrollToBottom(ctx context.Context) error {
	return p.run(ctx, chromedp.Evaluate(`window.scrollTo(0, document.body.scrollHeight)`, nil))
}

func (p *chromePage) HTML(ctx context.Context) (string, error) {
	var html string
	err := p.run(ctx, chromedp.Evaluate(`document.documentElement.outerHTML`, &html))
	return html, err
}
