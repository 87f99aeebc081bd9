package extract

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/stealth"

	"github.com/probegapp/probeg/internal/domain/protocol"
	"github.com/probegapp/probeg/internal/platform/logging"
)

const (
	defaultPageTimeout = 45 * time.Second
	renderSettleDelay  = 3 * time.Second
	rowElementLimit    = 500
)

// Browser drives a headless Chrome for result pages that are rendered
// client-side. One Browser is shared across fetches; each fetch gets
// its own stealth page with a hard timeout, and a timed-out fetch
// degrades to zero rows at the caller.
type Browser struct {
	mu       sync.Mutex
	browser  *rod.Browser
	launcher *launcher.Launcher
	timeout  time.Duration
	logger   *logging.Logger
}

func NewBrowser(timeout time.Duration, logger *logging.Logger) *Browser {
	if timeout <= 0 {
		timeout = defaultPageTimeout
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Browser{timeout: timeout, logger: logger}
}

func (b *Browser) connect() (*rod.Browser, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.browser != nil {
		return b.browser, nil
	}

	l := launcher.New().
		Headless(true).
		Set("disable-blink-features", "AutomationControlled").
		Set("no-sandbox").
		Set("disable-dev-shm-usage")

	controlURL, err := l.Launch()
	if err != nil {
		return nil, errors.Wrap(err, "launch chrome")
	}

	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return nil, errors.Wrap(err, "connect to chrome")
	}

	b.launcher = l
	b.browser = browser
	return browser, nil
}

// Close shuts the shared browser down. Safe to call without a prior
// successful fetch.
func (b *Browser) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.browser != nil {
		_ = b.browser.Close()
		b.browser = nil
	}
	if b.launcher != nil {
		b.launcher.Kill()
		b.launcher = nil
	}
}

// ExtractResults loads a client-rendered result page and tries the
// extraction strategies in order of reliability: intercepted network
// JSON, a rendered HTML table, row-like container elements, and
// finally any embedded page-state blob. Whichever strategy wins, the
// rows have already passed the noise filter.
func (b *Browser) ExtractResults(ctx context.Context, pageURL string) ([]protocol.RawRow, error) {
	browser, err := b.connect()
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	page, err := stealth.Page(browser)
	if err != nil {
		return nil, errors.Wrap(err, "create page")
	}
	defer page.Close()

	capture := newResponseCapture()
	router := page.HijackRequests()
	router.MustAdd("*", capture.handle)
	go router.Run()
	defer router.Stop()

	if err := page.Context(ctx).Navigate(pageURL); err != nil {
		return nil, errors.Wrapf(err, "navigate %s", pageURL)
	}
	if err := page.Context(ctx).WaitLoad(); err != nil {
		b.logger.Warn("page load wait timed out", "url", pageURL, "error", err)
	}

	select {
	case <-time.After(renderSettleDelay):
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	for _, body := range capture.bodies() {
		if rows := EmbeddedJSON(body); len(rows) > 0 {
			b.logger.Info("extracted rows from intercepted response", "url", pageURL, "rows", len(rows))
			return rows, nil
		}
	}

	if rows := b.tableRows(ctx, page); len(rows) > 0 {
		b.logger.Info("extracted rows from rendered table", "url", pageURL, "rows", len(rows))
		return rows, nil
	}

	if rows := b.rowLikeRows(ctx, page); len(rows) > 0 {
		b.logger.Info("extracted rows from row-like elements", "url", pageURL, "rows", len(rows))
		return rows, nil
	}

	if rows := b.pageStateRows(ctx, page); len(rows) > 0 {
		b.logger.Info("extracted rows from page state", "url", pageURL, "rows", len(rows))
		return rows, nil
	}

	return nil, nil
}

func (b *Browser) tableRows(ctx context.Context, page *rod.Page) []protocol.RawRow {
	res, err := page.Context(ctx).Eval(`() => document.documentElement.outerHTML`)
	if err != nil {
		return nil
	}
	rows, err := HTMLTables(res.Value.Str())
	if err != nil {
		return nil
	}
	return rows
}

func (b *Browser) rowLikeRows(ctx context.Context, page *rod.Page) []protocol.RawRow {
	res, err := page.Context(ctx).Eval(`(limit) => {
		const selector = "[class*='row']:not(thead *), [class*='result-row'], [class*='participant']";
		const texts = [];
		for (const el of document.querySelectorAll(selector)) {
			if (texts.length >= limit) break;
			const text = (el.textContent || "").trim();
			if (text) texts.push(text);
		}
		return texts;
	}`, rowElementLimit)
	if err != nil {
		return nil
	}

	var rows []protocol.RawRow
	for _, item := range res.Value.Arr() {
		if row, ok := RowLikeText(item.Str()); ok {
			rows = append(rows, row)
		}
	}
	return FilterRows(rows)
}

func (b *Browser) pageStateRows(ctx context.Context, page *rod.Page) []protocol.RawRow {
	res, err := page.Context(ctx).Eval(`() => {
		if (window.__NUXT__) return JSON.stringify(window.__NUXT__);
		if (window.__INITIAL_STATE__) return JSON.stringify(window.__INITIAL_STATE__);
		for (const s of document.querySelectorAll('script[type="application/json"]')) {
			if (s.textContent && s.textContent.includes('result')) return s.textContent;
		}
		return "";
	}`)
	if err != nil {
		return nil
	}
	payload := res.Value.Str()
	if payload == "" {
		return nil
	}
	return EmbeddedJSON(payload)
}

// responseCapture collects in-flight JSON responses that look like
// result listings while the page renders.
type responseCapture struct {
	mu       sync.Mutex
	captured []string
}

func newResponseCapture() *responseCapture {
	return &responseCapture{}
}

func (c *responseCapture) handle(h *rod.Hijack) {
	if err := h.LoadResponse(http.DefaultClient, true); err != nil {
		return
	}

	url := h.Request.URL().String()
	contentType := h.Response.Headers().Get("Content-Type")
	body := h.Response.Body()
	if ResponseLooksLikeResults(url, contentType, body) {
		c.mu.Lock()
		c.captured = append(c.captured, body)
		c.mu.Unlock()
	}
}

func (c *responseCapture) bodies() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.captured...)
}
