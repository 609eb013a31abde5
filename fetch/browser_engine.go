package fetch

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/stealth"

	"github.com/tripforge/go-harvest-hotels/config"
)

const (
	cardWaitTimeout = 20 * time.Second
	lazyLoadScrolls = 4
)

// cardWaitSelector matches either markup generation of the listing card.
const cardWaitSelector = `[data-testid="property-card"], .sr_property_block`

// browserTransport backs the browser-automation engine. Each attempt opens a
// stealth page in a shared headless Chromium, navigates, lets any JS
// challenge resolve, and snapshots the rendered HTML. Each attempt holds a
// full browser tab, which is why the orchestrator runs this engine under a
// much smaller concurrency bound.
type browserTransport struct {
	browser *rod.Browser
	control *launcher.Launcher
	timeout time.Duration
}

// NewBrowserEngine launches headless Chromium and wraps it in the shared
// retry client. Launch failure is surfaced so the caller can pick another
// engine; there is no silent per-request failover.
func NewBrowserEngine(cfg *config.Config, pacer *Pacer, metrics *Metrics) (*Client, error) {
	control := launcher.New().
		Headless(true).
		NoSandbox(true).
		Set("disable-blink-features", "AutomationControlled").
		Set("disable-dev-shm-usage")

	controlURL, err := control.Launch()
	if err != nil {
		return nil, fmt.Errorf("launch browser: %w", err)
	}

	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		control.Cleanup()
		return nil, fmt.Errorf("connect browser: %w", err)
	}

	transport := &browserTransport{
		browser: browser,
		control: control,
		timeout: cfg.Timeout,
	}
	return NewClient("browser", transport, pacer, cfg, metrics), nil
}

// Do renders one page and returns its HTML. The browser executes challenge
// JavaScript itself, so a resolved page reads as a normal 200.
func (t *browserTransport) Do(ctx context.Context, target, _ string) (int, []byte, error) {
	page, err := stealth.Page(t.browser)
	if err != nil {
		return 0, nil, fmt.Errorf("open stealth page: %w", err)
	}
	defer page.Close()

	page = page.Context(ctx)
	if err := page.Timeout(t.timeout).Navigate(target); err != nil {
		return 0, nil, fmt.Errorf("navigate: %w", err)
	}

	// Wait for the listing grid; a timeout here may just mean a challenge is
	// still resolving or the page is legitimately sparse, so the snapshot is
	// taken either way and classification decides.
	if _, err := page.Timeout(cardWaitTimeout).Element(cardWaitSelector); err == nil {
		t.scrollForLazyLoad(page)
	}

	html, err := page.HTML()
	if err != nil {
		return 0, nil, fmt.Errorf("page snapshot: %w", err)
	}
	return http.StatusOK, []byte(html), nil
}

// scrollForLazyLoad nudges the viewport down so lazily rendered cards mount.
func (t *browserTransport) scrollForLazyLoad(page *rod.Page) {
	for i := 0; i < lazyLoadScrolls; i++ {
		if _, err := page.Eval(`() => window.scrollBy(0, 1000)`); err != nil {
			return
		}
		time.Sleep(500 * time.Millisecond)
	}
}

// Close shuts the browser down and cleans up the launcher's user data dir.
func (t *browserTransport) Close() error {
	err := t.browser.Close()
	t.control.Cleanup()
	return err
}
