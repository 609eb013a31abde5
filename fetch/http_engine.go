package fetch

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/gocolly/colly/v2"

	"github.com/tripforge/go-harvest-hotels/config"
)

const captureKey = "capture"

// httpTransport backs the plain HTTP engine with a synchronous one-shot
// colly collector. AllowURLRevisit is required because the retry loop hits
// the same URL repeatedly; ParseHTTPErrorResponse routes 4xx bodies through
// OnResponse so the challenge detector can see them.
type httpTransport struct {
	collector *colly.Collector
	rootURL   string
}

// capture receives one request's result through the colly context.
type capture struct {
	status int
	body   []byte
	err    error
}

// NewHTTPEngine builds the plain HTTP fallback engine.
func NewHTTPEngine(cfg *config.Config, pacer *Pacer, metrics *Metrics) (*Client, error) {
	parsed, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if parsed.Host == "" {
		return nil, fmt.Errorf("base url must include a host")
	}

	collector := colly.NewCollector(
		colly.UserAgent(randomUserAgent()),
		colly.AllowURLRevisit(),
	)
	collector.ParseHTTPErrorResponse = true
	collector.SetRequestTimeout(cfg.Timeout)
	collector.WithTransport(&http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   cfg.Timeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:        100,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	})

	transport := &httpTransport{
		collector: collector,
		rootURL:   cfg.BaseURL + "/",
	}

	collector.OnResponse(func(r *colly.Response) {
		if res, ok := r.Ctx.GetAny(captureKey).(*capture); ok {
			res.status = r.StatusCode
			res.body = r.Body
		}
	})
	collector.OnError(func(r *colly.Response, err error) {
		res, ok := r.Ctx.GetAny(captureKey).(*capture)
		if !ok {
			return
		}
		if r.StatusCode != 0 {
			// non-2xx that colly refused to parse; body may be empty
			res.status = r.StatusCode
			res.body = r.Body
			return
		}
		res.err = err
	})

	return NewClient("http", transport, pacer, cfg, metrics), nil
}

// Do issues one GET through the collector, capturing status and body via the
// per-request colly context.
func (t *httpTransport) Do(_ context.Context, target, referer string) (int, []byte, error) {
	res := &capture{}
	cctx := colly.NewContext()
	cctx.Put(captureKey, res)

	hdr := http.Header{}
	for key, value := range randomHeaders(referer) {
		hdr.Set(key, value)
	}

	if err := t.collector.Request(http.MethodGet, target, nil, cctx, hdr); err != nil {
		return 0, nil, err
	}
	t.collector.Wait()

	if res.err != nil {
		return res.status, nil, res.err
	}
	return res.status, res.body, nil
}

// WarmUp visits the service root to pick up session cookies.
func (t *httpTransport) WarmUp(ctx context.Context) error {
	_, _, err := t.Do(ctx, t.rootURL, "")
	return err
}
