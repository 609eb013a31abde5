package fetch

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/jarcoal/httpmock"

	"github.com/tripforge/go-harvest-hotels/config"
)

const listingPage = `<html><div data-testid="property-card">Hotel Sunrise</div></html>`

func newMockedHTTPEngine(t *testing.T, mock *httpmock.MockTransport) *Client {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.BaseURL = "https://example.test"
	cfg.RequestsPerSecond = 10000

	client, err := NewHTTPEngine(cfg, NewPacer(), nil)
	if err != nil {
		t.Fatalf("NewHTTPEngine() error = %v", err)
	}
	client.transport.(*httpTransport).collector.WithTransport(mock)
	client.sleep = func(ctx context.Context, d time.Duration) error { return ctx.Err() }
	client.jitter = func(low, high time.Duration) time.Duration { return 0 }
	return client
}

func TestHTTPEngineFetch(t *testing.T) {
	mock := httpmock.NewMockTransport()
	mock.RegisterResponder(http.MethodGet, "https://example.test/searchresults",
		httpmock.NewStringResponder(200, listingPage))

	client := newMockedHTTPEngine(t, mock)

	outcome := client.Fetch(context.Background(), "https://example.test/searchresults", "Goa, India")
	if outcome.Kind != KindSuccess {
		t.Fatalf("Kind = %v, want %v (err: %v)", outcome.Kind, KindSuccess, outcome.Err)
	}
	if string(outcome.Body) != listingPage {
		t.Errorf("Body = %q, want %q", outcome.Body, listingPage)
	}
}

func TestHTTPEngineRetriesRateLimit(t *testing.T) {
	mock := httpmock.NewMockTransport()
	calls := 0
	mock.RegisterResponder(http.MethodGet, "https://example.test/searchresults",
		func(req *http.Request) (*http.Response, error) {
			calls++
			if calls == 1 {
				return httpmock.NewStringResponse(429, "slow down"), nil
			}
			return httpmock.NewStringResponse(200, listingPage), nil
		})

	client := newMockedHTTPEngine(t, mock)

	outcome := client.Fetch(context.Background(), "https://example.test/searchresults", "Goa, India")
	if outcome.Kind != KindSuccess {
		t.Fatalf("Kind = %v, want %v (err: %v)", outcome.Kind, KindSuccess, outcome.Err)
	}
	if calls != 2 {
		t.Errorf("responder calls = %d, want 2", calls)
	}
}

func TestHTTPEngineSeesErrorResponseBodies(t *testing.T) {
	mock := httpmock.NewMockTransport()
	mock.RegisterResponder(http.MethodGet, "https://example.test/searchresults",
		httpmock.NewStringResponder(403, "<html>Access Denied</html>"))

	client := newMockedHTTPEngine(t, mock)

	outcome := client.Fetch(context.Background(), "https://example.test/searchresults", "Goa, India")
	if outcome.Kind != KindExhausted {
		t.Fatalf("Kind = %v, want %v", outcome.Kind, KindExhausted)
	}
	info := mock.GetCallCountInfo()
	if got := info["GET https://example.test/searchresults"]; got != client.cfg.MaxRetries {
		t.Errorf("request count = %d, want %d", got, client.cfg.MaxRetries)
	}
}

func TestHTTPEngineSendsBrowserHeaders(t *testing.T) {
	mock := httpmock.NewMockTransport()
	var captured http.Header
	mock.RegisterResponder(http.MethodGet, "https://example.test/searchresults",
		func(req *http.Request) (*http.Response, error) {
			captured = req.Header.Clone()
			return httpmock.NewStringResponse(200, listingPage), nil
		})

	client := newMockedHTTPEngine(t, mock)
	client.Fetch(context.Background(), "https://example.test/searchresults", "Goa, India")

	if captured.Get("User-Agent") == "" {
		t.Error("User-Agent header missing")
	}
	if captured.Get("Accept-Language") == "" {
		t.Error("Accept-Language header missing")
	}
	if got := captured.Get("Referer"); got != "https://example.test/" {
		t.Errorf("Referer = %q, want %q", got, "https://example.test/")
	}
	if got := captured.Get("Sec-Fetch-Site"); got != "same-origin" {
		t.Errorf("Sec-Fetch-Site = %q, want %q", got, "same-origin")
	}
}

func TestHTTPEngineWarmUp(t *testing.T) {
	mock := httpmock.NewMockTransport()
	mock.RegisterResponder(http.MethodGet, "https://example.test/",
		httpmock.NewStringResponder(200, "<html>welcome</html>"))

	client := newMockedHTTPEngine(t, mock)
	client.WarmUp(context.Background())

	info := mock.GetCallCountInfo()
	if got := info["GET https://example.test/"]; got != 1 {
		t.Errorf("warm-up request count = %d, want 1", got)
	}
}

func TestNewHTTPEngineRejectsBadBaseURL(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.BaseURL = "not a url"

	if _, err := NewHTTPEngine(cfg, NewPacer(), nil); err == nil {
		t.Error("NewHTTPEngine() accepted a base URL without a host")
	}
}
