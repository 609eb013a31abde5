package fetch

import (
	"context"
	"fmt"
	"io"
	"math/rand"

	fhttp "github.com/bogdanfinn/fhttp"
	tlsclient "github.com/bogdanfinn/tls-client"
	"github.com/bogdanfinn/tls-client/profiles"

	"github.com/tripforge/go-harvest-hotels/config"
)

// Browser fingerprints the TLS engine can impersonate, rotated per session.
// Fingerprint-level impersonation is what gets past JA3/JA4 blocking that a
// plain net/http transport cannot.
var clientProfiles = []profiles.ClientProfile{
	profiles.Chrome_124,
	profiles.Chrome_120,
	profiles.Chrome_117,
	profiles.Firefox_117,
	profiles.Safari_16_0,
}

// tlsTransport backs the TLS-fingerprint engine.
type tlsTransport struct {
	client  tlsclient.HttpClient
	rootURL string
}

// NewTLSEngine builds the TLS-fingerprint engine with a rotated browser
// profile and a shared cookie jar.
func NewTLSEngine(cfg *config.Config, pacer *Pacer, metrics *Metrics) (*Client, error) {
	profile := clientProfiles[rand.Intn(len(clientProfiles))]
	options := []tlsclient.HttpClientOption{
		tlsclient.WithTimeoutSeconds(int(cfg.Timeout.Seconds())),
		tlsclient.WithClientProfile(profile),
		tlsclient.WithRandomTLSExtensionOrder(),
		tlsclient.WithCookieJar(tlsclient.NewCookieJar()),
	}
	client, err := tlsclient.NewHttpClient(tlsclient.NewNoopLogger(), options...)
	if err != nil {
		return nil, fmt.Errorf("build tls client: %w", err)
	}

	transport := &tlsTransport{
		client:  client,
		rootURL: cfg.BaseURL + "/",
	}
	return NewClient("tls", transport, pacer, cfg, metrics), nil
}

// Do issues one GET with the impersonated fingerprint and rotated headers.
func (t *tlsTransport) Do(ctx context.Context, target, referer string) (int, []byte, error) {
	req, err := fhttp.NewRequestWithContext(ctx, fhttp.MethodGet, target, nil)
	if err != nil {
		return 0, nil, fmt.Errorf("build request: %w", err)
	}
	for key, value := range randomHeaders(referer) {
		req.Header.Set(key, value)
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("read body: %w", err)
	}
	return resp.StatusCode, body, nil
}

// WarmUp hits the service root so the cookie jar carries a session before
// search requests begin.
func (t *tlsTransport) WarmUp(ctx context.Context) error {
	_, _, err := t.Do(ctx, t.rootURL, "")
	return err
}
