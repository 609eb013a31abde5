package fetch

import (
	"fmt"
	"log/slog"

	"github.com/tripforge/go-harvest-hotels/config"
)

// Select builds the engine the configuration asks for. Auto prefers the
// browser engine (the only one that can pass interactive challenges) and
// falls back to the TLS-fingerprint client when Chromium is unavailable.
// The choice is made once per run and logged; there is no per-request
// failover.
func Select(cfg *config.Config, pacer *Pacer, metrics *Metrics) (*Client, error) {
	switch cfg.Engine {
	case config.EngineBrowser:
		return NewBrowserEngine(cfg, pacer, metrics)
	case config.EngineTLS:
		return NewTLSEngine(cfg, pacer, metrics)
	case config.EngineHTTP:
		return NewHTTPEngine(cfg, pacer, metrics)
	case config.EngineAuto:
		client, err := NewBrowserEngine(cfg, pacer, metrics)
		if err == nil {
			return client, nil
		}
		slog.Warn("browser engine unavailable, falling back to tls engine",
			slog.Any("error", err),
		)
		return NewTLSEngine(cfg, pacer, metrics)
	}
	return nil, fmt.Errorf("unknown engine preference %q", cfg.Engine)
}
