package fetch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/time/rate"

	"github.com/tripforge/go-harvest-hotels/config"
)

const bodyCacheSize = 256

// Transport performs one raw GET attempt for an engine backend.
type Transport interface {
	Do(ctx context.Context, url, referer string) (status int, body []byte, err error)
}

// warmer is implemented by transports that can pick up session cookies from
// the service root before real work starts.
type warmer interface {
	WarmUp(ctx context.Context) error
}

// Client is the retry/backoff state machine shared by all engine backends.
// Suspension points are exactly the documented sleeps and the network call;
// parsing never suspends.
type Client struct {
	name      string
	transport Transport
	pacer     *Pacer
	cfg       *config.Config
	metrics   *Metrics
	referer   string

	limiter *rate.Limiter
	cache   *lru.Cache[string, []byte]

	// test seams
	sleep  func(ctx context.Context, d time.Duration) error
	jitter func(low, high time.Duration) time.Duration
}

// NewClient wraps a transport with retries, adaptive pacing, a global rate
// ceiling, and an in-run body cache.
func NewClient(name string, transport Transport, pacer *Pacer, cfg *config.Config, metrics *Metrics) *Client {
	cache, _ := lru.New[string, []byte](bodyCacheSize)
	return &Client{
		name:      name,
		transport: transport,
		pacer:     pacer,
		cfg:       cfg,
		metrics:   metrics,
		referer:   cfg.BaseURL + "/",
		limiter:   rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1),
		cache:     cache,
		sleep:     sleepCtx,
		jitter:    jitterBetween,
	}
}

// Name identifies the engine backend for logs and the run summary.
func (c *Client) Name() string {
	return c.name
}

// WarmUp hits the service root once to pick up session cookies, when the
// transport supports it.
func (c *Client) WarmUp(ctx context.Context) {
	w, ok := c.transport.(warmer)
	if !ok {
		return
	}
	if err := w.WarmUp(ctx); err != nil {
		slog.Warn("cookie warm-up failed",
			slog.String("engine", c.name),
			slog.Any("error", err),
		)
		return
	}
	slog.Debug("cookie warm-up done", slog.String("engine", c.name))
}

// Close releases transport resources (browser contexts and the like).
func (c *Client) Close() error {
	if closer, ok := c.transport.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

// Fetch performs one logical GET with up to MaxRetries attempts. Only the
// terminal outcome of the attempt sequence is returned.
func (c *Client) Fetch(ctx context.Context, url, label string) Outcome {
	if body, ok := c.cache.Get(url); ok {
		return Outcome{Kind: KindSuccess, Body: body}
	}

	for attempt := 1; attempt <= c.cfg.MaxRetries; attempt++ {
		base := c.jitter(c.cfg.DelayLow, c.cfg.DelayHigh) + c.pacer.Extra()
		if err := c.sleep(ctx, base); err != nil {
			return Outcome{Kind: KindTransportError, Err: err}
		}
		if err := c.limiter.Wait(ctx); err != nil {
			return Outcome{Kind: KindTransportError, Err: err}
		}

		c.pacer.CountRequest()
		start := time.Now()
		status, body, err := c.transport.Do(ctx, url, c.referer)
		c.metrics.ObserveDuration(time.Since(start))

		if err != nil {
			if ctx.Err() != nil {
				return Outcome{Kind: KindTransportError, Err: ctx.Err()}
			}
			classified := classifyTransport(err)
			c.metrics.IncRequest("transport_" + transportLabel(classified))
			slog.Debug("transport failure",
				slog.String("engine", c.name),
				slog.String("label", label),
				slog.Int("attempt", attempt),
				slog.Any("error", classified),
			)
			if !c.waitRetry(ctx, transportBackoff(attempt)+c.jitter(time.Second, 3*time.Second), attempt) {
				return Outcome{Kind: KindTransportError, Err: ctx.Err()}
			}
			continue
		}

		class := Classify(status, body)
		c.metrics.IncRequest(class.String())
		c.metrics.SetPacingDelay(c.pacer.Observe(class))

		switch class {
		case ClassUsable:
			c.cache.Add(url, body)
			return Outcome{Kind: KindSuccess, Body: body}

		case ClassChallenge:
			slog.Debug("challenge page",
				slog.String("engine", c.name),
				slog.String("label", label),
				slog.Int("attempt", attempt),
			)
			if !c.waitRetry(ctx, challengeBackoff(attempt)+c.jitter(2*time.Second, 5*time.Second), attempt) {
				return Outcome{Kind: KindTransportError, Err: ctx.Err()}
			}

		case ClassRateLimited:
			slog.Warn("rate limited",
				slog.String("engine", c.name),
				slog.String("label", label),
				slog.Int("attempt", attempt),
				slog.Duration("extra_delay", c.pacer.Extra()),
			)
			if !c.waitRetry(ctx, rateLimitBackoff(attempt)+c.jitter(3*time.Second, 8*time.Second), attempt) {
				return Outcome{Kind: KindTransportError, Err: ctx.Err()}
			}

		case ClassForbidden:
			slog.Warn("forbidden",
				slog.String("engine", c.name),
				slog.String("label", label),
				slog.Int("attempt", attempt),
			)
			if !c.waitRetry(ctx, forbiddenBackoff(attempt)+c.jitter(3*time.Second, 7*time.Second), attempt) {
				return Outcome{Kind: KindTransportError, Err: ctx.Err()}
			}

		default:
			// unexpected status: retry on the next base delay only
			slog.Debug("unexpected status",
				slog.String("engine", c.name),
				slog.String("label", label),
				slog.Int("status", status),
			)
		}
	}

	slog.Warn("all retries exhausted",
		slog.String("engine", c.name),
		slog.String("label", label),
	)
	c.metrics.IncRequest("exhausted")
	return Outcome{Kind: KindExhausted, Err: fmt.Errorf("%s: %d attempts exhausted", label, c.cfg.MaxRetries)}
}

func (c *Client) waitRetry(ctx context.Context, d time.Duration, attempt int) bool {
	if attempt >= c.cfg.MaxRetries {
		// last attempt failed; skip the final sleep
		return true
	}
	c.metrics.IncRetries()
	return c.sleep(ctx, d) == nil
}

// Backoff shapes per classification. Jitter is added by the caller so these
// stay pure and testable.

func challengeBackoff(attempt int) time.Duration {
	return time.Duration(attempt) * 4 * time.Second
}

func rateLimitBackoff(attempt int) time.Duration {
	return time.Duration(1<<uint(attempt+2)) * time.Second
}

func forbiddenBackoff(attempt int) time.Duration {
	return time.Duration(attempt) * 5 * time.Second
}

func transportBackoff(attempt int) time.Duration {
	return time.Duration(1<<uint(attempt)) * time.Second
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func jitterBetween(low, high time.Duration) time.Duration {
	if high <= low {
		return low
	}
	return low + time.Duration(rand.Int63n(int64(high-low)))
}
