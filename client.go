// Package captcha9kw is a client for the 9kw.eu captcha solving API.
package captcha9kw

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/anatolykoptev/go-stealth/ratelimit"
)

// Version is reported in the User-Agent of the net/http transport.
const Version = "0.3.0"

// Client is the 9kw.eu API client. It is safe for concurrent use.
type Client struct {
	transport   transport
	userAgent   string
	stealth     bool
	rateLimiter *ratelimit.Limiter
	cfg         ClientConfig

	// sleep waits between answer polls; replaced in tests.
	sleep func(ctx context.Context, d time.Duration) error

	mu     sync.RWMutex
	apiKey string
	source string
}

// NewClient creates a fully-wired 9kw client.
func NewClient(cfg ClientConfig) (*Client, error) {
	cfg.defaults()

	c := &Client{
		cfg:       cfg,
		userAgent: "go-captcha9kw/" + Version,
		sleep:     sleepCtx,
	}
	if cfg.APIKey != "" {
		if err := c.SetAPIKey(cfg.APIKey); err != nil {
			return nil, err
		}
	}
	if err := c.SetSource(cfg.Source); err != nil {
		return nil, err
	}

	if cfg.Stealth {
		st, err := newStealthTransport(cfg)
		if err != nil {
			return nil, fmt.Errorf("stealth client: %w", err)
		}
		c.transport = st
		c.userAgent = st.userAgent
		c.stealth = true
	} else {
		c.transport = newHTTPTransport(cfg)
	}

	if cfg.RateLimit != nil {
		c.rateLimiter = ratelimit.NewLimiter(*cfg.RateLimit)
	}

	slog.Debug("captcha9kw client created",
		slog.String("source", cfg.Source),
		slog.Bool("stealth", c.stealth),
		slog.Bool("rate_limit", c.rateLimiter != nil))
	return c, nil
}

// APIKey returns the configured API key.
func (c *Client) APIKey() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.apiKey
}

// SetAPIKey validates and stores the API key. The key must be 5 to 50
// characters of a-z, A-Z and 0-9. On error the previous key is kept.
func (c *Client) SetAPIKey(key string) error {
	if err := validateAPIKey(key); err != nil {
		return err
	}
	c.mu.Lock()
	c.apiKey = key
	c.mu.Unlock()
	return nil
}

// Source returns the name the client identifies itself with.
func (c *Client) Source() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.source
}

// SetSource validates and stores the source name (at most 30 characters).
// On error the previous name is kept.
func (c *Client) SetSource(name string) error {
	if err := validateSource(name); err != nil {
		return err
	}
	c.mu.Lock()
	c.source = name
	c.mu.Unlock()
	return nil
}

// credentials returns a snapshot of (apiKey, source) under lock.
func (c *Client) credentials() (apiKey, source string) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.apiKey, c.source
}

// recordAPICall calls the metrics hook if configured.
func (c *Client) recordAPICall(action string, success, rateLimited bool) {
	if c.cfg.MetricsHook != nil {
		c.cfg.MetricsHook(action, success, rateLimited)
	}
}

// throttle refuses an action the client-side limiter has no budget for.
// Polled actions are only refused while the service has them blocked.
func (c *Client) throttle(act Action) error {
	if c.rateLimiter == nil {
		return nil
	}
	if c.rateLimiter.IsRateLimited(act.Name) || (!act.Polled && !c.rateLimiter.Allow(act.Name)) {
		return &RateLimitedError{Action: act.Name, Until: c.rateLimiter.AvailableAt(act.Name)}
	}
	return nil
}

// limitCooldown is how long an action stays blocked after the service reports 0056.
const limitCooldown = time.Minute

// markRateLimited blocks an action after the service reported its limit reached.
func (c *Client) markRateLimited(action string) {
	if c.rateLimiter == nil {
		return
	}
	c.rateLimiter.MarkRateLimited(action, time.Now().Add(limitCooldown))
}
