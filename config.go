package captcha9kw

import (
	"net/http"
	"time"

	"github.com/anatolykoptev/go-stealth/ratelimit"
)

// DefaultSource is the name the client identifies itself with unless changed.
const DefaultSource = "captcha9kw"

// ClientConfig holds all configuration for the 9kw client.
type ClientConfig struct {
	// APIKey is the account API key. It may be left empty and set later with SetAPIKey.
	APIKey string

	// Source is the name this software identifies itself as to the service.
	// Default: "captcha9kw"
	Source string

	// BaseURL overrides the API endpoint.
	BaseURL string

	// StatusURL overrides the service status endpoint.
	StatusURL string

	// ConnectTimeout bounds dialing and the TLS handshake. Default: 5s
	ConnectTimeout time.Duration

	// ReadTimeout bounds the wait for response headers. Default: 3s
	ReadTimeout time.Duration

	// HTTPClient is a caller-supplied session reused across calls.
	// When nil a client is built from ConnectTimeout and ReadTimeout.
	HTTPClient *http.Client

	// Stealth routes requests through a browser-fingerprinted client instead of net/http.
	Stealth bool

	// Proxy is the proxy URL for the stealth transport. Setting it implies Stealth.
	Proxy string

	// Debug logs every HTTP request and response at debug level.
	Debug bool

	// RateLimit enables client-side per-action throttling when non-nil.
	// Answer polls are not counted against it, but an answer action the
	// service reported as limited (0056) is refused until the block expires.
	RateLimit *ratelimit.Config

	// MetricsHook is called after each API request for external metrics collection.
	// action is the service action, success and rateLimited indicate the outcome.
	MetricsHook func(action string, success, rateLimited bool)

	// Poll is the default policy used by AwaitAnswer.
	Poll PollPolicy
}

// defaults fills in zero-value config fields with sensible defaults.
func (cfg *ClientConfig) defaults() {
	if cfg.Source == "" {
		cfg.Source = DefaultSource
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.StatusURL == "" {
		cfg.StatusURL = defaultStatusURL
	}
	if cfg.ConnectTimeout == 0 {
		cfg.ConnectTimeout = 5 * time.Second
	}
	if cfg.ReadTimeout == 0 {
		cfg.ReadTimeout = 3 * time.Second
	}
	if cfg.Proxy != "" {
		cfg.Stealth = true
	}
	cfg.Poll.defaults()
}
