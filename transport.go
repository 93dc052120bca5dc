package captcha9kw

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	stealth "github.com/anatolykoptev/go-stealth"
)

// response is a fully-read HTTP response.
type response struct {
	Body       []byte
	StatusCode int
	Status     string // reason phrase, e.g. "Service Unavailable"
}

// transport performs a single HTTP exchange. Implementations never retry.
type transport interface {
	do(ctx context.Context, method, url string, headers map[string]string, body io.Reader) (*response, error)
}

// httpTransport is the default net/http based transport.
type httpTransport struct {
	client *http.Client
}

// newHTTPTransport builds a transport from cfg. A caller-supplied HTTPClient is
// copied, never mutated.
func newHTTPTransport(cfg ClientConfig) *httpTransport {
	var hc *http.Client
	if cfg.HTTPClient != nil {
		cp := *cfg.HTTPClient
		hc = &cp
	} else {
		dialer := &net.Dialer{Timeout: cfg.ConnectTimeout, KeepAlive: 30 * time.Second}
		hc = &http.Client{
			Transport: &http.Transport{
				Proxy:                 http.ProxyFromEnvironment,
				DialContext:           dialer.DialContext,
				TLSHandshakeTimeout:   cfg.ConnectTimeout,
				ResponseHeaderTimeout: cfg.ReadTimeout,
				MaxIdleConnsPerHost:   4,
				IdleConnTimeout:       90 * time.Second,
				ForceAttemptHTTP2:     true,
			},
		}
	}
	if cfg.Debug {
		hc.Transport = &debugTransport{base: hc.Transport}
	}
	return &httpTransport{client: hc}
}

func (t *httpTransport) do(ctx context.Context, method, url string, headers map[string]string, body io.Reader) (*response, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, err
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	return &response{
		Body:       data,
		StatusCode: resp.StatusCode,
		Status:     reasonPhrase(resp.StatusCode, resp.Status),
	}, nil
}

// reasonPhrase strips the numeric prefix from an http.Response Status.
func reasonPhrase(code int, status string) string {
	if s, ok := strings.CutPrefix(status, strconv.Itoa(code)+" "); ok {
		return s
	}
	if status != "" {
		return status
	}
	return http.StatusText(code)
}

// stealthTransport sends requests through a browser-fingerprinted client.
type stealthTransport struct {
	bc        *stealth.BrowserClient
	userAgent string
}

// newStealthTransport builds a browser-fingerprinted transport. Redirects are
// followed and each exchange is bounded by ConnectTimeout plus ReadTimeout.
func newStealthTransport(cfg ClientConfig, extra ...stealth.ClientOption) (*stealthTransport, error) {
	profile := stealth.BuiltinProfiles[0]
	opts := []stealth.ClientOption{
		stealth.WithHeaderOrder(stealthHeaderOrder),
		stealth.WithProfile(profile.TLSProfile),
		stealth.WithTimeout(stealthTimeout(cfg.ConnectTimeout + cfg.ReadTimeout)),
		stealth.WithFollowRedirects(),
	}
	if cfg.Proxy != "" {
		opts = append(opts, stealth.WithProxy(cfg.Proxy))
		slog.Debug("stealth transport via proxy", slog.String("proxy", stealth.MaskProxy(cfg.Proxy)))
	}
	bc, err := stealth.NewClient(append(opts, extra...)...)
	if err != nil {
		return nil, err
	}
	return &stealthTransport{bc: bc, userAgent: profile.UserAgent}, nil
}

// stealthTimeout rounds d up to whole seconds, the resolution go-stealth takes.
func stealthTimeout(d time.Duration) int {
	secs := int((d + time.Second - 1) / time.Second)
	return max(secs, 1)
}

func (t *stealthTransport) do(ctx context.Context, method, url string, headers map[string]string, body io.Reader) (*response, error) {
	data, _, status, err := t.bc.DoWithHeaderOrderCtx(ctx, method, url, headers, body, stealthHeaderOrder)
	if err != nil {
		return nil, err
	}
	return &response{Body: data, StatusCode: status, Status: http.StatusText(status)}, nil
}

// debugTransport logs each request and response at debug level.
// Query strings carry the API key, so only the path is logged.
type debugTransport struct{ base http.RoundTripper }

func (dt *debugTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	base := dt.base
	if base == nil {
		base = http.DefaultTransport
	}

	start := time.Now()
	slog.Debug("HTTP request",
		slog.String("method", req.Method),
		slog.String("host", req.URL.Host),
		slog.String("path", req.URL.Path),
		slog.Int64("content_length", req.ContentLength))

	resp, err := base.RoundTrip(req)
	if err != nil {
		slog.Debug("HTTP request failed",
			slog.String("method", req.Method),
			slog.String("path", req.URL.Path),
			slog.Any("error", err))
		return nil, err
	}

	slog.Debug("HTTP response",
		slog.String("method", req.Method),
		slog.String("path", req.URL.Path),
		slog.Int("status", resp.StatusCode),
		slog.Int64("content_length", resp.ContentLength),
		slog.Duration("elapsed", time.Since(start)))
	return resp, nil
}
