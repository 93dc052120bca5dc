package captcha9kw

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
)

// ServiceStatus fetches the public service status document. No API key is needed.
func (c *Client) ServiceStatus(ctx context.Context) (ServiceStatus, error) {
	resp, err := c.transport.do(ctx, http.MethodGet, c.cfg.StatusURL, c.apiHeaders(), nil)
	if err != nil {
		c.recordAPICall("servercheck", false, false)
		return nil, &ConnectionError{URL: c.cfg.StatusURL, Err: err}
	}
	if resp.StatusCode != http.StatusOK {
		c.recordAPICall("servercheck", false, false)
		slog.Warn("status check failed", slog.Int("status", resp.StatusCode))
		return nil, &ConnectionError{URL: c.cfg.StatusURL, StatusCode: resp.StatusCode, Status: resp.Status}
	}

	var st Payload
	if err := st.UnmarshalJSON(resp.Body); err != nil {
		c.recordAPICall("servercheck", false, false)
		return nil, fmt.Errorf("service status: %w: %v", ErrService, err)
	}
	c.recordAPICall("servercheck", true, false)
	return st, nil
}
