package captcha9kw

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// params holds the query parameters of a single request.
type params map[string]any

// normalize rewrites boolean values as the integers 1 and 0.
func (p params) normalize() {
	for k, v := range p {
		if b, ok := v.(bool); ok {
			if b {
				p[k] = 1
			} else {
				p[k] = 0
			}
		}
	}
}

// values encodes the parameters as url.Values. Call normalize first.
func (p params) values() url.Values {
	v := make(url.Values, len(p))
	for k, val := range p {
		v.Set(k, formatParam(val))
	}
	return v
}

func formatParam(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case bool:
		if x {
			return "1"
		}
		return "0"
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprint(x)
	}
}

// setIf adds key only when value is non-empty.
func (p params) setIf(key, value string) {
	if value != "" {
		p[key] = value
	}
}

// get executes a read-only query for the named operation and decodes the
// payload into out (which may be nil).
func (c *Client) get(ctx context.Context, operation string, p params, out any) error {
	return c.execute(ctx, http.MethodGet, operation, p, nil, out)
}

// post executes a submission carrying payload in the upload field.
func (c *Client) post(ctx context.Context, operation string, p params, payload []byte, out any) error {
	return c.execute(ctx, http.MethodPost, operation, p, payload, out)
}

// execute is the request/response core shared by every operation. It never
// retries: each failure is returned to the caller as-is.
func (c *Client) execute(ctx context.Context, method, operation string, p params, payload []byte, out any) error {
	act, err := lookupAction(operation)
	if err != nil {
		return err
	}
	if act.Upload != (method == http.MethodPost) {
		return fmt.Errorf("operation %s does not support %s", operation, method)
	}

	apiKey, source := c.credentials()
	if apiKey == "" {
		return fmt.Errorf("%w: API key has not been set", ErrConfiguration)
	}

	if err := c.throttle(act); err != nil {
		c.recordAPICall(act.Name, false, true)
		return err
	}

	if p == nil {
		p = params{}
	}
	p["action"] = act.Name
	p["apikey"] = apiKey
	p["json"] = 1
	if act.Source {
		p["source"] = source
	}
	p.normalize()
	reqURL := c.cfg.BaseURL + "?" + p.values().Encode()

	headers := c.apiHeaders()
	var body io.Reader
	if method == http.MethodPost {
		buf, contentType, err := multipartBody(payload)
		if err != nil {
			return err
		}
		headers["content-type"] = contentType
		body = buf
	}

	resp, err := c.transport.do(ctx, method, reqURL, headers, body)
	if err != nil {
		c.recordAPICall(act.Name, false, false)
		slog.Debug("request failed", slog.String("action", act.Name), slog.Any("error", redactURLError(err)))
		return &ConnectionError{URL: c.cfg.BaseURL, Err: redactURLError(err)}
	}
	if resp.StatusCode != http.StatusOK {
		c.recordAPICall(act.Name, false, false)
		slog.Warn("non-200 response",
			slog.String("action", act.Name),
			slog.Int("status", resp.StatusCode),
			slog.String("body", truncate(string(resp.Body), 200)))
		return &ConnectionError{URL: c.cfg.BaseURL, StatusCode: resp.StatusCode, Status: resp.Status}
	}

	if err := decodeEnvelope(resp.Body, out); err != nil {
		class := classifyCode(serviceCode(err))
		limited := class == errRateLimited
		if limited {
			c.markRateLimited(act.Name)
		}
		c.recordAPICall(act.Name, false, limited)
		slog.Debug("service error",
			slog.String("action", act.Name),
			slog.String("class", class.String()),
			slog.Any("error", err))
		return err
	}

	c.recordAPICall(act.Name, true, false)
	return nil
}

// multipartBody builds a form with the payload as the single upload file.
func multipartBody(payload []byte) (*bytes.Buffer, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile(uploadField, uploadField)
	if err != nil {
		return nil, "", fmt.Errorf("create upload field: %w", err)
	}
	if _, err := part.Write(payload); err != nil {
		return nil, "", fmt.Errorf("write upload field: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("finalize multipart: %w", err)
	}
	return &buf, w.FormDataContentType(), nil
}

// envelope is the part of every JSON response that reports success.
type envelope struct {
	Status *struct {
		Success *flexBool `json:"success"`
	} `json:"status"`
	Error string `json:"error"`
}

// decodeEnvelope checks the success flag and decodes the payload into out.
// Bodies that are not JSON objects are parsed as "<code> <text>" errors.
func decodeEnvelope(body []byte, out any) error {
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return parseRawError(body)
	}
	if env.Status == nil || env.Status.Success == nil {
		return &ServiceError{Message: "malformed response: missing status.success"}
	}
	if !bool(*env.Status.Success) {
		code, msg := splitCodedMessage(env.Error)
		return &ServiceError{Code: code, Message: msg}
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: decode payload: %v", ErrService, err)
	}
	return nil
}

// redactURLError strips the query string (which holds the API key) from
// errors produced by net/http.
func redactURLError(err error) error {
	var ue *url.Error
	if errors.As(err, &ue) {
		if base, _, ok := strings.Cut(ue.URL, "?"); ok {
			ue.URL = base
		}
	}
	return err
}
