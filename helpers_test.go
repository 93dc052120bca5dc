package captcha9kw

import (
	"context"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
	"time"
)

const testAPIKey = "ABCDE12345"

// capturedRequest is one request received by fakeService.
type capturedRequest struct {
	Method string
	Path   string
	Query  url.Values
	Upload []byte
}

// fakeService serves canned bodies in order and records every request.
type fakeService struct {
	mu       sync.Mutex
	bodies   []string
	status   int
	requests []capturedRequest
	srv      *httptest.Server
}

func newFakeService(t *testing.T, bodies ...string) *fakeService {
	t.Helper()
	fs := &fakeService{bodies: bodies, status: http.StatusOK}
	fs.srv = httptest.NewServer(http.HandlerFunc(fs.handle))
	t.Cleanup(fs.srv.Close)
	return fs
}

func (fs *fakeService) handle(w http.ResponseWriter, r *http.Request) {
	req := capturedRequest{Method: r.Method, Path: r.URL.Path, Query: r.URL.Query()}
	if r.Method == http.MethodPost {
		req.Upload = readUpload(r)
	}

	fs.mu.Lock()
	fs.requests = append(fs.requests, req)
	status := fs.status
	body := `{"status":{"success":true}}`
	if len(fs.bodies) > 0 {
		body = fs.bodies[0]
		if len(fs.bodies) > 1 {
			fs.bodies = fs.bodies[1:]
		}
	}
	fs.mu.Unlock()

	w.WriteHeader(status)
	_, _ = io.WriteString(w, body)
}

func readUpload(r *http.Request) []byte {
	_, ps, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		return nil
	}
	mr := multipart.NewReader(r.Body, ps["boundary"])
	for {
		part, err := mr.NextPart()
		if err != nil {
			return nil
		}
		if part.FormName() == uploadField {
			data, _ := io.ReadAll(part)
			return data
		}
	}
}

func (fs *fakeService) setStatus(code int) {
	fs.mu.Lock()
	fs.status = code
	fs.mu.Unlock()
}

func (fs *fakeService) calls() []capturedRequest {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	return append([]capturedRequest(nil), fs.requests...)
}

func (fs *fakeService) last(t *testing.T) capturedRequest {
	t.Helper()
	calls := fs.calls()
	if len(calls) == 0 {
		t.Fatal("expected at least one request")
	}
	return calls[len(calls)-1]
}

// newTestClient returns a client talking to fs with the test API key set.
func newTestClient(t *testing.T, fs *fakeService, mutate ...func(*ClientConfig)) *Client {
	t.Helper()
	cfg := ClientConfig{
		APIKey:    testAPIKey,
		BaseURL:   fs.srv.URL + "/index.cgi",
		StatusURL: fs.srv.URL + "/grafik/servercheck.json",
	}
	for _, m := range mutate {
		m(&cfg)
	}
	c, err := NewClient(cfg)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return c
}

// sleepRecorder replaces Client.sleep and records every requested wait.
type sleepRecorder struct {
	mu     sync.Mutex
	sleeps []time.Duration
}

func (r *sleepRecorder) sleep(ctx context.Context, d time.Duration) error {
	r.mu.Lock()
	r.sleeps = append(r.sleeps, d)
	r.mu.Unlock()
	return ctx.Err()
}

func (r *sleepRecorder) recorded() []time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]time.Duration(nil), r.sleeps...)
}
