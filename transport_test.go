package captcha9kw

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	stealth "github.com/anatolykoptev/go-stealth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// useStealth swaps c's transport for a stealth one on the net/http backend.
func useStealth(t *testing.T, c *Client) {
	t.Helper()
	st, err := newStealthTransport(c.cfg, stealth.WithStdHTTP())
	require.NoError(t, err)
	c.transport = st
}

func TestStealthTimeout(t *testing.T) {
	assert.Equal(t, 8, stealthTimeout(5*time.Second+3*time.Second))
	assert.Equal(t, 2, stealthTimeout(1500*time.Millisecond))
	assert.Equal(t, 1, stealthTimeout(0))
}

func TestStealthTransportFollowsRedirects(t *testing.T) {
	img := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/moved.png":
			http.Redirect(w, r, "/captcha.png", http.StatusFound)
		case "/captcha.png":
			_, _ = w.Write(pngImage)
		default:
			http.NotFound(w, r)
		}
	}))
	defer img.Close()

	fs := newFakeService(t, uploaded)
	c := newTestClient(t, fs)
	useStealth(t, c)

	id, err := c.SubmitImageCaptcha(context.Background(), ImageRef(img.URL+"/moved.png"), ImageOptions{})
	require.NoError(t, err)
	assert.Equal(t, int64(123456), id)
	assert.Equal(t, pngImage, fs.last(t).Upload)
}

func TestStealthTransportCancelsInFlight(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer srv.Close()
	defer close(release)

	c, err := NewClient(ClientConfig{APIKey: testAPIKey, BaseURL: srv.URL})
	require.NoError(t, err)
	useStealth(t, c)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err = c.Balance(ctx)
	require.ErrorIs(t, err, context.DeadlineExceeded)
	assert.ErrorIs(t, err, ErrConnection)
	assert.Less(t, time.Since(start), 2*time.Second)
}
