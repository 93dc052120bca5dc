package captcha9kw

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// defaultMaxTimeout is the submission timeout in seconds used when none is set.
const defaultMaxTimeout = 600

// SubmitOptions are the flags shared by image and interactive submissions.
type SubmitOptions struct {
	// MaxTimeout is the answer deadline in seconds, 60 to 3999. Default: 600
	MaxTimeout int `validate:"omitempty,min=60,max=3999"`

	// Priority from 1 to 20 raises the credit cost by the same amount.
	Priority int `validate:"min=0,max=20"`

	// Confirm has another account double-check the answer (costs 6 credits).
	// Ignored by the service when MaxTimeout is under 150 seconds.
	Confirm bool

	// SelfSolve restricts solving to the submitting account. The account
	// setting must be enabled as well.
	SelfSolve bool

	// Debug enables the service's limited testing environment.
	Debug bool
}

func (o SubmitOptions) apply(p params) {
	timeout := o.MaxTimeout
	if timeout == 0 {
		timeout = defaultMaxTimeout
	}
	p["maxtimeout"] = timeout
	p["prio"] = o.Priority
	p["confirm"] = o.Confirm
	p["selfsolve"] = o.SelfSolve
	p["debug"] = o.Debug
}

// ImageOptions configure SubmitImageCaptcha.
type ImageOptions struct {
	SubmitOptions

	// NoMD5 disables duplicate detection for this image.
	NoMD5 bool
	// OCR asks the service to try OCR first.
	OCR bool
}

// InteractiveOptions configure SubmitInteractiveCaptcha.
type InteractiveOptions struct {
	SubmitOptions

	// PageURL is the page hosting the captcha.
	PageURL string `validate:"omitempty,url"`
	// CaptchaType is e.g. recaptchav2, recaptchav3, funcaptcha, geetest, hcaptcha, keycaptcha.
	CaptchaType string
	// Cookies needed to solve the captcha, if any.
	Cookies string
	// UserAgent needed to solve the captcha, if any.
	UserAgent string
}

// Image is the data of an image captcha. Build one with ImageReader,
// ImageBytes or ImageRef.
type Image struct {
	reader io.Reader
	data   []byte
	ref    string
}

// ImageReader reads the image from r. Seekable readers are rewound first.
func ImageReader(r io.Reader) Image { return Image{reader: r} }

// ImageBytes uses b as the image data.
func ImageBytes(b []byte) Image { return Image{data: b} }

// ImageRef resolves s as, in order, an existing file path, an http(s) URL to
// download, or base64-encoded image data.
func ImageRef(s string) Image { return Image{ref: s} }

// SubmitImageCaptcha uploads an image captcha and returns its ID.
// Data that is not recognized as an image is rejected before upload.
func (c *Client) SubmitImageCaptcha(ctx context.Context, img Image, opts ImageOptions) (int64, error) {
	if err := validateOptions(opts); err != nil {
		return 0, fmt.Errorf("submit image: %w", err)
	}

	data, err := c.resolveImage(ctx, img)
	if err != nil {
		return 0, fmt.Errorf("submit image: %w", err)
	}
	mtype := mimetype.Detect(data)
	if !strings.HasPrefix(mtype.String(), "image/") {
		return 0, fmt.Errorf("submit image: %w: submitted data is not an image (%s)", ErrValidation, mtype.String())
	}

	p := params{
		"base64": 0,
		"nomd5":  opts.NoMD5,
		"ocr":    opts.OCR,
	}
	opts.apply(p)

	var resp uploadResponse
	if err := c.post(ctx, "SubmitImage", p, data, &resp); err != nil {
		return 0, fmt.Errorf("submit image: %w", err)
	}
	slog.Debug("image captcha submitted", slog.Int64("id", int64(resp.CaptchaID)), slog.String("mime", mtype.String()))
	return int64(resp.CaptchaID), nil
}

// SubmitInteractiveCaptcha submits an interactive captcha (reCAPTCHA,
// hCaptcha, ...) identified by its site key and returns its ID.
func (c *Client) SubmitInteractiveCaptcha(ctx context.Context, siteKey string, opts InteractiveOptions) (int64, error) {
	if siteKey == "" {
		return 0, fmt.Errorf("submit interactive: %w: site key is required", ErrValidation)
	}
	if err := validateOptions(opts); err != nil {
		return 0, fmt.Errorf("submit interactive: %w", err)
	}

	p := params{"interactive": 1}
	opts.apply(p)
	p.setIf("oldsource", opts.CaptchaType)
	p.setIf("pageurl", opts.PageURL)
	p.setIf("cookies", opts.Cookies)
	p.setIf("useragent", opts.UserAgent)

	var resp uploadResponse
	if err := c.post(ctx, "SubmitInteractive", p, []byte(siteKey), &resp); err != nil {
		return 0, fmt.Errorf("submit interactive: %w", err)
	}
	slog.Debug("interactive captcha submitted", slog.Int64("id", int64(resp.CaptchaID)), slog.String("type", opts.CaptchaType))
	return int64(resp.CaptchaID), nil
}

// resolveImage returns the raw bytes of img.
func (c *Client) resolveImage(ctx context.Context, img Image) ([]byte, error) {
	switch {
	case img.reader != nil:
		if s, ok := img.reader.(io.Seeker); ok {
			if _, err := s.Seek(0, io.SeekStart); err != nil {
				return nil, fmt.Errorf("rewind image: %w", err)
			}
		}
		data, err := io.ReadAll(img.reader)
		if err != nil {
			return nil, fmt.Errorf("read image: %w", err)
		}
		return data, nil
	case img.data != nil:
		return img.data, nil
	case img.ref != "":
		return c.resolveImageRef(ctx, img.ref)
	}
	return nil, fmt.Errorf("%w: no image data", ErrValidation)
}

// resolveImageRef tries a file path, then a URL, then base64.
func (c *Client) resolveImageRef(ctx context.Context, ref string) ([]byte, error) {
	if fi, err := os.Stat(ref); err == nil && fi.Mode().IsRegular() {
		return os.ReadFile(ref)
	}
	if isHTTPURL(ref) {
		return c.downloadImage(ctx, ref)
	}
	data, err := decodeBase64(ref)
	if err != nil {
		return nil, fmt.Errorf("%w: image is neither a file, a URL nor base64 data", ErrValidation)
	}
	return data, nil
}

func isHTTPURL(s string) bool {
	return validate.Var(s, "http_url") == nil
}

func decodeBase64(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	if _, after, ok := strings.Cut(s, ";base64,"); ok && strings.HasPrefix(s, "data:") {
		s = after
	}
	data, err := base64.StdEncoding.DecodeString(s)
	if err == nil {
		return data, nil
	}
	if raw, rawErr := base64.RawStdEncoding.DecodeString(s); rawErr == nil {
		return raw, nil
	}
	return nil, err
}

// downloadImage fetches an image URL through the client transport.
// Both transports follow redirects.
func (c *Client) downloadImage(ctx context.Context, rawURL string) ([]byte, error) {
	resp, err := c.transport.do(ctx, http.MethodGet, rawURL, c.apiHeaders(), nil)
	if err != nil {
		return nil, &ConnectionError{URL: rawURL, Err: err}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("error downloading image from %q: %w", rawURL,
			&ConnectionError{URL: rawURL, StatusCode: resp.StatusCode, Status: resp.Status})
	}
	if len(resp.Body) == 0 {
		return nil, errors.Join(ErrValidation, fmt.Errorf("empty image downloaded from %q", rawURL))
	}
	return resp.Body, nil
}
