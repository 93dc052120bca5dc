package captcha

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	captcha9kw "github.com/anatolykoptev/go-captcha9kw"
)

const (
	defaultCaptchaType = "recaptchav2"
	solveTimeout       = 180 * time.Second
	balanceWarnLevel   = 1000 // warn when fewer credits remain
)

// answerClient is the part of *captcha9kw.Client the solver uses.
type answerClient interface {
	Balance(ctx context.Context) (int, error)
	SubmitInteractiveCaptcha(ctx context.Context, siteKey string, opts captcha9kw.InteractiveOptions) (int64, error)
	AwaitAnswerWithPolicy(ctx context.Context, id int64, archive bool, policy captcha9kw.PollPolicy) (string, error)
}

// NineKW implements Solver on top of the 9kw.eu client.
type NineKW struct {
	client      answerClient
	captchaType string
	warnLevel   int
	opts        captcha9kw.SubmitOptions
	poll        captcha9kw.PollPolicy
}

// Option configures a NineKW solver.
type Option func(*NineKW)

// WithCaptchaType sets the interactive captcha type, e.g. "hcaptcha".
func WithCaptchaType(t string) Option {
	return func(n *NineKW) { n.captchaType = t }
}

// WithBalanceWarnLevel sets the credit level below which Solve logs a warning.
func WithBalanceWarnLevel(credits int) Option {
	return func(n *NineKW) { n.warnLevel = credits }
}

// WithSubmitOptions sets the options sent with every submission.
func WithSubmitOptions(opts captcha9kw.SubmitOptions) Option {
	return func(n *NineKW) { n.opts = opts }
}

// WithPollPolicy overrides how long and how often Solve polls for the answer.
func WithPollPolicy(p captcha9kw.PollPolicy) Option {
	return func(n *NineKW) { n.poll = p }
}

// NewNineKW creates a solver backed by client.
func NewNineKW(client *captcha9kw.Client, opts ...Option) *NineKW {
	return newNineKW(client, opts...)
}

func newNineKW(client answerClient, opts ...Option) *NineKW {
	n := &NineKW{
		client:      client,
		captchaType: defaultCaptchaType,
		warnLevel:   balanceWarnLevel,
		poll:        captcha9kw.PollPolicy{Timeout: solveTimeout},
	}
	for _, o := range opts {
		o(n)
	}
	return n
}

// Solve submits an interactive captcha to 9kw.eu and waits for the token.
func (n *NineKW) Solve(ctx context.Context, siteKey, pageURL string) (string, error) {
	bal, balErr := n.client.Balance(ctx)
	if balErr == nil && bal < n.warnLevel {
		slog.Warn("9kw balance low", slog.Int("credits", bal))
	}

	id, err := n.client.SubmitInteractiveCaptcha(ctx, siteKey, captcha9kw.InteractiveOptions{
		SubmitOptions: n.opts,
		PageURL:       pageURL,
		CaptchaType:   n.captchaType,
	})
	if err != nil {
		return "", fmt.Errorf("9kw submit: %w", err)
	}
	slog.Info("CAPTCHA task created", slog.Int64("id", id), slog.String("type", n.captchaType))

	token, err := n.client.AwaitAnswerWithPolicy(ctx, id, false, n.poll)
	if err != nil {
		return "", fmt.Errorf("9kw answer: %w", err)
	}
	slog.Info("CAPTCHA solved", slog.Int64("id", id))
	return token, nil
}

// Balance returns the 9kw.eu account balance in credits.
func (n *NineKW) Balance(ctx context.Context) (float64, error) {
	credits, err := n.client.Balance(ctx)
	if err != nil {
		return 0, err
	}
	return float64(credits), nil
}
