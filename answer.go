package captcha9kw

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// NoInitialDelay makes AwaitAnswer query immediately.
const NoInitialDelay time.Duration = -1

// PollPolicy controls how AwaitAnswer polls for a solution.
type PollPolicy struct {
	// InitialDelay is waited before the first query. Default: 5s
	// Any negative value, such as NoInitialDelay, skips the wait.
	InitialDelay time.Duration

	// Interval is the wait between queries when NewBackOff is nil. Default: 2s
	Interval time.Duration

	// MaxAttempts caps the number of queries. Zero means unbounded.
	MaxAttempts int

	// Timeout bounds the whole wait. Zero means no bound beyond ctx.
	Timeout time.Duration

	// NewBackOff builds the schedule of waits between queries.
	// When nil a constant backoff of Interval is used.
	NewBackOff func() backoff.BackOff
}

func (p *PollPolicy) defaults() {
	if p.InitialDelay == 0 {
		p.InitialDelay = 5 * time.Second
	}
	if p.Interval == 0 {
		p.Interval = 2 * time.Second
	}
}

func (p PollPolicy) backOff() backoff.BackOff {
	if p.NewBackOff != nil {
		return p.NewBackOff()
	}
	return backoff.NewConstantBackOff(p.Interval)
}

// sleepCtx waits for d or until ctx is done.
func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// answerState is the outcome of a single answer query.
type answerState struct {
	answer   string
	denied   bool
	timedOut bool
}

func (c *Client) queryAnswer(ctx context.Context, id int64, archive bool) (answerState, error) {
	var resp answerResponse
	p := params{"id": id, "archiv": archive}
	if err := c.get(ctx, "Answer", p, &resp); err != nil {
		return answerState{}, err
	}
	return answerState{
		answer:   string(resp.Answer),
		denied:   resp.TryAgain != nil && !bool(*resp.TryAgain),
		timedOut: resp.Timeout != nil && bool(*resp.Timeout),
	}, nil
}

// GetAnswer queries the answer of a captcha once. An empty string means the
// captcha is not solved yet.
func (c *Client) GetAnswer(ctx context.Context, id int64, archive bool) (string, error) {
	st, err := c.queryAnswer(ctx, id, archive)
	if err != nil {
		return "", fmt.Errorf("get answer %d: %w", id, err)
	}
	return st.answer, nil
}

// AwaitAnswer polls until the captcha is solved, using the client's PollPolicy.
func (c *Client) AwaitAnswer(ctx context.Context, id int64, archive bool) (string, error) {
	return c.AwaitAnswerWithPolicy(ctx, id, archive, c.cfg.Poll)
}

// AwaitAnswerWithPolicy polls until the captcha is solved. It fails with
// ErrRetryDenied when the service says not to retry, ErrAnswerTimeout when
// the captcha timed out and ErrPollExhausted when the policy runs out.
func (c *Client) AwaitAnswerWithPolicy(ctx context.Context, id int64, archive bool, policy PollPolicy) (string, error) {
	policy.defaults()
	if policy.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, policy.Timeout)
		defer cancel()
	}

	if err := c.sleep(ctx, max(policy.InitialDelay, 0)); err != nil {
		return "", fmt.Errorf("await answer %d: %w", id, err)
	}

	b := policy.backOff()
	for attempt := 1; ; attempt++ {
		st, err := c.queryAnswer(ctx, id, archive)
		if err != nil {
			return "", fmt.Errorf("await answer %d: %w", id, err)
		}
		switch {
		case st.answer != "":
			slog.Debug("captcha answered", slog.Int64("id", id), slog.Int("attempts", attempt))
			return st.answer, nil
		case st.denied:
			return "", fmt.Errorf("await answer %d: %w", id, ErrRetryDenied)
		case st.timedOut:
			return "", fmt.Errorf("await answer %d: %w", id, ErrAnswerTimeout)
		}

		if policy.MaxAttempts > 0 && attempt >= policy.MaxAttempts {
			return "", fmt.Errorf("await answer %d: %w after %d attempts", id, ErrPollExhausted, attempt)
		}
		next := b.NextBackOff()
		if next == backoff.Stop {
			return "", fmt.Errorf("await answer %d: %w after %d attempts", id, ErrPollExhausted, attempt)
		}
		if err := c.sleep(ctx, next); err != nil {
			return "", fmt.Errorf("await answer %d: %w", id, err)
		}
	}
}
