package captcha9kw

import (
	"context"
	"testing"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const pending = `{"status":{"success":true},"answer":""}`

func TestGetAnswer(t *testing.T) {
	fs := newFakeService(t, `{"status":{"success":true},"answer":"abc"}`)
	c := newTestClient(t, fs)

	answer, err := c.GetAnswer(context.Background(), 77, true)
	require.NoError(t, err)
	assert.Equal(t, "abc", answer)

	q := fs.last(t).Query
	assert.Equal(t, "usercaptchacorrectdata", q.Get("action"))
	assert.Equal(t, "77", q.Get("id"))
	assert.Equal(t, "1", q.Get("archiv"))
	assert.Equal(t, DefaultSource, q.Get("source"))
}

func TestGetAnswerPending(t *testing.T) {
	fs := newFakeService(t, `{"status":{"success":true}}`)
	c := newTestClient(t, fs)

	answer, err := c.GetAnswer(context.Background(), 1, false)
	require.NoError(t, err)
	assert.Empty(t, answer)
	assert.Equal(t, "0", fs.last(t).Query.Get("archiv"))
}

func TestAwaitAnswer(t *testing.T) {
	fs := newFakeService(t, pending, pending, `{"status":{"success":true},"answer":"7x9q"}`)
	c := newTestClient(t, fs)
	rec := &sleepRecorder{}
	c.sleep = rec.sleep

	answer, err := c.AwaitAnswer(context.Background(), 5, false)
	require.NoError(t, err)
	assert.Equal(t, "7x9q", answer)
	assert.Equal(t, []time.Duration{5 * time.Second, 2 * time.Second, 2 * time.Second}, rec.recorded())
	assert.Len(t, fs.calls(), 3)
}

func TestAwaitAnswerNoInitialDelay(t *testing.T) {
	fs := newFakeService(t, `{"status":{"success":true},"answer":"now"}`)
	c := newTestClient(t, fs)
	rec := &sleepRecorder{}
	c.sleep = rec.sleep

	answer, err := c.AwaitAnswerWithPolicy(context.Background(), 5, false, PollPolicy{InitialDelay: NoInitialDelay})
	require.NoError(t, err)
	assert.Equal(t, "now", answer)
	assert.Equal(t, []time.Duration{0}, rec.recorded())
	assert.Len(t, fs.calls(), 1)
}

func TestAwaitAnswerNumericAnswer(t *testing.T) {
	fs := newFakeService(t, `{"status":{"success":true},"answer":1234}`)
	c := newTestClient(t, fs)
	c.sleep = (&sleepRecorder{}).sleep

	answer, err := c.AwaitAnswer(context.Background(), 5, false)
	require.NoError(t, err)
	assert.Equal(t, "1234", answer)
}

func TestAwaitAnswerTerminalStates(t *testing.T) {
	tests := []struct {
		name string
		body string
		want error
	}{
		{"retry denied", `{"status":{"success":true},"answer":"","try_again":0}`, ErrRetryDenied},
		{"retry denied bool", `{"status":{"success":true},"try_again":false}`, ErrRetryDenied},
		{"timeout", `{"status":{"success":true},"answer":"","timeout":1}`, ErrAnswerTimeout},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := newFakeService(t, tt.body)
			c := newTestClient(t, fs)
			rec := &sleepRecorder{}
			c.sleep = rec.sleep

			_, err := c.AwaitAnswer(context.Background(), 9, false)
			require.ErrorIs(t, err, tt.want)
			assert.Len(t, fs.calls(), 1)
			assert.Equal(t, []time.Duration{5 * time.Second}, rec.recorded())
		})
	}
}

func TestAwaitAnswerTryAgainTrueKeepsPolling(t *testing.T) {
	fs := newFakeService(t,
		`{"status":{"success":true},"answer":"","try_again":1}`,
		`{"status":{"success":true},"answer":"ok"}`,
	)
	c := newTestClient(t, fs)
	c.sleep = (&sleepRecorder{}).sleep

	answer, err := c.AwaitAnswer(context.Background(), 9, false)
	require.NoError(t, err)
	assert.Equal(t, "ok", answer)
}

func TestAwaitAnswerMaxAttempts(t *testing.T) {
	fs := newFakeService(t, pending)
	c := newTestClient(t, fs)
	rec := &sleepRecorder{}
	c.sleep = rec.sleep

	_, err := c.AwaitAnswerWithPolicy(context.Background(), 3, false, PollPolicy{
		InitialDelay: time.Second,
		Interval:     time.Millisecond,
		MaxAttempts:  3,
	})
	require.ErrorIs(t, err, ErrPollExhausted)
	assert.Len(t, fs.calls(), 3)
	assert.Equal(t, []time.Duration{time.Second, time.Millisecond, time.Millisecond}, rec.recorded())
}

func TestAwaitAnswerBackOffStop(t *testing.T) {
	fs := newFakeService(t, pending)
	c := newTestClient(t, fs)
	c.sleep = (&sleepRecorder{}).sleep

	_, err := c.AwaitAnswerWithPolicy(context.Background(), 3, false, PollPolicy{
		NewBackOff: func() backoff.BackOff { return &backoff.StopBackOff{} },
	})
	require.ErrorIs(t, err, ErrPollExhausted)
	assert.Len(t, fs.calls(), 1)
}

func TestAwaitAnswerCancelled(t *testing.T) {
	fs := newFakeService(t, pending)
	c := newTestClient(t, fs)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.AwaitAnswer(ctx, 3, false)
	require.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, fs.calls())
}

func TestAwaitAnswerPolicyTimeout(t *testing.T) {
	fs := newFakeService(t, pending)
	c := newTestClient(t, fs)

	_, err := c.AwaitAnswerWithPolicy(context.Background(), 3, false, PollPolicy{
		InitialDelay: time.Millisecond,
		Interval:     5 * time.Millisecond,
		Timeout:      50 * time.Millisecond,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestSleepCtx(t *testing.T) {
	require.NoError(t, sleepCtx(context.Background(), time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.ErrorIs(t, sleepCtx(ctx, time.Hour), context.Canceled)
}
