package captcha9kw

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const settingsBody = `{"status":{"success":true},"id":"31337","selfonly":1,"selfsend":"0","selfsolve":true,"cbmail":""}`

func TestSettings(t *testing.T) {
	fs := newFakeService(t, settingsBody)
	c := newTestClient(t, fs)

	s, err := c.Settings(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 31337, s.ID)
	assert.True(t, s.SelfOnly)
	assert.False(t, s.SelfSend)
	assert.True(t, s.SelfSolve)
	assert.Contains(t, s.Raw, "cbmail")
	assert.Equal(t, "userconfig", fs.last(t).Query.Get("action"))
}

func TestAccountID(t *testing.T) {
	fs := newFakeService(t, settingsBody, `{"status":{"success":true}}`)
	c := newTestClient(t, fs)

	id, err := c.AccountID(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 31337, id)

	_, err = c.AccountID(context.Background())
	require.ErrorIs(t, err, ErrService)
}

func TestSettingGetters(t *testing.T) {
	fs := newFakeService(t, settingsBody)
	c := newTestClient(t, fs)
	ctx := context.Background()

	only, err := c.SelfOnly(ctx)
	require.NoError(t, err)
	send, err := c.SelfSend(ctx)
	require.NoError(t, err)
	solve, err := c.SelfSolve(ctx)
	require.NoError(t, err)

	assert.True(t, only)
	assert.False(t, send)
	assert.True(t, solve)
}

func TestSettingSetters(t *testing.T) {
	fs := newFakeService(t)
	c := newTestClient(t, fs)
	ctx := context.Background()

	require.NoError(t, c.SetSelfOnly(ctx, true))
	require.NoError(t, c.SetSelfSend(ctx, false))
	require.NoError(t, c.SetSelfSolve(ctx, true))

	calls := fs.calls()
	require.Len(t, calls, 3)
	assert.Equal(t, "userconfigselfonly", calls[0].Query.Get("action"))
	assert.Equal(t, "1", calls[0].Query.Get("selfonly"))
	assert.Equal(t, "userconfigselfsend", calls[1].Query.Get("action"))
	assert.Equal(t, "0", calls[1].Query.Get("selfsend"))
	assert.Equal(t, "userconfigselfsolve", calls[2].Query.Get("action"))
	assert.Equal(t, "1", calls[2].Query.Get("selfsolve"))
}

func TestReferrals(t *testing.T) {
	fs := newFakeService(t,
		`{"status":{"success":true},"refs":[{"id":1},{"id":2}]}`,
		`{"status":{"success":true}}`,
	)
	c := newTestClient(t, fs)

	refs, err := c.Referrals(context.Background())
	require.NoError(t, err)
	assert.Len(t, refs, 2)
	assert.False(t, fs.last(t).Query.Has("archiv"))

	refs, err = c.ReferralsArchived(context.Background())
	require.NoError(t, err)
	assert.Empty(t, refs)
	q := fs.last(t).Query
	assert.Equal(t, "userconfigref", q.Get("action"))
	assert.Equal(t, "1", q.Get("archiv"))
}
