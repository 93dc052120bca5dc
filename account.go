package captcha9kw

import (
	"context"
	"fmt"
)

// Balance returns the account's credit balance.
func (c *Client) Balance(ctx context.Context) (int, error) {
	var resp balanceResponse
	if err := c.get(ctx, "Balance", nil, &resp); err != nil {
		return 0, fmt.Errorf("balance: %w", err)
	}
	return int(resp.Credits), nil
}

// Settings returns all account-related settings.
func (c *Client) Settings(ctx context.Context) (*AccountSettings, error) {
	var raw Payload
	if err := c.get(ctx, "Settings", nil, &raw); err != nil {
		return nil, fmt.Errorf("settings: %w", err)
	}
	return parseSettings(raw), nil
}

func parseSettings(raw Payload) *AccountSettings {
	s := &AccountSettings{Raw: raw}
	s.ID, _ = raw.Int("id")
	s.SelfOnly, _ = raw.Bool("selfonly")
	s.SelfSend, _ = raw.Bool("selfsend")
	s.SelfSolve, _ = raw.Bool("selfsolve")
	return s
}

// AccountID returns the ID of the account the API key belongs to.
func (c *Client) AccountID(ctx context.Context) (int64, error) {
	s, err := c.Settings(ctx)
	if err != nil {
		return 0, err
	}
	if _, ok := s.Raw["id"]; !ok {
		return 0, fmt.Errorf("account id: %w: id missing from settings", ErrService)
	}
	return s.ID, nil
}

// Referrals returns the account's referrals.
func (c *Client) Referrals(ctx context.Context) ([]any, error) {
	return c.referrals(ctx, false)
}

// ReferralsArchived returns the account's referrals, including archived ones.
func (c *Client) ReferralsArchived(ctx context.Context) ([]any, error) {
	return c.referrals(ctx, true)
}

func (c *Client) referrals(ctx context.Context, archived bool) ([]any, error) {
	p := params{}
	if archived {
		p["archiv"] = true
	}
	var raw Payload
	if err := c.get(ctx, "Referrals", p, &raw); err != nil {
		return nil, fmt.Errorf("referrals: %w", err)
	}
	switch refs := raw["refs"].(type) {
	case []any:
		return refs, nil
	case nil:
		return nil, nil
	default:
		return []any{refs}, nil
	}
}

// SelfOnly reports whether the account only receives its own captchas.
func (c *Client) SelfOnly(ctx context.Context) (bool, error) {
	s, err := c.Settings(ctx)
	if err != nil {
		return false, err
	}
	return s.SelfOnly, nil
}

// SelfSend reports the account's selfsend setting.
func (c *Client) SelfSend(ctx context.Context) (bool, error) {
	s, err := c.Settings(ctx)
	if err != nil {
		return false, err
	}
	return s.SelfSend, nil
}

// SelfSolve reports whether the account's captchas are solved only by itself.
// The per-captcha SelfSolve option must be enabled too for this to apply.
func (c *Client) SelfSolve(ctx context.Context) (bool, error) {
	s, err := c.Settings(ctx)
	if err != nil {
		return false, err
	}
	return s.SelfSolve, nil
}

// SetSelfOnly updates the account's selfonly setting.
func (c *Client) SetSelfOnly(ctx context.Context, v bool) error {
	return c.setSetting(ctx, "SetSelfOnly", "selfonly", v)
}

// SetSelfSend updates the account's selfsend setting.
func (c *Client) SetSelfSend(ctx context.Context, v bool) error {
	return c.setSetting(ctx, "SetSelfSend", "selfsend", v)
}

// SetSelfSolve updates the account's selfsolve setting.
func (c *Client) SetSelfSolve(ctx context.Context, v bool) error {
	return c.setSetting(ctx, "SetSelfSolve", "selfsolve", v)
}

func (c *Client) setSetting(ctx context.Context, operation, key string, v bool) error {
	if err := c.get(ctx, operation, params{key: v}, nil); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}
