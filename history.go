package captcha9kw

import (
	"context"
	"fmt"
)

// SolvedQuery filters CaptchasSolved.
type SolvedQuery struct {
	// Source is the software name used by the submitter, e.g. "phpapi".
	Source string
	// CorrectSource is the software name used by the solver, e.g. "9kwclient".
	CorrectSource string
	Archive       bool
	Filter        HistoryFilter
	Confirm       bool
	// Page is the page number; a page holds up to 10 rows.
	Page       int `validate:"min=0"`
	OnlyAPIKey bool
}

// SubmittedQuery filters CaptchasSubmitted.
type SubmittedQuery struct {
	Source        string
	CorrectSource string
	Archive       bool
	Filter        HistoryFilter
	Page          int `validate:"min=0"`
	OnlyAPIKey    bool
}

// FailedQuery filters CaptchasFailed.
type FailedQuery struct {
	Archive    bool
	Page       int `validate:"min=0"`
	OnlyAPIKey bool
}

// CaptchasSolved lists captchas the account has solved.
func (c *Client) CaptchasSolved(ctx context.Context, q SolvedQuery) (HistoryPage, error) {
	if err := validateOptions(q); err != nil {
		return nil, fmt.Errorf("captchas solved: %w", err)
	}
	p := params{
		"archiv":     q.Archive,
		"confirm":    q.Confirm,
		"page":       q.Page,
		"onlyapikey": q.OnlyAPIKey,
	}
	p.setIf("source", q.Source)
	p.setIf("correctsource", q.CorrectSource)
	p.setIf("filter", string(q.Filter))
	return c.history(ctx, "Solved", p)
}

// CaptchasSubmitted lists captchas the account has submitted.
func (c *Client) CaptchasSubmitted(ctx context.Context, q SubmittedQuery) (HistoryPage, error) {
	if err := validateOptions(q); err != nil {
		return nil, fmt.Errorf("captchas submitted: %w", err)
	}
	p := params{
		"archiv":     q.Archive,
		"page":       q.Page,
		"onlyapikey": q.OnlyAPIKey,
	}
	p.setIf("source", q.Source)
	p.setIf("correctsource", q.CorrectSource)
	p.setIf("filter", string(q.Filter))
	return c.history(ctx, "Submitted", p)
}

// CaptchasFailed lists the account's captchas that failed.
func (c *Client) CaptchasFailed(ctx context.Context, q FailedQuery) (HistoryPage, error) {
	if err := validateOptions(q); err != nil {
		return nil, fmt.Errorf("captchas failed: %w", err)
	}
	return c.history(ctx, "Failed", params{
		"archiv":     q.Archive,
		"page":       q.Page,
		"onlyapikey": q.OnlyAPIKey,
	})
}

func (c *Client) history(ctx context.Context, operation string, p params) (HistoryPage, error) {
	var page Payload
	if err := c.get(ctx, operation, p, &page); err != nil {
		return nil, fmt.Errorf("history %s: %w", operation, err)
	}
	return page, nil
}

// CaptchaDetails returns the details of a single captcha.
func (c *Client) CaptchaDetails(ctx context.Context, id int64, archive bool) (CaptchaDetail, error) {
	var d Payload
	if err := c.get(ctx, "Details", params{"id": id, "archiv": archive}, &d); err != nil {
		return nil, fmt.Errorf("captcha details %d: %w", id, err)
	}
	return d, nil
}

// MarkCorrect reports the captcha's answer as correct.
func (c *Client) MarkCorrect(ctx context.Context, id int64, archive bool) error {
	return c.feedback(ctx, id, archive, 1)
}

// MarkIncorrect reports the captcha's answer as incorrect.
func (c *Client) MarkIncorrect(ctx context.Context, id int64, archive bool) error {
	return c.feedback(ctx, id, archive, 2)
}

func (c *Client) feedback(ctx context.Context, id int64, archive bool, correct int) error {
	p := params{"id": id, "archiv": archive, "correct": correct}
	if err := c.get(ctx, "Feedback", p, nil); err != nil {
		return fmt.Errorf("feedback %d: %w", id, err)
	}
	return nil
}

// TransferCredits moves credits to another account and returns the transfer ID.
func (c *Client) TransferCredits(ctx context.Context, credits int, userID int64, kind TransferKind) (int64, error) {
	if credits <= 0 {
		return 0, fmt.Errorf("transfer credits: %w: credits must be positive", ErrValidation)
	}
	if kind == 0 {
		kind = TransferCreditsOnly
	}
	p := params{"guthaben": credits, "userid": userID, "transferart": int(kind)}
	var resp transferResponse
	if err := c.get(ctx, "Transfer", p, &resp); err != nil {
		return 0, fmt.Errorf("transfer credits: %w", err)
	}
	return int64(resp.TransferID), nil
}

// CreateCoupon allocates credits from the balance to a new coupon code.
// The service requires at least 1000 credits.
func (c *Client) CreateCoupon(ctx context.Context, credits int) (string, error) {
	if credits <= 0 {
		return "", fmt.Errorf("create coupon: %w: credits must be positive", ErrValidation)
	}
	var resp couponResponse
	if err := c.get(ctx, "Coupon", params{"guthaben": credits}, &resp); err != nil {
		return "", fmt.Errorf("create coupon: %w", err)
	}
	return string(resp.Code), nil
}

// CreateAccount creates a new account funded with code, which is either a
// credit amount (at least 40000) or a coupon code. referrer is the optional
// ID of the referring account.
func (c *Client) CreateAccount(ctx context.Context, code, referrer string) (*NewAccount, error) {
	if code == "" {
		return nil, fmt.Errorf("create account: %w: code is required", ErrValidation)
	}
	p := params{"code": code}
	p.setIf("ref", referrer)
	var resp newAccountResponse
	if err := c.get(ctx, "CreateAccount", p, &resp); err != nil {
		return nil, fmt.Errorf("create account: %w", err)
	}
	return &NewAccount{Username: string(resp.NewUser), Password: string(resp.NewPass)}, nil
}
