package captcha

import "context"

// Solver abstracts interactive CAPTCHA solving services.
type Solver interface {
	// Solve submits a CAPTCHA challenge and returns the solution token.
	// siteKey is the widget's public key, pageURL is the page triggering the challenge.
	Solve(ctx context.Context, siteKey, pageURL string) (token string, err error)

	// Balance returns the account balance in the service's own unit.
	Balance(ctx context.Context) (float64, error)
}
