package captcha9kw

import "fmt"

const (
	defaultBaseURL   = "https://www.9kw.eu/index.cgi"
	defaultStatusURL = "https://www.9kw.eu/grafik/servercheck.json"

	// uploadField is the multipart field carrying image bytes or the site key.
	uploadField = "file-upload-01"
)

// Action describes one service action. Source actions identify the calling
// software with the source parameter; Upload actions are multipart POSTs.
// Polled actions are repeated by AwaitAnswer and do not draw on the
// client-side rate limit budget.
type Action struct {
	Name   string
	Source bool
	Upload bool
	Polled bool
}

// Actions maps operation names to the service actions they call.
var Actions = map[string]Action{
	"Balance":           {Name: "usercaptchaguthaben"},
	"Settings":          {Name: "userconfig"},
	"Referrals":         {Name: "userconfigref", Source: true},
	"SetSelfOnly":       {Name: "userconfigselfonly"},
	"SetSelfSend":       {Name: "userconfigselfsend"},
	"SetSelfSolve":      {Name: "userconfigselfsolve"},
	"SubmitImage":       {Name: "usercaptchaupload", Source: true, Upload: true},
	"SubmitInteractive": {Name: "usercaptchaupload", Source: true, Upload: true},
	"Answer":            {Name: "usercaptchacorrectdata", Source: true, Polled: true},
	"Feedback":          {Name: "usercaptchacorrectback", Source: true},
	"Details":           {Name: "userhistorydetail"},
	"Submitted":         {Name: "userhistory"},
	"Solved":            {Name: "userhistory2"},
	"Failed":            {Name: "userhistory3"},
	"Transfer":          {Name: "usertransfer", Source: true},
	"Coupon":            {Name: "usergutscheincreate", Source: true},
	"CreateAccount":     {Name: "anmelden2_create", Source: true},
}

// lookupAction returns the action for a named operation, or an error if unknown.
func lookupAction(operation string) (Action, error) {
	a, ok := Actions[operation]
	if !ok {
		return Action{}, fmt.Errorf("unknown operation: %s", operation)
	}
	return a, nil
}
