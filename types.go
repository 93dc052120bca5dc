package captcha9kw

// AccountSettings holds the account configuration returned by the service.
type AccountSettings struct {
	ID        int64
	SelfOnly  bool
	SelfSend  bool
	SelfSolve bool

	// Raw is the full settings object, including fields not mapped above.
	Raw Payload
}

// HistoryPage is one page (up to 10 rows) of a history listing.
type HistoryPage = Payload

// CaptchaDetail describes a single submitted captcha.
type CaptchaDetail = Payload

// ServiceStatus is the decoded service status document.
type ServiceStatus = Payload

// NewAccount holds the credentials of an account created with CreateAccount.
type NewAccount struct {
	Username string
	Password string
}

// TransferKind selects what TransferCredits moves to the other account.
type TransferKind int

const (
	// TransferCreditsOnly moves plain credits.
	TransferCreditsOnly TransferKind = 1
	// TransferWithBonus also moves values from the bonus program.
	TransferWithBonus TransferKind = 2
)

// HistoryFilter restricts history listings by feedback state.
type HistoryFilter string

const (
	FilterAll   HistoryFilter = ""
	FilterOK    HistoryFilter = "ok"
	FilterNotOK HistoryFilter = "notok"
	FilterBoth  HistoryFilter = "both"
	FilterOther HistoryFilter = "other"
)
