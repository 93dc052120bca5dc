package captcha9kw

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Sentinel errors. Every error returned by the client matches one of these
// with errors.Is.
var (
	ErrConfiguration = errors.New("captcha9kw: configuration error")
	ErrValidation    = errors.New("captcha9kw: validation error")
	ErrConnection    = errors.New("captcha9kw: connection error")
	ErrService       = errors.New("captcha9kw: service error")
	ErrRateLimited   = errors.New("captcha9kw: rate limited")

	// ErrRetryDenied is returned by AwaitAnswer when the service tells the
	// client not to query the captcha again.
	ErrRetryDenied = errors.New("captcha9kw: service denied further answer queries")
	// ErrAnswerTimeout is returned by AwaitAnswer when the service reports the
	// captcha timed out unanswered.
	ErrAnswerTimeout = errors.New("captcha9kw: timeout waiting for answer")
	// ErrPollExhausted is returned by AwaitAnswer when the poll policy ran out
	// of attempts.
	ErrPollExhausted = errors.New("captcha9kw: answer polling exhausted")
)

// ConnectionError reports a non-200 HTTP status or a transport failure.
// StatusCode is zero when no response was received.
type ConnectionError struct {
	URL        string
	StatusCode int
	Status     string
	Err        error
}

func (e *ConnectionError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("captcha9kw: connection error: %v", e.Err)
	}
	return fmt.Sprintf("captcha9kw: connection error: %d, '%s'", e.StatusCode, e.Status)
}

func (e *ConnectionError) Is(target error) bool { return target == ErrConnection }

func (e *ConnectionError) Unwrap() error { return e.Err }

// ServiceError is a failure reported by the service itself. Code is set when
// the service supplied a catalog code.
type ServiceError struct {
	Code    string
	Message string
}

func (e *ServiceError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("captcha9kw: server error %s: '%s'", e.Code, e.Message)
	}
	return fmt.Sprintf("captcha9kw: server error: '%s'", e.Message)
}

func (e *ServiceError) Unwrap() error { return ErrService }

// UnknownServiceError is a plain-text failure whose code is not in the catalog.
type UnknownServiceError struct {
	Code string
	Body string
}

func (e *UnknownServiceError) Error() string {
	return fmt.Sprintf("captcha9kw: unknown server error code %q: %s", e.Code, truncate(e.Body, 200))
}

func (e *UnknownServiceError) Unwrap() error { return ErrService }

// RateLimitedError is returned without a network call when the client-side
// throttle refuses an action.
type RateLimitedError struct {
	Action string
	Until  time.Time
}

func (e *RateLimitedError) Error() string {
	if e.Until.IsZero() {
		return fmt.Sprintf("captcha9kw: %s rate limited", e.Action)
	}
	return fmt.Sprintf("captcha9kw: %s rate limited until %s", e.Action, e.Until.Format(time.RFC3339))
}

func (e *RateLimitedError) Unwrap() error { return ErrRateLimited }

// errorClass groups catalog codes for logging and throttling decisions.
type errorClass int

const (
	errNone        errorClass = iota
	errAuth                   // 0001-0004: key missing, unknown or deactivated
	errCredits                // 0011, 0024: balance too low
	errRateLimited            // 0056: limit reached
	errDenied                 // 0022, 0023, 0037, 0055: submit/solve/transfer/IP denied
	errOther
)

// classifyCode maps a catalog code to its class.
func classifyCode(code string) errorClass {
	switch code {
	case "":
		return errNone
	case "0001", "0002", "0003", "0004":
		return errAuth
	case "0011", "0024":
		return errCredits
	case "0056":
		return errRateLimited
	case "0022", "0023", "0037", "0055":
		return errDenied
	}
	return errOther
}

func (c errorClass) String() string {
	switch c {
	case errNone:
		return "none"
	case errAuth:
		return "auth"
	case errCredits:
		return "credits"
	case errRateLimited:
		return "rate_limited"
	case errDenied:
		return "denied"
	}
	return "other"
}

// parseRawError turns a non-JSON body of the form "<code> <text>" into an error.
func parseRawError(body []byte) error {
	text := strings.TrimSpace(string(body))
	code, _, _ := strings.Cut(text, " ")
	if msg, ok := LookupErrorCode(code); ok {
		return &ServiceError{Code: code, Message: msg}
	}
	return &UnknownServiceError{Code: code, Body: text}
}

// splitCodedMessage splits "0005 No user found" into its code and message when
// the leading token is a known catalog code.
func splitCodedMessage(msg string) (code, text string) {
	head, rest, ok := strings.Cut(msg, " ")
	if !ok || len(head) != 4 {
		return "", msg
	}
	if _, known := LookupErrorCode(head); !known {
		return "", msg
	}
	return head, strings.TrimSpace(rest)
}

// serviceCode returns the catalog code carried by err, if any.
func serviceCode(err error) string {
	var se *ServiceError
	if errors.As(err, &se) {
		return se.Code
	}
	return ""
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
