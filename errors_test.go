package captcha9kw

import (
	"errors"
	"testing"
)

func TestClassifyCode(t *testing.T) {
	tests := []struct {
		name     string
		code     string
		expected errorClass
	}{
		{"empty", "", errNone},
		{"key missing 0001", "0001", errAuth},
		{"key deactivated 0004", "0004", errAuth},
		{"balance 0011", "0011", errCredits},
		{"credits 0024", "0024", errCredits},
		{"limit 0056", "0056", errRateLimited},
		{"submit denied 0022", "0022", errDenied},
		{"ip 0055", "0055", errDenied},
		{"no answer 0013", "0013", errOther},
		{"unknown", "9999", errOther},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := classifyCode(tt.code)
			if result != tt.expected {
				t.Fatalf("classifyCode(%s) = %s, want %s", tt.code, result, tt.expected)
			}
		})
	}
}

func TestParseRawError(t *testing.T) {
	err := parseRawError([]byte("0002 API key not found at all"))
	var se *ServiceError
	if !errors.As(err, &se) {
		t.Fatalf("expected *ServiceError, got %T", err)
	}
	if se.Code != "0002" || se.Message != "API key not found" {
		t.Fatalf("unexpected service error: %+v", se)
	}
	if !errors.Is(err, ErrService) {
		t.Fatal("expected errors.Is(err, ErrService)")
	}

	err = parseRawError([]byte("9999 something odd\n"))
	var ue *UnknownServiceError
	if !errors.As(err, &ue) {
		t.Fatalf("expected *UnknownServiceError, got %T", err)
	}
	if ue.Code != "9999" {
		t.Fatalf("expected code 9999, got %q", ue.Code)
	}
	if !errors.Is(err, ErrService) {
		t.Fatal("unknown codes must still match ErrService")
	}
}

func TestSplitCodedMessage(t *testing.T) {
	tests := []struct {
		msg      string
		wantCode string
		wantText string
	}{
		{"No user found", "", "No user found"},
		{"0005 No user found", "0005", "No user found"},
		{"1234 not in catalog", "", "1234 not in catalog"},
		{"0011", "", "0011"},
	}

	for _, tt := range tests {
		code, text := splitCodedMessage(tt.msg)
		if code != tt.wantCode || text != tt.wantText {
			t.Fatalf("splitCodedMessage(%q) = (%q, %q), want (%q, %q)", tt.msg, code, text, tt.wantCode, tt.wantText)
		}
	}
}

func TestLookupErrorCode(t *testing.T) {
	if msg, ok := LookupErrorCode("0056"); !ok || msg != "Limit reached" {
		t.Fatalf("LookupErrorCode(0056) = %q, %v", msg, ok)
	}
	if _, ok := LookupErrorCode("0058"); ok {
		t.Fatal("0058 should not be in the catalog")
	}
	if len(errorCatalog) != 57 {
		t.Fatalf("expected 57 catalog entries, got %d", len(errorCatalog))
	}
}

func TestConnectionErrorIs(t *testing.T) {
	err := error(&ConnectionError{StatusCode: 503, Status: "Service Unavailable"})
	if !errors.Is(err, ErrConnection) {
		t.Fatal("expected errors.Is(err, ErrConnection)")
	}
	if errors.Is(err, ErrService) {
		t.Fatal("connection error must not match ErrService")
	}

	cause := errors.New("dial tcp: refused")
	err = &ConnectionError{Err: cause}
	if !errors.Is(err, cause) {
		t.Fatal("expected transport cause to be unwrapped")
	}
}
