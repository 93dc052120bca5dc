package captcha9kw

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// flexInt accepts a JSON number or a numeric string.
type flexInt int64

func (f *flexInt) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(strings.Trim(strings.TrimSpace(string(b)), `"`))
	if s == "" || s == "null" {
		*f = 0
		return nil
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		*f = flexInt(n)
		return nil
	}
	fl, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("not a number: %s", truncate(string(b), 50))
	}
	*f = flexInt(fl)
	return nil
}

// flexBool accepts true/false, 0/1 and their string forms.
type flexBool bool

func (f *flexBool) UnmarshalJSON(b []byte) error {
	switch strings.ToLower(strings.TrimSpace(strings.Trim(strings.TrimSpace(string(b)), `"`))) {
	case "true", "1":
		*f = true
	case "false", "0", "", "null":
		*f = false
	default:
		return fmt.Errorf("not a boolean: %s", truncate(string(b), 50))
	}
	return nil
}

// flexString accepts a JSON string or a bare number.
type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}
	if string(b) == "null" {
		*f = ""
		return nil
	}
	*f = flexString(b)
	return nil
}

// Payload is a decoded JSON object whose schema the service does not publish.
// Numbers are kept as json.Number.
type Payload map[string]any

// UnmarshalJSON decodes a JSON object preserving number precision.
func (p *Payload) UnmarshalJSON(b []byte) error {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	var m map[string]any
	if err := dec.Decode(&m); err != nil {
		return err
	}
	*p = m
	return nil
}

// Int returns the value at key as an integer. Numeric strings are accepted.
func (p Payload) Int(key string) (int64, bool) {
	switch v := p[key].(type) {
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return n, true
		}
		if f, err := v.Float64(); err == nil {
			return int64(f), true
		}
	case string:
		if n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64); err == nil {
			return n, true
		}
	case float64:
		return int64(v), true
	}
	return 0, false
}

// String returns the value at key formatted as a string.
func (p Payload) String(key string) (string, bool) {
	v, ok := p[key]
	if !ok || v == nil {
		return "", false
	}
	switch x := v.(type) {
	case string:
		return x, true
	case json.Number:
		return x.String(), true
	}
	return fmt.Sprint(v), true
}

// Bool returns the value at key interpreted as a 0/1 or true/false flag.
func (p Payload) Bool(key string) (bool, bool) {
	switch v := p[key].(type) {
	case bool:
		return v, true
	case json.Number:
		return v.String() != "0", true
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "1", "true":
			return true, true
		case "0", "false", "":
			return false, true
		}
	}
	return false, false
}

type balanceResponse struct {
	Credits flexInt `json:"credits"`
}

type uploadResponse struct {
	CaptchaID flexInt `json:"captchaid"`
}

type answerResponse struct {
	Answer   flexString `json:"answer"`
	TryAgain *flexBool  `json:"try_again"`
	Timeout  *flexBool  `json:"timeout"`
}

type transferResponse struct {
	TransferID flexInt `json:"transferid"`
}

type couponResponse struct {
	Code flexString `json:"code"`
}

type newAccountResponse struct {
	NewUser flexString `json:"newuser"`
	NewPass flexString `json:"newpass"`
}
