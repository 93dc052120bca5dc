package captcha9kw

import (
	"encoding/json"
	"testing"
)

func TestFlexInt(t *testing.T) {
	tests := []struct {
		in   string
		want int64
	}{
		{`42`, 42},
		{`"42"`, 42},
		{`"  7 "`, 7},
		{`12.0`, 12},
		{`null`, 0},
		{`""`, 0},
	}
	for _, tt := range tests {
		var f flexInt
		if err := json.Unmarshal([]byte(tt.in), &f); err != nil {
			t.Fatalf("unmarshal %s: %v", tt.in, err)
		}
		if int64(f) != tt.want {
			t.Fatalf("unmarshal %s = %d, want %d", tt.in, f, tt.want)
		}
	}

	var f flexInt
	if err := json.Unmarshal([]byte(`"abc"`), &f); err == nil {
		t.Fatal("expected error for non-numeric string")
	}
}

func TestFlexBool(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{`true`, true},
		{`1`, true},
		{`"1"`, true},
		{`"TRUE"`, true},
		{`false`, false},
		{`0`, false},
		{`"0"`, false},
		{`null`, false},
	}
	for _, tt := range tests {
		var f flexBool
		if err := json.Unmarshal([]byte(tt.in), &f); err != nil {
			t.Fatalf("unmarshal %s: %v", tt.in, err)
		}
		if bool(f) != tt.want {
			t.Fatalf("unmarshal %s = %v, want %v", tt.in, f, tt.want)
		}
	}

	var f flexBool
	if err := json.Unmarshal([]byte(`"maybe"`), &f); err == nil {
		t.Fatal("expected error for non-boolean")
	}
}

func TestFlexString(t *testing.T) {
	var resp answerResponse
	if err := json.Unmarshal([]byte(`{"answer":4711,"try_again":"0"}`), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Answer != "4711" {
		t.Fatalf("expected answer 4711, got %q", resp.Answer)
	}
	if resp.TryAgain == nil || bool(*resp.TryAgain) {
		t.Fatal("expected try_again present and false")
	}
	if resp.Timeout != nil {
		t.Fatal("expected timeout absent")
	}

	resp = answerResponse{}
	if err := json.Unmarshal([]byte(`{"answer":null}`), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Answer != "" {
		t.Fatalf("expected empty answer, got %q", resp.Answer)
	}
}

func TestPayloadAccessors(t *testing.T) {
	var p Payload
	body := `{"big":12345678901234567,"str":"42","flag":"1","off":0,"name":"x","nested":{"a":1}}`
	if err := json.Unmarshal([]byte(body), &p); err != nil {
		t.Fatal(err)
	}

	if n, ok := p.Int("big"); !ok || n != 12345678901234567 {
		t.Fatalf("Int(big) = %d, %v", n, ok)
	}
	if n, ok := p.Int("str"); !ok || n != 42 {
		t.Fatalf("Int(str) = %d, %v", n, ok)
	}
	if _, ok := p.Int("name"); ok {
		t.Fatal("Int(name) should fail")
	}
	if b, ok := p.Bool("flag"); !ok || !b {
		t.Fatalf("Bool(flag) = %v, %v", b, ok)
	}
	if b, ok := p.Bool("off"); !ok || b {
		t.Fatalf("Bool(off) = %v, %v", b, ok)
	}
	if s, ok := p.String("big"); !ok || s != "12345678901234567" {
		t.Fatalf("String(big) = %q, %v", s, ok)
	}
	if _, ok := p.String("missing"); ok {
		t.Fatal("String(missing) should fail")
	}
	if _, ok := p["nested"].(map[string]any); !ok {
		t.Fatalf("nested object decoded as %T", p["nested"])
	}
}

func TestParamsNormalize(t *testing.T) {
	p := params{"a": true, "b": false, "c": 3, "d": "x"}
	p.normalize()
	v := p.values()
	for key, want := range map[string]string{"a": "1", "b": "0", "c": "3", "d": "x"} {
		if got := v.Get(key); got != want {
			t.Fatalf("param %s = %q, want %q", key, got, want)
		}
	}

	p.setIf("empty", "")
	if _, ok := p["empty"]; ok {
		t.Fatal("setIf must skip empty values")
	}
}
