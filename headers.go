package captcha9kw

import stealth "github.com/anatolykoptev/go-stealth"

// apiHeaders returns the headers sent with every API request.
func (c *Client) apiHeaders() map[string]string {
	h := map[string]string{
		"user-agent":      c.userAgent,
		"accept":          "application/json, text/plain, */*",
		"accept-language": "en-US,en;q=0.9",
	}
	if c.stealth {
		h["accept-encoding"] = "gzip, deflate, br"
		if ch := stealth.ClientHintsHeaders(c.userAgent); ch != nil {
			for k, v := range ch {
				h[k] = v
			}
		}
	}
	return h
}

// stealthHeaderOrder is the header order used by the stealth transport for
// TLS fingerprint consistency.
var stealthHeaderOrder = []string{
	"content-type",
	"content-length",
	"sec-ch-ua",
	"sec-ch-ua-mobile",
	"sec-ch-ua-platform",
	"user-agent",
	"accept",
	"accept-language",
	"accept-encoding",
}
