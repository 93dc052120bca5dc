package captcha9kw

// errorCatalog maps the 4-digit codes the service writes in plain-text error
// bodies to their documented meaning.
var errorCatalog = map[string]string{
	"0001": "API key doesn't exist",
	"0002": "API key not found",
	"0003": "Active API key not found",
	"0004": "API key deactivated by owner",
	"0005": "No user found",
	"0006": "No data found",
	"0007": "No ID found",
	"0008": "No captcha found",
	"0009": "No image found",
	"0010": "Image size not allowed",
	"0011": "Balance insufficient",
	"0012": "Already done.",
	"0013": "No answer found.",
	"0014": "Captcha already answered.",
	"0015": "Captcha submitted too quickly.",
	"0016": "JD Check active.",
	"0017": "Unknown problem.",
	"0018": "No ID found.",
	"0019": "Incorrect answer.",
	"0020": "Not filed on time (wrong UserID)",
	"0021": "Link not allowed.",
	"0022": "Submit denied.",
	"0023": "Solve denied.",
	"0024": "Not enough credits.",
	"0025": "No input found.",
	"0026": "No conditions accepted.",
	"0027": "No couponcode in the database found.",
	"0028": "Already used coupon code.",
	"0029": "Maxtimeout under 60 seconds.",
	"0030": "User not found.",
	"0031": "An account is not yet 24 hours in system.",
	"0032": "An account does not have the full rights.",
	"0033": "Plugin needed a update.",
	"0034": "No HTTPS allowed.",
	"0035": "No HTTP allowed.",
	"0036": "Source not allowed.",
	"0037": "Transfer denied.",
	"0038": "Incorrect answer without space",
	"0039": "Incorrect answer with space",
	"0040": "Incorrect answer with not only numbers",
	"0041": "Incorrect answer with not only A-Z, a-z",
	"0042": "Incorrect answer with not only 0-9, A-Z, a-z",
	"0043": "Incorrect answer with not only [0-9,- ]",
	"0044": "Incorrect answer with not only [0-9A-Za-z,- ]",
	"0045": "Incorrect answer with not only coordinates",
	"0046": "Incorrect answer with not only multiple coordinates",
	"0047": "Incorrect answer with not only data",
	"0048": "Incorrect answer with not only rotate number",
	"0049": "Incorrect answer with not only text",
	"0050": "Incorrect answer with not only text and too short",
	"0051": "Incorrect answer with not enough chars",
	"0052": "Incorrect answer with too many chars",
	"0053": "Incorrect answer without no or yes",
	"0054": "Assignment was not found.",
	"0055": "IP not allowed.",
	"0056": "Limit reached",
	"0057": "Maxtimeout under 75 seconds",
}

// LookupErrorCode returns the documented message for a service error code.
func LookupErrorCode(code string) (string, bool) {
	msg, ok := errorCatalog[code]
	return msg, ok
}
