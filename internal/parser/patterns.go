package parser

import (
	"regexp"
	"strings"
)

// Pattern tables are compiled once at init and only read afterwards, so the
// classifier can be called from any number of goroutines.

// spaceClass also covers the Unicode separators such as U+00A0 that SMS
// gateways put between "Rs." and the figure.
const spaceClass = `\s\v\p{Z}\x{FEFF}`

const (
	space          = `[` + spaceClass + `]`
	currencyMarker = `(?:Rs\.?|INR|₹)`
	amountNumber   = `(?P<amount>[\d,]+\.?\d*)`
	merchantText   = `([A-Za-z0-9` + spaceClass + `&'.,-]+?)`
)

var placeholders = strings.NewReplacer("{sp}", space, "{cur}", currencyMarker, "{amt}", amountNumber, "{merchant}", merchantText)

func compile(pattern string) *regexp.Regexp {
	return regexp.MustCompile("(?i)" + placeholders.Replace(pattern))
}

// rule is one row of a priority-ordered pattern table.
type rule struct {
	name string
	re   *regexp.Regexp
}

// bankSenderPatterns: operator-prefixed DLT headers (VM-ICICIB) or a known
// bank name anywhere in the sender id.
var bankSenderPatterns = []*regexp.Regexp{
	compile(`^[A-Z]{2}-[A-Z]{6}$`),
	compile(`HDFC|ICICI|SBI|AXIS|KOTAK|BOB|PNB|IDBI|YES|INDUS|UNION|CANARA|IDFC|RBL|FEDERAL`),
}

var otpPatterns = []*regexp.Regexp{
	compile(`\bOTP\b`),
	compile(`\bone[- ]?time[- ]?password\b`),
	compile(`\bverification code\b`),
	compile(`\b\d{4,6}{sp}*is{sp}*(?:your|the){sp}*(?:OTP|code|password)\b`),
	compile(`\b(?:OTP|code|password){sp}*(?:is|:){sp}*\d{4,6}\b`),
}

var creditPatterns = []*regexp.Regexp{
	compile(`\bcredited\b`),
	compile(`\breceived\b`),
	compile(`\bdeposit(?:ed)?\b`),
	compile(`\brefund(?:ed)?\b`),
	compile(`\bcashback\b`),
}

// debitRules is shared by IsDebit and ExtractAmount. Every row captures the
// figure in the named group "amount".
var debitRules = []rule{
	{"debited", compile(`debited{sp}*(?:by{sp}*)?{cur}{sp}*{amt}`)},
	{"amount-debited", compile(`{cur}{sp}*{amt}{sp}*debited`)},
	{"spent", compile(`spent{sp}*{cur}{sp}*{amt}`)},
	{"amount-spent", compile(`{cur}{sp}*{amt}{sp}*spent`)},
	{"withdrawn", compile(`withdrawn{sp}*{cur}{sp}*{amt}`)},
	{"payment-of", compile(`payment{sp}*of{sp}*{cur}{sp}*{amt}`)},
	{"txn-of", compile(`txn{sp}*of{sp}*{cur}{sp}*{amt}`)},
	{"purchase-of", compile(`purchase{sp}*of{sp}*{cur}{sp}*{amt}`)},
	{"has-been-debited", compile(`{cur}{sp}*{amt}{sp}*(?:has been|was){sp}*(?:debited|deducted)`)},
	{"amount-transfer-to", compile(`{cur}{sp}*{amt}{sp}*transfer(?:red)?{sp}+to`)},
	{"transferred", compile(`transferred{sp}*{cur}{sp}*{amt}`)},
}

// anyAmount is the fallback scan used when no debit row yields an amount.
var anyAmount = compile(`{cur}{sp}*{amt}`)

// merchantRules capture the payee in group 1. Capture stops at " on",
// " ref", " txn", a period or end of text.
var merchantRules = []rule{
	{"preposition", compile(`(?:at|to|@|for){sp}+{merchant}(?:{sp}+on|{sp}+ref|{sp}+txn|\.|{sp}*$)`)},
	{"transferred-to", compile(`transferred{sp}+to{sp}+{merchant}(?:{sp}+on|{sp}+ref|{sp}*$)`)},
	{"paid-to", compile(`paid{sp}+to{sp}+{merchant}(?:{sp}+on|{sp}+ref|{sp}*$)`)},
	{"vpa", compile(`(?:VPA|UPI ID){sp}+([a-z0-9@._-]+)`)},
}

func matchesAny(patterns []*regexp.Regexp, s string) bool {
	for _, p := range patterns {
		if p.MatchString(s) {
			return true
		}
	}
	return false
}
