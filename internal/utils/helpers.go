package utils

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	whitespaceRun  = regexp.MustCompile(`[\s\v\p{Z}\x{FEFF}]+`)
	trailingDigits = regexp.MustCompile(`[\s\v\p{Z}\x{FEFF}]*\d+$`)
)

// payment processor prefixes seen in UPI/card merchant strings
var payeePrefixes = []string{
	"UPI-", "UPI/", "UPI ", "POS ", "POS/", "IMPS-", "IMPS/", "NEFT-", "NEFT/",
	"VPA ", "PAYU*", "RAZORPAY*", "RAZ*", "PYTM*", "PAYTM ",
}

// CollapseSpaces trims s and folds internal whitespace runs to one space
func CollapseSpaces(s string) string {
	return strings.TrimSpace(whitespaceRun.ReplaceAllString(s, " "))
}

// CleanPayeeName removes payment processor prefixes and trailing digits
func CleanPayeeName(payeeRaw string) string {
	if payeeRaw == "" {
		return ""
	}

	clean := strings.TrimSpace(payeeRaw)
	upper := strings.ToUpper(clean)
	for _, p := range payeePrefixes {
		if strings.HasPrefix(upper, p) {
			clean = strings.TrimSpace(clean[len(p):])
			break
		}
	}

	clean = trailingDigits.ReplaceAllString(clean, "")

	return strings.TrimSpace(clean)
}

// Contains checks if text contains any of the given keywords
func Contains(text string, keywords ...string) bool {
	for _, keyword := range keywords {
		if strings.Contains(text, keyword) {
			return true
		}
	}
	return false
}

// FormatAmount renders an amount with the rupee sign and Indian digit
// grouping, e.g. ₹12,34,567.5. At most three fraction digits are kept.
func FormatAmount(amount decimal.Decimal) string {
	s := amount.Round(3).String()

	sign := ""
	if strings.HasPrefix(s, "-") {
		sign = "-"
		s = s[1:]
	}

	intPart, frac, hasFrac := strings.Cut(s, ".")
	out := "₹" + sign + groupIndian(intPart)
	if hasFrac {
		out += "." + frac
	}
	return out
}

// groupIndian groups the last three digits, then every two
func groupIndian(digits string) string {
	if len(digits) <= 3 {
		return digits
	}

	head, tail := digits[:len(digits)-3], digits[len(digits)-3:]
	var groups []string
	for len(head) > 2 {
		groups = append([]string{head[len(head)-2:]}, groups...)
		head = head[:len(head)-2]
	}
	if head != "" {
		groups = append([]string{head}, groups...)
	}
	return strings.Join(append(groups, tail), ",")
}
