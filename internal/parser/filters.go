package parser

// IsBankSender reports whether sender looks like a bank's transactional
// sender id.
func IsBankSender(sender string) bool {
	return matchesAny(bankSenderPatterns, sender)
}

// IsOTPMessage reports whether body is a one-time password or verification
// code message.
func IsOTPMessage(body string) bool {
	return matchesAny(otpPatterns, body)
}

// IsCreditMessage reports whether body talks about money coming in.
func IsCreditMessage(body string) bool {
	return matchesAny(creditPatterns, body)
}

// IsDebit reports whether body matches any known debit phrasing.
func IsDebit(body string) bool {
	for _, r := range debitRules {
		if r.re.MatchString(body) {
			return true
		}
	}
	return false
}
