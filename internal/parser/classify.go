package parser

import "paidfor/internal/models"

// Outcome is the result of running a message through the gate sequence.
// Every non-transaction outcome is an expected filtering result, not an
// error.
type Outcome int

const (
	OutcomeTransaction Outcome = iota
	OutcomeNotBankSender
	OutcomeOTP
	OutcomeCredit
	OutcomeNotDebit
	OutcomeNoAmount
)

func (o Outcome) String() string {
	switch o {
	case OutcomeTransaction:
		return "transaction"
	case OutcomeNotBankSender:
		return "not_bank_sender"
	case OutcomeOTP:
		return "otp"
	case OutcomeCredit:
		return "credit"
	case OutcomeNotDebit:
		return "not_debit"
	case OutcomeNoAmount:
		return "no_amount"
	default:
		return "unknown"
	}
}

// Evaluate runs the gates in order (sender, OTP, credit, debit phrasing,
// amount) and stops at the first veto. The ParsedTransaction is only
// meaningful when the outcome is OutcomeTransaction.
func Evaluate(msg models.RawMessage) (models.ParsedTransaction, Outcome) {
	switch {
	case !IsBankSender(msg.Sender):
		return models.ParsedTransaction{}, OutcomeNotBankSender
	case IsOTPMessage(msg.Body):
		return models.ParsedTransaction{}, OutcomeOTP
	case IsCreditMessage(msg.Body):
		return models.ParsedTransaction{}, OutcomeCredit
	case !IsDebit(msg.Body):
		return models.ParsedTransaction{}, OutcomeNotDebit
	}

	amount, ok := ExtractAmount(msg.Body)
	if !ok {
		return models.ParsedTransaction{}, OutcomeNoAmount
	}

	return models.ParsedTransaction{
		Amount:    amount,
		Merchant:  ExtractMerchant(msg.Body),
		Timestamp: msg.ReceivedAt,
		RawText:   msg.Body,
	}, OutcomeTransaction
}

// Classify returns the debit described by msg, or false when msg is not a
// bank debit notification. It is pure and safe for concurrent use.
func Classify(msg models.RawMessage) (models.ParsedTransaction, bool) {
	tx, outcome := Evaluate(msg)
	return tx, outcome == OutcomeTransaction
}
