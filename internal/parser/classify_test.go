package parser

import (
	"sync"
	"testing"

	"paidfor/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify_Scenarios(t *testing.T) {
	tests := []struct {
		name         string
		msg          models.RawMessage
		wantOutcome  Outcome
		wantAmount   int64
		wantMerchant string
	}{
		{
			name:         "card debit",
			msg:          models.RawMessage{Sender: "HDFCBK", Body: "Your a/c XX1234 debited by Rs.2500.00 at Swiggy on 29-Dec-24", ReceivedAt: 1735459200000},
			wantOutcome:  OutcomeTransaction,
			wantAmount:   2500,
			wantMerchant: "Swiggy",
		},
		{
			name:        "otp",
			msg:         models.RawMessage{Sender: "VM-ICICIB", Body: "456789 is your OTP for login"},
			wantOutcome: OutcomeOTP,
		},
		{
			name:        "credit",
			msg:         models.RawMessage{Sender: "SBI", Body: "Your account credited with Rs.5000.00"},
			wantOutcome: OutcomeCredit,
		},
		{
			name:         "upi transfer",
			msg:          models.RawMessage{Sender: "AXISBK", Body: "Rs.25000.00 transfer to UPI ID landlord@upi"},
			wantOutcome:  OutcomeTransaction,
			wantAmount:   25000,
			wantMerchant: "landlord@upi",
		},
		{
			name:        "unknown sender",
			msg:         models.RawMessage{Sender: "RANDOMCO", Body: "Your a/c XX1234 debited by Rs.2500.00 at Swiggy on 29-Dec-24"},
			wantOutcome: OutcomeNotBankSender,
		},
		{
			name:        "zero amount",
			msg:         models.RawMessage{Sender: "KOTAK", Body: "spent Rs.0.00 at Store"},
			wantOutcome: OutcomeNoAmount,
		},
		{
			name:        "no debit phrasing",
			msg:         models.RawMessage{Sender: "HDFCBK", Body: "Your statement for Dec is ready. Min due Rs.500"},
			wantOutcome: OutcomeNotDebit,
		},
		{
			name:        "empty sender",
			msg:         models.RawMessage{Body: "debited by Rs.100 at Cafe"},
			wantOutcome: OutcomeNotBankSender,
		},
		{
			name:        "empty body",
			msg:         models.RawMessage{Sender: "HDFCBK"},
			wantOutcome: OutcomeNotDebit,
		},
		{
			name:        "empty message",
			msg:         models.RawMessage{},
			wantOutcome: OutcomeNotBankSender,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx, outcome := Evaluate(tt.msg)
			assert.Equal(t, tt.wantOutcome, outcome, outcome.String())

			got, ok := Classify(tt.msg)
			require.Equal(t, tt.wantOutcome == OutcomeTransaction, ok)
			if !ok {
				assert.Equal(t, models.ParsedTransaction{}, got)
				return
			}

			assert.True(t, decimal.NewFromInt(tt.wantAmount).Equal(tx.Amount), "amount %s", tx.Amount)
			assert.Equal(t, tt.wantMerchant, tx.Merchant)
			assert.Equal(t, tt.msg.ReceivedAt, tx.Timestamp)
			assert.Equal(t, tt.msg.Body, tx.RawText)
		})
	}
}

var debitBodies = []string{
	"Your a/c XX1234 debited by Rs.2500.00 at Swiggy on 29-Dec-24",
	"Rs.25000.00 transfer to UPI ID landlord@upi",
	"Purchase of INR 1,499 at Amazon",
	"spent Rs.300 at KFC. Avl bal Rs.200",
}

func TestClassify_NonBankSenderAlwaysRejected(t *testing.T) {
	for _, sender := range []string{"RANDOMCO", "Mom", "+919812345678", "AMAZON", ""} {
		for _, body := range debitBodies {
			_, ok := Classify(models.RawMessage{Sender: sender, Body: body})
			assert.False(t, ok, "%s: %s", sender, body)
		}
	}
}

func TestClassify_OTPVetoesDebit(t *testing.T) {
	for _, body := range debitBodies {
		msg := models.RawMessage{Sender: "HDFCBK", Body: body + " OTP 482913, do not share"}
		_, outcome := Evaluate(msg)
		assert.Equal(t, OutcomeOTP, outcome, body)
	}
}

func TestClassify_CreditVetoesDebit(t *testing.T) {
	for _, body := range debitBodies {
		msg := models.RawMessage{Sender: "VM-HDFCBK", Body: body + ". Cashback will be credited"}
		_, outcome := Evaluate(msg)
		assert.Equal(t, OutcomeCredit, outcome, body)
	}
}

// A zero debit followed by a balance figure is reported with the balance as
// the amount, because the generic currency scan takes over.
func TestClassify_FallbackReportsBalance(t *testing.T) {
	tx, ok := Classify(models.RawMessage{Sender: "HDFCBK", Body: "Rs.0.00 debited. Avl bal Rs.5,000"})
	require.True(t, ok)
	assert.True(t, decimal.NewFromInt(5000).Equal(tx.Amount))
}

// Bank gateways often put U+00A0 between the currency marker and the figure
// or around the payee.
func TestEvaluate_UnicodeSpaces(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		amount   int64
		merchant string
	}{
		{"after currency marker", "Your a/c XX1234 debited by Rs.\u00a02500.00 at Swiggy on 29-Dec-24", 2500, "Swiggy"},
		{"before merchant", "Your a/c XX1234 debited by Rs.2500.00 at\u00a0Swiggy on 29-Dec-24", 2500, "Swiggy"},
		{"inside merchant", "Your a/c XX1234 debited by Rs.2500.00 at Swiggy\u00a0Instamart on 29-Dec-24", 2500, "Swiggy Instamart"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx, outcome := Evaluate(models.RawMessage{Sender: "HDFCBK", Body: tt.body})
			require.Equal(t, OutcomeTransaction, outcome)
			assert.True(t, decimal.NewFromInt(tt.amount).Equal(tx.Amount), "got %s", tx.Amount)
			assert.Equal(t, tt.merchant, tx.Merchant)
		})
	}
}

func TestClassify_ConcurrentCallsAgree(t *testing.T) {
	msg := models.RawMessage{Sender: "HDFCBK", Body: debitBodies[0], ReceivedAt: 42}
	want, ok := Classify(msg)
	require.True(t, ok)

	var wg sync.WaitGroup
	results := make([]models.ParsedTransaction, 32)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _ = Classify(msg)
		}(i)
	}
	wg.Wait()

	for _, got := range results {
		assert.True(t, want.Amount.Equal(got.Amount))
		assert.Equal(t, want.Merchant, got.Merchant)
		assert.Equal(t, want.Timestamp, got.Timestamp)
	}
}

func TestOutcome_String(t *testing.T) {
	assert.Equal(t, "transaction", OutcomeTransaction.String())
	assert.Equal(t, "no_amount", OutcomeNoAmount.String())
	assert.Equal(t, "unknown", Outcome(99).String())
}
