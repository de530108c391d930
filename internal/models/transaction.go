package models

import (
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// UnknownMerchant is used when no payee could be read from the message body
const UnknownMerchant = "Unknown"

// Category is a user-facing spending label attached to a transaction
type Category string

// Category constants
const (
	CatRent   Category = "Rent"
	CatFood   Category = "Food"
	CatTravel Category = "Travel"
	CatLoan   Category = "Loan"
	CatOffice Category = "Office"
	CatOther  Category = "Other"
)

var categories = []Category{CatRent, CatFood, CatTravel, CatLoan, CatOffice, CatOther}

// Categories returns the selectable categories in display order
func Categories() []Category {
	out := make([]Category, len(categories))
	copy(out, categories)
	return out
}

// ParseCategory resolves a category name case-insensitively
func ParseCategory(s string) (Category, error) {
	for _, c := range categories {
		if strings.EqualFold(string(c), strings.TrimSpace(s)) {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown category %q", s)
}

// RawMessage is a single received SMS, already decoded to text
type RawMessage struct {
	Sender     string `json:"sender"`
	Body       string `json:"body"`
	ReceivedAt int64  `json:"receivedAt"` // ms since epoch
}

// ParsedTransaction is a bank debit recognised in a RawMessage
type ParsedTransaction struct {
	Amount    decimal.Decimal `json:"amount"`
	Merchant  string          `json:"merchant"`
	Timestamp int64           `json:"timestamp"`
	RawText   string          `json:"rawText"`
}

// Transaction is a stored debit with the user's annotations
type Transaction struct {
	ID        string          `json:"id"`
	Amount    decimal.Decimal `json:"amount"`
	Merchant  string          `json:"merchant"`
	Timestamp int64           `json:"timestamp"`
	RawText   string          `json:"rawText"`
	Note      string          `json:"note,omitempty"`
	Category  Category        `json:"category,omitempty"`
}

// NewTransaction wraps a parsed debit for storage
func NewTransaction(id string, p ParsedTransaction) Transaction {
	return Transaction{
		ID:        id,
		Amount:    p.Amount,
		Merchant:  p.Merchant,
		Timestamp: p.Timestamp,
		RawText:   p.RawText,
	}
}

// SMS represents a single SMS message from the XML backup
type SMS struct {
	Address string `xml:"address,attr"`
	Body    string `xml:"body,attr"`
	Date    string `xml:"date,attr"`
}

// SMSBackup represents the root of the XML document
type SMSBackup struct {
	XMLName xml.Name `xml:"smses"`
	SMS     []SMS    `xml:"sms"`
}
