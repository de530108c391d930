package parser

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ExtractAmount returns the debited amount in body. Debit rows are tried in
// priority order; a row whose figure is zero or unparsable is skipped. When
// no row yields an amount, the first positive currency figure anywhere in
// the body is used.
func ExtractAmount(body string) (decimal.Decimal, bool) {
	for _, r := range debitRules {
		m := r.re.FindStringSubmatch(body)
		if m == nil {
			continue
		}
		if amount, ok := parseAmount(m[r.re.SubexpIndex("amount")]); ok {
			return amount, true
		}
	}

	idx := anyAmount.SubexpIndex("amount")
	for _, m := range anyAmount.FindAllStringSubmatch(body, -1) {
		if amount, ok := parseAmount(m[idx]); ok {
			return amount, true
		}
	}

	return decimal.Decimal{}, false
}

// parseAmount strips thousands separators and accepts only positive values.
func parseAmount(raw string) (decimal.Decimal, bool) {
	s := strings.TrimSuffix(strings.ReplaceAll(raw, ",", ""), ".")
	if s == "" {
		return decimal.Decimal{}, false
	}

	amount, err := decimal.NewFromString(s)
	if err != nil || !amount.IsPositive() {
		return decimal.Decimal{}, false
	}
	return amount, true
}
