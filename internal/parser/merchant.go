package parser

import (
	"strings"
	"unicode/utf8"

	"paidfor/internal/models"
	"paidfor/internal/utils"
)

const (
	minMerchantLen = 2
	maxMerchantLen = 50
)

// ExtractMerchant returns the payee named in body, or models.UnknownMerchant.
// Only the first match of each rule is considered; a trimmed capture outside
// (minMerchantLen, maxMerchantLen) falls through to the next rule.
//
// The stop words "on", "ref" and "txn" also end the capture when they start
// a word inside a merchant name ("Swiggy online" yields "Swiggy").
func ExtractMerchant(body string) string {
	for _, r := range merchantRules {
		m := r.re.FindStringSubmatch(body)
		if len(m) < 2 {
			continue
		}

		merchant := strings.TrimSpace(m[1])
		if n := utf8.RuneCountInString(merchant); n > minMerchantLen && n < maxMerchantLen {
			return utils.CollapseSpaces(merchant)
		}
	}
	return models.UnknownMerchant
}
