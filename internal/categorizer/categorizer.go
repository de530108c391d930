package categorizer

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"paidfor/internal/models"
	"paidfor/internal/utils"
)

// Rule maps lowercase keywords to a category
type Rule struct {
	Category models.Category `yaml:"category"`
	Keywords []string        `yaml:"keywords"`
}

// DefaultRules is used when no rules file is configured. Order matters:
// the first rule with a matching keyword wins.
var DefaultRules = []Rule{
	{models.CatRent, []string{
		"rent", "landlord", "nobroker", "nestaway", "society maintenance",
		"pg charges", "hostel",
	}},
	{models.CatLoan, []string{
		"loan", "emi payment", "emi debited", "bajaj finance", "bajaj finserv",
		"home credit", "repayment", "hdfc credila", "mortgage",
	}},
	{models.CatFood, []string{
		"swiggy", "zomato", "dominos", "pizza", "kfc", "mcdonald", "burger",
		"cafe", "restaurant", "starbucks", "chai", "bigbasket", "blinkit",
		"zepto", "dunzo", "dmart", "big bazaar", "haldiram", "barbeque",
		"eatclub", "faasos", "dineout",
	}},
	{models.CatTravel, []string{
		"uber", "olacabs", "ola cabs", "rapido", "irctc", "makemytrip", "goibibo",
		"indigo", "air india", "vistara", "akasa", "redbus", "fastag",
		"indian oil", "hpcl", "bpcl", "yatra", "cleartrip", "metro rail",
	}},
	{models.CatOffice, []string{
		"amazon web services", "aws", "google workspace", "gsuite",
		"microsoft", "zoom", "slack", "notion", "wework", "stationery",
		"github", "atlassian", "office",
	}},
}

// Categorizer suggests a category for a debit from its merchant and text
type Categorizer struct {
	rules []Rule
}

// New creates a Categorizer with DefaultRules
func New() *Categorizer {
	return NewWithRules(DefaultRules)
}

// NewWithRules creates a Categorizer with custom rules
func NewWithRules(rules []Rule) *Categorizer {
	normalized := make([]Rule, 0, len(rules))
	for _, r := range rules {
		keywords := make([]string, 0, len(r.Keywords))
		for _, k := range r.Keywords {
			if k = strings.ToLower(strings.TrimSpace(k)); k != "" {
				keywords = append(keywords, k)
			}
		}
		normalized = append(normalized, Rule{Category: r.Category, Keywords: keywords})
	}
	return &Categorizer{rules: normalized}
}

// LoadRules reads rules from a YAML list of {category, keywords} entries
func LoadRules(path string) ([]Rule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading rules file: %w", err)
	}

	var raw []struct {
		Category string   `yaml:"category"`
		Keywords []string `yaml:"keywords"`
	}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("error parsing rules file %s: %w", path, err)
	}

	rules := make([]Rule, 0, len(raw))
	for i, r := range raw {
		cat, err := models.ParseCategory(r.Category)
		if err != nil {
			return nil, fmt.Errorf("rule %d in %s: %w", i, path, err)
		}
		rules = append(rules, Rule{Category: cat, Keywords: r.Keywords})
	}
	return rules, nil
}

// FromFile returns a Categorizer for path, or the defaults when path is empty
func FromFile(path string) (*Categorizer, error) {
	if path == "" {
		return New(), nil
	}
	rules, err := LoadRules(path)
	if err != nil {
		return nil, err
	}
	return NewWithRules(rules), nil
}

// Categorize assigns a category based on merchant and message body
func (c *Categorizer) Categorize(merchant, body string) models.Category {
	if merchant == models.UnknownMerchant {
		merchant = ""
	}
	text := strings.ToLower(utils.CleanPayeeName(merchant) + " " + body)

	for _, r := range c.rules {
		if utils.Contains(text, r.Keywords...) {
			return r.Category
		}
	}

	return models.CatOther
}
