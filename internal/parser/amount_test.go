package parser

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractAmount(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		want   string
		wantOK bool
	}{
		{"debited by", "Your a/c XX1234 debited by Rs.2500.00 at Swiggy", "2500", true},
		{"thousands separator", "Your a/c XX1234 debited by Rs.2,500.00 at Swiggy", "2500", true},
		{"indian grouping", "INR 1,00,000.50 debited from a/c", "100000.5", true},
		{"rupee sign", "₹99 spent at Chai Point", "99", true},
		{"trailing period", "Your a/c debited by Rs.450.", "450", true},
		{"zero amount", "spent Rs.0.00 at Store", "", false},
		{"zero row falls through to next row", "Rs.0 debited. spent Rs.150 at X", "150", true},
		{"no-break space after marker", "Your a/c XX1234 debited by Rs.\u00a02500.00 at Swiggy", "2500", true},
		{"no-break space in fallback", "Avl bal INR\u00a01,234.00", "1234", true},
		{"no currency marker", "debited 500 from a/c", "", false},
		{"empty", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractAmount(tt.body)
			require.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.True(t, decimal.RequireFromString(tt.want).Equal(got), "got %s", got)
			}
		})
	}
}

func TestExtractAmount_SeparatorsParseIdentically(t *testing.T) {
	with, ok := ExtractAmount("debited by Rs.2,500.00")
	require.True(t, ok)
	without, ok := ExtractAmount("debited by Rs.2500.00")
	require.True(t, ok)

	assert.True(t, with.Equal(without))
	assert.True(t, decimal.NewFromInt(2500).Equal(with))
}

// The generic currency scan also catches figures that are not the debit,
// such as an available balance, when no debit row matches.
func TestExtractAmount_FallbackPicksUpBalance(t *testing.T) {
	got, ok := ExtractAmount("Card txn alert. Avl bal Rs.12,000.00")
	require.True(t, ok)
	assert.True(t, decimal.NewFromInt(12000).Equal(got))
}

func TestExtractAmount_Deterministic(t *testing.T) {
	body := "Txn of Rs.1,234.56 at Amazon on 01-Jan. Avl bal Rs.9,000"
	first, ok := ExtractAmount(body)
	require.True(t, ok)

	for i := 0; i < 10; i++ {
		again, ok := ExtractAmount(body)
		require.True(t, ok)
		assert.True(t, first.Equal(again))
	}
}

func TestParseAmount(t *testing.T) {
	_, ok := parseAmount(",")
	assert.False(t, ok)

	_, ok = parseAmount(strings.Repeat(",", 3))
	assert.False(t, ok)

	got, ok := parseAmount("1,234.")
	require.True(t, ok)
	assert.True(t, decimal.NewFromInt(1234).Equal(got))
}
