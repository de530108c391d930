package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"paidfor/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tx(merchant string, amount int64) models.Transaction {
	return models.Transaction{
		Amount:    decimal.NewFromInt(amount),
		Merchant:  merchant,
		Timestamp: 1735459200000,
		RawText:   "debited at " + merchant,
	}
}

func TestStore_SaveNewestFirst(t *testing.T) {
	ctx := context.Background()
	s := NewMemory()

	first, err := s.Save(ctx, tx("Swiggy", 250))
	require.NoError(t, err)
	assert.NotEmpty(t, first.ID)

	second, err := s.Save(ctx, tx("Uber", 320))
	require.NoError(t, err)

	all, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, second.ID, all[0].ID)
	assert.Equal(t, first.ID, all[1].ID)

	_, err = s.Save(ctx, models.Transaction{ID: first.ID})
	assert.Error(t, err)
}

func TestStore_GetUpdateDelete(t *testing.T) {
	ctx := context.Background()
	s := NewMemory()

	saved, err := s.Save(ctx, tx("Swiggy", 250))
	require.NoError(t, err)

	note := "team lunch"
	cat := models.CatFood
	updated, err := s.Update(ctx, saved.ID, Patch{Note: &note, Category: &cat})
	require.NoError(t, err)
	assert.Equal(t, note, updated.Note)
	assert.Equal(t, models.CatFood, updated.Category)

	got, err := s.Get(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, "team lunch", got.Note)

	// nil fields are left alone
	updated, err = s.Update(ctx, saved.ID, Patch{})
	require.NoError(t, err)
	assert.Equal(t, "team lunch", updated.Note)

	require.NoError(t, s.Delete(ctx, saved.ID))
	_, err = s.Get(ctx, saved.ID)
	assert.True(t, errors.Is(err, ErrNotFound))

	assert.True(t, errors.Is(s.Delete(ctx, saved.ID), ErrNotFound))
	_, err = s.Update(ctx, "missing", Patch{})
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestStore_ListReturnsCopy(t *testing.T) {
	ctx := context.Background()
	s := NewMemory()
	_, err := s.Save(ctx, tx("Swiggy", 250))
	require.NoError(t, err)

	all, err := s.List(ctx)
	require.NoError(t, err)
	all[0].Merchant = "changed"

	again, err := s.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Swiggy", again[0].Merchant)
}

func TestStore_Search(t *testing.T) {
	ctx := context.Background()
	s := NewMemory()

	swiggy, err := s.Save(ctx, tx("Swiggy", 250))
	require.NoError(t, err)
	_, err = s.Save(ctx, tx("Uber", 320))
	require.NoError(t, err)
	landlord, err := s.Save(ctx, tx("landlord@upi", 25000))
	require.NoError(t, err)

	note := "December"
	rent := models.CatRent
	_, err = s.Update(ctx, landlord.ID, Patch{Note: &note, Category: &rent})
	require.NoError(t, err)

	tests := []struct {
		name   string
		query  string
		amount decimal.Decimal
		want   int
	}{
		{"empty matches all", "", decimal.Zero, 3},
		{"merchant case-insensitive", "SWIG", decimal.Zero, 1},
		{"note", "decem", decimal.Zero, 1},
		{"category", "rent", decimal.Zero, 1},
		{"amount only", "", decimal.NewFromInt(320), 1},
		{"text and amount", "swiggy", decimal.NewFromInt(320), 0},
		{"no match", "zomato", decimal.Zero, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.Search(ctx, tt.query, tt.amount)
			require.NoError(t, err)
			assert.Len(t, got, tt.want)
		})
	}

	got, err := s.Search(ctx, "", decimal.RequireFromString("250.00"))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, swiggy.ID, got[0].ID)
}

func TestStore_TouchMerchant(t *testing.T) {
	ctx := context.Background()
	s := NewMemory()
	now := time.UnixMilli(1735459200000)
	window := 5 * time.Minute

	ok, err := s.TouchMerchant(ctx, "Swiggy", now, window)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.TouchMerchant(ctx, "SWIGGY", now.Add(4*time.Minute), window)
	require.NoError(t, err)
	assert.False(t, ok, "same merchant inside the window")

	ok, err = s.TouchMerchant(ctx, "Uber", now.Add(time.Minute), window)
	require.NoError(t, err)
	assert.True(t, ok, "other merchant")

	ok, err = s.TouchMerchant(ctx, "swiggy", now.Add(5*time.Minute), window)
	require.NoError(t, err)
	assert.True(t, ok, "window elapsed")
}

func TestStore_PersistsAcrossOpen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "data", "transactions.json")

	s, err := Open(path)
	require.NoError(t, err)
	assert.Equal(t, path, s.Path())

	saved, err := s.Save(ctx, tx("Swiggy", 250))
	require.NoError(t, err)
	_, err = s.TouchMerchant(ctx, "Swiggy", time.UnixMilli(1000), time.Minute)
	require.NoError(t, err)

	reopened, err := Open(path)
	require.NoError(t, err)

	got, err := reopened.Get(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, "Swiggy", got.Merchant)
	assert.True(t, decimal.NewFromInt(250).Equal(got.Amount))

	ok, err := reopened.TouchMerchant(ctx, "swiggy", time.UnixMilli(2000), time.Minute)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, reopened.Clear(ctx))
	cleared, err := Open(path)
	require.NoError(t, err)
	all, err := cleared.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestOpen_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "transactions.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	_, err := Open(path)
	assert.Error(t, err)
}

func TestStore_ConcurrentSaves(t *testing.T) {
	ctx := context.Background()
	s := NewMemory()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := s.Save(ctx, tx("Shop", int64(i+1)))
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	all, err := s.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 50)
}
