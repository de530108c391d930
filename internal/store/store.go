// Package store keeps classified transactions, newest first, together with
// the per-merchant notification ledger. State lives in memory and is
// mirrored to a JSON file when a path is given.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"paidfor/internal/models"
)

// ErrNotFound is returned when no transaction has the requested id.
var ErrNotFound = errors.New("transaction not found")

// Patch holds the user-editable fields of a transaction. Nil fields are left
// unchanged.
type Patch struct {
	Note     *string          `json:"note,omitempty"`
	Category *models.Category `json:"category,omitempty"`
}

type snapshot struct {
	Transactions      []models.Transaction `json:"transactions"`
	LastMerchantTimes map[string]int64     `json:"lastMerchantTimes"`
}

// Store is safe for concurrent use.
type Store struct {
	mu            sync.RWMutex
	path          string
	transactions  []models.Transaction
	merchantTimes map[string]int64
}

// NewID returns a new transaction id.
func NewID() string {
	return uuid.NewString()
}

// NewMemory returns a Store that is never written to disk.
func NewMemory() *Store {
	return &Store{merchantTimes: make(map[string]int64)}
}

// Open loads the store at path, starting empty when the file does not exist.
// An empty path behaves like NewMemory.
func Open(path string) (*Store, error) {
	s := NewMemory()
	s.path = path
	if path == "" {
		return s, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error reading store %s: %w", path, err)
	}

	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("error decoding store %s: %w", path, err)
	}
	s.transactions = snap.Transactions
	if snap.LastMerchantTimes != nil {
		s.merchantTimes = snap.LastMerchantTimes
	}
	return s, nil
}

// Path returns the backing file, empty for memory-only stores.
func (s *Store) Path() string {
	return s.path
}

// Save prepends tx, assigning an id when it has none.
func (s *Store) Save(ctx context.Context, tx models.Transaction) (models.Transaction, error) {
	if tx.ID == "" {
		tx.ID = NewID()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.transactions {
		if existing.ID == tx.ID {
			return models.Transaction{}, fmt.Errorf("duplicate transaction id %s", tx.ID)
		}
	}

	txs := make([]models.Transaction, 0, len(s.transactions)+1)
	txs = append(txs, tx)
	txs = append(txs, s.transactions...)

	if err := s.commit(txs, s.merchantTimes); err != nil {
		return models.Transaction{}, err
	}
	return tx, nil
}

// Get returns the transaction with id.
func (s *Store) Get(ctx context.Context, id string) (models.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if i := s.indexOf(id); i >= 0 {
		return s.transactions[i], nil
	}
	return models.Transaction{}, fmt.Errorf("%w: %s", ErrNotFound, id)
}

// Update applies patch to the transaction with id and returns the result.
func (s *Store) Update(ctx context.Context, id string, patch Patch) (models.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return models.Transaction{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	txs := s.cloneTransactions()
	if patch.Note != nil {
		txs[i].Note = *patch.Note
	}
	if patch.Category != nil {
		txs[i].Category = *patch.Category
	}

	if err := s.commit(txs, s.merchantTimes); err != nil {
		return models.Transaction{}, err
	}
	return txs[i], nil
}

// Delete removes the transaction with id.
func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	txs := make([]models.Transaction, 0, len(s.transactions)-1)
	txs = append(txs, s.transactions[:i]...)
	txs = append(txs, s.transactions[i+1:]...)
	return s.commit(txs, s.merchantTimes)
}

// Clear drops all transactions and the merchant ledger.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.commit(nil, make(map[string]int64))
}

// List returns all transactions, newest first.
func (s *Store) List(ctx context.Context) ([]models.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cloneTransactions(), nil
}

// Search returns transactions whose merchant, note or category contains
// query (case-insensitive) and, when amount is non-zero, whose amount equals
// it. An empty query matches everything.
func (s *Store) Search(ctx context.Context, query string, amount decimal.Decimal) ([]models.Transaction, error) {
	q := strings.ToLower(strings.TrimSpace(query))

	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.Transaction
	for _, tx := range s.transactions {
		matchesText := q == "" ||
			strings.Contains(strings.ToLower(tx.Merchant), q) ||
			strings.Contains(strings.ToLower(tx.Note), q) ||
			strings.Contains(strings.ToLower(string(tx.Category)), q)
		matchesAmount := amount.IsZero() || tx.Amount.Equal(amount)

		if matchesText && matchesAmount {
			out = append(out, tx)
		}
	}
	return out, nil
}

// TouchMerchant reports whether merchant was last seen at least window ago
// (or never). When it was, now is recorded as the merchant's last time.
func (s *Store) TouchMerchant(ctx context.Context, merchant string, now time.Time, window time.Duration) (bool, error) {
	key := strings.ToLower(merchant)

	s.mu.Lock()
	defer s.mu.Unlock()

	if last, ok := s.merchantTimes[key]; ok && now.UnixMilli()-last < window.Milliseconds() {
		return false, nil
	}

	times := make(map[string]int64, len(s.merchantTimes)+1)
	for k, v := range s.merchantTimes {
		times[k] = v
	}
	times[key] = now.UnixMilli()

	if err := s.commit(s.transactions, times); err != nil {
		return false, err
	}
	return true, nil
}

func (s *Store) indexOf(id string) int {
	for i, tx := range s.transactions {
		if tx.ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) cloneTransactions() []models.Transaction {
	out := make([]models.Transaction, len(s.transactions))
	copy(out, s.transactions)
	return out
}

// commit persists the new state and then swaps it in. Callers hold s.mu.
func (s *Store) commit(txs []models.Transaction, times map[string]int64) error {
	if s.path != "" {
		if err := writeSnapshot(s.path, snapshot{Transactions: txs, LastMerchantTimes: times}); err != nil {
			return err
		}
	}
	s.transactions = txs
	s.merchantTimes = times
	return nil
}

func writeSnapshot(path string, snap snapshot) error {
	if snap.Transactions == nil {
		snap.Transactions = []models.Transaction{}
	}
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("error encoding store: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("error creating store directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".paidfor-*.json")
	if err != nil {
		return fmt.Errorf("error creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("error writing store: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("error closing store: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("error replacing store %s: %w", path, err)
	}
	return nil
}
