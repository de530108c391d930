// Package notify stores every classified debit and decides whether the user
// should be prompted to annotate it.
package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"paidfor/internal/categorizer"
	"paidfor/internal/logging"
	"paidfor/internal/models"
	"paidfor/internal/utils"
)

// Reasons a stored transaction did not produce a notification.
const (
	ReasonBelowMinimum = "below_min_amount"
	ReasonDebounced    = "merchant_debounced"
)

// Notification is the prompt shown for a new debit.
type Notification struct {
	TransactionID string
	Title         string
	Body          string
}

// Notifier delivers notifications.
type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}

// Store is the part of store.Store the handler needs.
type Store interface {
	Save(ctx context.Context, tx models.Transaction) (models.Transaction, error)
	TouchMerchant(ctx context.Context, merchant string, now time.Time, window time.Duration) (bool, error)
}

// Policy holds the notification thresholds.
type Policy struct {
	MinAmount decimal.Decimal
	Debounce  time.Duration
}

// DefaultPolicy notifies for debits of at least 200, once per merchant every
// five minutes.
func DefaultPolicy() Policy {
	return Policy{
		MinAmount: decimal.NewFromInt(200),
		Debounce:  5 * time.Minute,
	}
}

// Result describes what Handle did with a debit.
type Result struct {
	Transaction models.Transaction
	Notified    bool
	Reason      string // empty when Notified
}

// Handler applies Policy to parsed debits.
type Handler struct {
	store       Store
	notifier    Notifier
	categorizer *categorizer.Categorizer
	policy      Policy
	logger      logging.Logger
	now         func() time.Time
}

// Option configures a Handler.
type Option func(*Handler)

// WithClock overrides the wall clock used for merchant debouncing.
func WithClock(now func() time.Time) Option {
	return func(h *Handler) { h.now = now }
}

// WithCategorizer attaches a category suggestion to each stored debit.
func WithCategorizer(c *categorizer.Categorizer) Option {
	return func(h *Handler) { h.categorizer = c }
}

// NewHandler creates a Handler.
func NewHandler(st Store, notifier Notifier, policy Policy, logger logging.Logger, opts ...Option) *Handler {
	if logger == nil {
		logger = logging.Discard()
	}
	h := &Handler{
		store:    st,
		notifier: notifier,
		policy:   policy,
		logger:   logger,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Handle stores parsed and notifies when the amount reaches the minimum and
// the merchant has not been notified within the debounce window. Small
// debits do not touch the merchant ledger, and the ledger is only updated
// once the transaction is saved.
func (h *Handler) Handle(ctx context.Context, parsed models.ParsedTransaction) (Result, error) {
	log := h.logger.WithFields(
		logging.F(logging.FieldMerchant, parsed.Merchant),
		logging.F(logging.FieldAmount, parsed.Amount.String()),
	)

	tx := models.NewTransaction("", parsed)
	if h.categorizer != nil {
		tx.Category = h.categorizer.Categorize(parsed.Merchant, parsed.RawText)
	}

	saved, err := h.store.Save(ctx, tx)
	if err != nil {
		return Result{}, fmt.Errorf("failed to save transaction: %w", err)
	}
	log = log.WithField(logging.FieldTransactionID, saved.ID)

	reason := ""
	if parsed.Amount.LessThan(h.policy.MinAmount) {
		reason = ReasonBelowMinimum
	} else {
		ok, err := h.store.TouchMerchant(ctx, parsed.Merchant, h.now(), h.policy.Debounce)
		if err != nil {
			return Result{Transaction: saved}, fmt.Errorf("failed to update merchant ledger: %w", err)
		}
		if !ok {
			reason = ReasonDebounced
		}
	}

	if reason != "" {
		log.Debug("Stored transaction without notification", logging.F(logging.FieldReason, reason))
		return Result{Transaction: saved, Reason: reason}, nil
	}

	if err := h.notifier.Notify(ctx, Build(saved)); err != nil {
		log.WithError(err).Error("Failed to deliver notification")
		return Result{Transaction: saved}, fmt.Errorf("failed to notify: %w", err)
	}

	log.Info("Notified about new debit")
	return Result{Transaction: saved, Notified: true}, nil
}

// Build renders the notification for tx.
func Build(tx models.Transaction) Notification {
	body := "Want to note what this was for?"
	if tx.Merchant != "" && tx.Merchant != models.UnknownMerchant {
		body += fmt.Sprintf(" (%s)", tx.Merchant)
	}
	return Notification{
		TransactionID: tx.ID,
		Title:         "Paid " + utils.FormatAmount(tx.Amount),
		Body:          body,
	}
}

// LogNotifier delivers notifications to a logger.
type LogNotifier struct {
	logger logging.Logger
}

// NewLogNotifier creates a LogNotifier.
func NewLogNotifier(logger logging.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Notify(ctx context.Context, note Notification) error {
	n.logger.Info(note.Title,
		logging.F(logging.FieldTransactionID, note.TransactionID),
		logging.F(logging.FieldBody, note.Body))
	return nil
}
