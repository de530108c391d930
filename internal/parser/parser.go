package parser

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"paidfor/internal/logging"
	"paidfor/internal/models"
)

// BackupError is returned when an SMS backup cannot be read or decoded
type BackupError struct {
	Path string
	Err  error
}

func (e *BackupError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("sms backup: %v", e.Err)
	}
	return fmt.Sprintf("sms backup %s: %v", e.Path, e.Err)
}

func (e *BackupError) Unwrap() error {
	return e.Err
}

// Filter narrows which backup messages are classified
type Filter struct {
	Sender string    // exact sender address, empty for all
	From   time.Time // zero for no lower bound
}

// ParseStartDate parses a YYYY-MM-DD start date; empty input yields the zero time
func ParseStartDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date format (use YYYY-MM-DD): %w", err)
	}
	return t, nil
}

// Parser classifies messages and reads SMS backup files
type Parser struct {
	logger logging.Logger
}

// New creates a new Parser instance
func New(logger logging.Logger) *Parser {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Parser{logger: logger}
}

// Classify runs Evaluate and logs the outcome at debug level
func (p *Parser) Classify(msg models.RawMessage) (models.ParsedTransaction, bool) {
	tx, outcome := Evaluate(msg)
	fields := []logging.Field{
		logging.F(logging.FieldSender, msg.Sender),
		logging.F(logging.FieldOutcome, outcome.String()),
	}
	if outcome == OutcomeTransaction {
		fields = append(fields,
			logging.F(logging.FieldAmount, tx.Amount.String()),
			logging.F(logging.FieldMerchant, tx.Merchant))
	}
	p.logger.Debug("Classified message", fields...)
	return tx, outcome == OutcomeTransaction
}

// ParseFile reads an SMS Backup & Restore XML file and returns the debits in it
func (p *Parser) ParseFile(path string, filter Filter) ([]models.ParsedTransaction, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &BackupError{Path: path, Err: err}
	}
	defer f.Close()

	txs, err := p.ParseReader(f, filter)
	if err != nil {
		var be *BackupError
		if errors.As(err, &be) {
			be.Path = path
		}
		return nil, err
	}
	return txs, nil
}

// ParseReader decodes a backup document from r. Duplicate messages (same
// date, address and body) are classified once.
func (p *Parser) ParseReader(r io.Reader, filter Filter) ([]models.ParsedTransaction, error) {
	var backup models.SMSBackup
	if err := xml.NewDecoder(r).Decode(&backup); err != nil {
		return nil, &BackupError{Err: fmt.Errorf("error parsing XML: %w", err)}
	}

	seen := make(map[string]bool)
	var txs []models.ParsedTransaction

	for _, sms := range backup.SMS {
		if filter.Sender != "" && sms.Address != filter.Sender {
			continue
		}

		signature := fmt.Sprintf("%s|%s|%s", sms.Date, sms.Address, sms.Body)
		if seen[signature] {
			continue
		}
		seen[signature] = true

		dateMs, err := strconv.ParseInt(sms.Date, 10, 64)
		if err != nil {
			p.logger.Warn("Skipping message with invalid date",
				logging.F(logging.FieldSender, sms.Address),
				logging.F(logging.FieldReason, err.Error()))
			continue
		}

		if !filter.From.IsZero() && time.UnixMilli(dateMs).Before(filter.From) {
			continue
		}

		tx, ok := p.Classify(models.RawMessage{Sender: sms.Address, Body: sms.Body, ReceivedAt: dateMs})
		if ok {
			txs = append(txs, tx)
		}
	}

	p.logger.Info("Parsed SMS backup",
		logging.F(logging.FieldMessages, len(backup.SMS)),
		logging.F(logging.FieldCount, len(txs)))

	return txs, nil
}
