package writer

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/gocarina/gocsv"

	"paidfor/internal/models"
)

// DateLayout is the timestamp format used in exported files
const DateLayout = "2006-01-02 15:04:05"

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

type csvRow struct {
	ID       string `csv:"id"`
	Date     string `csv:"date"`
	Merchant string `csv:"merchant"`
	Amount   string `csv:"amount"`
	Category string `csv:"category"`
	Note     string `csv:"note"`
	Raw      string `csv:"raw"`
}

// Writer handles CSV export of stored transactions
type Writer struct {
	outputDir string
	delimiter rune
	location  *time.Location
}

// New creates a new Writer instance
func New(outputDir string, delimiter rune) *Writer {
	return &Writer{
		outputDir: outputDir,
		delimiter: delimiter,
		location:  time.Local,
	}
}

// Write exports transactions, oldest first, to <outputDir>/<name>.csv and
// returns the file path
func (w *Writer) Write(name string, transactions []models.Transaction) (string, error) {
	if err := os.MkdirAll(w.outputDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	filename := filepath.Join(w.outputDir, name+".csv")
	file, err := os.Create(filename)
	if err != nil {
		return "", fmt.Errorf("error creating %s: %w", filename, err)
	}
	defer file.Close()

	if _, err := file.Write(utf8BOM); err != nil {
		return "", fmt.Errorf("error writing BOM to %s: %w", filename, err)
	}

	if err := w.WriteTo(file, transactions); err != nil {
		return "", fmt.Errorf("error writing %s: %w", filename, err)
	}

	return filename, nil
}

// WriteTo writes transactions as CSV with a header row, oldest first
func (w *Writer) WriteTo(out io.Writer, transactions []models.Transaction) error {
	sorted := make([]models.Transaction, len(transactions))
	copy(sorted, transactions)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp < sorted[j].Timestamp
	})

	rows := make([]csvRow, 0, len(sorted))
	for _, tx := range sorted {
		rows = append(rows, csvRow{
			ID:       tx.ID,
			Date:     time.UnixMilli(tx.Timestamp).In(w.location).Format(DateLayout),
			Merchant: tx.Merchant,
			Amount:   tx.Amount.StringFixed(2),
			Category: string(tx.Category),
			Note:     tx.Note,
			Raw:      tx.RawText,
		})
	}

	csvWriter := csv.NewWriter(out)
	csvWriter.Comma = w.delimiter

	if err := gocsv.MarshalCSV(rows, gocsv.NewSafeCSVWriter(csvWriter)); err != nil {
		return fmt.Errorf("error encoding transactions: %w", err)
	}

	csvWriter.Flush()
	return csvWriter.Error()
}
