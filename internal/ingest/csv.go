package ingest

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/shopsight/segmentation-backend/internal/domain/purchase"
)

// Column headers of the purchase CSV export
const (
	headerCustomerID    = "顧客ID"
	headerAmount        = "購入金額"
	headerDate          = "購入日"
	headerRegion        = "地域"
	headerCategory      = "購入カテゴリー"
	headerGender        = "性別"
	headerAge           = "年齢"
	headerPaymentMethod = "支払方法"
)

const csvDateLayout = "2006-01-02"

// requiredHeaders must be present; the attribute columns are optional
var requiredHeaders = []string{headerCustomerID, headerAmount, headerDate}

// CSVSource reads purchases from a CSV file in the purchase export shape.
// Columns are located by header name, so column order does not matter.
type CSVSource struct {
	Path        string
	SkipInvalid bool
}

// Name identifies the source kind
func (s *CSVSource) Name() string { return "csv" }

// Info returns the file path
func (s *CSVSource) Info() string { return s.Path }

// Load reads and validates the whole file
func (s *CSVSource) Load(_ context.Context) (*LoadResult, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open csv file: %w", err)
	}
	defer func() { _ = f.Close() }()

	return s.parse(f)
}

func (s *CSVSource) parse(r io.Reader) (*LoadResult, error) {
	reader := csv.NewReader(r)

	header, err := reader.Read()
	if err == io.EOF {
		return nil, errors.New("csv file is empty")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read csv header: %w", err)
	}

	columns, err := indexHeader(header)
	if err != nil {
		return nil, err
	}

	result := &LoadResult{}
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}

		result.RowsRead++
		row := result.RowsRead

		if err != nil {
			// A short or long record is still returned alongside the
			// error; anything else (broken quoting) kills the stream.
			if !errors.Is(err, csv.ErrFieldCount) {
				return nil, fmt.Errorf("failed to read csv row %d: %w", row, err)
			}
			if rerr := s.reject(result, &RowError{Row: row, Reason: "wrong number of fields"}); rerr != nil {
				return nil, rerr
			}
			continue
		}

		p, rowErr := parseRecord(row, record, columns)
		if rowErr == nil {
			rowErr = checkPurchase(row, p)
		}
		if rowErr != nil {
			if rerr := s.reject(result, rowErr); rerr != nil {
				return nil, rerr
			}
			continue
		}

		result.Purchases = append(result.Purchases, p)
	}

	return result, nil
}

// reject applies the skip/strict policy to an invalid row
func (s *CSVSource) reject(result *LoadResult, rowErr *RowError) error {
	if !s.SkipInvalid {
		return rowErr
	}
	result.Skipped = append(result.Skipped, *rowErr)
	return nil
}

// indexHeader maps column names to positions and verifies the required ones
func indexHeader(header []string) (map[string]int, error) {
	columns := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimSpace(name)
		if i == 0 {
			// Excel exports prefix the first header with a UTF-8 BOM
			name = strings.TrimPrefix(name, "\uFEFF")
		}
		columns[name] = i
	}

	var missing []string
	for _, name := range requiredHeaders {
		if _, ok := columns[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("csv header is missing required columns: %s", strings.Join(missing, ", "))
	}

	return columns, nil
}

// parseRecord converts one CSV record into a purchase
func parseRecord(row int, record []string, columns map[string]int) (purchase.Purchase, *RowError) {
	field := func(name string) string {
		idx, ok := columns[name]
		if !ok || idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}

	p := purchase.Purchase{
		CustomerID:    field(headerCustomerID),
		Region:        field(headerRegion),
		Category:      field(headerCategory),
		Gender:        field(headerGender),
		PaymentMethod: field(headerPaymentMethod),
	}

	amountStr := field(headerAmount)
	amount, err := strconv.ParseFloat(amountStr, 64)
	if err != nil {
		return p, &RowError{Row: row, Reason: fmt.Sprintf("invalid amount %q", amountStr)}
	}
	p.Amount = amount

	dateStr := field(headerDate)
	date, err := time.Parse(csvDateLayout, dateStr)
	if err != nil {
		return p, &RowError{Row: row, Reason: fmt.Sprintf("invalid date %q", dateStr)}
	}
	p.Date = date

	// Age is optional; empty means unknown, malformed is rejected
	if ageStr := field(headerAge); ageStr != "" {
		age, err := strconv.Atoi(ageStr)
		if err != nil {
			return p, &RowError{Row: row, Reason: fmt.Sprintf("invalid age %q", ageStr)}
		}
		p.Age = age
	}

	return p, nil
}
