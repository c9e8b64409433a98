package storage

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/shopsight/segmentation-backend/internal/domain/purchase"
)

const purchaseColumns = `customer_id, amount, purchase_date, region, category, gender, age, payment_method`

// SavePurchases inserts a batch of purchases in a single transaction
func (s *Storage) SavePurchases(runID string, purchases []purchase.Purchase) error {
	if len(purchases) == 0 {
		return nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	query := `
	INSERT INTO purchases
	(customer_id, amount, purchase_date, region, category, gender, age, payment_method, run_id)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	stmt, err := tx.Prepare(query)
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	// NULL run_id for rows saved outside an ingest run
	var runRef any
	if runID != "" {
		runRef = runID
	}

	for _, p := range purchases {
		_, err := stmt.Exec(
			p.CustomerID,
			p.Amount,
			p.Date.UTC().Format(time.RFC3339),
			p.Region,
			p.Category,
			p.Gender,
			p.Age,
			p.PaymentMethod,
			runRef,
		)
		if err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to insert purchase for customer %s: %w", p.CustomerID, err)
		}
	}

	return tx.Commit()
}

// LoadDataset returns the full filtered dataset in insertion order
func (s *Storage) LoadDataset(filter purchase.Filter) ([]purchase.Purchase, error) {
	where, args := buildWhere(filter)
	query := `SELECT ` + purchaseColumns + ` FROM purchases` + where + ` ORDER BY id ASC`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	return scanPurchaseRows(rows)
}

// ListPurchases returns purchases matching the given filters with pagination
func (s *Storage) ListPurchases(filters PurchaseFilters) (*PurchaseListResult, error) {
	where, args := buildWhere(filters.Filter)

	// Total count for the filter, independent of pagination
	var total int
	countQuery := `SELECT COUNT(*) FROM purchases` + where
	if err := s.db.QueryRow(countQuery, args...).Scan(&total); err != nil {
		return nil, err
	}

	// Apply defaults
	limit := filters.Limit
	if limit == 0 {
		limit = 50
	}

	query := `SELECT ` + purchaseColumns + ` FROM purchases` + where + ` ORDER BY id ASC LIMIT ? OFFSET ?`
	args = append(args, limit, filters.Offset)

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	purchases, err := scanPurchaseRows(rows)
	if err != nil {
		return nil, err
	}

	return &PurchaseListResult{
		Purchases:  purchases,
		TotalCount: total,
		Limit:      limit,
		Offset:     filters.Offset,
	}, nil
}

// CountPurchases returns the total number of stored purchases
func (s *Storage) CountPurchases() (int, error) {
	var count int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM purchases`).Scan(&count)
	return count, err
}

// GetFilterValues returns the distinct filterable values and date bounds
func (s *Storage) GetFilterValues() (*FilterValues, error) {
	values := &FilterValues{}

	columns := []struct {
		column string
		dest   *[]string
	}{
		{"region", &values.Regions},
		{"category", &values.Categories},
		{"gender", &values.Genders},
		{"payment_method", &values.PaymentMethods},
	}

	for _, c := range columns {
		distinct, err := s.distinctValues(c.column)
		if err != nil {
			return nil, fmt.Errorf("failed to read distinct %s values: %w", c.column, err)
		}
		*c.dest = distinct
	}

	// Date bounds as YYYY-MM-DD
	var minDate, maxDate sql.NullString
	query := `SELECT MIN(date(purchase_date)), MAX(date(purchase_date)) FROM purchases`
	if err := s.db.QueryRow(query).Scan(&minDate, &maxDate); err != nil {
		return nil, err
	}
	if minDate.Valid {
		values.MinDate = minDate.String
	}
	if maxDate.Valid {
		values.MaxDate = maxDate.String
	}

	return values, nil
}

// distinctValues returns the sorted distinct non-empty values of a column.
// The column name is always a compile-time constant, never user input.
func (s *Storage) distinctValues(column string) ([]string, error) {
	query := fmt.Sprintf(`SELECT DISTINCT %s FROM purchases WHERE %s != '' ORDER BY %s ASC`, column, column, column)

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var values []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		values = append(values, v)
	}

	return values, rows.Err()
}

// buildWhere translates a purchase.Filter into a WHERE clause.
// Date bounds compare on day precision, inclusive at both ends.
func buildWhere(f purchase.Filter) (string, []any) {
	var conds []string
	var args []any

	if f.Region != "" {
		conds = append(conds, "region = ?")
		args = append(args, f.Region)
	}
	if f.Category != "" {
		conds = append(conds, "category = ?")
		args = append(args, f.Category)
	}
	if f.Gender != "" {
		conds = append(conds, "gender = ?")
		args = append(args, f.Gender)
	}
	if !f.From.IsZero() {
		conds = append(conds, "date(purchase_date) >= date(?)")
		args = append(args, f.From.Format("2006-01-02"))
	}
	if !f.To.IsZero() {
		conds = append(conds, "date(purchase_date) <= date(?)")
		args = append(args, f.To.Format("2006-01-02"))
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// scanPurchaseRows scans purchase rows into domain values
func scanPurchaseRows(rows *sql.Rows) ([]purchase.Purchase, error) {
	var purchases []purchase.Purchase
	for rows.Next() {
		var p purchase.Purchase
		var dateStr string
		err := rows.Scan(
			&p.CustomerID,
			&p.Amount,
			&dateStr,
			&p.Region,
			&p.Category,
			&p.Gender,
			&p.Age,
			&p.PaymentMethod,
		)
		if err != nil {
			return nil, err
		}

		date, err := time.Parse(time.RFC3339, dateStr)
		if err != nil {
			return nil, fmt.Errorf("failed to parse stored purchase date %q: %w", dateStr, err)
		}
		p.Date = date

		purchases = append(purchases, p)
	}

	return purchases, rows.Err()
}
