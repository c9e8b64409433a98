package ingest

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql"

	"github.com/shopsight/segmentation-backend/internal/domain/purchase"
)

var tableNamePattern = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

// MySQLSource reads purchases from a MySQL table for environments where the
// purchase data lives in an operational database instead of CSV exports.
//
// Expected columns: customer_id, amount, purchase_date, region, category,
// gender, age, payment_method.
type MySQLSource struct {
	DSN         string
	Table       string
	SkipInvalid bool
}

// Name identifies the source kind
func (s *MySQLSource) Name() string { return "mysql" }

// Info returns the table name
func (s *MySQLSource) Info() string { return s.Table }

// Load reads and validates the whole table
func (s *MySQLSource) Load(ctx context.Context) (*LoadResult, error) {
	if !tableNamePattern.MatchString(s.Table) {
		return nil, fmt.Errorf("invalid table name %q", s.Table)
	}

	dsn, err := normalizeDSN(s.DSN)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open mysql connection: %w", err)
	}
	defer func() { _ = db.Close() }()
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	query := fmt.Sprintf(`
		SELECT customer_id, amount, purchase_date, region, category, gender, age, payment_method
		FROM %s
		ORDER BY purchase_date, customer_id
	`, s.Table)

	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query table %s: %w", s.Table, err)
	}
	defer func() { _ = rows.Close() }()

	result := &LoadResult{}
	for rows.Next() {
		result.RowsRead++
		row := result.RowsRead

		var (
			customerID    sql.NullString
			amount        sql.NullFloat64
			purchaseDate  sql.NullTime
			region        sql.NullString
			category      sql.NullString
			gender        sql.NullString
			age           sql.NullInt64
			paymentMethod sql.NullString
		)
		if err := rows.Scan(&customerID, &amount, &purchaseDate, &region, &category, &gender, &age, &paymentMethod); err != nil {
			return nil, fmt.Errorf("failed to scan row %d: %w", row, err)
		}

		var rowErr *RowError
		switch {
		case !amount.Valid:
			rowErr = &RowError{Row: row, Reason: "missing amount"}
		case !purchaseDate.Valid:
			rowErr = &RowError{Row: row, Reason: "missing purchase date"}
		}

		p := purchase.Purchase{
			CustomerID:    strings.TrimSpace(customerID.String),
			Amount:        amount.Float64,
			Date:          purchaseDate.Time,
			Region:        region.String,
			Category:      category.String,
			Gender:        gender.String,
			Age:           int(age.Int64),
			PaymentMethod: paymentMethod.String,
		}
		if rowErr == nil {
			rowErr = checkPurchase(row, p)
		}
		if rowErr != nil {
			if !s.SkipInvalid {
				return nil, rowErr
			}
			result.Skipped = append(result.Skipped, *rowErr)
			continue
		}

		result.Purchases = append(result.Purchases, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

// normalizeDSN accepts mysql:// and mariadb:// URLs as well as native driver
// DSNs, and guarantees parseTime=true so DATETIME columns scan into time.Time.
func normalizeDSN(dsn string) (string, error) {
	if strings.HasPrefix(dsn, "mysql://") || strings.HasPrefix(dsn, "mariadb://") {
		u, err := url.Parse(dsn)
		if err != nil {
			return "", fmt.Errorf("failed to parse dsn: %w", err)
		}
		user := ""
		pass := ""
		if u.User != nil {
			user = u.User.Username()
			pw, _ := u.User.Password()
			pass = pw
		}
		host := u.Host
		db := strings.TrimPrefix(u.Path, "/")
		if user == "" || host == "" || db == "" {
			return "", fmt.Errorf("incomplete dsn: user, host and database are required")
		}
		return fmt.Sprintf("%s:%s@tcp(%s)/%s?parseTime=true", user, pass, host, db), nil
	}

	if strings.Contains(dsn, "parseTime=") {
		return dsn, nil
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "parseTime=true", nil
}
