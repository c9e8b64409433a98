package ingest

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "purchases.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestCSVSource_Load_HappyPath(t *testing.T) {
	path := writeCSV(t, `顧客ID,購入金額,購入日,地域,購入カテゴリー,性別,年齢,支払方法
C001,1200,2024-06-01,東京,食品,男性,34,現金
C002,800.50,2024-06-02,大阪,家電,女性,28,クレジットカード
C001,400,2024-06-03,東京,衣類,男性,34,現金
`)

	source := &CSVSource{Path: path}
	result, err := source.Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, result.RowsRead)
	assert.Empty(t, result.Skipped)
	require.Len(t, result.Purchases, 3)

	first := result.Purchases[0]
	assert.Equal(t, "C001", first.CustomerID)
	assert.Equal(t, 1200.0, first.Amount)
	assert.Equal(t, "2024-06-01", first.Date.Format("2006-01-02"))
	assert.Equal(t, "東京", first.Region)
	assert.Equal(t, "食品", first.Category)
	assert.Equal(t, "男性", first.Gender)
	assert.Equal(t, 34, first.Age)
	assert.Equal(t, "現金", first.PaymentMethod)

	assert.Equal(t, 800.50, result.Purchases[1].Amount)
}

func TestCSVSource_Load_HeaderOrderFree(t *testing.T) {
	path := writeCSV(t, `購入日,支払方法,顧客ID,購入金額,地域
2024-06-01,現金,C001,500,東京
`)

	source := &CSVSource{Path: path}
	result, err := source.Load(context.Background())
	require.NoError(t, err)

	require.Len(t, result.Purchases, 1)
	assert.Equal(t, "C001", result.Purchases[0].CustomerID)
	assert.Equal(t, 500.0, result.Purchases[0].Amount)
	assert.Equal(t, "東京", result.Purchases[0].Region)
	assert.Equal(t, "現金", result.Purchases[0].PaymentMethod)
}

func TestCSVSource_Load_BOMHeader(t *testing.T) {
	path := writeCSV(t, "\uFEFF顧客ID,購入金額,購入日\nC001,100,2024-06-01\n")

	source := &CSVSource{Path: path}
	result, err := source.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, result.Purchases, 1)
	assert.Equal(t, "C001", result.Purchases[0].CustomerID)
}

func TestCSVSource_Load_MissingRequiredHeader(t *testing.T) {
	path := writeCSV(t, `顧客ID,購入日
C001,2024-06-01
`)

	source := &CSVSource{Path: path}
	_, err := source.Load(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "購入金額")
}

func TestCSVSource_Load_OptionalColumnsAbsent(t *testing.T) {
	path := writeCSV(t, `顧客ID,購入金額,購入日
C001,100,2024-06-01
`)

	source := &CSVSource{Path: path}
	result, err := source.Load(context.Background())
	require.NoError(t, err)

	require.Len(t, result.Purchases, 1)
	p := result.Purchases[0]
	assert.Empty(t, p.Region)
	assert.Empty(t, p.Category)
	assert.Empty(t, p.Gender)
	assert.Zero(t, p.Age)
	assert.Empty(t, p.PaymentMethod)
}

func TestCSVSource_Load_StrictModeFailsOnFirstInvalidRow(t *testing.T) {
	path := writeCSV(t, `顧客ID,購入金額,購入日
C001,100,2024-06-01
C002,-50,2024-06-02
C003,200,2024-06-03
`)

	source := &CSVSource{Path: path}
	_, err := source.Load(context.Background())
	require.Error(t, err)

	var rowErr *RowError
	require.ErrorAs(t, err, &rowErr)
	assert.Equal(t, 2, rowErr.Row)
	assert.Contains(t, rowErr.Reason, "negative amount")
}

func TestCSVSource_Load_SkipModeCollectsInvalidRows(t *testing.T) {
	path := writeCSV(t, `顧客ID,購入金額,購入日,年齢
C001,100,2024-06-01,30
,200,2024-06-02,41
C003,abc,2024-06-03,52
C004,300,06/04/2024,25
C005,400,2024-06-05,unknown
C006,500,2024-06-06,60
`)

	source := &CSVSource{Path: path, SkipInvalid: true}
	result, err := source.Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 6, result.RowsRead)
	require.Len(t, result.Purchases, 2)
	assert.Equal(t, "C001", result.Purchases[0].CustomerID)
	assert.Equal(t, "C006", result.Purchases[1].CustomerID)

	require.Len(t, result.Skipped, 4)
	assert.Equal(t, 2, result.Skipped[0].Row)
	assert.Contains(t, result.Skipped[0].Reason, "empty customer id")
	assert.Equal(t, 3, result.Skipped[1].Row)
	assert.Contains(t, result.Skipped[1].Reason, "invalid amount")
	assert.Equal(t, 4, result.Skipped[2].Row)
	assert.Contains(t, result.Skipped[2].Reason, "invalid date")
	assert.Equal(t, 5, result.Skipped[3].Row)
	assert.Contains(t, result.Skipped[3].Reason, "invalid age")
}

func TestCSVSource_Load_WrongFieldCount(t *testing.T) {
	path := writeCSV(t, `顧客ID,購入金額,購入日
C001,100,2024-06-01
C002,200
C003,300,2024-06-03
`)

	source := &CSVSource{Path: path, SkipInvalid: true}
	result, err := source.Load(context.Background())
	require.NoError(t, err)

	require.Len(t, result.Purchases, 2)
	require.Len(t, result.Skipped, 1)
	assert.Equal(t, 2, result.Skipped[0].Row)
	assert.Contains(t, result.Skipped[0].Reason, "wrong number of fields")
}

func TestCSVSource_Load_EmptyFile(t *testing.T) {
	path := writeCSV(t, "")

	source := &CSVSource{Path: path}
	_, err := source.Load(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty")
}

func TestCSVSource_Load_MissingFile(t *testing.T) {
	source := &CSVSource{Path: "no-such-file.csv"}
	_, err := source.Load(context.Background())
	assert.Error(t, err)
}
