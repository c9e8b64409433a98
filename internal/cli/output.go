package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopsight/segmentation-backend/internal/domain/abc"
	"github.com/shopsight/segmentation-backend/internal/domain/frequency"
	"github.com/shopsight/segmentation-backend/internal/domain/insights"
	"github.com/shopsight/segmentation-backend/internal/domain/purchase"
	"github.com/shopsight/segmentation-backend/internal/domain/rfm"
	"github.com/shopsight/segmentation-backend/internal/infrastructure/config"
	"github.com/shopsight/segmentation-backend/internal/infrastructure/storage"
	"github.com/shopsight/segmentation-backend/internal/ingest"
)

// PrintIngestHeader prints the ingest run banner
func PrintIngestHeader(source ingest.Source, dbPath string, skipInvalid bool) {
	mode := "strict"
	if skipInvalid {
		mode = "skip-invalid"
	}
	fmt.Printf("segmentation-ingest: %s %s (%s mode)\n", source.Name(), source.Info(), mode)
	fmt.Printf("Database: %s\n", dbPath)
	fmt.Println()
}

// PrintIngestSummary prints the ingest result summary
func PrintIngestSummary(summary *ingest.Summary) {
	fmt.Println(strings.Repeat("-", 60))
	fmt.Printf("Summary: Read=%d Stored=%d Skipped=%d Duration=%s\n",
		summary.RowsRead,
		summary.RowsStored,
		summary.RowsSkipped,
		summary.Duration.Round(time.Millisecond))
	fmt.Printf("Run ID: %s\n", summary.RunID)

	if summary.RowsSkipped > 0 {
		fmt.Printf("\n%d invalid rows were skipped; details are in the log warnings above.\n", summary.RowsSkipped)
	}
}

// RunReport prints a terminal segmentation report straight from the store.
func RunReport(cfg *config.Config, flags *ReportFlags) error {
	filter, err := flags.ToFilter()
	if err != nil {
		return err
	}

	dbPath := cfg.Storage.DatabasePath
	if flags.DBPath != "" {
		dbPath = flags.DBPath
	}
	store, err := storage.NewStorage(dbPath)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	dataset, err := store.LoadDataset(filter)
	if err != nil {
		return err
	}

	PrintReport(dataset, dbPath, filter, flags.Top)
	return nil
}

// PrintReport renders the full segmentation report for a dataset.
func PrintReport(dataset []purchase.Purchase, dbPath string, filter purchase.Filter, top int) {
	fmt.Println("📊 CUSTOMER SEGMENTATION REPORT")
	fmt.Println("=" + strings.Repeat("=", 60))
	fmt.Printf("Database: %s\n", dbPath)
	if !filter.IsZero() {
		fmt.Printf("Filter: %s\n", describeFilter(filter))
	}
	fmt.Printf("Generated: %s\n\n", time.Now().Format("2006-01-02 15:04:05"))

	if len(dataset) == 0 {
		fmt.Println("No purchases match. Load data first with the ingest command.")
		return
	}

	printOverview(dataset)

	result := abc.Segment(dataset)
	printABC(result)
	printFrequency(frequency.Segment(dataset))
	printRFM(rfm.Segment(dataset))
	printTopCustomers(result, top)
}

func printOverview(dataset []purchase.Purchase) {
	o := insights.ComputeOverview(dataset)

	fmt.Println("📈 OVERVIEW")
	fmt.Println(strings.Repeat("-", 40))
	fmt.Printf("Total Sales: ¥%.0f\n", o.TotalSales)
	fmt.Printf("Customers: %d\n", o.CustomerCount)
	fmt.Printf("Transactions: %d\n", o.TransactionCount)
	fmt.Printf("Average Amount: ¥%.1f\n", o.AverageAmount)
	fmt.Println()
}

func printABC(result *abc.Result) {
	fmt.Println("🏆 ABC ANALYSIS")
	fmt.Println(strings.Repeat("-", 40))

	fmt.Printf("%-5s %-10s %-14s %-8s %-14s %-14s\n",
		"Tier", "Customers", "Sales", "Share", "Avg Total", "Median Total")
	fmt.Println(strings.Repeat("-", 70))

	for _, s := range insights.SummarizeABC(result) {
		fmt.Printf("%-5s %-10d ¥%-13.0f %6.1f%% ¥%-13.1f ¥%-13.1f\n",
			s.Tier, s.Customers, s.TotalSales, s.SalesShare, s.AverageTotal, s.MedianTotal)
	}
	fmt.Println()
}

func printFrequency(rows []frequency.Row) {
	fmt.Println("🔁 PURCHASE FREQUENCY")
	fmt.Println(strings.Repeat("-", 40))

	fmt.Printf("%-28s %-10s %-14s %-8s %-10s\n",
		"Segment", "Customers", "Sales", "Share", "Avg Count")
	fmt.Println(strings.Repeat("-", 75))

	for _, s := range insights.SummarizeFrequency(rows) {
		name := fmt.Sprintf("%s (%s)", s.Tier, s.Tier.DisplayNameJA())
		fmt.Printf("%-28s %-10d ¥%-13.0f %6.1f%% %9.1f\n",
			name, s.Customers, s.TotalSales, s.SalesShare, s.AverageCount)
	}
	fmt.Println()
}

func printRFM(result *rfm.Result) {
	fmt.Println("🎯 RFM SEGMENTS")
	fmt.Println(strings.Repeat("-", 40))

	if !result.SnapshotDate.IsZero() {
		fmt.Printf("Snapshot: %s", result.SnapshotDate.Format("2006-01-02"))
		if result.Binning.FallbackUsed() {
			fmt.Printf(" | Binning: R=%s F=%s M=%s",
				result.Binning.Recency, result.Binning.Frequency, result.Binning.Monetary)
		}
		fmt.Println()
		fmt.Println()
	}

	fmt.Printf("%-34s %-10s %-8s %-14s %-12s\n",
		"Segment", "Customers", "Score", "Monetary", "Mean R/F/M")
	fmt.Println(strings.Repeat("-", 85))

	for _, s := range insights.SummarizeRFM(result) {
		name := fmt.Sprintf("%s (%s)", s.Label, s.Label.DisplayNameJA())
		fmt.Printf("%-34s %-10d %-8.2f ¥%-13.0f %.1f/%.1f/%.1f\n",
			name, s.Customers, s.MeanCombined, s.MonetarySum, s.MeanR, s.MeanF, s.MeanM)
	}
	fmt.Println()
}

func printTopCustomers(result *abc.Result, top int) {
	if top <= 0 || len(result.Rows) == 0 {
		return
	}
	if top > len(result.Rows) {
		top = len(result.Rows)
	}

	fmt.Printf("👑 TOP %d CUSTOMERS\n", top)
	fmt.Println(strings.Repeat("-", 40))

	fmt.Printf("%-6s %-16s %-14s %-10s %-6s\n",
		"Rank", "Customer", "Total", "Purchases", "Tier")
	fmt.Println(strings.Repeat("-", 60))

	for i, row := range result.Rows[:top] {
		fmt.Printf("%-6d %-16s ¥%-13.0f %-10d %-6s\n",
			i+1, row.CustomerID, row.TotalAmount, row.PurchaseCount, row.Tier)
	}
	fmt.Println()
}

func describeFilter(f purchase.Filter) string {
	parts := make([]string, 0, 5)
	if f.Region != "" {
		parts = append(parts, "region="+f.Region)
	}
	if f.Category != "" {
		parts = append(parts, "category="+f.Category)
	}
	if f.Gender != "" {
		parts = append(parts, "gender="+f.Gender)
	}
	if !f.From.IsZero() {
		parts = append(parts, "from="+f.From.Format("2006-01-02"))
	}
	if !f.To.IsZero() {
		parts = append(parts, "to="+f.To.Format("2006-01-02"))
	}
	return strings.Join(parts, " ")
}
