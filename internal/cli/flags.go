package cli

import (
	"flag"
	"fmt"
	"time"

	"github.com/shopsight/segmentation-backend/internal/domain/purchase"
	"github.com/shopsight/segmentation-backend/internal/infrastructure/config"
	"github.com/shopsight/segmentation-backend/internal/ingest"
)

// LoadConfig resolves configuration for a command. An explicitly given
// path must parse; without one, config.yaml is tried with an environment
// fallback.
func LoadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.LoadOrEnv(), nil
	}
	return config.Load(path)
}

// IngestFlags are the flags for the ingest command
type IngestFlags struct {
	ConfigPath  string
	DBPath      string
	Source      string
	CSVPath     string
	MySQLDSN    string
	MySQLTable  string
	SkipInvalid bool
	BatchSize   int
	Verbose     bool
}

// ParseIngestFlags parses ingest flags from the command line
func ParseIngestFlags() *IngestFlags {
	flags := &IngestFlags{}
	flag.StringVar(&flags.ConfigPath, "config", "", "Configuration file path")
	flag.StringVar(&flags.DBPath, "db", "", "SQLite database path (overrides config)")
	flag.StringVar(&flags.Source, "source", "csv", "Data source: csv or mysql")
	flag.StringVar(&flags.CSVPath, "csv", "", "CSV file to load (overrides config)")
	flag.StringVar(&flags.MySQLDSN, "mysql-dsn", "", "MySQL DSN or mysql:// URL (overrides config)")
	flag.StringVar(&flags.MySQLTable, "mysql-table", "", "MySQL table to read (overrides config)")
	flag.BoolVar(&flags.SkipInvalid, "skip-invalid", false, "Skip invalid rows instead of failing")
	flag.IntVar(&flags.BatchSize, "batch", 0, "Rows per insert batch (0 = config default)")
	flag.BoolVar(&flags.Verbose, "verbose", false, "Verbose output")
	flag.Parse()
	return flags
}

// ToSource builds the ingest source the flags describe, falling back to
// config values for anything not given on the command line.
func (f *IngestFlags) ToSource(cfg *config.Config) (ingest.Source, error) {
	switch f.Source {
	case "csv":
		path := f.CSVPath
		if path == "" {
			path = cfg.Ingest.CSVPath
		}
		if path == "" {
			return nil, fmt.Errorf("no CSV path given (use -csv or set ingest.csv_path)")
		}
		return &ingest.CSVSource{Path: path, SkipInvalid: f.SkipInvalid}, nil

	case "mysql":
		dsn := f.MySQLDSN
		if dsn == "" {
			dsn = cfg.Ingest.MySQLDSN
		}
		if dsn == "" {
			return nil, fmt.Errorf("no MySQL DSN given (use -mysql-dsn or set ingest.mysql_dsn)")
		}
		table := f.MySQLTable
		if table == "" {
			table = cfg.Ingest.MySQLTable
		}
		return &ingest.MySQLSource{DSN: dsn, Table: table, SkipInvalid: f.SkipInvalid}, nil

	default:
		return nil, fmt.Errorf("unknown source %q, want csv or mysql", f.Source)
	}
}

// ReportFlags are the flags for the segment-report command
type ReportFlags struct {
	ConfigPath string
	DBPath     string
	Top        int
	Region     string
	Category   string
	Gender     string
	From       string
	To         string
}

// ParseReportFlags parses segment-report flags from the command line
func ParseReportFlags() *ReportFlags {
	flags := &ReportFlags{}
	flag.StringVar(&flags.ConfigPath, "config", "", "Configuration file path")
	flag.StringVar(&flags.DBPath, "db", "", "SQLite database path (overrides config)")
	flag.IntVar(&flags.Top, "top", 10, "Number of top customers to list")
	flag.StringVar(&flags.Region, "region", "", "Only include this region")
	flag.StringVar(&flags.Category, "category", "", "Only include this category")
	flag.StringVar(&flags.Gender, "gender", "", "Only include this gender")
	flag.StringVar(&flags.From, "from", "", "Start date, inclusive (YYYY-MM-DD)")
	flag.StringVar(&flags.To, "to", "", "End date, inclusive (YYYY-MM-DD)")
	flag.Parse()
	return flags
}

// ToFilter converts the report flags to a dataset filter
func (f *ReportFlags) ToFilter() (purchase.Filter, error) {
	filter := purchase.Filter{
		Region:   f.Region,
		Category: f.Category,
		Gender:   f.Gender,
	}
	if f.From != "" {
		from, err := time.Parse("2006-01-02", f.From)
		if err != nil {
			return filter, fmt.Errorf("invalid from date %q, want YYYY-MM-DD", f.From)
		}
		filter.From = from
	}
	if f.To != "" {
		to, err := time.Parse("2006-01-02", f.To)
		if err != nil {
			return filter, fmt.Errorf("invalid to date %q, want YYYY-MM-DD", f.To)
		}
		filter.To = to
	}
	return filter, nil
}
