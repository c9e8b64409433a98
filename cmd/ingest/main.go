package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/shopsight/segmentation-backend/internal/cli"
)

func main() {
	// .env is optional; real environment variables win
	_ = godotenv.Load()

	flags := cli.ParseIngestFlags()

	cfg, err := cli.LoadConfig(flags.ConfigPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ingest: %v\n", err)
		os.Exit(1)
	}

	if err := cli.RunIngest(cfg, flags); err != nil {
		fmt.Fprintf(os.Stderr, "ingest: %v\n", err)
		os.Exit(1)
	}
}
