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

	flags := cli.ParseServeFlags()

	cfg, err := cli.LoadConfig(flags.ConfigPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "api: %v\n", err)
		os.Exit(1)
	}

	if err := cli.RunServe(cfg, flags); err != nil {
		fmt.Fprintf(os.Stderr, "api: %v\n", err)
		os.Exit(1)
	}
}
