package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"tradecheck/internal/cli"
)

func main() {
	// optional .env for OPENAI_API_KEY and TRADECHECK_* overrides
	_ = godotenv.Load()

	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "✗ %v\n", err)
		os.Exit(1)
	}
}
