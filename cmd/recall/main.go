// Command recall answers natural-language questions about a personal
// Meta Messenger export using a local vector index.
package main

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/keepsake-labs/recall-cli/internal/adapters/driving/cli"
)

func main() {
	// A .env file is optional; environment wins over config file values.
	_ = godotenv.Load()

	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
