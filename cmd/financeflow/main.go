package main

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/financeflow-app/financeflow/internal/commands"
)

func main() {
	// Credentials may live in a .env file instead of the config; a missing
	// file is fine.
	_ = godotenv.Load()

	if err := commands.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
