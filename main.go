package main

import (
	"os"

	"job-agent/cmd"

	"github.com/joho/godotenv"
)

func main() {
	// Optional .env file for local development. Missing file is fine.
	_ = godotenv.Load()

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
