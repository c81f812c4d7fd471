// Command triagemesh drives the Canadian ER triage orchestration: it
// provisions the agent fleet, executes a triage conversation, scores the
// transcript, and manages the evaluation dataset.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

func main() {
	// Best effort; a missing .env simply means the environment is already set.
	_ = godotenv.Load()

	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
