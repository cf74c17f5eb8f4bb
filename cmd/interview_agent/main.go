// Package main provides the entry point for the interview agents service.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "interview_agent",
	Short: "Multi-agent technical interview system",
	Long:  "Runs technical interviews through a workflow of HR, Interviewer, and Supervisor agents, from CV and job description ingestion to a final hiring recommendation.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
