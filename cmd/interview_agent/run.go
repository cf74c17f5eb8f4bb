package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/interview-agents/internal/config"
	"github.com/jonathan/interview-agents/internal/fetch"
	"github.com/jonathan/interview-agents/internal/llm"
	"github.com/jonathan/interview-agents/internal/logger"
	"github.com/jonathan/interview-agents/internal/observability"
	"github.com/jonathan/interview-agents/internal/pipeline"
	"github.com/jonathan/interview-agents/internal/types"
)

var runCommand = &cobra.Command{
	Use:   "run",
	Short: "Run one interview end-to-end from the command line",
	Long: `Runs the full interview workflow once: the HR agent parses the CV and job
description and builds an agenda, the Interviewer agent conducts the
interview, and the Supervisor agent produces a hiring recommendation.`,
	RunE: runInterviewCmd,
}

var (
	runCVPath     string
	runCVURL      string
	runJobURL     string
	runCompanyURL string
	runUseBrowser bool
	runVerbose    bool
	runJSONOutput bool
)

func init() {
	runCommand.Flags().StringVar(&runCVPath, "cv", "", "Path to CV text file (mutually exclusive with --cv-url)")
	runCommand.Flags().StringVar(&runCVURL, "cv-url", "", "URL to fetch the CV from (mutually exclusive with --cv)")
	runCommand.Flags().StringVar(&runJobURL, "job-url", "", "URL to fetch the job description from (required)")
	runCommand.Flags().StringVar(&runCompanyURL, "company-url", "", "Company website URL (optional)")
	runCommand.Flags().BoolVar(&runUseBrowser, "use-browser", false, "Use headless browser for SPA sites (requires Chrome)")
	runCommand.Flags().BoolVarP(&runVerbose, "verbose", "v", false, "Print formatted stage summaries")
	runCommand.Flags().BoolVar(&runJSONOutput, "output-json", false, "Print the full result as JSON")

	_ = runCommand.MarkFlagRequired("job-url")

	rootCmd.AddCommand(runCommand)
}

func runInterviewCmd(cmd *cobra.Command, _ []string) error {
	if runCVPath != "" && runCVURL != "" {
		return fmt.Errorf("--cv and --cv-url are mutually exclusive")
	}

	settings, err := config.Load()
	if err != nil {
		return err
	}

	llmCfg, err := settings.LLMConfig()
	if err != nil {
		return err
	}

	log, err := logger.New(false, runVerbose)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	client, err := llm.NewClient(ctx, llmCfg)
	if err != nil {
		return fmt.Errorf("failed to create LLM client: %w", err)
	}
	defer func() { _ = client.Close() }()

	req := pipeline.Request{
		CVURL:             runCVURL,
		JobDescriptionURL: runJobURL,
		CompanyWebsiteURL: runCompanyURL,
	}
	if runCVPath != "" {
		data, err := os.ReadFile(runCVPath)
		if err != nil {
			return fmt.Errorf("failed to read CV file: %w", err)
		}
		req.CVText = string(data)
	}

	fetchOpts := fetch.DefaultOptions()
	fetchOpts.UseBrowser = runUseBrowser

	orchestrator := pipeline.New(client,
		pipeline.WithLogger(log),
		pipeline.WithFetchOptions(fetchOpts),
	)

	result, err := orchestrator.Run(ctx, req)
	if err != nil {
		return err
	}

	if runJSONOutput {
		return json.NewEncoder(os.Stdout).Encode(result)
	}

	printResult(result, runVerbose)
	return nil
}

// printResult writes a human-readable run summary to stdout.
func printResult(result *pipeline.Result, verbose bool) {
	printer := observability.NewPrinter(os.Stdout)

	for _, report := range result.Reports {
		fmt.Printf("=== %s ===\n%s\n\n", report.Agent, report.Response)
		if !verbose {
			continue
		}
		switch data := report.Data.(type) {
		case types.HRData:
			printer.PrintAgenda(&data.Agenda)
		case types.InterviewData:
			printer.PrintInterview(&data)
		case types.SupervisorData:
			printer.PrintRecommendation(&data.Recommendation)
		}
	}
}
