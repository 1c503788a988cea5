// Package main provides the scribe CLI entry point.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/richinex/scribe/cli"
)

var verbose bool

func main() {
	// Load .env file if present (ignore "file not found" errors)
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			fmt.Fprintf(os.Stderr, "Warning: failed to load .env file: %v\n", err)
		}
	}

	rootCmd := &cobra.Command{
		Use:   "scribe",
		Short: "Multi-agent outreach drafting with quality gates",
		Long: `Scribe runs a pipeline of specialized LLM agents over a job posting
and a candidate profile, producing a requirement analysis, an
executive-voice outreach email, and a personal introduction, each with
reproducible confidence scores. A quality gate classifies every metric
as PASS/WARNING/FAIL before the output is accepted.`,
	}

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Show verbose output")

	rootCmd.AddCommand(runCmd())
	rootCmd.AddCommand(reportCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runCmd() *cobra.Command {
	var jobPath string
	var profilePath string
	var reportPath string
	var jsonPath string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the full pipeline for one job posting and candidate",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := cli.Options{
				JobPath:     jobPath,
				ProfilePath: profilePath,
				ReportPath:  reportPath,
				JSONPath:    jsonPath,
				Verbose:     verbose,
			}
			return cli.Run(context.Background(), opts)
		},
	}

	cmd.Flags().StringVar(&jobPath, "job", "", "Job posting file (.json or raw text)")
	cmd.Flags().StringVar(&profilePath, "profile", "", "Candidate profile JSON file")
	cmd.Flags().StringVar(&reportPath, "report", "", "Markdown report output path (default: stdout)")
	cmd.Flags().StringVar(&jsonPath, "json", "", "Raw run report JSON output path")
	_ = cmd.MarkFlagRequired("job")
	_ = cmd.MarkFlagRequired("profile")

	return cmd
}

func reportCmd() *cobra.Command {
	var reportPath string

	cmd := &cobra.Command{
		Use:   "report [run-report.json]",
		Short: "Render the markdown report for a saved run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cli.Render(args[0], reportPath)
		},
	}

	cmd.Flags().StringVar(&reportPath, "out", "", "Markdown report output path (default: stdout)")

	return cmd
}
