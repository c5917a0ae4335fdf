// Package main is the customer-feedback join pipeline CLI.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"cfpipe/internal/config"
	"cfpipe/internal/logger"
	"cfpipe/internal/pipeline"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	exitCode := 0

	cmd := newRootCmd(&exitCode)
	cmd.SetArgs(args)

	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)

		return 1
	}

	return exitCode
}

func newRootCmd(exitCode *int) *cobra.Command {
	var (
		configFile  string
		feedbackURL string
		customerURL string
		timeoutSec  float64
		outputDir   string
		outputCSV   string
		verbose     bool
	)

	cmd := &cobra.Command{
		Use:   "cfpipe",
		Short: "Join customer feedback with customer records and export CSV",
		Long: "Fetches the feedback and customer JSON sources, joins them on " +
			"customer_id and writes the merged CSV plus a run diagnostics report.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			// A .env file is optional; absence is not an error.
			_ = godotenv.Load()

			cfg := config.Default()

			if configFile != "" {
				loaded, err := config.Load(configFile)
				if err != nil {
					return fmt.Errorf("load config: %w", err)
				}

				cfg = loaded
			}

			cfg.ApplyEnv()

			// Flags win over file and environment.
			if cmd.Flags().Changed("feedback-url") {
				cfg.Sources.FeedbackURL = feedbackURL
			}

			if cmd.Flags().Changed("customer-url") {
				cfg.Sources.CustomerURL = customerURL
			}

			if cmd.Flags().Changed("timeout") {
				cfg.HTTP.TimeoutSeconds = timeoutSec
			}

			if cmd.Flags().Changed("output-dir") {
				cfg.Output.Dir = outputDir
			}

			if cmd.Flags().Changed("output-csv") {
				cfg.Output.CSV = outputCSV
			}

			if verbose {
				cfg.Logging.Level = "debug"
			}

			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}

			log := logger.NewLogger(cfg.Logging.Level)
			*exitCode = pipeline.New(cfg, log).Run()

			return nil
		},
	}

	cmd.Flags().StringVar(&configFile, "config", "", "Path to YAML configuration file")
	cmd.Flags().StringVar(&feedbackURL, "feedback-url", config.DefaultFeedbackURL, "Feedback source URL")
	cmd.Flags().StringVar(&customerURL, "customer-url", config.DefaultCustomerURL, "Customer source URL")
	cmd.Flags().Float64Var(&timeoutSec, "timeout", config.DefaultTimeoutSeconds, "HTTP timeout in seconds")
	cmd.Flags().StringVar(&outputDir, "output-dir", config.DefaultOutputDir, "Directory for outputs")
	cmd.Flags().StringVar(&outputCSV, "output-csv", config.DefaultOutputCSV, "CSV filename")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	return cmd
}
