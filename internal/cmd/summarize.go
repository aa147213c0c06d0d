package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pagelens/pagelens/internal/config"
	"github.com/pagelens/pagelens/internal/core/engine"
	"github.com/pagelens/pagelens/internal/core/store"
	"github.com/pagelens/pagelens/internal/observability"
	"github.com/pagelens/pagelens/internal/output"
)

var (
	summarizeClientID string
	summarizeOutput   string
	summarizeNoCache  bool
)

var summarizeCmd = &cobra.Command{
	Use:   "summarize <url>",
	Short: "Fetch a webpage and print its summary",
	Long: `Fetch a webpage, summarize it, and print the result.

The command shares quota records and the summary cache with the server, so
repeated invocations against the same URL serve the cached summary without
consuming quota.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := output.ParseFormat(summarizeOutput)
		if err != nil {
			return err
		}

		cfg, err := config.Load(cmd.Context())
		if err != nil {
			return err
		}

		db, err := store.Open(cmd.Context(), cfg.Store)
		if err != nil {
			return err
		}
		defer db.Close() // nolint:errcheck // best-effort cleanup
		if err := db.Migrate(cmd.Context()); err != nil {
			return err
		}

		summarizer, err := buildSummarizer(cfg, db, observability.CLILogger)
		if err != nil {
			return err
		}

		rawURL := args[0]
		if summarizeNoCache {
			// Force a recompute by dropping the entry before the lookup.
			_ = db.DeleteCachedSummary(cmd.Context(), engine.CacheKey(rawURL))
		}

		result := summarizer.Summarize(cmd.Context(), rawURL, summarizeClientID)

		rendered, err := output.NewFormatter(format).FormatSummary(&result)
		if err != nil {
			return err
		}
		fmt.Println(rendered)

		if result.Status == "denied" || result.Status == "error" {
			return fmt.Errorf("summarize did not complete: %s", result.Status)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(summarizeCmd)

	summarizeCmd.Flags().StringVar(&summarizeClientID, "client", "cli", "Client identifier charged for the request")
	summarizeCmd.Flags().StringVar(&summarizeOutput, "output-format", string(output.FormatMarkdown), "Output format: table|json|markdown")
	summarizeCmd.Flags().BoolVar(&summarizeNoCache, "no-cache", false, "Skip the summary cache and recompute")
}
