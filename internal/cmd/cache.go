package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/pagelens/pagelens/internal/config"
	"github.com/pagelens/pagelens/internal/core/engine"
	"github.com/pagelens/pagelens/internal/output"
)

var (
	cacheListOutput string
	cachePurgeAll   bool
	cachePurgeURL   string
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the summary cache",
}

var cacheListCmd = &cobra.Command{
	Use:   "list",
	Short: "List cached summaries",
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := output.ParseFormat(cacheListOutput)
		if err != nil {
			return err
		}

		db, err := openStore(cmd.Context())
		if err != nil {
			return err
		}
		defer db.Close() // nolint:errcheck // best-effort cleanup

		entries, err := db.ListCachedSummaries(cmd.Context())
		if err != nil {
			return err
		}

		now := time.Now()
		rows := make([]output.CacheRow, 0, len(entries))
		for _, entry := range entries {
			rows = append(rows, output.NewCacheRow(entry, now))
		}

		rendered, err := output.NewFormatter(format).FormatCacheList(rows)
		if err != nil {
			return err
		}

		fmt.Println(rendered)
		return nil
	},
}

var cachePurgeCmd = &cobra.Command{
	Use:   "purge",
	Short: "Delete cached summaries",
	Long: `Delete cached summaries.

With --url, delete the entry for that exact URL. With --all, delete every
entry older than the configured TTL; pass a zero TTL in config to keep
entries forever and purge only by URL.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !cachePurgeAll && cachePurgeURL == "" {
			return errors.New("must specify --all or --url")
		}

		cfg, err := config.Load(cmd.Context())
		if err != nil {
			return err
		}

		db, err := openStore(cmd.Context())
		if err != nil {
			return err
		}
		defer db.Close() // nolint:errcheck // best-effort cleanup

		if cachePurgeURL != "" {
			if err := db.DeleteCachedSummary(cmd.Context(), engine.CacheKey(cachePurgeURL)); err != nil {
				return err
			}
			fmt.Println("Deleted 1 cache entry")
			return nil
		}

		ttl := cfg.Cache.TTL
		if ttl <= 0 {
			ttl = engine.DefaultCacheTTL
		}

		deleted, err := db.PurgeExpiredSummaries(cmd.Context(), ttl, time.Now())
		if err != nil {
			return err
		}

		fmt.Printf("Purged %d expired cache entr(ies)\n", deleted)
		return nil
	},
}

func init() {
	cacheListCmd.Flags().StringVar(&cacheListOutput, "output-format", string(output.FormatTable), "Output format: table|json|markdown")
	cachePurgeCmd.Flags().BoolVar(&cachePurgeAll, "all", false, "Purge entries older than the configured TTL")
	cachePurgeCmd.Flags().StringVar(&cachePurgeURL, "url", "", "Purge the entry for a single URL")

	cacheCmd.AddCommand(cacheListCmd)
	cacheCmd.AddCommand(cachePurgeCmd)
	rootCmd.AddCommand(cacheCmd)
}
