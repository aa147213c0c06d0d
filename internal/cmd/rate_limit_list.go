package cmd

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/pagelens/pagelens/internal/core/store"
	"github.com/pagelens/pagelens/internal/output"
)

var (
	rateLimitListOutput string
	rateLimitListOut    string
	rateLimitListOutDir string
	rateLimitListAll    bool
	rateLimitListClient string
	rateLimitListPrefix string
)

var rateLimitListCmd = &cobra.Command{
	Use:   "list",
	Short: "List persisted client quota records",
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := resolveOutputFormat(cmd)
		if err != nil {
			return err
		}

		db, err := openStore(cmd.Context())
		if err != nil {
			return err
		}
		defer db.Close() // nolint:errcheck // best-effort cleanup

		query := store.QuotaQuery{
			All:      rateLimitListAll,
			ClientID: strings.TrimSpace(rateLimitListClient),
			Prefix:   strings.TrimSpace(rateLimitListPrefix),
		}
		if !query.All && query.ClientID == "" && query.Prefix == "" {
			query.All = true
		}

		entries, err := db.ListClientQuotas(cmd.Context(), query)
		if err != nil {
			return err
		}

		now := time.Now()
		rows := make([]output.QuotaRow, 0, len(entries))
		for _, entry := range entries {
			rows = append(rows, output.NewQuotaRow(entry.ClientID, entry.Record, now))
		}

		outPath, outDir, err := resolveOutputTargets(cmd)
		if err != nil {
			return err
		}

		if outDir != "" {
			outDir, err = ensureOutDir(outDir)
			if err != nil {
				return err
			}
			stem := "rate-limit.list"
			if query.ClientID != "" {
				stem = "rate-limit." + sanitizeFilename(query.ClientID)
			} else if query.Prefix != "" {
				stem = "rate-limit." + sanitizeFilename(query.Prefix)
			}
			outPath = filepath.Join(outDir, fmt.Sprintf("%s.%s", stem, outputExtension(format)))
		}

		sink, err := openSink(outPath)
		if err != nil {
			return err
		}
		defer func() { _ = sink.close() }()

		rendered, err := output.NewFormatter(format).FormatQuotaList(rows)
		if err != nil {
			return err
		}

		_, err = fmt.Fprintln(sink.writer, rendered)
		return err
	},
}

func init() {
	rateLimitListCmd.Flags().StringVar(&rateLimitListOutput, "output-format", string(output.FormatTable), "Output format: table|json|markdown")
	rateLimitListCmd.Flags().StringVar(&rateLimitListOut, "out", "", "Write output to a file (default stdout)")
	rateLimitListCmd.Flags().StringVar(&rateLimitListOutDir, "out-dir", "", "Write output to a directory")
	rateLimitListCmd.Flags().BoolVar(&rateLimitListAll, "all", false, "List all clients")
	rateLimitListCmd.Flags().StringVar(&rateLimitListClient, "client", "", "List a single client (exact match)")
	rateLimitListCmd.Flags().StringVar(&rateLimitListPrefix, "prefix", "", "List clients with matching prefix")
}
