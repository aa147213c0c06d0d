package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var rateLimitPruneRetention time.Duration

var rateLimitPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete quota records for idle clients",
	Long: `Delete quota records for clients whose most recent request is older
than the retention window. The request path trims per-client history but
never removes rows, so pruning bounds long-term store growth.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if rateLimitPruneRetention < 24*time.Hour {
			return fmt.Errorf("retention must be at least 24h (records inside the window still count against limits)")
		}

		db, err := openStore(cmd.Context())
		if err != nil {
			return err
		}
		defer db.Close() // nolint:errcheck // best-effort cleanup

		deleted, err := db.PruneIdleClients(cmd.Context(), rateLimitPruneRetention, time.Now())
		if err != nil {
			return err
		}

		fmt.Printf("Pruned %d idle client record(s)\n", deleted)
		return nil
	},
}

func init() {
	rateLimitPruneCmd.Flags().DurationVar(&rateLimitPruneRetention, "retention", 7*24*time.Hour, "Delete clients idle longer than this window")
}
