// ABOUTME: CLI command for copying another daybook database into this one.
// ABOUTME: Moves every family with fresh IDs; the target must have no families.
package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harperreed/daybook/internal/config"
	"github.com/harperreed/daybook/internal/storage"
)

var (
	migrateFrom   string
	migrateDryRun bool
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Copy another daybook database into this one",
	Long: `Copy every family from another daybook database into the current one.

Use this to move data to a new data directory or to merge an old database
into a fresh install. IDs are reassigned; template metrics are matched by name.

IMPORTANT:

  - The current database must not have any families yet
  - The source database is only read, never changed
  - Run with --dry-run first to see what would be copied

USAGE:

  daybook migrate --from ~/old/daybook.db --dry-run
  daybook migrate --from ~/old/daybook.db
  daybook --db ~/new/daybook.db migrate --from ~/old/daybook.db`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if migrateFrom == "" {
			return fmt.Errorf("--from is required")
		}

		src, err := storage.Open(config.ExpandPath(migrateFrom))
		if err != nil {
			return fmt.Errorf("failed to open source database: %w", err)
		}
		defer src.Close()

		if migrateDryRun {
			color.Yellow("Dry run mode - no changes will be made")
			fmt.Println()
			families, err := src.ListFamilies(ctx)
			if err != nil {
				return fmt.Errorf("failed to read source: %w", err)
			}
			fmt.Printf("Would copy %d families:\n", len(families))
			for _, f := range families {
				fmt.Printf("  %s %s\n", faint(f.ID), f.Name)
			}
			return nil
		}

		summary, err := storage.MigrateData(ctx, src, db)
		if err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}

		color.Green("✓ Migrated %d families", summary.Families)
		fmt.Printf("  %d students, %d subjects, %d metrics, %d logs, %d values\n",
			summary.Students, summary.Subjects, summary.Metrics, summary.DailyLogs, summary.Values)
		if summary.Skipped > 0 {
			color.Yellow("  %d records skipped", summary.Skipped)
		}
		return nil
	},
}

func init() {
	migrateCmd.Flags().StringVar(&migrateFrom, "from", "", "source database file")
	migrateCmd.Flags().BoolVar(&migrateDryRun, "dry-run", false, "preview migration without making changes")
	rootCmd.AddCommand(migrateCmd)
}
