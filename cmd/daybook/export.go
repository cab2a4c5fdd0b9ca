// ABOUTME: CLI commands for exporting and importing daybook data.
// ABOUTME: Supports JSON and YAML family exports and a Markdown student journal.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harperreed/daybook/internal/daybook"
	"github.com/harperreed/daybook/internal/storage"
)

var (
	exportOutput  string
	exportStudent int64
	exportSince   string

	importCreate bool
)

var exportCmd = &cobra.Command{
	Use:   "export <format>",
	Short: "Export daybook data",
	Long: `Export daybook data in various formats.

FORMATS:

  json       Full family export (suitable for backup/restore)
  yaml       Family export nested by student (human-readable)
  markdown   One student's journal, newest day first

OPTIONS:

  --output, -o    Write to file instead of stdout
  --student, -s   Student ID (markdown only, required)
  --since         Only include days since this date (markdown only, YYYY-MM-DD)

EXAMPLES:

  daybook export json                          # Export the family as JSON
  daybook export json -o backup.json           # Save to file
  daybook export yaml --family 2               # Export another family
  daybook export markdown -s 1 --since 2025-09-01`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"json", "yaml", "markdown"},
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		format := args[0]

		var data []byte
		var err error

		switch format {
		case "json", "yaml":
			familyID, ferr := currentFamily(ctx)
			if ferr != nil {
				return ferr
			}
			export, xerr := svc.ExportFamily(ctx, familyID)
			if xerr != nil {
				return xerr
			}
			if format == "json" {
				data, err = storage.EncodeJSON(export)
			} else {
				data, err = storage.EncodeYAML(export)
			}
		case "markdown":
			if exportStudent <= 0 {
				return fmt.Errorf("markdown export needs --student <id>")
			}
			var since *time.Time
			if exportSince != "" {
				t, perr := parseDate(exportSince)
				if perr != nil {
					return fmt.Errorf("invalid date format: %s (use YYYY-MM-DD)", exportSince)
				}
				since = &t
			}
			md, jerr := svc.ExportJournal(ctx, exportStudent, since)
			if jerr != nil {
				return jerr
			}
			data = []byte(md)
		default:
			return fmt.Errorf("unknown format: %s (use json, yaml, or markdown)", format)
		}
		if err != nil {
			return fmt.Errorf("export failed: %w", err)
		}

		if exportOutput != "" {
			if err := os.WriteFile(exportOutput, data, 0600); err != nil {
				return fmt.Errorf("failed to write file: %w", err)
			}
			color.Green("✓ Exported to %s", exportOutput)
		} else {
			fmt.Println(string(data))
		}

		return nil
	},
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import a family from a JSON export",
	Long: `Import a family from a JSON export file.

Everything in the export is recreated with new IDs inside an empty family.
Template metrics are matched by name. Importing into a family that already
has students, subjects or custom metrics is refused.

EXAMPLES:

  daybook import backup.json --create          # Create the family, then import
  daybook import backup.json --family 3        # Import into empty family 3`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		filename := args[0]

		raw, err := os.ReadFile(filename)
		if err != nil {
			return fmt.Errorf("failed to read file: %w", err)
		}
		data, err := storage.DecodeJSON(raw)
		if err != nil {
			return fmt.Errorf("failed to parse %s: %w", filename, err)
		}

		var familyID int64
		if importCreate {
			name := "Imported family"
			if data.Family != nil && data.Family.Name != "" {
				name = data.Family.Name
			}
			res, err := svc.CreateFamily(ctx, daybook.FamilyInput{Name: name})
			if err != nil {
				return err
			}
			familyID = res.ID
		} else if familyID, err = currentFamily(ctx); err != nil {
			return err
		}

		stats, err := svc.ImportFamily(ctx, familyID, data)
		if err != nil {
			if importCreate {
				// The family was created for this import only.
				if _, derr := svc.DeleteFamily(ctx, familyID); derr != nil {
					logger.Warn("could not remove family after failed import", "family_id", familyID, "error", derr)
				}
			}
			return err
		}

		color.Green("✓ Imported from %s", filename)
		fmt.Printf("  family %s: %d students, %d subjects, %d metrics, %d logs\n",
			faint(familyID), stats.Students, stats.Subjects, stats.Metrics, stats.DailyLogs)
		if stats.Skipped > 0 {
			color.Yellow("  %d records skipped", stats.Skipped)
		}
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "output file (default: stdout)")
	exportCmd.Flags().Int64VarP(&exportStudent, "student", "s", 0, "student ID (markdown only)")
	exportCmd.Flags().StringVar(&exportSince, "since", "", "only include days since date (YYYY-MM-DD)")

	importCmd.Flags().BoolVar(&importCreate, "create", false, "create a new family named after the export")

	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
}
