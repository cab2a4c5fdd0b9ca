// ABOUTME: Root Cobra command for the daybook CLI.
// ABOUTME: Opens config, logger, storage and the service in PersistentPreRunE.
package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/harperreed/daybook/internal/config"
	"github.com/harperreed/daybook/internal/daybook"
	"github.com/harperreed/daybook/internal/logging"
	"github.com/harperreed/daybook/internal/storage"
)

var (
	db     *storage.DB
	svc    *daybook.Service
	logger *logging.Logger

	dbPath     string
	familyFlag int64
)

var rootCmd = &cobra.Command{
	Use:   "daybook",
	Short: "Family homeschool daybook",
	Long: `Daybook records what each student did in each subject, day by day.

WHAT IT TRACKS:

  Families   a household with its students and subjects
  Metrics    yes/no, pick-one and numeric measures (templates plus your own)
  Logs       one entry per student, subject and day with metric values

QUICK START:

  $ daybook family add "Reed Family"
  $ daybook student add Ada --dob 2015-06-03
  $ daybook subject add Math
  $ daybook student assign 1 1
  $ daybook config enable 1 3
  $ daybook log add 1 1 --value "Minutes spent=45" --notes "Fractions"
  $ daybook log list 1

METRIC CONFIGURATION:

  A metric shows up on a student's log once it is enabled for the student.
  It applies to every subject unless a subject turns it off; enabled with
  --per-subject it applies only where a subject turns it on.

  $ daybook config show 1               # student-level settings
  $ daybook config subject 1 2          # what applies to one subject
  $ daybook config set 1 2 3 off        # override one metric for one subject

MCP INTEGRATION:

  Run 'daybook mcp' to start the Model Context Protocol server for use with
  Claude Desktop or other MCP-compatible AI assistants.

DATA STORAGE:

  Data lives in a SQLite database at ~/.local/share/daybook/daybook.db.
  Move it with 'daybook settings --data-dir <dir>' or DAYBOOK_DATA_DIR,
  or pass --db for a single run.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip storage init for commands that don't need it
		if cmd.Name() == "version" || cmd.Name() == "help" || cmd.Name() == "completion" ||
			cmd.Name() == "install-skill" || cmd.Name() == "settings" {
			return nil
		}

		if err := config.LoadEnv(); err != nil {
			return err
		}
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		logger, err = logging.New(cfg.GetLogMode())
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		db, err = cfg.OpenStorage(dbPath)
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}

		svc = daybook.New(db, logger)
		if _, err := svc.SeedTemplates(cmd.Context()); err != nil {
			return fmt.Errorf("failed to seed template metrics: %w", err)
		}
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if logger != nil {
			logger.Sync()
		}
		if db != nil {
			err := db.Close()
			db = nil
			return err
		}
		return nil
	},
}

// currentFamily resolves the family a command works on: --family when given,
// otherwise the only family in the database.
func currentFamily(ctx context.Context) (int64, error) {
	if familyFlag > 0 {
		if _, err := svc.GetFamily(ctx, familyFlag); err != nil {
			return 0, err
		}
		return familyFlag, nil
	}

	families, err := svc.ListFamilies(ctx)
	if err != nil {
		return 0, err
	}
	switch len(families) {
	case 0:
		return 0, fmt.Errorf("no families yet; create one with 'daybook family add <name>'")
	case 1:
		return families[0].ID, nil
	default:
		return 0, fmt.Errorf("%d families found; pick one with --family <id>", len(families))
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "database file (overrides the configured data directory)")
	rootCmd.PersistentFlags().Int64VarP(&familyFlag, "family", "f", 0, "family ID (defaults to the only family)")
}
