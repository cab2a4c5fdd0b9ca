// ABOUTME: CLI command for starting the MCP server.
// ABOUTME: Runs a stdio-based MCP server for AI assistant integration.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/harperreed/daybook/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start MCP server",
	Long: `Start the Model Context Protocol (MCP) server for AI assistant integration.

MCP lets AI assistants read and record daybook entries through a standard
protocol. The server communicates via stdin/stdout; logs go to stderr.

CLAUDE DESKTOP CONFIGURATION:

  {
    "mcpServers": {
      "daybook": {
        "command": "daybook",
        "args": ["mcp"]
      }
    }
  }

AVAILABLE TOOLS:

  list_families, create_family          Families
  list_students, create_student         Students
  list_subjects, create_subject         Subjects
  assign_subject                        Give a student a subject
  list_metrics, create_metric           Metric catalog
  student_metrics                       Student or student-subject settings
  configure_student_metric              Enable or disable a metric for a student
  configure_subject_metric              Override a metric for one subject
  metrics_for_log                       Metrics to record for a student and subject
  create_daily_log, update_daily_log    Record a day
  get_daily_log, list_daily_logs        Read logs
  delete_daily_log                      Remove a log
  export_journal                        A student's Markdown journal

AVAILABLE RESOURCES:

  daybook://metrics/templates   Built-in template metrics
  daybook://families            Families with students and subjects`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		server, err := mcp.NewServer(svc, logger)
		if err != nil {
			return err
		}

		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		// Handle shutdown signals
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(sigChan)
		go func() {
			select {
			case <-sigChan:
				cancel()
			case <-ctx.Done():
			}
		}()

		return server.Serve(ctx)
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
