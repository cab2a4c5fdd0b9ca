// ABOUTME: CLI commands for daily logs.
// ABOUTME: Creates, updates, shows, lists and deletes logs with metric values.
package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harperreed/daybook/internal/daybook"
	"github.com/harperreed/daybook/internal/models"
)

var (
	logDate    string
	logNotes   string
	logValues  []string
	logSubject int64
	logLimit   int
)

var logCmd = &cobra.Command{
	Use:     "log",
	Aliases: []string{"l"},
	Short:   "Record and review daily logs",
	Long: `Record what a student did in a subject on a day.

Each student has at most one log per subject per day. Values are given as
metric=value where the metric is its ID or name; boolean metrics take yes/no,
categorical metrics one of their options, numeric metrics a number.

EXAMPLES:

  daybook log metrics 1 2                              # what to record
  daybook log add 1 2 --value "Minutes spent=45" --value Focus=High
  daybook log add 1 2 --date 2025-09-01 --notes "Long division"
  daybook log list 1
  daybook log list 1 --subject 2 -n 5
  daybook log show 7
  daybook log update 7 --value "Minutes spent=50"
  daybook log delete 7`,
}

var logAddCmd = &cobra.Command{
	Use:     "add <student-id> <subject-id>",
	Aliases: []string{"a"},
	Short:   "Create a daily log",
	Args:    cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		studentID, subjectID, err := parseStudentSubject(args)
		if err != nil {
			return err
		}
		st, err := svc.GetStudent(ctx, studentID)
		if err != nil {
			return err
		}
		date, err := dateOrToday(logDate)
		if err != nil {
			return err
		}

		in := daybook.DailyLogInput{
			StudentID: studentID,
			SubjectID: subjectID,
			Date:      date,
			Notes:     optional(logNotes),
		}
		if len(logValues) > 0 {
			metrics, err := svc.ListVisibleMetrics(ctx, st.FamilyID)
			if err != nil {
				return err
			}
			if in.Values, err = parseValueFlags(metrics, logValues); err != nil {
				return err
			}
		}

		res, err := svc.CreateDailyLog(ctx, in)
		if err != nil {
			return err
		}
		color.Green("✓ %s", res.Message)
		fmt.Printf("  %s %s %s\n", faint(res.ID), st.Name, date.Format(models.DateLayout))
		return nil
	},
}

var logUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update a daily log",
	Long: `Update a daily log's date, notes or values.

Values given with --value replace the stored value for that metric; other
recorded values are kept.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		id, err := parseID(args[0], "log")
		if err != nil {
			return err
		}
		l, err := svc.GetDailyLog(ctx, id)
		if err != nil {
			return err
		}

		in := daybook.DailyLogInput{
			StudentID: l.StudentID,
			SubjectID: l.SubjectID,
			Date:      l.Date,
			Notes:     l.Notes,
		}
		if cmd.Flags().Changed("date") {
			if in.Date, err = dateOrToday(logDate); err != nil {
				return err
			}
		}
		if cmd.Flags().Changed("notes") {
			in.Notes = optional(logNotes)
		}

		var changes []models.MetricValueInput
		if len(logValues) > 0 {
			st, err := svc.GetStudent(ctx, l.StudentID)
			if err != nil {
				return err
			}
			metrics, err := svc.ListVisibleMetrics(ctx, st.FamilyID)
			if err != nil {
				return err
			}
			if changes, err = parseValueFlags(metrics, logValues); err != nil {
				return err
			}
		}
		in.Values = mergeValues(l.Values, changes)

		res, err := svc.UpdateDailyLog(ctx, id, in)
		if err != nil {
			return err
		}
		color.Green("✓ %s", res.Message)
		return nil
	},
}

var logShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a daily log with its values",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0], "log")
		if err != nil {
			return err
		}
		l, err := svc.GetDailyLog(cmd.Context(), id)
		if err != nil {
			return err
		}

		color.New(color.Bold).Printf("%s - %s\n", l.Date.Format(models.DateLayout), l.SubjectName)
		fmt.Printf("  ID:      %d\n", l.ID)
		fmt.Printf("  Student: %s\n", l.StudentName)
		if l.Notes != nil {
			fmt.Printf("  Notes:   %s\n", *l.Notes)
		}
		if len(l.Values) == 0 {
			fmt.Println(faint("  No metric values recorded."))
			return nil
		}
		fmt.Println()
		for _, v := range l.Values {
			fmt.Printf("  %s %s\n", padRight(v.MetricName+":", 24), v.Value.String())
		}
		return nil
	},
}

var logListCmd = &cobra.Command{
	Use:     "list <student-id>",
	Aliases: []string{"ls"},
	Short:   "List a student's daily logs, newest first",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		studentID, err := parseID(args[0], "student")
		if err != nil {
			return err
		}

		var logs []*models.DailyLog
		if logSubject > 0 {
			logs, err = svc.ListDailyLogsForStudentSubject(ctx, studentID, logSubject)
		} else {
			logs, err = svc.ListDailyLogsForStudent(ctx, studentID)
		}
		if err != nil {
			return err
		}
		if len(logs) == 0 {
			fmt.Println("No daily logs found.")
			return nil
		}
		if logLimit > 0 && len(logs) > logLimit {
			logs = logs[:logLimit]
		}

		fmt.Printf("%s  %s  %s  %s\n",
			color.New(color.Bold).Sprint(padRight("ID", 5)),
			color.New(color.Bold).Sprint(padRight("DATE", 10)),
			color.New(color.Bold).Sprint(padRight("SUBJECT", 16)),
			color.New(color.Bold).Sprint("VALUES"))
		for _, l := range logs {
			parts := make([]string, 0, len(l.Values))
			for _, v := range l.Values {
				parts = append(parts, v.MetricName+"="+v.Value.String())
			}
			fmt.Printf("%s  %s  %s  %s\n",
				faint(padRight(fmt.Sprint(l.ID), 5)),
				l.Date.Format(models.DateLayout),
				padRight(truncate(l.SubjectName, 16), 16),
				truncate(strings.Join(parts, ", "), 60))
		}
		return nil
	},
}

var logDeleteCmd = &cobra.Command{
	Use:     "delete <id>",
	Aliases: []string{"del", "rm"},
	Short:   "Delete a daily log",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		id, err := parseID(args[0], "log")
		if err != nil {
			return err
		}
		l, err := svc.GetDailyLog(ctx, id)
		if err != nil {
			return err
		}
		if _, err := svc.DeleteDailyLog(ctx, id); err != nil {
			return err
		}
		color.Yellow("✗ Deleted log for %s", l.StudentName)
		fmt.Printf("  %s %s %s\n", faint(l.ID), l.SubjectName, l.Date.Format(models.DateLayout))
		return nil
	},
}

var logMetricsCmd = &cobra.Command{
	Use:   "metrics <student-id> <subject-id>",
	Short: "List the metrics to record for a student and subject",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		studentID, subjectID, err := parseStudentSubject(args)
		if err != nil {
			return err
		}
		st, err := svc.GetStudent(ctx, studentID)
		if err != nil {
			return err
		}
		metrics, err := svc.AvailableMetrics(ctx, studentID, subjectID, st.FamilyID)
		if err != nil {
			return err
		}
		if len(metrics) == 0 {
			fmt.Println("No metrics apply. Enable some with 'daybook config enable'.")
			return nil
		}
		for _, m := range metrics {
			fmt.Printf("%s  %s  %s\n",
				faint(padRight(fmt.Sprint(m.ID), 4)),
				padRight(truncate(m.Name, 22), 22),
				faint(metricDetails(m)))
		}
		return nil
	},
}

// mergeValues keeps the stored values and replaces those named in changes.
func mergeValues(stored []models.DailyLogValue, changes []models.MetricValueInput) []models.MetricValueInput {
	changed := make(map[int64]bool, len(changes))
	for _, c := range changes {
		changed[c.MetricID] = true
	}
	out := make([]models.MetricValueInput, 0, len(stored)+len(changes))
	for _, v := range stored {
		if !changed[v.MetricID] {
			out = append(out, v.Value.Input(v.MetricID))
		}
	}
	return append(out, changes...)
}

func init() {
	for _, c := range []*cobra.Command{logAddCmd, logUpdateCmd} {
		c.Flags().StringVarP(&logDate, "date", "d", "", "log date (YYYY-MM-DD, default today)")
		c.Flags().StringVar(&logNotes, "notes", "", "notes for the day")
		c.Flags().StringArrayVarP(&logValues, "value", "v", nil, "metric value as metric=value (repeatable)")
	}
	logListCmd.Flags().Int64VarP(&logSubject, "subject", "s", 0, "only logs for this subject ID")
	logListCmd.Flags().IntVarP(&logLimit, "limit", "n", 20, "max number of results")

	logCmd.AddCommand(logAddCmd, logUpdateCmd, logShowCmd, logListCmd, logDeleteCmd, logMetricsCmd)
	rootCmd.AddCommand(logCmd)
}
