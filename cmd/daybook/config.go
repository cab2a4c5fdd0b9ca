// ABOUTME: CLI commands for student and per-subject metric configuration.
// ABOUTME: Shows, enables and disables metrics; sets subject overrides.
package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harperreed/daybook/internal/daybook"
)

var configPerSubject bool

var configCmd = &cobra.Command{
	Use:     "config",
	Aliases: []string{"cfg"},
	Short:   "Configure which metrics apply to a student",
	Long: `Configure which metrics show up on a student's daily logs.

A metric is enabled per student. By default an enabled metric applies to every
subject; a subject can turn it off. Enabled with --per-subject, it applies only
to subjects that turn it on.

EXAMPLES:

  daybook config show 1                 # student 1, every visible metric
  daybook config enable 1 3             # metric 3 for all of student 1's subjects
  daybook config enable 1 4 --per-subject
  daybook config disable 1 3
  daybook config subject 1 2            # what applies to student 1 in subject 2
  daybook config set 1 2 4 on           # turn metric 4 on for subject 2
  daybook config set 1 2 3 off          # turn metric 3 off for subject 2`,
}

var configShowCmd = &cobra.Command{
	Use:   "show <student-id>",
	Short: "Show a student's metric settings",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		studentID, err := parseID(args[0], "student")
		if err != nil {
			return err
		}
		st, err := svc.GetStudent(ctx, studentID)
		if err != nil {
			return err
		}
		rows, err := svc.MetricsForStudent(ctx, studentID, st.FamilyID)
		if err != nil {
			return err
		}

		color.New(color.Bold).Printf("Metrics for %s\n", st.Name)
		for _, r := range rows {
			status := faint("off")
			if r.IsEnabled {
				scope := "all subjects"
				if !r.AppliesToAllSubjects {
					scope = "per subject"
				}
				status = color.GreenString("on") + faint(" ("+scope+")")
			}
			fmt.Printf("  %s  %s  %s\n",
				faint(padRight(fmt.Sprint(r.Metric.ID), 4)),
				padRight(truncate(r.Metric.Name, 22), 22),
				status)
		}
		return nil
	},
}

var configEnableCmd = &cobra.Command{
	Use:   "enable <student-id> <metric-id>",
	Short: "Enable a metric for a student",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		studentID, metricID, err := parseStudentMetric(args)
		if err != nil {
			return err
		}
		res, err := svc.EnableMetricForStudent(cmd.Context(), studentID, metricID, !configPerSubject)
		if err != nil {
			return err
		}
		color.Green("✓ %s", res.Message)
		return nil
	},
}

var configDisableCmd = &cobra.Command{
	Use:   "disable <student-id> <metric-id>",
	Short: "Disable a metric for a student",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		studentID, metricID, err := parseStudentMetric(args)
		if err != nil {
			return err
		}
		res, err := svc.DisableMetricForStudent(cmd.Context(), studentID, metricID)
		if err != nil {
			return err
		}
		color.Yellow("✗ %s", res.Message)
		return nil
	},
}

var configSubjectCmd = &cobra.Command{
	Use:   "subject <student-id> <subject-id>",
	Short: "Show which metrics apply to a student in one subject",
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
		su, err := svc.GetSubject(ctx, subjectID)
		if err != nil {
			return err
		}
		rows, err := svc.AvailableMetricsForStudentSubject(ctx, studentID, subjectID, st.FamilyID)
		if err != nil {
			return err
		}

		color.New(color.Bold).Printf("%s / %s\n", st.Name, su.Name)
		if len(rows) == 0 {
			fmt.Println("  No metrics enabled for this student.")
			return nil
		}
		for _, r := range rows {
			status := color.GreenString("on")
			if !r.IsEnabled {
				status = faint("off")
			}
			if r.HasOverride {
				status += faint(" (override)")
			}
			fmt.Printf("  %s  %s  %s\n",
				faint(padRight(fmt.Sprint(r.Metric.ID), 4)),
				padRight(truncate(r.Metric.Name, 22), 22),
				status)
		}
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <student-id> <subject-id> <metric-id> <on|off>",
	Short: "Turn a metric on or off for one subject",
	Args:  cobra.ExactArgs(4),
	RunE: func(cmd *cobra.Command, args []string) error {
		studentID, subjectID, err := parseStudentSubject(args[:2])
		if err != nil {
			return err
		}
		metricID, err := parseID(args[2], "metric")
		if err != nil {
			return err
		}
		enabled, err := parseBool(args[3])
		if err != nil {
			return fmt.Errorf("invalid setting %q: use on or off", strings.TrimSpace(args[3]))
		}

		res, err := svc.SaveStudentSubjectMetricConfig(cmd.Context(), studentID, subjectID,
			[]daybook.SubjectMetricSetting{{MetricID: metricID, IsEnabled: enabled}})
		if err != nil {
			return err
		}
		color.Green("✓ %s", res.Message)
		return nil
	},
}

func parseStudentMetric(args []string) (int64, int64, error) {
	studentID, err := parseID(args[0], "student")
	if err != nil {
		return 0, 0, err
	}
	metricID, err := parseID(args[1], "metric")
	if err != nil {
		return 0, 0, err
	}
	return studentID, metricID, nil
}

func init() {
	configEnableCmd.Flags().BoolVar(&configPerSubject, "per-subject", false, "apply only to subjects that turn the metric on")

	configCmd.AddCommand(configShowCmd, configEnableCmd, configDisableCmd, configSubjectCmd, configSetCmd)
	rootCmd.AddCommand(configCmd)
}
