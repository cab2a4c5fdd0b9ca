// ABOUTME: CLI commands for the metric catalog.
// ABOUTME: Lists template and custom metrics; adds, updates and deletes custom ones.
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
	metricListTemplates bool
	metricListCustom    bool

	metricName        string
	metricKind        string
	metricCategory    string
	metricDescription string
	metricValues      []string
	metricMin         float64
	metricMax         float64
	metricUnit        string
)

var metricCmd = &cobra.Command{
	Use:     "metric",
	Aliases: []string{"m"},
	Short:   "Manage the metric catalog",
	Long: `Manage the metrics a family can record on daily logs.

Template metrics are built in and shared by every family; they cannot be
changed. Custom metrics belong to one family.

METRIC TYPES:

  boolean      yes or no
  categorical  one of a fixed list (--values)
  numeric      a number, optionally bounded (--min, --max) with a --unit

EXAMPLES:

  daybook metric list
  daybook metric list --custom
  daybook metric add "Chapters read" --kind numeric --min 0 --unit chapters
  daybook metric add "Attitude" --kind categorical --values Eager,Steady,Reluctant
  daybook metric add "Practiced piano" --kind boolean --category Music
  daybook metric show 9
  daybook metric update 9 --max 20
  daybook metric delete 9`,
}

var metricListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List metrics visible to the family",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		var (
			metrics []*models.Metric
			err     error
		)
		if metricListTemplates {
			metrics, err = svc.ListTemplates(ctx)
		} else {
			familyID, ferr := currentFamily(ctx)
			if ferr != nil {
				return ferr
			}
			if metricListCustom {
				metrics, err = svc.ListCustomMetrics(ctx, familyID)
			} else {
				metrics, err = svc.ListVisibleMetrics(ctx, familyID)
			}
		}
		if err != nil {
			return err
		}
		if len(metrics) == 0 {
			fmt.Println("No metrics found.")
			return nil
		}

		fmt.Printf("%s  %s  %s  %s  %s\n",
			color.New(color.Bold).Sprint(padRight("ID", 4)),
			color.New(color.Bold).Sprint(padRight("NAME", 22)),
			color.New(color.Bold).Sprint(padRight("TYPE", 12)),
			color.New(color.Bold).Sprint(padRight("CATEGORY", 14)),
			color.New(color.Bold).Sprint("DETAILS"))
		for _, m := range metrics {
			name := truncate(m.Name, 22)
			if m.IsTemplate {
				name = truncate(m.Name, 20) + " *"
			}
			fmt.Printf("%s  %s  %s  %s  %s\n",
				faint(padRight(fmt.Sprint(m.ID), 4)),
				padRight(name, 22),
				padRight(string(m.Kind), 12),
				padRight(truncate(m.CategoryOrEmpty(), 14), 14),
				faint(metricDetails(m)))
		}
		fmt.Println(faint("* template metric"))
		return nil
	},
}

var metricShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a metric",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0], "metric")
		if err != nil {
			return err
		}
		m, err := svc.GetMetric(cmd.Context(), id)
		if err != nil {
			return err
		}

		color.New(color.Bold).Printf("%s\n", m.Name)
		fmt.Printf("  ID:       %d\n", m.ID)
		fmt.Printf("  Type:     %s\n", m.Kind)
		if m.IsTemplate {
			fmt.Printf("  Template: yes\n")
		}
		if c := m.CategoryOrEmpty(); c != "" {
			fmt.Printf("  Category: %s\n", c)
		}
		if m.Description != nil {
			fmt.Printf("  About:    %s\n", *m.Description)
		}
		if d := metricDetails(m); d != "" {
			fmt.Printf("  Accepts:  %s\n", d)
		}
		return nil
	},
}

var metricAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add a custom metric to the family",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		familyID, err := currentFamily(ctx)
		if err != nil {
			return err
		}

		kind, err := models.ParseMetricKind(metricKind)
		if err != nil {
			return fmt.Errorf("invalid --kind %q: use boolean, categorical or numeric", metricKind)
		}
		in := daybook.MetricInput{
			Name:        args[0],
			Kind:        kind,
			Category:    optional(metricCategory),
			Description: optional(metricDescription),
		}
		if err := applyMetricFlags(cmd, &in, models.NumericConfig{}); err != nil {
			return err
		}

		res, err := svc.CreateMetric(ctx, familyID, in)
		if err != nil {
			return err
		}
		color.Green("✓ %s", res.Message)
		fmt.Printf("  %s %s (%s)\n", faint(res.ID), args[0], kind)
		return nil
	},
}

var metricUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update a custom metric",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		id, err := parseID(args[0], "metric")
		if err != nil {
			return err
		}
		m, err := svc.GetMetric(ctx, id)
		if err != nil {
			return err
		}

		in := daybook.MetricInput{
			Name:           m.Name,
			Kind:           m.Kind,
			Category:       m.Category,
			Description:    m.Description,
			PossibleValues: m.PossibleValuesJSON,
			NumericConfig:  m.NumericConfigJSON,
		}
		if cmd.Flags().Changed("name") {
			in.Name = metricName
		}
		if cmd.Flags().Changed("kind") {
			kind, err := models.ParseMetricKind(metricKind)
			if err != nil {
				return fmt.Errorf("invalid --kind %q: use boolean, categorical or numeric", metricKind)
			}
			in.Kind = kind
		}
		if cmd.Flags().Changed("category") {
			in.Category = optional(metricCategory)
		}
		if cmd.Flags().Changed("description") {
			in.Description = optional(metricDescription)
		}
		current, _ := m.NumericBounds()
		if err := applyMetricFlags(cmd, &in, current); err != nil {
			return err
		}

		res, err := svc.UpdateMetric(ctx, id, in)
		if err != nil {
			return err
		}
		color.Green("✓ %s", res.Message)
		return nil
	},
}

var metricDeleteCmd = &cobra.Command{
	Use:     "delete <id>",
	Aliases: []string{"rm"},
	Short:   "Delete a custom metric and its recorded values",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		id, err := parseID(args[0], "metric")
		if err != nil {
			return err
		}
		m, err := svc.GetMetric(ctx, id)
		if err != nil {
			return err
		}
		if _, err := svc.DeleteMetric(ctx, id); err != nil {
			return err
		}
		color.Yellow("✗ Deleted metric %s", m.Name)
		return nil
	},
}

// applyMetricFlags encodes --values and the numeric bound flags into the
// input's stored config. Bounds not given on the command line keep their
// current values.
func applyMetricFlags(cmd *cobra.Command, in *daybook.MetricInput, current models.NumericConfig) error {
	if cmd.Flags().Changed("values") {
		values := make([]string, 0, len(metricValues))
		for _, v := range metricValues {
			if v = strings.TrimSpace(v); v != "" {
				values = append(values, v)
			}
		}
		raw, err := models.EncodePossibleValues(values)
		if err != nil {
			return err
		}
		in.PossibleValues = &raw
	}

	changed := false
	if cmd.Flags().Changed("min") {
		v := metricMin
		current.Min = &v
		changed = true
	}
	if cmd.Flags().Changed("max") {
		v := metricMax
		current.Max = &v
		changed = true
	}
	if cmd.Flags().Changed("unit") {
		current.Unit = strings.TrimSpace(metricUnit)
		changed = true
	}
	if changed {
		raw, err := models.EncodeNumericConfig(current)
		if err != nil {
			return err
		}
		in.NumericConfig = &raw
	}
	return nil
}

// metricDetails describes what values a metric accepts.
func metricDetails(m *models.Metric) string {
	switch m.Kind {
	case models.KindBoolean:
		return "yes/no"
	case models.KindCategorical:
		if values, ok := m.PossibleValues(); ok {
			return strings.Join(values, " | ")
		}
	case models.KindNumeric:
		if cfg, ok := m.NumericBounds(); ok {
			var parts []string
			if cfg.Min != nil {
				parts = append(parts, "min "+models.FormatNumber(*cfg.Min))
			}
			if cfg.Max != nil {
				parts = append(parts, "max "+models.FormatNumber(*cfg.Max))
			}
			if cfg.Unit != "" {
				parts = append(parts, cfg.Unit)
			}
			return strings.Join(parts, ", ")
		}
	}
	return ""
}

func init() {
	metricListCmd.Flags().BoolVar(&metricListTemplates, "templates", false, "only built-in template metrics")
	metricListCmd.Flags().BoolVar(&metricListCustom, "custom", false, "only the family's custom metrics")

	for _, c := range []*cobra.Command{metricAddCmd, metricUpdateCmd} {
		c.Flags().StringVarP(&metricKind, "kind", "k", "", "metric type: boolean, categorical or numeric")
		c.Flags().StringVar(&metricCategory, "category", "", "category used for grouping")
		c.Flags().StringVar(&metricDescription, "description", "", "what the metric measures")
		c.Flags().StringSliceVar(&metricValues, "values", nil, "allowed values for a categorical metric (comma-separated)")
		c.Flags().Float64Var(&metricMin, "min", 0, "minimum for a numeric metric")
		c.Flags().Float64Var(&metricMax, "max", 0, "maximum for a numeric metric")
		c.Flags().StringVar(&metricUnit, "unit", "", "unit label for a numeric metric")
	}
	metricUpdateCmd.Flags().StringVar(&metricName, "name", "", "new name")
	_ = metricAddCmd.MarkFlagRequired("kind")

	metricCmd.AddCommand(metricListCmd, metricShowCmd, metricAddCmd, metricUpdateCmd, metricDeleteCmd)
	rootCmd.AddCommand(metricCmd)
}
