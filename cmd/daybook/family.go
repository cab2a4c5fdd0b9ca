// ABOUTME: CLI commands for managing families.
// ABOUTME: Adds, lists, renames and deletes families.
package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harperreed/daybook/internal/daybook"
)

var familyCmd = &cobra.Command{
	Use:   "family",
	Short: "Manage families",
	Long: `Manage families. A family owns its students, subjects and custom metrics.

EXAMPLES:

  daybook family add "Reed Family"
  daybook family list
  daybook family rename 1 "The Reeds"
  daybook family delete 1`,
}

var familyAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Create a family",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		res, err := svc.CreateFamily(cmd.Context(), daybook.FamilyInput{Name: args[0]})
		if err != nil {
			return err
		}
		color.Green("✓ %s", res.Message)
		fmt.Printf("  %s %s\n", faint(res.ID), args[0])
		return nil
	},
}

var familyListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List families",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		families, err := svc.ListFamilies(cmd.Context())
		if err != nil {
			return err
		}
		if len(families) == 0 {
			fmt.Println("No families found.")
			return nil
		}
		for _, f := range families {
			fmt.Printf("%s  %s\n", faint(padRight(fmt.Sprint(f.ID), 4)), f.Name)
		}
		return nil
	},
}

var familyRenameCmd = &cobra.Command{
	Use:   "rename <id> <name>",
	Short: "Rename a family",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0], "family")
		if err != nil {
			return err
		}
		res, err := svc.RenameFamily(cmd.Context(), id, daybook.FamilyInput{Name: args[1]})
		if err != nil {
			return err
		}
		color.Green("✓ %s", res.Message)
		return nil
	},
}

var familyDeleteCmd = &cobra.Command{
	Use:     "delete <id>",
	Aliases: []string{"rm"},
	Short:   "Delete a family and everything it owns",
	Long: `Delete a family with its students, subjects, custom metrics and logs.

CAUTION:

  This permanently deletes the family's data. There is no undo.
  Run 'daybook export json' first if you want a copy.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0], "family")
		if err != nil {
			return err
		}
		f, err := svc.GetFamily(cmd.Context(), id)
		if err != nil {
			return err
		}
		if _, err := svc.DeleteFamily(cmd.Context(), id); err != nil {
			return err
		}
		color.Yellow("✗ Deleted family %s", f.Name)
		return nil
	},
}

func init() {
	familyCmd.AddCommand(familyAddCmd, familyListCmd, familyRenameCmd, familyDeleteCmd)
	rootCmd.AddCommand(familyCmd)
}
