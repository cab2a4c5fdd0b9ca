// ABOUTME: CLI commands for managing subjects.
// ABOUTME: Adds, lists, updates and deletes a family's subjects.
package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harperreed/daybook/internal/daybook"
)

var (
	subjectName        string
	subjectDescription string
)

var subjectCmd = &cobra.Command{
	Use:     "subject",
	Aliases: []string{"su"},
	Short:   "Manage subjects",
	Long: `Manage the subjects a family teaches.

EXAMPLES:

  daybook subject add Math --description "Singapore 4A"
  daybook subject list
  daybook subject update 2 --name "Reading & Writing"
  daybook subject delete 2`,
}

var subjectAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add a subject to the family",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		familyID, err := currentFamily(ctx)
		if err != nil {
			return err
		}
		res, err := svc.CreateSubject(ctx, familyID, daybook.SubjectInput{
			Name:        args[0],
			Description: optional(subjectDescription),
		})
		if err != nil {
			return err
		}
		color.Green("✓ %s", res.Message)
		fmt.Printf("  %s %s\n", faint(res.ID), args[0])
		return nil
	},
}

var subjectListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List the family's subjects",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		familyID, err := currentFamily(ctx)
		if err != nil {
			return err
		}
		subjects, err := svc.ListSubjects(ctx, familyID)
		if err != nil {
			return err
		}
		if len(subjects) == 0 {
			fmt.Println("No subjects found.")
			return nil
		}
		for _, su := range subjects {
			fmt.Printf("%s  %s  %s\n",
				faint(padRight(fmt.Sprint(su.ID), 4)),
				padRight(truncate(su.Name, 24), 24),
				faint(truncate(deref(su.Description), 40)))
		}
		return nil
	},
}

var subjectUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Rename a subject or change its description",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		id, err := parseID(args[0], "subject")
		if err != nil {
			return err
		}
		su, err := svc.GetSubject(ctx, id)
		if err != nil {
			return err
		}

		in := daybook.SubjectInput{Name: su.Name, Description: su.Description}
		if cmd.Flags().Changed("name") {
			in.Name = subjectName
		}
		if cmd.Flags().Changed("description") {
			in.Description = optional(subjectDescription)
		}

		res, err := svc.UpdateSubject(ctx, id, in)
		if err != nil {
			return err
		}
		color.Green("✓ %s", res.Message)
		return nil
	},
}

var subjectDeleteCmd = &cobra.Command{
	Use:     "delete <id>",
	Aliases: []string{"rm"},
	Short:   "Delete a subject with its logs and overrides",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		id, err := parseID(args[0], "subject")
		if err != nil {
			return err
		}
		su, err := svc.GetSubject(ctx, id)
		if err != nil {
			return err
		}
		if _, err := svc.DeleteSubject(ctx, id); err != nil {
			return err
		}
		color.Yellow("✗ Deleted subject %s", su.Name)
		return nil
	},
}

func init() {
	subjectAddCmd.Flags().StringVar(&subjectDescription, "description", "", "subject description")

	subjectUpdateCmd.Flags().StringVar(&subjectName, "name", "", "new name")
	subjectUpdateCmd.Flags().StringVar(&subjectDescription, "description", "", "description (empty to clear)")

	subjectCmd.AddCommand(subjectAddCmd, subjectListCmd, subjectUpdateCmd, subjectDeleteCmd)
	rootCmd.AddCommand(subjectCmd)
}
