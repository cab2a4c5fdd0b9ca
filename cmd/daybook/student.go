// ABOUTME: CLI commands for managing students and their subject assignments.
// ABOUTME: Adds, lists, shows, updates and deletes students; assigns subjects.
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
	studentName  string
	studentDOB   string
	studentNotes string
)

var studentCmd = &cobra.Command{
	Use:     "student",
	Aliases: []string{"st"},
	Short:   "Manage students",
	Long: `Manage the students of a family and the subjects they take.

EXAMPLES:

  daybook student add Ada --dob 2015-06-03
  daybook student list
  daybook student show 1
  daybook student update 1 --notes "Prefers mornings"
  daybook student assign 1 2          # student 1 takes subject 2
  daybook student unassign 1 2
  daybook student delete 1`,
}

var studentAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add a student to the family",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		familyID, err := currentFamily(ctx)
		if err != nil {
			return err
		}

		in := daybook.StudentInput{Name: args[0], Notes: optional(studentNotes)}
		if studentDOB != "" {
			dob, err := parseDate(studentDOB)
			if err != nil {
				return fmt.Errorf("invalid date of birth: %s", studentDOB)
			}
			in.DateOfBirth = &dob
		}

		res, err := svc.CreateStudent(ctx, familyID, in)
		if err != nil {
			return err
		}
		color.Green("✓ %s", res.Message)
		fmt.Printf("  %s %s\n", faint(res.ID), args[0])
		return nil
	},
}

var studentListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List the family's students",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		familyID, err := currentFamily(ctx)
		if err != nil {
			return err
		}
		students, err := svc.ListStudents(ctx, familyID)
		if err != nil {
			return err
		}
		if len(students) == 0 {
			fmt.Println("No students found.")
			return nil
		}

		fmt.Printf("%s  %s  %s\n",
			color.New(color.Bold).Sprint(padRight("ID", 4)),
			color.New(color.Bold).Sprint(padRight("NAME", 20)),
			color.New(color.Bold).Sprint("BORN"))
		for _, st := range students {
			fmt.Printf("%s  %s  %s\n",
				faint(padRight(fmt.Sprint(st.ID), 4)),
				padRight(truncate(st.Name, 20), 20),
				formatDOB(st))
		}
		return nil
	},
}

var studentShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a student with assigned subjects",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		id, err := parseID(args[0], "student")
		if err != nil {
			return err
		}
		st, err := svc.GetStudent(ctx, id)
		if err != nil {
			return err
		}
		subjects, err := svc.SubjectsForStudent(ctx, id)
		if err != nil {
			return err
		}

		color.New(color.Bold).Printf("%s\n", st.Name)
		fmt.Printf("  ID:       %d\n", st.ID)
		fmt.Printf("  Born:     %s\n", formatDOB(st))
		if st.Notes != nil {
			fmt.Printf("  Notes:    %s\n", *st.Notes)
		}
		names := make([]string, 0, len(subjects))
		for _, su := range subjects {
			names = append(names, fmt.Sprintf("%s (%d)", su.Name, su.ID))
		}
		if len(names) == 0 {
			names = append(names, "none")
		}
		fmt.Printf("  Subjects: %s\n", strings.Join(names, ", "))
		return nil
	},
}

var studentUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update a student's name, date of birth or notes",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		id, err := parseID(args[0], "student")
		if err != nil {
			return err
		}
		st, err := svc.GetStudent(ctx, id)
		if err != nil {
			return err
		}

		in := daybook.StudentInput{Name: st.Name, DateOfBirth: st.DateOfBirth, Notes: st.Notes}
		if cmd.Flags().Changed("name") {
			in.Name = studentName
		}
		if cmd.Flags().Changed("dob") {
			in.DateOfBirth = nil
			if studentDOB != "" {
				dob, err := parseDate(studentDOB)
				if err != nil {
					return fmt.Errorf("invalid date of birth: %s", studentDOB)
				}
				in.DateOfBirth = &dob
			}
		}
		if cmd.Flags().Changed("notes") {
			in.Notes = optional(studentNotes)
		}

		res, err := svc.UpdateStudent(ctx, id, in)
		if err != nil {
			return err
		}
		color.Green("✓ %s", res.Message)
		return nil
	},
}

var studentDeleteCmd = &cobra.Command{
	Use:     "delete <id>",
	Aliases: []string{"rm"},
	Short:   "Delete a student with their logs and settings",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		id, err := parseID(args[0], "student")
		if err != nil {
			return err
		}
		st, err := svc.GetStudent(ctx, id)
		if err != nil {
			return err
		}
		if _, err := svc.DeleteStudent(ctx, id); err != nil {
			return err
		}
		color.Yellow("✗ Deleted student %s", st.Name)
		return nil
	},
}

var studentAssignCmd = &cobra.Command{
	Use:   "assign <student-id> <subject-id>",
	Short: "Assign a subject to a student",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		studentID, subjectID, err := parseStudentSubject(args)
		if err != nil {
			return err
		}
		res, err := svc.AssignSubject(cmd.Context(), studentID, subjectID)
		if err != nil {
			return err
		}
		color.Green("✓ %s", res.Message)
		return nil
	},
}

var studentUnassignCmd = &cobra.Command{
	Use:   "unassign <student-id> <subject-id>",
	Short: "Remove a subject from a student",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		studentID, subjectID, err := parseStudentSubject(args)
		if err != nil {
			return err
		}
		res, err := svc.UnassignSubject(cmd.Context(), studentID, subjectID)
		if err != nil {
			return err
		}
		color.Yellow("✗ %s", res.Message)
		return nil
	},
}

func parseStudentSubject(args []string) (int64, int64, error) {
	studentID, err := parseID(args[0], "student")
	if err != nil {
		return 0, 0, err
	}
	subjectID, err := parseID(args[1], "subject")
	if err != nil {
		return 0, 0, err
	}
	return studentID, subjectID, nil
}

func formatDOB(st *models.Student) string {
	if st.DateOfBirth == nil {
		return "-"
	}
	return st.DateOfBirth.Format(models.DateLayout)
}

func init() {
	studentAddCmd.Flags().StringVar(&studentDOB, "dob", "", "date of birth (YYYY-MM-DD)")
	studentAddCmd.Flags().StringVar(&studentNotes, "notes", "", "notes about the student")

	studentUpdateCmd.Flags().StringVar(&studentName, "name", "", "new name")
	studentUpdateCmd.Flags().StringVar(&studentDOB, "dob", "", "date of birth (YYYY-MM-DD, empty to clear)")
	studentUpdateCmd.Flags().StringVar(&studentNotes, "notes", "", "notes (empty to clear)")

	studentCmd.AddCommand(studentAddCmd, studentListCmd, studentShowCmd, studentUpdateCmd,
		studentDeleteCmd, studentAssignCmd, studentUnassignCmd)
	rootCmd.AddCommand(studentCmd)
}
