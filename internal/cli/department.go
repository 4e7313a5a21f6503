package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var departmentCmd = &cobra.Command{
	Use:     "department",
	Aliases: []string{"dept"},
	Short:   "Manage departments",
}

var departmentCreateCmd = &cobra.Command{
	Use:   "create [name]",
	Short: "Create a department",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, s, err := session()
		if err != nil {
			return err
		}
		d, err := s.Departments.Create(ctx, args[0])
		if err != nil {
			return fmt.Errorf("failed to create department: %w", err)
		}
		fmt.Printf("✓ Created department %s (%s)\n", d.Name, d.ID)
		return nil
	},
}

var departmentListCmd = &cobra.Command{
	Use:   "list",
	Short: "List departments",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, s, err := session()
		if err != nil {
			return err
		}
		departments, err := s.Departments.List(ctx)
		if err != nil {
			return fmt.Errorf("failed to list departments: %w", err)
		}
		if len(departments) == 0 {
			fmt.Println("No departments found.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME")
		fmt.Fprintln(w, "--\t----")
		for _, d := range departments {
			fmt.Fprintf(w, "%s\t%s\n", d.ID, d.Name)
		}
		return w.Flush()
	},
}

var departmentRenameCmd = &cobra.Command{
	Use:   "rename [id] [name]",
	Short: "Rename a department",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, s, err := session()
		if err != nil {
			return err
		}
		d, err := s.Departments.Update(ctx, args[0], args[1])
		if err != nil {
			return fmt.Errorf("failed to rename department: %w", err)
		}
		fmt.Printf("✓ Department %s renamed to %s\n", d.ID, d.Name)
		return nil
	},
}

var departmentDeleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete a department (boxes keep the reference)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, s, err := session()
		if err != nil {
			return err
		}
		if err := s.Departments.Delete(ctx, args[0]); err != nil {
			return fmt.Errorf("failed to delete department: %w", err)
		}
		fmt.Printf("✓ Department %s deleted\n", args[0])
		return nil
	},
}

// DepartmentCmd returns the department command.
func DepartmentCmd() *cobra.Command {
	return departmentCmd
}

func init() {
	departmentCmd.AddCommand(departmentCreateCmd)
	departmentCmd.AddCommand(departmentListCmd)
	departmentCmd.AddCommand(departmentRenameCmd)
	departmentCmd.AddCommand(departmentDeleteCmd)
}
