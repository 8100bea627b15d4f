package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"go-stocktrack/internal/model"
)

func newListCategoriesCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list-categories",
		Short: "List all categories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			inv, _, err := openServices(opts)
			if err != nil {
				return err
			}
			categories, err := inv.GetAllCategories()
			if err != nil {
				return err
			}
			if len(categories) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No categories found.")
				return nil
			}
			rows := make([][]string, 0, len(categories))
			for _, c := range categories {
				rows = append(rows, []string{c.ID, c.Name, c.Description})
			}
			printTable(cmd.OutOrStdout(),
				[]int{36, 20, 40},
				[]string{"ID", "Name", "Description"},
				rows)
			return nil
		},
	}
}

func newAddCategoryCommand(opts *RootOptions) *cobra.Command {
	var description string

	cmd := &cobra.Command{
		Use:   "add-category <name>",
		Short: "Add a new category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			inv, _, err := openServices(opts)
			if err != nil {
				return err
			}
			category, err := inv.CreateCategory(args[0], description)
			if err != nil {
				return reportError(cmd, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Category '%s' added with ID: %s\n", category.Name, category.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&description, "description", "", "category description")
	return cmd
}

func newUpdateCategoryCommand(opts *RootOptions) *cobra.Command {
	var (
		name        string
		description string
	)

	cmd := &cobra.Command{
		Use:   "update-category <id>",
		Short: "Update fields of an existing category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			inv, _, err := openServices(opts)
			if err != nil {
				return err
			}
			var patch model.CategoryPatch
			if cmd.Flags().Changed("name") {
				patch.Name = &name
			}
			if cmd.Flags().Changed("description") {
				patch.Description = &description
			}
			category, err := inv.UpdateCategory(args[0], patch)
			if err != nil {
				return reportError(cmd, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Category '%s' updated\n", category.Name)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "new category name")
	cmd.Flags().StringVar(&description, "description", "", "new category description")
	return cmd
}

func newDeleteCategoryCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete-category <id>",
		Short: "Delete a category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			inv, _, err := openServices(opts)
			if err != nil {
				return err
			}
			deleted, err := inv.DeleteCategory(args[0])
			if err != nil {
				return reportError(cmd, err)
			}
			if !deleted {
				fmt.Fprintf(cmd.OutOrStdout(), "Category with ID %s not found.\n", args[0])
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Category deleted successfully")
			return nil
		},
	}
}
