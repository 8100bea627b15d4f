package cli

import (
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"go-stocktrack/internal/config"
	"go-stocktrack/internal/model"
	"go-stocktrack/internal/service"
)

func categoryNames(inv service.InventoryService) (map[string]string, error) {
	categories, err := inv.GetAllCategories()
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(categories))
	for _, c := range categories {
		names[c.ID] = c.Name
	}
	return names, nil
}

func categoryName(names map[string]string, id string) string {
	if name, ok := names[id]; ok {
		return name
	}
	return "Unknown"
}

func printProducts(cmd *cobra.Command, inv service.InventoryService, products []model.Product) error {
	if len(products) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No products found.")
		return nil
	}
	names, err := categoryNames(inv)
	if err != nil {
		return err
	}

	rows := make([][]string, 0, len(products))
	for _, p := range products {
		rows = append(rows, []string{
			p.ID,
			p.Name,
			categoryName(names, p.Category),
			"$" + p.Price.StringFixed(2),
			strconv.Itoa(p.Quantity),
		})
	}
	printTable(cmd.OutOrStdout(),
		[]int{36, 20, 20, 10, 8},
		[]string{"ID", "Name", "Category", "Price", "Quantity"},
		rows)
	return nil
}

func newListProductsCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list-products",
		Short: "List all products",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			inv, _, err := openServices(opts)
			if err != nil {
				return err
			}
			products, err := inv.GetAllProducts()
			if err != nil {
				return err
			}
			return printProducts(cmd, inv, products)
		},
	}
}

func newAddProductCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "add-product <name> <description> <price> <quantity> <category>",
		Short: "Add a new product",
		Args:  cobra.ExactArgs(5),
		RunE: func(cmd *cobra.Command, args []string) error {
			inv, _, err := openServices(opts)
			if err != nil {
				return err
			}
			price, err := decimal.NewFromString(args[2])
			if err != nil {
				return reportError(cmd, fmt.Errorf("price %q: %w", args[2], model.ErrInvalidArgument))
			}
			quantity, err := strconv.Atoi(args[3])
			if err != nil {
				return reportError(cmd, fmt.Errorf("quantity %q: %w", args[3], model.ErrInvalidArgument))
			}
			product, err := inv.CreateProduct(args[0], args[1], price, quantity, args[4])
			if err != nil {
				return reportError(cmd, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Product '%s' added with ID: %s\n", product.Name, product.ID)
			return nil
		},
	}
}

func newUpdateProductCommand(opts *RootOptions) *cobra.Command {
	var (
		name        string
		description string
		price       string
		quantity    int
		category    string
	)

	cmd := &cobra.Command{
		Use:   "update-product <id>",
		Short: "Update fields of an existing product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			inv, _, err := openServices(opts)
			if err != nil {
				return err
			}

			// Only flags the caller set end up in the patch.
			var patch model.ProductPatch
			if cmd.Flags().Changed("name") {
				patch.Name = &name
			}
			if cmd.Flags().Changed("description") {
				patch.Description = &description
			}
			if cmd.Flags().Changed("price") {
				d, err := decimal.NewFromString(price)
				if err != nil {
					return reportError(cmd, fmt.Errorf("price %q: %w", price, model.ErrInvalidArgument))
				}
				patch.Price = &d
			}
			if cmd.Flags().Changed("quantity") {
				patch.Quantity = &quantity
			}
			if cmd.Flags().Changed("category") {
				patch.Category = &category
			}

			product, err := inv.UpdateProduct(args[0], patch)
			if err != nil {
				return reportError(cmd, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Product '%s' updated\n", product.Name)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "new product name")
	cmd.Flags().StringVar(&description, "description", "", "new product description")
	cmd.Flags().StringVar(&price, "price", "", "new unit price")
	cmd.Flags().IntVar(&quantity, "quantity", 0, "new on-hand quantity")
	cmd.Flags().StringVar(&category, "category", "", "new category ID")

	return cmd
}

func newDeleteProductCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete-product <id>",
		Short: "Delete a product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			inv, _, err := openServices(opts)
			if err != nil {
				return err
			}
			deleted, err := inv.DeleteProduct(args[0])
			if err != nil {
				return reportError(cmd, err)
			}
			if !deleted {
				fmt.Fprintf(cmd.OutOrStdout(), "Product with ID %s not found.\n", args[0])
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Product deleted successfully")
			return nil
		},
	}
}

func newSearchCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "search <term>",
		Short: "Search products by name or description",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			inv, _, err := openServices(opts)
			if err != nil {
				return err
			}
			products, err := inv.SearchProducts(args[0])
			if err != nil {
				return err
			}
			if len(products) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "No products matching '%s'.\n", args[0])
				return nil
			}
			return printProducts(cmd, inv, products)
		},
	}
}

func newLowStockCommand(opts *RootOptions) *cobra.Command {
	var threshold int

	cmd := &cobra.Command{
		Use:   "low-stock",
		Short: "List products at or below the stock threshold",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			inv, reports, err := openServices(opts)
			if err != nil {
				return err
			}
			items, err := reports.LowStockReport(threshold, config.Load().CriticalThreshold)
			if err != nil {
				return err
			}
			if len(items) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No products below the threshold.")
				return nil
			}
			names, err := categoryNames(inv)
			if err != nil {
				return err
			}
			rows := make([][]string, 0, len(items))
			for _, item := range items {
				p := item.Product
				rows = append(rows, []string{
					p.ID,
					p.Name,
					categoryName(names, p.Category),
					strconv.Itoa(p.Quantity),
					styledStatus(item.Status),
				})
			}
			printTable(cmd.OutOrStdout(),
				[]int{36, 20, 20, 8, 8},
				[]string{"ID", "Name", "Category", "Quantity", "Status"},
				rows)
			return nil
		},
	}

	cmd.Flags().IntVar(&threshold, "threshold", 5, "low stock threshold (inclusive)")
	return cmd
}
