package cli

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/spf13/cobra"

	"go-stocktrack/internal/model"
)

func newAddStockCommand(opts *RootOptions) *cobra.Command {
	var (
		user string
		note string
	)

	cmd := &cobra.Command{
		Use:   "add-stock <product-id> <quantity>",
		Short: "Record a stock addition for a product",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			inv, _, err := openServices(opts)
			if err != nil {
				return err
			}
			quantity, err := strconv.Atoi(args[1])
			if err != nil {
				return reportError(cmd, fmt.Errorf("quantity %q: %w", args[1], model.ErrInvalidArgument))
			}
			tx, err := inv.AddStock(args[0], quantity, user, note)
			if err != nil {
				return reportError(cmd, err)
			}
			product, err := inv.GetProduct(args[0])
			if err != nil {
				return reportError(cmd, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %d units to '%s' (new quantity: %d, transaction: %s)\n",
				tx.Quantity, product.Name, product.Quantity, tx.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&user, "user", "", "user recording the movement")
	cmd.Flags().StringVar(&note, "note", "", "free-text note")
	return cmd
}

func newRemoveStockCommand(opts *RootOptions) *cobra.Command {
	var (
		user string
		note string
	)

	cmd := &cobra.Command{
		Use:   "remove-stock <product-id> <quantity>",
		Short: "Record a stock removal for a product",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			inv, _, err := openServices(opts)
			if err != nil {
				return err
			}
			quantity, err := strconv.Atoi(args[1])
			if err != nil {
				return reportError(cmd, fmt.Errorf("quantity %q: %w", args[1], model.ErrInvalidArgument))
			}
			tx, err := inv.RemoveStock(args[0], quantity, user, note)
			if err != nil {
				return reportError(cmd, err)
			}
			product, err := inv.GetProduct(args[0])
			if err != nil {
				return reportError(cmd, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %d units from '%s' (new quantity: %d, transaction: %s)\n",
				tx.Quantity, product.Name, product.Quantity, tx.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&user, "user", "", "user recording the movement")
	cmd.Flags().StringVar(&note, "note", "", "free-text note")
	return cmd
}

func newTransactionsCommand(opts *RootOptions) *cobra.Command {
	var productID string

	cmd := &cobra.Command{
		Use:   "transactions",
		Short: "List stock transactions, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			inv, _, err := openServices(opts)
			if err != nil {
				return err
			}
			transactions, err := inv.GetTransactionHistory(productID)
			if err != nil {
				return err
			}
			if len(transactions) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No transactions found.")
				return nil
			}
			sort.Slice(transactions, func(i, j int) bool {
				return transactions[i].Timestamp.After(transactions[j].Timestamp)
			})

			products, err := inv.GetAllProducts()
			if err != nil {
				return err
			}
			names := make(map[string]string, len(products))
			for _, p := range products {
				names[p.ID] = p.Name
			}

			rows := make([][]string, 0, len(transactions))
			for _, t := range transactions {
				name, ok := names[t.ProductID]
				if !ok {
					name = "Unknown"
				}
				typeStr := "Addition"
				if t.Type == model.TxOut {
					typeStr = "Removal"
				}
				rows = append(rows, []string{
					t.Timestamp.Format("2006-01-02 15:04"),
					name,
					typeStr,
					strconv.Itoa(t.Quantity),
					t.User,
				})
			}
			printTable(cmd.OutOrStdout(),
				[]int{17, 20, 9, 8, 15},
				[]string{"Date", "Product", "Type", "Quantity", "User"},
				rows)
			return nil
		},
	}

	cmd.Flags().StringVar(&productID, "id", "", "filter by product ID")
	return cmd
}
