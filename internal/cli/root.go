package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"go-stocktrack/internal/model"
	"go-stocktrack/internal/service"
	"go-stocktrack/internal/store"
)

// RootOptions holds global flags shared by all subcommands.
type RootOptions struct {
	DataDir string
}

// NewRootCommand creates the stocktrack root command.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:           "stocktrack",
		Short:         "Track products, categories and stock movements",
		Long:          "Stocktrack keeps an inventory of products and categories in flat JSON files\nand records every stock movement as an immutable transaction.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&opts.DataDir, "data-dir", defaultDataDir(), "path to the JSON data directory")

	cmd.AddCommand(newListProductsCommand(opts))
	cmd.AddCommand(newAddProductCommand(opts))
	cmd.AddCommand(newUpdateProductCommand(opts))
	cmd.AddCommand(newDeleteProductCommand(opts))
	cmd.AddCommand(newSearchCommand(opts))
	cmd.AddCommand(newLowStockCommand(opts))
	cmd.AddCommand(newListCategoriesCommand(opts))
	cmd.AddCommand(newAddCategoryCommand(opts))
	cmd.AddCommand(newUpdateCategoryCommand(opts))
	cmd.AddCommand(newDeleteCategoryCommand(opts))
	cmd.AddCommand(newAddStockCommand(opts))
	cmd.AddCommand(newRemoveStockCommand(opts))
	cmd.AddCommand(newTransactionsCommand(opts))
	cmd.AddCommand(newReportCommand(opts))

	return cmd
}

func defaultDataDir() string {
	if v := os.Getenv("STOCKTRACK_DATA_DIR"); v != "" {
		return v
	}
	return "data"
}

// openServices builds the engine over the configured data directory. The CLI
// runs without a websocket hub.
func openServices(opts *RootOptions) (service.InventoryService, service.ReportService, error) {
	st, err := store.New(opts.DataDir, slog.Default())
	if err != nil {
		return nil, nil, err
	}
	return service.NewInventoryService(st, nil), service.NewReportService(st), nil
}

// reportError prints handled domain errors as a one-line message and keeps
// the process exit code at zero; anything else propagates to cobra.
func reportError(cmd *cobra.Command, err error) error {
	if err == nil {
		return nil
	}
	for _, domainErr := range []error{
		model.ErrNotFound,
		model.ErrDuplicateKey,
		model.ErrInsufficientStock,
		model.ErrInvalidArgument,
	} {
		if errors.Is(err, domainErr) {
			fmt.Fprintf(cmd.OutOrStdout(), "Error: %v\n", err)
			return nil
		}
	}
	return err
}
