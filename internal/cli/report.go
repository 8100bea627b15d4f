package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"go-stocktrack/internal/config"
	"go-stocktrack/internal/report"
)

func newReportCommand(opts *RootOptions) *cobra.Command {
	var outDir string

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Generate CSV and summary report files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			inv, reports, err := openServices(opts)
			if err != nil {
				return err
			}
			cfg := config.Load()
			cfg.DataDir = opts.DataDir

			generator := report.NewGenerator(inv, reports, cfg)
			paths, err := generator.Generate(outDir)
			if err != nil {
				return err
			}
			for _, path := range paths {
				fmt.Fprintf(cmd.OutOrStdout(), "Report generated: %s\n", path)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Reports have been generated in the '%s' directory.\n", outDir)
			return nil
		},
	}

	cmd.Flags().StringVar(&outDir, "out-dir", "reports", "directory to write report files into")
	return cmd
}
