package cli

import (
	"fmt"

	"github.com/go-kit/log/level"
	"github.com/spf13/cobra"

	"github.com/vegasq/toyquery/internal/dataset"
)

func newExportCommand(a *app) *cobra.Command {
	var outDir string

	cmd := &cobra.Command{
		Use:   "export [dataset...]",
		Short: "Convert the CSV datasets to Parquet",
		Long: `export reads the CSV datasets from the data directory and writes one
zstd-compressed Parquet file per dataset. With --source auto, later queries
read the Parquet files instead of the CSV ones.`,
		Example: `  toyquery export
  toyquery export city.csv --out /tmp/world`,
		RunE: func(cmd *cobra.Command, args []string) error {
			datasets := dataset.All
			if len(args) > 0 {
				datasets = make([]dataset.Dataset, 0, len(args))
				for _, arg := range args {
					d, err := dataset.Parse(arg)
					if err != nil {
						return err
					}
					datasets = append(datasets, d)
				}
			}

			dir := outDir
			if dir == "" {
				dir = a.cfg.DataDir
			}

			src := dataset.NewFileLoader(a.cfg.DataDir, dataset.SourceCSV, a.logger)
			written, err := dataset.Export(src, dir, datasets, a.logger)
			if err != nil {
				return err
			}

			for _, path := range written {
				fmt.Fprintln(cmd.OutOrStdout(), path)
			}
			level.Info(a.logger).Log("msg", "export finished", "files", len(written))
			return nil
		},
	}

	cmd.Flags().StringVarP(&outDir, "out", "o", "", "Output directory (default: the data directory)")
	return cmd
}
