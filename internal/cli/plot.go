package cli

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/JonMunkholm/csvplot/internal/core"
)

func newPlotCommand(v *viper.Viper) *cobra.Command {
	var (
		xColumn   string
		yColumns  []string
		chartType string
	)

	cmd := &cobra.Command{
		Use:   "plot <file> --x <column> --y <column>[,<column>...]",
		Short: "Print chart series for columns of a CSV file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if xColumn == "" || len(yColumns) == 0 {
				return core.ErrMissingPlotColumns
			}
			chart, err := core.ParseChartType(chartType)
			if err != nil {
				return err
			}

			doc, err := loadDocument(v, args[0])
			if err != nil {
				return err
			}
			data, err := core.BuildPlot(doc, xColumn, yColumns)
			if err != nil {
				return err
			}

			return writeOutput(cmd.OutOrStdout(), v.GetString(keyFormat), core.PlotResponse{
				PlotData:  *data,
				XColumn:   xColumn,
				YColumns:  yColumns,
				ChartType: chart,
			})
		},
	}

	cmd.Flags().StringVar(&xColumn, "x", "", "column used for the X axis")
	cmd.Flags().StringSliceVar(&yColumns, "y", nil, "columns plotted as series")
	cmd.Flags().StringVar(&chartType, "chart", string(core.ChartLine), "chart type: line or bar")
	return cmd
}
