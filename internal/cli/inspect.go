package cli

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/JonMunkholm/csvplot/internal/core"
	"github.com/JonMunkholm/csvplot/internal/csvdoc"
)

// inspectReport is what inspect prints for a file.
type inspectReport struct {
	File        string       `json:"file" yaml:"file"`
	Columns     []string     `json:"columns" yaml:"columns"`
	RowCount    int          `json:"rowCount" yaml:"rowCount"`
	HasMetadata bool         `json:"hasMetadata" yaml:"hasMetadata"`
	Metadata    []string     `json:"metadata" yaml:"metadata"`
	Preview     []csvdoc.Row `json:"preview" yaml:"preview"`
}

func newInspectCommand(v *viper.Viper) *cobra.Command {
	var rows int

	cmd := &cobra.Command{
		Use:   "inspect <file>",
		Short: "Show the columns, metadata and first rows of a CSV file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := loadDocument(v, args[0])
			if err != nil {
				return err
			}

			metadata := doc.Metadata
			if metadata == nil {
				metadata = []string{}
			}
			return writeOutput(cmd.OutOrStdout(), v.GetString(keyFormat), inspectReport{
				File:        args[0],
				Columns:     doc.Columns,
				RowCount:    len(doc.Rows),
				HasMetadata: doc.HasMetadata,
				Metadata:    metadata,
				Preview:     doc.Head(rows),
			})
		},
	}

	cmd.Flags().IntVarP(&rows, "rows", "n", core.DefaultPreviewRows, "number of preview rows")
	return cmd
}
