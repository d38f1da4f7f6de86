package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/kbimport/internal/core"
)

var (
	templateFormat string
	templateOutput string
)

var templateCmd = &cobra.Command{
	Use:   "template",
	Short: "Write the import template with a sample row",
	Long: `Write the import template to a file or stdout.

Examples:
  kbimport template > template.csv
  kbimport template --format xlsx -o template.xlsx`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		var write func(io.Writer) error
		switch core.FileFormat(templateFormat) {
		case core.FormatCSV:
			write = core.WriteTemplateCSV
		case core.FormatXLSX:
			write = core.WriteTemplateXLSX
		default:
			return fmt.Errorf("%w: %q", core.ErrInvalidFormat, templateFormat)
		}

		if templateOutput == "" || templateOutput == "-" {
			return write(cmd.OutOrStdout())
		}

		f, err := os.Create(templateOutput)
		if err != nil {
			return err
		}
		if err := write(f); err != nil {
			_ = f.Close()
			return err
		}
		return f.Close()
	},
}

func init() {
	templateCmd.Flags().StringVarP(&templateFormat, "format", "f", string(core.FormatCSV), "template format: csv or xlsx")
	templateCmd.Flags().StringVarP(&templateOutput, "output", "o", "", "output file (default stdout)")
	rootCmd.AddCommand(templateCmd)
}
