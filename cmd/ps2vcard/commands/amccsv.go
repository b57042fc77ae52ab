package commands

import (
	"io"
	"os"

	"github.com/leingang/ps2vcard/lib/amc"
	"github.com/leingang/ps2vcard/lib/scrapers/albert"
	"github.com/spf13/cobra"
)

var amcOutput string

func init() {
	amcCsvCmd.Flags().StringVar(&amcOutput, "output", "",
		"Write to this file (default: stdout).")
	rootCmd.AddCommand(amcCsvCmd)
}

// Albert's "download as Excel" roster is an HTML table wearing an .xls
// extension; the tabular extractor reads it directly.
var amcCsvCmd = &cobra.Command{
	Use:   "amc-csv [FILE]",
	Short: "Convert an .xls roster download into a CSV for auto-multiple-choice.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		path := "ps.xls"
		if len(args) > 0 {
			path = args[0]
		}

		students, err := albert.ParseXlsFile(ctx, path)
		if err != nil {
			return err
		}

		var out io.Writer = os.Stdout
		if amcOutput != "" {
			f, err := os.Create(amcOutput)
			if err != nil {
				return err
			}
			defer f.Close()
			out = f
		}
		return amc.Write(out, students)
	},
}
