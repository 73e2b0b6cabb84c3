package cmd

import (
	"fmt"

	"github.com/ibelion/omniwiki/internal/utils"
	"github.com/ibelion/omniwiki/pkg/csvparse"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

var csv2jsonCmd = &cobra.Command{
	Use:   "csv2json <in.csv> <out.json>",
	Short: "Convert a CSV file (optionally gzipped) to a JSON array of row objects",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		fs := afero.NewOsFs()
		data, err := afero.ReadFile(fs, args[0])
		if err != nil {
			return err
		}
		rows, err := csvparse.ParseBytes(data)
		if err != nil {
			return fmt.Errorf("parse %s: %w", args[0], err)
		}
		if rows == nil {
			rows = []csvparse.Row{}
		}
		if err := utils.WriteJSON(fs, args[1], rows); err != nil {
			return err
		}
		fmt.Printf("Converted %d rows to %s\n", len(rows), args[1])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(csv2jsonCmd)
}
