package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/ibelion/omniwiki/internal/utils"
	"github.com/ibelion/omniwiki/pkg/omnigame"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import OmniArt universe exports into the data directory",
	Long: `Reads <export-path>/<universe>/metadata.json in either the export or the canonical shape,
writes <data-dir>/<universe>/data.json and copies images to <public-dir>/universes/<universe>/images.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		unlock, err := lockDir(cfg.DataDir)
		if err != nil {
			return err
		}
		defer unlock()

		im := &omnigame.Importer{
			Fs:          afero.NewOsFs(),
			ExportPath:  cfg.ExportPath,
			DataDir:     cfg.DataDir,
			PublicDir:   cfg.PublicDir,
			Concurrency: cfg.Concurrency,
			Log:         utils.Log,
		}
		summary, err := im.ImportAll(cmd.Context())
		if err != nil {
			return err
		}
		printImportSummary(summary)
		if summary.Failed() > 0 {
			return errPartialFailure
		}
		return nil
	},
}

func printImportSummary(s *omnigame.ImportSummary) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "UNIVERSE\tCHARACTERS\tIMAGES\tSTATUS\t")
	for _, r := range s.Results {
		status := "ok"
		if r.Err != nil {
			status = "FAILED: " + r.Err.Error()
		}
		fmt.Fprintf(w, "%s\t%d\t%d\t%s\t\n", r.Universe, r.Characters, r.Images, status)
	}
	fmt.Fprintln(w, " \t \t \t \t")
	fmt.Fprintf(w, "TOTAL\t%d\t%d\t%d/%d ok\t\n", s.TotalCharacters(), s.TotalImages(), s.Successful(), len(s.Results))
	w.Flush()
}

func init() {
	rootCmd.AddCommand(importCmd)
}
