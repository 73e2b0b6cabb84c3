package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/ibelion/omniwiki/internal/utils"
	"github.com/ibelion/omniwiki/pkg/bundleindex"
	"github.com/ibelion/omniwiki/pkg/omnigame"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export canonical character data in the OmniArt export shape",
	Long: `Reads <data-dir>/<universe>/characters.json for every supported universe (or the ones given
with --universe), writes <exports-dir>/<universe>.json, copies images and refreshes <exports-dir>/index.json.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		universes, _ := cmd.Flags().GetStringSlice("universe")

		unlock, err := lockDir(cfg.ExportsDir)
		if err != nil {
			return err
		}
		defer unlock()

		fs := afero.NewOsFs()
		ex := &omnigame.Exporter{
			Fs:          fs,
			DataDir:     cfg.DataDir,
			ExportDir:   cfg.ExportsDir,
			Universes:   universes,
			Concurrency: cfg.Concurrency,
			Log:         utils.Log,
		}
		summary, err := ex.ExportAll(cmd.Context())
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "UNIVERSE\tCHARACTERS\tIMAGES\tSTATUS\t")
		for _, r := range summary.Results {
			status := "ok"
			if r.Err != nil {
				status = "FAILED: " + r.Err.Error()
			}
			fmt.Fprintf(w, "%s\t%d\t%d\t%s\t\n", r.Universe, r.Characters, r.Images, status)
		}
		w.Flush()

		if _, err := bundleindex.WriteExportsIndex(fs, cfg.ExportsDir); err != nil {
			utils.Log.Errorf("Failed to write exports index: %v", err)
		}
		if summary.Failed() > 0 {
			return errPartialFailure
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringSliceP("universe", "u", nil, "Universes to export (default: every supported universe found)")
}
