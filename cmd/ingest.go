package cmd

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/ibelion/omniwiki/internal/utils"
	"github.com/ibelion/omniwiki/pkg/bundleindex"
	"github.com/ibelion/omniwiki/pkg/omnigame"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Import OmniArt exports and update the universes index",
	Long: `Runs import followed by index. When the export directory does not exist the import is
skipped with a warning and only the index is refreshed.`,
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

		fs := afero.NewOsFs()

		im := &omnigame.Importer{
			Fs:          fs,
			ExportPath:  cfg.ExportPath,
			DataDir:     cfg.DataDir,
			PublicDir:   cfg.PublicDir,
			Concurrency: cfg.Concurrency,
			Log:         utils.Log,
		}
		summary, err := im.ImportAll(cmd.Context())
		switch {
		case errors.Is(err, omnigame.ErrExportNotFound):
			utils.Log.Warnf("Export directory not found: %s. Skipping import, updating index only.", cfg.ExportPath)
			summary = nil
		case err != nil:
			return err
		}

		idx, changes, err := bundleindex.Update(fs, cfg.DataDir, filepath.Join(cfg.DataDir, "universes.json"), utils.Log)
		if err != nil {
			return err
		}
		for _, c := range changes {
			fmt.Printf("  %s: %s\n", c.Type, c.ID)
		}
		fmt.Printf("Index contains %d universes\n", len(idx.Universes))

		if summary == nil {
			return nil
		}
		printImportSummary(summary)
		if summary.Failed() > 0 {
			return errPartialFailure
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(ingestCmd)
}
