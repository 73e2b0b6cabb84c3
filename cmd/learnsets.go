package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/ibelion/omniwiki/internal/utils"
	"github.com/ibelion/omniwiki/pkg/pipeline"
	"github.com/ibelion/omniwiki/pkg/universe/pokemon"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

var learnsetsCmd = &cobra.Command{
	Use:   "learnsets",
	Short: "Learnset maintenance commands",
}

var learnsetsSplitCmd = &cobra.Command{
	Use:   "split",
	Short: "Split an existing learnsets.json into per-generation chunks",
	Long: `Reads <output-dir>/pokemon/data/learnsets.json (or --input) and writes one chunk per generation
plus index.json under <output-dir>/exports/pokemon/learnsets.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		input, _ := cmd.Flags().GetString("input")
		if input == "" {
			input = filepath.Join(cfg.OutputDir, pokemon.Universe, "data", "learnsets.json")
		}

		fs := afero.NewOsFs()
		var summary pokemon.LearnsetSummary
		if err := utils.ReadJSON(fs, input, &summary); err != nil {
			return fmt.Errorf("read learnsets: %w", err)
		}
		if len(summary.Learnsets) == 0 {
			return fmt.Errorf("no learnsets in %s", input)
		}

		files, err := pipeline.WriteLearnsetChunks(fs,
			pipeline.LearnsetChunkDir(cfg.OutputDir, pokemon.Universe),
			summary.Learnsets,
			pipeline.LearnsetChunkPrefix(pokemon.Universe))
		if err != nil {
			return err
		}
		for _, f := range files {
			fmt.Println(f)
		}
		utils.Log.Infof("Split learnsets of %d pokemon into %d files", len(summary.Learnsets), len(files))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(learnsetsCmd)
	learnsetsCmd.AddCommand(learnsetsSplitCmd)
	learnsetsSplitCmd.Flags().StringP("input", "i", "", "learnsets.json to split")
}
