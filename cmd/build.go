package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"
	"text/tabwriter"

	"github.com/ibelion/omniwiki/internal/utils"
	"github.com/ibelion/omniwiki/pkg/bundleindex"
	"github.com/ibelion/omniwiki/pkg/pipeline"
	"github.com/ibelion/omniwiki/pkg/universe"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

// buildCmd implements: omniwiki build [universe...]
//
//	--watch            Rebuild whenever a source CSV changes
//	--split-learnsets  Also write per-generation learnset chunks
var buildCmd = &cobra.Command{
	Use:   "build [universe...]",
	Short: "Build universe bundles from CSV sources",
	Long: `Builds every universe (or the ones named) from <source-dir>/<universe>/*.csv and writes
<output-dir>/<universe>/data/*.json plus bundle.json, then refreshes <output-dir>/universes.json.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		builders, err := universe.Select(allBuilders(), args)
		if err != nil {
			return err
		}
		watch, _ := cmd.Flags().GetBool("watch")
		split, _ := cmd.Flags().GetBool("split-learnsets")

		unlock, err := lockDir(cfg.OutputDir)
		if err != nil {
			return err
		}
		defer unlock()

		fs := afero.NewOsFs()
		pcfg := pipeline.Config{
			Builders:       builders,
			SourceFs:       fs,
			SourceRoot:     cfg.SourceDir,
			OutputFs:       fs,
			OutputRoot:     cfg.OutputDir,
			Concurrency:    cfg.Concurrency,
			SplitLearnsets: split,
			Log:            utils.Log,
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		summary := runBuild(ctx, pcfg)
		if !watch {
			if len(summary.Failed()) > 0 {
				return errPartialFailure
			}
			return nil
		}

		utils.Log.Infof("Watching %s for changes (Ctrl+C to stop)", cfg.SourceDir)
		err = pipeline.Watch(ctx, pcfg, pipeline.DefaultDebounce, func(s *pipeline.Summary) {
			printBuildSummary(s)
			writeBundleIndex(pcfg)
		})
		if err != nil && ctx.Err() == nil {
			return err
		}
		return nil
	},
}

func runBuild(ctx context.Context, pcfg pipeline.Config) *pipeline.Summary {
	summary := pipeline.BuildAll(ctx, pcfg)
	printBuildSummary(summary)
	writeBundleIndex(pcfg)
	return summary
}

func writeBundleIndex(pcfg pipeline.Config) {
	idx, err := bundleindex.WriteBundleIndex(pcfg.OutputFs, pcfg.OutputRoot)
	if err != nil {
		utils.Log.Errorf("Failed to write universes index: %v", err)
		return
	}
	utils.Log.Debugf("Indexed %d universes", len(idx.Universes))
}

func printBuildSummary(s *pipeline.Summary) {
	fmt.Printf("Build %s\n", s.RunID)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "UNIVERSE\tRECORDS\tWARNINGS\tFILES\tSTATUS\t")
	for _, r := range s.Results {
		status := "ok"
		if r.Err != nil {
			status = "FAILED: " + r.Err.Error()
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%s\t\n", r.Universe, formatCounts(r.Counts), r.Warnings, len(r.Files), status)
	}
	w.Flush()
	fmt.Printf("\n%d succeeded, %d failed\n", len(s.Succeeded()), len(s.Failed()))
}

func formatCounts(counts map[string]int) string {
	if len(counts) == 0 {
		return "-"
	}
	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	sort.Strings(names)
	parts := make([]string, len(names))
	for i, name := range names {
		parts[i] = fmt.Sprintf("%s=%d", name, counts[name])
	}
	return strings.Join(parts, " ")
}

func init() {
	rootCmd.AddCommand(buildCmd)
	buildCmd.Flags().BoolP("watch", "w", false, "Rebuild whenever a source CSV changes")
	buildCmd.Flags().Bool("split-learnsets", false, "Write per-generation learnset chunks under <output-dir>/exports/<universe>/learnsets")
}
