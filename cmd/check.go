package cmd

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ibelion/omniwiki/internal/config"
	"github.com/ibelion/omniwiki/internal/utils"
	"github.com/ibelion/omniwiki/pkg/datastore"
	"github.com/ibelion/omniwiki/pkg/evolution"
	"github.com/ibelion/omniwiki/pkg/universe/pokemon"
	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Data quality diagnostics for built bundles",
}

var checkEvolutionMovesCmd = &cobra.Command{
	Use:   "evolution-moves",
	Short: "Compare move sets across the stages of an evolution chain",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		b, err := loadPokemonBundle(cmd)
		if err != nil {
			return err
		}
		chainOf, _ := cmd.Flags().GetString("chain-of")
		method, _ := cmd.Flags().GetString("method")

		chain, ok := evolution.FindChain(evolution.Chains(b.Evolutions), chainOf)
		if !ok {
			return fmt.Errorf("no evolution chain contains %q", chainOf)
		}

		all := evolution.MoveSets(b.Learnsets, "")
		filtered := evolution.MoveSets(b.Learnsets, method)
		movesOf := func(sets map[string]evolution.MoveSet) func(evolution.Node) evolution.MoveSet {
			return func(n evolution.Node) evolution.MoveSet {
				if s, ok := sets[n.Name]; ok {
					return s
				}
				return sets[strings.ToLower(n.Name)]
			}
		}

		fmt.Printf("=== %s evolution line ===\n\n", chainOf)
		for _, n := range chain.Nodes {
			sample := movesOf(filtered)(n).Sorted()
			if len(sample) > 10 {
				sample = sample[:10]
			}
			fmt.Printf("%s (#%d): %d unique moves\n", n.Name, n.ID, len(movesOf(all)(n)))
			if method != "" {
				fmt.Printf("  - %s moves: %d\n", method, len(movesOf(filtered)(n)))
				fmt.Printf("  - Sample: %s\n", strings.Join(sample, ", "))
			}
		}

		fmt.Printf("\n=== Move overlap ===\n")
		for _, c := range evolution.AnalyzeChain(chain, movesOf(all)) {
			label := fmt.Sprintf("%s -> %s", c.From.Name, c.To.Name)
			if c.Direct {
				label += " (direct)"
			}
			fmt.Printf("\n%s:\n", label)
			fmt.Printf("  Shared moves: %d\n", len(c.Delta.Shared))
			fmt.Printf("  Only in %s: %d\n", c.From.Name, len(c.Delta.OnlyA))
			fmt.Printf("  Only in %s: %d\n", c.To.Name, len(c.Delta.OnlyB))
			if c.Direct {
				fmt.Printf("  Total unique moves if inherited: %d\n", c.Delta.UnionSize)
			}
			if c.MissingInherited() {
				fmt.Printf("  Sample only in %s: %s\n", c.From.Name, strings.Join(head(c.Delta.OnlyA, 5), ", "))
			}
		}
		return nil
	},
}

var checkMovesCmd = &cobra.Command{
	Use:   "moves",
	Short: "Report how many moves each pokemon learns",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		b, err := loadPokemonBundle(cmd)
		if err != nil {
			return err
		}
		threshold, _ := cmd.Flags().GetInt("threshold")
		c := pokemon.MoveCoverage(b.Pokemon, b.Learnsets, threshold)

		fmt.Println("=== Pokemon move data analysis ===")
		fmt.Println()
		fmt.Printf("Total Pokemon: %d\n", c.Total)
		fmt.Printf("With moves: %d\n", c.WithMoves)
		fmt.Printf("Without moves: %d\n", c.WithoutMoves)
		fmt.Printf("With only 1 move: %d\n", c.WithOneMove)
		fmt.Printf("With < %d moves: %d\n\n", threshold, len(c.Few))
		fmt.Printf("Average moves per Pokemon: %.2f\n", c.Average)
		fmt.Printf("Max moves: %d\n", c.Max)
		fmt.Printf("Min moves: %d\n", c.Min)

		if len(c.Few) > 0 {
			fmt.Printf("\nPokemon with < %d moves:\n", threshold)
			for i, mc := range c.Few {
				if i == 50 {
					fmt.Printf("  ... and %d more\n", len(c.Few)-50)
					break
				}
				fmt.Printf("  %s (#%d): %d moves\n", mc.Name, mc.Pokemon.ID, mc.Count)
			}
		}
		if len(c.Missing) > 0 {
			fmt.Println("\n=== Pokemon without moves ===")
			for _, mc := range c.Missing {
				fmt.Printf("  %s (#%d)\n", mc.Name, mc.Pokemon.ID)
			}
		}
		return nil
	},
}

func loadPokemonBundle(cmd *cobra.Command) (*pokemon.Bundle, error) {
	source, _ := cmd.Flags().GetString("bundle")
	if source == "" {
		cfg, err := loadConfig()
		if err != nil {
			return nil, err
		}
		source = defaultBundlePath(cfg, pokemon.Universe)
	}
	store := datastore.New(source, datastore.WithLogger(utils.Log))
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if err := store.Load(ctx); err != nil {
		return nil, err
	}
	return store.Pokemon()
}

func defaultBundlePath(cfg *config.Config, universeName string) string {
	return filepath.Join(cfg.OutputDir, universeName, "data", "bundle.json")
}

func head(values []string, n int) []string {
	if len(values) > n {
		return values[:n]
	}
	return values
}

func init() {
	rootCmd.AddCommand(checkCmd)
	checkCmd.AddCommand(checkEvolutionMovesCmd)
	checkCmd.AddCommand(checkMovesCmd)

	checkCmd.PersistentFlags().StringP("bundle", "b", "", "Pokemon bundle path or http(s) URL (default <output-dir>/pokemon/data/bundle.json)")
	checkEvolutionMovesCmd.Flags().String("chain-of", "charmander", "Analyze the chain containing this pokemon")
	checkEvolutionMovesCmd.Flags().String("method", "level-up", "Learn method to break out per stage (empty for none)")
	checkMovesCmd.Flags().Int("threshold", 10, "Report pokemon learning fewer moves than this")
}
