package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/ibelion/omniwiki/internal/utils"
	"github.com/ibelion/omniwiki/pkg/bundleindex"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Update <data-dir>/universes.json from imported universes",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		idx, changes, err := bundleindex.Update(afero.NewOsFs(), cfg.DataDir, filepath.Join(cfg.DataDir, "universes.json"), utils.Log)
		if err != nil {
			return err
		}
		for _, c := range changes {
			fmt.Printf("  %s: %s\n", c.Type, c.ID)
		}
		fmt.Printf("Index contains %d universes\n", len(idx.Universes))
		return nil
	},
}

var indexExportsCmd = &cobra.Command{
	Use:   "exports",
	Short: "Write <exports-dir>/index.json listing every exported universe",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		idx, err := bundleindex.WriteExportsIndex(afero.NewOsFs(), cfg.ExportsDir)
		if err != nil {
			return err
		}
		fmt.Printf("Indexed %d exports: %v\n", len(idx.Universes), idx.Universes)
		return nil
	},
}

var indexBundlesCmd = &cobra.Command{
	Use:   "bundles",
	Short: "Write <output-dir>/universes.json listing every built bundle",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		idx, err := bundleindex.WriteBundleIndex(afero.NewOsFs(), cfg.OutputDir)
		if err != nil {
			return err
		}
		for _, e := range idx.Universes {
			fmt.Printf("  %s\t%s\t%s\n", e.ID, e.Name, e.Path)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(indexCmd)
	indexCmd.AddCommand(indexExportsCmd)
	indexCmd.AddCommand(indexBundlesCmd)
}
