package cmd

import (
	"fmt"

	"github.com/ibelion/omniwiki/internal/server"
	"github.com/ibelion/omniwiki/internal/utils"
	"github.com/ibelion/omniwiki/pkg/datastore"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve built bundles over a read-only JSON API",
	Long: `Loads every <output-dir>/<universe>/data/bundle.json (or the --bundle sources, which may be
http(s) URLs) and serves /api/universes, /api/pokemon/{slug}, /api/pokemon/{slug}/learnset,
/api/pokemon/{slug}/defense, /api/types/chart and POST /api/reload.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		listenAddr, _ := cmd.Flags().GetString("listen")
		sources, _ := cmd.Flags().GetStringSlice("bundle")

		if len(sources) == 0 {
			dirs, err := utils.SubDirs(afero.NewOsFs(), cfg.OutputDir)
			if err != nil {
				return fmt.Errorf("list bundles: %w", err)
			}
			for _, d := range dirs {
				p := defaultBundlePath(cfg, d)
				if ok, _ := afero.Exists(afero.NewOsFs(), p); ok {
					sources = append(sources, p)
				}
			}
		}
		if len(sources) == 0 {
			return fmt.Errorf("no bundles found under %s; run 'omniwiki build' first", cfg.OutputDir)
		}

		var stores []*datastore.Store
		for _, src := range sources {
			st := datastore.New(src, datastore.WithLogger(utils.Log))
			if err := st.Load(cmd.Context()); err != nil {
				return err
			}
			stores = append(stores, st)
		}

		return server.New(stores, viper.GetString("server.username"), viper.GetString("server.password")).Start(listenAddr)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("listen", ":8080", "HTTP listen address")
	serveCmd.Flags().StringSlice("bundle", nil, "Bundle paths or http(s) URLs to serve (default: every bundle under <output-dir>)")
}
