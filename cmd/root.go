package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/ibelion/omniwiki/internal/config"
	"github.com/ibelion/omniwiki/internal/utils"
	"github.com/ibelion/omniwiki/pkg/universe"
	"github.com/ibelion/omniwiki/pkg/universe/league"
	"github.com/ibelion/omniwiki/pkg/universe/pokemon"
	"github.com/spf13/cobra"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

var cfgFile string

// errPartialFailure is returned after a summary has been printed for a run
// in which at least one universe failed.
var errPartialFailure = errors.New("one or more universes failed")

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "omniwiki",
	Short: "Build and maintain omniwiki universe data bundles.",
	Long: `omniwiki turns per-universe CSV dumps into the JSON bundles the wiki serves,
imports and exports OmniArt character data, and keeps the universe indexes current.`,
	CompletionOptions: cobra.CompletionOptions{
		DisableDefaultCmd: true,
	},
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		levelString, _ := cmd.Flags().GetString("loglevel")
		return utils.SetLogLevel(levelString)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errPartialFailure) {
			fmt.Println(err)
		}
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.omniwiki.yaml)")

	// Global flags
	rootCmd.PersistentFlags().StringP("loglevel", "l", "info", "Set log level. Available: debug, info, warn, error, fatal")
	rootCmd.PersistentFlags().String("source-dir", "", "Per-universe CSV source root (env OMNIWIKI_SOURCE_DIR)")
	rootCmd.PersistentFlags().String("output-dir", "", "Bundle output root (env OMNIWIKI_OUTPUT_DIR)")
	rootCmd.PersistentFlags().String("data-dir", "", "Canonical import output directory (env OMNIWIKI_DATA_DIR)")
	rootCmd.PersistentFlags().String("public-dir", "", "Image CDN root for imports (env OMNIWIKI_PUBLIC_DIR)")
	rootCmd.PersistentFlags().String("exports-dir", "", "Flat export directory (env OMNIWIKI_EXPORTS_DIR)")
	rootCmd.PersistentFlags().String("export-path", "", "OmniArt export directory to import from (env OMNIGAME_EXPORT_PATH)")
	rootCmd.PersistentFlags().IntP("concurrency", "c", 0, "Universes processed in parallel (env OMNIWIKI_CONCURRENCY)")

	for key, flag := range map[string]string{
		config.KeySourceDir:   "source-dir",
		config.KeyOutputDir:   "output-dir",
		config.KeyDataDir:     "data-dir",
		config.KeyPublicDir:   "public-dir",
		config.KeyExportsDir:  "exports-dir",
		config.KeyExportPath:  "export-path",
		config.KeyConcurrency: "concurrency",
	} {
		viper.BindPFlag(key, rootCmd.PersistentFlags().Lookup(flag))
	}
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := homedir.Dir()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		viper.AddConfigPath(home)
		viper.SetConfigName(".omniwiki")
		viper.SetConfigType("yaml")
	}

	viper.AutomaticEnv()

	// A missing config file is fine: environment variables and defaults apply.
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			fmt.Printf("Error reading config file: %s\n", err)
		}
	}
}

// lockDir takes the write lock on dir and returns its release func.
func lockDir(dir string) (func(), error) {
	lock, err := utils.NewDirLock(dir)
	if err != nil {
		return nil, err
	}
	if err := lock.Lock(); err != nil {
		return nil, err
	}
	return func() {
		if err := lock.Unlock(); err != nil {
			utils.Log.Warn(err)
		}
	}, nil
}

func loadConfig() (*config.Config, error) {
	return config.Load(viper.GetViper())
}

// allBuilders lists every universe that can be built from CSV sources.
func allBuilders() []universe.Builder {
	return []universe.Builder{
		league.New(),
		pokemon.New(),
	}
}
