// Package config resolves directory layout and build settings from the
// environment and the viper config file.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/spf13/viper"
)

// Config holds the paths every command works against.
type Config struct {
	ExportPath  string `env:"OMNIGAME_EXPORT_PATH" envDefault:"dist/omniart-export"`
	SourceDir   string `env:"OMNIWIKI_SOURCE_DIR"  envDefault:"data/sources"`
	OutputDir   string `env:"OMNIWIKI_OUTPUT_DIR"  envDefault:"public"`
	DataDir     string `env:"OMNIWIKI_DATA_DIR"    envDefault:"data"`
	PublicDir   string `env:"OMNIWIKI_PUBLIC_DIR"  envDefault:"public"`
	ExportsDir  string `env:"OMNIWIKI_EXPORTS_DIR" envDefault:"public/exports"`
	Concurrency int    `env:"OMNIWIKI_CONCURRENCY" envDefault:"4"`
}

// Viper keys overlaid on the environment.
const (
	KeyExportPath  = "paths.export"
	KeySourceDir   = "paths.source"
	KeyOutputDir   = "paths.output"
	KeyDataDir     = "paths.data"
	KeyPublicDir   = "paths.public"
	KeyExportsDir  = "paths.exports"
	KeyConcurrency = "build.concurrency"
)

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Load parses the environment and then applies every key set in v, so
// flags and the config file win over environment variables.
func Load(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := ParseEnv(cfg); err != nil {
		return nil, err
	}
	if v != nil {
		overlay(v, cfg)
	}
	if cfg.Concurrency <= 0 {
		return nil, fmt.Errorf("concurrency must be positive, got %d", cfg.Concurrency)
	}
	return cfg, nil
}

func overlay(v *viper.Viper, cfg *Config) {
	for key, dst := range map[string]*string{
		KeyExportPath: &cfg.ExportPath,
		KeySourceDir:  &cfg.SourceDir,
		KeyOutputDir:  &cfg.OutputDir,
		KeyDataDir:    &cfg.DataDir,
		KeyPublicDir:  &cfg.PublicDir,
		KeyExportsDir: &cfg.ExportsDir,
	} {
		if s := v.GetString(key); v.IsSet(key) && s != "" {
			*dst = s
		}
	}
	if v.IsSet(KeyConcurrency) {
		if n := v.GetInt(KeyConcurrency); n > 0 {
			cfg.Concurrency = n
		}
	}
}
