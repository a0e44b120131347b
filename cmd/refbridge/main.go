// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the refbridge CLI: search a local
// record store, see which results are already in the knowledge graph, and
// import a chosen record as a new page.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/refbridge/internal/secrets"
	"github.com/pdiddy/refbridge/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds tokens loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// rootCmd is the base command for the refbridge CLI.
var rootCmd = &cobra.Command{
	Use:   "refbridge",
	Short: "Bridge between a local reference manager and a knowledge graph",
	Long: `refbridge searches the reference manager's local API, marks which results
already have a page in the knowledge graph, and imports a selected record as
a new page with its bibliographic properties and abstract.

The graph backend is either the host application's local HTTP API (--graph
api) or a standalone SQLite mirror (--graph local).`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		loadedSecrets = s
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./refbridge.yaml or ~/.config/refbridge/config.yaml)")
	rootCmd.PersistentFlags().String("graph", "", "graph backend: api or local (default from config)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("refbridge")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "refbridge"))
		}
	}

	viper.SetEnvPrefix("REFBRIDGE")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// loadConfig assembles the effective configuration from viper, secrets, and
// command flags.
func loadConfig(cmd *cobra.Command) types.Config {
	var cfg types.Config
	cfg.Store.BaseURL = viper.GetString("store.base_url")
	cfg.Store.MaxResults = viper.GetInt("store.max_results")
	cfg.Store.CacheTTL = viper.GetDuration("store.cache_ttl")
	cfg.Graph.Mode = types.GraphMode(viper.GetString("graph.mode"))
	cfg.Graph.BaseURL = viper.GetString("graph.base_url")
	cfg.Graph.APIToken = viper.GetString("graph.api_token")
	cfg.Graph.RequestsPerSecond = viper.GetFloat64("graph.requests_per_second")
	cfg.Graph.DBPath = viper.GetString("graph.db_path")
	cfg.Import.PropertyKey = viper.GetString("import.property_key")

	if cfg.Graph.APIToken == "" {
		cfg.Graph.APIToken = loadedSecrets["graph-api-token"]
	}
	if mode, _ := cmd.Flags().GetString("graph"); mode != "" {
		cfg.Graph.Mode = types.GraphMode(mode)
	}

	cfg.Defaults()
	return cfg
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
