// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the gradus-engine CLI.
// See docs/ARCHITECTURE § Pipeline Interface, § Project Structure.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the gradus-engine CLI.
var rootCmd = &cobra.Command{
	Use:   "gradus-engine",
	Short: "Dataset and index tooling for the Gradus ad Parnassum score corpus",
	Long: `gradus-engine turns annotated counterpoint section scores into the
published corpus artifacts: a tabular dataset, a searchable HTML index,
and one score file per exercise.

Each stage is a subcommand: process runs a whole section end to end;
report, segment, catalog, and verify run individual stages over
already-built inputs.`,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./gradus-engine.yaml or ~/.config/gradus-engine/config.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("gradus-engine")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "gradus-engine"))
		}
	}

	viper.SetEnvPrefix("GRADUS_ENGINE")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
