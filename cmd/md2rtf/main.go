// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the md2rtf CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the md2rtf CLI.
var rootCmd = &cobra.Command{
	Use:   "md2rtf",
	Short: "Convert Obsidian Markdown notes to RTF",
	Long: `md2rtf converts Obsidian-flavored Markdown notes into RTF documents.

It locates the note's vault, resolves image embeds (![[name]]) against
the vault's configured attachment folder, converts the note with pandoc,
scales oversized images and tables in the RTF output to fit the page,
and opens the result in a viewer.`,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./md2rtf.yaml or ~/.config/md2rtf/config.yaml)")
	rootCmd.PersistentFlags().Bool("verbose", false, "enable debug logging")
}

func initConfig() {
	// A .env beside the note collection may carry MD2RTF_PANDOC_PATH;
	// absence is fine.
	_ = godotenv.Load()

	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("md2rtf")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "md2rtf"))
		}
	}

	viper.SetEnvPrefix("MD2RTF")
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
