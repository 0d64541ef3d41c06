// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the pdf2md CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the pdf2md CLI.
var rootCmd = &cobra.Command{
	Use:   "pdf2md",
	Short: "Convert PDF documents to Markdown with LLM assistance",
	Long: `pdf2md converts PDF documents to clean, well-structured Markdown using an
AI provider. Page text (and optionally rendered page images) is split into
bounded chunks, reformatted by the model, and reassembled into one document.

Supported providers: anthropic (Claude), openai (GPT)

Set the matching API key environment variable, or pass --api-key:
  ANTHROPIC_API_KEY for anthropic
  OPENAI_API_KEY for openai`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// .env is optional; a missing file is not an error.
		_ = godotenv.Load()

		verbose, _ := cmd.Flags().GetBool("verbose")
		if verbose {
			logrus.SetLevel(logrus.DebugLevel)
		}
		logrus.SetOutput(os.Stderr)
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./pdf2md.yaml or ~/.config/pdf2md/config.yaml)")
	rootCmd.PersistentFlags().Bool("verbose", false, "enable debug logging")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("pdf2md")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "pdf2md"))
		}
	}

	viper.SetEnvPrefix("PDF2MD")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// stringSetting reads a string flag, falling back to the viper config value
// when the flag was not set on the command line.
func stringSetting(cmd *cobra.Command, name string) string {
	v, _ := cmd.Flags().GetString(name)
	if !cmd.Flags().Changed(name) {
		if cv := viper.GetString(name); cv != "" {
			return cv
		}
	}
	return v
}

// intSetting reads an int flag with the same config fallback.
func intSetting(cmd *cobra.Command, name string) int {
	v, _ := cmd.Flags().GetInt(name)
	if !cmd.Flags().Changed(name) {
		if cv := viper.GetInt(name); cv != 0 {
			return cv
		}
	}
	return v
}

// viperBoolDefault reads a bool from the config file, keeping fallback when
// the key is absent.
func viperBoolDefault(name string, fallback bool) bool {
	if viper.IsSet(name) {
		return viper.GetBool(name)
	}
	return fallback
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
