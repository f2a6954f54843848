// Package main implements the codesim CLI for scoring code similarity.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// version information
	version = "dev"

	configPath   string
	providerName string
	profileName  string
	outputFormat string
	showStats    bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "codesim",
	Short: "Score source code similarity",
	Long: `codesim detects near-duplicate and plagiarized source code.

Snippets are normalized, embedded with the configured provider and compared
by cosine similarity. When the provider is unavailable, scores fall back to
token-frequency similarity, so every command always produces a number.

Configuration is read from ~/.config/codesim/config.yaml and CODESIM_*
environment variables.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: false,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if outputFormat != formatJSON && outputFormat != formatTable {
			return fmt.Errorf("--format must be %s or %s, got %q", formatJSON, formatTable, outputFormat)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ~/.config/codesim/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&providerName, "provider", "", "embedding provider: none, tei, huggingface, fastembed, openai, gemini, ollama")
	rootCmd.PersistentFlags().StringVar(&profileName, "profile", "", "preprocessing profile: basic or extended")
	rootCmd.PersistentFlags().StringVar(&outputFormat, "format", formatTable, "output format: json or table")
	rootCmd.PersistentFlags().BoolVar(&showStats, "stats", false, "print cache and fallback statistics to stderr")

	rootCmd.AddCommand(pairCmd)
	rootCmd.AddCommand(matrixCmd)
	rootCmd.AddCommand(traceCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(normalizeCmd)
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the codesim version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "codesim %s\n", version)
	},
}
