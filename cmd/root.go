package cmd

import (
	"fmt"
	"os"

	"github.com/iksnae/emotion-session/internal"
	"github.com/spf13/cobra"
)

var (
	verbose        bool
	configPath     string
	storeFlag      string
	storePathFlag  string
	classifierFlag string
	version        string = "dev"
	commit         string = "unknown"
	date           string = "unknown"

	appConfig internal.Config
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "emotion-session",
	Short: "Track the emotional arc of a conversation",
	Long: `A CLI and HTTP service that classifies the sentiment of each user
utterance, maps it to an emotion, replies with an adaptive response, and
tracks how the session's mood develops over time.

Features:
  • Analyze single utterances or chat interactively
  • Per-session history and mood trend
  • Pluggable classifiers (Comprehend, OpenAI, HTTP, offline lexicon)
  • Pluggable stores (SQLite, DuckDB, DynamoDB, files, memory)
  • Export sessions as JSON, JSONL, YAML or Markdown

Quick Start:
  emotion-session analyze "I finally got the job!"   # One-off analysis
  emotion-session chat --session demo                 # Interactive session
  emotion-session trend demo                          # Mood trend
  emotion-session serve --addr :8000                  # HTTP API

For detailed usage, see: https://github.com/iksnae/emotion-session`,
	Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := internal.LoadDotEnv(); err != nil {
			return err
		}
		cfg, err := internal.LoadConfig(configPath)
		if err != nil {
			return err
		}
		if storeFlag != "" {
			cfg.Store.Backend = storeFlag
		}
		if storePathFlag != "" {
			cfg.Store.Path = storePathFlag
		}
		if classifierFlag != "" {
			cfg.Classifier.Provider = classifierFlag
		}
		if err := cfg.Validate(); err != nil {
			return err
		}

		level, err := internal.ParseLogLevel(cfg.Log.Level)
		if err != nil {
			return err
		}
		internal.SetLogLevel(level)
		if verbose {
			internal.SetVerbose(true)
		}
		if cfg.Source() != "" {
			internal.LogDebug("Loaded config from %s", cfg.Source())
		}
		appConfig = cfg
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file (default ~/.config/emotion-session/config.toml)")
	rootCmd.PersistentFlags().StringVar(&storeFlag, "store", "", "Store backend: sqlite, duckdb, dynamodb, file or memory")
	rootCmd.PersistentFlags().StringVar(&storePathFlag, "store-path", "", "Database file or directory for the store")
	rootCmd.PersistentFlags().StringVar(&classifierFlag, "classifier", "", "Classifier: comprehend, openai, http or lexicon")

	// Set version template to ensure --version flag works
	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)
}
