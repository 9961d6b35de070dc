// Package cli implements the quill command line.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/cognicore/quill/pkg/quill/config"
)

// Version is set at build time.
var Version = "v0.1.0"

var (
	cfgFile string
	verbose bool
	logger  = slog.Default()
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "quill",
	Short: "Quill - stock phrase finder for prose",
	Long: `Quill splits prose into paragraphs and sentences, tags every word with
its part of speech, and hunts for configurable stock phrases ("a small
world", "dark and stormy night") even when adjectives or adverbs have been
slipped into the middle of them.

Templates are written as space-separated word/command elements:
  word/e  the exact word (default)
  word/p  any word of the same grammatical class
  word/s  the word or one of its synonyms`,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger = NewLogger(viper.GetString("log_level"), viper.GetString("log_format"))
	},
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// ExecuteContext runs the root command with ctx available to subcommands.
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "quill %s\n", Version)
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (default: $HOME/.quill/config.yaml)")
	pf.BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	pf.String("log-level", "info", "log level: debug, info, warn, error")
	pf.String("log-format", "text", "log format: text or json")
	pf.String("cliches", "", "cliche templates file (YAML)")
	pf.String("abbreviations", "", "abbreviations file (YAML)")
	pf.String("lexicon", "", "synonym lexicon file (YAML)")
	pf.String("wordnet", "", "Open English WordNet JSON directory")
	pf.String("tags", "", "tag overrides file (YAML)")
	pf.String("tagger", "prose", "local tagger: prose or rules")
	pf.String("tagger-url", "", "remote tagging service URL")
	pf.Float64("tagger-rate", 0, "remote tagger requests per second (0 = unlimited)")
	pf.Int("workers", runtime.NumCPU(), "parallel workers")

	// Bind flags to viper
	for key, flag := range map[string]string{
		"verbose":       "verbose",
		"log_level":     "log-level",
		"log_format":    "log-format",
		"cliches":       "cliches",
		"abbreviations": "abbreviations",
		"lexicon":       "lexicon",
		"wordnet":       "wordnet",
		"tags":          "tags",
		"tagger":        "tagger",
		"tagger_url":    "tagger-url",
		"tagger_rate":   "tagger-rate",
		"workers":       "workers",
	} {
		_ = viper.BindPFlag(key, pf.Lookup(flag))
	}

	// Add subcommands
	rootCmd.AddCommand(versionCmd)
}

// initConfig reads in config file and ENV variables
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error finding home directory: %v\n", err)
			return
		}

		viper.AddConfigPath(home + "/.quill")
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	// Read in environment variables that match QUILL_*
	viper.SetEnvPrefix("QUILL")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil && verbose {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}

// loaderFromViper collects the component settings from flags, env and the
// config file.
func loaderFromViper() config.Loader {
	return config.Loader{
		AbbreviationsPath: viper.GetString("abbreviations"),
		ClichesPath:       viper.GetString("cliches"),
		LexiconPath:       viper.GetString("lexicon"),
		WordNetPath:       viper.GetString("wordnet"),
		TagLexiconPath:    viper.GetString("tags"),
		Tagger:            viper.GetString("tagger"),
		TaggerURL:         viper.GetString("tagger_url"),
		TaggerRate:        viper.GetFloat64("tagger_rate"),
		Workers:           viper.GetInt("workers"),
	}
}

func loadComponents(ctx context.Context) (*config.Components, error) {
	loader := loaderFromViper()
	comp, err := loader.Load(ctx)
	if err != nil {
		return nil, err
	}
	logger.Debug("components loaded",
		slog.Int("templates", len(comp.Hunter.Templates())),
		slog.Int("rejected", len(comp.Rejected)),
		slog.Int("synonym_groups", comp.Lexicon.Stats().SynonymGroups),
		slog.String("tagger", loader.Tagger),
		slog.Bool("remote_tagger", loader.TaggerURL != ""),
	)
	for _, r := range comp.Rejected {
		logger.Warn("template rejected", slog.String("id", r.ID), slog.String("error", r.Err.Error()))
	}
	return comp, nil
}
