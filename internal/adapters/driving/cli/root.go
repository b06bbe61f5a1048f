// Package cli implements the ampdesk command line interface.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/ampdesk/ampdesk/internal/app"
	"github.com/ampdesk/ampdesk/internal/config"
	"github.com/ampdesk/ampdesk/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

var (
	configPath string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "ampdesk",
	Short: "Retrieval-augmented support bot and guarded translator",
	Long: `ampdesk serves a support chatbot grounded in versioned knowledge
bases and a translation API with strict output guardrails. Both run
against a local Ollama runtime and a Chroma vector store.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config.toml (default: ./config.toml if present)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// Execute runs the CLI.
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion overrides the build version string.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// loadApp builds the wired application from the configured sources.
func loadApp() (*app.App, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	return app.New(cfg)
}
