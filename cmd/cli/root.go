package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"listing-insights/internal/config"
	"listing-insights/internal/translate"
	"listing-insights/pkg/logger"
)

// NewRootCmd creates the listingctl root command.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "listingctl",
		Short: "Scrape listing titles and rank their keywords",
		Long: `listingctl runs the listing scraper and the keyword analysis without the
HTTP server. Settings come from the same YAML file and environment variables
the server reads.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringP("config", "c", os.Getenv("LISTING_CONFIG"), "YAML configuration file")
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")

	cmd.AddCommand(NewScrapeCmd())
	cmd.AddCommand(NewAnalyzeCmd())
	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadRuntime reads the configuration named by --config and builds a
// logger that honours --verbose.
func loadRuntime(cmd *cobra.Command) (*config.Config, *logger.Logger, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, nil, fmt.Errorf("configuration error: %w", err)
	}
	level := cfg.Log.Level
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		level = "debug"
	}
	return cfg, logger.New(cmd.ErrOrStderr(), level, cfg.Log.Format), nil
}

func newBackend(cfg *config.Config, l *logger.Logger) translate.Backend {
	b, err := translate.New(translate.Config{
		Backend:       cfg.Translator.Backend,
		DeepLAuthKey:  cfg.Translator.DeepLAuthKey,
		DeepLBaseURL:  cfg.Translator.DeepLBaseURL,
		LingvaBaseURL: cfg.Translator.LingvaBaseURL,
		Timeout:       cfg.Translator.Timeout,
	}, l)
	if err != nil {
		l.Warnf("translation disabled, glossary only: %v", err)
		return nil
	}
	return b
}
