package main

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"listing-insights/internal/analyzer"
	"listing-insights/internal/ioformats"
)

// NewAnalyzeCmd creates the analyze command.
func NewAnalyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Rank and translate the keywords of a title list",
		Long: `Analyze tokenizes the titles in --input, ranks the keywords and attaches
English and Chinese glosses. Profiles mirror the HTTP endpoints:
  batch   /api/analyze
  deepl   /api/analyze-deepl
  simple  /api/analyze-simple`,
		Args: cobra.NoArgs,
		RunE: runAnalyzeCmd,
	}
	cmd.Flags().StringP("input", "i", "", "titles file (csv with a 'title' column, ndjson or txt)")
	cmd.Flags().String("profile", analyzer.Batch.Name, "analysis profile: batch, deepl or simple")
	cmd.Flags().StringP("output", "o", "", "output JSON file (default stdout)")
	_ = cmd.MarkFlagRequired("input")
	return cmd
}

func runAnalyzeCmd(cmd *cobra.Command, _ []string) error {
	cfg, l, err := loadRuntime(cmd)
	if err != nil {
		return err
	}
	name, _ := cmd.Flags().GetString("profile")
	profile, err := analyzer.LookupProfile(name)
	if err != nil {
		return err
	}
	in, _ := cmd.Flags().GetString("input")
	titles, err := ioformats.ReadTitles(in)
	if err != nil {
		return err
	}

	a := analyzer.New(profile, newBackend(cfg, l), l, nil)
	res := a.Analyze(cmd.Context(), titles)

	w, closeFn, err := openOutput(cmd)
	if err != nil {
		return err
	}
	defer closeFn()
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}
