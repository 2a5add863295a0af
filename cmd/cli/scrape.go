package main

import (
	"errors"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"listing-insights/internal/crawler"
	"listing-insights/internal/ioformats"
	"listing-insights/internal/models"
)

type scrapeRecord struct {
	URL    string               `json:"url"`
	Result *models.ScrapeResult `json:"result,omitempty"`
	Error  string               `json:"error,omitempty"`
}

// NewScrapeCmd creates the scrape command.
func NewScrapeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scrape",
		Short: "Scrape listing titles from one or more start URLs",
		Long: `Scrape walks up to --max-pages pages of every start URL and writes one NDJSON
record per URL: {"url": ..., "result": {...}} or {"url": ..., "error": ...}.

Examples:
  listingctl scrape --url "https://www.ebay.com/sch/i.html?_nkw=smart+bulb"
  listingctl scrape --input urls.csv --output titles.ndjson`,
		Args: cobra.NoArgs,
		RunE: runScrapeCmd,
	}
	cmd.Flags().StringArrayP("url", "u", nil, "start URL (repeatable)")
	cmd.Flags().StringP("input", "i", "", "file of start URLs (csv with a 'url' column or ndjson)")
	cmd.Flags().IntP("max-pages", "p", 0, "pages per start URL (default from config)")
	cmd.Flags().StringP("output", "o", "", "output NDJSON file (default stdout)")
	return cmd
}

func runScrapeCmd(cmd *cobra.Command, _ []string) error {
	cfg, l, err := loadRuntime(cmd)
	if err != nil {
		return err
	}

	urls, _ := cmd.Flags().GetStringArray("url")
	if in, _ := cmd.Flags().GetString("input"); in != "" {
		fromFile, err := ioformats.ReadURLs(in)
		if err != nil {
			return err
		}
		urls = append(urls, fromFile...)
	}
	if len(urls) == 0 {
		return errors.New("provide --url or --input")
	}
	if n, _ := cmd.Flags().GetInt("max-pages"); n > 0 {
		cfg.Scraper.MaxPages = n
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var records []scrapeRecord
	for _, u := range urls {
		u = strings.TrimSpace(u)
		if err := crawler.CheckHost(u, cfg.Scraper.SiteMarker); err != nil {
			records = append(records, scrapeRecord{URL: u, Error: err.Error()})
			continue
		}
		sc := crawler.NewScraperFromConfig(cfg.Scraper, l.With("url", u), nil)
		titles, pages := sc.FetchTitles(ctx, u)
		if len(titles) == 0 {
			records = append(records, scrapeRecord{URL: u, Error: "no listing titles found"})
		} else {
			records = append(records, scrapeRecord{URL: u, Result: &models.ScrapeResult{
				SourceURL:       u,
				Titles:          titles,
				Count:           len(titles),
				SuccessfulPages: pages,
			}})
		}
		if ctx.Err() != nil {
			l.Warnf("interrupted, skipping remaining urls")
			break
		}
	}

	w, closeFn, err := openOutput(cmd)
	if err != nil {
		return err
	}
	defer closeFn()
	return ioformats.WriteNDJSON(w, records)
}

func openOutput(cmd *cobra.Command) (io.Writer, func(), error) {
	path, _ := cmd.Flags().GetString("output")
	if path == "" {
		return cmd.OutOrStdout(), func() {}, nil
	}
	f, err := os.Create(path) //nolint:gosec // operator-supplied path
	if err != nil {
		return nil, nil, err
	}
	return f, func() { _ = f.Close() }, nil
}
