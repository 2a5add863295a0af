// Package server exposes the scrape and analysis pipelines over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"listing-insights/internal/analyzer"
	"listing-insights/internal/config"
	"listing-insights/internal/crawler"
	"listing-insights/internal/metrics"
	"listing-insights/internal/models"
	"listing-insights/internal/translate"
	"listing-insights/pkg/logger"
)

type Server struct {
	cfg     *config.Config
	backend translate.Backend
	log     *logger.Logger
	metrics *metrics.Metrics
	mux     *http.ServeMux
}

// New wires the routes. backend may be nil, in which case analysis falls
// back to glossary-only output.
func New(cfg *config.Config, backend translate.Backend, l *logger.Logger, m *metrics.Metrics) *Server {
	s := &Server{cfg: cfg, backend: backend, log: l, metrics: m, mux: http.NewServeMux()}

	s.mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	s.mux.Handle("/metrics", m.Handler())

	s.mux.HandleFunc("/api/scrape", s.handleScrape)
	s.mux.HandleFunc("/api/analyze", s.handleAnalyze(analyzer.Batch))
	s.mux.HandleFunc("/api/analyze-deepl", s.handleAnalyze(analyzer.DeepL))
	s.mux.HandleFunc("/api/analyze-simple", s.handleAnalyze(analyzer.Simple))
	s.mux.HandleFunc("/api/test", s.handleEcho)

	s.mux.HandleFunc("/", s.handleStatic)
	return s
}

// Handler returns the mux wrapped in the middleware chain.
func (s *Server) Handler() http.Handler {
	return logRequest(s.log, s.metrics, recoverer(s.log, cors(s.cfg.Server.Origins(), s.mux)))
}

// POST /api/scrape  { "url": "https://www.ebay.com/sch/..." }
func (s *Server) handleScrape(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var req models.ScrapeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.URL) == "" {
		writeError(w, http.StatusBadRequest, "please provide a listing page url")
		return
	}
	url := strings.TrimSpace(req.URL)
	if err := crawler.CheckHost(url, s.cfg.Scraper.SiteMarker); err != nil {
		s.log.Warnf("rejected scrape url %q: %v", url, err)
		writeError(w, http.StatusBadRequest, fmt.Sprintf("please provide a valid %s listing page url", s.cfg.Scraper.SiteMarker))
		return
	}

	// the scrape outlives a client that hangs up
	ctx := context.WithoutCancel(r.Context())
	sc := crawler.NewScraperFromConfig(s.cfg.Scraper, s.log.With("url", url), s.metrics)
	titles, pages := sc.FetchTitles(ctx, url)
	if len(titles) == 0 {
		writeJSON(w, http.StatusNotFound, models.ErrorResponse{
			Error:           "no listing titles found, check the url or try again later",
			SuccessfulPages: &pages,
		})
		return
	}

	writeJSON(w, http.StatusOK, models.ScrapeResponse{
		Success:         true,
		Titles:          titles,
		Count:           len(titles),
		SuccessfulPages: pages,
		Message:         fmt.Sprintf("scraped %d pages, %d listing titles", pages, len(titles)),
	})
}

// POST /api/analyze*  { "titles": ["...", "..."] }
func (s *Server) handleAnalyze(p analyzer.Profile) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		var req models.AnalyzeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Titles == nil {
			writeError(w, http.StatusBadRequest, "please provide a list of titles")
			return
		}
		if len(req.Titles) == 0 {
			writeError(w, http.StatusBadRequest, "titles must not be empty")
			return
		}

		a := analyzer.New(p, s.backend, s.log, s.metrics)
		res := a.Analyze(context.WithoutCancel(r.Context()), req.Titles)
		writeJSON(w, http.StatusOK, models.AnalyzeResponse{Success: true, Analysis: res})
	}
}

// GET|POST /api/test echoes what it received.
func (s *Server) handleEcho(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "GET ok", "method": http.MethodGet})
	case http.MethodPost:
		var data any
		if err := json.NewDecoder(r.Body).Decode(&data); err != nil {
			writeError(w, http.StatusBadRequest, "invalid json body")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "POST ok", "received_data": data})
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// handleStatic serves the front-end bundle, falling back to index.html so
// client-side routes resolve.
func (s *Server) handleStatic(w http.ResponseWriter, r *http.Request) {
	dir := s.cfg.Server.StaticDir
	if dir == "" {
		writeError(w, http.StatusNotFound, "resource not found")
		return
	}
	rel := filepath.FromSlash(strings.TrimPrefix(filepath.ToSlash(filepath.Clean("/"+r.URL.Path)), "/"))
	if rel != "" && rel != "." {
		full := filepath.Join(dir, rel)
		if fi, err := os.Stat(full); err == nil && !fi.IsDir() {
			http.ServeFile(w, r, full)
			return
		}
	}
	index := filepath.Join(dir, "index.html")
	if _, err := os.Stat(index); errors.Is(err, os.ErrNotExist) {
		writeError(w, http.StatusNotFound, "index.html not found")
		return
	}
	http.ServeFile(w, r, index)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, models.ErrorResponse{Error: msg})
}
