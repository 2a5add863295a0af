package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"listing-insights/internal/config"
	"listing-insights/internal/metrics"
	"listing-insights/internal/models"
	"listing-insights/internal/translate"
	"listing-insights/pkg/logger"
)

func testConfig() *config.Config {
	cfg := config.NewConfig()
	cfg.Scraper.SiteMarker = "127.0.0.1"
	cfg.Scraper.MaxPages = 2
	cfg.Scraper.PageDelay = 0
	cfg.Scraper.BackoffBase = 0
	return cfg
}

func newTestServer(t *testing.T, cfg *config.Config, b translate.Backend) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(New(cfg, b, logger.Discard(), metrics.New()).Handler())
	t.Cleanup(ts.Close)
	return ts
}

func postJSON(t *testing.T, url, body string) (*http.Response, []byte) {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("post %s: %v", url, err)
	}
	defer resp.Body.Close()
	data, _ := io.ReadAll(resp.Body)
	return resp, data
}

func listingUpstream(t *testing.T, titlesByPage map[string][]string) *httptest.Server {
	t.Helper()
	up := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		page := r.URL.Query().Get("_pgn")
		if page == "" {
			page = "1"
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		var b bytes.Buffer
		b.WriteString("<html><body>")
		for _, title := range titlesByPage[page] {
			fmt.Fprintf(&b, `<h3 class="textual-display bsig__title__text">%s</h3>`, title)
		}
		b.WriteString("</body></html>")
		_, _ = w.Write(b.Bytes())
	}))
	t.Cleanup(up.Close)
	return up
}

func TestScrape(t *testing.T) {
	up := listingUpstream(t, map[string][]string{
		"1": {"Philips Hue White LED Bulb E27", "Govee LED Strip Lights 10m"},
		"2": {"Govee LED Strip Lights 10m", "Nanoleaf Shapes Hexagon Kit"},
	})
	ts := newTestServer(t, testConfig(), nil)

	resp, body := postJSON(t, ts.URL+"/api/scrape", fmt.Sprintf(`{"url": %q}`, up.URL+"/sch/i.html?_nkw=led"))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status %d: %s", resp.StatusCode, body)
	}
	var out models.ScrapeResponse
	if err := json.Unmarshal(body, &out); err != nil {
		t.Fatal(err)
	}
	if !out.Success || out.Count != 3 || out.SuccessfulPages != 2 || len(out.Titles) != 3 {
		t.Fatalf("unexpected response: %+v", out)
	}
	if out.Titles[2] != "Nanoleaf Shapes Hexagon Kit" || out.Message == "" {
		t.Fatalf("unexpected response: %+v", out)
	}
}

func TestScrapeNothingFound(t *testing.T) {
	up := listingUpstream(t, nil)
	ts := newTestServer(t, testConfig(), nil)

	resp, body := postJSON(t, ts.URL+"/api/scrape", fmt.Sprintf(`{"url": %q}`, up.URL))
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status %d: %s", resp.StatusCode, body)
	}
	var out models.ErrorResponse
	if err := json.Unmarshal(body, &out); err != nil {
		t.Fatal(err)
	}
	if out.Error == "" || out.SuccessfulPages == nil || *out.SuccessfulPages != 0 {
		t.Fatalf("unexpected 404 body: %s", body)
	}
}

func TestScrapeValidation(t *testing.T) {
	ts := newTestServer(t, testConfig(), nil)
	cases := map[string]string{
		"missing url": `{}`,
		"bad json":    `{"url":`,
		"wrong host":  `{"url": "https://www.amazon.com/s?k=lamp"}`,
		"relative":    `{"url": "/sch/i.html"}`,
	}
	for name, body := range cases {
		resp, data := postJSON(t, ts.URL+"/api/scrape", body)
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("%s: status %d, want 400 (%s)", name, resp.StatusCode, data)
		}
		if !bytes.Contains(data, []byte(`"error"`)) {
			t.Errorf("%s: missing error field: %s", name, data)
		}
	}

	resp, err := http.Get(ts.URL + "/api/scrape")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Fatalf("GET /api/scrape = %d, want 405", resp.StatusCode)
	}
}

func TestAnalyzeEndToEnd(t *testing.T) {
	ts := newTestServer(t, testConfig(), nil)
	resp, body := postJSON(t, ts.URL+"/api/analyze", `{"titles": ["Philips Hue White LED Bulb E27"]}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status %d: %s", resp.StatusCode, body)
	}
	var out models.AnalyzeResponse
	if err := json.Unmarshal(body, &out); err != nil {
		t.Fatal(err)
	}
	if !out.Success || out.Analysis.TotalTitles != 1 {
		t.Fatalf("unexpected analysis: %+v", out)
	}
	found := false
	for _, kw := range out.Analysis.TopKeywords {
		if kw.Original == "led" {
			found = true
			if kw.Chinese != translate.Glossary["led"] {
				t.Fatalf("led chinese = %q", kw.Chinese)
			}
		}
	}
	if !found {
		t.Fatalf("led missing: %s", body)
	}
}

type prefixBackend struct{}

func (prefixBackend) TranslateBatch(_ context.Context, tokens []string, target string) ([]string, error) {
	out := make([]string, len(tokens))
	for i, t := range tokens {
		out[i] = strings.ToLower(target) + ":" + t
	}
	return out, nil
}

func TestAnalyzeVariants(t *testing.T) {
	ts := newTestServer(t, testConfig(), prefixBackend{})
	for _, path := range []string{"/api/analyze-deepl", "/api/analyze-simple"} {
		resp, body := postJSON(t, ts.URL+path, `{"titles": ["LED lamp shade", "lamp for desk"]}`)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("%s: status %d: %s", path, resp.StatusCode, body)
		}
		var out models.AnalyzeResponse
		if err := json.Unmarshal(body, &out); err != nil {
			t.Fatal(err)
		}
		top := out.Analysis.TopKeywords
		if len(top) == 0 || top[0].Original != "lamp" || top[0].Rank != 1 || top[0].Percentage == nil {
			t.Fatalf("%s: unexpected keywords %s", path, body)
		}
		if top[0].Chinese != "zh:lamp" {
			t.Fatalf("%s: lamp chinese = %q", path, top[0].Chinese)
		}
	}
}

func TestAnalyzeValidation(t *testing.T) {
	ts := newTestServer(t, testConfig(), nil)
	for _, body := range []string{`{}`, `{"titles": []}`, `not json`} {
		resp, data := postJSON(t, ts.URL+"/api/analyze", body)
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("body %s: status %d, want 400 (%s)", body, resp.StatusCode, data)
		}
	}
}

func TestEcho(t *testing.T) {
	ts := newTestServer(t, testConfig(), nil)
	resp, body := postJSON(t, ts.URL+"/api/test", `{"hello": "world"}`)
	if resp.StatusCode != http.StatusOK || !bytes.Contains(body, []byte(`"received_data":{"hello":"world"}`)) {
		t.Fatalf("status %d: %s", resp.StatusCode, body)
	}
}

func TestHealthMetricsAndRequestID(t *testing.T) {
	ts := newTestServer(t, testConfig(), nil)

	resp, err := http.Get(ts.URL + "/health")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK || resp.Header.Get(requestIDHeader) == "" {
		t.Fatalf("health: status %d, request id %q", resp.StatusCode, resp.Header.Get(requestIDHeader))
	}

	req, _ := http.NewRequest(http.MethodGet, ts.URL+"/health", nil)
	req.Header.Set(requestIDHeader, "abc-123")
	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.Header.Get(requestIDHeader) != "abc-123" {
		t.Fatalf("request id not propagated: %q", resp.Header.Get(requestIDHeader))
	}

	resp, err = http.Get(ts.URL + "/metrics")
	if err != nil {
		t.Fatal(err)
	}
	data, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if !bytes.Contains(data, []byte(`listing_http_requests_total{code="200",path="/health"} 2`)) {
		t.Fatalf("health requests not counted:\n%s", data)
	}
}

func TestCORSPreflight(t *testing.T) {
	cfg := testConfig()
	cfg.Server.CORSOrigins = "https://app.example"
	ts := newTestServer(t, cfg, nil)

	req, _ := http.NewRequest(http.MethodOptions, ts.URL+"/api/analyze", nil)
	req.Header.Set("Origin", "https://app.example")
	req.Header.Set("Access-Control-Request-Method", "POST")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent || resp.Header.Get("Access-Control-Allow-Origin") != "https://app.example" {
		t.Fatalf("preflight: %d %v", resp.StatusCode, resp.Header)
	}

	req.Header.Set("Origin", "https://evil.example")
	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.Header.Get("Access-Control-Allow-Origin") != "" {
		t.Fatal("unknown origin must not be allowed")
	}
}

func TestStaticFallback(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "index.html"), []byte("<html>app</html>"), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "app.js"), []byte("console.log(1)"), 0o600); err != nil {
		t.Fatal(err)
	}
	cfg := testConfig()
	cfg.Server.StaticDir = dir
	ts := newTestServer(t, cfg, nil)

	for path, want := range map[string]string{"/app.js": "console.log(1)", "/some/route": "<html>app</html>", "/": "<html>app</html>"} {
		resp, err := http.Get(ts.URL + path)
		if err != nil {
			t.Fatal(err)
		}
		data, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		if string(data) != want {
			t.Errorf("%s: got %q, want %q", path, data, want)
		}
	}
}

func TestRecovererReturns500(t *testing.T) {
	h := recoverer(logger.Discard(), http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/analyze", nil))
	if rec.Code != http.StatusInternalServerError || !strings.Contains(rec.Body.String(), "internal server error") {
		t.Fatalf("got %d %q", rec.Code, rec.Body.String())
	}
}
