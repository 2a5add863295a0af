package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics groups the pipeline's collectors. A nil *Metrics is valid and
// records nothing, so components can be built without a registry.
type Metrics struct {
	reg prometheus.Gatherer

	pageFetches        *prometheus.CounterVec
	fetchAttempts      *prometheus.CounterVec
	titlesExtracted    *prometheus.CounterVec
	translationBatches *prometheus.CounterVec
	httpRequests       *prometheus.CounterVec
	httpDuration       *prometheus.HistogramVec
}

// New registers the collectors on a fresh registry together with the Go
// runtime and process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)
	return &Metrics{
		reg: reg,
		pageFetches: f.NewCounterVec(prometheus.CounterOpts{
			Name: "listing_page_fetches_total",
			Help: "Listing pages processed by outcome (ok, empty, failed, skipped).",
		}, []string{"outcome"}),
		fetchAttempts: f.NewCounterVec(prometheus.CounterOpts{
			Name: "listing_fetch_attempts_total",
			Help: "Individual HTTP fetch attempts by outcome (ok, error, blocked).",
		}, []string{"outcome"}),
		titlesExtracted: f.NewCounterVec(prometheus.CounterOpts{
			Name: "listing_titles_extracted_total",
			Help: "Titles accepted per extraction strategy.",
		}, []string{"strategy"}),
		translationBatches: f.NewCounterVec(prometheus.CounterOpts{
			Name: "listing_translation_batches_total",
			Help: "Translation batches by target language and outcome.",
		}, []string{"target", "outcome"}),
		httpRequests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "listing_http_requests_total",
			Help: "API requests by path and status code.",
		}, []string{"path", "code"}),
		httpDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "listing_http_request_duration_seconds",
			Help:    "API request latency.",
			Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30, 60},
		}, []string{"path"}),
	}
}

func (m *Metrics) PageFetch(outcome string) {
	if m == nil {
		return
	}
	m.pageFetches.WithLabelValues(outcome).Inc()
}

func (m *Metrics) FetchAttempt(outcome string) {
	if m == nil {
		return
	}
	m.fetchAttempts.WithLabelValues(outcome).Inc()
}

func (m *Metrics) TitlesExtracted(strategy string, n int) {
	if m == nil || n == 0 {
		return
	}
	m.titlesExtracted.WithLabelValues(strategy).Add(float64(n))
}

func (m *Metrics) TranslationBatch(target, outcome string) {
	if m == nil {
		return
	}
	m.translationBatches.WithLabelValues(target, outcome).Inc()
}

func (m *Metrics) ObserveRequest(path string, code int, d time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(path, strconv.Itoa(code)).Inc()
	m.httpDuration.WithLabelValues(path).Observe(d.Seconds())
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{})
}
