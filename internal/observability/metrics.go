package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome labels shared by the billing counters.
const (
	ResultOK       = "ok"
	ResultFailed   = "failed"
	ResultConflict = "conflict"
)

// Metrics collects Prometheus metrics for the billing service.
type Metrics struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	invoicesSaved   *prometheus.CounterVec
	ledgerRecords   *prometheus.CounterVec
	stockUpdates    *prometheus.CounterVec
}

// NewMetrics initialises the registry with HTTP and billing metrics.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "billing_http_requests_total",
		Help: "HTTP requests by route and status code.",
	}, []string{"route", "code"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "billing_http_request_duration_seconds",
		Help:    "HTTP request duration by route.",
		Buckets: prometheus.DefBuckets,
	}, []string{"route"})
	invoices := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "billing_invoices_saved_total",
		Help: "Invoices persisted, split by GST flag.",
	}, []string{"gst"})
	ledger := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "billing_ledger_records_total",
		Help: "GST ledger appends by result.",
	}, []string{"result"})
	stock := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "billing_stock_updates_total",
		Help: "Catalog stock updates by result.",
	}, []string{"result"})
	registry.MustRegister(requests, duration, invoices, ledger, stock)
	return &Metrics{
		registry:        registry,
		handler:         promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestsTotal:   requests,
		requestDuration: duration,
		invoicesSaved:   invoices,
		ledgerRecords:   ledger,
		stockUpdates:    stock,
	}
}

// Handler returns the /metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// Middleware records request count and latency per route.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	if m == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(&recorder, r)
		route := routePattern(r)
		m.requestsTotal.WithLabelValues(route, strconv.Itoa(recorder.status)).Inc()
		m.requestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	})
}

// InvoiceSaved counts a persisted invoice.
func (m *Metrics) InvoiceSaved(gst bool) {
	if m == nil {
		return
	}
	m.invoicesSaved.WithLabelValues(strconv.FormatBool(gst)).Inc()
}

// LedgerRecords counts n ledger appends with the given result.
func (m *Metrics) LedgerRecords(result string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.ledgerRecords.WithLabelValues(result).Add(float64(n))
}

// StockUpdate counts one stock update with the given result.
func (m *Metrics) StockUpdate(result string) {
	if m == nil {
		return
	}
	m.stockUpdates.WithLabelValues(result).Inc()
}

// Registerer exposes the registry for custom metrics.
func (m *Metrics) Registerer() prometheus.Registerer {
	if m == nil {
		return prometheus.DefaultRegisterer
	}
	return m.registry
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func routePattern(r *http.Request) string {
	if routeCtx := chi.RouteContext(r.Context()); routeCtx != nil {
		if pattern := routeCtx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return "unknown"
}
