package prom

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/matzehuels/authorsphere/pkg/errors"
	"github.com/matzehuels/authorsphere/pkg/observability"
)

const namespace = "authorsphere"

// Metrics implements every observability hook interface on top of
// Prometheus collectors.
type Metrics struct {
	crawls        *prometheus.CounterVec
	crawlDuration prometheus.Histogram
	nodes         *prometheus.CounterVec
	nodeDegree    prometheus.Histogram

	frames        prometheus.Counter
	frameDuration prometheus.Histogram
	visible       prometheus.Gauge

	cacheOps   *prometheus.CounterVec
	cacheBytes prometheus.Counter

	requests        *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	requestErrors   *prometheus.CounterVec
}

var (
	_ observability.CrawlHooks  = (*Metrics)(nil)
	_ observability.LayoutHooks = (*Metrics)(nil)
	_ observability.CacheHooks  = (*Metrics)(nil)
	_ observability.HTTPHooks   = (*Metrics)(nil)
)

// New registers the collectors with reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		// Labels: status (ok, error)
		crawls: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "crawl",
			Name:      "runs_total",
			Help:      "Completed crawls by outcome",
		}, []string{"status"}),
		crawlDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "crawl",
			Name:      "duration_seconds",
			Help:      "Wall time of a crawl",
			Buckets:   []float64{0.1, 1, 5, 15, 30, 60, 120, 300, 600, 1800},
		}),
		// Labels: result (fetched, memoized, skipped)
		nodes: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "crawl",
			Name:      "nodes_total",
			Help:      "Visited nodes by result",
		}, []string{"result"}),
		nodeDegree: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "crawl",
			Name:      "node_degree",
			Help:      "Number of co-authors per fetched node",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 10),
		}),

		frames: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "layout",
			Name:      "frames_total",
			Help:      "Simulated and drawn frames",
		}),
		frameDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "layout",
			Name:      "frame_duration_seconds",
			Help:      "Time to step and draw one frame",
			Buckets:   []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1},
		}),
		visible: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "layout",
			Name:      "visible_nodes",
			Help:      "Nodes drawn in the last frame",
		}),

		// Labels: op (hit, miss, set)
		cacheOps: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "operations_total",
			Help:      "Response cache operations",
		}, []string{"op"}),
		cacheBytes: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "written_bytes_total",
			Help:      "Bytes written to the response cache",
		}),

		// Labels: method, host, status (HTTP status code)
		requests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Outgoing HTTP requests by response status",
		}, []string{"method", "host", "status"}),
		requestDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Outgoing HTTP request latency",
			Buckets:   prometheus.DefBuckets,
		}, []string{"host"}),
		// Labels: host, code (error code)
		requestErrors: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "errors_total",
			Help:      "Outgoing HTTP requests that failed before a response",
		}, []string{"host", "code"}),
	}
}

// Install makes m the active hook implementation for every subsystem.
func (m *Metrics) Install() {
	observability.SetCrawlHooks(m)
	observability.SetLayoutHooks(m)
	observability.SetCacheHooks(m)
	observability.SetHTTPHooks(m)
}

func (m *Metrics) OnCrawlStart(context.Context, string, int) {}

func (m *Metrics) OnCrawlComplete(_ context.Context, _ string, _ int, d time.Duration, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.crawls.WithLabelValues(status).Inc()
	m.crawlDuration.Observe(d.Seconds())
}

func (m *Metrics) OnNodeFetched(_ context.Context, _ string, _ int, degree int) {
	m.nodes.WithLabelValues("fetched").Inc()
	m.nodeDegree.Observe(float64(degree))
}

func (m *Metrics) OnNodeMemoized(context.Context, string, int) {
	m.nodes.WithLabelValues("memoized").Inc()
}

func (m *Metrics) OnNodeSkipped(context.Context, string, error) {
	m.nodes.WithLabelValues("skipped").Inc()
}

func (m *Metrics) OnFrame(_ context.Context, visible int, d time.Duration) {
	m.frames.Inc()
	m.frameDuration.Observe(d.Seconds())
	m.visible.Set(float64(visible))
}

func (m *Metrics) OnCacheHit(context.Context, string)  { m.cacheOps.WithLabelValues("hit").Inc() }
func (m *Metrics) OnCacheMiss(context.Context, string) { m.cacheOps.WithLabelValues("miss").Inc() }

func (m *Metrics) OnCacheSet(_ context.Context, _ string, size int) {
	m.cacheOps.WithLabelValues("set").Inc()
	m.cacheBytes.Add(float64(size))
}

func (m *Metrics) OnRequest(context.Context, string, string, string) {}

func (m *Metrics) OnResponse(_ context.Context, method, host, _ string, status int, d time.Duration) {
	m.requests.WithLabelValues(method, host, statusLabel(status)).Inc()
	m.requestDuration.WithLabelValues(host).Observe(d.Seconds())
}

func (m *Metrics) OnError(_ context.Context, _, host, _ string, err error) {
	code := string(errors.GetCode(err))
	if code == "" {
		code = "unknown"
	}
	m.requestErrors.WithLabelValues(host, code).Inc()
}

func statusLabel(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}
